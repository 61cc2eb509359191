package seating

// Problem 单条校验问题
type Problem struct {
	Kind    ProblemKind
	Message string
}

// ValidationResult 前置校验结果
type ValidationResult struct {
	Valid         bool
	Problems      []Problem
	StudentCount  int
	RoomCount     int
	TotalCapacity int // 各考场实际可用容量之和
}

// Err 校验失败时返回以首个问题为类型的 *PlanError，通过时返回 nil
func (v ValidationResult) Err() error {
	if v.Valid || len(v.Problems) == 0 {
		return nil
	}
	return &PlanError{
		Kind:          v.Problems[0].Kind,
		StudentCount:  v.StudentCount,
		RoomCount:     v.RoomCount,
		TotalCapacity: v.TotalCapacity,
	}
}

// Validate 在引擎运行前检查输入。
// 容量按 min(capacity, rows*columns) 累加，与 Fill 的装填额度一致。
func Validate(students []StudentRef, rooms []RoomRef) ValidationResult {
	res := ValidationResult{
		StudentCount:  len(students),
		RoomCount:     len(rooms),
		TotalCapacity: TotalCapacity(rooms),
	}

	if len(rooms) == 0 {
		res.Problems = append(res.Problems, Problem{
			Kind:    KindEmptyRoomSelection,
			Message: ErrEmptyRoomSelection.Error(),
		})
	}
	if len(students) == 0 {
		res.Problems = append(res.Problems, Problem{
			Kind:    KindNoStudentsFound,
			Message: ErrNoStudentsFound.Error(),
		})
	}
	if len(res.Problems) == 0 && res.StudentCount > res.TotalCapacity {
		res.Problems = append(res.Problems, Problem{
			Kind:    KindCapacityExceeded,
			Message: (&PlanError{Kind: KindCapacityExceeded, StudentCount: res.StudentCount, TotalCapacity: res.TotalCapacity}).Error(),
		})
	}

	res.Valid = len(res.Problems) == 0
	return res
}

// TotalCapacity 各考场实际可用容量之和
func TotalCapacity(rooms []RoomRef) int {
	total := 0
	for _, r := range rooms {
		total += r.EffectiveCapacity()
	}
	return total
}
