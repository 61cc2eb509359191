package seating

import (
	"errors"
	"fmt"
)

// ProblemKind 前置校验失败类型
type ProblemKind string

const (
	KindCapacityExceeded   ProblemKind = "capacity_exceeded"
	KindNoStudentsFound    ProblemKind = "no_students_found"
	KindEmptyRoomSelection ProblemKind = "empty_room_selection"
)

// 与 ProblemKind 一一对应的哨兵错误，供 errors.Is 匹配
var (
	ErrCapacityExceeded   = errors.New("所选考场容量不足")
	ErrNoStudentsFound    = errors.New("该院系没有学生")
	ErrEmptyRoomSelection = errors.New("未选择考场")
)

func (k ProblemKind) sentinel() error {
	switch k {
	case KindCapacityExceeded:
		return ErrCapacityExceeded
	case KindNoStudentsFound:
		return ErrNoStudentsFound
	case KindEmptyRoomSelection:
		return ErrEmptyRoomSelection
	}
	return nil
}

// PlanError 结构化的生成失败（类型 + 诊断数据）
type PlanError struct {
	Kind          ProblemKind
	StudentCount  int
	RoomCount     int
	TotalCapacity int
}

func (e *PlanError) Error() string {
	switch e.Kind {
	case KindCapacityExceeded:
		return fmt.Sprintf("%s: 学生 %d 人, 可用容量 %d", ErrCapacityExceeded, e.StudentCount, e.TotalCapacity)
	case KindNoStudentsFound:
		return ErrNoStudentsFound.Error()
	case KindEmptyRoomSelection:
		return ErrEmptyRoomSelection.Error()
	}
	return fmt.Sprintf("座位编排失败: %s", e.Kind)
}

// Is 使 errors.Is(err, ErrCapacityExceeded) 等匹配成立
func (e *PlanError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && s == target
}
