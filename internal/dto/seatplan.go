package dto

// ── 座位编排模块 DTO ──

// GenerateSeatPlanRequest 生成座位表请求
type GenerateSeatPlanRequest struct {
	RoomIDs        []string `json:"room_ids"        binding:"required,min=1,dive,uuid"`
	SeatingPattern string   `json:"seating_pattern" binding:"omitempty,max=20"`
}

// GenerateSeatPlanResponse 生成结果
type GenerateSeatPlanResponse struct {
	Success                     bool     `json:"success"`
	SeatingPattern              string   `json:"seating_pattern"`
	ExamRoomsCount              int      `json:"exam_rooms_count"`
	SeatAssignmentsCount        int      `json:"seat_assignments_count"`
	InvigilatorAssignmentsCount int      `json:"invigilator_assignments_count"`
	Warnings                    []string `json:"warnings,omitempty"`
}

// CapacityErrorDetails 容量不足时的错误详情
type CapacityErrorDetails struct {
	StudentsCount int `json:"students_count"`
	TotalCapacity int `json:"total_capacity"`
}

// SeatResponse 单个座位
type SeatResponse struct {
	SeatNumber  int    `json:"seat_number"`
	Row         int    `json:"row"`
	Column      int    `json:"column"`
	StudentID   string `json:"student_id"`
	RollNumber  string `json:"roll_number,omitempty"`
	StudentName string `json:"student_name,omitempty"`
}

// InvigilatorDutyResponse 监考分工
type InvigilatorDutyResponse struct {
	InvigilatorID string `json:"invigilator_id"`
	Name          string `json:"name,omitempty"`
	Designation   string `json:"designation,omitempty"`
	Role          string `json:"role"`
}

// ExamRoomDetailResponse 考场详情（含座位与监考）
type ExamRoomDetailResponse struct {
	ID                     string                    `json:"id"`
	ExamID                 string                    `json:"exam_id"`
	RoomID                 string                    `json:"room_id"`
	SeatingPattern         string                    `json:"seating_pattern"`
	Sequence               int                       `json:"sequence"`
	Room                   *RoomResponse             `json:"room,omitempty"`
	SeatAssignments        []SeatResponse            `json:"seat_assignments"`
	InvigilatorAssignments []InvigilatorDutyResponse `json:"invigilator_assignments"`
}
