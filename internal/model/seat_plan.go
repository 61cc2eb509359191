package model

import "time"

// ExamRoom 考试与教室的关联，对应 exam_rooms
// 每次生成座位表时整体替换
type ExamRoom struct {
	ExamRoomID             string                  `gorm:"type:uuid;primaryKey"                    json:"exam_room_id"`
	ExamID                 string                  `gorm:"type:uuid;not null;index"                json:"exam_id"`
	RoomID                 string                  `gorm:"type:uuid;not null"                      json:"room_id"`
	SeatingPattern         string                  `gorm:"type:varchar(20);not null"               json:"seating_pattern"`
	Sequence               int                     `gorm:"not null"                                json:"sequence"`
	CreatedAt              time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP"      json:"created_at"`
	Room                   *Room                   `gorm:"foreignKey:RoomID;references:RoomID"     json:"room,omitempty"`
	SeatAssignments        []SeatAssignment        `gorm:"foreignKey:ExamRoomID"                   json:"seat_assignments,omitempty"`
	InvigilatorAssignments []InvigilatorAssignment `gorm:"foreignKey:ExamRoomID"                   json:"invigilator_assignments,omitempty"`
}

// TableName 指定表名
func (ExamRoom) TableName() string { return "exam_rooms" }

// SeatAssignment 考生座位，对应 seat_assignments
type SeatAssignment struct {
	SeatAssignmentID string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"seat_assignment_id"`
	ExamRoomID       string   `gorm:"type:uuid;not null"                             json:"exam_room_id"`
	StudentID        string   `gorm:"type:uuid;not null"                             json:"student_id"`
	SeatNumber       int      `gorm:"not null"                                       json:"seat_number"`
	Row              int      `gorm:"column:row;not null"                            json:"row"`
	Column           int      `gorm:"column:column;not null"                         json:"column"`
	Student          *Student `gorm:"foreignKey:StudentID;references:StudentID"     json:"student,omitempty"`
}

// TableName 指定表名
func (SeatAssignment) TableName() string { return "seat_assignments" }

// InvigilatorAssignment 监考分工，对应 invigilator_assignments
type InvigilatorAssignment struct {
	InvigilatorAssignmentID string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"     json:"invigilator_assignment_id"`
	ExamRoomID              string       `gorm:"type:uuid;not null"                                 json:"exam_room_id"`
	InvigilatorID           string       `gorm:"type:uuid;not null"                                 json:"invigilator_id"`
	Role                    string       `gorm:"type:varchar(20);not null"                          json:"role"`
	Invigilator             *Invigilator `gorm:"foreignKey:InvigilatorID;references:InvigilatorID" json:"invigilator,omitempty"`
}

// TableName 指定表名
func (InvigilatorAssignment) TableName() string { return "invigilator_assignments" }
