package model

import "time"

// 考试状态
const (
	ExamStatusDraft   = "draft"   // 已创建，尚未排座
	ExamStatusPlanned = "planned" // 已生成座位表
)

// Exam 考试表，对应 exams
type Exam struct {
	ExamID       string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"   json:"exam_id"`
	Name         string      `gorm:"type:text;not null"                               json:"name"`
	Date         time.Time   `gorm:"not null"                                         json:"date"`
	Shift        string      `gorm:"type:varchar(10);not null"                        json:"shift"`
	Course       string      `gorm:"type:text;not null"                               json:"course"`
	DepartmentID string      `gorm:"type:uuid;not null"                               json:"department_id"`
	Status       string      `gorm:"type:varchar(20);not null;default:draft"          json:"status"`
	Department   *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Exam) TableName() string { return "exams" }
