package model

// Invigilator 监考教师表，对应 invigilators
// Rank 取值 chief / main / junior，由 Designation 推导或显式指定
type Invigilator struct {
	InvigilatorID string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"   json:"invigilator_id"`
	Name          string      `gorm:"type:text;not null"                               json:"name"`
	Designation   string      `gorm:"type:varchar(50);not null"                        json:"designation"`
	Rank          string      `gorm:"type:varchar(20);not null"                        json:"rank"`
	DepartmentID  *string     `gorm:"type:uuid"                                        json:"department_id,omitempty"`
	IsActive      bool        `gorm:"not null;default:true"                            json:"is_active"`
	Department    *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Invigilator) TableName() string { return "invigilators" }
