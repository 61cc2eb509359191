package model

// Student 考生表，对应 students
type Student struct {
	StudentID    string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"   json:"student_id"`
	RollNumber   string      `gorm:"type:varchar(20);not null;uniqueIndex"            json:"roll_number"`
	Name         string      `gorm:"type:text;not null"                               json:"name"`
	DepartmentID string      `gorm:"type:uuid;not null;index"                         json:"department_id"`
	IsActive     bool        `gorm:"not null;default:true"                            json:"is_active"`
	Department   *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Student) TableName() string { return "students" }
