package model

// Department 院系表，对应 departments
type Department struct {
	DepartmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Code         string `gorm:"type:varchar(10);not null;uniqueIndex"          json:"code"`
	Name         string `gorm:"type:text;not null"                             json:"name"`
	Description  string `gorm:"type:text"                                      json:"description,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
