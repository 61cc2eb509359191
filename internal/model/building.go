package model

// Building 教学楼表，对应 buildings
type Building struct {
	BuildingID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"building_id"`
	Code       string `gorm:"type:varchar(10);not null;uniqueIndex"          json:"code"`
	Name       string `gorm:"type:varchar(50);not null"                      json:"name"`
	BaseModel
}

// TableName 指定表名
func (Building) TableName() string { return "buildings" }
