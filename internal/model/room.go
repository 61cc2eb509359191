package model

// 教室类型
const (
	RoomTypeStandard   = "standard"
	RoomTypeHall       = "hall"
	RoomTypeConference = "conference"
)

// Room 考场教室表，对应 rooms
// Rows × Columns 为座位网格，Capacity 为可排座人数上限
type Room struct {
	RoomID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Number     string    `gorm:"type:varchar(20);not null"                      json:"number"`
	Name       string    `gorm:"type:varchar(100);not null"                     json:"name"`
	BuildingID string    `gorm:"type:uuid;not null;index"                       json:"building_id"`
	Floor      int       `gorm:"not null;default:0"                             json:"floor"`
	Capacity   int       `gorm:"not null"                                       json:"capacity"`
	Rows       int       `gorm:"column:rows;not null"                           json:"rows"`
	Columns    int       `gorm:"column:columns;not null"                        json:"columns"`
	RoomType   string    `gorm:"type:varchar(20);not null;default:standard"     json:"room_type"`
	IsActive   bool      `gorm:"not null;default:true"                          json:"is_active"`
	Building   *Building `gorm:"foreignKey:BuildingID;references:BuildingID"     json:"building,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }
