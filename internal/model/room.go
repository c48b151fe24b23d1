package model

// Room 教室表 — 对应 rooms（排课核心只读）
// 容量暂不与课程规模校验
type Room struct {
	RoomID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	RoomNumber   string `gorm:"type:varchar(20);not null"                      json:"room_number"`
	Building     string `gorm:"type:varchar(100)"                              json:"building,omitempty"`
	Capacity     int    `gorm:"not null;default:0"                             json:"capacity"`
	HasProjector bool   `gorm:"not null;default:false"                         json:"has_projector"`
	BaseModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }
