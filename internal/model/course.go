package model

// Course 课程表 — 对应 courses（排课核心只读）
type Course struct {
	CourseID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Code        string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	Name        string `gorm:"type:varchar(150);not null"                     json:"name"`
	Department  string `gorm:"type:varchar(100);not null"                     json:"department"`
	Credits     int    `gorm:"not null;default:0"                             json:"credits"`
	Description string `gorm:"type:text"                                      json:"description,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
