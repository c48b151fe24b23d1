package model

import "strings"

// Professor 教师表 — 对应 professors（排课核心只读，仅用于院系匹配）
type Professor struct {
	ProfessorID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"professor_id"`
	FirstName   string `gorm:"type:varchar(50);not null"                      json:"first_name"`
	LastName    string `gorm:"type:varchar(50);not null"                      json:"last_name"`
	Email       string `gorm:"type:varchar(100);uniqueIndex"                  json:"email,omitempty"`
	Department  string `gorm:"type:varchar(100);not null"                     json:"department"`
	Office      string `gorm:"type:varchar(50)"                               json:"office,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Professor) TableName() string { return "professors" }

// FullName 教师姓名
func (p Professor) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// SameDepartment 院系标签不区分大小写比较
func (p Professor) SameDepartment(department string) bool {
	return strings.EqualFold(p.Department, department)
}
