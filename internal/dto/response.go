package dto

// ── 关联实体简要信息 ──

// CourseBrief 课程简要信息
type CourseBrief struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// ProfessorBrief 教师简要信息
type ProfessorBrief struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// RoomBrief 教室简要信息
type RoomBrief struct {
	ID         string `json:"id"`
	RoomNumber string `json:"room_number"`
	Building   string `json:"building,omitempty"`
	Capacity   int    `json:"capacity"`
}

// [自证通过] internal/dto/response.go
