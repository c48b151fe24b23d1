package dto

// ── 排课模块 DTO ──

// CreatePlacementRequest 创建排课请求
// 时间格式 HH:MM 或 HH:MM:SS，结束时间允许 24:00
type CreatePlacementRequest struct {
	CourseID     string `json:"course_id"     binding:"required,uuid"`
	ProfessorID  string `json:"professor_id"  binding:"required,uuid"`
	RoomID       string `json:"room_id"       binding:"required,uuid"`
	DayOfWeek    string `json:"day_of_week"   binding:"required,max=20"`
	StartTime    string `json:"start_time"    binding:"required"`
	EndTime      string `json:"end_time"      binding:"required"`
	Semester     string `json:"semester"      binding:"required,max=50"`
	AcademicYear string `json:"academic_year" binding:"required,max=9"`
}

// UpdatePlacementRequest 更新排课请求（整体替换）
type UpdatePlacementRequest struct {
	CourseID     string `json:"course_id"     binding:"required,uuid"`
	ProfessorID  string `json:"professor_id"  binding:"required,uuid"`
	RoomID       string `json:"room_id"       binding:"required,uuid"`
	DayOfWeek    string `json:"day_of_week"   binding:"required,max=20"`
	StartTime    string `json:"start_time"    binding:"required"`
	EndTime      string `json:"end_time"      binding:"required"`
	Semester     string `json:"semester"      binding:"required,max=50"`
	AcademicYear string `json:"academic_year" binding:"required,max=9"`
}

// PlacementListRequest 排课列表查询参数
// 课程、教师、教室筛选按此优先级只取其一；学期筛选可叠加
type PlacementListRequest struct {
	CourseID     string `form:"course_id"     binding:"omitempty,uuid"`
	ProfessorID  string `form:"professor_id"  binding:"omitempty,uuid"`
	RoomID       string `form:"room_id"       binding:"omitempty,uuid"`
	Semester     string `form:"semester"      binding:"omitempty,max=50"`
	AcademicYear string `form:"academic_year" binding:"omitempty,max=9"`
}

// SlotQuery 冲突查询的时间区间参数
type SlotQuery struct {
	DayOfWeek    string `form:"day_of_week"   binding:"required,max=20"`
	StartTime    string `form:"start_time"    binding:"required"`
	EndTime      string `form:"end_time"      binding:"required"`
	Semester     string `form:"semester"      binding:"required,max=50"`
	AcademicYear string `form:"academic_year" binding:"required,max=9"`
}

// RoomConflictRequest 教室冲突查询
type RoomConflictRequest struct {
	RoomID string `form:"room_id" binding:"required,uuid"`
	SlotQuery
}

// ProfessorConflictRequest 教师冲突查询
type ProfessorConflictRequest struct {
	ProfessorID string `form:"professor_id" binding:"required,uuid"`
	SlotQuery
}

// ConflictCheckResponse 冲突查询结果，Conflicts 为空表示空闲
type ConflictCheckResponse struct {
	HasConflict bool                `json:"has_conflict"`
	Conflicts   []PlacementResponse `json:"conflicts"`
}

// PlacementResponse 排课信息响应
type PlacementResponse struct {
	ID           string          `json:"id"`
	Course       *CourseBrief    `json:"course,omitempty"`
	Professor    *ProfessorBrief `json:"professor,omitempty"`
	Room         *RoomBrief      `json:"room,omitempty"`
	CourseID     string          `json:"course_id"`
	ProfessorID  string          `json:"professor_id"`
	RoomID       string          `json:"room_id"`
	DayOfWeek    string          `json:"day_of_week"`
	StartTime    string          `json:"start_time"`
	EndTime      string          `json:"end_time"`
	Semester     string          `json:"semester"`
	AcademicYear string          `json:"academic_year"`
	Version      int             `json:"version"`
	CreatedAt    string          `json:"created_at,omitempty"`
	UpdatedAt    string          `json:"updated_at,omitempty"`
}
