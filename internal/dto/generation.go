package dto

// ── 自动排课 DTO ──

// GenerateScheduleRequest 自动排课请求
// 课程、日期、开始时间均按给定顺序尝试；DurationHours 为 0 时使用系统默认时长
type GenerateScheduleRequest struct {
	CourseIDs     []string `json:"course_ids"     binding:"dive,uuid"`
	Days          []string `json:"days"           binding:"dive,required,max=20"`
	StartTimes    []string `json:"start_times"    binding:"dive,required"`
	DurationHours int      `json:"duration_hours" binding:"omitempty,min=1,max=24"`
	Semester      string   `json:"semester"       binding:"required,max=50"`
	AcademicYear  string   `json:"academic_year"  binding:"required,max=9"`
}

// CourseOutcomeResponse 单门课程排课结果
type CourseOutcomeResponse struct {
	CourseID    string `json:"course_id"`
	CourseCode  string `json:"course_code,omitempty"`
	Status      string `json:"status"`           // placed / unplaced
	Reason      string `json:"reason,omitempty"` // no_professors / no_free_combination
	PlacementID string `json:"placement_id,omitempty"`
}

// GenerateScheduleResponse 自动排课结果
type GenerateScheduleResponse struct {
	Status        string                  `json:"status"` // complete / partial / none / empty_request
	PlacedCount   int                     `json:"placed_count"`
	UnplacedCount int                     `json:"unplaced_count"`
	PendingCount  int                     `json:"pending_count"` // 中断时未处理的课程数
	Placements    []PlacementResponse     `json:"placements"`
	Outcomes      []CourseOutcomeResponse `json:"outcomes"`
}
