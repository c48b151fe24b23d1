package model

// Placement 排课记录表 — 对应 placements
// 同一教室（或同一教师）在同一学期同一天的区间不得重叠，由数据库排他约束兜底。
type Placement struct {
	PlacementID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"placement_id"`
	CourseID     string    `gorm:"type:uuid;not null;index"                       json:"course_id"`
	ProfessorID  string    `gorm:"type:uuid;not null;index"                       json:"professor_id"`
	RoomID       string    `gorm:"type:uuid;not null;index"                       json:"room_id"`
	DayOfWeek    string    `gorm:"type:varchar(20);not null"                      json:"day_of_week"`
	StartTime    ClockTime `gorm:"type:time;not null"                             json:"start_time"`
	EndTime      ClockTime `gorm:"type:time;not null"                             json:"end_time"`
	Semester     string    `gorm:"type:varchar(50);not null"                      json:"semester"`
	AcademicYear string    `gorm:"type:varchar(9);not null"                       json:"academic_year"`
	VersionedModel

	// 关联
	Course    *Course    `gorm:"foreignKey:CourseID;references:CourseID"       json:"course,omitempty"`
	Professor *Professor `gorm:"foreignKey:ProfessorID;references:ProfessorID" json:"professor,omitempty"`
	Room      *Room      `gorm:"foreignKey:RoomID;references:RoomID"           json:"room,omitempty"`
}

// TableName 指定表名
func (Placement) TableName() string { return "placements" }

// Interval 返回该排课占用的时间区间
func (p *Placement) Interval() TimeInterval {
	return TimeInterval{
		Day:   p.DayOfWeek,
		Start: p.StartTime,
		End:   p.EndTime,
		Term:  p.Term(),
	}
}

// Term 返回所属学期
func (p *Placement) Term() Term {
	return Term{Semester: p.Semester, AcademicYear: p.AcademicYear}
}

// SetInterval 写入时间区间及学期
func (p *Placement) SetInterval(iv TimeInterval) {
	p.DayOfWeek = iv.Day
	p.StartTime = iv.Start
	p.EndTime = iv.End
	p.Semester = iv.Term.Semester
	p.AcademicYear = iv.Term.AcademicYear
}
