package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"uni-scheduler/backend/internal/model"
	pkgerrors "uni-scheduler/backend/pkg/errors"
)

// PlacementFilter 排课列表筛选条件，空字段表示不过滤
type PlacementFilter struct {
	CourseID     string
	ProfessorID  string
	RoomID       string
	Semester     string
	AcademicYear string
}

// PlacementRepository 排课记录数据访问接口
type PlacementRepository interface {
	Create(ctx context.Context, placement *model.Placement) error
	GetByID(ctx context.Context, id string) (*model.Placement, error)
	List(ctx context.Context, filter PlacementFilter) ([]model.Placement, error)
	Update(ctx context.Context, placement *model.Placement) error
	Delete(ctx context.Context, id string) error

	// FindRoomConflicts 查询同教室、同日、同学期且区间重叠的排课；excludeID 非空时排除该记录
	FindRoomConflicts(ctx context.Context, roomID string, slot model.TimeInterval, excludeID string) ([]model.Placement, error)
	// FindProfessorConflicts 查询同教师、同日、同学期且区间重叠的排课
	FindProfessorConflicts(ctx context.Context, professorID string, slot model.TimeInterval, excludeID string) ([]model.Placement, error)

	// LockSlot 对（学期, 日期）加事务级 advisory 锁，必须在事务连接上调用
	LockSlot(ctx context.Context, day string, term model.Term) error
}

type placementRepo struct {
	db *gorm.DB
}

// NewPlacementRepo 创建 PlacementRepository 实例
func NewPlacementRepo(db *gorm.DB) PlacementRepository {
	return &placementRepo{db: db}
}

func (r *placementRepo) Create(ctx context.Context, placement *model.Placement) error {
	return r.db.WithContext(ctx).
		Omit("Course", "Professor", "Room").
		Create(placement).Error
}

func (r *placementRepo) GetByID(ctx context.Context, id string) (*model.Placement, error) {
	var placement model.Placement
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Professor").
		Preload("Room").
		Where("placement_id = ?", id).
		First(&placement).Error
	if err != nil {
		return nil, err
	}
	return &placement, nil
}

func (r *placementRepo) List(ctx context.Context, filter PlacementFilter) ([]model.Placement, error) {
	var placements []model.Placement
	db := r.db.WithContext(ctx)

	if filter.CourseID != "" {
		db = db.Where("course_id = ?", filter.CourseID)
	}
	if filter.ProfessorID != "" {
		db = db.Where("professor_id = ?", filter.ProfessorID)
	}
	if filter.RoomID != "" {
		db = db.Where("room_id = ?", filter.RoomID)
	}
	if filter.Semester != "" {
		db = db.Where("semester = ?", filter.Semester)
	}
	if filter.AcademicYear != "" {
		db = db.Where("academic_year = ?", filter.AcademicYear)
	}

	err := db.Preload("Course").
		Preload("Professor").
		Preload("Room").
		Order(placementOrder).
		Find(&placements).Error
	return placements, err
}

func (r *placementRepo) Update(ctx context.Context, placement *model.Placement) error {
	oldVersion := placement.Version
	result := r.db.WithContext(ctx).
		Model(&model.Placement{}).
		Where("placement_id = ? AND version = ?", placement.PlacementID, oldVersion).
		Updates(map[string]interface{}{
			"course_id":     placement.CourseID,
			"professor_id":  placement.ProfessorID,
			"room_id":       placement.RoomID,
			"day_of_week":   placement.DayOfWeek,
			"start_time":    placement.StartTime,
			"end_time":      placement.EndTime,
			"semester":      placement.Semester,
			"academic_year": placement.AcademicYear,
			"updated_at":    gorm.Expr("NOW()"),
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	placement.Version = oldVersion + 1
	return nil
}

func (r *placementRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("placement_id = ?", id).
		Delete(&model.Placement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── 冲突查询 ──

func (r *placementRepo) FindRoomConflicts(ctx context.Context, roomID string, slot model.TimeInterval, excludeID string) ([]model.Placement, error) {
	return r.findOverlapping(ctx, "room_id", roomID, slot, excludeID)
}

func (r *placementRepo) FindProfessorConflicts(ctx context.Context, professorID string, slot model.TimeInterval, excludeID string) ([]model.Placement, error) {
	return r.findOverlapping(ctx, "professor_id", professorID, slot, excludeID)
}

// placementOrder 学期内按星期顺序（周一在前）排列，非星期标签排在最后并按字母序
var placementOrder = "academic_year ASC, semester ASC, " + weekdayOrdinalSQL() + " ASC, day_of_week ASC, start_time ASC"

func weekdayOrdinalSQL() string {
	var b strings.Builder
	b.WriteString("CASE day_of_week")
	for i, day := range model.Weekdays {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", day, i+1)
	}
	fmt.Fprintf(&b, " ELSE %d END", len(model.Weekdays)+1)
	return b.String()
}

// findOverlapping 半开区间重叠：start < :end AND end > :start
func (r *placementRepo) findOverlapping(ctx context.Context, column, id string, slot model.TimeInterval, excludeID string) ([]model.Placement, error) {
	var placements []model.Placement
	db := r.db.WithContext(ctx).
		Where(column+" = ?", id).
		Where("day_of_week = ? AND semester = ? AND academic_year = ?",
			slot.Day, slot.Term.Semester, slot.Term.AcademicYear).
		Where("start_time < ? AND end_time > ?", slot.End, slot.Start)

	if excludeID != "" {
		db = db.Where("placement_id <> ?", excludeID)
	}

	if err := db.Order("start_time ASC").Find(&placements).Error; err != nil {
		return nil, err
	}
	return keepConflicting(placements, slot), nil
}

// keepConflicting 按 model.Conflicts 复核查询结果，SQL 与模型语义一致时不改变结果
func keepConflicting(placements []model.Placement, slot model.TimeInterval) []model.Placement {
	return lo.Filter(placements, func(p model.Placement, _ int) bool {
		return model.Conflicts(p.Interval(), slot)
	})
}

// ── 写锁 ──

func (r *placementRepo) LockSlot(ctx context.Context, day string, term model.Term) error {
	key := fmt.Sprintf("placement:%s|%s|%s", term.Semester, term.AcademicYear, day)
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}
