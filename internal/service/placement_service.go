package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"uni-scheduler/backend/internal/dto"
	"uni-scheduler/backend/internal/model"
	"uni-scheduler/backend/internal/repository"
	pkgerrors "uni-scheduler/backend/pkg/errors"
)

// ── 排课模块业务错误 ──

var (
	ErrPlacementNotFound = errors.New("排课记录不存在")
	ErrCourseNotFound    = errors.New("课程不存在")
	ErrProfessorNotFound = errors.New("教师不存在")
	ErrRoomNotFound      = errors.New("教室不存在")
)

// PlacementService 排课记录业务接口
type PlacementService interface {
	Create(ctx context.Context, req *dto.CreatePlacementRequest) (*dto.PlacementResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PlacementResponse, error)
	List(ctx context.Context, req *dto.PlacementListRequest) ([]dto.PlacementResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePlacementRequest) (*dto.PlacementResponse, error)
	Delete(ctx context.Context, id string) error
}

type placementService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPlacementService 创建 PlacementService 实例
func NewPlacementService(repo *repository.Repository, logger *zap.Logger) PlacementService {
	return &placementService{repo: repo, logger: logger}
}

// Create 创建排课
// 校验顺序：时间格式 → 关联实体存在 → 区间合法 → 事务内加锁并检查教室、教师冲突 → 写入
func (s *placementService) Create(ctx context.Context, req *dto.CreatePlacementRequest) (*dto.PlacementResponse, error) {
	slot, err := parseInterval(req.DayOfWeek, req.StartTime, req.EndTime, req.Semester, req.AcademicYear)
	if err != nil {
		return nil, err
	}

	refs, err := s.resolveRefs(ctx, req.CourseID, req.ProfessorID, req.RoomID)
	if err != nil {
		return nil, err
	}

	if err := slot.Validate(); err != nil {
		return nil, err
	}

	placement := &model.Placement{
		CourseID:    req.CourseID,
		ProfessorID: req.ProfessorID,
		RoomID:      req.RoomID,
	}
	placement.SetInterval(slot)

	if err := commitPlacement(ctx, s.repo, placement, false); err != nil {
		s.logCommitError("创建排课失败", placement, err)
		return nil, err
	}

	refs.attach(placement)
	s.logger.Info("排课已创建",
		zap.String("placement_id", placement.PlacementID),
		zap.String("course_id", placement.CourseID),
		zap.String("day", placement.DayOfWeek),
		zap.String("start", placement.StartTime.String()))

	return toPlacementResponse(placement), nil
}

func (s *placementService) GetByID(ctx context.Context, id string) (*dto.PlacementResponse, error) {
	if !isUUID(id) {
		return nil, ErrPlacementNotFound
	}
	placement, err := s.repo.Placement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlacementNotFound
		}
		s.logger.Error("查询排课失败", zap.String("placement_id", id), zap.Error(err))
		return nil, err
	}
	return toPlacementResponse(placement), nil
}

// List 按课程、教师、教室的优先级选取一个筛选条件；筛选实体不存在时返回对应 NotFound
func (s *placementService) List(ctx context.Context, req *dto.PlacementListRequest) ([]dto.PlacementResponse, error) {
	filter := repository.PlacementFilter{
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
	}

	switch {
	case req.CourseID != "":
		if _, err := s.lookupCourse(ctx, req.CourseID); err != nil {
			return nil, err
		}
		filter.CourseID = req.CourseID
	case req.ProfessorID != "":
		if _, err := s.lookupProfessor(ctx, req.ProfessorID); err != nil {
			return nil, err
		}
		filter.ProfessorID = req.ProfessorID
	case req.RoomID != "":
		if _, err := s.lookupRoom(ctx, req.RoomID); err != nil {
			return nil, err
		}
		filter.RoomID = req.RoomID
	}

	placements, err := s.repo.Placement.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询排课列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PlacementResponse, 0, len(placements))
	for i := range placements {
		result = append(result, *toPlacementResponse(&placements[i]))
	}
	return result, nil
}

// Update 整体替换排课内容，冲突查询排除自身
func (s *placementService) Update(ctx context.Context, id string, req *dto.UpdatePlacementRequest) (*dto.PlacementResponse, error) {
	if !isUUID(id) {
		return nil, ErrPlacementNotFound
	}
	existing, err := s.repo.Placement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlacementNotFound
		}
		s.logger.Error("查询排课失败", zap.String("placement_id", id), zap.Error(err))
		return nil, err
	}

	slot, err := parseInterval(req.DayOfWeek, req.StartTime, req.EndTime, req.Semester, req.AcademicYear)
	if err != nil {
		return nil, err
	}

	refs, err := s.resolveRefs(ctx, req.CourseID, req.ProfessorID, req.RoomID)
	if err != nil {
		return nil, err
	}

	if err := slot.Validate(); err != nil {
		return nil, err
	}

	placement := &model.Placement{
		PlacementID: existing.PlacementID,
		CourseID:    req.CourseID,
		ProfessorID: req.ProfessorID,
		RoomID:      req.RoomID,
		VersionedModel: model.VersionedModel{
			BaseModel: existing.BaseModel,
			Version:   existing.Version,
		},
	}
	placement.SetInterval(slot)

	if err := commitPlacement(ctx, s.repo, placement, true); err != nil {
		s.logCommitError("更新排课失败", placement, err)
		return nil, err
	}

	refs.attach(placement)
	return toPlacementResponse(placement), nil
}

func (s *placementService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrPlacementNotFound
	}
	if err := s.repo.Placement.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlacementNotFound
		}
		s.logger.Error("删除排课失败", zap.String("placement_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("排课已删除", zap.String("placement_id", id))
	return nil
}

// ════════════════════════════════════════════════════════════
// 写入路径：加锁、冲突校验与写入在同一事务内完成
// ════════════════════════════════════════════════════════════

// commitPlacement 对（学期, 日期）加 advisory 锁后检查教室、教师冲突并写入。
// update 为 true 时冲突查询排除自身并走乐观锁更新。
// 排他约束或唯一约束触发时返回 ErrSlotTaken，不自动重试。
func commitPlacement(ctx context.Context, repo *repository.Repository, placement *model.Placement, update bool) error {
	slot := placement.Interval()
	excludeID := ""
	if update {
		excludeID = placement.PlacementID
	}

	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Placement.LockSlot(ctx, slot.Day, slot.Term); err != nil {
			return err
		}

		rooms, err := tx.Placement.FindRoomConflicts(ctx, placement.RoomID, slot, excludeID)
		if err != nil {
			return err
		}
		if len(rooms) > 0 {
			return ErrRoomConflict
		}

		professors, err := tx.Placement.FindProfessorConflicts(ctx, placement.ProfessorID, slot, excludeID)
		if err != nil {
			return err
		}
		if len(professors) > 0 {
			return ErrProfessorConflict
		}

		if update {
			return tx.Placement.Update(ctx, placement)
		}
		return tx.Placement.Create(ctx, placement)
	})

	if pkgerrors.IsIntegrityViolation(err) {
		return fmt.Errorf("%w: %s", ErrSlotTaken, pkgerrors.ConstraintName(err))
	}
	return err
}

func (s *placementService) logCommitError(msg string, p *model.Placement, err error) {
	if errors.Is(err, ErrRoomConflict) || errors.Is(err, ErrProfessorConflict) || errors.Is(err, ErrSlotTaken) {
		s.logger.Info(msg,
			zap.String("room_id", p.RoomID),
			zap.String("professor_id", p.ProfessorID),
			zap.String("day", p.DayOfWeek),
			zap.Error(err))
		return
	}
	s.logger.Error(msg, zap.String("placement_id", p.PlacementID), zap.Error(err))
}

// isUUID 非 UUID 的 id 不下发到数据库（uuid 列会报 22P02）
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// ── 关联实体 ──

type placementRefs struct {
	course    *model.Course
	professor *model.Professor
	room      *model.Room
}

func (r placementRefs) attach(p *model.Placement) {
	p.Course = r.course
	p.Professor = r.professor
	p.Room = r.room
}

func (s *placementService) resolveRefs(ctx context.Context, courseID, professorID, roomID string) (placementRefs, error) {
	var refs placementRefs
	var err error

	if refs.course, err = s.lookupCourse(ctx, courseID); err != nil {
		return refs, err
	}
	if refs.professor, err = s.lookupProfessor(ctx, professorID); err != nil {
		return refs, err
	}
	if refs.room, err = s.lookupRoom(ctx, roomID); err != nil {
		return refs, err
	}
	return refs, nil
}

func (s *placementService) lookupCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *placementService) lookupProfessor(ctx context.Context, id string) (*model.Professor, error) {
	professor, err := s.repo.Professor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfessorNotFound
		}
		s.logger.Error("查询教师失败", zap.String("professor_id", id), zap.Error(err))
		return nil, err
	}
	return professor, nil
}

func (s *placementService) lookupRoom(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("room_id", id), zap.Error(err))
		return nil, err
	}
	return room, nil
}

// ── DTO 转换 ──

func toPlacementResponse(p *model.Placement) *dto.PlacementResponse {
	resp := &dto.PlacementResponse{
		ID:           p.PlacementID,
		CourseID:     p.CourseID,
		ProfessorID:  p.ProfessorID,
		RoomID:       p.RoomID,
		DayOfWeek:    p.DayOfWeek,
		StartTime:    p.StartTime.String(),
		EndTime:      p.EndTime.String(),
		Semester:     p.Semester,
		AcademicYear: p.AcademicYear,
		Version:      p.Version,
	}
	if !p.CreatedAt.IsZero() {
		resp.CreatedAt = p.CreatedAt.Format(time.RFC3339)
	}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	if p.Course != nil {
		resp.Course = &dto.CourseBrief{
			ID:         p.Course.CourseID,
			Code:       p.Course.Code,
			Name:       p.Course.Name,
			Department: p.Course.Department,
		}
	}
	if p.Professor != nil {
		resp.Professor = &dto.ProfessorBrief{
			ID:         p.Professor.ProfessorID,
			Name:       p.Professor.FullName(),
			Department: p.Professor.Department,
		}
	}
	if p.Room != nil {
		resp.Room = &dto.RoomBrief{
			ID:         p.Room.RoomID,
			RoomNumber: p.Room.RoomNumber,
			Building:   p.Room.Building,
			Capacity:   p.Room.Capacity,
		}
	}
	return resp
}
