package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"uni-scheduler/backend/internal/dto"
	"uni-scheduler/backend/internal/model"
	"uni-scheduler/backend/internal/repository"
)

// ── 时间与冲突相关业务错误 ──

var (
	ErrInvalidTimeFormat = errors.New("时间格式无效，应为 HH:MM 或 HH:MM:SS")
	ErrRoomConflict      = errors.New("该教室在此时段已有安排")
	ErrProfessorConflict = errors.New("该教师在此时段已有安排")
	ErrSlotTaken         = errors.New("时段已被占用，请重新选择")
)

// ConflictService 冲突查询业务接口
// 仅读取已提交的排课，结果为空即空闲；仅校验区间合法性
type ConflictService interface {
	FindRoomConflicts(ctx context.Context, req *dto.RoomConflictRequest) (*dto.ConflictCheckResponse, error)
	FindProfessorConflicts(ctx context.Context, req *dto.ProfessorConflictRequest) (*dto.ConflictCheckResponse, error)
}

type conflictService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewConflictService 创建 ConflictService 实例
func NewConflictService(repo *repository.Repository, logger *zap.Logger) ConflictService {
	return &conflictService{repo: repo, logger: logger}
}

func (s *conflictService) FindRoomConflicts(ctx context.Context, req *dto.RoomConflictRequest) (*dto.ConflictCheckResponse, error) {
	slot, err := parseSlotQuery(&req.SlotQuery)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.repo.Placement.FindRoomConflicts(ctx, req.RoomID, slot, "")
	if err != nil {
		s.logger.Error("查询教室冲突失败", zap.String("room_id", req.RoomID), zap.Error(err))
		return nil, err
	}
	return toConflictResponse(conflicts), nil
}

func (s *conflictService) FindProfessorConflicts(ctx context.Context, req *dto.ProfessorConflictRequest) (*dto.ConflictCheckResponse, error) {
	slot, err := parseSlotQuery(&req.SlotQuery)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.repo.Placement.FindProfessorConflicts(ctx, req.ProfessorID, slot, "")
	if err != nil {
		s.logger.Error("查询教师冲突失败", zap.String("professor_id", req.ProfessorID), zap.Error(err))
		return nil, err
	}
	return toConflictResponse(conflicts), nil
}

// ── 排课引擎使用的冲突查询 ──

// repoChecker 直接读取仓储中已提交的排课
type repoChecker struct {
	repo *repository.Repository
}

func (c *repoChecker) FindRoomConflicts(ctx context.Context, roomID string, slot model.TimeInterval) ([]model.Placement, error) {
	return c.repo.Placement.FindRoomConflicts(ctx, roomID, slot, "")
}

func (c *repoChecker) FindProfessorConflicts(ctx context.Context, professorID string, slot model.TimeInterval) ([]model.Placement, error) {
	return c.repo.Placement.FindProfessorConflicts(ctx, professorID, slot, "")
}

// ── 内部方法 ──

func parseSlotQuery(q *dto.SlotQuery) (model.TimeInterval, error) {
	slot, err := parseInterval(q.DayOfWeek, q.StartTime, q.EndTime, q.Semester, q.AcademicYear)
	if err != nil {
		return slot, err
	}
	if err := slot.Validate(); err != nil {
		return slot, err
	}
	return slot, nil
}

// parseInterval 解析并规范化区间，不校验 End > Start
func parseInterval(day, start, end, semester, academicYear string) (model.TimeInterval, error) {
	startAt, err := model.ParseClockTime(start)
	if err != nil || startAt == model.EndOfDay {
		return model.TimeInterval{}, ErrInvalidTimeFormat
	}
	endAt, err := model.ParseClockTime(end)
	if err != nil {
		return model.TimeInterval{}, ErrInvalidTimeFormat
	}
	return model.TimeInterval{
		Day:   model.NormalizeDay(day),
		Start: startAt,
		End:   endAt,
		Term:  model.Term{Semester: semester, AcademicYear: academicYear},
	}, nil
}

func toConflictResponse(conflicts []model.Placement) *dto.ConflictCheckResponse {
	resp := &dto.ConflictCheckResponse{
		HasConflict: len(conflicts) > 0,
		Conflicts:   make([]dto.PlacementResponse, 0, len(conflicts)),
	}
	for i := range conflicts {
		resp.Conflicts = append(resp.Conflicts, *toPlacementResponse(&conflicts[i]))
	}
	return resp
}
