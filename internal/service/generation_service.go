package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"uni-scheduler/backend/config"
	"uni-scheduler/backend/internal/dto"
	"uni-scheduler/backend/internal/model"
	"uni-scheduler/backend/internal/repository"
	"uni-scheduler/backend/internal/scheduler"
	pkgerrors "uni-scheduler/backend/pkg/errors"
)

// ErrGenerationInProgress 同一学期已有自动排课在执行
var ErrGenerationInProgress = errors.New("该学期正在自动排课，请稍后重试")

// Locker 分布式锁
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// GenerationService 自动排课业务接口
type GenerationService interface {
	// Generate 执行一次首次适配排课。
	// 中途出错时仍返回已提交部分，错误一并返回。
	Generate(ctx context.Context, req *dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
}

type generationService struct {
	cfg    *config.SchedulerConfig
	repo   *repository.Repository
	locker Locker
	logger *zap.Logger
}

// NewGenerationService 创建 GenerationService 实例，locker 可为 nil
func NewGenerationService(cfg *config.SchedulerConfig, repo *repository.Repository, locker Locker, logger *zap.Logger) GenerationService {
	return &generationService{cfg: cfg, repo: repo, locker: locker, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Generate — 首次适配自动排课
// ════════════════════════════════════════════════════════════

func (s *generationService) Generate(ctx context.Context, req *dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	term := model.Term{Semester: req.Semester, AcademicYear: req.AcademicYear}

	// ── 阶段1: 解析请求 ──

	startTimes := make([]model.ClockTime, 0, len(req.StartTimes))
	for _, raw := range req.StartTimes {
		ct, err := model.ParseClockTime(raw)
		if err != nil || ct == model.EndOfDay {
			return nil, ErrInvalidTimeFormat
		}
		startTimes = append(startTimes, ct)
	}

	days := lo.Map(req.Days, func(d string, _ int) string { return model.NormalizeDay(d) })

	hours := req.DurationHours
	if hours <= 0 {
		hours = s.cfg.DefaultDurationHours
	}

	// ── 阶段2: 数据准备 ──

	courses, err := s.resolveCourses(ctx, req.CourseIDs)
	if err != nil {
		return nil, err
	}

	professors, err := s.repo.Professor.List(ctx)
	if err != nil {
		s.logger.Error("查询教师列表失败", zap.Error(err))
		return nil, err
	}
	rooms, err := s.repo.Room.List(ctx)
	if err != nil {
		s.logger.Error("查询教室列表失败", zap.Error(err))
		return nil, err
	}

	// ── 阶段3: 学期级互斥 ──

	if s.locker != nil {
		key := fmt.Sprintf("schedule:generate:%s:%s", term.Semester, term.AcademicYear)
		token, err := s.locker.AcquireLock(ctx, key, s.cfg.GenerationLockTTL)
		if err != nil {
			if errors.Is(err, pkgerrors.ErrLockNotAcquired) {
				return nil, ErrGenerationInProgress
			}
			s.logger.Error("获取排课锁失败", zap.String("key", key), zap.Error(err))
			return nil, err
		}
		defer func() {
			if err := s.locker.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
				s.logger.Warn("释放排课锁失败", zap.String("key", key), zap.Error(err))
			}
		}()
	}

	// ── 阶段4: 搜索与提交 ──

	engine := scheduler.NewEngine(
		&repoChecker{repo: s.repo},
		&storeCommitter{repo: s.repo},
		s.logger,
	)
	result, runErr := engine.Run(ctx, scheduler.Input{
		Courses:    courses,
		Professors: professors,
		Rooms:      rooms,
		Term:       term,
		Days:       days,
		StartTimes: startTimes,
		Duration:   time.Duration(hours) * time.Hour,
	})

	resp := s.buildResponse(result, courses, professors, rooms)

	if runErr != nil {
		s.logger.Error("自动排课中断，已提交的排课保留",
			zap.String("semester", term.Semester),
			zap.String("academic_year", term.AcademicYear),
			zap.Int("placed", resp.PlacedCount),
			zap.Int("pending", resp.PendingCount),
			zap.Error(runErr))
		return resp, runErr
	}

	s.logger.Info("自动排课完成",
		zap.String("semester", term.Semester),
		zap.String("academic_year", term.AcademicYear),
		zap.String("status", resp.Status),
		zap.Int("placed", resp.PlacedCount),
		zap.Int("unplaced", resp.UnplacedCount))

	return resp, nil
}

// resolveCourses 一次性解析全部课程，任一不存在则整个请求失败；返回顺序与请求一致
func (s *generationService) resolveCourses(ctx context.Context, ids []string) ([]model.Course, error) {
	found, err := s.repo.Course.ListByIDs(ctx, lo.Uniq(ids))
	if err != nil {
		s.logger.Error("批量查询课程失败", zap.Error(err))
		return nil, err
	}

	byID := lo.KeyBy(found, func(c model.Course) string { return c.CourseID })
	courses := make([]model.Course, 0, len(ids))
	for _, id := range ids {
		course, ok := byID[id]
		if !ok {
			s.logger.Info("自动排课引用了不存在的课程", zap.String("course_id", id))
			return nil, ErrCourseNotFound
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (s *generationService) buildResponse(result *scheduler.Result, courses []model.Course, professors []model.Professor, rooms []model.Room) *dto.GenerateScheduleResponse {
	courseByID := lo.KeyBy(courses, func(c model.Course) string { return c.CourseID })
	professorByID := lo.KeyBy(professors, func(p model.Professor) string { return p.ProfessorID })
	roomByID := lo.KeyBy(rooms, func(r model.Room) string { return r.RoomID })

	resp := &dto.GenerateScheduleResponse{
		Status:     string(result.Status()),
		Placements: make([]dto.PlacementResponse, 0, len(result.Placements)),
		Outcomes:   make([]dto.CourseOutcomeResponse, 0, len(result.Outcomes)),
	}

	for i := range result.Placements {
		p := result.Placements[i]
		if c, ok := courseByID[p.CourseID]; ok {
			p.Course = &c
		}
		if pr, ok := professorByID[p.ProfessorID]; ok {
			p.Professor = &pr
		}
		if r, ok := roomByID[p.RoomID]; ok {
			p.Room = &r
		}
		resp.Placements = append(resp.Placements, *toPlacementResponse(&p))
	}

	for _, o := range result.Outcomes {
		resp.Outcomes = append(resp.Outcomes, dto.CourseOutcomeResponse{
			CourseID:    o.CourseID,
			CourseCode:  courseByID[o.CourseID].Code,
			Status:      string(o.Status),
			Reason:      string(o.Reason),
			PlacementID: o.PlacementID,
		})
	}

	resp.PlacedCount = len(result.Placements)
	resp.UnplacedCount = len(result.Unplaced())
	resp.PendingCount = result.Pending()
	return resp
}

// ── 排课引擎的提交器 ──

// storeCommitter 每次提交走与手动创建相同的事务写入路径；
// 冲突类错误包装为 ErrCandidateRejected，由引擎继续尝试下一候选
type storeCommitter struct {
	repo *repository.Repository
}

func (c *storeCommitter) Commit(ctx context.Context, placement *model.Placement) error {
	err := commitPlacement(ctx, c.repo, placement, false)
	if errors.Is(err, ErrRoomConflict) || errors.Is(err, ErrProfessorConflict) || errors.Is(err, ErrSlotTaken) {
		return fmt.Errorf("%w: %w", scheduler.ErrCandidateRejected, err)
	}
	return err
}
