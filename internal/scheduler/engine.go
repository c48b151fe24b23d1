package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"uni-scheduler/backend/internal/model"
)

// ErrCandidateRejected 提交时发现候选组合已被占用（并发写入），引擎继续尝试下一个候选
var ErrCandidateRejected = errors.New("候选组合已被占用")

// Checker 冲突查询，读取已提交的排课集合
type Checker interface {
	FindRoomConflicts(ctx context.Context, roomID string, slot model.TimeInterval) ([]model.Placement, error)
	FindProfessorConflicts(ctx context.Context, professorID string, slot model.TimeInterval) ([]model.Placement, error)
}

// Committer 提交一条排课；冲突时应返回包装了 ErrCandidateRejected 的错误
type Committer interface {
	Commit(ctx context.Context, placement *model.Placement) error
}

// Input 一次自动排课的完整搜索空间
// 教师与教室列表由调用方显式传入，顺序即尝试顺序
type Input struct {
	Courses    []model.Course
	Professors []model.Professor
	Rooms      []model.Room
	Term       model.Term
	Days       []string
	StartTimes []model.ClockTime
	Duration   time.Duration
}

// Engine 首次适配（first-fit）排课引擎
type Engine struct {
	checker   Checker
	committer Committer
	logger    *zap.Logger
}

// NewEngine 创建排课引擎
func NewEngine(checker Checker, committer Committer, logger *zap.Logger) *Engine {
	return &Engine{checker: checker, committer: committer, logger: logger}
}

// Run 按课程顺序逐个搜索 (日期, 开始时间, 教师, 教室)，第一个无冲突组合即提交。
// 已提交的排课不会回滚：出错或 ctx 取消时返回已完成部分与错误。
func (e *Engine) Run(ctx context.Context, in Input) (*Result, error) {
	result := &Result{
		Requested:  len(in.Courses),
		Placements: make([]model.Placement, 0, len(in.Courses)),
		Outcomes:   make([]Outcome, 0, len(in.Courses)),
	}

	for _, course := range in.Courses {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		candidates := candidateProfessors(course, in.Professors)
		if len(candidates) == 0 {
			e.recordUnplaced(result, course, ReasonNoProfessors)
			continue
		}

		placement, err := e.placeCourse(ctx, course, candidates, in)
		if err != nil {
			return result, err
		}
		if placement == nil {
			e.recordUnplaced(result, course, ReasonNoFreeCombination)
			continue
		}

		result.Placements = append(result.Placements, *placement)
		result.Outcomes = append(result.Outcomes, Outcome{
			CourseID:    course.CourseID,
			Status:      OutcomePlaced,
			PlacementID: placement.PlacementID,
		})
	}

	return result, nil
}

// placeCourse 返回 nil, nil 表示搜索空间内无空闲组合
func (e *Engine) placeCourse(ctx context.Context, course model.Course, professors []model.Professor, in Input) (*model.Placement, error) {
	for _, day := range in.Days {
		for _, start := range in.StartTimes {
			end := start.Add(in.Duration)
			// 不跨天
			if end > model.EndOfDay {
				continue
			}
			slot := model.TimeInterval{Day: day, Start: start, End: end, Term: in.Term}
			if slot.Validate() != nil {
				continue
			}

			for _, professor := range professors {
				busy, err := e.checker.FindProfessorConflicts(ctx, professor.ProfessorID, slot)
				if err != nil {
					return nil, err
				}
				if len(busy) > 0 {
					continue
				}

				for _, room := range in.Rooms {
					taken, err := e.checker.FindRoomConflicts(ctx, room.RoomID, slot)
					if err != nil {
						return nil, err
					}
					if len(taken) > 0 {
						continue
					}

					placement := &model.Placement{
						CourseID:    course.CourseID,
						ProfessorID: professor.ProfessorID,
						RoomID:      room.RoomID,
					}
					placement.SetInterval(slot)

					if err := e.committer.Commit(ctx, placement); err != nil {
						if errors.Is(err, ErrCandidateRejected) {
							e.logger.Debug("候选组合提交被拒绝，继续搜索",
								zap.String("course_id", course.CourseID),
								zap.String("room_id", room.RoomID),
								zap.Error(err))
							continue
						}
						return nil, err
					}
					return placement, nil
				}
			}
		}
	}
	return nil, nil
}

// candidateProfessors 同院系（不区分大小写）优先，无匹配时退回全部教师
func candidateProfessors(course model.Course, all []model.Professor) []model.Professor {
	matched := lo.Filter(all, func(p model.Professor, _ int) bool {
		return p.SameDepartment(course.Department)
	})
	if len(matched) > 0 {
		return matched
	}
	return all
}

func (e *Engine) recordUnplaced(result *Result, course model.Course, reason UnplacedReason) {
	e.logger.Info("课程未能排入",
		zap.String("course_id", course.CourseID),
		zap.String("course_code", course.Code),
		zap.String("reason", string(reason)))
	result.Outcomes = append(result.Outcomes, Outcome{
		CourseID: course.CourseID,
		Status:   OutcomeUnplaced,
		Reason:   reason,
	})
}
