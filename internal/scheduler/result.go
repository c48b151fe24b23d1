package scheduler

import (
	"github.com/samber/lo"

	"uni-scheduler/backend/internal/model"
)

// OutcomeStatus 单门课程的排课结果
type OutcomeStatus string

const (
	OutcomePlaced   OutcomeStatus = "placed"
	OutcomeUnplaced OutcomeStatus = "unplaced"
)

// UnplacedReason 未排入原因
type UnplacedReason string

const (
	ReasonNoProfessors      UnplacedReason = "no_professors"
	ReasonNoFreeCombination UnplacedReason = "no_free_combination"
)

// Outcome 按请求顺序记录每门课程的结果
type Outcome struct {
	CourseID    string
	Status      OutcomeStatus
	Reason      UnplacedReason
	PlacementID string
}

// RunStatus 整体结果
type RunStatus string

const (
	StatusComplete     RunStatus = "complete"
	StatusPartial      RunStatus = "partial"
	StatusNone         RunStatus = "none"
	StatusEmptyRequest RunStatus = "empty_request"
)

// Result 自动排课结果，Placements 按课程处理顺序排列
type Result struct {
	// Requested 请求的课程数；中途中断时 Outcomes 少于 Requested
	Requested  int
	Placements []model.Placement
	Outcomes   []Outcome
}

// Status 区分全部排入、部分排入、全部未排入与空请求；以请求课程数为基准
func (r *Result) Status() RunStatus {
	switch {
	case r.Requested == 0:
		return StatusEmptyRequest
	case len(r.Placements) == r.Requested:
		return StatusComplete
	case len(r.Placements) == 0:
		return StatusNone
	default:
		return StatusPartial
	}
}

// Pending 因中断未处理的课程数
func (r *Result) Pending() int {
	return r.Requested - len(r.Outcomes)
}

// Unplaced 未排入的课程结果
func (r *Result) Unplaced() []Outcome {
	return lo.Filter(r.Outcomes, func(o Outcome, _ int) bool {
		return o.Status == OutcomeUnplaced
	})
}
