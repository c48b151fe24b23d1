package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"uni-scheduler/backend/internal/model"
)

// ── 内存排课集合：同时充当 Checker 与 Committer ──

type memStore struct {
	placements []model.Placement
	seq        int
	// rejectNext 模拟并发写入抢占：前 N 次提交返回 ErrCandidateRejected
	rejectNext int
	commitErr  error
	commits    int
}

func (m *memStore) find(match func(model.Placement) bool, slot model.TimeInterval) []model.Placement {
	var out []model.Placement
	for _, p := range m.placements {
		if match(p) && model.Conflicts(p.Interval(), slot) {
			out = append(out, p)
		}
	}
	return out
}

func (m *memStore) FindRoomConflicts(_ context.Context, roomID string, slot model.TimeInterval) ([]model.Placement, error) {
	return m.find(func(p model.Placement) bool { return p.RoomID == roomID }, slot), nil
}

func (m *memStore) FindProfessorConflicts(_ context.Context, professorID string, slot model.TimeInterval) ([]model.Placement, error) {
	return m.find(func(p model.Placement) bool { return p.ProfessorID == professorID }, slot), nil
}

func (m *memStore) Commit(_ context.Context, p *model.Placement) error {
	m.commits++
	if m.commitErr != nil {
		return m.commitErr
	}
	if m.rejectNext > 0 {
		m.rejectNext--
		return fmt.Errorf("%w: 模拟并发占用", ErrCandidateRejected)
	}
	m.seq++
	p.PlacementID = fmt.Sprintf("p-%d", m.seq)
	m.placements = append(m.placements, *p)
	return nil
}

var fall = model.Term{Semester: "Fall", AcademicYear: "2025-2026"}

func at(h int) model.ClockTime { return model.NewClockTime(h, 0, 0) }

func newTestEngine(store *memStore) *Engine {
	return NewEngine(store, store, zap.NewNop())
}

func baseInput() Input {
	return Input{
		Courses:    []model.Course{{CourseID: "cs101", Code: "CS101", Department: "Computer Science"}},
		Professors: []model.Professor{{ProfessorID: "prof-math", Department: "Mathematics"}, {ProfessorID: "prof-cs", Department: "computer science"}},
		Rooms:      []model.Room{{RoomID: "room-1"}, {RoomID: "room-2"}},
		Term:       fall,
		Days:       []string{"MONDAY"},
		StartTimes: []model.ClockTime{at(9)},
		Duration:   2 * time.Hour,
	}
}

func TestRun_SingleCourseEndToEnd(t *testing.T) {
	store := &memStore{}
	res, err := newTestEngine(store).Run(context.Background(), baseInput())
	require.NoError(t, err)

	require.Len(t, res.Placements, 1)
	p := res.Placements[0]
	assert.Equal(t, "cs101", p.CourseID)
	assert.Equal(t, "prof-cs", p.ProfessorID, "应优先选择同院系教师")
	assert.Equal(t, "room-1", p.RoomID)
	assert.Equal(t, "MONDAY", p.DayOfWeek)
	assert.Equal(t, at(9), p.StartTime)
	assert.Equal(t, at(11), p.EndTime)
	assert.Equal(t, fall, p.Term())
	assert.Equal(t, StatusComplete, res.Status())
}

func TestRun_FallsBackToAnyProfessor(t *testing.T) {
	in := baseInput()
	in.Courses[0].Department = "History"

	res, err := newTestEngine(&memStore{}).Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, "prof-math", res.Placements[0].ProfessorID)
}

func TestRun_NoProfessorsSkipsCourse(t *testing.T) {
	in := baseInput()
	in.Professors = nil

	store := &memStore{}
	res, err := newTestEngine(store).Run(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, res.Placements)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, OutcomeUnplaced, res.Outcomes[0].Status)
	assert.Equal(t, ReasonNoProfessors, res.Outcomes[0].Reason)
	assert.Zero(t, store.commits)
	assert.Equal(t, StatusNone, res.Status())
}

func TestRun_TwoCoursesCompeteForOneSlot(t *testing.T) {
	in := baseInput()
	in.Courses = []model.Course{
		{CourseID: "c1", Department: "Computer Science"},
		{CourseID: "c2", Department: "Computer Science"},
	}
	in.Professors = []model.Professor{{ProfessorID: "only", Department: "Computer Science"}}
	in.Rooms = []model.Room{{RoomID: "room-1"}}

	res, err := newTestEngine(&memStore{}).Run(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, res.Placements, 1)
	assert.Equal(t, "c1", res.Placements[0].CourseID, "先到先得")
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, OutcomePlaced, res.Outcomes[0].Status)
	assert.Equal(t, res.Placements[0].PlacementID, res.Outcomes[0].PlacementID)
	assert.Equal(t, OutcomeUnplaced, res.Outcomes[1].Status)
	assert.Equal(t, ReasonNoFreeCombination, res.Outcomes[1].Reason)
	assert.Equal(t, StatusPartial, res.Status())
	assert.Len(t, res.Unplaced(), 1)
}

func TestRun_LaterCourseTakesNextRoom(t *testing.T) {
	in := baseInput()
	in.Courses = []model.Course{
		{CourseID: "c1", Department: "Computer Science"},
		{CourseID: "c2", Department: "Mathematics"},
	}

	res, err := newTestEngine(&memStore{}).Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, res.Placements, 2)
	assert.Equal(t, "room-1", res.Placements[0].RoomID)
	assert.Equal(t, "prof-math", res.Placements[1].ProfessorID)
	assert.Equal(t, "room-2", res.Placements[1].RoomID)
}

func TestRun_BusyProfessorTriesNextTime(t *testing.T) {
	in := baseInput()
	in.Professors = []model.Professor{{ProfessorID: "prof-cs", Department: "Computer Science"}}
	in.StartTimes = []model.ClockTime{at(9), at(13)}

	store := &memStore{placements: []model.Placement{{
		PlacementID: "existing", ProfessorID: "prof-cs", RoomID: "room-9",
		DayOfWeek: "MONDAY", StartTime: at(10), EndTime: at(12),
		Semester: fall.Semester, AcademicYear: fall.AcademicYear,
	}}}

	res, err := newTestEngine(store).Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, at(13), res.Placements[0].StartTime)
}

func TestRun_TouchingPlacementDoesNotBlock(t *testing.T) {
	store := &memStore{placements: []model.Placement{{
		PlacementID: "existing", ProfessorID: "prof-cs", RoomID: "room-1",
		DayOfWeek: "MONDAY", StartTime: at(7), EndTime: at(9),
		Semester: fall.Semester, AcademicYear: fall.AcademicYear,
	}}}

	res, err := newTestEngine(store).Run(context.Background(), baseInput())
	require.NoError(t, err)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, "room-1", res.Placements[0].RoomID)
	assert.Equal(t, "prof-cs", res.Placements[0].ProfessorID)
}

func TestRun_OtherTermDoesNotBlock(t *testing.T) {
	store := &memStore{placements: []model.Placement{{
		PlacementID: "spring", ProfessorID: "prof-cs", RoomID: "room-1",
		DayOfWeek: "MONDAY", StartTime: at(9), EndTime: at(11),
		Semester: "Spring", AcademicYear: "2025-2026",
	}}}

	res, err := newTestEngine(store).Run(context.Background(), baseInput())
	require.NoError(t, err)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, "room-1", res.Placements[0].RoomID)
}

func TestRun_EmptyDaysOrTimes(t *testing.T) {
	for name, mutate := range map[string]func(*Input){
		"无候选日期": func(in *Input) { in.Days = nil },
		"无候选时间": func(in *Input) { in.StartTimes = nil },
	} {
		t.Run(name, func(t *testing.T) {
			in := baseInput()
			in.Courses = append(in.Courses, model.Course{CourseID: "ma201", Department: "Mathematics"})
			mutate(&in)

			store := &memStore{}
			res, err := newTestEngine(store).Run(context.Background(), in)
			require.NoError(t, err)
			assert.Empty(t, res.Placements)
			assert.Len(t, res.Outcomes, 2)
			assert.Zero(t, store.commits)
			assert.Equal(t, StatusNone, res.Status())
		})
	}
}

func TestRun_EmptyCourseList(t *testing.T) {
	in := baseInput()
	in.Courses = nil

	res, err := newTestEngine(&memStore{}).Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, StatusEmptyRequest, res.Status())
}

func TestRun_SkipsStartPastMidnight(t *testing.T) {
	in := baseInput()
	in.StartTimes = []model.ClockTime{at(23), at(22)}

	res, err := newTestEngine(&memStore{}).Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, at(22), res.Placements[0].StartTime)
	assert.Equal(t, model.EndOfDay, res.Placements[0].EndTime)
}

func TestRun_RejectedCommitTriesNextRoom(t *testing.T) {
	store := &memStore{rejectNext: 1}

	res, err := newTestEngine(store).Run(context.Background(), baseInput())
	require.NoError(t, err)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, "room-2", res.Placements[0].RoomID)
	assert.Equal(t, 2, store.commits)
}

func TestRun_StorageFailureKeepsCommitted(t *testing.T) {
	in := baseInput()
	in.Courses = []model.Course{
		{CourseID: "c1", Department: "Computer Science"},
		{CourseID: "c2", Department: "Mathematics"},
	}

	boom := errors.New("connection reset")
	store := &memStore{}
	engine := newTestEngine(store)

	// 第一门课程正常提交后注入存储故障
	committer := &failAfter{inner: store, ok: 1, err: boom}
	engine.committer = committer

	res, err := engine.Run(context.Background(), in)
	require.ErrorIs(t, err, boom)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, "c1", res.Placements[0].CourseID)
	assert.Len(t, store.placements, 1)
	assert.Equal(t, StatusPartial, res.Status())
	assert.Equal(t, 1, res.Pending())
}

func TestRun_CancelledBetweenCourses(t *testing.T) {
	in := baseInput()
	in.Courses = []model.Course{
		{CourseID: "c1", Department: "Computer Science"},
		{CourseID: "c2", Department: "Mathematics"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	store := &memStore{}
	engine := newTestEngine(store)
	engine.committer = &cancelAfterCommit{inner: store, cancel: cancel}

	res, err := engine.Run(ctx, in)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, "c1", res.Placements[0].CourseID)
	assert.NotEqual(t, StatusComplete, res.Status())
	assert.Equal(t, StatusPartial, res.Status())
	assert.Equal(t, 1, res.Pending())
}

func TestRun_CancelledBeforeAnyCourse(t *testing.T) {
	in := baseInput()
	in.Courses = []model.Course{{CourseID: "c1", Department: "Computer Science"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newTestEngine(&memStore{}).Run(ctx, in)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusNone, res.Status())
	assert.Equal(t, 1, res.Pending())
}

type failAfter struct {
	inner *memStore
	ok    int
	err   error
}

func (f *failAfter) Commit(ctx context.Context, p *model.Placement) error {
	if f.ok == 0 {
		return f.err
	}
	f.ok--
	return f.inner.Commit(ctx, p)
}

type cancelAfterCommit struct {
	inner  *memStore
	cancel context.CancelFunc
}

func (c *cancelAfterCommit) Commit(ctx context.Context, p *model.Placement) error {
	defer c.cancel()
	return c.inner.Commit(ctx, p)
}

func TestCandidateProfessors(t *testing.T) {
	all := []model.Professor{
		{ProfessorID: "a", Department: "Physics"},
		{ProfessorID: "b", Department: "PHYSICS"},
		{ProfessorID: "c", Department: "Chemistry"},
	}

	got := candidateProfessors(model.Course{Department: "physics"}, all)
	assert.Equal(t, []string{"a", "b"}, []string{got[0].ProfessorID, got[1].ProfessorID})

	assert.Len(t, candidateProfessors(model.Course{Department: "Biology"}, all), 3)
	assert.Empty(t, candidateProfessors(model.Course{Department: "Biology"}, nil))
}
