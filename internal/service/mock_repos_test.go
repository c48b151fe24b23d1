package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"uni-scheduler/backend/internal/model"
	"uni-scheduler/backend/internal/repository"
	pkgerrors "uni-scheduler/backend/pkg/errors"
)

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
	listErr error
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ListByIDs(_ context.Context, ids []string) ([]model.Course, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.Course
	for _, id := range ids {
		if c, ok := m.courses[id]; ok {
			result = append(result, *c)
		}
	}
	return result, nil
}

// ── Mock ProfessorRepository（切片保持创建顺序） ──

type mockProfessorRepo struct {
	professors []model.Professor
}

func (m *mockProfessorRepo) GetByID(_ context.Context, id string) (*model.Professor, error) {
	for i := range m.professors {
		if m.professors[i].ProfessorID == id {
			p := m.professors[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfessorRepo) List(_ context.Context) ([]model.Professor, error) {
	return append([]model.Professor(nil), m.professors...), nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms []model.Room
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	for i := range m.rooms {
		if m.rooms[i].RoomID == id {
			r := m.rooms[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) List(_ context.Context) ([]model.Room, error) {
	return append([]model.Room(nil), m.rooms...), nil
}

// ── Mock PlacementRepository ──

type mockPlacementRepo struct {
	placements []model.Placement
	seq        int
	// 记录加锁的 (学期|学年|日期)
	locked []string
	// createErr 注入写入错误（如模拟排他约束冲突）
	createErr error
	// conflictQueries 统计冲突查询次数
	conflictQueries int
}

func newMockPlacementRepo() *mockPlacementRepo {
	return &mockPlacementRepo{}
}

func (m *mockPlacementRepo) Create(_ context.Context, p *model.Placement) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	p.PlacementID = fmt.Sprintf("00000000-0000-0000-0000-%012d", m.seq)
	p.Version = 1
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	stored := *p
	stored.Course, stored.Professor, stored.Room = nil, nil, nil
	m.placements = append(m.placements, stored)
	return nil
}

func (m *mockPlacementRepo) GetByID(_ context.Context, id string) (*model.Placement, error) {
	for i := range m.placements {
		if m.placements[i].PlacementID == id {
			p := m.placements[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlacementRepo) List(_ context.Context, f repository.PlacementFilter) ([]model.Placement, error) {
	var result []model.Placement
	for _, p := range m.placements {
		if f.CourseID != "" && p.CourseID != f.CourseID {
			continue
		}
		if f.ProfessorID != "" && p.ProfessorID != f.ProfessorID {
			continue
		}
		if f.RoomID != "" && p.RoomID != f.RoomID {
			continue
		}
		if f.Semester != "" && p.Semester != f.Semester {
			continue
		}
		if f.AcademicYear != "" && p.AcademicYear != f.AcademicYear {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (m *mockPlacementRepo) Update(_ context.Context, p *model.Placement) error {
	for i := range m.placements {
		if m.placements[i].PlacementID != p.PlacementID {
			continue
		}
		if m.placements[i].Version != p.Version {
			return pkgerrors.ErrOptimisticLock
		}
		p.Version++
		stored := *p
		stored.Course, stored.Professor, stored.Room = nil, nil, nil
		m.placements[i] = stored
		return nil
	}
	return pkgerrors.ErrOptimisticLock
}

func (m *mockPlacementRepo) Delete(_ context.Context, id string) error {
	for i := range m.placements {
		if m.placements[i].PlacementID == id {
			m.placements = append(m.placements[:i], m.placements[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockPlacementRepo) find(match func(model.Placement) bool, slot model.TimeInterval, excludeID string) []model.Placement {
	m.conflictQueries++
	var result []model.Placement
	for _, p := range m.placements {
		if p.PlacementID == excludeID {
			continue
		}
		if match(p) && model.Conflicts(p.Interval(), slot) {
			result = append(result, p)
		}
	}
	return result
}

func (m *mockPlacementRepo) FindRoomConflicts(_ context.Context, roomID string, slot model.TimeInterval, excludeID string) ([]model.Placement, error) {
	return m.find(func(p model.Placement) bool { return p.RoomID == roomID }, slot, excludeID), nil
}

func (m *mockPlacementRepo) FindProfessorConflicts(_ context.Context, professorID string, slot model.TimeInterval, excludeID string) ([]model.Placement, error) {
	return m.find(func(p model.Placement) bool { return p.ProfessorID == professorID }, slot, excludeID), nil
}

func (m *mockPlacementRepo) LockSlot(_ context.Context, day string, term model.Term) error {
	m.locked = append(m.locked, term.Semester+"|"+term.AcademicYear+"|"+day)
	return nil
}

// ── Mock Locker ──

type mockLocker struct {
	held     map[string]string
	acquired int
	released int
}

func newMockLocker() *mockLocker {
	return &mockLocker{held: make(map[string]string)}
}

func (l *mockLocker) AcquireLock(_ context.Context, key string, _ time.Duration) (string, error) {
	if _, ok := l.held[key]; ok {
		return "", pkgerrors.ErrLockNotAcquired
	}
	l.acquired++
	token := fmt.Sprintf("token-%d", l.acquired)
	l.held[key] = token
	return token, nil
}

func (l *mockLocker) ReleaseLock(_ context.Context, key, token string) error {
	if l.held[key] == token {
		delete(l.held, key)
		l.released++
	}
	return nil
}

// ── 测试夹具 ──

const (
	courseCS101   = "11111111-0000-0000-0000-000000000001"
	courseCS102   = "11111111-0000-0000-0000-000000000002"
	courseMA201   = "11111111-0000-0000-0000-000000000003"
	profMath      = "22222222-0000-0000-0000-000000000001"
	profCS        = "22222222-0000-0000-0000-000000000002"
	roomA101      = "33333333-0000-0000-0000-000000000001"
	roomB202      = "33333333-0000-0000-0000-000000000002"
	testSemester  = "Fall"
	testAcademicY = "2025-2026"
)

type testRepos struct {
	repo       *repository.Repository
	courses    *mockCourseRepo
	professors *mockProfessorRepo
	rooms      *mockRoomRepo
	placements *mockPlacementRepo
}

func newTestRepos() *testRepos {
	courses := newMockCourseRepo()
	courses.courses[courseCS101] = &model.Course{CourseID: courseCS101, Code: "CS101", Name: "程序设计基础", Department: "Computer Science"}
	courses.courses[courseCS102] = &model.Course{CourseID: courseCS102, Code: "CS102", Name: "数据结构", Department: "Computer Science"}
	courses.courses[courseMA201] = &model.Course{CourseID: courseMA201, Code: "MA201", Name: "线性代数", Department: "Mathematics"}

	professors := &mockProfessorRepo{professors: []model.Professor{
		{ProfessorID: profMath, FirstName: "Ada", LastName: "Lovelace", Department: "Mathematics"},
		{ProfessorID: profCS, FirstName: "Alan", LastName: "Turing", Department: "computer science"},
	}}

	rooms := &mockRoomRepo{rooms: []model.Room{
		{RoomID: roomA101, RoomNumber: "A101", Capacity: 60},
		{RoomID: roomB202, RoomNumber: "B202", Capacity: 120},
	}}

	placements := newMockPlacementRepo()

	return &testRepos{
		repo: &repository.Repository{
			Course:    courses,
			Professor: professors,
			Room:      rooms,
			Placement: placements,
		},
		courses:    courses,
		professors: professors,
		rooms:      rooms,
		placements: placements,
	}
}
