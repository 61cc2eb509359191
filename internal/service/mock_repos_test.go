package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"seatplan-pro/internal/model"
	"seatplan-pro/internal/queue"
	"seatplan-pro/internal/repository"
	pkgerrors "seatplan-pro/pkg/errors"
	"seatplan-pro/pkg/redis"
)

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	departments map[string]*model.Department
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{departments: map[string]*model.Department{
		"dept-cst": {DepartmentID: "dept-cst", Code: "CST", Name: "Computer Science & Technology"},
		"dept-ct":  {DepartmentID: "dept-ct", Code: "CT", Name: "Civil Technology"},
	}}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = "dept-" + dept.Code
	}
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByCode(_ context.Context, code string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.Code == code {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockDeptRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.departments)), nil
}

// ── Mock BuildingRepository ──

type mockBuildingRepo struct {
	buildings []model.Building
}

func (m *mockBuildingRepo) Create(_ context.Context, b *model.Building) error {
	if b.BuildingID == "" {
		b.BuildingID = "bld-" + b.Code
	}
	m.buildings = append(m.buildings, *b)
	return nil
}

func (m *mockBuildingRepo) List(_ context.Context) ([]model.Building, error) {
	return m.buildings, nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms map[string]*model.Room
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.Room)}
}

// add 添加一个 rows×cols 的在用教室
func (m *mockRoomRepo) add(id string, capacity, rows, cols int) *model.Room {
	r := &model.Room{
		RoomID:     id,
		Number:     "R" + id,
		Name:       "Room " + id,
		BuildingID: "bld-B1",
		Capacity:   capacity,
		Rows:       rows,
		Columns:    cols,
		RoomType:   model.RoomTypeStandard,
		IsActive:   true,
	}
	m.rooms[id] = r
	return r
}

func (m *mockRoomRepo) BatchCreate(_ context.Context, rooms []model.Room) error {
	for i := range rooms {
		r := rooms[i]
		m.rooms[r.RoomID] = &r
	}
	return nil
}

func (m *mockRoomRepo) List(_ context.Context, buildingID string) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		if buildingID != "" && r.BuildingID != buildingID {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (m *mockRoomRepo) ListByIDs(_ context.Context, ids []string) ([]model.Room, error) {
	var result []model.Room
	for _, id := range ids {
		if r, ok := m.rooms[id]; ok {
			result = append(result, *r)
		}
	}
	// 打乱顺序，模拟数据库不保证 IN 查询顺序
	sort.Slice(result, func(i, j int) bool { return result[i].RoomID > result[j].RoomID })
	return result, nil
}

// ── Mock InvigilatorRepository ──

type mockInvigilatorRepo struct {
	invigilators []model.Invigilator
	createErr    error
}

func (m *mockInvigilatorRepo) add(id, name, designation, rank string) {
	m.invigilators = append(m.invigilators, model.Invigilator{
		InvigilatorID: id,
		Name:          name,
		Designation:   designation,
		Rank:          rank,
		IsActive:      true,
	})
}

func (m *mockInvigilatorRepo) BatchCreate(_ context.Context, invs []model.Invigilator) error {
	if m.createErr != nil {
		return m.createErr
	}
	for i := range invs {
		if invs[i].InvigilatorID == "" {
			invs[i].InvigilatorID = fmt.Sprintf("inv-%d", len(m.invigilators)+1)
		}
		m.invigilators = append(m.invigilators, invs[i])
	}
	return nil
}

func (m *mockInvigilatorRepo) List(_ context.Context) ([]model.Invigilator, error) {
	return m.invigilators, nil
}

func (m *mockInvigilatorRepo) ListActive(_ context.Context) ([]model.Invigilator, error) {
	var result []model.Invigilator
	for _, inv := range m.invigilators {
		if inv.IsActive {
			result = append(result, inv)
		}
	}
	return result, nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student // roll_number → student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

// addMany 为院系添加 n 名学号连续的在籍考生
func (m *mockStudentRepo) addMany(departmentID, prefix string, n int) {
	for i := 1; i <= n; i++ {
		roll := fmt.Sprintf("%s%04d", prefix, i)
		m.students[roll] = &model.Student{
			StudentID:    "stu-" + roll,
			RollNumber:   roll,
			Name:         "Student " + roll,
			DepartmentID: departmentID,
			IsActive:     true,
		}
	}
}

func (m *mockStudentRepo) Upsert(_ context.Context, students []model.Student) error {
	for i := range students {
		st := students[i]
		if existing, ok := m.students[st.RollNumber]; ok {
			existing.Name = st.Name
			existing.DepartmentID = st.DepartmentID
			existing.IsActive = st.IsActive
			continue
		}
		if st.StudentID == "" {
			st.StudentID = "stu-" + st.RollNumber
		}
		m.students[st.RollNumber] = &st
	}
	return nil
}

func (m *mockStudentRepo) sorted(filter func(*model.Student) bool) []model.Student {
	var result []model.Student
	for _, st := range m.students {
		if filter(st) {
			result = append(result, *st)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RollNumber < result[j].RollNumber })
	return result
}

func (m *mockStudentRepo) List(_ context.Context, departmentID string, offset, limit int) ([]model.Student, int64, error) {
	all := m.sorted(func(st *model.Student) bool {
		return departmentID == "" || st.DepartmentID == departmentID
	})
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Student{}, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (m *mockStudentRepo) ListActiveByDepartment(_ context.Context, departmentID string) ([]model.Student, error) {
	return m.sorted(func(st *model.Student) bool {
		return st.DepartmentID == departmentID && st.IsActive
	}), nil
}

// ── Mock ExamRepository ──

type mockExamRepo struct {
	exams map[string]*model.Exam
	depts *mockDeptRepo
}

func newMockExamRepo(depts *mockDeptRepo) *mockExamRepo {
	return &mockExamRepo{exams: make(map[string]*model.Exam), depts: depts}
}

func (m *mockExamRepo) add(id, departmentID string) *model.Exam {
	e := &model.Exam{
		ExamID:       id,
		Name:         "Midterm " + id,
		Date:         time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		Shift:        "1st",
		Course:       "Data Structures",
		DepartmentID: departmentID,
		Status:       model.ExamStatusDraft,
	}
	e.Version = 1
	m.exams[id] = e
	return e
}

func (m *mockExamRepo) Create(_ context.Context, exam *model.Exam) error {
	if exam.ExamID == "" {
		exam.ExamID = fmt.Sprintf("exam-%d", len(m.exams)+1)
	}
	m.exams[exam.ExamID] = exam
	return nil
}

func (m *mockExamRepo) GetByID(_ context.Context, id string) (*model.Exam, error) {
	e, ok := m.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	if d, ok := m.depts.departments[cp.DepartmentID]; ok {
		cp.Department = d
	}
	return &cp, nil
}

func (m *mockExamRepo) List(_ context.Context, filter repository.ExamFilter) ([]model.Exam, int64, error) {
	var result []model.Exam
	for _, e := range m.exams {
		if filter.DepartmentID != "" && e.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ExamID < result[j].ExamID })
	return result, int64(len(result)), nil
}

func (m *mockExamRepo) Update(_ context.Context, exam *model.Exam) error {
	stored, ok := m.exams[exam.ExamID]
	if !ok || stored.Version != exam.Version {
		return pkgerrors.ErrOptimisticLock
	}
	exam.Version++
	cp := *exam
	cp.Department = nil
	m.exams[exam.ExamID] = &cp
	return nil
}

func (m *mockExamRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.exams[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.exams, id)
	return nil
}

// ── Mock SeatPlanRepository ──

type mockSeatPlanRepo struct {
	plans        map[string][]model.ExamRoom
	exams        *mockExamRepo
	students     *mockStudentRepo
	rooms        *mockRoomRepo
	invigilators *mockInvigilatorRepo
	replaceCalls int
	replaceErr   error
	listCalls    int
}

func (m *mockSeatPlanRepo) ReplaceForExam(_ context.Context, examID string, examRooms []model.ExamRoom) error {
	m.replaceCalls++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.plans[examID] = examRooms
	if e, ok := m.exams.exams[examID]; ok {
		e.Status = model.ExamStatusPlanned
	}
	return nil
}

// ListByExam 模拟 Preload：填充教室、考生与监考教师
func (m *mockSeatPlanRepo) ListByExam(_ context.Context, examID string) ([]model.ExamRoom, error) {
	m.listCalls++
	stored := m.plans[examID]
	result := make([]model.ExamRoom, len(stored))
	for i, er := range stored {
		er.Room = m.rooms.rooms[er.RoomID]

		seats := make([]model.SeatAssignment, len(er.SeatAssignments))
		for j, sa := range er.SeatAssignments {
			for _, st := range m.students.students {
				if st.StudentID == sa.StudentID {
					sa.Student = st
				}
			}
			seats[j] = sa
		}
		er.SeatAssignments = seats

		roles := make([]model.InvigilatorAssignment, len(er.InvigilatorAssignments))
		for j, ia := range er.InvigilatorAssignments {
			for k := range m.invigilators.invigilators {
				if m.invigilators.invigilators[k].InvigilatorID == ia.InvigilatorID {
					ia.Invigilator = &m.invigilators.invigilators[k]
				}
			}
			roles[j] = ia
		}
		er.InvigilatorAssignments = roles
		result[i] = er
	}
	return result, nil
}

// persistedSeats 已保存的座位总数
func (m *mockSeatPlanRepo) persistedSeats() int {
	n := 0
	for _, rooms := range m.plans {
		for _, er := range rooms {
			n += len(er.SeatAssignments)
		}
	}
	return n
}

// ── Mock PlanLocker / PlanCache ──

type mockLocker struct {
	mu       sync.Mutex
	held     map[string]string
	acquired int
	released int
	err      error
}

func newMockLocker() *mockLocker {
	return &mockLocker{held: make(map[string]string)}
}

func (m *mockLocker) AcquireLock(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	if _, busy := m.held[key]; busy {
		return "", false, nil
	}
	m.acquired++
	token := fmt.Sprintf("tok-%d", m.acquired)
	m.held[key] = token
	return token, true, nil
}

func (m *mockLocker) ReleaseLock(_ context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] == token {
		delete(m.held, key)
		m.released++
	}
	return nil
}

type mockCache struct {
	data    map[string][]byte
	deletes int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, redis.ErrCacheMiss
}

func (m *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	m.deletes++
	return nil
}

// ── Mock Publisher ──

type mockPublisher struct {
	events []queue.SeatPlanGeneratedEvent
	err    error
}

func (m *mockPublisher) PublishSeatPlanGenerated(_ context.Context, event queue.SeatPlanGeneratedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

var errMockDB = errors.New("模拟数据库错误")

// ── 测试夹具 ──

type testRepos struct {
	dept        *mockDeptRepo
	building    *mockBuildingRepo
	room        *mockRoomRepo
	invigilator *mockInvigilatorRepo
	student     *mockStudentRepo
	exam        *mockExamRepo
	seatPlan    *mockSeatPlanRepo
}

func newTestRepos() (*repository.Repository, *testRepos) {
	dept := newMockDeptRepo()
	student := newMockStudentRepo()
	room := newMockRoomRepo()
	inv := &mockInvigilatorRepo{}
	exam := newMockExamRepo(dept)
	seatPlan := &mockSeatPlanRepo{
		plans:        make(map[string][]model.ExamRoom),
		exams:        exam,
		students:     student,
		rooms:        room,
		invigilators: inv,
	}
	m := &testRepos{
		dept:        dept,
		building:    &mockBuildingRepo{},
		room:        room,
		invigilator: inv,
		student:     student,
		exam:        exam,
		seatPlan:    seatPlan,
	}
	return &repository.Repository{
		Department:  m.dept,
		Building:    m.building,
		Room:        m.room,
		Invigilator: m.invigilator,
		Student:     m.student,
		Exam:        m.exam,
		SeatPlan:    m.seatPlan,
	}, m
}
