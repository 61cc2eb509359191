//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"seatplan-pro/internal/model"
	"seatplan-pro/internal/repository"
	"seatplan-pro/pkg/database"
	pkgerrors "seatplan-pro/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var (
	testDB   *gorm.DB
	testRepo *repository.Repository
	seq      atomic.Int64
)

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=seatplan password=seatplan_password dbname=seatplan_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "数据库迁移失败: %v\n", err)
		os.Exit(1)
	}

	testRepo = repository.NewRepository(testDB)
	os.Exit(m.Run())
}

// uniq 生成测试内唯一的短后缀（院系代码最长 10 位）
func uniq() string {
	return fmt.Sprintf("%d%03d", time.Now().Unix()%100000, seq.Add(1)%1000)
}

type fixture struct {
	dept     *model.Department
	rooms    []model.Room
	students []model.Student
	staff    []model.Invigilator
	exam     *model.Exam
}

// setupFixture 创建一个院系、两间 2×2 教室、5 名考生、3 名监考与一场考试
func setupFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	suffix := uniq()
	fx := &fixture{}

	fx.dept = &model.Department{Code: "T" + suffix, Name: "测试院系-" + suffix}
	if err := testRepo.Department.Create(ctx, fx.dept); err != nil {
		t.Fatalf("创建院系失败: %v", err)
	}

	building := &model.Building{Code: "B" + suffix, Name: "测试楼-" + suffix}
	if err := testRepo.Building.Create(ctx, building); err != nil {
		t.Fatalf("创建教学楼失败: %v", err)
	}

	fx.rooms = []model.Room{
		{RoomID: uuid.NewString(), Number: "A-" + suffix, Name: "A", BuildingID: building.BuildingID, Capacity: 4, Rows: 2, Columns: 2, RoomType: model.RoomTypeStandard, IsActive: true},
		{RoomID: uuid.NewString(), Number: "B-" + suffix, Name: "B", BuildingID: building.BuildingID, Capacity: 4, Rows: 2, Columns: 2, RoomType: model.RoomTypeStandard, IsActive: true},
	}
	if err := testRepo.Room.BatchCreate(ctx, fx.rooms); err != nil {
		t.Fatalf("创建教室失败: %v", err)
	}

	for i := 1; i <= 5; i++ {
		fx.students = append(fx.students, model.Student{
			StudentID:    uuid.NewString(),
			RollNumber:   fmt.Sprintf("R%s%02d", suffix, i),
			Name:         fmt.Sprintf("考生%d", i),
			DepartmentID: fx.dept.DepartmentID,
			IsActive:     true,
		})
	}
	if err := testRepo.Student.Upsert(ctx, fx.students); err != nil {
		t.Fatalf("创建考生失败: %v", err)
	}

	for _, rank := range []string{"chief", "main", "junior"} {
		fx.staff = append(fx.staff, model.Invigilator{
			InvigilatorID: uuid.NewString(),
			Name:          rank + "-" + suffix,
			Designation:   rank,
			Rank:          rank,
			IsActive:      true,
		})
	}
	if err := testRepo.Invigilator.BatchCreate(ctx, fx.staff); err != nil {
		t.Fatalf("创建监考教师失败: %v", err)
	}

	fx.exam = &model.Exam{
		Name:         "期末-" + suffix,
		Date:         time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		Shift:        "1st",
		Course:       "Data Structures",
		DepartmentID: fx.dept.DepartmentID,
		Status:       model.ExamStatusDraft,
	}
	fx.exam.Version = 1
	if err := testRepo.Exam.Create(ctx, fx.exam); err != nil {
		t.Fatalf("创建考试失败: %v", err)
	}

	t.Cleanup(func() {
		_ = testRepo.Exam.Delete(context.Background(), fx.exam.ExamID)
	})
	return fx
}

// buildPlan 按线性顺序把考生装入教室，每间教室配齐三个岗位
func buildPlan(fx *fixture, rooms ...model.Room) []model.ExamRoom {
	var (
		examRooms []model.ExamRoom
		next      int
	)
	for i, room := range rooms {
		if next >= len(fx.students) {
			break
		}
		er := model.ExamRoom{
			ExamRoomID:     uuid.NewString(),
			ExamID:         fx.exam.ExamID,
			RoomID:         room.RoomID,
			SeatingPattern: "linear",
			Sequence:       i + 1,
		}
		for seat := 1; seat <= room.Capacity && next < len(fx.students); seat++ {
			er.SeatAssignments = append(er.SeatAssignments, model.SeatAssignment{
				ExamRoomID: er.ExamRoomID,
				StudentID:  fx.students[next].StudentID,
				SeatNumber: seat,
				Row:        (seat-1)/room.Columns + 1,
				Column:     (seat-1)%room.Columns + 1,
			})
			next++
		}
		for _, inv := range fx.staff {
			er.InvigilatorAssignments = append(er.InvigilatorAssignments, model.InvigilatorAssignment{
				ExamRoomID:    er.ExamRoomID,
				InvigilatorID: inv.InvigilatorID,
				Role:          inv.Rank,
			})
		}
		examRooms = append(examRooms, er)
	}
	return examRooms
}

// ═══════════════════════════════════════════════════════════
// SeatPlanRepository
// ═══════════════════════════════════════════════════════════

func TestSeatPlanRepo_ReplaceForExam_PersistsAndLoads(t *testing.T) {
	ctx := context.Background()
	fx := setupFixture(t)

	if err := testRepo.SeatPlan.ReplaceForExam(ctx, fx.exam.ExamID, buildPlan(fx, fx.rooms...)); err != nil {
		t.Fatalf("ReplaceForExam 失败: %v", err)
	}

	loaded, err := testRepo.SeatPlan.ListByExam(ctx, fx.exam.ExamID)
	if err != nil {
		t.Fatalf("ListByExam 失败: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("期望 2 个考场，实际 %d", len(loaded))
	}
	if len(loaded[0].SeatAssignments) != 4 || len(loaded[1].SeatAssignments) != 1 {
		t.Errorf("期望 4+1 分布，实际 %d+%d", len(loaded[0].SeatAssignments), len(loaded[1].SeatAssignments))
	}
	if loaded[0].Room == nil || loaded[0].Room.RoomID != fx.rooms[0].RoomID {
		t.Error("期望预加载教室且按 sequence 排序")
	}
	first := loaded[0].SeatAssignments[0]
	if first.SeatNumber != 1 || first.Student == nil || first.Student.RollNumber != fx.students[0].RollNumber {
		t.Errorf("首个座位错误: %+v", first)
	}
	if len(loaded[1].InvigilatorAssignments) != 3 || loaded[1].InvigilatorAssignments[0].Invigilator == nil {
		t.Error("期望预加载监考教师")
	}

	exam, err := testRepo.Exam.GetByID(ctx, fx.exam.ExamID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if exam.Status != model.ExamStatusPlanned {
		t.Errorf("期望 status=planned，实际=%s", exam.Status)
	}
}

func TestSeatPlanRepo_ReplaceForExam_ReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	fx := setupFixture(t)

	if err := testRepo.SeatPlan.ReplaceForExam(ctx, fx.exam.ExamID, buildPlan(fx, fx.rooms...)); err != nil {
		t.Fatalf("首次生成失败: %v", err)
	}

	// 第二次只用一间教室（容量放宽到 5）
	big := fx.rooms[1]
	big.Capacity, big.Rows, big.Columns = 5, 1, 5
	if err := testRepo.SeatPlan.ReplaceForExam(ctx, fx.exam.ExamID, buildPlan(fx, big)); err != nil {
		t.Fatalf("重新生成失败: %v", err)
	}

	loaded, _ := testRepo.SeatPlan.ListByExam(ctx, fx.exam.ExamID)
	if len(loaded) != 1 || len(loaded[0].SeatAssignments) != 5 {
		t.Fatalf("期望旧座位表被整体替换，实际 %d 个考场", len(loaded))
	}

	var orphanSeats int64
	testDB.Model(&model.SeatAssignment{}).
		Where("exam_room_id NOT IN (?)", testDB.Model(&model.ExamRoom{}).Select("exam_room_id")).
		Count(&orphanSeats)
	if orphanSeats != 0 {
		t.Errorf("期望无残留座位，实际 %d", orphanSeats)
	}
}

func TestSeatPlanRepo_ReplaceForExam_RollsBackOnConflict(t *testing.T) {
	ctx := context.Background()
	fx := setupFixture(t)

	if err := testRepo.SeatPlan.ReplaceForExam(ctx, fx.exam.ExamID, buildPlan(fx, fx.rooms...)); err != nil {
		t.Fatalf("首次生成失败: %v", err)
	}

	bad := buildPlan(fx, fx.rooms...)
	// 同一考场两个座位坐标重复，触发唯一约束
	bad[0].SeatAssignments[1].Row = bad[0].SeatAssignments[0].Row
	bad[0].SeatAssignments[1].Column = bad[0].SeatAssignments[0].Column

	if err := testRepo.SeatPlan.ReplaceForExam(ctx, fx.exam.ExamID, bad); err == nil {
		t.Fatal("期望唯一约束冲突")
	}

	loaded, _ := testRepo.SeatPlan.ListByExam(ctx, fx.exam.ExamID)
	seats := 0
	for _, er := range loaded {
		seats += len(er.SeatAssignments)
	}
	if len(loaded) != 2 || seats != 5 {
		t.Errorf("期望回滚后保留原座位表（2 考场 5 座），实际 %d 考场 %d 座", len(loaded), seats)
	}
}

// ═══════════════════════════════════════════════════════════
// ExamRepository
// ═══════════════════════════════════════════════════════════

func TestExamRepo_Update_OptimisticLock(t *testing.T) {
	ctx := context.Background()
	fx := setupFixture(t)

	exam, _ := testRepo.Exam.GetByID(ctx, fx.exam.ExamID)
	stale := *exam

	exam.Course = "Compilers"
	if err := testRepo.Exam.Update(ctx, exam); err != nil {
		t.Fatalf("第一次更新失败: %v", err)
	}

	stale.Course = "Networks"
	if err := testRepo.Exam.Update(ctx, &stale); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}

	reloaded, _ := testRepo.Exam.GetByID(ctx, fx.exam.ExamID)
	if reloaded.Course != "Compilers" || reloaded.Version != 2 {
		t.Errorf("期望 Compilers/version=2，实际 %s/%d", reloaded.Course, reloaded.Version)
	}
}

func TestExamRepo_Delete_RemovesPlan(t *testing.T) {
	ctx := context.Background()
	fx := setupFixture(t)

	if err := testRepo.SeatPlan.ReplaceForExam(ctx, fx.exam.ExamID, buildPlan(fx, fx.rooms...)); err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	if err := testRepo.Exam.Delete(ctx, fx.exam.ExamID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	if _, err := testRepo.Exam.GetByID(ctx, fx.exam.ExamID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望软删除后不可见，实际: %v", err)
	}
	loaded, _ := testRepo.SeatPlan.ListByExam(ctx, fx.exam.ExamID)
	if len(loaded) != 0 {
		t.Errorf("期望座位表一并删除，实际 %d 个考场", len(loaded))
	}
	if err := testRepo.Exam.Delete(ctx, fx.exam.ExamID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("重复删除期望 ErrRecordNotFound，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Catalog repositories
// ═══════════════════════════════════════════════════════════

func TestStudentRepo_Upsert_UpdatesByRollNumber(t *testing.T) {
	ctx := context.Background()
	fx := setupFixture(t)

	changed := fx.students[0]
	changed.StudentID = uuid.NewString() // 以学号为准，不应产生新记录
	changed.Name = "改名考生"
	if err := testRepo.Student.Upsert(ctx, []model.Student{changed}); err != nil {
		t.Fatalf("Upsert 失败: %v", err)
	}

	list, err := testRepo.Student.ListActiveByDepartment(ctx, fx.dept.DepartmentID)
	if err != nil {
		t.Fatalf("ListActiveByDepartment 失败: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("期望 5 名考生，实际 %d", len(list))
	}
	if list[0].StudentID != fx.students[0].StudentID || list[0].Name != "改名考生" {
		t.Errorf("期望按学号更新原记录，实际 %+v", list[0])
	}
}

func TestRoomRepo_ListByIDs(t *testing.T) {
	ctx := context.Background()
	fx := setupFixture(t)

	rooms, err := testRepo.Room.ListByIDs(ctx, []string{fx.rooms[1].RoomID, uuid.NewString()})
	if err != nil {
		t.Fatalf("ListByIDs 失败: %v", err)
	}
	if len(rooms) != 1 || rooms[0].RoomID != fx.rooms[1].RoomID {
		t.Errorf("期望只返回已存在的教室，实际 %+v", rooms)
	}
}
