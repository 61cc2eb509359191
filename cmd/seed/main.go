package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"seatplan-pro/config"
	"seatplan-pro/internal/model"
	"seatplan-pro/internal/repository"
	"seatplan-pro/pkg/database"
	applogger "seatplan-pro/pkg/logger"
)

type seedDepartment struct {
	Code, Name string
	Staff      [3]string // Chief Instructor, Instructor, Junior Instructor
}

var departments = []seedDepartment{
	{"CST", "Computer Science & Technology", [3]string{"Sarah Ahmed", "Michael Johnson", "Lisa Chen"}},
	{"CT", "Civil Technology", [3]string{"David Wilson", "Emma Davis", "James Brown"}},
	{"PT", "Power Technology", [3]string{"Maria Rodriguez", "Robert Taylor", "Jennifer Wilson"}},
	{"ET", "Electronics Technology", [3]string{"Ahmed Khan", "Fatima Ali", "Hassan Mahmood"}},
	{"ENT", "Environmental Technology", [3]string{"Ayesha Rehman", "Omar Farooq", "Zara Sheikh"}},
	{"EMT", "Electromedical Technology", [3]string{"Ali Raza", "Nadia Iqbal", "Usman Ahmed"}},
}

var designations = [3]string{"Chief Instructor", "Instructor", "Junior Instructor"}
var ranks = [3]string{"chief", "main", "junior"}

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认 ./config/config.yaml）")
	studentsPerDept := flag.Int("students", 0, "每个院系生成的演示考生数，0 表示不生成")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := seed(ctx, repository.NewRepository(db), *studentsPerDept, logger); err != nil {
		logger.Fatal("初始化数据失败", zap.Error(err))
	}
}

func seed(ctx context.Context, repo *repository.Repository, studentsPerDept int, logger *zap.Logger) error {
	count, err := repo.Department.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("基础数据已存在，跳过初始化", zap.Int64("departments", count))
		return nil
	}

	var (
		invigilators []model.Invigilator
		students     []model.Student
	)
	for _, d := range departments {
		dept := &model.Department{Code: d.Code, Name: d.Name}
		if err := repo.Department.Create(ctx, dept); err != nil {
			return fmt.Errorf("创建院系 %s: %w", d.Code, err)
		}
		deptID := dept.DepartmentID
		for i, name := range d.Staff {
			invigilators = append(invigilators, model.Invigilator{
				InvigilatorID: uuid.NewString(),
				Name:          name,
				Designation:   designations[i],
				Rank:          ranks[i],
				DepartmentID:  &deptID,
				IsActive:      true,
			})
		}
		for n := 1; n <= studentsPerDept; n++ {
			students = append(students, model.Student{
				StudentID:    uuid.NewString(),
				RollNumber:   fmt.Sprintf("%s%04d", d.Code, n),
				Name:         fmt.Sprintf("%s Student %d", d.Code, n),
				DepartmentID: deptID,
				IsActive:     true,
			})
		}
	}

	rooms, err := seedBuildings(ctx, repo)
	if err != nil {
		return err
	}
	if err := repo.Room.BatchCreate(ctx, rooms); err != nil {
		return fmt.Errorf("创建教室: %w", err)
	}
	if err := repo.Invigilator.BatchCreate(ctx, invigilators); err != nil {
		return fmt.Errorf("创建监考教师: %w", err)
	}
	if err := repo.Student.Upsert(ctx, students); err != nil {
		return fmt.Errorf("创建考生: %w", err)
	}

	logger.Info("基础数据初始化完成",
		zap.Int("departments", len(departments)),
		zap.Int("rooms", len(rooms)),
		zap.Int("invigilators", len(invigilators)),
		zap.Int("students", len(students)),
	)
	return nil
}

// seedBuildings 创建两栋教学楼并返回待写入的教室
func seedBuildings(ctx context.Context, repo *repository.Repository) ([]model.Room, error) {
	b1 := &model.Building{Code: "B1", Name: "Building 1"}
	b2 := &model.Building{Code: "B2", Name: "Building 2"}
	for _, b := range []*model.Building{b1, b2} {
		if err := repo.Building.Create(ctx, b); err != nil {
			return nil, fmt.Errorf("创建教学楼 %s: %w", b.Code, err)
		}
	}

	var rooms []model.Room
	add := func(buildingID, number string, floor, rows, cols, capacity int, roomType string) {
		rooms = append(rooms, model.Room{
			RoomID:     uuid.NewString(),
			Number:     number,
			Name:       "Room " + number,
			BuildingID: buildingID,
			Floor:      floor,
			Capacity:   capacity,
			Rows:       rows,
			Columns:    cols,
			RoomType:   roomType,
			IsActive:   true,
		})
	}
	standard := func(buildingID string, floor, from, to int) {
		for n := from; n <= to; n++ {
			// 标准教室 8×8，容量在 40~60 之间按房号确定
			add(buildingID, fmt.Sprintf("%d", n), floor, 8, 8, 40+(n%5)*5, model.RoomTypeStandard)
		}
	}

	standard(b1.BuildingID, 1, 1101, 1135)

	add(b1.BuildingID, "1201-A", 2, 7, 8, 50, model.RoomTypeStandard)
	add(b1.BuildingID, "1201-B", 2, 7, 8, 50, model.RoomTypeStandard)
	standard(b1.BuildingID, 2, 1202, 1218)
	add(b1.BuildingID, "1219", 2, 12, 9, 105, model.RoomTypeConference)
	standard(b1.BuildingID, 2, 1220, 1235)

	standard(b1.BuildingID, 3, 1301, 1334)
	add(b1.BuildingID, "1335-A", 3, 9, 8, 70, model.RoomTypeHall)
	add(b1.BuildingID, "1335-B", 3, 9, 8, 70, model.RoomTypeHall)

	standard(b2.BuildingID, 1, 2101, 2120)
	standard(b2.BuildingID, 2, 2201, 2219)
	standard(b2.BuildingID, 3, 2301, 2319)

	return rooms, nil
}
