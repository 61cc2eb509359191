package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Department  DepartmentRepository
	Building    BuildingRepository
	Room        RoomRepository
	Invigilator InvigilatorRepository
	Student     StudentRepository
	Exam        ExamRepository
	SeatPlan    SeatPlanRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Department:  NewDepartmentRepo(db),
		Building:    NewBuildingRepo(db),
		Room:        NewRoomRepo(db),
		Invigilator: NewInvigilatorRepo(db),
		Student:     NewStudentRepo(db),
		Exam:        NewExamRepo(db),
		SeatPlan:    NewSeatPlanRepo(db),
	}
}

// batchSize 批量写入每批行数
const batchSize = 500
