package repository

import (
	"context"

	"gorm.io/gorm"

	"seatplan-pro/internal/model"
)

// SeatPlanRepository 座位表数据访问接口
type SeatPlanRepository interface {
	// ReplaceForExam 在同一事务中删除考试旧座位表、写入新考场及其座位与监考分工，
	// 并将考试状态置为 planned；任一步失败则整体回滚
	ReplaceForExam(ctx context.Context, examID string, examRooms []model.ExamRoom) error
	// ListByExam 返回考试的考场列表（含教室、座位及考生、监考及教师）
	ListByExam(ctx context.Context, examID string) ([]model.ExamRoom, error)
}

type seatPlanRepo struct {
	db *gorm.DB
}

// NewSeatPlanRepo 创建 SeatPlanRepository 实例
func NewSeatPlanRepo(db *gorm.DB) SeatPlanRepository {
	return &seatPlanRepo{db: db}
}

func (r *seatPlanRepo) ReplaceForExam(ctx context.Context, examID string, examRooms []model.ExamRoom) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deletePlan(tx, examID); err != nil {
			return err
		}

		var (
			seats []model.SeatAssignment
			roles []model.InvigilatorAssignment
		)
		rooms := make([]model.ExamRoom, len(examRooms))
		for i, er := range examRooms {
			seats = append(seats, er.SeatAssignments...)
			roles = append(roles, er.InvigilatorAssignments...)
			er.SeatAssignments = nil
			er.InvigilatorAssignments = nil
			er.Room = nil
			rooms[i] = er
		}

		if len(rooms) > 0 {
			if err := tx.Create(&rooms).Error; err != nil {
				return err
			}
		}
		if len(seats) > 0 {
			if err := tx.Omit("Student").CreateInBatches(&seats, batchSize).Error; err != nil {
				return err
			}
		}
		if len(roles) > 0 {
			if err := tx.Omit("Invigilator").CreateInBatches(&roles, batchSize).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.Exam{}).
			Where("exam_id = ?", examID).
			Updates(map[string]interface{}{
				"status":     model.ExamStatusPlanned,
				"updated_at": gorm.Expr("NOW()"),
			}).Error
	})
}

func (r *seatPlanRepo) ListByExam(ctx context.Context, examID string) ([]model.ExamRoom, error) {
	var examRooms []model.ExamRoom
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("SeatAssignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("seat_number ASC")
		}).
		Preload("SeatAssignments.Student").
		Preload("InvigilatorAssignments").
		Preload("InvigilatorAssignments.Invigilator").
		Where("exam_id = ?", examID).
		Order("sequence ASC").
		Find(&examRooms).Error
	return examRooms, err
}

// deletePlan 删除考试已有的座位表（需在事务内调用）
func deletePlan(tx *gorm.DB, examID string) error {
	examRoomIDs := tx.Model(&model.ExamRoom{}).Select("exam_room_id").Where("exam_id = ?", examID)

	if err := tx.Where("exam_room_id IN (?)", examRoomIDs).Delete(&model.SeatAssignment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("exam_room_id IN (?)", examRoomIDs).Delete(&model.InvigilatorAssignment{}).Error; err != nil {
		return err
	}
	return tx.Where("exam_id = ?", examID).Delete(&model.ExamRoom{}).Error
}
