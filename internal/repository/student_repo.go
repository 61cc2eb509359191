package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seatplan-pro/internal/model"
)

// StudentRepository 考生数据访问接口
type StudentRepository interface {
	// Upsert 按学号批量写入，已存在的学号更新姓名与院系
	Upsert(ctx context.Context, students []model.Student) error
	List(ctx context.Context, departmentID string, offset, limit int) ([]model.Student, int64, error)
	ListActiveByDepartment(ctx context.Context, departmentID string) ([]model.Student, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Upsert(ctx context.Context, students []model.Student) error {
	if len(students) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "roll_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "department_id", "is_active", "updated_at"}),
		}).CreateInBatches(students, batchSize).Error
	})
}

func (r *studentRepo) List(ctx context.Context, departmentID string, offset, limit int) ([]model.Student, int64, error) {
	var (
		students []model.Student
		total    int64
	)
	db := r.db.WithContext(ctx).Model(&model.Student{})
	if departmentID != "" {
		db = db.Where("department_id = ?", departmentID)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("roll_number ASC").
		Offset(offset).
		Limit(limit).
		Find(&students).Error
	return students, total, err
}

// ListActiveByDepartment 返回院系内在籍考生，按学号升序
func (r *studentRepo) ListActiveByDepartment(ctx context.Context, departmentID string) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("department_id = ? AND is_active = ?", departmentID, true).
		Order("roll_number ASC").
		Find(&students).Error
	return students, err
}
