package repository

import (
	"context"

	"gorm.io/gorm"

	"seatplan-pro/internal/model"
	pkgerrors "seatplan-pro/pkg/errors"
)

// ExamFilter 考试列表过滤条件
type ExamFilter struct {
	DepartmentID string
	Status       string
	Offset       int
	Limit        int
}

// ExamRepository 考试数据访问接口
type ExamRepository interface {
	Create(ctx context.Context, exam *model.Exam) error
	GetByID(ctx context.Context, id string) (*model.Exam, error)
	List(ctx context.Context, filter ExamFilter) ([]model.Exam, int64, error)
	// Update 乐观锁更新基本信息（status 由座位表生成维护），version 不匹配时返回 ErrOptimisticLock
	Update(ctx context.Context, exam *model.Exam) error
	// Delete 软删除考试并清除其座位表
	Delete(ctx context.Context, id string) error
}

type examRepo struct {
	db *gorm.DB
}

// NewExamRepo 创建 ExamRepository 实例
func NewExamRepo(db *gorm.DB) ExamRepository {
	return &examRepo{db: db}
}

func (r *examRepo) Create(ctx context.Context, exam *model.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

func (r *examRepo) GetByID(ctx context.Context, id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("exam_id = ?", id).
		First(&exam).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepo) List(ctx context.Context, filter ExamFilter) ([]model.Exam, int64, error) {
	var (
		exams []model.Exam
		total int64
	)
	db := r.db.WithContext(ctx).Model(&model.Exam{})
	if filter.DepartmentID != "" {
		db = db.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Preload("Department").Order("date DESC, shift ASC")
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}
	err := q.Find(&exams).Error
	return exams, total, err
}

func (r *examRepo) Update(ctx context.Context, exam *model.Exam) error {
	oldVersion := exam.Version
	result := r.db.WithContext(ctx).
		Model(&model.Exam{}).
		Where("exam_id = ? AND version = ?", exam.ExamID, oldVersion).
		Updates(map[string]interface{}{
			"name":       exam.Name,
			"date":       exam.Date,
			"shift":      exam.Shift,
			"course":     exam.Course,
			"version":    oldVersion + 1,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	exam.Version = oldVersion + 1
	return nil
}

func (r *examRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deletePlan(tx, id); err != nil {
			return err
		}
		result := tx.Where("exam_id = ?", id).Delete(&model.Exam{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
