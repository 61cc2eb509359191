package repository

import (
	"context"

	"gorm.io/gorm"

	"seatplan-pro/internal/model"
)

// InvigilatorRepository 监考教师数据访问接口
type InvigilatorRepository interface {
	BatchCreate(ctx context.Context, invigilators []model.Invigilator) error
	List(ctx context.Context) ([]model.Invigilator, error)
	ListActive(ctx context.Context) ([]model.Invigilator, error)
}

type invigilatorRepo struct {
	db *gorm.DB
}

// NewInvigilatorRepo 创建 InvigilatorRepository 实例
func NewInvigilatorRepo(db *gorm.DB) InvigilatorRepository {
	return &invigilatorRepo{db: db}
}

func (r *invigilatorRepo) BatchCreate(ctx context.Context, invigilators []model.Invigilator) error {
	if len(invigilators) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(invigilators, batchSize).Error
	})
}

func (r *invigilatorRepo) List(ctx context.Context) ([]model.Invigilator, error) {
	var invigilators []model.Invigilator
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&invigilators).Error
	return invigilators, err
}

// ListActive 返回在岗监考教师，按职称、姓名排序以保证轮换顺序稳定
func (r *invigilatorRepo) ListActive(ctx context.Context) ([]model.Invigilator, error) {
	var invigilators []model.Invigilator
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("designation ASC, name ASC, invigilator_id ASC").
		Find(&invigilators).Error
	return invigilators, err
}
