package repository

import (
	"context"

	"gorm.io/gorm"

	"seatplan-pro/internal/model"
)

// BuildingRepository 教学楼数据访问接口
type BuildingRepository interface {
	Create(ctx context.Context, building *model.Building) error
	List(ctx context.Context) ([]model.Building, error)
}

type buildingRepo struct {
	db *gorm.DB
}

// NewBuildingRepo 创建 BuildingRepository 实例
func NewBuildingRepo(db *gorm.DB) BuildingRepository {
	return &buildingRepo{db: db}
}

func (r *buildingRepo) Create(ctx context.Context, building *model.Building) error {
	return r.db.WithContext(ctx).Create(building).Error
}

func (r *buildingRepo) List(ctx context.Context) ([]model.Building, error) {
	var buildings []model.Building
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&buildings).Error
	return buildings, err
}
