package repository

import (
	"context"

	"gorm.io/gorm"

	"seatplan-pro/internal/model"
)

// RoomRepository 教室数据访问接口
type RoomRepository interface {
	BatchCreate(ctx context.Context, rooms []model.Room) error
	List(ctx context.Context, buildingID string) ([]model.Room, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Room, error)
}

type roomRepo struct {
	db *gorm.DB
}

// NewRoomRepo 创建 RoomRepository 实例
func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) BatchCreate(ctx context.Context, rooms []model.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(rooms, batchSize).Error
}

// List 返回教室列表，buildingID 为空时返回全部
func (r *roomRepo) List(ctx context.Context, buildingID string) ([]model.Room, error) {
	var rooms []model.Room
	db := r.db.WithContext(ctx)
	if buildingID != "" {
		db = db.Where("building_id = ?", buildingID)
	}
	err := db.Order("number ASC").Find(&rooms).Error
	return rooms, err
}

// ListByIDs 按 ID 批量查询，结果顺序不保证与入参一致
func (r *roomRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Room, error) {
	if len(ids) == 0 {
		return []model.Room{}, nil
	}
	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Where("room_id IN ?", ids).
		Find(&rooms).Error
	return rooms, err
}
