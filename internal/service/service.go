package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"seatplan-pro/config"
	"seatplan-pro/internal/queue"
	"seatplan-pro/internal/repository"
	"seatplan-pro/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Catalog  CatalogService
	Exam     ExamService
	SeatPlan SeatPlanService
}

// NewService 创建 Service 聚合
// rdb 为 nil 时座位表生成不加锁、查询不走缓存
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	publisher queue.Publisher,
	logger *zap.Logger,
) *Service {
	var (
		locker PlanLocker
		cache  PlanCache
	)
	if rdb != nil {
		locker = rdb
		cache = rdb
	}

	return &Service{
		Catalog:  NewCatalogService(repo, logger),
		Exam:     NewExamService(repo, logger),
		SeatPlan: NewSeatPlanService(repo, cfg.Seating, locker, cache, publisher, logger),
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
