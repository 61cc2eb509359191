package handler

import "seatplan-pro/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Catalog  *CatalogHandler
	Exam     *ExamHandler
	SeatPlan *SeatPlanHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Catalog:  NewCatalogHandler(svc.Catalog),
		Exam:     NewExamHandler(svc.Exam),
		SeatPlan: NewSeatPlanHandler(svc.SeatPlan),
	}
}
