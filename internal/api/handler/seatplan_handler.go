package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"seatplan-pro/internal/dto"
	"seatplan-pro/internal/seating"
	"seatplan-pro/internal/service"
	"seatplan-pro/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// SeatPlanHandler 座位编排模块 HTTP 处理器
type SeatPlanHandler struct {
	seatPlanSvc service.SeatPlanService
}

// NewSeatPlanHandler 创建 SeatPlanHandler
func NewSeatPlanHandler(seatPlanSvc service.SeatPlanService) *SeatPlanHandler {
	return &SeatPlanHandler{seatPlanSvc: seatPlanSvc}
}

// GenerateSeats 为考试生成座位表
// POST /api/v1/exams/:id/generate-seats
func (h *SeatPlanHandler) GenerateSeats(c *gin.Context) {
	examID := c.Param("id")
	if examID == "" {
		response.BadRequest(c, 10001, "考试ID不能为空")
		return
	}

	var req dto.GenerateSeatPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if len(req.RoomIDs) == 0 {
			response.BadRequest(c, 20001, seating.ErrEmptyRoomSelection.Error())
			return
		}
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.seatPlanSvc.Generate(c.Request.Context(), examID, &req)
	if err != nil {
		h.handleSeatPlanError(c, err)
		return
	}

	response.OK(c, result)
}

// GetExamRooms 获取考试的考场、座位与监考分工
// GET /api/v1/exam-rooms/:examId
func (h *SeatPlanHandler) GetExamRooms(c *gin.Context) {
	examID := c.Param("examId")
	if examID == "" {
		response.BadRequest(c, 10001, "考试ID不能为空")
		return
	}

	rooms, err := h.seatPlanSvc.GetPlan(c.Request.Context(), examID)
	if err != nil {
		h.handleSeatPlanError(c, err)
		return
	}

	response.OK(c, gin.H{"list": rooms})
}

// ExportSeatChart 导出座位图
// GET /api/v1/exams/:id/seat-chart
func (h *SeatPlanHandler) ExportSeatChart(c *gin.Context) {
	content, filename, err := h.seatPlanSvc.ExportSeatChart(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSeatPlanError(c, err)
		return
	}

	response.Attachment(c, filename, contentTypeXLSX, content)
}

// ExportDutyCalendar 导出监考日程
// GET /api/v1/exams/:id/duty-calendar
func (h *SeatPlanHandler) ExportDutyCalendar(c *gin.Context) {
	content, filename, err := h.seatPlanSvc.ExportDutyCalendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSeatPlanError(c, err)
		return
	}

	response.Attachment(c, filename, contentTypeICS, content)
}

// handleSeatPlanError 统一处理座位编排模块业务错误
func (h *SeatPlanHandler) handleSeatPlanError(c *gin.Context, err error) {
	var planErr *seating.PlanError

	switch {
	case errors.Is(err, seating.ErrCapacityExceeded):
		details := dto.CapacityErrorDetails{}
		if errors.As(err, &planErr) {
			details.StudentsCount = planErr.StudentCount
			details.TotalCapacity = planErr.TotalCapacity
		}
		response.ErrorWithData(c, http.StatusBadRequest, 20003, seating.ErrCapacityExceeded.Error(), details,
			fmt.Sprintf("students=%d capacity=%d", details.StudentsCount, details.TotalCapacity))
	case errors.Is(err, seating.ErrNoStudentsFound):
		response.BadRequest(c, 20002, seating.ErrNoStudentsFound.Error())
	case errors.Is(err, seating.ErrEmptyRoomSelection):
		response.BadRequest(c, 20001, seating.ErrEmptyRoomSelection.Error())
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 20004, err.Error())
	case errors.Is(err, service.ErrRoomInactive):
		response.BadRequest(c, 20005, err.Error())
	case errors.Is(err, service.ErrGenerationInProgress):
		response.Conflict(c, 20006, service.ErrGenerationInProgress.Error())
	case errors.Is(err, service.ErrSeatPlanNotFound):
		response.NotFound(c, 20007, service.ErrSeatPlanNotFound.Error())
	case errors.Is(err, service.ErrExamNotFound):
		response.NotFound(c, 21001, "考试不存在")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
