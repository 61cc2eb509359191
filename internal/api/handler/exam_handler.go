package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"seatplan-pro/internal/dto"
	"seatplan-pro/internal/service"
	"seatplan-pro/pkg/response"
)

// ExamHandler 考试模块 HTTP 处理器
type ExamHandler struct {
	examSvc service.ExamService
}

// NewExamHandler 创建 ExamHandler
func NewExamHandler(examSvc service.ExamService) *ExamHandler {
	return &ExamHandler{examSvc: examSvc}
}

// ListExams 分页获取考试列表
// GET /api/v1/exams?department_id=xxx&status=draft
func (h *ExamHandler) ListExams(c *gin.Context) {
	var req dto.ExamListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	exams, total, err := h.examSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, exams, total, req.GetPage(), req.GetPageSize())
}

// GetExam 获取考试详情
// GET /api/v1/exams/:id
func (h *ExamHandler) GetExam(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "考试ID不能为空")
		return
	}

	exam, err := h.examSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	response.OK(c, exam)
}

// CreateExam 创建考试
// POST /api/v1/exams
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req dto.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	exam, err := h.examSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	response.Created(c, exam)
}

// UpdateExam 更新考试（需携带 version）
// PUT /api/v1/exams/:id
func (h *ExamHandler) UpdateExam(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "考试ID不能为空")
		return
	}

	var req dto.UpdateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	exam, err := h.examSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	response.OK(c, exam)
}

// DeleteExam 删除考试及其座位表
// DELETE /api/v1/exams/:id
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "考试ID不能为空")
		return
	}

	if err := h.examSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleExamError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleExamError 统一处理考试模块业务错误
func (h *ExamHandler) handleExamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		response.NotFound(c, 21001, "考试不存在")
	case errors.Is(err, service.ErrExamInvalidDate):
		response.BadRequest(c, 21002, service.ErrExamInvalidDate.Error())
	case errors.Is(err, service.ErrExamVersionConflict):
		response.Conflict(c, 21003, service.ErrExamVersionConflict.Error())
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 22001, "院系不存在")
	default:
		response.InternalError(c)
	}
}
