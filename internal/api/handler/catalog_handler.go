package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"seatplan-pro/internal/dto"
	"seatplan-pro/internal/service"
	"seatplan-pro/pkg/response"
)

// CatalogHandler 基础数据（院系、教学楼、教室、监考教师、考生）HTTP 处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListDepartments 获取院系列表
// GET /api/v1/departments
func (h *CatalogHandler) ListDepartments(c *gin.Context) {
	depts, err := h.catalogSvc.ListDepartments(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": depts})
}

// ListBuildings 获取教学楼列表
// GET /api/v1/buildings
func (h *CatalogHandler) ListBuildings(c *gin.Context) {
	buildings, err := h.catalogSvc.ListBuildings(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": buildings})
}

// ListRooms 获取教室列表
// GET /api/v1/rooms?building_id=xxx
func (h *CatalogHandler) ListRooms(c *gin.Context) {
	var req dto.RoomListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rooms, err := h.catalogSvc.ListRooms(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": rooms})
}

// ListInvigilators 获取监考教师列表
// GET /api/v1/invigilators
func (h *CatalogHandler) ListInvigilators(c *gin.Context) {
	invs, err := h.catalogSvc.ListInvigilators(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": invs})
}

// UploadInvigilators 批量上传监考教师
// POST /api/v1/invigilators/upload
func (h *CatalogHandler) UploadInvigilators(c *gin.Context) {
	var req dto.UploadInvigilatorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.catalogSvc.UploadInvigilators(c.Request.Context(), &req)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.Created(c, result)
}

// ListStudents 分页获取考生列表
// GET /api/v1/students?department_id=xxx&page=1&page_size=50
func (h *CatalogHandler) ListStudents(c *gin.Context) {
	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	students, total, err := h.catalogSvc.ListStudents(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, students, total, req.GetPage(), req.GetPageSize())
}

// UploadStudents 批量上传考生
// POST /api/v1/students/upload
func (h *CatalogHandler) UploadStudents(c *gin.Context) {
	var req dto.UploadStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22008, "请检查上传格式：学号、姓名、院系代码")
		return
	}

	result, err := h.catalogSvc.UploadStudents(c.Request.Context(), &req)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.Created(c, result)
}

// ImportStudents 通过 Excel 导入考生
// POST /api/v1/students/import (multipart/form-data, field="file")
func (h *CatalogHandler) ImportStudents(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 22008, "请上传考生 Excel 文件")
		return
	}
	defer file.Close()

	result, err := h.catalogSvc.ImportStudents(c.Request.Context(), file)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.Created(c, result)
}

// handleCatalogError 统一处理基础数据模块业务错误
func (h *CatalogHandler) handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 22001, err.Error())
	case errors.Is(err, service.ErrUnknownDesignation):
		response.BadRequest(c, 22002, err.Error())
	case errors.Is(err, service.ErrStudentDepartmentMiss):
		response.BadRequest(c, 22003, err.Error())
	case errors.Is(err, service.ErrDuplicateRollNumber):
		response.BadRequest(c, 22004, err.Error())
	case errors.Is(err, service.ErrImportNoData):
		response.BadRequest(c, 22005, service.ErrImportNoData.Error())
	case errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, 22006, service.ErrImportTooManyRows.Error())
	case errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, 22007, service.ErrImportBadHeader.Error())
	case errors.Is(err, service.ErrImportBadFile):
		response.BadRequest(c, 22009, service.ErrImportBadFile.Error())
	default:
		response.InternalError(c)
	}
}
