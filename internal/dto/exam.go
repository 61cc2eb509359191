package dto

// ── 考试模块 DTO ──

// CreateExamRequest 创建考试请求
// Date 格式 YYYY-MM-DD
type CreateExamRequest struct {
	Name         string `json:"name"          binding:"required,max=200"`
	Date         string `json:"date"          binding:"required"`
	Shift        string `json:"shift"         binding:"required,max=10"`
	Course       string `json:"course"        binding:"required,max=200"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
}

// UpdateExamRequest 更新考试请求（乐观锁）
type UpdateExamRequest struct {
	Name    *string `json:"name"    binding:"omitempty,max=200"`
	Date    *string `json:"date"`
	Shift   *string `json:"shift"   binding:"omitempty,max=10"`
	Course  *string `json:"course"  binding:"omitempty,max=200"`
	Version int     `json:"version" binding:"required,min=1"`
}

// ExamListRequest 考试列表查询参数
type ExamListRequest struct {
	PaginationRequest
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	Status       string `form:"status"        binding:"omitempty,oneof=draft planned"`
}

// ExamResponse 考试信息
type ExamResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Date         string              `json:"date"`
	Shift        string              `json:"shift"`
	Course       string              `json:"course"`
	DepartmentID string              `json:"department_id"`
	Department   *DepartmentResponse `json:"department,omitempty"`
	Status       string              `json:"status"`
	Version      int                 `json:"version"`
	CreatedAt    string              `json:"created_at"`
	UpdatedAt    string              `json:"updated_at"`
}
