package dto

// ── 基础数据模块 DTO ──

// DepartmentResponse 院系信息
type DepartmentResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// BuildingResponse 教学楼信息
type BuildingResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// RoomListRequest 教室列表查询参数
type RoomListRequest struct {
	BuildingID string `form:"building_id" binding:"omitempty,uuid"`
}

// RoomResponse 教室信息
type RoomResponse struct {
	ID         string `json:"id"`
	Number     string `json:"number"`
	Name       string `json:"name"`
	BuildingID string `json:"building_id"`
	Floor      int    `json:"floor"`
	Capacity   int    `json:"capacity"`
	Rows       int    `json:"rows"`
	Columns    int    `json:"columns"`
	RoomType   string `json:"room_type"`
	IsActive   bool   `json:"is_active"`
}

// InvigilatorInput 监考教师上传条目
// Rank 为空时由 Designation 推导
type InvigilatorInput struct {
	Name         string `json:"name"          binding:"required,max=100"`
	Designation  string `json:"designation"   binding:"required,max=50"`
	Rank         string `json:"rank"          binding:"omitempty,oneof=chief main junior"`
	DepartmentID string `json:"department_id" binding:"omitempty,uuid"`
}

// UploadInvigilatorsRequest 批量上传监考教师
type UploadInvigilatorsRequest struct {
	Invigilators []InvigilatorInput `json:"invigilators" binding:"required,min=1,dive"`
}

// InvigilatorResponse 监考教师信息
type InvigilatorResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Designation  string `json:"designation"`
	Rank         string `json:"rank"`
	DepartmentID string `json:"department_id,omitempty"`
	IsActive     bool   `json:"is_active"`
}

// StudentListRequest 考生列表查询参数
type StudentListRequest struct {
	PaginationRequest
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}

// StudentInput 考生上传条目
// DepartmentID 与 DepartmentCode 二选一
type StudentInput struct {
	RollNumber     string `json:"roll_number"     binding:"required,max=20"`
	Name           string `json:"name"            binding:"required,max=100"`
	DepartmentID   string `json:"department_id"   binding:"omitempty,uuid"`
	DepartmentCode string `json:"department_code" binding:"omitempty,max=10"`
}

// UploadStudentsRequest 批量上传考生
type UploadStudentsRequest struct {
	Students []StudentInput `json:"students" binding:"required,min=1,dive"`
}

// StudentResponse 考生信息
type StudentResponse struct {
	ID           string `json:"id"`
	RollNumber   string `json:"roll_number"`
	Name         string `json:"name"`
	DepartmentID string `json:"department_id"`
	IsActive     bool   `json:"is_active"`
}
