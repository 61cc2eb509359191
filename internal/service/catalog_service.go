package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"seatplan-pro/internal/dto"
	"seatplan-pro/internal/model"
	"seatplan-pro/internal/repository"
	"seatplan-pro/internal/seating"
)

// ── 基础数据模块业务错误 ──

var (
	ErrDepartmentNotFound    = errors.New("院系不存在")
	ErrUnknownDesignation    = errors.New("无法识别的监考职称")
	ErrStudentDepartmentMiss = errors.New("考生缺少院系信息")
	ErrDuplicateRollNumber   = errors.New("上传数据中学号重复")
)

// ── 考生 Excel 导入错误 ──

const maxImportRows = 5000

var (
	ErrImportNoData      = errors.New("Excel文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（学号/姓名/院系代码）")
	ErrImportBadFile     = errors.New("无法解析Excel文件")
)

// CatalogService 院系、教学楼、教室、监考教师与考生等基础数据业务接口
type CatalogService interface {
	ListDepartments(ctx context.Context) ([]dto.DepartmentResponse, error)
	ListBuildings(ctx context.Context) ([]dto.BuildingResponse, error)
	ListRooms(ctx context.Context, req *dto.RoomListRequest) ([]dto.RoomResponse, error)
	ListInvigilators(ctx context.Context) ([]dto.InvigilatorResponse, error)
	UploadInvigilators(ctx context.Context, req *dto.UploadInvigilatorsRequest) (*dto.UploadResult, error)
	ListStudents(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error)
	// UploadStudents 批量写入考生，任一条校验失败则整批拒绝
	UploadStudents(ctx context.Context, req *dto.UploadStudentsRequest) (*dto.UploadResult, error)
	// ParseStudentImportFile 解析考生导入 Excel（学号、姓名、院系代码三列）
	ParseStudentImportFile(reader io.Reader) ([]dto.StudentInput, error)
	ImportStudents(ctx context.Context, reader io.Reader) (*dto.UploadResult, error)
}

type catalogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, logger: logger}
}

func (s *catalogService) ListDepartments(ctx context.Context) ([]dto.DepartmentResponse, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("查询院系列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		result = append(result, toDepartmentResponse(&depts[i]))
	}
	return result, nil
}

func (s *catalogService) ListBuildings(ctx context.Context) ([]dto.BuildingResponse, error) {
	buildings, err := s.repo.Building.List(ctx)
	if err != nil {
		s.logger.Error("查询教学楼列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.BuildingResponse, 0, len(buildings))
	for _, b := range buildings {
		result = append(result, dto.BuildingResponse{ID: b.BuildingID, Code: b.Code, Name: b.Name})
	}
	return result, nil
}

func (s *catalogService) ListRooms(ctx context.Context, req *dto.RoomListRequest) ([]dto.RoomResponse, error) {
	rooms, err := s.repo.Room.List(ctx, req.BuildingID)
	if err != nil {
		s.logger.Error("查询教室列表失败", zap.String("building_id", req.BuildingID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		result = append(result, toRoomResponse(&rooms[i]))
	}
	return result, nil
}

func (s *catalogService) ListInvigilators(ctx context.Context) ([]dto.InvigilatorResponse, error) {
	invs, err := s.repo.Invigilator.List(ctx)
	if err != nil {
		s.logger.Error("查询监考教师列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.InvigilatorResponse, 0, len(invs))
	for i := range invs {
		result = append(result, toInvigilatorResponse(&invs[i]))
	}
	return result, nil
}

func (s *catalogService) UploadInvigilators(ctx context.Context, req *dto.UploadInvigilatorsRequest) (*dto.UploadResult, error) {
	invs := make([]model.Invigilator, 0, len(req.Invigilators))
	for i, in := range req.Invigilators {
		rankText := in.Rank
		if rankText == "" {
			rankText = in.Designation
		}
		rank, ok := seating.ParseRank(rankText)
		if !ok {
			return nil, fmt.Errorf("第 %d 条 %q: %w", i+1, in.Designation, ErrUnknownDesignation)
		}

		inv := model.Invigilator{
			Name:        strings.TrimSpace(in.Name),
			Designation: strings.TrimSpace(in.Designation),
			Rank:        string(rank),
			IsActive:    true,
		}
		if in.DepartmentID != "" {
			if _, err := s.repo.Department.GetByID(ctx, in.DepartmentID); err != nil {
				if isNotFound(err) {
					return nil, fmt.Errorf("第 %d 条: %w", i+1, ErrDepartmentNotFound)
				}
				return nil, err
			}
			deptID := in.DepartmentID
			inv.DepartmentID = &deptID
		}
		invs = append(invs, inv)
	}

	if err := s.repo.Invigilator.BatchCreate(ctx, invs); err != nil {
		s.logger.Error("批量写入监考教师失败", zap.Int("count", len(invs)), zap.Error(err))
		return nil, err
	}

	s.logger.Info("监考教师上传完成", zap.Int("count", len(invs)))
	return &dto.UploadResult{Count: len(invs)}, nil
}

func (s *catalogService) ListStudents(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error) {
	students, total, err := s.repo.Student.List(ctx, req.DepartmentID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询考生列表失败", zap.String("department_id", req.DepartmentID), zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.StudentResponse, 0, len(students))
	for _, st := range students {
		result = append(result, dto.StudentResponse{
			ID:           st.StudentID,
			RollNumber:   st.RollNumber,
			Name:         st.Name,
			DepartmentID: st.DepartmentID,
			IsActive:     st.IsActive,
		})
	}
	return result, total, nil
}

func (s *catalogService) UploadStudents(ctx context.Context, req *dto.UploadStudentsRequest) (*dto.UploadResult, error) {
	// 预加载院系，按 ID 与代码两种方式解析
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("加载院系列表失败", zap.Error(err))
		return nil, err
	}
	byID := make(map[string]bool, len(depts))
	byCode := make(map[string]string, len(depts))
	for _, d := range depts {
		byID[d.DepartmentID] = true
		byCode[strings.ToUpper(d.Code)] = d.DepartmentID
	}

	seen := make(map[string]int, len(req.Students))
	students := make([]model.Student, 0, len(req.Students))
	for i, in := range req.Students {
		roll := strings.TrimSpace(in.RollNumber)
		if first, dup := seen[roll]; dup {
			return nil, fmt.Errorf("第 %d 条与第 %d 条 %q: %w", i+1, first, roll, ErrDuplicateRollNumber)
		}
		seen[roll] = i + 1

		var deptID string
		switch {
		case in.DepartmentID != "":
			if !byID[in.DepartmentID] {
				return nil, fmt.Errorf("第 %d 条: %w", i+1, ErrDepartmentNotFound)
			}
			deptID = in.DepartmentID
		case in.DepartmentCode != "":
			id, ok := byCode[strings.ToUpper(strings.TrimSpace(in.DepartmentCode))]
			if !ok {
				return nil, fmt.Errorf("第 %d 条院系代码 %q: %w", i+1, in.DepartmentCode, ErrDepartmentNotFound)
			}
			deptID = id
		default:
			return nil, fmt.Errorf("第 %d 条: %w", i+1, ErrStudentDepartmentMiss)
		}

		students = append(students, model.Student{
			RollNumber:   roll,
			Name:         strings.TrimSpace(in.Name),
			DepartmentID: deptID,
			IsActive:     true,
		})
	}

	if err := s.repo.Student.Upsert(ctx, students); err != nil {
		s.logger.Error("批量写入考生失败", zap.Int("count", len(students)), zap.Error(err))
		return nil, err
	}

	s.logger.Info("考生上传完成", zap.Int("count", len(students)))
	return &dto.UploadResult{Count: len(students)}, nil
}

func (s *catalogService) ParseStudentImportFile(reader io.Reader) ([]dto.StudentInput, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: 读取工作表失败: %v", ErrImportBadFile, err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	colIndex := parseStudentHeader(excelRows[0])
	if colIndex["roll_number"] < 0 || colIndex["name"] < 0 || colIndex["department_code"] < 0 {
		return nil, ErrImportBadHeader
	}

	var rows []dto.StudentInput
	for _, row := range excelRows[1:] {
		item := dto.StudentInput{
			RollNumber:     cellAt(row, colIndex["roll_number"]),
			Name:           cellAt(row, colIndex["name"]),
			DepartmentCode: cellAt(row, colIndex["department_code"]),
		}
		if item.RollNumber == "" && item.Name == "" && item.DepartmentCode == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

func (s *catalogService) ImportStudents(ctx context.Context, reader io.Reader) (*dto.UploadResult, error) {
	rows, err := s.ParseStudentImportFile(reader)
	if err != nil {
		return nil, err
	}
	return s.UploadStudents(ctx, &dto.UploadStudentsRequest{Students: rows})
}

// parseStudentHeader 解析表头，支持中英文列名与任意列序
func parseStudentHeader(header []string) map[string]int {
	idx := map[string]int{
		"roll_number":     -1,
		"name":            -1,
		"department_code": -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "学号", "roll number", "roll_number":
			idx["roll_number"] = i
		case "姓名", "name":
			idx["name"] = i
		case "院系代码", "院系", "department code", "department_code", "department":
			idx["department_code"] = i
		}
	}
	return idx
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ── 转换函数 ──

func toDepartmentResponse(d *model.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:          d.DepartmentID,
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
	}
}

func toRoomResponse(r *model.Room) dto.RoomResponse {
	return dto.RoomResponse{
		ID:         r.RoomID,
		Number:     r.Number,
		Name:       r.Name,
		BuildingID: r.BuildingID,
		Floor:      r.Floor,
		Capacity:   r.Capacity,
		Rows:       r.Rows,
		Columns:    r.Columns,
		RoomType:   r.RoomType,
		IsActive:   r.IsActive,
	}
}

func toInvigilatorResponse(inv *model.Invigilator) dto.InvigilatorResponse {
	resp := dto.InvigilatorResponse{
		ID:          inv.InvigilatorID,
		Name:        inv.Name,
		Designation: inv.Designation,
		Rank:        inv.Rank,
		IsActive:    inv.IsActive,
	}
	if inv.DepartmentID != nil {
		resp.DepartmentID = *inv.DepartmentID
	}
	return resp
}
