package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"seatplan-pro/internal/dto"
	"seatplan-pro/internal/model"
	"seatplan-pro/internal/repository"
	pkgerrors "seatplan-pro/pkg/errors"
)

// ── 考试模块业务错误 ──

var (
	ErrExamNotFound        = errors.New("考试不存在")
	ErrExamInvalidDate     = errors.New("考试日期格式无效，应为 YYYY-MM-DD")
	ErrExamVersionConflict = errors.New("考试信息已被其他操作修改，请刷新后重试")
)

const examDateLayout = "2006-01-02"

// ExamService 考试业务接口
type ExamService interface {
	Create(ctx context.Context, req *dto.CreateExamRequest) (*dto.ExamResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ExamResponse, error)
	List(ctx context.Context, req *dto.ExamListRequest) ([]dto.ExamResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateExamRequest) (*dto.ExamResponse, error)
	Delete(ctx context.Context, id string) error
}

type examService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExamService 创建 ExamService 实例
func NewExamService(repo *repository.Repository, logger *zap.Logger) ExamService {
	return &examService{repo: repo, logger: logger}
}

func (s *examService) Create(ctx context.Context, req *dto.CreateExamRequest) (*dto.ExamResponse, error) {
	date, err := parseExamDate(req.Date)
	if err != nil {
		return nil, err
	}

	dept, err := s.repo.Department.GetByID(ctx, req.DepartmentID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询院系失败", zap.String("department_id", req.DepartmentID), zap.Error(err))
		return nil, err
	}

	exam := &model.Exam{
		Name:         strings.TrimSpace(req.Name),
		Date:         date,
		Shift:        strings.TrimSpace(req.Shift),
		Course:       strings.TrimSpace(req.Course),
		DepartmentID: dept.DepartmentID,
		Status:       model.ExamStatusDraft,
	}
	exam.Version = 1

	if err := s.repo.Exam.Create(ctx, exam); err != nil {
		s.logger.Error("创建考试失败", zap.Error(err))
		return nil, err
	}
	exam.Department = dept

	s.logger.Info("考试已创建", zap.String("exam_id", exam.ExamID), zap.String("name", exam.Name))
	resp := toExamResponse(exam)
	return &resp, nil
}

func (s *examService) GetByID(ctx context.Context, id string) (*dto.ExamResponse, error) {
	exam, err := s.getExam(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toExamResponse(exam)
	return &resp, nil
}

func (s *examService) List(ctx context.Context, req *dto.ExamListRequest) ([]dto.ExamResponse, int64, error) {
	exams, total, err := s.repo.Exam.List(ctx, repository.ExamFilter{
		DepartmentID: req.DepartmentID,
		Status:       req.Status,
		Offset:       req.GetOffset(),
		Limit:        req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("查询考试列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ExamResponse, 0, len(exams))
	for i := range exams {
		result = append(result, toExamResponse(&exams[i]))
	}
	return result, total, nil
}

func (s *examService) Update(ctx context.Context, id string, req *dto.UpdateExamRequest) (*dto.ExamResponse, error) {
	exam, err := s.getExam(ctx, id)
	if err != nil {
		return nil, err
	}
	if exam.Version != req.Version {
		return nil, ErrExamVersionConflict
	}

	if req.Name != nil {
		exam.Name = strings.TrimSpace(*req.Name)
	}
	if req.Date != nil {
		date, err := parseExamDate(*req.Date)
		if err != nil {
			return nil, err
		}
		exam.Date = date
	}
	if req.Shift != nil {
		exam.Shift = strings.TrimSpace(*req.Shift)
	}
	if req.Course != nil {
		exam.Course = strings.TrimSpace(*req.Course)
	}

	if err := s.repo.Exam.Update(ctx, exam); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrExamVersionConflict
		}
		s.logger.Error("更新考试失败", zap.String("exam_id", id), zap.Error(err))
		return nil, err
	}

	resp := toExamResponse(exam)
	return &resp, nil
}

func (s *examService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Exam.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrExamNotFound
		}
		s.logger.Error("删除考试失败", zap.String("exam_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("考试已删除", zap.String("exam_id", id))
	return nil
}

func (s *examService) getExam(ctx context.Context, id string) (*model.Exam, error) {
	exam, err := s.repo.Exam.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrExamNotFound
		}
		s.logger.Error("查询考试失败", zap.String("exam_id", id), zap.Error(err))
		return nil, err
	}
	return exam, nil
}

// parseExamDate 接受 YYYY-MM-DD 或 RFC3339
func parseExamDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(examDateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrExamInvalidDate
}

func toExamResponse(e *model.Exam) dto.ExamResponse {
	resp := dto.ExamResponse{
		ID:           e.ExamID,
		Name:         e.Name,
		Date:         e.Date.Format(examDateLayout),
		Shift:        e.Shift,
		Course:       e.Course,
		DepartmentID: e.DepartmentID,
		Status:       e.Status,
		Version:      e.Version,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    e.UpdatedAt.Format(time.RFC3339),
	}
	if e.Department != nil {
		d := toDepartmentResponse(e.Department)
		resp.Department = &d
	}
	return resp
}
