package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"seatplan-pro/config"
	"seatplan-pro/internal/dto"
	"seatplan-pro/internal/model"
	"seatplan-pro/internal/queue"
	"seatplan-pro/internal/repository"
	"seatplan-pro/internal/seating"
	"seatplan-pro/pkg/logger"
	"seatplan-pro/pkg/redis"
)

// ── 座位编排模块业务错误 ──

var (
	ErrRoomNotFound         = errors.New("考场不存在")
	ErrRoomInactive         = errors.New("考场已停用")
	ErrGenerationInProgress = errors.New("该考试正在生成座位表，请稍后重试")
	ErrSeatPlanNotFound     = errors.New("该考试尚未生成座位表")
	ErrExportGenerateFail   = errors.New("生成导出文件失败")
)

const (
	lockKeyPrefix = "seatplan:lock:"
	planKeyPrefix = "seatplan:plan:"
	planCacheTTL  = 10 * time.Minute

	defaultLockTTL = 30 * time.Second
)

// PlanLocker 考试级互斥锁，避免同一考试并发生成
type PlanLocker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// PlanCache 座位表查询缓存
type PlanCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// SeatPlanService 座位表生成、查询与导出业务接口
type SeatPlanService interface {
	// Generate 为考试生成座位表与监考分工，替换已有结果
	Generate(ctx context.Context, examID string, req *dto.GenerateSeatPlanRequest) (*dto.GenerateSeatPlanResponse, error)
	// GetPlan 返回考试的考场详情；尚未生成时返回空列表
	GetPlan(ctx context.Context, examID string) ([]dto.ExamRoomDetailResponse, error)
	// ExportSeatChart 导出座位图 Excel，返回内容与建议文件名
	ExportSeatChart(ctx context.Context, examID string) ([]byte, string, error)
	// ExportDutyCalendar 导出监考日程 iCalendar，返回内容与建议文件名
	ExportDutyCalendar(ctx context.Context, examID string) ([]byte, string, error)
}

type seatPlanService struct {
	repo      *repository.Repository
	cfg       config.SeatingConfig
	locker    PlanLocker
	cache     PlanCache
	publisher queue.Publisher
	logger    *zap.Logger
}

// NewSeatPlanService 创建 SeatPlanService 实例
// locker、cache 为 nil 时分别跳过加锁与缓存
func NewSeatPlanService(
	repo *repository.Repository,
	cfg config.SeatingConfig,
	locker PlanLocker,
	cache PlanCache,
	publisher queue.Publisher,
	logger *zap.Logger,
) SeatPlanService {
	return &seatPlanService{
		repo:      repo,
		cfg:       cfg,
		locker:    locker,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// ═══════════════════════════════════════════════════════════
// Generate，生成座位表
// ═══════════════════════════════════════════════════════════
//
// 流程：
//  1. 查询考试，解析编排方式
//  2. 获取考试级互斥锁
//  3. 按请求顺序解析考场（去重，停用或不存在即失败）
//  4. 读取院系在籍考生与在岗监考教师
//  5. 引擎编排（校验失败时不写入任何数据）
//  6. 单事务替换旧座位表，清缓存，发布事件

func (s *seatPlanService) Generate(ctx context.Context, examID string, req *dto.GenerateSeatPlanRequest) (*dto.GenerateSeatPlanResponse, error) {
	log := logger.WithContext(ctx, s.logger).With(zap.String("exam_id", examID))

	exam, err := s.repo.Exam.GetByID(ctx, examID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrExamNotFound
		}
		log.Error("查询考试失败", zap.Error(err))
		return nil, err
	}

	var warnings []string
	pattern := seating.Pattern(s.cfg.DefaultPattern)
	if req.SeatingPattern != "" {
		pattern = seating.ParsePattern(req.SeatingPattern)
		if !seating.Pattern(strings.ToLower(strings.TrimSpace(req.SeatingPattern))).Valid() {
			warnings = append(warnings, fmt.Sprintf("编排方式 %q 无法识别，已按 %s 处理", req.SeatingPattern, pattern))
		}
	}
	if !pattern.Valid() {
		pattern = seating.DefaultPattern
	}

	unlock, err := s.lock(ctx, examID, log)
	if err != nil {
		return nil, err
	}
	defer unlock()

	rooms, err := s.resolveRooms(ctx, req.RoomIDs)
	if err != nil {
		return nil, err
	}

	students, err := s.repo.Student.ListActiveByDepartment(ctx, exam.DepartmentID)
	if err != nil {
		log.Error("查询考生失败", zap.Error(err))
		return nil, err
	}

	invigilators, err := s.repo.Invigilator.ListActive(ctx)
	if err != nil {
		log.Error("查询监考教师失败", zap.Error(err))
		return nil, err
	}

	in := seating.Input{
		Students: make([]seating.StudentRef, 0, len(students)),
		Rooms:    make([]seating.RoomRef, 0, len(rooms)),
		Pattern:  pattern,
	}
	for _, st := range students {
		in.Students = append(in.Students, seating.StudentRef{ID: st.StudentID, RollNumber: st.RollNumber, DepartmentID: st.DepartmentID})
	}
	for _, r := range rooms {
		in.Rooms = append(in.Rooms, seating.RoomRef{ID: r.RoomID, Capacity: r.Capacity, Rows: r.Rows, Columns: r.Columns})
	}
	skipped := 0
	for _, inv := range invigilators {
		rank, ok := seating.ParseRank(inv.Rank)
		if !ok {
			skipped++
			continue
		}
		in.Staff = append(in.Staff, seating.StaffRef{ID: inv.InvigilatorID, Rank: rank})
	}
	if skipped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d 名监考教师职级无效，未参与分配", skipped))
	}

	var opts []seating.Option
	if s.cfg.RandomSeed != 0 {
		opts = append(opts, seating.WithSeed(s.cfg.RandomSeed))
	}

	plan, err := seating.Generate(in, opts...)
	if err != nil {
		log.Warn("座位编排校验未通过", zap.Error(err))
		return nil, err
	}

	warnings = append(warnings, planWarnings(plan, len(rooms), in.Staff)...)

	examRooms := toExamRoomModels(examID, plan)
	if err := s.repo.SeatPlan.ReplaceForExam(ctx, examID, examRooms); err != nil {
		log.Error("保存座位表失败", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, examID, log)

	event := queue.SeatPlanGeneratedEvent{
		ExamID:       examID,
		ExamName:     exam.Name,
		Pattern:      string(plan.Pattern),
		Rooms:        len(plan.Rooms),
		Seats:        plan.SeatCount(),
		Invigilators: plan.RoleCount(),
		GeneratedAt:  time.Now().UTC(),
	}
	if err := s.publisher.PublishSeatPlanGenerated(ctx, event); err != nil {
		log.Warn("发布座位表生成事件失败", zap.Error(err))
	}

	log.Info("座位表生成完成",
		zap.String("pattern", string(plan.Pattern)),
		zap.Int("rooms", event.Rooms),
		zap.Int("seats", event.Seats),
		zap.Int("invigilators", event.Invigilators),
	)

	return &dto.GenerateSeatPlanResponse{
		Success:                     true,
		SeatingPattern:              string(plan.Pattern),
		ExamRoomsCount:              event.Rooms,
		SeatAssignmentsCount:        event.Seats,
		InvigilatorAssignmentsCount: event.Invigilators,
		Warnings:                    warnings,
	}, nil
}

// lock 获取考试级互斥锁；Redis 不可用时降级为不加锁
func (s *seatPlanService) lock(ctx context.Context, examID string, log *zap.Logger) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}

	ttl := s.cfg.LockTTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	key := lockKeyPrefix + examID
	token, ok, err := s.locker.AcquireLock(ctx, key, ttl)
	if err != nil {
		log.Warn("获取排座锁失败，降级为无锁执行", zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, ErrGenerationInProgress
	}

	return func() {
		// 请求 context 可能已取消，释放锁使用独立 context
		releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.locker.ReleaseLock(releaseCtx, key, token); err != nil {
			log.Warn("释放排座锁失败", zap.Error(err))
		}
	}, nil
}

// resolveRooms 按请求顺序返回考场，重复 ID 只保留首次出现
func (s *seatPlanService) resolveRooms(ctx context.Context, roomIDs []string) ([]model.Room, error) {
	seen := make(map[string]bool, len(roomIDs))
	ordered := make([]string, 0, len(roomIDs))
	for _, id := range roomIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ordered = append(ordered, id)
	}
	if len(ordered) == 0 {
		return nil, nil
	}

	found, err := s.repo.Room.ListByIDs(ctx, ordered)
	if err != nil {
		s.logger.Error("查询考场失败", zap.Error(err))
		return nil, err
	}
	byID := make(map[string]model.Room, len(found))
	for _, r := range found {
		byID[r.RoomID] = r
	}

	rooms := make([]model.Room, 0, len(ordered))
	for _, id := range ordered {
		r, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
		}
		if !r.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrRoomInactive, r.Number)
		}
		rooms = append(rooms, r)
	}
	return rooms, nil
}

// planWarnings 汇总不影响生成但需要提示的情况
func planWarnings(plan *seating.Plan, selectedRooms int, staff []seating.StaffRef) []string {
	var warnings []string
	used := len(plan.Rooms)
	if unused := selectedRooms - used; unused > 0 {
		warnings = append(warnings, fmt.Sprintf("%d 个所选考场未安排考生", unused))
	}

	counts := seating.RankCounts(staff)
	for _, rank := range []seating.Rank{seating.RankChief, seating.RankMain, seating.RankJunior} {
		n := counts[rank]
		switch {
		case n == 0:
			warnings = append(warnings, fmt.Sprintf("没有 %s 职级的监考教师，各考场该岗位空缺", rank))
		case n < used:
			warnings = append(warnings, fmt.Sprintf("%s 职级监考教师 %d 人少于考场数 %d，将轮换兼任多个考场", rank, n, used))
		}
	}
	return warnings
}

func toExamRoomModels(examID string, plan *seating.Plan) []model.ExamRoom {
	examRooms := make([]model.ExamRoom, 0, len(plan.Rooms))
	for i, rp := range plan.Rooms {
		er := model.ExamRoom{
			ExamRoomID:             rp.RoomAssignmentID,
			ExamID:                 examID,
			RoomID:                 rp.Room.ID,
			SeatingPattern:         string(plan.Pattern),
			Sequence:               i + 1,
			SeatAssignments:        make([]model.SeatAssignment, 0, len(rp.Seats)),
			InvigilatorAssignments: make([]model.InvigilatorAssignment, 0, len(rp.Roles)),
		}
		for _, seat := range rp.Seats {
			er.SeatAssignments = append(er.SeatAssignments, model.SeatAssignment{
				ExamRoomID: rp.RoomAssignmentID,
				StudentID:  seat.StudentID,
				SeatNumber: seat.SeatNumber,
				Row:        seat.Row,
				Column:     seat.Column,
			})
		}
		for _, role := range rp.Roles {
			er.InvigilatorAssignments = append(er.InvigilatorAssignments, model.InvigilatorAssignment{
				ExamRoomID:    rp.RoomAssignmentID,
				InvigilatorID: role.StaffID,
				Role:          string(role.Role),
			})
		}
		examRooms = append(examRooms, er)
	}
	return examRooms
}

// ═══════════════════════════════════════════════════════════
// GetPlan，查询座位表
// ═══════════════════════════════════════════════════════════

func (s *seatPlanService) GetPlan(ctx context.Context, examID string) ([]dto.ExamRoomDetailResponse, error) {
	if _, err := s.repo.Exam.GetByID(ctx, examID); err != nil {
		if isNotFound(err) {
			return nil, ErrExamNotFound
		}
		s.logger.Error("查询考试失败", zap.String("exam_id", examID), zap.Error(err))
		return nil, err
	}

	key := planKeyPrefix + examID
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var cached []dto.ExamRoomDetailResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("读取座位表缓存失败", zap.String("exam_id", examID), zap.Error(err))
		}
	}

	examRooms, err := s.repo.SeatPlan.ListByExam(ctx, examID)
	if err != nil {
		s.logger.Error("查询座位表失败", zap.String("exam_id", examID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.ExamRoomDetailResponse, 0, len(examRooms))
	for i := range examRooms {
		result = append(result, toExamRoomDetail(&examRooms[i]))
	}

	if s.cache != nil && len(result) > 0 {
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, data, planCacheTTL); err != nil {
				s.logger.Warn("写入座位表缓存失败", zap.String("exam_id", examID), zap.Error(err))
			}
		}
	}
	return result, nil
}

func (s *seatPlanService) invalidate(ctx context.Context, examID string, log *zap.Logger) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, planKeyPrefix+examID); err != nil {
		log.Warn("清除座位表缓存失败", zap.Error(err))
	}
}

// loadPlan 导出前加载考试与座位表
func (s *seatPlanService) loadPlan(ctx context.Context, examID string) (*model.Exam, []model.ExamRoom, error) {
	exam, err := s.repo.Exam.GetByID(ctx, examID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrExamNotFound
		}
		s.logger.Error("查询考试失败", zap.String("exam_id", examID), zap.Error(err))
		return nil, nil, err
	}
	examRooms, err := s.repo.SeatPlan.ListByExam(ctx, examID)
	if err != nil {
		s.logger.Error("查询座位表失败", zap.String("exam_id", examID), zap.Error(err))
		return nil, nil, err
	}
	if len(examRooms) == 0 {
		return nil, nil, ErrSeatPlanNotFound
	}
	return exam, examRooms, nil
}

func toExamRoomDetail(er *model.ExamRoom) dto.ExamRoomDetailResponse {
	detail := dto.ExamRoomDetailResponse{
		ID:                     er.ExamRoomID,
		ExamID:                 er.ExamID,
		RoomID:                 er.RoomID,
		SeatingPattern:         er.SeatingPattern,
		Sequence:               er.Sequence,
		SeatAssignments:        make([]dto.SeatResponse, 0, len(er.SeatAssignments)),
		InvigilatorAssignments: make([]dto.InvigilatorDutyResponse, 0, len(er.InvigilatorAssignments)),
	}
	if er.Room != nil {
		room := toRoomResponse(er.Room)
		detail.Room = &room
	}
	for _, sa := range er.SeatAssignments {
		seat := dto.SeatResponse{
			SeatNumber: sa.SeatNumber,
			Row:        sa.Row,
			Column:     sa.Column,
			StudentID:  sa.StudentID,
		}
		if sa.Student != nil {
			seat.RollNumber = sa.Student.RollNumber
			seat.StudentName = sa.Student.Name
		}
		detail.SeatAssignments = append(detail.SeatAssignments, seat)
	}
	for _, ia := range er.InvigilatorAssignments {
		duty := dto.InvigilatorDutyResponse{InvigilatorID: ia.InvigilatorID, Role: ia.Role}
		if ia.Invigilator != nil {
			duty.Name = ia.Invigilator.Name
			duty.Designation = ia.Invigilator.Designation
		}
		detail.InvigilatorAssignments = append(detail.InvigilatorAssignments, duty)
	}
	return detail
}
