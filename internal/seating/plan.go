package seating

import (
	"math/rand"

	"github.com/google/uuid"
)

// Input 一次编排的全部输入（均已由调用方解析完成）
type Input struct {
	Students []StudentRef
	Rooms    []RoomRef
	Staff    []StaffRef
	Pattern  Pattern
}

// RoomPlan 单个考场的编排结果
type RoomPlan struct {
	RoomAssignmentID string
	Room             RoomRef
	Students         []StudentRef
	Seats            []SeatAssignment
	Roles            []RoleAssignment
}

// Plan 一次编排的完整结果
type Plan struct {
	Pattern Pattern
	Rooms   []RoomPlan
}

// SeatCount 座位分配总数
func (p *Plan) SeatCount() int {
	n := 0
	for _, r := range p.Rooms {
		n += len(r.Seats)
	}
	return n
}

// RoleCount 监考岗位分配总数
func (p *Plan) RoleCount() int {
	n := 0
	for _, r := range p.Rooms {
		n += len(r.Roles)
	}
	return n
}

// ── 选项 ──

type options struct {
	rng   *rand.Rand
	newID func() string
}

// Option 编排选项
type Option func(*options)

// WithRand 指定 randomized 使用的随机源
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithSeed 以固定种子创建随机源，便于复现 randomized 结果
func WithSeed(seed int64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewSource(seed)) }
}

// WithIDGenerator 指定考场分配记录 ID 的生成方式
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// Generate 执行一次完整编排：校验 → 装填考场 → 生成坐标 → 按位置配对 → 分配监考。
//
// 校验失败时返回 *PlanError，不产生任何结果。
func Generate(in Input, opts ...Option) (*Plan, error) {
	o := options{newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}

	if err := Validate(in.Students, in.Rooms).Err(); err != nil {
		return nil, err
	}

	pattern := in.Pattern
	if !pattern.Valid() {
		pattern = DefaultPattern
	}

	groups := Fill(in.Students, in.Rooms)
	plan := &Plan{Pattern: pattern, Rooms: make([]RoomPlan, 0, len(groups))}
	raIDs := make([]string, 0, len(groups))

	for _, g := range groups {
		raID := o.newID()
		coords := GenerateCoordinates(g.Room.Rows, g.Room.Columns, len(g.Students), pattern, o.rng)

		seats := make([]SeatAssignment, len(coords))
		for k, c := range coords {
			seats[k] = SeatAssignment{
				RoomAssignmentID: raID,
				StudentID:        g.Students[k].ID,
				SeatNumber:       k + 1,
				Row:              c.Row,
				Column:           c.Column,
			}
		}

		plan.Rooms = append(plan.Rooms, RoomPlan{
			RoomAssignmentID: raID,
			Room:             g.Room,
			Students:         g.Students,
			Seats:            seats,
		})
		raIDs = append(raIDs, raID)
	}

	roles := AssignRoles(raIDs, in.Staff)
	byRA := make(map[string][]RoleAssignment, len(raIDs))
	for _, ra := range roles {
		byRA[ra.RoomAssignmentID] = append(byRA[ra.RoomAssignmentID], ra)
	}
	for i := range plan.Rooms {
		plan.Rooms[i].Roles = byRA[plan.Rooms[i].RoomAssignmentID]
	}

	return plan, nil
}
