// Package seating 考场座位与监考分配引擎。
//
// 引擎是纯函数集合：不做 I/O、不持有存储引用、调用之间无状态。
// 调用方负责在调用前取齐学生名单、考场列表与监考人员池，并在调用后持久化结果。
package seating

import (
	"fmt"
	"strings"
)

// StudentRef 参与分配的学生（仅标识信息）
type StudentRef struct {
	ID           string
	RollNumber   string
	DepartmentID string
}

// RoomRef 参与分配的考场
type RoomRef struct {
	ID       string
	Capacity int
	Rows     int
	Columns  int
}

// GridCells 考场网格座位总数
func (r RoomRef) GridCells() int {
	if r.Rows <= 0 || r.Columns <= 0 {
		return 0
	}
	return r.Rows * r.Columns
}

// EffectiveCapacity 实际可用容量 = min(capacity, rows*columns)
// 目录数据中 capacity 大于网格座位数时按网格截断，保证每个学生都能分到坐标。
func (r RoomRef) EffectiveCapacity() int {
	if r.Capacity <= 0 {
		return 0
	}
	if cells := r.GridCells(); r.Capacity > cells {
		return cells
	}
	return r.Capacity
}

// SeatCoordinate 座位坐标（行、列均从 1 开始）
type SeatCoordinate struct {
	Row    int
	Column int
}

func (c SeatCoordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Column)
}

// SeatAssignment 座位分配记录
type SeatAssignment struct {
	RoomAssignmentID string
	StudentID        string
	SeatNumber       int // 考场内落座顺序，从 1 开始
	Row              int
	Column           int
}

// ── 监考 ──

// Rank 监考人员职级
type Rank string

const (
	RankChief  Rank = "chief"
	RankMain   Rank = "main"
	RankJunior Rank = "junior"
)

// ParseRank 解析职级，兼容原始职称写法（Chief Instructor / Instructor / Junior Instructor）
func ParseRank(s string) (Rank, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chief", "chief instructor":
		return RankChief, true
	case "main", "instructor":
		return RankMain, true
	case "junior", "junior instructor":
		return RankJunior, true
	}
	return "", false
}

// Role 监考岗位
type Role string

const (
	RoleChief  Role = "chief"
	RoleMain   Role = "main"
	RoleJunior Role = "junior"
)

// StaffRef 监考人员
type StaffRef struct {
	ID   string
	Rank Rank
}

// RoleAssignment 监考岗位分配记录
type RoleAssignment struct {
	RoomAssignmentID string
	StaffID          string
	Role             Role
}
