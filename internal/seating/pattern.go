package seating

import (
	"math/rand"
	"strings"
	"time"
)

// Pattern 座位编排方式
type Pattern string

const (
	PatternLinear     Pattern = "linear"     // 逐行，从左到右
	PatternSerpentine Pattern = "serpentine" // 蛇形，奇数行反向
	PatternBlock      Pattern = "block"      // 2×2 分块
	PatternRandomized Pattern = "randomized" // 全场随机
)

// DefaultPattern 未指定或无法识别时使用的编排方式
const DefaultPattern = PatternLinear

// Patterns 全部受支持的编排方式
var Patterns = []Pattern{PatternLinear, PatternSerpentine, PatternBlock, PatternRandomized}

// ParsePattern 解析编排方式。
// 空值或无法识别的值回退为 linear，属于约定的宽松处理而非错误。
func ParsePattern(s string) Pattern {
	p := Pattern(strings.ToLower(strings.TrimSpace(s)))
	if p.Valid() {
		return p
	}
	return DefaultPattern
}

// Valid 是否为受支持的编排方式
func (p Pattern) Valid() bool {
	switch p {
	case PatternLinear, PatternSerpentine, PatternBlock, PatternRandomized:
		return true
	default:
		return false
	}
}

// blockSize 分块编排的块边长
const blockSize = 2

// GenerateCoordinates 为 rows×columns 的考场生成 count 个座位坐标，
// 返回长度为 min(count, rows*columns)。
//
// rng 仅 randomized 使用；传 nil 时以当前时间作种子。
func GenerateCoordinates(rows, columns, count int, pattern Pattern, rng *rand.Rand) []SeatCoordinate {
	if rows <= 0 || columns <= 0 || count <= 0 {
		return []SeatCoordinate{}
	}
	if cells := rows * columns; count > cells {
		count = cells
	}

	switch pattern {
	case PatternSerpentine:
		return serpentine(rows, columns, count)
	case PatternBlock:
		return block(rows, columns, count)
	case PatternRandomized:
		return randomized(rows, columns, count, rng)
	default:
		return linear(rows, columns, count)
	}
}

func linear(rows, columns, count int) []SeatCoordinate {
	seats := make([]SeatCoordinate, 0, count)
	for r := 1; r <= rows && len(seats) < count; r++ {
		for c := 1; c <= columns && len(seats) < count; c++ {
			seats = append(seats, SeatCoordinate{Row: r, Column: c})
		}
	}
	return seats
}

func serpentine(rows, columns, count int) []SeatCoordinate {
	seats := make([]SeatCoordinate, 0, count)
	for r := 0; r < rows && len(seats) < count; r++ {
		if r%2 == 0 {
			for c := 1; c <= columns && len(seats) < count; c++ {
				seats = append(seats, SeatCoordinate{Row: r + 1, Column: c})
			}
			continue
		}
		for c := columns; c >= 1 && len(seats) < count; c-- {
			seats = append(seats, SeatCoordinate{Row: r + 1, Column: c})
		}
	}
	return seats
}

// block 按 2×2 块行优先扫描，块内行优先；边缘不足一块时裁剪。
func block(rows, columns, count int) []SeatCoordinate {
	seats := make([]SeatCoordinate, 0, count)
	for br := 0; br < rows && len(seats) < count; br += blockSize {
		for bc := 0; bc < columns && len(seats) < count; bc += blockSize {
			for r := br; r < min(br+blockSize, rows) && len(seats) < count; r++ {
				for c := bc; c < min(bc+blockSize, columns) && len(seats) < count; c++ {
					seats = append(seats, SeatCoordinate{Row: r + 1, Column: c + 1})
				}
			}
		}
	}
	return seats
}

// randomized 对全部坐标做 Fisher–Yates 洗牌后取前 count 个
func randomized(rows, columns, count int, rng *rand.Rand) []SeatCoordinate {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	all := linear(rows, columns, rows*columns)
	for i := len(all) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		all[i], all[j] = all[j], all[i]
	}
	return all[:count]
}
