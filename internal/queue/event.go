// Package queue 负责座位表领域事件的发布
package queue

import "time"

// SeatPlanGeneratedEvent 座位表生成完成事件
type SeatPlanGeneratedEvent struct {
	ExamID       string    `json:"exam_id"`
	ExamName     string    `json:"exam_name"`
	Pattern      string    `json:"pattern"`
	Rooms        int       `json:"rooms"`
	Seats        int       `json:"seats"`
	Invigilators int       `json:"invigilators"`
	GeneratedAt  time.Time `json:"generated_at"`
}
