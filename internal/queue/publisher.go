package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"seatplan-pro/config"
)

// Publisher 事件发布接口
type Publisher interface {
	PublishSeatPlanGenerated(ctx context.Context, event SeatPlanGeneratedEvent) error
}

// NewPublisher 根据配置创建发布器；未启用队列时返回空实现
func NewPublisher(cfg *config.QueueConfig, logger *zap.Logger) Publisher {
	if !cfg.Enabled {
		return noopPublisher{}
	}
	return &amqpPublisher{url: cfg.URL, queue: cfg.Name, logger: logger}
}

type noopPublisher struct{}

func (noopPublisher) PublishSeatPlanGenerated(context.Context, SeatPlanGeneratedEvent) error {
	return nil
}

// amqpPublisher 每次发布建立独立连接，事件频率低，无需长连接
type amqpPublisher struct {
	url    string
	queue  string
	logger *zap.Logger
}

func (p *amqpPublisher) PublishSeatPlanGenerated(ctx context.Context, event SeatPlanGeneratedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}
	return p.publish(ctx, body)
}

func (p *amqpPublisher) publish(ctx context.Context, body []byte) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("连接 RabbitMQ 失败: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("打开 channel 失败: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("声明队列失败: %w", err)
	}

	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("发布事件失败: %w", err)
	}

	p.logger.Debug("事件已发布", zap.String("queue", p.queue), zap.Int("bytes", len(body)))
	return nil
}
