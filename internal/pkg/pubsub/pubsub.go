package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const ChannelSubscriptionEvents = "subscription_events"

// 事件类型
const (
	EventExpired = "subscription_expired"
)

// SubscriptionEvent 订阅生命周期事件
type SubscriptionEvent struct {
	Type           string    `json:"type"`
	SubscriptionID int64     `json:"subscription_id"`
	ProjectID      int64     `json:"project_id"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher Redis 发布者
type Publisher struct {
	client  *redis.Client
	channel string
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client, channel: ChannelSubscriptionEvents}
}

// Publish 发布订阅事件，未设置时间时使用当前时间
func (p *Publisher) Publish(ctx context.Context, event *SubscriptionEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription event: %w", err)
	}

	return p.client.Publish(ctx, p.channel, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 阻塞接收事件直到 ctx 结束
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*SubscriptionEvent)) error {
	sub := s.client.Subscribe(ctx, ChannelSubscriptionEvents)
	defer sub.Close()

	// 等待订阅确认，避免丢失紧随其后的消息
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event SubscriptionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			handler(&event)
		}
	}
}
