package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Queue 基于 Redis list 的 FIFO 队列
type Queue struct {
	client    *redis.Client
	queueName string
}

// UsageMessage 外部采集器上报的属性用量
type UsageMessage struct {
	SubscriptionID int64   `json:"subscription_id"`
	AttributeName  string  `json:"attribute_name"`
	Value          float64 `json:"value"`
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Push 入队
func (q *Queue) Push(ctx context.Context, msg *UsageMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal usage message: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop 阻塞出队，超时返回 nil, nil
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*UsageMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var msg UsageMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal usage message: %w", err)
	}

	return &msg, nil
}

func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
