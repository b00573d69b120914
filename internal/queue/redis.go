package queue

import (
	"context"
	"fmt"

	"ymlfeed/report/internal/config"
	"ymlfeed/report/internal/domain/task"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Publisher appends tasks to Redis streams, one stream per task type.
type Publisher interface {
	Publish(ctx context.Context, task task.Task) (string, error) // Returns message ID
}

type RedisQueue struct {
	redisClient  redis.Cmdable
	streamPrefix string
}

func NewRedisQueue(redisClient redis.Cmdable, cfg config.RedisConfig) *RedisQueue {
	return &RedisQueue{
		redisClient:  redisClient,
		streamPrefix: cfg.StreamPrefix,
	}
}

// StreamName returns the stream a task type is published to.
func (q *RedisQueue) StreamName(taskType string) string {
	return q.streamPrefix + taskType
}

func (q *RedisQueue) Publish(ctx context.Context, task task.Task) (string, error) {
	taskType := task.TaskType()
	streamName := q.StreamName(taskType)

	taskValue, err := task.TaskValue()
	if err != nil {
		return "", fmt.Errorf("failed to serialize task: %w", err)
	}

	// Fields: task_type, task_data
	messageID, err := q.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			"task_type": taskType,
			"task_data": string(taskValue),
		},
	}).Result()

	if err != nil {
		return "", fmt.Errorf("failed to add task to Redis stream %s: %w", streamName, err)
	}

	log.Debugf("Added task %s to stream %s with message ID: %s", taskType, streamName, messageID)
	return messageID, nil
}
