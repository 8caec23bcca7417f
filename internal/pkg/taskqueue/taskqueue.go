package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	redisc "github.com/impactflow/core/internal/pkg/redis"
	"github.com/redis/go-redis/v9"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Task is a unit of background work.
type Task struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Status    TaskStatus      `json:"status"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	DedupKey  string          `json:"dedup_key,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

const (
	keyPrefix   = "if:task:"
	keyDedupSet = "if:tasks:dedup:" // hash: dedup_key -> task_id
	taskTTL     = 24 * time.Hour
)

// Service stores tasks in Redis, or in process memory when Redis is absent.
// The memory fallback keeps single-instance demo mode working; task state is
// then lost on restart.
type Service struct {
	rc *redisc.Client

	mu    sync.RWMutex
	tasks map[string]*Task
	dedup map[string]string
}

func NewService(rc *redisc.Client) *Service {
	return &Service{
		rc:    rc,
		tasks: make(map[string]*Task),
		dedup: make(map[string]string),
	}
}

func (s *Service) taskKey(id string) string { return keyPrefix + id }

func (s *Service) redisBacked() bool { return s.rc.Raw() != nil }

// Enqueue creates a new task, respecting deduplication.
func (s *Service) Enqueue(ctx context.Context, taskType string, payload interface{}, dedupKey string) (*Task, error) {
	if dedupKey != "" {
		if existing := s.lookupDedup(ctx, taskType, dedupKey); existing != "" {
			if task, err := s.GetByID(ctx, existing); err == nil && task != nil {
				return task, nil
			}
		}
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	task := &Task{
		ID:        uuid.New().String(),
		Type:      taskType,
		Payload:   payloadBytes,
		Status:    TaskPending,
		DedupKey:  dedupKey,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	return task, s.persist(ctx, task, taskType, dedupKey)
}

func (s *Service) lookupDedup(ctx context.Context, taskType, dedupKey string) string {
	if !s.redisBacked() {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.dedup[taskType+":"+dedupKey]
	}
	existing, err := s.rc.Raw().HGet(ctx, keyDedupSet+taskType, dedupKey).Result()
	if err != nil {
		return ""
	}
	return existing
}

func (s *Service) persist(ctx context.Context, task *Task, taskType, dedupKey string) error {
	if !s.redisBacked() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.tasks[task.ID] = task
		if dedupKey != "" {
			s.dedup[taskType+":"+dedupKey] = task.ID
		}
		return nil
	}

	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	pipe := s.rc.Raw().TxPipeline()
	pipe.Set(ctx, s.taskKey(task.ID), data, taskTTL)
	if dedupKey != "" {
		pipe.HSet(ctx, keyDedupSet+taskType, dedupKey, task.ID)
		pipe.Expire(ctx, keyDedupSet+taskType, taskTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// GetByID retrieves a task by its ID. Returns (nil, nil) when unknown.
func (s *Service) GetByID(ctx context.Context, id string) (*Task, error) {
	if !s.redisBacked() {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if task, ok := s.tasks[id]; ok {
			copied := *task
			return &copied, nil
		}
		return nil, nil
	}

	data, err := s.rc.Raw().Get(ctx, s.taskKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var task Task
	return &task, json.Unmarshal(data, &task)
}

// UpdateStatus sets a task's status and optional result/error.
func (s *Service) UpdateStatus(ctx context.Context, id string, status TaskStatus, result interface{}, errMsg string) error {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("task %s not found", id)
	}

	task.Status = status
	task.Error = errMsg
	task.UpdatedAt = time.Now()
	if result != nil {
		resultBytes, err := json.Marshal(result)
		if err != nil {
			return err
		}
		task.Result = resultBytes
	}

	if !s.redisBacked() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.tasks[task.ID] = task
		return nil
	}

	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return s.rc.Raw().Set(ctx, s.taskKey(id), data, taskTTL).Err()
}
