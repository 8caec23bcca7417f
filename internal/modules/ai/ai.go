package ai

import (
	"context"
	"strings"
	"time"

	appcfg "github.com/impactflow/core/internal/config"
	"github.com/impactflow/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

// TaskThankYouNote is the task type for background thank-you generation.
const TaskThankYouNote = "ai:thank_you_note"

const generateTimeout = 45 * time.Second

// Service generates donor-facing copy. Generation never returns an error to
// callers; unconfigured or failing providers degrade to fixed fallback text.
type Service struct {
	cfg    appcfg.AIConfig
	queue  *taskqueue.Service
	logger *zap.Logger
}

func NewService(cfg appcfg.AIConfig, queue *taskqueue.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, queue: queue, logger: logger}
}

// Configured reports whether any enabled provider exists.
func (s *Service) Configured() bool {
	return s.cfg.ActiveProvider() != nil
}

// GenerateProjectDescription produces description copy for the given topic.
func (s *Service) GenerateProjectDescription(ctx context.Context, topic string) string {
	provider := s.cfg.ActiveProvider()
	if provider == nil {
		return fallbackNotConfigured
	}

	text, err := callProvider(ctx, provider, buildDescriptionPrompt(topic))
	if err != nil {
		s.logger.Warn("description generation failed", zap.Error(err))
		return fallbackGeneration
	}
	return strings.TrimSpace(text)
}

// thankYouPayload is stored on the queued task.
type thankYouPayload struct {
	DonationID   string  `json:"donationId"`
	DonorName    string  `json:"donorName"`
	Amount       float64 `json:"amount"`
	ProjectTitle string  `json:"projectTitle"`
}

// EnqueueThankYouNote queues background generation of a thank-you note for a
// donation. Deduplicated by donation id: re-submitting the same donation
// returns the existing task. The note is always produced; provider failure
// completes the task with the fixed fallback text.
func (s *Service) EnqueueThankYouNote(ctx context.Context, donationID, donorName string, amount float64, projectTitle string) (*taskqueue.Task, error) {
	payload := thankYouPayload{
		DonationID:   donationID,
		DonorName:    donorName,
		Amount:       amount,
		ProjectTitle: projectTitle,
	}
	task, err := s.queue.Enqueue(ctx, TaskThankYouNote, payload, donationID)
	if err != nil {
		return nil, err
	}
	if task.Status != taskqueue.TaskPending {
		return task, nil
	}

	go s.runThankYouTask(task.ID, payload)
	return task, nil
}

func (s *Service) runThankYouTask(taskID string, payload thankYouPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	defer cancel()

	_ = s.queue.UpdateStatus(ctx, taskID, taskqueue.TaskRunning, nil, "")

	note := fallbackThankYou
	if provider := s.cfg.ActiveProvider(); provider != nil {
		donor := payload.DonorName
		if donor == "" {
			donor = "our donor"
		}
		text, err := callProvider(ctx, provider, buildThankYouPrompt(donor, payload.Amount, payload.ProjectTitle))
		if err != nil {
			s.logger.Warn("thank-you generation failed",
				zap.String("donation", payload.DonationID), zap.Error(err))
		} else {
			note = strings.TrimSpace(text)
		}
	}

	_ = s.queue.UpdateStatus(ctx, taskID, taskqueue.TaskCompleted, map[string]string{"note": note}, "")
}

// TaskByID exposes queued task state for polling.
func (s *Service) TaskByID(ctx context.Context, id string) (*taskqueue.Task, error) {
	return s.queue.GetByID(ctx, id)
}
