package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/t0pa/plansync/core/errors"
	"github.com/t0pa/plansync/core/logger"
	"github.com/t0pa/plansync/core/params"
	"github.com/t0pa/plansync/modules/notification/dto"
	"github.com/t0pa/plansync/modules/notification/entity"
	"github.com/t0pa/plansync/modules/notification/repository"
	"github.com/t0pa/plansync/monitoring"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// NotificationService persists notifications and fans delivery out through
// an asynq queue so submits never wait on notification writes.
type NotificationService struct {
	repo   repository.NotificationRepositoryInterface
	client *asynq.Client
}

// NewNotificationService creates the service. client may be nil; the
// enqueue hooks then degrade to no-ops and only reads work.
func NewNotificationService(repo repository.NotificationRepositoryInterface, client *asynq.Client) *NotificationService {
	return &NotificationService{repo: repo, client: client}
}

// NotifyAvailabilitySubmitted enqueues a creator notification. Best
// effort: a full queue loses the notification, never the submission.
func (s *NotificationService) NotifyAvailabilitySubmitted(ctx context.Context, eventID, creatorID, actorID uuid.UUID) {
	s.enqueue(ctx, TaskAvailabilitySubmitted, AvailabilitySubmittedPayload{
		EventID:   eventID,
		CreatorID: creatorID,
		ActorID:   actorID,
	})
}

// NotifyEventFinalized enqueues a finalization notification.
func (s *NotificationService) NotifyEventFinalized(ctx context.Context, eventID, creatorID uuid.UUID, slot string) {
	s.enqueue(ctx, TaskEventFinalized, EventFinalizedPayload{
		EventID:   eventID,
		CreatorID: creatorID,
		Slot:      slot,
	})
}

func (s *NotificationService) enqueue(ctx context.Context, typename string, payload any) {
	if s.client == nil {
		return
	}

	task, err := newTask(typename, payload)
	if err != nil {
		logger.Error("NotificationService:Enqueue", err)
		return
	}

	if _, err := s.client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		logger.Error("NotificationService:Enqueue", err)
		monitoring.RecordNotificationTask("enqueue_failed")
		return
	}
	monitoring.RecordNotificationTask("enqueued")
}

// HandleAvailabilitySubmitted is the worker side of the submit hook.
func (s *NotificationService) HandleAvailabilitySubmitted(ctx context.Context, task *asynq.Task) error {
	var payload AvailabilitySubmittedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		monitoring.RecordNotificationTask("failed")
		return fmt.Errorf("unmarshal %s: %w: %w", task.Type(), err, asynq.SkipRetry)
	}

	eventID := payload.EventID
	err := s.repo.Create(ctx, &entity.Notification{
		UserID:  payload.CreatorID,
		EventID: &eventID,
		Kind:    entity.KindAvailabilitySubmitted,
		Message: "A participant updated their availability on your event",
	})
	if err != nil {
		monitoring.RecordNotificationTask("failed")
		return err
	}

	monitoring.RecordNotificationTask("processed")
	return nil
}

// HandleEventFinalized is the worker side of the finalize hook.
func (s *NotificationService) HandleEventFinalized(ctx context.Context, task *asynq.Task) error {
	var payload EventFinalizedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		monitoring.RecordNotificationTask("failed")
		return fmt.Errorf("unmarshal %s: %w: %w", task.Type(), err, asynq.SkipRetry)
	}

	eventID := payload.EventID
	err := s.repo.Create(ctx, &entity.Notification{
		UserID:  payload.CreatorID,
		EventID: &eventID,
		Kind:    entity.KindEventFinalized,
		Message: "Your event was scheduled for " + payload.Slot,
	})
	if err != nil {
		monitoring.RecordNotificationTask("failed")
		return err
	}

	monitoring.RecordNotificationTask("processed")
	return nil
}

// RegisterHandlers attaches the worker handlers to an asynq mux.
func (s *NotificationService) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskAvailabilitySubmitted, s.HandleAvailabilitySubmitted)
	mux.HandleFunc(TaskEventFinalized, s.HandleEventFinalized)
}

// GetMyNotifications lists the caller's notifications, newest first.
func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*dto.PaginatedNotificationResponse, *errors.AppError) {
	items, total, err := s.repo.GetByUserID(ctx, userID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get notifications", err)
	}

	return &dto.PaginatedNotificationResponse{
		Items:      items,
		TotalItems: total,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

// MarkAsRead marks specific notifications read.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) *errors.AppError {
	if err := s.repo.MarkAsRead(ctx, userID, ids); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark as read", err)
	}
	return nil
}

// MarkAllAsRead marks every unread notification read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark all as read", err)
	}
	return nil
}

// CountUnread returns the unread badge count.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (*dto.UnreadCountResponse, *errors.AppError) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to count unread", err)
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}
