package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mshiraki/tangocho/internal/models"
	"github.com/mshiraki/tangocho/internal/notifier"
)

// SubscriptionRepository defines the persistence operations needed by
// the NotificationService.
type SubscriptionRepository interface {
	// Upsert stores the user's push subscription, replacing any
	// previous one.
	Upsert(ctx context.Context, sub models.PushSubscription) error
	// DeleteByUser removes the subscription belonging to the user.
	DeleteByUser(ctx context.Context, userLogin string) error
	// Delete removes a subscription by ID.
	Delete(ctx context.Context, id string) error
	// ListAll fetches every registered subscription.
	ListAll(ctx context.Context) ([]models.PushSubscription, error)
}

// DueCounter reports how many entries a user has waiting for review.
// VocabularyService satisfies it; the notification job shares its due
// predicate with the interactive flow through this interface.
type DueCounter interface {
	DueCount(ctx context.Context, userLogin string) (int, error)
}

// NotificationService manages push subscriptions and sends review
// reminders to users with due words.
type NotificationService struct {
	repo     SubscriptionRepository
	due      DueCounter
	notifier notifier.Notifier
	clock    Clock
	log      *zap.Logger
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(
	repo SubscriptionRepository,
	due DueCounter,
	n notifier.Notifier,
	clock Clock,
	log *zap.Logger,
) *NotificationService {
	return &NotificationService{repo: repo, due: due, notifier: n, clock: clock, log: log}
}

// Subscribe registers or replaces the user's push subscription.
func (s *NotificationService) Subscribe(ctx context.Context, userLogin, endpoint, p256dh, auth string) error {
	if userLogin == "" {
		return models.ErrUnauthenticated
	}
	return s.repo.Upsert(ctx, models.PushSubscription{
		ID:        uuid.NewString(),
		UserLogin: userLogin,
		Endpoint:  endpoint,
		P256DH:    p256dh,
		Auth:      auth,
		CreatedAt: s.clock.Now().UnixMilli(),
	})
}

// Unsubscribe removes the user's push subscription.
func (s *NotificationService) Unsubscribe(ctx context.Context, userLogin string) error {
	if userLogin == "" {
		return models.ErrUnauthenticated
	}
	return s.repo.DeleteByUser(ctx, userLogin)
}

// SendDueReminders walks all push subscriptions and notifies every user
// who has words due for review. Users with nothing due are skipped
// without a notification. Subscriptions whose endpoint is gone are
// removed. Returns the number of notifications sent and failed.
func (s *NotificationService) SendDueReminders(ctx context.Context) (sent, failed int, err error) {
	subs, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, sub := range subs {
		count, err := s.due.DueCount(ctx, sub.UserLogin)
		if err != nil {
			s.log.Error("failed to count due words",
				zap.String("user", sub.UserLogin), zap.Error(err))
			failed++
			continue
		}
		if count == 0 {
			continue
		}

		payload := notifier.Payload{
			Title: "📚 復習の時間です！",
			Body:  fmt.Sprintf("%d語の復習が待っています", count),
			URL:   "/study",
		}
		if err := s.notifier.Send(ctx, sub, payload); err != nil {
			if errors.Is(err, models.ErrSubscriptionGone) {
				if delErr := s.repo.Delete(ctx, sub.ID); delErr != nil {
					s.log.Error("failed to remove gone subscription",
						zap.String("id", sub.ID), zap.Error(delErr))
				}
			}
			s.log.Error("failed to send reminder",
				zap.String("user", sub.UserLogin), zap.Error(err))
			failed++
			continue
		}
		sent++
	}
	return sent, failed, nil
}
