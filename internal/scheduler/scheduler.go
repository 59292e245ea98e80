// Package scheduler runs the in-process reminder loop. Deployments
// using an external cron service can leave it disabled and call the
// cron endpoint instead.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/mshiraki/tangocho/internal/srs"
)

// ReminderSender dispatches due-word reminders to subscribers.
type ReminderSender interface {
	SendDueReminders(ctx context.Context) (sent, failed int, err error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Scheduler checks every hour whether reminders should go out.
// Sends are suppressed outside the configured window of JST hours,
// so subscribers are not woken at night.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sender    ReminderSender
	clock     Clock
	log       *zap.Logger

	startHour int
	endHour   int
}

// New creates a scheduler that delivers through sender between
// startHour and endHour (inclusive, JST).
func New(sender ReminderSender, clock Clock, startHour, endHour int, log *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(srs.JST),
		sender:    sender,
		clock:     clock,
		log:       log,
		startHour: startHour,
		endHour:   endHour,
	}
}

// Start begins the hourly reminder check without blocking.
func (s *Scheduler) Start() {
	_, err := s.scheduler.Every(1).Hour().Do(s.tick)
	if err != nil {
		s.log.Error("failed to schedule reminder check", zap.Error(err))
		return
	}
	s.scheduler.StartAsync()
}

// Stop terminates the reminder loop.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) tick() {
	hour := s.clock.Now().In(srs.JST).Hour()
	if hour < s.startHour || hour > s.endHour {
		s.log.Debug("outside notification hours, skipping reminders",
			zap.Int("hour", hour),
			zap.Int("start", s.startHour),
			zap.Int("end", s.endHour),
		)
		return
	}

	sent, failed, err := s.sender.SendDueReminders(context.Background())
	if err != nil {
		s.log.Error("reminder sweep failed", zap.Error(err))
		return
	}
	s.log.Info("reminder sweep finished", zap.Int("sent", sent), zap.Int("failed", failed))
}
