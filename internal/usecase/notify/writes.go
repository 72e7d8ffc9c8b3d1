package notify

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"question-notifier/internal/domain"
	"question-notifier/internal/infra/metrics"
)

type stagedUpdate struct {
	userID string
	hour   int
	due    bool
	at     time.Time
	patch  domain.UserPatch
}

func newStagedUpdate(userID string, hour int, due bool, now time.Time, question string) stagedUpdate {
	u := stagedUpdate{userID: userID, hour: hour, due: due, at: now}
	u.patch = domain.UserPatch{
		RandomNotificationHour: &u.hour,
		LastNotificationDate:   &u.at,
		IsNotificationTime:     &u.due,
		RandomQuestion:         &question,
	}
	return u
}

// apply записывает обновления в порядке выборки. При WriteConcurrency > 1
// записи идут параллельно, ошибка отменяет ещё не начатые.
func (s *Service) apply(ctx context.Context, log zerolog.Logger, tickID string, batch []stagedUpdate, result *TickResult) error {
	var updated, due atomic.Int64
	defer func() {
		result.Updated = int(updated.Load())
		result.Due = int(due.Load())
	}()

	write := func(ctx context.Context, item stagedUpdate) error {
		if err := s.store.UpdateFields(ctx, s.opts.Collection, item.userID, item.patch); err != nil {
			return fmt.Errorf("%w: user %s: %w", domain.ErrUpdateUser, item.userID, err)
		}
		updated.Add(1)
		metrics.UsersUpdatedTotal.Inc()
		if item.due {
			due.Add(1)
			metrics.NotificationsDueTotal.Inc()
			s.publishDue(ctx, log, tickID, item, *item.patch.RandomQuestion)
		}
		return nil
	}

	if s.opts.WriteConcurrency <= 1 {
		for _, item := range batch {
			if err := write(ctx, item); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.WriteConcurrency)
	for _, item := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return write(gctx, item)
		})
	}
	return g.Wait()
}

func (s *Service) publishDue(ctx context.Context, log zerolog.Logger, tickID string, item stagedUpdate, question string) {
	if s.publisher == nil {
		return
	}
	event := domain.NotificationDue{
		ID:       s.newID(),
		TickID:   tickID,
		UserID:   item.userID,
		Hour:     item.hour,
		Question: question,
		DueAt:    item.at.UTC(),
	}
	err := s.publisher.PublishDue(ctx, event)
	metrics.ObservePublish(err)
	if err != nil {
		log.Warn().Err(err).Str("user", item.userID).Msg("notify: не удалось опубликовать событие уведомления")
	}
}
