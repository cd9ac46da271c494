package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/gig-scheduler-api/pkg/events"
	"github.com/noah-isme/gig-scheduler-api/pkg/jobs"
)

const scheduleChangedJob = "schedule.changed"

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

type eventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// ScheduleDispatcher drops the calendar cache as soon as a show mutation is
// reported and publishes the change to the message broker on a background
// queue.
type ScheduleDispatcher struct {
	queue     *jobs.Queue
	cache     cacheInvalidator
	publisher eventPublisher
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewScheduleDispatcher builds a dispatcher. cache and publisher are optional.
func NewScheduleDispatcher(cache cacheInvalidator, publisher eventPublisher, metrics *MetricsService, cfg jobs.QueueConfig, logger *zap.Logger) *ScheduleDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &ScheduleDispatcher{cache: cache, publisher: publisher, metrics: metrics, logger: logger}
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	cfg.OnResult = func(job jobs.Job, err error) {
		d.metrics.RecordJob(job.Type, err)
	}
	d.queue = jobs.NewQueue("schedule-dispatcher", d.publish, cfg)
	return d
}

// Start launches the workers.
func (d *ScheduleDispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop drains pending jobs until ctx expires.
func (d *ScheduleDispatcher) Stop(ctx context.Context) {
	d.queue.Stop(ctx)
}

// NotifyScheduleChanged implements ScheduleNotifier. The calendar cache is
// invalidated before it returns, so a read issued after the mutation never
// sees the old rows. Only the broker publish is queued; when the queue is not
// running it is published inline.
func (d *ScheduleDispatcher) NotifyScheduleChanged(ctx context.Context, change ScheduleChange) error {
	if d.cache != nil {
		if err := d.cache.Invalidate(ctx, CalendarCachePattern); err != nil {
			d.logger.Warn("calendar cache invalidation failed", zap.String("action", change.Action), zap.Error(err))
		}
	}
	if d.publisher == nil {
		return nil
	}

	job := jobs.Job{Type: scheduleChangedJob, Payload: change}
	err := d.queue.Enqueue(job)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jobs.ErrQueueClosed) {
		return err
	}
	err = d.publish(ctx, job)
	d.metrics.RecordJob(job.Type, err)
	return err
}

func (d *ScheduleDispatcher) publish(ctx context.Context, job jobs.Job) error {
	change, ok := job.Payload.(ScheduleChange)
	if !ok {
		d.logger.Error("dropping job with unexpected payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}

	event, err := events.NewEvent(change.Action, change)
	if err != nil {
		return err
	}
	err = d.publisher.Publish(ctx, event)
	d.metrics.RecordEventPublish(err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", change.Action, err)
	}
	d.logger.Info("schedule change published", zap.String("action", change.Action), zap.String("show_id", change.ShowID), zap.String("artist_id", change.ArtistID), zap.Int("dates", len(change.Dates)))
	return nil
}
