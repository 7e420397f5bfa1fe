package scheduler

import (
	"context"
	"time"

	"github.com/dhima/recipe-list-platform/internal/logging"
	"github.com/dhima/recipe-list-platform/internal/models"
	"github.com/dhima/recipe-list-platform/pkg/clock"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Snapshotter produces a full READ snapshot of the saved recipes. The
// recipe list repository posts the snapshot to its bus as a side effect.
type Snapshotter interface {
	GetSavedRecipes(ctx context.Context) ([]models.Recipe, error)
}

// Engine takes a recipe list snapshot every time its cron schedule fires.
// The schedule is evaluated in the engine's timezone.
type Engine struct {
	tick     time.Duration
	schedule cron.Schedule
	location *time.Location
	source   Snapshotter
	logger   logging.Logger
	clock    clock.Clock

	next time.Time
}

// NewEngine constructs a scheduler that checks the schedule every tick.
// An empty timezone means UTC.
func NewEngine(tick time.Duration, cronExpr, timezone string, source Snapshotter, logger logging.Logger) (*Engine, error) {
	return NewEngineWithClock(tick, cronExpr, timezone, source, logger, clock.RealClock{})
}

// NewEngineWithClock is NewEngine with an injectable clock.
func NewEngineWithClock(tick time.Duration, cronExpr, timezone string, source Snapshotter, logger logging.Logger, c clock.Clock) (*Engine, error) {
	schedule, err := ParseSchedule(cronExpr)
	if err != nil {
		return nil, err
	}
	loc, err := resolveTimezone(timezone)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Engine{
		tick:     tick,
		schedule: schedule,
		location: loc,
		source:   source,
		logger:   logging.Component(logger, "scheduler"),
		clock:    c,
	}, nil
}

// Next returns the next planned snapshot time; zero before the first tick.
func (e *Engine) Next() time.Time {
	return e.next
}

// Run polls until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	e.processDue(ctx)
	e.logger.Info("snapshot scheduler started",
		zap.Duration("tick", e.tick),
		zap.String("timezone", e.location.String()),
		zap.Time("next", e.next))

	for {
		select {
		case <-ticker.C:
			e.processDue(ctx)
		case <-ctx.Done():
			e.logger.Info("snapshot scheduler stopped")
			return ctx.Err()
		}
	}
}

// processDue takes a snapshot when the planned time has passed and plans
// the next one. It reports whether a snapshot was attempted.
func (e *Engine) processDue(ctx context.Context) bool {
	now := e.clock.Now().UTC()
	if e.next.IsZero() {
		e.next = nextFire(e.schedule, e.location, now)
		return false
	}
	if now.Before(e.next) {
		return false
	}

	recipes, err := e.source.GetSavedRecipes(ctx)
	if err != nil {
		e.logger.Error("recipe snapshot failed", zap.Time("due", e.next), zap.Error(err))
	} else {
		e.logger.Info("recipe snapshot posted",
			zap.Time("due", e.next),
			zap.Int("count", len(recipes)))
	}

	e.next = nextFire(e.schedule, e.location, now)
	return true
}
