// Package app wires the recipe platform components from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dhima/recipe-list-platform/internal/logging"
	"github.com/dhima/recipe-list-platform/internal/metrics"
	"github.com/dhima/recipe-list-platform/internal/models"
	"github.com/dhima/recipe-list-platform/internal/recipelist"
	"github.com/dhima/recipe-list-platform/internal/recipemain"
	"github.com/dhima/recipe-list-platform/internal/storage"
	"github.com/dhima/recipe-list-platform/pkg/config"
	"github.com/dhima/recipe-list-platform/platform/eventbus"
	"github.com/dhima/recipe-list-platform/platform/events"
	"go.uber.org/zap"
)

const busBuffer = 256

// App holds every long-lived dependency of a process.
type App struct {
	Config  config.App
	Logger  logging.Logger
	Store   *storage.SQLClient
	Metrics *metrics.Metrics

	ListBus *eventbus.Bus[models.RecipeListEvent]
	MainBus *eventbus.Bus[models.RecipeMainEvent]

	RecipeList *recipelist.Repository
	RecipeMain *recipemain.Repository

	// DrainTimeout bounds how long Close waits for buffered events to reach
	// the sinks before abandoning them.
	DrainTimeout time.Duration

	sinks   []namedSink
	closers []func() error

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type namedSink struct {
	name string
	sink events.Sink
}

// New opens the store and builds the repositories. Call Start to begin
// forwarding events to the configured sinks and Close to release everything.
func New(ctx context.Context, cfg config.App, logger logging.Logger) (*App, error) {
	store, err := storage.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	m, err := metrics.New(nil)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Metrics: m,
		ListBus: eventbus.New[models.RecipeListEvent]("recipelist", busBuffer, logger),
		MainBus: eventbus.New[models.RecipeMainEvent]("recipemain", busBuffer, logger),

		DrainTimeout: cfg.DrainTimeout,
	}
	if a.DrainTimeout <= 0 {
		a.DrainTimeout = config.DefaultDrainTimeout
	}

	if err := m.RegisterDropped("recipelist", a.ListBus.Dropped); err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := m.RegisterDropped("recipemain", a.MainBus.Dropped); err != nil {
		_ = store.Close()
		return nil, err
	}

	a.RecipeList = recipelist.NewRepository(store,
		metrics.InstrumentBus[models.RecipeListEvent](m, "recipelist", a.ListBus), logger)
	a.RecipeMain = recipemain.NewRepository(store,
		metrics.InstrumentBus[models.RecipeMainEvent](m, "recipemain", a.MainBus), logger)

	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafka := events.NewPublisher(brokers, cfg.KafkaTopic, logger)
		a.addSink("kafka", kafka, kafka.Close)
		logger.Info("kafka sink enabled", zap.Strings("brokers", brokers), zap.String("topic", cfg.KafkaTopic))
	}
	if cfg.RedisAddr != "" {
		redis := events.NewRedisPublisher(cfg.RedisAddr, cfg.RedisChannel, logger)
		a.addSink("redis", redis, redis.Close)
		logger.Info("redis sink enabled", zap.String("addr", cfg.RedisAddr), zap.String("channel", cfg.RedisChannel))
	}

	return a, nil
}

func (a *App) addSink(name string, sink events.Sink, closeFn func() error) {
	a.sinks = append(a.sinks, namedSink{name: name, sink: metrics.InstrumentSink(a.Metrics, name, sink)})
	a.closers = append(a.closers, closeFn)
}

// Start subscribes one forwarder per sink and bus. Forwarders run until
// Close, which drains whatever is already buffered.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)

	for _, s := range a.sinks {
		listSub, _ := a.ListBus.Subscribe()
		mainSub, _ := a.MainBus.Subscribe()
		logger := a.Logger.With(zap.String("sink", s.name))

		a.wg.Add(2)
		go func(sink events.Sink) {
			defer a.wg.Done()
			events.Forward(ctx, listSub, sink, models.RecipeListEvent.EventKind, logger)
		}(s.sink)
		go func(sink events.Sink) {
			defer a.wg.Done()
			events.Forward(ctx, mainSub, sink, func(e models.RecipeMainEvent) string { return e.Recipe.RecipeID }, logger)
		}(s.sink)
	}
}

// Close stops the forwarders after they drain, then closes the sinks and
// the store. Events still undelivered after DrainTimeout are dropped.
func (a *App) Close() error {
	// Closing the buses ends every subscription channel, so forwarders exit
	// once the buffered events are written.
	a.ListBus.Close()
	a.MainBus.Close()

	drained := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(drained)
	}()

	timer := time.NewTimer(a.DrainTimeout)
	defer timer.Stop()
	select {
	case <-drained:
	case <-timer.C:
		a.Logger.Warn("event drain timed out, dropping undelivered events",
			zap.Duration("timeout", a.DrainTimeout))
		if a.cancel != nil {
			a.cancel()
		}
		<-drained
	}
	if a.cancel != nil {
		a.cancel()
	}

	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
