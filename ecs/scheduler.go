package ecs

import (
	"context"
	"reflect"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	ErrorCount     int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	errorCount     int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

type submission struct {
	fn   func(*World) error
	done chan error
}

// Scheduler owns the update loop of a World. It calls each registered
// system's Update in registration order, then flushes the world's
// deferred commands.
//
// While Run is active the loop goroutine is the only one touching the
// world; other goroutines hand it work through Submit.
type Scheduler struct {
	world       *World
	systems     []System
	systemTypes []reflect.Type
	systemStats []*systemStatsInternal
	submissions chan submission
	logger      zerolog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedulerLogger sets the logger used for system failures and loop events.
func WithSchedulerLogger(logger zerolog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler creates a new scheduler for the given world.
func NewScheduler(world *World, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		world:       world,
		systems:     make([]System, 0),
		submissions: make(chan submission),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// World returns the scheduled world.
func (s *Scheduler) World() *World {
	return s.world
}

// Register appends a system to the update order. Only one instance of each
// concrete system type may be registered.
func (s *Scheduler) Register(system System) error {
	if system == nil {
		return eris.Wrap(ErrInvalidOperation, "register nil system")
	}
	if v := reflect.ValueOf(system); v.Kind() == reflect.Ptr && v.IsNil() {
		return eris.Wrapf(ErrInvalidOperation, "register nil %s", systemName(v.Type()))
	}

	systemType := reflect.TypeOf(system)
	for _, registered := range s.systemTypes {
		if registered == systemType {
			return eris.Wrapf(ErrDuplicateSystem, "system %s", systemName(systemType))
		}
	}

	s.systems = append(s.systems, system)
	s.systemTypes = append(s.systemTypes, systemType)
	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemName(systemType),
		minDuration: time.Duration(1<<63 - 1),
	})
	return nil
}

func systemName(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Systems returns the registered systems in update order.
func (s *Scheduler) Systems() []System {
	out := make([]System, len(s.systems))
	copy(out, s.systems)
	return out
}

// Lookup returns the registered system of type T.
func Lookup[T System](s *Scheduler) (T, bool) {
	for _, system := range s.systems {
		if typed, ok := system.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

// Once runs every registered system once, in order. The first failing
// system aborts the tick; deferred commands are flushed either way.
func (s *Scheduler) Once() error {
	var tickErr error

	for i, system := range s.systems {
		stats := s.systemStats[i]

		start := time.Now()
		err := system.Update()
		duration := time.Since(start)

		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}

		if err != nil {
			stats.errorCount++
			s.logger.Error().Err(err).Str("system", stats.name).Msg("system update failed")
			tickErr = eris.Wrapf(err, "system %s failed", stats.name)
			break
		}
	}

	if err := s.world.Flush(); err != nil {
		s.logger.Error().Err(err).Msg("command flush failed")
		if tickErr == nil {
			tickErr = err
		}
	}

	return tickErr
}

// Run executes all systems at the given interval until the context is
// cancelled or a tick fails. The interval must be positive. Functions
// passed to Submit are executed on the same goroutine between ticks.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return eris.Wrapf(ErrInvalidOperation, "tick interval %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Debug().Dur("interval", interval).Int("systems", len(s.systems)).Msg("scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug().Msg("scheduler stopped")
			return ctx.Err()
		case sub := <-s.submissions:
			sub.done <- sub.fn(s.world)
		case <-ticker.C:
			if err := s.Once(); err != nil {
				return err
			}
		}
	}
}

// Submit hands fn to the goroutine executing Run and waits for its result.
// It returns ctx.Err() if the context ends before fn was run.
func (s *Scheduler) Submit(ctx context.Context, fn func(*World) error) error {
	sub := submission{
		fn:   fn,
		done: make(chan error, 1),
	}

	select {
	case s.submissions <- sub:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-sub.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			ErrorCount:     internal.errorCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
