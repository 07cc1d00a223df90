// Command duel stages a wizard duel on top of the ecs runtime and runs the
// scheduler while the duel plays out.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/plus3/braga/duel"
	"github.com/plus3/braga/ecs"
	"github.com/plus3/braga/internal/config"
	"github.com/rs/zerolog"
)

type Config struct {
	config.Logging
	Ticks        int           `env:"BRAGA_TICKS" envDefault:"5"`
	TickInterval time.Duration `env:"BRAGA_TICK_INTERVAL" envDefault:"20ms"`
}

func main() {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(cfg, logger, os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("duel failed")
	}
}

// run plays the duel and writes the outcome to out.
func run(cfg Config, logger zerolog.Logger, out io.Writer) error {
	world := ecs.NewWorld(duel.NewRegistry(), ecs.WithLogger(logger))
	cast, err := stage(world)
	if err != nil {
		return err
	}

	scheduler := ecs.NewScheduler(world, ecs.WithSchedulerLogger(logger))
	sys, err := build(scheduler)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := make(chan error, 1)
	go func() {
		loop <- scheduler.Run(ctx, cfg.TickInterval)
		cancel()
	}()

	steps := []struct {
		name string
		fn   func(*ecs.World) error
	}{
		{"harry arms", func(*ecs.World) error { return sys.arm(cast.harry, cast.hall, cast.holly) }},
		{"draco arms", func(*ecs.World) error { return sys.arm(cast.draco, cast.hall, cast.hawthorn) }},
		{"harry disarms draco", func(*ecs.World) error {
			_, err := sys.spells.Expelliarmus(cast.harry, cast.draco)
			return err
		}},
		{"draco disarms harry", func(*ecs.World) error {
			_, err := sys.spells.Expelliarmus(cast.draco, cast.harry)
			return err
		}},
		{"draco flees", func(*ecs.World) error {
			paths, _ := ecs.Get[duel.Mappable](cast.hall)
			return sys.containers.Move(cast.draco, paths.Paths["up"])
		}},
	}

	for _, step := range steps {
		if err := scheduler.Submit(ctx, step.fn); err != nil {
			if ctx.Err() != nil {
				// The loop stopped before the duel was over.
				return <-loop
			}
			if errors.Is(err, ecs.ErrInvalidOperation) || errors.Is(err, ecs.ErrDuplicateRelation) {
				logger.Warn().Err(err).Str("step", step.name).Msg("step refused")
				continue
			}
			return err
		}
		logger.Info().Str("step", step.name).Msg("step done")
	}

	select {
	case err := <-loop:
		return err
	case <-time.After(time.Duration(cfg.Ticks) * cfg.TickInterval):
	}
	cancel()
	if err := <-loop; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	// The loop has stopped; the world belongs to this goroutine again.
	if err := scheduler.Once(); err != nil {
		return err
	}
	report(out, cast, sys, scheduler, logger)
	return nil
}

func report(out io.Writer, cast *scenario, sys *systems, scheduler *ecs.Scheduler, logger zerolog.Logger) {
	for _, e := range []*ecs.Entity{cast.hall, cast.tower, cast.harry, cast.draco} {
		text, err := sys.descriptions.Render(e)
		if err != nil {
			logger.Warn().Err(err).Uint64("entity_id", uint64(e.Id())).Msg("render failed")
			continue
		}
		fmt.Fprintln(out, text)
	}

	for _, player := range []*ecs.Entity{cast.harry, cast.draco} {
		name, _ := ecs.Get[duel.Name](player)
		where := "nowhere"
		if room, ok := sys.containers.Where(player); ok {
			if n, ok := ecs.Get[duel.Name](room); ok {
				where = n.Name
			}
		}
		items, err := sys.containers.Contents(player)
		if err != nil {
			logger.Warn().Err(err).Str("player", name.Name).Msg("inventory unavailable")
		}
		inventory := make([]string, 0, len(items))
		for _, item := range items {
			if n, ok := ecs.Get[duel.Name](item); ok {
				inventory = append(inventory, n.Name)
			}
		}
		fmt.Fprintf(out, "%s is in the %s carrying %v\n", name.Name, where, inventory)
	}

	for rank, caster := range sys.spells.Ranking() {
		name, _ := ecs.Get[duel.Name](caster)
		skill, _ := ecs.Get[duel.ExpelliarmusSkill](caster)
		fmt.Fprintf(out, "%d. %s (skill %d)\n", rank+1, name.Name, skill.Skill)
	}

	stats := scheduler.GetStats()
	for _, s := range stats.Systems {
		logger.Debug().
			Str("system", s.Name).
			Int64("executions", s.ExecutionCount).
			Int64("errors", s.ErrorCount).
			Dur("avg", s.AvgDuration).
			Msg("system stats")
	}
	logger.Info().Int64("executions", stats.TotalExecutions).Int("entities", scheduler.World().Len()).Msg("duel over")
}
