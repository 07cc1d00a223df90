// Command ecs-stress churns a world for a fixed duration and reports frame
// times, memory usage and the resulting world composition.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/braga/ecs"
	"github.com/plus3/braga/internal/config"
	"github.com/rs/zerolog"
)

type Config struct {
	config.Logging
	Duration       time.Duration `env:"BRAGA_STRESS_DURATION" envDefault:"10s"`
	Entities       int           `env:"BRAGA_STRESS_ENTITIES" envDefault:"10000"`
	Churn          int           `env:"BRAGA_STRESS_CHURN" envDefault:"100"`
	Seed           uint64        `env:"BRAGA_STRESS_SEED" envDefault:"1"`
	GCPauseMetrics bool          `env:"BRAGA_STRESS_GC_PAUSE_METRICS"`
}

// loadConfig reads the environment, then lets flags override it.
func loadConfig(args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("ecs-stress", flag.ContinueOnError)
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "The total duration the test should run for.")
	fs.IntVar(&cfg.Entities, "entities", cfg.Entities, "The initial number of entities to create.")
	fs.IntVar(&cfg.Churn, "churn", cfg.Churn, "Entities destroyed and respawned every frame.")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for the random source.")
	fs.BoolVar(&cfg.GCPauseMetrics, "gc-pause-metrics", cfg.GCPauseMetrics, "Enable detailed GC pause metrics in the report.")
	fs.StringVar(&cfg.Level, "log-level", cfg.Level, "Log level.")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	report, err := run(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("stress test failed")
	}

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("failed to generate report")
	}
	fmt.Println("--- End of Report ---")
}

func run(cfg Config, logger zerolog.Logger) (*Report, error) {
	logger.Info().Msg("starting ECS stress test")
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))

	world := ecs.NewWorld(newRegistry())
	scheduler := ecs.NewScheduler(world, ecs.WithSchedulerLogger(logger))
	bounds := newBoundsSystem(world)
	vitals := newVitalsSystem(world)
	pursuit := newPursuitSystem(world)
	ages := newAgeSystem(world)
	for _, system := range []ecs.System{bounds, vitals, pursuit, ages} {
		if err := scheduler.Register(system); err != nil {
			return nil, err
		}
	}

	logger.Info().Int("entities", cfg.Entities).Msg("populating world")
	var prey *ecs.Entity
	for i := 0; i < cfg.Entities; i++ {
		a := assemblages[rng.IntN(len(assemblages))]
		e, err := world.CreateEntity(a, overridesFor(a, rng, prey)...)
		if err != nil {
			return nil, err
		}
		prey = e
	}
	logger.Info().Msg("population complete")

	report := &Report{
		Duration:       cfg.Duration,
		Entities:       cfg.Entities,
		Churn:          cfg.Churn,
		Systems:        len(scheduler.Systems()),
		GCPauseMetrics: cfg.GCPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", cfg.Duration).Msg("running simulation")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	moving := ecs.NewAspect().AllOf(ecs.TypeOf[Position](), ecs.TypeOf[Velocity]())
	aging := ecs.NewAspect().AllOf(ecs.TypeOf[Age]())
	startTime := time.Now()
	var totalUpdates int64

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			updateStart := time.Now()
			step(world, moving, aging)
			report.Destroyed += churn(world, rng, cfg.Churn)
			if err := scheduler.Once(); err != nil {
				return nil, err
			}
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.World = world.CollectStats()
	report.Scheduler = scheduler.GetStats()
	report.Wounded = vitals.wounded
	report.Tracking = pursuit.tracking
	report.Idle = pursuit.idle
	report.Oldest = int(ages.oldest)
	report.Bounds = [4]float64{bounds.minX, bounds.minY, bounds.maxX, bounds.maxY}

	logger.Info().Int64("updates", totalUpdates).Msg("simulation finished")
	return report, nil
}

// step integrates velocities and ages markers in place.
func step(world *ecs.World, moving, aging ecs.Aspect) {
	for _, e := range world.Matching(moving) {
		p, _ := ecs.Get[Position](e)
		v, _ := ecs.Get[Velocity](e)
		p.X += v.X
		p.Y += v.Y
	}
	for _, e := range world.Matching(aging) {
		a, _ := ecs.Get[Age](e)
		*a++
	}
}

// churn queues n destroys and n spawns on the world's command buffer; the
// scheduler applies them at the end of the next tick. It returns the
// number of distinct entities queued for destruction.
func churn(world *ecs.World, rng *rand.Rand, n int) int {
	entities := world.All()
	if len(entities) == 0 {
		return 0
	}

	commands := world.Commands()
	picked := make(map[ecs.EntityId]struct{}, n)
	for i := 0; i < n; i++ {
		victim := entities[rng.IntN(len(entities))]
		if _, ok := picked[victim.Id()]; !ok {
			picked[victim.Id()] = struct{}{}
			commands.Destroy(victim)
		}

		a := assemblages[rng.IntN(len(assemblages))]
		prey := entities[rng.IntN(len(entities))]
		commands.Spawn(a, overridesFor(a, rng, prey)...)
	}
	return len(picked)
}
