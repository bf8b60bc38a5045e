// Command turretsim runs a turret-defense scenario headless and reports what
// the turrets did
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/1siamBot/turret-defense/engine/assets"
	"github.com/1siamBot/turret-defense/engine/config"
	"github.com/1siamBot/turret-defense/engine/core"
	"github.com/1siamBot/turret-defense/engine/replay"
	"github.com/1siamBot/turret-defense/engine/sim"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

type options struct {
	configPath string
	ticks      int
	workers    int
	record     string
	compare    string
	level      string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "scenario JSON file (built-in scenario if empty)")
	flag.IntVar(&opts.ticks, "ticks", 1200, "number of fixed ticks to run")
	flag.IntVar(&opts.workers, "workers", -1, "turret decision workers (-1 keeps the config value)")
	flag.StringVar(&opts.record, "record", "", "write fired shots to this JSON-lines file")
	flag.StringVar(&opts.compare, "compare", "", "compare fired shots against this replay file")
	flag.StringVar(&opts.level, "log", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "turretsim",
	})
	if lvl, err := log.ParseLevel(opts.level); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unknown log level, using info", "level", opts.level)
	}

	if err := run(context.Background(), opts, logger); err != nil {
		logger.Error("simulation failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *log.Logger) error {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	if opts.workers >= 0 {
		cfg.Loop.Workers = opts.workers
	}

	s := sim.New(cfg, logger)
	mm := assets.NewModelManager()
	mm.Log = logger
	if err := s.Arm(ctx, mm); err != nil {
		return err
	}

	var rec *replay.Recorder
	if opts.record != "" {
		var err error
		if rec, err = replay.NewRecorder(opts.record); err != nil {
			return err
		}
	} else {
		rec = replay.NewRecorderTo(io.Discard)
	}
	rec.Listen(s.Bus, s.Names)

	var stats struct{ spawned, escaped, fired, expired int }
	s.Bus.On(core.EvtHostileSpawned, func(core.Event) { stats.spawned++ })
	s.Bus.On(core.EvtHostileEscaped, func(core.Event) { stats.escaped++ })
	s.Bus.On(core.EvtProjectileExpired, func(core.Event) { stats.expired++ })
	s.Bus.On(core.EvtProjectileFired, func(e core.Event) {
		stats.fired++
		logger.Debug("fired", "tick", e.Tick, "turret", s.Names[e.Source])
	})
	s.Bus.On(core.EvtTargetAcquired, func(e core.Event) {
		logger.Debug("target acquired", "tick", e.Tick, "turret", s.Names[e.Source], "hostile", e.Target)
	})

	start := time.Now()
	for i := 0; i < opts.ticks; i++ {
		s.Tick()
	}
	if err := rec.Close(); err != nil {
		return err
	}

	logger.Info("simulation finished",
		"ticks", opts.ticks,
		"sim_seconds", fmt.Sprintf("%.1f", float64(opts.ticks)/cfg.Loop.TickRate),
		"wall", time.Since(start).Round(time.Millisecond),
		"workers", cfg.Loop.Workers,
		"spawned", stats.spawned,
		"escaped", stats.escaped,
		"fired", stats.fired,
		"expired", stats.expired)
	for _, id := range s.Turrets {
		t := s.Turret(id)
		logger.Info("turret", "id", s.Names[id], "state", t.State(), "cooldown", fmt.Sprintf("%.2f", t.Cooldown()))
	}

	if opts.compare != "" {
		want, err := replay.Load(opts.compare)
		if err != nil {
			return err
		}
		if i := want.Compare(rec.Shots, 1e-9); i >= 0 {
			return errors.Errorf("shot %d differs from %s (%d recorded, %d expected)", i, opts.compare, len(rec.Shots), len(want.Shots))
		}
		logger.Info("replay matches", "file", opts.compare, "shots", len(want.Shots))
	}
	return nil
}
