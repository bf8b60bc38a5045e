// Package sim assembles a runnable turret-defense scenario from config
package sim

import (
	"context"

	"github.com/1siamBot/turret-defense/engine/assets"
	"github.com/1siamBot/turret-defense/engine/config"
	"github.com/1siamBot/turret-defense/engine/core"
	"github.com/1siamBot/turret-defense/engine/systems"
	"github.com/1siamBot/turret-defense/engine/turret"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Sim is a world with its systems, turrets and event bus wired up
type Sim struct {
	Config config.Config
	Loop   *core.GameLoop
	Bus    *core.EventBus
	Wave   *systems.WaveSpawner
	Log    *log.Logger

	Turrets []core.EntityID
	Names   map[core.EntityID]string
}

// New builds the world described by cfg. Turrets start unarmed; call Arm or
// ArmAsync to give them muzzles
func New(cfg config.Config, logger *log.Logger) *Sim {
	if logger == nil {
		logger = log.Default()
	}
	s := &Sim{
		Config: cfg,
		Loop:   core.NewGameLoop(cfg.Loop.TickRate),
		Bus:    core.NewEventBus(),
		Log:    logger,
		Names:  make(map[core.EntityID]string),
	}
	s.Loop.Speed = cfg.Loop.Speed
	w := s.Loop.World

	s.Wave = &systems.WaveSpawner{
		EventBus: s.Bus,
		Kind:     cfg.Wave.Kind,
		Speed:    cfg.Wave.Speed,
		Path:     cfg.Wave.Waypoints(),
		Interval: cfg.Wave.Interval,
		Count:    cfg.Wave.Count,
	}
	w.AddSystem(s.Wave)
	w.AddSystem(&systems.HostileSystem{EventBus: s.Bus, Log: logger})
	w.AddSystem(&systems.TurretSystem{
		EventBus: s.Bus,
		Factory:  systems.BulletFactory{Speed: cfg.Projectile.Speed, TTL: cfg.Projectile.TTL},
		Workers:  cfg.Loop.Workers,
		Log:      logger,
	})
	w.AddSystem(&systems.ProjectileSystem{EventBus: s.Bus})

	for _, def := range cfg.Turrets {
		s.AddTurret(def)
	}
	return s
}

// AddTurret places a turret from its definition and returns its entity
func (s *Sim) AddTurret(def config.TurretDef) core.EntityID {
	model := def.Model
	if model == "" {
		model = assets.ModelTurret
	}
	id := systems.SpawnTurret(s.Loop.World, def.NewTurret(), model)
	name := def.ID
	if name == "" {
		name = model
	}
	s.Turrets = append(s.Turrets, id)
	s.Names[id] = name
	return id
}

// Turret returns the controller of a turret entity
func (s *Sim) Turret(id core.EntityID) *turret.Turret {
	if m, ok := s.Loop.World.Get(id, core.CompTurret).(*core.TurretMount); ok {
		return m.Turret
	}
	return nil
}

// SpawnHostile drops a stationary hostile at pos
func (s *Sim) SpawnHostile(pos mgl64.Vec3) core.EntityID {
	id := systems.ParkHostile(s.Loop.World, s.Config.Wave.Kind, pos)
	s.Bus.Emit(core.Event{Type: core.EvtHostileSpawned, Tick: s.Loop.World.TickCount, Source: id})
	return id
}

// Arm loads every turret model and installs the muzzles before returning
func (s *Sim) Arm(ctx context.Context, mm *assets.ModelManager) error {
	for _, id := range s.Turrets {
		m := s.Loop.World.Get(id, core.CompTurret).(*core.TurretMount)
		model, err := mm.Load(ctx, m.ModelID)
		if err != nil {
			return errors.Wrapf(err, "arm %s", s.Names[id])
		}
		m.Turret.ResolveMuzzle(assets.Mount(m.Turret, model))
	}
	return nil
}

// ArmAsync loads turret models in the background. Each turret starts firing
// once its own model arrives
func (s *Sim) ArmAsync(ctx context.Context, mm *assets.ModelManager) {
	for _, id := range s.Turrets {
		m := s.Loop.World.Get(id, core.CompTurret).(*core.TurretMount)
		name := s.Names[id]
		mm.ArmWhenLoaded(ctx, m.Turret, m.ModelID, func(_ *assets.Model, err error) {
			if err != nil {
				s.Log.Warn("turret stays unarmed", "turret", name, "err", err)
			}
		})
	}
}

// Tick advances one fixed step and delivers its events
func (s *Sim) Tick() {
	s.Loop.World.Tick(1 / s.Loop.TickRate)
	s.Bus.Dispatch()
}

// Frame advances by frameTime seconds of host time and delivers events
func (s *Sim) Frame(frameTime float64) float64 {
	alpha := s.Loop.Step(frameTime)
	s.Bus.Dispatch()
	return alpha
}

// Hostiles returns the live hostile entities in spawn order
func (s *Sim) Hostiles() []core.EntityID {
	return s.Loop.World.Query(core.CompTransform, core.CompHostile)
}
