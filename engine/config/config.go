// Package config loads turret-defense scenarios from JSON definition files
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/1siamBot/turret-defense/engine/turret"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Config is a complete scenario
type Config struct {
	Loop       LoopConfig       `json:"loop"`
	Turrets    []TurretDef      `json:"turrets"`
	Wave       WaveConfig       `json:"wave"`
	Projectile ProjectileConfig `json:"projectile"`
}

// LoopConfig drives the fixed-timestep loop
type LoopConfig struct {
	TickRate float64 `json:"tick_rate"` // ticks per second
	Speed    float64 `json:"speed"`     // simulation speed multiplier
	Workers  int     `json:"workers"`   // turret decision workers, 0 or 1 is sequential
}

// TurretDef places one turret
type TurretDef struct {
	ID        string     `json:"id"`
	Position  [3]float64 `json:"position"`
	Yaw       float64    `json:"yaw"` // initial facing in degrees
	FireRate  float64    `json:"fire_rate"`
	Range     float64    `json:"range"`
	TurnSpeed float64    `json:"turn_speed"` // radians per second
	Model     string     `json:"model"`
}

// Pos returns the turret position as a vector
func (d TurretDef) Pos() mgl64.Vec3 { return mgl64.Vec3(d.Position) }

// TurretConfig returns the controller tuning for this definition
func (d TurretDef) TurretConfig() turret.Config {
	return turret.Config{FireRate: d.FireRate, Range: d.Range, TurnSpeed: d.TurnSpeed}
}

// NewTurret builds a controller facing the definition's initial yaw
func (d TurretDef) NewTurret() *turret.Turret {
	t := turret.New(d.Pos(), d.TurretConfig())
	if d.Yaw != 0 {
		t.SetYaw(mgl64.DegToRad(d.Yaw))
	}
	return t
}

// WaveConfig describes the hostile stream
type WaveConfig struct {
	Kind     string       `json:"kind"`
	Speed    float64      `json:"speed"`
	Interval float64      `json:"interval"` // seconds between spawns
	Count    int          `json:"count"`    // negative spawns forever
	Path     [][3]float64 `json:"path"`     // first point is the entry
}

// Waypoints returns the path as vectors
func (w WaveConfig) Waypoints() []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, len(w.Path))
	for i, p := range w.Path {
		pts[i] = mgl64.Vec3(p)
	}
	return pts
}

// ProjectileConfig tunes fired bullets
type ProjectileConfig struct {
	Speed float64 `json:"speed"`
	TTL   float64 `json:"ttl"` // seconds
}

// Default returns the built-in scenario: an L-shaped lane with one turret
// down each leg's line of approach and one covering the entry from behind
func Default() Config {
	base := turret.DefaultConfig()
	def := func(id string, pos [3]float64, yaw float64) TurretDef {
		return TurretDef{
			ID:        id,
			Position:  pos,
			Yaw:       yaw,
			FireRate:  base.FireRate,
			Range:     30,
			TurnSpeed: base.TurnSpeed,
			Model:     "turret",
		}
	}
	return Config{
		Loop: LoopConfig{TickRate: 20, Speed: 1, Workers: 1},
		Turrets: []TurretDef{
			def("east", [3]float64{22, 0, 0}, -90),
			def("south", [3]float64{0, 0, 55}, 180),
			def("west", [3]float64{-55, 0, 0}, 90),
		},
		Wave: WaveConfig{
			Kind:     "drone",
			Speed:    3,
			Interval: 2,
			Count:    12,
			Path:     [][3]float64{{-40, 0, 0}, {0, 0, 0}, {0, 0, 40}},
		},
		Projectile: ProjectileConfig{Speed: 40, TTL: 1.5},
	}
}

// Parse decodes data over the defaults. Sections missing from data keep
// their default values; a turrets array replaces the default turrets
func Parse(data []byte) (Config, error) {
	cfg := Default()
	defaults := cfg.Turrets
	cfg.Turrets = nil // decoding into the default slice would merge fields
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if cfg.Turrets == nil {
		cfg.Turrets = defaults
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and validates the config file at path
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "load %s", path)
	}
	return cfg, nil
}

// Validate checks every value the simulation depends on
func (c Config) Validate() error {
	if c.Loop.TickRate <= 0 {
		return errors.Wrapf(ErrInvalid, "tick rate %v", c.Loop.TickRate)
	}
	if c.Loop.Speed < 0 {
		return errors.Wrapf(ErrInvalid, "speed %v", c.Loop.Speed)
	}
	if c.Loop.Workers < 0 {
		return errors.Wrapf(ErrInvalid, "workers %d", c.Loop.Workers)
	}
	for i, d := range c.Turrets {
		name := d.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		switch {
		case d.FireRate <= 0:
			return errors.Wrapf(ErrInvalid, "turret %s: fire rate %v", name, d.FireRate)
		case d.Range < 0:
			return errors.Wrapf(ErrInvalid, "turret %s: range %v", name, d.Range)
		case d.TurnSpeed < 0:
			return errors.Wrapf(ErrInvalid, "turret %s: turn speed %v", name, d.TurnSpeed)
		}
	}
	if c.Wave.Speed < 0 || c.Wave.Interval < 0 {
		return errors.Wrapf(ErrInvalid, "wave speed %v interval %v", c.Wave.Speed, c.Wave.Interval)
	}
	if c.Wave.Count != 0 && len(c.Wave.Path) == 0 {
		return errors.Wrap(ErrInvalid, "wave has hostiles but no path")
	}
	if c.Projectile.Speed <= 0 || c.Projectile.TTL <= 0 {
		return errors.Wrapf(ErrInvalid, "projectile speed %v ttl %v", c.Projectile.Speed, c.Projectile.TTL)
	}
	return nil
}
