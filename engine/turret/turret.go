// Package turret implements the per-tick decision cycle of a stationary
// defense turret: pick the nearest hostile, yaw toward it at a bounded rate
// and fire when aligned, in range and off cooldown
package turret

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
)

// Config holds the tunables of a turret
type Config struct {
	FireRate  float64 // shots per second
	Range     float64 // firing radius, compared squared
	TurnSpeed float64 // radians per second
}

// DefaultConfig matches the stock turret
func DefaultConfig() Config {
	return Config{FireRate: 2, Range: 5000, TurnSpeed: 2}
}

// State is the turret's engagement state for the current tick
type State uint8

const (
	Idle State = iota
	Tracking
	Aligned
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Tracking:
		return "TRACKING"
	case Aligned:
		return "ALIGNED"
	}
	return "UNKNOWN"
}

// Muzzle is the projectile spawn point. It becomes available once the
// turret model has finished loading
type Muzzle interface {
	WorldPosition() mgl64.Vec3
}

// Shot is a projectile request produced by a tick
type Shot struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3 // unit length
	Target    Hostile
}

// Report summarizes one tick
type Report struct {
	State   State
	Target  Hostile
	DistSq  float64
	Angle   float64 // alignment angle before this tick's turn
	Shot    *Shot
	Blocked Reason
}

type muzzleSlot struct{ m Muzzle }

// Turret is a stationary unit. Update must be driven from a single
// goroutine; ResolveMuzzle may be called from any goroutine
type Turret struct {
	cfg    Config
	pos    mgl64.Vec3
	facing mgl64.Quat
	state  State
	fire   fireControl
	muzzle atomic.Pointer[muzzleSlot]
}

// New places a turret at pos facing +Z with no cooldown
func New(pos mgl64.Vec3, cfg Config) *Turret {
	return &Turret{
		cfg:    cfg,
		pos:    pos,
		facing: mgl64.QuatIdent(),
		fire:   fireControl{fireRate: cfg.FireRate},
	}
}

func (t *Turret) Config() Config { return t.cfg }
func (t *Turret) Position() mgl64.Vec3 { return t.pos }
func (t *Turret) Orientation() mgl64.Quat { return t.facing }
func (t *Turret) Forward() mgl64.Vec3 { return Forward(t.facing) }
func (t *Turret) Cooldown() float64 { return t.fire.cooldown }
func (t *Turret) State() State { return t.state }
func (t *Turret) Ready() bool { return t.muzzle.Load() != nil }

// SetYaw points the turret yaw radians about the vertical, measured from +Z
func (t *Turret) SetYaw(yaw float64) { t.facing = mgl64.QuatRotate(yaw, UpAxis) }

// ResolveMuzzle installs the spawn point. Only the first call takes effect;
// it reports whether this call was the one that did
func (t *Turret) ResolveMuzzle(m Muzzle) bool {
	if m == nil {
		return false
	}
	return t.muzzle.CompareAndSwap(nil, &muzzleSlot{m: m})
}

// Muzzle returns the spawn point, or nil while the model is still loading
func (t *Turret) Muzzle() Muzzle {
	if s := t.muzzle.Load(); s != nil {
		return s.m
	}
	return nil
}

// Update runs select, orient and fire for one tick of dt seconds. The
// returned report carries the shot, if any; appending it to the world is
// the caller's job
func (t *Turret) Update(hostiles []Hostile, dt float64) Report {
	if dt < 0 {
		dt = 0
	}
	t.fire.decay(dt)

	target, distSq, ok := SelectTarget(t.pos, t.cfg.Range, hostiles)
	if !ok {
		t.state = Idle
		return Report{State: Idle, Blocked: ReasonNoTarget}
	}

	tp := target.Position()
	next, angle := Orient(t.facing, t.pos, tp, t.cfg.TurnSpeed, dt)
	t.facing = next

	r := Report{Target: target, DistSq: distSq, Angle: angle, State: Tracking}
	if angle <= Epsilon {
		r.State = Aligned
	}
	t.state = r.State

	inRange := distSq < t.cfg.Range*t.cfg.Range
	if r.Blocked = t.fire.gate(true, angle, inRange); r.Blocked != ReasonNone {
		return r
	}

	m := t.Muzzle()
	if m == nil {
		r.Blocked = ReasonNotReady
		return r
	}

	origin := m.WorldPosition()
	dir := tp.Sub(origin)
	if dir.Len() < 1e-9 {
		dir = t.Forward()
	} else {
		dir = dir.Normalize()
	}

	t.fire.reset()
	r.Shot = &Shot{Origin: origin, Direction: dir, Target: target}
	return r
}
