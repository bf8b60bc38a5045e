package turret

import "math"

// Reason explains why a tick did not produce a shot
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonNoTarget
	ReasonMisaligned
	ReasonOutOfRange
	ReasonCooling
	ReasonNotReady
	ReasonDisarmed
)

var reasonNames = [...]string{
	ReasonNone:       "none",
	ReasonNoTarget:   "no target",
	ReasonMisaligned: "misaligned",
	ReasonOutOfRange: "out of range",
	ReasonCooling:    "cooling",
	ReasonNotReady:   "not ready",
	ReasonDisarmed:   "disarmed",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// fireControl owns the cooldown timer. cooldown never drops below zero
type fireControl struct {
	fireRate float64
	cooldown float64
}

// decay runs once per tick whether or not there is a target
func (f *fireControl) decay(dt float64) {
	f.cooldown = math.Max(0, f.cooldown-dt)
}

func (f *fireControl) reset() {
	f.cooldown = 1 / f.fireRate
}

// gate decides whether the trigger may be pulled this tick. The muzzle is
// checked separately since resolving it has a cost
func (f *fireControl) gate(targeted bool, angle float64, inRange bool) Reason {
	switch {
	case !targeted:
		return ReasonNoTarget
	case angle >= Epsilon:
		return ReasonMisaligned
	case !inRange:
		return ReasonOutOfRange
	case f.fireRate <= 0:
		return ReasonDisarmed
	case f.cooldown > 0:
		return ReasonCooling
	}
	return ReasonNone
}
