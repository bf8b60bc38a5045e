package core

import "time"

// LoopState represents the state of the simulation loop
type LoopState uint8

const (
	StateLoading LoopState = iota
	StatePlaying
	StatePaused
)

func (s LoopState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

// MaxFrameTime caps a single frame's contribution to the accumulator
const MaxFrameTime = 0.25

// GameLoop runs the world at a fixed timestep driven by the host's frame
// cadence
type GameLoop struct {
	World       *World
	State       LoopState
	TickRate    float64 // fixed ticks per second
	Speed       float64 // simulation speed multiplier
	accumulator float64
	lastTime    time.Time
}

// NewGameLoop creates a game loop with fixed tick rate
func NewGameLoop(tickRate float64) *GameLoop {
	return &GameLoop{
		World:    NewWorld(tickRate),
		TickRate: tickRate,
		Speed:    1,
		lastTime: time.Now(),
	}
}

// Update should be called every render frame. It measures wall-clock time
// since the previous call and advances the simulation by it.
// Returns the interpolation alpha for smooth rendering
func (gl *GameLoop) Update() float64 {
	now := time.Now()
	frameTime := now.Sub(gl.lastTime).Seconds()
	gl.lastTime = now
	return gl.Step(frameTime)
}

// Step advances the simulation by frameTime seconds of host time and returns
// the leftover fraction of a tick
func (gl *GameLoop) Step(frameTime float64) float64 {
	// Cap frame time to avoid spiral of death
	if frameTime > MaxFrameTime {
		frameTime = MaxFrameTime
	}
	if frameTime < 0 {
		frameTime = 0
	}

	dt := 1.0 / gl.TickRate
	if gl.State == StatePlaying {
		gl.accumulator += frameTime * gl.Speed
	}

	for gl.accumulator >= dt {
		gl.World.Tick(dt)
		gl.accumulator -= dt
	}

	return gl.accumulator / dt
}

// Play starts or resumes the simulation
func (gl *GameLoop) Play() {
	gl.State = StatePlaying
	gl.lastTime = time.Now()
}

// Pause pauses the simulation
func (gl *GameLoop) Pause() {
	gl.State = StatePaused
}

// CurrentTick returns the current simulation tick
func (gl *GameLoop) CurrentTick() uint64 {
	return gl.World.TickCount
}
