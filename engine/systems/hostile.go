package systems

import (
	"math"

	"github.com/1siamBot/turret-defense/engine/core"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// waypointReach is how close a hostile has to get before moving on
const waypointReach = 0.05

// HostileSystem walks hostiles along their waypoint paths. Hostiles without a
// path stand still
type HostileSystem struct {
	EventBus *core.EventBus
	Log      *log.Logger
}

func (s *HostileSystem) Priority() int { return 10 }

func (s *HostileSystem) Update(w *core.World, dt float64) {
	for _, id := range w.Query(core.CompTransform, core.CompHostile) {
		h := w.Get(id, core.CompHostile).(*core.Hostile)
		if h.Escaped || len(h.Path) == 0 {
			continue
		}
		tf := w.Get(id, core.CompTransform).(*core.Transform)

		budget := h.Speed * dt
		for budget > 0 && h.PathIdx < len(h.Path) {
			wp := h.Path[h.PathIdx]
			delta := wp.Sub(tf.Pos)
			dist := delta.Len()
			if dist <= math.Max(budget, waypointReach) {
				tf.Pos = wp
				budget -= dist
				h.PathIdx++
				continue
			}
			dir := delta.Mul(1 / dist)
			tf.Pos = tf.Pos.Add(dir.Mul(budget))
			if dir[0] != 0 || dir[2] != 0 {
				tf.Rot = mgl64.QuatRotate(math.Atan2(dir[0], dir[2]), mgl64.Vec3{0, 1, 0})
			}
			budget = 0
		}

		if h.PathIdx >= len(h.Path) {
			h.Escaped = true
			w.Destroy(id)
			if s.EventBus != nil {
				s.EventBus.Emit(core.Event{Type: core.EvtHostileEscaped, Tick: w.TickCount, Source: id, Payload: tf.Pos})
			}
			if s.Log != nil {
				s.Log.Debug("hostile escaped", "hostile", id, "kind", h.Kind)
			}
		}
	}
}

// WaveSpawner releases hostiles at a fixed interval
type WaveSpawner struct {
	EventBus *core.EventBus

	Kind     string
	Speed    float64
	Path     []mgl64.Vec3 // first point is the entry
	Interval float64      // seconds between spawns
	Count    int          // hostiles left to spawn; negative is endless

	timer float64
}

func (s *WaveSpawner) Priority() int { return 5 }

// Done reports whether the wave has nothing left to spawn
func (s *WaveSpawner) Done() bool { return s.Count == 0 }

func (s *WaveSpawner) Update(w *core.World, dt float64) {
	if s.Count == 0 || len(s.Path) == 0 {
		return
	}
	s.timer -= dt
	for s.timer <= 0 && s.Count != 0 {
		id := SpawnHostile(w, s.Kind, s.Speed, s.Path)
		if s.EventBus != nil {
			s.EventBus.Emit(core.Event{Type: core.EvtHostileSpawned, Tick: w.TickCount, Source: id})
		}
		if s.Count > 0 {
			s.Count--
		}
		if s.Interval <= 0 {
			if s.Count < 0 {
				// endless with no interval would never leave the loop
				break
			}
			continue
		}
		s.timer += s.Interval
	}
}
