package systems

import (
	"github.com/1siamBot/turret-defense/engine/core"
	"github.com/1siamBot/turret-defense/engine/turret"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// TurretSystem runs every turret's select/orient/fire cycle and spawns the
// resulting projectiles into the world
type TurretSystem struct {
	EventBus *core.EventBus
	Factory  ProjectileFactory
	Log      *log.Logger

	// Workers > 1 runs the decision phase on a worker pool. Shots are still
	// applied in turret order, so the outcome matches a sequential run
	Workers int

	hostiles []turret.Hostile
	ids      map[turret.Hostile]core.EntityID
	reports  []turret.Report
}

func (s *TurretSystem) Priority() int { return 20 }

func (s *TurretSystem) logger() *log.Logger {
	if s.Log != nil {
		return s.Log
	}
	return log.Default()
}

func (s *TurretSystem) factory() ProjectileFactory {
	if s.Factory != nil {
		return s.Factory
	}
	return DefaultBulletFactory
}

func (s *TurretSystem) Update(w *core.World, dt float64) {
	s.collectHostiles(w)

	mounts := w.Query(core.CompTurret)
	if cap(s.reports) < len(mounts) {
		s.reports = make([]turret.Report, len(mounts))
	}
	s.reports = s.reports[:len(mounts)]

	decide := func(i int) {
		m := w.Get(mounts[i], core.CompTurret).(*core.TurretMount)
		s.reports[i] = m.Turret.Update(s.hostiles, dt)
	}

	if s.Workers > 1 && len(mounts) > 1 {
		var g errgroup.Group
		g.SetLimit(s.Workers)
		for i := range mounts {
			i := i
			g.Go(func() error {
				decide(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range mounts {
			decide(i)
		}
	}

	for i, id := range mounts {
		s.apply(w, id, s.reports[i])
	}
}

// collectHostiles snapshots live hostiles in world order for this tick
func (s *TurretSystem) collectHostiles(w *core.World) {
	s.hostiles = s.hostiles[:0]
	if s.ids == nil {
		s.ids = make(map[turret.Hostile]core.EntityID)
	}
	for k := range s.ids {
		delete(s.ids, k)
	}
	for _, id := range w.Query(core.CompTransform, core.CompHostile) {
		if h := w.Get(id, core.CompHostile).(*core.Hostile); h.Escaped || !w.Alive(id) {
			continue
		}
		tf := w.Get(id, core.CompTransform).(*core.Transform)
		s.hostiles = append(s.hostiles, tf)
		s.ids[tf] = id
	}
}

func (s *TurretSystem) apply(w *core.World, id core.EntityID, r turret.Report) {
	m := w.Get(id, core.CompTurret).(*core.TurretMount)
	prev := m.Last
	m.Last = r

	if tf, ok := w.Get(id, core.CompTransform).(*core.Transform); ok {
		tf.Rot = m.Turret.Orientation()
	}

	if !m.Armed && m.Turret.Ready() {
		m.Armed = true
		s.emit(core.Event{Type: core.EvtMuzzleResolved, Tick: w.TickCount, Source: id})
		s.logger().Debug("turret armed", "turret", id)
	}

	targetID := s.ids[r.Target]
	switch {
	case r.Target != nil && r.Target != prev.Target:
		s.emit(core.Event{Type: core.EvtTargetAcquired, Tick: w.TickCount, Source: id, Target: targetID})
	case r.Target == nil && prev.Target != nil:
		s.emit(core.Event{Type: core.EvtTargetLost, Tick: w.TickCount, Source: id})
	}
	if r.State != prev.State {
		s.logger().Debug("turret state", "turret", id, "from", prev.State, "to", r.State, "angle", r.Angle)
	}

	if r.Shot == nil {
		return
	}
	pid := s.factory().Create(w, r.Shot.Origin, r.Shot.Direction)
	if p, ok := w.Get(pid, core.CompProjectile).(*core.Projectile); ok {
		p.SourceID = id
	}
	w.Projectiles = append(w.Projectiles, pid)
	s.emit(core.Event{Type: core.EvtProjectileFired, Tick: w.TickCount, Source: id, Target: targetID, Payload: *r.Shot})
}

func (s *TurretSystem) emit(e core.Event) {
	if s.EventBus != nil {
		s.EventBus.Emit(e)
	}
}
