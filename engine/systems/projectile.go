package systems

import (
	"github.com/1siamBot/turret-defense/engine/core"
	"github.com/go-gl/mathgl/mgl64"
)

// ProjectileFactory creates a projectile entity leaving origin along dir
type ProjectileFactory interface {
	Create(w *core.World, origin, dir mgl64.Vec3) core.EntityID
}

// BulletFactory spawns straight-flying bullets
type BulletFactory struct {
	Speed float64 // world units per second
	TTL   float64 // seconds
}

// DefaultBulletFactory is used when a TurretSystem has no factory set
var DefaultBulletFactory = BulletFactory{Speed: 40, TTL: 3}

func (f BulletFactory) Create(w *core.World, origin, dir mgl64.Vec3) core.EntityID {
	id := w.Spawn()
	tf := core.NewTransform(origin)
	if dir.LenSqr() > 0 {
		dir = dir.Normalize()
	}
	w.Attach(id, tf)
	w.Attach(id, &core.Projectile{Direction: dir, Speed: f.Speed, TTL: f.TTL})
	return id
}

// ProjectileSystem flies projectiles in a straight line and expires them
type ProjectileSystem struct {
	EventBus *core.EventBus
}

func (s *ProjectileSystem) Priority() int { return 30 }

func (s *ProjectileSystem) Update(w *core.World, dt float64) {
	for _, id := range w.Projectiles {
		proj, ok := w.Get(id, core.CompProjectile).(*core.Projectile)
		if !ok || !w.Alive(id) {
			continue
		}
		var pos mgl64.Vec3
		if tf, ok := w.Get(id, core.CompTransform).(*core.Transform); ok {
			tf.Pos = tf.Pos.Add(proj.Direction.Mul(proj.Speed * dt))
			pos = tf.Pos
		}
		proj.Age += dt
		if proj.TTL > 0 && proj.Age >= proj.TTL {
			w.Destroy(id)
			if s.EventBus != nil {
				s.EventBus.Emit(core.Event{Type: core.EvtProjectileExpired, Tick: w.TickCount, Source: proj.SourceID, Target: id, Payload: pos})
			}
		}
	}
}
