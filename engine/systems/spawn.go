package systems

import (
	"github.com/1siamBot/turret-defense/engine/core"
	"github.com/1siamBot/turret-defense/engine/turret"
	"github.com/go-gl/mathgl/mgl64"
)

// SpawnHostile creates a hostile at the start of path
func SpawnHostile(w *core.World, kind string, speed float64, path []mgl64.Vec3) core.EntityID {
	id := w.Spawn()
	var start mgl64.Vec3
	if len(path) > 0 {
		start = path[0]
	}
	w.Attach(id, core.NewTransform(start))
	w.Attach(id, &core.Hostile{
		Kind:  kind,
		Speed: speed,
		Path:  append([]mgl64.Vec3(nil), path...),
	})
	return id
}

// ParkHostile creates a hostile with no path. It stays at pos until
// destroyed
func ParkHostile(w *core.World, kind string, pos mgl64.Vec3) core.EntityID {
	id := w.Spawn()
	w.Attach(id, core.NewTransform(pos))
	w.Attach(id, &core.Hostile{Kind: kind})
	return id
}

// SpawnTurret creates a turret entity. Its transform mirrors the turret's
// pose and is kept in sync by the TurretSystem
func SpawnTurret(w *core.World, t *turret.Turret, modelID string) core.EntityID {
	id := w.Spawn()
	w.Attach(id, &core.Transform{Pos: t.Position(), Rot: t.Orientation()})
	w.Attach(id, &core.TurretMount{Turret: t, ModelID: modelID})
	return id
}
