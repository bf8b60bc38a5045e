package assets

import (
	"context"

	"github.com/1siamBot/turret-defense/engine/turret"
	"github.com/go-gl/mathgl/mgl64"
)

// Transform is the live pose of whatever a model is attached to
type Transform interface {
	Position() mgl64.Vec3
	Orientation() mgl64.Quat
}

// MuzzleMount is a spawn point riding on a parent transform. It satisfies
// turret.Muzzle
type MuzzleMount struct {
	parent Transform
	offset mgl64.Vec3
}

// Mount attaches model's muzzle to parent
func Mount(parent Transform, model *Model) *MuzzleMount {
	return &MuzzleMount{parent: parent, offset: model.MuzzleOffset}
}

// WorldPosition follows the parent's current position and facing
func (m *MuzzleMount) WorldPosition() mgl64.Vec3 {
	return m.parent.Position().Add(m.parent.Orientation().Rotate(m.offset))
}

// Offset returns the muzzle position in the parent's space
func (m *MuzzleMount) Offset() mgl64.Vec3 { return m.offset }

// ArmWhenLoaded loads modelID in the background and installs its muzzle on
// t once done. Load failures leave the turret unarmed; it keeps tracking
// but never fires. done, if set, runs on the loader goroutine
func (mm *ModelManager) ArmWhenLoaded(ctx context.Context, t *turret.Turret, modelID string, done func(*Model, error)) {
	mm.LoadAsync(ctx, modelID, func(model *Model, err error) {
		if err == nil {
			if !t.ResolveMuzzle(Mount(t, model)) {
				mm.logger().Debug("muzzle already resolved", "model", modelID)
			}
		}
		if done != nil {
			done(model, err)
		}
	})
}
