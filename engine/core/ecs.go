package core

import "sync/atomic"

// EntityID is a unique identifier for simulation entities
type EntityID uint64

var entityCounter uint64

// NewEntityID generates a unique entity ID
func NewEntityID() EntityID {
	return EntityID(atomic.AddUint64(&entityCounter, 1))
}

// Component is a marker interface for all components
type Component interface {
	Type() ComponentType
}

// ComponentType identifies the type of component
type ComponentType uint32

const (
	CompTransform ComponentType = iota
	CompHostile
	CompProjectile
	CompTurret
	CompMax
)

// World holds all entities, their components and the shared collections the
// systems read and append to during a tick
type World struct {
	entities map[EntityID]map[ComponentType]Component
	order    []EntityID // spawn order, keeps Query deterministic
	systems  []System
	toRemove []EntityID

	// Projectiles is the ordered sequence of live projectiles. Turrets
	// append to it; the projectile system prunes it
	Projectiles []EntityID

	TickCount uint64
	TickRate  float64 // ticks per second
}

// System processes entities each tick
type System interface {
	Update(w *World, dt float64)
	Priority() int
}

// NewWorld creates a new world
func NewWorld(tickRate float64) *World {
	return &World{
		entities: make(map[EntityID]map[ComponentType]Component),
		TickRate: tickRate,
	}
}

// Spawn creates a new entity and returns its ID
func (w *World) Spawn() EntityID {
	id := NewEntityID()
	w.entities[id] = make(map[ComponentType]Component)
	w.order = append(w.order, id)
	return id
}

// Attach adds a component to an entity
func (w *World) Attach(id EntityID, c Component) {
	if comps, ok := w.entities[id]; ok {
		comps[c.Type()] = c
	}
}

// Detach removes a component from an entity
func (w *World) Detach(id EntityID, ct ComponentType) {
	if comps, ok := w.entities[id]; ok {
		delete(comps, ct)
	}
}

// Get returns a component for an entity, or nil
func (w *World) Get(id EntityID, ct ComponentType) Component {
	if comps, ok := w.entities[id]; ok {
		return comps[ct]
	}
	return nil
}

// Has checks if an entity has a component
func (w *World) Has(id EntityID, ct ComponentType) bool {
	if comps, ok := w.entities[id]; ok {
		_, exists := comps[ct]
		return exists
	}
	return false
}

// Alive reports whether the entity exists and is not queued for removal
func (w *World) Alive(id EntityID) bool {
	if _, ok := w.entities[id]; !ok {
		return false
	}
	for _, r := range w.toRemove {
		if r == id {
			return false
		}
	}
	return true
}

// Destroy marks an entity for removal at the end of the tick
func (w *World) Destroy(id EntityID) {
	w.toRemove = append(w.toRemove, id)
}

// Query returns, in spawn order, all entity IDs that have ALL the given
// component types
func (w *World) Query(types ...ComponentType) []EntityID {
	var result []EntityID
	for _, id := range w.order {
		comps := w.entities[id]
		match := true
		for _, t := range types {
			if _, ok := comps[t]; !ok {
				match = false
				break
			}
		}
		if match {
			result = append(result, id)
		}
	}
	return result
}

// AddSystem registers a system
func (w *World) AddSystem(s System) {
	w.systems = append(w.systems, s)
	// Sort by priority (simple insertion)
	for i := len(w.systems) - 1; i > 0; i-- {
		if w.systems[i].Priority() < w.systems[i-1].Priority() {
			w.systems[i], w.systems[i-1] = w.systems[i-1], w.systems[i]
		}
	}
}

// Tick runs all systems once, then removes destroyed entities
func (w *World) Tick(dt float64) {
	for _, s := range w.systems {
		s.Update(w, dt)
	}
	w.flush()
	w.TickCount++
}

func (w *World) flush() {
	if len(w.toRemove) == 0 {
		return
	}
	for _, id := range w.toRemove {
		delete(w.entities, id)
	}
	w.toRemove = w.toRemove[:0]

	kept := w.order[:0]
	for _, id := range w.order {
		if _, ok := w.entities[id]; ok {
			kept = append(kept, id)
		}
	}
	w.order = kept

	live := w.Projectiles[:0]
	for _, id := range w.Projectiles {
		if _, ok := w.entities[id]; ok {
			live = append(live, id)
		}
	}
	w.Projectiles = live
}

// EntityCount returns the number of alive entities
func (w *World) EntityCount() int {
	return len(w.entities)
}
