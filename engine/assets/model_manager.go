// Package assets loads turret and hostile models in the background and
// derives placement data from their bounds
package assets

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/1siamBot/turret-defense/engine/render3d"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Model IDs registered by default
const (
	ModelTurret  = "turret"
	ModelHostile = "hostile"
	ModelBullet  = "bullet"
)

// ErrUnknownModel is returned for IDs with no registered builder
var ErrUnknownModel = errors.New("unknown model")

// Builder produces a mesh for a model ID
type Builder func() *render3d.Mesh3D

// ModelManager builds, caches and releases models. Safe for concurrent use
type ModelManager struct {
	// Latency delays every uncached load, standing in for disk or network
	Latency time.Duration
	Log     *log.Logger

	mu       sync.RWMutex
	builders map[string]Builder
	models   map[string]*Model
	flight   singleflight.Group
}

// NewModelManager returns a manager with the built-in models registered
func NewModelManager() *ModelManager {
	mm := &ModelManager{
		builders: make(map[string]Builder),
		models:   make(map[string]*Model),
	}
	mm.Register(ModelTurret, render3d.MakeTurretModel)
	mm.Register(ModelHostile, render3d.MakeHostileModel)
	mm.Register(ModelBullet, render3d.MakeBulletModel)
	return mm
}

func (mm *ModelManager) logger() *log.Logger {
	if mm.Log != nil {
		return mm.Log
	}
	return log.Default()
}

// Register installs or replaces the builder for id
func (mm *ModelManager) Register(id string, b Builder) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.builders[id] = b
}

// IDs lists the registered model IDs in sorted order
func (mm *ModelManager) IDs() []string {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	ids := make([]string, 0, len(mm.builders))
	for id := range mm.builders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Get returns a cached model
func (mm *ModelManager) Get(id string) (*Model, bool) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	m, ok := mm.models[id]
	return m, ok
}

// Load returns the model for id, building it on first use. Concurrent loads
// of the same id share one build. A caller whose ctx ends stops waiting but
// the build runs on for the others
func (mm *ModelManager) Load(ctx context.Context, id string) (*Model, error) {
	if m, ok := mm.Get(id); ok {
		return m, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "load %q", id)
	}

	ch := mm.flight.DoChan(id, func() (interface{}, error) {
		if m, ok := mm.Get(id); ok {
			return m, nil
		}
		m, err := mm.build(id)
		if err != nil {
			return nil, err
		}
		mm.mu.Lock()
		mm.models[id] = m
		mm.mu.Unlock()
		return m, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Model), nil
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "load %q", id)
	}
}

func (mm *ModelManager) build(id string) (m *Model, err error) {
	mm.mu.RLock()
	b, ok := mm.builders[id]
	mm.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownModel, "load %q", id)
	}

	if mm.Latency > 0 {
		time.Sleep(mm.Latency)
	}

	defer func() {
		if r := recover(); r != nil {
			mm.logger().Warn("model builder panicked, skipping", "model", id, "panic", r)
			err = errors.Errorf("load %q: builder panicked: %v", id, r)
		}
	}()

	mesh := b()
	if mesh == nil || len(mesh.Triangles) == 0 {
		return nil, errors.Errorf("load %q: empty mesh", id)
	}

	m = NewModel(id, mesh)
	mm.logger().Info("model loaded", "model", id,
		"triangles", len(mesh.Triangles),
		"height", fmt.Sprintf("%.2f", m.Height()))
	return m, nil
}

// LoadAsync loads id on its own goroutine and hands the result to done
func (mm *ModelManager) LoadAsync(ctx context.Context, id string, done func(*Model, error)) {
	go func() {
		m, err := mm.Load(ctx, id)
		if err != nil {
			mm.logger().Warn("model load failed", "model", id, "err", err)
		}
		done(m, err)
	}()
}

// Preload loads every id concurrently and returns the first failure
func (mm *ModelManager) Preload(ctx context.Context, ids ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := mm.Load(ctx, id)
			return err
		})
	}
	return errors.Wrap(g.Wait(), "preload")
}

// Cleanup drops every cached model. Builders stay registered
func (mm *ModelManager) Cleanup() {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.models = make(map[string]*Model)
	mm.logger().Debug("all models unloaded")
}
