package systems

import (
	"io"
	"math"
	"testing"

	"github.com/1siamBot/turret-defense/engine/core"
	"github.com/1siamBot/turret-defense/engine/turret"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

const tol = 1e-9

// barrelTip sits one unit in front of its turret and turns with it
type barrelTip struct{ t *turret.Turret }

func (b barrelTip) WorldPosition() mgl64.Vec3 {
	return b.t.Position().Add(b.t.Orientation().Rotate(mgl64.Vec3{0, 0, 1}))
}

func armedTurret(pos mgl64.Vec3, cfg turret.Config) *turret.Turret {
	t := turret.New(pos, cfg)
	t.ResolveMuzzle(barrelTip{t})
	return t
}

func newWorld(bus *core.EventBus, workers int, factory ProjectileFactory) *core.World {
	w := core.NewWorld(20)
	w.AddSystem(&TurretSystem{EventBus: bus, Factory: factory, Workers: workers, Log: log.New(io.Discard)})
	w.AddSystem(&ProjectileSystem{EventBus: bus})
	return w
}

func placeHostile(w *core.World, pos mgl64.Vec3) core.EntityID {
	return ParkHostile(w, "drone", pos)
}

func record(bus *core.EventBus, types ...core.EventType) *[]core.Event {
	var got []core.Event
	for _, et := range types {
		bus.On(et, func(e core.Event) { got = append(got, e) })
	}
	return &got
}

func count(events []core.Event, et core.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == et {
			n++
		}
	}
	return n
}

func TestTurretSystemFiresAtHostileAhead(t *testing.T) {
	bus := core.NewEventBus()
	events := record(bus, core.EvtProjectileFired, core.EvtTargetAcquired, core.EvtMuzzleResolved)
	w := newWorld(bus, 1, nil)

	tr := armedTurret(mgl64.Vec3{}, turret.DefaultConfig())
	tid := SpawnTurret(w, tr, "turret")
	hid := placeHostile(w, mgl64.Vec3{0, 0, 10})

	w.Tick(0.5)
	bus.Dispatch()

	if len(w.Projectiles) != 1 {
		t.Fatalf("projectiles = %d, want 1", len(w.Projectiles))
	}
	if !floatNear(tr.Cooldown(), 0.5, tol) {
		t.Errorf("cooldown = %v, want 0.5", tr.Cooldown())
	}

	p := w.Get(w.Projectiles[0], core.CompProjectile).(*core.Projectile)
	if p.SourceID != tid {
		t.Errorf("source = %v, want %v", p.SourceID, tid)
	}
	if !vecNear(p.Direction, mgl64.Vec3{0, 0, 1}, tol) {
		t.Errorf("direction = %v", p.Direction)
	}

	if n := count(*events, core.EvtProjectileFired); n != 1 {
		t.Errorf("fired events = %d", n)
	}
	if n := count(*events, core.EvtMuzzleResolved); n != 1 {
		t.Errorf("muzzle events = %d", n)
	}
	for _, e := range *events {
		if e.Type == core.EvtTargetAcquired && e.Target != hid {
			t.Errorf("acquired %v, want %v", e.Target, hid)
		}
	}

	m := w.Get(tid, core.CompTurret).(*core.TurretMount)
	if m.Last.State != turret.Aligned {
		t.Errorf("state = %v", m.Last.State)
	}
}

func TestTurretSystemOutOfRange(t *testing.T) {
	w := newWorld(nil, 1, nil)
	cfg := turret.DefaultConfig()
	cfg.Range = 5
	tr := armedTurret(mgl64.Vec3{}, cfg)
	SpawnTurret(w, tr, "turret")
	placeHostile(w, mgl64.Vec3{0, 0, 10})

	w.Tick(0.5)
	if len(w.Projectiles) != 0 {
		t.Fatalf("fired at a hostile out of range")
	}
	if tr.State() != turret.Idle {
		t.Errorf("state = %v, want IDLE", tr.State())
	}
}

func TestTurretSystemTracksAndSyncsTransform(t *testing.T) {
	w := newWorld(nil, 1, nil)
	tr := armedTurret(mgl64.Vec3{}, turret.DefaultConfig())
	tid := SpawnTurret(w, tr, "turret")
	placeHostile(w, mgl64.Vec3{10, 0, 0})

	w.Tick(0.1)
	if tr.State() != turret.Tracking {
		t.Fatalf("state = %v, want TRACKING", tr.State())
	}
	if len(w.Projectiles) != 0 {
		t.Error("fired while misaligned")
	}
	tf := w.Get(tid, core.CompTransform).(*core.Transform)
	if tf.Rot != tr.Orientation() {
		t.Errorf("transform rot %v, turret %v", tf.Rot, tr.Orientation())
	}
}

func TestTurretSystemTargetLost(t *testing.T) {
	bus := core.NewEventBus()
	events := record(bus, core.EvtTargetAcquired, core.EvtTargetLost)
	w := newWorld(bus, 1, nil)
	SpawnTurret(w, armedTurret(mgl64.Vec3{}, turret.DefaultConfig()), "turret")
	hid := placeHostile(w, mgl64.Vec3{0, 0, 10})

	w.Tick(0.1)
	w.Destroy(hid)
	w.Tick(0.1)
	bus.Dispatch()

	if len(*events) != 2 || (*events)[0].Type != core.EvtTargetAcquired || (*events)[1].Type != core.EvtTargetLost {
		t.Fatalf("events = %v", *events)
	}
}

func TestTurretSystemIgnoresEscapedHostiles(t *testing.T) {
	w := newWorld(nil, 1, nil)
	tr := armedTurret(mgl64.Vec3{}, turret.DefaultConfig())
	SpawnTurret(w, tr, "turret")
	hid := placeHostile(w, mgl64.Vec3{0, 0, 10})
	w.Get(hid, core.CompHostile).(*core.Hostile).Escaped = true

	w.Tick(0.5)
	if tr.State() != turret.Idle || len(w.Projectiles) != 0 {
		t.Errorf("state %v, projectiles %d", tr.State(), len(w.Projectiles))
	}
}

func TestTurretSystemUnarmedNeverFires(t *testing.T) {
	bus := core.NewEventBus()
	events := record(bus, core.EvtProjectileFired, core.EvtMuzzleResolved)
	w := newWorld(bus, 1, nil)
	SpawnTurret(w, turret.New(mgl64.Vec3{}, turret.DefaultConfig()), "turret")
	placeHostile(w, mgl64.Vec3{0, 0, 10})

	for i := 0; i < 10; i++ {
		w.Tick(0.5)
	}
	bus.Dispatch()
	if len(w.Projectiles) != 0 || len(*events) != 0 {
		t.Errorf("projectiles %d, events %v", len(w.Projectiles), *events)
	}
}

func TestProjectileFliesAndExpires(t *testing.T) {
	bus := core.NewEventBus()
	events := record(bus, core.EvtProjectileExpired)
	w := newWorld(bus, 1, BulletFactory{Speed: 10, TTL: 1})

	cfg := turret.DefaultConfig()
	cfg.FireRate = 0.1
	tr := armedTurret(mgl64.Vec3{}, cfg)
	SpawnTurret(w, tr, "turret")
	placeHostile(w, mgl64.Vec3{0, 0, 10})

	w.Tick(0.5)
	if len(w.Projectiles) != 1 {
		t.Fatalf("projectiles = %d", len(w.Projectiles))
	}
	pid := w.Projectiles[0]
	tf := w.Get(pid, core.CompTransform).(*core.Transform)
	if want := (mgl64.Vec3{0, 0, 6}); !vecNear(tf.Pos, want, tol) {
		t.Errorf("position = %v, want %v", tf.Pos, want)
	}

	w.Tick(0.5)
	bus.Dispatch()
	if len(w.Projectiles) != 0 || w.Alive(pid) {
		t.Errorf("projectile not expired: %v", w.Projectiles)
	}
	if len(*events) != 1 || (*events)[0].Target != pid {
		t.Errorf("expired events = %v", *events)
	}
}

func TestBulletFactoryNormalizes(t *testing.T) {
	w := core.NewWorld(20)
	id := BulletFactory{Speed: 1, TTL: 1}.Create(w, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 0, 5})
	p := w.Get(id, core.CompProjectile).(*core.Projectile)
	if !vecNear(p.Direction, mgl64.Vec3{0, 0, 1}, tol) {
		t.Errorf("direction = %v", p.Direction)
	}
	if pos := w.Get(id, core.CompTransform).(*core.Transform).Pos; pos != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("position = %v", pos)
	}
}

type firedShot struct {
	turret    int
	origin    mgl64.Vec3
	direction mgl64.Vec3
}

// runRing simulates eight turrets around a hostile lane and a few parked
// hostiles and returns every shot in fire order
func runRing(workers int) []firedShot {
	bus := core.NewEventBus()
	w := newWorld(bus, workers, nil)
	w.AddSystem(&HostileSystem{EventBus: bus})
	w.AddSystem(&WaveSpawner{
		EventBus: bus,
		Kind:     "drone",
		Speed:    3,
		Path:     []mgl64.Vec3{{-30, 0, -5}, {30, 0, -5}, {30, 0, 5}, {-30, 0, 5}},
		Interval: 1.5,
		Count:    6,
	})

	index := make(map[core.EntityID]int)
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		cfg := turret.Config{FireRate: 1 + float64(i%3), Range: 12, TurnSpeed: 1.5}
		id := SpawnTurret(w, armedTurret(mgl64.Vec3{8 * math.Cos(a), 0, 8 * math.Sin(a)}, cfg), "turret")
		index[id] = i
	}
	for _, p := range []mgl64.Vec3{{0, 0, 0}, {14, 0, 3}, {-9, 0, -12}} {
		placeHostile(w, p)
	}

	var shots []firedShot
	bus.On(core.EvtProjectileFired, func(e core.Event) {
		s := e.Payload.(turret.Shot)
		shots = append(shots, firedShot{turret: index[e.Source], origin: s.Origin, direction: s.Direction})
	})

	for tick := 0; tick < 600; tick++ {
		w.Tick(0.05)
		bus.Dispatch()
	}
	return shots
}

func TestParallelMatchesSequential(t *testing.T) {
	seq := runRing(1)
	if len(seq) == 0 {
		t.Fatal("no shots fired")
	}
	for _, workers := range []int{2, 4, 16} {
		par := runRing(workers)
		if len(par) != len(seq) {
			t.Fatalf("workers=%d: %d shots, sequential %d", workers, len(par), len(seq))
		}
		for i := range seq {
			a, b := seq[i], par[i]
			if a.turret != b.turret || a.origin != b.origin || a.direction != b.direction {
				t.Fatalf("workers=%d: shot %d differs: %+v vs %+v", workers, i, a, b)
			}
		}
	}
}

func TestHostileWalksPathAndEscapes(t *testing.T) {
	bus := core.NewEventBus()
	events := record(bus, core.EvtHostileEscaped)
	w := core.NewWorld(20)
	w.AddSystem(&HostileSystem{EventBus: bus})

	id := SpawnHostile(w, "drone", 1, []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}})

	w.Tick(0.5)
	tf := w.Get(id, core.CompTransform).(*core.Transform)
	if !vecNear(tf.Pos, mgl64.Vec3{0.5, 0, 0}, tol) {
		t.Errorf("position = %v", tf.Pos)
	}
	if fwd := tf.Rot.Rotate(mgl64.Vec3{0, 0, 1}); !vecNear(fwd, mgl64.Vec3{1, 0, 0}, tol) {
		t.Errorf("facing = %v", fwd)
	}

	w.Tick(0.5)
	bus.Dispatch()
	if w.Alive(id) {
		t.Error("hostile still alive at path end")
	}
	if len(*events) != 1 || (*events)[0].Source != id {
		t.Errorf("escaped events = %v", *events)
	}
}

func TestHostileCarriesOverWaypoints(t *testing.T) {
	w := core.NewWorld(20)
	w.AddSystem(&HostileSystem{})
	id := SpawnHostile(w, "drone", 2, []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 5}})

	w.Tick(1)
	tf := w.Get(id, core.CompTransform).(*core.Transform)
	if !vecNear(tf.Pos, mgl64.Vec3{1, 0, 1}, tol) {
		t.Errorf("position = %v, want turned the corner to (1, 0, 1)", tf.Pos)
	}
}

func TestWaveSpawner(t *testing.T) {
	bus := core.NewEventBus()
	events := record(bus, core.EvtHostileSpawned)
	w := core.NewWorld(20)
	ws := &WaveSpawner{EventBus: bus, Kind: "drone", Speed: 1, Path: []mgl64.Vec3{{5, 0, 5}}, Interval: 1, Count: 3}
	w.AddSystem(ws)

	want := []int{1, 2, 2, 3, 3}
	for i, n := range want {
		w.Tick(0.5)
		if got := len(w.Query(core.CompHostile)); got != n {
			t.Fatalf("tick %d: %d hostiles, want %d", i+1, got, n)
		}
	}
	if !ws.Done() {
		t.Error("wave not done")
	}
	bus.Dispatch()
	if len(*events) != 3 {
		t.Errorf("spawn events = %d", len(*events))
	}
	for _, id := range w.Query(core.CompTransform, core.CompHostile) {
		if pos := w.Get(id, core.CompTransform).(*core.Transform).Pos; pos != (mgl64.Vec3{5, 0, 5}) {
			t.Errorf("spawned at %v", pos)
		}
	}
}

func TestWaveSpawnerEndless(t *testing.T) {
	w := core.NewWorld(20)
	ws := &WaveSpawner{Path: []mgl64.Vec3{{}}, Interval: 0, Count: -1}
	w.AddSystem(ws)
	for i := 0; i < 5; i++ {
		w.Tick(0.1)
	}
	if got := len(w.Query(core.CompHostile)); got != 5 {
		t.Errorf("hostiles = %d, want one per tick", got)
	}
	if ws.Done() {
		t.Error("endless wave reported done")
	}
}

// vecNear compares by absolute distance, which stays meaningful when a
// component is zero
func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() < tol
}

func floatNear(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}
