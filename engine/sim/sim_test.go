package sim

import (
	"context"
	"io"
	"testing"

	"github.com/1siamBot/turret-defense/engine/assets"
	"github.com/1siamBot/turret-defense/engine/config"
	"github.com/1siamBot/turret-defense/engine/core"
	"github.com/1siamBot/turret-defense/engine/replay"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

func quiet() *log.Logger { return log.New(io.Discard) }

func run(t *testing.T, cfg config.Config, ticks int) (*Sim, *replay.Recorder) {
	t.Helper()
	s := New(cfg, quiet())
	mm := assets.NewModelManager()
	mm.Log = quiet()
	if err := s.Arm(context.Background(), mm); err != nil {
		t.Fatal(err)
	}
	rec := replay.NewRecorderTo(io.Discard)
	rec.Listen(s.Bus, s.Names)
	for i := 0; i < ticks; i++ {
		s.Tick()
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	return s, rec
}

func TestDefaultScenarioFires(t *testing.T) {
	cfg := config.Default()
	s, rec := run(t, cfg, 60*int(cfg.Loop.TickRate))

	if len(rec.Shots) == 0 {
		t.Fatal("no shots in a minute of play")
	}
	if !s.Wave.Done() {
		t.Error("wave still spawning after a minute")
	}
	seen := make(map[string]bool)
	for _, shot := range rec.Shots {
		seen[shot.Turret] = true
	}
	for _, def := range cfg.Turrets {
		if !seen[def.ID] {
			t.Errorf("turret %s never fired", def.ID)
		}
	}
}

func TestWorkersDoNotChangeOutcome(t *testing.T) {
	cfg := config.Default()
	_, seq := run(t, cfg, 400)

	cfg.Loop.Workers = 4
	_, par := run(t, cfg, 400)

	rp := &replay.Replay{Shots: seq.Shots}
	if i := rp.Compare(par.Shots, 0); i != -1 {
		t.Fatalf("shot %d differs between sequential and parallel runs", i)
	}
}

func TestUnarmedSimNeverFires(t *testing.T) {
	s := New(config.Default(), quiet())
	fired := 0
	s.Bus.On(core.EvtProjectileFired, func(core.Event) { fired++ })
	for i := 0; i < 400; i++ {
		s.Tick()
	}
	if fired != 0 {
		t.Errorf("fired %d shots without muzzles", fired)
	}
}

func TestSpawnHostileIsTargeted(t *testing.T) {
	cfg := config.Default()
	cfg.Wave.Count = 0
	cfg.Turrets = cfg.Turrets[:1]
	s := New(cfg, quiet())

	pos := cfg.Turrets[0].Pos().Add(mgl64.Vec3{3, 0, 0})
	hid := s.SpawnHostile(pos)
	s.Tick()

	m := s.Loop.World.Get(s.Turrets[0], core.CompTurret).(*core.TurretMount)
	if m.Last.Target == nil || m.Last.Target.Position() != pos {
		t.Fatalf("turret not targeting the parked hostile: %+v", m.Last)
	}
	for i := 0; i < 100; i++ {
		s.Tick()
	}
	if !s.Loop.World.Alive(hid) {
		t.Error("parked hostile left the field")
	}
}

func TestFrameRespectsPause(t *testing.T) {
	s := New(config.Default(), quiet())
	s.Frame(0.2)
	if s.Loop.CurrentTick() != 0 {
		t.Fatalf("ticked before play: %d", s.Loop.CurrentTick())
	}
	s.Loop.Play()
	s.Frame(0.21)
	if got := s.Loop.CurrentTick(); got != 4 {
		t.Errorf("ticks = %d, want 4", got)
	}
}
