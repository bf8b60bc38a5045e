package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/1siamBot/turret-defense/engine/assets"
	"github.com/1siamBot/turret-defense/engine/audio"
	"github.com/1siamBot/turret-defense/engine/config"
	"github.com/1siamBot/turret-defense/engine/core"
	"github.com/1siamBot/turret-defense/engine/input"
	"github.com/1siamBot/turret-defense/engine/render3d"
	"github.com/1siamBot/turret-defense/engine/sim"
	"github.com/1siamBot/turret-defense/engine/turret"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
	PanSpeed     = 600.0 // pixels per second
)

var (
	hudFace = text.NewGoXFace(basicfont.Face7x13)

	rangeColor   = color.RGBA{80, 160, 255, 50}
	aimColor     = color.RGBA{255, 220, 80, 160}
	trackColor   = color.RGBA{255, 120, 60, 120}
	pathColor    = color.RGBA{255, 80, 80, 90}
	unarmedColor = color.RGBA{200, 200, 200, 120}
)

// Game implements ebiten.Game interface
type Game struct {
	cfg      config.Config
	sim      *sim.Sim
	models   *assets.ModelManager
	renderer *render3d.Renderer3D
	fx       *render3d.ParticleSystem
	sound    *audio.AudioManager
	input    *input.InputState
	log      *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	showHUD bool
	lastLog []string
	quit    bool
}

func NewGame(cfg config.Config, latency time.Duration, logger *log.Logger) *Game {
	g := &Game{
		cfg:      cfg,
		renderer: render3d.NewRenderer3D(ScreenWidth, ScreenHeight),
		fx:       render3d.NewParticleSystem(),
		sound:    audio.NewAudioManager(audio.SampleRate),
		input:    input.NewInputState(),
		log:      logger,
		showHUD:  true,
	}
	g.models = assets.NewModelManager()
	g.models.Latency = latency
	g.models.Log = logger
	g.renderer.Camera.CenterOn(0, 10)
	g.renderer.Camera.Zoom = 90
	g.reset()
	return g
}

// reset rebuilds the scenario. Models already loaded stay cached, so turrets
// placed after the first load arm almost at once
func (g *Game) reset() {
	if g.cancel != nil {
		g.cancel()
	}
	g.ctx, g.cancel = context.WithCancel(context.Background())

	g.sim = sim.New(g.cfg, g.log)
	g.sim.ArmAsync(g.ctx, g.models)
	go func() {
		if err := g.models.Preload(g.ctx, assets.ModelHostile, assets.ModelBullet); err != nil {
			g.log.Warn("preload failed", "err", err)
		}
	}()

	g.lastLog = nil
	note := func(format string) core.EventHandler {
		return func(e core.Event) {
			g.note(fmt.Sprintf(format, g.sim.Names[e.Source]))
		}
	}
	g.sim.Bus.On(core.EvtMuzzleResolved, note("%s armed"))
	g.sim.Bus.On(core.EvtTargetAcquired, note("%s acquired a target"))
	g.sim.Bus.On(core.EvtTargetLost, note("%s lost its target"))
	g.sim.Bus.On(core.EvtHostileEscaped, func(e core.Event) {
		g.note("a hostile escaped")
		if pos, ok := e.Payload.(mgl64.Vec3); ok {
			g.fx.AddBurst(pos, render3d.HostileRed, 12)
			g.sound.PlaySFX(audio.SndEscape, pos)
		}
	})
	g.sim.Bus.On(core.EvtProjectileFired, func(e core.Event) {
		if shot, ok := e.Payload.(turret.Shot); ok {
			g.fx.AddMuzzleFlash(shot.Origin, shot.Direction)
			g.sound.PlaySFX(audio.SndShot, shot.Origin)
		}
	})
	g.sim.Bus.On(core.EvtProjectileExpired, func(e core.Event) {
		if pos, ok := e.Payload.(mgl64.Vec3); ok {
			g.fx.AddBurst(pos, render3d.BulletYellow, 6)
		}
	})
	g.sim.Bus.On(core.EvtMuzzleResolved, func(e core.Event) {
		g.sound.PlaySFX(audio.SndArmed, g.sim.Turret(e.Source).Position())
	})
	g.sim.Loop.Play()
}

func (g *Game) note(msg string) {
	g.lastLog = append(g.lastLog, msg)
	if len(g.lastLog) > 6 {
		g.lastLog = g.lastLog[len(g.lastLog)-6:]
	}
}

func (g *Game) Update() error {
	g.input.Update()
	cmd := g.input.Commands()
	if cmd.Quit {
		g.quit = true
	}
	if g.quit {
		g.cancel()
		return ebiten.Termination
	}

	g.handleCamera(cmd)

	if cmd.ToggleHUD {
		g.showHUD = !g.showHUD
	}
	if cmd.Reset {
		g.reset()
	}
	loop := g.sim.Loop
	if cmd.TogglePause {
		if loop.State == core.StatePlaying {
			loop.Pause()
		} else {
			loop.Play()
		}
	}
	if cmd.SpeedUp {
		loop.Speed = mgl64.Clamp(loop.Speed*2, 0.125, 8)
	}
	if cmd.SlowDown {
		loop.Speed = mgl64.Clamp(loop.Speed/2, 0.125, 8)
	}

	if cmd.SpawnClick {
		g.sim.SpawnHostile(g.renderer.Camera.ScreenToGround(cmd.ClickX, cmd.ClickY))
	}
	if cmd.PlaceClick {
		g.placeTurret(g.renderer.Camera.ScreenToGround(cmd.ClickX, cmd.ClickY))
	}

	// Game simulation tick
	frame := 1.0 / float64(ebiten.TPS())
	g.sim.Frame(frame)
	if loop.State == core.StatePlaying {
		g.fx.Update(frame * loop.Speed)
	}
	g.sound.Listener = g.renderer.Camera.Target
	g.sound.Update()
	return nil
}

func (g *Game) placeTurret(pos mgl64.Vec3) {
	base := turret.DefaultConfig()
	def := config.TurretDef{
		ID:        fmt.Sprintf("t%d", len(g.sim.Turrets)+1),
		Position:  pos,
		FireRate:  base.FireRate,
		Range:     25,
		TurnSpeed: base.TurnSpeed,
		Model:     assets.ModelTurret,
	}
	id := g.sim.AddTurret(def)
	g.models.ArmWhenLoaded(g.ctx, g.sim.Turret(id), def.Model, nil)
	g.log.Info("turret placed", "turret", def.ID, "x", pos[0], "z", pos[2])
}

func (g *Game) handleCamera(cmd input.Commands) {
	cam := g.renderer.Camera
	step := PanSpeed / float64(ebiten.TPS())
	if cmd.PanX != 0 || cmd.PanZ != 0 {
		cam.Pan(cmd.PanX*step, cmd.PanZ*step)
	}
	if cmd.DragX != 0 || cmd.DragY != 0 {
		cam.Pan(float64(-cmd.DragX), float64(-cmd.DragY))
	}
	if cmd.Zoom != 0 {
		cam.ZoomBy(cmd.Zoom)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 22, 30, 255})
	r := g.renderer
	w := g.sim.Loop.World

	r.DrawGrid(screen, 60, 5)
	path := g.cfg.Wave.Waypoints()
	for i := 1; i < len(path); i++ {
		r.DrawLine(screen, path[i-1], path[i], 3, pathColor)
	}

	hostileModel, _ := g.models.Get(assets.ModelHostile)
	for _, id := range g.sim.Hostiles() {
		tf := w.Get(id, core.CompTransform).(*core.Transform)
		if hostileModel != nil {
			r.DrawMesh(screen, hostileModel.Mesh, tf.Matrix())
		} else {
			r.DrawRing(screen, tf.Pos, 0.5, rgba(render3d.HostileRed))
		}
	}

	for _, id := range g.sim.Turrets {
		g.drawTurret(screen, id)
	}

	bulletModel, _ := g.models.Get(assets.ModelBullet)
	for _, id := range w.Projectiles {
		tf, ok := w.Get(id, core.CompTransform).(*core.Transform)
		if !ok {
			continue
		}
		if bulletModel != nil {
			r.DrawMesh(screen, bulletModel.Mesh, mgl64.Translate3D(tf.Pos[0], tf.Pos[1]-bulletModel.Lift, tf.Pos[2]))
		} else {
			p := w.Get(id, core.CompProjectile).(*core.Projectile)
			r.DrawLine(screen, tf.Pos, tf.Pos.Sub(p.Direction.Mul(0.6)), 2, aimColor)
		}
	}

	r.DrawMesh(screen, g.fx.Mesh(), mgl64.Ident4())

	if x1, y1, x2, y2, active := g.input.DragRect(); active {
		a := r.Camera.ScreenToGround(x1, y1)
		b := r.Camera.ScreenToGround(x2, y2)
		r.DrawLine(screen, a, b, 1, unarmedColor)
	}

	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) drawTurret(screen *ebiten.Image, id core.EntityID) {
	r := g.renderer
	w := g.sim.Loop.World
	m := w.Get(id, core.CompTurret).(*core.TurretMount)
	tf := w.Get(id, core.CompTransform).(*core.Transform)
	t := m.Turret

	r.DrawRing(screen, t.Position(), t.Config().Range, rangeColor)
	if model, ok := g.models.Get(m.ModelID); ok {
		r.DrawMesh(screen, model.Mesh, tf.Matrix())
	} else {
		r.DrawRing(screen, t.Position(), 0.6, unarmedColor)
	}

	if m.Last.Target == nil {
		return
	}
	from := t.Position().Add(mgl64.Vec3{0, 0.5, 0})
	if mz := t.Muzzle(); mz != nil {
		from = mz.WorldPosition()
	}
	c := trackColor
	if m.Last.State == turret.Aligned {
		c = aimColor
	}
	r.DrawLine(screen, from, m.Last.Target.Position(), 1, c)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	loop := g.sim.Loop
	armed := 0
	for _, id := range g.sim.Turrets {
		if g.sim.Turret(id).Ready() {
			armed++
		}
	}
	lines := []string{
		fmt.Sprintf("Turret Defense | FPS: %.0f | Tick: %d | %s x%.2g",
			ebiten.ActualFPS(), loop.CurrentTick(), loop.State, loop.Speed),
		fmt.Sprintf("Turrets: %d (%d armed) | Hostiles: %d | Projectiles: %d | Wave left: %d",
			len(g.sim.Turrets), armed, len(g.sim.Hostiles()), len(loop.World.Projectiles), g.sim.Wave.Count),
		"[WASD] Pan [Scroll] Zoom [LClick] Hostile [RClick] Turret [Space] Pause [+/-] Speed [R] Reset [H] HUD",
		"",
	}
	for _, id := range g.sim.Turrets {
		t := g.sim.Turret(id)
		m := loop.World.Get(id, core.CompTurret).(*core.TurretMount)
		blocked := ""
		if m.Last.Blocked != turret.ReasonNone {
			blocked = " (" + m.Last.Blocked.String() + ")"
		}
		lines = append(lines, fmt.Sprintf("%-6s %-8s cooldown %.2f angle %.3f%s",
			g.sim.Names[id], t.State(), t.Cooldown(), m.Last.Angle, blocked))
	}
	lines = append(lines, "")
	lines = append(lines, g.lastLog...)

	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.LineSpacing = 15
	op.ColorScale.ScaleWithColor(color.RGBA{230, 230, 230, 255})
	text.Draw(screen, strings.Join(lines, "\n"), hudFace, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func rgba(c render3d.Color3) color.RGBA {
	return color.RGBA{uint8(c.R * 255), uint8(c.G * 255), uint8(c.B * 255), 200}
}

func main() {
	configPath := flag.String("config", "", "scenario JSON file (built-in scenario if empty)")
	latency := flag.Duration("latency", 1500*time.Millisecond, "simulated model load time")
	level := flag.String("log", "info", "log level")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "game"})
	if lvl, err := log.ParseLevel(*level); err == nil {
		logger.SetLevel(lvl)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			logger.Fatal("config", "err", err)
		}
	}

	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("Turret Defense")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)

	game := NewGame(cfg, *latency, logger)

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("game", "err", err)
	}
}
