// Package input samples mouse and keyboard state once per frame and turns it
// into demo commands
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputState tracks mouse and keyboard state per frame
type InputState struct {
	// Mouse
	MouseX, MouseY    int
	MouseDX, MouseDY  int // delta since last frame
	prevMouseX        int
	prevMouseY        int
	LeftPressed       bool
	RightPressed      bool
	LeftJustPressed   bool
	RightJustPressed  bool
	LeftJustReleased  bool
	RightJustReleased bool
	ScrollY           float64

	// Drag
	DragStartX, DragStartY int
	Dragging               bool
	DragThreshold          int

	// Keyboard
	KeysPressed     map[ebiten.Key]bool
	KeysJustPressed map[ebiten.Key]bool
}

// watchedKeys are the keys the demo binds
var watchedKeys = []ebiten.Key{
	ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
	ebiten.KeyUp, ebiten.KeyDown, ebiten.KeyLeft, ebiten.KeyRight,
	ebiten.KeySpace, ebiten.KeyEscape,
	ebiten.KeyEqual, ebiten.KeyMinus,
	ebiten.KeyH, ebiten.KeyR,
}

func NewInputState() *InputState {
	return &InputState{
		DragThreshold:   5,
		KeysPressed:     make(map[ebiten.Key]bool),
		KeysJustPressed: make(map[ebiten.Key]bool),
	}
}

// Update should be called every frame
func (s *InputState) Update() {
	x, y := ebiten.CursorPosition()
	_, scrollY := ebiten.Wheel()
	s.apply(x, y, scrollY,
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight))

	s.LeftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	s.RightJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	s.LeftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	s.RightJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight)
	if s.LeftJustPressed {
		s.DragStartX, s.DragStartY = x, y
		s.Dragging = false
	}

	for _, k := range watchedKeys {
		s.KeysPressed[k] = ebiten.IsKeyPressed(k)
		s.KeysJustPressed[k] = inpututil.IsKeyJustPressed(k)
	}
}

// apply records the raw cursor and buttons and updates drag tracking
func (s *InputState) apply(x, y int, scrollY float64, leftDown, rightDown bool) {
	s.prevMouseX, s.prevMouseY = s.MouseX, s.MouseY
	s.MouseX, s.MouseY = x, y
	s.MouseDX = s.MouseX - s.prevMouseX
	s.MouseDY = s.MouseY - s.prevMouseY
	s.LeftPressed = leftDown
	s.RightPressed = rightDown
	s.ScrollY = scrollY

	if leftDown && !s.Dragging {
		dx := s.MouseX - s.DragStartX
		dy := s.MouseY - s.DragStartY
		if dx*dx+dy*dy > s.DragThreshold*s.DragThreshold {
			s.Dragging = true
		}
	}
	if !leftDown {
		s.Dragging = false
	}
}

// Commands is what the demo should do this frame
type Commands struct {
	PanX, PanZ  float64 // camera pan direction, each in [-1, 1]
	DragX       int     // mouse drag pan in pixels
	DragY       int
	Zoom        float64 // wheel steps, positive zooms in
	TogglePause bool
	SpeedUp     bool
	SlowDown    bool
	ToggleHUD   bool
	Reset       bool
	Quit        bool

	// SpawnClick and PlaceClick carry the cursor when the left or right
	// button was clicked without dragging
	SpawnClick, PlaceClick bool
	ClickX, ClickY         int
}

// Commands maps the sampled state to demo actions
func (s *InputState) Commands() Commands {
	var c Commands
	down := func(keys ...ebiten.Key) bool {
		for _, k := range keys {
			if s.KeysPressed[k] {
				return true
			}
		}
		return false
	}
	if down(ebiten.KeyA, ebiten.KeyLeft) {
		c.PanX--
	}
	if down(ebiten.KeyD, ebiten.KeyRight) {
		c.PanX++
	}
	if down(ebiten.KeyW, ebiten.KeyUp) {
		c.PanZ--
	}
	if down(ebiten.KeyS, ebiten.KeyDown) {
		c.PanZ++
	}
	if s.Dragging {
		c.DragX, c.DragY = s.MouseDX, s.MouseDY
	}
	c.Zoom = s.ScrollY

	c.TogglePause = s.KeysJustPressed[ebiten.KeySpace]
	c.SpeedUp = s.KeysJustPressed[ebiten.KeyEqual]
	c.SlowDown = s.KeysJustPressed[ebiten.KeyMinus]
	c.ToggleHUD = s.KeysJustPressed[ebiten.KeyH]
	c.Reset = s.KeysJustPressed[ebiten.KeyR]
	c.Quit = s.KeysJustPressed[ebiten.KeyEscape]

	c.ClickX, c.ClickY = s.MouseX, s.MouseY
	c.SpawnClick = s.LeftJustReleased && !s.wasDrag()
	c.PlaceClick = s.RightJustPressed
	return c
}

// wasDrag reports whether the button release ended a drag
func (s *InputState) wasDrag() bool {
	dx := s.MouseX - s.DragStartX
	dy := s.MouseY - s.DragStartY
	return dx*dx+dy*dy > s.DragThreshold*s.DragThreshold
}

// DragRect returns the drag rectangle if dragging
func (s *InputState) DragRect() (x1, y1, x2, y2 int, active bool) {
	if !s.Dragging {
		return 0, 0, 0, 0, false
	}
	return s.DragStartX, s.DragStartY, s.MouseX, s.MouseY, true
}
