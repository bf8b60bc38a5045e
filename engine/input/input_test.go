package input

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestDragStartsPastThreshold(t *testing.T) {
	s := NewInputState()
	s.DragStartX, s.DragStartY = 100, 100
	s.apply(100, 100, 0, true, false)

	s.apply(103, 103, 0, true, false)
	if s.Dragging {
		t.Fatal("dragging inside the threshold")
	}
	s.apply(110, 100, 0, true, false)
	if !s.Dragging {
		t.Fatal("not dragging past the threshold")
	}
	if x1, y1, x2, y2, ok := s.DragRect(); !ok || x1 != 100 || y1 != 100 || x2 != 110 || y2 != 100 {
		t.Errorf("drag rect = %d,%d %d,%d %v", x1, y1, x2, y2, ok)
	}
	if c := s.Commands(); c.DragX != 7 || c.DragY != -3 {
		t.Errorf("drag = %d,%d", c.DragX, c.DragY)
	}

	s.apply(110, 100, 0, false, false)
	if s.Dragging {
		t.Error("still dragging after release")
	}
}

func TestCommands(t *testing.T) {
	s := NewInputState()
	s.KeysPressed[ebiten.KeyA] = true
	s.KeysPressed[ebiten.KeyDown] = true
	s.KeysJustPressed[ebiten.KeySpace] = true
	s.apply(40, 50, 2, false, false)
	s.DragStartX, s.DragStartY = 41, 50
	s.LeftJustReleased = true

	c := s.Commands()
	if c.PanX != -1 || c.PanZ != 1 {
		t.Errorf("pan = %v,%v", c.PanX, c.PanZ)
	}
	if c.Zoom != 2 || !c.TogglePause || c.Quit {
		t.Errorf("commands = %+v", c)
	}
	if !c.SpawnClick || c.ClickX != 40 || c.ClickY != 50 {
		t.Errorf("click = %v at %d,%d", c.SpawnClick, c.ClickX, c.ClickY)
	}

	s.DragStartX = 0
	if s.Commands().SpawnClick {
		t.Error("release after a drag counted as a click")
	}
}
