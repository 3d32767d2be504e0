package grove

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// scriptedInput is an InputSource whose state the test sets directly.
type scriptedInput struct {
	x, y    int
	buttons [mouseButtonCount]bool
	keys    []ebiten.Key
}

func (s *scriptedInput) CursorPosition() (int, int) { return s.x, s.y }

func (s *scriptedInput) MouseButtonPressed(b MouseButton) bool { return s.buttons[b] }

func (s *scriptedInput) AppendPressedKeys(keys []ebiten.Key) []ebiten.Key {
	return append(keys, s.keys...)
}

func bootedInput(t *testing.T, cfg InputConfig, src InputSource) *InputManager {
	t.Helper()
	m := NewInputManager(cfg, src)
	if err := m.Boot(); err != nil {
		t.Fatal(err)
	}
	return m
}

// --- Sampling ---

func TestInputManager_BootTwice(t *testing.T) {
	m := bootedInput(t, InputConfig{}, &scriptedInput{})
	if err := m.Boot(); !errors.Is(err, ErrAlreadyBooted) {
		t.Errorf("Boot = %v, want ErrAlreadyBooted", err)
	}
}

func TestInputManager_UnbootedIgnoresUpdate(t *testing.T) {
	m := NewInputManager(InputConfig{}, &scriptedInput{x: 5})
	m.Update(16, 16)
	if m.Updates() != 0 || m.Pointer().X != 0 {
		t.Error("unbooted manager should not sample")
	}
}

func TestInputManager_PointerTransitions(t *testing.T) {
	src := &scriptedInput{x: 10, y: 20}
	m := bootedInput(t, InputConfig{}, src)

	m.Update(16, 16)
	if p := m.Pointer(); p.X != 10 || p.Y != 20 || p.Down() {
		t.Errorf("idle pointer = %+v", p)
	}

	src.buttons[MouseButtonLeft] = true
	m.Update(33, 17)
	p := m.Pointer()
	if !p.JustDown || p.DownTime != 33 || p.DownX != 10 {
		t.Errorf("press frame = %+v", p)
	}

	src.x = 50
	m.Update(50, 17)
	if p := m.Pointer(); p.JustDown || !p.Down() || p.X != 50 {
		t.Errorf("held frame = %+v", p)
	}

	src.buttons[MouseButtonLeft] = false
	m.Update(66, 16)
	if p := m.Pointer(); !p.JustUp || p.UpTime != 66 {
		t.Errorf("release frame = %+v", p)
	}
	if m.Time() != 66 || m.Updates() != 4 {
		t.Errorf("Time=%v Updates=%d", m.Time(), m.Updates())
	}
}

func TestInputManager_Keys(t *testing.T) {
	src := &scriptedInput{}
	m := bootedInput(t, InputConfig{}, src)

	src.keys = []ebiten.Key{ebiten.KeySpace}
	m.Update(16, 16)
	if !m.KeyDown(ebiten.KeySpace) || !m.KeyJustPressed(ebiten.KeySpace) {
		t.Error("space should be just pressed")
	}

	m.Update(33, 17)
	if !m.KeyDown(ebiten.KeySpace) || m.KeyJustPressed(ebiten.KeySpace) {
		t.Error("space should be held, not just pressed")
	}

	src.keys = nil
	m.Update(50, 17)
	if m.KeyDown(ebiten.KeySpace) || !m.KeyJustReleased(ebiten.KeySpace) {
		t.Error("space should be just released")
	}
}

func TestInputManager_DisabledSources(t *testing.T) {
	src := &scriptedInput{x: 7, keys: []ebiten.Key{ebiten.KeyA}}
	m := bootedInput(t, InputConfig{DisableKeyboard: true, DisableMouse: true}, src)
	m.Update(16, 16)
	if m.KeyDown(ebiten.KeyA) || m.Pointer().X != 0 {
		t.Error("disabled sources should not be sampled")
	}
}

func TestInputManager_SetEnabled(t *testing.T) {
	src := &scriptedInput{x: 3}
	m := bootedInput(t, InputConfig{}, src)
	m.SetEnabled(false)
	m.Update(16, 16)
	if m.Updates() != 0 {
		t.Error("disabled manager should not sample")
	}
	m.SetEnabled(true)
	m.Update(33, 17)
	if m.Pointer().X != 3 {
		t.Errorf("X = %v, want 3", m.Pointer().X)
	}
}

// --- Injection ---

func TestInjectClick(t *testing.T) {
	m := bootedInput(t, InputConfig{}, &scriptedInput{x: 999})
	m.InjectClick(50, 60)
	if m.Injected() != 2 {
		t.Fatalf("expected 2 queued events, got %d", m.Injected())
	}

	// Frame 1: press
	m.Update(16, 16)
	p := m.Pointer()
	if !p.JustDown || p.X != 50 || p.Y != 60 {
		t.Errorf("press frame = %+v", p)
	}
	if m.Injected() != 1 {
		t.Fatalf("expected 1 remaining event, got %d", m.Injected())
	}

	// Frame 2: release
	m.Update(33, 17)
	if p := m.Pointer(); !p.JustUp || p.Down() {
		t.Errorf("release frame = %+v", p)
	}

	// Frame 3: back to the device
	m.Update(50, 17)
	if m.Pointer().X != 999 {
		t.Errorf("X = %v, want device position 999", m.Pointer().X)
	}
}

func TestInjectDrag(t *testing.T) {
	m := bootedInput(t, InputConfig{}, &scriptedInput{})

	// Press, three interpolated moves, release.
	m.InjectDrag(0, 0, 100, 200, 5)
	if m.Injected() != 5 {
		t.Fatalf("expected 5 queued events, got %d", m.Injected())
	}

	var xs []float64
	for range 5 {
		m.Update(0, 16)
		xs = append(xs, m.Pointer().X)
	}
	want := []float64{0, 25, 50, 75, 100}
	for i := range want {
		if xs[i] != want[i] {
			t.Errorf("frame %d X = %v, want %v", i, xs[i], want[i])
		}
	}
	if !m.Pointer().JustUp || m.Pointer().Y != 200 {
		t.Errorf("final frame = %+v", m.Pointer())
	}
}

func TestInjectDrag_MinFrames(t *testing.T) {
	m := bootedInput(t, InputConfig{}, &scriptedInput{})
	m.InjectDrag(0, 0, 10, 10, 0)
	if m.Injected() != 2 {
		t.Errorf("expected 2 events (press+release), got %d", m.Injected())
	}
}

func TestInjectQueueOrder(t *testing.T) {
	m := bootedInput(t, InputConfig{}, &scriptedInput{})
	m.InjectPress(1, 1)
	m.InjectMove(2, 2)
	m.InjectRelease(3, 3)

	for i, want := range []float64{1, 2, 3} {
		m.Update(float64(i), 16)
		if m.Pointer().X != want {
			t.Errorf("event %d X = %v, want %v", i, m.Pointer().X, want)
		}
	}
}
