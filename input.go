package grove

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)

	mouseButtonCount
)

func (b MouseButton) ebiten() ebiten.MouseButton {
	switch b {
	case MouseButtonRight:
		return ebiten.MouseButtonRight
	case MouseButtonMiddle:
		return ebiten.MouseButtonMiddle
	default:
		return ebiten.MouseButtonLeft
	}
}

// InputSource reads raw device state. The default source reads ebiten; tests
// and headless runs substitute their own.
type InputSource interface {
	CursorPosition() (x, y int)
	MouseButtonPressed(b MouseButton) bool
	AppendPressedKeys(keys []ebiten.Key) []ebiten.Key
}

type ebitenSource struct{}

func (ebitenSource) CursorPosition() (int, int) { return ebiten.CursorPosition() }

func (ebitenSource) MouseButtonPressed(b MouseButton) bool {
	return ebiten.IsMouseButtonPressed(b.ebiten())
}

func (ebitenSource) AppendPressedKeys(keys []ebiten.Key) []ebiten.Key {
	return inpututil.AppendPressedKeys(keys)
}

// EbitenInput returns the InputSource backed by ebiten's global input state.
func EbitenInput() InputSource { return ebitenSource{} }

// InputSystem is sampled once per frame before any scene updates.
type InputSystem interface {
	Boot() error
	Update(time, delta float64)
}

// Pointer is the sampled state of the primary pointer.
type Pointer struct {
	X, Y     float64
	Buttons  [mouseButtonCount]bool
	JustDown bool    // a button went down this frame
	JustUp   bool    // all buttons were released this frame
	DownX    float64 // position of the last press
	DownY    float64
	DownTime float64 // frame time of the last press
	UpTime   float64 // frame time of the last release
}

// Down reports whether any button is held.
func (p Pointer) Down() bool {
	for _, b := range p.Buttons {
		if b {
			return true
		}
	}
	return false
}

// syntheticPointerEvent is a queued pointer event consumed by one Update.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
	button  MouseButton
}

// InputManager samples keyboard and pointer state once per frame. Injected
// pointer events take precedence over the device for the frame they are
// consumed in.
type InputManager struct {
	cfg     InputConfig
	source  InputSource
	booted  bool
	enabled bool

	pointer  Pointer
	keys     []ebiten.Key
	prevKeys []ebiten.Key

	injectQueue []syntheticPointerEvent

	time    float64
	updates uint64
}

// NewInputManager creates an unbooted manager reading from source. A nil
// source reads ebiten.
func NewInputManager(cfg InputConfig, source InputSource) *InputManager {
	if source == nil {
		source = ebitenSource{}
	}
	return &InputManager{cfg: cfg, source: source}
}

// Boot enables sampling. It may only be called once.
func (m *InputManager) Boot() error {
	if m.booted {
		return ErrAlreadyBooted
	}
	m.booted = true
	m.enabled = true
	return nil
}

// SetEnabled toggles sampling. A disabled manager keeps its last state.
func (m *InputManager) SetEnabled(enabled bool) { m.enabled = enabled }

// Update samples input for the frame at time.
func (m *InputManager) Update(time, delta float64) {
	if !m.booted || !m.enabled {
		return
	}
	m.time = time
	m.updates++

	wasDown := m.pointer.Down()
	m.pointer.JustDown = false
	m.pointer.JustUp = false

	if !m.consumeInjected() && !m.cfg.DisableMouse {
		x, y := m.source.CursorPosition()
		m.pointer.X, m.pointer.Y = float64(x), float64(y)
		for b := MouseButton(0); b < mouseButtonCount; b++ {
			m.pointer.Buttons[b] = m.source.MouseButtonPressed(b)
		}
	}

	isDown := m.pointer.Down()
	if isDown && !wasDown {
		m.pointer.JustDown = true
		m.pointer.DownX, m.pointer.DownY = m.pointer.X, m.pointer.Y
		m.pointer.DownTime = time
	} else if !isDown && wasDown {
		m.pointer.JustUp = true
		m.pointer.UpTime = time
	}

	m.prevKeys = append(m.prevKeys[:0], m.keys...)
	m.keys = m.keys[:0]
	if !m.cfg.DisableKeyboard {
		m.keys = m.source.AppendPressedKeys(m.keys)
	}
}

// consumeInjected pops one synthetic event and applies it to the pointer.
// Returns true if an event was consumed.
func (m *InputManager) consumeInjected() bool {
	if len(m.injectQueue) == 0 {
		return false
	}
	evt := m.injectQueue[0]
	copy(m.injectQueue, m.injectQueue[1:])
	m.injectQueue = m.injectQueue[:len(m.injectQueue)-1]

	m.pointer.X, m.pointer.Y = evt.x, evt.y
	m.pointer.Buttons = [mouseButtonCount]bool{}
	if evt.pressed {
		m.pointer.Buttons[evt.button] = true
	}
	return true
}

// Pointer returns the pointer state sampled by the last Update.
func (m *InputManager) Pointer() Pointer { return m.pointer }

// KeyDown reports whether k was held at the last Update.
func (m *InputManager) KeyDown(k ebiten.Key) bool {
	return slices.Contains(m.keys, k)
}

// KeyJustPressed reports whether k went down at the last Update.
func (m *InputManager) KeyJustPressed(k ebiten.Key) bool {
	return slices.Contains(m.keys, k) && !slices.Contains(m.prevKeys, k)
}

// KeyJustReleased reports whether k went up at the last Update.
func (m *InputManager) KeyJustReleased(k ebiten.Key) bool {
	return !slices.Contains(m.keys, k) && slices.Contains(m.prevKeys, k)
}

// Time returns the frame time of the last Update.
func (m *InputManager) Time() float64 { return m.time }

// Updates returns the number of frames sampled.
func (m *InputManager) Updates() uint64 { return m.updates }

// --- Injection ---

// InjectPress queues a left-button press at (x, y), consumed by the next Update.
func (m *InputManager) InjectPress(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true, button: MouseButtonLeft})
}

// InjectMove queues a pointer move at (x, y) with the left button held.
func (m *InputManager) InjectMove(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true, button: MouseButtonLeft})
}

// InjectRelease queues a pointer release at (x, y).
func (m *InputManager) InjectRelease(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{x: x, y: y, button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release. Consumes two frames.
func (m *InputManager) InjectClick(x, y float64) {
	m.InjectPress(x, y)
	m.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 interpolated moves,
// and a release at (toX, toY). Minimum frames is 2.
func (m *InputManager) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	m.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		m.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	m.InjectRelease(toX, toY)
}

// Injected returns the number of queued synthetic events.
func (m *InputManager) Injected() int { return len(m.injectQueue) }
