package grove

import (
	"errors"
	"image/color"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is handed to ebiten.
type Color struct {
	R float64 `toml:"r" yaml:"r"`
	G float64 `toml:"g" yaml:"g"`
	B float64 `toml:"b" yaml:"b"`
	A float64 `toml:"a" yaml:"a"`
}

// ColorBlack is the default surface clear color.
var ColorBlack = Color{0, 0, 0, 1}

// RGBA8 returns the premultiplied color.RGBA form of c.
func (c Color) RGBA8() color.RGBA {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	a := clamp(c.A)
	return color.RGBA{
		R: uint8(clamp(c.R)*a*255 + 0.5),
		G: uint8(clamp(c.G)*a*255 + 0.5),
		B: uint8(clamp(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// State is the orchestrator's lifecycle state.
type State uint8

const (
	StateCreated State = iota // constructed, waiting for the host to become ready
	StateBooting              // inside Boot, or stuck here after a failed boot
	StateRunning              // frame driver active
	StatePaused               // frame driver suspended, state retained
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateBooting:
		return "booting"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Signal identifies an environment notification delivered through the EventBus.
type Signal uint8

const (
	SignalHidden  Signal = iota // host display became hidden (minimized, tab hidden)
	SignalVisible               // host display became visible again
	SignalBlur                  // host lost input focus but may still be visible
	SignalFocus                 // host regained input focus

	signalCount
)

func (s Signal) String() string {
	switch s {
	case SignalHidden:
		return "HIDDEN"
	case SignalVisible:
		return "VISIBLE"
	case SignalBlur:
		return "ON_BLUR"
	case SignalFocus:
		return "ON_FOCUS"
	default:
		return "UNKNOWN"
	}
}

// Errors returned by grove. Callers should compare with errors.Is.
var (
	ErrAlreadyBooted   = errors.New("grove: game already booted")
	ErrNotBooted       = errors.New("grove: game not booted")
	ErrBootFailed      = errors.New("grove: boot failed")
	ErrLoopStarted     = errors.New("grove: loop already started")
	ErrReentrantTick   = errors.New("grove: tick re-entered while a step is running")
	ErrHandlerExists   = errors.New("grove: handler already registered for signal")
	ErrUnknownSignal   = errors.New("grove: unknown signal")
	ErrUnknownScene    = errors.New("grove: unknown scene")
	ErrDuplicateScene  = errors.New("grove: duplicate scene key")
	ErrUnknownTexture  = errors.New("grove: unknown texture")
	ErrInvalidConfig   = errors.New("grove: invalid config")
	ErrUnknownRenderer = errors.New("grove: unknown renderer type")
)
