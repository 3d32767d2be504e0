package grove

import (
	"fmt"
	"sync"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// signalEvents is the donburi event type carrying environment signals.
var signalEvents = events.NewEventType[Signal]()

// EventBus relays environment signals to at most one handler per signal.
//
// Emit may be called from any goroutine; it only queues. Handlers run inside
// Dispatch, which the host calls on the stepping thread before each tick, so
// handlers never race Step.
type EventBus struct {
	mu      sync.Mutex
	pending []Signal

	world    donburi.World
	handlers [signalCount]func()
}

// NewEventBus creates an empty bus backed by its own donburi world.
func NewEventBus() *EventBus {
	b := &EventBus{world: donburi.NewWorld()}
	signalEvents.Subscribe(b.world, b.deliver)
	return b
}

// On registers fn for sig. A second registration for the same signal fails
// with ErrHandlerExists; call Off first to replace a handler.
func (b *EventBus) On(sig Signal, fn func()) error {
	if sig >= signalCount {
		return fmt.Errorf("%w: %d", ErrUnknownSignal, sig)
	}
	if b.handlers[sig] != nil {
		return fmt.Errorf("%w: %s", ErrHandlerExists, sig)
	}
	b.handlers[sig] = fn
	return nil
}

// Off removes the handler for sig, if any.
func (b *EventBus) Off(sig Signal) {
	if sig < signalCount {
		b.handlers[sig] = nil
	}
}

// Emit queues sig for the next Dispatch.
func (b *EventBus) Emit(sig Signal) {
	b.mu.Lock()
	b.pending = append(b.pending, sig)
	b.mu.Unlock()
}

// Pending reports the number of queued signals.
func (b *EventBus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Dispatch delivers every signal queued so far, in emission order, and returns
// how many were delivered. Signals emitted by handlers during Dispatch are
// delivered by the next call.
func (b *EventBus) Dispatch() int {
	b.mu.Lock()
	batch := b.pending
	b.pending = nil
	b.mu.Unlock()

	if len(batch) == 0 {
		return 0
	}
	for _, sig := range batch {
		signalEvents.Publish(b.world, sig)
	}
	signalEvents.ProcessEvents(b.world)
	return len(batch)
}

func (b *EventBus) deliver(_ donburi.World, sig Signal) {
	if sig >= signalCount {
		return
	}
	if fn := b.handlers[sig]; fn != nil {
		fn()
	}
}

// signalEmitter is the part of the bus the VisibilityHandler needs.
type signalEmitter interface {
	Emit(sig Signal)
}

// VisibilityHandler turns host observations into edge-triggered signals:
// hidden/visible transitions emit SignalHidden/SignalVisible and focus
// transitions emit SignalBlur/SignalFocus. A host starts visible and focused.
type VisibilityHandler struct {
	bus     signalEmitter
	hidden  bool
	focused bool
}

// NewVisibilityHandler creates a handler emitting onto bus.
func NewVisibilityHandler(bus signalEmitter) *VisibilityHandler {
	return &VisibilityHandler{bus: bus, focused: true}
}

// Observe records the host's current visibility and focus.
func (v *VisibilityHandler) Observe(hidden, focused bool) {
	if hidden != v.hidden {
		v.hidden = hidden
		if hidden {
			v.bus.Emit(SignalHidden)
		} else {
			v.bus.Emit(SignalVisible)
		}
	}
	if focused != v.focused {
		v.focused = focused
		if focused {
			v.bus.Emit(SignalFocus)
		} else {
			v.bus.Emit(SignalBlur)
		}
	}
}
