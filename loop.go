package grove

import "errors"

// StepFunc receives one tick: time is the tick timestamp and delta the time
// elapsed since the previous tick, both in milliseconds.
type StepFunc func(time, delta float64) error

// FrameDriver owns the frame cadence. Pause and Resume must be idempotent and
// the step func must never be invoked concurrently with itself.
type FrameDriver interface {
	Start(step StepFunc) error
	Pause()
	Resume()
	Blur()
	Focus()
}

// Ticker is implemented by drivers clocked from outside, such as Loop, which
// the host advances once per host frame.
type Ticker interface {
	Tick(now float64) error
}

var errNilStep = errors.New("grove: loop started with nil step func")

// Loop is the default FrameDriver. It converts host timestamps into
// (time, delta) pairs, clamping pathological deltas and optionally smoothing
// them. After Start, Resume, or Focus the next delta is the target frame
// duration, so a pause never shows up as one huge step.
type Loop struct {
	target float64 // ms per frame at the target rate
	limit  float64 // deltas above this are replaced by target

	smooth       bool
	history      []float64
	historyIndex int
	historyLen   int

	step     StepFunc
	started  bool
	running  bool
	inFocus  bool
	stepping bool

	lastTime float64 // negative when the next tick should use target
	time     float64
	delta    float64
	rawDelta float64
	frame    uint64

	fpsStart  float64
	fpsFrames int
	actualFPS float64
}

// NewLoop creates a stopped Loop for the given rate settings. Zero values fall
// back to 60 target and 5 minimum ticks per second.
func NewLoop(cfg FPSConfig) *Loop {
	target := cfg.Target
	if target <= 0 {
		target = defaultTargetFPS
	}
	minFPS := cfg.Min
	if minFPS <= 0 || minFPS > target {
		minFPS = min(defaultMinFPS, target)
	}
	n := cfg.DeltaHistory
	if n <= 0 {
		n = defaultDeltaHistory
	}
	return &Loop{
		target:   1000 / float64(target),
		limit:    1000 / float64(minFPS),
		smooth:   cfg.SmoothStep,
		history:  make([]float64, n),
		lastTime: -1,
		fpsStart: -1,
	}
}

// Start installs step and begins the cadence. A Loop can only be started once.
func (l *Loop) Start(step StepFunc) error {
	if l.started {
		return ErrLoopStarted
	}
	if step == nil {
		return errNilStep
	}
	l.step = step
	l.started = true
	l.running = true
	l.inFocus = true
	l.resetDelta()
	return nil
}

// Pause suspends the cadence. Pausing a paused or unstarted loop does nothing.
func (l *Loop) Pause() {
	if !l.started || !l.running {
		return
	}
	l.running = false
}

// Resume restarts a paused cadence. Resuming a running loop does nothing.
func (l *Loop) Resume() {
	if !l.started || l.running {
		return
	}
	l.running = true
	l.resetDelta()
}

// Blur records that the host lost input focus. Ticks continue.
func (l *Loop) Blur() {
	l.inFocus = false
}

// Focus records regained input focus and resets the delta so time spent
// unfocused (often throttled by the host) is not replayed as one step.
func (l *Loop) Focus() {
	if l.inFocus {
		return
	}
	l.inFocus = true
	l.resetDelta()
}

func (l *Loop) resetDelta() {
	l.lastTime = -1
	l.historyIndex = 0
	l.historyLen = 0
	l.fpsStart = -1
	l.fpsFrames = 0
}

// Tick advances the loop to host time now (milliseconds) and runs one step.
// It does nothing while the loop is unstarted or paused.
func (l *Loop) Tick(now float64) error {
	if !l.started || !l.running {
		return nil
	}
	if l.stepping {
		return ErrReentrantTick
	}
	if now < l.time {
		now = l.time
	}

	dt := l.target
	if l.lastTime >= 0 {
		dt = now - l.lastTime
	}
	l.rawDelta = dt
	if dt > l.limit {
		dt = l.target
	}
	if l.smooth {
		dt = l.smoothed(dt)
	}

	l.lastTime = now
	l.time = now
	l.delta = dt
	l.frame++
	l.trackFPS(now)

	l.stepping = true
	defer func() { l.stepping = false }()
	return l.step(now, dt)
}

// smoothed records dt and returns the mean of the recorded history.
func (l *Loop) smoothed(dt float64) float64 {
	l.history[l.historyIndex] = dt
	l.historyIndex = (l.historyIndex + 1) % len(l.history)
	if l.historyLen < len(l.history) {
		l.historyLen++
	}
	var sum float64
	for i := 0; i < l.historyLen; i++ {
		sum += l.history[i]
	}
	return sum / float64(l.historyLen)
}

func (l *Loop) trackFPS(now float64) {
	if l.fpsStart < 0 {
		l.fpsStart = now
		l.fpsFrames = 0
		return
	}
	l.fpsFrames++
	if elapsed := now - l.fpsStart; elapsed >= 1000 {
		l.actualFPS = float64(l.fpsFrames) * 1000 / elapsed
		l.fpsStart = now
		l.fpsFrames = 0
	}
}

// Started reports whether Start has succeeded.
func (l *Loop) Started() bool { return l.started }

// Running reports whether the loop is started and not paused.
func (l *Loop) Running() bool { return l.started && l.running }

// InFocus reports whether the host currently has input focus.
func (l *Loop) InFocus() bool { return l.inFocus }

// Frame returns the number of ticks run so far.
func (l *Loop) Frame() uint64 { return l.frame }

// Time returns the timestamp of the last tick.
func (l *Loop) Time() float64 { return l.time }

// Delta returns the delta handed to the last step.
func (l *Loop) Delta() float64 { return l.delta }

// RawDelta returns the last unclamped, unsmoothed delta.
func (l *Loop) RawDelta() float64 { return l.rawDelta }

// TargetDelta returns the frame duration at the target rate.
func (l *Loop) TargetDelta() float64 { return l.target }

// ActualFPS returns the measured tick rate over the last full second.
func (l *Loop) ActualFPS() float64 { return l.actualFPS }
