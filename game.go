package grove

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Host is the display environment the render surface is attached to.
type Host interface {
	Attach(surface *ebiten.Image, parent string) error
}

type options struct {
	driver   FrameDriver
	renderer RendererFactory
	host     Host
	input    InputSource
	logger   *zerolog.Logger
	registry *prometheus.Registry
}

// Option customizes a Game at construction.
type Option func(*options)

// WithDriver replaces the default Loop frame driver.
func WithDriver(d FrameDriver) Option { return func(o *options) { o.driver = d } }

// WithRenderer replaces the renderer factory run during boot.
func WithRenderer(f RendererFactory) Option { return func(o *options) { o.renderer = f } }

// WithHost replaces the ebiten window host the surface is attached to.
func WithHost(h Host) Option { return func(o *options) { o.host = h } }

// WithInputSource replaces the ebiten input source.
func WithInputSource(src InputSource) Option { return func(o *options) { o.input = src } }

// WithLogger replaces the default console logger.
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.logger = &l } }

// WithRegistry registers the game's metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option { return func(o *options) { o.registry = reg } }

// Game is the orchestrator. It owns every collaborator, boots them once in a
// fixed order when the host is ready, and runs the per-frame protocol on each
// driver tick.
//
// Game is not safe for concurrent use. Everything except EventBus.Emit and
// Ready.Fire must happen on the stepping goroutine.
type Game struct {
	id       uuid.UUID
	config   *Config
	resolver ConfigResolver
	log      zerolog.Logger
	state    State
	bootErr  error
	ready    *Ready

	newRenderer RendererFactory
	renderer    Renderer
	surface     *ebiten.Image
	host        Host
	ebiten      *ebitenHost

	events     *EventBus
	visibility *VisibilityHandler
	anims      *AnimationManager
	textures   *TextureManager
	cache      *Cache
	registry   *Registry
	device     Device

	input    InputSystem
	inputMgr *InputManager
	scenes   SceneDirector
	sceneMgr *SceneManager
	driver   FrameDriver
	loop     *Loop

	metrics *frameMetrics
	gather  prometheus.Gatherer

	stepFn  func()
	stepBuf []Scene
	stepSet map[Scene]struct{}
}

func noop() {}

// NewGame resolves cfg and wires every collaborator. It performs no I/O; the
// game stays in StateCreated until NotifyReady or Boot is called.
func NewGame(cfg Config, opts ...Option) (*Game, error) {
	resolved, err := Resolve(cfg)
	if err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	g := &Game{
		id:          uuid.New(),
		config:      resolved,
		resolver:    resolved,
		state:       StateCreated,
		ready:       NewReady(),
		newRenderer: NewImageRenderer,
		events:      NewEventBus(),
		anims:       NewAnimationManager(),
		registry:    NewRegistry(),
		device:      ProbeDevice(),
		stepFn:      noop,
	}
	g.ebiten = &ebitenHost{game: g}

	if o.logger != nil {
		g.log = *o.logger
	} else {
		g.log = newLogger(resolved, g.id)
	}
	if o.renderer != nil {
		g.newRenderer = o.renderer
	}
	g.host = g.ebiten
	if o.host != nil {
		g.host = o.host
	}

	g.textures = NewTextureManager(g.log.With().Str("component", "textures").Logger())
	if g.cache, err = NewCache(resolved.Cache.Capacity); err != nil {
		return nil, err
	}
	g.sceneMgr = NewSceneManager(resolved.Scenes)
	g.scenes = g.sceneMgr
	g.inputMgr = NewInputManager(resolved.Input, o.input)
	g.input = g.inputMgr
	if o.driver != nil {
		g.driver = o.driver
	} else {
		g.loop = NewLoop(resolved.FPS)
		g.driver = g.loop
	}

	reg := o.registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if g.metrics, err = newFrameMetrics(reg); err != nil {
		return nil, fmt.Errorf("grove: register metrics: %w", err)
	}
	g.gather = reg
	g.metrics.recordState(StateCreated)
	return g, nil
}

func (g *Game) setState(s State) {
	g.state = s
	g.metrics.recordState(s)
}

// NotifyReady delivers the host readiness signal. The first call boots the
// game unless Boot was already called directly; later calls are ignored.
func (g *Game) NotifyReady() error {
	if !g.ready.Fire() {
		g.log.Debug().Msg("duplicate ready signal ignored")
		return nil
	}
	if g.state != StateCreated {
		return nil
	}
	return g.Boot()
}

// Boot runs the one-time boot sequence and starts the frame driver. It returns
// ErrAlreadyBooted on any call after the first, including after a failed boot.
// When a step fails the game stays in StateBooting and never ticks.
func (g *Game) Boot() (err error) {
	if g.state != StateCreated {
		g.log.Error().Err(ErrAlreadyBooted).Stringer("state", g.state).Msg("boot called more than once")
		return ErrAlreadyBooted
	}
	g.setState(StateBooting)

	defer func() {
		g.metrics.recordBoot(err)
		if err == nil {
			return
		}
		g.bootErr = err
		g.setState(StateBooting)
		g.log.Error().Err(err).Msg("boot failed")
	}()

	g.resolver.PreBoot(g)

	g.banner()

	r, err := g.newRenderer(g.config)
	if err != nil {
		return bootError("create renderer", err)
	}
	if r == nil || r.Surface() == nil {
		return bootError("create renderer", errors.New("renderer has no surface"))
	}
	g.renderer = r
	g.surface = r.Surface()

	if err := g.host.Attach(g.surface, g.config.Parent); err != nil {
		return bootError("attach surface", err)
	}
	if err := g.anims.Boot(g.textures); err != nil {
		return bootError("boot animations", err)
	}
	if err := g.scenes.Boot(g); err != nil {
		return bootError("boot scenes", err)
	}
	if err := g.input.Boot(); err != nil {
		return bootError("boot input", err)
	}

	g.setState(StateRunning)

	g.resolver.PostBoot(g)

	if err := g.driver.Start(g.Step); err != nil {
		return bootError("start frame driver", err)
	}
	if err := g.installVisibility(); err != nil {
		g.driver.Pause()
		return bootError("install visibility handler", err)
	}

	registerRunning(g)
	g.log.Info().Int("scenes", len(g.scenes.Active())).Msg("booted")
	return nil
}

func bootError(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBootFailed, step, err)
}

func (g *Game) installVisibility() error {
	g.visibility = NewVisibilityHandler(g.events)
	handlers := []struct {
		sig Signal
		fn  func()
	}{
		{SignalHidden, g.onHidden},
		{SignalVisible, g.onVisible},
		{SignalBlur, g.onBlur},
		{SignalFocus, g.onFocus},
	}
	for _, h := range handlers {
		if err := g.events.On(h.sig, h.fn); err != nil {
			return err
		}
	}
	return nil
}

// Step runs one frame: input, the user step callback, scene updates, and
// scene renders bracketed by the renderer's pre- and post-render hooks.
//
// Updates run over a snapshot of the active list taken at the start of the
// frame. Renders run over the list as it stands after the updates, skipping
// scenes that were not in the snapshot, so a scene removed during update is
// not rendered and a scene added during update first renders next frame.
// The first error from a scene aborts the frame and is returned.
func (g *Game) Step(t, delta float64) error {
	if g.bootErr != nil {
		return g.bootErr
	}
	if g.state != StateRunning && g.state != StatePaused {
		return ErrNotBooted
	}
	start := time.Now()

	g.stepBuf = append(g.stepBuf[:0], g.scenes.Active()...)
	if g.stepSet == nil {
		g.stepSet = make(map[Scene]struct{}, len(g.stepBuf))
	}
	for _, s := range g.stepBuf {
		g.stepSet[s] = struct{}{}
	}
	defer func() {
		clear(g.stepBuf)
		clear(g.stepSet)
	}()

	g.input.Update(t, delta)

	g.stepFn()

	for _, s := range g.stepBuf {
		if err := s.Update(t, delta); err != nil {
			return fmt.Errorf("grove: update scene %q: %w", s.Key(), err)
		}
	}

	g.renderer.PreRender()

	active := g.scenes.Active()
	rendered := 0
	for i := 0; i < len(active); i++ {
		s := active[i]
		if _, ok := g.stepSet[s]; !ok {
			continue
		}
		if err := s.Render(0, g.renderer); err != nil {
			return fmt.Errorf("grove: render scene %q: %w", s.Key(), err)
		}
		rendered++
	}

	g.renderer.PostRender()

	took := time.Since(start)
	g.metrics.recordStep(took, len(active))
	if g.config.Debug.LogFrames {
		g.log.Debug().
			Float64("time", t).
			Float64("delta", delta).
			Int("updated", len(g.stepBuf)).
			Int("rendered", rendered).
			Dur("took", took).
			Msg("frame")
	}
	return nil
}

func (g *Game) onHidden() {
	g.metrics.recordSignal(SignalHidden)
	g.driver.Pause()
	if g.state == StateRunning {
		g.setState(StatePaused)
	}
}

func (g *Game) onVisible() {
	g.metrics.recordSignal(SignalVisible)
	g.driver.Resume()
	if g.state == StatePaused {
		g.setState(StateRunning)
	}
}

func (g *Game) onBlur() {
	g.metrics.recordSignal(SignalBlur)
	g.driver.Blur()
}

func (g *Game) onFocus() {
	g.metrics.recordSignal(SignalFocus)
	g.driver.Focus()
}

// ObserveEnvironment feeds the host's current visibility and focus to the
// visibility handler. Observations before boot completes are ignored.
func (g *Game) ObserveEnvironment(hidden, focused bool) {
	if g.visibility == nil {
		return
	}
	g.visibility.Observe(hidden, focused)
}

// Advance runs one host frame at host time now (milliseconds): it fires the
// readiness signal on the first call, relays visibility and focus, delivers
// queued signals, and ticks the driver if it is host-clocked.
func (g *Game) Advance(now float64, hidden, focused bool) error {
	if g.state == StateCreated {
		if err := g.NotifyReady(); err != nil {
			return err
		}
	}
	if g.bootErr != nil {
		return g.bootErr
	}
	g.ObserveEnvironment(hidden, focused)
	g.events.Dispatch()
	if t, ok := g.driver.(Ticker); ok {
		return t.Tick(now)
	}
	return nil
}

// SetStepCallback installs fn to run once per frame after input sampling and
// before any scene updates. A nil fn restores the no-op.
func (g *Game) SetStepCallback(fn func()) {
	if fn == nil {
		fn = noop
	}
	g.stepFn = fn
}

// Screenshot queues a labeled capture of the render surface. It is a no-op
// before boot or with a renderer that cannot capture.
func (g *Game) Screenshot(label string) {
	if s, ok := g.renderer.(interface{ Screenshot(string) }); ok {
		s.Screenshot(label)
	}
}

// ID returns the game's instance id.
func (g *Game) ID() uuid.UUID { return g.id }

// Config returns the resolved configuration. It MUST NOT be mutated after boot.
func (g *Game) Config() *Config { return g.config }

// State returns the lifecycle state.
func (g *Game) State() State { return g.state }

// BootErr returns the error that aborted boot, if any.
func (g *Game) BootErr() error { return g.bootErr }

// Ready returns the readiness signal.
func (g *Game) Ready() *Ready { return g.ready }

// Renderer returns the renderer, or nil before boot.
func (g *Game) Renderer() Renderer { return g.renderer }

// Surface returns the render surface, or nil before boot.
func (g *Game) Surface() *ebiten.Image { return g.surface }

// Events returns the environment signal bus.
func (g *Game) Events() *EventBus { return g.events }

// Anims returns the animation manager.
func (g *Game) Anims() *AnimationManager { return g.anims }

// Textures returns the texture manager.
func (g *Game) Textures() *TextureManager { return g.textures }

// Cache returns the global asset cache.
func (g *Game) Cache() *Cache { return g.cache }

// Registry returns the game-wide data registry.
func (g *Game) Registry() *Registry { return g.registry }

// Device returns the probed device information.
func (g *Game) Device() Device { return g.device }

// Input returns the input manager.
func (g *Game) Input() *InputManager { return g.inputMgr }

// Scenes returns the scene manager.
func (g *Game) Scenes() *SceneManager { return g.sceneMgr }

// Driver returns the frame driver.
func (g *Game) Driver() FrameDriver { return g.driver }

// Loop returns the default Loop, or nil when WithDriver replaced it.
func (g *Game) Loop() *Loop { return g.loop }

// Logger returns the game's logger.
func (g *Game) Logger() zerolog.Logger { return g.log }

// Metrics returns the gatherer holding the game's metrics.
func (g *Game) Metrics() prometheus.Gatherer { return g.gather }
