package grove

import (
	"fmt"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is a handle in the active-scene list. Update runs once per frame in
// list order; Render runs after every scene has updated.
type Scene interface {
	Key() string
	Update(time, delta float64) error
	Render(pass int, r Renderer) error
}

// SceneFactory instantiates a scene the first time it is started.
type SceneFactory func() Scene

// Creator is implemented by scenes that need the game's collaborators. Create
// is called once, when the scene is first started.
type Creator interface {
	Create(g *Game) error
}

// Shutdowner is implemented by scenes that release resources when stopped.
type Shutdowner interface {
	Shutdown()
}

// SceneDirector owns the active-scene list. The orchestrator only reads it.
type SceneDirector interface {
	Boot(g *Game) error
	Active() []Scene
}

// SceneManager instantiates scenes from factories and maintains the ordered
// active list. Later entries update and render after earlier ones, so the last
// active scene is drawn on top.
type SceneManager struct {
	configs   []SceneConfig
	factories map[string]SceneFactory
	scenes    map[string]Scene
	active    []Scene
	game      *Game
	booted    bool
}

// NewSceneManager creates a manager that will boot the given scenes.
func NewSceneManager(configs []SceneConfig) *SceneManager {
	return &SceneManager{
		configs:   configs,
		factories: make(map[string]SceneFactory),
		scenes:    make(map[string]Scene),
	}
}

// Register adds a factory for key. Configured scenes without a factory of
// their own are looked up here at boot.
func (m *SceneManager) Register(key string, f SceneFactory) error {
	if key == "" || f == nil {
		return fmt.Errorf("grove: register scene %q: empty key or nil factory", key)
	}
	if _, ok := m.factories[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateScene, key)
	}
	m.factories[key] = f
	return nil
}

// Boot resolves every configured scene's factory, then starts those marked
// active, in configuration order.
func (m *SceneManager) Boot(g *Game) error {
	if m.booted {
		return fmt.Errorf("grove: boot scene manager: %w", ErrAlreadyBooted)
	}
	for _, sc := range m.configs {
		if sc.New != nil {
			if err := m.Register(sc.Key, sc.New); err != nil {
				return err
			}
			continue
		}
		if _, ok := m.factories[sc.Key]; !ok {
			return fmt.Errorf("%w: %q has no factory", ErrUnknownScene, sc.Key)
		}
	}
	m.game = g
	m.booted = true
	for _, sc := range m.configs {
		if !sc.Active {
			continue
		}
		if err := m.Start(sc.Key); err != nil {
			return err
		}
	}
	return nil
}

// Add registers f under key and, if start is set, starts it immediately.
func (m *SceneManager) Add(key string, f SceneFactory, start bool) error {
	if err := m.Register(key, f); err != nil {
		return err
	}
	if start {
		return m.Start(key)
	}
	return nil
}

// Start activates key, instantiating it on first use. Starting an active scene
// does nothing. A scene started during a frame's update phase joins the frame
// after.
func (m *SceneManager) Start(key string) error {
	if !m.booted {
		return fmt.Errorf("grove: start scene %q: %w", key, ErrNotBooted)
	}
	if m.IsActive(key) {
		return nil
	}
	s, ok := m.scenes[key]
	if !ok {
		f, ok := m.factories[key]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownScene, key)
		}
		s = f()
		if s == nil || s.Key() != key {
			return fmt.Errorf("grove: factory for scene %q returned a mismatched scene", key)
		}
		if c, ok := s.(Creator); ok {
			if err := c.Create(m.game); err != nil {
				return fmt.Errorf("grove: create scene %q: %w", key, err)
			}
		}
		m.scenes[key] = s
	}
	m.active = append(m.active, s)
	return nil
}

// Stop removes key from the active list. The scene instance is kept and is
// reused by a later Start.
func (m *SceneManager) Stop(key string) error {
	i := m.index(key)
	if i < 0 {
		if _, ok := m.factories[key]; ok {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrUnknownScene, key)
	}
	s := m.active[i]
	m.active = slices.Delete(m.active, i, i+1)
	if sd, ok := s.(Shutdowner); ok {
		sd.Shutdown()
	}
	return nil
}

// BringToTop moves an active scene to the end of the list.
func (m *SceneManager) BringToTop(key string) error {
	i := m.index(key)
	if i < 0 {
		return fmt.Errorf("%w: %q is not active", ErrUnknownScene, key)
	}
	s := m.active[i]
	m.active = append(slices.Delete(m.active, i, i+1), s)
	return nil
}

// SendToBack moves an active scene to the front of the list.
func (m *SceneManager) SendToBack(key string) error {
	i := m.index(key)
	if i < 0 {
		return fmt.Errorf("%w: %q is not active", ErrUnknownScene, key)
	}
	s := m.active[i]
	m.active = slices.Insert(slices.Delete(m.active, i, i+1), 0, s)
	return nil
}

// IsActive reports whether key is in the active list.
func (m *SceneManager) IsActive(key string) bool {
	return m.index(key) >= 0
}

// Get returns the instantiated scene for key, or nil.
func (m *SceneManager) Get(key string) Scene {
	return m.scenes[key]
}

// Active returns the ordered active-scene list. The returned slice MUST NOT
// be mutated.
func (m *SceneManager) Active() []Scene {
	return m.active
}

func (m *SceneManager) index(key string) int {
	for i, s := range m.active {
		if s.Key() == key {
			return i
		}
	}
	return -1
}

// BaseScene is a ready-made Scene driven by callbacks. Its tweens advance
// before OnUpdate runs.
type BaseScene struct {
	key    string
	Tweens TweenSet

	OnCreate func(g *Game) error
	OnUpdate func(time, delta float64) error
	OnRender func(surface *ebiten.Image) error
}

// NewBaseScene creates a scene with no callbacks.
func NewBaseScene(key string) *BaseScene {
	return &BaseScene{key: key}
}

// Key returns the scene key.
func (s *BaseScene) Key() string { return s.key }

// Create runs OnCreate, if set.
func (s *BaseScene) Create(g *Game) error {
	if s.OnCreate != nil {
		return s.OnCreate(g)
	}
	return nil
}

// Update advances tweens and runs OnUpdate.
func (s *BaseScene) Update(time, delta float64) error {
	s.Tweens.Update(delta)
	if s.OnUpdate != nil {
		return s.OnUpdate(time, delta)
	}
	return nil
}

// Render runs OnRender against the renderer's surface.
func (s *BaseScene) Render(_ int, r Renderer) error {
	if s.OnRender != nil {
		return s.OnRender(r.Surface())
	}
	return nil
}
