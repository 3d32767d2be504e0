package grove

import (
	"fmt"
	"math"
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const defaultFrameRate = 24

// FrameRef names a frame of a texture.
type FrameRef struct {
	Texture string `json:"texture"`
	Frame   string `json:"frame"`
}

// AnimationConfig describes a frame animation for AnimationManager.Create.
type AnimationConfig struct {
	Key       string
	Frames    []FrameRef
	FrameRate float64 // frames per second; defaults to 24
	Repeat    int     // extra plays after the first; -1 loops forever
}

// Animation is a resolved, immutable frame sequence shared by every scene.
type Animation struct {
	Key       string
	Frames    []Frame
	FrameRate float64
	Repeat    int
}

// Duration returns the length of one play in milliseconds.
func (a *Animation) Duration() float64 {
	return float64(len(a.Frames)) * 1000 / a.FrameRate
}

// FrameAt returns the frame shown elapsed milliseconds after the animation
// started and whether the animation has finished.
func (a *Animation) FrameAt(elapsed float64) (Frame, bool) {
	n := len(a.Frames)
	if elapsed < 0 {
		elapsed = 0
	}
	idx := int(elapsed * a.FrameRate / 1000)
	if a.Repeat >= 0 {
		total := n * (a.Repeat + 1)
		if idx >= total {
			return a.Frames[n-1], true
		}
	}
	return a.Frames[idx%n], false
}

// AnimationManager holds the game-wide animation definitions. It resolves
// frames through the TextureManager handed to it at boot.
type AnimationManager struct {
	textures *TextureManager
	anims    map[string]*Animation
	booted   bool
}

// NewAnimationManager creates an unbooted manager.
func NewAnimationManager() *AnimationManager {
	return &AnimationManager{anims: make(map[string]*Animation)}
}

// Boot binds the manager to textures. It may only be called once.
func (m *AnimationManager) Boot(textures *TextureManager) error {
	if m.booted {
		return fmt.Errorf("grove: boot animation manager: %w", ErrAlreadyBooted)
	}
	if textures == nil {
		return fmt.Errorf("grove: animation manager booted without a texture manager")
	}
	m.textures = textures
	m.booted = true
	return nil
}

// Create validates cfg against the texture manager and stores the result.
func (m *AnimationManager) Create(cfg AnimationConfig) (*Animation, error) {
	if !m.booted {
		return nil, fmt.Errorf("grove: animation %q: %w", cfg.Key, ErrNotBooted)
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("grove: animation key is empty")
	}
	if _, ok := m.anims[cfg.Key]; ok {
		return nil, fmt.Errorf("grove: animation key %q already in use", cfg.Key)
	}
	if len(cfg.Frames) == 0 {
		return nil, fmt.Errorf("grove: animation %q has no frames", cfg.Key)
	}

	frames := make([]Frame, 0, len(cfg.Frames))
	for _, ref := range cfg.Frames {
		t, err := m.textures.Get(ref.Texture)
		if err != nil {
			return nil, fmt.Errorf("grove: animation %q: %w", cfg.Key, err)
		}
		name := ref.Frame
		if name == "" {
			name = BaseFrame
		}
		f, ok := t.Frame(name)
		if !ok {
			return nil, fmt.Errorf("animation %q: %w: frame %q of %q", cfg.Key, ErrUnknownTexture, name, ref.Texture)
		}
		frames = append(frames, f)
	}

	rate := cfg.FrameRate
	if rate <= 0 {
		rate = defaultFrameRate
	}
	a := &Animation{Key: cfg.Key, Frames: frames, FrameRate: rate, Repeat: cfg.Repeat}
	m.anims[cfg.Key] = a
	return a, nil
}

// Get returns the animation stored under key, or nil.
func (m *AnimationManager) Get(key string) *Animation {
	return m.anims[key]
}

// Remove deletes the animation stored under key.
func (m *AnimationManager) Remove(key string) {
	delete(m.anims, key)
}

// Keys returns all animation keys in sorted order.
func (m *AnimationManager) Keys() []string {
	keys := make([]string, 0, len(m.anims))
	for k := range m.anims {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- Tweens ---

// TweenGroup animates up to 4 float64 fields simultaneously. Call Update each
// frame; values are written to the fields as they advance.
type TweenGroup struct {
	tweens [4]*gween.Tween
	fields [4]*float64
	count  int
	Done   bool
}

// Tween creates a TweenGroup moving *field to the target value over duration
// seconds using the easing function.
func Tween(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[0] = field
	return g
}

// Tween2 creates a TweenGroup moving two fields together, such as x and y.
func Tween2(a, b *float64, toA, toB float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(float32(*a), float32(toA), duration, fn)
	g.tweens[1] = gween.New(float32(*b), float32(toB), duration, fn)
	g.fields[0] = a
	g.fields[1] = b
	return g
}

// TweenColor creates a TweenGroup animating all four components of c.
func TweenColor(c *Color, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4}
	g.tweens[0] = gween.New(float32(c.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(c.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(c.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(c.A), float32(to.A), duration, fn)
	g.fields[0] = &c.R
	g.fields[1] = &c.G
	g.fields[2] = &c.B
	g.fields[3] = &c.A
	return g
}

// Update advances all tweens by dt seconds.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenSet runs a list of tween groups and drops them once done.
type TweenSet struct {
	groups []*TweenGroup
}

// Add starts g on the next Update.
func (s *TweenSet) Add(g *TweenGroup) {
	s.groups = append(s.groups, g)
}

// Len returns the number of running groups.
func (s *TweenSet) Len() int {
	return len(s.groups)
}

// Update advances every group by delta milliseconds.
func (s *TweenSet) Update(delta float64) {
	if len(s.groups) == 0 {
		return
	}
	dt := float32(math.Max(delta, 0) / 1000)
	live := s.groups[:0]
	for _, g := range s.groups {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(s.groups); i++ {
		s.groups[i] = nil
	}
	s.groups = live
}
