package grove

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// RendererType selects the renderer created during boot.
type RendererType string

const (
	RendererAuto   RendererType = "auto"   // pick the best available renderer (currently ebiten)
	RendererEbiten RendererType = "ebiten" // offscreen ebiten.Image surface presented by the host
)

// Default settings applied by Resolve.
const (
	defaultTitle        = "grove"
	defaultWidth        = 1024
	defaultHeight       = 768
	defaultTargetFPS    = 60
	defaultMinFPS       = 5
	defaultDeltaHistory = 10
	defaultCacheSize    = 256
	defaultLogLevel     = "info"
	defaultShotDir      = "screenshots"
)

// FPSConfig configures the frame-timing Loop.
type FPSConfig struct {
	Target       int  `toml:"target" yaml:"target"`               // desired ticks per second
	Min          int  `toml:"min" yaml:"min"`                     // deltas longer than 1000/Min are clamped
	SmoothStep   bool `toml:"smooth_step" yaml:"smooth_step"`     // average delta over DeltaHistory ticks
	DeltaHistory int  `toml:"delta_history" yaml:"delta_history"` // number of deltas kept for smoothing
	// RunWhenUnfocused keeps the host ticking while the window lacks focus.
	RunWhenUnfocused bool `toml:"run_when_unfocused" yaml:"run_when_unfocused"`
}

// SceneConfig declares a scene instantiated by the SceneManager at boot.
// New may be nil when a factory for Key is registered with SceneManager.Register
// before boot.
type SceneConfig struct {
	Key    string       `toml:"key" yaml:"key"`
	Active bool         `toml:"active" yaml:"active"`
	New    SceneFactory `toml:"-" yaml:"-"`
}

// BannerConfig controls the identity banner logged during boot.
type BannerConfig struct {
	Hide bool `toml:"hide" yaml:"hide"`
}

// DebugConfig holds diagnostic switches.
type DebugConfig struct {
	ShowFPS       bool   `toml:"show_fps" yaml:"show_fps"`             // draw the FPS overlay on the surface
	LogFrames     bool   `toml:"log_frames" yaml:"log_frames"`         // log per-frame timing at debug level
	ScreenshotDir string `toml:"screenshot_dir" yaml:"screenshot_dir"` // target directory for Game.Screenshot
}

// CacheConfig sizes the global asset cache stores.
type CacheConfig struct {
	Capacity int `toml:"capacity" yaml:"capacity"` // entries per store
}

// InputConfig toggles the ebiten input sources sampled each frame.
type InputConfig struct {
	DisableKeyboard bool `toml:"disable_keyboard" yaml:"disable_keyboard"`
	DisableMouse    bool `toml:"disable_mouse" yaml:"disable_mouse"`
}

// LogConfig configures the default zerolog logger.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Callbacks are user hooks run by the configuration resolver during boot.
type Callbacks struct {
	PreBoot  func(*Game)
	PostBoot func(*Game)
}

// Config holds the startup parameters of a Game. Build one directly or with
// LoadConfig, then pass it to NewGame, which resolves it.
type Config struct {
	Title      string       `toml:"title" yaml:"title"`
	Version    string       `toml:"version" yaml:"version"`
	Width      int          `toml:"width" yaml:"width"`
	Height     int          `toml:"height" yaml:"height"`
	Parent     string       `toml:"parent" yaml:"parent"` // display target the surface is attached to
	Renderer   RendererType `toml:"renderer" yaml:"renderer"`
	ClearColor Color        `toml:"clear_color" yaml:"clear_color"`

	FPS    FPSConfig     `toml:"fps" yaml:"fps"`
	Scenes []SceneConfig `toml:"scenes" yaml:"scenes"`
	Banner BannerConfig  `toml:"banner" yaml:"banner"`
	Debug  DebugConfig   `toml:"debug" yaml:"debug"`
	Cache  CacheConfig   `toml:"cache" yaml:"cache"`
	Input  InputConfig   `toml:"input" yaml:"input"`
	Log    LogConfig     `toml:"log" yaml:"log"`

	Callbacks Callbacks `toml:"-" yaml:"-"`
}

// ConfigResolver runs the pre- and post-boot hooks. *Config implements it.
type ConfigResolver interface {
	PreBoot(g *Game)
	PostBoot(g *Game)
}

// Resolve copies c, fills in defaults, and validates the result.
func Resolve(c Config) (*Config, error) {
	r := c
	r.Scenes = append([]SceneConfig(nil), c.Scenes...)

	if r.Title == "" {
		r.Title = defaultTitle
	}
	if r.Width == 0 {
		r.Width = defaultWidth
	}
	if r.Height == 0 {
		r.Height = defaultHeight
	}
	if r.Renderer == "" {
		r.Renderer = RendererAuto
	}
	if r.ClearColor == (Color{}) {
		r.ClearColor = ColorBlack
	}
	if r.FPS.Target == 0 {
		r.FPS.Target = defaultTargetFPS
	}
	if r.FPS.Min == 0 {
		r.FPS.Min = min(defaultMinFPS, r.FPS.Target)
	}
	if r.FPS.DeltaHistory == 0 {
		r.FPS.DeltaHistory = defaultDeltaHistory
	}
	if r.Cache.Capacity == 0 {
		r.Cache.Capacity = defaultCacheSize
	}
	if r.Log.Level == "" {
		r.Log.Level = defaultLogLevel
	}
	if r.Debug.ScreenshotDir == "" {
		r.Debug.ScreenshotDir = defaultShotDir
	}

	if err := validateConfig(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

func validateConfig(c *Config) error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	switch c.Renderer {
	case RendererAuto, RendererEbiten:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRenderer, c.Renderer)
	}
	if c.FPS.Target < 0 || c.FPS.Min < 0 || c.FPS.DeltaHistory < 0 {
		return fmt.Errorf("%w: negative fps setting", ErrInvalidConfig)
	}
	if c.FPS.Min > c.FPS.Target {
		return fmt.Errorf("%w: fps min %d exceeds target %d", ErrInvalidConfig, c.FPS.Min, c.FPS.Target)
	}
	if c.Cache.Capacity < 0 {
		return fmt.Errorf("%w: cache capacity %d", ErrInvalidConfig, c.Cache.Capacity)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level: %v", ErrInvalidConfig, err)
	}
	seen := make(map[string]bool, len(c.Scenes))
	for i, sc := range c.Scenes {
		if sc.Key == "" {
			return fmt.Errorf("%w: scene %d has no key", ErrInvalidConfig, i)
		}
		if seen[sc.Key] {
			return fmt.Errorf("%w: %q", ErrDuplicateScene, sc.Key)
		}
		seen[sc.Key] = true
	}
	return nil
}

// PreBoot runs the user pre-boot callback, if any.
func (c *Config) PreBoot(g *Game) {
	if c.Callbacks.PreBoot != nil {
		c.Callbacks.PreBoot(g)
	}
}

// PostBoot runs the user post-boot callback, if any.
func (c *Config) PostBoot(g *Game) {
	if c.Callbacks.PostBoot != nil {
		c.Callbacks.PostBoot(g)
	}
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) settings file. The
// result is unresolved; NewGame applies defaults and validation.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("grove: config parse failed (%s): %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("grove: config load failed (%s): %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("grove: config parse failed (%s): %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: unsupported config extension %q", ErrInvalidConfig, filepath.Ext(path))
	}
	return cfg, nil
}
