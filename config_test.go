package grove

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// --- Resolve ---

func TestResolve_Defaults(t *testing.T) {
	c, err := Resolve(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if c.Title != defaultTitle || c.Width != defaultWidth || c.Height != defaultHeight {
		t.Errorf("window = %q %dx%d", c.Title, c.Width, c.Height)
	}
	if c.Renderer != RendererAuto {
		t.Errorf("Renderer = %q, want auto", c.Renderer)
	}
	if c.ClearColor != ColorBlack {
		t.Errorf("ClearColor = %+v, want black", c.ClearColor)
	}
	if c.FPS.Target != 60 || c.FPS.Min != 5 || c.FPS.DeltaHistory != 10 {
		t.Errorf("FPS = %+v", c.FPS)
	}
	if c.Cache.Capacity != defaultCacheSize || c.Log.Level != "info" {
		t.Errorf("cache=%d log=%q", c.Cache.Capacity, c.Log.Level)
	}
}

func TestResolve_KeepsExplicitValues(t *testing.T) {
	c, err := Resolve(Config{
		Title:    "x",
		Width:    320,
		Height:   200,
		Renderer: RendererEbiten,
		FPS:      FPSConfig{Target: 30, Min: 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Title != "x" || c.Width != 320 || c.Height != 200 || c.Renderer != RendererEbiten {
		t.Errorf("resolved = %+v", c)
	}
	if c.FPS.Target != 30 || c.FPS.Min != 10 {
		t.Errorf("FPS = %+v", c.FPS)
	}
}

func TestResolve_LowTargetLowersMin(t *testing.T) {
	c, err := Resolve(Config{FPS: FPSConfig{Target: 3}})
	if err != nil {
		t.Fatalf("Resolve = %v", err)
	}
	if c.FPS.Target != 3 || c.FPS.Min != 3 {
		t.Errorf("FPS = %+v, want target 3 min 3", c.FPS)
	}
}

func TestResolve_CopiesScenes(t *testing.T) {
	in := Config{Scenes: []SceneConfig{{Key: "a"}}}
	c, err := Resolve(in)
	if err != nil {
		t.Fatal(err)
	}
	in.Scenes[0].Key = "changed"
	if c.Scenes[0].Key != "a" {
		t.Error("Resolve should not alias the caller's scene slice")
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"negative width", Config{Width: -1}, ErrInvalidConfig},
		{"negative height", Config{Height: -5}, ErrInvalidConfig},
		{"unknown renderer", Config{Renderer: "webgl"}, ErrUnknownRenderer},
		{"min above target", Config{FPS: FPSConfig{Target: 30, Min: 60}}, ErrInvalidConfig},
		{"negative fps", Config{FPS: FPSConfig{Target: -1}}, ErrInvalidConfig},
		{"negative cache", Config{Cache: CacheConfig{Capacity: -1}}, ErrInvalidConfig},
		{"bad log level", Config{Log: LogConfig{Level: "loud"}}, ErrInvalidConfig},
		{"empty scene key", Config{Scenes: []SceneConfig{{}}}, ErrInvalidConfig},
		{"duplicate scene", Config{Scenes: []SceneConfig{{Key: "a"}, {Key: "a"}}}, ErrDuplicateScene},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConfig_Hooks(t *testing.T) {
	var calls []string
	c := &Config{Callbacks: Callbacks{
		PreBoot:  func(*Game) { calls = append(calls, "pre") },
		PostBoot: func(*Game) { calls = append(calls, "post") },
	}}
	var r ConfigResolver = c
	r.PreBoot(nil)
	r.PostBoot(nil)
	if len(calls) != 2 || calls[0] != "pre" || calls[1] != "post" {
		t.Errorf("calls = %v", calls)
	}

	// No callbacks is fine.
	(&Config{}).PreBoot(nil)
	(&Config{}).PostBoot(nil)
}

// --- LoadConfig ---

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_TOML(t *testing.T) {
	path := writeFile(t, "game.toml", `
title = "Demo"
width = 800
height = 600
renderer = "ebiten"

[clear_color]
r = 0.5
a = 1.0

[fps]
target = 30
smooth_step = true

[[scenes]]
key = "menu"
active = true

[[scenes]]
key = "level"

[log]
level = "debug"
`)
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Title != "Demo" || c.Width != 800 || c.Height != 600 || c.Renderer != RendererEbiten {
		t.Errorf("config = %+v", c)
	}
	if c.ClearColor.R != 0.5 || c.ClearColor.A != 1 {
		t.Errorf("ClearColor = %+v", c.ClearColor)
	}
	if c.FPS.Target != 30 || !c.FPS.SmoothStep {
		t.Errorf("FPS = %+v", c.FPS)
	}
	if len(c.Scenes) != 2 || c.Scenes[0].Key != "menu" || !c.Scenes[0].Active || c.Scenes[1].Active {
		t.Errorf("Scenes = %+v", c.Scenes)
	}
	if c.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", c.Log.Level)
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, "game.yaml", `
title: Demo
width: 640
height: 480
debug:
  show_fps: true
  screenshot_dir: shots
scenes:
  - key: world
    active: true
`)
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Title != "Demo" || c.Width != 640 || c.Height != 480 {
		t.Errorf("config = %+v", c)
	}
	if !c.Debug.ShowFPS || c.Debug.ScreenshotDir != "shots" {
		t.Errorf("Debug = %+v", c.Debug)
	}
	if len(c.Scenes) != 1 || c.Scenes[0].Key != "world" || !c.Scenes[0].Active {
		t.Errorf("Scenes = %+v", c.Scenes)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig(writeFile(t, "game.json", "{}")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("json: err = %v, want ErrInvalidConfig", err)
	}
	if _, err := LoadConfig(writeFile(t, "bad.toml", "title = ")); err == nil {
		t.Error("malformed toml should fail")
	}
	if _, err := LoadConfig(writeFile(t, "bad.yml", "width: [1, 2")); err == nil {
		t.Error("malformed yaml should fail")
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
