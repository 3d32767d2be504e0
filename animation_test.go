package grove

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// --- Tweens ---

func TestTweenReachesTarget(t *testing.T) {
	x := 10.0
	g := Tween(&x, 100, 1.0, ease.Linear)

	// Exact halves avoid float32 accumulation drift.
	g.Update(0.5)
	if g.Done {
		t.Fatal("should not be done at halfway")
	}
	if math.Abs(x-55) > 0.5 {
		t.Errorf("x = %f, want ~55 at halfway", x)
	}
	g.Update(0.5)
	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(x-100) > 0.5 {
		t.Errorf("x = %f, want ~100", x)
	}
}

func TestTween2ReachesTarget(t *testing.T) {
	x, y := 0.0, 0.0
	g := Tween2(&x, &y, 100, 200, 0.5, ease.Linear)
	g.Update(0.25)
	g.Update(0.25)
	if !g.Done || math.Abs(x-100) > 0.5 || math.Abs(y-200) > 0.5 {
		t.Errorf("done=%v x=%f y=%f", g.Done, x, y)
	}
}

func TestTweenColorAllComponents(t *testing.T) {
	c := Color{R: 1, G: 0, B: 0, A: 1}
	target := Color{R: 0, G: 1, B: 0.5, A: 0.5}

	g := TweenColor(&c, target, 1.0, ease.Linear)
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	for _, pair := range [][2]float64{{c.R, target.R}, {c.G, target.G}, {c.B, target.B}, {c.A, target.A}} {
		if math.Abs(pair[0]-pair[1]) > 0.01 {
			t.Errorf("component = %f, want %f", pair[0], pair[1])
		}
	}
}

func TestTweenGroupDoneStops(t *testing.T) {
	x := 0.0
	g := Tween(&x, 10, 0.5, ease.Linear)
	g.Update(1)
	x = 42
	g.Update(1)
	if x != 42 {
		t.Errorf("finished tween kept writing: x = %f", x)
	}
}

func TestTweenSet_UpdateInMilliseconds(t *testing.T) {
	var s TweenSet
	a, b := 0.0, 0.0
	s.Add(Tween(&a, 10, 0.5, ease.Linear))
	s.Add(Tween(&b, 10, 1.0, ease.Linear))

	s.Update(250)
	s.Update(250)
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after the short tween finishes", s.Len())
	}
	if math.Abs(a-10) > 0.01 || math.Abs(b-5) > 0.1 {
		t.Errorf("a=%f b=%f", a, b)
	}
	s.Update(500)
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
	s.Update(-16) // negative deltas are ignored
}

// --- Animations ---

func bootedAnims(t *testing.T) *AnimationManager {
	t.Helper()
	tm := newTestTextures()
	pages := []*ebiten.Image{ebiten.NewImage(32, 32), ebiten.NewImage(64, 64)}
	if _, err := tm.AddAtlas("walk", []byte(arrayAtlasJSON), pages); err != nil {
		t.Fatal(err)
	}
	if _, err := tm.AddImage("box", ebiten.NewImage(4, 4)); err != nil {
		t.Fatal(err)
	}
	m := NewAnimationManager()
	if err := m.Boot(tm); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestAnimationManager_BootTwice(t *testing.T) {
	m := bootedAnims(t)
	err := m.Boot(newTestTextures())
	if !errors.Is(err, ErrAlreadyBooted) {
		t.Errorf("Boot = %v, want ErrAlreadyBooted", err)
	}
	if err != nil && !strings.HasPrefix(err.Error(), "grove: boot animation manager: ") {
		t.Errorf("error %q lacks the package prefix", err)
	}
}

func TestAnimationManager_CreateBeforeBoot(t *testing.T) {
	m := NewAnimationManager()
	_, err := m.Create(AnimationConfig{Key: "walk", Frames: []FrameRef{{Texture: "walk", Frame: "walk_0"}}})
	if !errors.Is(err, ErrNotBooted) {
		t.Errorf("Create = %v, want ErrNotBooted", err)
	}
}

func TestAnimationManager_Create(t *testing.T) {
	m := bootedAnims(t)
	a, err := m.Create(AnimationConfig{
		Key:    "walk",
		Frames: []FrameRef{{Texture: "walk", Frame: "walk_0"}, {Texture: "walk", Frame: "walk_1"}, {Texture: "box"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.FrameRate != defaultFrameRate || len(a.Frames) != 3 {
		t.Errorf("animation = %+v", a)
	}
	if a.Frames[2].Name != BaseFrame {
		t.Errorf("empty frame name should resolve to %q, got %q", BaseFrame, a.Frames[2].Name)
	}
	if m.Get("walk") != a || len(m.Keys()) != 1 {
		t.Error("animation should be stored")
	}
	m.Remove("walk")
	if m.Get("walk") != nil {
		t.Error("Remove should delete the animation")
	}
}

func TestAnimationManager_CreateErrors(t *testing.T) {
	m := bootedAnims(t)
	_, _ = m.Create(AnimationConfig{Key: "dup", Frames: []FrameRef{{Texture: "box"}}})

	tests := []struct {
		name string
		cfg  AnimationConfig
	}{
		{"empty key", AnimationConfig{Frames: []FrameRef{{Texture: "box"}}}},
		{"duplicate", AnimationConfig{Key: "dup", Frames: []FrameRef{{Texture: "box"}}}},
		{"no frames", AnimationConfig{Key: "x"}},
		{"unknown texture", AnimationConfig{Key: "y", Frames: []FrameRef{{Texture: "ghost"}}}},
		{"unknown frame", AnimationConfig{Key: "z", Frames: []FrameRef{{Texture: "walk", Frame: "run_0"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Create(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestAnimation_FrameAt(t *testing.T) {
	a := &Animation{
		Frames:    []Frame{{Name: "0"}, {Name: "1"}, {Name: "2"}},
		FrameRate: 10,
		Repeat:    1,
	}
	if a.Duration() != 300 {
		t.Errorf("Duration = %v, want 300", a.Duration())
	}
	tests := []struct {
		elapsed float64
		want    string
		done    bool
	}{
		{-5, "0", false},
		{0, "0", false},
		{150, "1", false},
		{350, "0", false}, // second play
		{599, "2", false},
		{600, "2", true},
		{10000, "2", true},
	}
	for _, tt := range tests {
		f, done := a.FrameAt(tt.elapsed)
		if f.Name != tt.want || done != tt.done {
			t.Errorf("FrameAt(%v) = %q,%v want %q,%v", tt.elapsed, f.Name, done, tt.want, tt.done)
		}
	}

	a.Repeat = -1
	if f, done := a.FrameAt(100000); done || f.Name != "1" {
		t.Errorf("looping FrameAt = %q,%v", f.Name, done)
	}
}
