package ecs

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/grove"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// FrameEvent is published into the world at the start of every update.
type FrameEvent struct {
	Time  float64
	Delta float64
	Frame uint64
}

// FrameEventType is the Donburi event type for FrameEvent. Subscribe to it in
// your ECS systems to react to frame boundaries.
var FrameEventType = events.NewEventType[FrameEvent]()

// System advances a world by one frame. time and delta are in milliseconds.
type System func(w donburi.World, time, delta float64) error

// Drawer renders a world onto the game surface.
type Drawer func(w donburi.World, screen *ebiten.Image)

// WorldScene runs a donburi.World as a grove scene.
type WorldScene struct {
	key     string
	world   donburi.World
	systems []System
	drawers []Drawer
	frames  uint64
}

var _ grove.Scene = (*WorldScene)(nil)

// NewWorldScene creates a scene with the given key backed by world.
func NewWorldScene(key string, world donburi.World) *WorldScene {
	return &WorldScene{key: key, world: world}
}

// Key implements grove.Scene.
func (s *WorldScene) Key() string { return s.key }

// World returns the underlying donburi world.
func (s *WorldScene) World() donburi.World { return s.world }

// Frames returns the number of updates run so far.
func (s *WorldScene) Frames() uint64 { return s.frames }

// AddSystem appends a system. Systems run in the order they were added.
func (s *WorldScene) AddSystem(sys System) {
	s.systems = append(s.systems, sys)
}

// AddDrawer appends a drawer. Drawers run in the order they were added.
func (s *WorldScene) AddDrawer(d Drawer) {
	s.drawers = append(s.drawers, d)
}

// Update implements grove.Scene. It publishes a FrameEvent, runs every
// system, then delivers all events queued in the world during the frame.
func (s *WorldScene) Update(time, delta float64) error {
	s.frames++
	FrameEventType.Publish(s.world, FrameEvent{Time: time, Delta: delta, Frame: s.frames})
	for i, sys := range s.systems {
		if err := sys(s.world, time, delta); err != nil {
			return fmt.Errorf("ecs: scene %q system %d: %w", s.key, i, err)
		}
	}
	events.ProcessAllEvents(s.world)
	return nil
}

// Render implements grove.Scene.
func (s *WorldScene) Render(_ int, r grove.Renderer) error {
	screen := r.Surface()
	if screen == nil {
		return nil
	}
	for _, d := range s.drawers {
		d(s.world, screen)
	}
	return nil
}
