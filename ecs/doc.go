// Package ecs runs [Donburi] worlds as grove scenes.
//
// [WorldScene] wraps a donburi.World and implements grove.Scene: each frame it
// publishes a [FrameEvent], runs its systems in order, then processes the
// world's queued events. Drawers render the world onto the game surface.
//
// Usage:
//
//	world := donburi.NewWorld()
//	scene := ecs.NewWorldScene("level", world)
//	scene.AddSystem(movement)
//	scene.AddDrawer(drawSprites)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
