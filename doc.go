// Package grove boots and drives an [Ebitengine] application made of any
// number of concurrently active scenes.
//
// A [Game] owns the subsystems every game needs (textures, animations, an
// asset cache, a data registry, input, scenes) and runs them through a fixed
// lifecycle: constructed, booted once when the host is ready, then running
// until the window is hidden, which pauses the frame cadence without tearing
// anything down.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates the window and the
// game loop for you:
//
//	menu := grove.NewBaseScene("menu")
//	menu.OnRender = func(screen *ebiten.Image) error { ...; return nil }
//
//	err := grove.Run(grove.Config{
//		Title: "My Game", Width: 640, Height: 480,
//		Scenes: []grove.SceneConfig{
//			{Key: "menu", Active: true, New: func() grove.Scene { return menu }},
//		},
//	})
//
// For full control, build the game with [NewGame] and hand
// [Game.EbitenGame] to ebiten.RunGame yourself.
//
// # Boot
//
// Boot runs exactly once. In order it runs the pre-boot hook, logs the
// banner, creates the renderer and its surface, attaches the surface to the
// host, boots animations, scenes and input, marks the game running, runs the
// post-boot hook, starts the frame driver and finally subscribes to
// visibility and focus signals. Any failure leaves the game in
// [StateBooting]; it never ticks.
//
// # Frames
//
// Each tick of the frame driver calls [Game.Step] with the tick time and
// delta in milliseconds. Input is sampled first, then the callback set with
// [Game.SetStepCallback] runs, then every active scene updates in list order,
// and finally the active scenes render between the renderer's PreRender and
// PostRender hooks. Scenes that stop themselves during update are not
// rendered that frame; scenes started during update join the next frame.
//
// # Signals
//
// The host reports visibility and focus through the [EventBus]. Hidden and
// visible pause and resume the [Loop]; blur and focus are forwarded to it.
// Signals may be emitted from any goroutine but are only delivered on the
// stepping goroutine, between frames.
//
// [Ebitengine]: https://ebitengine.org
package grove
