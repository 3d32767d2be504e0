//go:build grovedebug

package grove

import "sync/atomic"

var running atomic.Pointer[Game]

func registerRunning(g *Game) {
	running.Store(g)
}

// Running returns the most recently booted Game. It exists only in builds
// tagged grovedebug and is meant for debuggers and diagnostic tooling.
func Running() *Game {
	return running.Load()
}
