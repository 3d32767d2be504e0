//go:build !grovedebug

package grove

func registerRunning(*Game) {}
