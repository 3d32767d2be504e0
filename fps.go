package grove

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// overlayRefreshFrames is how often the overlay text is redrawn.
const overlayRefreshFrames = 30

// fpsOverlay draws the current FPS and TPS in the top-left corner of the
// surface. The text image is refreshed every overlayRefreshFrames frames.
type fpsOverlay struct {
	img    *ebiten.Image
	frames int
}

func newFPSOverlay() *fpsOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &fpsOverlay{img: ebiten.NewImage(100, 32), frames: overlayRefreshFrames}
}

func (o *fpsOverlay) draw(target *ebiten.Image) {
	o.frames++
	if o.frames >= overlayRefreshFrames {
		o.frames = 0
		o.img.Clear()
		// Semi-transparent background for readability
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	target.DrawImage(o.img, nil)
}
