package grove

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"
)

// ebitenHost adapts a Game to ebiten.Game and is the default Host. Every
// ebiten Update is one host frame; Draw presents the render surface.
type ebitenHost struct {
	game          *Game
	start         time.Time
	width, height int
}

// Attach sizes the window to the surface. On desktop there is no display
// tree, so parent is only recorded in the log.
func (h *ebitenHost) Attach(surface *ebiten.Image, parent string) error {
	if surface == nil {
		return fmt.Errorf("grove: attach nil surface")
	}
	b := surface.Bounds()
	h.width, h.height = b.Dx(), b.Dy()
	ebiten.SetWindowSize(h.width, h.height)
	if parent != "" {
		h.game.log.Debug().Str("parent", parent).Msg("surface attached")
	}
	return nil
}

// Update implements ebiten.Game.
func (h *ebitenHost) Update() error {
	if h.start.IsZero() {
		h.start = time.Now()
	}
	now := float64(time.Since(h.start).Microseconds()) / 1000
	return h.game.Advance(now, ebiten.IsWindowMinimized(), ebiten.IsFocused())
}

// Draw implements ebiten.Game.
func (h *ebitenHost) Draw(screen *ebiten.Image) {
	if s := h.game.Surface(); s != nil {
		screen.DrawImage(s, nil)
	}
}

// Layout implements ebiten.Game.
func (h *ebitenHost) Layout(outsideWidth, outsideHeight int) (int, int) {
	if h.width == 0 || h.height == 0 {
		return h.game.config.Width, h.game.config.Height
	}
	return h.width, h.height
}

// EbitenGame returns the ebiten.Game driving g, for callers that run ebiten
// themselves instead of using Run.
func (g *Game) EbitenGame() ebiten.Game {
	return g.ebiten
}

// Run creates a Game from cfg, opens a window, and blocks until the window
// closes or a boot or frame error occurs.
func Run(cfg Config, opts ...Option) error {
	g, err := NewGame(cfg, opts...)
	if err != nil {
		return err
	}
	log.Logger = g.Logger()

	c := g.Config()
	ebiten.SetWindowTitle(c.Title)
	ebiten.SetWindowSize(c.Width, c.Height)
	ebiten.SetTPS(c.FPS.Target)
	ebiten.SetRunnableOnUnfocused(c.FPS.RunWhenUnfocused)
	return ebiten.RunGame(g.EbitenGame())
}
