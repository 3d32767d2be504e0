package grove

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Version is the grove release.
const Version = "0.1.0"

// newLogger builds the default console logger: human-readable output on
// stderr, tagged with the app name and the game id.
func newLogger(cfg *Config, id uuid.UUID) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().
		Timestamp().
		Str("app", "grove").
		Str("game", id.String()).
		Logger()
}

// banner logs the identity banner. Diagnostic only.
func (g *Game) banner() {
	c := g.config
	if c.Banner.Hide {
		return
	}
	pixels := uint64(c.Width) * uint64(c.Height) * 4
	ev := g.log.Info().
		Str("title", c.Title).
		Str("renderer", string(c.Renderer)).
		Str("surface", fmt.Sprintf("%dx%d (%s)", c.Width, c.Height, humanize.Bytes(pixels))).
		Str("cache", humanize.Comma(int64(c.Cache.Capacity))+" entries/store").
		Str("device", fmt.Sprintf("%s/%s %d cpu", g.device.OS, g.device.Arch, g.device.CPUs))
	if c.Version != "" {
		ev = ev.Str("version", c.Version)
	}
	if len(g.device.Features) > 0 {
		ev = ev.Str("cpu_features", strings.Join(g.device.Features, ","))
	}
	ev.Msgf("grove v%s", Version)
}
