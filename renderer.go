package grove

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer brackets the scene renders of one frame. Scenes draw onto Surface
// from their Render method.
type Renderer interface {
	Surface() *ebiten.Image
	PreRender()
	PostRender()
}

// RendererFactory creates the renderer and its surface during boot.
type RendererFactory func(cfg *Config) (Renderer, error)

// ImageRenderer renders into an offscreen ebiten.Image that the host presents
// each draw. The surface is owned by the renderer for the game's lifetime.
type ImageRenderer struct {
	surface *ebiten.Image
	clear   color.RGBA
	frames  uint64

	overlay *fpsOverlay
	shots   *screenshotQueue
}

// NewImageRenderer is the default RendererFactory.
func NewImageRenderer(cfg *Config) (Renderer, error) {
	switch cfg.Renderer {
	case RendererAuto, RendererEbiten:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, cfg.Renderer)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: surface size %dx%d", ErrInvalidConfig, cfg.Width, cfg.Height)
	}

	r := &ImageRenderer{
		surface: ebiten.NewImage(cfg.Width, cfg.Height),
		clear:   cfg.ClearColor.RGBA8(),
		shots:   newScreenshotQueue(cfg.Debug.ScreenshotDir),
	}
	if cfg.Debug.ShowFPS {
		r.overlay = newFPSOverlay()
	}
	return r, nil
}

// Surface returns the render target.
func (r *ImageRenderer) Surface() *ebiten.Image {
	return r.surface
}

// Frames returns the number of completed PreRender/PostRender pairs.
func (r *ImageRenderer) Frames() uint64 {
	return r.frames
}

// PreRender clears the surface to the configured clear color.
func (r *ImageRenderer) PreRender() {
	r.surface.Fill(r.clear)
}

// PostRender draws the FPS overlay, if enabled, and writes any queued
// screenshots.
func (r *ImageRenderer) PostRender() {
	if r.overlay != nil {
		r.overlay.draw(r.surface)
	}
	r.shots.flush(r.surface)
	r.frames++
}

// Screenshot queues a labeled capture of the surface, taken at the end of the
// next frame's render.
func (r *ImageRenderer) Screenshot(label string) {
	r.shots.add(label)
}
