package grove

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

// Reserved texture keys and frame names.
const (
	MissingTextureKey = "__MISSING"
	BaseFrame         = "__BASE"
)

// Frame describes a sub-rectangle within one of a texture's source images.
type Frame struct {
	Name      string
	Source    int  // index into Texture.Sources
	X, Y      int  // top-left corner of the sub-image within the source
	Width     int  // width of the sub-image (may differ from OriginalW if trimmed)
	Height    int  // height of the sub-image (may differ from OriginalH if trimmed)
	OriginalW int  // untrimmed width as authored
	OriginalH int  // untrimmed height as authored
	OffsetX   int  // horizontal trim offset
	OffsetY   int  // vertical trim offset
	Rotated   bool // stored 90 degrees clockwise in the source
}

// Texture is a set of source images and the named frames cut from them.
type Texture struct {
	Key     string
	Sources []*ebiten.Image
	frames  map[string]Frame
}

// Frame returns the named frame.
func (t *Texture) Frame(name string) (Frame, bool) {
	f, ok := t.frames[name]
	return f, ok
}

// Has reports whether the texture contains the named frame.
func (t *Texture) Has(name string) bool {
	_, ok := t.frames[name]
	return ok
}

// FrameNames returns the texture's frame names in sorted order.
func (t *Texture) FrameNames() []string {
	names := make([]string, 0, len(t.frames))
	for name := range t.frames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Image returns the sub-image for the named frame, or nil when the frame or
// its source does not exist.
func (t *Texture) Image(name string) *ebiten.Image {
	f, ok := t.frames[name]
	if !ok || f.Source < 0 || f.Source >= len(t.Sources) || t.Sources[f.Source] == nil {
		return nil
	}
	w, h := f.Width, f.Height
	if f.Rotated {
		w, h = h, w
	}
	return t.Sources[f.Source].SubImage(image.Rect(f.X, f.Y, f.X+w, f.Y+h)).(*ebiten.Image)
}

// TextureManager stores textures by key. It is addressable from construction;
// textures are added by scenes or user code after boot.
type TextureManager struct {
	textures map[string]*Texture
	missing  *Texture
	log      zerolog.Logger
}

// NewTextureManager creates an empty manager.
func NewTextureManager(logger zerolog.Logger) *TextureManager {
	return &TextureManager{
		textures: make(map[string]*Texture),
		log:      logger,
	}
}

// AddImage adds a single-image texture whose only frame is BaseFrame.
func (m *TextureManager) AddImage(key string, img *ebiten.Image) (*Texture, error) {
	if err := m.checkKey(key); err != nil {
		return nil, err
	}
	b := img.Bounds()
	t := &Texture{
		Key:     key,
		Sources: []*ebiten.Image{img},
		frames: map[string]Frame{
			BaseFrame: {
				Name: BaseFrame, X: b.Min.X, Y: b.Min.Y,
				Width: b.Dx(), Height: b.Dy(), OriginalW: b.Dx(), OriginalH: b.Dy(),
			},
		},
	}
	m.textures[key] = t
	return t, nil
}

// AddAtlas parses TexturePacker JSON and adds it under key with the given
// page images. Supports both the hash format (single "frames" object) and the
// array format ("textures" array with per-page frame lists).
func (m *TextureManager) AddAtlas(key string, jsonData []byte, pages []*ebiten.Image) (*Texture, error) {
	if err := m.checkKey(key); err != nil {
		return nil, err
	}
	frames, err := parseAtlas(jsonData)
	if err != nil {
		return nil, err
	}
	for name, f := range frames {
		if f.Source >= len(pages) {
			return nil, fmt.Errorf("grove: atlas %q frame %q references page %d of %d", key, name, f.Source, len(pages))
		}
	}
	t := &Texture{Key: key, Sources: pages, frames: frames}
	m.textures[key] = t
	return t, nil
}

func (m *TextureManager) checkKey(key string) error {
	if key == "" || key == MissingTextureKey {
		return fmt.Errorf("grove: invalid texture key %q", key)
	}
	if _, ok := m.textures[key]; ok {
		return fmt.Errorf("grove: texture key %q already in use", key)
	}
	return nil
}

// Get returns the texture stored under key.
func (m *TextureManager) Get(key string) (*Texture, error) {
	if t, ok := m.textures[key]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTexture, key)
}

// Exists reports whether key is in use.
func (m *TextureManager) Exists(key string) bool {
	_, ok := m.textures[key]
	return ok
}

// Remove deletes the texture stored under key, if any.
func (m *TextureManager) Remove(key string) {
	delete(m.textures, key)
}

// Keys returns all texture keys in sorted order.
func (m *TextureManager) Keys() []string {
	keys := make([]string, 0, len(m.textures))
	for k := range m.textures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Frame looks up a frame by texture key and frame name. A missing texture or
// frame logs a warning and returns the magenta placeholder frame.
func (m *TextureManager) Frame(key, name string) Frame {
	if t, ok := m.textures[key]; ok {
		if f, ok := t.frames[name]; ok {
			return f
		}
	}
	m.log.Warn().Str("texture", key).Str("frame", name).Msg("frame not found, using placeholder")
	f, _ := m.Missing().Frame(BaseFrame)
	return f
}

// Missing returns the 1x1 magenta placeholder texture, creating it on first use.
func (m *TextureManager) Missing() *Texture {
	if m.missing == nil {
		img := ebiten.NewImage(1, 1)
		img.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
		m.missing = &Texture{
			Key:     MissingTextureKey,
			Sources: []*ebiten.Image{img},
			frames: map[string]Frame{
				BaseFrame: {Name: BaseFrame, Width: 1, Height: 1, OriginalW: 1, OriginalH: 1},
			},
		}
	}
	return m.missing
}

// --- TexturePacker JSON ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func parseAtlas(jsonData []byte) (map[string]Frame, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("grove: failed to parse atlas JSON: %w", err)
	}

	frames := make(map[string]Frame)
	switch {
	case probe.Textures != nil:
		var pages []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &pages); err != nil {
			return nil, fmt.Errorf("grove: failed to parse atlas textures array: %w", err)
		}
		for i, p := range pages {
			for name, f := range p.Frames {
				frames[name] = toFrame(name, f, i)
			}
		}
	case probe.Frames != nil:
		var hash map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &hash); err != nil {
			return nil, fmt.Errorf("grove: failed to parse atlas frames: %w", err)
		}
		for name, f := range hash {
			frames[name] = toFrame(name, f, 0)
		}
	default:
		return nil, fmt.Errorf("grove: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return frames, nil
}

func toFrame(name string, f jsonFrame, source int) Frame {
	return Frame{
		Name:      name,
		Source:    source,
		X:         f.Frame.X,
		Y:         f.Frame.Y,
		Width:     f.Frame.W,
		Height:    f.Frame.H,
		OriginalW: f.SourceSize.W,
		OriginalH: f.SourceSize.H,
		OffsetX:   f.SpriteSourceSize.X,
		OffsetY:   f.SpriteSourceSize.Y,
		Rotated:   f.Rotated,
	}
}
