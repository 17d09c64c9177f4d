package tangerine

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// ManifestFrame is one named sprite read back from a manifest.
type ManifestFrame struct {
	Name string
	Page int
	// Rect is the unpadded pixel rectangle inside the page.
	Rect PlacedRect
}

// --- JSON structure types (TexturePacker hash/array format) ---

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

type jsonMeta struct {
	Image   string   `json:"image"`
	Size    jsonSize `json:"size"`
	Padding int      `json:"padding"`
	Format  string   `json:"format"`
}

type jsonHashManifest struct {
	Frames map[string]jsonFrame `json:"frames"`
	Meta   jsonMeta             `json:"meta"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// WriteManifest writes the atlas layout in TexturePacker hash format, the
// format most sprite tooling understands.
// imageName is recorded as meta.image.
func (a *Atlas) WriteManifest(w io.Writer, imageName string) error {
	m := jsonHashManifest{
		Frames: make(map[string]jsonFrame, len(a.sprites)),
		Meta: jsonMeta{
			Image:  imageName,
			Size:   jsonSize{W: a.Width(), H: a.Height()},
			Format: "RGBA8888",
		},
	}
	for _, s := range a.sprites {
		r := s.PixelRect()
		m.Meta.Padding = s.Padding
		m.Frames[s.Name] = jsonFrame{
			Frame:            jsonRect{X: r.X, Y: r.Y, W: r.Width, H: r.Height},
			SpriteSourceSize: jsonRect{W: r.Width, H: r.Height},
			SourceSize:       jsonSize{W: r.Width, H: r.Height},
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("tangerine: write manifest: %w", err)
	}
	return nil
}

// ParseManifest reads TexturePacker JSON in either the hash format (single
// "frames" object) or the array format ("textures" array with per-page frame
// lists). Frames are returned sorted by page, then name.
func ParseManifest(jsonData []byte) ([]ManifestFrame, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("tangerine: failed to parse manifest JSON: %w", err)
	}

	var out []ManifestFrame
	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, fmt.Errorf("tangerine: failed to parse manifest textures array: %w", err)
		}
		for i, tex := range textures {
			out = appendFrames(out, tex.Frames, i)
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("tangerine: failed to parse manifest frames: %w", err)
		}
		out = appendFrames(out, frames, 0)
	default:
		return nil, fmt.Errorf("tangerine: manifest JSON has neither \"frames\" nor \"textures\" key")
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Page != out[j].Page {
			return out[i].Page < out[j].Page
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func appendFrames(dst []ManifestFrame, frames map[string]jsonFrame, page int) []ManifestFrame {
	for name, f := range frames {
		dst = append(dst, ManifestFrame{
			Name: name,
			Page: page,
			Rect: PlacedRect{X: f.Frame.X, Y: f.Frame.Y, Width: f.Frame.W, Height: f.Frame.H},
		})
	}
	return dst
}
