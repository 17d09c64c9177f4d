package tangerine

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// EncodePNG writes the atlas pixels to w as a straight-alpha PNG.
func (a *Atlas) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, a.img); err != nil {
		return fmt.Errorf("tangerine: encode atlas %d: %w", a.id, err)
	}
	return nil
}

// WriteAtlasPNG writes the atlas image to path.
func WriteAtlasPNG(path string, a *Atlas) error {
	return writePNG(path, a.img)
}

// WriteAtlasFiles writes <base>.png and <base>.json (the frame manifest)
// into dir, creating dir if needed. base is sanitized for use as a file
// name. It returns the two paths written.
func WriteAtlasFiles(dir, base string, a *Atlas) (pngPath, jsonPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("tangerine: mkdir %s: %w", dir, err)
	}
	safe := sanitizeLabel(base)
	pngPath = filepath.Join(dir, safe+".png")
	jsonPath = filepath.Join(dir, safe+".json")

	if err := writePNG(pngPath, a.img); err != nil {
		return "", "", err
	}
	f, err := os.Create(jsonPath)
	if err != nil {
		return "", "", fmt.Errorf("tangerine: create %s: %w", jsonPath, err)
	}
	if err := a.WriteManifest(f, safe+".png"); err != nil {
		f.Close()
		return "", "", err
	}
	if err := f.Close(); err != nil {
		return "", "", err
	}
	logger().Debug("atlas written", "png", pngPath, "manifest", jsonPath)
	return pngPath, jsonPath, nil
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tangerine: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("tangerine: encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names and
// manifest keys with underscores and falls back to "unlabeled" for empty
// strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
