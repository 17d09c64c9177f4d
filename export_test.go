package tangerine

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestRoundTrip(t *testing.T) {
	b := NewAtlasBuilder(AtlasOptions{Padding: 1})
	_, _ = b.StageNamed("ship", SolidBitmap(16, 16, red))
	_, _ = b.StageNamed("bullet", SolidBitmap(8, 8, green))
	a := finalizeOrFatal(t, b)

	var buf bytes.Buffer
	require.NoError(t, a.WriteManifest(&buf, "atlas.png"))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	meta := raw["meta"].(map[string]any)
	assert.Equal(t, "atlas.png", meta["image"])
	assert.EqualValues(t, 1, meta["padding"])

	frames, err := ParseManifest(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, "bullet", frames[0].Name)
	assert.Equal(t, "ship", frames[1].Name)
	for _, f := range frames {
		s, ok := a.SpriteByName(f.Name)
		require.True(t, ok)
		assert.Equal(t, s.PixelRect(), f.Rect)
	}
}

func TestParseManifestArrayFormat(t *testing.T) {
	data := []byte(`{
	  "textures": [
	    {"image": "a-0.png", "frames": {"b": {"frame": {"x": 1, "y": 2, "w": 3, "h": 4}}}},
	    {"image": "a-1.png", "frames": {"a": {"frame": {"x": 5, "y": 6, "w": 7, "h": 8}}}}
	  ]
	}`)
	frames, err := ParseManifest(data)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, ManifestFrame{Name: "b", Page: 0, Rect: PlacedRect{1, 2, 3, 4}}, frames[0])
	assert.Equal(t, ManifestFrame{Name: "a", Page: 1, Rect: PlacedRect{5, 6, 7, 8}}, frames[1])
}

func TestParseManifestErrors(t *testing.T) {
	_, err := ParseManifest([]byte(`not json`))
	assert.Error(t, err)
	_, err = ParseManifest([]byte(`{"meta": {}}`))
	assert.Error(t, err)
}

func TestWriteAtlasFiles(t *testing.T) {
	b := NewAtlasBuilder(DefaultAtlasOptions())
	_, _ = b.Stage(SolidBitmap(4, 4, blue))
	a := finalizeOrFatal(t, b)

	dir := filepath.Join(t.TempDir(), "out")
	pngPath, jsonPath, err := WriteAtlasFiles(dir, "my atlas", a)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "my_atlas.png"), pngPath)
	assert.Equal(t, filepath.Join(dir, "my_atlas.json"), jsonPath)

	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, a.Width(), img.Bounds().Dx())

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	frames, err := ParseManifest(data)
	require.NoError(t, err)
	assert.Len(t, frames, 1)
}

func TestWriteAtlasPNG(t *testing.T) {
	a := finalizeOrFatal(t, NewAtlasBuilder(DefaultAtlasOptions()))
	path := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, WriteAtlasPNG(path, a))
	assert.Error(t, WriteAtlasPNG(filepath.Join(t.TempDir(), "no", "such", "dir.png"), a))
}

func TestEncodePNG(t *testing.T) {
	b := NewAtlasBuilder(AtlasOptions{Padding: 0})
	_, _ = b.Stage(SolidBitmap(2, 2, green))
	a := finalizeOrFatal(t, b)

	var buf bytes.Buffer
	require.NoError(t, a.EncodePNG(&buf))
	bm, err := DecodeBitmap(&buf)
	require.NoError(t, err)
	assert.Equal(t, a.Pix(), bm.Pix)
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-spawn", "after-spawn"},
		{"frame.01", "frame.01"},
		{"snake_case", "snake_case"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
