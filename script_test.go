package tangerine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScript = `{
  "frames": [
    [
      {"sprite": 0, "layer": "fg", "x": 1, "y": 2},
      {"name": "small", "layer": "bg", "x": -1, "y": 0, "scale": 2, "rotation": 90, "opacity": 0.5}
    ],
    [
      {"sprite": 1, "layer": "fg", "x": 0, "y": 0, "z": 3}
    ]
  ]
}`

func TestParseDrawScript(t *testing.T) {
	s, err := ParseDrawScript([]byte(sampleScript))
	require.NoError(t, err)
	require.Len(t, s.Frames, 2)
	assert.Len(t, s.Frames[0], 2)

	inst := s.Frames[0][1].Instance()
	assert.Equal(t, Vec2{2, 2}, inst.Transform.Scale)
	assert.InDelta(t, 1.5707963, float64(inst.Transform.Rotation), 1e-6)
	assert.Equal(t, 0.5, inst.Opacity)

	def := s.Frames[0][0].Instance()
	assert.Equal(t, 1.0, def.Opacity)
	assert.Equal(t, Vec2{1, 1}, def.Transform.Scale)
}

func TestParseDrawScriptErrors(t *testing.T) {
	for name, src := range map[string]string{
		"invalid json": `not json`,
		"no frames":    `{"frames": []}`,
		"no sprite":    `{"frames": [[{"layer": "fg"}]]}`,
		"no layer":     `{"frames": [[{"sprite": 0}]]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDrawScript([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestReplayScript(t *testing.T) {
	r := newTestRenderer(t)
	s, err := ParseDrawScript([]byte(sampleScript))
	require.NoError(t, err)

	frames, err := ReplayScript(r.Frame(), s)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	first := frames[0]
	require.Len(t, first, 2)
	assert.Equal(t, "bg", first[0].Layer)
	assert.Equal(t, SpriteHandle(1), first[0].Instances[0].Sprite)
	assert.Equal(t, "fg", first[1].Layer)

	assert.Equal(t, 3.0, frames[1][0].Instances[0].Instance.Position.Z)
	assert.Equal(t, FrameDrained, r.Frame().State())
}

func TestReplayFrameJoinsErrors(t *testing.T) {
	r := newTestRenderer(t)
	s, err := ParseDrawScript([]byte(`{"frames": [[
		{"sprite": 77, "layer": "fg"},
		{"sprite": 0, "layer": "fg"},
		{"name": "ghost", "layer": "fg"},
		{"sprite": 0, "layer": "nowhere"}
	]]}`))
	require.NoError(t, err)

	err = s.ReplayFrame(r.Frame(), 0)
	assert.ErrorIs(t, err, ErrUnknownSprite)
	assert.ErrorIs(t, err, ErrUnknownLayer)
	assert.Equal(t, 1, r.Frame().Pending())

	assert.Error(t, s.ReplayFrame(r.Frame(), 5))
}

func TestRecordFrameReplaysIdentically(t *testing.T) {
	r := newTestRenderer(t)
	fb := r.Frame()
	require.NoError(t, fb.Draw(0, "fg", NewInstance(1, 2).WithRotation(Degrees(30)).WithOpacity(0.25)))
	require.NoError(t, fb.Draw(1, "bg", NewInstance(-3, 4).WithScale(0.5)))
	original := fb.Finish()

	var buf bytes.Buffer
	script := &DrawScript{Frames: [][]DrawStep{RecordFrame(original)}}
	require.NoError(t, script.Encode(&buf))

	path := filepath.Join(t.TempDir(), "frames.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	loaded, err := LoadDrawScript(path)
	require.NoError(t, err)

	replayed, err := ReplayScript(fb, loaded)
	require.NoError(t, err)
	require.Len(t, replayed[0], len(original))
	for i := range original {
		want, got := original[i], replayed[0][i]
		assert.Equal(t, want.Layer, got.Layer)
		require.Len(t, got.Instances, len(want.Instances))
		for j := range want.Instances {
			w, g := want.Instances[j].GPU(), got.Instances[j].GPU()
			for k := range w.Model {
				assert.InDelta(t, w.Model[k], g.Model[k], 1e-5)
			}
			assert.Equal(t, w.Opacity, g.Opacity)
		}
	}
}
