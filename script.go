package tangerine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// DrawStep is one serialized draw call. Sprite is a global handle; Name, when
// set, is resolved through the registry's atlases instead. Omitted scale and
// opacity default to 1.
type DrawStep struct {
	Sprite   *SpriteHandle `json:"sprite,omitempty"`
	Name     string        `json:"name,omitempty"`
	Layer    string        `json:"layer"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Z        float64       `json:"z,omitempty"`
	Scale    *float64      `json:"scale,omitempty"`
	ScaleX   *float64      `json:"scaleX,omitempty"`
	ScaleY   *float64      `json:"scaleY,omitempty"`
	Rotation float64       `json:"rotation,omitempty"` // degrees
	Opacity  *float64      `json:"opacity,omitempty"`
}

// drawScriptFile is the top-level JSON structure for a draw script.
type drawScriptFile struct {
	Frames [][]DrawStep `json:"frames"`
}

// DrawScript is a recorded sequence of frames, each a list of draw calls,
// used to replay deterministic scenes for regression fixtures.
type DrawScript struct {
	Frames [][]DrawStep
}

// ParseDrawScript parses a JSON draw script:
//
//	{"frames": [[{"sprite": 0, "layer": "fg", "x": 1, "y": 2}]]}
func ParseDrawScript(jsonData []byte) (*DrawScript, error) {
	var f drawScriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("tangerine: parse draw script: %w", err)
	}
	if len(f.Frames) == 0 {
		return nil, fmt.Errorf("tangerine: parse draw script: no frames")
	}
	for i, frame := range f.Frames {
		for j, st := range frame {
			if st.Sprite == nil && st.Name == "" {
				return nil, fmt.Errorf("tangerine: parse draw script: frame %d step %d: no sprite or name", i, j)
			}
			if st.Layer == "" {
				return nil, fmt.Errorf("tangerine: parse draw script: frame %d step %d: no layer", i, j)
			}
		}
	}
	return &DrawScript{Frames: f.Frames}, nil
}

// LoadDrawScript reads and parses a draw script file.
func LoadDrawScript(path string) (*DrawScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tangerine: read draw script: %w", err)
	}
	return ParseDrawScript(data)
}

// Encode writes the script as indented JSON.
func (s *DrawScript) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(drawScriptFile{Frames: s.Frames})
}

// Instance converts the step's placement fields to a SpriteInstance.
func (st DrawStep) Instance() SpriteInstance {
	inst := NewInstance(st.X, st.Y)
	inst.Position.Z = st.Z
	if st.Scale != nil {
		inst.Transform.Scale = Vec2{*st.Scale, *st.Scale}
	}
	if st.ScaleX != nil {
		inst.Transform.Scale.X = *st.ScaleX
	}
	if st.ScaleY != nil {
		inst.Transform.Scale.Y = *st.ScaleY
	}
	inst.Transform.Rotation = Degrees(st.Rotation)
	if st.Opacity != nil {
		inst.Opacity = *st.Opacity
	}
	return inst
}

// resolve maps the step to a global sprite handle.
func (st DrawStep) resolve(reg *SpriteRegistry) (SpriteHandle, error) {
	if st.Sprite != nil {
		return *st.Sprite, nil
	}
	if h, ok := reg.LookupName(st.Name); ok {
		return h, nil
	}
	return 0, fmt.Errorf("%w: name %q", ErrUnknownSprite, st.Name)
}

// ReplayFrame issues frame i's draws into fb. Every step is attempted; the
// failures are joined into the returned error.
func (s *DrawScript) ReplayFrame(fb *FrameBuilder, i int) error {
	if i < 0 || i >= len(s.Frames) {
		return fmt.Errorf("tangerine: replay: frame %d out of range [0,%d)", i, len(s.Frames))
	}
	var errs []error
	for j, st := range s.Frames[i] {
		h, err := st.resolve(fb.Sprites())
		if err == nil {
			err = fb.Draw(h, st.Layer, st.Instance())
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("tangerine: replay frame %d step %d: %w", i, j, err))
		}
	}
	return errors.Join(errs...)
}

// ReplayScript replays every frame of script through fb, finishing each one,
// and returns the batches per frame.
func ReplayScript(fb *FrameBuilder, script *DrawScript) ([][]Batch, error) {
	out := make([][]Batch, 0, len(script.Frames))
	var errs []error
	for i := range script.Frames {
		if err := script.ReplayFrame(fb, i); err != nil {
			errs = append(errs, err)
		}
		out = append(out, fb.Finish())
	}
	return out, errors.Join(errs...)
}

// RecordFrame captures batches as one script frame using global handles.
func RecordFrame(batches []Batch) []DrawStep {
	var steps []DrawStep
	for _, b := range batches {
		for _, d := range b.Instances {
			h := d.Sprite
			inst := d.Instance
			sx, sy, op := inst.Transform.Scale.X, inst.Transform.Scale.Y, inst.Opacity
			steps = append(steps, DrawStep{
				Sprite:   &h,
				Layer:    b.Layer,
				X:        inst.Position.X,
				Y:        inst.Position.Y,
				Z:        inst.Position.Z,
				ScaleX:   &sx,
				ScaleY:   &sy,
				Rotation: inst.Transform.Rotation.Degrees(),
				Opacity:  &op,
			})
		}
	}
	return steps
}
