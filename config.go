package tangerine

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the TOML-loadable renderer setup.
//
//	debug = false
//	drop_invalid_draws = true
//
//	[atlas]
//	padding = 1
//	max_size = 4096
//
//	[camera]
//	size = 16.0
//	x = 0.0
//	y = 0.0
//
//	[[layer]]
//	name = "background"
//	z = -1
type Config struct {
	Debug            bool          `toml:"debug"`
	DropInvalidDraws bool          `toml:"drop_invalid_draws"`
	Atlas            AtlasConfig   `toml:"atlas"`
	Camera           CameraConfig  `toml:"camera"`
	Layers           []LayerConfig `toml:"layer"`
}

// AtlasConfig configures atlas packing.
type AtlasConfig struct {
	Padding int `toml:"padding"`
	MaxSize int `toml:"max_size"`
}

// CameraConfig is the initial camera placement.
type CameraConfig struct {
	Size float64 `toml:"size"`
	X    float64 `toml:"x"`
	Y    float64 `toml:"y"`
}

// LayerConfig declares one layer.
type LayerConfig struct {
	Name string `toml:"name"`
	Z    int    `toml:"z"`
}

// DefaultConfig returns the configuration NewRenderer uses.
func DefaultConfig() Config {
	return Config{
		Atlas:  AtlasConfig{Padding: DefaultPadding, MaxSize: DefaultMaxAtlasSize},
		Camera: CameraConfig{Size: DefaultCameraSize},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("tangerine: open config: %w", err)
	}
	defer f.Close()
	cfg, err := DecodeConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%w (%s)", err, path)
	}
	return cfg, nil
}

// DecodeConfig reads TOML from r on top of DefaultConfig. Unknown keys are
// logged at warn level and otherwise ignored.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("tangerine: decode config: %w", err)
	}
	for _, k := range md.Undecoded() {
		logger().Warn("unknown config key", "key", k.String())
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("tangerine: encode config: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (c Config) validate() error {
	if c.Atlas.Padding < 0 {
		return fmt.Errorf("tangerine: config: atlas.padding must be >= 0, got %d", c.Atlas.Padding)
	}
	if c.Atlas.MaxSize <= 0 || c.Atlas.MaxSize&(c.Atlas.MaxSize-1) != 0 {
		return fmt.Errorf("tangerine: config: atlas.max_size must be a power of two, got %d", c.Atlas.MaxSize)
	}
	if !(c.Camera.Size > 0) {
		return fmt.Errorf("tangerine: config: camera.size must be > 0, got %v", c.Camera.Size)
	}
	seen := make(map[string]bool, len(c.Layers))
	for _, l := range c.Layers {
		if l.Name == "" {
			return fmt.Errorf("tangerine: config: layer without a name")
		}
		if seen[l.Name] {
			return fmt.Errorf("tangerine: config: %w: %q", ErrDuplicateLayer, l.Name)
		}
		seen[l.Name] = true
	}
	return nil
}

// AtlasOptions converts the [atlas] section.
func (c Config) AtlasOptions() AtlasOptions {
	return AtlasOptions{Padding: c.Atlas.Padding, MaxSize: c.Atlas.MaxSize}
}

// Apply configures an existing renderer: layers are upserted in file order,
// the camera is placed, and the debug and drop policies are set. Atlas
// options replace the current builder's only while nothing is staged.
func (c Config) Apply(r *Renderer) error {
	if err := c.validate(); err != nil {
		return err
	}
	if err := r.SetAtlasOptions(c.AtlasOptions()); err != nil {
		logger().Warn("config atlas options not applied", "error", err)
	}
	for _, l := range c.Layers {
		r.SetLayer(l.Name, l.Z)
	}
	err := r.MutateCamera(func(s *CameraState) {
		s.Size = c.Camera.Size
		s.Position = Vec2{c.Camera.X, c.Camera.Y}
	})
	if err != nil {
		return err
	}
	r.SetDebugMode(c.Debug)
	r.SetDropInvalidDraws(c.DropInvalidDraws)
	return nil
}

// NewRenderer builds a renderer from the configuration.
func (c Config) NewRenderer(viewport Rect) (*Renderer, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	r := NewRendererWithOptions(viewport, c.AtlasOptions())
	if err := c.Apply(r); err != nil {
		return nil, err
	}
	return r, nil
}
