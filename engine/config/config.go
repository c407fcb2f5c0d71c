package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate for values the sandbox cannot run with.
var ErrInvalidConfig = errors.New("invalid config")

// Config describes a sandbox run. Fields left out of a YAML file keep their Default values.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Camera   CameraConfig   `yaml:"camera"`
	Engine   EngineConfig   `yaml:"engine"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type RendererConfig struct {
	// Backend is "wgpu" or "gl".
	Backend    string     `yaml:"backend"`
	VSync      bool       `yaml:"vsync"`
	MSAA       uint32     `yaml:"msaa"`
	Software   bool       `yaml:"software"`
	ClearColor [4]float64 `yaml:"clear_color"`
}

type CameraConfig struct {
	// Mode is "perspective" or "orthographic".
	Mode     string     `yaml:"mode"`
	Fov      float32    `yaml:"fov"`
	Zoom     float32    `yaml:"zoom"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position [3]float32 `yaml:"position"`
	Speed    float32    `yaml:"speed"`
}

type EngineConfig struct {
	TickRate   float64        `yaml:"tick_rate"`
	FrameLimit float64        `yaml:"frame_limit"`
	Capacity   int            `yaml:"capacity"`
	Profiling  ProfilerConfig `yaml:"profiling"`
}

type ProfilerConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Interval Duration `yaml:"interval"`
}

// Duration is a time.Duration written in YAML as a Go duration string ("500ms", "2s").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the configuration the sandbox runs with when no file is given.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Quick Render Screen",
			Width:  680,
			Height: 400,
		},
		Renderer: RendererConfig{
			Backend:    "wgpu",
			VSync:      true,
			MSAA:       4,
			ClearColor: [4]float64{0, 0, 0, 1},
		},
		Camera: CameraConfig{
			Mode:  "perspective",
			Fov:   math32.Pi / 3,
			Zoom:  1,
			Near:  0.01,
			Far:   100,
			Speed: 1,
		},
		Engine: EngineConfig{
			TickRate: 60,
			Capacity: 64,
			Profiling: ProfilerConfig{
				Interval: Duration(time.Second),
			},
		},
	}
}

// Load reads a YAML file over Default and validates the result.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the merged configuration
//   - error: read, parse or validation failure
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first value that cannot be turned into component options.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if _, err := c.BackendType(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Renderer.MSAA != 1 && c.Renderer.MSAA != 4 {
		return fmt.Errorf("%w: msaa must be 1 or 4, got %d", ErrInvalidConfig, c.Renderer.MSAA)
	}
	if _, err := c.CameraMode(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: clip planes near=%g far=%g", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= math32.Pi {
		return fmt.Errorf("%w: fov %g out of (0, pi)", ErrInvalidConfig, c.Camera.Fov)
	}
	if c.Camera.Zoom <= 0 {
		return fmt.Errorf("%w: zoom %g", ErrInvalidConfig, c.Camera.Zoom)
	}
	if c.Engine.TickRate < 0 || c.Engine.FrameLimit < 0 {
		return fmt.Errorf("%w: negative tick rate or frame limit", ErrInvalidConfig)
	}
	if c.Engine.Capacity < 0 {
		return fmt.Errorf("%w: capacity %d", ErrInvalidConfig, c.Engine.Capacity)
	}
	if c.Engine.Profiling.Interval < 0 {
		return fmt.Errorf("%w: profiling interval %s", ErrInvalidConfig, time.Duration(c.Engine.Profiling.Interval))
	}
	return nil
}
