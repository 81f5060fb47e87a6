package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/lyricanim/internal/logger"
)

// DotenvPath is the optional env file read by Load.
const DotenvPath = ".env"

type Config struct {
	Layout   Layout   `yaml:"layout"`
	Timeline Timeline `yaml:"timeline"`
	Scene    Scene    `yaml:"scene"`
	Preview  Preview  `yaml:"preview"`
	Workers  int      `yaml:"workers"`
}

// Layout is measured in host scene units.
type Layout struct {
	FontSize    float64 `yaml:"font_size"`
	SpaceSize   float64 `yaml:"space_size"`
	LineSpacing float64 `yaml:"line_spacing"`
}

type Timeline struct {
	FPS        int     `yaml:"fps"`
	FadeFrames int     `yaml:"fade_frames"`
	AnimLength float64 `yaml:"anim_length"` // hold in frames for plain-text lines
}

type Scene struct {
	Collection     string     `yaml:"collection"`
	AnchorName     string     `yaml:"anchor_name"`
	AnchorLocation [3]float64 `yaml:"anchor_location,flow"`
	AnchorRotation [3]float64 `yaml:"anchor_rotation,flow"`
	MaterialGroup  string     `yaml:"material_group"`
}

type Preview struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"`
	FontPoints    float64 `yaml:"font_points"` // measurement/raster size of the reference font
}

// Default returns the values the lyrics scripts have always used.
func Default() *Config {
	return &Config{
		Layout: Layout{
			FontSize:    0.5,
			SpaceSize:   0.2,
			LineSpacing: 0.5,
		},
		Timeline: Timeline{
			FPS:        24,
			FadeFrames: 10,
			AnimLength: 50,
		},
		Scene: Scene{
			Collection:    "Fonts",
			AnchorName:    "anchor",
			MaterialGroup: "grp_shared",
		},
		Preview: Preview{
			Width:         1280,
			Height:        720,
			PixelsPerUnit: 160,
			FontPoints:    64,
		},
	}
}

// Load builds a config from defaults, an optional YAML file and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := loadDotenv(DotenvPath); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	return cfg, nil
}

// loadDotenv reads path into the environment. A missing file is fine.
func loadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from LYRICANIM_* variables. Unparseable values are
// logged and ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	setFloat(getenv, "LYRICANIM_FONT_SIZE", &c.Layout.FontSize)
	setFloat(getenv, "LYRICANIM_SPACE_SIZE", &c.Layout.SpaceSize)
	setFloat(getenv, "LYRICANIM_LINE_SPACING", &c.Layout.LineSpacing)
	setInt(getenv, "LYRICANIM_FPS", &c.Timeline.FPS)
	setInt(getenv, "LYRICANIM_FADE_FRAMES", &c.Timeline.FadeFrames)
	setFloat(getenv, "LYRICANIM_ANIM_LENGTH", &c.Timeline.AnimLength)
	setInt(getenv, "LYRICANIM_WORKERS", &c.Workers)
	if v := strings.TrimSpace(getenv("LYRICANIM_COLLECTION")); v != "" {
		c.Scene.Collection = v
	}
}

func setFloat(getenv func(string) string, key string, dst *float64) {
	s := strings.TrimSpace(getenv(key))
	if s == "" {
		return
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		logger.Warn("Ignoring %s=%q: %v", key, s, err)
		return
	}
	*dst = v
}

func setInt(getenv func(string) string, key string, dst *int) {
	s := strings.TrimSpace(getenv(key))
	if s == "" {
		return
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		logger.Warn("Ignoring %s=%q: %v", key, s, err)
		return
	}
	*dst = v
}

// Validate rejects values that would produce a broken layout or timeline.
func (c *Config) Validate() error {
	if c.Layout.FontSize <= 0 {
		return errors.New("layout.font_size must be positive")
	}
	if c.Layout.SpaceSize < 0 {
		return errors.New("layout.space_size must be >= 0")
	}
	if c.Layout.LineSpacing < 0 {
		return errors.New("layout.line_spacing must be >= 0")
	}
	if c.Timeline.FPS <= 0 {
		return errors.New("timeline.fps must be positive")
	}
	if c.Timeline.FadeFrames <= 0 {
		return errors.New("timeline.fade_frames must be positive")
	}
	if c.Timeline.AnimLength < 0 {
		return errors.New("timeline.anim_length must be >= 0")
	}
	if strings.TrimSpace(c.Scene.Collection) == "" {
		return errors.New("scene.collection must be set")
	}
	if c.Workers < 0 {
		return errors.New("workers must be >= 0")
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return errors.New("preview.width and preview.height must be positive")
	}
	if c.Preview.PixelsPerUnit <= 0 || c.Preview.FontPoints <= 0 {
		return errors.New("preview.pixels_per_unit and preview.font_points must be positive")
	}
	return nil
}
