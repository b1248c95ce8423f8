package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/math"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
	"github.com/spaghettifunk/softraster/engine/renderer/shading"
)

type HUD struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
	// Path to an AngelCode .fnt file. Pages are resolved next to it.
	Font string `toml:"font" yaml:"font"`
}

type Assets struct {
	Root  string `toml:"root" yaml:"root"`
	Watch bool   `toml:"watch" yaml:"watch"`
}

/**
 * @brief The on-disk configuration. Every enumerated field is kept as text
 * and turned into engine types by Validate.
 */
type Config struct {
	LogLevel      string `toml:"log_level" yaml:"log_level"`
	Workers       int    `toml:"workers" yaml:"workers"` // 0 means one per CPU
	PriorityOrder string `toml:"priority_order" yaml:"priority_order"`

	Resolution string `toml:"resolution" yaml:"resolution"` // e.g. "800x600"
	ClearColor string `toml:"clear_color" yaml:"clear_color"` // "#rrggbb"

	Strategy      string `toml:"strategy" yaml:"strategy"`
	PostFilter    string `toml:"post_filter" yaml:"post_filter"`
	TextureFilter string `toml:"texture_filter" yaml:"texture_filter"`
	LineAlgorithm string `toml:"line_algorithm" yaml:"line_algorithm"`
	Topology      string `toml:"topology" yaml:"topology"`

	PerspectiveCorrect bool `toml:"perspective_correct" yaml:"perspective_correct"`
	BackfaceCulling    bool `toml:"backface_culling" yaml:"backface_culling"`
	DepthTest          bool `toml:"depth_test" yaml:"depth_test"`
	Anisotropy         int  `toml:"anisotropy" yaml:"anisotropy"`
	PointSize          int  `toml:"point_size" yaml:"point_size"`

	HUD    HUD    `toml:"hud" yaml:"hud"`
	Assets Assets `toml:"assets" yaml:"assets"`
}

func Default() *Config {
	return &Config{
		LogLevel:           "info",
		Workers:            0,
		PriorityOrder:      metadata.PriorityAscending.String(),
		Resolution:         "800x600",
		ClearColor:         "#000000",
		Strategy:           metadata.ShadingPhong.String(),
		PostFilter:         metadata.PostFilterNone.String(),
		TextureFilter:      metadata.TextureFilterBilinear.String(),
		LineAlgorithm:      metadata.LineBresenham.String(),
		Topology:           metadata.TopologyTriangles.String(),
		PerspectiveCorrect: true,
		BackfaceCulling:    true,
		DepthTest:          true,
		Anisotropy:         8,
		PointSize:          1,
		Assets:             Assets{Root: "assets"},
	}
}

/** @brief A validated configuration, expressed in engine types. */
type Resolved struct {
	LogLevel      core.LogLevel
	Workers       int
	PriorityOrder metadata.PriorityOrder
	Resolution    metadata.Resolution
	ClearPixel    uint32
	Shading       metadata.ShadingKind
	PostFilter    metadata.PostFilter
	DepthTest     bool
	Options       shading.Options
	HUD           HUD
	Assets        Assets
}

// Validate parses every field and reports the first invalid one.
func (c *Config) Validate() (*Resolved, error) {
	var err error
	r := &Resolved{
		Workers:   c.Workers,
		DepthTest: c.DepthTest,
		HUD:       c.HUD,
		Assets:    c.Assets,
	}
	wrap := func(field string, err error) error {
		return fmt.Errorf("%w: %s: %w", core.ErrInvalidConfig, field, err)
	}

	if r.LogLevel, err = core.ParseLogLevel(c.LogLevel); err != nil {
		return nil, wrap("log_level", err)
	}
	if c.Workers < 0 {
		return nil, wrap("workers", core.ErrInvalidWorkerCount)
	}
	if r.PriorityOrder, err = metadata.ParsePriorityOrder(c.PriorityOrder); err != nil {
		return nil, wrap("priority_order", err)
	}
	if r.Resolution, err = metadata.ParseResolution(c.Resolution); err != nil {
		return nil, wrap("resolution", err)
	}
	colour, err := colorful.Hex(c.ClearColor)
	if err != nil {
		return nil, wrap("clear_color", err)
	}
	r.ClearPixel = metadata.PackColour(math.NewVec4(colour.R, colour.G, colour.B, 1))
	if r.Shading, err = metadata.ParseShadingKind(c.Strategy); err != nil {
		return nil, wrap("strategy", err)
	}
	if r.PostFilter, err = metadata.ParsePostFilter(c.PostFilter); err != nil {
		return nil, wrap("post_filter", err)
	}

	opts := shading.DefaultOptions()
	if opts.TextureFilter, err = metadata.ParseTextureFilter(c.TextureFilter); err != nil {
		return nil, wrap("texture_filter", err)
	}
	if opts.LineAlgorithm, err = metadata.ParseLineAlgorithm(c.LineAlgorithm); err != nil {
		return nil, wrap("line_algorithm", err)
	}
	if opts.Topology, err = metadata.ParseTopology(c.Topology); err != nil {
		return nil, wrap("topology", err)
	}
	opts.PerspectiveCorrect = c.PerspectiveCorrect
	opts.BackfaceCulling = c.BackfaceCulling
	opts.MaxAnisotropy = max(c.Anisotropy, 1)
	opts.PointSize = max(c.PointSize, 1)
	r.Options = opts

	if r.HUD.Enabled && r.HUD.Font == "" {
		return nil, wrap("hud.font", fmt.Errorf("a font is required when the HUD is enabled"))
	}
	return r, nil
}

// Load reads a configuration file. The format follows the extension:
// .toml, .yaml or .yml. Missing keys keep their default values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(b, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, c)
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path in the format matching its extension.
func Save(path string, c *Config) error {
	var (
		b   []byte
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		b, err = toml.Marshal(c)
	case ".yaml", ".yml":
		b, err = yaml.Marshal(c)
	default:
		return fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
