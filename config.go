package octree

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"
)

const (
	DefaultCapacity = 8
	DefaultMaxDepth = 16
)

// ErrInvalidConfig is returned for a non-positive capacity or max depth.
var ErrInvalidConfig = errors.New("invalid octree config")

// Config holds the construction parameters of a tree. Bounds are only
// consulted by NewFromConfig; New takes its bounds explicitly.
type Config struct {
	Capacity int          `yaml:"capacity"`
	MaxDepth int          `yaml:"max_depth"`
	Bounds   BoundsConfig `yaml:"bounds"`
}

type BoundsConfig struct {
	Min []float64 `yaml:"min"`
	Max []float64 `yaml:"max"`
}

func DefaultConfig() Config {
	return Config{
		Capacity: DefaultCapacity,
		MaxDepth: DefaultMaxDepth,
	}
}

// LoadConfig reads a YAML config from path. Keys missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading octree config")
	}
	return ParseConfig(raw)
}

func ParseConfig(raw []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(raw, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing octree config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem with the config at once.
func (c Config) Validate() error {
	err := c.validateLimits()
	if c.Bounds.set() {
		if _, bErr := c.Bounds.Box(); bErr != nil {
			err = multierr.Append(err, bErr)
		}
	}
	return err
}

func (c Config) validateLimits() error {
	var err error
	if c.Capacity < 1 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidConfig, "capacity %d must be positive", c.Capacity))
	}
	if c.MaxDepth < 1 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidConfig, "max depth %d must be positive", c.MaxDepth))
	}
	return err
}

func (b BoundsConfig) set() bool {
	return len(b.Min) > 0 || len(b.Max) > 0
}

// Box converts the configured bounds to a float64 bounding box.
func (b BoundsConfig) Box() (BoundingBox[float64], error) {
	if len(b.Min) != 3 || len(b.Max) != 3 {
		return BoundingBox[float64]{}, errors.Wrapf(ErrInvalidConfig,
			"bounds need three min and three max values, got %d and %d", len(b.Min), len(b.Max))
	}
	return NewBoundingBox(b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
}

// Option adjusts the Config a tree is built with.
type Option func(*Config)

func WithCapacity(n int) Option {
	return func(c *Config) {
		c.Capacity = n
	}
}

func WithMaxDepth(d int) Option {
	return func(c *Config) {
		c.MaxDepth = d
	}
}

// WithConfig replaces capacity and max depth with the values from cfg.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		c.Capacity = cfg.Capacity
		c.MaxDepth = cfg.MaxDepth
	}
}
