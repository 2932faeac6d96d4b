package mapgen

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samdwyer/cavemosaic/internal/cave"
	"github.com/samdwyer/cavemosaic/internal/mosaic"
	"github.com/samdwyer/cavemosaic/internal/presets"
	"github.com/samdwyer/cavemosaic/internal/treasure"
)

// EnvPrefix prefixes every configuration key read from the environment.
const EnvPrefix = "CAVEMOSAIC_"

// ErrInvalidConfig is returned when a configuration value cannot be used.
var ErrInvalidConfig = errors.New("mapgen: invalid config")

// Config holds every option of a generation request.
type Config struct {
	// Seed for random number generation. Used for reproducible maps.
	// A seed of 0 means the command picks a random seed.
	Seed int64

	// Cave automaton
	Width       int
	Height      int
	ChanceAlive float64
	BirthLimit  int
	DeathLimit  int
	Steps       int
	Noise       bool
	NoiseScale  float64

	// Mosaic
	Regions int
	UseMean bool

	// Treasures
	Treasures int
	CrossSize int

	// Colors as #rrggbb
	MarkerColor string
	WallColor   string
	FloorColor  string

	// Output
	OutputDir  string
	CaveFile   string
	MosaicFile string
	FinalFile  string
	Scale      int

	// Preview
	Preview   bool
	StepDelay time.Duration

	// Input switches to mosaic-only mode on an existing image.
	Input string
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	cp := cave.DefaultParams()
	return Config{
		Width:       cp.Width,
		Height:      cp.Height,
		ChanceAlive: cp.ChanceAlive,
		BirthLimit:  cp.BirthLimit,
		DeathLimit:  cp.DeathLimit,
		Steps:       cp.Steps,
		NoiseScale:  cp.NoiseScale,
		Regions:     mosaic.DefaultRegions,
		UseMean:     true,
		Treasures:   treasure.DefaultCount,
		CrossSize:   treasure.DefaultCrossSize,
		MarkerColor: "#FF0000",
		WallColor:   "#000000",
		FloorColor:  "#FFFFFF",
		OutputDir:   ".",
		CaveFile:    "CaveMap.png",
		MosaicFile:  "VoronoiMosaicResult.png",
		FinalFile:   "CaveMosaicMap.png",
		Scale:       1,
		StepDelay:   200 * time.Millisecond,
	}
}

// Keys lists every configuration key accepted by FromMap.
func Keys() []string {
	return []string{
		"seed", "width", "height", "chance_alive", "birth_limit", "death_limit",
		"steps", "noise", "noise_scale", "regions", "use_mean", "treasures",
		"cross_size", "marker_color", "wall_color", "floor_color", "out",
		"cave_file", "mosaic_file", "final_file", "scale", "preview",
		"step_delay", "input",
	}
}

// FromMap overlays string values (preset or environment style) onto the config.
// Unknown keys and unparsable values are errors.
func (c *Config) FromMap(values map[string]string) error {
	for key, v := range values {
		if err := c.set(key, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
		}
	}
	return nil
}

// ApplyPreset overlays a preset's values.
func (c *Config) ApplyPreset(p *presets.Preset) error {
	if p == nil {
		return nil
	}
	if err := c.FromMap(p.Values); err != nil {
		return fmt.Errorf("preset %s: %w", p.Name, err)
	}
	return nil
}

// EnvValues collects CAVEMOSAIC_* variables for every known key.
func EnvValues(lookup func(string) (string, bool)) map[string]string {
	values := make(map[string]string)
	for _, key := range Keys() {
		if v, ok := lookup(EnvPrefix + strings.ToUpper(key)); ok {
			values[key] = v
		}
	}
	return values
}

func (c *Config) set(key, v string) error {
	var err error
	switch key {
	case "seed":
		c.Seed, err = strconv.ParseInt(v, 10, 64)
	case "width":
		c.Width, err = strconv.Atoi(v)
	case "height":
		c.Height, err = strconv.Atoi(v)
	case "chance_alive":
		c.ChanceAlive, err = strconv.ParseFloat(v, 64)
	case "birth_limit":
		c.BirthLimit, err = strconv.Atoi(v)
	case "death_limit":
		c.DeathLimit, err = strconv.Atoi(v)
	case "steps":
		c.Steps, err = strconv.Atoi(v)
	case "noise":
		c.Noise, err = strconv.ParseBool(v)
	case "noise_scale":
		c.NoiseScale, err = strconv.ParseFloat(v, 64)
	case "regions":
		c.Regions, err = strconv.Atoi(v)
	case "use_mean":
		c.UseMean, err = strconv.ParseBool(v)
	case "treasures":
		c.Treasures, err = strconv.Atoi(v)
	case "cross_size":
		c.CrossSize, err = strconv.Atoi(v)
	case "marker_color":
		c.MarkerColor = v
	case "wall_color":
		c.WallColor = v
	case "floor_color":
		c.FloorColor = v
	case "out":
		c.OutputDir = v
	case "cave_file":
		c.CaveFile = v
	case "mosaic_file":
		c.MosaicFile = v
	case "final_file":
		c.FinalFile = v
	case "scale":
		c.Scale, err = strconv.Atoi(v)
	case "preview":
		c.Preview, err = strconv.ParseBool(v)
	case "step_delay":
		c.StepDelay, err = time.ParseDuration(v)
	case "input":
		c.Input = v
	default:
		return errors.New("unknown key")
	}
	return err
}

// Bind attaches the configuration to the provided FlagSet. Flag names are the
// config keys with dashes instead of underscores.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 picks one)")
	fs.IntVar(&c.Width, "width", c.Width, "cave width in cells")
	fs.IntVar(&c.Height, "height", c.Height, "cave height in cells")
	fs.Float64Var(&c.ChanceAlive, "chance-alive", c.ChanceAlive, "initial wall probability")
	fs.IntVar(&c.BirthLimit, "birth-limit", c.BirthLimit, "floor becomes wall above this many wall neighbors")
	fs.IntVar(&c.DeathLimit, "death-limit", c.DeathLimit, "wall survives with at least this many wall neighbors")
	fs.IntVar(&c.Steps, "steps", c.Steps, "automaton steps")
	fs.BoolVar(&c.Noise, "noise", c.Noise, "seed the cave from simplex noise")
	fs.Float64Var(&c.NoiseScale, "noise-scale", c.NoiseScale, "noise sampling frequency")
	fs.IntVar(&c.Regions, "regions", c.Regions, "number of Voronoi regions")
	fs.BoolVar(&c.UseMean, "use-mean", c.UseMean, "fill regions with the mean color instead of the mode")
	fs.IntVar(&c.Treasures, "treasures", c.Treasures, "number of treasure markers")
	fs.IntVar(&c.CrossSize, "cross-size", c.CrossSize, "treasure marker half-width")
	fs.StringVar(&c.MarkerColor, "marker-color", c.MarkerColor, "treasure marker color")
	fs.StringVar(&c.WallColor, "wall-color", c.WallColor, "wall color of the cave map")
	fs.StringVar(&c.FloorColor, "floor-color", c.FloorColor, "floor color of the cave map")
	fs.StringVar(&c.OutputDir, "out", c.OutputDir, "output directory")
	fs.StringVar(&c.CaveFile, "cave-file", c.CaveFile, "cave map file name (empty to skip)")
	fs.StringVar(&c.MosaicFile, "mosaic-file", c.MosaicFile, "plain mosaic file name (empty to skip)")
	fs.StringVar(&c.FinalFile, "final-file", c.FinalFile, "final map file name")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier for saved images")
	fs.BoolVar(&c.Preview, "preview", c.Preview, "show automaton steps in the terminal")
	fs.DurationVar(&c.StepDelay, "step-delay", c.StepDelay, "pause between previewed steps")
	fs.StringVar(&c.Input, "input", c.Input, "mosaic an existing image instead of generating a cave")
}

// CaveParams returns the automaton parameters.
func (c Config) CaveParams() cave.Params {
	return cave.Params{
		Width:       c.Width,
		Height:      c.Height,
		Seed:        c.Seed,
		ChanceAlive: c.ChanceAlive,
		BirthLimit:  c.BirthLimit,
		DeathLimit:  c.DeathLimit,
		Steps:       c.Steps,
		Noise:       c.Noise,
		NoiseScale:  c.NoiseScale,
	}
}

// Palette holds the parsed colors of a config.
type Palette struct {
	Wall   mosaic.Color
	Floor  mosaic.Color
	Marker mosaic.Color
}

// Palette parses the configured colors.
func (c Config) Palette() (Palette, error) {
	var p Palette
	var err error
	if p.Wall, err = presets.ParseHexColor(c.WallColor); err != nil {
		return p, fmt.Errorf("%w: wall color: %v", ErrInvalidConfig, err)
	}
	if p.Floor, err = presets.ParseHexColor(c.FloorColor); err != nil {
		return p, fmt.Errorf("%w: floor color: %v", ErrInvalidConfig, err)
	}
	if p.Marker, err = presets.ParseHexColor(c.MarkerColor); err != nil {
		return p, fmt.Errorf("%w: marker color: %v", ErrInvalidConfig, err)
	}
	return p, nil
}

// Validate checks the whole config before any generation work starts.
func (c Config) Validate() error {
	if c.Input == "" {
		if err := c.CaveParams().Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if c.Regions <= 0 {
		return fmt.Errorf("%w: regions must be positive, got %d", ErrInvalidConfig, c.Regions)
	}
	if c.Treasures < 0 {
		return fmt.Errorf("%w: treasures must be non-negative, got %d", ErrInvalidConfig, c.Treasures)
	}
	if c.CrossSize < 0 {
		return fmt.Errorf("%w: cross size must be non-negative, got %d", ErrInvalidConfig, c.CrossSize)
	}
	if c.Scale < 1 {
		return fmt.Errorf("%w: scale must be at least 1, got %d", ErrInvalidConfig, c.Scale)
	}
	if c.StepDelay < 0 {
		return fmt.Errorf("%w: step delay must be non-negative, got %s", ErrInvalidConfig, c.StepDelay)
	}
	if _, err := c.Palette(); err != nil {
		return err
	}
	return nil
}
