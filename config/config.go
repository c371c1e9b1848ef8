// Package config provides configuration loading and validation for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Survival modes.
const (
	ModeEast        = "east"
	ModeWest        = "west"
	ModeWestEast    = "west_east"
	ModeCorners     = "corners"
	ModeCenter      = "center"
	ModeRadioactive = "radioactive"
	ModeNone        = "none"
)

// Modes lists every accepted selection mode.
var Modes = []string{ModeEast, ModeWest, ModeWestEast, ModeCorners, ModeCenter, ModeRadioactive, ModeNone}

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Genome     GenomeConfig     `yaml:"genome"`
	Behavior   BehaviorConfig   `yaml:"behavior"`
	Selection  SelectionConfig  `yaml:"selection"`
	Radiation  RadiationConfig  `yaml:"radiation"`
	Diversity  DiversityConfig  `yaml:"diversity"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Viewer     ViewerConfig     `yaml:"viewer"`

	// Seed for the simulation RNG (0 = time-based).
	Seed int64 `yaml:"seed"`
}

// WorldConfig holds grid dimensions.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PopulationConfig holds generation sizing.
type PopulationConfig struct {
	Size        int `yaml:"size"`          // Agents per generation
	Generations int `yaml:"generations"`   // Generations per run
	StepsPerGen int `yaml:"steps_per_gen"` // Sim steps per generation
}

// GenomeConfig holds genome and brain sizing.
type GenomeConfig struct {
	Length       int     `yaml:"length"`        // Genes per genome
	MutationRate float64 `yaml:"mutation_rate"` // Per-bit flip probability
	Internal     int     `yaml:"internal"`      // Internal neuron pool size
}

// BehaviorConfig holds agent decision parameters.
type BehaviorConfig struct {
	ActionThreshold  float64 `yaml:"action_threshold"`  // Minimum |activation| to act
	KillEnabled      bool    `yaml:"kill_enabled"`      // Action 7 kills the agent ahead
	OscillatorPeriod float64 `yaml:"oscillator_period"` // Steps per oscillator cycle
	DensityRadius    int     `yaml:"density_radius"`    // Neighborhood radius for density sensor
	GradientReach    int     `yaml:"gradient_reach"`    // Cells ahead/behind for gradient sensor
}

// SelectionConfig holds the survival predicate and its geometry.
type SelectionConfig struct {
	Mode             string `yaml:"mode"`
	StripWidth       int    `yaml:"strip_width"`        // west_east: width of each edge strip
	CornerSize       int    `yaml:"corner_size"`        // corners: side of each corner square
	CenterRadius     int    `yaml:"center_radius"`      // center: survival disk radius
	StopOnExtinction bool   `yaml:"stop_on_extinction"` // End the run instead of restarting
}

// RadiationConfig holds the radioactive hazard model.
type RadiationConfig struct {
	MaxDose   float64 `yaml:"max_dose"`   // Agent dies above this
	Falloff   float64 `yaml:"falloff"`    // Exponential falloff per cell from the hot wall
	DoseScale float64 `yaml:"dose_scale"` // Dose at distance zero per step
}

// DiversityConfig holds diversity sampling parameters.
type DiversityConfig struct {
	SampleSize int `yaml:"sample_size"`
}

// TelemetryConfig holds logging and output parameters.
type TelemetryConfig struct {
	LogEvery         int    `yaml:"log_every"`         // Log every N generations (first five always)
	SnapshotInterval int    `yaml:"snapshot_interval"` // Archive/frame best genome every N generations
	StreamBuffer     int    `yaml:"stream_buffer"`     // Live frame queue depth
	OutputDir        string `yaml:"output_dir"`        // CSV/config output (empty = disabled)
}

// ArchiveConfig holds the SQLite genome archive settings.
type ArchiveConfig struct {
	Path string `yaml:"path"` // Database file (empty = disabled)
}

// ViewerConfig holds display settings for the live viewers.
type ViewerConfig struct {
	CellSize  int `yaml:"cell_size"`   // Pixels per grid cell
	TargetFPS int `yaml:"target_fps"`  // Window frame rate
	PanelW    int `yaml:"panel_width"` // Side panel width in pixels
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Defaults returns a fresh copy of the embedded default configuration.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// MustDefaults is like Defaults but panics on error.
func MustDefaults() *Config {
	cfg, err := Defaults()
	if err != nil {
		panic(fmt.Sprintf("config: failed to load defaults: %v", err))
	}
	return cfg
}

// Validate reports every out-of-range field at once.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}

	positive("world.width", c.World.Width)
	positive("world.height", c.World.Height)
	positive("population.size", c.Population.Size)
	positive("population.steps_per_gen", c.Population.StepsPerGen)
	positive("genome.length", c.Genome.Length)

	if c.Population.Generations < 0 {
		errs = append(errs, fmt.Errorf("population.generations must not be negative, got %d", c.Population.Generations))
	}
	if c.Genome.Internal < 0 {
		errs = append(errs, fmt.Errorf("genome.internal must not be negative, got %d", c.Genome.Internal))
	}
	if r := c.Genome.MutationRate; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("genome.mutation_rate must be in [0,1], got %g", r))
	}
	if c.Behavior.ActionThreshold < 0 {
		errs = append(errs, fmt.Errorf("behavior.action_threshold must not be negative, got %g", c.Behavior.ActionThreshold))
	}
	if c.Behavior.OscillatorPeriod <= 0 {
		errs = append(errs, fmt.Errorf("behavior.oscillator_period must be positive, got %g", c.Behavior.OscillatorPeriod))
	}
	if !ValidMode(c.Selection.Mode) {
		errs = append(errs, fmt.Errorf("selection.mode %q is not one of %v", c.Selection.Mode, Modes))
	}
	if c.Selection.StripWidth < 0 || c.Selection.CornerSize < 0 || c.Selection.CenterRadius < 0 {
		errs = append(errs, errors.New("selection geometry must not be negative"))
	}
	if c.Diversity.SampleSize < 2 {
		errs = append(errs, fmt.Errorf("diversity.sample_size must be at least 2, got %d", c.Diversity.SampleSize))
	}

	return errors.Join(errs...)
}

// ValidMode reports whether mode names a known survival predicate.
func ValidMode(mode string) bool {
	for _, m := range Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
