// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Clock     ClockConfig     `yaml:"clock"`
	Fox       FoxConfig       `yaml:"fox"`
	Hunter    HunterConfig    `yaml:"hunter"`
	Food      FoodConfig      `yaml:"food"`
	Rabbits   RabbitConfig    `yaml:"rabbits"`
	Ants      AntsConfig      `yaml:"ants"`
	Landscape LandscapeConfig `yaml:"landscape"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds grid dimensions.
type WorldConfig struct {
	Width    int `yaml:"width"`     // Grid width in cells
	Height   int `yaml:"height"`    // Grid height in cells
	TileSize int `yaml:"tile_size"` // Pixels per cell at zoom 1
}

// ClockConfig holds the simulated calendar start and the fixed day cycle.
type ClockConfig struct {
	StartYear   int `yaml:"start_year"`
	StartMonth  int `yaml:"start_month"`
	StartDay    int `yaml:"start_day"`
	SunriseHour int `yaml:"sunrise_hour"`
	SunsetHour  int `yaml:"sunset_hour"`
}

// FoxConfig groups all fox agent parameters.
type FoxConfig struct {
	HomeRange    HomeRangeConfig    `yaml:"home_range"`
	Movement     MovementConfig     `yaml:"movement"`
	Feeding      FeedingConfig      `yaml:"feeding"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Mortality    MortalityConfig    `yaml:"mortality"`
	Dispersal    DispersalConfig    `yaml:"dispersal"`
	Social       SocialConfig       `yaml:"social"`
}

// HomeRangeConfig holds the elliptical home range parameters.
type HomeRangeConfig struct {
	Size      Distribution `yaml:"size"`       // Radius in cells
	AxisRatio Distribution `yaml:"axis_ratio"` // Minor/major axis ratio
}

// MovementConfig holds hourly movement parameters.
type MovementConfig struct {
	HighActivity    Distribution `yaml:"high_activity"`    // Step length per axis outside the rest window
	LowActivity     Distribution `yaml:"low_activity"`     // Step length per axis inside the rest window
	RestStartHour   int          `yaml:"rest_start_hour"`  // Inclusive
	RestEndHour     int          `yaml:"rest_end_hour"`    // Inclusive
	RestChance      float64      `yaml:"rest_chance"`      // Chance per hour to return to the den while resting
	ExcursionRadius float64      `yaml:"excursion_radius"` // Allowed distance from den outside the home range
}

// FeedingConfig holds hunger and feeding parameters.
type FeedingConfig struct {
	HungerPerHour       float64 `yaml:"hunger_per_hour"`
	StarvationThreshold float64 `yaml:"starvation_threshold"`
	ForageCap           float64 `yaml:"forage_cap"`   // Max food taken from the matrix per call
	RabbitValue         float64 `yaml:"rabbit_value"` // Hunger removed by one rabbit
	HuntRadius          int     `yaml:"hunt_radius"`  // 2 = 5x5 scan
	HuntChanceGrass     float64 `yaml:"hunt_chance_grass"`
	HuntChanceForest    float64 `yaml:"hunt_chance_forest"`
	HuntStartHour       int     `yaml:"hunt_start_hour"` // Inclusive
	HuntEndHour         int     `yaml:"hunt_end_hour"`   // Exclusive
}

// ReproductionConfig holds mating and birth parameters.
type ReproductionConfig struct {
	LitterSize       Distribution `yaml:"litter_size"`
	Gestation        Distribution `yaml:"gestation"`       // Days
	MaturityMonths   Distribution `yaml:"maturity_months"` // Age at sexual maturity
	MatingStartMonth int          `yaml:"mating_start_month"` // Calendar months, inclusive
	MatingEndMonth   int          `yaml:"mating_end_month"`
	DenProximity     float64      `yaml:"den_proximity"`      // Female must be this close to her den to mate
	MateSearchRadius int          `yaml:"mate_search_radius"` // 1 = 3x3 around the den
}

// MortalityConfig holds natural death parameters.
type MortalityConfig struct {
	Rate       Distribution `yaml:"rate"`       // Annual death probability
	Senescence float64      `yaml:"senescence"` // Rate multiplier growth per year of age
	MaxAge     int          `yaml:"max_age"`    // Death is certain in this age-year
}

// DispersalConfig holds juvenile dispersal parameters.
type DispersalConfig struct {
	AgeMonths      int          `yaml:"age_months"`      // Minimum age to disperse
	AnchorDay      int          `yaml:"anchor_day"`      // Seasonal anchor (day of year)
	DayOffset      Distribution `yaml:"day_offset"`      // Offset from the anchor in days
	MaleDistance   Distribution `yaml:"male_distance"`   // Cells
	FemaleDistance Distribution `yaml:"female_distance"` // Cells
}

// SocialConfig holds family group parameters.
type SocialConfig struct {
	GroupSize  Distribution `yaml:"group_size"`
	FounderAge Distribution `yaml:"founder_age"` // Years
}

// HunterConfig holds seasonal culling parameters.
type HunterConfig struct {
	Enabled           bool         `yaml:"enabled"`
	ScanRadius        int          `yaml:"scan_radius"`
	ExcursionsPerYear int          `yaml:"excursions_per_year"`
	SeasonEndDay      int          `yaml:"season_end_day"`   // Early season is [1, end]
	SeasonStartDay    int          `yaml:"season_start_day"` // Late season is [start, 365]
	ShootingRate      Distribution `yaml:"shooting_rate"`    // Foxes shot per excursion (rounded)
	CullingRate       Distribution `yaml:"culling_rate"`     // Percent chance to target a denned mother
}

// FoodConfig holds food matrix parameters.
type FoodConfig struct {
	Base        float64 `yaml:"base"`
	Amplitude   float64 `yaml:"amplitude"`     // Simplex noise amplitude
	NoiseScale  float64 `yaml:"noise_scale"`   // Simplex frequency per cell
	DriftPerDay float64 `yaml:"drift_per_day"` // Offset along the noise time axis per day
	Jitter      float64 `yaml:"jitter"`        // Uniform per-cell noise half-width
	Max         float64 `yaml:"max"`
	UrbanFactor float64 `yaml:"urban_factor"` // Multiplier on urban and path cells
}

// RabbitConfig holds rabbit den stock parameters.
type RabbitConfig struct {
	Initial   int `yaml:"initial"`
	Replenish int `yaml:"replenish"` // Added per den on the first day of each month
	Max       int `yaml:"max"`
}

// AntsConfig groups the ant model parameters.
type AntsConfig struct {
	Node   NodeConfig   `yaml:"node"`
	Agent  AntConfig    `yaml:"agent"`
	Colony ColonyConfig `yaml:"colony"`
}

// NodeConfig holds per-cell capacity and pheromone parameters.
type NodeConfig struct {
	Capacity    int     `yaml:"capacity"`
	MaxSmell    float64 `yaml:"max_smell"`
	Evaporation float64 `yaml:"evaporation"` // Fraction of trail lost per step (0 disables)
}

// AntConfig holds per-ant routing parameters.
type AntConfig struct {
	MaxMemory         int     `yaml:"max_memory"`
	ExplorationChance float64 `yaml:"exploration_chance"`
	ExploreThreshold  float64 `yaml:"explore_threshold"`
	DepositK          float64 `yaml:"deposit_k"`
	DestinationBonus  float64 `yaml:"destination_bonus"`
	ReverseRetries    int     `yaml:"reverse_retries"`
}

// ColonyConfig holds cohort management parameters.
type ColonyConfig struct {
	PopulationSize int     `yaml:"population_size"`
	SpawnInterval  int     `yaml:"spawn_interval"`
	SelectionSlack float64 `yaml:"selection_slack"` // Retain paths shorter than slack * best
	Source         [2]int  `yaml:"source"`
	Destination    [2]int  `yaml:"destination"`
}

// LandscapeConfig holds procedural map generation parameters.
type LandscapeConfig struct {
	NoiseScale  float64 `yaml:"noise_scale"`
	Octaves     int     `yaml:"octaves"`
	WaterLevel  float64 `yaml:"water_level"`
	ForestLevel float64 `yaml:"forest_level"`
	UrbanLevel  float64 `yaml:"urban_level"`
	FoxDens     int     `yaml:"fox_dens"`
	RabbitDens  int     `yaml:"rabbit_dens"`
	DenSpacing  int     `yaml:"den_spacing"`
	Corridors   int     `yaml:"corridors"` // Extra random path corridors in ant maps
}

// TelemetryConfig holds output parameters.
type TelemetryConfig struct {
	MeanWindowDays  int `yaml:"mean_window_days"` // Running mean window for the population chart
	ChartWidth      int `yaml:"chart_width"`
	ChartHeight     int `yaml:"chart_height"`
	BookmarkHistory int `yaml:"bookmark_history"` // Records kept by the bookmark detector
	PerfWindow      int `yaml:"perf_window"`      // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	WorldW32  float32 // Grid width in pixels at zoom 1
	WorldH32  float32 // Grid height in pixels at zoom 1
	Tile32    float32 // World.TileSize as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

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
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Validate checks every distribution and the structural parameters.
func (c *Config) Validate() error {
	for name, d := range c.distributions() {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("config %s: %w", name, err)
		}
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("config world: grid must be positive, got %dx%d", c.World.Width, c.World.Height)
	}
	if c.Ants.Node.Capacity <= 0 {
		return fmt.Errorf("config ants.node.capacity: must be positive, got %d", c.Ants.Node.Capacity)
	}
	if c.Ants.Agent.MaxMemory <= 0 {
		return fmt.Errorf("config ants.agent.max_memory: must be positive, got %d", c.Ants.Agent.MaxMemory)
	}
	if c.Ants.Colony.SpawnInterval <= 0 {
		return fmt.Errorf("config ants.colony.spawn_interval: must be positive, got %d", c.Ants.Colony.SpawnInterval)
	}
	if c.Hunter.SeasonEndDay >= c.Hunter.SeasonStartDay {
		return fmt.Errorf("config hunter: season_end_day %d must precede season_start_day %d",
			c.Hunter.SeasonEndDay, c.Hunter.SeasonStartDay)
	}
	return nil
}

func (c *Config) distributions() map[string]Distribution {
	f := &c.Fox
	return map[string]Distribution{
		"fox.home_range.size":              f.HomeRange.Size,
		"fox.home_range.axis_ratio":        f.HomeRange.AxisRatio,
		"fox.movement.high_activity":       f.Movement.HighActivity,
		"fox.movement.low_activity":        f.Movement.LowActivity,
		"fox.reproduction.litter_size":     f.Reproduction.LitterSize,
		"fox.reproduction.gestation":       f.Reproduction.Gestation,
		"fox.reproduction.maturity_months": f.Reproduction.MaturityMonths,
		"fox.mortality.rate":               f.Mortality.Rate,
		"fox.dispersal.day_offset":         f.Dispersal.DayOffset,
		"fox.dispersal.male_distance":      f.Dispersal.MaleDistance,
		"fox.dispersal.female_distance":    f.Dispersal.FemaleDistance,
		"fox.social.group_size":            f.Social.GroupSize,
		"fox.social.founder_age":           f.Social.FounderAge,
		"hunter.shooting_rate":             c.Hunter.ShootingRate,
		"hunter.culling_rate":              c.Hunter.CullingRate,
	}
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	if c.World.TileSize <= 0 {
		c.World.TileSize = 1
	}
	c.Derived.Tile32 = float32(c.World.TileSize)
	c.Derived.WorldW32 = float32(c.World.Width * c.World.TileSize)
	c.Derived.WorldH32 = float32(c.World.Height * c.World.TileSize)
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

// YAML returns the configuration serialized as YAML.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return string(data), nil
}

// Clone returns a deep copy of c, safe to mutate independently.
func (c *Config) Clone() (*Config, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	out := &Config{}
	if err := yaml.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("parsing config copy: %w", err)
	}
	out.computeDerived()
	return out, nil
}
