package config

// GridType identifies an electricity-source profile used to convert energy
// into carbon mass.
type GridType string

const (
	GridGlobalAverage  GridType = "global_average"
	GridRenewableHeavy GridType = "renewable_heavy"
	GridCoalHeavy      GridType = "coal_heavy"
	GridNaturalGas     GridType = "natural_gas"
	GridNuclear        GridType = "nuclear"
)

// GridTypes lists the supported grid profiles in display order.
var GridTypes = []GridType{
	GridGlobalAverage,
	GridRenewableHeavy,
	GridCoalHeavy,
	GridNaturalGas,
	GridNuclear,
}

// Config is the top-level greencode configuration, corresponding to .greencode.yml.
// Every numeric constant of the energy model lives here so the whole model can
// be swapped without code changes.
type Config struct {
	IgnorePatterns      []string           `yaml:"ignore_patterns" koanf:"ignore_patterns"`
	EnergyFactors       EnergyFactors      `yaml:"energy_factors" koanf:"energy_factors"`
	CO2Factors          map[string]float64 `yaml:"co2_factors" koanf:"co2_factors"`
	LanguageMultipliers map[string]float64 `yaml:"language_multipliers" koanf:"language_multipliers"`
	BuildFactors        BuildFactors       `yaml:"build_factors" koanf:"build_factors"`
	Equivalences        Equivalences       `yaml:"equivalences" koanf:"equivalences"`
	ImpactThresholds    []float64          `yaml:"impact_thresholds" koanf:"impact_thresholds"`
	DevelopmentShares   map[string]float64 `yaml:"development_shares" koanf:"development_shares"`
	HeavyDependencies   []string           `yaml:"heavy_dependencies" koanf:"heavy_dependencies"`
	HeavyFrameworks     []string           `yaml:"heavy_frameworks" koanf:"heavy_frameworks"`
	FrameworkRules      []FrameworkRule    `yaml:"framework_rules" koanf:"framework_rules"`
	ProjectTypes        []ProjectTypeRule  `yaml:"project_types" koanf:"project_types"`
	GridType            GridType           `yaml:"grid_type" koanf:"grid_type"`
	MaxWorkers          int                `yaml:"max_workers" koanf:"max_workers"`
	CacheSize           int                `yaml:"cache_size" koanf:"cache_size"`
	HistoryPath         string             `yaml:"history_path" koanf:"history_path"`
	Logging             LoggingConfig      `yaml:"logging" koanf:"logging"`

	// Extra holds top-level keys that greencode does not recognize. They are
	// preserved so that Save round-trips them, but nothing reads them.
	Extra map[string]any `yaml:",inline" koanf:"-"`
}

// EnergyFactors groups the per-component energy constants (kWh).
type EnergyFactors struct {
	// LinesOfCode maps a lowercase language name to kWh per line of code.
	// The "default" entry applies to code languages without their own factor.
	LinesOfCode map[string]float64 `yaml:"lines_of_code" koanf:"lines_of_code"`
	// Complexity maps a complexity tier to an energy multiplier.
	Complexity map[string]float64 `yaml:"complexity" koanf:"complexity"`
	// Frameworks maps a framework id to a fixed overhead; "default" covers the rest.
	Frameworks map[string]float64 `yaml:"frameworks" koanf:"frameworks"`
	// Activities maps a development activity to kWh per hour.
	Activities     map[string]float64 `yaml:"activities" koanf:"activities"`
	FileProcessing FileProcessing     `yaml:"file_processing" koanf:"file_processing"`
	Dependencies   DependencyFactors  `yaml:"dependencies" koanf:"dependencies"`
}

// FileProcessing describes the informational cost of scanning the tree itself.
type FileProcessing struct {
	PerFile float64 `yaml:"per_file" koanf:"per_file"`
	PerKB   float64 `yaml:"per_kb" koanf:"per_kb"`
}

// DependencyFactors is the kWh attributed to each declared dependency by tier.
type DependencyFactors struct {
	Heavy  float64 `yaml:"heavy" koanf:"heavy"`
	Medium float64 `yaml:"medium" koanf:"medium"`
}

// BuildFactors drives the build-system component.
type BuildFactors struct {
	BaseFactor float64            `yaml:"base_factor" koanf:"base_factor"`
	Tools      map[string]float64 `yaml:"tools" koanf:"tools"`
}

// Equivalences holds the kg CO2 of one unit of each everyday comparison.
type Equivalences struct {
	SmartphoneChargeKg float64 `yaml:"smartphone_charge_kg" koanf:"smartphone_charge_kg"`
	CarKmKg            float64 `yaml:"car_km_kg" koanf:"car_km_kg"`
	LightBulbHourKg    float64 `yaml:"light_bulb_hour_kg" koanf:"light_bulb_hour_kg"`
	TreeYearKg         float64 `yaml:"tree_year_kg" koanf:"tree_year_kg"`
}

// FrameworkRule lists the indicators that reveal a framework. Any satisfied
// indicator counts as one piece of evidence.
type FrameworkRule struct {
	Name         string   `yaml:"name" koanf:"name"`
	Language     string   `yaml:"language" koanf:"language"`
	Dependencies []string `yaml:"dependencies" koanf:"dependencies"`
	Files        []string `yaml:"files" koanf:"files"`
	Dirs         []string `yaml:"dirs" koanf:"dirs"`
}

// ProjectTypeRule scores a project type. Files are worth one point, dirs two,
// and every walked file matching one of Globs one.
type ProjectTypeRule struct {
	Name  string   `yaml:"name" koanf:"name"`
	Files []string `yaml:"files" koanf:"files"`
	Dirs  []string `yaml:"dirs" koanf:"dirs"`
	Globs []string `yaml:"globs" koanf:"globs"`
}

// LoggingConfig controls logrus output.
type LoggingConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}
