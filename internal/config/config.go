package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
	yamlv3 "gopkg.in/yaml.v3"
)

// FileName is the conventional config file looked up in the working directory.
const FileName = ".greencode.yml"

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: GREENCODE_LOGGING__LEVEL -> logging.level.
const EnvPrefix = "GREENCODE_"

// knownKeys are the top-level keys Config understands. Anything else in the
// file ends up in Config.Extra.
var knownKeys = map[string]bool{
	"ignore_patterns":      true,
	"energy_factors":       true,
	"co2_factors":          true,
	"language_multipliers": true,
	"build_factors":        true,
	"equivalences":         true,
	"impact_thresholds":    true,
	"development_shares":   true,
	"heavy_dependencies":   true,
	"heavy_frameworks":     true,
	"framework_rules":      true,
	"project_types":        true,
	"grid_type":            true,
	"max_workers":          true,
	"cache_size":           true,
	"history_path":         true,
	"logging":              true,
}

// defaultsProvider feeds DefaultConfig into koanf as YAML so that file and
// env layers merge key by key on top of it.
type defaultsProvider struct{}

func (defaultsProvider) ReadBytes() ([]byte, error) {
	return yamlv3.Marshal(DefaultConfig())
}

func (defaultsProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("defaults provider does not support Read")
}

// Load builds the configuration from the built-in defaults, the given YAML
// file (if it exists), and GREENCODE_* environment overrides, in that order.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(defaultsProvider{}, yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	extra := map[string]any{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			fk := koanf.New(".")
			if err := fk.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
			for key, val := range fk.Raw() {
				if !knownKeys[key] {
					extra[key] = val
				}
			}
			if err := k.Merge(fk); err != nil {
				return nil, fmt.Errorf("merging config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if len(extra) > 0 {
		cfg.Extra = extra
	}
	return cfg, nil
}

// LoadOrDefault is Load that never fails: a missing, malformed or invalid
// file yields the defaults and a logged warning.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("using default configuration")
		return DefaultConfig()
	}
	return cfg
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.GridType == "" {
		return fmt.Errorf("grid_type is required")
	}
	if _, ok := c.CO2Factors[string(c.GridType)]; !ok {
		return fmt.Errorf("invalid grid_type %q: must be one of %s", c.GridType, strings.Join(c.GridNames(), ", "))
	}

	tables := map[string]map[string]float64{
		"energy_factors.lines_of_code": c.EnergyFactors.LinesOfCode,
		"energy_factors.complexity":    c.EnergyFactors.Complexity,
		"energy_factors.frameworks":    c.EnergyFactors.Frameworks,
		"energy_factors.activities":    c.EnergyFactors.Activities,
		"co2_factors":                  c.CO2Factors,
		"language_multipliers":         c.LanguageMultipliers,
		"build_factors.tools":          c.BuildFactors.Tools,
		"development_shares":           c.DevelopmentShares,
	}
	for name, table := range tables {
		for key, v := range table {
			if v < 0 {
				return fmt.Errorf("%s.%s must be non-negative, got %v", name, key, v)
			}
		}
	}

	if c.EnergyFactors.Dependencies.Heavy < 0 || c.EnergyFactors.Dependencies.Medium < 0 {
		return fmt.Errorf("energy_factors.dependencies must be non-negative")
	}
	if c.BuildFactors.BaseFactor < 0 {
		return fmt.Errorf("build_factors.base_factor must be non-negative")
	}

	if len(c.ImpactThresholds) != 4 {
		return fmt.Errorf("impact_thresholds needs 4 ascending values, got %d", len(c.ImpactThresholds))
	}
	for i := 1; i < len(c.ImpactThresholds); i++ {
		if c.ImpactThresholds[i] <= c.ImpactThresholds[i-1] {
			return fmt.Errorf("impact_thresholds must be strictly ascending")
		}
	}

	if c.MaxWorkers < 0 {
		return fmt.Errorf("max_workers must be non-negative")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative")
	}

	return nil
}

// GridNames returns the configured grid profiles, sorted.
func (c *Config) GridNames() []string {
	names := make([]string, 0, len(c.CO2Factors))
	for name := range c.CO2Factors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsHeavyDependency reports whether a package name matches the heavy denylist.
func (c *Config) IsHeavyDependency(name string) bool {
	lower := strings.ToLower(name)
	for _, heavy := range c.HeavyDependencies {
		if heavy != "" && strings.Contains(lower, strings.ToLower(heavy)) {
			return true
		}
	}
	return false
}

// IsHeavyFramework reports whether the framework id is on the heavy list.
func (c *Config) IsHeavyFramework(name string) bool {
	for _, fw := range c.HeavyFrameworks {
		if strings.EqualFold(fw, name) {
			return true
		}
	}
	return false
}
