package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, GridGlobalAverage, cfg.GridType)
	assert.InDelta(t, 0.475, cfg.CO2Factors["global_average"], 1e-12)
	assert.InDelta(t, 0.012, cfg.CO2Factors["nuclear"], 1e-12)
	assert.Equal(t, []float64{0.001, 0.01, 0.1, 1.0}, cfg.ImpactThresholds)
	assert.Contains(t, cfg.EnergyFactors.LinesOfCode, "default")
	assert.Contains(t, cfg.EnergyFactors.Frameworks, "default")
	require.NoError(t, cfg.Validate())

	for _, g := range GridTypes {
		assert.Contains(t, cfg.CO2Factors, string(g))
	}
}

func TestDefaultConfigIsACopy(t *testing.T) {
	a := DefaultConfig()
	a.CO2Factors["nuclear"] = 99
	a.IgnorePatterns[0] = "changed"

	b := DefaultConfig()
	assert.InDelta(t, 0.012, b.CO2Factors["nuclear"], 1e-12)
	assert.Equal(t, DefaultIgnorePatterns[0], b.IgnorePatterns[0])
}

func TestDevelopmentSharesSumToOne(t *testing.T) {
	var total float64
	for _, v := range DefaultConfig().DevelopmentShares {
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	original := DefaultConfig()
	original.GridType = GridCoalHeavy
	original.MaxWorkers = 3
	original.IgnorePatterns = []string{"generated", "*.pb.go"}
	original.EnergyFactors.LinesOfCode["python"] = 0.5

	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, GridCoalHeavy, loaded.GridType)
	assert.Equal(t, 3, loaded.MaxWorkers)
	assert.Equal(t, []string{"generated", "*.pb.go"}, loaded.IgnorePatterns)
	assert.InDelta(t, 0.5, loaded.EnergyFactors.LinesOfCode["python"], 1e-12)
	assert.InDelta(t, 0.0000100, loaded.EnergyFactors.LinesOfCode["c"], 1e-15)
	assert.Len(t, loaded.FrameworkRules, len(DefaultFrameworkRules))
	assert.Equal(t, original.FrameworkRules[0].Name, loaded.FrameworkRules[0].Name)
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, GridGlobalAverage, cfg.GridType)
	assert.Equal(t, DefaultIgnorePatterns, cfg.IgnorePatterns)
}

func TestLoadPartialFileMergesWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := `grid_type: nuclear
co2_factors:
  nuclear: 0.02
energy_factors:
  frameworks:
    django: 0.9
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, GridNuclear, cfg.GridType)
	assert.InDelta(t, 0.02, cfg.CO2Factors["nuclear"], 1e-12)
	assert.InDelta(t, 0.475, cfg.CO2Factors["global_average"], 1e-12)
	assert.InDelta(t, 0.9, cfg.EnergyFactors.Frameworks["django"], 1e-12)
	assert.InDelta(t, 0.1, cfg.EnergyFactors.Frameworks["flask"], 1e-12)
	assert.InDelta(t, 0.05, cfg.EnergyFactors.Dependencies.Heavy, 1e-12)
}

func TestLoadPreservesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := `grid_type: natural_gas
team: platform
dashboards:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, GridNaturalGas, cfg.GridType)
	assert.Equal(t, "platform", cfg.Extra["team"])
	assert.Contains(t, cfg.Extra, "dashboards")
	assert.NotContains(t, cfg.Extra, "grid_type")

	out := filepath.Join(dir, "out.yml")
	require.NoError(t, cfg.Save(out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "team: platform")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GREENCODE_GRID_TYPE", "renewable_heavy")
	t.Setenv("GREENCODE_LOGGING__LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, GridRenewableHeavy, cfg.GridType)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("grid_type: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)

	cfg := LoadOrDefault(path)
	assert.Equal(t, GridGlobalAverage, cfg.GridType)
}

func TestLoadOrDefaultRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("grid_type: solar_punk\n"), 0644))

	cfg := LoadOrDefault(path)
	assert.Equal(t, GridGlobalAverage, cfg.GridType)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid defaults", modify: func(c *Config) {}, wantErr: false},
		{name: "empty grid", modify: func(c *Config) { c.GridType = "" }, wantErr: true},
		{name: "unknown grid", modify: func(c *Config) { c.GridType = "solar_punk" }, wantErr: true},
		{name: "negative line factor", modify: func(c *Config) { c.EnergyFactors.LinesOfCode["go"] = -1 }, wantErr: true},
		{name: "negative dependency factor", modify: func(c *Config) { c.EnergyFactors.Dependencies.Heavy = -0.1 }, wantErr: true},
		{name: "negative base factor", modify: func(c *Config) { c.BuildFactors.BaseFactor = -1 }, wantErr: true},
		{name: "short thresholds", modify: func(c *Config) { c.ImpactThresholds = []float64{0.1} }, wantErr: true},
		{name: "unordered thresholds", modify: func(c *Config) { c.ImpactThresholds = []float64{0.1, 0.01, 1, 2} }, wantErr: true},
		{name: "negative workers", modify: func(c *Config) { c.MaxWorkers = -1 }, wantErr: true},
		{name: "negative cache", modify: func(c *Config) { c.CacheSize = -1 }, wantErr: true},
		{name: "custom grid", modify: func(c *Config) {
			c.CO2Factors["hydro"] = 0.02
			c.GridType = "hydro"
		}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsHeavyDependency(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.IsHeavyDependency("tensorflow-gpu"))
	assert.True(t, cfg.IsHeavyDependency("Pandas"))
	assert.True(t, cfg.IsHeavyDependency("org.springframework.boot:spring-boot-starter-web"))
	assert.False(t, cfg.IsHeavyDependency("requests"))
	assert.False(t, cfg.IsHeavyDependency("lodash"))
}

func TestIsHeavyFramework(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.IsHeavyFramework("django"))
	assert.True(t, cfg.IsHeavyFramework("Spring"))
	assert.False(t, cfg.IsHeavyFramework("flask"))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitAndTrim(" a, b ,,c "))
	assert.Nil(t, splitAndTrim(""))
}

func TestDetectEcosystem(t *testing.T) {
	dir := t.TempDir()
	name, _ := detectEcosystem(dir)
	assert.Empty(t, name)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package]\n"), 0644))
	name, _ = detectEcosystem(dir)
	assert.Equal(t, "Rust", name)
}

func TestParseWorkers(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: " 4 ", want: 4},
		{in: "16", want: 16},
		{in: "", wantErr: true},
		{in: "four", wantErr: true},
		{in: "4x", wantErr: true},
		{in: "-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseWorkers(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
