package energy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/greencode/internal/config"
)

func sampleInput() Input {
	return Input{
		ComplexityTier:    "medium",
		LinesByLanguage:   map[string]int{"Python": 1200, "Go": 800, "YAML": 40},
		FilesByLanguage:   map[string]int{"Python": 10, "Go": 6, "YAML": 4},
		TotalFiles:        20,
		TotalBytes:        96 * 1024,
		Frameworks:        []string{"flask", "pandas"},
		TotalDependencies: 12,
		HeavyDependencies: 2,
		BuildTool:         "poetry",
		DevelopmentHours:  10,
		Grid:              config.GridGlobalAverage,
	}
}

func componentSum(c Components, pick func(Component) float64) float64 {
	return pick(c.CodeExecution) + pick(c.Frameworks) + pick(c.Dependencies) + pick(c.BuildSystem) + pick(c.Development)
}

func TestNuclearScenario(t *testing.T) {
	cfg := config.DefaultConfig()
	calc := New(cfg)

	report, err := calc.Calculate(Input{
		ComplexityTier:  "low",
		LinesByLanguage: map[string]int{"Python": 100},
		FilesByLanguage: map[string]int{"Python": 1},
		TotalFiles:      1,
		Grid:            config.GridNuclear,
	})
	require.NoError(t, err)

	want := 100 * cfg.EnergyFactors.LinesOfCode["python"] * cfg.EnergyFactors.Complexity["low"]
	assert.InDelta(t, want, report.TotalEnergyKWh, 1e-15)
	assert.InDelta(t, want*0.012, report.TotalCarbonKg, 1e-15)
	assert.Equal(t, "nuclear", report.GridType)
	assert.InDelta(t, 100.0, report.Components.CodeExecution.Percentage, 1e-9)
	assert.Zero(t, report.Components.BuildSystem.EnergyKWh)
	assert.Zero(t, report.Components.Development.EnergyKWh)
}

func TestPercentageClosure(t *testing.T) {
	report, err := New(config.DefaultConfig()).Calculate(sampleInput())
	require.NoError(t, err)
	require.Greater(t, report.TotalEnergyKWh, 0.0)

	pct := componentSum(report.Components, func(c Component) float64 { return c.Percentage })
	assert.InDelta(t, 100.0, pct, 1e-9)

	energy := componentSum(report.Components, func(c Component) float64 { return c.EnergyKWh })
	assert.InDelta(t, report.TotalEnergyKWh, energy, 1e-12)

	var langPct float64
	for _, share := range report.LanguageBreakdown {
		langPct += share.Percentage
	}
	assert.InDelta(t, 100.0, langPct, 1e-9)
	assert.InDelta(t, 50.0, report.LanguageBreakdown["Python"].Percentage, 1e-9)
}

func TestZeroInput(t *testing.T) {
	report, err := New(config.DefaultConfig()).Calculate(Input{ComplexityTier: "low"})
	require.NoError(t, err)

	assert.Zero(t, report.TotalEnergyKWh)
	assert.Zero(t, report.TotalCarbonKg)
	assert.Zero(t, componentSum(report.Components, func(c Component) float64 { return c.Percentage }))
	assert.Empty(t, report.LanguageBreakdown)
	assert.Equal(t, ImpactMinimal, report.ComparisonMetrics.ImpactLevel)
	assert.Equal(t, string(config.GridGlobalAverage), report.GridType)
	assert.NotNil(t, report.OptimizationPotential.Opportunities)
}

func TestHeavyDependencyMonotonicity(t *testing.T) {
	calc := New(config.DefaultConfig())

	base := sampleInput()
	before, err := calc.Calculate(base)
	require.NoError(t, err)

	more := sampleInput()
	more.TotalDependencies++
	more.HeavyDependencies++
	after, err := calc.Calculate(more)
	require.NoError(t, err)

	assert.Greater(t, after.Components.Dependencies.EnergyKWh, before.Components.Dependencies.EnergyKWh)
	assert.GreaterOrEqual(t, after.TotalCarbonKg, before.TotalCarbonKg)
}

func TestGridLinearity(t *testing.T) {
	cfg := config.DefaultConfig()
	calc := New(cfg)

	in := sampleInput()
	in.Grid = config.GridGlobalAverage
	ref, err := calc.Calculate(in)
	require.NoError(t, err)

	for _, grid := range config.GridTypes {
		in.Grid = grid
		report, err := calc.Calculate(in)
		require.NoError(t, err, grid)

		intensity := cfg.CO2Factors[string(grid)]
		assert.Equal(t, ref.TotalEnergyKWh, report.TotalEnergyKWh, grid)
		assert.InDelta(t, ref.TotalEnergyKWh*intensity, report.TotalCarbonKg, 1e-12, grid)
		assert.Equal(t, intensity, report.CarbonIntensity, grid)
		assert.Equal(t, ref.Components.CodeExecution.Percentage, report.Components.CodeExecution.Percentage, grid)
	}
}

func TestUnknownGrid(t *testing.T) {
	in := sampleInput()
	in.Grid = "solar_punk"
	_, err := New(config.DefaultConfig()).Calculate(in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownGrid))
}

func TestEmptyGridUsesConfigured(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GridType = config.GridCoalHeavy

	in := sampleInput()
	in.Grid = ""
	report, err := New(cfg).Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, "coal_heavy", report.GridType)
	assert.InDelta(t, 0.82, report.CarbonIntensity, 1e-12)
}

func TestCodeExecution(t *testing.T) {
	cfg := config.DefaultConfig()
	calc := New(cfg)

	t.Run("markup contributes nothing", func(t *testing.T) {
		assert.Zero(t, calc.CodeExecution(map[string]int{"Markdown": 500, "JSON": 200}, "low"))
	})

	t.Run("unknown code language uses default", func(t *testing.T) {
		got := calc.CodeExecution(map[string]int{"Zig": 10}, "low")
		assert.InDelta(t, 10*cfg.EnergyFactors.LinesOfCode["default"], got, 1e-15)
	})

	t.Run("tier multiplier applies", func(t *testing.T) {
		low := calc.CodeExecution(map[string]int{"Go": 100}, "low")
		high := calc.CodeExecution(map[string]int{"Go": 100}, "high")
		assert.InDelta(t, low*cfg.EnergyFactors.Complexity["high"], high, 1e-15)
	})

	t.Run("unknown tier is neutral", func(t *testing.T) {
		assert.Equal(t,
			calc.CodeExecution(map[string]int{"Go": 100}, "low"),
			calc.CodeExecution(map[string]int{"Go": 100}, "bogus"))
	})
}

func TestFrameworksAndDependencies(t *testing.T) {
	calc := New(config.DefaultConfig())

	assert.InDelta(t, 0.5+0.1, calc.Frameworks([]string{"flask", "django"}), 1e-12)
	assert.InDelta(t, 0.2, calc.Frameworks([]string{"homegrown"}), 1e-12)
	assert.Zero(t, calc.Frameworks(nil))

	assert.InDelta(t, 2*0.05+3*0.01, calc.Dependencies(5, 2), 1e-12)
	assert.Zero(t, calc.Dependencies(0, 0))
}

func TestBuildSystem(t *testing.T) {
	calc := New(config.DefaultConfig())

	assert.Zero(t, calc.BuildSystem(5000, ""))
	assert.InDelta(t, 5*0.01*1.5, calc.BuildSystem(5000, "maven"), 1e-12)
	assert.InDelta(t, 5*0.01*1.0, calc.BuildSystem(5000, "scons"), 1e-12)
}

func TestCodeLinesExcludesMarkupAndData(t *testing.T) {
	calc := New(config.DefaultConfig())

	lines := map[string]int{"Python": 1200, "Go": 800, "YAML": 40, "JSON": 500, "Markdown": 300, "SQL": 60, "Brainfuck": 7}
	assert.Equal(t, 1200+800+60+7, calc.CodeLines(lines))
	assert.Zero(t, calc.CodeLines(nil))
}

func TestBuildSystemIgnoresDataLines(t *testing.T) {
	calc := New(config.DefaultConfig())
	in := Input{
		ComplexityTier:  "low",
		LinesByLanguage: map[string]int{"Java": 4000},
		FilesByLanguage: map[string]int{"Java": 40},
		TotalFiles:      40,
		BuildTool:       "maven",
		Grid:            config.GridGlobalAverage,
	}
	base, err := calc.Calculate(in)
	require.NoError(t, err)
	assert.InDelta(t, calc.BuildSystem(4000, "maven"), base.Components.BuildSystem.EnergyKWh, 1e-12)

	in.LinesByLanguage = map[string]int{"Java": 4000, "JSON": 20000, "YAML": 3000}
	in.FilesByLanguage = map[string]int{"Java": 40, "JSON": 10, "YAML": 5}
	in.TotalFiles = 55
	withData, err := calc.Calculate(in)
	require.NoError(t, err)

	assert.InDelta(t, base.Components.BuildSystem.EnergyKWh, withData.Components.BuildSystem.EnergyKWh, 1e-12)
	assert.InDelta(t, base.Components.CodeExecution.EnergyKWh, withData.Components.CodeExecution.EnergyKWh, 1e-12)
}

func TestDevelopment(t *testing.T) {
	calc := New(config.DefaultConfig())

	assert.Zero(t, calc.Development(0))
	want := 10 * (0.40*0.050 + 0.20*0.060 + 0.15*0.080 + 0.10*0.150 + 0.10*0.040 + 0.05*0.100)
	assert.InDelta(t, want, calc.Development(10), 1e-12)
}

func TestImpactLevel(t *testing.T) {
	calc := New(config.DefaultConfig())

	tests := []struct {
		kg   float64
		want string
	}{
		{0, ImpactMinimal},
		{0.0009, ImpactMinimal},
		{0.001, ImpactLow},
		{0.05, ImpactMedium},
		{0.5, ImpactHigh},
		{1.0, ImpactVeryHigh},
		{250, ImpactVeryHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, calc.ImpactLevel(tt.kg), "kg=%v", tt.kg)
	}
}

func TestComparison(t *testing.T) {
	calc := New(config.DefaultConfig())
	m := calc.Comparison(21.77)

	assert.InDelta(t, 1.0, m.TreeYears, 1e-9)
	assert.InDelta(t, 21.77/0.12, m.CarKm, 1e-9)
	assert.InDelta(t, 21.77/0.00822, m.SmartphoneCharges, 1e-6)
	assert.Equal(t, ImpactVeryHigh, m.ImpactLevel)
}

func TestOptimizationPotential(t *testing.T) {
	calc := New(config.DefaultConfig())

	in := sampleInput()
	report, err := calc.Calculate(in)
	require.NoError(t, err)
	assert.Zero(t, report.OptimizationPotential.Percentage)
	assert.Empty(t, report.OptimizationPotential.Opportunities)

	in.ComplexityTier = "very_high"
	in.TotalDependencies = 20
	in.HeavyDependencies = 6
	in.Frameworks = []string{"django", "spring"}
	report, err = calc.Calculate(in)
	require.NoError(t, err)

	opp := report.OptimizationPotential
	assert.InDelta(t, 50.0, opp.Percentage, 1e-12)
	require.Len(t, opp.Opportunities, 3)
	assert.Equal(t, "reduce_complexity", opp.Opportunities[0].Name)
	assert.Equal(t, "trim_heavy_dependencies", opp.Opportunities[1].Name)
	assert.Equal(t, "lighter_framework", opp.Opportunities[2].Name)
	assert.InDelta(t, report.TotalEnergyKWh*0.5, opp.EnergySavingsKWh, 1e-12)
	assert.InDelta(t, report.TotalCarbonKg*0.5, opp.CarbonSavingsKg, 1e-12)
}

func TestMethodology(t *testing.T) {
	cfg := config.DefaultConfig()
	report, err := New(cfg).Calculate(sampleInput())
	require.NoError(t, err)

	m := report.Methodology
	assert.Equal(t, ModelVersion, m.ModelVersion)
	assert.Equal(t, "poetry", m.BuildTool)
	assert.InDelta(t, 0.9, m.BuildMultiplier, 1e-12)
	assert.InDelta(t, 1.3, m.ComplexityMultiplier, 1e-12)
	assert.InDelta(t, 20*1e-6+96*2e-7, m.AnalysisOverheadKWh, 1e-15)
	assert.NotEmpty(t, m.Notes)
}

func TestCalculateDeterministic(t *testing.T) {
	calc := New(config.DefaultConfig())
	a, err := calc.Calculate(sampleInput())
	require.NoError(t, err)
	b, err := calc.Calculate(sampleInput())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
