package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/greencode/internal/config"
	"github.com/ziadkadry99/greencode/internal/energy"
)

var sampleProject = filepath.Join("..", "..", "testdata", "sample_project")

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func pythonLines(n int) string {
	var b strings.Builder
	b.WriteString("# generated module\n\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "value_%d = %d\n", i, i)
	}
	return b.String()
}

func TestAnalyzeSampleProject(t *testing.T) {
	report, err := New(config.DefaultConfig()).AnalyzeProject(context.Background(), sampleProject, Options{})
	require.NoError(t, err)

	assert.Equal(t, "sample_project", report.ProjectName)
	assert.Equal(t, "Go", report.LanguageDetection.PrimaryLanguage)
	assert.Equal(t, 6, report.ProjectStructure.TotalFiles)
	assert.Equal(t, 2, report.ProjectStructure.FileTypes[".go"])
	assert.Equal(t, []string{"flask", "pandas"}, report.FrameworkInfo.Detected)
	assert.Equal(t, 3, report.Dependencies.TotalDependencies)
	assert.Equal(t, []string{"pandas"}, report.Dependencies.Heavy)
	assert.Greater(t, report.Features.Lines, 0)
	assert.Empty(t, report.Features.FailedFiles)
	assert.Nil(t, report.AnalyzedAt)

	c := report.CarbonFootprint
	require.NotNil(t, c)
	assert.Greater(t, c.TotalEnergyKWh, 0.0)
	assert.Equal(t, string(config.GridGlobalAverage), c.GridType)
	assert.InDelta(t, c.TotalEnergyKWh*0.475, c.TotalCarbonKg, 1e-12)
	assert.InDelta(t, 0.1+0.3, c.Components.Frameworks.EnergyKWh, 1e-12)
	assert.NotEmpty(t, report.Recommendations)
}

func TestAnalyzeProjectDeterministic(t *testing.T) {
	run := func(workers int) []byte {
		report, err := New(config.DefaultConfig()).AnalyzeProject(context.Background(), sampleProject, Options{Workers: workers, DevelopmentHours: 4})
		require.NoError(t, err)
		data, err := json.Marshal(report)
		require.NoError(t, err)
		return data
	}

	first := run(1)
	assert.Equal(t, string(first), string(run(1)))
	assert.Equal(t, string(first), string(run(8)))
}

func TestAnalyzeProjectCachedRunMatches(t *testing.T) {
	a := New(config.DefaultConfig())
	first, err := a.AnalyzeProject(context.Background(), sampleProject, Options{})
	require.NoError(t, err)
	second, err := a.AnalyzeProject(context.Background(), sampleProject, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalyzeProjectNotFound(t *testing.T) {
	_, err := New(nil).AnalyzeProject(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProjectNotFound))
}

func TestAnalyzeProjectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil).AnalyzeProject(ctx, sampleProject, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeProjectUnknownGrid(t *testing.T) {
	_, err := New(nil).AnalyzeProject(context.Background(), sampleProject, Options{Grid: "solar_punk"})
	assert.ErrorIs(t, err, energy.ErrUnknownGrid)
}

func TestAnalyzeEmptyProject(t *testing.T) {
	report, err := New(nil).AnalyzeProject(context.Background(), t.TempDir(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, report.ProjectStructure.TotalFiles)
	assert.Equal(t, "unknown", report.LanguageDetection.PrimaryLanguage)
	assert.Empty(t, report.ProjectStructure.FileTypes)

	c := report.CarbonFootprint
	assert.Zero(t, c.TotalEnergyKWh)
	assert.Zero(t, c.TotalCarbonKg)
	for _, comp := range []energy.Component{
		c.Components.CodeExecution, c.Components.Frameworks, c.Components.Dependencies,
		c.Components.BuildSystem, c.Components.Development,
	} {
		assert.Zero(t, comp.EnergyKWh)
		assert.Zero(t, comp.Percentage)
	}
}

func TestIgnoredDirectoriesNeverCount(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"app.py":                             pythonLines(5),
		"node_modules/left/pad.js":           "module.exports = 1;\n",
		"dist/bundle.js":                     "console.log(1);\n",
		"pkg/__pycache__/app.cpython-312.py": "x = 1\n",
	})

	report, err := New(nil).AnalyzeProject(context.Background(), root, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.ProjectStructure.TotalFiles)
	assert.Equal(t, map[string]int{".py": 1}, report.ProjectStructure.FileTypes)
	assert.NotContains(t, report.LanguageDetection.Languages, "JavaScript")
	assert.Equal(t, 5, report.Features.Lines)
}

func TestNuclearSingleLanguageScenario(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"model.py": pythonLines(100)})

	cfg := config.DefaultConfig()
	report, err := New(cfg).AnalyzeProject(context.Background(), root, Options{Grid: config.GridNuclear})
	require.NoError(t, err)

	require.Equal(t, 100, report.Features.Lines)
	require.Equal(t, "low", report.ProjectStructure.Complexity)
	want := 100 * cfg.EnergyFactors.LinesOfCode["python"] * cfg.EnergyFactors.Complexity["low"]
	assert.InDelta(t, want, report.CarbonFootprint.TotalEnergyKWh, 1e-15)
	assert.InDelta(t, want*0.012, report.CarbonFootprint.TotalCarbonKg, 1e-15)
}

func TestGridSwitchOnlyChangesCarbon(t *testing.T) {
	a := New(nil)
	coal, err := a.AnalyzeProject(context.Background(), sampleProject, Options{Grid: config.GridCoalHeavy})
	require.NoError(t, err)
	green, err := a.AnalyzeProject(context.Background(), sampleProject, Options{Grid: config.GridRenewableHeavy})
	require.NoError(t, err)

	assert.Equal(t, coal.CarbonFootprint.TotalEnergyKWh, green.CarbonFootprint.TotalEnergyKWh)
	assert.InDelta(t, coal.CarbonFootprint.TotalEnergyKWh*0.82, coal.CarbonFootprint.TotalCarbonKg, 1e-12)
	assert.InDelta(t, green.CarbonFootprint.TotalEnergyKWh*0.05, green.CarbonFootprint.TotalCarbonKg, 1e-12)
	assert.Equal(t, coal.Features, green.Features)
}

func TestMalformedManifestScenario(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"requirements.txt": "requests==2.31\nclick\n",
		"package.json":     `{"dependencies": {"react": `,
		"main.py":          pythonLines(3),
	})

	report, err := New(nil).AnalyzeProject(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Dependencies.TotalDependencies)
	assert.Len(t, report.Dependencies.Manifests, 1)
}

func TestProgressReportsEveryFile(t *testing.T) {
	a := New(nil)
	var calls, last, total int
	a.SetProgressFunc(func(processed, tot int, stage string) {
		calls++
		last, total = processed, tot
		assert.Equal(t, "extracting features", stage)
	})

	report, err := a.AnalyzeProject(context.Background(), sampleProject, Options{Workers: 3})
	require.NoError(t, err)
	assert.Equal(t, report.ProjectStructure.TotalFiles, calls)
	assert.Equal(t, calls, last)
	assert.Equal(t, calls, total)
}

func TestStampOption(t *testing.T) {
	report, err := New(nil).AnalyzeProject(context.Background(), sampleProject, Options{Stamp: true})
	require.NoError(t, err)
	require.NotNil(t, report.AnalyzedAt)
	assert.False(t, report.AnalyzedAt.IsZero())
}

func TestAnalyzeSnippetEmpty(t *testing.T) {
	report, err := New(nil).AnalyzeSnippet("", "python", Options{})
	require.NoError(t, err)

	assert.Equal(t, "Python", report.Language)
	assert.Zero(t, report.Features.Lines)
	assert.Zero(t, report.Features.ComplexityScore)
	assert.Zero(t, report.CarbonFootprint.TotalEnergyKWh)
	assert.NotNil(t, report.Recommendations)
}

func TestAnalyzeSnippetNestedLoops(t *testing.T) {
	code := `def pairs(items):
    out = []
    for a in items:
        for b in items:
            out.append((a, b))
    return out
`
	report, err := New(nil).AnalyzeSnippet(code, "py", Options{Grid: config.GridNuclear})
	require.NoError(t, err)

	assert.Equal(t, "O(n²)", report.Features.RuntimeComplexity)
	assert.Greater(t, report.CarbonFootprint.TotalEnergyKWh, 0.0)
	assert.Equal(t, "nuclear", report.CarbonFootprint.GridType)

	var nested bool
	for _, r := range report.Recommendations {
		if strings.Contains(r.Message, "nested loops") {
			nested = true
		}
	}
	assert.True(t, nested)
}

func TestAnalyzeSnippetUnknownLanguage(t *testing.T) {
	report, err := New(nil).AnalyzeSnippet("x := 1\n", "", Options{})
	require.NoError(t, err)
	assert.Equal(t, "unknown", report.Language)
}

func TestAnalyzeSnippetUnknownGrid(t *testing.T) {
	_, err := New(nil).AnalyzeSnippet("print(1)\n", "python", Options{Grid: "solar_punk"})
	assert.ErrorIs(t, err, energy.ErrUnknownGrid)
}

func TestCompareProjects(t *testing.T) {
	base := t.TempDir()
	small := filepath.Join(base, "small")
	large := filepath.Join(base, "large")
	writeFiles(t, small, map[string]string{"a.py": pythonLines(10)})
	writeFiles(t, large, map[string]string{"a.py": pythonLines(400), "b.py": pythonLines(400)})

	cmp, err := New(nil).CompareProjects(context.Background(), []string{large, small}, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"large", "small"}, cmp.Order)
	assert.Equal(t, "small", cmp.MostEfficient)
	assert.Equal(t, "large", cmp.LeastEfficient)
	assert.InDelta(t, 1.5, cmp.Averages.Files, 1e-12)
	assert.InDelta(t, 405.0, cmp.Averages.Lines, 1e-12)
	assert.InDelta(t,
		(cmp.Projects["small"].TotalCarbonKg+cmp.Projects["large"].TotalCarbonKg)/2,
		cmp.Averages.CarbonKg, 1e-12)
}

func TestCompareProjectsDuplicateNames(t *testing.T) {
	base := t.TempDir()
	first := filepath.Join(base, "one", "app")
	second := filepath.Join(base, "two", "app")
	writeFiles(t, first, map[string]string{"main.py": pythonLines(2)})
	writeFiles(t, second, map[string]string{"main.py": pythonLines(2)})

	cmp, err := New(nil).CompareProjects(context.Background(), []string{first, second}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "app-2"}, cmp.Order)
	assert.Equal(t, "app", cmp.MostEfficient)
}

func TestCompareProjectsErrors(t *testing.T) {
	_, err := New(nil).CompareProjects(context.Background(), nil, Options{})
	assert.Error(t, err)

	_, err = New(nil).CompareProjects(context.Background(), []string{sampleProject, filepath.Join(t.TempDir(), "nope")}, Options{})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}
