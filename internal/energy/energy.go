// Package energy converts static project measurements into energy (kWh) and
// carbon (kg CO2) estimates. Every constant comes from config.Config.
package energy

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ziadkadry99/greencode/internal/config"
	"github.com/ziadkadry99/greencode/internal/walker"
)

// ModelVersion identifies the estimation model in report methodology.
const ModelVersion = "greencode-static-1"

// ErrUnknownGrid is returned when the grid type has no intensity constant.
var ErrUnknownGrid = errors.New("unknown grid type")

// Impact levels from lowest to highest.
const (
	ImpactMinimal  = "minimal"
	ImpactLow      = "low"
	ImpactMedium   = "medium"
	ImpactHigh     = "high"
	ImpactVeryHigh = "very_high"
)

var impactLevels = []string{ImpactMinimal, ImpactLow, ImpactMedium, ImpactHigh, ImpactVeryHigh}

// Input is everything the model needs from the earlier pipeline stages.
type Input struct {
	ComplexityTier    string
	LinesByLanguage   map[string]int
	FilesByLanguage   map[string]int
	TotalFiles        int
	TotalBytes        int64
	Frameworks        []string
	TotalDependencies int
	HeavyDependencies int
	BuildTool         string
	// DevelopmentHours is optional; 0 leaves the development component empty.
	DevelopmentHours float64
	Grid             config.GridType
}

// Component is the energy and carbon attributed to one contributor.
type Component struct {
	EnergyKWh  float64 `json:"energy_kwh" yaml:"energy_kwh"`
	CarbonKg   float64 `json:"carbon_kg" yaml:"carbon_kg"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Components is the five-way energy breakdown.
type Components struct {
	CodeExecution Component `json:"code_execution" yaml:"code_execution"`
	Frameworks    Component `json:"frameworks" yaml:"frameworks"`
	Dependencies  Component `json:"dependencies" yaml:"dependencies"`
	BuildSystem   Component `json:"build_system" yaml:"build_system"`
	Development   Component `json:"development" yaml:"development"`
}

// LanguageShare attributes part of the total to one language by file count.
type LanguageShare struct {
	Files      int     `json:"files" yaml:"files"`
	EnergyKWh  float64 `json:"energy_kwh" yaml:"energy_kwh"`
	CarbonKg   float64 `json:"carbon_kg" yaml:"carbon_kg"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Opportunity is one triggered optimization rule.
type Opportunity struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Percentage  float64 `json:"percentage" yaml:"percentage"`
}

// OptimizationPotential sums the triggered opportunities. The percentage is
// additive and not capped.
type OptimizationPotential struct {
	Percentage       float64       `json:"percentage" yaml:"percentage"`
	EnergySavingsKWh float64       `json:"energy_savings_kwh" yaml:"energy_savings_kwh"`
	CarbonSavingsKg  float64       `json:"carbon_savings_kg" yaml:"carbon_savings_kg"`
	Opportunities    []Opportunity `json:"opportunities" yaml:"opportunities"`
}

// ComparisonMetrics expresses the total carbon in everyday equivalents.
type ComparisonMetrics struct {
	ImpactLevel       string  `json:"impact_level" yaml:"impact_level"`
	SmartphoneCharges float64 `json:"smartphone_charges" yaml:"smartphone_charges"`
	CarKm             float64 `json:"car_km" yaml:"car_km"`
	LightBulbHours    float64 `json:"light_bulb_hours" yaml:"light_bulb_hours"`
	TreeYears         float64 `json:"tree_years" yaml:"tree_years"`
}

// Methodology records the constants a report was computed with.
type Methodology struct {
	ModelVersion         string   `json:"model_version" yaml:"model_version"`
	Approach             string   `json:"approach" yaml:"approach"`
	GridType             string   `json:"grid_type" yaml:"grid_type"`
	CarbonIntensity      float64  `json:"carbon_intensity_kg_per_kwh" yaml:"carbon_intensity_kg_per_kwh"`
	ComplexityTier       string   `json:"complexity_tier" yaml:"complexity_tier"`
	ComplexityMultiplier float64  `json:"complexity_multiplier" yaml:"complexity_multiplier"`
	BuildTool            string   `json:"build_tool,omitempty" yaml:"build_tool,omitempty"`
	BuildMultiplier      float64  `json:"build_multiplier,omitempty" yaml:"build_multiplier,omitempty"`
	DevelopmentHours     float64  `json:"development_hours" yaml:"development_hours"`
	AnalysisOverheadKWh  float64  `json:"analysis_overhead_kwh" yaml:"analysis_overhead_kwh"`
	Notes                []string `json:"notes" yaml:"notes"`
}

// CarbonReport is the terminal artifact of the energy model.
type CarbonReport struct {
	TotalCarbonKg         float64                  `json:"total_carbon_kg" yaml:"total_carbon_kg"`
	TotalEnergyKWh        float64                  `json:"total_energy_kwh" yaml:"total_energy_kwh"`
	CarbonIntensity       float64                  `json:"carbon_intensity_kg_per_kwh" yaml:"carbon_intensity_kg_per_kwh"`
	GridType              string                   `json:"grid_type" yaml:"grid_type"`
	Components            Components               `json:"components" yaml:"components"`
	LanguageBreakdown     map[string]LanguageShare `json:"language_breakdown" yaml:"language_breakdown"`
	OptimizationPotential OptimizationPotential    `json:"optimization_potential" yaml:"optimization_potential"`
	ComparisonMetrics     ComparisonMetrics        `json:"comparison_metrics" yaml:"comparison_metrics"`
	Methodology           Methodology              `json:"methodology" yaml:"methodology"`
}

// Calculator evaluates the model with one configuration.
type Calculator struct {
	cfg *config.Config
}

// New returns a Calculator for cfg.
func New(cfg *config.Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Intensity returns kg CO2 per kWh for grid.
func (c *Calculator) Intensity(grid config.GridType) (float64, error) {
	v, ok := c.cfg.CO2Factors[string(grid)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownGrid, grid)
	}
	return v, nil
}

// Calculate evaluates every component and wraps the result in a report.
func (c *Calculator) Calculate(in Input) (*CarbonReport, error) {
	grid := in.Grid
	if grid == "" {
		grid = c.cfg.GridType
	}
	intensity, err := c.Intensity(grid)
	if err != nil {
		return nil, err
	}

	tierMult := c.complexityMultiplier(in.ComplexityTier)
	buildMult := c.buildMultiplier(in.BuildTool)

	energies := [5]float64{
		c.CodeExecution(in.LinesByLanguage, in.ComplexityTier),
		c.Frameworks(in.Frameworks),
		c.Dependencies(in.TotalDependencies, in.HeavyDependencies),
		c.BuildSystem(c.CodeLines(in.LinesByLanguage), in.BuildTool),
		c.Development(in.DevelopmentHours),
	}
	var total float64
	for _, e := range energies {
		total += e
	}

	component := func(e float64) Component {
		return Component{EnergyKWh: e, CarbonKg: e * intensity, Percentage: percentage(e, total)}
	}

	totalCarbon := total * intensity
	report := &CarbonReport{
		TotalCarbonKg:   totalCarbon,
		TotalEnergyKWh:  total,
		CarbonIntensity: intensity,
		GridType:        string(grid),
		Components: Components{
			CodeExecution: component(energies[0]),
			Frameworks:    component(energies[1]),
			Dependencies:  component(energies[2]),
			BuildSystem:   component(energies[3]),
			Development:   component(energies[4]),
		},
		LanguageBreakdown:     c.languageBreakdown(in.FilesByLanguage, in.TotalFiles, total, intensity),
		OptimizationPotential: c.optimization(in, total, intensity),
		ComparisonMetrics:     c.Comparison(totalCarbon),
		Methodology: Methodology{
			ModelVersion:         ModelVersion,
			Approach:             "static analysis: lines x language factor x complexity multiplier, plus framework, dependency, build and development overheads",
			GridType:             string(grid),
			CarbonIntensity:      intensity,
			ComplexityTier:       in.ComplexityTier,
			ComplexityMultiplier: tierMult,
			BuildTool:            in.BuildTool,
			BuildMultiplier:      buildMult,
			DevelopmentHours:     in.DevelopmentHours,
			AnalysisOverheadKWh:  c.AnalysisOverhead(in.TotalFiles, in.TotalBytes),
			Notes: []string{
				"Estimates are model-derived from static properties and are not measurements.",
				"Language breakdown is proportional to file count.",
				"Analysis overhead is informational and not part of the totals.",
			},
		},
	}
	return report, nil
}

// CodeLines counts the lines that the model treats as code: languages with
// their own line factor, plus code languages falling back to the default.
// Markup and data lines are excluded, the same set CodeExecution bills.
func (c *Calculator) CodeLines(linesByLanguage map[string]int) int {
	factors := c.cfg.EnergyFactors.LinesOfCode
	n := 0
	for lang, lines := range linesByLanguage {
		if _, ok := factors[walker.Key(lang)]; ok || walker.IsCode(lang) {
			n += lines
		}
	}
	return n
}

// CodeExecution is sum over languages of lines x per-language factor x tier
// multiplier. Languages without a factor use the default factor when they
// are code, and contribute nothing when they are markup or data.
func (c *Calculator) CodeExecution(linesByLanguage map[string]int, tier string) float64 {
	mult := c.complexityMultiplier(tier)
	factors := c.cfg.EnergyFactors.LinesOfCode

	var total float64
	for _, lang := range sortedKeys(linesByLanguage) {
		factor, ok := factors[walker.Key(lang)]
		if !ok {
			if !walker.IsCode(lang) {
				continue
			}
			factor = factors["default"]
		}
		total += float64(linesByLanguage[lang]) * factor * mult
	}
	return total
}

// Frameworks sums the fixed overhead of each framework.
func (c *Calculator) Frameworks(names []string) float64 {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	overheads := c.cfg.EnergyFactors.Frameworks
	var total float64
	for _, name := range sorted {
		v, ok := overheads[name]
		if !ok {
			v = overheads["default"]
		}
		total += v
	}
	return total
}

// Dependencies is heavy x heavy factor + (total - heavy) x medium factor.
func (c *Calculator) Dependencies(total, heavy int) float64 {
	f := c.cfg.EnergyFactors.Dependencies
	medium := total - heavy
	if medium < 0 {
		medium = 0
	}
	return float64(heavy)*f.Heavy + float64(medium)*f.Medium
}

// BuildSystem is (lines / 1000) x base factor x tool multiplier, or 0
// without a build tool.
func (c *Calculator) BuildSystem(totalLines int, tool string) float64 {
	if tool == "" {
		return 0
	}
	return float64(totalLines) / 1000 * c.cfg.BuildFactors.BaseFactor * c.buildMultiplier(tool)
}

// Development spreads hours over the activity shares and applies each
// activity's hourly rate.
func (c *Calculator) Development(hours float64) float64 {
	if hours <= 0 {
		return 0
	}
	rates := c.cfg.EnergyFactors.Activities
	var total float64
	for _, activity := range sortedKeys(c.cfg.DevelopmentShares) {
		total += c.cfg.DevelopmentShares[activity] * hours * rates[activity]
	}
	return total
}

// AnalysisOverhead estimates the energy of scanning the tree itself.
func (c *Calculator) AnalysisOverhead(files int, bytes int64) float64 {
	fp := c.cfg.EnergyFactors.FileProcessing
	return float64(files)*fp.PerFile + float64(bytes)/1024*fp.PerKB
}

// ImpactLevel buckets kg CO2 by the configured thresholds.
func (c *Calculator) ImpactLevel(kg float64) string {
	for i, threshold := range c.cfg.ImpactThresholds {
		if i >= len(impactLevels)-1 {
			break
		}
		if kg < threshold {
			return impactLevels[i]
		}
	}
	return ImpactVeryHigh
}

// Comparison converts kg CO2 into everyday equivalents.
func (c *Calculator) Comparison(kg float64) ComparisonMetrics {
	eq := c.cfg.Equivalences
	return ComparisonMetrics{
		ImpactLevel:       c.ImpactLevel(kg),
		SmartphoneCharges: ratio(kg, eq.SmartphoneChargeKg),
		CarKm:             ratio(kg, eq.CarKmKg),
		LightBulbHours:    ratio(kg, eq.LightBulbHourKg),
		TreeYears:         ratio(kg, eq.TreeYearKg),
	}
}

func (c *Calculator) optimization(in Input, total, intensity float64) OptimizationPotential {
	opp := OptimizationPotential{Opportunities: []Opportunity{}}

	if in.ComplexityTier == "high" || in.ComplexityTier == "very_high" {
		opp.Opportunities = append(opp.Opportunities, Opportunity{
			Name:        "reduce_complexity",
			Description: "Simplify complex code paths and algorithms",
			Percentage:  25,
		})
	}
	if in.HeavyDependencies > 5 {
		opp.Opportunities = append(opp.Opportunities, Opportunity{
			Name:        "trim_heavy_dependencies",
			Description: "Replace or remove resource-intensive dependencies",
			Percentage:  15,
		})
	}
	for _, fw := range in.Frameworks {
		if c.cfg.IsHeavyFramework(fw) {
			opp.Opportunities = append(opp.Opportunities, Opportunity{
				Name:        "lighter_framework",
				Description: fmt.Sprintf("Consider a lighter alternative to %s where it fits", fw),
				Percentage:  10,
			})
			break
		}
	}

	for _, o := range opp.Opportunities {
		opp.Percentage += o.Percentage
	}
	opp.EnergySavingsKWh = total * opp.Percentage / 100
	opp.CarbonSavingsKg = opp.EnergySavingsKWh * intensity
	return opp
}

func (c *Calculator) languageBreakdown(files map[string]int, totalFiles int, total, intensity float64) map[string]LanguageShare {
	out := make(map[string]LanguageShare, len(files))
	for _, lang := range sortedKeys(files) {
		n := files[lang]
		var e float64
		if totalFiles > 0 {
			e = total * float64(n) / float64(totalFiles)
		}
		out[lang] = LanguageShare{
			Files:      n,
			EnergyKWh:  e,
			CarbonKg:   e * intensity,
			Percentage: percentage(e, total),
		}
	}
	return out
}

func (c *Calculator) complexityMultiplier(tier string) float64 {
	if m, ok := c.cfg.EnergyFactors.Complexity[tier]; ok {
		return m
	}
	return 1.0
}

func (c *Calculator) buildMultiplier(tool string) float64 {
	if tool == "" {
		return 0
	}
	if m, ok := c.cfg.BuildFactors.Tools[tool]; ok {
		return m
	}
	if m, ok := c.cfg.BuildFactors.Tools["default"]; ok {
		return m
	}
	return 1.0
}

func percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

func ratio(kg, unit float64) float64 {
	if unit == 0 {
		return 0
	}
	return kg / unit
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
