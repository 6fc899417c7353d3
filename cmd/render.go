package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ziadkadry99/greencode/internal/analyzer"
	"github.com/ziadkadry99/greencode/internal/energy"
	"github.com/ziadkadry99/greencode/internal/history"
	"github.com/ziadkadry99/greencode/internal/recommend"
)

var (
	colorGreen = lipgloss.Color("#10B981")
	colorAmber = lipgloss.Color("#F59E0B")
	colorRed   = lipgloss.Color("#EF4444")
	colorDim   = lipgloss.Color("#9CA3AF")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorGreen).Padding(0, 1)
)

func impactStyle(level string) lipgloss.Style {
	switch level {
	case energy.ImpactMinimal, energy.ImpactLow:
		return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	case energy.ImpactMedium:
		return lipgloss.NewStyle().Foreground(colorAmber).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	}
}

func priorityStyle(p string) lipgloss.Style {
	switch p {
	case recommend.PriorityHigh:
		return lipgloss.NewStyle().Foreground(colorRed)
	case recommend.PriorityMedium:
		return lipgloss.NewStyle().Foreground(colorAmber)
	default:
		return dimStyle
	}
}

// kg formats a carbon mass, switching to grams below one kilogram.
func kg(v float64) string {
	if v < 1 {
		return humanize.FtoaWithDigits(v*1000, 3) + " g CO2"
	}
	return humanize.CommafWithDigits(v, 3) + " kg CO2"
}

// kwh formats an energy amount, switching to Wh below one kWh.
func kwh(v float64) string {
	if v < 1 {
		return humanize.FtoaWithDigits(v*1000, 3) + " Wh"
	}
	return humanize.CommafWithDigits(v, 3) + " kWh"
}

func summaryBox(c *energy.CarbonReport) string {
	lines := []string{
		fmt.Sprintf("Carbon:  %s", kg(c.TotalCarbonKg)),
		fmt.Sprintf("Energy:  %s", kwh(c.TotalEnergyKWh)),
		fmt.Sprintf("Grid:    %s (%.3f kg/kWh)", c.GridType, c.CarbonIntensity),
		fmt.Sprintf("Impact:  %s", impactStyle(c.ComparisonMetrics.ImpactLevel).Render(strings.ReplaceAll(c.ComparisonMetrics.ImpactLevel, "_", " "))),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func writeComponents(b *strings.Builder, c *energy.CarbonReport) {
	b.WriteString(sectionStyle.Render("Energy breakdown") + "\n")
	rows := []struct {
		name string
		comp energy.Component
	}{
		{"code execution", c.Components.CodeExecution},
		{"frameworks", c.Components.Frameworks},
		{"dependencies", c.Components.Dependencies},
		{"build system", c.Components.BuildSystem},
		{"development", c.Components.Development},
	}
	for _, r := range rows {
		fmt.Fprintf(b, "  %-15s %12s  %5.1f%%\n", r.name, kwh(r.comp.EnergyKWh), r.comp.Percentage)
	}
}

func writeEquivalents(b *strings.Builder, m energy.ComparisonMetrics) {
	b.WriteString(sectionStyle.Render("Equivalent to") + "\n")
	fmt.Fprintf(b, "  %s smartphone charges\n", humanize.CommafWithDigits(m.SmartphoneCharges, 1))
	fmt.Fprintf(b, "  %s km driven by car\n", humanize.CommafWithDigits(m.CarKm, 2))
	fmt.Fprintf(b, "  %s hours of a light bulb\n", humanize.CommafWithDigits(m.LightBulbHours, 1))
	fmt.Fprintf(b, "  %s tree-years of absorption\n", humanize.CommafWithDigits(m.TreeYears, 4))
}

func writeRecommendations(b *strings.Builder, recs []recommend.Recommendation, top int) {
	if len(recs) == 0 {
		return
	}
	b.WriteString(sectionStyle.Render("Recommendations") + "\n")
	for _, r := range recommend.Top(recs, top) {
		fmt.Fprintf(b, "  %s %s\n", priorityStyle(r.Priority).Render(fmt.Sprintf("[%s]", r.Priority)), r.Message)
	}
	if top > 0 && len(recs) > top {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more, use --format json for the full list", len(recs)-top)) + "\n")
	}
}

func renderReport(w io.Writer, r *analyzer.Report, top int) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("greencode report: "+r.ProjectName) + "\n")
	b.WriteString(summaryBox(r.CarbonFootprint) + "\n")

	b.WriteString(sectionStyle.Render("Project") + "\n")
	fmt.Fprintf(&b, "  primary language  %s\n", r.LanguageDetection.PrimaryLanguage)
	fmt.Fprintf(&b, "  files             %s (%s lines)\n", humanize.Comma(int64(r.ProjectStructure.TotalFiles)), humanize.Comma(int64(r.Features.Lines)))
	fmt.Fprintf(&b, "  project type      %s\n", r.ProjectStructure.ProjectType)
	fmt.Fprintf(&b, "  complexity        %s\n", r.ProjectStructure.Complexity)
	if len(r.FrameworkInfo.Detected) > 0 {
		fmt.Fprintf(&b, "  frameworks        %s\n", strings.Join(r.FrameworkInfo.Detected, ", "))
	}
	fmt.Fprintf(&b, "  dependencies      %d (%d heavy)\n", r.Dependencies.TotalDependencies, r.Dependencies.HeavyCount)
	if r.Dependencies.BuildTool != "" {
		fmt.Fprintf(&b, "  build tool        %s\n", r.Dependencies.BuildTool)
	}

	writeComponents(&b, r.CarbonFootprint)

	if len(r.CarbonFootprint.LanguageBreakdown) > 0 {
		b.WriteString(sectionStyle.Render("Languages") + "\n")
		langs := make([]string, 0, len(r.CarbonFootprint.LanguageBreakdown))
		for l := range r.CarbonFootprint.LanguageBreakdown {
			langs = append(langs, l)
		}
		sort.Slice(langs, func(i, j int) bool {
			x, y := r.CarbonFootprint.LanguageBreakdown[langs[i]], r.CarbonFootprint.LanguageBreakdown[langs[j]]
			if x.Files != y.Files {
				return x.Files > y.Files
			}
			return langs[i] < langs[j]
		})
		for _, l := range langs {
			s := r.CarbonFootprint.LanguageBreakdown[l]
			fmt.Fprintf(&b, "  %-15s %4d files  %5.1f%%\n", l, s.Files, s.Percentage)
		}
	}

	opp := r.CarbonFootprint.OptimizationPotential
	if opp.Percentage > 0 {
		b.WriteString(sectionStyle.Render("Optimization potential") + "\n")
		fmt.Fprintf(&b, "  up to %.0f%% (%s)\n", opp.Percentage, kg(opp.CarbonSavingsKg))
	}

	writeEquivalents(&b, r.CarbonFootprint.ComparisonMetrics)
	writeRecommendations(&b, r.Recommendations, top)
	b.WriteString(dimStyle.Render("\nEstimates are derived from static analysis, not measurements.") + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func renderSnippet(w io.Writer, r *analyzer.SnippetReport, top int) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("greencode snippet: "+r.Language) + "\n")
	b.WriteString(summaryBox(r.CarbonFootprint) + "\n")

	b.WriteString(sectionStyle.Render("Features") + "\n")
	fmt.Fprintf(&b, "  lines               %d\n", r.Features.Lines)
	fmt.Fprintf(&b, "  complexity score    %.1f\n", r.Features.ComplexityScore)
	fmt.Fprintf(&b, "  cyclomatic          %d\n", r.Features.CyclomaticComplexity)
	fmt.Fprintf(&b, "  runtime complexity  %s\n", r.Features.RuntimeComplexity)
	if r.Features.Error != "" {
		fmt.Fprintf(&b, "  error               %s\n", r.Features.Error)
	}

	writeRecommendations(&b, r.Recommendations, top)
	_, err := io.WriteString(w, b.String())
	return err
}

func renderComparison(w io.Writer, c *analyzer.Comparison) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("greencode comparison") + "\n")
	fmt.Fprintf(&b, "  %-24s %-12s %8s %10s %16s  %s\n", "PROJECT", "LANGUAGE", "FILES", "LINES", "CARBON", "IMPACT")
	for _, name := range c.Order {
		p := c.Projects[name]
		fmt.Fprintf(&b, "  %-24s %-12s %8s %10s %16s  %s\n",
			name, p.PrimaryLanguage,
			humanize.Comma(int64(p.TotalFiles)), humanize.Comma(int64(p.TotalLines)),
			kg(p.TotalCarbonKg), impactStyle(p.ImpactLevel).Render(p.ImpactLevel))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  most efficient   %s\n", lipgloss.NewStyle().Foreground(colorGreen).Render(c.MostEfficient))
	fmt.Fprintf(&b, "  least efficient  %s\n", lipgloss.NewStyle().Foreground(colorRed).Render(c.LeastEfficient))
	fmt.Fprintf(&b, "  average          %s, %s\n", kg(c.Averages.CarbonKg), kwh(c.Averages.EnergyKWh))

	_, err := io.WriteString(w, b.String())
	return err
}

func renderHistory(w io.Writer, runs []history.Run) error {
	var b strings.Builder
	if len(runs) == 0 {
		b.WriteString(dimStyle.Render("No runs recorded yet. Use `greencode analyze --save`.") + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	fmt.Fprintf(&b, "  %-36s %-16s %-20s %16s  %s\n", "ID", "WHEN", "PROJECT", "CARBON", "IMPACT")
	for _, r := range runs {
		fmt.Fprintf(&b, "  %-36s %-16s %-20s %16s  %s\n",
			r.ID, humanize.Time(r.CreatedAt), r.ProjectName, kg(r.TotalCarbonKg),
			impactStyle(r.ImpactLevel).Render(r.ImpactLevel))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
