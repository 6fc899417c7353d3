package analyzer

import (
	"context"
	"fmt"
	"sort"
)

// CompareProjects analyses each root in turn and ranks them by total
// carbon. Projects are keyed by directory name; repeated names get a numeric
// suffix. The first failing project aborts the comparison.
func (a *Analyzer) CompareProjects(ctx context.Context, roots []string, opts Options) (*Comparison, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("no projects to compare")
	}

	cmp := &Comparison{Projects: make(map[string]ProjectSummary, len(roots))}
	for _, root := range roots {
		report, err := a.AnalyzeProject(ctx, root, opts)
		if err != nil {
			return nil, fmt.Errorf("analysing %s: %w", root, err)
		}

		name := uniqueName(cmp.Projects, report.ProjectName)
		cmp.Order = append(cmp.Order, name)
		cmp.Projects[name] = ProjectSummary{
			Path:            report.ProjectPath,
			PrimaryLanguage: report.LanguageDetection.PrimaryLanguage,
			TotalFiles:      report.ProjectStructure.TotalFiles,
			TotalLines:      report.Features.Lines,
			Dependencies:    report.Dependencies.TotalDependencies,
			Complexity:      report.ProjectStructure.Complexity,
			TotalEnergyKWh:  report.CarbonFootprint.TotalEnergyKWh,
			TotalCarbonKg:   report.CarbonFootprint.TotalCarbonKg,
			ImpactLevel:     report.CarbonFootprint.ComparisonMetrics.ImpactLevel,
		}
	}

	ranked := append([]string(nil), cmp.Order...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return cmp.Projects[ranked[i]].TotalCarbonKg < cmp.Projects[ranked[j]].TotalCarbonKg
	})
	cmp.MostEfficient = ranked[0]
	cmp.LeastEfficient = ranked[len(ranked)-1]

	n := float64(len(cmp.Order))
	for _, name := range cmp.Order {
		p := cmp.Projects[name]
		cmp.Averages.EnergyKWh += p.TotalEnergyKWh / n
		cmp.Averages.CarbonKg += p.TotalCarbonKg / n
		cmp.Averages.Files += float64(p.TotalFiles) / n
		cmp.Averages.Lines += float64(p.TotalLines) / n
	}
	return cmp, nil
}

func uniqueName(existing map[string]ProjectSummary, name string) string {
	if _, taken := existing[name]; !taken {
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", name, i)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}
