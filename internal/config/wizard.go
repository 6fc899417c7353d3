package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// projectMarkers maps marker files to a human-readable ecosystem name and
// directories worth ignoring for it, checked in order.
var projectMarkers = []struct {
	Marker string
	Name   string
	Ignore []string
}{
	{Marker: "go.mod", Name: "Go"},
	{Marker: "package.json", Name: "Node.js/TypeScript", Ignore: []string{".next", "out"}},
	{Marker: "requirements.txt", Name: "Python", Ignore: []string{".tox", "*.egg-info"}},
	{Marker: "pyproject.toml", Name: "Python", Ignore: []string{".tox", "*.egg-info"}},
	{Marker: "Cargo.toml", Name: "Rust"},
	{Marker: "pom.xml", Name: "Java"},
	{Marker: "build.gradle", Name: "Java/Kotlin", Ignore: []string{".gradle"}},
	{Marker: "Gemfile", Name: "Ruby"},
	{Marker: "composer.json", Name: "PHP"},
	{Marker: "*.csproj", Name: ".NET", Ignore: []string{"bin", "obj"}},
}

// detectEcosystem checks dir for well-known project markers.
func detectEcosystem(dir string) (name string, ignore []string) {
	for _, m := range projectMarkers {
		matches, _ := filepath.Glob(filepath.Join(dir, m.Marker))
		if len(matches) > 0 {
			return m.Name, m.Ignore
		}
	}
	return "", nil
}

// RunWizard asks for the grid profile, extra ignore patterns and worker count,
// then saves the resulting Config into dir as .greencode.yml.
func RunWizard(dir string) (*Config, error) {
	fmt.Println("Welcome to greencode! Let's configure your project.")
	fmt.Println()

	ecosystem, suggested := detectEcosystem(dir)
	if ecosystem != "" {
		fmt.Printf("Detected ecosystem: %s\n\n", ecosystem)
	}

	cfg := DefaultConfig()

	items := make([]string, 0, len(GridTypes))
	for _, g := range GridTypes {
		items = append(items, fmt.Sprintf("%-16s %.3f kg CO2/kWh", g, cfg.CO2Factors[string(g)]))
	}
	gridPrompt := promptui.Select{
		Label: "Select the electricity grid your code runs on",
		Items: items,
	}
	gridIdx, _, err := gridPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("grid selection: %w", err)
	}
	cfg.GridType = GridTypes[gridIdx]

	ignorePrompt := promptui.Prompt{
		Label:   "Extra ignore patterns (comma-separated, leave blank for defaults)",
		Default: strings.Join(suggested, ","),
	}
	ignoreStr, err := ignorePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("ignore patterns: %w", err)
	}
	cfg.IgnorePatterns = append(cfg.IgnorePatterns, splitAndTrim(ignoreStr)...)

	workersPrompt := promptui.Prompt{
		Label:   "Extraction workers (0 = one per CPU)",
		Default: "0",
		Validate: func(s string) error {
			_, err := parseWorkers(s)
			return err
		},
	}
	workersStr, err := workersPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("workers: %w", err)
	}
	if cfg.MaxWorkers, err = parseWorkers(workersStr); err != nil {
		return nil, fmt.Errorf("workers: %w", err)
	}

	configPath := filepath.Join(dir, FileName)
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

// parseWorkers reads a worker count: a non-negative integer, 0 meaning one
// worker per CPU.
func parseWorkers(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("enter a non-negative integer, got %q", s)
	}
	return n, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
