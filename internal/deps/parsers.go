package deps

import (
	"bufio"
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// parsedManifest is what a parser extracts. manager overrides the default
// manager id of the manifest when set.
type parsedManifest struct {
	packages []string
	manager  string
}

type manifestSpec struct {
	file    string // exact file name, or a glob such as *.csproj
	manager string
	parse   func(data []byte) (parsedManifest, error)
}

// paths returns the existing files at root that this manifest entry reads, sorted.
func (s manifestSpec) paths(root string) []string {
	matches, _ := filepath.Glob(filepath.Join(root, s.file))
	sort.Strings(matches)
	return matches
}

// manifestSpecs is the fixed list of manifests read from a project root.
var manifestSpecs = []manifestSpec{
	{file: "requirements.txt", manager: "pip", parse: parseRequirements},
	{file: "Pipfile", manager: "pipenv", parse: parsePipfile},
	{file: "pyproject.toml", manager: "pip", parse: parsePyproject},
	{file: "setup.py", manager: "setuptools", parse: parseSetupPy},
	{file: "package.json", manager: "npm", parse: parsePackageJSON},
	{file: "composer.json", manager: "composer", parse: parseComposerJSON},
	{file: "Cargo.toml", manager: "cargo", parse: parseCargoToml},
	{file: "go.mod", manager: "go", parse: parseGoMod},
	{file: "pom.xml", manager: "maven", parse: parsePom},
	{file: "build.gradle", manager: "gradle", parse: parseGradle},
	{file: "build.gradle.kts", manager: "gradle", parse: parseGradle},
	{file: "Gemfile", manager: "bundler", parse: parseGemfile},
	{file: "pubspec.yaml", manager: "pub", parse: parsePubspec},
	{file: "*.csproj", manager: "nuget", parse: parseCsproj},
}

// requirementName extracts the distribution name from a PEP 508 requirement
// string such as "pandas[excel]>=2.1; python_version>'3.8'".
func requirementName(req string) string {
	req = strings.TrimSpace(req)
	if i := strings.IndexAny(req, "=<>!~;[ @(,"); i >= 0 {
		req = req[:i]
	}
	return strings.TrimSpace(req)
}

func parseRequirements(data []byte) (parsedManifest, error) {
	var pkgs []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if strings.Contains(line, "://") {
			if i := strings.Index(line, "#egg="); i >= 0 {
				pkgs = append(pkgs, requirementName(line[i+len("#egg="):]))
			}
			continue
		}
		pkgs = append(pkgs, requirementName(line))
	}
	if err := sc.Err(); err != nil {
		return parsedManifest{}, fmt.Errorf("reading requirements: %w", err)
	}
	return parsedManifest{packages: pkgs}, nil
}

func parsePipfile(data []byte) (parsedManifest, error) {
	var doc struct {
		Packages    map[string]any `toml:"packages"`
		DevPackages map[string]any `toml:"dev-packages"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return parsedManifest{}, fmt.Errorf("parsing Pipfile: %w", err)
	}
	return parsedManifest{packages: append(sortedKeys(doc.Packages), sortedKeys(doc.DevPackages)...)}, nil
}

func parsePyproject(data []byte) (parsedManifest, error) {
	var doc struct {
		Project struct {
			Dependencies         []string            `toml:"dependencies"`
			OptionalDependencies map[string][]string `toml:"optional-dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry *struct {
				Dependencies    map[string]any `toml:"dependencies"`
				DevDependencies map[string]any `toml:"dev-dependencies"`
				Group           map[string]struct {
					Dependencies map[string]any `toml:"dependencies"`
				} `toml:"group"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return parsedManifest{}, fmt.Errorf("parsing pyproject.toml: %w", err)
	}

	var out parsedManifest
	for _, req := range doc.Project.Dependencies {
		out.packages = append(out.packages, requirementName(req))
	}
	for _, extra := range sortedKeys(doc.Project.OptionalDependencies) {
		for _, req := range doc.Project.OptionalDependencies[extra] {
			out.packages = append(out.packages, requirementName(req))
		}
	}

	if p := doc.Tool.Poetry; p != nil {
		out.manager = "poetry"
		out.packages = append(out.packages, sortedKeys(p.Dependencies)...)
		out.packages = append(out.packages, sortedKeys(p.DevDependencies)...)
		for _, g := range sortedKeys(p.Group) {
			out.packages = append(out.packages, sortedKeys(p.Group[g].Dependencies)...)
		}
		out.packages = without(out.packages, "python")
	}
	return out, nil
}

var (
	installRequiresRe = regexp.MustCompile(`(?s)install_requires\s*=\s*\[(.*?)\]`)
	quotedRe          = regexp.MustCompile(`["']([^"']+)["']`)
)

func parseSetupPy(data []byte) (parsedManifest, error) {
	var pkgs []string
	for _, block := range installRequiresRe.FindAllSubmatch(data, -1) {
		for _, q := range quotedRe.FindAllSubmatch(block[1], -1) {
			pkgs = append(pkgs, requirementName(string(q[1])))
		}
	}
	return parsedManifest{packages: pkgs}, nil
}

func parsePackageJSON(data []byte) (parsedManifest, error) {
	var doc struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return parsedManifest{}, fmt.Errorf("parsing package.json: %w", err)
	}
	return parsedManifest{packages: append(sortedKeys(doc.Dependencies), sortedKeys(doc.DevDependencies)...)}, nil
}

func parseComposerJSON(data []byte) (parsedManifest, error) {
	var doc struct {
		Require    map[string]string `json:"require"`
		RequireDev map[string]string `json:"require-dev"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return parsedManifest{}, fmt.Errorf("parsing composer.json: %w", err)
	}
	var pkgs []string
	for _, name := range append(sortedKeys(doc.Require), sortedKeys(doc.RequireDev)...) {
		if name == "php" || strings.HasPrefix(name, "ext-") {
			continue
		}
		pkgs = append(pkgs, name)
	}
	return parsedManifest{packages: pkgs}, nil
}

func parseCargoToml(data []byte) (parsedManifest, error) {
	var doc struct {
		Dependencies      map[string]any `toml:"dependencies"`
		DevDependencies   map[string]any `toml:"dev-dependencies"`
		BuildDependencies map[string]any `toml:"build-dependencies"`
		Workspace         struct {
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"workspace"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return parsedManifest{}, fmt.Errorf("parsing Cargo.toml: %w", err)
	}
	var pkgs []string
	pkgs = append(pkgs, sortedKeys(doc.Dependencies)...)
	pkgs = append(pkgs, sortedKeys(doc.DevDependencies)...)
	pkgs = append(pkgs, sortedKeys(doc.BuildDependencies)...)
	pkgs = append(pkgs, sortedKeys(doc.Workspace.Dependencies)...)
	return parsedManifest{packages: pkgs}, nil
}

func parseGoMod(data []byte) (parsedManifest, error) {
	f, err := modfile.Parse("go.mod", data, nil)
	if err != nil {
		return parsedManifest{}, fmt.Errorf("parsing go.mod: %w", err)
	}
	pkgs := make([]string, 0, len(f.Require))
	for _, r := range f.Require {
		pkgs = append(pkgs, r.Mod.Path)
	}
	return parsedManifest{packages: pkgs}, nil
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

func parsePom(data []byte) (parsedManifest, error) {
	var doc struct {
		Dependencies         []pomDependency `xml:"dependencies>dependency"`
		DependencyManagement []pomDependency `xml:"dependencyManagement>dependencies>dependency"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return parsedManifest{}, fmt.Errorf("parsing pom.xml: %w", err)
	}
	var pkgs []string
	for _, d := range append(doc.Dependencies, doc.DependencyManagement...) {
		name := strings.TrimSpace(d.ArtifactID)
		if name == "" {
			continue
		}
		if g := strings.TrimSpace(d.GroupID); g != "" {
			name = g + ":" + name
		}
		pkgs = append(pkgs, name)
	}
	return parsedManifest{packages: pkgs}, nil
}

var gradleDepRe = regexp.MustCompile(`(?m)^\s*(?:implementation|api|compile|compileOnly|runtimeOnly|testImplementation|testCompile|testRuntimeOnly|annotationProcessor|kapt|ksp)\s*\(?\s*["']([^"']+)["']`)

func parseGradle(data []byte) (parsedManifest, error) {
	var pkgs []string
	for _, m := range gradleDepRe.FindAllSubmatch(data, -1) {
		coord := strings.Split(string(m[1]), ":")
		name := coord[0]
		if len(coord) >= 2 {
			name = coord[0] + ":" + coord[1]
		}
		pkgs = append(pkgs, name)
	}
	return parsedManifest{packages: pkgs}, nil
}

var gemRe = regexp.MustCompile(`(?m)^\s*gem\s+["']([^"']+)["']`)

func parseGemfile(data []byte) (parsedManifest, error) {
	var pkgs []string
	for _, m := range gemRe.FindAllSubmatch(data, -1) {
		pkgs = append(pkgs, string(m[1]))
	}
	return parsedManifest{packages: pkgs}, nil
}

func parsePubspec(data []byte) (parsedManifest, error) {
	var doc struct {
		Dependencies    map[string]any `yaml:"dependencies"`
		DevDependencies map[string]any `yaml:"dev_dependencies"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return parsedManifest{}, fmt.Errorf("parsing pubspec.yaml: %w", err)
	}
	return parsedManifest{packages: append(sortedKeys(doc.Dependencies), sortedKeys(doc.DevDependencies)...)}, nil
}

func parseCsproj(data []byte) (parsedManifest, error) {
	var doc struct {
		ItemGroups []struct {
			PackageReferences []struct {
				Include string `xml:"Include,attr"`
			} `xml:"PackageReference"`
		} `xml:"ItemGroup"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return parsedManifest{}, fmt.Errorf("parsing csproj: %w", err)
	}
	var pkgs []string
	for _, g := range doc.ItemGroups {
		for _, ref := range g.PackageReferences {
			pkgs = append(pkgs, strings.TrimSpace(ref.Include))
		}
	}
	return parsedManifest{packages: pkgs}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func without(names []string, drop string) []string {
	out := names[:0]
	for _, n := range names {
		if !strings.EqualFold(n, drop) {
			out = append(out, n)
		}
	}
	return out
}
