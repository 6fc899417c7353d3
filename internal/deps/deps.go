// Package deps reads the dependency manifests at a project root and
// classifies every declared package as heavy or medium.
package deps

import (
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/ziadkadry99/greencode/internal/config"
	"github.com/ziadkadry99/greencode/internal/logging"
)

// Manifest is one parsed dependency file.
type Manifest struct {
	File     string   `json:"file" yaml:"file"`
	Manager  string   `json:"manager" yaml:"manager"`
	Packages []string `json:"packages" yaml:"packages"`
	Count    int      `json:"count" yaml:"count"`
}

// Result is the union of all manifests found at the root.
type Result struct {
	Manifests         []Manifest `json:"manifests" yaml:"manifests"`
	TotalDependencies int        `json:"total_dependencies" yaml:"total_dependencies"`
	All               []string   `json:"all" yaml:"all"`
	Heavy             []string   `json:"heavy_dependencies" yaml:"heavy_dependencies"`
	HeavyCount        int        `json:"heavy_count" yaml:"heavy_count"`
	BuildTool         string     `json:"build_tool,omitempty" yaml:"build_tool,omitempty"`
}

// Managers lists the package managers found, in manifest order, without
// repeats.
func (r Result) Managers() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range r.Manifests {
		if !seen[m.Manager] {
			seen[m.Manager] = true
			out = append(out, m.Manager)
		}
	}
	return out
}

// Analyzer inspects manifests with a fixed heavy-dependency denylist.
type Analyzer struct {
	cfg *config.Config
}

// New returns an Analyzer using cfg's heavy dependency list.
func New(cfg *config.Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze parses every known manifest directly under root. A manifest that
// cannot be read or parsed contributes nothing and is logged once.
func (a *Analyzer) Analyze(root string) Result {
	var res Result

	for _, spec := range manifestSpecs {
		for _, path := range spec.paths(root) {
			name := filepath.Base(path)
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}

			parsed, ok := logging.Attempt("manifest:"+name, parsedManifest{}, func() (parsedManifest, error) {
				return spec.parse(data)
			})
			if !ok {
				continue
			}

			manager := spec.manager
			if parsed.manager != "" {
				manager = parsed.manager
			}
			pkgs := dedupe(parsed.packages)
			res.Manifests = append(res.Manifests, Manifest{
				File:     name,
				Manager:  manager,
				Packages: pkgs,
				Count:    len(pkgs),
			})
		}
	}

	var all []string
	for _, m := range res.Manifests {
		all = append(all, m.Packages...)
	}
	res.All = dedupe(all)
	res.TotalDependencies = len(res.All)

	res.Heavy = []string{}
	for _, p := range res.All {
		if a.cfg.IsHeavyDependency(p) {
			res.Heavy = append(res.Heavy, p)
		}
	}
	res.HeavyCount = len(res.Heavy)
	res.BuildTool = DetectBuildTool(root, res.Manifests)

	log.WithFields(log.Fields{
		"manifests": len(res.Manifests),
		"total":     res.TotalDependencies,
		"heavy":     res.HeavyCount,
		"build":     res.BuildTool,
	}).Debug("dependencies analysed")

	return res
}

// dedupe returns the sorted set of non-empty names.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
