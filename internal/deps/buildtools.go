package deps

import (
	"os"
	"path/filepath"
)

// buildTools is checked in order; the first tool with a marker at the root
// wins.
var buildTools = []struct {
	name    string
	markers []string
}{
	{name: "maven", markers: []string{"pom.xml"}},
	{name: "gradle", markers: []string{"build.gradle", "build.gradle.kts", "settings.gradle"}},
	{name: "cargo", markers: []string{"Cargo.toml"}},
	{name: "cmake", markers: []string{"CMakeLists.txt"}},
	{name: "make", markers: []string{"Makefile", "GNUmakefile"}},
	{name: "webpack", markers: []string{"webpack.config.js", "webpack.config.ts"}},
	{name: "npm", markers: []string{"package.json"}},
	{name: "go", markers: []string{"go.mod"}},
	{name: "poetry", markers: []string{"poetry.lock"}},
	{name: "setuptools", markers: []string{"setup.py", "setup.cfg"}},
	{name: "bundler", markers: []string{"Gemfile"}},
	{name: "dotnet", markers: []string{"*.csproj", "*.sln"}},
	{name: "bazel", markers: []string{"WORKSPACE", "MODULE.bazel"}},
}

// DetectBuildTool returns the highest-priority build tool with a marker
// file at root, or "" when none is present. A pyproject.toml declaring a
// poetry section counts as a poetry marker.
func DetectBuildTool(root string, manifests []Manifest) string {
	poetry := false
	for _, m := range manifests {
		if m.File == "pyproject.toml" && m.Manager == "poetry" {
			poetry = true
		}
	}

	for _, bt := range buildTools {
		if bt.name == "poetry" && poetry {
			return bt.name
		}
		for _, marker := range bt.markers {
			matches, _ := filepath.Glob(filepath.Join(root, marker))
			for _, m := range matches {
				if st, err := os.Stat(m); err == nil && !st.IsDir() {
					return bt.name
				}
			}
		}
	}
	return ""
}
