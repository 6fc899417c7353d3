package walker

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// extensionToLanguage maps lowercase file extensions to language names.
var extensionToLanguage = map[string]string{
	// Go
	".go": "Go",
	// Python
	".py":  "Python",
	".pyi": "Python",
	".pyw": "Python",
	// TypeScript
	".ts":  "TypeScript",
	".tsx": "TypeScript",
	".mts": "TypeScript",
	// JavaScript
	".js":  "JavaScript",
	".jsx": "JavaScript",
	".mjs": "JavaScript",
	".cjs": "JavaScript",
	// JVM
	".java":   "Java",
	".kt":     "Kotlin",
	".kts":    "Kotlin",
	".scala":  "Scala",
	".sc":     "Scala",
	".groovy": "Groovy",
	".clj":    "Clojure",
	".cljs":   "Clojure",
	// Systems
	".rs":  "Rust",
	".c":   "C",
	".h":   "C",
	".cpp": "C++",
	".cc":  "C++",
	".cxx": "C++",
	".hpp": "C++",
	".hxx": "C++",
	".m":   "Objective-C", // resolved by sniffing, see sniffObjectiveC
	".mm":  "Objective-C",
	".zig": "Zig",
	".asm": "Assembly",
	".s":   "Assembly",
	".f90": "Fortran",
	".f":   "Fortran",
	".ada": "Ada",
	".adb": "Ada",
	// .NET
	".cs": "C#",
	".fs": "F#",
	".vb": "Visual Basic",
	// Scripting
	".rb":   "Ruby",
	".php":  "PHP",
	".pl":   "Perl",
	".pm":   "Perl",
	".lua":  "Lua",
	".r":    "R",
	".jl":   "Julia",
	".sh":   "Shell",
	".bash": "Shell",
	".zsh":  "Shell",
	".ps1":  "PowerShell",
	// Mobile
	".swift": "Swift",
	".dart":  "Dart",
	// Functional
	".hs":   "Haskell",
	".ml":   "OCaml",
	".ex":   "Elixir",
	".exs":  "Elixir",
	".erl":  "Erlang",
	".lisp": "Lisp",
	// Web components
	".vue":    "Vue",
	".svelte": "Svelte",
	// Data and markup
	".sql":      "SQL",
	".html":     "HTML",
	".htm":      "HTML",
	".css":      "CSS",
	".scss":     "CSS",
	".sass":     "CSS",
	".less":     "CSS",
	".yaml":     "YAML",
	".yml":      "YAML",
	".json":     "JSON",
	".toml":     "TOML",
	".xml":      "XML",
	".md":       "Markdown",
	".markdown": "Markdown",
	".rst":      "reStructuredText",
	".txt":      "Text",
	".csv":      "CSV",
	".ini":      "INI",
	".cfg":      "INI",
	".proto":    "Protobuf",
	".ipynb":    "Jupyter Notebook",
	".tf":       "Terraform",
	".tfvars":   "Terraform",
}

// filenameToLanguage maps specific filenames to language names.
var filenameToLanguage = map[string]string{
	"Dockerfile":          "Dockerfile",
	"Makefile":            "Makefile",
	"GNUmakefile":         "Makefile",
	"CMakeLists.txt":      "CMake",
	"Jenkinsfile":         "Groovy",
	"Vagrantfile":         "Ruby",
	"Gemfile":             "Ruby",
	"Rakefile":            "Ruby",
	"docker-compose.yml":  "YAML",
	"docker-compose.yaml": "YAML",
}

// nonCodeLanguages are markup, data and documentation formats. They are
// counted but never chosen as the primary language.
var nonCodeLanguages = map[string]bool{
	"HTML":             true,
	"CSS":              true,
	"JSON":             true,
	"YAML":             true,
	"TOML":             true,
	"XML":              true,
	"Markdown":         true,
	"reStructuredText": true,
	"Text":             true,
	"CSV":              true,
	"INI":              true,
	"SQL":              true,
	"Dockerfile":       true,
	"Makefile":         true,
	"CMake":            true,
	"Protobuf":         true,
	"Jupyter Notebook": true,
	"Terraform":        true,
}

// aliases maps common short names to the canonical language names above.
var aliases = map[string]string{
	"js":         "JavaScript",
	"javascript": "JavaScript",
	"jsx":        "JavaScript",
	"ts":         "TypeScript",
	"typescript": "TypeScript",
	"tsx":        "TypeScript",
	"py":         "Python",
	"python":     "Python",
	"python3":    "Python",
	"go":         "Go",
	"golang":     "Go",
	"java":       "Java",
	"rb":         "Ruby",
	"ruby":       "Ruby",
	"rs":         "Rust",
	"rust":       "Rust",
	"c":          "C",
	"cpp":        "C++",
	"c++":        "C++",
	"cs":         "C#",
	"c#":         "C#",
	"csharp":     "C#",
	"php":        "PHP",
	"kotlin":     "Kotlin",
	"kt":         "Kotlin",
	"swift":      "Swift",
	"scala":      "Scala",
	"sh":         "Shell",
	"bash":       "Shell",
	"shell":      "Shell",
	"objc":       "Objective-C",
	"matlab":     "MATLAB",
}

// DetectLanguage returns the language for a filename based on its exact
// name or lowercase extension. Unrecognized files yield "".
func DetectLanguage(filename string) string {
	base := filepath.Base(filename)

	if lang, ok := filenameToLanguage[base]; ok {
		return lang
	}

	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return ""
	}
	return extensionToLanguage[ext]
}

// IsCode reports whether lang is a programming language rather than a
// markup, data or documentation format.
func IsCode(lang string) bool {
	return lang != "" && !nonCodeLanguages[lang]
}

// CanonicalLanguage maps a user-supplied language name or alias to the name
// used throughout reports. Unknown names are returned title-cased as given.
func CanonicalLanguage(name string) string {
	trimmed := strings.TrimSpace(name)
	if lang, ok := aliases[strings.ToLower(trimmed)]; ok {
		return lang
	}
	for _, lang := range extensionToLanguage {
		if strings.EqualFold(lang, trimmed) {
			return lang
		}
	}
	return trimmed
}

// Key returns the lowercase form of a language name used to index config
// tables.
func Key(lang string) string {
	return strings.ToLower(lang)
}

var (
	objcMarkers   = []string{"#import", "@interface", "@implementation", "@property", "@end", "NSString", "#include"}
	matlabMarkers = []string{"function", "end", "disp(", "zeros(", "ones(", "plot(", "%"}
)

// sniffObjectiveC decides between Objective-C and MATLAB for a .m file by
// counting characteristic keywords in the first 1000 bytes. Ties and
// unreadable files go to MATLAB.
func sniffObjectiveC(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "MATLAB"
	}
	defer f.Close()

	buf := make([]byte, 1000)
	n, _ := f.Read(buf)
	head := buf[:n]

	var objc, matlab int
	for _, kw := range objcMarkers {
		if bytes.Contains(head, []byte(kw)) {
			objc++
		}
	}
	for _, kw := range matlabMarkers {
		if bytes.Contains(head, []byte(kw)) {
			matlab++
		}
	}
	if objc > matlab {
		return "Objective-C"
	}
	return "MATLAB"
}

// detectFileLanguage is DetectLanguage plus content sniffing where the
// extension alone is ambiguous.
func detectFileLanguage(path string) string {
	lang := DetectLanguage(path)
	if strings.EqualFold(filepath.Ext(path), ".m") {
		return sniffObjectiveC(path)
	}
	return lang
}
