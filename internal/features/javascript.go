package features

import "regexp"

// javascriptExtractor serves JavaScript, TypeScript and single-file
// component languages.
var javascriptExtractor = &patternExtractor{
	name: "javascript",
	features: []patternFeature{
		{name: "loops", re: regexp.MustCompile(`\b(for|while)\s*\(|\bdo\s*\{`), weight: 2.0, kind: kindLoop},
		{name: "array_iterations", re: regexp.MustCompile(`\.(forEach|map|filter|reduce|some|every|find)\s*\(`), weight: 1.5, kind: kindLoop},
		{name: "conditionals", re: regexp.MustCompile(`\b(if|switch)\s*\(`), weight: 1.0, kind: kindConditional},
		{name: "exception_handling", re: regexp.MustCompile(`\btry\s*\{|\bcatch\s*(\(|\{)`), weight: 1.5, kind: kindException},
		{name: "functions", re: regexp.MustCompile(`\bfunction\b`), weight: 0.5},
		{name: "arrow_functions", re: regexp.MustCompile(`=>`), weight: 0.3},
		{name: "classes", re: regexp.MustCompile(`\bclass\s+\w+`), weight: 1.0},
		{name: "async_operations", re: regexp.MustCompile(`\b(async|await)\b`), weight: 1.0},
		{name: "promises", re: regexp.MustCompile(`\.then\s*\(|\bnew\s+Promise\b|\bPromise\.(all|race|allSettled)\b`), weight: 1.0},
		{name: "imports", re: regexp.MustCompile(`(?m)^\s*import\b|\brequire\s*\(`), weight: 0.2},
		{name: "dom_manipulation", re: regexp.MustCompile(`\bdocument\.\w+|\.innerHTML\b|\.appendChild\s*\(`), weight: 2.0},
		{name: "network_requests", re: regexp.MustCompile(`\bfetch\s*\(|\baxios\.\w+|\bXMLHttpRequest\b`), weight: 2.0},
		{name: "timers", re: regexp.MustCompile(`\b(setInterval|setTimeout|requestAnimationFrame)\s*\(`), weight: 1.5},
		{name: "json_operations", re: regexp.MustCompile(`\bJSON\.(parse|stringify)\s*\(`), weight: 1.0},
	},
	loopLine: regexp.MustCompile(`^\s*(for|while)\s*\(|^\s*do\s*\{|\.forEach\s*\(`),
	inherits: regexp.MustCompile(`\bclass\s+\w+\s+extends\b|\binterface\s+\w+\s+extends\b`),
	style:    cStyle,
}
