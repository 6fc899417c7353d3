package features

import "regexp"

var pythonExtractor = &patternExtractor{
	name: "python",
	features: []patternFeature{
		{name: "loops", re: regexp.MustCompile(`(?m)^\s*(async\s+)?(for|while)\b`), weight: 2.0, kind: kindLoop},
		{name: "list_comprehensions", re: regexp.MustCompile(`\[[^\]\n]*\bfor\b[^\]\n]*\bin\b[^\]\n]*\]`), weight: 1.5, kind: kindLoop},
		{name: "generator_expressions", re: regexp.MustCompile(`\([^()\n]*\bfor\b[^()\n]*\bin\b[^()\n]*\)`), weight: 1.0, kind: kindLoop},
		{name: "conditionals", re: regexp.MustCompile(`(?m)^\s*(if|elif)\b`), weight: 1.0, kind: kindConditional},
		{name: "exception_handling", re: regexp.MustCompile(`(?m)^\s*(try|except)\b`), weight: 1.5, kind: kindException},
		{name: "functions", re: regexp.MustCompile(`(?m)^\s*def\s+\w+`), weight: 0.5},
		{name: "async_functions", re: regexp.MustCompile(`(?m)^\s*async\s+def\s+\w+`), weight: 1.0},
		{name: "classes", re: regexp.MustCompile(`(?m)^\s*class\s+\w+`), weight: 1.0},
		{name: "decorators", re: regexp.MustCompile(`(?m)^\s*@[\w.]+`), weight: 0.5},
		{name: "lambdas", re: regexp.MustCompile(`\blambda\b`), weight: 0.5},
		{name: "imports", re: regexp.MustCompile(`(?m)^\s*(import|from)\s+[\w.]+`), weight: 0.2},
		{name: "io_operations", re: regexp.MustCompile(`\b(open|print|input)\s*\(|\brequests\.\w+\(`), weight: 1.5},
		{name: "dataframe_operations", re: regexp.MustCompile(`\b(pd|pandas|np|numpy)\.\w+`), weight: 2.0},
		{name: "ml_operations", re: regexp.MustCompile(`\b(\.fit|\.predict|\.train|\.backward)\s*\(|\b(tf|torch|keras)\.\w+`), weight: 3.0},
		{name: "global_statements", re: regexp.MustCompile(`(?m)^\s*global\s+\w+`), weight: 1.0},
	},
	loopLine: regexp.MustCompile(`^\s*(async\s+)?(for|while)\b`),
	inherits: regexp.MustCompile(`(?m)^\s*class\s+\w+\s*\(\s*(?:[A-Za-z_][\w.]*)`),
	style:    pythonStyle,
}
