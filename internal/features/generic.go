package features

import "regexp"

// genericExtractor covers every language without a dedicated extractor.
// Keywords are the union of the common imperative languages.
var genericExtractor = &patternExtractor{
	name: "generic",
	features: []patternFeature{
		{name: "loops", re: regexp.MustCompile(`\b(for|foreach|while|loop|until)\b`), weight: 2.0, kind: kindLoop},
		{name: "conditionals", re: regexp.MustCompile(`\b(if|elif|elsif|unless|switch|case|when|match)\b`), weight: 1.0, kind: kindConditional},
		{name: "exception_handling", re: regexp.MustCompile(`\b(try|catch|except|rescue|finally)\b`), weight: 1.5, kind: kindException},
		{name: "functions", re: regexp.MustCompile(`\b(def|func|function|fn|fun|sub|proc)\b`), weight: 0.5},
		{name: "classes", re: regexp.MustCompile(`\b(class|struct|interface|trait|impl|module)\b`), weight: 1.0},
		{name: "imports", re: regexp.MustCompile(`(?m)^\s*(import|from|require|using|use|include|#include)\b`), weight: 0.2},
		{name: "async_operations", re: regexp.MustCompile(`\b(async|await|spawn|go)\b`), weight: 1.0},
		{name: "io_operations", re: regexp.MustCompile(`\b(open|read|write|print|println|printf|fetch|query|execute)\s*\(`), weight: 1.5},
		{name: "recursion_hints", re: regexp.MustCompile(`\b(recurse|recursive)\w*`), weight: 2.0},
	},
	loopLine: regexp.MustCompile(`^\s*(for|foreach|while|loop|until|do)\b`),
	inherits: regexp.MustCompile(`\b(extends|implements|inherits)\b|\bclass\s+\w+\s*(<|:)\s*\w`),
	style:    hashStyle,
}
