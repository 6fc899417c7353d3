package features

import "regexp"

var javaExtractor = &patternExtractor{
	name: "java",
	features: []patternFeature{
		{name: "loops", re: regexp.MustCompile(`\b(for|while)\s*\(|\bdo\s*\{`), weight: 2.0, kind: kindLoop},
		{name: "streams", re: regexp.MustCompile(`\.(stream|parallelStream)\s*\(\s*\)`), weight: 1.5, kind: kindLoop},
		{name: "conditionals", re: regexp.MustCompile(`\b(if|switch)\s*\(`), weight: 1.0, kind: kindConditional},
		{name: "exception_handling", re: regexp.MustCompile(`\btry\s*(\{|\()|\bcatch\s*\(`), weight: 1.5, kind: kindException},
		{name: "classes", re: regexp.MustCompile(`\b(class|interface|enum|record)\s+\w+`), weight: 1.0},
		{
			name:    "methods",
			re:      regexp.MustCompile(`(?m)^\s*(?:(?:public|private|protected|static|final|abstract|synchronized|native|default)\s+)*[\w<>\[\],.?]+\s+(\w+)\s*\([^)]*\)\s*(?:throws\s+[\w.,\s]+)?\{`),
			weight:  0.5,
			exclude: map[string]bool{
				"if": true, "for": true, "while": true, "switch": true, "catch": true,
				"return": true, "new": true, "else": true, "synchronized": true,
			},
		},
		{name: "annotations", re: regexp.MustCompile(`(?m)^\s*@\w+`), weight: 0.3},
		{name: "imports", re: regexp.MustCompile(`(?m)^\s*import\s+[\w.*]+;`), weight: 0.2},
		{name: "synchronization", re: regexp.MustCompile(`\bsynchronized\b|\bvolatile\b|\bLock\b`), weight: 2.0},
		{name: "threads", re: regexp.MustCompile(`\bnew\s+Thread\s*\(|\bExecutorService\b|\bCompletableFuture\b`), weight: 2.0},
		{name: "reflection", re: regexp.MustCompile(`\bClass\.forName\s*\(|\.getDeclared\w+\s*\(|\.getClass\s*\(\s*\)`), weight: 2.5},
		{name: "collections", re: regexp.MustCompile(`\bnew\s+(ArrayList|LinkedList|HashMap|TreeMap|HashSet|TreeSet|ConcurrentHashMap)\b`), weight: 1.0},
		{name: "string_concatenation", re: regexp.MustCompile(`"\s*\+\s*\w|\w\s*\+\s*"`), weight: 0.5},
		{name: "io_operations", re: regexp.MustCompile(`\bSystem\.(out|err)\.\w+|\bnew\s+File\w*\s*\(|\bFiles\.\w+\(`), weight: 1.5},
	},
	loopLine: regexp.MustCompile(`^\s*(for|while)\s*\(|^\s*do\s*\{`),
	inherits: regexp.MustCompile(`\b(extends|implements)\s+\w+`),
	style:    cStyle,
}
