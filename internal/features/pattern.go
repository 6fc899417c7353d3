package features

import (
	"regexp"
	"strings"
)

// Feature kinds that feed the cyclomatic approximation.
const (
	kindOther = iota
	kindLoop
	kindConditional
	kindException
)

// patternFeature counts matches of a regular expression over the code lines.
type patternFeature struct {
	name   string
	re     *regexp.Regexp
	weight float64
	kind   int
	// exclude drops matches whose first submatch is in the set.
	exclude map[string]bool
}

// patternExtractor is a table-driven Extractor. Features are counted over
// the comment-free code and iterated in table order.
type patternExtractor struct {
	name     string
	features []patternFeature
	// loopLine recognizes a line that opens a loop, for the nesting heuristic.
	loopLine *regexp.Regexp
	// inherits counts declarations that extend or implement another type.
	inherits *regexp.Regexp
	style    commentStyle
}

func (p *patternExtractor) Name() string { return p.name }

// withStyle returns a copy of p that strips comments the way lang writes them.
func (p *patternExtractor) withStyle(lang string) *patternExtractor {
	c := *p
	c.style = styleFor(lang)
	return &c
}

func (p *patternExtractor) Extract(path string, src []byte) (FeatureVector, error) {
	lines := codeLines(src, p.style)
	code := strings.Join(lines, "\n")

	counts := make(map[string]int, len(p.features))
	weights := make([]weightedFeature, 0, len(p.features))
	var decisions int
	for _, f := range p.features {
		n := countMatches(f, code)
		counts[f.name] = n
		weights = append(weights, weightedFeature{name: f.name, weight: f.weight})
		if f.kind != kindOther {
			decisions += n
		}
	}

	cyclomatic := 0
	if len(lines) > 0 {
		cyclomatic = 1 + decisions
	}

	inheritance := 0
	if p.inherits != nil {
		inheritance = len(p.inherits.FindAllStringIndex(code, -1))
	}

	depth := loopDepth(lines, p.loopLine)

	return FeatureVector{
		Path:                 path,
		Lines:                len(lines),
		Features:             counts,
		ComplexityScore:      score(len(lines), counts, weights, cyclomatic),
		CyclomaticComplexity: cyclomatic,
		InheritanceDepth:     inheritance,
		MaxLoopDepth:         depth,
		RuntimeComplexity:    runtimeClass(depth),
		Extractor:            p.name,
	}, nil
}

func countMatches(f patternFeature, code string) int {
	if f.exclude == nil {
		return len(f.re.FindAllStringIndex(code, -1))
	}
	n := 0
	for _, m := range f.re.FindAllStringSubmatch(code, -1) {
		if len(m) > 1 && f.exclude[m[1]] {
			continue
		}
		n++
	}
	return n
}

// loopDepth tracks the indentation of open loop lines and returns the
// deepest nesting seen. A non-blank line at or left of an open loop's
// indentation closes it.
func loopDepth(lines []string, loopLine *regexp.Regexp) int {
	if loopLine == nil {
		return 0
	}
	var stack []int
	maxDepth := 0
	for _, line := range lines {
		indent := indentation(line)
		for len(stack) > 0 && indent <= stack[len(stack)-1] {
			stack = stack[:len(stack)-1]
		}
		if loopLine.MatchString(line) {
			stack = append(stack, indent)
			if len(stack) > maxDepth {
				maxDepth = len(stack)
			}
		}
	}
	return maxDepth
}

// indentation counts leading whitespace, a tab counting as four columns.
func indentation(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}
