package features

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"
)

// goWeights are the score weights of the features the Go extractor counts,
// in a fixed order.
var goWeights = []weightedFeature{
	{name: "loops", weight: 2.0},
	{name: "conditionals", weight: 1.0},
	{name: "switch_cases", weight: 0.5},
	{name: "error_checks", weight: 0.5},
	{name: "functions", weight: 0.5},
	{name: "methods", weight: 0.5},
	{name: "closures", weight: 0.8},
	{name: "structs", weight: 1.0},
	{name: "interfaces", weight: 1.0},
	{name: "imports", weight: 0.2},
	{name: "goroutines", weight: 2.0},
	{name: "channel_operations", weight: 1.5},
	{name: "select_statements", weight: 1.5},
	{name: "defers", weight: 0.5},
	{name: "panics", weight: 1.5},
	{name: "reflection", weight: 2.5},
}

// goExtractor walks the syntax tree of a Go file. Cyclomatic complexity is
// 1 plus every branch point, loop nesting comes from the tree rather than
// indentation, and inheritance depth is the largest number of embedded
// types in a struct or interface.
type goExtractor struct{}

func (goExtractor) Name() string { return "go" }

func (goExtractor) Extract(path string, src []byte) (FeatureVector, error) {
	lines := goCodeLines(path, src)
	if lines == 0 {
		v := zeroVector(path, "Go", "")
		v.Structural = true
		v.Extractor = "go"
		return v, nil
	}

	file, err := parseGo(path, src)
	if err != nil {
		return FeatureVector{}, err
	}

	counts := make(map[string]int, len(goWeights))
	for _, w := range goWeights {
		counts[w.name] = 0
	}
	counts["imports"] = len(file.Imports)

	decisions := 0
	embedded := 0

	ast.Inspect(file, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.ForStmt, *ast.RangeStmt:
			counts["loops"]++
			decisions++
		case *ast.IfStmt:
			counts["conditionals"]++
			decisions++
			if isErrCheck(x.Cond) {
				counts["error_checks"]++
			}
		case *ast.CaseClause:
			if x.List != nil {
				counts["switch_cases"]++
				decisions++
			}
		case *ast.CommClause:
			if x.Comm != nil {
				decisions++
			}
		case *ast.BinaryExpr:
			if x.Op == token.LAND || x.Op == token.LOR {
				decisions++
			}
		case *ast.FuncDecl:
			if x.Recv != nil {
				counts["methods"]++
			} else {
				counts["functions"]++
			}
		case *ast.FuncLit:
			counts["closures"]++
		case *ast.StructType:
			counts["structs"]++
			embedded = max(embedded, embeddedFields(x.Fields))
		case *ast.InterfaceType:
			counts["interfaces"]++
			embedded = max(embedded, embeddedFields(x.Methods))
		case *ast.GoStmt:
			counts["goroutines"]++
		case *ast.SendStmt:
			counts["channel_operations"]++
		case *ast.UnaryExpr:
			if x.Op == token.ARROW {
				counts["channel_operations"]++
			}
		case *ast.SelectStmt:
			counts["select_statements"]++
		case *ast.DeferStmt:
			counts["defers"]++
		case *ast.CallExpr:
			if id, ok := x.Fun.(*ast.Ident); ok && (id.Name == "panic" || id.Name == "recover") {
				counts["panics"]++
			}
			if sel, ok := x.Fun.(*ast.SelectorExpr); ok {
				if pkg, ok := sel.X.(*ast.Ident); ok && pkg.Name == "reflect" {
					counts["reflection"]++
				}
			}
		}
		return true
	})

	cyclomatic := 1 + decisions
	depth := goLoopDepth(file)

	return FeatureVector{
		Path:                 path,
		Language:             "Go",
		Lines:                lines,
		Features:             counts,
		ComplexityScore:      score(lines, counts, goWeights, cyclomatic),
		CyclomaticComplexity: cyclomatic,
		InheritanceDepth:     embedded,
		MaxLoopDepth:         depth,
		RuntimeComplexity:    runtimeClass(depth),
		Structural:           true,
		Extractor:            "go",
	}, nil
}

// goCodeLines counts the lines that hold at least one token. Comments are
// dropped by the scanner, and a multi-line raw string counts every line it
// spans. Scan errors are ignored so fragments are counted too.
func goCodeLines(path string, src []byte) int {
	fset := token.NewFileSet()
	file := fset.AddFile(path, fset.Base(), len(src))

	var s scanner.Scanner
	s.Init(file, src, nil, 0)

	lines := make(map[int]bool)
	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		first := file.Line(pos)
		for i := 0; i <= strings.Count(lit, "\n"); i++ {
			lines[first+i] = true
		}
	}
	return len(lines)
}

// parseGo parses a whole file. Fragments without a package clause, as
// submitted for snippet analysis, are retried as a file body and then as a
// function body.
func parseGo(path string, src []byte) (*ast.File, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
	if err == nil {
		return file, nil
	}
	if bytes.HasPrefix(bytes.TrimSpace(src), []byte("package ")) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	wrapped := append([]byte("package snippet\n"), src...)
	if file, werr := parser.ParseFile(fset, path, wrapped, parser.SkipObjectResolution); werr == nil {
		return file, nil
	}
	body := []byte("package snippet\nfunc _() {\n")
	body = append(body, src...)
	body = append(body, []byte("\n}\n")...)
	if file, werr := parser.ParseFile(fset, path, body, parser.SkipObjectResolution); werr == nil {
		return file, nil
	}
	return nil, fmt.Errorf("parsing %s: %w", path, err)
}

// isErrCheck matches `err != nil` and `nil != err`.
func isErrCheck(cond ast.Expr) bool {
	be, ok := cond.(*ast.BinaryExpr)
	if !ok || be.Op != token.NEQ {
		return false
	}
	return (isIdent(be.X, "err") && isIdent(be.Y, "nil")) || (isIdent(be.X, "nil") && isIdent(be.Y, "err"))
}

func isIdent(e ast.Expr, name string) bool {
	id, ok := e.(*ast.Ident)
	return ok && id.Name == name
}

func embeddedFields(fl *ast.FieldList) int {
	if fl == nil {
		return 0
	}
	n := 0
	for _, f := range fl.List {
		if len(f.Names) == 0 {
			n++
		}
	}
	return n
}

// goLoopDepth returns the deepest nesting of for and range statements.
// Function literals start a new nesting scope.
func goLoopDepth(root ast.Node) int {
	maxDepth := 0
	var visit func(n ast.Node, depth int)
	visit = func(n ast.Node, depth int) {
		ast.Inspect(n, func(c ast.Node) bool {
			if c == nil || c == n {
				return true
			}
			switch x := c.(type) {
			case *ast.ForStmt:
				d := depth + 1
				maxDepth = max(maxDepth, d)
				visit(x.Body, d)
				return false
			case *ast.RangeStmt:
				d := depth + 1
				maxDepth = max(maxDepth, d)
				visit(x.Body, d)
				return false
			case *ast.FuncLit:
				visit(x.Body, 0)
				return false
			}
			return true
		})
	}
	visit(root, 0)
	return maxDepth
}
