// Command sqllint checks that every SQL string constant starts with a
// "--sql <uuid>" audit marker and that no marker is used twice.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	sqlKeywordPattern = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with)\b`)
	markerPattern     = regexp.MustCompile(`^--sql ([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$`)
)

type violation struct {
	pos     token.Position
	name    string
	message string
}

func (v violation) String() string {
	return fmt.Sprintf("%s:%d %s (%s)", v.pos.Filename, v.pos.Line, v.message, v.name)
}

type linter struct {
	fset       *token.FileSet
	seen       map[string]token.Position
	violations []violation
}

func main() {
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{"internal/sqlinline"}
	}

	violations, err := lint(targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqllint: %v\n", err)
		os.Exit(1)
	}
	if len(violations) > 0 {
		fmt.Fprintln(os.Stderr, "sqllint: SQL audit marker problems")
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "  %s\n", v)
		}
		os.Exit(1)
	}
}

func lint(targets []string) ([]violation, error) {
	l := &linter{fset: token.NewFileSet(), seen: map[string]token.Position{}}
	for _, target := range targets {
		err := filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != target && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") || d.Name() == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			return l.file(path)
		})
		if err != nil {
			return nil, err
		}
	}
	sort.SliceStable(l.violations, func(i, j int) bool {
		a, b := l.violations[i].pos, l.violations[j].pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Line < b.Line
	})
	return l.violations, nil
}

func (l *linter) file(path string) error {
	file, err := parser.ParseFile(l.fset, path, nil, parser.ParseComments)
	if err != nil {
		return err
	}
	ast.Inspect(file, func(n ast.Node) bool {
		vs, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for i, value := range vs.Values {
			name := ""
			if i < len(vs.Names) {
				name = vs.Names[i].Name
			}
			l.value(name, value)
		}
		return true
	})
	return nil
}

// value checks one constant. Concatenated literals are judged by their
// leftmost part, which is where the marker has to be.
func (l *linter) value(name string, expr ast.Expr) {
	for {
		bin, ok := expr.(*ast.BinaryExpr)
		if !ok || bin.Op != token.ADD {
			break
		}
		expr = bin.X
	}
	bl, ok := expr.(*ast.BasicLit)
	if !ok || bl.Kind != token.STRING {
		return
	}
	raw, err := unquote(bl.Value)
	if err != nil || !sqlKeywordPattern.MatchString(raw) {
		return
	}
	pos := l.fset.Position(bl.Pos())
	m := markerPattern.FindStringSubmatch(firstLine(raw))
	if m == nil {
		l.violations = append(l.violations, violation{pos: pos, name: name, message: "missing or invalid --sql <uuid> marker"})
		return
	}
	if prev, dup := l.seen[m[1]]; dup {
		l.violations = append(l.violations, violation{
			pos:     pos,
			name:    name,
			message: fmt.Sprintf("marker %s already used at %s:%d", m[1], prev.Filename, prev.Line),
		})
		return
	}
	l.seen[m[1]] = pos
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func unquote(v string) (string, error) {
	if len(v) >= 2 && v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}
