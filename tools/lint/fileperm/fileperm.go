// Package fileperm provides a linter that flags hardcoded file permission
// literals in WriteFile-style calls and suggests the fileutil constants.
package fileperm

import (
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Analyzer is a custom analysis pass that checks for hardcoded file permissions
var Analyzer = &analysis.Analyzer{
	Name: "fileperm",
	Doc:  "checks for hardcoded file permission literals instead of using fileutil constants",
	Run:  run,
}

// WriteFilePermArgIndex is the index of the permission argument in WriteFile functions
const WriteFilePermArgIndex = 2

// suggestions maps permission literals, in both octal spellings, to the
// fileutil constant that should replace them.
var suggestions = map[string]string{
	"0o600": "fileutil.ReadWriteUserPermission",
	"0600":  "fileutil.ReadWriteUserPermission",
	"0o644": "fileutil.ReadWriteUserReadOthers",
	"0644":  "fileutil.ReadWriteUserReadOthers",
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			fun, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || !strings.HasSuffix(fun.Sel.Name, "WriteFile") {
				return true
			}
			if len(call.Args) <= WriteFilePermArgIndex {
				return true
			}
			lit, ok := call.Args[WriteFilePermArgIndex].(*ast.BasicLit)
			if !ok || lit.Kind != token.INT {
				return true
			}
			if constant, found := suggestions[lit.Value]; found {
				pass.Reportf(lit.Pos(), "use %s instead of hardcoded '%s'", constant, lit.Value)
			}
			return true
		})
	}
	return (*struct{})(nil), nil
}
