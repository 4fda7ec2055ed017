package main

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// moneyPackages are the package names whose arithmetic must stay in decimal.
var moneyPackages = map[string]bool{
	"engine": true,
}

// DecimalMoneyAnalyzer reports binary floating point in money arithmetic packages.
var DecimalMoneyAnalyzer = &analysis.Analyzer{
	Name:     "decimalmoney",
	Doc:      "reports float32/float64 types and float-valued calls in salary engine packages",
	Run:      runDecimalMoney,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func runDecimalMoney(pass *analysis.Pass) (interface{}, error) {
	if !moneyPackages[pass.Pkg.Name()] {
		return nil, nil
	}
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.Ident)(nil),
		(*ast.CallExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		switch node := n.(type) {
		case *ast.Ident:
			obj, ok := pass.TypesInfo.Uses[node].(*types.TypeName)
			if ok && isFloat(obj.Type()) {
				pass.Reportf(node.Pos(), "%s used in money arithmetic, use decimal.Decimal", node.Name)
			}
		case *ast.CallExpr:
			// conversions are already reported through their type identifier
			if tv, ok := pass.TypesInfo.Types[node.Fun]; ok && tv.IsType() {
				return
			}
			if isFloat(pass.TypesInfo.TypeOf(node)) {
				pass.Reportf(node.Pos(), "call returns %s in money arithmetic, use decimal.Decimal", pass.TypesInfo.TypeOf(node))
			}
		}
	})

	return nil, nil
}

func isFloat(t types.Type) bool {
	if t == nil {
		return false
	}
	basic, ok := t.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsFloat != 0
}
