package main

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// PanicExitAnalyzer reports panic() anywhere, and log.Fatal*/os.Exit outside of main.main.
var PanicExitAnalyzer = &analysis.Analyzer{
	Name:     "panicexit",
	Doc:      "reports usage of panic and log.Fatal/os.Exit outside of main function in main package",
	Run:      runPanicExit,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

var exitFuncs = map[string]map[string]bool{
	"log": {"Fatal": true, "Fatalf": true, "Fatalln": true},
	"os":  {"Exit": true},
}

func runPanicExit(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.FuncDecl)(nil),
		(*ast.CallExpr)(nil),
	}

	inMain := false
	inspect.Preorder(nodeFilter, func(n ast.Node) {
		switch node := n.(type) {
		case *ast.FuncDecl:
			inMain = pass.Pkg.Name() == "main" && node.Recv == nil && node.Name.Name == "main"
		case *ast.CallExpr:
			switch fun := node.Fun.(type) {
			case *ast.Ident:
				if _, ok := pass.TypesInfo.Uses[fun].(*types.Builtin); ok && fun.Name == "panic" {
					pass.Reportf(fun.Pos(), "found usage of panic")
				}
			case *ast.SelectorExpr:
				if inMain {
					return
				}
				fn, ok := pass.TypesInfo.Uses[fun.Sel].(*types.Func)
				if !ok || fn.Pkg() == nil {
					return
				}
				// methods such as (*log.Logger).Fatal are not package-level exits
				if sig, ok := fn.Type().(*types.Signature); ok && sig.Recv() != nil {
					return
				}
				if exitFuncs[fn.Pkg().Path()][fn.Name()] {
					pass.Reportf(node.Pos(), "found usage of %s.%s outside of main function", fn.Pkg().Name(), fn.Name())
				}
			}
		}
	})

	return nil, nil
}
