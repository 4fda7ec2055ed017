// Command linter runs the project's static checks:
//
//	panicexit     reports panic calls and process exits outside main.main
//	decimalmoney  reports float32/float64 in the salary engine
package main

import "golang.org/x/tools/go/analysis/multichecker"

func main() {
	multichecker.Main(PanicExitAnalyzer, DecimalMoneyAnalyzer)
}
