package main

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

func TestPanicExitAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), PanicExitAnalyzer, "exits", "cleanexit")
}

func TestDecimalMoneyAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), DecimalMoneyAnalyzer, "engine", "report")
}
