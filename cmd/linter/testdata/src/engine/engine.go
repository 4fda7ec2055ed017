package engine

import "math"

type Result struct {
	Count   int
	Average float64 // want "float64 used in money arithmetic, use decimal.Decimal"
}

func average(sum float32, count int) float32 { // want "float32 used in money arithmetic, use decimal.Decimal" "float32 used in money arithmetic, use decimal.Decimal"
	return sum / float32(count) // want "float32 used in money arithmetic, use decimal.Decimal"
}

func rounded(x int) int {
	return int(math.Round(2.5)) + x // want "call returns float64 in money arithmetic, use decimal.Decimal"
}
