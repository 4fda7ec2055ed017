// Package engine computes salary metrics and the derived status tier for one employee.
//
// The engine is a pure function of its input: it performs no I/O, holds no state
// and is safe for concurrent use. All monetary values are carried as
// arbitrary-precision decimals and finalized with round-half-up to two places.
package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Status is the salary tier derived from the tax-adjusted average.
type Status string

const (
	// StatusGreen is an average strictly above 2000.
	StatusGreen Status = "GREEN"
	// StatusOrange is an average of exactly 2000.
	StatusOrange Status = "ORANGE"
	// StatusRed is an average below 2000.
	StatusRed Status = "RED"
)

// monetaryPlaces is the number of fractional digits kept in finalized amounts.
const monetaryPlaces = 2

var (
	decemberBonus   = decimal.RequireFromString("1.10")
	summerReduction = decimal.RequireFromString("0.95")

	taxThreshold = decimal.NewFromInt(10000)
	afterTaxRate = decimal.RequireFromString("0.93")

	statusThreshold = decimal.NewFromInt(2000)
)

var (
	// ErrInvalidMonth is returned for an observation whose month is outside 1..12.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	// ErrNegativeAmount is returned for an observation with an amount below zero.
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// Observation is one monthly salary record.
type Observation struct {
	Month  int
	Amount decimal.Decimal
}

// Result holds the aggregated metrics. Monetary fields are rounded to two places
// but not rescaled, so String drops trailing zeros (15250, 14182.5); use
// StringFixed(2) to render them with exactly two places.
type Result struct {
	Count           int
	Sum             decimal.Decimal
	SumAfterTax     decimal.Decimal
	Average         decimal.Decimal
	AverageAfterTax decimal.Decimal
	Highest         decimal.Decimal
}

// AdjustByMonth applies the seasonal rule: December +10%, June to August -5%.
// The result is not rounded.
func AdjustByMonth(month int, amount decimal.Decimal) decimal.Decimal {
	switch month {
	case 12:
		return amount.Mul(decemberBonus)
	case 6, 7, 8:
		return amount.Mul(summerReduction)
	default:
		return amount
	}
}

// ApplyTax deducts 7% when the unrounded sum is strictly above 10000.
func ApplyTax(sum decimal.Decimal) decimal.Decimal {
	if sum.GreaterThan(taxThreshold) {
		return sum.Mul(afterTaxRate)
	}
	return sum
}

// ComputeMetrics aggregates the observations. Empty input yields a zero Result.
// An error is returned only for observations outside the documented domain.
func ComputeMetrics(observations []Observation) (Result, error) {
	result := Result{
		Count:           len(observations),
		Sum:             decimal.Zero,
		SumAfterTax:     decimal.Zero,
		Average:         decimal.Zero,
		AverageAfterTax: decimal.Zero,
		Highest:         decimal.Zero,
	}
	if len(observations) == 0 {
		return result, nil
	}

	total := decimal.Zero
	var highest decimal.Decimal
	for i, o := range observations {
		if o.Month < 1 || o.Month > 12 {
			return Result{}, fmt.Errorf("observation %d: %w: got %d", i, ErrInvalidMonth, o.Month)
		}
		if o.Amount.IsNegative() {
			return Result{}, fmt.Errorf("observation %d: %w: got %s", i, ErrNegativeAmount, o.Amount)
		}
		adjusted := AdjustByMonth(o.Month, o.Amount)
		total = total.Add(adjusted)
		if i == 0 || adjusted.GreaterThan(highest) {
			highest = adjusted
		}
	}
	totalAfterTax := ApplyTax(total)
	count := decimal.NewFromInt(int64(len(observations)))

	result.Sum = roundMoney(total)
	result.SumAfterTax = roundMoney(totalAfterTax)
	// DivRound works on the exact remainder, so there is no intermediate rounding.
	result.Average = total.DivRound(count, monetaryPlaces)
	result.AverageAfterTax = totalAfterTax.DivRound(count, monetaryPlaces)
	result.Highest = roundMoney(highest)
	return result, nil
}

// StatusFromAverage classifies a tax-adjusted average against the 2000 threshold.
func StatusFromAverage(averageAfterTax decimal.Decimal) Status {
	switch averageAfterTax.Cmp(statusThreshold) {
	case 1:
		return StatusGreen
	case 0:
		return StatusOrange
	default:
		return StatusRed
	}
}

// Evaluate computes the metrics and classifies them in one call.
func Evaluate(observations []Observation) (Result, Status, error) {
	result, err := ComputeMetrics(observations)
	if err != nil {
		return Result{}, "", err
	}
	return result, StatusFromAverage(result.AverageAfterTax), nil
}

// roundMoney rounds half away from zero, which is half-up for non-negative amounts.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(monetaryPlaces)
}
