package report

// Only engine packages are checked.
func Average(sum float64, count int) float64 {
	return sum / float64(count)
}
