package analytics

import "math"

func round1(f float64) float64 { return math.Round(f*10) / 10 }

// pct is n/total in percent; an empty total divides by one.
func pct(n, total int) float64 {
	if total <= 0 {
		total = 1
	}
	return round1(float64(n) / float64(total) * 100)
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
