package stats

import "sort"

// Median returns the standard even/odd median of values, and false when
// values is empty.
func Median(values []float64) (float64, bool) {
	n := len(values)
	if n == 0 {
		return 0, false
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

// MedianInt64 is Median over integer inputs. The even-count midpoint may
// be fractional, so the result stays a float.
func MedianInt64(values []int64) (float64, bool) {
	fs := make([]float64, len(values))
	for i, v := range values {
		fs[i] = float64(v)
	}
	return Median(fs)
}

// PercentileRank ranks subject within values using mid-rank tie handling:
// rank = (count strictly less) + (count equal + 1)/2, scaled to 0..100
// over [1, n]. Returns false when values is empty. A single comparable
// carries no useful signal and ranks at 50.
func PercentileRank(values []float64, subject float64) (float64, bool) {
	n := len(values)
	if n == 0 {
		return 0, false
	}
	if n == 1 {
		return 50, true
	}

	var less, equal int
	for _, v := range values {
		switch {
		case v < subject:
			less++
		case v == subject:
			equal++
		}
	}

	rank := float64(less) + (float64(equal)+1)/2
	pct := (rank - 1) / float64(n-1) * 100

	// A subject outside the value range would land past the ends of the
	// [1, n] rank scale; the metric is defined on 0..100.
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, true
}

// Pct computes part/whole*100, resolving 0/0 to 0 rather than NaN.
func Pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
