package analytics

import "math"

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Pearson computes the Pearson correlation coefficient between two series.
// Returns 0 when the series differ in length, have fewer than two points,
// or either series has zero variance.
func Pearson(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}

	mx := Mean(xs)
	my := Mean(ys)

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0
	}

	r := cov / math.Sqrt(varX*varY)
	// Guard against float drift pushing the coefficient out of [-1, 1].
	return math.Max(-1, math.Min(1, r))
}

// Clamp01 clamps v to the [0, 1] interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
