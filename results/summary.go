package results

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary of a recorded series
type Summary struct {
	Mean, StdDev, Min, Max, Sum float64
	Argmax                      int
}

// Summarize computes descriptive statistics; NaNs are skipped
func Summarize(v []float64) Summary {
	x, ix := make([]float64, 0, len(v)), make([]int, 0, len(v))
	for i, f := range v {
		if !math.IsNaN(f) {
			x = append(x, f)
			ix = append(ix, i)
		}
	}
	if len(x) == 0 {
		return Summary{Mean: math.NaN(), StdDev: math.NaN(), Min: math.NaN(), Max: math.NaN(), Argmax: -1}
	}
	m, sd := stat.MeanStdDev(x, nil)
	return Summary{
		Mean:   m,
		StdDev: sd,
		Min:    floats.Min(x),
		Max:    floats.Max(x),
		Sum:    floats.Sum(x),
		Argmax: ix[floats.MaxIdx(x)],
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("mean: %.4g  sd: %.4g  min: %.4g  max: %.4g (step %d)  sum: %.4g", s.Mean, s.StdDev, s.Min, s.Max, s.Argmax, s.Sum)
}
