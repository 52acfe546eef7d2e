package forcing

import (
	"math"
	"time"
)

const (
	avgEp  = 1. / 366. // average annual potential evaporation [m/day]
	minEp  = 0.        // baseline evaporation rate [m/day]
	offset = 10        // days from the winter solstice to new year
)

// SeasonalEp is a sinusoidal potential evaporation rate [m/s] peaking at the summer solstice
func SeasonalEp(t time.Time) float64 {
	doy := t.YearDay()
	return ((avgEp-minEp)*(1.+math.Sin(2.*math.Pi*float64(doy+offset)/366.-math.Pi/2.)) + minEp) / 86400.
}
