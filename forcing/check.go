package forcing

import (
	"fmt"
	"math"
)

// Check returns an error on negative, NaN or mis-sized series
func (frc *Forcing) Check() error {
	nt := len(frc.T)
	if nt == 0 {
		return fmt.Errorf("forcing.Check: no time steps")
	}
	if frc.IntervalSec <= 0. {
		return fmt.Errorf("forcing.Check: time step interval %v must be >0", frc.IntervalSec)
	}
	if len(frc.Ya) != len(frc.Sta) || len(frc.Ea) != len(frc.Sta) {
		return fmt.Errorf("forcing.Check: %d stations but %d rainfall and %d evaporation series", len(frc.Sta), len(frc.Ya), len(frc.Ea))
	}
	for i, s := range frc.Sta {
		if len(frc.Ya[i]) != nt || len(frc.Ea[i]) != nt {
			return fmt.Errorf("forcing.Check: station %s series length does not match %d time steps", s, nt)
		}
		for j := 0; j < nt; j++ {
			if y := frc.Ya[i][j]; y < 0. || math.IsNaN(y) {
				return fmt.Errorf("forcing.Check: station %s rainfall at %v = %v", s, frc.T[j], y)
			}
			if e := frc.Ea[i][j]; e < 0. || math.IsNaN(e) {
				return fmt.Errorf("forcing.Check: station %s evaporation at %v = %v", s, frc.T[j], e)
			}
		}
	}
	return nil
}

// Totals returns the mean annual rainfall and potential evaporation [m/yr] of a station
func (frc *Forcing) Totals(i int) (sy, se float64) {
	for j := range frc.T {
		sy += frc.Ya[i][j]
		se += frc.Ea[i][j]
	}
	f := 365.24 * 86400. / float64(len(frc.T)) // sum of rates [m/s] to [m/yr]
	return sy * f, se * f
}

func (frc *Forcing) CheckAndPrint() {
	fmt.Println("Forcing summary:")
	nt := len(frc.T)
	fmt.Printf(" %v to %v (%d timesteps)\n", frc.T[0], frc.T[nt-1], nt)
	fmt.Printf(" model timestep interval: %ds, %d stations\n", int64(frc.IntervalSec), len(frc.Sta))
	for i, s := range frc.Sta {
		sy, se := frc.Totals(i)
		fmt.Printf("  %-12s totals (mm/yr): Ya: %.1f   Ea: %.1f\n", s, sy*1000., se*1000.)
	}
}
