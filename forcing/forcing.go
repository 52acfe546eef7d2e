package forcing

import (
	"fmt"
	"time"
)

// Forcing holds the boundary time series for a set of stations
type Forcing struct {
	T           []time.Time // [date ID]
	Ya, Ea      [][]float64 // [staID][DateID] rainfall and potential evaporation [m/s]
	Sta         []string    // station names [staID]
	IntervalSec float64
}

// Index returns the station ID for a name
func (frc *Forcing) Index(sta string) (int, error) {
	for i, s := range frc.Sta {
		if s == sta {
			return i, nil
		}
	}
	return -1, fmt.Errorf("forcing.Index: station %q not found", sta)
}

// Nstep returns the number of time steps
func (frc *Forcing) Nstep() int { return len(frc.T) }
