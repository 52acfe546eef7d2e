package sim

import (
	"fmt"
	"math"

	"github.com/maseology/catchstep/wbal"
	"github.com/maseology/objfunc"
)

// Scores compares simulated against observed discharge
type Scores struct {
	KGE, NSE, Bias, RMSE float64
	N                    int
}

// Score drops steps where either series is NaN
func Score(obs, sim []float64) (Scores, error) {
	if len(obs) != len(sim) {
		return Scores{}, fmt.Errorf("sim.Score: %d observations for %d simulated steps", len(obs), len(sim))
	}
	o, s := make([]float64, 0, len(obs)), make([]float64, 0, len(obs))
	for i, v := range obs {
		if math.IsNaN(v) || math.IsNaN(sim[i]) {
			continue
		}
		o = append(o, v)
		s = append(s, sim[i])
	}
	if len(o) < 2 {
		return Scores{}, fmt.Errorf("sim.Score: fewer than two observations overlap the simulation")
	}
	return Scores{
		KGE:  objfunc.KGE(o, s),
		NSE:  objfunc.NSE(o, s),
		Bias: objfunc.Bias(o, s),
		RMSE: objfunc.RMSE(o, s),
		N:    len(o),
	}, nil
}

func (sc Scores) String() string {
	return fmt.Sprintf("KGE: %.3f  NSE: %.3f  RMSE: %.3f  Bias: %.3f  (n=%d)", sc.KGE, sc.NSE, sc.RMSE, sc.Bias, sc.N)
}

// Total returns the area-weighted budget of all catchments [m]
func (s *Simulation) Total() wbal.Budget {
	var tot wbal.Budget
	ta := 0.
	for _, c := range s.Catchments {
		b := c.Budget
		b.Rainfall *= c.Par.Area
		b.Evaporation *= c.Par.Area
		b.Infiltration *= c.Par.Area
		b.Runoff *= c.Par.Area
		b.Sto0 *= c.Par.Area
		b.Sto1 *= c.Par.Area
		tot.Merge(&b)
		ta += c.Par.Area
	}
	tot.Rainfall /= ta
	tot.Evaporation /= ta
	tot.Infiltration /= ta
	tot.Runoff /= ta
	tot.Sto0 /= ta
	tot.Sto1 /= ta
	return tot
}

// Print writes catchment budgets to stdout
func (s *Simulation) Print() {
	fmt.Printf("Run %s: %d catchments, %d timesteps\n", s.RunID, len(s.Catchments), s.Frc.Nstep())
	for _, c := range s.Catchments {
		fmt.Printf(" %-12s %-8s area: %.3f km²  %v\n", c.ID, c.Scheme.Name(), c.Par.Area/1e6, c.Budget)
	}
	fmt.Printf(" %-21s total        %v\n", "", s.Total())
}
