package opt

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/maseology/catchstep"
	"github.com/maseology/catchstep/sim"
	"github.com/maseology/glbopt"
	"github.com/maseology/mmio"
	"github.com/maseology/montecarlo/smpln"
	mrg63k3a "github.com/maseology/pnrg/MRG63k3a"
	"github.com/sirupsen/logrus"
)

const failed = 9999. // objective returned for parameter sets that cannot be run

// Space maps a unit-hypercube sample onto parameters
type Space func(par catchstep.Parameters, u []float64) catchstep.Parameters

// Problem is a single catchment, its forcing and observed discharge [m³/s]
type Problem struct {
	Par    catchstep.Parameters
	Scheme catchstep.Scheme
	Ya, Ea []float64 // [m/s]
	Obs    []float64 // NaN where missing
	Dt     float64   // [s]
	Space  Space
	Ndim   int
	Seed   int64 // zero seeds from the clock
}

// Hydrograph runs one catchment from a zero state and returns discharge [m³/s]
func Hydrograph(par catchstep.Parameters, sch catchstep.Scheme, ya, ea []float64, dt float64) ([]float64, error) {
	if len(ya) != len(ea) {
		return nil, fmt.Errorf("opt.Hydrograph: %d rainfall and %d evaporation values", len(ya), len(ea))
	}
	q, s := make([]float64, len(ya)), catchstep.State{}
	for j := range ya {
		s1, f, err := catchstep.StepWith(sch, s, par, dt, ya[j], ea[j])
		if err != nil {
			return nil, fmt.Errorf("opt.Hydrograph: step %d: %w", j, err)
		}
		q[j] = f.Discharge(par.Area, dt)
		s = s1
	}
	return q, nil
}

// Objective returns 1-NSE for sample u
func (pr *Problem) Objective(u []float64) float64 {
	q, err := Hydrograph(pr.Space(pr.Par, u), pr.Scheme, pr.Ya, pr.Ea, pr.Dt)
	if err != nil {
		return failed
	}
	sc, err := sim.Score(pr.Obs, q)
	if err != nil || math.IsNaN(sc.NSE) || math.IsInf(sc.NSE, 0) {
		return failed
	}
	return 1. - sc.NSE
}

func (pr *Problem) rng() *rand.Rand {
	rng := rand.New(mrg63k3a.New())
	if pr.Seed == 0 {
		rng.Seed(time.Now().UnixNano())
	} else {
		rng.Seed(pr.Seed)
	}
	return rng
}

func (pr *Problem) check() error {
	if pr.Space == nil || pr.Ndim <= 0 {
		return fmt.Errorf("opt: parameter space undefined")
	}
	if pr.Scheme == nil {
		pr.Scheme = catchstep.DefaultScheme
	}
	if len(pr.Obs) != len(pr.Ya) {
		return fmt.Errorf("opt: %d observations for %d forcing steps", len(pr.Obs), len(pr.Ya))
	}
	return nil
}

// Calibrate minimizes 1-NSE using shuffled complex evolution on nthrd threads
func Calibrate(pr *Problem, nthrd int) (catchstep.Parameters, sim.Scores, error) {
	if err := pr.check(); err != nil {
		return pr.Par, sim.Scores{}, err
	}
	tt := mmio.NewTimer()
	logrus.WithFields(logrus.Fields{"scheme": pr.Scheme.Name(), "dims": pr.Ndim, "threads": nthrd}).Info("optimizing..")
	uFinal, _ := glbopt.SCE(nthrd, pr.Ndim, pr.rng(), pr.Objective, false)
	tt.Lap("optimization complete")

	best := pr.Space(pr.Par, uFinal)
	q, err := Hydrograph(best, pr.Scheme, pr.Ya, pr.Ea, pr.Dt)
	if err != nil {
		return best, sim.Scores{}, err
	}
	sc, err := sim.Score(pr.Obs, q)
	return best, sc, err
}

// Result of one Monte Carlo sample
type Result struct {
	U   []float64
	Par catchstep.Parameters
	Of  float64 // 1-NSE
}

// Sample evaluates n Latin hypercube samples; results ranked best first
func Sample(pr *Problem, n int) ([]Result, error) {
	if err := pr.check(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("opt.Sample: n = %d must be >0", n)
	}
	sp := smpln.NewLHC(pr.rng(), n, pr.Ndim, false)
	res := make([]Result, n)
	for k := 0; k < n; k++ {
		u := make([]float64, pr.Ndim)
		for j := 0; j < pr.Ndim; j++ {
			u[j] = sp.U[j][k]
		}
		res[k] = Result{U: u, Par: pr.Space(pr.Par, u), Of: pr.Objective(u)}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Of < res[j].Of })
	return res, nil
}

// WriteResults saves ranked samples as a table
func WriteResults(fp string, res []Result) error {
	tw, err := mmio.NewTXTwriter(fp)
	if err != nil {
		return fmt.Errorf("opt.WriteResults: %v", err)
	}
	defer tw.Close()
	tw.WriteLine(fmt.Sprintf("rank(of %d),eval,F0,Fc,Kwet,StorageCap,Manning,SoilCap,Csib,Kof,Kif,Kbf", len(res)))
	for i, r := range res {
		p := r.Par
		tw.WriteLine(fmt.Sprintf("%d,%f,%e,%e,%e,%e,%f,%f,%f,%f,%f,%f", i+1, 1.-r.Of, p.F0, p.Fc, p.Kwet, p.StorageCap, p.Manning, p.SoilCap, p.Csib, p.Kof, p.Kif, p.Kbf))
	}
	return nil
}
