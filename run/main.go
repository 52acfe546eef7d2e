package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/maseology/catchstep"
	"github.com/maseology/catchstep/config"
	"github.com/maseology/catchstep/forcing"
	"github.com/maseology/catchstep/opt"
	"github.com/maseology/catchstep/results"
	"github.com/maseology/catchstep/sim"
	"github.com/maseology/mmio"
	"github.com/sirupsen/logrus"
)

const usage = `usage: run quantities                         list recordable quantities
       run <config.toml>                      run all catchments
       run <config.toml> calibrate <catchment>  optimize one catchment against observations
       run <config.toml> sample <catchment> <n> Latin hypercube sample one catchment`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	if os.Args[1] == "quantities" {
		for _, ln := range results.Default().Table() {
			fmt.Println(ln)
		}
		return
	}

	fmt.Println("")
	tt := mmio.NewTimer()
	defer tt.Lap(fmt.Sprintf("\nRun complete. n processes: %v", runtime.GOMAXPROCS(0)))

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("%v", err)
	}
	frc := loadForcing(cfg.Path(cfg.Forcing))
	tt.Print("forcing load complete\n")

	switch {
	case len(os.Args) == 2:
		run(cfg, frc)
	case len(os.Args) == 4 && os.Args[2] == "calibrate":
		calibrate(cfg, frc, os.Args[3])
	case len(os.Args) == 5 && os.Args[2] == "sample":
		n, err := strconv.Atoi(os.Args[4])
		if err != nil {
			log.Fatalf("sample count: %v", err)
		}
		sample(cfg, frc, os.Args[3], n)
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

// loadForcing prefers a gob cache next to the csv
func loadForcing(fp string) *forcing.Forcing {
	gfp := fp + ".gob"
	if _, ok := mmio.FileExists(gfp); ok {
		frc, err := forcing.LoadGob(gfp)
		if err == nil {
			return frc
		}
		logrus.Warnf("ignoring forcing cache %s: %v", gfp, err)
	}
	frc, err := forcing.LoadCSV(fp)
	if err != nil {
		log.Fatalf("%v", err)
	}
	frc.CheckAndPrint()
	if err := frc.SaveGob(gfp); err != nil {
		logrus.Warnf("%v", err)
	}
	return frc
}

func run(cfg *config.Config, frc *forcing.Forcing) {
	cs, err := cfg.Catchments()
	if err != nil {
		log.Fatalf("%v", err)
	}
	s, err := sim.New(cs, frc, results.Default(), cfg.Quantities)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var hyd [][]float64
	if cfg.Concurrent {
		hyd, err = s.Run(context.Background())
	} else {
		hyd, err = s.RunSerial(cfg.Progress)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
	s.Print()

	if s.Rec != nil {
		dir := cfg.Path(cfg.Outdir)
		if err := s.Rec.WriteCSV(dir, frc.T); err != nil {
			log.Fatalf("%v", err)
		}
		if cfg.Bins {
			if err := s.Rec.WriteBins(dir); err != nil {
				log.Fatalf("%v", err)
			}
		}
	}

	// catchments drain to a common outlet
	q := make([]float64, frc.Nstep())
	for i, c := range s.Catchments {
		for j, v := range hyd[i] {
			q[j] += v
		}
		fmt.Printf(" %-12s discharge [m³/s] %v\n", c.ID, results.Summarize(hyd[i]))
	}
	if cfg.HasObserved() {
		obs, err := forcing.LoadObservations(cfg.Path(cfg.Observed), frc.T)
		if err != nil {
			log.Fatalf("%v", err)
		}
		sc, err := sim.Score(obs, q)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf(" outlet: %v\n", sc)
	}
}

func problem(cfg *config.Config, frc *forcing.Forcing, cid string) *opt.Problem {
	if !cfg.HasObserved() {
		log.Fatalf("observed discharge required")
	}
	for i := range cfg.Catchment {
		c := &cfg.Catchment[i]
		if c.ID != cid {
			continue
		}
		sch, err := catchstep.SchemeByName(c.Scheme)
		if err != nil {
			log.Fatalf("%v", err)
		}
		k, err := frc.Index(c.Station)
		if err != nil {
			log.Fatalf("%v", err)
		}
		obs, err := forcing.LoadObservations(cfg.Path(cfg.Observed), frc.T)
		if err != nil {
			log.Fatalf("%v", err)
		}
		pr := opt.Problem{
			Par:    c.Parameters(),
			Scheme: sch,
			Ya:     frc.Ya[k],
			Ea:     frc.Ea[k],
			Obs:    obs,
			Dt:     frc.IntervalSec,
			Space:  opt.HortonSpace,
			Ndim:   opt.HortonDims,
		}
		if sch.Name() == "cascade" {
			pr.Space, pr.Ndim = opt.CascadeSpace, opt.CascadeDims
		}
		return &pr
	}
	log.Fatalf("catchment %q not found", cid)
	return nil
}

func calibrate(cfg *config.Config, frc *forcing.Forcing, cid string) {
	par, sc, err := opt.Calibrate(problem(cfg, frc, cid), runtime.GOMAXPROCS(0))
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("\nfinal parameters:\n%+v\n%v\n", par, sc)
}

func sample(cfg *config.Config, frc *forcing.Forcing, cid string, n int) {
	res, err := opt.Sample(problem(cfg, frc, cid), n)
	if err != nil {
		log.Fatalf("%v", err)
	}
	dir := cfg.Path(cfg.Outdir)
	mmio.MakeDir(dir)
	fp := filepath.Join(dir, cid+".samples.csv")
	if err := opt.WriteResults(fp, res); err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf(" best of %d: NSE %.3f  (%s)\n", n, 1.-res[0].Of, fp)
}
