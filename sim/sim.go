// Package sim drives a set of catchments through a forcing period.
package sim

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gosuri/uiprogress"
	"github.com/maseology/catchstep/forcing"
	"github.com/maseology/catchstep/results"
	"github.com/sirupsen/logrus"
)

const balanceTol = 1e-9

// Simulation runs catchments independently; within a step they have no data dependency
type Simulation struct {
	RunID      string
	Catchments []*Catchment
	Frc        *forcing.Forcing
	Rec        *results.Recorder
	Log        logrus.FieldLogger
}

// New maps catchments to forcing stations and allocates a recorder for qids (may be empty)
func New(cs []*Catchment, frc *forcing.Forcing, reg *results.Registry, qids []string) (*Simulation, error) {
	if len(cs) == 0 {
		return nil, fmt.Errorf("sim.New: no catchments")
	}
	if err := frc.Check(); err != nil {
		return nil, fmt.Errorf("sim.New: %w", err)
	}
	cids, seen := make([]string, len(cs)), make(map[string]bool, len(cs))
	for i, c := range cs {
		if seen[c.ID] {
			return nil, fmt.Errorf("sim.New: duplicate catchment ID %s", c.ID)
		}
		seen[c.ID] = true
		k, err := frc.Index(c.Station)
		if err != nil {
			return nil, fmt.Errorf("sim.New: catchment %s: %w", c.ID, err)
		}
		c.sta = k
		cids[i] = c.ID
	}

	s := Simulation{
		RunID:      uuid.New().String(),
		Catchments: cs,
		Frc:        frc,
		Log:        logrus.StandardLogger(),
	}
	if len(qids) > 0 {
		if reg == nil {
			reg = results.Default()
		}
		rec, err := results.NewRecorder(reg, cids, qids, frc.Nstep())
		if err != nil {
			return nil, fmt.Errorf("sim.New: %w", err)
		}
		s.Rec = rec
	}
	return &s, nil
}

// Run steps every catchment concurrently, one goroutine per catchment per time step.
// Returns discharge [m³/s] as [catchment][timestep].
func (s *Simulation) Run(ctx context.Context) ([][]float64, error) {
	s.Log.WithFields(logrus.Fields{
		"run":        s.RunID,
		"catchments": len(s.Catchments),
		"steps":      s.Frc.Nstep(),
	}).Info("simulation started (concurrent)")

	nt, dt := s.Frc.Nstep(), s.Frc.IntervalSec
	hyd := s.allocate(nt)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var ferr error
	for j := 0; j < nt; j++ {
		if err := ctx.Err(); err != nil {
			return hyd, fmt.Errorf("sim.Run: stopped at step %d: %w", j, err)
		}
		wg.Add(len(s.Catchments))
		for i, c := range s.Catchments {
			go func(i int, c *Catchment) {
				defer wg.Done()
				if err := s.step(i, j, c, dt, hyd); err != nil {
					mu.Lock()
					if ferr == nil {
						ferr = err
					}
					mu.Unlock()
				}
			}(i, c)
		}
		wg.Wait()
		if ferr != nil {
			return hyd, fmt.Errorf("sim.Run: step %d: %w", j, ferr)
		}
	}
	return hyd, s.close()
}

// RunSerial gives the same results as Run on a single goroutine, optionally with a progress bar
func (s *Simulation) RunSerial(progress bool) ([][]float64, error) {
	s.Log.WithFields(logrus.Fields{
		"run":        s.RunID,
		"catchments": len(s.Catchments),
		"steps":      s.Frc.Nstep(),
	}).Info("simulation started (serial)")

	nt, dt := s.Frc.Nstep(), s.Frc.IntervalSec
	hyd := s.allocate(nt)

	var bar *uiprogress.Bar
	var stamp atomic.Value
	if progress {
		uiprogress.Start()
		defer uiprogress.Stop()
		stamp.Store("")
		bar = uiprogress.AddBar(nt).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return stamp.Load().(string)
		})
	}

	for j := 0; j < nt; j++ {
		if progress {
			stamp.Store(fmt.Sprint(s.Frc.T[j]))
		}
		for i, c := range s.Catchments {
			if err := s.step(i, j, c, dt, hyd); err != nil {
				return hyd, fmt.Errorf("sim.RunSerial: step %d: %w", j, err)
			}
		}
		if progress {
			bar.Incr()
		}
	}
	return hyd, s.close()
}

func (s *Simulation) allocate(nt int) [][]float64 {
	hyd := make([][]float64, len(s.Catchments))
	for i := range hyd {
		hyd[i] = make([]float64, nt)
	}
	return hyd
}

// step touches only catchment i's state, hydrograph and recorder slot
func (s *Simulation) step(i, j int, c *Catchment, dt float64, hyd [][]float64) error {
	f, err := c.update(dt, s.Frc.Ya[c.sta][j], s.Frc.Ea[c.sta][j])
	if err != nil {
		return err
	}
	hyd[i][j] = f.Discharge(c.Par.Area, dt)
	if s.Rec != nil {
		s.Rec.Record(i, j, &c.Par, &c.Sto, &f, dt)
	}
	return nil
}

// close ends every catchment's budget and checks closure
func (s *Simulation) close() error {
	for _, c := range s.Catchments {
		c.Budget.Close(c.Sto.Storage())
		if err := c.Budget.Check(balanceTol); err != nil {
			return fmt.Errorf("catchment %s: %w", c.ID, err)
		}
		s.Log.WithFields(logrus.Fields{
			"run":       s.RunID,
			"catchment": c.ID,
			"scheme":    c.Scheme.Name(),
		}).Debug(c.Budget.String())
	}
	s.Log.WithField("run", s.RunID).Info("simulation complete")
	return nil
}
