// Package wbal accumulates catchment water budgets over a simulation.
package wbal

import (
	"fmt"
	"math"

	"github.com/maseology/catchstep"
)

const nearzero = 1e-9

// Budget sums the depths [m] entering and leaving one catchment
type Budget struct {
	Rainfall, Evaporation, Infiltration, Runoff float64
	Sto0, Sto1                                  float64 // storage at beginning and end
	Nstep                                       int
}

// New starts a budget at the given storage [m]
func New(sto0 float64) Budget {
	return Budget{Sto0: sto0, Sto1: sto0}
}

// Add accumulates the fluxes of one time step
func (b *Budget) Add(f *catchstep.Flux) {
	b.Rainfall += f.Rainfall
	b.Evaporation += f.Evaporation
	b.Infiltration += f.Infiltration
	b.Runoff += f.Runoff
	b.Nstep++
}

// Close sets the end-of-period storage
func (b *Budget) Close(sto float64) { b.Sto1 = sto }

// Residual returns inputs less outputs and change in storage [m]
func (b *Budget) Residual() float64 {
	return b.Rainfall - (b.Evaporation + b.Infiltration + b.Runoff + b.Sto1 - b.Sto0)
}

// Check returns an error when the residual exceeds tol relative to the water moved (absolute below 1 m)
func (b *Budget) Check(tol float64) error {
	if tol <= 0. {
		tol = nearzero
	}
	scl := math.Max(1., math.Max(b.Rainfall+b.Sto0, b.Evaporation+b.Infiltration+b.Runoff+b.Sto1))
	if r := b.Residual(); math.IsNaN(r) || math.Abs(r) > tol*scl {
		return fmt.Errorf("wbal.Check: water-balance error, |wbal| = %.5e m over %d steps", math.Abs(r), b.Nstep)
	}
	return nil
}

// Volumes returns rainfall, evaporation, infiltration and runoff volumes [m³]
func (b *Budget) Volumes(area float64) (y, a, f, r float64) {
	return b.Rainfall * area, b.Evaporation * area, b.Infiltration * area, b.Runoff * area
}

// Merge adds b2 to b, both expressed over the same area
func (b *Budget) Merge(b2 *Budget) {
	b.Rainfall += b2.Rainfall
	b.Evaporation += b2.Evaporation
	b.Infiltration += b2.Infiltration
	b.Runoff += b2.Runoff
	b.Sto0 += b2.Sto0
	b.Sto1 += b2.Sto1
	if b2.Nstep > b.Nstep {
		b.Nstep = b2.Nstep
	}
}

func (b Budget) String() string {
	return fmt.Sprintf("pre: %.1f  aet: %.1f  inf: %.1f  ro: %.1f  dsto: %.1f  wbal: % .2e  (mm)",
		b.Rainfall*1000., b.Evaporation*1000., b.Infiltration*1000., b.Runoff*1000., (b.Sto1-b.Sto0)*1000., b.Residual()*1000.)
}
