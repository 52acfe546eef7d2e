package sim

import (
	"fmt"

	"github.com/maseology/catchstep"
	"github.com/maseology/catchstep/wbal"
)

// Catchment is one catchment cell together with the state it owns
type Catchment struct {
	ID, Station string
	Par         catchstep.Parameters
	Sto         catchstep.State
	Scheme      catchstep.Scheme
	Budget      wbal.Budget

	sta int // forcing station index
}

// NewCatchment returns a catchment with a zeroed (or given) initial state
func NewCatchment(id, station string, par catchstep.Parameters, sch catchstep.Scheme, s0 *catchstep.State) (*Catchment, error) {
	if sch == nil {
		sch = catchstep.DefaultScheme
	}
	c := Catchment{ID: id, Station: station, Par: par, Scheme: sch}
	if s0 != nil {
		c.Sto = *s0
	}
	if err := c.Par.Validate(); err != nil {
		return nil, fmt.Errorf("catchment %s: %w", id, err)
	}
	if err := sch.Check(&c.Par); err != nil {
		return nil, fmt.Errorf("catchment %s: %w", id, err)
	}
	if err := c.Sto.Check(); err != nil {
		return nil, fmt.Errorf("catchment %s: %w", id, err)
	}
	c.Budget = wbal.New(c.Sto.Storage())
	return &c, nil
}

// update advances the catchment in place; returns the step fluxes
func (c *Catchment) update(dt, y, ep float64) (catchstep.Flux, error) {
	s1, f, err := catchstep.StepWith(c.Scheme, c.Sto, c.Par, dt, y, ep)
	if err != nil {
		return f, fmt.Errorf("catchment %s: %w", c.ID, err)
	}
	c.Sto = s1
	c.Budget.Add(&f)
	return f, nil
}
