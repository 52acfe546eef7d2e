// Package results offers named output quantities of a catchment and records them over a run.
package results

import (
	"fmt"
	"sort"

	"github.com/maseology/catchstep"
)

// Getter reads a quantity from the state at the end of a step and the fluxes of that step
type Getter func(p *catchstep.Parameters, s *catchstep.State, f *catchstep.Flux, dt float64) float64

// Offer is one output quantity
type Offer struct {
	ID, Unit, Description string
	Get                   Getter
}

// Registry maps quantity IDs to offers. Offers are registered at setup and only read during a run.
type Registry struct {
	offers map[string]Offer
}

func NewRegistry() *Registry {
	return &Registry{offers: make(map[string]Offer)}
}

// Offer registers a quantity; IDs must be unique
func (r *Registry) Offer(id, unit, desc string, get Getter) error {
	if id == "" || get == nil {
		return fmt.Errorf("results.Offer: quantity requires an ID and a getter")
	}
	if _, ok := r.offers[id]; ok {
		return fmt.Errorf("results.Offer: quantity %q already offered", id)
	}
	r.offers[id] = Offer{id, unit, desc, get}
	return nil
}

// Lookup returns the offer for a quantity ID
func (r *Registry) Lookup(id string) (Offer, bool) {
	o, ok := r.offers[id]
	return o, ok
}

// IDs returns all offered quantity IDs, sorted
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.offers))
	for id := range r.offers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Table lists the offers as "id [unit] description", sorted by id
func (r *Registry) Table() []string {
	ids := r.IDs()
	ss := make([]string, len(ids))
	for i, id := range ids {
		o := r.offers[id]
		ss[i] = fmt.Sprintf("%-14s [%s] %s", o.ID, o.Unit, o.Description)
	}
	return ss
}

func fromState(g func(*catchstep.State) float64) Getter {
	return func(_ *catchstep.Parameters, s *catchstep.State, _ *catchstep.Flux, _ float64) float64 { return g(s) }
}

func perSecond(g func(*catchstep.Flux) float64) Getter {
	return func(_ *catchstep.Parameters, _ *catchstep.State, f *catchstep.Flux, dt float64) float64 {
		return g(f) / dt
	}
}

// Default returns a registry holding the standard catchment quantities
func Default() *Registry {
	r := NewRegistry()
	for _, o := range []Offer{
		{"SurfaceDepth", "m", "water on the catchment surface", fromState(func(s *catchstep.State) float64 { return s.SurfaceDepth })},
		{"WettingLoss", "m", "wetting storage", fromState(func(s *catchstep.State) float64 { return s.WettingLoss })},
		{"StorageLoss", "m", "depression storage", fromState(func(s *catchstep.State) float64 { return s.StorageLoss })},
		{"SoilMoisture", "m", "soil moisture reservoir", fromState(func(s *catchstep.State) float64 { return s.SoilMoisture })},
		{"Overland", "m", "overland flow reservoir", fromState(func(s *catchstep.State) float64 { return s.Overland })},
		{"Interflow", "m", "interflow reservoir", fromState(func(s *catchstep.State) float64 { return s.Interflow })},
		{"Baseflow", "m", "baseflow reservoir", fromState(func(s *catchstep.State) float64 { return s.Baseflow })},
		{"Depletion", "-", "Horton depletion fraction (0 at f0, 1 at fc)", fromState(func(s *catchstep.State) float64 { return s.Infiltration })},
		{"Storage", "m", "total stored water", fromState(func(s *catchstep.State) float64 { return s.Storage() })},
		{"RunoffRate", "m/s", "runoff per unit area", perSecond(func(f *catchstep.Flux) float64 { return f.Runoff })},
		{"Infiltration", "m/s", "infiltration rate", perSecond(func(f *catchstep.Flux) float64 { return f.Infiltration })},
		{"Evaporation", "m/s", "actual evaporation rate", perSecond(func(f *catchstep.Flux) float64 { return f.Evaporation })},
		{"Rainfall", "m/s", "rainfall rate", perSecond(func(f *catchstep.Flux) float64 { return f.Rainfall })},
		{"Discharge", "m³/s", "catchment outflow", func(p *catchstep.Parameters, _ *catchstep.State, f *catchstep.Flux, dt float64) float64 {
			return f.Discharge(p.Area, dt)
		}},
	} {
		if err := r.Offer(o.ID, o.Unit, o.Description, o.Get); err != nil {
			panic(err)
		}
	}
	return r
}
