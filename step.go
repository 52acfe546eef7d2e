package catchstep

import "fmt"

// Scheme advances a catchment state over one time step.
// Advance is only called with validated inputs, and must return non-negative storages.
type Scheme interface {
	Name() string
	Check(p *Parameters) error
	Advance(s State, p *Parameters, dt, y, ep float64) (State, Flux)
}

// DefaultScheme is used by Step
var DefaultScheme Scheme = HortonKinematic{}

// Schemes lists the available schemes by name
var Schemes = map[string]Scheme{
	HortonKinematic{}.Name(): HortonKinematic{},
	Cascade{}.Name():         Cascade{},
}

// SchemeByName returns a registered scheme; an empty name returns the default
func SchemeByName(nam string) (Scheme, error) {
	if nam == "" {
		return DefaultScheme, nil
	}
	if sch, ok := Schemes[nam]; ok {
		return sch, nil
	}
	return nil, invalid("catchstep: unknown scheme %q", nam)
}

// Step advances s by dt [s] given rainfall y and potential evaporation ep [m/s] and
// returns the new state and runoff rate [m/s]. s is not modified.
func Step(s State, p Parameters, dt, y, ep float64) (State, float64, error) {
	s1, f, err := StepWith(DefaultScheme, s, p, dt, y, ep)
	if err != nil {
		return s, 0., err
	}
	return s1, f.Rate(dt), nil
}

// StepWith is Step using any scheme, returning all fluxes of the time step
func StepWith(sch Scheme, s State, p Parameters, dt, y, ep float64) (State, Flux, error) {
	if err := Validate(sch, &s, &p, dt, y, ep); err != nil {
		return s, Flux{}, err
	}
	s1, f := sch.Advance(s, &p, dt, y, ep)
	s1.clamp()
	return s1, f, nil
}

// Validate runs all preconditions of a step
func Validate(sch Scheme, s *State, p *Parameters, dt, y, ep float64) error {
	if sch == nil {
		return invalid("catchstep: nil scheme")
	}
	if err := checkForcing(dt, y, ep); err != nil {
		return err
	}
	if err := s.Check(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := sch.Check(p); err != nil {
		return fmt.Errorf("%s: %w", sch.Name(), err)
	}
	return nil
}
