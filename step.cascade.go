package catchstep

import "math"

// Cascade: soil moisture reservoir releasing to interflow and baseflow, with
// impervious and saturation-excess water routed through an overland reservoir.
// Each reservoir drains as a first-order linear reservoir.
type Cascade struct{}

func (Cascade) Name() string { return "cascade" }

func (Cascade) Check(p *Parameters) error {
	for _, v := range []struct {
		n string
		v float64
	}{
		{"Kso", p.Kso},
		{"Kof", p.Kof},
		{"Kif", p.Kif},
		{"Kbf", p.Kbf},
	} {
		if v.v <= 0. {
			return invalid("catchstep: reservoir constant %s = %v must be >0", v.n, v.v)
		}
	}
	return nil
}

func (Cascade) Advance(s State, p *Parameters, dt, y, ep float64) (State, Flux) {
	f := Flux{Rainfall: y * dt}
	if y > 0. {
		f.Mode = Wetting
		ep = 0.
	}

	f.Evaporation = math.Min(ep*dt, s.SoilMoisture)
	s.SoilMoisture -= f.Evaporation

	// releases computed from storage at the beginning of the step
	rso := release(s.SoilMoisture, dt, p.Kso)
	rof := release(s.Overland, dt, p.Kof)
	rif := release(s.Interflow, dt, p.Kif)
	rbf := release(s.Baseflow, dt, p.Kbf)

	dir := p.Fimp * f.Rainfall
	sm := s.SoilMoisture - rso + f.Rainfall - dir
	xs := 0. // saturation excess
	if sm > p.SoilCap {
		xs = sm - p.SoilCap
		sm = p.SoilCap
	}
	s.SoilMoisture = sm
	s.Overland += dir + xs - rof
	s.Interflow += p.Csib*rso - rif
	s.Baseflow += (1.-p.Csib)*rso - rbf

	f.Runoff = rof + rif + rbf
	return s, f
}

// release returns the outflow of a linear reservoir over dt
func release(sto, dt, k float64) float64 {
	return sto * math.Min(1., dt/k)
}
