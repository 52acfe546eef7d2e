package catchstep

import (
	"math"

	"github.com/maseology/goHydro/hru"
)

// HortonKinematic: Horton infiltration, wetting and depression losses filled in
// sequence, and a kinematic-wave stage-discharge relation for overland flow.
type HortonKinematic struct{}

func (HortonKinematic) Name() string { return "horton" }

func (HortonKinematic) Check(p *Parameters) error { return nil }

func (HortonKinematic) Advance(s State, p *Parameters, dt, y, ep float64) (State, Flux) {
	f := Flux{Rainfall: y * dt}
	if y > 0. {
		f.Mode = Wetting
		ep = 0. // no evaporation while it rains
	}

	h := s.SurfaceDepth
	wet := hru.Res{Sto: s.WettingLoss, Cap: p.WettingCap}
	dep := hru.Res{Sto: s.StorageLoss, Cap: p.StorageCap}
	h += spill(&wet) + spill(&dep) // hot-started state above capacity
	w0, d0 := wet.Sto, dep.Sto

	// evaporation: surface water, then depression storage, then wetting storage
	rem := ep * dt
	ae := math.Min(rem, h)
	h -= ae
	rem -= ae
	for _, r := range []*hru.Res{&dep, &wet} {
		d := draw(r, rem)
		ae += d
		rem -= d
	}
	f.Evaporation = ae

	// infiltration at the capacity reached by the end of the previous step
	h += f.Rainfall
	f.Infiltration = math.Min(infiltrability(p, s.Infiltration)*dt, h)
	h -= f.Infiltration
	s.Infiltration = deplete(p, s.Infiltration, f.Mode, dt)

	// losses fill before water accumulates on the surface
	h -= fill(&wet, h)
	h -= fill(&dep, h)
	f.Wetting, f.Storage = wet.Sto-w0, dep.Sto-d0

	// overland flow
	ro := KinematicDischarge(p.Manning, p.Width, h, p.Slope) * dt / p.Area
	if ro > h {
		ro = h
	}
	h -= ro
	f.Runoff = ro

	s.SurfaceDepth, s.WettingLoss, s.StorageLoss = h, wet.Sto, dep.Sto
	return s, f
}

// infiltrability returns the current Horton capacity [m/s] given the depletion fraction.
// A fraction d is reached after -ln(1-d) wetting time constants.
func infiltrability(p *Parameters, dpl float64) float64 {
	return HortonCapacity(p.F0, p.Fc, 1., -math.Log1p(-dpl))
}

// deplete moves the depletion fraction along the Horton curve: towards 1 (fc) with Kwet while wetting, back to 0 (f0) with Kdry while drying
func deplete(p *Parameters, dpl float64, m Mode, dt float64) float64 {
	if m == Wetting {
		return 1. - (1.-dpl)*math.Exp(-p.Kwet*dt)
	}
	return dpl * math.Exp(-p.Kdry*dt)
}

// HortonCapacity returns infiltration capacity fc + (f0-fc)exp(-kt) [m/s] after t seconds of wetting
func HortonCapacity(f0, fc, k, t float64) float64 {
	if t < 0. {
		t = 0.
	}
	f := f0 - (f0-fc)*(1.-math.Exp(-k*t))
	return math.Max(fc, math.Min(f0, f))
}

// fill adds x to r up to capacity, returns what was retained
func fill(r *hru.Res, x float64) float64 {
	if x <= 0. {
		return 0.
	}
	if d := r.Cap - r.Sto; x >= d {
		r.Sto = r.Cap
		return d
	}
	r.Sto += x
	return x
}

// draw removes up to x from r, returns what was removed
func draw(r *hru.Res, x float64) float64 {
	if x <= 0. {
		return 0.
	}
	s0 := r.Sto
	r.Overflow(-x)
	return s0 - r.Sto
}

// spill releases storage held above capacity
func spill(r *hru.Res) float64 {
	if r.Sto <= r.Cap {
		return 0.
	}
	x := r.Sto - r.Cap
	r.Sto = r.Cap
	return x
}
