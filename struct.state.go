package catchstep

import "fmt"

// State holds the water stored on one catchment cell [m]. Each catchment owns exactly one.
type State struct {
	SurfaceDepth, WettingLoss, StorageLoss float64 // ponded/flowing surface water, wetting and depression storage
	Infiltration                           float64 // Horton capacity depletion [0,1]: 0 = dry soil (f0), 1 = fully wetted (fc)

	// multi-reservoir cascade
	SoilMoisture, Overland, Interflow, Baseflow float64
}

// Storage returns the total water held by the cell [m]
func (s *State) Storage() float64 {
	return s.SurfaceDepth + s.WettingLoss + s.StorageLoss + s.SoilMoisture + s.Overland + s.Interflow + s.Baseflow
}

// Check returns an error if any storage is negative or not a number
func (s *State) Check() error {
	for _, v := range []struct {
		n string
		v float64
	}{
		{"SurfaceDepth", s.SurfaceDepth},
		{"WettingLoss", s.WettingLoss},
		{"StorageLoss", s.StorageLoss},
		{"SoilMoisture", s.SoilMoisture},
		{"Overland", s.Overland},
		{"Interflow", s.Interflow},
		{"Baseflow", s.Baseflow},
	} {
		if isBad(v.v) || v.v < 0. {
			return invalid("catchstep: state %s = %v must be >=0", v.n, v.v)
		}
	}
	if isBad(s.Infiltration) || s.Infiltration < 0. || s.Infiltration > 1. {
		return invalid("catchstep: state Infiltration = %v must be in [0,1]", s.Infiltration)
	}
	return nil
}

func (s State) String() string {
	return fmt.Sprintf("sfc: %.6f  wet: %.6f  sto: %.6f  inf: %.4f  sm: %.6f  olf: %.6f  ifl: %.6f  bfl: %.6f",
		s.SurfaceDepth, s.WettingLoss, s.StorageLoss, s.Infiltration, s.SoilMoisture, s.Overland, s.Interflow, s.Baseflow)
}

// clamp removes round-off negatives
func (s *State) clamp() {
	for _, v := range []*float64{&s.SurfaceDepth, &s.WettingLoss, &s.StorageLoss, &s.SoilMoisture, &s.Overland, &s.Interflow, &s.Baseflow} {
		if *v < 0. {
			*v = 0.
		}
	}
	if s.Infiltration < 0. {
		s.Infiltration = 0.
	} else if s.Infiltration > 1. {
		s.Infiltration = 1.
	}
}
