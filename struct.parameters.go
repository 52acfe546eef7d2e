package catchstep

// Parameters describe one catchment; set once at setup and never changed during a run.
type Parameters struct {
	Area    float64 // catchment area [m²]
	Width   float64 // overland flow width [m]
	Slope   float64 // surface gradient [m/m]
	Manning float64 // Manning's M (1/n) [m^(1/3)/s]

	// Horton infiltration
	F0, Fc     float64 // initial (dry) and final (wet) infiltration capacity [m/s]
	Kwet, Kdry float64 // time constants for wetting and recovery [1/s]

	WettingCap, StorageCap float64 // wetting and depression storage capacity [m]

	// multi-reservoir cascade
	SoilCap       float64 // soil moisture capacity [m]
	Fimp          float64 // fraction of rainfall routed directly to overland storage
	Csib          float64 // fraction of soil release sent to interflow, remainder to baseflow
	Kso           float64 // soil moisture release time constant [s]
	Kof, Kif, Kbf float64 // overland, interflow and baseflow reservoir time constants [s]
}

// DefaultParameters returns a small paved catchment of the given area [m²]
func DefaultParameters(area float64) Parameters {
	return Parameters{
		Area:       area,
		Width:      area / 100.,
		Slope:      .01,
		Manning:    50.,
		F0:         5.6e-7, // 2 mm/h
		Fc:         1.4e-7, // .5 mm/h
		Kwet:       .0015,
		Kdry:       3e-5,
		WettingCap: 5e-5,
		StorageCap: 2e-3,
		SoilCap:    .1,
		Fimp:       .1,
		Csib:       .6,
		Kso:        10. * secperday,
		Kof:        3600.,
		Kif:        2. * secperday,
		Kbf:        30. * secperday,
	}
}

// Validate checks parameters common to all schemes
func (p *Parameters) Validate() error {
	for _, v := range []struct {
		n string
		v float64
	}{
		{"Width", p.Width},
		{"Slope", p.Slope},
		{"Manning", p.Manning},
		{"F0", p.F0},
		{"Fc", p.Fc},
		{"Kwet", p.Kwet},
		{"Kdry", p.Kdry},
		{"WettingCap", p.WettingCap},
		{"StorageCap", p.StorageCap},
		{"SoilCap", p.SoilCap},
		{"Kso", p.Kso},
		{"Kof", p.Kof},
		{"Kif", p.Kif},
		{"Kbf", p.Kbf},
	} {
		if isBad(v.v) || v.v < 0. {
			return invalid("catchstep: parameter %s = %v must be >=0", v.n, v.v)
		}
	}
	if isBad(p.Area) || p.Area <= 0. {
		return invalid("catchstep: parameter Area = %v must be >0", p.Area)
	}
	if p.Fc > p.F0 {
		return invalid("catchstep: final infiltration capacity Fc = %v exceeds initial capacity F0 = %v", p.Fc, p.F0)
	}
	if isBad(p.Fimp) || p.Fimp < 0. || p.Fimp > 1. {
		return invalid("catchstep: parameter Fimp = %v must be in [0,1]", p.Fimp)
	}
	if isBad(p.Csib) || p.Csib < 0. || p.Csib > 1. {
		return invalid("catchstep: parameter Csib = %v must be in [0,1]", p.Csib)
	}
	return nil
}
