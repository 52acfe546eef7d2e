package catchstep

// Mode is the Horton infiltration regime of a time step
type Mode int

const (
	Drying Mode = iota
	Wetting
)

func (m Mode) String() string {
	if m == Wetting {
		return "wetting"
	}
	return "drying"
}

// Flux holds the depths [m] exchanged by one catchment over one time step.
// Wetting and Storage are net changes in the respective loss storages and may be negative when evaporation draws them down.
type Flux struct {
	Rainfall, Evaporation, Infiltration float64
	Wetting, Storage                    float64
	Runoff                              float64
	Mode                                Mode
}

// Rate converts runoff depth to a rate [m/s]
func (f *Flux) Rate(dt float64) float64 { return f.Runoff / dt }

// Discharge converts runoff depth to a flow [m³/s]
func (f *Flux) Discharge(area, dt float64) float64 { return f.Runoff * area / dt }

// Sinks returns all water leaving the cell [m]
func (f *Flux) Sinks() float64 { return f.Evaporation + f.Infiltration + f.Runoff }
