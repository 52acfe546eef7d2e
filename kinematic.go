package catchstep

import "math"

// KinematicDischarge returns overland flow [m³/s] as M·W·h^(5/3)·√S.
// Non-positive depth (or geometry) gives exactly zero.
func KinematicDischarge(m, width, h, slope float64) float64 {
	if h <= 0. || m <= 0. || width <= 0. || slope <= 0. {
		return 0.
	}
	return m * width * math.Pow(h, fiveThirds) * math.Sqrt(slope)
}

// HonmaDischarge returns the flow [m³/s] over a broad-crested weir using Honma's
// formula. Positive flow is from the up to the down side; heads are water levels [m].
func HonmaDischarge(hUp, hDown, crest, width float64) float64 {
	sgn := 1.
	if hDown > hUp {
		hUp, hDown = hDown, hUp
		sgn = -1.
	}
	h1, h2 := hUp-crest, hDown-crest
	if h1 <= 0. || width <= 0. {
		return 0.
	}
	if h2 < 0. {
		h2 = 0.
	}
	if h2/h1 <= honmaDrownLim {
		return sgn * honmaFree * width * h1 * math.Sqrt(2.*gravity*h1)
	}
	return sgn * honmaDrowned * width * h2 * math.Sqrt(2.*gravity*(h1-h2))
}
