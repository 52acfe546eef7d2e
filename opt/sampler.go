package opt

import (
	"github.com/maseology/catchstep"
	"github.com/maseology/mmaths"
)

// HortonDims is the number of calibrated parameters in HortonSpace
const HortonDims = 5

// HortonSpace maps a unit-hypercube sample onto the Horton/kinematic parameters of par
func HortonSpace(par catchstep.Parameters, u []float64) catchstep.Parameters {
	par.F0 = mmaths.LogLinearTransform(1e-7, 1e-5, u[0])    // initial infiltration capacity [m/s]
	par.Fc = par.F0 * mmaths.LinearTransform(0., 1., u[1])  // final capacity as a fraction of f0
	par.Kwet = mmaths.LogLinearTransform(1e-4, 1e-2, u[2])  // [1/s]
	par.StorageCap = mmaths.LinearTransform(0., .005, u[3]) // depression storage [m]
	par.Manning = mmaths.LogLinearTransform(5., 100., u[4])
	return par
}

// CascadeDims is the number of calibrated parameters in CascadeSpace
const CascadeDims = 5

// CascadeSpace maps a unit-hypercube sample onto the reservoir parameters of par
func CascadeSpace(par catchstep.Parameters, u []float64) catchstep.Parameters {
	par.SoilCap = mmaths.LinearTransform(.01, .5, u[0]) // [m]
	par.Csib = mmaths.LinearTransform(0., 1., u[1])
	par.Kof = mmaths.LogLinearTransform(600., 86400., u[2])            // [s]
	par.Kif = mmaths.LogLinearTransform(86400., 30.*86400., u[3])      // [s]
	par.Kbf = mmaths.LogLinearTransform(10.*86400., 365.*86400., u[4]) // [s]
	return par
}
