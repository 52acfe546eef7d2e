package catchstep

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is wrapped by every precondition failure of the stepper.
var ErrInvalidArgument = errors.New("invalid argument")

func invalid(format string, a ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, a...), ErrInvalidArgument)
}

func isBad(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

func checkForcing(dt, y, ep float64) error {
	switch {
	case isBad(dt) || dt <= 0.:
		return invalid("catchstep: time step dt = %v must be >0", dt)
	case isBad(y) || y < 0.:
		return invalid("catchstep: rainfall rate = %v must be >=0", y)
	case isBad(ep) || ep < 0.:
		return invalid("catchstep: potential evaporation rate = %v must be >=0", ep)
	case isBad(y * dt):
		return invalid("catchstep: rainfall depth over the step overflows (y = %v, dt = %v)", y, dt)
	case isBad(ep * dt):
		return invalid("catchstep: evaporation depth over the step overflows (ep = %v, dt = %v)", ep, dt)
	}
	return nil
}
