package figura

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Progression maps elapsed time t (seconds) to a pulse magnitude. freq is in
// Hz, a is the bias, b the amplitude and c the phase offset in radians.
type Progression func(t, freq, a, b, c float64) float64

// Sinusoid oscillates as a + b·sin(2πft + c).
func Sinusoid(t, freq, a, b, c float64) float64 {
	return a + b*math.Sin(2*math.Pi*freq*t+c)
}

// SinusoidAbs oscillates as a + |b·sin(2πft + c)|, never dipping below a.
func SinusoidAbs(t, freq, a, b, c float64) float64 {
	return a + math.Abs(b*math.Sin(2*math.Pi*freq*t+c))
}

// Triangle is a triangle wave with the same extremes and phase as Sinusoid.
func Triangle(t, freq, a, b, c float64) float64 {
	return a + 2*b/math.Pi*math.Asin(math.Sin(2*math.Pi*freq*t+c))
}

// Linear is a triangle wave built from straight ramps. It matches Triangle
// and exists as the ease.Linear case of Eased.
var Linear = Eased(ease.Linear)

// Eased returns a progression that follows the phase of Sinusoid but sweeps
// each half period from one extreme to the other along fn.
func Eased(fn ease.TweenFunc) Progression {
	shape := func(x float64) float64 {
		return float64(fn(float32(x), 0, 1, 1))
	}
	return func(t, freq, a, b, c float64) float64 {
		// Shift by a quarter period so phase 0 sits at the rising midpoint.
		u := freq*t + c/(2*math.Pi) + 0.25
		w := u - math.Floor(u)
		var s float64
		if w < 0.5 {
			s = -1 + 2*shape(w/0.5)
		} else {
			s = 1 - 2*shape((w-0.5)/0.5)
		}
		return a + b*s
	}
}
