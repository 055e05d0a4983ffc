package figura

import (
	"math"

	"golang.org/x/exp/constraints"
)

// DefaultPrecision is the number of decimal places used to round away
// floating noise before equality comparisons.
const DefaultPrecision = 8

// MaxFinite is the sentinel that replaces NaN and infinite coordinates.
const MaxFinite = 1e12

func clamp[T constraints.Ordered](x, low, high T) T {
	if x < low {
		return low
	}
	if x > high {
		return high
	}
	return x
}

// roundTo rounds v to the given number of decimal places.
func roundTo[T constraints.Float](v T, precision int) T {
	p := math.Pow(10, float64(precision))
	return T(math.Round(float64(v)*p) / p)
}

// sanitize clamps NaN and infinities to ±MaxFinite.
func sanitize(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return MaxFinite
	case v > MaxFinite:
		return MaxFinite
	case v < -MaxFinite:
		return -MaxFinite
	}
	return v
}

// sign returns -1, 0 or 1.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// AngleClip selects the range ClipAngle wraps into.
type AngleClip uint8

const (
	ClipNone          AngleClip = iota // leave the angle as is
	Clip0To360                         // [0, 2π)
	ClipMinus180To180                  // [-π, π)
)

// ClipAngle wraps angle into the selected range.
func ClipAngle(angle float64, clip AngleClip) float64 {
	if clip == ClipNone {
		return angle
	}
	a := math.Mod(angle, 2*math.Pi)
	switch clip {
	case Clip0To360:
		if a < 0 {
			a += 2 * math.Pi
		}
		if a >= 2*math.Pi {
			a -= 2 * math.Pi
		}
	case ClipMinus180To180:
		if a < -math.Pi {
			a += 2 * math.Pi
		}
		if a >= math.Pi {
			a -= 2 * math.Pi
		}
	}
	return a
}

// clipMag snaps |v| <= zero to 0 and clamps v to ±limit.
func clipMag(v, zero, limit float64) float64 {
	if math.Abs(v) <= zero {
		return 0
	}
	return clamp(v, -limit, limit)
}
