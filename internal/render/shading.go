package render

import (
	"castlight/internal/mathutil"
	"fmt"
)

// Shading maps a camera distance to the opacity a wall or billboard is
// drawn with.
type Shading interface {
	Alpha(distance float64) float64
}

// InverseSquareFog fades as K/d^2, fully opaque up to sqrt(K).
type InverseSquareFog struct {
	K float64
}

func (f InverseSquareFog) Alpha(d float64) float64 {
	if d <= 0 {
		return 1
	}
	return mathutil.Clamp(f.K/(d*d), 0, 1)
}

// LinearFog fades linearly and is fully transparent at Range.
type LinearFog struct {
	Range float64
}

func (f LinearFog) Alpha(d float64) float64 {
	if f.Range <= 0 {
		return 1
	}
	return mathutil.Clamp(1-d/f.Range, 0, 1)
}

// NoFog draws everything opaque.
type NoFog struct{}

func (NoFog) Alpha(float64) float64 { return 1 }

// DefaultShading is the inverse-square fog with K = 10.
var DefaultShading Shading = InverseSquareFog{K: 10}

// ShadingByName resolves a configured shading policy.
func ShadingByName(name string, fogConstant, linearRange float64) (Shading, error) {
	switch name {
	case "", "inverse_square":
		if fogConstant <= 0 {
			return DefaultShading, nil
		}
		return InverseSquareFog{K: fogConstant}, nil
	case "linear":
		if linearRange <= 0 {
			return nil, fmt.Errorf("linear shading needs a positive range, got %v", linearRange)
		}
		return LinearFog{Range: linearRange}, nil
	case "none":
		return NoFog{}, nil
	}
	return nil, fmt.Errorf("unknown shading policy %q", name)
}

func alphaFor(sh Shading, d float64) float64 {
	if sh == nil {
		sh = DefaultShading
	}
	return sh.Alpha(d)
}
