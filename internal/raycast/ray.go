package raycast

import (
	"castlight/internal/world"
	"math"
)

// Face is the side of a cell a ray entered through.
type Face int

const (
	FaceNone Face = iota
	North
	South
	East
	West
)

func (f Face) String() string {
	switch f {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return "none"
}

// Ray is the result of casting one screen column.
type Ray struct {
	Angle float64
	// Distance is the hit distance along the ray; +Inf for a miss.
	Distance float64
	// CorrectedDistance is Distance projected onto the camera forward axis.
	// Use it for projection only, never for ordering.
	CorrectedDistance float64
	Face              Face
	// WallU is the horizontal texture coordinate in [0, 1).
	WallU    float64
	Material world.MaterialID
}

// Hit reports whether the ray struck a wall.
func (r Ray) Hit() bool {
	return r.Face != FaceNone
}

// Miss returns the record for a ray that found nothing within the step budget.
func Miss(angle float64) Ray {
	return Ray{
		Angle:             angle,
		Distance:          math.Inf(1),
		CorrectedDistance: math.Inf(1),
		Face:              FaceNone,
	}
}
