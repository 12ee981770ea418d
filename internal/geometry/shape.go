// Package geometry supplies displaced volume and area as pure functions of
// immersion depth for each body shape.
//
// Depth is measured upward from the bottom of the body. Every shape returns
// zero below depth 0 and a constant above its height, so the functions are
// non-decreasing and DisplacedArea is the derivative of DisplacedVolume.
package geometry

import (
	"fmt"
	"math"

	"github.com/san-kum/buoysim/internal/dynamo"
)

type Kind int

const (
	KindBox Kind = iota
	KindCylinder
	KindCone
	KindScale
	KindBoat
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindCylinder:
		return "cylinder"
	case KindCone:
		return "cone"
	case KindScale:
		return "scale"
	case KindBoat:
		return "boat"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a config name to a Kind.
func ParseKind(name string) (Kind, error) {
	for k := KindBox; k <= KindBoat; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown shape kind: %s", name)
}

type Shape interface {
	Kind() Kind
	Width() float64
	Height() float64
	Depth() float64
	// Volume is the material volume of the body.
	Volume() float64
	DisplacedVolume(depth float64) float64
	DisplacedArea(depth float64) float64
}

// Validate rejects shapes with non-positive or non-finite dimensions.
func Validate(s Shape) error {
	dims := []float64{s.Width(), s.Height(), s.Depth(), s.Volume()}
	if b, ok := s.(Boat); ok {
		dims = append(dims, b.InteriorWidth(), b.InteriorHeight(), b.InteriorDepth())
	}
	for _, v := range dims {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s %gx%gx%g", dynamo.ErrInvalidShape, s.Kind(), s.Width(), s.Height(), s.Depth())
		}
	}
	return nil
}

func clampDepth(depth, height float64) float64 {
	return math.Max(0, math.Min(depth, height))
}

func inside(depth, height float64) bool {
	return depth > 0 && depth < height
}
