package geometry

// Boat is an open-topped hollow hull. It displaces fluid with its whole hull
// up to its rim; fluid inside it belongs to a separate basin.
type Boat struct {
	W, H, D float64
	Wall    float64
}

func (b Boat) Kind() Kind      { return KindBoat }
func (b Boat) Width() float64  { return b.W }
func (b Boat) Height() float64 { return b.H }
func (b Boat) Depth() float64  { return b.D }

// Volume is the hull material only.
func (b Boat) Volume() float64 {
	return b.HullVolume() - b.InteriorCapacity()
}

// HullVolume is the volume enclosed by the outside of the hull.
func (b Boat) HullVolume() float64 { return b.W * b.H * b.D }

func (b Boat) InteriorWidth() float64  { return b.W - 2*b.Wall }
func (b Boat) InteriorDepth() float64  { return b.D - 2*b.Wall }
func (b Boat) InteriorHeight() float64 { return b.H - b.Wall }

// InteriorArea is the horizontal area of the cavity.
func (b Boat) InteriorArea() float64 { return b.InteriorWidth() * b.InteriorDepth() }

// InteriorCapacity is the fluid volume the cavity holds when filled to the rim.
func (b Boat) InteriorCapacity() float64 { return b.InteriorArea() * b.InteriorHeight() }

func (b Boat) DisplacedVolume(depth float64) float64 {
	return b.W * b.D * clampDepth(depth, b.H)
}

func (b Boat) DisplacedArea(depth float64) float64 {
	if inside(depth, b.H) {
		return b.W * b.D
	}
	return 0
}
