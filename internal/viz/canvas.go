package viz

import (
	"strings"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a Braille dot grid of Width x Height cells, addressed in dots:
// (Width*2) x (Height*4), origin at the top left.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.Grid[y/4][x/2] |= pixelMap[y%4][x%2]
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps world coordinates (y up) onto a canvas's dot grid.
type Viewport struct {
	MinX, MaxX, MinY, MaxY float64
	canvas                 *Canvas
}

func NewViewport(c *Canvas, minX, maxX, minY, maxY float64) *Viewport {
	return &Viewport{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY, canvas: c}
}

func (v *Viewport) Project(x, y float64) (int, int) {
	w, h := float64(v.canvas.Width*2-1), float64(v.canvas.Height*4-1)
	px := (x - v.MinX) / (v.MaxX - v.MinX) * w
	py := (v.MaxY - y) / (v.MaxY - v.MinY) * h
	return int(px + 0.5), int(py + 0.5)
}

func (v *Viewport) Line(x0, y0, x1, y1 float64) {
	ax, ay := v.Project(x0, y0)
	bx, by := v.Project(x1, y1)
	v.canvas.DrawLine(ax, ay, bx, by)
}

func (v *Viewport) Rect(minX, minY, maxX, maxY float64) {
	v.Line(minX, minY, maxX, minY)
	v.Line(maxX, minY, maxX, maxY)
	v.Line(maxX, maxY, minX, maxY)
	v.Line(minX, maxY, minX, minY)
}

// Hatch lights every other dot in the region, drawing fluid.
func (v *Viewport) Hatch(minX, minY, maxX, maxY float64) {
	x0, y1 := v.Project(minX, minY)
	x1, y0 := v.Project(maxX, maxY)
	for y := y0; y <= y1; y++ {
		for x := x0 + y%2; x <= x1; x += 2 {
			v.canvas.Set(x, y)
		}
	}
}
