package viz

import (
	"math"
	"strings"
)

// Braille cells are 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBlank = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a dot grid drawn with Braille characters. Dot coordinates run
// from (0, 0) at the top left to (2*Width-1, 4*Height-1).
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

// Set lights one dot. Dots outside the canvas are dropped.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= dotBits[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a Bresenham line between two dots.
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
			return
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

// DrawArc draws the circle arc of radius r around (cx, cy) between the
// angles from and to, in radians, zero pointing up and positive clockwise.
func (c *Canvas) DrawArc(cx, cy int, r, from, to float64) {
	steps := int(math.Ceil(math.Abs(to-from) * r))
	for i := 0; i <= steps; i++ {
		a := from + (to-from)*float64(i)/float64(max(steps, 1))
		x, y := polar(cx, cy, r, a)
		c.Set(x, y)
	}
}

// DrawSpoke draws a radial segment between radii r0 and r1 at angle a.
func (c *Canvas) DrawSpoke(cx, cy int, r0, r1, a float64) {
	x0, y0 := polar(cx, cy, r0, a)
	x1, y1 := polar(cx, cy, r1, a)
	c.DrawLine(x0, y0, x1, y1)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// polar maps an angle on the dial to the nearest dot.
func polar(cx, cy int, r, a float64) (int, int) {
	x := float64(cx) + r*math.Sin(a)
	y := float64(cy) - r*math.Cos(a)
	return int(math.Round(x)), int(math.Round(y))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
