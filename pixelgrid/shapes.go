package pixelgrid

// Rectangle draws the outline of the rectangle with opposite corners
// (sx, sy) and (ex, ey), both inclusive. The interior is left untouched.
func (g *Grid) Rectangle(sx, sy, ex, ey int, op Op) {
	if sx > ex {
		sx, ex = ex, sx
	}
	if sy > ey {
		sy, ey = ey, sy
	}
	for x := sx; x <= ex; x++ {
		g.SetPixel(x, sy, op)
	}
	for x := sx; x <= ex; x++ {
		g.SetPixel(x, ey, op)
	}
	for y := sy + 1; y < ey; y++ {
		g.SetPixel(sx, y, op)
	}
	for y := sy + 1; y < ey; y++ {
		g.SetPixel(ex, y, op)
	}
}

// Line draws a line from (sx, sy) to (ex, ey) using Bresenham's algorithm
// with integers only.
//
// The endpoints are ordered along the major axis first. The major axis is
// then stepped one pixel at a time; the decision variable
// starts at 2*minor - major and the minor axis advances whenever it is
// positive.
//
// https://en.wikipedia.org/wiki/Bresenham's_line_algorithm
func (g *Grid) Line(sx, sy, ex, ey int, op Op) {
	// Normalize so the major axis always advances; the same segment then
	// lights the same pixels whichever end it is drawn from.
	if abs(ex-sx) >= abs(ey-sy) {
		if sx > ex {
			sx, sy, ex, ey = ex, ey, sx, sy
		}
	} else if sy > ey {
		sx, sy, ex, ey = ex, ey, sx, sy
	}

	dx, dy := ex-sx, ey-sy
	stepX, stepY := 1, 1
	if dx < 0 {
		dx, stepX = -dx, -1
	}
	if dy < 0 {
		dy, stepY = -dy, -1
	}

	x, y := sx, sy
	g.SetPixel(x, y, op)
	if dx >= dy {
		d := 2*dy - dx
		for i := 0; i < dx; i++ {
			x += stepX
			if d > 0 {
				y += stepY
				d += 2 * (dy - dx)
			} else {
				d += 2 * dy
			}
			g.SetPixel(x, y, op)
		}
		return
	}
	d := 2*dx - dy
	for i := 0; i < dy; i++ {
		y += stepY
		if d > 0 {
			x += stepX
			d += 2 * (dx - dy)
		} else {
			d += 2 * dx
		}
		g.SetPixel(x, y, op)
	}
}

// Circle draws a circle of the given radius centered on (x0, y0) using the
// midpoint circle algorithm.
//
// https://en.wikipedia.org/wiki/Midpoint_circle_algorithm
func (g *Grid) Circle(x0, y0, radius int, op Op) {
	x, y := radius, 0
	xChange := 1 - 2*radius
	yChange := 0
	radiusError := 0

	for x >= y {
		g.SetPixel(x0+x, y0+y, op)
		g.SetPixel(x0+y, y0+x, op)
		g.SetPixel(x0-x, y0+y, op)
		g.SetPixel(x0-y, y0+x, op)
		g.SetPixel(x0-x, y0-y, op)
		g.SetPixel(x0-y, y0-x, op)
		g.SetPixel(x0+x, y0-y, op)
		g.SetPixel(x0+y, y0-x, op)

		y++
		radiusError += yChange
		yChange += 2
		if 2*radiusError+xChange > 0 {
			x--
			radiusError += xChange
			xChange += 2
		}
	}
}

// SpriteLen returns the number of bytes a sprite of w by h pixels occupies,
// including the two byte header.
func SpriteLen(w, h int) int {
	return (w+7)/8*h + 2
}

// Sprite draws a packed 1-bit sprite with its top left corner at (x, y).
//
// data[0] and data[1] hold the sprite width and height. Each following row
// takes ceil(width/8) bytes, MSB first. Nothing is drawn when the header is
// out of range or data is too short.
//
// With Src, set sprite bits light the pixel and clear bits turn it off, so
// the whole box is overwritten. Off turns the box off and XOR inverts it
// without consulting the sprite bits.
func (g *Grid) Sprite(x, y int, data []byte, op Op) error {
	if len(data) < 2 {
		return ErrSpriteShort
	}
	w, h := int(data[0]), int(data[1])
	if w >= MaxDim || h >= MaxDim {
		return ErrSpriteSize
	}
	if len(data) < SpriteLen(w, h) {
		return ErrSpriteShort
	}

	stride := (w + 7) / 8
	for r := 0; r < h; r++ {
		if y+r >= g.Height() {
			break
		}
		row := data[2+r*stride : 2+(r+1)*stride]
		for c := 0; c < w; c++ {
			switch op {
			case Off, XOR:
				g.SetPixel(x+c, y+r, op)
			case Src:
				if row[c/8]&(0x80>>uint(c%8)) != 0 {
					g.SetPixel(x+c, y+r, Src)
				} else {
					g.SetPixel(x+c, y+r, Off)
				}
			}
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
