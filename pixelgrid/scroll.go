package pixelgrid

import "fmt"

// Direction selects which way Scroll moves the picture.
type Direction uint8

const (
	// Left moves every pixel one column left.
	Left Direction = iota
	// Right moves every pixel one column right.
	Right
	// Up moves every row one row up.
	Up
	// Down moves every row one row down.
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Up:
		return "Up"
	case Down:
		return "Down"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Scroll moves the whole picture one pixel in direction dir.
//
// For Left and Right the vacated column is lit when fill&1 is set. For Up
// and Down every byte of the vacated row is set to fill. Only memory is
// touched; call Update on the device to show the result.
func (g *Grid) Scroll(dir Direction, fill byte) {
	switch dir {
	case Left:
		g.scrollLeft(fill & 1)
	case Right:
		g.scrollRight(fill & 1)
	case Up:
		copy(g.Pix, g.Pix[g.Stride:])
		g.fillRow(g.Height()-1, fill)
	case Down:
		copy(g.Pix[g.Stride:], g.Pix)
		g.fillRow(0, fill)
	}
}

func (g *Grid) scrollLeft(in byte) {
	for y := 0; y < g.Height(); y++ {
		row := g.Pix[y*g.Stride : (y+1)*g.Stride]
		last := len(row) - 1
		for c := 0; c < last; c++ {
			row[c] = row[c]<<1 | row[c+1]>>7
		}
		row[last] = row[last]<<1 | in
	}
}

func (g *Grid) scrollRight(in byte) {
	for y := 0; y < g.Height(); y++ {
		row := g.Pix[y*g.Stride : (y+1)*g.Stride]
		for c := len(row) - 1; c > 0; c-- {
			row[c] = row[c]>>1 | row[c-1]<<7
		}
		row[0] = row[0]>>1 | in<<7
	}
}

func (g *Grid) fillRow(y int, fill byte) {
	row := g.Pix[y*g.Stride : (y+1)*g.Stride]
	for i := range row {
		row[i] = fill
	}
}
