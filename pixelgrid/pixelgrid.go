package pixelgrid

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

const (
	// TileSize is the edge length of one LED driver tile, in pixels.
	TileSize = 8
	// MaxDim is the largest supported width or height, in pixels.
	MaxDim = 96
)

var (
	// ErrDimensions is returned by New for sizes that do not tile.
	ErrDimensions = errors.New("pixelgrid: dimensions must be multiples of 8 between 8 and 96")
	// ErrSpriteSize is returned by Sprite when the header declares a sprite
	// too large to be drawn.
	ErrSpriteSize = errors.New("pixelgrid: sprite dimensions out of range")
	// ErrSpriteShort is returned by Sprite when the payload is shorter than
	// the header requires.
	ErrSpriteShort = errors.New("pixelgrid: sprite payload too short")
)

// Op is the raster operation applied to a pixel.
type Op uint8

const (
	// Off clears the pixel.
	Off Op = iota
	// Src sets the pixel.
	Src
	// XOR inverts the pixel.
	XOR
)

func (o Op) String() string {
	switch o {
	case Off:
		return "Off"
	case Src:
		return "Src"
	case XOR:
		return "XOR"
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Bit is a 1-bit color: an LED either lit or dark.
type Bit bool

// RGBA implements color.Color.
func (b Bit) RGBA() (r, g, bl, a uint32) {
	if b {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

// toBit converts any color.Color to Bit.
func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	// Same luma weights as the grayscale models; anything at least half
	// bright is lit.
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y >= 0x8000)
}

// BitModel converts colors to Bit.
var BitModel = color.ModelFunc(toBit)

// Grid is a 1-bit framebuffer for a rectangle of 8x8 tiles.
//
// Grid is not safe for concurrent use.
type Grid struct {
	Pix    []byte          // Pixel data, 8 pixels per byte, MSB leftmost
	Stride int             // Bytes per row
	Rect   image.Rectangle // Always anchored at (0, 0)
}

// New returns a cleared grid of w by h pixels.
//
// Both dimensions must be multiples of TileSize in the range
// [TileSize, MaxDim].
func New(w, h int) (*Grid, error) {
	if !validDim(w) || !validDim(h) {
		return nil, fmt.Errorf("%w: got %dx%d", ErrDimensions, w, h)
	}
	stride := w / 8
	return &Grid{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   image.Rect(0, 0, w, h),
	}, nil
}

func validDim(n int) bool {
	return n >= TileSize && n <= MaxDim && n%TileSize == 0
}

// Width returns the width in pixels.
func (g *Grid) Width() int { return g.Rect.Dx() }

// Height returns the height in pixels.
func (g *Grid) Height() int { return g.Rect.Dy() }

// DeviceRows returns the number of tile rows.
func (g *Grid) DeviceRows() int { return g.Rect.Dy() / TileSize }

// DeviceCols returns the number of tile columns.
func (g *Grid) DeviceCols() int { return g.Rect.Dx() / TileSize }

// Devices returns the total number of tiles.
func (g *Grid) Devices() int { return g.DeviceRows() * g.DeviceCols() }

// pixOffset returns the byte offset and bit mask for the pixel at (x, y).
// The caller must check bounds.
func (g *Grid) pixOffset(x, y int) (offset int, mask byte) {
	return y*g.Stride + x/8, 0x80 >> uint(x%8)
}

func (g *Grid) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Rect.Max.X && y < g.Rect.Max.Y
}

// SetPixel applies op to the pixel at (x, y). Coordinates outside the grid
// are ignored.
func (g *Grid) SetPixel(x, y int, op Op) {
	if !g.in(x, y) {
		return
	}
	i, m := g.pixOffset(x, y)
	switch op {
	case Off:
		g.Pix[i] &^= m
	case Src:
		g.Pix[i] |= m
	case XOR:
		g.Pix[i] ^= m
	}
}

// Pixel reports whether the pixel at (x, y) is lit. ok is false when (x, y)
// lies outside the grid.
func (g *Grid) Pixel(x, y int) (on, ok bool) {
	if !g.in(x, y) {
		return false, false
	}
	i, m := g.pixOffset(x, y)
	return g.Pix[i]&m != 0, true
}

// Clear turns every pixel off.
func (g *Grid) Clear() {
	for i := range g.Pix {
		g.Pix[i] = 0
	}
}

// TileRow returns row scanline of tile device, as the byte a digit register
// expects. Tiles are numbered row-major from the top left.
func (g *Grid) TileRow(device, scanline int) byte {
	cols := g.DeviceCols()
	tileRow := device / cols
	tileCol := device % cols
	return g.Pix[(tileRow*TileSize+scanline)*g.Stride+tileCol]
}

// Import copies the flat row-major buffer b into the grid and returns the
// number of bytes copied. Copying stops at whichever of b or the grid ends
// first.
func (g *Grid) Import(b []byte) int {
	return copy(g.Pix, b)
}

// Export copies the grid into b in the same layout Import accepts and
// returns the number of bytes copied.
func (g *Grid) Export(b []byte) int {
	return copy(b, g.Pix)
}

// ColorModel returns BitModel.
func (g *Grid) ColorModel() color.Model {
	return BitModel
}

// Bounds returns the grid bounds.
func (g *Grid) Bounds() image.Rectangle {
	return g.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (g *Grid) At(x, y int) color.Color {
	on, _ := g.Pixel(x, y)
	return Bit(on)
}

// Set sets the pixel at (x, y) from any color, lit when the color is at
// least half bright.
func (g *Grid) Set(x, y int, c color.Color) {
	op := Off
	if BitModel.Convert(c).(Bit) {
		op = Src
	}
	g.SetPixel(x, y, op)
}

// String returns a multi-line picture of the grid, '#' for lit pixels and
// '.' for dark ones.
func (g *Grid) String() string {
	w, h := g.Width(), g.Height()
	b := make([]byte, 0, (w+1)*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if on, _ := g.Pixel(x, y); on {
				b = append(b, '#')
			} else {
				b = append(b, '.')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}
