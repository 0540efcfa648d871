// Package pixelgrid provides a 1-bit framebuffer laid out for chained 8x8
// LED driver tiles.
//
// Pixels are packed 8 per byte along each row. Bit 7 of a byte is the
// leftmost pixel of its group of 8 columns, which is also the order the
// MAX7219 digit registers expect, so a tile row is a single buffer byte.
//
// Memory layout example for a 16x1 grid:
//
//	Columns: 0 1 2 3 4 5 6 7   8 9 ...
//	Bits:    7 6 5 4 3 2 1 0   7 6 ...
//	Bytes:   Pix[0]            Pix[1]
//
// Tiles are numbered row-major starting at the top left:
//
//	+---+---+---+
//	| 0 | 1 | 2 |
//	+---+---+---+
//	| 3 | 4 | 5 |
//	+---+---+---+
//
// Every drawing primitive writes through SetPixel, so shapes that extend past
// the grid are clipped without further checks.
//
// Example usage:
//
//	g, err := pixelgrid.New(32, 8)
//	if err != nil {
//		return err
//	}
//	g.Rectangle(0, 0, 31, 7, pixelgrid.Src)
//	g.Circle(16, 4, 3, pixelgrid.XOR)
//	g.Scroll(pixelgrid.Left, 0)
//
// Grid also implements draw.Image, so it can be the destination of
// image/draw operations:
//
//	draw.Draw(g, g.Bounds(), img, image.Point{}, draw.Src)
package pixelgrid
