package max7219

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Size returns the panel size in pixels.
// Size, SetPixel and Display make Dev a drivers.Displayer, so TinyGo
// drawing packages such as tinyfont and tinydraw can render on it.
func (d *Dev) Size() (x, y int16) {
	return int16(d.grid.Width()), int16(d.grid.Height())
}

// SetPixel lights the pixel at (x, y) when c is at least half bright and
// turns it off otherwise. Nothing is sent until Display.
func (d *Dev) SetPixel(x, y int16, c color.RGBA) {
	d.grid.Set(int(x), int(y), c)
}

// Display sends the framebuffer to the chain.
func (d *Dev) Display() error {
	return d.Update()
}

// WriteText renders s with font, baseline at y, into the framebuffer.
// Glyphs are drawn lit on the existing content.
func (d *Dev) WriteText(font tinyfont.Fonter, x, y int16, s string) {
	tinyfont.WriteLine(d, font, x, y, s, white)
}

// TextWidth returns the width in pixels s occupies when drawn with font.
func TextWidth(font tinyfont.Fonter, s string) int {
	_, w := tinyfont.LineWidth(font, s)
	return int(w)
}

var white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

var _ drivers.Displayer = (*Dev)(nil)
