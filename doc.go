// Package max7219 controls chained MAX7219/MAX7221 8x8 LED matrix drivers.
//
// The MAX7219 drives 64 LEDs as 8 digit registers of 8 segments each. Any
// number of chips can be daisy chained on one 3-wire serial bus; this
// driver arranges them as a rectangle of tiles and presents a single
// monochrome panel. It implements the display.Drawer interface from
// periph.io and the drivers.Displayer interface from TinyGo.
//
// # Display Characteristics
//
// - 1-bit monochrome, one LED per pixel
// - Panels of 8x8 tiles, up to 96x96 pixels (144 chips)
// - 16 intensity levels (0-15), shared by the whole panel
// - Shutdown mode that keeps the picture in the chips
// - Display test mode lighting every LED
//
// # Hardware Connection
//
// Connect the first module of the chain to three GPIO outputs and chain
// each module's DOUT to the next module's DIN:
//
//	Module Pin → System Pin
//	VCC        → 5V
//	GND        → GND
//	DIN        → GPIO (any available pin)
//	CS/LOAD    → GPIO (any available pin)
//	CLK        → GPIO (any available pin)
//
// The module closest to the controller is tile 0. Tiles are numbered
// row-major, so for a 32x16 panel:
//
//	+---+---+---+---+
//	| 0 | 1 | 2 | 3 |
//	+---+---+---+---+
//	| 4 | 5 | 6 | 7 |
//	+---+---+---+---+
//
// # Basic Usage
//
//	package main
//
//	import (
//		"github.com/flavioheleno/max7219"
//		"github.com/flavioheleno/max7219/pixelgrid"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		pins := max7219.Pins{
//			DIN: gpioreg.ByName("GPIO10"),
//			CS:  gpioreg.ByName("GPIO8"),
//			CLK: gpioreg.ByName("GPIO11"),
//		}
//
//		// Four tiles in a row
//		dev, _ := max7219.NewBitBang(pins, &max7219.Opts{
//			W:         32,
//			H:         8,
//			Intensity: 4,
//		})
//		defer dev.Halt()
//
//		g := dev.Grid()
//		g.Rectangle(0, 0, 31, 7, pixelgrid.Src)
//		g.Circle(16, 4, 3, pixelgrid.Src)
//
//		// Push the framebuffer to the chips
//		dev.Update()
//	}
//
// On kernels without sysfs GPIO, the cdevpin package provides the same pins
// through the GPIO character device.
//
// # Drawing
//
// Drawing never talks to the hardware. Every primitive of pixelgrid.Grid
// takes an Op:
//
//	pixelgrid.Off // turn pixels off
//	pixelgrid.Src // turn pixels on
//	pixelgrid.XOR // invert pixels
//
// Coordinates outside the panel are clipped, so shapes can hang off the
// edges. Scroll moves the picture one pixel in memory and is cheap enough
// to call every animation frame.
//
// # Updating the Panel
//
// Update sends every scanline of every tile, one latch per scanline:
//
//	dev.Update()
//
// Draw renders any image.Image onto the panel and only sends the scanlines
// that changed since the last update. Tiles that did not change within a
// sent scanline receive a no-op:
//
//	dev.Draw(dev.Bounds(), img, image.Point{})
//
// Write replaces the whole framebuffer with raw bytes in the pixelgrid
// layout (8 pixels per byte, MSB leftmost, W/8 bytes per row).
//
// # Text
//
// Any tinyfont font can be rendered:
//
//	dev.WriteText(&tinyfont.TomThumb, 0, 6, "HI")
//	dev.Display()
//
// # Datasheet
//
// For detailed register descriptions and timing information, see:
// https://www.analog.com/media/en/technical-documentation/data-sheets/MAX7219-MAX7221.pdf
package max7219
