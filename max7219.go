// Package max7219 controls chained MAX7219/MAX7221 8x8 LED matrix drivers.
//
// The devices are wired as one daisy chain and arranged as a rectangle of
// tiles. Drawing happens in memory on a pixelgrid.Grid; Update pushes the
// grid to the chain.
//
// See the examples for how to use this package.
package max7219

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/flavioheleno/max7219/pixelgrid"
	"periph.io/x/conn/v3/display"
)

// Register addresses.
const (
	regNoop      = 0x00
	regDigit0    = 0x01
	regDecode    = 0x09
	regIntensity = 0x0A
	regScanLimit = 0x0B
	regShutdown  = 0x0C
	regTest      = 0x0F
)

// MaxIntensity is the brightest duty cycle, 31/32.
const MaxIntensity = 0x0F

var (
	errHalted     = errors.New("max7219: halted")
	errMissingPin = errors.New("max7219: DIN, CS and CLK pins are required")
	errIntensity  = errors.New("max7219: intensity must be between 0 and 15")
)

// Opts is the configuration for the tile arrangement.
type Opts struct {
	// Panel dimensions in pixels, multiples of 8 up to 96.
	W int // Width (default: 8)
	H int // Height (default: 8)

	Intensity byte // Initial brightness, 0-15 (default: 0)
}

// Dev is a chain of MAX7219 devices driving one logical panel.
//
// Dev is not safe for concurrent use.
type Dev struct {
	link Link
	grid *pixelgrid.Grid

	// Last frame sent to the chain, nil until the first full Update.
	last []byte

	halted bool
}

// NewBitBang creates a device on three GPIO outputs.
//
// opts can be nil to use defaults (a single 8x8 tile).
func NewBitBang(p Pins, opts *Opts) (*Dev, error) {
	l, err := newBitBang(p)
	if err != nil {
		return nil, err
	}
	return New(l, opts)
}

// New creates a device on an arbitrary link, configures every chip for raw
// matrix output and wakes them at opts.Intensity.
func New(l Link, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{W: 8, H: 8}
	}
	if opts.Intensity > MaxIntensity {
		return nil, errIntensity
	}
	g, err := pixelgrid.New(opts.W, opts.H)
	if err != nil {
		return nil, fmt.Errorf("max7219: %w", err)
	}
	d := &Dev{link: l, grid: g}
	if err := d.configure(); err != nil {
		return nil, err
	}
	if err := d.Init(opts.Intensity); err != nil {
		return nil, err
	}
	return d, nil
}

// configure leaves test mode, disables BCD decoding and scans all 8 digits.
func (d *Dev) configure() error {
	if err := d.broadcast(regTest, 0x00); err != nil {
		return err
	}
	if err := d.broadcast(regDecode, 0x00); err != nil {
		return err
	}
	return d.broadcast(regScanLimit, 0x07)
}

// Init wakes every chip from shutdown and sets its intensity.
func (d *Dev) Init(intensity byte) error {
	if intensity > MaxIntensity {
		return errIntensity
	}
	d.halted = false
	if err := d.broadcast(regShutdown, 0x01); err != nil {
		return err
	}
	return d.broadcast(regIntensity, intensity)
}

// Shutdown puts every chip in shutdown mode. The digit registers are
// retained, so a later Init shows the same picture.
func (d *Dev) Shutdown() error {
	return d.broadcast(regShutdown, 0x00)
}

// SetIntensity sets the brightness of every chip (0-15).
func (d *Dev) SetIntensity(intensity byte) error {
	if d.halted {
		return errHalted
	}
	if intensity > MaxIntensity {
		return errIntensity
	}
	return d.broadcast(regIntensity, intensity)
}

// DisplayTest turns every LED on regardless of the digit registers, or
// returns to normal operation.
func (d *Dev) DisplayTest(on bool) error {
	if d.halted {
		return errHalted
	}
	var v byte
	if on {
		v = 0x01
	}
	return d.broadcast(regTest, v)
}

// broadcast writes the same register on every chip in one transaction.
func (d *Dev) broadcast(reg, val byte) error {
	return d.transact(func() error {
		for i := 0; i < d.grid.Devices(); i++ {
			if err := d.link.Send(reg, val); err != nil {
				return err
			}
		}
		return nil
	})
}

// transact runs f between Begin and End. End is attempted even when f
// fails; the first error wins.
func (d *Dev) transact(f func() error) error {
	if err := d.link.Begin(); err != nil {
		return fmt.Errorf("max7219: failed to select chain: %w", err)
	}
	err := f()
	endErr := d.link.End()
	if err != nil {
		return fmt.Errorf("max7219: failed to shift: %w", err)
	}
	if endErr != nil {
		return fmt.Errorf("max7219: failed to latch chain: %w", endErr)
	}
	return nil
}

// Grid returns the framebuffer. Changes show up on the next Update.
func (d *Dev) Grid() *pixelgrid.Grid {
	return d.grid
}

// Update writes the whole framebuffer to the chain, one transaction per
// scanline. The last device in the chain is sent first so that each word
// ends up in its own tile when the scanline is latched.
func (d *Dev) Update() error {
	if d.halted {
		return errHalted
	}
	for s := 0; s < pixelgrid.TileSize; s++ {
		if err := d.sendScanline(s, nil); err != nil {
			return err
		}
	}
	d.remember()
	return nil
}

// sendScanline sends row s of every tile. When changed is not nil, tiles
// whose byte is unchanged get a NOOP instead.
func (d *Dev) sendScanline(s int, changed []bool) error {
	return d.transact(func() error {
		for dev := d.grid.Devices() - 1; dev >= 0; dev-- {
			reg, val := byte(regDigit0+s), d.grid.TileRow(dev, s)
			if changed != nil && !changed[dev] {
				reg, val = regNoop, 0
			}
			if err := d.link.Send(reg, val); err != nil {
				return err
			}
		}
		return nil
	})
}

// remember records the frame last sent to the chain.
func (d *Dev) remember() {
	if d.last == nil {
		d.last = make([]byte, len(d.grid.Pix))
	}
	copy(d.last, d.grid.Pix)
}

// updateChanged only sends the scanlines that differ from the last frame,
// with NOOPs for the tiles of those scanlines that did not change. It falls
// back to Update when nothing was sent yet.
func (d *Dev) updateChanged() error {
	if d.last == nil {
		return d.Update()
	}
	changed := make([]bool, d.grid.Devices())
	for s := 0; s < pixelgrid.TileSize; s++ {
		dirty := false
		for dev := range changed {
			changed[dev] = d.grid.TileRow(dev, s) != d.lastTileRow(dev, s)
			dirty = dirty || changed[dev]
		}
		if !dirty {
			continue
		}
		if err := d.sendScanline(s, changed); err != nil {
			return err
		}
	}
	d.remember()
	return nil
}

func (d *Dev) lastTileRow(dev, s int) byte {
	cols := d.grid.DeviceCols()
	return d.last[((dev/cols)*pixelgrid.TileSize+s)*d.grid.Stride+dev%cols]
}

// Write replaces the framebuffer with pixels, in the row-major layout of
// pixelgrid.Grid.Export, and updates the chain.
// The data must be exactly W * H / 8 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, errHalted
	}
	if len(pixels) != len(d.grid.Pix) {
		return 0, errors.New("max7219: invalid buffer size")
	}
	d.grid.Import(pixels)
	if err := d.Update(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Draw draws src onto the panel and sends the scanlines that changed.
// It implements display.Drawer.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errHalted
	}
	dst = dst.Intersect(d.grid.Bounds())
	if dst.Empty() {
		return nil
	}
	draw.Draw(d.grid, dst, src, sp, draw.Src)
	return d.updateChanged()
}

// ColorModel returns the color model of the panel.
func (d *Dev) ColorModel() color.Model {
	return pixelgrid.BitModel
}

// Bounds returns the panel bounds.
func (d *Dev) Bounds() image.Rectangle {
	return d.grid.Bounds()
}

// Halt blanks the panel by putting every chip in shutdown.
// Until Init is called again, operations that talk to the chain fail.
func (d *Dev) Halt() error {
	d.halted = true
	return d.Shutdown()
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("max7219.Dev{%dx%d}", d.grid.Width(), d.grid.Height())
}

var _ display.Drawer = (*Dev)(nil)
