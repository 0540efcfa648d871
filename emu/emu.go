// Package emu emulates a daisy chain of MAX7219 LED drivers.
//
// Chain implements the same Begin/Send/End link the max7219 driver talks
// to, decodes every 16-bit word the way the chips would, and keeps the
// register file of each chip. It is used by tests and by the desktop
// preview in examples/max7219_sim.
package emu

import (
	"errors"
	"fmt"

	"github.com/flavioheleno/max7219/pixelgrid"
)

// Register addresses decoded by a Chip.
const (
	RegNoop      = 0x00
	RegDigit0    = 0x01
	RegDigit7    = 0x08
	RegDecode    = 0x09
	RegIntensity = 0x0A
	RegScanLimit = 0x0B
	RegShutdown  = 0x0C
	RegTest      = 0x0F
)

// ErrNotSelected is returned by Send and End outside a transaction.
var ErrNotSelected = errors.New("emu: chip select not asserted")

// Chip is the register file of one emulated device.
type Chip struct {
	Digits    [8]byte
	Decode    byte
	Intensity byte
	ScanLimit byte
	Awake     bool // Shutdown register bit 0
	Test      bool
}

// Word is one 16-bit frame as shifted into the chain.
type Word struct {
	Reg, Val byte
}

// Chain emulates Cols x Rows devices wired in row-major order: device 0 is
// the top left tile and the one closest to the controller.
type Chain struct {
	Cols, Rows int
	Chips      []Chip

	// Latches counts completed transactions.
	Latches int
	// Log holds every word latched so far, oldest first.
	Log []Word

	selected bool
	pending  []Word
}

// New returns a chain of cols by rows chips in their power-on state.
func New(cols, rows int) *Chain {
	return &Chain{
		Cols:  cols,
		Rows:  rows,
		Chips: make([]Chip, cols*rows),
	}
}

// Begin pulls LOAD low.
func (c *Chain) Begin() error {
	c.selected = true
	c.pending = c.pending[:0]
	return nil
}

// Send shifts one word into the chain.
func (c *Chain) Send(reg, val byte) error {
	if !c.selected {
		return ErrNotSelected
	}
	c.pending = append(c.pending, Word{Reg: reg, Val: val})
	return nil
}

// End raises LOAD. Each chip latches the word sitting in its shift
// register: the last word sent lands in chip 0, the one before in chip 1,
// and so on. Chips that received no word this transaction keep their state.
func (c *Chain) End() error {
	if !c.selected {
		return ErrNotSelected
	}
	c.selected = false
	c.Latches++
	n := len(c.pending)
	for p := range c.Chips {
		i := n - 1 - p
		if i < 0 {
			break
		}
		c.Chips[p].write(c.pending[i])
	}
	c.Log = append(c.Log, c.pending...)
	return nil
}

func (ch *Chip) write(w Word) {
	switch {
	case w.Reg >= RegDigit0 && w.Reg <= RegDigit7:
		ch.Digits[w.Reg-RegDigit0] = w.Val
	case w.Reg == RegDecode:
		ch.Decode = w.Val
	case w.Reg == RegIntensity:
		ch.Intensity = w.Val & 0x0F
	case w.Reg == RegScanLimit:
		ch.ScanLimit = w.Val & 0x07
	case w.Reg == RegShutdown:
		ch.Awake = w.Val&0x01 != 0
	case w.Reg == RegTest:
		ch.Test = w.Val&0x01 != 0
	}
}

// Lit reports whether the LED at (x, y) of the assembled panel is on, the
// way the hardware would show it: a chip in shutdown is dark, a chip in
// test mode is fully lit and rows beyond the scan limit are not driven.
func (c *Chain) Lit(x, y int) bool {
	if x < 0 || y < 0 || x >= c.Cols*8 || y >= c.Rows*8 {
		return false
	}
	ch := &c.Chips[(y/8)*c.Cols+x/8]
	switch {
	case ch.Test:
		return true
	case !ch.Awake:
		return false
	case int(ch.ScanLimit) < y%8:
		return false
	}
	return ch.Digits[y%8]&(0x80>>uint(x%8)) != 0
}

// Frame reassembles the digit registers of every chip into a grid,
// ignoring shutdown and test state.
func (c *Chain) Frame() (*pixelgrid.Grid, error) {
	g, err := pixelgrid.New(c.Cols*8, c.Rows*8)
	if err != nil {
		return nil, fmt.Errorf("emu: %w", err)
	}
	for p := range c.Chips {
		row, col := p/c.Cols, p%c.Cols
		for s, b := range c.Chips[p].Digits {
			g.Pix[(row*8+s)*g.Stride+col] = b
		}
	}
	return g, nil
}

// Reset clears the log and latch counter, keeping chip state.
func (c *Chain) Reset() {
	c.Log = nil
	c.Latches = 0
}

func (c *Chain) String() string {
	return fmt.Sprintf("emu.Chain{%dx%d}", c.Cols, c.Rows)
}
