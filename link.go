package max7219

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Link carries register writes to a chain of devices.
//
// Words sent between Begin and End are shifted through the chain and
// latched by every device at once when End is called.
type Link interface {
	// Begin pulls the shared LOAD/CS line low.
	Begin() error
	// Send shifts one register address and value, MSB first.
	Send(reg, val byte) error
	// End raises LOAD/CS, latching the shifted words.
	End() error
}

// Pins is the wiring of a bit-banged chain.
type Pins struct {
	DIN gpio.PinOut // Serial data
	CS  gpio.PinOut // LOAD on the MAX7219, CS on the MAX7221
	CLK gpio.PinOut // Serial clock, data is sampled on the rising edge

	// Hz caps the clock rate. Zero toggles the pins as fast as they go;
	// the MAX7219 accepts up to 10MHz.
	Hz physic.Frequency
}

// bitBang drives a chain over three GPIO outputs.
type bitBang struct {
	din, cs, clk gpio.PinOut
	half         time.Duration
}

// newBitBang validates p and puts the pins in their idle state: LOAD high,
// DIN and CLK low.
func newBitBang(p Pins) (*bitBang, error) {
	if p.DIN == nil || p.CS == nil || p.CLK == nil {
		return nil, errMissingPin
	}
	b := &bitBang{din: p.DIN, cs: p.CS, clk: p.CLK}
	if p.Hz > 0 {
		b.half = p.Hz.Period() / 2
	}
	if err := b.cs.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("max7219: failed to raise %s: %w", b.cs, err)
	}
	if err := b.din.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("max7219: failed to lower %s: %w", b.din, err)
	}
	if err := b.clk.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("max7219: failed to lower %s: %w", b.clk, err)
	}
	return b, nil
}

func (b *bitBang) Begin() error {
	return b.cs.Out(gpio.Low)
}

func (b *bitBang) End() error {
	return b.cs.Out(gpio.High)
}

func (b *bitBang) Send(reg, val byte) error {
	if err := b.shiftOut(reg); err != nil {
		return err
	}
	return b.shiftOut(val)
}

// shiftOut clocks v out MSB first.
func (b *bitBang) shiftOut(v byte) error {
	for i := 0; i < 8; i++ {
		if err := b.clk.Out(gpio.Low); err != nil {
			return err
		}
		if err := b.din.Out(gpio.Level(v&0x80 != 0)); err != nil {
			return err
		}
		b.wait()
		if err := b.clk.Out(gpio.High); err != nil {
			return err
		}
		b.wait()
		v <<= 1
	}
	return nil
}

func (b *bitBang) wait() {
	if b.half > 0 {
		time.Sleep(b.half)
	}
}
