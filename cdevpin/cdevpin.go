//go:build linux

// Package cdevpin exposes Linux GPIO character device lines as periph.io
// output pins.
//
// It lets the bit-banged MAX7219 link run on kernels where the sysfs GPIO
// interface is gone, such as the Raspberry Pi 5:
//
//	din, err := cdevpin.Open("gpiochip0", 10)
//	...
//	dev, err := max7219.NewBitBang(max7219.Pins{DIN: din, CS: cs, CLK: clk}, nil)
package cdevpin

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

const consumer = "max7219"

var errPWM = errors.New("cdevpin: PWM not supported")

// line is the subset of *gpiocdev.Line used by Pin.
type line interface {
	SetValue(value int) error
	Close() error
}

// Pin is one requested GPIO line configured as an output.
type Pin struct {
	chip   string
	offset int
	l      line
}

// Open requests offset on chip as an output driven low.
func Open(chip string, offset int) (*Pin, error) {
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("cdevpin: failed to request %s line %d: %w", chip, offset, err)
	}
	return &Pin{chip: chip, offset: offset, l: l}, nil
}

// OpenAll opens the given offsets on chip, closing the ones already opened
// if one fails.
func OpenAll(chip string, offsets ...int) ([]*Pin, error) {
	pins := make([]*Pin, 0, len(offsets))
	for _, o := range offsets {
		p, err := Open(chip, o)
		if err != nil {
			return nil, errors.Join(err, CloseAll(pins))
		}
		pins = append(pins, p)
	}
	return pins, nil
}

// Out drives the line.
func (p *Pin) Out(l gpio.Level) error {
	v := 0
	if l == gpio.High {
		v = 1
	}
	return p.l.SetValue(v)
}

// PWM is not available on character device lines.
func (p *Pin) PWM(gpio.Duty, physic.Frequency) error {
	return errPWM
}

// Name returns the chip and offset, e.g. "gpiochip0/10".
func (p *Pin) Name() string {
	return fmt.Sprintf("%s/%d", p.chip, p.offset)
}

// Number returns the line offset on its chip.
func (p *Pin) Number() int {
	return p.offset
}

// Function returns the configured function.
func (p *Pin) Function() string {
	return "Out"
}

func (p *Pin) String() string {
	return p.Name()
}

// Halt drives the line low.
func (p *Pin) Halt() error {
	return p.Out(gpio.Low)
}

// Close releases the line.
func (p *Pin) Close() error {
	return p.l.Close()
}

// CloseAll releases every pin, returning the errors of those that failed.
func CloseAll(pins []*Pin) error {
	var errs []error
	for _, p := range pins {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ gpio.PinOut = (*Pin)(nil)
