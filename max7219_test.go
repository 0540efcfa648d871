package max7219

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/flavioheleno/max7219/emu"
	"github.com/flavioheleno/max7219/pixelgrid"
)

// newTestDev returns a device on an emulated chain sized for w x h, with
// the construction traffic cleared from the log.
func newTestDev(t *testing.T, w, h int) (*Dev, *emu.Chain) {
	t.Helper()
	c := emu.New(w/8, h/8)
	d, err := New(c, &Opts{W: w, H: h, Intensity: 4})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c.Reset()
	return d, c
}

// fill sets a pattern where every tile row differs from every other.
func fill(g *pixelgrid.Grid) {
	for i := range g.Pix {
		g.Pix[i] = byte(i*37 + 11)
	}
}

func TestOptsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Opts
		tiles   int
		wantErr bool
	}{
		{"nil options (uses defaults)", nil, 1, false},
		{"valid 32x8", &Opts{W: 32, H: 8}, 4, false},
		{"valid 16x16", &Opts{W: 16, H: 16, Intensity: 15}, 4, false},
		{"valid 96x96 (maximum)", &Opts{W: 96, H: 96}, 144, false},
		{"width zero", &Opts{W: 0, H: 8}, 1, true},
		{"width not multiple of 8", &Opts{W: 20, H: 8}, 1, true},
		{"width > 96", &Opts{W: 104, H: 8}, 1, true},
		{"height > 96", &Opts{W: 8, H: 104}, 1, true},
		{"intensity > 15", &Opts{W: 8, H: 8, Intensity: 16}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := emu.New(tt.tiles, 1)
			d, err := New(c, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if d != nil {
					t.Error("New() returned a device along with an error")
				}
				if c.Latches != 0 {
					t.Errorf("invalid options still sent %d transactions", c.Latches)
				}
			}
		})
	}
}

func TestNewDimensionsError(t *testing.T) {
	_, err := New(emu.New(1, 1), &Opts{W: 9, H: 8})
	if !errors.Is(err, pixelgrid.ErrDimensions) {
		t.Errorf("New() error = %v, want ErrDimensions", err)
	}
}

func TestNewConfiguresChain(t *testing.T) {
	c := emu.New(2, 1)
	for p := range c.Chips {
		c.Chips[p].Test = true
		c.Chips[p].Decode = 0xFF
	}
	if _, err := New(c, &Opts{W: 16, H: 8, Intensity: 9}); err != nil {
		t.Fatalf("New() error = %v", err)
	}

	wantRegs := []byte{regTest, regDecode, regScanLimit, regShutdown, regIntensity}
	if c.Latches != len(wantRegs) {
		t.Fatalf("Latches = %d, want %d", c.Latches, len(wantRegs))
	}
	for i, reg := range wantRegs {
		for j := 0; j < 2; j++ {
			if w := c.Log[i*2+j]; w.Reg != reg {
				t.Errorf("Log[%d].Reg = 0x%02X, want 0x%02X", i*2+j, w.Reg, reg)
			}
		}
	}
	for p, ch := range c.Chips {
		if ch.Test || ch.Decode != 0 || ch.ScanLimit != 7 || !ch.Awake || ch.Intensity != 9 {
			t.Errorf("chip %d = %+v", p, ch)
		}
	}
}

func TestUpdateTileMapping(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"1x1", 8, 8},
		{"4x1", 32, 8},
		{"1x3", 8, 24},
		{"3x2", 24, 16},
		{"2x3", 16, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c := newTestDev(t, tt.w, tt.h)
			fill(d.Grid())
			if err := d.Update(); err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if c.Latches != 8 {
				t.Errorf("Latches = %d, want one per scanline", c.Latches)
			}
			if want := 8 * d.Grid().Devices(); len(c.Log) != want {
				t.Errorf("len(Log) = %d, want %d", len(c.Log), want)
			}
			f, err := c.Frame()
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(f.Pix, d.Grid().Pix) {
				t.Errorf("chain shows\n%s\nwant\n%s", f, d.Grid())
			}
			for y := 0; y < tt.h; y++ {
				for x := 0; x < tt.w; x++ {
					want, _ := d.Grid().Pixel(x, y)
					if got := c.Lit(x, y); got != want {
						t.Fatalf("Lit(%d, %d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestUpdateSendsLastDeviceFirst(t *testing.T) {
	d, c := newTestDev(t, 24, 8)
	g := d.Grid()
	g.SetPixel(0, 0, pixelgrid.Src)  // tile 0
	g.SetPixel(23, 0, pixelgrid.Src) // tile 2
	if err := d.Update(); err != nil {
		t.Fatal(err)
	}
	want := []emu.Word{
		{Reg: regDigit0, Val: 0x01},
		{Reg: regDigit0, Val: 0x00},
		{Reg: regDigit0, Val: 0x80},
	}
	for i, w := range want {
		if c.Log[i] != w {
			t.Errorf("Log[%d] = %+v, want %+v", i, c.Log[i], w)
		}
	}
	if last := c.Log[len(c.Log)-1]; last.Reg != regDigit0+7 {
		t.Errorf("last word register = 0x%02X, want digit 7", last.Reg)
	}
}

func TestDrawSendsChangedScanlines(t *testing.T) {
	d, c := newTestDev(t, 16, 8)
	src := image.NewGray(d.Bounds())

	// First draw has nothing to compare against and sends everything.
	if err := d.Draw(d.Bounds(), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if c.Latches != 8 {
		t.Fatalf("first Draw latched %d times, want 8", c.Latches)
	}

	c.Reset()
	src.SetGray(9, 2, color.Gray{Y: 0xFF})
	if err := d.Draw(d.Bounds(), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if c.Latches != 1 {
		t.Fatalf("Draw latched %d times, want 1", c.Latches)
	}
	want := []emu.Word{
		{Reg: regDigit0 + 2, Val: 0x40},
		{Reg: regNoop, Val: 0},
	}
	if len(c.Log) != len(want) || c.Log[0] != want[0] || c.Log[1] != want[1] {
		t.Errorf("Log = %+v, want %+v", c.Log, want)
	}
	if !c.Lit(9, 2) {
		t.Error("pixel (9, 2) not lit on the chain")
	}

	c.Reset()
	if err := d.Draw(d.Bounds(), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if c.Latches != 0 {
		t.Errorf("unchanged Draw latched %d times, want 0", c.Latches)
	}

	if err := d.Draw(image.Rect(100, 100, 120, 120), src, image.Point{}); err != nil {
		t.Errorf("Draw outside bounds error = %v", err)
	}
}

func TestWrite(t *testing.T) {
	d, c := newTestDev(t, 16, 16)
	pixels := make([]byte, 32)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	n, err := d.Write(pixels)
	if err != nil || n != 32 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	f, _ := c.Frame()
	if !bytes.Equal(f.Pix, pixels) {
		t.Errorf("chain frame = %x, want %x", f.Pix, pixels)
	}
}

func TestWriteBufferSizeValidation(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		bufferSize int
	}{
		{"32x8 too small", 32, 8, 32*8/8 - 1},
		{"32x8 too large", 32, 8, 32*8/8 + 1},
		{"16x16 empty", 16, 16, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c := newTestDev(t, tt.width, tt.height)
			_, err := d.Write(make([]byte, tt.bufferSize))
			if err == nil {
				t.Fatal("Write should fail with invalid buffer size")
			}
			if err.Error() != "max7219: invalid buffer size" {
				t.Errorf("Write error = %v, want 'max7219: invalid buffer size'", err)
			}
			if c.Latches != 0 {
				t.Error("rejected Write talked to the chain")
			}
		})
	}
}

func TestDevHalt(t *testing.T) {
	d, c := newTestDev(t, 16, 8)
	if err := d.Halt(); err != nil {
		t.Fatalf("Halt() error = %v", err)
	}
	for p, ch := range c.Chips {
		if ch.Awake {
			t.Errorf("chip %d still awake after Halt", p)
		}
	}

	if err := d.Update(); err == nil {
		t.Error("Update should fail when halted")
	}
	if err := d.SetIntensity(3); err == nil {
		t.Error("SetIntensity should fail when halted")
	}
	if err := d.DisplayTest(true); err == nil {
		t.Error("DisplayTest should fail when halted")
	}
	if _, err := d.Write(make([]byte, 16)); err == nil {
		t.Error("Write should fail when halted")
	}
	if err := d.Draw(d.Bounds(), image.NewGray(d.Bounds()), image.Point{}); err == nil {
		t.Error("Draw should fail when halted")
	}
	if err := d.Display(); err == nil {
		t.Error("Display should fail when halted")
	}

	if err := d.Init(2); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := d.Update(); err != nil {
		t.Errorf("Update after Init error = %v", err)
	}
	if !c.Chips[0].Awake || c.Chips[1].Intensity != 2 {
		t.Errorf("chips after Init = %+v", c.Chips)
	}
}

func TestIntensityAndTest(t *testing.T) {
	d, c := newTestDev(t, 8, 16)
	if err := d.SetIntensity(MaxIntensity); err != nil {
		t.Fatal(err)
	}
	if err := d.SetIntensity(MaxIntensity + 1); err == nil {
		t.Error("SetIntensity(16) should fail")
	}
	if err := d.Init(200); err == nil {
		t.Error("Init(200) should fail")
	}
	if err := d.DisplayTest(true); err != nil {
		t.Fatal(err)
	}
	for p, ch := range c.Chips {
		if ch.Intensity != MaxIntensity || !ch.Test {
			t.Errorf("chip %d = %+v", p, ch)
		}
	}
	if !c.Lit(3, 12) {
		t.Error("test mode should light every LED")
	}
	if err := d.DisplayTest(false); err != nil {
		t.Fatal(err)
	}
	if c.Chips[1].Test {
		t.Error("DisplayTest(false) left test mode on")
	}
}

// failLink fails the n-th call to Send, counting from 1.
type failLink struct {
	failAt  int
	sends   int
	begins  int
	ends    int
	failEnd bool
}

var errWire = errors.New("wire cut")

func (l *failLink) Begin() error { l.begins++; return nil }

func (l *failLink) Send(reg, val byte) error {
	l.sends++
	if l.sends == l.failAt {
		return errWire
	}
	return nil
}

func (l *failLink) End() error {
	l.ends++
	if l.failEnd {
		return errWire
	}
	return nil
}

func TestTransactReleasesLatchOnError(t *testing.T) {
	l := &failLink{}
	d, err := New(l, &Opts{W: 16, H: 8})
	if err != nil {
		t.Fatal(err)
	}

	l.failAt = l.sends + 3
	err = d.Update()
	if !errors.Is(err, errWire) {
		t.Fatalf("Update() error = %v, want errWire", err)
	}
	if l.begins != l.ends {
		t.Errorf("begins = %d, ends = %d, want balanced", l.begins, l.ends)
	}

	l.failAt = 0
	l.failEnd = true
	if err := d.Update(); !errors.Is(err, errWire) {
		t.Errorf("Update() with failing latch error = %v, want errWire", err)
	}
}

func TestNewFailingLink(t *testing.T) {
	l := &failLink{failAt: 1}
	if _, err := New(l, nil); !errors.Is(err, errWire) {
		t.Errorf("New() error = %v, want errWire", err)
	}
}

func TestDevBounds(t *testing.T) {
	d, _ := newTestDev(t, 32, 8)
	want := image.Rect(0, 0, 32, 8)
	if got := d.Bounds(); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}

func TestDevColorModel(t *testing.T) {
	d, _ := newTestDev(t, 8, 8)
	if d.ColorModel() != pixelgrid.BitModel {
		t.Error("ColorModel() did not return BitModel")
	}
}

func TestDevString(t *testing.T) {
	d, _ := newTestDev(t, 32, 16)
	want := "max7219.Dev{32x16}"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
