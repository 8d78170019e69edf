package led

import (
	"context"
	"fmt"

	"github.com/mklimuk/evshield"
)

// MagicWandDefaultAddress is fixed in hardware (0x70 in shield notation).
const MagicWandDefaultAddress = 0x38

const regWrite byte = 0x00

// MagicWand represents mindsensors Magic Wand, eight LEDs behind a port expander.
type MagicWand struct {
	dev *evshield.Device
}

func NewMagicWand(bus evshield.I2CBus, opts ...evshield.Option) *MagicWand {
	o := evshield.Apply(MagicWandDefaultAddress, opts...)
	return &MagicWand{dev: evshield.NewDevice(bus, o.Address)}
}

func (w *MagicWand) Address() byte {
	return w.dev.Address()
}

// LightWand drives the LEDs; each bit is one LED, 0 is on and 1 is off.
func (w *MagicWand) LightWand(ctx context.Context, pattern byte) error {
	if err := w.dev.Write(ctx, regWrite, pattern); err != nil {
		return fmt.Errorf("magicwand: could not light wand: %w", err)
	}
	return nil
}

// Pattern converts a set of lit LED indexes (0-7) to the active-low wand pattern.
func Pattern(lit ...int) byte {
	p := byte(0xFF)
	for _, i := range lit {
		if i >= 0 && i < 8 {
			p &^= 1 << i
		}
	}
	return p
}
