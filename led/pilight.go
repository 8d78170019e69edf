package led

import (
	"context"
	"fmt"

	"github.com/mklimuk/evshield"
)

// PiLightDefaultAddress is the 7-bit bus address (0x30 in shield notation).
const PiLightDefaultAddress = 0x18

const (
	regRed     byte = 0x42
	regGreen   byte = 0x43
	regBlue    byte = 0x44
	regTimeout byte = 0x45
)

// Color is the RGB value generated by the PiLight.
type Color struct {
	R byte `yaml:"r" json:"r"`
	G byte `yaml:"g" json:"g"`
	B byte `yaml:"b" json:"b"`
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// PiLight represents mindsensors PiLight RGB light.
type PiLight struct {
	dev *evshield.Device
}

func NewPiLight(bus evshield.I2CBus, opts ...evshield.Option) *PiLight {
	o := evshield.Apply(PiLightDefaultAddress, opts...)
	return &PiLight{dev: evshield.NewDevice(bus, o.Address)}
}

func (p *PiLight) Address() byte {
	return p.dev.Address()
}

// ReadColor reads the red, green and blue registers in one transaction.
func (p *PiLight) ReadColor(ctx context.Context) (Color, error) {
	buf := make([]byte, 3)
	if err := p.dev.Read(ctx, regRed, buf); err != nil {
		return Color{}, fmt.Errorf("pilight: could not read color: %w", err)
	}
	return Color{R: buf[0], G: buf[1], B: buf[2]}, nil
}

// SetColor writes the red, green and blue registers in one transaction.
func (p *PiLight) SetColor(ctx context.Context, red, green, blue byte) error {
	if err := p.dev.Write(ctx, regRed, red, green, blue); err != nil {
		return fmt.Errorf("pilight: could not set color: %w", err)
	}
	return nil
}

// SetTimeout makes the PiLight turn off after seconds without communication.
func (p *PiLight) SetTimeout(ctx context.Context, seconds uint8) error {
	if err := p.dev.WriteUint8(ctx, regTimeout, seconds); err != nil {
		return fmt.Errorf("pilight: could not set timeout: %w", err)
	}
	return nil
}
