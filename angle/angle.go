package angle

import (
	"context"
	"fmt"

	"github.com/mklimuk/evshield"
)

// DefaultAddress is the 7-bit bus address (0x30 in shield notation).
const DefaultAddress = 0x18

const (
	regCommand    byte = 0x41
	regAngle      byte = 0x42
	regRawReading byte = 0x46
)

const cmdReset = 'r'

// AngleSensor represents mindsensors Angle sensor (rotary encoder).
type AngleSensor struct {
	dev *evshield.Device
}

func NewAngleSensor(bus evshield.I2CBus, opts ...evshield.Option) *AngleSensor {
	o := evshield.Apply(DefaultAddress, opts...)
	return &AngleSensor{dev: evshield.NewDevice(bus, o.Address)}
}

func (s *AngleSensor) Address() byte {
	return s.dev.Address()
}

// IssueCommand writes a command byte to the command register.
func (s *AngleSensor) IssueCommand(ctx context.Context, command byte) error {
	return s.dev.Write(ctx, regCommand, command)
}

// GetAngle returns the accumulated angle in degrees.
func (s *AngleSensor) GetAngle(ctx context.Context) (int32, error) {
	v, err := s.dev.ReadInt32(ctx, regAngle)
	if err != nil {
		return 0, fmt.Errorf("angle: could not read angle: %w", err)
	}
	return v, nil
}

// GetRawReading returns the raw encoder count (twice the angle value).
func (s *AngleSensor) GetRawReading(ctx context.Context) (int32, error) {
	v, err := s.dev.ReadInt32(ctx, regRawReading)
	if err != nil {
		return 0, fmt.Errorf("angle: could not read raw reading: %w", err)
	}
	return v, nil
}

// Reset sets the angle value to zero.
func (s *AngleSensor) Reset(ctx context.Context) error {
	if err := s.IssueCommand(ctx, cmdReset); err != nil {
		return fmt.Errorf("angle: could not reset: %w", err)
	}
	return nil
}
