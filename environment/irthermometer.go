package environment

import (
	"context"
	"fmt"

	"github.com/mklimuk/evshield"
)

// IRThermometerDefaultAddress is the 7-bit bus address (0x2A in shield notation).
const IRThermometerDefaultAddress = 0x15

// Temperatures are signed 16-bit values in hundredths of a degree.
const (
	irCommandRegister  byte = 0x41
	irAmbientCRegister byte = 0x42
	irTargetCRegister  byte = 0x44
	irAmbientFRegister byte = 0x46
	irTargetFRegister  byte = 0x48
)

// Thermometer is implemented by contactless thermometers such as IRThermometer.
type Thermometer interface {
	GetAmbientTemperatureC(ctx context.Context) (float32, error)
	GetTargetTemperatureC(ctx context.Context) (float32, error)
	GetAmbientTemperatureF(ctx context.Context) (float32, error)
	GetTargetTemperatureF(ctx context.Context) (float32, error)
}

var _ Thermometer = &IRThermometer{}

// IRThermometer represents mindsensors IR Thermometer (non-contact, MLX90614 based).
//
// Usage: Instantiate with NewIRThermometer, then call GetTargetTemperatureC(ctx)
type IRThermometer struct {
	dev *evshield.Device
}

func NewIRThermometer(bus evshield.I2CBus, opts ...evshield.Option) *IRThermometer {
	o := evshield.Apply(IRThermometerDefaultAddress, opts...)
	return &IRThermometer{dev: evshield.NewDevice(bus, o.Address)}
}

func (s *IRThermometer) Address() byte {
	return s.dev.Address()
}

func (s *IRThermometer) IssueCommand(ctx context.Context, command byte) error {
	return s.dev.Write(ctx, irCommandRegister, command)
}

func (s *IRThermometer) GetAmbientTemperatureC(ctx context.Context) (float32, error) {
	return s.readTemperature(ctx, irAmbientCRegister)
}

func (s *IRThermometer) GetTargetTemperatureC(ctx context.Context) (float32, error) {
	return s.readTemperature(ctx, irTargetCRegister)
}

func (s *IRThermometer) GetAmbientTemperatureF(ctx context.Context) (float32, error) {
	return s.readTemperature(ctx, irAmbientFRegister)
}

func (s *IRThermometer) GetTargetTemperatureF(ctx context.Context) (float32, error) {
	return s.readTemperature(ctx, irTargetFRegister)
}

func (s *IRThermometer) readTemperature(ctx context.Context, reg byte) (float32, error) {
	raw, err := s.dev.ReadInt16(ctx, reg)
	if err != nil {
		return 0, fmt.Errorf("irthermometer: could not read temperature: %w", err)
	}
	return convertTemperature(raw), nil
}

func convertTemperature(raw int16) float32 {
	return float32(raw) / 100
}
