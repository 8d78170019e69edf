package distance

import (
	"context"
	"fmt"

	"github.com/mklimuk/evshield"
)

// DefaultAddress is the 7-bit bus address (0x02 in shield notation).
const DefaultAddress = 0x01

const (
	regCommand    byte = 0x41
	regDistance   byte = 0x42
	regVoltage    byte = 0x44
	regSensorType byte = 0x50
)

const (
	cmdEnergize   = 'E'
	cmdDeEnergize = 'D'
)

// SensorType identifies the Sharp IR module fitted to the DIST-Nx.
type SensorType byte

const (
	TypeShortRange  SensorType = 0x32 // GP2D12
	TypeMediumRange SensorType = 0x33 // GP2D120
	TypeLongRange   SensorType = 0x34 // GP2YA02
	TypeLongRange2  SensorType = 0x35 // GP2Y0A710K0F
)

func (t SensorType) String() string {
	switch t {
	case TypeShortRange:
		return "GP2D12"
	case TypeMediumRange:
		return "GP2D120"
	case TypeLongRange:
		return "GP2YA02"
	case TypeLongRange2:
		return "GP2Y0A710K0F"
	default:
		return fmt.Sprintf("unknown(%#02x)", byte(t))
	}
}

// DISTNx represents mindsensors DIST-Nx infrared distance sensor.
type DISTNx struct {
	dev *evshield.Device
}

func NewDISTNx(bus evshield.I2CBus, opts ...evshield.Option) *DISTNx {
	o := evshield.Apply(DefaultAddress, opts...)
	return &DISTNx{dev: evshield.NewDevice(bus, o.Address)}
}

func (s *DISTNx) Address() byte {
	return s.dev.Address()
}

func (s *DISTNx) IssueCommand(ctx context.Context, command byte) error {
	return s.dev.Write(ctx, regCommand, command)
}

// Energize powers on the IR module.
func (s *DISTNx) Energize(ctx context.Context) error {
	if err := s.IssueCommand(ctx, cmdEnergize); err != nil {
		return fmt.Errorf("distnx: could not energize: %w", err)
	}
	return nil
}

// DeEnergize powers off the IR module.
func (s *DISTNx) DeEnergize(ctx context.Context) error {
	if err := s.IssueCommand(ctx, cmdDeEnergize); err != nil {
		return fmt.Errorf("distnx: could not de-energize: %w", err)
	}
	return nil
}

// GetDist returns the distance in millimeters.
func (s *DISTNx) GetDist(ctx context.Context) (int, error) {
	v, err := s.dev.ReadInt16(ctx, regDistance)
	if err != nil {
		return 0, fmt.Errorf("distnx: could not read distance: %w", err)
	}
	return int(v), nil
}

// GetVolt returns the module output voltage in millivolts.
func (s *DISTNx) GetVolt(ctx context.Context) (int, error) {
	v, err := s.dev.ReadInt16(ctx, regVoltage)
	if err != nil {
		return 0, fmt.Errorf("distnx: could not read voltage: %w", err)
	}
	return int(v), nil
}

func (s *DISTNx) GetType(ctx context.Context) (SensorType, error) {
	v, err := s.dev.ReadUint8(ctx, regSensorType)
	if err != nil {
		return 0, fmt.Errorf("distnx: could not read sensor type: %w", err)
	}
	return SensorType(v), nil
}
