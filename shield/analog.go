// Package shield gives access to the sensor ports of the EVShield banks.
package shield

import (
	"context"
	"fmt"

	"github.com/mklimuk/evshield"
)

// Bank addresses in 7-bit notation (0x34 and 0x36 on the shield silkscreen).
const (
	BankAAddress = 0x1A
	BankBAddress = 0x1B
)

// BankPort identifies one of the four sensor ports.
type BankPort uint8

const (
	BAS1 BankPort = iota
	BAS2
	BBS1
	BBS2
)

var portNames = map[BankPort]string{
	BAS1: "BAS1",
	BAS2: "BAS2",
	BBS1: "BBS1",
	BBS2: "BBS2",
}

func (p BankPort) String() string {
	if n, ok := portNames[p]; ok {
		return n
	}
	return fmt.Sprintf("port(%d)", uint8(p))
}

// ParseBankPort accepts the names returned by BankPort.String, case sensitive.
func ParseBankPort(s string) (BankPort, error) {
	for p, n := range portNames {
		if n == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown bank port %q", s)
}

// Address returns the bank address serving the port.
func (p BankPort) Address() byte {
	if p == BBS1 || p == BBS2 {
		return BankBAddress
	}
	return BankAAddress
}

func (p BankPort) modeRegister() byte {
	if p == BAS2 || p == BBS2 {
		return regS2Mode
	}
	return regS1Mode
}

func (p BankPort) analogRegister() byte {
	if p == BAS2 || p == BBS2 {
		return regS2Analog
	}
	return regS1Analog
}

const (
	regS1Mode   byte = 0x6F
	regS1Analog byte = 0x70
	regS2Mode   byte = 0xA3
	regS2Analog byte = 0xA4
)

// SensorType configures the port electronics.
type SensorType uint8

const (
	TypeNone           SensorType = 0
	TypeSwitch         SensorType = 1
	TypeAnalog         SensorType = 2
	TypeLightReflected SensorType = 3
	TypeLightAmbient   SensorType = 4
	TypeI2C            SensorType = 9
)

// AnalogSensor is a sensor read through the analog input of a bank port.
type AnalogSensor struct {
	dev  *evshield.Device
	port BankPort
}

func NewAnalogSensor(bus evshield.I2CBus, port BankPort) *AnalogSensor {
	return &AnalogSensor{dev: evshield.NewDevice(bus, port.Address()), port: port}
}

func (a *AnalogSensor) Port() BankPort {
	return a.port
}

func (a *AnalogSensor) SetType(ctx context.Context, t SensorType) error {
	if err := a.dev.WriteUint8(ctx, a.port.modeRegister(), byte(t)); err != nil {
		return fmt.Errorf("shield: could not set %s type: %w", a.port, err)
	}
	return nil
}

// ReadRaw returns the 10-bit analog value of the port.
func (a *AnalogSensor) ReadRaw(ctx context.Context) (int, error) {
	v, err := a.dev.ReadUint16(ctx, a.port.analogRegister())
	if err != nil {
		return 0, fmt.Errorf("shield: could not read %s: %w", a.port, err)
	}
	return int(v), nil
}
