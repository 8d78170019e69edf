package input

import (
	"context"
	"fmt"

	"github.com/mklimuk/evshield"
)

// PSPNxDefaultAddress is the 7-bit bus address (0x02 in shield notation).
const PSPNxDefaultAddress = 0x01

const (
	pspCommand       byte = 0x41
	pspButtonSet1    byte = 0x42
	pspButtonSet2    byte = 0x43
	pspXLeftJoystick byte = 0x44
	pspYLeftJoystick byte = 0x45
	pspXRightJoy     byte = 0x46
	pspYRightJoy     byte = 0x47
)

const (
	cmdEnergize    = 'E'
	cmdDeEnergize  = 'D'
	cmdDigitalMode = 'A'
	cmdAnalogMode  = 's'
)

// Button is a bit position within a button set.
type Button uint8

// Button set 1
const (
	ButtonSelect Button = iota
	ButtonL3
	ButtonR3
	ButtonStart
	ButtonUp
	ButtonRight
	ButtonDown
	ButtonLeft
)

// Button set 2
const (
	ButtonL2 Button = iota
	ButtonR2
	ButtonL1
	ButtonR1
	ButtonTriangle
	ButtonCircle
	ButtonCross
	ButtonSquare
)

// ButtonSet holds the raw button byte as reported by the receiver.
// A button reads 0 while pressed.
type ButtonSet byte

func (s ButtonSet) Pressed(b Button) bool {
	return s&(1<<b) == 0
}

// Buttons is the state of both button sets read in one transaction.
type Buttons struct {
	Set1 ButtonSet `yaml:"set1" json:"set1"`
	Set2 ButtonSet `yaml:"set2" json:"set2"`
}

// PSPNx represents mindsensors PSP-Nx receiver for a PlayStation 2 style controller.
type PSPNx struct {
	dev *evshield.Device
}

func NewPSPNx(bus evshield.I2CBus, opts ...evshield.Option) *PSPNx {
	o := evshield.Apply(PSPNxDefaultAddress, opts...)
	return &PSPNx{dev: evshield.NewDevice(bus, o.Address)}
}

func (p *PSPNx) Address() byte {
	return p.dev.Address()
}

func (p *PSPNx) IssueCommand(ctx context.Context, command byte) error {
	return p.dev.Write(ctx, pspCommand, command)
}

// Energize powers on the joystick receiver.
func (p *PSPNx) Energize(ctx context.Context) error {
	return p.command(ctx, cmdEnergize, "energize")
}

// DeEnergize powers off the joystick receiver.
func (p *PSPNx) DeEnergize(ctx context.Context) error {
	return p.command(ctx, cmdDeEnergize, "de-energize")
}

func (p *PSPNx) SetDigitalMode(ctx context.Context) error {
	return p.command(ctx, cmdDigitalMode, "set digital mode")
}

func (p *PSPNx) SetAnalogMode(ctx context.Context) error {
	return p.command(ctx, cmdAnalogMode, "set analog mode")
}

// GetXLJoy returns the left joystick x-coordinate, -100..+100 with zero at neutral.
func (p *PSPNx) GetXLJoy(ctx context.Context) (int8, error) {
	return p.joystick(ctx, pspXLeftJoystick)
}

func (p *PSPNx) GetYLJoy(ctx context.Context) (int8, error) {
	return p.joystick(ctx, pspYLeftJoystick)
}

func (p *PSPNx) GetXRJoy(ctx context.Context) (int8, error) {
	return p.joystick(ctx, pspXRightJoy)
}

func (p *PSPNx) GetYRJoy(ctx context.Context) (int8, error) {
	return p.joystick(ctx, pspYRightJoy)
}

// GetButtons reads both button sets.
func (p *PSPNx) GetButtons(ctx context.Context) (Buttons, error) {
	buf := make([]byte, 2)
	if err := p.dev.Read(ctx, pspButtonSet1, buf); err != nil {
		return Buttons{}, fmt.Errorf("pspnx: could not read buttons: %w", err)
	}
	return Buttons{Set1: ButtonSet(buf[0]), Set2: ButtonSet(buf[1])}, nil
}

func (p *PSPNx) joystick(ctx context.Context, reg byte) (int8, error) {
	v, err := p.dev.ReadInt8(ctx, reg)
	if err != nil {
		return 0, fmt.Errorf("pspnx: could not read joystick: %w", err)
	}
	return v, nil
}

func (p *PSPNx) command(ctx context.Context, command byte, what string) error {
	if err := p.IssueCommand(ctx, command); err != nil {
		return fmt.Errorf("pspnx: could not %s: %w", what, err)
	}
	return nil
}
