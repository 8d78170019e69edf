package motor

import (
	"context"
	"fmt"

	"github.com/mklimuk/evshield"
)

// PFMateDefaultAddress is the 7-bit bus address (0x48 in shield notation).
const PFMateDefaultAddress = 0x24

const (
	regCommand    byte = 0x41
	regChannel    byte = 0x42
	regControl    byte = 0x43
	regOperationA byte = 0x44
	regSpeedA     byte = 0x45
	regOperationB byte = 0x46
	regSpeedB     byte = 0x47
)

const cmdSendSignal = 'G'

// Channel is the channel selected on the Power Functions IR receiver.
type Channel uint8

const (
	Channel1 Channel = 1
	Channel2 Channel = 2
	Channel3 Channel = 3
	Channel4 Channel = 4
)

// Control selects the motor(s) a signal applies to.
type Control uint8

const (
	ControlBoth Control = 0
	ControlA    Control = 1
	ControlB    Control = 2
)

type Operation uint8

const (
	OperationFloat   Operation = 0
	OperationForward Operation = 1
	OperationReverse Operation = 2
	OperationBrake   Operation = 3
)

// Speed ranges 1 to 7.
type Speed uint8

const (
	SpeedSlow   Speed = 1
	SpeedMedium Speed = 4
	SpeedFull   Speed = 7
)

// PFMate represents mindsensors PF-Mate, an IR transmitter for LEGO Power Functions receivers.
//
// Typical usage:
//
//	pf := NewPFMate(bus)
//	err := pf.ControlMotor(ctx, Channel1, ControlBoth, OperationForward, SpeedFull)
type PFMate struct {
	dev *evshield.Device
}

func NewPFMate(bus evshield.I2CBus, opts ...evshield.Option) *PFMate {
	o := evshield.Apply(PFMateDefaultAddress, opts...)
	return &PFMate{dev: evshield.NewDevice(bus, o.Address)}
}

func (p *PFMate) Address() byte {
	return p.dev.Address()
}

func (p *PFMate) IssueCommand(ctx context.Context, command byte) error {
	return p.dev.Write(ctx, regCommand, command)
}

// SendSignal transmits the current register settings to the PF receiver.
func (p *PFMate) SendSignal(ctx context.Context) error {
	if err := p.IssueCommand(ctx, cmdSendSignal); err != nil {
		return fmt.Errorf("pfmate: could not send signal: %w", err)
	}
	return nil
}

// ControlMotor sets channel, control, operation and speed of the selected
// motor(s) and sends the signal. The first failing write aborts the sequence.
func (p *PFMate) ControlMotor(ctx context.Context, channel Channel, control Control, operation Operation, speed Speed) error {
	if err := p.SetChannel(ctx, channel); err != nil {
		return err
	}
	if err := p.SetControl(ctx, control); err != nil {
		return err
	}
	if control == ControlBoth || control == ControlA {
		if err := p.SetOperationA(ctx, operation); err != nil {
			return err
		}
		if err := p.SetSpeedA(ctx, speed); err != nil {
			return err
		}
	}
	if control == ControlBoth || control == ControlB {
		if err := p.SetOperationB(ctx, operation); err != nil {
			return err
		}
		if err := p.SetSpeedB(ctx, speed); err != nil {
			return err
		}
	}
	return p.SendSignal(ctx)
}

func (p *PFMate) SetChannel(ctx context.Context, channel Channel) error {
	return p.set(ctx, regChannel, byte(channel), "channel")
}

func (p *PFMate) SetControl(ctx context.Context, control Control) error {
	return p.set(ctx, regControl, byte(control), "control")
}

func (p *PFMate) SetOperationA(ctx context.Context, operation Operation) error {
	return p.set(ctx, regOperationA, byte(operation), "operation A")
}

func (p *PFMate) SetOperationB(ctx context.Context, operation Operation) error {
	return p.set(ctx, regOperationB, byte(operation), "operation B")
}

func (p *PFMate) SetSpeedA(ctx context.Context, speed Speed) error {
	return p.set(ctx, regSpeedA, byte(speed), "speed A")
}

func (p *PFMate) SetSpeedB(ctx context.Context, speed Speed) error {
	return p.set(ctx, regSpeedB, byte(speed), "speed B")
}

func (p *PFMate) set(ctx context.Context, reg, value byte, what string) error {
	if err := p.dev.WriteUint8(ctx, reg, value); err != nil {
		return fmt.Errorf("pfmate: could not set %s: %w", what, err)
	}
	return nil
}

// ParseOperation accepts float, forward, reverse and brake.
func ParseOperation(s string) (Operation, error) {
	switch s {
	case "float":
		return OperationFloat, nil
	case "forward", "fwd":
		return OperationForward, nil
	case "reverse", "rev":
		return OperationReverse, nil
	case "brake":
		return OperationBrake, nil
	}
	return 0, fmt.Errorf("unknown operation %q", s)
}

// ParseControl accepts a, b and both.
func ParseControl(s string) (Control, error) {
	switch s {
	case "both", "ab":
		return ControlBoth, nil
	case "a", "A":
		return ControlA, nil
	case "b", "B":
		return ControlB, nil
	}
	return 0, fmt.Errorf("unknown motor control %q", s)
}
