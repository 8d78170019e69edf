package light

import (
	"context"
	"fmt"

	"github.com/mklimuk/evshield"
)

const regCommand byte = 0x41

// Commands shared by LightSensorArray and LineLeader.
const (
	cmdCalibrateWhite     = 'W'
	cmdCalibrateBlack     = 'B'
	cmdSleep              = 'D'
	cmdWakeUp             = 'P'
	cmdConfigureUS        = 'A' // 60 Hz mains
	cmdConfigureEurope    = 'E' // 50 Hz mains
	cmdConfigureUniversal = 'U'
)

// sensorCommands implements the command set common to both light sensor arrays.
type sensorCommands struct {
	dev  *evshield.Device
	name string
}

func (c sensorCommands) Address() byte {
	return c.dev.Address()
}

// IssueCommand writes a command byte to the command register.
func (c sensorCommands) IssueCommand(ctx context.Context, command byte) error {
	return c.dev.Write(ctx, regCommand, command)
}

// CalibrateWhite stores the current input as white.
func (c sensorCommands) CalibrateWhite(ctx context.Context) error {
	return c.command(ctx, cmdCalibrateWhite, "calibrate white")
}

// CalibrateBlack stores the current input as black.
func (c sensorCommands) CalibrateBlack(ctx context.Context) error {
	return c.command(ctx, cmdCalibrateBlack, "calibrate black")
}

// Sleep turns the LEDs off and puts the sensor to sleep.
func (c sensorCommands) Sleep(ctx context.Context) error {
	return c.command(ctx, cmdSleep, "sleep")
}

// WakeUp turns the LEDs on.
func (c sensorCommands) WakeUp(ctx context.Context) error {
	return c.command(ctx, cmdWakeUp, "wake up")
}

func (c sensorCommands) ConfigureUS(ctx context.Context) error {
	return c.command(ctx, cmdConfigureUS, "configure US")
}

func (c sensorCommands) ConfigureEurope(ctx context.Context) error {
	return c.command(ctx, cmdConfigureEurope, "configure Europe")
}

// ConfigureUniversal lets the sensor adapt to any mains frequency (device default).
func (c sensorCommands) ConfigureUniversal(ctx context.Context) error {
	return c.command(ctx, cmdConfigureUniversal, "configure universal")
}

func (c sensorCommands) command(ctx context.Context, command byte, what string) error {
	if err := c.IssueCommand(ctx, command); err != nil {
		return fmt.Errorf("%s: could not %s: %w", c.name, what, err)
	}
	return nil
}

func (c sensorCommands) block(ctx context.Context, reg byte, what string) ([8]byte, error) {
	res, err := c.dev.ReadBlock8(ctx, reg)
	if err != nil {
		return res, fmt.Errorf("%s: could not read %s: %w", c.name, what, err)
	}
	return res, nil
}
