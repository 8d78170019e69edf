package light

import (
	"context"
	"fmt"

	"github.com/mklimuk/evshield"
)

// LineLeaderDefaultAddress is the 7-bit bus address (0x02 in shield notation).
const LineLeaderDefaultAddress = 0x01

const (
	llSteering         byte = 0x42
	llAverage          byte = 0x43
	llResult           byte = 0x44
	llSetPoint         byte = 0x45
	llKp               byte = 0x46
	llKi               byte = 0x47
	llKd               byte = 0x48
	llRawCalibrated    byte = 0x49
	llWhiteLimit       byte = 0x51
	llBlackLimit       byte = 0x59
	llKpFactor         byte = 0x61
	llKiFactor         byte = 0x62
	llKdFactor         byte = 0x63
	llWhiteCalibration byte = 0x64
	llBlackCalibration byte = 0x6C
	llRawUncalibrated  byte = 0x74
)

const (
	cmdInvertColor      = 'I'
	cmdResetColorInvert = 'R'
	cmdTakeSnapshot     = 'S'
)

// Result has one bit per light sensor, set when the sensor sees the line.
type Result byte

// Sensor reports whether sensor i (0-7) sees the line.
func (r Result) Sensor(i int) bool {
	if i < 0 || i > 7 {
		return false
	}
	return r&(1<<i) != 0
}

// LineLeader represents mindsensors NXTLineLeader line follower with on-board PID.
type LineLeader struct {
	sensorCommands
}

func NewLineLeader(bus evshield.I2CBus, opts ...evshield.Option) *LineLeader {
	o := evshield.Apply(LineLeaderDefaultAddress, opts...)
	return &LineLeader{sensorCommands{dev: evshield.NewDevice(bus, o.Address), name: "lineleader"}}
}

// InvertLineColorToWhite makes the sensor follow a white line on black background.
func (l *LineLeader) InvertLineColorToWhite(ctx context.Context) error {
	return l.command(ctx, cmdInvertColor, "invert line color")
}

// ResetColorInversion restores black line on white background (device default).
func (l *LineLeader) ResetColorInversion(ctx context.Context) error {
	return l.command(ctx, cmdResetColorInvert, "reset color inversion")
}

// TakeSnapshot stores width and position of the line currently under the sensor
// and inverts colors when it sees a white line on black background.
// PID parameters are not affected.
func (l *LineLeader) TakeSnapshot(ctx context.Context) error {
	return l.command(ctx, cmdTakeSnapshot, "take snapshot")
}

// GetSetPoint returns the set point used by the PID control.
func (l *LineLeader) GetSetPoint(ctx context.Context) (uint8, error) {
	return l.get(ctx, llSetPoint, "set point")
}

// SetSetPoint sets the desired line position relative to the 8 sensors.
func (l *LineLeader) SetSetPoint(ctx context.Context, point uint8) error {
	return l.set(ctx, llSetPoint, point, "set point")
}

func (l *LineLeader) GetKp(ctx context.Context) (uint8, error) {
	return l.get(ctx, llKp, "Kp")
}

func (l *LineLeader) SetKp(ctx context.Context, kp uint8) error {
	return l.set(ctx, llKp, kp, "Kp")
}

func (l *LineLeader) GetKi(ctx context.Context) (uint8, error) {
	return l.get(ctx, llKi, "Ki")
}

func (l *LineLeader) SetKi(ctx context.Context, ki uint8) error {
	return l.set(ctx, llKi, ki, "Ki")
}

func (l *LineLeader) GetKd(ctx context.Context) (uint8, error) {
	return l.get(ctx, llKd, "Kd")
}

func (l *LineLeader) SetKd(ctx context.Context, kd uint8) error {
	return l.set(ctx, llKd, kd, "Kd")
}

// GetKpFactor returns the divisor applied to Kp.
func (l *LineLeader) GetKpFactor(ctx context.Context) (uint8, error) {
	return l.get(ctx, llKpFactor, "Kp factor")
}

func (l *LineLeader) SetKpFactor(ctx context.Context, factor uint8) error {
	return l.set(ctx, llKpFactor, factor, "Kp factor")
}

func (l *LineLeader) GetKiFactor(ctx context.Context) (uint8, error) {
	return l.get(ctx, llKiFactor, "Ki factor")
}

func (l *LineLeader) SetKiFactor(ctx context.Context, factor uint8) error {
	return l.set(ctx, llKiFactor, factor, "Ki factor")
}

func (l *LineLeader) GetKdFactor(ctx context.Context) (uint8, error) {
	return l.get(ctx, llKdFactor, "Kd factor")
}

func (l *LineLeader) SetKdFactor(ctx context.Context, factor uint8) error {
	return l.set(ctx, llKdFactor, factor, "Kd factor")
}

// GetSteering returns the value to add to / subtract from motor speeds on each side.
func (l *LineLeader) GetSteering(ctx context.Context) (int8, error) {
	v, err := l.dev.ReadInt8(ctx, llSteering)
	if err != nil {
		return 0, fmt.Errorf("lineleader: could not read steering: %w", err)
	}
	return v, nil
}

// GetAverage returns a weighted average of the line position under the sensor.
func (l *LineLeader) GetAverage(ctx context.Context) (uint8, error) {
	return l.get(ctx, llAverage, "average")
}

func (l *LineLeader) GetResult(ctx context.Context) (Result, error) {
	v, err := l.get(ctx, llResult, "result")
	return Result(v), err
}

func (l *LineLeader) GetRawCalibrated(ctx context.Context) ([8]byte, error) {
	return l.block(ctx, llRawCalibrated, "calibrated values")
}

func (l *LineLeader) GetRawUncalibrated(ctx context.Context) ([8]byte, error) {
	return l.block(ctx, llRawUncalibrated, "uncalibrated values")
}

func (l *LineLeader) GetWhiteLimit(ctx context.Context) ([8]byte, error) {
	return l.block(ctx, llWhiteLimit, "white limit")
}

func (l *LineLeader) GetBlackLimit(ctx context.Context) ([8]byte, error) {
	return l.block(ctx, llBlackLimit, "black limit")
}

func (l *LineLeader) GetWhiteCalibration(ctx context.Context) ([8]byte, error) {
	return l.block(ctx, llWhiteCalibration, "white calibration")
}

func (l *LineLeader) GetBlackCalibration(ctx context.Context) ([8]byte, error) {
	return l.block(ctx, llBlackCalibration, "black calibration")
}

func (l *LineLeader) get(ctx context.Context, reg byte, what string) (uint8, error) {
	v, err := l.dev.ReadUint8(ctx, reg)
	if err != nil {
		return 0, fmt.Errorf("lineleader: could not read %s: %w", what, err)
	}
	return v, nil
}

func (l *LineLeader) set(ctx context.Context, reg byte, value uint8, what string) error {
	if err := l.dev.WriteUint8(ctx, reg, value); err != nil {
		return fmt.Errorf("lineleader: could not write %s: %w", what, err)
	}
	return nil
}
