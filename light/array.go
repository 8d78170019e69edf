package light

import (
	"context"

	"github.com/mklimuk/evshield"
)

// LightSensorArrayDefaultAddress is the 7-bit bus address (0x02 in shield notation).
const LightSensorArrayDefaultAddress = 0x01

// Each register holds one byte per sensor, eight sensors.
const (
	lsaCalibrated       byte = 0x42
	lsaWhiteLimit       byte = 0x4A
	lsaBlackLimit       byte = 0x52
	lsaWhiteCalibration byte = 0x5A
	lsaBlackCalibration byte = 0x62
	lsaUncalibrated     byte = 0x6A
)

// LightSensorArray represents mindsensors Light Sensor Array (8 reflected light sensors).
type LightSensorArray struct {
	sensorCommands
}

func NewLightSensorArray(bus evshield.I2CBus, opts ...evshield.Option) *LightSensorArray {
	o := evshield.Apply(LightSensorArrayDefaultAddress, opts...)
	return &LightSensorArray{sensorCommands{dev: evshield.NewDevice(bus, o.Address), name: "lsa"}}
}

// GetCalibrated returns readings scaled between the black and white calibration.
func (s *LightSensorArray) GetCalibrated(ctx context.Context) ([8]byte, error) {
	return s.block(ctx, lsaCalibrated, "calibrated values")
}

func (s *LightSensorArray) GetUncalibrated(ctx context.Context) ([8]byte, error) {
	return s.block(ctx, lsaUncalibrated, "uncalibrated values")
}

// GetWhiteLimit returns the level at which white changes to black.
func (s *LightSensorArray) GetWhiteLimit(ctx context.Context) ([8]byte, error) {
	return s.block(ctx, lsaWhiteLimit, "white limit")
}

// GetBlackLimit returns the level at which black changes to white.
func (s *LightSensorArray) GetBlackLimit(ctx context.Context) ([8]byte, error) {
	return s.block(ctx, lsaBlackLimit, "black limit")
}

func (s *LightSensorArray) GetWhiteCalibration(ctx context.Context) ([8]byte, error) {
	return s.block(ctx, lsaWhiteCalibration, "white calibration")
}

func (s *LightSensorArray) GetBlackCalibration(ctx context.Context) ([8]byte, error) {
	return s.block(ctx, lsaBlackCalibration, "black calibration")
}
