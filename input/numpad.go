package input

import (
	"context"
	"fmt"
	"time"

	"github.com/mklimuk/evshield"
)

// NumericPadDefaultAddress is the 7-bit bus address (0xB4 in shield notation).
const NumericPadDefaultAddress = 0x5A

// Capacitive touch controller registers
const (
	npTouchStatus     byte = 0x00
	npFilterConfig    byte = 0x2B
	npThresholds      byte = 0x41
	npFilterPeriod    byte = 0x5D
	npElectrodeConfig byte = 0x5E
)

const npKeyMask = 0x0FFF

// KeyMap maps electrode bits to keypad characters.
var KeyMap = [12]rune{'4', '1', '7', '*', '5', '2', '8', '0', '3', '6', '9', '#'}

var (
	// touch/release threshold pairs for the 12 electrodes
	npThresholdValues = []byte{
		0x0F, 0x0A, 0x0F, 0x0A, 0x0F, 0x0A, 0x0F, 0x0A,
		0x0F, 0x0A, 0x0F, 0x0A, 0x0F, 0x0A, 0x0F, 0x0A,
		0x0F, 0x0A, 0x0F, 0x0A, 0x0F, 0x0A, 0x0F, 0x0A,
	}
	// MHD, NHD, NCL, FDL for rising then falling baseline
	npFilterValues = []byte{0x01, 0x01, 0x00, 0x00, 0x01, 0x01, 0xFF, 0x02}
)

const (
	npElectrodesStop = 0x00
	npElectrodesRun  = 0x0C // all 12 electrodes enabled
	npSamplePeriod   = 0x04
)

const defaultPollInterval = 50 * time.Millisecond

type NumericPadOpts struct {
	PollInterval time.Duration
}

type NumericPadOpt func(*NumericPadOpts)

// WithPollInterval sets the touch status polling period of GetKeyPress.
// Non-positive values are ignored.
func WithPollInterval(interval time.Duration) NumericPadOpt {
	return func(o *NumericPadOpts) {
		if interval > 0 {
			o.PollInterval = interval
		}
	}
}

// NumericPad represents mindsensors Numeric Pad (12 key capacitive keypad).
//
// Typical usage:
//
//	pad := NewNumericPad(bus)
//	err := pad.InitializeKeypad(ctx)
//	key, ok, err := pad.GetKeyPress(ctx, 5*time.Second)
type NumericPad struct {
	dev    *evshield.Device
	config NumericPadOpts
}

func NewNumericPad(bus evshield.I2CBus, opts ...evshield.Option) *NumericPad {
	o := evshield.Apply(NumericPadDefaultAddress, opts...)
	return &NumericPad{
		dev:    evshield.NewDevice(bus, o.Address),
		config: NumericPadOpts{PollInterval: defaultPollInterval},
	}
}

// Configure applies keypad specific options.
func (p *NumericPad) Configure(opts ...NumericPadOpt) *NumericPad {
	for _, opt := range opts {
		opt(&p.config)
	}
	return p
}

func (p *NumericPad) Address() byte {
	return p.dev.Address()
}

// InitializeKeypad sets up electrode thresholds and filtering for the keypad
// sensitivity, then starts the controller. Must be called after power up.
func (p *NumericPad) InitializeKeypad(ctx context.Context) error {
	// configuration registers are only writable in stop mode
	if err := p.dev.WriteUint8(ctx, npElectrodeConfig, npElectrodesStop); err != nil {
		return fmt.Errorf("numpad: could not stop controller: %w", err)
	}
	if err := p.dev.Write(ctx, npThresholds, npThresholdValues...); err != nil {
		return fmt.Errorf("numpad: could not write thresholds: %w", err)
	}
	if err := p.dev.Write(ctx, npFilterConfig, npFilterValues...); err != nil {
		return fmt.Errorf("numpad: could not write filter configuration: %w", err)
	}
	if err := p.dev.WriteUint8(ctx, npFilterPeriod, npSamplePeriod); err != nil {
		return fmt.Errorf("numpad: could not write sample period: %w", err)
	}
	if err := p.dev.WriteUint8(ctx, npElectrodeConfig, npElectrodesRun); err != nil {
		return fmt.Errorf("numpad: could not start controller: %w", err)
	}
	return nil
}

// GetKeysPressed returns a bit per key currently touched, ordered as KeyMap.
func (p *NumericPad) GetKeysPressed(ctx context.Context) (uint16, error) {
	v, err := p.dev.ReadUint16(ctx, npTouchStatus)
	if err != nil {
		return 0, fmt.Errorf("numpad: could not read touch status: %w", err)
	}
	return v & npKeyMask, nil
}

// GetKeyPress polls the keypad until a key is pressed or wait elapses.
// The returned flag is false when no key was pressed in time; cancellation of
// the parent context is reported as an error.
func (p *NumericPad) GetKeyPress(parent context.Context, wait time.Duration) (rune, bool, error) {
	ctx, cancel := context.WithTimeout(parent, wait)
	defer cancel()
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()
	for {
		keys, err := p.GetKeysPressed(ctx)
		if err != nil {
			if parent.Err() == nil && ctx.Err() != nil {
				return 0, false, nil
			}
			return 0, false, err
		}
		if pressed := Keys(keys); len(pressed) > 0 {
			return pressed[0], true, nil
		}
		select {
		case <-ctx.Done():
			if err := parent.Err(); err != nil {
				return 0, false, err
			}
			return 0, false, nil
		case <-ticker.C:
		}
	}
}

// Keys decodes a key mask to keypad characters in KeyMap order.
func Keys(mask uint16) []rune {
	var res []rune
	for i, k := range KeyMap {
		if mask&(1<<i) != 0 {
			res = append(res, k)
		}
	}
	return res
}
