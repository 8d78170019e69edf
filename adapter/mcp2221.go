// Package adapter drives USB to I2C bridges so the shield modules can be
// reached from a workstation.
package adapter

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/mklimuk/evshield"
	"github.com/mklimuk/evshield/evctx"
)

const VendorID = 0x04D8
const ProductID = 0x00DD

const reportSize = 64

// maxTransfer is the payload left in a report after the command header.
const maxTransfer = reportSize - 4

// HID commands of the MCP2221 I2C engine.
const (
	cmdStatus     byte = 0x10
	cmdReadData   byte = 0x40
	cmdWriteData  byte = 0x90
	cmdReadI2C    byte = 0x91
	cancelRequest byte = 0x10
)

const (
	respBusy      byte = 0x01
	respReadError byte = 0x41
	invalidSize   byte = 127
)

var ErrCommandFailed = errors.New("command failed")
var ErrDeviceNotFound = errors.New("MCP2221 device not found")
var ErrAmbiguousDevice = errors.New("ambiguous device identification")
var ErrTransferTooLarge = fmt.Errorf("transfer exceeds %d bytes", maxTransfer)

var _ evshield.I2CBus = &MCP2221{}

// hidDevice is the part of an open HID handle the bridge uses.
type hidDevice interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

// MCP2221 is a Microchip USB-HID to I2C bridge. Every request opens the HID
// device, sends a 64 byte report and reads the 64 byte answer. Requests are
// serialized.
type MCP2221 struct {
	mx           sync.Mutex
	request      []byte
	response     []byte
	responseWait time.Duration
	id           int
	open         func(id int) (hidDevice, error)
}

type MCP2221Status struct {
	I2CDataBufferCounter   int    `yaml:"buffer_counter" json:"buffer_counter"`
	I2CSpeedDivider        int    `yaml:"speed_divider" json:"speed_divider"`
	I2CTimeout             int    `yaml:"timeout" json:"timeout"`
	CurrentAddress         string `yaml:"current_address" json:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested" json:"last_write_requested"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent" json:"last_write_sent"`
	ReadPending            int    `yaml:"read_pending" json:"read_pending"`
}

type MCP2221Opt func(*MCP2221)

// WithDeviceID selects one of several attached bridges by enumeration index.
func WithDeviceID(id int) MCP2221Opt {
	return func(d *MCP2221) {
		d.id = id
	}
}

func WithResponseWait(wait time.Duration) MCP2221Opt {
	return func(d *MCP2221) {
		d.responseWait = wait
	}
}

func NewMCP2221(opts ...MCP2221Opt) *MCP2221 {
	d := &MCP2221{
		request:      make([]byte, reportSize),
		response:     make([]byte, reportSize),
		responseWait: 50 * time.Millisecond,
		id:           -1,
		open:         openHID,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Devices lists attached bridges.
func Devices() []hid.DeviceInfo {
	return hid.Enumerate(VendorID, ProductID)
}

func (d *MCP2221) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if len(buffer) > maxTransfer {
		return fmt.Errorf("write of %d bytes to %#02x: %w", len(buffer), address, ErrTransferTooLarge)
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdWriteData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address << 1
	copy(d.request[4:], buffer)
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("write to %#02x failed: %w", address, err)
	}
	if d.response[1] == respBusy {
		evctx.Logger(ctx).Debug("adapter busy", "addr", fmt.Sprintf("%#02x", address))
		return evshield.ErrBusBusy
	}
	return nil
}

func (d *MCP2221) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	if len(buffer) > maxTransfer {
		return fmt.Errorf("read of %d bytes from %#02x: %w", len(buffer), address, ErrTransferTooLarge)
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdReadI2C
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address<<1 + 1
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("bus read from %#02x failed: %w", address, err)
	}
	if d.response[1] == respBusy {
		return evshield.ErrBusBusy
	}
	d.resetBuffers()
	d.request[0] = cmdReadData
	err = d.send(ctx)
	if err != nil {
		return fmt.Errorf("could not get read data from adapter: %w", err)
	}
	if d.response[1] == respReadError {
		return fmt.Errorf("could not read data of %#02x from the I2C engine", address)
	}
	if d.response[3] == invalidSize || int(d.response[3]) != len(buffer) {
		return fmt.Errorf("invalid data size byte; expected %d, got %d", len(buffer), d.response[3])
	}
	copy(buffer, d.response[4:])
	return nil
}

func (d *MCP2221) Status(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatus
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	if d.response[1] != 0x00 {
		return nil, ErrCommandFailed
	}
	return bufferToStatus(d.response), nil
}

func (d *MCP2221) Release(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	_, err := d.releaseBus(ctx)
	return err
}

// ReleaseBus cancels the current transfer and frees the bus.
func (d *MCP2221) ReleaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.releaseBus(ctx)
}

func (d *MCP2221) releaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.resetBuffers()
	d.request[0] = cmdStatus
	d.request[2] = cancelRequest
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("release request failed: %w", err)
	}
	if d.response[1] != 0x00 {
		return nil, ErrCommandFailed
	}
	return bufferToStatus(d.response), nil
}

func bufferToStatus(buffer []byte) *MCP2221Status {
	/*
		9-10: requested I2C transfer length
		11-12: already transferred number of bytes
		13: internal I2C data buffer counter
		14: current I2C communication speed divider
		15: current I2C timeout
		16-17: I2C address being used
		25: read pending
	*/
	return &MCP2221Status{
		I2CDataBufferCounter:   int(buffer[13]),
		I2CSpeedDivider:        int(buffer[14]),
		I2CTimeout:             int(buffer[15]),
		ReadPending:            int(buffer[25]),
		CurrentAddress:         hex.EncodeToString(buffer[16:18]),
		LastWriteRequestedSize: binary.LittleEndian.Uint16(buffer[9:11]),
		LastWriteSentSize:      binary.LittleEndian.Uint16(buffer[11:13]),
	}
}

func (d *MCP2221) send(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dev, err := d.open(d.id)
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			evctx.Logger(ctx).Warn("could not close adapter", "err", err)
		}
	}()
	verbose := evctx.IsVerbose(ctx)
	if verbose {
		evctx.Logger(ctx).Debug("sending message to adapter", "report", hex.EncodeToString(d.request))
	}
	n, err := dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short write: %d", n)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d.responseWait):
	}
	n, err = dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short read: %d", n)
	}
	if verbose {
		evctx.Logger(ctx).Debug("read message from adapter", "report", hex.EncodeToString(d.response))
	}
	return nil
}

func (d *MCP2221) resetBuffers() {
	clear(d.request)
	clear(d.response)
}

// openHID opens the bridge with enumeration index id, or the only attached
// bridge when id is negative.
func openHID(id int) (hidDevice, error) {
	devs := Devices()
	if len(devs) == 0 {
		return nil, ErrDeviceNotFound
	}
	if id < 0 {
		if len(devs) > 1 {
			return nil, ErrAmbiguousDevice
		}
		id = 0
	}
	if id >= len(devs) {
		return nil, fmt.Errorf("no device with id %d", id)
	}
	dev, err := devs[id].Open()
	if err != nil {
		return nil, fmt.Errorf("could not open device: %w", err)
	}
	return dev, nil
}
