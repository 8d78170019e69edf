package evshield

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/mklimuk/evshield/evctx"
)

// CommandRegister is where every mindsensors module accepts single byte commands.
const CommandRegister byte = 0x41

// Device gives register level access to a single module on the bus.
// Multi-byte registers are little-endian, the layout used by the shield firmware.
type Device struct {
	transport I2CBus
	address   byte
}

func NewDevice(bus I2CBus, address byte) *Device {
	return &Device{transport: bus, address: address}
}

func (d *Device) Address() byte {
	return d.address
}

// Read fills buf starting at register reg.
func (d *Device) Read(ctx context.Context, reg byte, buf []byte) error {
	var err error
	if tx, ok := d.transport.(Transactor); ok {
		err = tx.TxToAddr(ctx, d.address, []byte{reg}, buf)
	} else {
		err = d.transport.WriteToAddr(ctx, d.address, []byte{reg})
		if err == nil {
			err = d.transport.ReadFromAddr(ctx, d.address, buf)
		}
	}
	if err != nil {
		return fmt.Errorf("could not read register %#02x of device %#02x: %w", reg, d.address, err)
	}
	d.trace(ctx, "register read", reg, buf)
	return nil
}

// Write stores data starting at register reg.
func (d *Device) Write(ctx context.Context, reg byte, data ...byte) error {
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, reg)
	buf = append(buf, data...)
	err := d.transport.WriteToAddr(ctx, d.address, buf)
	if err != nil {
		return fmt.Errorf("could not write register %#02x of device %#02x: %w", reg, d.address, err)
	}
	d.trace(ctx, "register write", reg, data)
	return nil
}

// IssueCommand writes a single byte to the command register.
func (d *Device) IssueCommand(ctx context.Context, command byte) error {
	return d.Write(ctx, CommandRegister, command)
}

func (d *Device) ReadUint8(ctx context.Context, reg byte) (uint8, error) {
	buf := make([]byte, 1)
	if err := d.Read(ctx, reg, buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (d *Device) ReadInt8(ctx context.Context, reg byte) (int8, error) {
	v, err := d.ReadUint8(ctx, reg)
	return int8(v), err
}

func (d *Device) ReadUint16(ctx context.Context, reg byte) (uint16, error) {
	buf := make([]byte, 2)
	if err := d.Read(ctx, reg, buf); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

func (d *Device) ReadInt16(ctx context.Context, reg byte) (int16, error) {
	v, err := d.ReadUint16(ctx, reg)
	return int16(v), err
}

func (d *Device) ReadInt32(ctx context.Context, reg byte) (int32, error) {
	buf := make([]byte, 4)
	if err := d.Read(ctx, reg, buf); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf)), nil
}

// ReadBlock8 reads the eight byte blocks used by the light sensor arrays.
func (d *Device) ReadBlock8(ctx context.Context, reg byte) ([8]byte, error) {
	var res [8]byte
	if err := d.Read(ctx, reg, res[:]); err != nil {
		return res, err
	}
	return res, nil
}

func (d *Device) WriteUint8(ctx context.Context, reg byte, value uint8) error {
	return d.Write(ctx, reg, value)
}

func (d *Device) trace(ctx context.Context, msg string, reg byte, data []byte) {
	if !evctx.IsVerbose(ctx) {
		return
	}
	evctx.Logger(ctx).Debug(msg,
		"addr", fmt.Sprintf("%#02x", d.address),
		"reg", fmt.Sprintf("%#02x", reg),
		"data", hex.EncodeToString(data))
}
