package i2c

import (
	"context"
	"fmt"
	"sync"

	gi2c "gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/evshield"
)

// maxBlock is the largest register read served by a single block transfer.
const maxBlock = 32

var _ evshield.I2CBus = &GobotBus{}
var _ evshield.Transactor = &GobotBus{}

// GobotBus routes transactions through a gobot platform adaptor (raspi, nanopi...).
// Connections are opened lazily, one per device address.
type GobotBus struct {
	mx        sync.Mutex
	connector gi2c.Connector
	bus       int
	conns     map[byte]gi2c.Connection
}

// NewGobotBus uses bus number busNr of the connector, or its default bus when
// busNr is negative.
func NewGobotBus(connector gi2c.Connector, busNr int) *GobotBus {
	if busNr < 0 {
		busNr = connector.DefaultI2cBus()
	}
	return &GobotBus{
		connector: connector,
		bus:       busNr,
		conns:     make(map[byte]gi2c.Connection),
	}
}

func (b *GobotBus) conn(address byte) (gi2c.Connection, error) {
	if c, ok := b.conns[address]; ok {
		return c, nil
	}
	c, err := b.connector.GetI2cConnection(int(address), b.bus)
	if err != nil {
		return nil, fmt.Errorf("could not open connection to %#02x on bus %d: %w", address, b.bus, err)
	}
	b.conns[address] = c
	return c, nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	n, err := c.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to %#02x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short write to %#02x: %d of %d", address, n, len(buffer))
	}
	return nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	n, err := c.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from %#02x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short read from %#02x: %d of %d", address, n, len(buffer))
	}
	return nil
}

// TxToAddr serves register reads (single byte w) as block reads. Anything
// else is a plain write followed by a read.
func (b *GobotBus) TxToAddr(ctx context.Context, address byte, w, r []byte) error {
	if len(w) == 1 && len(r) > 0 && len(r) <= maxBlock {
		b.mx.Lock()
		defer b.mx.Unlock()
		c, err := b.conn(address)
		if err != nil {
			return err
		}
		if err := c.ReadBlockData(w[0], r); err != nil {
			return fmt.Errorf("could not read block %#02x from %#02x: %w", w[0], address, err)
		}
		return nil
	}
	if len(w) > 0 {
		if err := b.WriteToAddr(ctx, address, w); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		return b.ReadFromAddr(ctx, address, r)
	}
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	return nil
}

// Close closes every connection opened so far. The adaptor itself is left to
// the caller.
func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var first error
	for addr, c := range b.conns {
		if err := c.Close(); err != nil && first == nil {
			first = fmt.Errorf("could not close connection to %#02x: %w", addr, err)
		}
		delete(b.conns, addr)
	}
	return first
}
