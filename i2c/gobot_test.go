package i2c

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gi2c "gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/evshield"
)

type fakeConn struct {
	gi2c.Connection
	written  [][]byte
	block    []byte
	blockReg byte
	closed   bool
}

func (c *fakeConn) Write(b []byte) (int, error) {
	c.written = append(c.written, append([]byte(nil), b...))
	return len(b), nil
}

func (c *fakeConn) Read(b []byte) (int, error) {
	return copy(b, c.block), nil
}

func (c *fakeConn) ReadBlockData(reg uint8, b []byte) error {
	c.blockReg = reg
	copy(b, c.block)
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeConnector struct {
	conns  map[int]*fakeConn
	busNrs []int
	err    error
}

func (f *fakeConnector) GetI2cConnection(address int, busNr int) (gi2c.Connection, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.busNrs = append(f.busNrs, busNr)
	c := &fakeConn{block: []byte{0x5A, 0x00}}
	f.conns[address] = c
	return c, nil
}

func (f *fakeConnector) DefaultI2cBus() int {
	return 1
}

func TestGobotBus_RegisterRead(t *testing.T) {
	conn := &fakeConnector{conns: map[int]*fakeConn{}}
	bus := NewGobotBus(conn, -1)
	dev := evshield.NewDevice(bus, 0x18)
	v, err := dev.ReadUint16(context.Background(), 0x42)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x5A), v)
	assert.Equal(t, []int{1}, conn.busNrs)
	assert.Equal(t, byte(0x42), conn.conns[0x18].blockReg)

	// connection is reused
	require.NoError(t, dev.IssueCommand(context.Background(), 'r'))
	assert.Len(t, conn.busNrs, 1)
	assert.Equal(t, [][]byte{{0x41, 'r'}}, conn.conns[0x18].written)

	require.NoError(t, bus.Close())
	assert.True(t, conn.conns[0x18].closed)
}

func TestGobotBus_ConnectionError(t *testing.T) {
	cause := errors.New("no bus")
	bus := NewGobotBus(&fakeConnector{conns: map[int]*fakeConn{}, err: cause}, 2)
	err := bus.WriteToAddr(context.Background(), 0x18, []byte{0x41})
	assert.ErrorIs(t, err, cause)
}
