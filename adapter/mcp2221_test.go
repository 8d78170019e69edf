package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/evshield"
)

// fakeHID records requests and answers with queued reports.
type fakeHID struct {
	requests  [][]byte
	responses [][]byte
	closed    int
}

func (f *fakeHID) Write(b []byte) (int, error) {
	cp := make([]byte, len(b))
	copy(cp, b)
	f.requests = append(f.requests, cp)
	return len(b), nil
}

func (f *fakeHID) Read(b []byte) (int, error) {
	if len(f.responses) == 0 {
		return 0, errors.New("no response queued")
	}
	copy(b, f.responses[0])
	f.responses = f.responses[1:]
	return len(b), nil
}

func (f *fakeHID) Close() error {
	f.closed++
	return nil
}

func report(b ...byte) []byte {
	r := make([]byte, reportSize)
	copy(r, b)
	return r
}

func newTestAdapter(dev *fakeHID) *MCP2221 {
	d := NewMCP2221(WithResponseWait(0))
	d.open = func(int) (hidDevice, error) { return dev, nil }
	return d
}

func TestMCP2221_WriteToAddr(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{report(cmdWriteData, 0x00)}}
	err := newTestAdapter(dev).WriteToAddr(context.Background(), 0x18, []byte{0x41, 'r'})
	require.NoError(t, err)
	require.Len(t, dev.requests, 1)
	assert.Equal(t, []byte{0x90, 0x02, 0x00, 0x30, 0x41, 'r'}, dev.requests[0][:6])
	assert.Equal(t, 1, dev.closed)
}

func TestMCP2221_WriteBusy(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{report(cmdWriteData, respBusy)}}
	err := newTestAdapter(dev).WriteToAddr(context.Background(), 0x18, []byte{0x41})
	assert.ErrorIs(t, err, evshield.ErrBusBusy)
}

func TestMCP2221_TransferTooLarge(t *testing.T) {
	dev := &fakeHID{}
	d := newTestAdapter(dev)
	ctx := context.Background()

	assert.ErrorIs(t, d.WriteToAddr(ctx, 0x18, make([]byte, maxTransfer+1)), ErrTransferTooLarge)
	assert.ErrorIs(t, d.ReadFromAddr(ctx, 0x18, make([]byte, maxTransfer+1)), ErrTransferTooLarge)
	assert.Empty(t, dev.requests)

	dev.responses = [][]byte{report(cmdWriteData, 0x00)}
	require.NoError(t, d.WriteToAddr(ctx, 0x18, make([]byte, maxTransfer)))
	require.Len(t, dev.requests, 1)
	assert.Equal(t, []byte{0x90, maxTransfer, 0x00}, dev.requests[0][:3])
}

func TestMCP2221_ReadFromAddr(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{
		report(cmdReadI2C, 0x00),
		report(cmdReadData, 0x00, 0x00, 0x02, 0xAB, 0xCD),
	}}
	buf := make([]byte, 2)
	err := newTestAdapter(dev).ReadFromAddr(context.Background(), 0x15, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0xCD}, buf)
	require.Len(t, dev.requests, 2)
	assert.Equal(t, []byte{0x91, 0x02, 0x00, 0x2B}, dev.requests[0][:4])
	assert.Equal(t, byte(0x40), dev.requests[1][0])
}

func TestMCP2221_ReadInvalidSize(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{
		report(cmdReadI2C, 0x00),
		report(cmdReadData, 0x00, 0x00, invalidSize),
	}}
	err := newTestAdapter(dev).ReadFromAddr(context.Background(), 0x15, make([]byte, 2))
	assert.Error(t, err)
}

func TestMCP2221_ReadEngineError(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{
		report(cmdReadI2C, 0x00),
		report(cmdReadData, respReadError),
	}}
	err := newTestAdapter(dev).ReadFromAddr(context.Background(), 0x15, make([]byte, 1))
	assert.Error(t, err)
}

func TestMCP2221_ReleaseBus(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{report(cmdStatus)}}
	_, err := newTestAdapter(dev).ReleaseBus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10, 0x00, 0x10}, dev.requests[0][:3])
}

func TestMCP2221_OpenError(t *testing.T) {
	d := NewMCP2221()
	d.open = func(int) (hidDevice, error) { return nil, ErrDeviceNotFound }
	err := d.WriteToAddr(context.Background(), 0x18, []byte{0x41})
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestBufferToStatus(t *testing.T) {
	buf := make([]byte, reportSize)
	buf[9], buf[10] = 0x05, 0x01
	buf[11], buf[12] = 0x03, 0x00
	buf[13] = 4
	buf[14] = 0x76
	buf[15] = 9
	buf[16], buf[17] = 0x30, 0x00
	buf[25] = 1
	assert.Equal(t, &MCP2221Status{
		I2CDataBufferCounter:   4,
		I2CSpeedDivider:        0x76,
		I2CTimeout:             9,
		CurrentAddress:         "3000",
		LastWriteRequestedSize: 0x0105,
		LastWriteSentSize:      3,
		ReadPending:            1,
	}, bufferToStatus(buf))
}

func TestMCP2221_StatusFailed(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{report(cmdStatus, 0x01)}}
	_, err := newTestAdapter(dev).Status(context.Background())
	assert.ErrorIs(t, err, ErrCommandFailed)
}
