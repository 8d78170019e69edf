package angle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/evshield"
	"github.com/mklimuk/evshield/bustest"
)

func TestAngleSensor_GetAngle(t *testing.T) {
	tests := []struct {
		name     string
		given    []byte
		expected int32
	}{
		{"zero", []byte{0x00, 0x00, 0x00, 0x00}, 0},
		{"one turn", []byte{0x68, 0x01, 0x00, 0x00}, 360},
		{"negative", []byte{0xA6, 0xFF, 0xFF, 0xFF}, -90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := bustest.New()
			bus.Set(DefaultAddress, regAngle, tt.given...)
			s := NewAngleSensor(bus)
			v, err := s.GetAngle(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
			tr := bus.Transactions()
			require.Len(t, tr, 1)
			assert.Equal(t, bustest.OpRead, tr[0].Op)
			assert.Equal(t, byte(0x42), tr[0].Register)
		})
	}
}

func TestAngleSensor_GetRawReading(t *testing.T) {
	bus := bustest.New()
	bus.Set(DefaultAddress, regRawReading, 0xD0, 0x02, 0x00, 0x00)
	s := NewAngleSensor(bus)
	v, err := s.GetRawReading(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(720), v)
	tr := bus.Transactions()
	require.Len(t, tr, 1)
	assert.Equal(t, byte(0x46), tr[0].Register)
}

func TestAngleSensor_Reset(t *testing.T) {
	bus := bustest.New()
	s := NewAngleSensor(bus, evshield.WithAddress(0x19))
	require.NoError(t, s.Reset(context.Background()))
	assert.Equal(t, []bustest.Transaction{
		{Op: bustest.OpWrite, Address: 0x19, Register: 0x41, Data: []byte{'r'}},
	}, bus.Transactions())
}

func TestAngleSensor_ReadError(t *testing.T) {
	bus := bustest.New()
	cause := errors.New("bus fault")
	bus.Fail(DefaultAddress, cause)
	_, err := NewAngleSensor(bus).GetAngle(context.Background())
	assert.ErrorIs(t, err, cause)
}
