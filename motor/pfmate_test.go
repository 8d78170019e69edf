package motor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/evshield/bustest"
)

type write struct {
	reg  byte
	data byte
}

func writes(t *testing.T, bus *bustest.Bus) []write {
	t.Helper()
	var res []write
	for _, tr := range bus.Transactions() {
		require.Equal(t, bustest.OpWrite, tr.Op)
		require.Len(t, tr.Data, 1)
		res = append(res, write{tr.Register, tr.Data[0]})
	}
	return res
}

func TestPFMate_ControlMotor(t *testing.T) {
	tests := []struct {
		name     string
		control  Control
		expected []write
	}{
		{
			name:    "both",
			control: ControlBoth,
			expected: []write{
				{0x42, 2}, {0x43, 0},
				{0x44, 1}, {0x45, 7},
				{0x46, 1}, {0x47, 7},
				{0x41, 'G'},
			},
		},
		{
			name:    "A only",
			control: ControlA,
			expected: []write{
				{0x42, 2}, {0x43, 1},
				{0x44, 1}, {0x45, 7},
				{0x41, 'G'},
			},
		},
		{
			name:    "B only",
			control: ControlB,
			expected: []write{
				{0x42, 2}, {0x43, 2},
				{0x46, 1}, {0x47, 7},
				{0x41, 'G'},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := bustest.New()
			pf := NewPFMate(bus)
			err := pf.ControlMotor(context.Background(), Channel2, tt.control, OperationForward, SpeedFull)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, writes(t, bus))
		})
	}
}

func TestPFMate_Setters(t *testing.T) {
	bus := bustest.New()
	pf := NewPFMate(bus)
	ctx := context.Background()
	require.NoError(t, pf.SetChannel(ctx, Channel4))
	require.NoError(t, pf.SetControl(ctx, ControlB))
	require.NoError(t, pf.SetOperationA(ctx, OperationBrake))
	require.NoError(t, pf.SetOperationB(ctx, OperationReverse))
	require.NoError(t, pf.SetSpeedA(ctx, SpeedSlow))
	require.NoError(t, pf.SetSpeedB(ctx, SpeedMedium))
	require.NoError(t, pf.SendSignal(ctx))
	assert.Equal(t, []write{
		{0x42, 4}, {0x43, 2}, {0x44, 3}, {0x46, 2}, {0x45, 1}, {0x47, 4}, {0x41, 'G'},
	}, writes(t, bus))
}

// failingBus matches expectations on the register byte of each write
type failingBus struct {
	mock.Mock
}

func (b *failingBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.Called(buffer[0]).Error(0)
}

func (b *failingBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.Called(address).Error(0)
}

func (b *failingBus) Release(ctx context.Context) error {
	return nil
}

func TestPFMate_ControlMotorAbortsOnFailure(t *testing.T) {
	cause := errors.New("nack")
	bus := new(failingBus)
	bus.On("WriteToAddr", regChannel).Return(nil).Once()
	bus.On("WriteToAddr", regControl).Return(cause).Once()

	err := NewPFMate(bus).ControlMotor(context.Background(), Channel1, ControlBoth, OperationForward, SpeedFull)
	assert.ErrorIs(t, err, cause)
	bus.AssertExpectations(t)
	bus.AssertNumberOfCalls(t, "WriteToAddr", 2)
}

func TestParse(t *testing.T) {
	op, err := ParseOperation("reverse")
	require.NoError(t, err)
	assert.Equal(t, OperationReverse, op)
	_, err = ParseOperation("spin")
	assert.Error(t, err)

	c, err := ParseControl("b")
	require.NoError(t, err)
	assert.Equal(t, ControlB, c)
	_, err = ParseControl("c")
	assert.Error(t, err)
}
