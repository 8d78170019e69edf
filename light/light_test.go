package light

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/evshield/bustest"
)

type commander interface {
	CalibrateWhite(ctx context.Context) error
	CalibrateBlack(ctx context.Context) error
	Sleep(ctx context.Context) error
	WakeUp(ctx context.Context) error
	ConfigureUS(ctx context.Context) error
	ConfigureEurope(ctx context.Context) error
	ConfigureUniversal(ctx context.Context) error
}

func TestCommands(t *testing.T) {
	bus := bustest.New()
	devices := map[string]commander{
		"lsa":        NewLightSensorArray(bus),
		"lineleader": NewLineLeader(bus),
	}
	commands := []struct {
		name string
		call func(c commander, ctx context.Context) error
		cmd  byte
	}{
		{"calibrate white", commander.CalibrateWhite, 'W'},
		{"calibrate black", commander.CalibrateBlack, 'B'},
		{"sleep", commander.Sleep, 'D'},
		{"wake up", commander.WakeUp, 'P'},
		{"US", commander.ConfigureUS, 'A'},
		{"Europe", commander.ConfigureEurope, 'E'},
		{"universal", commander.ConfigureUniversal, 'U'},
	}
	for name, dev := range devices {
		for _, c := range commands {
			t.Run(name+"/"+c.name, func(t *testing.T) {
				bus.Reset()
				require.NoError(t, c.call(dev, context.Background()))
				assert.Equal(t, []bustest.Transaction{
					{Op: bustest.OpWrite, Address: 0x01, Register: 0x41, Data: []byte{c.cmd}},
				}, bus.Transactions())
			})
		}
	}
}

func TestCalibrate_ReturnsTransportError(t *testing.T) {
	bus := bustest.New()
	cause := errors.New("nack")
	bus.Fail(LightSensorArrayDefaultAddress, cause)
	err := NewLightSensorArray(bus).CalibrateWhite(context.Background())
	assert.ErrorIs(t, err, cause)
	err = NewLineLeader(bus).CalibrateBlack(context.Background())
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, bus.Transactions())
}

func TestLineLeader_Commands(t *testing.T) {
	bus := bustest.New()
	ll := NewLineLeader(bus)
	ctx := context.Background()
	require.NoError(t, ll.InvertLineColorToWhite(ctx))
	require.NoError(t, ll.ResetColorInversion(ctx))
	require.NoError(t, ll.TakeSnapshot(ctx))
	tr := bus.Transactions()
	require.Len(t, tr, 3)
	assert.Equal(t, []byte{'I'}, tr[0].Data)
	assert.Equal(t, []byte{'R'}, tr[1].Data)
	assert.Equal(t, []byte{'S'}, tr[2].Data)
}

func TestLightSensorArray_Blocks(t *testing.T) {
	tests := []struct {
		name string
		reg  byte
		read func(s *LightSensorArray, ctx context.Context) ([8]byte, error)
	}{
		{"calibrated", 0x42, (*LightSensorArray).GetCalibrated},
		{"white limit", 0x4A, (*LightSensorArray).GetWhiteLimit},
		{"black limit", 0x52, (*LightSensorArray).GetBlackLimit},
		{"white calibration", 0x5A, (*LightSensorArray).GetWhiteCalibration},
		{"black calibration", 0x62, (*LightSensorArray).GetBlackCalibration},
		{"uncalibrated", 0x6A, (*LightSensorArray).GetUncalibrated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := bustest.New()
			expected := [8]byte{tt.reg, 1, 2, 3, 4, 5, 6, 7}
			bus.Set(LightSensorArrayDefaultAddress, tt.reg, expected[:]...)
			v, err := tt.read(NewLightSensorArray(bus), context.Background())
			require.NoError(t, err)
			assert.Equal(t, expected, v)
			tr := bus.Transactions()
			require.Len(t, tr, 1)
			assert.Equal(t, bustest.OpRead, tr[0].Op)
			assert.Equal(t, tt.reg, tr[0].Register)
		})
	}
}

func TestLineLeader_Blocks(t *testing.T) {
	tests := []struct {
		name string
		reg  byte
		read func(s *LineLeader, ctx context.Context) ([8]byte, error)
	}{
		{"raw calibrated", 0x49, (*LineLeader).GetRawCalibrated},
		{"white limit", 0x51, (*LineLeader).GetWhiteLimit},
		{"black limit", 0x59, (*LineLeader).GetBlackLimit},
		{"white calibration", 0x64, (*LineLeader).GetWhiteCalibration},
		{"black calibration", 0x6C, (*LineLeader).GetBlackCalibration},
		{"raw uncalibrated", 0x74, (*LineLeader).GetRawUncalibrated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := bustest.New()
			expected := [8]byte{8, 7, 6, 5, 4, 3, 2, tt.reg}
			bus.Set(LineLeaderDefaultAddress, tt.reg, expected[:]...)
			v, err := tt.read(NewLineLeader(bus), context.Background())
			require.NoError(t, err)
			assert.Equal(t, expected, v)
			tr := bus.Transactions()
			require.Len(t, tr, 1)
			assert.Equal(t, tt.reg, tr[0].Register)
		})
	}
}

func TestLineLeader_PIDRegisters(t *testing.T) {
	tests := []struct {
		name string
		reg  byte
		get  func(l *LineLeader, ctx context.Context) (uint8, error)
		set  func(l *LineLeader, ctx context.Context, v uint8) error
	}{
		{"set point", 0x45, (*LineLeader).GetSetPoint, (*LineLeader).SetSetPoint},
		{"Kp", 0x46, (*LineLeader).GetKp, (*LineLeader).SetKp},
		{"Ki", 0x47, (*LineLeader).GetKi, (*LineLeader).SetKi},
		{"Kd", 0x48, (*LineLeader).GetKd, (*LineLeader).SetKd},
		{"Kp factor", 0x61, (*LineLeader).GetKpFactor, (*LineLeader).SetKpFactor},
		{"Ki factor", 0x62, (*LineLeader).GetKiFactor, (*LineLeader).SetKiFactor},
		{"Kd factor", 0x63, (*LineLeader).GetKdFactor, (*LineLeader).SetKdFactor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := bustest.New()
			ll := NewLineLeader(bus)
			ctx := context.Background()

			require.NoError(t, tt.set(ll, ctx, 45))
			v, err := tt.get(ll, ctx)
			require.NoError(t, err)
			assert.Equal(t, uint8(45), v)

			assert.Equal(t, []bustest.Transaction{
				{Op: bustest.OpWrite, Address: LineLeaderDefaultAddress, Register: tt.reg, Data: []byte{45}},
				{Op: bustest.OpRead, Address: LineLeaderDefaultAddress, Register: tt.reg, Data: []byte{45}},
			}, bus.Transactions())
		})
	}
}

func TestLineLeader_Readings(t *testing.T) {
	bus := bustest.New()
	bus.Set(LineLeaderDefaultAddress, llSteering, 0xEC, 35, 0b00011000)
	ll := NewLineLeader(bus)
	ctx := context.Background()

	steering, err := ll.GetSteering(ctx)
	require.NoError(t, err)
	assert.Equal(t, int8(-20), steering)

	avg, err := ll.GetAverage(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(35), avg)

	res, err := ll.GetResult(ctx)
	require.NoError(t, err)
	assert.True(t, res.Sensor(3))
	assert.True(t, res.Sensor(4))
	assert.False(t, res.Sensor(0))
	assert.False(t, res.Sensor(8))
}
