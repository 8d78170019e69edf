package environment

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/evshield/bustest"
)

func TestIRThermometer_ConvertTemp(t *testing.T) {
	tests := []struct {
		given    int16
		expected float32
	}{
		{0, 0.0},
		{2150, 21.5},
		{-1525, -15.25},
		{9860, 98.6},
	}
	for _, test := range tests {
		t.Run(fmt.Sprint(test.given), func(t *testing.T) {
			assert.Equal(t, test.expected, convertTemperature(test.given))
		})
	}
}

func TestIRThermometer_Registers(t *testing.T) {
	tests := []struct {
		name     string
		reg      byte
		read     func(s *IRThermometer, ctx context.Context) (float32, error)
		raw      []byte
		expected float32
	}{
		{"ambient C", 0x42, (*IRThermometer).GetAmbientTemperatureC, []byte{0x66, 0x08}, 21.5},
		{"target C", 0x44, (*IRThermometer).GetTargetTemperatureC, []byte{0x48, 0x0E}, 36.56},
		{"ambient F", 0x46, (*IRThermometer).GetAmbientTemperatureF, []byte{0xB6, 0x1C}, 73.5},
		{"target F", 0x48, (*IRThermometer).GetTargetTemperatureF, []byte{0x0B, 0xFA}, -15.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := bustest.New()
			bus.Set(IRThermometerDefaultAddress, tt.reg, tt.raw...)
			v, err := tt.read(NewIRThermometer(bus), context.Background())
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, v, 0.001)
			tr := bus.Transactions()
			require.Len(t, tr, 1)
			assert.Equal(t, bustest.OpRead, tr[0].Op)
			assert.Equal(t, tt.reg, tr[0].Register)
		})
	}
}

func TestMockThermometer(t *testing.T) {
	calls := 0
	sensor := NewMockThermometer(
		func(ctx context.Context) (float32, error) { return 20, nil },
		func(ctx context.Context) (float32, error) {
			calls++
			if calls > 1 {
				return 0, fmt.Errorf("sensor malfunction")
			}
			return 100, nil
		},
	)
	ctx := context.Background()

	f, err := sensor.GetAmbientTemperatureF(ctx)
	require.NoError(t, err)
	assert.Equal(t, float32(68), f)

	f, err = sensor.GetTargetTemperatureF(ctx)
	require.NoError(t, err)
	assert.Equal(t, float32(212), f)

	_, err = sensor.GetTargetTemperatureC(ctx)
	assert.EqualError(t, err, "sensor malfunction")
}
