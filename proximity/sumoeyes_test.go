package proximity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/evshield/bustest"
	"github.com/mklimuk/evshield/shield"
)

func TestIsNear(t *testing.T) {
	assert.True(t, isNear(300, 10, 290))
	assert.True(t, isNear(300, 10, 310))
	assert.True(t, isNear(300, 10, 300))
	assert.False(t, isNear(300, 10, 289))
	assert.False(t, isNear(300, 10, 311))
}

func TestSumoEyes_DetectObstacleZone(t *testing.T) {
	tests := []struct {
		value    uint16
		expected Zone
	}{
		{0, ZoneNone},
		{295, ZoneFront},
		{585, ZoneLeft},
		{460, ZoneRight},
		{400, ZoneNone},
		{1023, ZoneNone},
	}
	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			bus := bustest.New()
			bus.Set(shield.BankBAddress, 0xA4, byte(tt.value), byte(tt.value>>8))
			z, err := NewSumoEyes(bus, shield.BBS2).DetectObstacleZone(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, z)
		})
	}
}

func TestSumoEyes_CustomLevels(t *testing.T) {
	bus := bustest.New()
	bus.Set(shield.BankAAddress, 0x70, 0x64, 0x00) // 100
	s := NewSumoEyes(bus, shield.BAS1, WithZoneLevels(ZoneLevels{Front: 120, Left: 500, Right: 700, Tolerance: 25}))
	z, err := s.DetectObstacleZone(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ZoneFront, z)
}

func TestSumoEyes_Range(t *testing.T) {
	bus := bustest.New()
	s := NewSumoEyes(bus, shield.BAS2)
	require.NoError(t, s.SetLongRange(context.Background()))
	require.NoError(t, s.SetShortRange(context.Background()))
	tr := bus.Transactions()
	require.Len(t, tr, 2)
	assert.Equal(t, byte(0xA3), tr[0].Register)
	assert.Equal(t, []byte{byte(shield.TypeLightAmbient)}, tr[0].Data)
	assert.Equal(t, []byte{byte(shield.TypeLightReflected)}, tr[1].Data)
}

func TestSumoEyes_Error(t *testing.T) {
	bus := bustest.New()
	cause := errors.New("nack")
	bus.Fail(shield.BankAAddress, cause)
	z, err := NewSumoEyes(bus, shield.BAS1).DetectObstacleZone(context.Background())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ZoneNone, z)
}

func TestZone_String(t *testing.T) {
	assert.Equal(t, "NONE", ZoneNone.String())
	assert.Equal(t, "FRONT", ZoneFront.String())
	assert.Equal(t, "LEFT", ZoneLeft.String())
	assert.Equal(t, "RIGHT", ZoneRight.String())
	assert.Equal(t, "NONE", Zone(9).String())
}
