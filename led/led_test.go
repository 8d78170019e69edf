package led

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/evshield/bustest"
)

func TestMagicWand_LightWand(t *testing.T) {
	bus := bustest.New()
	w := NewMagicWand(bus)
	require.NoError(t, w.LightWand(context.Background(), 0b10101010))
	assert.Equal(t, []bustest.Transaction{
		{Op: bustest.OpWrite, Address: 0x38, Register: 0x00, Data: []byte{0b10101010}},
	}, bus.Transactions())
	assert.Equal(t, []byte{0b10101010}, bus.Get(MagicWandDefaultAddress, 0x00, 1))
}

func TestPattern(t *testing.T) {
	assert.Equal(t, byte(0xFF), Pattern())
	assert.Equal(t, byte(0xFE), Pattern(0))
	assert.Equal(t, byte(0x7E), Pattern(0, 7))
	assert.Equal(t, byte(0xFF), Pattern(8, -1))
}

func TestPiLight_Color(t *testing.T) {
	bus := bustest.New()
	p := NewPiLight(bus)
	ctx := context.Background()

	require.NoError(t, p.SetColor(ctx, 0x10, 0x20, 0x30))
	c, err := p.ReadColor(ctx)
	require.NoError(t, err)
	assert.Equal(t, Color{R: 0x10, G: 0x20, B: 0x30}, c)
	assert.Equal(t, "#102030", c.String())

	assert.Equal(t, []bustest.Transaction{
		{Op: bustest.OpWrite, Address: 0x18, Register: 0x42, Data: []byte{0x10, 0x20, 0x30}},
		{Op: bustest.OpRead, Address: 0x18, Register: 0x42, Data: []byte{0x10, 0x20, 0x30}},
	}, bus.Transactions())
}

func TestPiLight_SetTimeout(t *testing.T) {
	bus := bustest.New()
	require.NoError(t, NewPiLight(bus).SetTimeout(context.Background(), 5))
	assert.Equal(t, []bustest.Transaction{
		{Op: bustest.OpWrite, Address: 0x18, Register: 0x45, Data: []byte{5}},
	}, bus.Transactions())
}
