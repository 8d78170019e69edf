package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/evshield/input"
	"github.com/mklimuk/evshield/light"
)

func TestRender(t *testing.T) {
	v := zoneReading{Port: "BAS1", Range: "short", Zone: "LEFT"}
	text := func(w io.Writer) { _, _ = io.WriteString(w, "LEFT\n") }

	tests := []struct {
		format   string
		expected string
	}{
		{formatText, "LEFT\n"},
		{formatYAML, "port: BAS1\nrange: short\nzone: LEFT\n"},
		{formatJSON, "{\n  \"port\": \"BAS1\",\n  \"range\": \"short\",\n  \"zone\": \"LEFT\"\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, render(&buf, tt.format, v, text))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestParseByte(t *testing.T) {
	v, err := parseByte("0x30")
	require.NoError(t, err)
	assert.Equal(t, byte(0x30), v)
	v, err = parseByte("255")
	require.NoError(t, err)
	assert.Equal(t, byte(255), v)
	_, err = parseByte("256")
	assert.Error(t, err)
	_, err = parseByte("zz")
	assert.Error(t, err)
}

func TestLineMap(t *testing.T) {
	assert.Equal(t, "#......#", lineMap(light.Result(0x81)))
	assert.Equal(t, "...##...", lineMap(light.Result(0x18)))
}

func TestPressed(t *testing.T) {
	b := input.Buttons{
		Set1: input.ButtonSet(^byte(1 << input.ButtonStart)),
		Set2: input.ButtonSet(^byte(1<<input.ButtonCross | 1<<input.ButtonL2)),
	}
	assert.Equal(t, []string{"start", "L2", "cross"}, pressed(b))
	assert.Empty(t, pressed(input.Buttons{Set1: 0xFF, Set2: 0xFF}))
}

func TestHexBlock(t *testing.T) {
	assert.Equal(t, "00 01 0a ff 10 20 30 40", hexBlock([8]byte{0, 1, 0x0a, 0xff, 0x10, 0x20, 0x30, 0x40}))
}
