package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatQuestion(t *testing.T) {
	assert.Equal(t, "overwrite clock? [N/y]: ", formatQuestion("overwrite clock?", yesNoConstraints))
}

func TestMatch(t *testing.T) {
	tests := []struct {
		response string
		expected string
	}{
		{"", No},
		{"y", Yes},
		{" Y ", Yes},
		{"n", No},
		{"maybe", No},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, match(tt.response, yesNoConstraints), "response %q", tt.response)
	}
}
