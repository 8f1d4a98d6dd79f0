package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBadge(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{"zero clears the badge", 0, ""},
		{"negative clears the badge", -10, ""},
		{"under a minute shows seconds", 45, "45s"},
		{"last second", 1, "1s"},
		{"exactly one minute", 60, "1m"},
		{"partial minutes round down", 90, "1m"},
		{"full session", 25 * 60, "25m"},
		{"longest session", 180 * 60, "180m"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatBadge(tc.seconds))
		})
	}
}
