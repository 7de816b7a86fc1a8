package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple word", "Electronics", "electronics"},
		{"spaces become hyphens", "Home Electronics", "home-electronics"},
		{"run of separators collapses", "Audio  &  Video", "audio-video"},
		{"leading and trailing separators trimmed", "  --Laptops-- ", "laptops"},
		{"diacritics stripped", "Café Équipement", "cafe-equipement"},
		{"numbers preserved", "3D Printers", "3d-printers"},
		{"already a slug", "gaming-mice", "gaming-mice"},
		{"punctuation only", "!!!", ""},
		{"mixed case", "SmartPhones", "smartphones"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}
