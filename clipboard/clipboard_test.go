package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiateLocalPreferenceWins(t *testing.T) {
	tests := []struct {
		name    string
		local   []string
		offered []string
		want    string
		ok      bool
	}{
		{
			name:    "first local preference offered",
			local:   []string{"text/html", "text/plain"},
			offered: []string{"text/plain", "text/html"},
			want:    "text/html",
			ok:      true,
		},
		{
			name:    "falls through to later preference",
			local:   []string{"image/png", "text/plain"},
			offered: []string{"text/plain;charset=utf-8", "text/plain"},
			want:    "text/plain",
			ok:      true,
		},
		{
			name:    "no intersection",
			local:   []string{"image/png"},
			offered: []string{"text/plain"},
		},
		{
			name:    "empty offer",
			local:   TextMimeTypes,
			offered: nil,
		},
		{
			name:    "empty preferences",
			offered: []string{"text/plain"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Negotiate(tt.local, tt.offered)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextMimeTypesPreferUTF8(t *testing.T) {
	got, ok := Negotiate(TextMimeTypes, []string{"TEXT", "text/plain;charset=utf-8"})
	assert.True(t, ok)
	assert.Equal(t, "text/plain;charset=utf-8", got)
}
