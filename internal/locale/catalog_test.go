package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForMatchesSupportedLocales(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want Catalog
	}{
		{"empty uses default", "", vietnamese},
		{"vietnamese", "vi-VN", vietnamese},
		{"english", "en", english},
		{"regional english", "en-GB", english},
		{"garbage falls back", "%%%", vietnamese},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want.Greeting, For(tc.tag).Greeting)
		})
	}
}

func TestCatalogsHaveNonEmptyFallback(t *testing.T) {
	for _, c := range catalogs {
		assert.NotEmpty(t, c.Fallback)
		assert.NotEmpty(t, c.Greeting)
	}
}
