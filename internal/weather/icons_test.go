package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIconURL_known(t *testing.T) {
	for code, want := range icons {
		assert.Equal(t, want, IconURL(code))
		assert.NotEqual(t, DefaultIconURL, IconURL(code))
	}
	assert.Equal(t, "https://openweathermap.org/img/wn/04d@2x.png", IconURL("04d"))
}

func TestIconURL_unknownFallsBackToDefault(t *testing.T) {
	for _, code := range []string{"", "99x", "Clouds", "04D", " 04d"} {
		got := IconURL(code)
		assert.NotEmpty(t, got)
		assert.Equal(t, DefaultIconURL, got, "code %q", code)
	}
}
