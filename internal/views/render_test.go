package views

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-widget/internal/widget"
)

func TestLoadTemplates_success(t *testing.T) {
	require.NoError(t, LoadTemplates())
	assert.NotNil(t, pageTmpl)
}

func TestLoadTemplates_failure_sub(t *testing.T) {
	// Empty FS has no "templates" directory; ParseFS finds no files.
	err := loadTemplatesFromFS(fstest.MapFS{}, "templates")
	assert.Error(t, err)
}

func TestLoadTemplates_failure_parse(t *testing.T) {
	badFS := fstest.MapFS{
		"templates/page.html":            {Data: []byte("{{ .")},
		"templates/partials/search.html": {Data: []byte("")},
	}
	assert.Error(t, loadTemplatesFromFS(badFS, "templates"))
}

func TestRender_notLoaded(t *testing.T) {
	tmplMu.Lock()
	prev := pageTmpl
	pageTmpl = nil
	tmplMu.Unlock()
	t.Cleanup(func() {
		tmplMu.Lock()
		pageTmpl = prev
		tmplMu.Unlock()
	})

	err := Render(io.Discard, &Page{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not loaded")
}

func TestRender_idle(t *testing.T) {
	require.NoError(t, LoadTemplates())

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, &Page{Locate: true, Input: "Par<is>"}))
	out := buf.String()

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `action="/widget/search"`)
	assert.Contains(t, out, "Par&lt;is&gt;")
	assert.Contains(t, out, "navigator.geolocation")
	assert.NotContains(t, out, "loading-spinner")
	assert.NotContains(t, out, "weather-info")
	assert.NotContains(t, out, `class="error"`)
}

func TestRender_loading(t *testing.T) {
	require.NoError(t, LoadTemplates())

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, &Page{Loading: true}))
	out := buf.String()

	assert.Contains(t, out, "loading-spinner")
	assert.Contains(t, out, `http-equiv="refresh"`)
	assert.NotContains(t, out, "navigator.geolocation")
}

func TestRender_loaded(t *testing.T) {
	require.NoError(t, LoadTemplates())
	css, err := Stylesheet()
	require.NoError(t, err)

	res := londonResult
	page := Build(widget.Snapshot{
		State:   widget.State{Kind: widget.Loaded, Result: &res},
		Located: true,
		Styles:  []widget.Style{{ID: "weather-widget-s1", CSS: css}},
	}, fixedNow)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, page))
	out := buf.String()

	for _, want := range []string{
		`<style id="weather-widget-s1">`,
		".weather-container",
		"15°C",
		"OVERCAST CLOUDS",
		"London, GB",
		"Monday, October 19, 2026",
		"80%",
		"14 km/h",
		"14°C",
		"1012 hPa",
		"https://openweathermap.org/img/wn/04d@2x.png",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "ZgotmplZ")
	assert.False(t, strings.Contains(out, "navigator.geolocation"))
}

func TestRender_failed(t *testing.T) {
	require.NoError(t, LoadTemplates())

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, &Page{Error: "City not found or API error: boom. Please try again."}))
	assert.Contains(t, buf.String(), `<div class="error"><p>City not found or API error: boom. Please try again.</p></div>`)
}

// Ensure Render propagates write errors (e.g. closed writer).
func TestRender_writeError(t *testing.T) {
	require.NoError(t, LoadTemplates())

	err := Render(&failingWriter{err: io.ErrClosedPipe}, &Page{})
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

type failingWriter struct{ err error }

func (f *failingWriter) Write([]byte) (int, error) { return 0, f.err }
