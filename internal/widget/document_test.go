package widget

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_injectAndRemove(t *testing.T) {
	d := NewDocument()
	d.InjectStyle("a", ".a{}")
	d.InjectStyle("b", ".b{}")
	d.InjectStyle("a", ".a{color:red}")

	assert.Equal(t, []Style{{ID: "a", CSS: ".a{color:red}"}, {ID: "b", CSS: ".b{}"}}, d.Styles())

	d.RemoveStyle("a")
	d.RemoveStyle("missing")
	assert.Equal(t, []Style{{ID: "b", CSS: ".b{}"}}, d.Styles())
}

func TestMount_stylesAreScopedPerWidget(t *testing.T) {
	doc := NewDocument()
	w1 := New(Config{ID: "one", Document: doc, Stylesheet: ".app{}"})
	w2 := New(Config{ID: "two", Document: doc, Stylesheet: ".app{}"})

	w1.Mount()
	w1.Mount()
	w2.Mount()
	assert.Len(t, doc.Styles(), 2)

	w1.Unmount()
	styles := doc.Styles()
	if assert.Len(t, styles, 1) {
		assert.Equal(t, w2.StyleID(), styles[0].ID)
	}

	w1.Unmount()
	assert.Len(t, doc.Styles(), 1)
}

func TestReportedPosition(t *testing.T) {
	_, err := ReportedPosition{}.Locate(context.Background())
	var le *LocationError
	assert.ErrorAs(t, err, &le)
	assert.Equal(t, LocationUnknown, le.Kind)

	assert.Equal(t, PermissionDenied, PositionErrorFromCode("1").Kind)
	assert.Equal(t, PositionUnavailable, PositionErrorFromCode("2").Kind)
	assert.Equal(t, Timeout, PositionErrorFromCode("3").Kind)
	assert.Equal(t, Unsupported, PositionErrorFromCode("unsupported").Kind)
	assert.Equal(t, LocationUnknown, PositionErrorFromCode("").Kind)
}
