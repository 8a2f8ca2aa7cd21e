package widget

import "sync"

// Style is one injected style block.
type Style struct {
	ID  string
	CSS string
}

// Document is the output surface a widget renders into. It only tracks the
// style blocks injected into the page head, in insertion order.
type Document struct {
	mu     sync.Mutex
	styles []Style
}

func NewDocument() *Document {
	return &Document{}
}

// InjectStyle adds a style block, replacing any block with the same id.
func (d *Document) InjectStyle(id, css string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.styles {
		if d.styles[i].ID == id {
			d.styles[i].CSS = css
			return
		}
	}
	d.styles = append(d.styles, Style{ID: id, CSS: css})
}

// RemoveStyle drops the style block with the given id, if present.
func (d *Document) RemoveStyle(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.styles {
		if d.styles[i].ID == id {
			d.styles = append(d.styles[:i], d.styles[i+1:]...)
			return
		}
	}
}

// Styles returns a copy of the current style blocks.
func (d *Document) Styles() []Style {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Style, len(d.styles))
	copy(out, d.styles)
	return out
}
