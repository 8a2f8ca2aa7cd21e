package widget

import (
	"time"

	"github.com/i474232898/weather-widget/internal/weather"
)

// Kind is the active UI state of a widget.
type Kind int

const (
	Idle Kind = iota
	Loading
	Loaded
	Failed
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "invalid"
	}
}

// MarshalText renders the kind by name in JSON snapshots.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// State is exactly one of Idle, Loading, Loaded(Result) or Failed(Message).
// Result is set only for Loaded and Message only for Failed.
type State struct {
	Kind    Kind            `json:"kind"`
	Result  *weather.Result `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}

func loading() State { return State{Kind: Loading} }

func loaded(r weather.Result) State { return State{Kind: Loaded, Result: &r} }

func failed(msg string) State { return State{Kind: Failed, Message: msg} }

// Snapshot is a consistent copy of everything a view needs.
type Snapshot struct {
	ID    string `json:"id"`
	State State  `json:"state"`
	// Input is the current search field text.
	Input string `json:"input"`
	// Notice is the informational geolocation failure, if any.
	Notice string `json:"notice,omitempty"`
	// Located reports whether the location chain has already run.
	Located bool `json:"located"`
	// TimeZone is the viewer's zone, when the browser reported one.
	TimeZone *time.Location `json:"-"`
	Styles   []Style        `json:"-"`
}
