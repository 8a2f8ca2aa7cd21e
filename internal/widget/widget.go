package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/weather-widget/internal/weather"
)

// DefaultFallbackCity is looked up when no position can be obtained.
const DefaultFallbackCity = "New York"

var errFetchAborted = errors.New("unexpected error while fetching weather")

// Config configures a Widget.
type Config struct {
	ID       string
	Provider weather.Provider

	// FallbackCity defaults to DefaultFallbackCity.
	FallbackCity string

	// Document receives the widget's style block on Mount. A private
	// document is created when nil.
	Document   *Document
	Stylesheet string

	// Async makes fetches return once Loading is set, finishing the request
	// in a goroutine bound to the widget's lifetime.
	Async bool

	Logger *slog.Logger

	// OnTransition observes every state change, in order. It runs with the
	// widget locked and must not call back into the widget.
	OnTransition func(State)
}

// Widget is one mounted weather widget: its UI state, search input and the
// location fallback chain. It is safe for concurrent use. Overlapping fetches
// are neither cancelled nor ordered; whichever settles last wins.
type Widget struct {
	id           string
	provider     weather.Provider
	fallbackCity string
	doc          *Document
	stylesheet   string
	async        bool
	logger       *slog.Logger
	onTransition func(State)

	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup

	mu        sync.Mutex
	state     State
	input     string
	notice    string
	mounted   bool
	unmounted bool
	located   bool
	lastSeen  time.Time
	tz        *time.Location
}

// New creates an Idle, unmounted widget.
func New(cfg Config) *Widget {
	city := strings.TrimSpace(cfg.FallbackCity)
	if city == "" {
		city = DefaultFallbackCity
	}
	doc := cfg.Document
	if doc == nil {
		doc = NewDocument()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Widget{
		id:           cfg.ID,
		provider:     cfg.Provider,
		fallbackCity: city,
		doc:          doc,
		stylesheet:   cfg.Stylesheet,
		async:        cfg.Async,
		logger:       logger.With("session", cfg.ID),
		onTransition: cfg.OnTransition,
		ctx:          ctx,
		cancel:       cancel,
		state:        State{Kind: Idle},
		lastSeen:     time.Now(),
	}
}

func (w *Widget) ID() string { return w.id }

// StyleID is the id of the style block this widget injects on Mount.
func (w *Widget) StyleID() string { return "weather-widget-" + w.id }

// Mount injects the widget's style block. It is a no-op when already
// mounted or after Unmount.
func (w *Widget) Mount() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mounted || w.unmounted {
		return
	}
	w.mounted = true
	w.doc.InjectStyle(w.StyleID(), w.stylesheet)
}

// Unmount removes the style block and cancels fetches still in flight.
// It always releases the style, whatever state the widget is in.
func (w *Widget) Unmount() {
	w.mu.Lock()
	if w.unmounted {
		w.mu.Unlock()
		return
	}
	w.unmounted = true
	w.mounted = false
	w.mu.Unlock()

	w.doc.RemoveStyle(w.StyleID())
	w.cancel()
}

// Wait blocks until fetches started in async mode have settled.
func (w *Widget) Wait() {
	w.inflight.Wait()
}

// Done is closed when the widget is unmounted.
func (w *Widget) Done() <-chan struct{} {
	return w.ctx.Done()
}

// ResolveLocation runs the location fallback chain once per widget: on
// success the weather at the position is fetched; on any failure the reason
// is shown and the fallback city is fetched instead. It reports whether the
// chain ran; later calls are ignored.
func (w *Widget) ResolveLocation(ctx context.Context, loc Locator) bool {
	w.mu.Lock()
	if w.located {
		w.mu.Unlock()
		return false
	}
	w.located = true
	w.mu.Unlock()

	var (
		coords weather.Coordinates
		err    = error(&LocationError{Kind: Unsupported})
	)
	if loc != nil {
		coords, err = loc.Locate(ctx)
	}
	if err == nil {
		w.FetchByCoordinates(ctx, coords.Lat, coords.Lon)
		return true
	}

	msg := fallbackMessage(err, w.fallbackCity)
	w.logger.Warn("geolocation failed; using fallback city", "city", w.fallbackCity, "error", err)

	w.mu.Lock()
	w.notice = msg
	w.setLocked(failed(msg))
	w.mu.Unlock()

	w.FetchByCity(ctx, w.fallbackCity)
	return true
}

// FetchByCoordinates looks up the weather at a position.
func (w *Widget) FetchByCoordinates(ctx context.Context, lat, lon float64) {
	w.fetch(ctx, weather.ByCoordinates(lat, lon), func(err error) string {
		return fmt.Sprintf("Failed to fetch weather data: %v. Please ensure your API key is correct and try again.", err)
	})
}

// FetchByCity looks up the weather for a city name.
func (w *Widget) FetchByCity(ctx context.Context, name string) {
	w.fetch(ctx, weather.ByCity(name), func(err error) string {
		return fmt.Sprintf("City not found or API error: %v. Please try again.", err)
	})
}

// SetInput replaces the search field text.
func (w *Widget) SetInput(text string) {
	w.mu.Lock()
	w.input = text
	w.mu.Unlock()
}

// Submit submits the search form. Whitespace-only input is ignored and left
// untouched; otherwise the trimmed text is fetched and the field cleared.
// It reports whether a fetch was started.
func (w *Widget) Submit(ctx context.Context) bool {
	w.mu.Lock()
	city := strings.TrimSpace(w.input)
	if city == "" {
		w.mu.Unlock()
		return false
	}
	w.input = ""
	w.notice = ""
	w.mu.Unlock()

	w.FetchByCity(ctx, city)
	return true
}

// SetTimeZone sets the zone the viewer's local date is shown in. Nil keeps
// the server's zone.
func (w *Widget) SetTimeZone(loc *time.Location) {
	w.mu.Lock()
	w.tz = loc
	w.mu.Unlock()
}

// Touch records activity for idle eviction.
func (w *Widget) Touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

// LastSeen returns the time of the last recorded activity.
func (w *Widget) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// State returns the active state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return copyState(w.state)
}

// Snapshot returns a consistent copy of the widget for rendering.
func (w *Widget) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		ID:       w.id,
		State:    copyState(w.state),
		Input:    w.input,
		Notice:   w.notice,
		Located:  w.located,
		TimeZone: w.tz,
		Styles:   w.doc.Styles(),
	}
}

// fetch sets Loading, performs exactly one provider call and settles into
// Loaded or Failed. The settle step is deferred so it runs even if the
// provider panics.
func (w *Widget) fetch(ctx context.Context, q weather.Query, failure func(error) string) {
	w.set(loading())

	run := func(ctx context.Context) {
		next := failed(failure(errFetchAborted))
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("weather fetch panicked", "query", q.String(), "panic", r)
			}
			w.set(next)
		}()

		if w.provider == nil {
			next = failed(failure(errors.New("no weather provider configured")))
			return
		}

		start := time.Now()
		res, err := w.provider.Current(ctx, q)
		if err != nil {
			w.logger.Warn("weather fetch failed", "provider", w.provider.Name(), "query", q.String(), "error", err)
			next = failed(failure(err))
			return
		}
		w.logger.Info("weather fetched", "provider", w.provider.Name(), "query", q.String(),
			"location", res.LocationName, "duration", time.Since(start))
		next = loaded(res)
	}

	if !w.async {
		run(ctx)
		return
	}

	w.inflight.Add(1)
	go func() {
		defer w.inflight.Done()
		run(w.ctx)
	}()
}

func (w *Widget) set(s State) {
	w.mu.Lock()
	w.setLocked(s)
	w.mu.Unlock()
}

func (w *Widget) setLocked(s State) {
	w.state = s
	w.logger.Debug("widget state changed", "state", s.Kind.String())
	if w.onTransition != nil {
		w.onTransition(copyState(s))
	}
}

func copyState(s State) State {
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}
