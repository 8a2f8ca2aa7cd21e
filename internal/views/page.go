package views

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/widget"
)

// DateLayout renders dates as e.g. "Monday, October 19, 2026".
const DateLayout = "Monday, January 2, 2006"

// StyleBlock is a style element in the page head.
type StyleBlock struct {
	ID  string
	CSS template.CSS
}

// Page is the view model of the whole widget page. It is derived entirely
// from a widget snapshot.
type Page struct {
	Styles  []StyleBlock
	Input   string
	Loading bool
	Error   string
	Notice  string
	Weather *Detail
	// Locate asks the page to report the browser position.
	Locate bool
}

// Detail is the loaded-state panel.
type Detail struct {
	IconURL     string
	IconAlt     string
	Temperature string
	Description string
	Location    string
	Date        string
	Humidity    string
	Wind        string
	FeelsLike   string
	Pressure    string
}

// Build maps a widget snapshot to its page. Loading hides both the error and
// the result; Idle shows only the search form. The date is shown in the
// viewer's zone when known.
func Build(snap widget.Snapshot, now time.Time) *Page {
	if snap.TimeZone != nil {
		now = now.In(snap.TimeZone)
	}
	p := &Page{
		Input:  snap.Input,
		Locate: !snap.Located,
	}
	for _, s := range snap.Styles {
		// Stylesheets come from the embedded asset, never from user input.
		p.Styles = append(p.Styles, StyleBlock{ID: s.ID, CSS: template.CSS(s.CSS)})
	}

	switch snap.State.Kind {
	case widget.Loading:
		p.Loading = true
		return p
	case widget.Failed:
		p.Error = snap.State.Message
	case widget.Loaded:
		if snap.State.Result != nil {
			p.Weather = BuildDetail(*snap.State.Result, now)
		}
	}

	if snap.Notice != p.Error {
		p.Notice = snap.Notice
	}
	return p
}

// BuildDetail formats a result for display.
func BuildDetail(r weather.Result, now time.Time) *Detail {
	return &Detail{
		IconURL:     weather.IconURL(r.ConditionCode),
		IconAlt:     r.Description,
		Temperature: fmt.Sprintf("%d°C", weather.Round(r.TemperatureC)),
		Description: strings.ToUpper(r.Description),
		Location:    fmt.Sprintf("%s, %s", r.LocationName, r.CountryCode),
		Date:        now.Format(DateLayout),
		Humidity:    formatNumber(r.HumidityPct) + "%",
		Wind:        fmt.Sprintf("%d km/h", weather.Round(r.WindSpeedKmh)),
		FeelsLike:   fmt.Sprintf("%d°C", weather.Round(r.FeelsLikeC)),
		Pressure:    formatNumber(r.PressureHPa) + " hPa",
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
