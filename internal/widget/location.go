package widget

import (
	"context"
	"errors"
	"fmt"

	"github.com/i474232898/weather-widget/internal/weather"
)

// LocationErrorKind classifies why a position could not be obtained.
type LocationErrorKind int

const (
	LocationUnknown LocationErrorKind = iota
	PermissionDenied
	PositionUnavailable
	Timeout
	Unsupported
)

// LocationError is returned by a Locator that could not produce coordinates.
type LocationError struct {
	Kind LocationErrorKind
}

func (e *LocationError) Error() string {
	switch e.Kind {
	case PermissionDenied:
		return "You denied the request for your location. Please enable location services in your browser settings to get weather for your current position."
	case PositionUnavailable:
		return "Location information is unavailable. Your device might not be able to determine your position."
	case Timeout:
		return "The request to get your location timed out. Please try again."
	case Unsupported:
		return "Geolocation is not supported by this browser."
	default:
		return "An unknown error occurred while trying to get your location."
	}
}

// Locator obtains the caller's current position in a single attempt.
type Locator interface {
	Locate(ctx context.Context) (weather.Coordinates, error)
}

// ReportedPosition is the outcome of a browser geolocation request, as
// posted back by the page. Either Coordinates is set or Err is.
type ReportedPosition struct {
	Coordinates *weather.Coordinates
	Err         *LocationError
}

// Locate implements Locator.
func (p ReportedPosition) Locate(context.Context) (weather.Coordinates, error) {
	if p.Coordinates != nil {
		return *p.Coordinates, nil
	}
	if p.Err != nil {
		return weather.Coordinates{}, p.Err
	}
	return weather.Coordinates{}, &LocationError{Kind: LocationUnknown}
}

// PositionErrorFromCode maps a GeolocationPositionError code ("1", "2",
// "3") or "unsupported" to a LocationError.
func PositionErrorFromCode(code string) *LocationError {
	switch code {
	case "1":
		return &LocationError{Kind: PermissionDenied}
	case "2":
		return &LocationError{Kind: PositionUnavailable}
	case "3":
		return &LocationError{Kind: Timeout}
	case "unsupported":
		return &LocationError{Kind: Unsupported}
	default:
		return &LocationError{Kind: LocationUnknown}
	}
}

func fallbackMessage(err error, city string) string {
	reason := (&LocationError{Kind: LocationUnknown}).Error()
	var le *LocationError
	if errors.As(err, &le) {
		reason = le.Error()
	}
	return fmt.Sprintf("%s Falling back to default city (%s).", reason, city)
}
