package weather

import (
	"context"
)

// Provider abstracts the current-weather data source (OpenWeatherMap).
// Implementations issue exactly one request per call.
type Provider interface {
	Name() string
	Current(ctx context.Context, q Query) (Result, error)
}
