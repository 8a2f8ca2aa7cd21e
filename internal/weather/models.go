package weather

import (
	"fmt"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Coordinates is a WGS84 position as reported by the browser.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Query identifies what to look up: either coordinates or a city name.
// Exactly one of Coordinates and City is set.
type Query struct {
	Coordinates *Coordinates
	City        string
}

// ByCoordinates builds a coordinate query.
func ByCoordinates(lat, lon float64) Query {
	return Query{Coordinates: &Coordinates{Lat: lat, Lon: lon}}
}

// ByCity builds a city-name query.
func ByCity(name string) Query {
	return Query{City: name}
}

// String returns a short human-readable form, used in logs.
func (q Query) String() string {
	if q.Coordinates != nil {
		return fmt.Sprintf("%.4f,%.4f", q.Coordinates.Lat, q.Coordinates.Lon)
	}
	return q.City
}

// Result is the current-conditions view of a location, already converted
// to display units (Celsius, km/h, hPa).
type Result struct {
	ConditionCode string    `json:"conditionCode"`
	Condition     Condition `json:"condition"`
	Description   string    `json:"description"`
	TemperatureC  float64   `json:"temperatureC"`
	FeelsLikeC    float64   `json:"feelsLikeC"`
	HumidityPct   float64   `json:"humidityPercent"`
	PressureHPa   float64   `json:"pressureHpa"`
	WindSpeedKmh  float64   `json:"windSpeedKmh"`
	LocationName  string    `json:"locationName"`
	CountryCode   string    `json:"countryCode"`
	ObservedAt    time.Time `json:"observedAt"` // always UTC
}
