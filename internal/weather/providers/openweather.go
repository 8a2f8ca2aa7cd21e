package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-widget/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

var validate = validator.New()

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
}

// Option customises an OpenWeatherProvider.
type Option func(*OpenWeatherProvider)

// WithBaseURL points the provider at another API root (tests, proxies).
func WithBaseURL(u string) Option {
	return func(p *OpenWeatherProvider) {
		if u != "" {
			p.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithBreaker guards outbound calls with cb.
func WithBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(p *OpenWeatherProvider) {
		p.httpCfg.Breaker = cb
	}
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) *OpenWeatherProvider {
	p := &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: DefaultOpenWeatherBaseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// currentPayload is the subset of /weather this widget consumes. Pointer
// fields let validation tell a missing value from a zero one.
type currentPayload struct {
	Dt      int64 `json:"dt"`
	Weather []struct {
		Main        string `json:"main"`
		Icon        string `json:"icon" validate:"required"`
		Description string `json:"description" validate:"required"`
	} `json:"weather" validate:"required,min=1,dive"`
	Main *struct {
		Temp      *float64 `json:"temp" validate:"required"`
		FeelsLike *float64 `json:"feels_like" validate:"required"`
		Humidity  *float64 `json:"humidity" validate:"required"`
		Pressure  *float64 `json:"pressure" validate:"required"`
	} `json:"main" validate:"required"`
	Wind *struct {
		Speed *float64 `json:"speed" validate:"required"`
	} `json:"wind" validate:"required"`
	Sys *struct {
		Country *string `json:"country" validate:"required"`
	} `json:"sys" validate:"required"`
	Name *string `json:"name" validate:"required"`
}

func (p *OpenWeatherProvider) Current(ctx context.Context, q weather.Query) (weather.Result, error) {
	if p.apiKey == "" {
		return weather.Result{}, ErrMissingAPIKey
	}

	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	if q.Coordinates != nil {
		values.Set("lat", strconv.FormatFloat(q.Coordinates.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(q.Coordinates.Lon, 'f', -1, 64))
	} else {
		values.Set("q", q.City)
	}

	u := fmt.Sprintf("%s/weather?%s", p.baseURL, values.Encode())
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return weather.Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := doRequest(ctx, p.httpCfg, req)
	if err != nil {
		return weather.Result{}, err
	}

	return parseCurrent(body)
}

func parseCurrent(body []byte) (weather.Result, error) {
	var payload currentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Result{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if err := validate.Struct(payload); err != nil {
		return weather.Result{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	cond := payload.Weather[0]
	return weather.Result{
		ConditionCode: cond.Icon,
		Condition:     mapOpenWeatherCondition(cond.Main),
		Description:   cond.Description,
		TemperatureC:  *payload.Main.Temp,
		FeelsLikeC:    *payload.Main.FeelsLike,
		HumidityPct:   *payload.Main.Humidity,
		PressureHPa:   *payload.Main.Pressure,
		WindSpeedKmh:  weather.KmhFromMS(*payload.Wind.Speed),
		LocationName:  *payload.Name,
		CountryCode:   *payload.Sys.Country,
		ObservedAt:    ts,
	}, nil
}

func mapOpenWeatherCondition(group string) weather.Condition {
	switch group {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionCloudy
	case "Rain", "Drizzle":
		return weather.ConditionRain
	case "Snow":
		return weather.ConditionSnow
	case "Thunderstorm", "Squall", "Tornado":
		return weather.ConditionStorm
	case "Mist", "Smoke", "Haze", "Dust", "Fog", "Sand", "Ash":
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}
