package httpapi

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/i474232898/weather-widget/internal/store"
	"github.com/i474232898/weather-widget/internal/views"
	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/weather/providers"
	"github.com/i474232898/weather-widget/internal/widget"
)

// SessionCookie carries the widget session id.
const SessionCookie = "widget_session"

var validate = validator.New()

// Config holds what the routes need.
type Config struct {
	Sessions *store.SessionStore
	Provider weather.Provider
	// NewWidget builds an unmounted widget for a new session id.
	NewWidget func(id string) *widget.Widget
	Logger    *slog.Logger
	Now       func() time.Time
}

type routes struct {
	Config
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, cfg Config) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	r := &routes{Config: cfg}

	app.Get("/", r.page)

	w := app.Group("/widget")
	w.Post("/locate", r.locate)
	w.Post("/search", r.search)
	w.Get("/state", r.state)
	w.Post("/unmount", r.unmount)

	v1 := app.Group("/api/v1")
	v1.Get("/weather/current", r.current)
}

// ErrorHandler renders errors as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Centralized error response
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func (r *routes) page(c *fiber.Ctx) error {
	w := r.session(c, true)

	var buf bytes.Buffer
	if err := views.Render(&buf, views.Build(w.Snapshot(), r.Now())); err != nil {
		r.Logger.Error("render widget page failed", "session", w.ID(), "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render widget")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// locate receives the browser's geolocation outcome: lat and lon, or an
// error code, plus an optional IANA time zone. Only the first report per
// session starts the location chain.
func (r *routes) locate(c *fiber.Ctx) error {
	pos, err := parseReport(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	w := r.session(c, true)
	if name := strings.TrimSpace(c.FormValue("tz")); name != "" {
		// Fiber reuses request buffers; the zone keeps its name.
		loc, err := time.LoadLocation(utils.CopyString(name))
		if err != nil {
			r.Logger.Debug("ignoring unknown time zone", "session", w.ID(), "tz", name)
		} else {
			w.SetTimeZone(loc)
		}
	}
	started := w.ResolveLocation(c.UserContext(), pos)

	if wantsJSON(c) {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"started": started,
			"state":   w.Snapshot(),
		})
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (r *routes) search(c *fiber.Ctx) error {
	w := r.session(c, true)
	// The input outlives the request, so it must not alias Fiber's buffer.
	w.SetInput(utils.CopyString(c.FormValue("city")))
	started := w.Submit(c.UserContext())

	if wantsJSON(c) {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"started": started,
			"state":   w.Snapshot(),
		})
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (r *routes) state(c *fiber.Ctx) error {
	w := r.session(c, false)
	if w == nil {
		return fiber.NewError(fiber.StatusNotFound, "no widget session")
	}
	return c.JSON(w.Snapshot())
}

func (r *routes) unmount(c *fiber.Ctx) error {
	id := c.Cookies(SessionCookie)
	if id == "" {
		return fiber.NewError(fiber.StatusNotFound, "no widget session")
	}
	if err := r.Sessions.Remove(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no widget session")
		}
		return err
	}
	r.Logger.Info("widget unmounted", "session", id)
	c.ClearCookie(SessionCookie)
	return c.SendStatus(fiber.StatusNoContent)
}

// current is a stateless lookup returning the converted result as JSON.
func (r *routes) current(c *fiber.Ctx) error {
	q, err := parseWeatherQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := r.Provider.Current(c.UserContext(), q)
	if err != nil {
		r.Logger.Warn("weather lookup failed", "query", q.String(), "error", err)
		return lookupError(err)
	}
	return c.JSON(res)
}

// session returns the widget for the request's cookie, mounting a new one
// when create is set and none is found.
func (r *routes) session(c *fiber.Ctx, create bool) *widget.Widget {
	now := r.Now()
	if id := c.Cookies(SessionCookie); id != "" {
		if w, err := r.Sessions.Get(id); err == nil {
			w.Touch(now)
			return w
		}
	}
	if !create {
		return nil
	}

	id := uuid.NewString()
	w := r.NewWidget(id)
	w.Touch(now)
	w.Mount()
	r.Sessions.Save(w)
	r.Logger.Info("widget mounted", "session", id)

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return w
}

// cityQuery holds the city lookup parameter.
type cityQuery struct {
	City string `validate:"required,max=200"`
}

func parseWeatherQuery(c *fiber.Ctx) (weather.Query, error) {
	if city := strings.TrimSpace(c.Query("city")); city != "" {
		q := cityQuery{City: city}
		if err := validate.Struct(q); err != nil {
			return weather.Query{}, err
		}
		return weather.ByCity(q.City), nil
	}
	if c.Query("lat") == "" && c.Query("lon") == "" {
		return weather.Query{}, errors.New("city or lat and lon query parameters are required")
	}
	coords, err := parseCoordinates(c.Query("lat"), c.Query("lon"))
	if err != nil {
		return weather.Query{}, err
	}
	return weather.ByCoordinates(coords.Lat, coords.Lon), nil
}

func parseReport(c *fiber.Ctx) (widget.ReportedPosition, error) {
	if code := strings.TrimSpace(c.FormValue("error")); code != "" {
		return widget.ReportedPosition{Err: widget.PositionErrorFromCode(code)}, nil
	}
	coords, err := parseCoordinates(c.FormValue("lat"), c.FormValue("lon"))
	if err != nil {
		return widget.ReportedPosition{}, err
	}
	return widget.ReportedPosition{Coordinates: &coords}, nil
}

func parseCoordinates(latStr, lonStr string) (weather.Coordinates, error) {
	if latStr == "" || lonStr == "" {
		return weather.Coordinates{}, errors.New("lat and lon are required")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return weather.Coordinates{}, errors.New("invalid lat")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return weather.Coordinates{}, errors.New("invalid lon")
	}
	coords := weather.Coordinates{Lat: lat, Lon: lon}
	if err := validate.Struct(coords); err != nil {
		return weather.Coordinates{}, err
	}
	return coords, nil
}

func lookupError(err error) error {
	var se *providers.StatusError
	switch {
	case errors.Is(err, providers.ErrMissingAPIKey), errors.Is(err, providers.ErrCircuitOpen):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.As(err, &se) && se.StatusCode == http.StatusNotFound:
		return fiber.NewError(fiber.StatusNotFound, "city not found")
	default:
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
	}
}

func wantsJSON(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}
