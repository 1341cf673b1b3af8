package httpapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	msgInvalidInput = "Invalid input. Check the coordinates and try again"
	msgNoMatch      = "Could not find a match from the database. Try again..."
	msgRateLimited  = "Too many requests. Please try again in an hour"

	headerInteractionID = "X-Interaction-ID"
	localInteractionID  = "interaction_id"
)

var validate = validator.New()

// KeyChecker runs and reports API key checks.
type KeyChecker interface {
	Check(ctx context.Context) scheduler.KeyStatus
	Status() scheduler.KeyStatus
}

// Deps are the collaborators the handlers need.
type Deps struct {
	Resolver *location.Resolver
	Service  *weather.Service
	Keys     KeyChecker
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	app.Use(interactionID)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"interaction_id": interactionIDOf(c),
			"status":         "ok",
			"service":        "weather-dashboard",
			"provider":       deps.Service.ProviderName(),
			"api_key":        deps.Keys.Status(),
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")

	v1.Get("/countries", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"interaction_id": interactionIDOf(c),
			"countries":      deps.Resolver.Countries(),
		})
	})

	v1.Get("/temperature/coordinate", func(c *fiber.Ctx) error {
		req := coordinateQuery{
			Lat:  c.Query("lat"),
			Lon:  c.Query("lon"),
			Unit: c.Query("unit"),
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		unit, err := weather.ParseUnit(req.Unit)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		q := location.CoordinateQuery{Lat: req.Lat, Lon: req.Lon}
		return respond(c, deps, "coordinate", q, unit)
	})

	v1.Get("/temperature/country", func(c *fiber.Ctx) error {
		req := countryQuery{
			// Query values alias fasthttp's reused buffer; the resolver may keep them.
			Name:   utils.CopyString(c.Query("name")),
			Select: utils.CopyString(c.Query("select")),
			Unit:   c.Query("unit"),
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		unit, err := weather.ParseUnit(req.Unit)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if req.Select != "" {
			return respond(c, deps, "country_select", location.CountrySelectionQuery{Country: req.Select}, unit)
		}
		return respond(c, deps, "country_name", location.CountryNameQuery{Text: req.Name}, unit)
	})

	v1.Post("/credentials/validate", func(c *fiber.Ctx) error {
		st := deps.Keys.Check(c.UserContext())
		if !st.Valid {
			return toFiberError(weather.ErrRateLimited)
		}
		return c.JSON(fiber.Map{
			"interaction_id": interactionIDOf(c),
			"provider":       deps.Service.ProviderName(),
			"api_key":        st,
		})
	})
}

type coordinateQuery struct {
	Lat  string `validate:"required"`
	Lon  string `validate:"required"`
	Unit string `validate:"max=16"`
}

// countryQuery carries either free text (name) or a dropdown pick (select), never both.
type countryQuery struct {
	Name   string `validate:"required_without=Select,excluded_with=Select,max=60"`
	Select string `validate:"max=200"`
	Unit   string `validate:"max=16"`
}

type temperatureResponse struct {
	InteractionID  string            `json:"interaction_id"`
	Mode           string            `json:"mode"`
	MatchedCountry string            `json:"matched_country,omitempty"`
	Score          int               `json:"score,omitempty"`
	Unit           weather.Unit      `json:"unit"`
	Readings       []weather.Reading `json:"readings"`
	Map            weather.MapView   `json:"map"`
}

// respond runs one resolve-then-fetch interaction.
func respond(c *fiber.Ctx, deps Deps, mode string, q location.Query, unit weather.Unit) error {
	sel, err := deps.Resolver.Resolve(q)
	if err != nil {
		return toFiberError(err)
	}

	readings, err := deps.Service.Fetch(c.UserContext(), sel, unit)
	if err != nil {
		return toFiberError(err)
	}

	return c.JSON(temperatureResponse{
		InteractionID:  interactionIDOf(c),
		Mode:           mode,
		MatchedCountry: sel.Country,
		Score:          sel.Score,
		Unit:           unit,
		Readings:       readings,
		Map:            weather.BuildMapView(sel, readings),
	})
}

// toFiberError maps the outcome sentinels to statuses with a fixed message each.
func toFiberError(err error) *fiber.Error {
	switch {
	case errors.Is(err, location.ErrNoMatch):
		return fiber.NewError(fiber.StatusNotFound, msgNoMatch)
	case errors.Is(err, weather.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, msgInvalidInput)
	case errors.Is(err, weather.ErrRateLimited):
		return fiber.NewError(fiber.StatusTooManyRequests, msgRateLimited)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch temperatures")
	}
}

// ErrorHandler is the centralized error response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":          true,
		"message":        err.Error(),
		"interaction_id": interactionIDOf(c),
	})
}

func interactionID(c *fiber.Ctx) error {
	id := uuid.NewString()
	c.Locals(localInteractionID, id)
	c.Set(headerInteractionID, id)
	return c.Next()
}

func interactionIDOf(c *fiber.Ctx) string {
	id, _ := c.Locals(localInteractionID).(string)
	return id
}
