package main

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// App wires the configuration, upstream API client, and telemetry tracker
// into the HTTP handlers.
type App struct {
	cfg     *Config
	api     *API
	tracker *Tracker
}

func newApp(cfg *Config) *App {
	return &App{
		cfg:     cfg,
		api:     newAPI(cfg),
		tracker: newTracker(cfg),
	}
}

func heartbeat(c echo.Context) error {
	// Heartbeat function to assess service status. Immediately return 200
	return c.NoContent(http.StatusOK)
}

func (app *App) appOpened(c echo.Context) error {
	// Acknowledge only; the frontend sends the event details via ha-track
	return c.JSON(http.StatusOK, apiResponse{"success": true})
}

// haTrack forwards a usage event to the webhook. It always acknowledges,
// even when the event is malformed or delivery fails.
func (app *App) haTrack(c echo.Context) error {
	var req TrackRequest
	if err := c.Bind(&req); err != nil {
		logger(c.Request().Context(), err)
		return c.JSON(http.StatusOK, apiResponse{"success": true})
	}

	app.tracker.track(req.EventName, req.Metadata)

	return c.JSON(http.StatusOK, apiResponse{"success": true})
}

func (app *App) auth(c echo.Context) error {
	var req AuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, errorResponse("ORG required"))
	}

	org := strings.TrimSpace(req.Org)
	if org == "" {
		return c.JSON(http.StatusOK, errorResponse("ORG required"))
	}

	token, err := app.api.authenticate(c.Request().Context(), org)
	if err != nil {
		// Fail closed; no upstream detail reaches the kiosk
		return c.JSON(http.StatusOK, errorResponse("Auth failed"))
	}

	return c.JSON(http.StatusOK, apiResponse{"success": true, "token": token})
}

// scheduled returns every appointment still in the scheduled state
func (app *App) scheduled(c echo.Context) error {
	var req SessionRequest
	if err := c.Bind(&req); err != nil || req.Org == "" || req.Token == "" {
		return c.JSON(http.StatusOK, errorResponse("Missing data"))
	}

	ctx := c.Request().Context()
	appointments, err := app.api.scheduledAppointments(ctx, req.Org, req.Token)
	if err != nil {
		logger(ctx, err)
		return c.JSON(http.StatusOK, errorResponse("Failed to fetch scheduled appointments"))
	}

	if appointments == nil {
		appointments = []AppointmentRecord{}
	}
	return c.JSON(http.StatusOK, apiResponse{"success": true, "appointments": appointments})
}

// search serves both lookup modes: a criteria string selects the
// multi-criterion OR search, otherwise an appointment_id selects the exact-id
// search.
func (app *App) search(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil || req.Org == "" || req.Token == "" {
		return c.JSON(http.StatusOK, errorResponse("Missing data"))
	}

	ctx := c.Request().Context()

	if strings.TrimSpace(req.Criteria) != "" {
		criteria := tokenizeCriteria(req.Criteria)
		if len(criteria) == 0 {
			return c.JSON(http.StatusOK, errorResponse("Missing data"))
		}

		results, counts := app.api.searchByCriteria(ctx, req.Org, req.Token, criteria)
		annotateRecords(results)

		if results == nil {
			results = []AppointmentRecord{}
		}
		return c.JSON(http.StatusOK, apiResponse{
			"success":      true,
			"results":      results,
			"per_criteria": counts,
		})
	}

	appointmentID := strings.TrimSpace(req.AppointmentID)
	if appointmentID == "" {
		return c.JSON(http.StatusOK, errorResponse("Missing data"))
	}

	results, err := app.api.searchByID(ctx, req.Org, req.Token, appointmentID)
	if err != nil {
		// A failed lookup degrades to an empty result set
		logger(ctx, err)
		results = nil
	}
	annotateRecords(results)

	if results == nil {
		results = []AppointmentRecord{}
	}
	return c.JSON(http.StatusOK, apiResponse{"success": true, "results": results})
}

func (app *App) conditionCodes(c echo.Context) error {
	var req SessionRequest
	if err := c.Bind(&req); err != nil || req.Org == "" || req.Token == "" {
		return c.JSON(http.StatusOK, errorResponse("Missing data"))
	}

	ctx := c.Request().Context()
	codes, err := app.api.conditionCodes(ctx, req.Org, req.Token)
	if err != nil {
		logger(ctx, err)
		return c.JSON(http.StatusOK, errorResponse("Failed to fetch condition codes"))
	}

	if codes == nil {
		codes = []map[string]any{}
	}
	return c.JSON(http.StatusOK, apiResponse{"success": true, "codes": codes})
}

func (app *App) checkIn(c echo.Context) error {
	var req CheckInSubmission
	if err := c.Bind(&req); err != nil || req.Org == "" || req.Token == "" || len(req.Appt) == 0 {
		return c.JSON(http.StatusOK, errorResponse("Missing data"))
	}

	result := app.api.checkInTrailer(c.Request().Context(), req.Org, req.Token, req.Appt)

	return c.JSON(http.StatusOK, result)
}

func (app *App) uploadSignature(c echo.Context) error {
	var req UploadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, errorResponse("Missing required fields"))
	}
	if req.Org == "" || req.Token == "" || req.ObjectTypeID == "" || req.ObjectID == "" || req.Filename == "" || req.FileData == "" {
		return c.JSON(http.StatusOK, errorResponse("Missing required fields"))
	}

	result := app.api.uploadSignature(c.Request().Context(), req)

	return c.JSON(http.StatusOK, result)
}
