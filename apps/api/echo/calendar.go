package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kazadi/ratiba/core"
	"github.com/kazadi/ratiba/core/calendar"
)

type calendarApi struct {
	svc *calendar.Service
}

func registerCalendarAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *calendar.Service) {
	api := calendarApi{svc: svc}

	cg := g.Group("/calendar", jwt)
	cg.POST("", api.create)
	cg.GET("", api.retrieve)
	cg.GET("/days/:day", api.retrieveDay)

	ca := cg.Group("/assignments/:id")
	ca.GET("", api.retrieveAssignment)
	ca.POST("/assign", api.assignAssignment)
	ca.POST("/unassign", api.unassignAssignment)

	co := cg.Group("/office-hours/:id")
	co.GET("", api.retrieveOfficeHours)
	co.POST("/assign", api.assignOfficeHours)
	co.POST("/unassign", api.unassignOfficeHours)
}

// DayResponse is a day bucket with its references resolved to the mirror records.
type DayResponse struct {
	Day         string                 `json:"day"`
	Assignments []calendar.Assignment  `json:"assignments"`
	OfficeHours []calendar.OfficeHours `json:"office_hours"`
}

// Handlers

func (api *calendarApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	cal, err := api.svc.CreateCalendar(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, cal)
}

func (api *calendarApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	cal, err := api.svc.GetCalendarByOwner(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cal)
}

func (api *calendarApi) retrieveDay(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	day, err := calendar.ParseDayKey(ctx.Param("day"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "day", Error: "must be a YYYY-MM-DD date"})
	}
	dayKey := calendar.DayKey(day)

	reqCtx := ctx.Request().Context()
	cal, err := api.svc.GetCalendarByOwner(reqCtx, claims.Subject)
	if err != nil {
		return err
	}
	refs, err := api.svc.ReferencesOnDay(reqCtx, cal.ID, dayKey)
	if err != nil {
		return errors.Wrap(err, "querying day references")
	}

	// resolve references; a ref whose mirror vanished mid-request is skipped
	resp := DayResponse{
		Day:         dayKey,
		Assignments: make([]calendar.Assignment, 0, len(refs.Assignments)),
		OfficeHours: make([]calendar.OfficeHours, 0, len(refs.OfficeHours)),
	}
	for _, id := range refs.Assignments {
		if a, err := api.svc.GetAssignment(reqCtx, id); err == nil {
			resp.Assignments = append(resp.Assignments, a)
		}
	}
	for _, id := range refs.OfficeHours {
		if oh, err := api.svc.GetOfficeHours(reqCtx, id); err == nil {
			resp.OfficeHours = append(resp.OfficeHours, oh)
		}
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *calendarApi) retrieveAssignment(ctx echo.Context) error {
	a, err := api.svc.GetAssignment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *calendarApi) assignAssignment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	bkt, err := api.svc.AssignAssignment(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, bkt)
}

func (api *calendarApi) unassignAssignment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.UnassignAssignment(ctx.Request().Context(), claims.Subject, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *calendarApi) retrieveOfficeHours(ctx echo.Context) error {
	oh, err := api.svc.GetOfficeHours(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, oh)
}

func (api *calendarApi) assignOfficeHours(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	bkt, err := api.svc.AssignOfficeHours(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, bkt)
}

func (api *calendarApi) unassignOfficeHours(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.UnassignOfficeHours(ctx.Request().Context(), claims.Subject, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
