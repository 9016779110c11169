package rest

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"clinicbook/internal/domain"
	"clinicbook/internal/service/booking"
)

type appointmentRequest struct {
	PatientID  uuid.UUID `json:"patientId"`
	DoctorID   uuid.UUID `json:"doctorId"`
	RoomName   string    `json:"roomName"`
	StartsAt   time.Time `json:"startsAt"`
	FinishesAt time.Time `json:"finishesAt"`
}

type weeklyRuleRequest struct {
	Interval int        `json:"interval"`
	Weekdays []int16    `json:"weekdays"`
	Until    *time.Time `json:"until"`
	Count    *int       `json:"count"`
	TimeZone string     `json:"timeZone"`
}

type seriesRequest struct {
	appointmentRequest
	Weekly weeklyRuleRequest `json:"weekly"`
}

// listAppointments handles GET /api/appointments. An empty store answers
// 204 with no body.
func (h *handler) listAppointments(c echo.Context) error {
	appts, err := h.booking.List(c.Request().Context())
	if err != nil {
		return h.fail(c, "appointments list", err)
	}
	if len(appts) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, appts)
}

func (h *handler) getAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a UUID")
	}
	appt, err := h.booking.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "appointment get", err)
	}
	return c.JSON(http.StatusOK, appt)
}

// createAppointment handles POST /api/appointment. The stored appointment
// is returned as a one-element array.
func (h *handler) createAppointment(c echo.Context) error {
	var req appointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment body")
	}

	appt, err := h.booking.Create(c.Request().Context(), booking.CreateInput{
		PatientID:      req.PatientID,
		DoctorID:       req.DoctorID,
		RoomName:       req.RoomName,
		StartsAt:       req.StartsAt,
		FinishesAt:     req.FinishesAt,
		IdempotencyKey: idempotencyKey(c),
	})
	if err != nil {
		return h.fail(c, "appointment create", err)
	}

	h.log.Info("appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.Time("starts_at", appt.StartsAt),
		slog.Time("finishes_at", appt.FinishesAt),
	)
	return c.JSON(http.StatusOK, []domain.Appointment{appt})
}

func (h *handler) createSeries(c echo.Context) error {
	var req seriesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid series body")
	}

	appts, err := h.booking.CreateSeries(c.Request().Context(), booking.SeriesInput{
		PatientID:  req.PatientID,
		DoctorID:   req.DoctorID,
		RoomName:   req.RoomName,
		StartsAt:   req.StartsAt,
		FinishesAt: req.FinishesAt,
		Rule: booking.WeeklyRuleInput{
			Interval: req.Weekly.Interval,
			Weekdays: req.Weekly.Weekdays,
			Until:    req.Weekly.Until,
			Count:    req.Weekly.Count,
			TimeZone: req.Weekly.TimeZone,
		},
	})
	if err != nil {
		return h.fail(c, "series create", err)
	}

	h.log.Info("series created", slog.Int("occurrences", len(appts)))
	return c.JSON(http.StatusOK, appts)
}

func (h *handler) deleteAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a UUID")
	}
	if err := h.booking.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, "appointment delete", err)
	}
	h.log.Info("appointment deleted", slog.String("appointment_id", id.String()))
	return c.NoContent(http.StatusOK)
}

func (h *handler) deleteAllAppointments(c echo.Context) error {
	if err := h.booking.DeleteAll(c.Request().Context()); err != nil {
		return h.fail(c, "appointments delete all", err)
	}
	h.log.Info("appointments deleted")
	return c.NoContent(http.StatusOK)
}

func idempotencyKey(c echo.Context) string {
	key := c.Request().Header.Get("Idempotency-Key")
	if key == "" {
		key = c.Request().Header.Get("X-Idempotency-Key")
	}
	return strings.TrimSpace(key)
}
