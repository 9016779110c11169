package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"clinicbook/internal/service/booking"
	"clinicbook/internal/service/directory"
	"clinicbook/internal/store"
)

// statusFor maps service and store errors onto HTTP status codes.
func statusFor(err error) int {
	var bErr *booking.ValidationError
	var dErr *directory.ValidationError
	switch {
	case errors.As(err, &bErr), errors.As(err, &dErr):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrMalformedInterval), errors.Is(err, booking.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrSchedulingConflict):
		return http.StatusNotAcceptable
	case errors.Is(err, store.ErrIdempotencyConflict), errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) fail(c echo.Context, op string, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.log.Error(op+" failed", slog.Any("err", err))
		return echo.NewHTTPError(code, "internal error")
	}
	h.log.Info(op+" rejected", slog.Int("status", code), slog.String("reason", err.Error()))
	return echo.NewHTTPError(code, err.Error())
}
