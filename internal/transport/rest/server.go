// Package rest exposes booking and the directory over JSON HTTP.
package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clinicbook/internal/domain"
	"clinicbook/internal/ratelimit"
	"clinicbook/internal/service/booking"
	"clinicbook/internal/service/directory"
)

type BookingService interface {
	Create(ctx context.Context, in booking.CreateInput) (domain.Appointment, error)
	CreateSeries(ctx context.Context, in booking.SeriesInput) ([]domain.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	List(ctx context.Context) ([]domain.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type DirectoryService interface {
	CreateDoctor(ctx context.Context, in directory.PersonInput) (domain.Doctor, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (domain.Doctor, error)
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	DeleteDoctor(ctx context.Context, id uuid.UUID) error
	DeleteAllDoctors(ctx context.Context) error

	CreatePatient(ctx context.Context, in directory.PersonInput) (domain.Patient, error)
	GetPatient(ctx context.Context, id uuid.UUID) (domain.Patient, error)
	ListPatients(ctx context.Context) ([]domain.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error
	DeleteAllPatients(ctx context.Context) error

	CreateRoom(ctx context.Context, name string) (domain.Room, error)
	GetRoom(ctx context.Context, name string) (domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	DeleteRoom(ctx context.Context, name string) error
	DeleteAllRooms(ctx context.Context) error
}

type Deps struct {
	Booking   BookingService
	Directory DirectoryService
	Logger    *slog.Logger

	// Limiter throttles writes per client IP. Nil disables limiting.
	Limiter *ratelimit.Limiter

	// Gatherer backs /metrics. Nil serves the default registry.
	Gatherer prometheus.Gatherer

	// Ready reports whether the backing stores are reachable.
	Ready func(ctx context.Context) error
}

type handler struct {
	booking   BookingService
	directory DirectoryService
	log       *slog.Logger
}

// New builds the echo instance with every route registered.
func New(d Deps) *echo.Echo {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "http"))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestID())
	e.Use(RequestLogger(log))
	e.Use(Recovery(log))

	h := &handler{booking: d.Booking, directory: d.Directory, log: log}
	writes := RateLimit(d.Limiter)

	api := e.Group("/api")
	api.GET("/appointments", h.listAppointments)
	api.GET("/appointments/:id", h.getAppointment)
	api.POST("/appointment", h.createAppointment, writes)
	api.POST("/appointments/series", h.createSeries, writes)
	api.DELETE("/appointments/:id", h.deleteAppointment, writes)
	api.DELETE("/appointments", h.deleteAllAppointments, writes)

	if d.Directory != nil {
		api.GET("/doctors", h.listDoctors)
		api.GET("/doctors/:id", h.getDoctor)
		api.POST("/doctor", h.createDoctor, writes)
		api.DELETE("/doctors/:id", h.deleteDoctor, writes)
		api.DELETE("/doctors", h.deleteAllDoctors, writes)

		api.GET("/patients", h.listPatients)
		api.GET("/patients/:id", h.getPatient)
		api.POST("/patient", h.createPatient, writes)
		api.DELETE("/patients/:id", h.deletePatient, writes)
		api.DELETE("/patients", h.deleteAllPatients, writes)

		api.GET("/rooms", h.listRooms)
		api.GET("/rooms/:roomName", h.getRoom)
		api.POST("/room", h.createRoom, writes)
		api.DELETE("/rooms/:roomName", h.deleteRoom, writes)
		api.DELETE("/rooms", h.deleteAllRooms, writes)
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/readyz", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				log.Warn("readiness check failed", slog.Any("err", err))
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return e
}
