package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"clinicbook/internal/domain"
	"clinicbook/internal/service/booking"
	"clinicbook/internal/store"
)

type AppointmentsServer struct {
	svc appointmentsService
	log *slog.Logger
}

var _ AppointmentsServiceServer = (*AppointmentsServer)(nil)

type appointmentsService interface {
	Create(ctx context.Context, in booking.CreateInput) (domain.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	List(ctx context.Context) ([]domain.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

func NewAppointmentsServer(svc appointmentsService, log *slog.Logger) *AppointmentsServer {
	if log == nil {
		log = slog.Default()
	}
	return &AppointmentsServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.appointments")),
	}
}

func (s *AppointmentsServer) CreateAppointment(ctx context.Context, req *CreateAppointmentRequest) (*CreateAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.StartsAt == nil || req.FinishesAt == nil {
		log.Warn("invalid request", slog.String("reason", "missing_times"))
		return nil, status.Error(codes.InvalidArgument, "starts_at and finishes_at are required")
	}
	patientID, err := uuid.Parse(req.PatientId)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_patient_id"))
		return nil, status.Error(codes.InvalidArgument, "patient_id must be a UUID")
	}
	doctorID, err := uuid.Parse(req.DoctorId)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_doctor_id"))
		return nil, status.Error(codes.InvalidArgument, "doctor_id must be a UUID")
	}

	appt, err := s.svc.Create(ctx, booking.CreateInput{
		PatientID:      patientID,
		DoctorID:       doctorID,
		RoomName:       req.RoomName,
		StartsAt:       req.StartsAt.AsTime(),
		FinishesAt:     req.FinishesAt.AsTime(),
		IdempotencyKey: idempotencyKey(ctx),
	})
	if err != nil {
		if errors.Is(err, booking.ErrSchedulingConflict) {
			log.Info(
				"appointment create conflict",
				slog.String("room_name", req.RoomName),
				slog.Time("starts_at", req.StartsAt.AsTime()),
				slog.Time("finishes_at", req.FinishesAt.AsTime()),
			)
			return nil, status.Error(codes.FailedPrecondition, "Another appointment already occupies that time. Pick a different slot.")
		}
		if errors.Is(err, store.ErrIdempotencyConflict) {
			log.Info("appointment create idempotency conflict")
			return nil, status.Error(codes.FailedPrecondition, "This request key was already used for a different appointment. Try again.")
		}
		var vErr *booking.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err))
			return nil, status.Error(codes.InvalidArgument, vErr.Error())
		}
		return nil, s.internal(log, "appointment create failed", err)
	}

	log.Info(
		"appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.Time("starts_at", appt.StartsAt),
		slog.Time("finishes_at", appt.FinishesAt),
	)

	return &CreateAppointmentResponse{Appointment: toProtoAppointment(appt)}, nil
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("idempotency-key")
	if len(values) == 0 {
		values = md.Get("x-idempotency-key")
	}
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func (s *AppointmentsServer) ListAppointments(ctx context.Context, req *ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListAppointments"))

	appts, err := s.svc.List(ctx)
	if err != nil {
		return nil, s.internal(log, "appointments list failed", err)
	}

	out := make([]*Appointment, 0, len(appts))
	for _, a := range appts {
		out = append(out, toProtoAppointment(a))
	}

	log.Debug("appointments listed", slog.Int("count", len(out)))
	return &ListAppointmentsResponse{Appointments: out}, nil
}

func (s *AppointmentsServer) GetAppointment(ctx context.Context, req *GetAppointmentRequest) (*GetAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "GetAppointment"))

	id, err := parseAppointmentID(log, req.GetId())
	if err != nil {
		return nil, err
	}

	appt, err := s.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("appointment not found", slog.String("appointment_id", id.String()))
			return nil, status.Error(codes.NotFound, "appointment not found")
		}
		var vErr *booking.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err), slog.String("appointment_id", id.String()))
			return nil, status.Error(codes.InvalidArgument, vErr.Error())
		}
		return nil, s.internal(log, "appointment get failed", err)
	}
	return &GetAppointmentResponse{Appointment: toProtoAppointment(appt)}, nil
}

func (s *AppointmentsServer) DeleteAppointment(ctx context.Context, req *DeleteAppointmentRequest) (*DeleteAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "DeleteAppointment"))

	id, err := parseAppointmentID(log, req.GetId())
	if err != nil {
		return nil, err
	}

	if err := s.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("appointment not found", slog.String("appointment_id", id.String()))
			return nil, status.Error(codes.NotFound, "appointment not found")
		}
		var vErr *booking.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err), slog.String("appointment_id", id.String()))
			return nil, status.Error(codes.InvalidArgument, vErr.Error())
		}
		return nil, s.internal(log, "appointment delete failed", err, slog.String("appointment_id", id.String()))
	}

	log.Info("appointment deleted", slog.String("appointment_id", id.String()))
	return &DeleteAppointmentResponse{}, nil
}

func (s *AppointmentsServer) DeleteAllAppointments(ctx context.Context, req *DeleteAllAppointmentsRequest) (*DeleteAllAppointmentsResponse, error) {
	log := s.log.With(slog.String("rpc", "DeleteAllAppointments"))

	if err := s.svc.DeleteAll(ctx); err != nil {
		return nil, s.internal(log, "appointments delete all failed", err)
	}

	log.Info("appointments deleted")
	return &DeleteAllAppointmentsResponse{}, nil
}

func (s *AppointmentsServer) internal(log *slog.Logger, msg string, err error, attrs ...any) error {
	if errors.Is(err, context.DeadlineExceeded) {
		log.Warn(msg, append([]any{slog.Any("err", err)}, attrs...)...)
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}
	log.Error(msg, append([]any{slog.Any("err", err)}, attrs...)...)
	return status.Error(codes.Internal, "internal error")
}

func parseAppointmentID(log *slog.Logger, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		return uuid.Nil, status.Error(codes.InvalidArgument, "id must be a UUID")
	}
	return id, nil
}

func (m *GetAppointmentRequest) GetId() string {
	if m == nil {
		return ""
	}
	return m.Id
}

func (m *DeleteAppointmentRequest) GetId() string {
	if m == nil {
		return ""
	}
	return m.Id
}

func toProtoAppointment(a domain.Appointment) *Appointment {
	return &Appointment{
		Id:         a.ID.String(),
		PatientId:  a.PatientID.String(),
		DoctorId:   a.DoctorID.String(),
		RoomName:   a.RoomName,
		StartsAt:   timestamppb.New(a.StartsAt),
		FinishesAt: timestamppb.New(a.FinishesAt),
		CreatedAt:  timestamppb.New(a.CreatedAt),
	}
}
