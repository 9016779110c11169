package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/timestamppb"

	"clinicbook/internal/domain"
	"clinicbook/internal/ratelimit"
	"clinicbook/internal/service/booking"
	"clinicbook/internal/store/memory"
)

func memoryRepo() *memory.Store {
	return memory.New()
}

func startBufconn(t *testing.T, limiter *ratelimit.Limiter) *AppointmentsServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	svc := booking.NewService(memoryRepo(), booking.Options{})
	srv := NewServer(NewAppointmentsServer(svc, discardLogger()), time.Second, limiter)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := gogrpc.NewClient("passthrough:///bufnet",
		gogrpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewAppointmentsServiceClient(conn)
}

func createReq(start time.Time, d time.Duration) *CreateAppointmentRequest {
	return &CreateAppointmentRequest{
		PatientId:  "00000000-0000-0000-0000-000000000001",
		DoctorId:   "00000000-0000-0000-0000-000000000002",
		RoomName:   "Dermatology",
		StartsAt:   timestamppb.New(start),
		FinishesAt: timestamppb.New(start.Add(d)),
	}
}

func TestBufconn_AdmissionScenario(t *testing.T) {
	ctx := context.Background()
	client := startBufconn(t, nil)
	base := time.Date(2023, 4, 24, 19, 30, 0, 0, time.UTC)

	list, err := client.ListAppointments(ctx, &ListAppointmentsRequest{})
	if err != nil {
		t.Fatalf("ListAppointments error: %v", err)
	}
	if len(list.Appointments) != 0 {
		t.Fatalf("expected empty list")
	}

	first, err := client.CreateAppointment(ctx, createReq(base, time.Hour))
	if err != nil {
		t.Fatalf("first create error: %v", err)
	}
	_, err = client.CreateAppointment(ctx, createReq(base.Add(15*time.Minute), 30*time.Minute))
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("nested create code = %v, want %v", status.Code(err), codes.FailedPrecondition)
	}
	if _, err := client.CreateAppointment(ctx, createReq(base.Add(time.Hour), time.Hour)); err != nil {
		t.Fatalf("touching create error: %v", err)
	}
	_, err = client.CreateAppointment(ctx, createReq(base.Add(5*time.Hour), 0))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("empty interval code = %v, want %v", status.Code(err), codes.InvalidArgument)
	}

	got, err := client.GetAppointment(ctx, &GetAppointmentRequest{Id: first.Appointment.Id})
	if err != nil {
		t.Fatalf("GetAppointment error: %v", err)
	}
	a, err := fromProtoAppointment(got.Appointment)
	if err != nil {
		t.Fatalf("fromProtoAppointment error: %v", err)
	}
	if !a.StartsAt.Equal(base) || a.RoomName != "Dermatology" || a.CreatedAt.IsZero() {
		t.Fatalf("unexpected appointment %+v", a)
	}

	if _, err := client.DeleteAppointment(ctx, &DeleteAppointmentRequest{Id: first.Appointment.Id}); err != nil {
		t.Fatalf("DeleteAppointment error: %v", err)
	}
	_, err = client.DeleteAppointment(ctx, &DeleteAppointmentRequest{Id: first.Appointment.Id})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("second delete code = %v, want %v", status.Code(err), codes.NotFound)
	}

	if _, err := client.DeleteAllAppointments(ctx, &DeleteAllAppointmentsRequest{}); err != nil {
		t.Fatalf("DeleteAllAppointments error: %v", err)
	}
	list, err = client.ListAppointments(ctx, &ListAppointmentsRequest{})
	if err != nil {
		t.Fatalf("ListAppointments error: %v", err)
	}
	if len(list.Appointments) != 0 {
		t.Fatalf("len = %d, want 0", len(list.Appointments))
	}
}

func TestBufconn_IdempotentReplayViaMetadata(t *testing.T) {
	client := startBufconn(t, nil)
	base := time.Date(2023, 4, 24, 9, 0, 0, 0, time.UTC)
	ctx := metadata.AppendToOutgoingContext(context.Background(), "idempotency-key", "retry-1")

	a, err := client.CreateAppointment(ctx, createReq(base, time.Hour))
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	b, err := client.CreateAppointment(ctx, createReq(base, time.Hour))
	if err != nil {
		t.Fatalf("replay error: %v", err)
	}
	if a.Appointment.Id != b.Appointment.Id {
		t.Fatalf("replay returned a different id")
	}
}

func TestBufconn_RateLimitsWrites(t *testing.T) {
	client := startBufconn(t, ratelimit.New(0.001, 1))
	ctx := context.Background()

	if _, err := client.DeleteAllAppointments(ctx, &DeleteAllAppointmentsRequest{}); err != nil {
		t.Fatalf("first delete error: %v", err)
	}
	_, err := client.DeleteAllAppointments(ctx, &DeleteAllAppointmentsRequest{})
	if status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("code = %v, want %v", status.Code(err), codes.ResourceExhausted)
	}
	if _, err := client.ListAppointments(ctx, &ListAppointmentsRequest{}); err != nil {
		t.Fatalf("reads must not be limited: %v", err)
	}
}

func TestDefaultRequestTimeoutInterceptor_SetsDeadline(t *testing.T) {
	icpt := DefaultRequestTimeoutInterceptor(50 * time.Millisecond)
	var deadline time.Time
	_, err := icpt(context.Background(), nil, &gogrpc.UnaryServerInfo{}, func(ctx context.Context, req any) (any, error) {
		deadline, _ = ctx.Deadline()
		return nil, nil
	})
	if err != nil {
		t.Fatalf("interceptor error: %v", err)
	}
	if deadline.IsZero() {
		t.Fatalf("expected a deadline")
	}
}

func TestCodec_RoundTripsAppointmentList(t *testing.T) {
	start := time.Date(2023, 4, 24, 19, 30, 0, 123000, time.UTC)
	in := &ListAppointmentsResponse{Appointments: []*Appointment{
		toProtoAppointment(domain.Appointment{ID: uuid.New(), PatientID: uuid.New(), DoctorID: uuid.New(), RoomName: "A", StartsAt: start, FinishesAt: start.Add(time.Hour)}),
		toProtoAppointment(domain.Appointment{ID: uuid.New(), PatientID: uuid.New(), DoctorID: uuid.New(), RoomName: "B", StartsAt: start.Add(time.Hour), FinishesAt: start.Add(2 * time.Hour)}),
	}}

	b, err := Codec{}.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	out := &ListAppointmentsResponse{}
	if err := (Codec{}).Unmarshal(b, out); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if len(out.Appointments) != 2 {
		t.Fatalf("len = %d, want 2", len(out.Appointments))
	}
	if out.Appointments[1].RoomName != "B" || !out.Appointments[0].StartsAt.AsTime().Equal(start) {
		t.Fatalf("unexpected decode %+v", out.Appointments)
	}

	if err := (Codec{}).Unmarshal([]byte{0x0a, 0x05, 0x01}, &ListAppointmentsResponse{}); err == nil {
		t.Fatalf("expected error for truncated input")
	}
}

func fromProtoAppointment(a *Appointment) (domain.Appointment, error) {
	id, err := uuid.Parse(a.Id)
	if err != nil {
		return domain.Appointment{}, err
	}
	patientID, err := uuid.Parse(a.PatientId)
	if err != nil {
		return domain.Appointment{}, err
	}
	doctorID, err := uuid.Parse(a.DoctorId)
	if err != nil {
		return domain.Appointment{}, err
	}
	return domain.Appointment{
		ID:         id,
		PatientID:  patientID,
		DoctorID:   doctorID,
		RoomName:   a.RoomName,
		StartsAt:   timeOf(a.StartsAt),
		FinishesAt: timeOf(a.FinishesAt),
		CreatedAt:  timeOf(a.CreatedAt),
	}, nil
}

func timeOf(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime()
}
