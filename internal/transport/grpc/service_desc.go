package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
)

const serviceName = "clinicbook.v1.AppointmentsService"

// AppointmentsServiceServer is the server API of clinicbook.v1.AppointmentsService.
type AppointmentsServiceServer interface {
	ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	GetAppointment(context.Context, *GetAppointmentRequest) (*GetAppointmentResponse, error)
	CreateAppointment(context.Context, *CreateAppointmentRequest) (*CreateAppointmentResponse, error)
	DeleteAppointment(context.Context, *DeleteAppointmentRequest) (*DeleteAppointmentResponse, error)
	DeleteAllAppointments(context.Context, *DeleteAllAppointmentsRequest) (*DeleteAllAppointmentsResponse, error)
}

func RegisterAppointmentsServiceServer(s gogrpc.ServiceRegistrar, srv AppointmentsServiceServer) {
	s.RegisterService(&appointmentsServiceDesc, srv)
}

// methodHandler matches grpc's unexported MethodDesc handler type.
type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error)

// unaryHandler adapts a typed method to grpc's method handler signature.
func unaryHandler[Req any, Resp any](method string, call func(AppointmentsServiceServer, context.Context, *Req) (*Resp, error)) methodHandler {
	fullMethod := "/" + serviceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AppointmentsServiceServer), ctx, in)
		}
		info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AppointmentsServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var appointmentsServiceDesc = gogrpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AppointmentsServiceServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{
			MethodName: "ListAppointments",
			Handler:    unaryHandler("ListAppointments", AppointmentsServiceServer.ListAppointments),
		},
		{
			MethodName: "GetAppointment",
			Handler:    unaryHandler("GetAppointment", AppointmentsServiceServer.GetAppointment),
		},
		{
			MethodName: "CreateAppointment",
			Handler:    unaryHandler("CreateAppointment", AppointmentsServiceServer.CreateAppointment),
		},
		{
			MethodName: "DeleteAppointment",
			Handler:    unaryHandler("DeleteAppointment", AppointmentsServiceServer.DeleteAppointment),
		},
		{
			MethodName: "DeleteAllAppointments",
			Handler:    unaryHandler("DeleteAllAppointments", AppointmentsServiceServer.DeleteAllAppointments),
		},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "clinicbook/v1/appointments.proto",
}

// AppointmentsServiceClient calls clinicbook.v1.AppointmentsService with
// the wire codec forced on every call.
type AppointmentsServiceClient struct {
	cc gogrpc.ClientConnInterface
}

func NewAppointmentsServiceClient(cc gogrpc.ClientConnInterface) *AppointmentsServiceClient {
	return &AppointmentsServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc gogrpc.ClientConnInterface, method string, in any, opts []gogrpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]gogrpc.CallOption{gogrpc.ForceCodec(Codec{})}, opts...)
	if err := cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AppointmentsServiceClient) ListAppointments(ctx context.Context, in *ListAppointmentsRequest, opts ...gogrpc.CallOption) (*ListAppointmentsResponse, error) {
	return invoke[ListAppointmentsResponse](ctx, c.cc, "ListAppointments", in, opts)
}

func (c *AppointmentsServiceClient) GetAppointment(ctx context.Context, in *GetAppointmentRequest, opts ...gogrpc.CallOption) (*GetAppointmentResponse, error) {
	return invoke[GetAppointmentResponse](ctx, c.cc, "GetAppointment", in, opts)
}

func (c *AppointmentsServiceClient) CreateAppointment(ctx context.Context, in *CreateAppointmentRequest, opts ...gogrpc.CallOption) (*CreateAppointmentResponse, error) {
	return invoke[CreateAppointmentResponse](ctx, c.cc, "CreateAppointment", in, opts)
}

func (c *AppointmentsServiceClient) DeleteAppointment(ctx context.Context, in *DeleteAppointmentRequest, opts ...gogrpc.CallOption) (*DeleteAppointmentResponse, error) {
	return invoke[DeleteAppointmentResponse](ctx, c.cc, "DeleteAppointment", in, opts)
}

func (c *AppointmentsServiceClient) DeleteAllAppointments(ctx context.Context, in *DeleteAllAppointmentsRequest, opts ...gogrpc.CallOption) (*DeleteAllAppointmentsResponse, error) {
	return invoke[DeleteAllAppointmentsResponse](ctx, c.cc, "DeleteAllAppointments", in, opts)
}
