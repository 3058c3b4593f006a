package cfdategrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

const serviceName = "cfdate.v1.ConverterService"

// ConverterServiceServer is the server-side interface for the cfdate gRPC service.
type ConverterServiceServer interface {
	Convert(context.Context, *ConvertRequest) (*ConvertResponse, error)
	Scalar(context.Context, *ScalarRequest) (*ScalarResponse, error)
	Offset(context.Context, *OffsetRequest) (*OffsetResponse, error)
	Calendars(context.Context, *CalendarsRequest) (*CalendarsResponse, error)
}

// RegisterConverterServiceServer registers the ConverterServiceServer on a gRPC server.
func RegisterConverterServiceServer(s *grpc.Server, srv ConverterServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

// --- Handler functions ---

func handlerConvert(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(ConvertRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ConverterServiceServer).Convert(ctx, req)
}

func handlerScalar(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(ScalarRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ConverterServiceServer).Scalar(ctx, req)
}

func handlerOffset(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(OffsetRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ConverterServiceServer).Offset(ctx, req)
}

func handlerCalendars(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(CalendarsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ConverterServiceServer).Calendars(ctx, req)
}

// fullMethod builds the full gRPC method path.
func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", serviceName, method)
}

// serviceDesc is the manual gRPC service descriptor for cfdate.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ConverterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Convert", Handler: handlerConvert},
		{MethodName: "Scalar", Handler: handlerScalar},
		{MethodName: "Offset", Handler: handlerOffset},
		{MethodName: "Calendars", Handler: handlerCalendars},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cfdate/v1/service.cram",
}
