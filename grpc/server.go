package cfdategrpc

import (
	"context"
	"errors"
	"math"
	"net"

	"github.com/blockberries/cfdate"
	"github.com/blockberries/cfdate/server"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// requestIDHeader is the metadata key a client may use to supply its
// own request id.
const requestIDHeader = "x-request-id"

// Compile-time interface check.
var _ ConverterServiceServer = (*GRPCServer)(nil)

// GRPCServer exposes a cfdate server over gRPC. Domain errors are
// returned inside the response; only transport and internal failures
// become gRPC status errors.
type GRPCServer struct {
	srv *server.Server
}

// NewGRPCServer creates a gRPC server wrapping the given converter.
func NewGRPCServer(conv cfdate.Converter, opts ...server.Option) *GRPCServer {
	return &GRPCServer{
		srv: server.New(conv, opts...),
	}
}

// Register adds the cfdate service to a gRPC server.
func (s *GRPCServer) Register(gs *grpc.Server) {
	RegisterConverterServiceServer(gs, s)
}

// Serve starts the gRPC server on the given listener.
func (s *GRPCServer) Serve(lis net.Listener, opts ...grpc.ServerOption) error {
	gs := grpc.NewServer(opts...)
	s.Register(gs)
	return gs.Serve(lis)
}

// Stop gracefully stops the gRPC server.
func (s *GRPCServer) Stop(gs *grpc.Server) {
	gs.GracefulStop()
	_ = s.srv.Close()
}

// Server returns the underlying server for advanced use.
func (s *GRPCServer) Server() *server.Server {
	return s.srv
}

// --- Conversion RPCs ---

func (s *GRPCServer) Convert(ctx context.Context, req *ConvertRequest) (*ConvertResponse, error) {
	values := arrayFromWire(req.Shape, req.Values)
	res, err := s.srv.Convert(withIncomingRequestID(ctx), values, req.Units...)
	if err != nil {
		m, err := replyError(err)
		if err != nil {
			return nil, err
		}
		return &ConvertResponse{Error: m}, nil
	}
	return &ConvertResponse{Result: resultToWire(res)}, nil
}

func (s *GRPCServer) Scalar(ctx context.Context, req *ScalarRequest) (*ScalarResponse, error) {
	d, err := s.srv.Scalar(withIncomingRequestID(ctx), math.Float64frombits(req.Bits), req.Unit)
	if err != nil {
		m, err := replyError(err)
		if err != nil {
			return nil, err
		}
		return &ScalarResponse{Error: m}, nil
	}
	return &ScalarResponse{Date: d}, nil
}

func (s *GRPCServer) Offset(ctx context.Context, req *OffsetRequest) (*OffsetResponse, error) {
	v, err := s.srv.Offset(withIncomingRequestID(ctx), req.Date, req.Unit)
	if err != nil {
		m, err := replyError(err)
		if err != nil {
			return nil, err
		}
		return &OffsetResponse{Error: m}, nil
	}
	return &OffsetResponse{Bits: math.Float64bits(v)}, nil
}

func (s *GRPCServer) Calendars(ctx context.Context, _ *CalendarsRequest) (*CalendarsResponse, error) {
	kinds, err := s.srv.Calendars(withIncomingRequestID(ctx))
	if err != nil {
		return nil, statusError(err)
	}
	return &CalendarsResponse{Kinds: kindsToWire(kinds)}, nil
}

// replyError splits err into a domain error message or a status error.
func replyError(err error) (*ErrorMessage, error) {
	if m, ok := errorToWire(err); ok {
		return m, nil
	}
	return nil, statusError(err)
}

func statusError(err error) error {
	if errors.Is(err, server.ErrClosed) {
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func withIncomingRequestID(ctx context.Context) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	if ids := md.Get(requestIDHeader); len(ids) > 0 && ids[0] != "" {
		return server.WithRequestID(ctx, ids[0])
	}
	return ctx
}
