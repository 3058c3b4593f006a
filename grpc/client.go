package cfdategrpc

import (
	"context"
	"fmt"
	"math"

	"github.com/blockberries/cfdate"
	"github.com/blockberries/cfdate/server"
	"github.com/blockberries/cfdate/types"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Compile-time interface check.
var _ cfdate.Connection = (*Client)(nil)

// Client implements cfdate.Connection for remote converters over
// gRPC using cramberry serialization. No protobuf types or
// conversion layer required. Safe for concurrent use.
type Client struct {
	cc *grpc.ClientConn
}

// Dial connects to a remote cfdate server.
func Dial(ctx context.Context, addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append(opts, grpc.WithDefaultCallOptions(
		grpc.ForceCodec(CramberryCodec{}),
	))
	cc, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("cfdate client: dial %s: %w", addr, err)
	}
	return &Client{cc: cc}, nil
}

func (c *Client) Close() error {
	return c.cc.Close()
}

func (c *Client) Convert(ctx context.Context, values types.Array, units ...types.TimeUnit) (types.Result, error) {
	shape, wire := arrayToWire(values)
	req := &ConvertRequest{Shape: shape, Values: wire, Units: units}
	resp := new(ConvertResponse)
	if err := c.cc.Invoke(outgoing(ctx), fullMethod("Convert"), req, resp); err != nil {
		return types.Result{}, err
	}
	if resp.Error != nil {
		return types.Result{}, errorFromWire(resp.Error)
	}
	return resultFromWire(resp.Result), nil
}

func (c *Client) Scalar(ctx context.Context, value float64, unit types.TimeUnit) (types.Date, error) {
	req := &ScalarRequest{Bits: math.Float64bits(value), Unit: unit}
	resp := new(ScalarResponse)
	if err := c.cc.Invoke(outgoing(ctx), fullMethod("Scalar"), req, resp); err != nil {
		return types.Date{}, err
	}
	if resp.Error != nil {
		return types.Date{}, errorFromWire(resp.Error)
	}
	return resp.Date, nil
}

func (c *Client) Offset(ctx context.Context, date types.Date, unit types.TimeUnit) (float64, error) {
	req := &OffsetRequest{Date: date, Unit: unit}
	resp := new(OffsetResponse)
	if err := c.cc.Invoke(outgoing(ctx), fullMethod("Offset"), req, resp); err != nil {
		return 0, err
	}
	if resp.Error != nil {
		return 0, errorFromWire(resp.Error)
	}
	return math.Float64frombits(resp.Bits), nil
}

func (c *Client) Calendars(ctx context.Context) ([]types.CalendarKind, error) {
	resp := new(CalendarsResponse)
	if err := c.cc.Invoke(outgoing(ctx), fullMethod("Calendars"), &CalendarsRequest{}, resp); err != nil {
		return nil, err
	}
	return kindsFromWire(resp.Kinds), nil
}

// outgoing forwards a request id carried by ctx to the server.
func outgoing(ctx context.Context) context.Context {
	if id, ok := server.RequestIDFrom(ctx); ok {
		return metadata.AppendToOutgoingContext(ctx, requestIDHeader, id)
	}
	return ctx
}
