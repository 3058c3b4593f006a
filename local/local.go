// Package local provides a zero-copy, in-process cfdate connection.
//
// For callers compiled into the same binary as the converter, this
// adapter routes calls through the same server wrapper the gRPC
// transport uses, with no serialization overhead.
package local

import (
	"context"

	"github.com/blockberries/cfdate"
	"github.com/blockberries/cfdate/server"
	"github.com/blockberries/cfdate/types"
)

// Compile-time interface check.
var _ cfdate.Connection = (*Connection)(nil)

// Connection wraps a local converter with request ids, limits,
// logging and metrics.
type Connection struct {
	srv *server.Server
}

// NewConnection creates an in-process cfdate connection wrapping
// the given converter.
func NewConnection(conv cfdate.Converter, opts ...server.Option) *Connection {
	return &Connection{srv: server.New(conv, opts...)}
}

func (c *Connection) Convert(ctx context.Context, values types.Array, units ...types.TimeUnit) (types.Result, error) {
	return c.srv.Convert(ctx, values, units...)
}

func (c *Connection) Scalar(ctx context.Context, value float64, unit types.TimeUnit) (types.Date, error) {
	return c.srv.Scalar(ctx, value, unit)
}

func (c *Connection) Offset(ctx context.Context, date types.Date, unit types.TimeUnit) (float64, error) {
	return c.srv.Offset(ctx, date, unit)
}

func (c *Connection) Calendars(ctx context.Context) ([]types.CalendarKind, error) {
	return c.srv.Calendars(ctx)
}

// Close closes the underlying server.
func (c *Connection) Close() error { return c.srv.Close() }

// Server returns the underlying server for advanced use.
func (c *Connection) Server() *server.Server {
	return c.srv
}
