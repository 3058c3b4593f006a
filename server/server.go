package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/blockberries/cfdate"
	"github.com/blockberries/cfdate/calendar"
	"github.com/blockberries/cfdate/observability"
	"github.com/blockberries/cfdate/types"
	"github.com/google/uuid"
)

// Compile-time interface check.
var _ cfdate.Connection = (*Server)(nil)

// Server wraps a converter with request ids, element limits, logging
// and metrics. Transports drive conversions exclusively through this
// server.
type Server struct {
	conv        cfdate.Converter
	cals        cfdate.CalendarSource
	maxElements int
	logger      *slog.Logger
	obs         observability.ConvertObserver
	guard       *closeGuard
}

// Option configures a Server.
type Option func(*Server)

// WithMaxElements caps the number of elements per Convert call.
// Zero means no limit.
func WithMaxElements(n int) Option {
	return func(s *Server) { s.maxElements = n }
}

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithObserver sets the metrics observer.
func WithObserver(obs observability.ConvertObserver) Option {
	return func(s *Server) { s.obs = obs }
}

// WithCalendars sets the source listed by Calendars. By default the
// converter's own source is used when it exposes one.
func WithCalendars(src cfdate.CalendarSource) Option {
	return func(s *Server) { s.cals = src }
}

// New creates a new Server wrapping the given converter.
func New(conv cfdate.Converter, opts ...Option) *Server {
	s := &Server{conv: conv, guard: newCloseGuard()}
	if cs, ok := conv.(interface{ Calendars() cfdate.CalendarSource }); ok {
		s.cals = cs.Calendars()
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cals == nil {
		s.cals = calendar.Default()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.obs == nil {
		s.obs = observability.NoopConvertObserver
	}
	return s
}

// Convert converts a container of offsets. Safe for concurrent use.
func (s *Server) Convert(ctx context.Context, values types.Array, units ...types.TimeUnit) (types.Result, error) {
	ctx, done, err := s.begin(ctx, observability.OpConvert)
	if err != nil {
		return types.Result{}, err
	}
	n, masked := values.Len(), countMasked(values)
	s.obs.Elements(calendarLabel(units), n, masked)

	if s.maxElements > 0 && n > s.maxElements {
		err := fmt.Errorf("%w: %d elements, limit %d", cfdate.ErrTooLarge, n, s.maxElements)
		done(err, slog.Int("elements", n))
		return types.Result{}, err
	}

	res, err := s.conv.Convert(ctx, values, units...)
	done(err,
		slog.Int("elements", n),
		slog.Int("masked", masked),
		slog.Int("units", len(units)),
	)
	return res, err
}

// Scalar converts a single offset. Safe for concurrent use.
func (s *Server) Scalar(ctx context.Context, value float64, unit types.TimeUnit) (types.Date, error) {
	ctx, done, err := s.begin(ctx, observability.OpScalar)
	if err != nil {
		return types.Date{}, err
	}
	s.obs.Elements(unit.Calendar.String(), 1, 0)

	d, err := s.conv.Scalar(ctx, value, unit)
	done(err, slog.Float64("value", value), slog.String("unit", unit.String()))
	return d, err
}

// Offset maps a date back to a number in unit. Safe for concurrent use.
func (s *Server) Offset(ctx context.Context, date types.Date, unit types.TimeUnit) (float64, error) {
	ctx, done, err := s.begin(ctx, observability.OpOffset)
	if err != nil {
		return 0, err
	}
	v, err := s.conv.Offset(ctx, date, unit)
	done(err, slog.String("date", date.String()), slog.String("unit", unit.String()))
	return v, err
}

// Calendars lists the calendar kinds the server can convert in.
func (s *Server) Calendars(ctx context.Context) ([]types.CalendarKind, error) {
	_, done, err := s.begin(ctx, observability.OpCalendars)
	if err != nil {
		return nil, err
	}
	kinds := s.cals.Kinds()
	done(nil, slog.Int("calendars", len(kinds)))
	return kinds, nil
}

// Close stops the server from accepting new calls. In-flight calls
// complete normally. Close is idempotent.
func (s *Server) Close() error {
	s.guard.close()
	return nil
}

// begin tags ctx with a request id and returns a completion callback
// that logs the call and reports it to the observer.
func (s *Server) begin(ctx context.Context, op observability.Op) (context.Context, func(error, ...slog.Attr), error) {
	if err := s.guard.check(); err != nil {
		return ctx, nil, err
	}
	id, ok := RequestIDFrom(ctx)
	if !ok {
		id = uuid.New().String()
		ctx = WithRequestID(ctx, id)
	}
	start := time.Now()

	return ctx, func(err error, attrs ...slog.Attr) {
		d := time.Since(start)
		kind := cfdate.KindOf(err)
		result := observability.ResultOK
		if err != nil {
			result = observability.ResultError
		}
		s.obs.Call(op, result, kind.String(), d)

		attrs = append(attrs,
			slog.String("request_id", id),
			slog.String("op", string(op)),
			slog.Duration("duration", d),
		)
		if err != nil {
			attrs = append(attrs, slog.String("kind", kind.String()), slog.String("error", err.Error()))
			s.logger.LogAttrs(ctx, slog.LevelWarn, "cfdate call failed", attrs...)
			return
		}
		s.logger.LogAttrs(ctx, slog.LevelDebug, "cfdate call", attrs...)
	}, nil
}

func countMasked(values types.Array) int {
	n := 0
	for _, v := range values.Data {
		if !v.Valid {
			n++
		}
	}
	return n
}

// calendarLabel names the calendar of a unit list for metrics.
// Heterogeneous lists are labelled "mixed".
func calendarLabel(units []types.TimeUnit) string {
	if len(units) == 0 {
		return "none"
	}
	kind := units[0].Calendar
	for _, u := range units[1:] {
		if u.Calendar != kind {
			return "mixed"
		}
	}
	return kind.String()
}

type requestIDKey struct{}

// WithRequestID returns a context carrying the request id. The server
// reuses it instead of generating a new one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request id carried by ctx.
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}
