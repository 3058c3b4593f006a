package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blockberries/cfdate"
	"github.com/blockberries/cfdate/calendar"
	"github.com/blockberries/cfdate/convert"
	"github.com/blockberries/cfdate/observability"
	cfdatetest "github.com/blockberries/cfdate/testing"
	"github.com/blockberries/cfdate/types"
)

// recordingObserver keeps every event for inspection.
type recordingObserver struct {
	mu       sync.Mutex
	calls    []string
	elements map[string]int
	masked   map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{elements: map[string]int{}, masked: map[string]int{}}
}

func (o *recordingObserver) Call(op observability.Op, result observability.Result, kind string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, string(op)+"/"+string(result)+"/"+kind)
}

func (o *recordingObserver) Elements(cal string, total, masked int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.elements[cal] += total
	o.masked[cal] += masked
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestServer_Convert(t *testing.T) {
	obs := newRecordingObserver()
	s := New(convert.New(), WithObserver(obs), WithLogger(newTestLogger(&bytes.Buffer{})))

	in, _ := types.Masked([]float64{20, 40, 60}, []bool{false, true, false})
	res, err := s.Convert(context.Background(), in, types.UnixUnit(types.Seconds, types.Day360))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(res.Data) != 3 || res.Data[1].Valid {
		t.Fatalf("unexpected result: %+v", res.Data)
	}
	if obs.elements["360_day"] != 3 || obs.masked["360_day"] != 1 {
		t.Errorf("unexpected element metrics: %v / %v", obs.elements, obs.masked)
	}
	if len(obs.calls) != 1 || obs.calls[0] != "convert/ok/ok" {
		t.Errorf("unexpected call metrics: %v", obs.calls)
	}
}

func TestServer_MaxElements(t *testing.T) {
	mock := &cfdatetest.MockConverter{}
	obs := newRecordingObserver()
	s := New(mock, WithMaxElements(2), WithObserver(obs), WithLogger(newTestLogger(&bytes.Buffer{})))

	_, err := s.Convert(context.Background(), types.Vector(1, 2, 3), types.UnixUnit(types.Seconds, types.Standard))
	if !errors.Is(err, cfdate.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if mock.ConvertCalls.Load() != 0 {
		t.Error("converter should not be called over the limit")
	}
	if obs.calls[0] != "convert/error/too_large" {
		t.Errorf("unexpected call metrics: %v", obs.calls)
	}

	if _, err := s.Convert(context.Background(), types.Vector(1, 2), types.UnixUnit(types.Seconds, types.Standard)); err != nil {
		t.Fatalf("Convert at limit: %v", err)
	}
}

func TestServer_LogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	s := New(convert.New(), WithLogger(newTestLogger(&buf)))

	ctx := WithRequestID(context.Background(), "req-42")
	if _, err := s.Scalar(ctx, 5, types.UnixUnit(types.Seconds, types.Standard)); err != nil {
		t.Fatalf("Scalar: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "request_id=req-42") {
		t.Errorf("log missing request id: %s", out)
	}
	if !strings.Contains(out, "level=DEBUG") {
		t.Errorf("successful call should log at debug: %s", out)
	}
}

func TestServer_GeneratesRequestID(t *testing.T) {
	var seen []string
	mock := &cfdatetest.MockConverter{
		ScalarFn: func(ctx context.Context, _ float64, u types.TimeUnit) (types.Date, error) {
			id, ok := RequestIDFrom(ctx)
			if !ok {
				t.Error("converter context carries no request id")
			}
			seen = append(seen, id)
			return u.Epoch, nil
		},
	}
	s := New(mock, WithLogger(newTestLogger(&bytes.Buffer{})))
	unit := types.UnixUnit(types.Seconds, types.Standard)
	for i := 0; i < 2; i++ {
		if _, err := s.Scalar(context.Background(), 1, unit); err != nil {
			t.Fatalf("Scalar: %v", err)
		}
	}
	if len(seen) != 2 || seen[0] == seen[1] {
		t.Errorf("expected two distinct request ids, got %v", seen)
	}
}

func TestServer_ErrorLoggedAtWarn(t *testing.T) {
	var buf bytes.Buffer
	obs := newRecordingObserver()
	s := New(convert.New(), WithLogger(newTestLogger(&buf)), WithObserver(obs))

	u := types.UnixUnit(types.Seconds, types.Standard)
	_, err := s.Convert(context.Background(), types.Vector(1, 2, 3), u, u)
	if !errors.Is(err, cfdate.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "level=WARN") || !strings.Contains(out, "kind=shape_mismatch") {
		t.Errorf("unexpected log output: %s", out)
	}
	if obs.calls[0] != "convert/error/shape_mismatch" {
		t.Errorf("unexpected call metrics: %v", obs.calls)
	}
}

func TestServer_Offset(t *testing.T) {
	s := New(convert.New(), WithLogger(newTestLogger(&bytes.Buffer{})))
	v, err := s.Offset(context.Background(),
		types.NewDate(types.NoLeap, 1970, 1, 2, 0, 0, 0), types.UnixUnit(types.Hours, types.NoLeap))
	if err != nil {
		t.Fatalf("Offset: %v", err)
	}
	if v != 24 {
		t.Errorf("expected 24, got %v", v)
	}
}

func TestServer_Calendars(t *testing.T) {
	s := New(convert.New(convert.WithCalendars(calendar.NewRegistry(calendar.New(types.Day360)))))
	kinds, err := s.Calendars(context.Background())
	if err != nil {
		t.Fatalf("Calendars: %v", err)
	}
	if len(kinds) != 1 || kinds[0] != types.Day360 {
		t.Errorf("expected [360_day], got %v", kinds)
	}

	s = New(&cfdatetest.MockConverter{})
	kinds, _ = s.Calendars(context.Background())
	if len(kinds) != len(types.AllCalendars) {
		t.Errorf("expected default calendars, got %v", kinds)
	}
}

func TestServer_Closed(t *testing.T) {
	s := New(convert.New())
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	_, err := s.Scalar(context.Background(), 1, types.UnixUnit(types.Seconds, types.Standard))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := s.Calendars(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestServer_ConvertConcurrent(t *testing.T) {
	s := New(convert.New(), WithLogger(newTestLogger(&bytes.Buffer{})))
	unit := types.UnixUnit(types.Minutes, types.Standard)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Convert(context.Background(), types.Vector(1, 2, 3), unit); err != nil {
				t.Errorf("Convert: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestCalendarLabel(t *testing.T) {
	std := types.UnixUnit(types.Seconds, types.Standard)
	d360 := types.UnixUnit(types.Seconds, types.Day360)
	tests := []struct {
		name  string
		units []types.TimeUnit
		want  string
	}{
		{"none", nil, "none"},
		{"single", []types.TimeUnit{std}, "standard"},
		{"uniform", []types.TimeUnit{std, std}, "standard"},
		{"mixed", []types.TimeUnit{std, d360}, "mixed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calendarLabel(tt.units); got != tt.want {
				t.Errorf("calendarLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
