// Package cfdatetest provides test utilities for cfdate: a recording
// calendar engine, a configurable mock converter, a test harness and
// a compliance suite that any cfdate.Connection must pass.
package cfdatetest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/blockberries/cfdate"
	"github.com/blockberries/cfdate/calendar"
	"github.com/blockberries/cfdate/types"
)

// Compile-time interface checks.
var (
	_ cfdate.Calendar       = (*RecordingCalendar)(nil)
	_ cfdate.CalendarSource = (*RecordingSource)(nil)
	_ cfdate.Converter      = (*MockConverter)(nil)
)

// RecordingCalendar wraps a calendar engine and records every
// AddSeconds call. It lets tests prove that masked elements never
// reach calendar arithmetic and that only whole seconds are passed.
type RecordingCalendar struct {
	cfdate.Calendar

	mu      sync.Mutex
	seconds []int64

	AddSecondsCalls atomic.Int64
}

// NewRecordingCalendar wraps the built-in engine for kind.
func NewRecordingCalendar(kind types.CalendarKind) *RecordingCalendar {
	return &RecordingCalendar{Calendar: calendar.New(kind)}
}

func (r *RecordingCalendar) AddSeconds(d types.Date, secs int64) (types.Date, error) {
	r.AddSecondsCalls.Add(1)
	r.mu.Lock()
	r.seconds = append(r.seconds, secs)
	r.mu.Unlock()
	return r.Calendar.AddSeconds(d, secs)
}

// Seconds returns the offsets passed to AddSeconds, in call order.
func (r *RecordingCalendar) Seconds() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.seconds...)
}

// RecordingSource serves one RecordingCalendar per kind.
type RecordingSource struct {
	cals map[types.CalendarKind]*RecordingCalendar
}

// NewRecordingSource records calls for every built-in kind.
func NewRecordingSource() *RecordingSource {
	s := &RecordingSource{cals: make(map[types.CalendarKind]*RecordingCalendar)}
	for _, k := range types.AllCalendars {
		s.cals[k] = NewRecordingCalendar(k)
	}
	return s
}

func (s *RecordingSource) Calendar(kind types.CalendarKind) (cfdate.Calendar, error) {
	c, ok := s.cals[kind]
	if !ok {
		return nil, cfdate.ErrUnknownCalendar
	}
	return c, nil
}

func (s *RecordingSource) Kinds() []types.CalendarKind {
	return append([]types.CalendarKind(nil), types.AllCalendars...)
}

// Recorder returns the recording engine for kind.
func (s *RecordingSource) Recorder(kind types.CalendarKind) *RecordingCalendar {
	return s.cals[kind]
}

// TotalCalls sums AddSeconds calls across all kinds.
func (s *RecordingSource) TotalCalls() int64 {
	var n int64
	for _, c := range s.cals {
		n += c.AddSecondsCalls.Load()
	}
	return n
}

// MockConverter is a configurable converter for server and transport
// tests. Unconfigured methods return zero values.
type MockConverter struct {
	ConvertFn func(context.Context, types.Array, ...types.TimeUnit) (types.Result, error)
	ScalarFn  func(context.Context, float64, types.TimeUnit) (types.Date, error)
	OffsetFn  func(context.Context, types.Date, types.TimeUnit) (float64, error)

	// Call counters (atomic for concurrent access).
	ConvertCalls atomic.Int64
	ScalarCalls  atomic.Int64
	OffsetCalls  atomic.Int64
}

func (m *MockConverter) Convert(ctx context.Context, values types.Array, units ...types.TimeUnit) (types.Result, error) {
	m.ConvertCalls.Add(1)
	if m.ConvertFn != nil {
		return m.ConvertFn(ctx, values, units...)
	}
	return types.Result{Shape: types.CloneShape(values.Shape), Data: make([]types.NullDate, values.Len())}, nil
}

func (m *MockConverter) Scalar(ctx context.Context, value float64, unit types.TimeUnit) (types.Date, error) {
	m.ScalarCalls.Add(1)
	if m.ScalarFn != nil {
		return m.ScalarFn(ctx, value, unit)
	}
	return unit.Epoch, nil
}

func (m *MockConverter) Offset(ctx context.Context, date types.Date, unit types.TimeUnit) (float64, error) {
	m.OffsetCalls.Add(1)
	if m.OffsetFn != nil {
		return m.OffsetFn(ctx, date, unit)
	}
	return 0, nil
}
