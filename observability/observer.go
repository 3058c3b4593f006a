// Package observability defines the metric events emitted by the
// cfdate server. Exporters implement ConvertObserver; the server only
// depends on this package.
package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Op names a server operation.
type Op string

const (
	OpConvert   Op = "convert"
	OpScalar    Op = "scalar"
	OpOffset    Op = "offset"
	OpCalendars Op = "calendars"
)

// Result is the outcome label of an operation.
type Result string

const (
	ResultOK    Result = "ok"
	ResultError Result = "error"
)

// ConvertObserver receives conversion metric events.
type ConvertObserver interface {
	// Call records one finished operation. kind is the error kind label,
	// "ok" on success.
	Call(op Op, result Result, kind string, d time.Duration)
	// Elements records the size of a converted container.
	Elements(calendar string, total, masked int)
}

type noopConvertObserver struct{}

func (noopConvertObserver) Call(Op, Result, string, time.Duration) {}
func (noopConvertObserver) Elements(string, int, int)              {}

// NoopConvertObserver is a zero-cost observer used when metrics are disabled.
var NoopConvertObserver ConvertObserver = noopConvertObserver{}

// AtomicConvertObserver swaps its delegate at runtime.
type AtomicConvertObserver struct {
	once sync.Once
	v    atomic.Value
}

type convertObserverHolder struct {
	obs ConvertObserver
}

// NewAtomicConvertObserver returns an initialized atomic observer.
func NewAtomicConvertObserver() *AtomicConvertObserver {
	a := &AtomicConvertObserver{}
	a.once.Do(func() { a.v.Store(&convertObserverHolder{obs: NoopConvertObserver}) })
	return a
}

// Set replaces the delegate, falling back to the no-op observer on nil.
func (a *AtomicConvertObserver) Set(obs ConvertObserver) {
	if obs == nil {
		obs = NoopConvertObserver
	}
	a.once.Do(func() { a.v.Store(&convertObserverHolder{obs: NoopConvertObserver}) })
	a.v.Store(&convertObserverHolder{obs: obs})
}

func (a *AtomicConvertObserver) load() ConvertObserver {
	a.once.Do(func() { a.v.Store(&convertObserverHolder{obs: NoopConvertObserver}) })
	return a.v.Load().(*convertObserverHolder).obs
}

func (a *AtomicConvertObserver) Call(op Op, result Result, kind string, d time.Duration) {
	a.load().Call(op, result, kind, d)
}

func (a *AtomicConvertObserver) Elements(calendar string, total, masked int) {
	a.load().Elements(calendar, total, masked)
}
