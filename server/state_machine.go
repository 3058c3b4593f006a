// Package server provides the service-side wrapper that every
// transport drives conversions through. It adds request ids, element
// limits, structured logging and metrics around a cfdate.Converter.
package server

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("cfdate/server: server closed")

// serverState represents a state of the server.
type serverState uint32

const (
	// stateServing: calls are accepted.
	stateServing serverState = iota
	// stateClosed: Close has been called. New calls fail with
	// ErrClosed.
	stateClosed
)

func (s serverState) String() string {
	switch s {
	case stateServing:
		return "Serving"
	case stateClosed:
		return "Closed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// closeGuard gates calls on the server state.
type closeGuard struct {
	state atomic.Uint32
}

func newCloseGuard() *closeGuard {
	g := &closeGuard{}
	g.state.Store(uint32(stateServing))
	return g
}

// State returns the current state name.
func (g *closeGuard) State() string {
	return serverState(g.state.Load()).String()
}

// check returns ErrClosed once the guard is closed.
func (g *closeGuard) check() error {
	if serverState(g.state.Load()) == stateClosed {
		return ErrClosed
	}
	return nil
}

// close transitions Serving → Closed. It reports whether this call
// performed the transition.
func (g *closeGuard) close() bool {
	return g.state.CompareAndSwap(uint32(stateServing), uint32(stateClosed))
}
