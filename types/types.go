// Package types defines the value types shared by every cfdate
// component: resolutions, calendar kinds, calendar-aware dates,
// time-unit descriptors and the shaped containers that carry
// numeric offsets in and dates out.
//
// These are plain Go structs with cramberry struct tags for
// deterministic binary serialization. Transport concerns
// (gRPC codec registration) are handled in the transport packages.
package types

import "errors"

// Configuration and usage errors raised while constructing values.
// The root cfdate package re-exports them next to its own sentinels.
var (
	ErrUnknownCalendar   = errors.New("unknown calendar kind")
	ErrUnknownResolution = errors.New("unknown time resolution")
	ErrInvalidDate       = errors.New("invalid calendar date")
	ErrShapeMismatch     = errors.New("shape mismatch")
	ErrCalendarMismatch  = errors.New("calendar mismatch")
)
