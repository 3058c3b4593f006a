package types

import (
	"fmt"
	"strings"
)

// Resolution is the unit a numeric offset is counted in.
type Resolution uint8

const (
	Seconds Resolution = iota + 1
	Minutes
	Hours
	Days
)

// Factor returns the number of seconds in one unit of r, or 0 if r
// is not a known resolution.
func (r Resolution) Factor() float64 {
	switch r {
	case Seconds:
		return 1
	case Minutes:
		return 60
	case Hours:
		return 3600
	case Days:
		return 86400
	default:
		return 0
	}
}

// Valid reports whether r is one of the known resolutions.
func (r Resolution) Valid() bool { return r.Factor() != 0 }

func (r Resolution) String() string {
	switch r {
	case Seconds:
		return "seconds"
	case Minutes:
		return "minutes"
	case Hours:
		return "hours"
	case Days:
		return "days"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(r))
	}
}

// ResolutionByName resolves a resolution name as used in flags and
// configuration files ("seconds", "minute", "h", ...).
func ResolutionByName(name string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "seconds", "second", "secs", "sec", "s":
		return Seconds, nil
	case "minutes", "minute", "mins", "min":
		return Minutes, nil
	case "hours", "hour", "hrs", "hr", "h":
		return Hours, nil
	case "days", "day", "d":
		return Days, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownResolution, name)
}
