package convert

import (
	"fmt"
	"math"

	"github.com/blockberries/cfdate"
	"github.com/blockberries/cfdate/types"
)

// ToTotalSeconds scales value, counted in res units, to seconds.
// NaN and infinite values are rejected, as are finite values whose
// scaled magnitude overflows float64.
func ToTotalSeconds(value float64, res types.Resolution) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %v", cfdate.ErrNonFinite, value)
	}
	f := res.Factor()
	if f == 0 {
		return 0, fmt.Errorf("%w: %s", cfdate.ErrUnknownResolution, res)
	}
	total := value * f
	if math.IsInf(total, 0) {
		return 0, fmt.Errorf("%w: %v %s", cfdate.ErrOutOfRange, value, res)
	}
	return total, nil
}

// twoPow63 is the smallest float64 above the int64 range.
const twoPow63 = float64(1 << 63)

// RoundToSecond rounds to the nearest whole second with ties going
// up: floor(x + 0.5), evaluated without the intermediate addition so
// that values just below a half-second never round up. The same rule
// applies to negative values, so -0.5 rounds to 0 and -1.5 to -1.
func RoundToSecond(totalSeconds float64) (int64, error) {
	if math.IsNaN(totalSeconds) || math.IsInf(totalSeconds, 0) {
		return 0, fmt.Errorf("%w: %v", cfdate.ErrNonFinite, totalSeconds)
	}
	r := math.Floor(totalSeconds)
	if totalSeconds-r >= 0.5 {
		r++
	}
	if r < -twoPow63 || r >= twoPow63 {
		return 0, fmt.Errorf("%w: %v seconds", cfdate.ErrOutOfRange, totalSeconds)
	}
	return int64(r), nil
}

// BuildDate adds a whole number of seconds to the unit's epoch using
// cal, which must be the engine for the unit's calendar kind.
func BuildDate(cal cfdate.Calendar, unit types.TimeUnit, seconds int64) (types.Date, error) {
	if cal.Kind() != unit.Calendar {
		return types.Date{}, fmt.Errorf("%w: %s engine for %s unit", cfdate.ErrCalendarMismatch, cal.Kind(), unit.Calendar)
	}
	return cal.AddSeconds(unit.Epoch, seconds)
}

// convertValue runs the full pipeline for one unmasked value.
func convertValue(cal cfdate.Calendar, value float64, unit types.TimeUnit) (types.Date, error) {
	total, err := ToTotalSeconds(value, unit.Resolution)
	if err != nil {
		return types.Date{}, err
	}
	secs, err := RoundToSecond(total)
	if err != nil {
		return types.Date{}, err
	}
	return BuildDate(cal, unit, secs)
}
