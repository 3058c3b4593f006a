package calendar

// Julian day number conversions after Fliegel and Van Flandern, with
// floor division so that years before -4800 still round-trip.

// reformJDN is the Julian day number of 1582-10-15 (Gregorian), the
// first day of the Gregorian calendar in the Standard calendar.
const reformJDN = 2299161

var gregorianMonths = [12]int64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func gregorianLeap(y int64) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func julianLeap(y int64) bool {
	return y%4 == 0
}

func shiftMarch(year, month int64) (y, m int64) {
	a := (14 - month) / 12
	return year + 4800 - a, month + 12*a - 3
}

func gregorianToJDN(year, month, day int64) int64 {
	y, m := shiftMarch(year, month)
	return day + (153*m+2)/5 + 365*y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) - 32045
}

func julianToJDN(year, month, day int64) int64 {
	y, m := shiftMarch(year, month)
	return day + (153*m+2)/5 + 365*y + floorDiv(y, 4) - 32083
}

func jdnToGregorian(jdn int64) (year, month, day int64) {
	a := jdn + 32044
	b := floorDiv(4*a+3, 146097)
	c := a - floorDiv(146097*b, 4)
	d := floorDiv(4*c+3, 1461)
	e := c - floorDiv(1461*d, 4)
	m := floorDiv(5*e+2, 153)

	day = e - floorDiv(153*m+2, 5) + 1
	month = m + 3 - 12*floorDiv(m, 10)
	year = 100*b + d - 4800 + floorDiv(m, 10)
	return
}

func jdnToJulian(jdn int64) (year, month, day int64) {
	c := jdn + 32082
	d := floorDiv(4*c+3, 1461)
	e := c - floorDiv(1461*d, 4)
	m := floorDiv(5*e+2, 153)

	day = e - floorDiv(153*m+2, 5) + 1
	month = m + 3 - 12*floorDiv(m, 10)
	year = d - 4800 + floorDiv(m, 10)
	return
}

type gregorianDays struct{}

func (gregorianDays) toDays(y, m, d int64) int64             { return gregorianToJDN(y, m, d) }
func (gregorianDays) fromDays(n int64) (int64, int64, int64) { return jdnToGregorian(n) }
func (gregorianDays) exists(int64, int64, int64) bool        { return true }

func (gregorianDays) monthLength(y, m int64) int64 {
	if m == 2 && gregorianLeap(y) {
		return 29
	}
	return gregorianMonths[m-1]
}

type julianDays struct{}

func (julianDays) toDays(y, m, d int64) int64             { return julianToJDN(y, m, d) }
func (julianDays) fromDays(n int64) (int64, int64, int64) { return jdnToJulian(n) }
func (julianDays) exists(int64, int64, int64) bool        { return true }

func (julianDays) monthLength(y, m int64) int64 {
	if m == 2 && julianLeap(y) {
		return 29
	}
	return gregorianMonths[m-1]
}

// mixedDays is the Standard calendar: Julian up to 1582-10-04, then
// Gregorian from 1582-10-15. The ten days in between do not exist.
type mixedDays struct{}

func afterReform(y, m, d int64) bool {
	return y > 1582 || (y == 1582 && (m > 10 || (m == 10 && d >= 15)))
}

func (mixedDays) toDays(y, m, d int64) int64 {
	if afterReform(y, m, d) {
		return gregorianToJDN(y, m, d)
	}
	return julianToJDN(y, m, d)
}

func (mixedDays) fromDays(n int64) (int64, int64, int64) {
	if n >= reformJDN {
		return jdnToGregorian(n)
	}
	return jdnToJulian(n)
}

func (mixedDays) monthLength(y, m int64) int64 {
	if y > 1582 {
		return gregorianDays{}.monthLength(y, m)
	}
	return julianDays{}.monthLength(y, m)
}

func (mixedDays) exists(y, m, d int64) bool {
	return !(y == 1582 && m == 10 && d > 4 && d < 15)
}
