package calendar

var (
	noLeapMonths  = [12]int64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	allLeapMonths = [12]int64{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	day360Months  = [12]int64{30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30}
)

// fixedDays is a calendar where every year has the same month table.
// Day 0 is 0000-01-01.
type fixedDays struct {
	year   int64
	months [12]int64
}

func (f fixedDays) toDays(y, m, d int64) int64 {
	n := y*f.year + d - 1
	for i := int64(0); i < m-1; i++ {
		n += f.months[i]
	}
	return n
}

func (f fixedDays) fromDays(n int64) (year, month, day int64) {
	year = floorDiv(n, f.year)
	rem := n - year*f.year
	month = 1
	for _, l := range f.months {
		if rem < l {
			break
		}
		rem -= l
		month++
	}
	return year, month, rem + 1
}

func (f fixedDays) monthLength(_, m int64) int64 { return f.months[m-1] }

func (fixedDays) exists(int64, int64, int64) bool { return true }
