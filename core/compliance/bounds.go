package compliance

import (
	"time"

	"github.com/pkg/errors"
)

// US Eastern offsets. The resolver applies one literal offset per computation
// instead of an IANA timezone lookup; on the DST transition days themselves
// the boundaries are off by an hour. That imprecision is a known, accepted
// limitation of the daily rollups this feeds; do not "fix" it silently, the
// announced cutoffs would change.
const (
	OffsetEasternStandard = "-05:00"
	OffsetEasternDaylight = "-04:00"
)

// Local cutoff clocks, as HH:MM:SS.
const (
	AttendanceCutoffClock = "10:00:00"
	MiddayCutoffClock     = "14:00:00"
)

// DayWindow resolves a YYYY-MM-DD date to the [start, end] instants of that
// local day at the given fixed offset.
func DayWindow(date, offset string) (start, end time.Time, err error) {
	if start, err = LocalCutoff(date, "00:00:00", offset); err != nil {
		return
	}
	if end, err = LocalCutoff(date, "23:59:59", offset); err != nil {
		return
	}
	return
}

// LocalCutoff resolves a YYYY-MM-DD date and a HH:MM:SS clock to an absolute
// instant at the given fixed offset. Timestamp comparisons against cutoffs
// must happen on the returned time.Time, never on raw strings: two ISO-8601
// strings only compare lexicographically when they share one exact format.
func LocalCutoff(date, clock, offset string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, date+"T"+clock+offset)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "resolving %s %s at %s", date, clock, offset)
	}
	return t, nil
}
