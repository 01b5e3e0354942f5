package entry

import (
	"math"
	"strconv"
	"time"
)

// maxClockSkew is how far into the future a timestamp may point before it is
// treated as producer clock damage rather than a real event time.
const maxClockSkew = 5 * time.Minute

// ParseTimestamp parses a wire timestamp string. Both RFC 3339 and integer
// epoch-millisecond forms appear in the wild.
func ParseTimestamp(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t, true
	}
	n, err := strconv.ParseFloat(ts, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(n)), true
}

// IsValidTimestamp reports whether ts qualifies for global aggregation: it
// must parse, be positive, and not lie more than maxClockSkew in the future.
// Entries failing this are excluded from the merged stream but still count
// toward per-session raw totals.
func IsValidTimestamp(ts string) bool {
	return isValidTimestampAt(ts, time.Now())
}

func isValidTimestampAt(ts string, now time.Time) bool {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return false
	}
	if t.UnixMilli() <= 0 {
		return false
	}
	return !t.After(now.Add(maxClockSkew))
}
