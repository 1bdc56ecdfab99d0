package runtastic

import "time"

// TimestampLayout is the ISO-8601 form used for every time written into a
// track document: UTC, millisecond precision, explicit +00:00 offset.
const TimestampLayout = "2006-01-02T15:04:05.000-07:00"

// FormatTimestamp converts milliseconds since the Unix epoch into a
// TimestampLayout string. Dates far outside the usual range are formatted
// as-is.
func FormatTimestamp(millis int64) string {
	return MillisToTime(millis).Format(TimestampLayout)
}

// MillisToTime returns the UTC instant for an epoch-millisecond value.
func MillisToTime(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
