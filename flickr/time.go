package flickr

import (
	"strconv"
	"time"
)

type ParseTimeError struct {
	s string
}

func (e *ParseTimeError) Error() string {
	if e.s == "" {
		return "missing time"
	}
	return "invalid time: " + e.s
}

// ParseTime accepts both forms the API uses: "datetaken" style timestamps and
// "dateupload" unix seconds.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, &ParseTimeError{s}
	}

	t, err := time.ParseInLocation(time.DateTime, s, time.UTC)
	if err == nil {
		return t, nil
	}

	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, &ParseTimeError{s}
	}
	return time.Unix(secs, 0).UTC(), nil
}
