package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order for date strings that are not epoch values.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// normalizeDate renders a date value as epoch milliseconds. Numbers and
// digit strings are taken as epoch milliseconds already and must fit in an
// int64; other strings are parsed as calendar dates in loc. Unreadable values
// become InvalidDate.
func normalizeDate(value any, loc *time.Location) string {
	switch v := value.(type) {
	case nil:
		return ""
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return finiteMillis(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := v.Float64(); err == nil {
			return finiteMillis(f)
		}
		return InvalidDate
	case time.Time:
		return strconv.FormatInt(v.UnixMilli(), 10)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return ""
		}
		if isEpochString(s) {
			return epochString(s)
		}
		if t, ok := parseDate(s, loc); ok {
			return strconv.FormatInt(t.UnixMilli(), 10)
		}
		return InvalidDate
	default:
		return InvalidDate
	}
}

func parseDate(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// epochString canonicalizes a digit string so it renders the same as the
// equal number would.
func epochString(s string) string {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return InvalidDate
	}
	return strconv.FormatInt(ms, 10)
}
