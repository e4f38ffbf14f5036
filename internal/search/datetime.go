package search

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// datePrefixes are the word prefixes whose values are dates. The negated
// form of each prefix is checked too.
var datePrefixes = []string{
	"created:",
	"updated:",
	"subjectDate:",
	"reminderTime:",
	"reminderDoneTime:",
}

// isoLayouts are tried in order for absolute dates. Layouts without a zone
// are interpreted in the compiler's location.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"20060102T150405Z0700",
	"20060102T150405",
	"20060102",
}

// Relative dates must land in a four-digit year. The offset bound keeps the
// calendar arithmetic from overflowing before the year is checked.
const (
	maxRelativeOffset = 10000 * 366
	minRelativeYear   = 0
	maxRelativeYear   = 9999
)

// resolveDates rewrites every date-bearing word to its prefix followed by the
// resolved timestamp in epoch milliseconds. Word order is preserved.
func resolveDates(words []string, now time.Time, loc *time.Location) ([]string, error) {
	for i, w := range words {
		prefix, ok := datePrefix(w)
		if !ok {
			continue
		}
		expr := unquote(w[len(prefix):])
		ms, err := resolveTimestamp(expr, now, loc)
		if err != nil {
			var qe *QueryError
			if errors.As(err, &qe) {
				qe.Field = strings.TrimSuffix(strings.TrimPrefix(prefix, "-"), ":")
				qe.Word = w
			}
			return nil, err
		}
		words[i] = prefix + strconv.FormatInt(ms, 10)
	}
	return words, nil
}

func datePrefix(w string) (string, bool) {
	for _, p := range datePrefixes {
		if strings.HasPrefix(w, p) {
			return p, true
		}
		if strings.HasPrefix(w, "-"+p) {
			return "-" + p, true
		}
	}
	return "", false
}

// resolveTimestamp turns a date expression into epoch milliseconds.
//
// Relative expressions are day, week, month or year followed by an optional
// signed offset (day-1, week+2, month). They resolve against the start of
// the current day, week (Monday), month or year in loc. The time of day is
// 00:00:00.001 so that results never sit exactly on midnight.
//
// Anything else must be an ISO 8601 date or date-time.
func resolveTimestamp(expr string, now time.Time, loc *time.Location) (int64, error) {
	for _, unit := range []string{"day", "week", "month", "year"} {
		if !strings.HasPrefix(expr, unit) {
			continue
		}
		offset := 0
		if rest := expr[len(unit):]; rest != "" {
			n, err := strconv.Atoi(rest)
			if err != nil || n > maxRelativeOffset || n < -maxRelativeOffset {
				return 0, &QueryError{Kind: ErrInvalidRelativeDateOffset, Value: expr}
			}
			offset = n
		}
		t := relativeDate(unit, offset, now.In(loc))
		if t.Year() < minRelativeYear || t.Year() > maxRelativeYear {
			return 0, &QueryError{Kind: ErrInvalidRelativeDateOffset, Value: expr}
		}
		return t.UnixMilli(), nil
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, expr, loc); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, &QueryError{Kind: ErrInvalidAbsoluteDateTime, Value: expr}
}

func relativeDate(unit string, offset int, now time.Time) time.Time {
	y, m, d := now.Date()
	const ms = int(time.Millisecond)
	switch unit {
	case "week":
		// ISO weekday: Monday is 1, Sunday is 7.
		wd := int(now.Weekday())
		if wd == 0 {
			wd = 7
		}
		return time.Date(y, m, d-(wd-1)+7*offset, 0, 0, 0, ms, now.Location())
	case "month":
		return time.Date(y, m+time.Month(offset), 1, 0, 0, 0, ms, now.Location())
	case "year":
		return time.Date(y+offset, time.January, 1, 0, 0, 0, ms, now.Location())
	default:
		return time.Date(y, m, d+offset, 0, 0, 0, ms, now.Location())
	}
}
