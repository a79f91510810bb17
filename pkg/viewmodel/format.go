package viewmodel

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	// DateLayout renders date fields, for example "Fri Mar 01 2024".
	DateLayout = "Mon Jan 02 2006"
	// DateTimeLayout renders datetime fields, for example "4/1/2024, 12:00:00 AM".
	DateTimeLayout = "1/2/2006, 3:04:05 PM"
)

var dateInputLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05",
}

// FormatDate renders a date field value. Values that are neither time.Time
// nor a parseable string are returned unchanged.
func FormatDate(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v.Format(DateLayout)
	case string:
		for _, layout := range dateInputLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.Format(DateLayout)
			}
		}
	}
	return value
}

// FormatDateTime renders a datetime field value in loc. String values are
// split into numeric components on every run of non-digits and read as year,
// month, day, hour, minute and second, where the month component is a 0-based
// index: "2024-03-01T00:00:00" renders as April 1. Nil, empty and
// unrecognised values are returned unchanged.
func FormatDateTime(value any, loc *time.Location) any {
	if loc == nil {
		loc = time.Local
	}
	switch v := value.(type) {
	case time.Time:
		return v.In(loc).Format(DateTimeLayout)
	case string:
		parts, ok := dateTimeComponents(v)
		if !ok {
			return value
		}
		t := time.Date(parts[0], time.Month(parts[1]+1), parts[2], parts[3], parts[4], parts[5], 0, loc)
		return t.Format(DateTimeLayout)
	}
	return value
}

func dateTimeComponents(value string) ([6]int, bool) {
	var out [6]int
	fields := strings.FieldsFunc(value, func(r rune) bool { return !unicode.IsDigit(r) })
	if len(fields) < 3 {
		return out, false
	}
	for i := 0; i < len(out) && i < len(fields); i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return out, false
		}
		out[i] = n
	}
	return out, true
}
