// internal/forms/timezone.go
package forms

import (
	"fmt"
	"strings"
	"time"
)

// Submission dates are stored in the Adelaide timezone regardless of where
// the form was submitted from.
const storageTimezone = "Australia/Adelaide"

var adelaide = mustLoadLocation(storageTimezone)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("forms: cannot load timezone %s: %v", name, err))
	}
	return loc
}

// timestampLayouts are the formats the form provider has been observed to
// send, most specific first. Zoneless layouts are interpreted as UTC, which
// is what Gravity Forms uses for date_created.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// ToAdelaideTime converts a provider timestamp into Adelaide wall-clock time
// formatted as RFC 3339. Unparseable input is an error, never an "Invalid
// Date" string.
func ToAdelaideTime(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("empty timestamp")
	}

	for _, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if strings.Contains(layout, "Z07") {
			t, err = time.Parse(layout, value)
		} else {
			t, err = time.ParseInLocation(layout, value, time.UTC)
		}
		if err == nil {
			return t.In(adelaide).Format(time.RFC3339), nil
		}
	}

	return "", fmt.Errorf("unparseable timestamp %q", value)
}

// FormatAdelaide renders an instant as Adelaide wall-clock time in RFC 3339.
func FormatAdelaide(t time.Time) string {
	return t.In(adelaide).Format(time.RFC3339)
}
