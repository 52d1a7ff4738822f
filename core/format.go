package core

import (
	"bytes"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
)

const (
	displayDateTime = "Jan 2, 2006, 3:04 PM"
	displayDate     = "Jan 2, 2006"
	emptyDisplay    = "-"
)

func FormatDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return emptyDisplay
	}

	return t.In(locationOrLocal(loc)).Format(displayDateTime)
}

func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return emptyDisplay
	}

	return t.Format(displayDate)
}

func formatInstant(t *time.Time, loc *time.Location) string {
	if t == nil {
		return emptyDisplay
	}

	return FormatDateTime(*t, loc)
}

// FormatAward renders "12,500 EUR"; a missing amount renders as "".
func FormatAward(amount *float64, currency string) string {
	if amount == nil {
		return ""
	}

	if currency == "" {
		currency = DefaultAwardCurrency
	}

	return humanize.Commaf(*amount) + " " + currency
}

var statusLabels = map[string]string{
	"draft":                  "Draft",
	"published":              "Published",
	"cancelled":              "Cancelled",
	"completed":              "Completed",
	"postponed":              "Postponed",
	"accepting_applications": "Accepting Applications",
	"reviewing":              "Reviewing",
	"awarded":                "Awarded",
	"closed":                 "Closed",
}

// StatusLabel falls back to "Draft" for unknown statuses.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}

	return statusLabels["draft"]
}

// OptionLabel turns "in-person" into "In person".
func OptionLabel(value string) string {
	if value == "" {
		return ""
	}

	value = strings.ReplaceAll(value, "-", " ")
	first, size := utf8.DecodeRuneInString(value)

	return string(unicode.ToUpper(first)) + value[size:]
}

// RenderMarkdown converts a description to HTML. Raw HTML in the source is not passed through.
func RenderMarkdown(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}

	var buf bytes.Buffer

	err := goldmark.Convert([]byte(source), &buf)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
