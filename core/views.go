package core

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Searchable interface {
	SearchFields() []string
}

// Scheduled is anything placed on the calendar by its start and end.
type Scheduled interface {
	RecordID() string
	StartsAt(loc *time.Location) (time.Time, bool)
	EndsAt(loc *time.Location) (time.Time, bool)
}

// Matches reports whether any field contains the query, ignoring case. A blank
// query matches everything.
func Matches(query string, fields ...string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}

	lower := cases.Lower(language.Und)
	needle := lower.String(query)

	for _, field := range fields {
		if strings.Contains(lower.String(field), needle) {
			return true
		}
	}

	return false
}

func Filter[T Searchable](items []T, query string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}

	out := make([]T, 0, len(items))

	for _, item := range items {
		if Matches(query, item.SearchFields()...) {
			out = append(out, item)
		}
	}

	return out
}

func locationOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}

	return loc
}

// CombineDateTime places the clock time "HH:MM[:SS]" on the calendar date of
// date. A missing or unparsable part counts as zero.
func CombineDateTime(date time.Time, clock string, loc *time.Location) time.Time {
	var parts [2]int

	for i, part := range strings.SplitN(strings.TrimSpace(clock), ":", 3) {
		if i >= len(parts) {
			break
		}

		n, err := strconv.Atoi(part)
		if err == nil {
			parts[i] = n
		}
	}

	year, month, day := date.Date()

	return time.Date(year, month, day, parts[0], parts[1], 0, 0, locationOrLocal(loc))
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	loc = locationOrLocal(loc)
	year, month, day := t.In(loc).Date()

	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// Occupies reports whether day falls within [start, end] by calendar day.
func Occupies(day time.Time, start time.Time, end time.Time, loc *time.Location) bool {
	d := StartOfDay(day, loc)
	s := StartOfDay(start, loc)

	e := StartOfDay(end, loc)
	if e.Before(s) {
		e = s
	}

	return !d.Before(s) && !d.After(e)
}

// DayLabel is "Today", "Tomorrow" or the short month and day.
func DayLabel(day time.Time, now time.Time, loc *time.Location) string {
	today := StartOfDay(now, loc)
	d := StartOfDay(day, loc)

	switch {
	case d.Equal(today):
		return "Today"
	case d.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	default:
		return d.Format("Jan 2")
	}
}

type DayGroup[T any] struct {
	Date    time.Time `json:"date"`
	Label   string    `json:"label"`
	Weekday string    `json:"weekday"`
	Items   []T       `json:"items"`
}

// GroupByDay buckets items by the local day they start, days ascending and
// items ascending by start within a day. Items without a start are skipped.
func GroupByDay[T Scheduled](items []T, loc *time.Location, now time.Time) []DayGroup[T] {
	type entry struct {
		item T
		at   time.Time
	}

	buckets := make(map[int64][]entry)

	for _, item := range items {
		at, ok := item.StartsAt(loc)
		if !ok {
			continue
		}

		key := StartOfDay(at, loc).Unix()
		buckets[key] = append(buckets[key], entry{item: item, at: at})
	}

	keys := make([]int64, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	groups := make([]DayGroup[T], 0, len(keys))

	for _, key := range keys {
		entries := buckets[key]
		slices.SortStableFunc(entries, func(a, b entry) int {
			if c := a.at.Compare(b.at); c != 0 {
				return c
			}

			return compareIDs(a.item.RecordID(), b.item.RecordID())
		})

		day := StartOfDay(entries[0].at, loc)
		group := DayGroup[T]{
			Date:    day,
			Label:   DayLabel(day, now, loc),
			Weekday: day.Weekday().String(),
			Items:   make([]T, len(entries)),
		}

		for i, e := range entries {
			group.Items[i] = e.item
		}

		groups = append(groups, group)
	}

	return groups
}

// compareIDs orders numeric ids numerically and everything else lexically.
func compareIDs(a string, b string) int {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)

	if errA == nil && errB == nil {
		return cmp.Compare(x, y)
	}

	return strings.Compare(a, b)
}

type ViewMode string

const (
	ViewCard          ViewMode = "card"
	ViewTable         ViewMode = "table"
	ViewChronological ViewMode = "chronological"
)

func ParseViewMode(value string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ViewCard:
		return ViewCard, nil
	case ViewTable:
		return ViewTable, nil
	case ViewChronological:
		return ViewChronological, nil
	default:
		return "", invalid("Unknown view mode: %s", value)
	}
}
