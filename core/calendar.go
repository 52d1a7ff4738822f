package core

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

const (
	calendarPreviewItems = 2
	upcomingLimit        = 10
	shortTitleLength     = 15
	monthLayout          = "2006-01"
)

type CalendarItemType string

const (
	CalendarEvent       CalendarItemType = "event"
	CalendarHackathon   CalendarItemType = "hackathon"
	CalendarScholarship CalendarItemType = "scholarship"
)

type CalendarItem struct {
	ID         string           `json:"id"`
	Type       CalendarItemType `json:"type"`
	Title      string           `json:"title"`
	ShortTitle string           `json:"short_title"`
	Start      time.Time        `json:"start"`
	End        time.Time        `json:"end"`
}

type CalendarDay struct {
	Date    time.Time      `json:"date"`
	Day     int            `json:"day"`
	InMonth bool           `json:"in_month"`
	Today   bool           `json:"today"`
	Items   []CalendarItem `json:"items"`
	More    int            `json:"more"`
}

type CalendarMonth struct {
	Month    string          `json:"month"`
	Title    string          `json:"title"`
	Weekdays []string        `json:"weekdays"`
	Weeks    [][]CalendarDay `json:"weeks"`
	Upcoming []CalendarItem  `json:"upcoming"`
}

var mondayFirst = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func ShortTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= shortTitleLength {
		return title
	}

	return string(runes[:shortTitleLength]) + "..."
}

// CalendarItems converts scheduled entities with a start into calendar items.
// An item without an end occupies its start day only.
func CalendarItems[T interface {
	Scheduled
	Label() string
}](kind CalendarItemType, items []T, loc *time.Location) []CalendarItem {
	out := make([]CalendarItem, 0, len(items))

	for _, item := range items {
		start, ok := item.StartsAt(loc)
		if !ok {
			continue
		}

		end, ok := item.EndsAt(loc)
		if !ok || end.Before(start) {
			end = start
		}

		out = append(out, CalendarItem{
			ID:         item.RecordID(),
			Type:       kind,
			Title:      item.Label(),
			ShortTitle: ShortTitle(item.Label()),
			Start:      start,
			End:        end,
		})
	}

	return out
}

// ParseMonth reads "YYYY-MM"; blank means the month containing now.
func ParseMonth(value string, now time.Time, loc *time.Location) (time.Time, error) {
	loc = locationOrLocal(loc)

	value = strings.TrimSpace(value)
	if value == "" {
		year, month, _ := now.In(loc).Date()
		return time.Date(year, month, 1, 0, 0, 0, 0, loc), nil
	}

	parsed, err := time.ParseInLocation(monthLayout, value, loc)
	if err != nil {
		return time.Time{}, invalid("Month must look like YYYY-MM")
	}

	return parsed, nil
}

func ItemsOn(day time.Time, items []CalendarItem, loc *time.Location) []CalendarItem {
	var out []CalendarItem

	for _, item := range items {
		if Occupies(day, item.Start, item.End, loc) {
			out = append(out, item)
		}
	}

	return out
}

// Upcoming returns up to limit items starting at or after now, soonest first.
func Upcoming(items []CalendarItem, now time.Time, limit int) []CalendarItem {
	out := make([]CalendarItem, 0, len(items))

	for _, item := range items {
		if !item.Start.Before(now) {
			out = append(out, item)
		}
	}

	slices.SortStableFunc(out, compareCalendarItems)

	if len(out) > limit {
		out = out[:limit]
	}

	return out
}

func compareCalendarItems(a, b CalendarItem) int {
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}

	return compareIDs(a.ID, b.ID)
}

// BuildCalendar lays out the month in Monday-first weeks, padding with the
// neighbouring months' days.
func BuildCalendar(month time.Time, items []CalendarItem, now time.Time, loc *time.Location) CalendarMonth {
	loc = locationOrLocal(loc)

	year, mon, _ := month.In(loc).Date()
	first := time.Date(year, mon, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	gridStart := first.AddDate(0, 0, -((int(first.Weekday()) + 6) % 7))
	gridEnd := last.AddDate(0, 0, (7-int(last.Weekday()))%7)

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, compareCalendarItems)

	today := StartOfDay(now, loc)

	result := CalendarMonth{
		Month:    first.Format(monthLayout),
		Title:    first.Format("January 2006"),
		Weekdays: slices.Clone(mondayFirst),
		Upcoming: Upcoming(items, now, upcomingLimit),
	}

	var week []CalendarDay

	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		onDay := ItemsOn(day, sorted, loc)

		cell := CalendarDay{
			Date:    day,
			Day:     day.Day(),
			InMonth: day.Month() == mon,
			Today:   day.Equal(today),
			Items:   onDay,
		}

		if len(onDay) > calendarPreviewItems {
			cell.Items = onDay[:calendarPreviewItems]
			cell.More = len(onDay) - calendarPreviewItems
		}

		if cell.Items == nil {
			cell.Items = []CalendarItem{}
		}

		week = append(week, cell)
		if len(week) == len(mondayFirst) {
			result.Weeks = append(result.Weeks, week)
			week = nil
		}
	}

	return result
}
