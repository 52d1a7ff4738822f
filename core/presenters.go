package core

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

func descriptionHTML(source string) string {
	html, err := RenderMarkdown(source)
	if err != nil {
		log.Warn().Err(err).Msg("failed to render description")
		return ""
	}

	return html
}

func startDisplay(item Scheduled, loc *time.Location) string {
	at, ok := item.StartsAt(loc)
	if !ok {
		return emptyDisplay
	}

	return FormatDateTime(at, loc)
}

func endDisplay(item Scheduled, loc *time.Location) string {
	at, ok := item.EndsAt(loc)
	if !ok {
		return emptyDisplay
	}

	return FormatDateTime(at, loc)
}

/*
 * Detail views
 */

type EventDetail struct {
	Event
	DescriptionHTML             string    `json:"description_html,omitempty"`
	StartDisplay                string    `json:"start_display"`
	EndDisplay                  string    `json:"end_display"`
	RegistrationDeadlineDisplay string    `json:"registration_deadline_display"`
	FormatLabel                 string    `json:"format_label,omitempty"`
	StatusLabel                 string    `json:"status_label"`
	CategoryLabel               string    `json:"category_label,omitempty"`
	Form                        EventForm `json:"form"`
}

func NewEventDetail(e Event, loc *time.Location) EventDetail {
	return EventDetail{
		Event:                       e,
		DescriptionHTML:             descriptionHTML(e.Description),
		StartDisplay:                startDisplay(e, loc),
		EndDisplay:                  endDisplay(e, loc),
		RegistrationDeadlineDisplay: formatInstant(e.RegistrationDeadline, loc),
		FormatLabel:                 OptionLabel(e.Format),
		StatusLabel:                 StatusLabel(e.Status),
		CategoryLabel:               OptionLabel(e.Category),
		Form:                        FormFromEvent(e, loc),
	}
}

type HackathonDetail struct {
	Hackathon
	DescriptionHTML       string        `json:"description_html,omitempty"`
	StartDisplay          string        `json:"start_display"`
	EndDisplay            string        `json:"end_display"`
	SignupDeadlineDisplay string        `json:"signup_deadline_display"`
	StatusLabel           string        `json:"status_label"`
	Form                  HackathonForm `json:"form"`
}

func NewHackathonDetail(h Hackathon, loc *time.Location) HackathonDetail {
	return HackathonDetail{
		Hackathon:             h,
		DescriptionHTML:       descriptionHTML(h.Description),
		StartDisplay:          startDisplay(h, loc),
		EndDisplay:            endDisplay(h, loc),
		SignupDeadlineDisplay: formatInstant(h.SignupDeadline, loc),
		StatusLabel:           StatusLabel(h.Status),
		Form:                  FormFromHackathon(h, loc),
	}
}

type ScholarshipDetail struct {
	Scholarship
	DescriptionHTML string          `json:"description_html,omitempty"`
	OpensDisplay    string          `json:"opens_display"`
	ClosesDisplay   string          `json:"closes_display"`
	AwardDisplay    string          `json:"award_display,omitempty"`
	StatusLabel     string          `json:"status_label"`
	Form            ScholarshipForm `json:"form"`
}

func NewScholarshipDetail(s Scholarship, loc *time.Location) ScholarshipDetail {
	return ScholarshipDetail{
		Scholarship:     s,
		DescriptionHTML: descriptionHTML(s.Description),
		OpensDisplay:    startDisplay(s, loc),
		ClosesDisplay:   endDisplay(s, loc),
		AwardDisplay:    FormatAward(s.AwardAmount, s.AwardCurrency),
		StatusLabel:     StatusLabel(s.Status),
		Form:            FormFromScholarship(s, loc),
	}
}

type StudentClubDetail struct {
	StudentClub
	DescriptionHTML string          `json:"description_html,omitempty"`
	Form            StudentClubForm `json:"form"`
}

func NewStudentClubDetail(c StudentClub) StudentClubDetail {
	return StudentClubDetail{
		StudentClub:     c,
		DescriptionHTML: descriptionHTML(c.Description),
		Form:            FormFromStudentClub(c),
	}
}

/*
 * Table rows
 */

type EventRow struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Highlight bool   `json:"highlight"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Location  string `json:"location"`
	Organizer string `json:"organizer"`
	Status    string `json:"status"`
}

func newEventRow(e Event, loc *time.Location) EventRow {
	return EventRow{
		ID:        e.ID,
		Title:     e.Title,
		Highlight: e.IsHighlight,
		Start:     startDisplay(e, loc),
		End:       endDisplay(e, loc),
		Location:  e.Location,
		Organizer: e.OrganizerName,
		Status:    StatusLabel(e.Status),
	}
}

func EventRows(events []Event, loc *time.Location) []EventRow {
	rows := make([]EventRow, len(events))
	for i, e := range events {
		rows[i] = newEventRow(e, loc)
	}

	return rows
}

type HackathonRow struct {
	EventRow
	Prizes string `json:"prizes"`
}

func HackathonRows(hackathons []Hackathon, loc *time.Location) []HackathonRow {
	rows := make([]HackathonRow, len(hackathons))
	for i, h := range hackathons {
		rows[i] = HackathonRow{EventRow: newEventRow(h.Event, loc), Prizes: h.Prizes}
	}

	return rows
}

type ScholarshipRow struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Opens     string `json:"opens"`
	Closes    string `json:"closes"`
	Award     string `json:"award"`
	Organizer string `json:"organizer"`
}

func ScholarshipRows(scholarships []Scholarship, loc *time.Location) []ScholarshipRow {
	rows := make([]ScholarshipRow, len(scholarships))
	for i, s := range scholarships {
		rows[i] = ScholarshipRow{
			ID:        s.ID,
			Title:     s.Title,
			Status:    StatusLabel(s.Status),
			Opens:     startDisplay(s, loc),
			Closes:    endDisplay(s, loc),
			Award:     FormatAward(s.AwardAmount, s.AwardCurrency),
			Organizer: s.OrganizerName,
		}
	}

	return rows
}

type StudentClubRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Link         string `json:"link"`
	Universities string `json:"universities"`
	Topics       string `json:"topics"`
}

func StudentClubRows(clubs []StudentClub) []StudentClubRow {
	rows := make([]StudentClubRow, len(clubs))
	for i, c := range clubs {
		rows[i] = StudentClubRow{
			ID:           c.ID,
			Name:         c.Name,
			Link:         c.Link,
			Universities: strings.Join(c.Universities, ", "),
			Topics:       strings.Join(c.Topics, ", "),
		}
	}

	return rows
}
