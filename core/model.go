package core

import (
	"strings"
	"time"
)

// Record is a row as exchanged with the backend: column name to normalised value.
type Record map[string]any

type CollectionName string

const (
	CollectionEvents       CollectionName = "events"
	CollectionHackathons   CollectionName = "hackathons"
	CollectionScholarships CollectionName = "scholarships"
	CollectionStudentClubs CollectionName = "student_clubs"
	CollectionSignups      CollectionName = "signups"
)

var knownCollections = map[CollectionName]struct{}{
	CollectionEvents:       {},
	CollectionHackathons:   {},
	CollectionScholarships: {},
	CollectionStudentClubs: {},
	CollectionSignups:      {},
}

func (c CollectionName) Valid() bool {
	_, ok := knownCollections[c]
	return ok
}

var (
	EventFormats        = []string{"in-person", "online", "hybrid"}
	EventStatuses       = []string{"draft", "published", "cancelled", "completed", "postponed"}
	EventCategories     = []string{"workshop", "conference", "meetup", "webinar", "networking", "training", "hackathon", "other"}
	ScholarshipStatuses = []string{
		"draft", "published", "cancelled", "completed", "postponed",
		"accepting_applications", "reviewing", "awarded", "closed",
	}
)

const DefaultAwardCurrency = "EUR"

type Event struct {
	ID                   string     `json:"id,omitempty"`
	Title                string     `json:"title,omitempty"`
	ShortDescription     string     `json:"short_description,omitempty"`
	Description          string     `json:"description,omitempty"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	StartTime            string     `json:"start_time,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	EndTime              string     `json:"end_time,omitempty"`
	Duration             *int64     `json:"duration,omitempty"`
	Location             string     `json:"location,omitempty"`
	Format               string     `json:"format,omitempty"`
	Status               string     `json:"status,omitempty"`
	Category             string     `json:"category,omitempty"`
	RegistrationURL      string     `json:"registration_url,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	Capacity             *int64     `json:"capacity,omitempty"`
	OrganizerName        string     `json:"organizer_name,omitempty"`
	OrganizerContactInfo string     `json:"organizer_contactinfo,omitempty"`
	Requirements         string     `json:"requirements,omitempty"`
	PostedLinkedIn       bool       `json:"posted_linkedin"`
	PostedWhatsApp       bool       `json:"posted_whatsapp"`
	PostedNewsletter     bool       `json:"posted_newsletter"`
	IsHighlight          bool       `json:"is_highlight"`
	CreatedAt            *time.Time `json:"created_at,omitempty"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

func (e Event) RecordID() string { return e.ID }

func (e Event) Label() string { return e.Title }

func (e Event) Highlighted() bool { return e.IsHighlight }

func (e Event) SearchFields() []string {
	return []string{e.Title, e.Description, e.Location, e.OrganizerName}
}

func (e Event) StartsAt(loc *time.Location) (time.Time, bool) {
	if e.StartDate == nil {
		return time.Time{}, false
	}

	return CombineDateTime(*e.StartDate, e.StartTime, loc), true
}

func (e Event) EndsAt(loc *time.Location) (time.Time, bool) {
	if e.EndDate == nil {
		return time.Time{}, false
	}

	return CombineDateTime(*e.EndDate, e.EndTime, loc), true
}

// Hackathon shares the event shape.
type Hackathon struct {
	Event
	Prizes         string     `json:"prizes,omitempty"`
	SignupDeadline *time.Time `json:"signup_deadline,omitempty"`
}

type Scholarship struct {
	ID                   string     `json:"id,omitempty"`
	Title                string     `json:"title,omitempty"`
	ShortDescription     string     `json:"short_description,omitempty"`
	Description          string     `json:"description,omitempty"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	AwardAmount          *float64   `json:"award_amount,omitempty"`
	AwardCurrency        string     `json:"award_currency,omitempty"`
	ApplicationURL       string     `json:"application_url,omitempty"`
	OrganizerName        string     `json:"organizer_name,omitempty"`
	OrganizerContactInfo string     `json:"organizer_contactinfo,omitempty"`
	Location             string     `json:"location,omitempty"`
	Status               string     `json:"status,omitempty"`
	Category             string     `json:"category,omitempty"`
	ImageURL             string     `json:"image_url,omitempty"`
	CreatedAt            *time.Time `json:"created_at,omitempty"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

func (s Scholarship) RecordID() string { return s.ID }

func (s Scholarship) Label() string { return s.Title }

func (s Scholarship) SearchFields() []string {
	summary := s.ShortDescription
	if summary == "" {
		summary = s.Description
	}

	return []string{s.Title, summary, s.Location, s.OrganizerName}
}

func (s Scholarship) StartsAt(loc *time.Location) (time.Time, bool) {
	if s.StartDate == nil {
		return time.Time{}, false
	}

	return s.StartDate.In(locationOrLocal(loc)), true
}

func (s Scholarship) EndsAt(loc *time.Location) (time.Time, bool) {
	if s.EndDate == nil {
		return time.Time{}, false
	}

	return s.EndDate.In(locationOrLocal(loc)), true
}

type StudentClub struct {
	ID           string     `json:"id,omitempty"`
	Name         string     `json:"name,omitempty"`
	Description  string     `json:"description,omitempty"`
	Link         string     `json:"link,omitempty"`
	Universities []string   `json:"universities"`
	Topics       []string   `json:"topics"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

func (c StudentClub) RecordID() string { return c.ID }

func (c StudentClub) Label() string { return c.Name }

func (c StudentClub) SearchFields() []string {
	return []string{c.Name, c.Description, c.Link, strings.Join(c.Universities, " "), strings.Join(c.Topics, " ")}
}

// Signup is kept opaque; the admin only lists and deletes signups.
type Signup map[string]any

func (s Signup) RecordID() string {
	id, _ := s["id"].(string)
	return id
}

func (s Signup) Label() string {
	for _, key := range []string{"name", "email", "title"} {
		if v, ok := s[key].(string); ok && v != "" {
			return v
		}
	}

	return s.RecordID()
}

func (s Signup) SearchFields() []string {
	fields := make([]string, 0, len(s))
	for _, v := range s {
		if str, ok := v.(string); ok {
			fields = append(fields, str)
		}
	}

	return fields
}
