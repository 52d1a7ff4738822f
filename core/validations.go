package core

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const msgInvalidURL = "Please enter a valid URL (e.g., https://example.com)"

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	_ = v.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.DateOnly, fl.Field().String())
		return err == nil
	})

	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})

	return v
}

var fieldLabels = map[string]string{
	"application_url":       "Application URL",
	"image_url":             "Image URL",
	"registration_url":      "Registration URL",
	"registration_deadline": "Registration deadline",
	"signup_deadline":       "Signup deadline",
	"start_date":            "Start date",
	"start_time":            "Start time",
	"end_date":              "End date",
	"end_time":              "End time",
	"award_amount":          "Award amount",
	"award_currency":        "Award currency",
}

func fieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}

	return OptionLabel(strings.ReplaceAll(field, "_", " "))
}

// validateStruct runs the struct tags and reports the first failure only.
func validateStruct(form any) error {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	fe := fieldErrs[0]
	label := fieldLabel(fe.Field())

	switch fe.Tag() {
	case "required":
		return invalid("%s is required", label)
	case "url":
		return invalid(msgInvalidURL)
	case "min":
		return invalid("%s must not be negative", label)
	case "max":
		return invalid("%s must be at most %s characters", label, fe.Param())
	case "len":
		return invalid("%s must be %s characters", label, fe.Param())
	case "oneof":
		return invalid("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "calendardate":
		return invalid("%s must be a date (YYYY-MM-DD)", label)
	case "clock":
		return invalid("%s must be a time of day (HH:MM)", label)
	default:
		return invalid("%s is invalid", label)
	}
}

func parseDate(value string) (time.Time, bool) {
	parsed, err := time.Parse(time.DateOnly, value)
	return parsed, err == nil
}

// notAfter rejects when value is set and falls after limit, comparing calendar days.
func notAfter(value string, limit string, message string) error {
	v, okV := parseDate(value)
	l, okL := parseDate(limit)

	if okV && okL && v.After(l) {
		return invalid("%s", message)
	}

	return nil
}

func optional(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	return value
}

func optionalInt(value *int64) any {
	if value == nil {
		return nil
	}

	return *value
}

func optionalFloat(value *float64) any {
	if value == nil {
		return nil
	}

	return *value
}

// clockValue stores a time of day as HH:MM:SS.
func clockValue(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if len(value) == len("15:04") {
		return value + ":00"
	}

	return value
}

// timestampValue joins a date and an optional clock into one instant in loc.
func timestampValue(date string, clock string, loc *time.Location) any {
	day, ok := parseDate(strings.TrimSpace(date))
	if !ok {
		return nil
	}

	return CombineDateTime(day, clock, loc)
}

func dateString(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(time.DateOnly)
}

func localDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}

	return t.In(locationOrLocal(loc)).Format(time.DateOnly)
}

func localClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}

	return t.In(locationOrLocal(loc)).Format("15:04")
}

func shortClock(clock string) string {
	if len(clock) > len("15:04") {
		return clock[:len("15:04")]
	}

	return clock
}

/*
 * Events
 */

type EventForm struct {
	Title                    string `json:"title" validate:"required,max=200"`
	ShortDescription         string `json:"short_description"`
	Description              string `json:"description"`
	StartDate                string `json:"start_date" validate:"required,calendardate"`
	StartTime                string `json:"start_time" validate:"omitempty,clock"`
	EndDate                  string `json:"end_date" validate:"omitempty,calendardate"`
	EndTime                  string `json:"end_time" validate:"omitempty,clock"`
	Duration                 *int64 `json:"duration" validate:"omitempty,min=0"`
	Location                 string `json:"location"`
	Format                   string `json:"format" validate:"required,oneof=in-person online hybrid"`
	Status                   string `json:"status" validate:"required,oneof=draft published cancelled completed postponed"`
	Category                 string `json:"category" validate:"required,oneof=workshop conference meetup webinar networking training hackathon other"`
	RegistrationURL          string `json:"registration_url" validate:"omitempty,url"`
	RegistrationDeadline     string `json:"registration_deadline" validate:"omitempty,calendardate"`
	RegistrationDeadlineTime string `json:"registration_deadline_time" validate:"omitempty,clock"`
	Capacity                 *int64 `json:"capacity" validate:"omitempty,min=0"`
	OrganizerName            string `json:"organizer_name"`
	OrganizerContactInfo     string `json:"organizer_contactinfo"`
	Requirements             string `json:"requirements"`
	PostedLinkedIn           bool   `json:"posted_linkedin"`
	PostedWhatsApp           bool   `json:"posted_whatsapp"`
	PostedNewsletter         bool   `json:"posted_newsletter"`
	IsHighlight              bool   `json:"is_highlight"`
}

func (f *EventForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.EndDate = strings.TrimSpace(f.EndDate)
	f.Format = strings.ToLower(strings.TrimSpace(f.Format))
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.RegistrationURL = strings.TrimSpace(f.RegistrationURL)
	f.RegistrationDeadline = strings.TrimSpace(f.RegistrationDeadline)
}

func (f *EventForm) crossCheck() error {
	err := notAfter(f.StartDate, f.EndDate, "End date must be on or after the start date")
	if err != nil {
		return err
	}

	return notAfter(f.RegistrationDeadline, f.StartDate, "Registration deadline must be on or before the start date")
}

func (f *EventForm) Validate() error {
	f.normalize()

	err := validateStruct(f)
	if err != nil {
		return err
	}

	return f.crossCheck()
}

func (f *EventForm) Record(loc *time.Location) Record {
	return Record{
		"title":                 f.Title,
		"short_description":     optional(f.ShortDescription),
		"description":           optional(f.Description),
		"start_date":            f.StartDate,
		"start_time":            clockValue(f.StartTime),
		"end_date":              optional(f.EndDate),
		"end_time":              clockValue(f.EndTime),
		"duration":              optionalInt(f.Duration),
		"location":              optional(f.Location),
		"format":                f.Format,
		"status":                f.Status,
		"category":              f.Category,
		"registration_url":      optional(f.RegistrationURL),
		"registration_deadline": timestampValue(f.RegistrationDeadline, f.RegistrationDeadlineTime, loc),
		"capacity":              optionalInt(f.Capacity),
		"organizer_name":        optional(f.OrganizerName),
		"organizer_contactinfo": optional(f.OrganizerContactInfo),
		"requirements":          optional(f.Requirements),
		"posted_linkedin":       f.PostedLinkedIn,
		"posted_whatsapp":       f.PostedWhatsApp,
		"posted_newsletter":     f.PostedNewsletter,
		"is_highlight":          f.IsHighlight,
	}
}

func FormFromEvent(e Event, loc *time.Location) EventForm {
	return EventForm{
		Title:                    e.Title,
		ShortDescription:         e.ShortDescription,
		Description:              e.Description,
		StartDate:                dateString(e.StartDate),
		StartTime:                shortClock(e.StartTime),
		EndDate:                  dateString(e.EndDate),
		EndTime:                  shortClock(e.EndTime),
		Duration:                 e.Duration,
		Location:                 e.Location,
		Format:                   e.Format,
		Status:                   e.Status,
		Category:                 e.Category,
		RegistrationURL:          e.RegistrationURL,
		RegistrationDeadline:     localDate(e.RegistrationDeadline, loc),
		RegistrationDeadlineTime: localClock(e.RegistrationDeadline, loc),
		Capacity:                 e.Capacity,
		OrganizerName:            e.OrganizerName,
		OrganizerContactInfo:     e.OrganizerContactInfo,
		Requirements:             e.Requirements,
		PostedLinkedIn:           e.PostedLinkedIn,
		PostedWhatsApp:           e.PostedWhatsApp,
		PostedNewsletter:         e.PostedNewsletter,
		IsHighlight:              e.IsHighlight,
	}
}

/*
 * Hackathons
 */

type HackathonForm struct {
	EventForm
	Prizes             string `json:"prizes"`
	SignupDeadline     string `json:"signup_deadline" validate:"omitempty,calendardate"`
	SignupDeadlineTime string `json:"signup_deadline_time" validate:"omitempty,clock"`
}

func (f *HackathonForm) Validate() error {
	f.normalize()
	f.SignupDeadline = strings.TrimSpace(f.SignupDeadline)

	err := validateStruct(f)
	if err != nil {
		return err
	}

	err = f.crossCheck()
	if err != nil {
		return err
	}

	return notAfter(f.SignupDeadline, f.StartDate, "Signup deadline must be on or before the start date")
}

func (f *HackathonForm) Record(loc *time.Location) Record {
	record := f.EventForm.Record(loc)
	record["prizes"] = optional(f.Prizes)
	record["signup_deadline"] = timestampValue(f.SignupDeadline, f.SignupDeadlineTime, loc)

	return record
}

func FormFromHackathon(h Hackathon, loc *time.Location) HackathonForm {
	return HackathonForm{
		EventForm:          FormFromEvent(h.Event, loc),
		Prizes:             h.Prizes,
		SignupDeadline:     localDate(h.SignupDeadline, loc),
		SignupDeadlineTime: localClock(h.SignupDeadline, loc),
	}
}

/*
 * Scholarships
 */

type ScholarshipForm struct {
	Title                string   `json:"title" validate:"required,max=200"`
	ShortDescription     string   `json:"short_description"`
	Description          string   `json:"description"`
	StartDate            string   `json:"start_date" validate:"required,calendardate"`
	StartTime            string   `json:"start_time" validate:"omitempty,clock"`
	EndDate              string   `json:"end_date" validate:"omitempty,calendardate"`
	EndTime              string   `json:"end_time" validate:"omitempty,clock"`
	AwardAmount          *float64 `json:"award_amount" validate:"omitempty,min=0"`
	AwardCurrency        string   `json:"award_currency" validate:"omitempty,len=3"`
	ApplicationURL       string   `json:"application_url" validate:"omitempty,url"`
	OrganizerName        string   `json:"organizer_name"`
	OrganizerContactInfo string   `json:"organizer_contactinfo"`
	Location             string   `json:"location"`
	Status               string   `json:"status" validate:"required,oneof=draft published cancelled completed postponed accepting_applications reviewing awarded closed"`
	Category             string   `json:"category" validate:"omitempty,oneof=workshop conference meetup webinar networking training hackathon other"`
	ImageURL             string   `json:"image_url" validate:"omitempty,url"`
}

func (f *ScholarshipForm) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.EndDate = strings.TrimSpace(f.EndDate)
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.ApplicationURL = strings.TrimSpace(f.ApplicationURL)
	f.ImageURL = strings.TrimSpace(f.ImageURL)

	f.AwardCurrency = strings.ToUpper(strings.TrimSpace(f.AwardCurrency))
	if f.AwardCurrency == "" {
		f.AwardCurrency = DefaultAwardCurrency
	}

	err := validateStruct(f)
	if err != nil {
		return err
	}

	if f.EndDate == "" {
		return nil
	}

	return notAfter(f.StartDate, f.EndDate, "End date must be on or after the start date")
}

func (f *ScholarshipForm) Record(loc *time.Location) Record {
	return Record{
		"title":                 f.Title,
		"short_description":     optional(f.ShortDescription),
		"description":           optional(f.Description),
		"start_date":            timestampValue(f.StartDate, f.StartTime, loc),
		"end_date":              timestampValue(f.EndDate, f.EndTime, loc),
		"award_amount":          optionalFloat(f.AwardAmount),
		"award_currency":        f.AwardCurrency,
		"application_url":       optional(f.ApplicationURL),
		"organizer_name":        optional(f.OrganizerName),
		"organizer_contactinfo": optional(f.OrganizerContactInfo),
		"location":              optional(f.Location),
		"status":                f.Status,
		"category":              optional(f.Category),
		"image_url":             optional(f.ImageURL),
	}
}

func FormFromScholarship(s Scholarship, loc *time.Location) ScholarshipForm {
	return ScholarshipForm{
		Title:                s.Title,
		ShortDescription:     s.ShortDescription,
		Description:          s.Description,
		StartDate:            localDate(s.StartDate, loc),
		StartTime:            localClock(s.StartDate, loc),
		EndDate:              localDate(s.EndDate, loc),
		EndTime:              localClock(s.EndDate, loc),
		AwardAmount:          s.AwardAmount,
		AwardCurrency:        s.AwardCurrency,
		ApplicationURL:       s.ApplicationURL,
		OrganizerName:        s.OrganizerName,
		OrganizerContactInfo: s.OrganizerContactInfo,
		Location:             s.Location,
		Status:               s.Status,
		Category:             s.Category,
		ImageURL:             s.ImageURL,
	}
}

/*
 * Student clubs
 */

type StudentClubForm struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Description  string   `json:"description" validate:"required"`
	Link         string   `json:"link" validate:"required,url"`
	Universities []string `json:"universities"`
	Topics       []string `json:"topics"`
}

// Validate trims the text fields and normalises the selections against the
// configured option sets.
func (f *StudentClubForm) Validate(universities OptionSet, topics OptionSet) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Link = strings.TrimSpace(f.Link)

	err := validateStruct(f)
	if err != nil {
		return err
	}

	f.Universities, err = universities.Normalize(f.Universities)
	if err != nil {
		return err
	}

	f.Topics, err = topics.Normalize(f.Topics)

	return err
}

func (f *StudentClubForm) Record() Record {
	return Record{
		"name":         f.Name,
		"description":  f.Description,
		"link":         f.Link,
		"universities": optionalList(f.Universities),
		"topics":       optionalList(f.Topics),
	}
}

func optionalList(values []string) any {
	if len(values) == 0 {
		return nil
	}

	return values
}

func FormFromStudentClub(c StudentClub) StudentClubForm {
	return StudentClubForm{
		Name:         c.Name,
		Description:  c.Description,
		Link:         c.Link,
		Universities: c.Universities,
		Topics:       c.Topics,
	}
}
