package core

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Settings carries the runtime knobs the handlers need.
type Settings struct {
	Location          *time.Location
	FormSuccessDelay  time.Duration
	RelaySuccessDelay time.Duration
	Universities      OptionSet
	Topics            OptionSet
	Now               func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}

	return s.Now()
}

type Handlers interface {
	Navigation(gctx *gin.Context)
	Dashboard(gctx *gin.Context)
	Calendar(gctx *gin.Context)
	StudentClubOptions(gctx *gin.Context)
	RelayScholarship(gctx *gin.Context)

	Events() ResourceHandlers
	Hackathons() ResourceHandlers
	Scholarships() ResourceHandlers
	StudentClubs() ResourceHandlers
	Signups() ResourceHandlers
}

type handlers struct {
	client       DataClient
	relay        Relay
	settings     Settings
	events       *resource[Event]
	hackathons   *resource[Hackathon]
	scholarships *resource[Scholarship]
	studentClubs *resource[StudentClub]
	signups      *resource[Signup]
}

func NewHandlers(client DataClient, relay Relay, settings Settings) Handlers {
	if settings.Location == nil {
		settings.Location = time.Local
	}

	return &handlers{
		client:       client,
		relay:        relay,
		settings:     settings,
		events:       newEventResource(Events(client), settings),
		hackathons:   newHackathonResource(Hackathons(client), settings),
		scholarships: newScholarshipResource(Scholarships(client), settings),
		studentClubs: newStudentClubResource(StudentClubs(client), settings),
		signups:      newSignupResource(Signups(client), settings),
	}
}

func (h *handlers) Events() ResourceHandlers       { return h.events }
func (h *handlers) Hackathons() ResourceHandlers   { return h.hackathons }
func (h *handlers) Scholarships() ResourceHandlers { return h.scholarships }
func (h *handlers) StudentClubs() ResourceHandlers { return h.studentClubs }
func (h *handlers) Signups() ResourceHandlers      { return h.signups }

// abort logs err and answers with the error envelope and the matching status.
func abort(gctx *gin.Context, msg string, err error) {
	ctx := gctx.Request.Context()
	status := StatusFor(err)

	event := log.Ctx(ctx).Error()
	if status < http.StatusInternalServerError {
		event = log.Ctx(ctx).Warn()
	}

	event.Err(err).Int("status", status).Msg(msg)
	gctx.AbortWithStatusJSON(status, NewError(UserMessage(err), err))
}

/*
 * Navigation
 */

type NavigationItem struct {
	Name string `json:"name"`
	Path string `json:"path"`
	API  string `json:"api"`
}

type NavigationView struct {
	User  string           `json:"user,omitempty"`
	Items []NavigationItem `json:"items"`
}

var navigation = []NavigationItem{
	{Name: "Dashboard", Path: "/dashboard", API: "/api/dashboard"},
	{Name: "Events", Path: "/dashboard/events", API: "/api/events"},
	{Name: "Hackathons", Path: "/dashboard/hackathons", API: "/api/hackathons"},
	{Name: "Scholarships", Path: "/dashboard/scholarships", API: "/api/scholarships"},
	{Name: "Student Clubs", Path: "/dashboard/student-clubs", API: "/api/student-clubs"},
	{Name: "Signups", Path: "/dashboard/signups", API: "/api/signups"},
}

func (h *handlers) Navigation(gctx *gin.Context) {
	view := NavigationView{Items: navigation}

	session, ok := SessionFrom(gctx.Request.Context())
	if ok {
		view.User = session.Email()
	}

	gctx.JSON(http.StatusOK, view)
}

/*
 * Dashboard & calendar
 */

type DashboardStats struct {
	Events       int64 `json:"events"`
	Hackathons   int64 `json:"hackathons"`
	Scholarships int64 `json:"scholarships"`
	StudentClubs int64 `json:"student_clubs"`
	Signups      int64 `json:"signups"`
}

type StatCard struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
	Link  string `json:"link"`
}

type DashboardView struct {
	Stats         DashboardStats `json:"stats"`
	Cards         []StatCard     `json:"cards"`
	Calendar      *CalendarMonth `json:"calendar,omitempty"`
	CalendarError string         `json:"calendar_error,omitempty"`
}

func (h *handlers) Dashboard(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	month, err := ParseMonth(gctx.Query("month"), h.settings.now(), h.settings.Location)
	if err != nil {
		abort(gctx, "invalid month", err)
		return
	}

	var (
		stats       DashboardStats
		calendar    CalendarMonth
		calendarErr error
		group       errgroup.Group
	)

	// Counts never fail; they degrade to zero.
	group.Go(func() error { stats.Events = Events(h.client).Count(ctx); return nil })
	group.Go(func() error { stats.Hackathons = Hackathons(h.client).Count(ctx); return nil })
	group.Go(func() error { stats.Scholarships = Scholarships(h.client).Count(ctx); return nil })
	group.Go(func() error { stats.StudentClubs = StudentClubs(h.client).Count(ctx); return nil })
	group.Go(func() error { stats.Signups = Signups(h.client).Count(ctx); return nil })
	group.Go(func() error {
		calendar, calendarErr = h.calendar(ctx, month)
		return nil
	})

	_ = group.Wait()

	view := DashboardView{
		Stats: stats,
		Cards: []StatCard{
			{Label: "Total Events", Value: stats.Events, Link: "/dashboard/events"},
			{Label: "Hackathons", Value: stats.Hackathons, Link: "/dashboard/hackathons"},
			{Label: "Scholarships", Value: stats.Scholarships, Link: "/dashboard/scholarships"},
			{Label: "Student Clubs", Value: stats.StudentClubs, Link: "/dashboard/student-clubs"},
			{Label: "Signups", Value: stats.Signups, Link: "/dashboard/signups"},
		},
	}

	if calendarErr != nil {
		log.Ctx(ctx).Warn().Err(calendarErr).Msg("dashboard calendar unavailable")
		view.CalendarError = UserMessage(calendarErr)
	} else {
		view.Calendar = &calendar
	}

	gctx.JSON(http.StatusOK, view)
}

func (h *handlers) Calendar(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	month, err := ParseMonth(gctx.Query("month"), h.settings.now(), h.settings.Location)
	if err != nil {
		abort(gctx, "invalid month", err)
		return
	}

	calendar, err := h.calendar(ctx, month)
	if err != nil {
		abort(gctx, "failed to build calendar", err)
		return
	}

	gctx.JSON(http.StatusOK, calendar)
}

// calendar fetches the three scheduled collections in parallel and lays them out.
func (h *handlers) calendar(ctx context.Context, month time.Time) (CalendarMonth, error) {
	var (
		events       []Event
		hackathons   []Hackathon
		scholarships []Scholarship
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error
		events, err = h.events.store.Fetch(groupCtx)

		return err
	})
	group.Go(func() error {
		var err error
		hackathons, err = h.hackathons.store.Fetch(groupCtx)

		return err
	})
	group.Go(func() error {
		var err error
		scholarships, err = h.scholarships.store.Fetch(groupCtx)

		return err
	})

	err := group.Wait()
	if err != nil {
		return CalendarMonth{}, err
	}

	loc := h.settings.Location

	items := CalendarItems(CalendarEvent, events, loc)
	items = append(items, CalendarItems(CalendarHackathon, hackathons, loc)...)
	items = append(items, CalendarItems(CalendarScholarship, scholarships, loc)...)

	return BuildCalendar(month, items, h.settings.now(), loc), nil
}

/*
 * Student club options & scholarship relay
 */

type ClubOptionsView struct {
	Universities []string `json:"universities"`
	Topics       []string `json:"topics"`
}

func (h *handlers) StudentClubOptions(gctx *gin.Context) {
	gctx.JSON(http.StatusOK, ClubOptionsView{
		Universities: h.settings.Universities.Options(),
		Topics:       h.settings.Topics.Options(),
	})
}

func (h *handlers) RelayScholarship(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	// The relay is an admin action like any write.
	if _, ok := SessionFrom(ctx); !ok {
		abort(gctx, "relay rejected", newClientError(ErrAuth, CollectionScholarships, "relay", msgAuth, nil))
		return
	}

	var payload relayPayload

	err := gctx.ShouldBindJSON(&payload)
	if err != nil {
		abort(gctx, "failed to bind JSON", invalid("Invalid request body"))
		return
	}

	err = h.relay.Send(ctx, payload.ScholarshipLink)
	if err != nil {
		abort(gctx, "scholarship relay failed", err)
		return
	}

	gctx.JSON(http.StatusOK, MutationView{
		Banner: BannerOf(StateSucceeded{Message: relaySuccessMessage, ClearAfter: h.settings.RelaySuccessDelay}),
	})
}
