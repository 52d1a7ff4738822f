package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResourceHandlers serves one entity collection.
type ResourceHandlers interface {
	List(gctx *gin.Context)
	Get(gctx *gin.Context)
	Post(gctx *gin.Context)
	Put(gctx *gin.Context)
	Delete(gctx *gin.Context)
	ToggleHighlight(gctx *gin.Context)
}

type entity interface {
	Identified
	Searchable
}

type ListView struct {
	Banner       Banner   `json:"banner"`
	View         ViewMode `json:"view"`
	Query        string   `json:"query,omitempty"`
	Total        int      `json:"total"`
	Showing      int      `json:"showing"`
	EmptyMessage string   `json:"empty_message,omitempty"`
	Items        any      `json:"items"`
}

type MutationView struct {
	Banner Banner `json:"banner"`
	Record any    `json:"record,omitempty"`
}

// resource wires a page controller to HTTP for one entity. Nil hooks disable
// the matching capability.
type resource[T entity] struct {
	noun     string
	plural   string
	store    Loader[T]
	settings Settings

	decode func(gctx *gin.Context, settings Settings) (Record, error)
	detail func(item T, settings Settings) any
	table  func(items []T, settings Settings) any
	group  func(items []T, settings Settings) any

	highlight bool
}

func (r *resource[T]) newPage() *Page[T] {
	return NewPage[T](r.store, r.noun, r.settings.FormSuccessDelay)
}

func (r *resource[T]) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	mode, err := ParseViewMode(gctx.Query("view"))
	if err == nil && mode == ViewChronological && r.group == nil {
		err = invalid("Chronological view is not available for %s", r.plural)
	}

	if err != nil {
		abort(gctx, "invalid view mode", err)
		return
	}

	page := r.newPage()
	defer page.Close()

	err = page.Load(ctx)
	if err != nil {
		abort(gctx, "failed to load "+r.plural, err)
		return
	}

	query := gctx.Query("q")
	items := page.Items()
	filtered := Filter(items, query)

	view := ListView{
		Banner:  BannerOf(page.State()),
		View:    mode,
		Query:   query,
		Total:   len(items),
		Showing: len(filtered),
		Items:   filtered,
	}

	switch {
	case mode == ViewTable && r.table != nil:
		view.Items = r.table(filtered, r.settings)
	case mode == ViewChronological:
		view.Items = r.group(filtered, r.settings)
	}

	if len(filtered) == 0 {
		view.EmptyMessage = "No " + r.plural + " available"
		if query != "" {
			view.EmptyMessage = "No " + r.plural + " match your search criteria"
		}
	}

	gctx.JSON(http.StatusOK, view)
}

func (r *resource[T]) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	id := gctx.Param("id")
	if id == "" {
		abort(gctx, "parameter 'id' is required", invalid("parameter 'id' is required"))
		return
	}

	page := r.newPage()
	defer page.Close()

	err := page.Load(ctx)
	if err != nil {
		abort(gctx, "failed to load "+r.plural, err)
		return
	}

	item, found := page.Find(id)
	if !found {
		abort(gctx, r.noun+" not found", newClientError(ErrNotFound, "", "fetch", msgNotFound, nil))
		return
	}

	if r.detail == nil {
		gctx.JSON(http.StatusOK, item)
		return
	}

	gctx.JSON(http.StatusOK, r.detail(item, r.settings))
}

func (r *resource[T]) Post(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	if r.decode == nil {
		abort(gctx, r.plural+" are read-only", ErrReadOnly)
		return
	}

	// Validates the form before anything reaches the backend.
	record, err := r.decode(gctx, r.settings)
	if err != nil {
		abort(gctx, r.noun+" validation failed", err)
		return
	}

	page := r.newPage()
	defer page.Close()

	created, err := page.Create(ctx, record)
	if err != nil {
		abort(gctx, "saving "+r.noun+" failed", err)
		return
	}

	gctx.JSON(http.StatusCreated, MutationView{Banner: BannerOf(page.State()), Record: created})
}

func (r *resource[T]) Put(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	if r.decode == nil {
		abort(gctx, r.plural+" are read-only", ErrReadOnly)
		return
	}

	id := gctx.Param("id")
	if id == "" {
		abort(gctx, "parameter 'id' is required", invalid("parameter 'id' is required"))
		return
	}

	record, err := r.decode(gctx, r.settings)
	if err != nil {
		abort(gctx, r.noun+" validation failed", err)
		return
	}

	page := r.newPage()
	defer page.Close()

	updated, err := page.Update(ctx, id, record)
	if err != nil {
		abort(gctx, "updating "+r.noun+" failed", err)
		return
	}

	gctx.JSON(http.StatusOK, MutationView{Banner: BannerOf(page.State()), Record: updated})
}

// Delete answers 428 with the confirmation prompt unless confirm=true is given.
func (r *resource[T]) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	id := gctx.Param("id")
	if id == "" {
		abort(gctx, "parameter 'id' is required", invalid("parameter 'id' is required"))
		return
	}

	page := r.newPage()
	defer page.Close()

	err := page.Load(ctx)
	if err != nil {
		abort(gctx, "failed to load "+r.plural, err)
		return
	}

	_, err = page.RequestDelete(id)
	if err != nil {
		abort(gctx, "cannot delete "+r.noun, err)
		return
	}

	if gctx.Query("confirm") != "true" {
		gctx.AbortWithStatusJSON(http.StatusPreconditionRequired, MutationView{Banner: BannerOf(page.State())})
		return
	}

	err = page.ConfirmDelete(ctx)
	if err != nil {
		abort(gctx, "deleting "+r.noun+" failed", err)
		return
	}

	gctx.JSON(http.StatusOK, MutationView{Banner: BannerOf(page.State())})
}

func (r *resource[T]) ToggleHighlight(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	if !r.highlight {
		abort(gctx, r.plural+" cannot be highlighted", ErrReadOnly)
		return
	}

	page := r.newPage()
	defer page.Close()

	err := page.Load(ctx)
	if err != nil {
		abort(gctx, "failed to load "+r.plural, err)
		return
	}

	updated, err := page.ToggleHighlight(ctx, gctx.Param("id"))
	if err != nil {
		abort(gctx, "toggling highlight failed", err)
		return
	}

	gctx.JSON(http.StatusOK, MutationView{Banner: BannerOf(page.State()), Record: updated})
}

/*
 * Entity wiring
 */

func bindForm(gctx *gin.Context, form any) error {
	err := gctx.ShouldBindJSON(form)
	if err != nil {
		return invalid("Invalid request body: %v", err)
	}

	return nil
}

func newEventResource(store Loader[Event], settings Settings) *resource[Event] {
	return &resource[Event]{
		noun:     "Event",
		plural:   "events",
		store:    store,
		settings: settings,
		decode: func(gctx *gin.Context, s Settings) (Record, error) {
			var form EventForm
			if err := bindForm(gctx, &form); err != nil {
				return nil, err
			}

			if err := form.Validate(); err != nil {
				return nil, err
			}

			return form.Record(s.Location), nil
		},
		detail: func(e Event, s Settings) any { return NewEventDetail(e, s.Location) },
		table:  func(items []Event, s Settings) any { return EventRows(items, s.Location) },
		group: func(items []Event, s Settings) any {
			return GroupByDay(items, s.Location, s.now())
		},
		highlight: true,
	}
}

func newHackathonResource(store Loader[Hackathon], settings Settings) *resource[Hackathon] {
	return &resource[Hackathon]{
		noun:     "Hackathon",
		plural:   "hackathons",
		store:    store,
		settings: settings,
		decode: func(gctx *gin.Context, s Settings) (Record, error) {
			var form HackathonForm
			if err := bindForm(gctx, &form); err != nil {
				return nil, err
			}

			if err := form.Validate(); err != nil {
				return nil, err
			}

			return form.Record(s.Location), nil
		},
		detail: func(h Hackathon, s Settings) any { return NewHackathonDetail(h, s.Location) },
		table:  func(items []Hackathon, s Settings) any { return HackathonRows(items, s.Location) },
		group: func(items []Hackathon, s Settings) any {
			return GroupByDay(items, s.Location, s.now())
		},
		highlight: true,
	}
}

func newScholarshipResource(store Loader[Scholarship], settings Settings) *resource[Scholarship] {
	return &resource[Scholarship]{
		noun:     "Scholarship",
		plural:   "scholarships",
		store:    store,
		settings: settings,
		decode: func(gctx *gin.Context, s Settings) (Record, error) {
			var form ScholarshipForm
			if err := bindForm(gctx, &form); err != nil {
				return nil, err
			}

			if err := form.Validate(); err != nil {
				return nil, err
			}

			return form.Record(s.Location), nil
		},
		detail: func(sch Scholarship, s Settings) any { return NewScholarshipDetail(sch, s.Location) },
		table:  func(items []Scholarship, s Settings) any { return ScholarshipRows(items, s.Location) },
		group: func(items []Scholarship, s Settings) any {
			return GroupByDay(items, s.Location, s.now())
		},
	}
}

func newStudentClubResource(store Loader[StudentClub], settings Settings) *resource[StudentClub] {
	return &resource[StudentClub]{
		noun:     "Student club",
		plural:   "student clubs",
		store:    store,
		settings: settings,
		decode: func(gctx *gin.Context, s Settings) (Record, error) {
			var form StudentClubForm
			if err := bindForm(gctx, &form); err != nil {
				return nil, err
			}

			if err := form.Validate(s.Universities, s.Topics); err != nil {
				return nil, err
			}

			return form.Record(), nil
		},
		detail: func(c StudentClub, _ Settings) any { return NewStudentClubDetail(c) },
		table:  func(items []StudentClub, _ Settings) any { return StudentClubRows(items) },
	}
}

func newSignupResource(store SignupStore, settings Settings) *resource[Signup] {
	return &resource[Signup]{
		noun:     "Signup",
		plural:   "signups",
		store:    store,
		settings: settings,
	}
}
