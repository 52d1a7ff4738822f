package core

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// PageState is one of the states below; the set is closed.
type PageState interface {
	Name() string
	pageState()
}

type (
	StateIdle    struct{}
	StateLoading struct{}
	StateLoaded  struct{}
	// StateMutating holds while a create, update or delete is in flight.
	StateMutating struct {
		Op string
	}
	StateConfirmingDelete struct {
		ID     string
		Prompt string
	}
	// StateFailed keeps the last loaded items on screen alongside the error.
	StateFailed struct {
		Message string
	}
	StateSucceeded struct {
		Message    string
		ClearAfter time.Duration
	}
)

func (StateIdle) Name() string             { return "idle" }
func (StateLoading) Name() string          { return "loading" }
func (StateLoaded) Name() string           { return "loaded" }
func (StateMutating) Name() string         { return "mutating" }
func (StateConfirmingDelete) Name() string { return "confirming_delete" }
func (StateFailed) Name() string           { return "failed" }
func (StateSucceeded) Name() string        { return "succeeded" }

func (StateIdle) pageState()             {}
func (StateLoading) pageState()          {}
func (StateLoaded) pageState()           {}
func (StateMutating) pageState()         {}
func (StateConfirmingDelete) pageState() {}
func (StateFailed) pageState()           {}
func (StateSucceeded) pageState()        {}

// Banner is the JSON form of a page state.
type Banner struct {
	State        string `json:"state"`
	Message      string `json:"message,omitempty"`
	Prompt       string `json:"prompt,omitempty"`
	ClearAfterMS int64  `json:"clear_after_ms,omitempty"`
}

func BannerOf(state PageState) Banner {
	banner := Banner{State: state.Name()}

	switch s := state.(type) {
	case StateFailed:
		banner.Message = s.Message
	case StateSucceeded:
		banner.Message = s.Message
		banner.ClearAfterMS = s.ClearAfter.Milliseconds()
	case StateConfirmingDelete:
		banner.Prompt = s.Prompt
	}

	return banner
}

type Loader[T any] interface {
	Fetch(ctx context.Context) ([]T, error)
	Delete(ctx context.Context, id string) error
}

type Writer[T any] interface {
	Create(ctx context.Context, record Record) (T, error)
	Update(ctx context.Context, id string, partial Record) (T, error)
}

type Identified interface {
	RecordID() string
	Label() string
}

type Highlightable interface {
	Highlighted() bool
}

// Page drives one entity list screen: load, mutate, confirm deletes and show
// the resulting banner.
type Page[T Identified] struct {
	mu           sync.Mutex
	loader       Loader[T]
	writer       Writer[T]
	noun         string
	successDelay time.Duration
	state        PageState
	items        []T
	generation   uint64
	timer        *time.Timer
}

// NewPage builds a page over store. Stores that also implement Writer[T] accept
// creates and updates.
func NewPage[T Identified](store Loader[T], noun string, successDelay time.Duration) *Page[T] {
	writer, _ := any(store).(Writer[T])

	return &Page[T]{
		loader:       store,
		writer:       writer,
		noun:         noun,
		successDelay: successDelay,
		state:        StateIdle{},
	}
}

func (p *Page[T]) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

func (p *Page[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.items)
}

func (p *Page[T]) Find(id string) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.find(id)
}

func (p *Page[T]) find(id string) (T, bool) {
	for _, item := range p.items {
		if item.RecordID() == id {
			return item, true
		}
	}

	var zero T

	return zero, false
}

func (p *Page[T]) setState(state PageState) {
	p.generation++
	p.state = state
}

// Load fetches the whole collection. On failure the previous items stay.
func (p *Page[T]) Load(ctx context.Context) error {
	p.mu.Lock()
	if _, busy := p.state.(StateMutating); busy {
		p.mu.Unlock()
		return ErrMutationInFlight
	}

	p.setState(StateLoading{})
	p.mu.Unlock()

	items, err := p.loader.Fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.setState(StateFailed{Message: UserMessage(err)})
		return err
	}

	p.items = items
	p.setState(StateLoaded{})

	return nil
}

func (p *Page[T]) beginMutation(op string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, busy := p.state.(StateMutating); busy {
		return ErrMutationInFlight
	}

	p.setState(StateMutating{Op: op})

	return nil
}

// finishMutation reloads the collection after a change and raises the banner.
func (p *Page[T]) finishMutation(ctx context.Context, err error, message string) error {
	if err != nil {
		p.mu.Lock()
		p.setState(StateFailed{Message: UserMessage(err)})
		p.mu.Unlock()

		return err
	}

	items, fetchErr := p.loader.Fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if fetchErr != nil {
		p.setState(StateFailed{Message: UserMessage(fetchErr)})
		return fetchErr
	}

	p.items = items
	p.setState(StateSucceeded{Message: message, ClearAfter: p.successDelay})
	p.scheduleClear()

	return nil
}

func (p *Page[T]) scheduleClear() {
	if p.timer != nil {
		p.timer.Stop()
	}

	generation := p.generation

	p.timer = time.AfterFunc(p.successDelay, func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		if p.generation != generation {
			return
		}

		if _, ok := p.state.(StateSucceeded); ok {
			p.setState(StateLoaded{})
		}
	})
}

func (p *Page[T]) Create(ctx context.Context, record Record) (T, error) {
	var created T

	if p.writer == nil {
		return created, ErrReadOnly
	}

	err := p.beginMutation("create")
	if err != nil {
		return created, err
	}

	created, err = p.writer.Create(ctx, record)

	return created, p.finishMutation(ctx, err, p.noun+" created successfully!")
}

func (p *Page[T]) Update(ctx context.Context, id string, partial Record) (T, error) {
	var updated T

	if p.writer == nil {
		return updated, ErrReadOnly
	}

	err := p.beginMutation("update")
	if err != nil {
		return updated, err
	}

	updated, err = p.writer.Update(ctx, id, partial)

	return updated, p.finishMutation(ctx, err, p.noun+" updated successfully!")
}

// ToggleHighlight flips is_highlight on a loaded item without running the
// full form validation.
func (p *Page[T]) ToggleHighlight(ctx context.Context, id string) (T, error) {
	p.mu.Lock()
	item, found := p.find(id)
	p.mu.Unlock()

	if !found {
		var zero T
		return zero, newClientError(ErrNotFound, "", "update", msgNotFound, nil)
	}

	highlightable, ok := any(item).(Highlightable)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s cannot be highlighted", p.noun)
	}

	return p.Update(ctx, id, Record{"is_highlight": !highlightable.Highlighted()})
}

// RequestDelete asks for confirmation and returns the prompt to show.
func (p *Page[T]) RequestDelete(id string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, busy := p.state.(StateMutating); busy {
		return "", ErrMutationInFlight
	}

	item, found := p.find(id)
	if !found {
		return "", newClientError(ErrNotFound, "", "delete", msgNotFound, nil)
	}

	prompt := fmt.Sprintf("Are you sure you want to delete %q?", item.Label())
	p.setState(StateConfirmingDelete{ID: id, Prompt: prompt})

	return prompt, nil
}

func (p *Page[T]) CancelDelete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.state.(StateConfirmingDelete); ok {
		p.setState(StateLoaded{})
	}
}

// ConfirmDelete deletes the record awaiting confirmation.
func (p *Page[T]) ConfirmDelete(ctx context.Context) error {
	p.mu.Lock()

	pending, ok := p.state.(StateConfirmingDelete)
	if !ok {
		p.mu.Unlock()
		return ErrConfirmationRequired
	}

	p.setState(StateMutating{Op: "delete"})
	p.mu.Unlock()

	err := p.loader.Delete(ctx, pending.ID)

	return p.finishMutation(ctx, err, p.noun+" deleted successfully!")
}

// Dismiss clears an error banner.
func (p *Page[T]) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.state.(StateFailed); ok {
		p.setState(StateLoaded{})
	}
}

func (p *Page[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
	}
}
