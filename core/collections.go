package core

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Collection binds the data client to one backend collection and decodes its
// records into T.
type Collection[T any] struct {
	name   CollectionName
	client DataClient
}

func NewCollection[T any](client DataClient, name CollectionName) *Collection[T] {
	return &Collection[T]{name: name, client: client}
}

func Events(client DataClient) *Collection[Event] {
	return NewCollection[Event](client, CollectionEvents)
}

func Hackathons(client DataClient) *Collection[Hackathon] {
	return NewCollection[Hackathon](client, CollectionHackathons)
}

func Scholarships(client DataClient) *Collection[Scholarship] {
	return NewCollection[Scholarship](client, CollectionScholarships)
}

func StudentClubs(client DataClient) *Collection[StudentClub] {
	return NewCollection[StudentClub](client, CollectionStudentClubs)
}

// SignupStore is the read and delete surface for signups.
type SignupStore interface {
	Fetch(ctx context.Context) ([]Signup, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) int64
}

type signupStore struct {
	collection *Collection[Signup]
}

func Signups(client DataClient) SignupStore {
	return &signupStore{collection: NewCollection[Signup](client, CollectionSignups)}
}

func (s *signupStore) Fetch(ctx context.Context) ([]Signup, error) {
	return s.collection.Fetch(ctx)
}

func (s *signupStore) Delete(ctx context.Context, id string) error {
	return s.collection.Delete(ctx, id)
}

func (s *signupStore) Count(ctx context.Context) int64 {
	return s.collection.Count(ctx)
}

func (c *Collection[T]) Fetch(ctx context.Context) ([]T, error) {
	records, err := c.client.FetchAll(ctx, c.name)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(records))

	for _, record := range records {
		item, err := Decode[T](c.name, record)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

func (c *Collection[T]) Create(ctx context.Context, record Record) (T, error) {
	created, err := c.client.Create(ctx, c.name, record)
	if err != nil {
		var zero T
		return zero, err
	}

	return Decode[T](c.name, created)
}

func (c *Collection[T]) Update(ctx context.Context, id string, partial Record) (T, error) {
	updated, err := c.client.Update(ctx, c.name, id, partial)
	if err != nil {
		var zero T
		return zero, err
	}

	return Decode[T](c.name, updated)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.client.Delete(ctx, c.name, id)
}

func (c *Collection[T]) Count(ctx context.Context) int64 {
	return c.client.Count(ctx, c.name)
}

// Decode adapts a backend record to the canonical schema and maps it onto T.
func Decode[T any](collection CollectionName, record Record) (T, error) {
	var out T

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: false,
		Result:           &out,
		DecodeHook:       stringToTimeHook,
	})
	if err != nil {
		return out, fmt.Errorf("failed to build decoder for %s: %w", collection, err)
	}

	err = decoder.Decode(map[string]any(Canonicalize(collection, record)))
	if err != nil {
		return out, fmt.Errorf("failed to decode %s record: %w", collection, err)
	}

	return out, nil
}

var timeType = reflect.TypeOf(time.Time{})

// stringToTimeHook accepts RFC 3339 timestamps and plain dates.
func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != timeType {
		return data, nil
	}

	value, _ := data.(string)

	for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
	}

	return nil, fmt.Errorf("cannot parse %q as a time", value)
}
