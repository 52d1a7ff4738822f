package core

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"blautech-admin/pkg/resources"
)

// DataClient is the generic gateway to the backend collections.
type DataClient interface {
	FetchAll(ctx context.Context, collection CollectionName) ([]Record, error)
	Create(ctx context.Context, collection CollectionName, record Record) (Record, error)
	Update(ctx context.Context, collection CollectionName, id string, partial Record) (Record, error)
	Delete(ctx context.Context, collection CollectionName, id string) error
	Count(ctx context.Context, collection CollectionName) int64
}

type dataClient struct {
	tracer  trace.Tracer
	metrics *DBMetrics
	pool    resources.DBInstance
	now     func() time.Time
}

func NewDataClient(pool resources.DBInstance) DataClient {
	return &dataClient{
		tracer:  otel.GetTracerProvider().Tracer("blautech-admin/core"),
		metrics: NewDBMetrics(),
		pool:    pool,
		now:     time.Now,
	}
}

func (c *dataClient) span(ctx context.Context, name string, collection CollectionName) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "DataClient."+name, trace.WithAttributes(attribute.String("db.collection", string(collection))))
}

func (c *dataClient) FetchAll(ctx context.Context, collection CollectionName) ([]Record, error) {
	start := time.Now()

	var err error

	defer func() { c.metrics.Observe(ctx, collection, "fetch_all", start, err) }()

	ctx, span := c.span(ctx, "FetchAll", collection)
	defer span.End()

	if !collection.Valid() {
		err = fmt.Errorf("unknown collection %q", collection)
		return nil, err
	}

	var records []Record

	err = inSession(ctx, c.pool, func(tx pgx.Tx) error {
		rows, qErr := tx.Query(ctx, "SELECT * FROM "+tableName(collection)+" ORDER BY created_at DESC")
		if qErr != nil {
			return qErr
		}

		records, qErr = collectRecords(rows)

		return qErr
	})
	if err != nil {
		err = classifyRead(collection, err)
		log.Ctx(ctx).Error().Err(err).Str("collection", string(collection)).Msg("failed to fetch records")

		return nil, err
	}

	return records, nil
}

func (c *dataClient) Create(ctx context.Context, collection CollectionName, record Record) (Record, error) {
	start := time.Now()

	var err error

	defer func() { c.metrics.Observe(ctx, collection, "create", start, err) }()

	ctx, span := c.span(ctx, "Create", collection)
	defer span.End()

	if !collection.Valid() {
		err = fmt.Errorf("unknown collection %q", collection)
		return nil, err
	}

	var created Record

	err = inSession(ctx, c.pool, func(tx pgx.Tx) error {
		sql, args := insertSQL(collection, record)

		rows, qErr := tx.Query(ctx, sql, args...)
		if qErr != nil {
			return qErr
		}

		records, qErr := collectRecords(rows)
		if qErr != nil {
			return qErr
		}

		if len(records) == 0 {
			return fmt.Errorf("insert into %s returned no rows", collection)
		}

		created = records[0]

		return nil
	})
	if err != nil {
		err = classifyWrite(collection, "create", err)
		log.Ctx(ctx).Error().Err(err).Str("collection", string(collection)).Msg("failed to create record")

		return nil, err
	}

	return created, nil
}

func (c *dataClient) Update(ctx context.Context, collection CollectionName, id string, partial Record) (Record, error) {
	start := time.Now()

	var err error

	defer func() { c.metrics.Observe(ctx, collection, "update", start, err) }()

	ctx, span := c.span(ctx, "Update", collection)
	defer span.End()

	if !collection.Valid() {
		err = fmt.Errorf("unknown collection %q", collection)
		return nil, err
	}

	payload := maps.Clone(partial)
	if payload == nil {
		payload = Record{}
	}

	payload["updated_at"] = c.now().UTC()

	updated, err := c.updateOnce(ctx, collection, id, payload)
	if err != nil && isUndefinedUpdatedAt(err) {
		log.Ctx(ctx).Warn().Str("collection", string(collection)).Msg("updated_at column missing, retrying update without it")

		delete(payload, "updated_at")
		updated, err = c.updateOnce(ctx, collection, id, payload)
	}

	if err != nil {
		err = classifyWrite(collection, "update", err)
		log.Ctx(ctx).Error().Err(err).Str("collection", string(collection)).Str("id", id).Msg("failed to update record")

		return nil, err
	}

	return updated, nil
}

func (c *dataClient) updateOnce(ctx context.Context, collection CollectionName, id string, payload Record) (Record, error) {
	if len(payload) == 0 {
		return nil, invalid("Nothing to update.")
	}

	var updated Record

	err := inSession(ctx, c.pool, func(tx pgx.Tx) error {
		sql, args := updateSQL(collection, id, payload)

		rows, qErr := tx.Query(ctx, sql, args...)
		if qErr != nil {
			return qErr
		}

		records, qErr := collectRecords(rows)
		if qErr != nil {
			return qErr
		}

		if len(records) == 0 {
			return pgx.ErrNoRows
		}

		updated = records[0]

		return nil
	})

	return updated, err
}

func (c *dataClient) Delete(ctx context.Context, collection CollectionName, id string) error {
	start := time.Now()

	var err error

	defer func() { c.metrics.Observe(ctx, collection, "delete", start, err) }()

	ctx, span := c.span(ctx, "Delete", collection)
	defer span.End()

	if !collection.Valid() {
		err = fmt.Errorf("unknown collection %q", collection)
		return err
	}

	err = inSession(ctx, c.pool, func(tx pgx.Tx) error {
		_, qErr := tx.Exec(ctx, "DELETE FROM "+tableName(collection)+" WHERE id = $1", id)
		return qErr
	})
	if err != nil {
		if errors.Is(err, ErrAuth) {
			err = newClientError(ErrAuth, collection, "delete", msgAuth, nil)
		}

		log.Ctx(ctx).Error().Err(err).Str("collection", string(collection)).Str("id", id).Msg("failed to delete record")

		return err
	}

	return nil
}

func (c *dataClient) Count(ctx context.Context, collection CollectionName) int64 {
	start := time.Now()

	var err error

	defer func() { c.metrics.Observe(ctx, collection, "count", start, err) }()

	ctx, span := c.span(ctx, "Count", collection)
	defer span.End()

	if !collection.Valid() {
		err = fmt.Errorf("unknown collection %q", collection)
		log.Ctx(ctx).Warn().Err(err).Msg("count unavailable")

		return 0
	}

	var count int64

	err = inSession(ctx, c.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, "SELECT count(*) FROM "+tableName(collection)).Scan(&count)
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("collection", string(collection)).Msg("count unavailable")
		return 0
	}

	return count
}
