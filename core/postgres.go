package core

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"blautech-admin/pkg/resources"
)

const scopeSessionSQL = "SELECT set_config('role', $1, true), set_config('request.jwt.claims', $2, true)"

// inSession runs fn inside a transaction scoped to the caller's session so
// row level security policies see the authenticated user.
func inSession(ctx context.Context, pool resources.DBInstance, fn func(tx pgx.Tx) error) error {
	session, ok := SessionFrom(ctx)
	if !ok {
		return ErrAuth
	}

	claims, err := json.Marshal(session.Claims)
	if err != nil {
		return fmt.Errorf("failed to encode session claims: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(ctx, scopeSessionSQL, session.DatabaseRole(), string(claims))
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to scope session: %w", err)
	}

	err = fn(tx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func tableName(collection CollectionName) string {
	return pgx.Identifier{string(collection)}.Sanitize()
}

// sortedColumns returns the record keys in a stable order with their values.
func sortedColumns(record Record) ([]string, []any) {
	columns := make([]string, 0, len(record))
	for column := range record {
		columns = append(columns, column)
	}

	slices.Sort(columns)

	args := make([]any, len(columns))
	for i, column := range columns {
		args[i] = record[column]
	}

	return columns, args
}

func insertSQL(collection CollectionName, record Record) (string, []any) {
	if len(record) == 0 {
		return "INSERT INTO " + tableName(collection) + " DEFAULT VALUES RETURNING *", nil
	}

	columns, args := sortedColumns(record)

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))

	for i, column := range columns {
		quoted[i] = pgx.Identifier{column}.Sanitize()
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		tableName(collection), strings.Join(quoted, ", "), strings.Join(placeholders, ", ")), args
}

func updateSQL(collection CollectionName, id string, partial Record) (string, []any) {
	columns, args := sortedColumns(partial)

	assignments := make([]string, len(columns))
	for i, column := range columns {
		assignments[i] = pgx.Identifier{column}.Sanitize() + " = $" + strconv.Itoa(i+1)
	}

	args = append(args, id)

	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING *",
		tableName(collection), strings.Join(assignments, ", "), len(args)), args
}

func collectRecords(rows pgx.Rows) ([]Record, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	records := make([]Record, 0)

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		record := make(Record, len(values))

		for i, value := range values {
			name := fields[i].Name
			if name == "id" {
				record[name] = normalizeID(value)
				continue
			}

			record[name] = normalizeValue(value)
		}

		records = append(records, record)
	}

	err := rows.Err()
	if err != nil {
		return nil, err
	}

	return records, nil
}

func normalizeID(value any) any {
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	default:
		return normalizeValue(value)
	}
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case [16]byte:
		return uuid.UUID(v).String()
	case pgtype.Numeric:
		f, err := v.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}

		return f.Float64
	case pgtype.Time:
		if !v.Valid {
			return nil
		}

		seconds := v.Microseconds / int64(time.Second/time.Microsecond)

		return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds/60)%60, seconds%60)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}

		return out
	default:
		return value
	}
}

/*
 * Metrics
 */

type DBMetrics struct {
	qTotal   metric.Int64Counter
	qErrors  metric.Int64Counter
	qLatency metric.Float64Histogram
}

func NewDBMetrics() *DBMetrics {
	meter := otel.Meter("blautech-admin/db")

	qTotal, _ := meter.Int64Counter("db.query.total")
	qErrors, _ := meter.Int64Counter("db.query.errors.total")
	qLatency, _ := meter.Float64Histogram("db.query.duration.ms")

	return &DBMetrics{qTotal: qTotal, qErrors: qErrors, qLatency: qLatency}
}

func (m *DBMetrics) Observe(ctx context.Context, collection CollectionName, op string, start time.Time, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", "postgres"),
		attribute.String("db.collection", string(collection)),
		attribute.String("db.operation", op),
	}

	m.qTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	ms := float64(time.Since(start).Milliseconds())
	m.qLatency.Record(ctx, ms, metric.WithAttributes(attrs...))

	if err != nil {
		m.qErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
