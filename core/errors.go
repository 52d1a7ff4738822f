package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrAuth             = errors.New("not authenticated")
	ErrAccessDenied     = errors.New("access denied")
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate record")
	ErrInvalidReference = errors.New("invalid reference")
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidValue     = errors.New("invalid value")
	ErrWrite            = errors.New("write failed")

	ErrMutationInFlight     = errors.New("another change is still being saved")
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	ErrReadOnly             = errors.New("collection is read-only")
	ErrRelayNotConfigured   = errors.New("webhook url is not configured")
)

const (
	msgAuth             = "Not authenticated. Please log in again."
	msgAccessDenied     = "Access denied. Please check Row Level Security (RLS) policies."
	msgDuplicate        = "A record with this information already exists."
	msgInvalidReference = "Invalid reference. Please check related data."
	msgMissingField     = "Required field is missing. Please fill in all required fields."
	msgInvalidValue     = "Invalid value provided. Please check your input (e.g., status, format, category)."
	msgNotFound         = "Record not found. It may have been deleted."
	msgNotAdmin         = "You don't have admin privileges to access this panel."
)

// ClientError is a classified data client failure carrying the message shown to the admin.
type ClientError struct {
	Kind       error
	Collection CollectionName
	Op         string
	Message    string
	Err        error
}

func (e *ClientError) Error() string {
	return e.Message
}

func (e *ClientError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

func newClientError(kind error, collection CollectionName, op string, message string, cause error) *ClientError {
	return &ClientError{Kind: kind, Collection: collection, Op: op, Message: message, Err: cause}
}

// ValidationError is raised by form validation before anything reaches the backend.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

/*
 * SQLSTATE classification
 */

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateNotNullViolation    = "23502"
	sqlStateCheckViolation      = "23514"
	sqlStateInsufficientPrivs   = "42501"
	sqlStateUndefinedColumn     = "42703"
)

func pgDetails(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.Message
	}

	return "", err.Error()
}

func isAccessDenied(code string, message string) bool {
	lower := strings.ToLower(message)
	return code == sqlStateInsufficientPrivs || strings.Contains(lower, "permission denied") || strings.Contains(lower, "policy")
}

func isUndefinedUpdatedAt(err error) bool {
	code, message := pgDetails(err)
	if code == sqlStateUndefinedColumn && strings.Contains(message, "updated_at") {
		return true
	}

	return code == "" && strings.Contains(message, `column "updated_at"`)
}

func classifyRead(collection CollectionName, err error) error {
	if errors.Is(err, ErrAuth) {
		return newClientError(ErrAuth, collection, "fetch", msgAuth, nil)
	}

	code, message := pgDetails(err)
	if isAccessDenied(code, message) {
		msg := fmt.Sprintf("Access denied to %s. Please check Row Level Security (RLS) policies. "+
			"The authenticated user needs SELECT permission.", collection)
		return newClientError(ErrAccessDenied, collection, "fetch", msg, err)
	}

	return fmt.Errorf("failed to fetch %s: %w", collection, err)
}

func classifyWrite(collection CollectionName, op string, err error) error {
	if errors.Is(err, ErrAuth) {
		return newClientError(ErrAuth, collection, op, msgAuth, nil)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return newClientError(ErrNotFound, collection, op, msgNotFound, err)
	}

	code, message := pgDetails(err)

	switch {
	case code == sqlStateUniqueViolation:
		return newClientError(ErrDuplicate, collection, op, msgDuplicate, err)
	case code == sqlStateForeignKeyViolation:
		return newClientError(ErrInvalidReference, collection, op, msgInvalidReference, err)
	case code == sqlStateNotNullViolation:
		return newClientError(ErrMissingField, collection, op, msgMissingField, err)
	case code == sqlStateCheckViolation || strings.Contains(message, "violates check constraint"):
		return newClientError(ErrInvalidValue, collection, op, msgInvalidValue, err)
	case isAccessDenied(code, message):
		return newClientError(ErrAccessDenied, collection, op, msgAccessDenied, err)
	}

	if message == "" {
		message = fmt.Sprintf("Failed to %s record in %s", op, collection)
	}

	return newClientError(ErrWrite, collection, op, message, err)
}

/*
 * HTTP envelope
 */

type Error struct {
	Message string   `json:"message,omitempty"`
	Err     []string `json:"err,omitempty"`
}

func NewError(message string, errs ...error) *Error {
	return &Error{
		Message: message,
		Err: func() []string {
			var msgs []string

			for _, err := range errs {
				if err != nil && err.Error() != message {
					msgs = append(msgs, err.Error())
				}
			}

			return msgs
		}(),
	}
}

func (e *Error) Error() string {
	//nolint:errchkjson
	data, _ := json.Marshal(e)
	return string(data)
}

func (e *Error) Unwrap() error {
	if e == nil || len(e.Err) == 0 {
		return nil
	}

	errs := make([]error, len(e.Err))
	for i, err := range e.Err {
		errs[i] = errors.New(err)
	}

	return errors.Join(errs...)
}

func (e *Error) Messages() []string {
	return e.Err
}

// StatusFor maps a failure to the HTTP status the admin UI expects.
func StatusFor(err error) int {
	var (
		validationErr *ValidationError
		relayErr      *RelayError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &relayErr):
		return http.StatusBadGateway
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrMutationInFlight):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidReference), errors.Is(err, ErrMissingField), errors.Is(err, ErrInvalidValue):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, ErrReadOnly):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrRelayNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the text shown in the error banner.
func UserMessage(err error) string {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Message
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		return relayErr.Error()
	}

	if errors.Is(err, ErrAuth) {
		return msgAuth
	}

	return err.Error()
}
