// Package store abstracts the external data service behind a narrow request
// primitive. Repositories build structured parameter maps and never raw query
// strings, so the concrete backend (hosted REST data service, SQL database)
// can be swapped without touching them.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Method identifies the request verb understood by every binding.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// Reserved parameter keys. Everything else is treated as a column filter.
const (
	ParamSelect = "select"
	ParamOrder  = "order"
	ParamLimit  = "limit"
	ParamOffset = "offset"
	ParamOr     = "or"

	// ParamCount requests the total match count alongside a GET. The REST
	// binding maps it to a Prefer header; the gorm binding runs a count query.
	ParamCount = "count"

	CountExact = "exact"
)

// Params is a structured parameter map in the PostgREST operator grammar
// ("eq.value", "ilike.*term*", "in.(a,b)"). Both bindings interpret the same
// grammar.
type Params map[string]string

// Client is the single request primitive this core uses to reach storage.
// For GET requests made with ParamCount, total carries the full match count
// regardless of limit/offset; otherwise total is -1. When out is non-nil the
// response rows are decoded into it.
type Client interface {
	Do(ctx context.Context, method Method, resource string, params Params, body any, out any) (total int64, err error)
}

// Filter value constructors.

func Eq(v string) string      { return "eq." + v }
func Neq(v string) string     { return "neq." + v }
func Gte(n int) string        { return "gte." + strconv.Itoa(n) }
func Lte(n int) string        { return "lte." + strconv.Itoa(n) }
func GteTime(t time.Time) string { return "gte." + t.UTC().Format(time.RFC3339) }
func LtTime(t time.Time) string  { return "lt." + t.UTC().Format(time.RFC3339) }

// ILike builds a case-insensitive contains filter for a single column.
func ILike(term string) string { return "ilike.*" + term + "*" }

// In builds a set-membership filter. An empty id set matches nothing; callers
// are expected to short-circuit before issuing the request.
func In(ids []string) string {
	return "in.(" + strings.Join(ids, ",") + ")"
}

// OrILike builds a disjunction of contains filters over several columns,
// e.g. (title.ilike.*go*,company.ilike.*go*). Used for free-text search.
func OrILike(term string, columns ...string) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, col+".ilike.*"+term+"*")
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// ErrNotFound signals that the addressed record does not exist. Repositories
// translate it (and empty result sets) into their own not-found sentinels.
var ErrNotFound = errors.New("record not found")

// ErrConflict signals a uniqueness violation (duplicate email, duplicate
// application).
var ErrConflict = errors.New("conflict")

// RequestError classifies a failed store request. Transient failures
// (timeouts, connection resets, 5xx) may be retried; permanent ones
// (malformed request, not found) are surfaced immediately.
type RequestError struct {
	Method    Method
	Resource  string
	Status    int
	Transient bool
	Err       error
}

func (e *RequestError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("store: %s %s failed (%s, status %d): %v", e.Method, e.Resource, kind, e.Status, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a store failure worth retrying.
func IsTransient(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Transient
}

const (
	retryAttempts  = 3
	retryBaseDelay = 100 * time.Millisecond
)

// Retry runs fn up to three times, backing off exponentially between
// attempts. Only transient failures are retried; mutations must not be
// wrapped since a timed-out write may still have been applied.
func Retry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBaseDelay << (attempt - 1)):
			}
		}
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
	}
	return err
}
