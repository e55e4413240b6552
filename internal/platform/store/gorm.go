package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClient implements Client on top of a SQL database through gorm. It
// interprets the same parameter grammar as the REST binding, so repositories
// run unchanged against Postgres in production or in-memory SQLite in tests.
type GormClient struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Client = (*GormClient)(nil)

// NewGormClient creates a SQL binding over an opened gorm connection.
func NewGormClient(db *gorm.DB) *GormClient {
	return &GormClient{db: db, now: time.Now}
}

var knownResources = map[string]bool{
	"jobs":         true,
	"users":        true,
	"applications": true,
}

// identPattern restricts column names arriving through the filter grammar.
// Identifiers cannot be bound as SQL parameters, so they are whitelisted.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Do executes one request against the database.
func (c *GormClient) Do(ctx context.Context, method Method, resource string, params Params, body any, out any) (int64, error) {
	if !knownResources[resource] {
		return -1, &RequestError{Method: method, Resource: resource, Err: fmt.Errorf("unknown resource %q", resource)}
	}

	switch method {
	case MethodGet:
		return c.get(ctx, resource, params, out)
	case MethodPost:
		return c.insert(ctx, resource, params, body, out)
	case MethodPatch:
		return c.update(ctx, resource, params, body, out)
	case MethodDelete:
		return c.remove(ctx, resource, params, out)
	default:
		return -1, &RequestError{Method: method, Resource: resource, Err: fmt.Errorf("unsupported method")}
	}
}

func (c *GormClient) get(ctx context.Context, resource string, params Params, out any) (int64, error) {
	q, opts, err := c.applyParams(c.db.WithContext(ctx).Table(resource), resource, params)
	if err != nil {
		return -1, err
	}

	total := int64(-1)
	if opts.wantCount {
		if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return -1, c.wrap(MethodGet, resource, err)
		}
	}

	if opts.limit > 0 {
		q = q.Limit(opts.limit)
	}
	if opts.offset > 0 {
		q = q.Offset(opts.offset)
	}

	if err := findRows(q, resource, out); err != nil {
		return -1, c.wrap(MethodGet, resource, err)
	}
	return total, nil
}

func (c *GormClient) insert(ctx context.Context, resource string, _ Params, body any, out any) (int64, error) {
	row, err := toRow(body)
	if err != nil {
		return -1, &RequestError{Method: MethodPost, Resource: resource, Err: err}
	}
	normalizeTimes(row)
	// The store assigns opaque identifiers, mirroring the hosted service.
	if id, _ := row["id"].(string); id == "" {
		row["id"] = uuid.NewString()
	}
	now := c.now().UTC()
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = now
	}
	row["updated_at"] = now

	if err := c.db.WithContext(ctx).Table(resource).Create(row).Error; err != nil {
		return -1, c.wrap(MethodPost, resource, err)
	}
	return -1, decodeRows([]map[string]any{row}, out)
}

func (c *GormClient) update(ctx context.Context, resource string, params Params, body any, out any) (int64, error) {
	changes, err := toRow(body)
	if err != nil {
		return -1, &RequestError{Method: MethodPatch, Resource: resource, Err: err}
	}
	normalizeTimes(changes)
	changes["updated_at"] = c.now().UTC()

	q, _, err := c.applyParams(c.db.WithContext(ctx).Table(resource), resource, params)
	if err != nil {
		return -1, err
	}
	if err := q.Updates(changes).Error; err != nil {
		return -1, c.wrap(MethodPatch, resource, err)
	}

	// Return the affected rows, PostgREST representation style. An empty
	// slice tells the repository the record did not exist.
	q2, _, _ := c.applyParams(c.db.WithContext(ctx).Table(resource), resource, params)
	if err := findRows(q2, resource, out); err != nil {
		return -1, c.wrap(MethodPatch, resource, err)
	}
	return -1, nil
}

func (c *GormClient) remove(ctx context.Context, resource string, params Params, out any) (int64, error) {
	q, _, err := c.applyParams(c.db.WithContext(ctx).Table(resource), resource, params)
	if err != nil {
		return -1, err
	}
	if err := findRows(q, resource, out); err != nil {
		return -1, c.wrap(MethodDelete, resource, err)
	}

	q2, _, _ := c.applyParams(c.db.WithContext(ctx).Table(resource), resource, params)
	if err := q2.Delete(nil).Error; err != nil {
		return -1, c.wrap(MethodDelete, resource, err)
	}
	return -1, nil
}

type queryOpts struct {
	limit     int
	offset    int
	wantCount bool
}

// applyParams translates the shared filter grammar into gorm clauses.
func (c *GormClient) applyParams(q *gorm.DB, resource string, params Params) (*gorm.DB, queryOpts, error) {
	var opts queryOpts
	for key, value := range params {
		switch key {
		case ParamSelect:
			// Rows are always returned in full; projections are a REST
			// bandwidth optimization the SQL binding does not need.
		case ParamCount:
			opts.wantCount = value == CountExact
		case ParamLimit:
			opts.limit, _ = strconv.Atoi(value)
		case ParamOffset:
			opts.offset, _ = strconv.Atoi(value)
		case ParamOrder:
			for _, part := range strings.Split(value, ",") {
				col, dir, _ := strings.Cut(part, ".")
				if !identPattern.MatchString(col) {
					return nil, opts, &RequestError{Resource: resource, Err: fmt.Errorf("invalid order column %q", col)}
				}
				if dir == "desc" {
					q = q.Order(col + " DESC")
				} else {
					q = q.Order(col + " ASC")
				}
			}
		case ParamOr:
			expr, args, err := orConditions(value)
			if err != nil {
				return nil, opts, &RequestError{Resource: resource, Err: err}
			}
			q = q.Where(expr, args...)
		default:
			expr, arg, err := condition(key, value)
			if err != nil {
				return nil, opts, &RequestError{Resource: resource, Err: err}
			}
			if arg == nil {
				q = q.Where(expr)
			} else {
				q = q.Where(expr, arg)
			}
		}
	}
	return q, opts, nil
}

// condition translates one "column → op.operand" filter into a SQL fragment
// with a bound argument.
func condition(col, expr string) (string, any, error) {
	if !identPattern.MatchString(col) {
		return "", nil, fmt.Errorf("invalid filter column %q", col)
	}
	op, operand, ok := strings.Cut(expr, ".")
	if !ok {
		return "", nil, fmt.Errorf("invalid filter %q for column %q", expr, col)
	}
	switch op {
	case "eq":
		return col + " = ?", typedOperand(operand), nil
	case "neq":
		return col + " <> ?", typedOperand(operand), nil
	case "gt":
		return col + " > ?", typedOperand(operand), nil
	case "gte":
		return col + " >= ?", typedOperand(operand), nil
	case "lt":
		return col + " < ?", typedOperand(operand), nil
	case "lte":
		return col + " <= ?", typedOperand(operand), nil
	case "ilike":
		pattern := strings.ToLower(strings.ReplaceAll(operand, "*", "%"))
		return "LOWER(" + col + ") LIKE ?", pattern, nil
	case "in":
		inner := strings.TrimSuffix(strings.TrimPrefix(operand, "("), ")")
		vals := []string{}
		if inner != "" {
			vals = strings.Split(inner, ",")
		}
		return col + " IN ?", vals, nil
	case "is":
		switch operand {
		case "null":
			return col + " IS NULL", nil, nil
		case "true":
			return col + " = ?", true, nil
		case "false":
			return col + " = ?", false, nil
		}
		return "", nil, fmt.Errorf("invalid is-filter %q", operand)
	}
	return "", nil, fmt.Errorf("unsupported operator %q", op)
}

// orConditions parses "(a.ilike.*x*,b.ilike.*x*)" into an OR of conditions.
func orConditions(value string) (string, []any, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(value, "("), ")")
	var exprs []string
	var args []any
	for _, part := range strings.Split(inner, ",") {
		col, rest, ok := strings.Cut(part, ".")
		if !ok {
			return "", nil, fmt.Errorf("invalid or-filter part %q", part)
		}
		expr, arg, err := condition(col, rest)
		if err != nil {
			return "", nil, err
		}
		exprs = append(exprs, expr)
		if arg != nil {
			args = append(args, arg)
		}
	}
	return "(" + strings.Join(exprs, " OR ") + ")", args, nil
}

// typedOperand converts a filter operand into the Go type the SQL driver
// should bind: ints, bools and RFC3339 timestamps keep their native type.
func typedOperand(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return s
}

// normalizeTimes converts RFC3339 strings headed for timestamp columns into
// time.Time, so timestamps are always stored in the driver's native format
// and range filters compare correctly.
func normalizeTimes(row map[string]any) {
	for k, v := range row {
		s, ok := v.(string)
		if !ok || !isTimeColumn(k) {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			row[k] = t.UTC()
		}
	}
}

func isTimeColumn(col string) bool {
	return strings.HasSuffix(col, "_at") || col == "last_login"
}

// toRow converts an arbitrary body into a column map via JSON.
func toRow(body any) (map[string]any, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	var row map[string]any
	if err := json.Unmarshal(b, &row); err != nil {
		return nil, fmt.Errorf("body must be an object: %w", err)
	}
	return row, nil
}

// findRows scans the query result through the typed table record, then
// re-marshals into the caller's slice type. Scanning typed keeps driver
// quirks (sqlite booleans arriving as integers) out of the JSON round trip.
func findRows(q *gorm.DB, resource string, out any) error {
	var rows any
	var err error
	switch resource {
	case "jobs":
		var r []JobRecord
		err = q.Find(&r).Error
		rows = r
	case "users":
		var r []UserRecord
		err = q.Find(&r).Error
		rows = r
	default:
		var r []ApplicationRecord
		err = q.Find(&r).Error
		rows = r
	}
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	return json.Unmarshal(b, out)
}

// decodeRows marshals raw rows through JSON into the caller's slice type,
// normalizing driver-specific value types along the way.
func decodeRows(rows []map[string]any, out any) error {
	if out == nil {
		return nil
	}
	for _, row := range rows {
		for k, v := range row {
			switch tv := v.(type) {
			case time.Time:
				row[k] = tv.UTC().Format(time.RFC3339Nano)
			case []byte:
				row[k] = string(tv)
			}
		}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	return json.Unmarshal(b, out)
}

func (c *GormClient) wrap(method Method, resource string, err error) error {
	reqErr := &RequestError{Method: method, Resource: resource, Err: err}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		reqErr.Err = ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err):
		reqErr.Status = 409
		reqErr.Err = ErrConflict
	case errors.Is(err, context.DeadlineExceeded):
		reqErr.Transient = true
	}
	return reqErr
}

// isUniqueViolation matches unique-constraint errors across sqlite and
// postgres, whose drivers do not share a sentinel.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
