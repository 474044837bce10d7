// Package normalize coerces raw petition parameters into the string-only shapes
// the document engine accepts. Normalize is total and idempotent: running it on
// its own output yields the same set, which resubmission relies on.
package normalize

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"petitionsigner/internal/identity"
	"petitionsigner/internal/petition/document"
	"petitionsigner/internal/petition/models"
	dErrors "petitionsigner/pkg/domain-errors"
)

// InvalidDate is what an unparseable date string normalizes to in tolerant mode.
// It is never parsed back into a date, so the value is stable across passes.
const InvalidDate = "NaN"

const pngDataURLPrefix = "data:image/png;base64,"

// Normalizer applies per-kind coercion rules driven by a field schema.
type Normalizer struct {
	schema   document.Schema
	location *time.Location
	strict   bool
	logger   *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSchema replaces the default petition schema.
func WithSchema(schema document.Schema) Option {
	return func(n *Normalizer) {
		n.schema = schema
	}
}

// WithLocation sets the zone for date strings that carry no offset.
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.location = loc
		}
	}
}

// WithStrictDates makes Prepare reject unparseable dates instead of tolerating them.
func WithStrictDates(strict bool) Option {
	return func(n *Normalizer) {
		n.strict = strict
	}
}

// WithLogger sets the logger that reports tolerated unparseable dates.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// New creates a Normalizer for the petition schema in UTC unless options
// say otherwise.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		schema:   document.PetitionSchema,
		location: time.UTC,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Schema returns the field schema in use.
func (n *Normalizer) Schema() document.Schema {
	return n.schema
}

// Strict reports whether unparseable dates are rejected by Prepare.
func (n *Normalizer) Strict() bool {
	return n.strict
}

// Normalize coerces every field to a string. It never fails; values no rule
// recognizes are stringified as-is.
func (n *Normalizer) Normalize(raw models.Parameters, session *models.Session) models.Normalized {
	out := make(models.Normalized, len(raw)+2)
	for field, value := range raw {
		out[field] = n.normalizeField(n.schema[field], value, session)
	}

	// Identity and email fields are filled from the session even when absent.
	for _, field := range n.schema.FieldsOf(document.KindIdentity) {
		if _, ok := raw[field]; !ok {
			out[field] = n.normalizeField(document.KindIdentity, nil, session)
		}
	}
	for _, field := range n.schema.FieldsOf(document.KindEmail) {
		if _, ok := raw[field]; !ok {
			out[field] = n.normalizeField(document.KindEmail, nil, session)
		}
	}
	return out
}

// Validate reports the first date field whose value cannot be read as a date.
func (n *Normalizer) Validate(raw models.Parameters) error {
	for _, field := range n.schema.FieldsOf(document.KindDate) {
		value, ok := raw[field]
		if !ok {
			continue
		}
		if normalizeDate(value, n.location) == InvalidDate {
			return dErrors.Newf(dErrors.CodeInvalidDate, "%s: unrecognized date %q", field, stringify(value))
		}
	}
	return nil
}

// Prepare normalizes raw, first rejecting unparseable dates when strict mode is on.
func (n *Normalizer) Prepare(ctx context.Context, raw models.Parameters, session *models.Session) (models.Normalized, error) {
	if n.strict {
		if err := n.Validate(raw); err != nil {
			return nil, err
		}
	}
	out := n.Normalize(raw, session)
	for _, field := range n.schema.FieldsOf(document.KindDate) {
		if out[field] == InvalidDate {
			n.logger.WarnContext(ctx, "tolerating unparseable date", "field", field)
		}
	}
	return out, nil
}

func (n *Normalizer) normalizeField(kind document.Kind, value any, session *models.Session) string {
	switch kind {
	case document.KindDate:
		return normalizeDate(value, n.location)
	case document.KindYesNo:
		return normalizeBool(value)
	case document.KindIdentity:
		return normalizeIdentity(value, session)
	case document.KindEmail:
		if s := stringify(value); s != "" {
			return s
		}
		if session != nil {
			return session.Email
		}
		return ""
	case document.KindImage:
		return normalizeImage(value)
	default:
		return stringify(value)
	}
}

func normalizeBool(value any) string {
	if b, ok := value.(bool); ok {
		if b {
			return "true"
		}
		return "false"
	}
	return stringify(value)
}

func normalizeIdentity(value any, session *models.Session) string {
	switch v := value.(type) {
	case string:
		if isIdentityJSON(v) {
			return v
		}
	case map[string]any:
		if _, ok := v["email"]; ok {
			return stringify(v)
		}
	}
	var creatorID, email string
	if session != nil {
		creatorID, email = session.CreatorID, session.Email
	}
	return identity.Identity(creatorID, email)
}

// isIdentityJSON reports whether s is a JSON object string carrying an email key.
func isIdentityJSON(s string) bool {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return false
	}
	_, ok := obj["email"]
	return ok
}

func normalizeImage(value any) string {
	if b, ok := value.([]byte); ok {
		if len(b) == 0 {
			return ""
		}
		return pngDataURLPrefix + base64.StdEncoding.EncodeToString(b)
	}
	return stringify(value)
}

// stringify renders any value as the engine's string form.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case []byte:
		return string(v)
	default:
		// Maps marshal with sorted keys, so equal values render identically.
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}

func isEpochString(s string) bool {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// finiteMillis truncates f to whole milliseconds. Values outside the int64
// range are unreadable, as they are for digit strings.
func finiteMillis(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return InvalidDate
	}
	return strconv.FormatInt(int64(math.Trunc(f)), 10)
}
