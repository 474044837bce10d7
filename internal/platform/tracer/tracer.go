// Package tracer is the tracing seam of the petition flow. Services take a
// Tracer; cmd/server plugs in the OpenTelemetry adapter and tests use NoopTracer.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Span represents an active trace span.
// Spans track the execution of a single operation and can record errors and events.
type Span interface {
	// End completes the span, recording any error that occurred.
	// If err is non-nil, the span is marked as failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	// Attributes provide context for debugging and analysis.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	// Events mark significant points during span execution.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans for distributed tracing.
// Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context contains the new span and should be passed to child operations.
	// The span must be ended by calling Span.End().
	//
	// Example:
	//   ctx, span := tracer.Start(ctx, tracer.SpanSubmit,
	//       tracer.String(tracer.AttrTemplateID, templateID),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans. It is the OpenTelemetry
// type so adapters pass it through unchanged.
type Attribute = attribute.KeyValue

func String(key, value string) Attribute { return attribute.String(key, value) }

func Bool(key string, value bool) Attribute { return attribute.Bool(key, value) }

func Int(key string, value int) Attribute { return attribute.Int(key, value) }

func Int64(key string, value int64) Attribute { return attribute.Int64(key, value) }

// Duration records value in whole milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return attribute.Int64(key, value.Milliseconds())
}

// HashEmail returns the first 8 bytes of the SHA-256 of email, hex encoded.
// Logs and spans carry this instead of the address.
func HashEmail(email string) string {
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(email))
	return hex.EncodeToString(hash[:8])
}

// Span names used by the petition flow.
const (
	SpanLogin          = "petition.login"
	SpanEnsureTemplate = "petition.ensure_template"
	SpanSubmit         = "petition.submit"
	SpanSubmitTier     = "petition.submit.tier"
	SpanSign           = "petition.sign"
	SpanReconcile      = "petition.reconcile"
)

// Attribute keys used by the petition flow.
const (
	AttrEmailHash  = "email_hash"
	AttrTemplateID = "template_id"
	AttrContractID = "contract_id"
	AttrTier       = "submit.tier"
	AttrHTTPStatus = "http.status"
	AttrTokenFound = "token_found"
	AttrMismatch   = "signature.mismatch"
	AttrSupersedes = "supersedes"
)

// Event names used by the petition flow.
const (
	EventTierFailed       = "submit.tier_failed"
	EventContractReplaced = "contract.superseded"
)
