package identity

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"petitionsigner/internal/openlaw"
	"petitionsigner/internal/petition/models"
	"petitionsigner/internal/platform/metrics"
	"petitionsigner/internal/platform/tracer"
	dErrors "petitionsigner/pkg/domain-errors"
)

// Authenticator performs the remote login call.
type Authenticator interface {
	Login(ctx context.Context, root, email, password string) (*openlaw.RawResponse, error)
}

// Resolver turns remote login answers into a session identity.
type Resolver struct {
	auth    Authenticator
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithMetrics counts logins by outcome.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithTracer traces Login.
func WithTracer(t tracer.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = t
	}
}

// New creates a Resolver that logs in through auth.
func New(auth Authenticator, opts ...Option) *Resolver {
	r := &Resolver{
		auth:   auth,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.tracer = tracer.OrNoop(r.tracer)
	return r
}

// Login authenticates against root (empty for the default) and derives the creator id.
// The returned session has no ID; the caller's session store assigns one.
func (r *Resolver) Login(ctx context.Context, root, email, password string) (_ *models.Session, err error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}

	ctx, span := r.tracer.Start(ctx, tracer.SpanLogin, tracer.String(tracer.AttrEmailHash, tracer.HashEmail(email)))
	defer func() { span.End(err) }()

	resp, err := r.auth.Login(ctx, root, email, password)
	if err != nil {
		r.countLogin("failed")
		r.logger.WarnContext(ctx, "login failed",
			"email_hash", tracer.HashEmail(email),
			"category", string(openlaw.CategoryOf(err)),
		)
		return nil, dErrors.WithStatus(dErrors.CodeAuthFailed, openlaw.StatusOf(err), loginFailureMessage(err), err)
	}

	session := &models.Session{
		CreatorID: email,
		Email:     email,
		Root:      strings.TrimRight(root, "/"),
		CreatedAt: time.Now(),
	}

	token, source, found := ExtractToken(resp)
	span.SetAttributes(tracer.Bool(tracer.AttrTokenFound, found))
	if found {
		session.AuthToken = token
		if id, ok := CreatorIDFromToken(token); ok {
			session.CreatorID = id
		}
	}

	r.countLogin("ok")
	r.logger.InfoContext(ctx, "login succeeded",
		"email_hash", tracer.HashEmail(email),
		"token_found", found,
		"token_source", source,
		"creator_is_email", session.CreatorIsEmail(),
	)
	return session, nil
}

func (r *Resolver) countLogin(outcome string) {
	if r.metrics != nil {
		r.metrics.IncrementLogin(outcome)
	}
}

func loginFailureMessage(err error) string {
	switch openlaw.CategoryOf(err) {
	case openlaw.ErrorAuthentication, openlaw.ErrorRejected:
		return "login rejected: check email and password"
	case openlaw.ErrorTimeout:
		return "login timed out"
	default:
		return "login failed: contract service unreachable"
	}
}
