// Package submission creates petition contracts on the contract-hosting service.
// The service answers an upload in one of three shapes, so Submit walks a fixed
// list of strategies until one yields a contract identifier.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"petitionsigner/internal/openlaw"
	"petitionsigner/internal/petition/models"
	"petitionsigner/internal/platform/metrics"
	"petitionsigner/internal/platform/tracer"
	dErrors "petitionsigner/pkg/domain-errors"
)

// Remote is the subset of the contract-hosting API used for submission.
type Remote interface {
	GetTemplate(ctx context.Context, session *models.Session, title string) (*openlaw.Template, error)
	SaveTemplate(ctx context.Context, session *models.Session, title, text string) (*openlaw.Template, error)
	Upload(ctx context.Context, session *models.Session, payload openlaw.UploadPayload, policy openlaw.RedirectPolicy) (*openlaw.RawResponse, error)
	RootFor(session *models.Session) string
}

// Request is everything needed to create one contract.
type Request struct {
	TemplateID string
	Title      string
	Text       string
	Creator    string
	Parameters models.Normalized
}

// Client uploads contracts and ensures templates exist.
type Client struct {
	remote           Remote
	templates        singleflight.Group
	sendNotification bool
	logger           *slog.Logger
	metrics          *metrics.Metrics
	tracer           tracer.Tracer
	now              func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithSendNotification sets the notification flag sent with every upload.
func WithSendNotification(send bool) Option {
	return func(c *Client) {
		c.sendNotification = send
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics enables submission and template-ensure counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracer traces EnsureTemplate and each upload strategy.
func WithTracer(t tracer.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// New creates a Client that talks to remote.
func New(remote Remote, opts ...Option) *Client {
	c := &Client{
		remote:           remote,
		sendNotification: true,
		logger:           slog.Default(),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.tracer = tracer.OrNoop(c.tracer)
	return c
}

// EnsureTemplate returns the id of the template with the given title, creating
// it when lookup fails for any reason. Concurrent calls for the same template
// share one remote round trip. The shared call is detached from any single
// caller's cancellation; a caller that gives up stops waiting without failing
// the others.
func (c *Client) EnsureTemplate(ctx context.Context, session *models.Session, title, text string) (_ string, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanEnsureTemplate)
	defer func() { span.End(err) }()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", abandonedEnsure(ctxErr)
	}

	key := c.remote.RootFor(session) + "\x00" + tokenKey(session) + "\x00" + title
	shared := context.WithoutCancel(ctx)
	ch := c.templates.DoChan(key, func() (any, error) {
		return c.ensureTemplate(shared, session, title, text)
	})

	select {
	case <-ctx.Done():
		return "", abandonedEnsure(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		id := res.Val.(string)
		span.SetAttributes(tracer.String(tracer.AttrTemplateID, id), tracer.Bool("shared", res.Shared))
		return id, nil
	}
}

func abandonedEnsure(ctxErr error) error {
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return dErrors.Wrap(ctxErr, dErrors.CodeTimeout, "template ensure timed out")
	}
	return dErrors.Wrap(ctxErr, dErrors.CodeNetwork, "template ensure canceled")
}

func (c *Client) ensureTemplate(ctx context.Context, session *models.Session, title, text string) (string, error) {
	tmpl, lookupErr := c.remote.GetTemplate(ctx, session, title)
	if lookupErr == nil && tmpl.ID != "" {
		c.countEnsure("found")
		return tmpl.ID, nil
	}
	if lookupErr != nil {
		c.logger.InfoContext(ctx, "template lookup failed, creating",
			"title", title,
			"category", string(openlaw.CategoryOf(lookupErr)),
		)
	}

	saved, err := c.remote.SaveTemplate(ctx, session, title, text)
	if err != nil {
		c.countEnsure("failed")
		return "", dErrors.WithStatus(dErrors.CodeTemplateFailed, openlaw.StatusOf(err),
			fmt.Sprintf("template %q could not be found or created", title), err)
	}
	c.countEnsure("created")
	c.logger.InfoContext(ctx, "template created", "title", title, "template_id", saved.ID)
	return saved.ID, nil
}

// Submit uploads the contract and returns the record of the created contract.
// Strategies run one after another; a later one only runs when every earlier
// one failed or produced no identifier. Results are never cached, so repeated
// calls create distinct remote contracts.
func (c *Client) Submit(ctx context.Context, session *models.Session, req Request) (_ *models.ContractRecord, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanSubmit, tracer.String(tracer.AttrTemplateID, req.TemplateID))
	defer func() { span.End(err) }()

	payload := openlaw.NewUploadPayload(req.TemplateID, req.Title, req.Text, req.Creator, req.Parameters, c.sendNotification)

	var (
		lastStatus int
		lastErr    error
	)
	for _, st := range strategies {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, abandoned(ctxErr, lastStatus)
		}

		outcome, callErr := c.attempt(ctx, session, payload, st)
		if callErr != nil {
			lastErr = callErr
			if status := openlaw.StatusOf(callErr); status != 0 {
				lastStatus = status
			}
			span.AddEvent(tracer.EventTierFailed, tracer.String(tracer.AttrTier, string(st.tier)))
			continue
		}

		lastStatus = outcome.HTTPStatus()
		id, ok := outcome.ContractID()
		if !ok {
			c.recordAttempt(st.tier, "unrecognized")
			span.AddEvent(tracer.EventTierFailed,
				tracer.String(tracer.AttrTier, string(st.tier)),
				tracer.Int64(tracer.AttrHTTPStatus, int64(lastStatus)),
			)
			c.logger.InfoContext(ctx, "upload strategy yielded no contract id",
				"tier", string(st.tier),
				"status", lastStatus,
			)
			continue
		}

		c.recordAttempt(st.tier, "resolved")
		if c.metrics != nil {
			c.metrics.RecordSubmissionResolved(string(st.tier))
		}
		span.SetAttributes(
			tracer.String(tracer.AttrContractID, id),
			tracer.String(tracer.AttrTier, string(st.tier)),
		)
		c.logger.InfoContext(ctx, "contract created",
			"contract_id", id,
			"template_id", req.TemplateID,
			"tier", string(st.tier),
		)
		return &models.ContractRecord{
			ContractID:          id,
			TemplateID:          req.TemplateID,
			Title:               req.Title,
			Creator:             req.Creator,
			SubmittedParameters: req.Parameters.Clone(),
			Status:              models.ContractCreated,
			SignURL:             openlaw.ContractURL(c.remote.RootFor(session), id),
			ResolvedBy:          string(st.tier),
			CreatedAt:           c.now(),
		}, nil
	}

	if c.metrics != nil {
		c.metrics.IncrementSubmissionFailed()
	}
	c.logger.WarnContext(ctx, "submission failed", "template_id", req.TemplateID, "last_status", lastStatus)
	return nil, dErrors.WithStatus(dErrors.CodeSubmissionFailed, lastStatus,
		fmt.Sprintf("no contract identifier recovered from any upload strategy (last status %d)", lastStatus), lastErr)
}

func (c *Client) attempt(ctx context.Context, session *models.Session, payload openlaw.UploadPayload, st strategy) (_ Outcome, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanSubmitTier, tracer.String(tracer.AttrTier, string(st.tier)))
	defer func() { span.End(err) }()

	resp, err := c.remote.Upload(ctx, session, payload, st.policy)
	if err != nil {
		c.recordAttempt(st.tier, "error")
		c.logger.InfoContext(ctx, "upload strategy failed",
			"tier", string(st.tier),
			"category", string(openlaw.CategoryOf(err)),
		)
		return nil, err
	}
	span.SetAttributes(tracer.Int64(tracer.AttrHTTPStatus, int64(resp.Status)))
	return st.capture(resp), nil
}

func (c *Client) recordAttempt(tier Tier, outcome string) {
	if c.metrics != nil {
		c.metrics.RecordSubmissionAttempt(string(tier), outcome)
	}
}

func (c *Client) countEnsure(path string) {
	if c.metrics != nil {
		c.metrics.IncrementTemplateEnsure(path)
	}
}

// abandoned converts a done context into the error surfaced for a submission
// that stopped between strategies.
func abandoned(ctxErr error, lastStatus int) error {
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return dErrors.WithStatus(dErrors.CodeTimeout, lastStatus, "submission timed out", ctxErr)
	}
	return dErrors.WithStatus(dErrors.CodeNetwork, lastStatus, "submission canceled", ctxErr)
}

func tokenKey(session *models.Session) string {
	if session == nil {
		return ""
	}
	return session.AuthToken
}
