// Package reconcile repairs a contract whose recovered signer differs from the
// declared wallet by submitting a corrected contract that supersedes it.
package reconcile

import (
	"context"
	"log/slog"
	"strings"

	"petitionsigner/internal/petition/document"
	"petitionsigner/internal/petition/models"
	"petitionsigner/internal/platform/metrics"
	"petitionsigner/internal/platform/tracer"
	"petitionsigner/internal/submission"
	dErrors "petitionsigner/pkg/domain-errors"
)

// Normalizer prepares parameters for submission.
type Normalizer interface {
	Prepare(ctx context.Context, raw models.Parameters, session *models.Session) (models.Normalized, error)
}

// Submitter creates contracts on the remote service.
type Submitter interface {
	Submit(ctx context.Context, session *models.Session, req submission.Request) (*models.ContractRecord, error)
}

// Input describes one repair.
type Input struct {
	Previous *models.ContractRecord // the mismatched contract
	Mismatch models.Mismatch
	Params   models.Parameters // current parameters; Previous.SubmittedParameters when nil
	Text     string            // template markup sent with the upload
}

// Result is the replacement contract and the record it superseded.
type Result struct {
	Contract   *models.ContractRecord
	Superseded *models.ContractRecord
}

type Controller struct {
	normalizer  Normalizer
	submitter   Submitter
	walletField string
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      tracer.Tracer
}

// Option configures a Controller.
type Option func(*Controller)

// WithWalletField names the parameter that carries the signer's address.
func WithWalletField(field string) Option {
	return func(c *Controller) {
		c.walletField = field
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithMetrics counts reconciliations by outcome.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithTracer traces Reconcile.
func WithTracer(t tracer.Tracer) Option {
	return func(c *Controller) {
		c.tracer = t
	}
}

// New creates a Controller that re-normalizes with normalizer and resubmits
// through submitter.
func New(normalizer Normalizer, submitter Submitter, opts ...Option) *Controller {
	c := &Controller{
		normalizer:  normalizer,
		submitter:   submitter,
		walletField: document.FieldWallet,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.tracer = tracer.OrNoop(c.tracer)
	return c
}

// Reconcile writes the recovered address into the wallet field, normalizes the
// whole parameter set again and submits it as a new contract. The old contract
// is left on the remote service untouched. A later mismatch on the new contract
// needs a fresh Sign and Reconcile; nothing here loops.
func (c *Controller) Reconcile(ctx context.Context, session *models.Session, in Input) (_ *Result, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanReconcile, tracer.String(tracer.AttrSupersedes, in.Mismatch.ContractID))
	defer func() {
		span.End(err)
		if err != nil {
			c.record("failed")
		}
	}()

	if err := validate(in); err != nil {
		return nil, err
	}

	params := in.Params
	if params == nil {
		params = in.Previous.SubmittedParameters.Raw()
	}
	params = params.Clone()
	params[c.walletField] = in.Mismatch.Recovered

	normalized, err := c.normalizer.Prepare(ctx, params, session)
	if err != nil {
		return nil, err
	}

	creator := in.Previous.Creator
	if session != nil && session.CreatorID != "" {
		creator = session.CreatorID
	}

	contract, err := c.submitter.Submit(ctx, session, submission.Request{
		TemplateID: in.Previous.TemplateID,
		Title:      in.Previous.Title,
		Text:       in.Text,
		Creator:    creator,
		Parameters: normalized,
	})
	if err != nil {
		return nil, err
	}
	contract.Supersedes = in.Previous.ContractID

	superseded := *in.Previous
	superseded.Status = models.ContractSuperseded

	c.record("replaced")
	span.AddEvent(tracer.EventContractReplaced,
		tracer.String(tracer.AttrContractID, contract.ContractID),
		tracer.String(tracer.AttrSupersedes, superseded.ContractID),
	)
	c.logger.InfoContext(ctx, "contract superseded",
		"old_contract_id", superseded.ContractID,
		"new_contract_id", contract.ContractID,
		"recovered", in.Mismatch.Recovered,
	)
	return &Result{Contract: contract, Superseded: &superseded}, nil
}

func validate(in Input) error {
	if in.Previous == nil {
		return dErrors.New(dErrors.CodeBadRequest, "no contract to reconcile")
	}
	if strings.TrimSpace(in.Mismatch.Recovered) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "mismatch has no recovered address")
	}
	if in.Mismatch.ContractID != in.Previous.ContractID {
		return dErrors.Newf(dErrors.CodeConflict, "mismatch is for contract %s, not %s", in.Mismatch.ContractID, in.Previous.ContractID)
	}
	if in.Previous.Status == models.ContractSuperseded {
		return dErrors.Newf(dErrors.CodeConflict, "contract %s was already superseded", in.Previous.ContractID)
	}
	return nil
}

func (c *Controller) record(outcome string) {
	if c.metrics != nil {
		c.metrics.RecordReconciliation(outcome)
	}
}
