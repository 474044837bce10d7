// Package signature captures wallet signatures over a contract and recovers the
// signing address, flagging when it disagrees with the address the user typed.
package signature

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"petitionsigner/internal/petition/models"
	"petitionsigner/internal/platform/metrics"
	"petitionsigner/internal/platform/tracer"
	dErrors "petitionsigner/pkg/domain-errors"
)

// Verifier drives a wallet through signing and verifies the result.
type Verifier struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	now     func() time.Time
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger for verification outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// WithMetrics counts verifications by outcome.
func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Verifier) {
		v.metrics = m
	}
}

// WithTracer traces Sign.
func WithTracer(t tracer.Tracer) Option {
	return func(v *Verifier) {
		v.tracer = t
	}
}

// New creates a Verifier.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.tracer = tracer.OrNoop(v.tracer)
	return v
}

// Sign asks wallet to sign the contract's message with its first account, then
// recovers the signer. A mismatch against declared is reported in the result,
// not as an error; an empty declared address never mismatches.
func (v *Verifier) Sign(ctx context.Context, wallet Wallet, contractID, declared string) (_ *models.Verification, err error) {
	ctx, span := v.tracer.Start(ctx, tracer.SpanSign, tracer.String(tracer.AttrContractID, contractID))
	defer func() {
		span.End(err)
		if err != nil {
			v.record("error")
		}
	}()

	if wallet == nil {
		return nil, dErrors.New(dErrors.CodeWalletUnavailable, "no wallet available")
	}
	if strings.TrimSpace(contractID) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "contract id is required")
	}

	accounts, err := wallet.RequestAccounts(ctx)
	if err != nil {
		return nil, walletError(err, dErrors.CodeNoAccount, "wallet granted no account")
	}
	if len(accounts) == 0 || strings.TrimSpace(accounts[0]) == "" {
		return nil, dErrors.New(dErrors.CodeNoAccount, "wallet granted no account")
	}
	account := strings.TrimSpace(accounts[0])

	message := Message(contractID)
	sigHex, err := wallet.PersonalSign(ctx, message, account)
	if err != nil {
		return nil, walletError(err, dErrors.CodeSigningRejected, "wallet rejected the signing request")
	}

	recovered, err := RecoverAddress(message, sigHex)
	if err != nil {
		return nil, err
	}

	result := &models.Verification{
		Record: models.SignatureRecord{
			Message:          message,
			SignatureHex:     sigHex,
			Account:          account,
			RecoveredAddress: recovered,
			DeclaredAddress:  declared,
			SignedAt:         v.now(),
		},
	}
	if Mismatched(declared, recovered) {
		result.Mismatch = &models.Mismatch{
			ContractID: contractID,
			Declared:   declared,
			Recovered:  recovered,
		}
	}

	span.SetAttributes(tracer.Bool(tracer.AttrMismatch, result.Mismatched()))
	if result.Mismatched() {
		v.record("mismatch")
		v.logger.WarnContext(ctx, "signer differs from declared wallet",
			"contract_id", contractID,
			"declared", declared,
			"recovered", recovered,
		)
	} else {
		v.record("match")
		v.logger.InfoContext(ctx, "signature verified", "contract_id", contractID, "recovered", recovered)
	}
	return result, nil
}

// Mismatched compares addresses case-insensitively. An empty declared address
// has nothing to compare against and never mismatches.
func Mismatched(declared, recovered string) bool {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return false
	}
	return !strings.EqualFold(declared, strings.TrimSpace(recovered))
}

func (v *Verifier) record(outcome string) {
	if v.metrics != nil {
		v.metrics.RecordSignatureVerification(outcome)
	}
}

// walletError maps a wallet failure to code, keeping deadline expiry distinct.
func walletError(err error, code dErrors.Code, msg string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "wallet did not respond in time")
	}
	return &dErrors.Error{Code: code, Message: msg, Err: err}
}
