// Package workflow runs the petition flow for server-side sessions: login,
// normalization, template ensure, submission, signing and mismatch repair.
// Each step is triggered by the caller; nothing advances on its own.
package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"petitionsigner/internal/openlaw"
	"petitionsigner/internal/petition/document"
	"petitionsigner/internal/petition/models"
	"petitionsigner/internal/reconcile"
	"petitionsigner/internal/signature"
	"petitionsigner/internal/submission"
	dErrors "petitionsigner/pkg/domain-errors"
)

type Identity interface {
	Login(ctx context.Context, root, email, password string) (*models.Session, error)
}

type Normalizer interface {
	Prepare(ctx context.Context, raw models.Parameters, session *models.Session) (models.Normalized, error)
}

type Submitter interface {
	EnsureTemplate(ctx context.Context, session *models.Session, title, text string) (string, error)
	Submit(ctx context.Context, session *models.Session, req submission.Request) (*models.ContractRecord, error)
}

type Signer interface {
	Sign(ctx context.Context, wallet signature.Wallet, contractID, declared string) (*models.Verification, error)
}

type Reconciler interface {
	Reconcile(ctx context.Context, session *models.Session, in reconcile.Input) (*reconcile.Result, error)
}

type Remote interface {
	ContractStatus(ctx context.Context, session *models.Session, contractID string) (json.RawMessage, error)
	Export(ctx context.Context, session *models.Session, contractID, format string) (*openlaw.Document, error)
}

// Template is the document submitted for every contract.
type Template struct {
	Title string
	Text  string
}

// Service wires the flow components to the session store.
type Service struct {
	store      *Store
	identity   Identity
	normalizer Normalizer
	submitter  Submitter
	signer     Signer
	reconciler Reconciler
	remote     Remote
	template   Template
	logger     *slog.Logger
}

type Option func(*Service)

func WithTemplate(t Template) Option {
	return func(s *Service) {
		s.template = t
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithStore(store *Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

func New(identity Identity, normalizer Normalizer, submitter Submitter, signer Signer, reconciler Reconciler, remote Remote, opts ...Option) *Service {
	s := &Service{
		store:      NewStore(),
		identity:   identity,
		normalizer: normalizer,
		submitter:  submitter,
		signer:     signer,
		reconciler: reconciler,
		remote:     remote,
		template:   Template{Title: document.Title, Text: document.Text},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates and opens a session. root may be empty for the default service.
func (s *Service) Login(ctx context.Context, root, email, password string) (*models.Session, error) {
	session, err := s.identity.Login(ctx, root, email, password)
	if err != nil {
		return nil, err
	}
	s.store.Create(session)
	s.logger.InfoContext(ctx, "session opened", "session_id", session.ID)
	return session, nil
}

// Logout drops the session. Results of attempts still in flight are discarded.
func (s *Service) Logout(sessionID string) {
	s.store.Delete(sessionID)
}

// Session returns the identity of an open session.
func (s *Service) Session(sessionID string) (*models.Session, error) {
	var session *models.Session
	err := s.store.View(sessionID, func(st *State) error {
		session = st.Session
		return nil
	})
	if err != nil {
		return nil, sessionError(err)
	}
	return session, nil
}

// Normalize coerces raw parameters for the session without submitting them.
func (s *Service) Normalize(ctx context.Context, sessionID string, raw models.Parameters) (models.Normalized, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.normalizer.Prepare(ctx, raw, session)
}

// EnsureTemplate makes sure a template exists; empty title and text select the petition.
func (s *Service) EnsureTemplate(ctx context.Context, sessionID, title, text string) (string, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return "", err
	}
	if title == "" {
		title, text = s.template.Title, s.template.Text
	}
	if text == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "template text is required")
	}
	return s.submitter.EnsureTemplate(ctx, session, title, text)
}

// CreateContract normalizes raw, ensures the petition template and submits it.
// The resulting record becomes the session's current contract unless a newer
// attempt started or the caller went away in the meantime.
func (s *Service) CreateContract(ctx context.Context, sessionID string, raw models.Parameters) (*models.ContractRecord, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	generation, err := s.store.Begin(sessionID)
	if err != nil {
		return nil, sessionError(err)
	}

	normalized, err := s.normalizer.Prepare(ctx, raw, session)
	if err != nil {
		return nil, err
	}
	templateID, err := s.submitter.EnsureTemplate(ctx, session, s.template.Title, s.template.Text)
	if err != nil {
		return nil, err
	}
	record, err := s.submitter.Submit(ctx, session, submission.Request{
		TemplateID: templateID,
		Title:      s.template.Title,
		Text:       s.template.Text,
		Creator:    session.CreatorID,
		Parameters: normalized,
	})
	if err != nil {
		return nil, err
	}

	err = s.commit(ctx, sessionID, generation, func(st *State) error {
		st.Params = raw.Clone()
		st.Contracts[record.ContractID] = record
		st.Current = record.ContractID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Contract returns a contract recorded for the session.
func (s *Service) Contract(sessionID, contractID string) (*models.ContractRecord, error) {
	var record *models.ContractRecord
	err := s.store.View(sessionID, func(st *State) error {
		r, ok := st.Contracts[contractID]
		if !ok {
			return dErrors.Newf(dErrors.CodeNotFound, "contract %s not found in session", contractID)
		}
		record = r
		return nil
	})
	if err != nil {
		return nil, sessionError(err)
	}
	return record, nil
}

// Sign collects a wallet signature over the contract and verifies the signer.
// An empty declared address falls back to the wallet field that was submitted.
func (s *Service) Sign(ctx context.Context, sessionID, contractID string, wallet signature.Wallet, declared string) (*models.Verification, error) {
	record, err := s.Contract(sessionID, contractID)
	if err != nil {
		return nil, err
	}
	if record.Status == models.ContractSuperseded {
		return nil, dErrors.Newf(dErrors.CodeConflict, "contract %s was superseded", contractID)
	}
	if strings.TrimSpace(declared) == "" {
		declared = record.SubmittedParameters[document.FieldWallet]
	}
	generation, err := s.store.Begin(sessionID)
	if err != nil {
		return nil, sessionError(err)
	}

	verification, err := s.signer.Sign(ctx, wallet, contractID, declared)
	if err != nil {
		return nil, err
	}

	err = s.commit(ctx, sessionID, generation, func(st *State) error {
		st.Verifications[contractID] = verification
		return nil
	})
	if err != nil {
		return nil, err
	}
	return verification, nil
}

// Reconcile repairs the last signature mismatch recorded for contractID. It
// runs once per mismatch; a new mismatch needs a fresh Sign first.
func (s *Service) Reconcile(ctx context.Context, sessionID, contractID string) (*models.ContractRecord, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}

	var (
		previous *models.ContractRecord
		mismatch models.Mismatch
		params   models.Parameters
	)
	err = s.store.View(sessionID, func(st *State) error {
		record, ok := st.Contracts[contractID]
		if !ok {
			return dErrors.Newf(dErrors.CodeNotFound, "contract %s not found in session", contractID)
		}
		v := st.Verifications[contractID]
		if !v.Mismatched() {
			return dErrors.Newf(dErrors.CodeConflict, "contract %s has no signature mismatch to reconcile", contractID)
		}
		previous, mismatch = record, *v.Mismatch
		if st.Current == contractID && st.Params != nil {
			params = st.Params.Clone()
		}
		return nil
	})
	if err != nil {
		return nil, sessionError(err)
	}

	generation, err := s.store.Begin(sessionID)
	if err != nil {
		return nil, sessionError(err)
	}
	result, err := s.reconciler.Reconcile(ctx, session, reconcile.Input{
		Previous: previous,
		Mismatch: mismatch,
		Params:   params,
		Text:     s.template.Text,
	})
	if err != nil {
		return nil, err
	}

	err = s.commit(ctx, sessionID, generation, func(st *State) error {
		st.Contracts[result.Superseded.ContractID] = result.Superseded
		st.Contracts[result.Contract.ContractID] = result.Contract
		delete(st.Verifications, contractID)
		st.Current = result.Contract.ContractID
		if params != nil {
			params[document.FieldWallet] = mismatch.Recovered
			st.Params = params
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result.Contract, nil
}

// Status returns the remote signature status of a contract.
func (s *Service) Status(ctx context.Context, sessionID, contractID string) (json.RawMessage, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	status, err := s.remote.ContractStatus(ctx, session, contractID)
	if err != nil {
		return nil, remoteError(err, "contract status unavailable")
	}
	return status, nil
}

// Export downloads a contract as pdf or docx.
func (s *Service) Export(ctx context.Context, sessionID, contractID, format string) (*openlaw.Document, error) {
	if format != "pdf" && format != "docx" {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unsupported export format %q", format)
	}
	session, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	doc, err := s.remote.Export(ctx, session, contractID, format)
	if err != nil {
		return nil, remoteError(err, "contract export unavailable")
	}
	return doc, nil
}

// commit stores a result unless the caller's context ended or a newer attempt began.
func (s *Service) commit(ctx context.Context, sessionID string, generation uint64, fn func(*State) error) error {
	if ctx.Err() != nil {
		s.logger.InfoContext(ctx, "discarding result of abandoned attempt", "session_id", sessionID)
		return dErrors.Wrap(ctx.Err(), dErrors.CodeConflict, "attempt abandoned before completion")
	}
	if err := s.store.Commit(sessionID, generation, fn); err != nil {
		if errors.Is(err, ErrStaleAttempt) {
			s.logger.InfoContext(ctx, "discarding stale attempt result", "session_id", sessionID)
			return dErrors.Wrap(err, dErrors.CodeConflict, "result discarded: a newer attempt is in progress")
		}
		return err
	}
	return nil
}

func sessionError(err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "unknown or expired session")
	}
	return err
}

// remoteError maps transport categories for passthrough operations.
func remoteError(err error, msg string) error {
	status := openlaw.StatusOf(err)
	switch openlaw.CategoryOf(err) {
	case openlaw.ErrorAuthentication:
		return dErrors.WithStatus(dErrors.CodeUnauthorized, status, msg, err)
	case openlaw.ErrorNotFound:
		return dErrors.WithStatus(dErrors.CodeNotFound, status, msg, err)
	case openlaw.ErrorTimeout:
		return dErrors.WithStatus(dErrors.CodeTimeout, status, msg, err)
	default:
		return dErrors.WithStatus(dErrors.CodeNetwork, status, msg, err)
	}
}
