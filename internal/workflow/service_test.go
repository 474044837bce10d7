package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"

	"petitionsigner/internal/normalize"
	"petitionsigner/internal/openlaw"
	"petitionsigner/internal/petition/document"
	"petitionsigner/internal/petition/models"
	"petitionsigner/internal/reconcile"
	"petitionsigner/internal/signature"
	"petitionsigner/internal/submission"
	dErrors "petitionsigner/pkg/domain-errors"
)

type fakeIdentity struct{}

func (fakeIdentity) Login(_ context.Context, root, email, _ string) (*models.Session, error) {
	if email == "bad@example.com" {
		return nil, dErrors.New(dErrors.CodeAuthFailed, "login rejected")
	}
	return &models.Session{CreatorID: "u1", Email: email, Root: root}, nil
}

// fakeSubmitter hands out sequential contract ids and can run a hook mid-submit.
type fakeSubmitter struct {
	count    int
	requests []submission.Request
	onSubmit func(ctx context.Context)
}

func (f *fakeSubmitter) EnsureTemplate(_ context.Context, _ *models.Session, title, _ string) (string, error) {
	return "T-" + title, nil
}

func (f *fakeSubmitter) Submit(ctx context.Context, _ *models.Session, req submission.Request) (*models.ContractRecord, error) {
	if f.onSubmit != nil {
		f.onSubmit(ctx)
	}
	f.count++
	f.requests = append(f.requests, req)
	return &models.ContractRecord{
		ContractID:          fmt.Sprintf("C%d", f.count),
		TemplateID:          req.TemplateID,
		Title:               req.Title,
		Creator:             req.Creator,
		SubmittedParameters: req.Parameters,
		Status:              models.ContractCreated,
	}, nil
}

type fakeRemote struct{}

func (fakeRemote) ContractStatus(_ context.Context, _ *models.Session, id string) (json.RawMessage, error) {
	if id == "missing" {
		return nil, openlaw.NewRemoteError(openlaw.ErrorNotFound, openlaw.OpContractStatus, 404, "not found", nil)
	}
	return json.RawMessage(`{"id":"` + id + `"}`), nil
}

func (fakeRemote) Export(_ context.Context, _ *models.Session, _ string, format string) (*openlaw.Document, error) {
	return &openlaw.Document{ContentType: "application/" + format, Body: []byte("doc")}, nil
}

type ServiceSuite struct {
	suite.Suite
	submitter *fakeSubmitter
	service   *Service
	wallet    *signature.KeyWallet
	other     *signature.KeyWallet
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	normalizer := normalize.New(normalize.WithLogger(quiet))
	s.submitter = &fakeSubmitter{}
	s.service = New(
		fakeIdentity{},
		normalizer,
		s.submitter,
		signature.New(signature.WithLogger(quiet)),
		reconcile.New(normalizer, s.submitter, reconcile.WithLogger(quiet)),
		fakeRemote{},
		WithLogger(quiet),
	)

	key, err := crypto.GenerateKey()
	s.Require().NoError(err)
	s.wallet = signature.KeyWalletFromKey(key)
	otherKey, err := crypto.GenerateKey()
	s.Require().NoError(err)
	s.other = signature.KeyWalletFromKey(otherKey)
}

func (s *ServiceSuite) login() string {
	session, err := s.service.Login(context.Background(), "", "ada@example.com", "pw")
	s.Require().NoError(err)
	s.Require().NotEmpty(session.ID)
	return session.ID
}

func (s *ServiceSuite) params(wallet string) models.Parameters {
	return models.Parameters{
		document.FieldTitle:       "Fix the bridge",
		document.FieldName:        "Ada",
		document.FieldWallet:      wallet,
		document.FieldFilingDate:  1705276800000,
		document.FieldAllowPublic: true,
	}
}

func (s *ServiceSuite) TestMismatchRepairFlow() {
	ctx := context.Background()
	sid := s.login()
	declared := strings.ToLower(s.other.Address())

	first, err := s.service.CreateContract(ctx, sid, s.params(declared))
	s.Require().NoError(err)
	s.Equal("C1", first.ContractID)
	s.Equal("T-"+document.Title, first.TemplateID)
	s.Equal("u1", first.Creator)
	s.Equal("true", first.SubmittedParameters[document.FieldAllowPublic])

	verification, err := s.service.Sign(ctx, sid, first.ContractID, s.wallet, "")
	s.Require().NoError(err)
	s.Require().True(verification.Mismatched())
	s.Equal(declared, verification.Mismatch.Declared)
	s.Equal(s.wallet.Address(), verification.Mismatch.Recovered)

	replacement, err := s.service.Reconcile(ctx, sid, first.ContractID)
	s.Require().NoError(err)
	s.Equal("C2", replacement.ContractID)
	s.Equal("C1", replacement.Supersedes)
	s.Equal(s.wallet.Address(), replacement.SubmittedParameters[document.FieldWallet])

	old, err := s.service.Contract(sid, "C1")
	s.Require().NoError(err)
	s.Equal(models.ContractSuperseded, old.Status)

	_, err = s.service.Reconcile(ctx, sid, first.ContractID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict), "a mismatch is repaired once")

	_, err = s.service.Sign(ctx, sid, first.ContractID, s.wallet, "")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict), "superseded contracts are not signed")

	again, err := s.service.Sign(ctx, sid, replacement.ContractID, s.wallet, "")
	s.Require().NoError(err)
	s.False(again.Mismatched())
}

func (s *ServiceSuite) TestSignDeclaredAddressSource() {
	ctx := context.Background()
	sid := s.login()

	s.Run("empty declared falls back to the submitted wallet field", func() {
		record, err := s.service.CreateContract(ctx, sid, s.params(s.other.Address()))
		s.Require().NoError(err)

		verification, err := s.service.Sign(ctx, sid, record.ContractID, s.wallet, "")
		s.Require().NoError(err)
		s.True(verification.Mismatched())
		s.Equal(s.other.Address(), verification.Mismatch.Declared)
	})

	s.Run("explicit declared address wins over the submitted field", func() {
		record, err := s.service.CreateContract(ctx, sid, s.params(s.other.Address()))
		s.Require().NoError(err)

		verification, err := s.service.Sign(ctx, sid, record.ContractID, s.wallet, s.wallet.Address())
		s.Require().NoError(err)
		s.False(verification.Mismatched())
	})

	s.Run("no declared and no submitted wallet never mismatches", func() {
		record, err := s.service.CreateContract(ctx, sid, s.params(""))
		s.Require().NoError(err)

		verification, err := s.service.Sign(ctx, sid, record.ContractID, s.wallet, "")
		s.Require().NoError(err)
		s.False(verification.Mismatched())
	})
}

func (s *ServiceSuite) TestReconcileRequiresMismatch() {
	ctx := context.Background()
	sid := s.login()

	record, err := s.service.CreateContract(ctx, sid, s.params(s.wallet.Address()))
	s.Require().NoError(err)

	_, err = s.service.Reconcile(ctx, sid, record.ContractID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	verification, err := s.service.Sign(ctx, sid, record.ContractID, s.wallet, "")
	s.Require().NoError(err)
	s.False(verification.Mismatched())

	_, err = s.service.Reconcile(ctx, sid, record.ContractID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Equal(1, s.submitter.count)
}

func (s *ServiceSuite) TestStaleResultIsDiscarded() {
	sid := s.login()
	s.submitter.onSubmit = func(context.Context) {
		_, err := s.service.store.Begin(sid)
		s.Require().NoError(err)
	}

	_, err := s.service.CreateContract(context.Background(), sid, s.params(""))
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.service.Contract(sid, "C1")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestAbandonedRequestIsDiscarded() {
	sid := s.login()
	ctx, cancel := context.WithCancel(context.Background())
	s.submitter.onSubmit = func(context.Context) { cancel() }

	_, err := s.service.CreateContract(ctx, sid, s.params(""))
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.service.Contract(sid, "C1")
	s.Error(err)
}

func (s *ServiceSuite) TestLogoutDiscardsInFlightResults() {
	sid := s.login()
	s.submitter.onSubmit = func(context.Context) { s.service.Logout(sid) }

	_, err := s.service.CreateContract(context.Background(), sid, s.params(""))
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.service.Session(sid)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestSessionErrors() {
	_, err := s.service.Login(context.Background(), "", "bad@example.com", "pw")
	s.True(dErrors.HasCode(err, dErrors.CodeAuthFailed))

	_, err = s.service.Normalize(context.Background(), "nope", models.Parameters{})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	_, err = s.service.Sign(context.Background(), "nope", "C1", s.wallet, "")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestNormalizeAndEnsureTemplate() {
	sid := s.login()

	out, err := s.service.Normalize(context.Background(), sid, models.Parameters{document.FieldAllowPublic: false})
	s.Require().NoError(err)
	s.Equal("false", out[document.FieldAllowPublic])
	s.Contains(out[document.FieldEmail], `"email":"ada@example.com"`)

	id, err := s.service.EnsureTemplate(context.Background(), sid, "", "")
	s.Require().NoError(err)
	s.Equal("T-"+document.Title, id)

	_, err = s.service.EnsureTemplate(context.Background(), sid, "Custom", "")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) TestStatusAndExport() {
	sid := s.login()

	status, err := s.service.Status(context.Background(), sid, "C1")
	s.Require().NoError(err)
	s.JSONEq(`{"id":"C1"}`, string(status))

	_, err = s.service.Status(context.Background(), sid, "missing")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Equal(404, dErrors.StatusOf(err))

	doc, err := s.service.Export(context.Background(), sid, "C1", "docx")
	s.Require().NoError(err)
	s.Equal("application/docx", doc.ContentType)

	_, err = s.service.Export(context.Background(), sid, "C1", "odt")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}
