package identity

//go:generate mockgen -source=resolver.go -destination=mocks/mocks.go -package=mocks Authenticator

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"petitionsigner/internal/identity/mocks"
	"petitionsigner/internal/openlaw"
	"petitionsigner/internal/platform/metrics"
	dErrors "petitionsigner/pkg/domain-errors"
)

type ResolverSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	auth     *mocks.MockAuthenticator
	metrics  *metrics.Metrics
	resolver *Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.auth = mocks.NewMockAuthenticator(s.ctrl)
	s.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())
	s.resolver = New(s.auth,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
}

func (s *ResolverSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ResolverSuite) signedToken(claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unused-secret"))
	s.Require().NoError(err)
	return token
}

func (s *ResolverSuite) TestLoginDerivesCreatorFromToken() {
	token := s.signedToken(jwt.MapClaims{"sub": "user-sub", "uid": "user-uid"})
	header := http.Header{}
	header.Set(openlaw.TokenHeader, token)
	s.auth.EXPECT().Login(gomock.Any(), "", "ada@example.com", "pw").
		Return(&openlaw.RawResponse{Status: http.StatusOK, Header: header}, nil)

	session, err := s.resolver.Login(context.Background(), "", " ada@example.com ", "pw")
	s.Require().NoError(err)
	s.Equal("user-sub", session.CreatorID)
	s.Equal("ada@example.com", session.Email)
	s.Equal(token, session.AuthToken)
	s.False(session.CreatorIsEmail())
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Logins.WithLabelValues("ok")))
}

func (s *ResolverSuite) TestLoginWithoutTokenFallsBackToEmail() {
	s.auth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&openlaw.RawResponse{Status: http.StatusOK, Header: http.Header{}}, nil)

	session, err := s.resolver.Login(context.Background(), "", "ada@example.com", "pw")
	s.Require().NoError(err)
	s.Equal("ada@example.com", session.CreatorID)
	s.Empty(session.AuthToken)
	s.False(session.HasToken())
	s.True(session.CreatorIsEmail())
}

func (s *ResolverSuite) TestLoginWithUndecodableTokenFallsBackToEmail() {
	s.auth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&openlaw.RawResponse{Status: http.StatusOK, Body: []byte(`{"token":"opaque"}`)}, nil)

	session, err := s.resolver.Login(context.Background(), "", "ada@example.com", "pw")
	s.Require().NoError(err)
	s.Equal("opaque", session.AuthToken)
	s.Equal("ada@example.com", session.CreatorID)
}

func (s *ResolverSuite) TestLoginKeepsSessionRoot() {
	s.auth.EXPECT().Login(gomock.Any(), "https://acme.test/api/v1/ws", gomock.Any(), gomock.Any()).
		Return(&openlaw.RawResponse{Status: http.StatusOK}, nil)

	session, err := s.resolver.Login(context.Background(), "https://acme.test/api/v1/ws", "ada@example.com", "pw")
	s.Require().NoError(err)
	s.Equal("https://acme.test/api/v1/ws", session.Root)
}

func (s *ResolverSuite) TestLoginFailures() {
	s.Run("credential rejection", func() {
		s.auth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, openlaw.NewRemoteError(openlaw.ErrorAuthentication, openlaw.OpLogin, http.StatusUnauthorized, "authentication failed", nil))

		session, err := s.resolver.Login(context.Background(), "", "ada@example.com", "bad")
		s.Nil(session)
		s.True(dErrors.HasCode(err, dErrors.CodeAuthFailed))
		s.Equal(http.StatusUnauthorized, dErrors.StatusOf(err))
	})

	s.Run("network failure", func() {
		s.auth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, openlaw.NewRemoteError(openlaw.ErrorNetwork, openlaw.OpLogin, 0, "failed to execute request", nil))

		_, err := s.resolver.Login(context.Background(), "", "ada@example.com", "pw")
		s.True(dErrors.HasCode(err, dErrors.CodeAuthFailed))
		s.Contains(err.Error(), "unreachable")
	})

	s.Run("missing email never reaches the service", func() {
		_, err := s.resolver.Login(context.Background(), "", "  ", "pw")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Equal(float64(2), testutil.ToFloat64(s.metrics.Logins.WithLabelValues("failed")))
}
