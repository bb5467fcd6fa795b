package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/chessrelay/internal/dependencies/mocks"
	"github.com/mcoot/chessrelay/internal/model"
	"github.com/mcoot/chessrelay/internal/storage/memory"
	"github.com/mcoot/chessrelay/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	cfg := DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost
	s.service = New(s.storage, s.clock, testutil.NopLogger(), cfg)
	s.ctx = context.Background()
}

// Authenticate tests

func (s *ServiceSuite) TestAuthenticateCreatesPlayer() {
	player, err := s.service.Authenticate(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.Equal(model.Identity("alice"), player.Username)
	s.Equal(s.clock.Now(), player.CreatedAt)

	stored, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEqual("password123", stored.PasswordHash)
}

func (s *ServiceSuite) TestAuthenticateExistingPlayerWithSamePassword() {
	_, _ = s.service.Authenticate(s.ctx, "alice", "password123")
	s.clock.Advance(time.Minute)

	player, err := s.service.Authenticate(s.ctx, "alice", "password123")
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), player.UpdatedAt)
	s.True(player.CreatedAt.Before(player.UpdatedAt))
}

func (s *ServiceSuite) TestAuthenticateWrongPasswordIsUsernameTaken() {
	_, _ = s.service.Authenticate(s.ctx, "alice", "password123")

	_, err := s.service.Authenticate(s.ctx, "alice", "other")
	s.ErrorIs(err, model.ErrUsernameTaken)
}

func (s *ServiceSuite) TestAuthenticateRejectsInvalidUsername() {
	for _, name := range []string{"", "has space", "this-username-is-far-too-long-to-accept"} {
		_, err := s.service.Authenticate(s.ctx, name, "pw")
		s.ErrorIs(err, model.ErrInvalidUsername, name)
	}
}

// Issue / Verify tests

func (s *ServiceSuite) TestIssueAndVerify() {
	cred, err := s.service.Issue("alice")
	s.Require().NoError(err)

	s.NotEmpty(cred.Token)
	s.Equal(s.clock.Now().Add(time.Hour), cred.ExpiresAt)

	identity, err := s.service.Verify(cred.Token)
	s.Require().NoError(err)
	s.Equal(model.Identity("alice"), identity)
}

func (s *ServiceSuite) TestVerifyExpiredCredential() {
	cred, _ := s.service.Issue("alice")
	s.clock.Advance(2 * time.Hour)

	_, err := s.service.Verify(cred.Token)
	s.ErrorIs(err, model.ErrAuthenticationFailed)
}

func (s *ServiceSuite) TestVerifyGarbage() {
	_, err := s.service.Verify("not-a-token")
	s.ErrorIs(err, model.ErrAuthenticationFailed)
}

func (s *ServiceSuite) TestVerifyWrongSecret() {
	other := New(s.storage, s.clock, testutil.NopLogger(), Config{Secret: []byte("other")})
	cred, _ := other.Issue("alice")

	_, err := s.service.Verify(cred.Token)
	s.ErrorIs(err, model.ErrAuthenticationFailed)
}

func (s *ServiceSuite) TestVerifyRejectsOtherSigningMethod() {
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(s.clock.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.service.cfg.Secret)
	s.Require().NoError(err)

	_, err = s.service.Verify(token)
	s.ErrorIs(err, model.ErrAuthenticationFailed)
}

// Login tests

func (s *ServiceSuite) TestLoginIssuesCredential() {
	cred, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)
	s.Equal(model.Identity("alice"), cred.Identity)

	identity, err := s.service.Verify(cred.Token)
	s.Require().NoError(err)
	s.Equal(model.Identity("alice"), identity)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, _ = s.service.Login(s.ctx, "alice", "password123")

	cred, err := s.service.Login(s.ctx, "alice", "nope")
	s.ErrorIs(err, model.ErrUsernameTaken)
	s.Nil(cred)
}
