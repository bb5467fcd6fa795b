package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/chessrelay/internal/dependencies/clock"
	"github.com/mcoot/chessrelay/internal/model"
	"github.com/mcoot/chessrelay/internal/storage"
)

const issuer = "chessrelay"

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// Credential is a signed bearer token bound to one identity
type Credential struct {
	Token     string
	Identity  model.Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	Secret        []byte
	CredentialTTL time.Duration
	BcryptCost    int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		Secret:        []byte("chessrelay-dev-secret"),
		CredentialTTL: time.Hour,
		BcryptCost:    bcrypt.DefaultCost,
	}
}

// Service authenticates usernames and issues and verifies credentials
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
	cfg     Config
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger, cfg Config) *Service {
	defaults := DefaultConfig()
	if len(cfg.Secret) == 0 {
		cfg.Secret = defaults.Secret
	}
	if cfg.CredentialTTL == 0 {
		cfg.CredentialTTL = defaults.CredentialTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "auth-service")),
		cfg:     cfg,
	}
}

// Authenticate checks a username and password against the stored record.
// A first login for a username creates the record. A password that does not
// match an existing record is reported as ErrUsernameTaken.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.Player, error) {
	if !usernamePattern.MatchString(username) {
		return nil, model.ErrInvalidUsername
	}
	identity := model.Identity(username)
	now := s.clock.Now()

	player, err := s.storage.GetPlayer(ctx, identity)
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		player = &model.Player{
			Username:     identity,
			PasswordHash: string(hash),
			CreatedAt:    now,
		}
		s.logger.Info("player created", slog.String("username", username))
	case err != nil:
		return nil, fmt.Errorf("get player: %w", err)
	default:
		if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(password)); err != nil {
			return nil, model.ErrUsernameTaken
		}
	}

	player.UpdatedAt = now
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}
	return player, nil
}

// Issue signs a new credential for identity
func (s *Service) Issue(identity model.Identity) (*Credential, error) {
	now := s.clock.Now()
	expires := now.Add(s.cfg.CredentialTTL)

	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   string(identity),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign credential: %w", err)
	}

	return &Credential{
		Token:     token,
		Identity:  identity,
		IssuedAt:  now,
		ExpiresAt: expires,
	}, nil
}

// Verify checks a credential's signature and expiry and returns its identity
func (s *Service) Verify(token string) (model.Identity, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrAuthenticationFailed, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", model.ErrAuthenticationFailed)
	}
	return model.Identity(claims.Subject), nil
}

// Login authenticates and issues a credential in one step
func (s *Service) Login(ctx context.Context, username, password string) (*Credential, error) {
	player, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.Issue(player.Username)
}

// ServiceInterface defines the interface for auth operations
type ServiceInterface interface {
	Authenticate(ctx context.Context, username, password string) (*model.Player, error)
	Issue(identity model.Identity) (*Credential, error)
	Verify(token string) (model.Identity, error)
	Login(ctx context.Context, username, password string) (*Credential, error)
}

var _ ServiceInterface = (*Service)(nil)
