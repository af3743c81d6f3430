package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/core/domain"
	"github.com/arklim/shoplite-api/internal/core/port"
	"github.com/arklim/shoplite-api/internal/infra/logger"
	"github.com/arklim/shoplite-api/internal/infra/security"
	"github.com/arklim/shoplite-api/internal/repository"
)

var (
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotVerified indicates the account exists but has not confirmed its email.
	ErrNotVerified = errors.New("email not verified")
	// ErrAlreadyVerified indicates a verification was attempted on a confirmed account.
	ErrAlreadyVerified = errors.New("email already verified")
	// ErrCodeExpired indicates the verification code's expiry has passed.
	ErrCodeExpired = errors.New("verification code expired")
	// ErrCodeInvalid indicates the submitted code does not match the stored one.
	ErrCodeInvalid = errors.New("verification code invalid")
	// ErrUserNotFound indicates no account exists for the identifier.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidToken indicates a malformed or tampered session token.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpiredToken indicates the session token has expired.
	ErrExpiredToken = errors.New("session token expired")
	// ErrMailDelivery indicates the verification email could not be sent.
	ErrMailDelivery = errors.New("verification email delivery failed")
)

// AuthConfig tunes code generation for the verification gate.
type AuthConfig struct {
	CodeLength int
	CodeTTL    time.Duration
}

// AuthService handles registration, email verification, and login.
type AuthService struct {
	users  port.UserRepository
	mailer port.Mailer
	events port.EventPublisher
	tokens *security.TokenManager
	cfg    AuthConfig
	logger *zap.Logger
}

// NewAuthService constructs an auth service.
func NewAuthService(users port.UserRepository, mailer port.Mailer, events port.EventPublisher, tokens *security.TokenManager, cfg AuthConfig, lg *zap.Logger) *AuthService {
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = 6
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = 10 * time.Minute
	}
	return &AuthService{users: users, mailer: mailer, events: events, tokens: tokens, cfg: cfg, logger: lg}
}

// Register creates a pending account and emails its verification code. No
// session token is issued; the account stays unusable until verified. If the
// verification email cannot be sent the account is deleted again so the user
// can retry with the same address.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := security.GenerateNumericCode(s.cfg.CodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate verification code: %w", err)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.cfg.CodeTTL)
	user := domain.User{
		ID:                    primitive.NewObjectID(),
		Email:                 email,
		PasswordHash:          passwordHash,
		Name:                  name,
		Role:                  domain.RoleClient,
		Verified:              false,
		VerificationCodeHash:  security.HashToken(code),
		VerificationExpiresAt: &expiresAt,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if err := s.mailer.SendVerificationCode(ctx, email, name, code, expiresAt); err != nil {
		s.logger.Error("Verification email failed, rolling back registration",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("Registration rollback failed",
				zap.String("user_id", user.ID.Hex()),
				zap.Error(delErr),
			)
		}
		return nil, ErrMailDelivery
	}

	s.publishRegistered(ctx, user)

	return &user, nil
}

// Verify consumes a verification code. On success the code is cleared, the
// account is marked verified, a session token is issued, and a welcome email
// is sent best-effort.
func (s *AuthService) Verify(ctx context.Context, email, code string) (*domain.User, string, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	if user.Verified {
		return nil, "", ErrAlreadyVerified
	}
	if user.VerificationExpiresAt == nil || time.Now().UTC().After(*user.VerificationExpiresAt) {
		return nil, "", ErrCodeExpired
	}
	if user.VerificationCodeHash == "" || security.HashToken(code) != user.VerificationCodeHash {
		return nil, "", ErrCodeInvalid
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return nil, "", err
	}
	user.Verified = true
	user.VerificationCodeHash = ""
	user.VerificationExpiresAt = nil

	token, err := s.tokens.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, "", err
	}

	if err := s.mailer.SendWelcome(ctx, user.Email, user.Name); err != nil {
		s.logger.Warn("Welcome email failed",
			zap.String("email", logger.MaskEmail(user.Email)),
			zap.Error(err),
		)
	}

	if s.events != nil {
		event := domain.UserVerifiedEvent{
			EventID:    uuid.NewString(),
			UserID:     user.ID.Hex(),
			Email:      user.Email,
			VerifiedAt: time.Now().UTC(),
		}
		if err := s.events.PublishUserVerified(ctx, event); err != nil {
			s.logger.Warn("Publish user.verified failed", zap.Error(err))
		}
	}

	return user, token, nil
}

// ResendCode regenerates the verification code for a pending account and
// emails it, invalidating the previous code.
func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Verified {
		return ErrAlreadyVerified
	}

	code, err := security.GenerateNumericCode(s.cfg.CodeLength)
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.cfg.CodeTTL)
	if err := s.users.SetVerificationCode(ctx, user.ID, security.HashToken(code), expiresAt); err != nil {
		return err
	}

	if err := s.mailer.SendVerificationCode(ctx, user.Email, user.Name, code, expiresAt); err != nil {
		return ErrMailDelivery
	}

	return nil
}

// Login checks credentials and issues a session token. An unknown email and a
// wrong password produce the same error so the response does not reveal which
// accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	if !user.Verified {
		return nil, "", ErrNotVerified
	}

	token, err := s.tokens.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// ParseSession validates a session token and loads the referenced account.
func (s *AuthService) ParseSession(ctx context.Context, raw string) (*domain.User, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (s *AuthService) publishRegistered(ctx context.Context, user domain.User) {
	if s.events == nil {
		return
	}

	event := domain.UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       user.ID.Hex(),
		Email:        user.Email,
		Name:         user.Name,
		RegisteredAt: user.CreatedAt,
	}
	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		s.logger.Warn("Publish user.registered failed", zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
