package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/core/domain"
	"github.com/arklim/shoplite-api/internal/infra/security"
	"github.com/arklim/shoplite-api/internal/repository"
)

type memUserRepo struct {
	users map[primitive.ObjectID]domain.User

	createCalls int
	deleteCalls int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (m *memUserRepo) Create(_ context.Context, user domain.User) error {
	m.createCalls++
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := user
	return &copy, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copy := user
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, user)
	}
	return out, nil
}

func (m *memUserRepo) SetVerificationCode(_ context.Context, id primitive.ObjectID, codeHash string, expiresAt time.Time) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.VerificationCodeHash = codeHash
	user.VerificationExpiresAt = &expiresAt
	m.users[id] = user
	return nil
}

func (m *memUserRepo) MarkVerified(_ context.Context, id primitive.ObjectID) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Verified = true
	user.VerificationCodeHash = ""
	user.VerificationExpiresAt = nil
	m.users[id] = user
	return nil
}

func (m *memUserRepo) UpdateRole(_ context.Context, id primitive.ObjectID, role domain.Role) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user.Role = role
	m.users[id] = user
	copy := user
	return &copy, nil
}

func (m *memUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.deleteCalls++
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type stubMailer struct {
	failVerification bool
	failWelcome      bool

	verificationCalls int
	lastCode          string
	lastEmail         string
	welcomeCalls      int
}

func (m *stubMailer) SendVerificationCode(_ context.Context, email, _, code string, _ time.Time) error {
	m.verificationCalls++
	m.lastEmail = email
	m.lastCode = code
	if m.failVerification {
		return errors.New("smtp unavailable")
	}
	return nil
}

func (m *stubMailer) SendWelcome(_ context.Context, _, _ string) error {
	m.welcomeCalls++
	if m.failWelcome {
		return errors.New("smtp unavailable")
	}
	return nil
}

func newTestAuthService(t *testing.T, repo *memUserRepo, mailer *stubMailer) *AuthService {
	t.Helper()

	tokens, err := security.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	return NewAuthService(repo, mailer, nil, tokens, AuthConfig{CodeLength: 6, CodeTTL: 10 * time.Minute}, zap.NewNop())
}

func TestRegisterCreatesPendingAccount(t *testing.T) {
	repo := newMemUserRepo()
	mailer := &stubMailer{}
	svc := newTestAuthService(t, repo, mailer)

	user, err := svc.Register(context.Background(), "Shopper@Example.COM", "secret1", "Shopper")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.Verified {
		t.Fatal("new account must not be verified")
	}
	if user.Email != "shopper@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Role != domain.RoleClient {
		t.Fatalf("expected client role, got %q", user.Role)
	}
	if mailer.verificationCalls != 1 {
		t.Fatalf("expected one verification email, got %d", mailer.verificationCalls)
	}

	stored := repo.users[user.ID]
	if stored.VerificationCodeHash == "" || stored.VerificationExpiresAt == nil {
		t.Fatal("verification code and expiry must be stored")
	}
	if stored.VerificationCodeHash != security.HashToken(mailer.lastCode) {
		t.Fatal("stored code hash must match the emailed code")
	}
	if stored.PasswordHash == "secret1" {
		t.Fatal("password must not be stored in plain text")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	mailer := &stubMailer{}
	svc := newTestAuthService(t, repo, mailer)

	if _, err := svc.Register(context.Background(), "dup@example.com", "secret1", "First"); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err := svc.Register(context.Background(), "dup@example.com", "other", "Second")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterMailFailureRollsBack(t *testing.T) {
	repo := newMemUserRepo()
	mailer := &stubMailer{failVerification: true}
	svc := newTestAuthService(t, repo, mailer)

	_, err := svc.Register(context.Background(), "shopper@example.com", "secret1", "Shopper")
	if !errors.Is(err, ErrMailDelivery) {
		t.Fatalf("expected ErrMailDelivery, got %v", err)
	}

	if len(repo.users) != 0 {
		t.Fatal("account must be deleted when the verification email fails")
	}
	if repo.deleteCalls != 1 {
		t.Fatalf("expected one rollback delete, got %d", repo.deleteCalls)
	}

	// The address must be registrable again after the rollback.
	mailer.failVerification = false
	if _, err := svc.Register(context.Background(), "shopper@example.com", "secret1", "Shopper"); err != nil {
		t.Fatalf("re-register after rollback: %v", err)
	}
}

func TestVerifyStateMachine(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		svc := newTestAuthService(t, newMemUserRepo(), &stubMailer{})
		_, _, err := svc.Verify(ctx, "ghost@example.com", "123456")
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("wrong code", func(t *testing.T) {
		repo := newMemUserRepo()
		mailer := &stubMailer{}
		svc := newTestAuthService(t, repo, mailer)
		if _, err := svc.Register(ctx, "shopper@example.com", "secret1", "Shopper"); err != nil {
			t.Fatalf("Register: %v", err)
		}

		wrong := "000000"
		if wrong == mailer.lastCode {
			wrong = "000001"
		}
		_, _, err := svc.Verify(ctx, "shopper@example.com", wrong)
		if !errors.Is(err, ErrCodeInvalid) {
			t.Fatalf("expected ErrCodeInvalid, got %v", err)
		}
	})

	t.Run("expired code", func(t *testing.T) {
		repo := newMemUserRepo()
		mailer := &stubMailer{}
		svc := newTestAuthService(t, repo, mailer)
		user, err := svc.Register(ctx, "shopper@example.com", "secret1", "Shopper")
		if err != nil {
			t.Fatalf("Register: %v", err)
		}

		past := time.Now().UTC().Add(-time.Minute)
		stored := repo.users[user.ID]
		stored.VerificationExpiresAt = &past
		repo.users[user.ID] = stored

		_, _, err = svc.Verify(ctx, "shopper@example.com", mailer.lastCode)
		if !errors.Is(err, ErrCodeExpired) {
			t.Fatalf("expected ErrCodeExpired, got %v", err)
		}
	})

	t.Run("success is single use", func(t *testing.T) {
		repo := newMemUserRepo()
		mailer := &stubMailer{}
		svc := newTestAuthService(t, repo, mailer)
		user, err := svc.Register(ctx, "shopper@example.com", "secret1", "Shopper")
		if err != nil {
			t.Fatalf("Register: %v", err)
		}

		verified, token, err := svc.Verify(ctx, "shopper@example.com", mailer.lastCode)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if !verified.Verified {
			t.Fatal("account must be verified")
		}
		if token == "" {
			t.Fatal("verification must issue a session token")
		}
		if mailer.welcomeCalls != 1 {
			t.Fatalf("expected one welcome email, got %d", mailer.welcomeCalls)
		}

		stored := repo.users[user.ID]
		if stored.VerificationCodeHash != "" || stored.VerificationExpiresAt != nil {
			t.Fatal("code must be cleared after use")
		}

		_, _, err = svc.Verify(ctx, "shopper@example.com", mailer.lastCode)
		if !errors.Is(err, ErrAlreadyVerified) {
			t.Fatalf("replayed code: expected ErrAlreadyVerified, got %v", err)
		}
	})

	t.Run("welcome email failure does not fail verification", func(t *testing.T) {
		repo := newMemUserRepo()
		mailer := &stubMailer{failWelcome: true}
		svc := newTestAuthService(t, repo, mailer)
		if _, err := svc.Register(ctx, "shopper@example.com", "secret1", "Shopper"); err != nil {
			t.Fatalf("Register: %v", err)
		}

		if _, _, err := svc.Verify(ctx, "shopper@example.com", mailer.lastCode); err != nil {
			t.Fatalf("Verify must succeed despite welcome failure: %v", err)
		}
	})
}

func TestResendCodeInvalidatesPrevious(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	mailer := &stubMailer{}
	svc := newTestAuthService(t, repo, mailer)

	user, err := svc.Register(ctx, "shopper@example.com", "secret1", "Shopper")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	firstCode := mailer.lastCode

	if err := svc.ResendCode(ctx, "shopper@example.com"); err != nil {
		t.Fatalf("ResendCode: %v", err)
	}

	stored := repo.users[user.ID]
	if stored.VerificationCodeHash != security.HashToken(mailer.lastCode) {
		t.Fatal("stored hash must match the latest emailed code")
	}
	if firstCode != mailer.lastCode && stored.VerificationCodeHash == security.HashToken(firstCode) {
		t.Fatal("previous code must be invalidated")
	}

	if _, _, err := svc.Verify(ctx, "shopper@example.com", mailer.lastCode); err != nil {
		t.Fatalf("Verify with resent code: %v", err)
	}

	if err := svc.ResendCode(ctx, "shopper@example.com"); !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("resend on verified account: expected ErrAlreadyVerified, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	mailer := &stubMailer{}
	svc := newTestAuthService(t, repo, mailer)

	if _, err := svc.Register(ctx, "shopper@example.com", "secret1", "Shopper"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Run("unverified account is rejected", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "shopper@example.com", "secret1")
		if !errors.Is(err, ErrNotVerified) {
			t.Fatalf("expected ErrNotVerified, got %v", err)
		}
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		_, _, errUnknown := svc.Login(ctx, "ghost@example.com", "secret1")
		_, _, errWrongPass := svc.Login(ctx, "shopper@example.com", "not-it")
		if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrongPass, ErrInvalidCredentials) {
			t.Fatalf("both must map to ErrInvalidCredentials, got %v and %v", errUnknown, errWrongPass)
		}
		if errUnknown.Error() != errWrongPass.Error() {
			t.Fatal("error messages must be identical")
		}
	})

	t.Run("verified account logs in", func(t *testing.T) {
		if _, _, err := svc.Verify(ctx, "shopper@example.com", mailer.lastCode); err != nil {
			t.Fatalf("Verify: %v", err)
		}

		user, token, err := svc.Login(ctx, "shopper@example.com", "secret1")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if token == "" {
			t.Fatal("login must issue a session token")
		}

		// The token resolves back to the same account.
		loaded, err := svc.ParseSession(ctx, token)
		if err != nil {
			t.Fatalf("ParseSession: %v", err)
		}
		if loaded.ID != user.ID {
			t.Fatal("session must resolve to the logged-in account")
		}
	})
}

func TestParseSessionRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t, newMemUserRepo(), &stubMailer{})

	if _, err := svc.ParseSession(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
