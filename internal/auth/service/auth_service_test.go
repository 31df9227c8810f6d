package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linkmark/backend/internal/auth/service"
	"github.com/linkmark/backend/internal/common/clock"
	commonerrors "github.com/linkmark/backend/internal/common/errors"
	"github.com/linkmark/backend/internal/common/jwtverify"
	"github.com/linkmark/backend/internal/common/logger"
	userdomain "github.com/linkmark/backend/internal/user/domain"
	userrepo "github.com/linkmark/backend/internal/user/repository"
)

const testJWTSecret = "test-secret-at-least-32-bytes-long!!"

func setupAuthService(t *testing.T) (*service.AuthService, *mockUserRepo, *mockHasher, *mockIDGenerator, *clock.MockClock) {
	t.Helper()

	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	idGen := &mockIDGenerator{}
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	issuer := service.NewTokenIssuer(testJWTSecret, clk)
	svc := service.NewAuthService(repo, hasher, idGen, issuer, log)

	return svc, repo, hasher, idGen, clk
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo, hasher, idGen, _ := setupAuthService(t)

	idGen.newIDFunc = func() (string, error) { return "user-123", nil }
	hasher.hashFunc = func(p string) (string, error) {
		if p != "password123" {
			t.Errorf("expected raw password to reach hasher, got %q", p)
		}
		return "hashed_password123", nil
	}
	repo.createFunc = func(ctx context.Context, user userdomain.User) (userdomain.User, error) {
		if user.ID != "user-123" {
			t.Errorf("expected generated id, got %q", user.ID)
		}
		if user.PasswordHash != "hashed_password123" {
			t.Errorf("expected hashed password, got %q", user.PasswordHash)
		}
		user.CreatedAt = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		return user, nil
	}

	result, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.User.ID != "user-123" || result.User.Email != "alice@example.com" || result.User.Username != "alice" {
		t.Errorf("unexpected user view: %+v", result.User)
	}

	claims, err := jwtverify.ParseToken(result.Token, []byte(testJWTSecret))
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.UserID != "user-123" || claims.Email != "alice@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Register_Conflict(t *testing.T) {
	svc, repo, hasher, _, _ := setupAuthService(t)

	repo.findFirstByEmailOrUsernameFunc = func(ctx context.Context, email, username string) (userdomain.User, error) {
		return userdomain.User{ID: "existing", Email: email}, nil
	}
	repo.createFunc = func(ctx context.Context, user userdomain.User) (userdomain.User, error) {
		t.Error("create must not be called when the pre-check finds a duplicate")
		return user, nil
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "password123",
	})
	if !errors.Is(err, service.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
	if hasher.hashCalls != 0 {
		t.Error("password must not be hashed for a duplicate registration")
	}
}

func TestAuthService_Register_LostUniquenessRace(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repo.createFunc = func(ctx context.Context, user userdomain.User) (userdomain.User, error) {
		return userdomain.User{}, userrepo.ErrUserAlreadyExists
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "password123",
	})
	if !errors.Is(err, service.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestAuthService_Register_PrecheckError(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repo.findFirstByEmailOrUsernameFunc = func(ctx context.Context, email, username string) (userdomain.User, error) {
		return userdomain.User{}, errors.New("connection refused")
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "password123",
	})
	if !errors.Is(err, commonerrors.ErrDatabaseError) {
		t.Fatalf("expected database error, got %v", err)
	}
}

func TestAuthService_ValidateUser_UnknownEmail(t *testing.T) {
	svc, _, hasher, _, _ := setupAuthService(t)

	user, err := svc.ValidateUser(context.Background(), "nobody@example.com", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user for unknown email, got %+v", user)
	}
	if hasher.compareCall != 0 {
		t.Error("hasher must not run when the account does not exist")
	}
}

func TestAuthService_ValidateUser_WrongPassword(t *testing.T) {
	svc, repo, hasher, _, _ := setupAuthService(t)

	repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		return userdomain.User{ID: "user-123", Email: email, PasswordHash: "stored-hash"}, nil
	}
	hasher.compareFunc = func(hash, password string) error {
		return errors.New("mismatch")
	}

	user, err := svc.ValidateUser(context.Background(), "alice@example.com", "wrong")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user for wrong password, got %+v", user)
	}
}

func TestAuthService_ValidateUser_Success(t *testing.T) {
	svc, repo, hasher, _, _ := setupAuthService(t)

	repo.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		return userdomain.User{ID: "user-123", Email: email, Username: "alice", PasswordHash: "stored-hash"}, nil
	}
	hasher.compareFunc = func(hash, password string) error {
		if hash != "stored-hash" || password != "password123" {
			t.Errorf("unexpected compare arguments: %q %q", hash, password)
		}
		return nil
	}

	user, err := svc.ValidateUser(context.Background(), "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || user.ID != "user-123" || user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthService_Login_IssuesToken(t *testing.T) {
	svc, _, _, _, clk := setupAuthService(t)

	clk.SetTime(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	result, err := svc.Login(context.Background(), userdomain.Public{ID: "user-123", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := jwtverify.ParseToken(result.Token, []byte(testJWTSecret))
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("unexpected subject: %q", claims.UserID)
	}
}
