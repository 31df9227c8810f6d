package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authhttp "github.com/linkmark/backend/internal/auth/http"
	"github.com/linkmark/backend/internal/auth/service"
	"github.com/linkmark/backend/internal/common/clock"
	"github.com/linkmark/backend/internal/common/logger"
	userdomain "github.com/linkmark/backend/internal/user/domain"
	userrepo "github.com/linkmark/backend/internal/user/repository"
)

type stubUserRepo struct {
	createFunc      func(ctx context.Context, user userdomain.User) (userdomain.User, error)
	findByEmailFunc func(ctx context.Context, email string) (userdomain.User, error)
}

func (s *stubUserRepo) Create(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	if s.createFunc != nil {
		return s.createFunc(ctx, user)
	}
	return user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if s.findByEmailFunc != nil {
		return s.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (s *stubUserRepo) FindFirstByEmailOrUsername(ctx context.Context, email, username string) (userdomain.User, error) {
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (s *stubUserRepo) CountBookmarks(ctx context.Context, id userdomain.ID) (int, error) {
	return 0, nil
}

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (stubHasher) Compare(hash, password string) error {
	if hash == "hashed:"+password {
		return nil
	}
	return errHashMismatch
}

var errHashMismatch = errors.New("hash mismatch")

type stubIDGenerator struct{}

func (stubIDGenerator) NewID() (string, error) { return "user-id-1", nil }

func setupAuthHandler(t *testing.T, repo *stubUserRepo) http.Handler {
	t.Helper()

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	issuer := service.NewTokenIssuer("http-test-secret-32-bytes-long!!!!!!", clock.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	svc := service.NewAuthService(repo, stubHasher{}, stubIDGenerator{}, issuer, log)

	return authhttp.NewHandler(svc, authhttp.HandlerConfig{RequestTimeout: time.Second}, log)
}

func TestRegister_Created(t *testing.T) {
	handler := setupAuthHandler(t, &stubUserRepo{})

	body := `{"email":"alice@example.com","username":"alice","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID       string `json:"id"`
			Email    string `json:"email"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token in the response")
	}
	if resp.User.ID != "user-id-1" || resp.User.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not leak password material")
	}
}

func TestRegister_InvalidJSON(t *testing.T) {
	handler := setupAuthHandler(t, &stubUserRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	handler := setupAuthHandler(t, &stubUserRepo{})

	body := `{"email":"alice@example.com","username":"alice","password":"12345"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRegister_ShortUsername(t *testing.T) {
	handler := setupAuthHandler(t, &stubUserRepo{})

	body := `{"email":"alice@example.com","username":"al","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRegister_MethodNotAllowed(t *testing.T) {
	handler := setupAuthHandler(t, &stubUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/register", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	handler := setupAuthHandler(t, &stubUserRepo{})

	body := `{"email":"nobody@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := &stubUserRepo{
		findByEmailFunc: func(ctx context.Context, email string) (userdomain.User, error) {
			return userdomain.User{ID: "user-1", Email: email, Username: "alice", PasswordHash: "hashed:password123"}, nil
		},
	}
	handler := setupAuthHandler(t, repo)

	body := `{"email":"alice@example.com","password":"wrongpass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	repo := &stubUserRepo{
		findByEmailFunc: func(ctx context.Context, email string) (userdomain.User, error) {
			return userdomain.User{ID: "user-1", Email: email, Username: "alice", PasswordHash: "hashed:password123"}, nil
		},
	}
	handler := setupAuthHandler(t, repo)

	body := `{"email":"alice@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token in the response")
	}
}
