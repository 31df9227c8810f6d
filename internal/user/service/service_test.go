package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/linkmark/backend/internal/common/logger"
	"github.com/linkmark/backend/internal/user/domain"
	userrepo "github.com/linkmark/backend/internal/user/repository"
	"github.com/linkmark/backend/internal/user/service"
)

type stubRepo struct {
	findByIDFunc       func(ctx context.Context, id domain.ID) (domain.User, error)
	countBookmarksFunc func(ctx context.Context, id domain.ID) (int, error)
}

func (s *stubRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return user, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	if s.findByIDFunc != nil {
		return s.findByIDFunc(ctx, id)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return domain.User{}, userrepo.ErrUserNotFound
}

func (s *stubRepo) FindFirstByEmailOrUsername(ctx context.Context, email, username string) (domain.User, error) {
	return domain.User{}, userrepo.ErrUserNotFound
}

func (s *stubRepo) CountBookmarks(ctx context.Context, id domain.ID) (int, error) {
	if s.countBookmarksFunc != nil {
		return s.countBookmarksFunc(ctx, id)
	}
	return 0, nil
}

func setupUserService(t *testing.T, repo *stubRepo) *service.UserService {
	t.Helper()
	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return service.NewUserService(repo, log)
}

func TestGetProfile_IncludesBookmarkCount(t *testing.T) {
	repo := &stubRepo{
		findByIDFunc: func(ctx context.Context, id domain.ID) (domain.User, error) {
			return domain.User{ID: id, Email: "alice@example.com", Username: "alice", PasswordHash: "hash"}, nil
		},
		countBookmarksFunc: func(ctx context.Context, id domain.ID) (int, error) {
			return 7, nil
		},
	}
	svc := setupUserService(t, repo)

	profile, err := svc.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.BookmarksCount != 7 {
		t.Errorf("expected 7 bookmarks, got %d", profile.BookmarksCount)
	}
	if profile.Email != "alice@example.com" || profile.Username != "alice" {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestGetProfile_UnknownUser(t *testing.T) {
	svc := setupUserService(t, &stubRepo{})

	_, err := svc.GetProfile(context.Background(), "missing")
	if !errors.Is(err, userrepo.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProfile_NeverSerializesPasswordHash(t *testing.T) {
	repo := &stubRepo{
		findByIDFunc: func(ctx context.Context, id domain.ID) (domain.User, error) {
			return domain.User{ID: id, Email: "alice@example.com", Username: "alice", PasswordHash: "sensitive-hash"}, nil
		},
	}
	svc := setupUserService(t, repo)

	profile, err := svc.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	encoded, err := json.Marshal(profile)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if strings.Contains(string(encoded), "sensitive-hash") {
		t.Error("profile serialization must not carry the password hash")
	}
}
