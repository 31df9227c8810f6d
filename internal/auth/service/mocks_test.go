package service_test

import (
	"context"

	userdomain "github.com/linkmark/backend/internal/user/domain"
	userrepo "github.com/linkmark/backend/internal/user/repository"
)

type mockUserRepo struct {
	createFunc                     func(ctx context.Context, user userdomain.User) (userdomain.User, error)
	findByIDFunc                   func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
	findByEmailFunc                func(ctx context.Context, email string) (userdomain.User, error)
	findFirstByEmailOrUsernameFunc func(ctx context.Context, email, username string) (userdomain.User, error)
	countBookmarksFunc             func(ctx context.Context, id userdomain.ID) (int, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindFirstByEmailOrUsername(ctx context.Context, email, username string) (userdomain.User, error) {
	if m.findFirstByEmailOrUsernameFunc != nil {
		return m.findFirstByEmailOrUsernameFunc(ctx, email, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) CountBookmarks(ctx context.Context, id userdomain.ID) (int, error) {
	if m.countBookmarksFunc != nil {
		return m.countBookmarksFunc(ctx, id)
	}
	return 0, nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
	hashCalls   int
	compareCall int
}

func (m *mockHasher) Hash(password string) (string, error) {
	m.hashCalls++
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	m.compareCall++
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "generated-id", nil
}
