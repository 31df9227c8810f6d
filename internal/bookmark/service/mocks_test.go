package service_test

import (
	"context"

	"github.com/linkmark/backend/internal/bookmark/domain"
	bookmarkrepo "github.com/linkmark/backend/internal/bookmark/repository"
)

type mockBookmarkRepo struct {
	createFunc             func(ctx context.Context, bookmark domain.Bookmark) (domain.Bookmark, error)
	findByIDFunc           func(ctx context.Context, id domain.ID) (domain.Bookmark, error)
	findPageFunc           func(ctx context.Context, ownerID, search string, offset, limit int) ([]domain.Bookmark, error)
	countByOwnerFunc       func(ctx context.Context, ownerID, search string) (int, error)
	updateFunc             func(ctx context.Context, id domain.ID, fields bookmarkrepo.UpdateFields) (domain.Bookmark, error)
	deleteFunc             func(ctx context.Context, id domain.ID) error
	tagPayloadsByOwnerFunc func(ctx context.Context, ownerID string) ([]string, error)
}

func (m *mockBookmarkRepo) Create(ctx context.Context, bookmark domain.Bookmark) (domain.Bookmark, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, bookmark)
	}
	return bookmark, nil
}

func (m *mockBookmarkRepo) FindByID(ctx context.Context, id domain.ID) (domain.Bookmark, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.Bookmark{}, bookmarkrepo.ErrBookmarkNotFound
}

func (m *mockBookmarkRepo) FindPage(ctx context.Context, ownerID, search string, offset, limit int) ([]domain.Bookmark, error) {
	if m.findPageFunc != nil {
		return m.findPageFunc(ctx, ownerID, search, offset, limit)
	}
	return nil, nil
}

func (m *mockBookmarkRepo) CountByOwner(ctx context.Context, ownerID, search string) (int, error) {
	if m.countByOwnerFunc != nil {
		return m.countByOwnerFunc(ctx, ownerID, search)
	}
	return 0, nil
}

func (m *mockBookmarkRepo) Update(ctx context.Context, id domain.ID, fields bookmarkrepo.UpdateFields) (domain.Bookmark, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, fields)
	}
	return domain.Bookmark{}, bookmarkrepo.ErrBookmarkNotFound
}

func (m *mockBookmarkRepo) Delete(ctx context.Context, id domain.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookmarkRepo) TagPayloadsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	if m.tagPayloadsByOwnerFunc != nil {
		return m.tagPayloadsByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

type mockTagCache struct {
	getFunc         func(ctx context.Context, ownerID string) ([]string, error)
	setFunc         func(ctx context.Context, ownerID string, tags []string) error
	invalidateFunc  func(ctx context.Context, ownerID string) error
	invalidateCalls int
}

func (m *mockTagCache) Get(ctx context.Context, ownerID string) ([]string, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockTagCache) Set(ctx context.Context, ownerID string, tags []string) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, ownerID, tags)
	}
	return nil
}

func (m *mockTagCache) Invalidate(ctx context.Context, ownerID string) error {
	m.invalidateCalls++
	if m.invalidateFunc != nil {
		return m.invalidateFunc(ctx, ownerID)
	}
	return nil
}
