package service

import (
	"context"
	"errors"

	commonerrors "github.com/linkmark/backend/internal/common/errors"
	"github.com/linkmark/backend/internal/common/logger"
	"github.com/linkmark/backend/internal/user/domain"
	userrepo "github.com/linkmark/backend/internal/user/repository"
)

type UserService struct {
	repo userrepo.Repository
	log  *logger.Logger
}

func NewUserService(repo userrepo.Repository, log *logger.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// GetProfile returns the caller's own public view plus their bookmark count.
func (s *UserService) GetProfile(ctx context.Context, id domain.ID) (domain.Profile, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return domain.Profile{}, userrepo.ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(id),
			"action":  "profile_fetch_failed",
		}).Errorf("profile fetch failed: %v", err)
		return domain.Profile{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	count, err := s.repo.CountBookmarks(ctx, id)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(id),
			"action":  "profile_count_failed",
		}).Errorf("profile bookmark count failed: %v", err)
		return domain.Profile{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	return domain.Profile{
		Public:         user.Public(),
		BookmarksCount: count,
	}, nil
}
