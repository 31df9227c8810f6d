package service

import (
	"context"
	"errors"
	"sort"

	"github.com/linkmark/backend/internal/bookmark/domain"
	bookmarkrepo "github.com/linkmark/backend/internal/bookmark/repository"
	"github.com/linkmark/backend/internal/common/constants"
	commoncrypto "github.com/linkmark/backend/internal/common/crypto"
	commonerrors "github.com/linkmark/backend/internal/common/errors"
	"github.com/linkmark/backend/internal/common/logger"
	"github.com/linkmark/backend/internal/observability/metrics"
)

var (
	ErrBookmarkNotFound     = commonerrors.ErrBookmarkNotFound
	ErrBookmarkAccessDenied = commonerrors.ErrBookmarkAccessDenied
)

// TagVocabularyCache is the optional read-through cache for GetAllTags.
// A nil cache disables it.
type TagVocabularyCache interface {
	Get(ctx context.Context, ownerID string) ([]string, error)
	Set(ctx context.Context, ownerID string, tags []string) error
	Invalidate(ctx context.Context, ownerID string) error
}

type BookmarkService struct {
	repo        bookmarkrepo.Repository
	cache       TagVocabularyCache
	idGenerator commoncrypto.IDGenerator
	log         *logger.Logger
}

func NewBookmarkService(
	repo bookmarkrepo.Repository,
	cache TagVocabularyCache,
	idGenerator commoncrypto.IDGenerator,
	log *logger.Logger,
) *BookmarkService {
	return &BookmarkService{
		repo:        repo,
		cache:       cache,
		idGenerator: idGenerator,
		log:         log,
	}
}

type CreateInput struct {
	Title       string
	URL         string
	Description string
	Tags        []string
}

type UpdateInput struct {
	Title       *string
	URL         *string
	Description *string
	// Tags, when supplied, fully replaces the stored sequence.
	Tags *[]string
}

type Query struct {
	Search string
	Tags   []string
	Page   int
	Limit  int
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type Page struct {
	Bookmarks  []domain.View `json:"bookmarks"`
	Pagination Pagination    `json:"pagination"`
}

func (s *BookmarkService) Create(ctx context.Context, ownerID string, input CreateInput) (domain.View, error) {
	encoded, err := domain.EncodeTags(input.Tags)
	if err != nil {
		return domain.View{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.View{}, commonerrors.ErrInternalError.WithCause(err)
	}

	created, err := s.repo.Create(ctx, domain.Bookmark{
		ID:          domain.ID(id),
		Title:       input.Title,
		URL:         input.URL,
		Description: input.Description,
		Tags:        encoded,
		OwnerID:     ownerID,
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": ownerID,
			"action":  "bookmark_create_failed",
		}).Errorf("bookmark create failed: %v", err)
		return domain.View{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":     ownerID,
		"bookmark_id": string(created.ID),
		"action":      "bookmark_created",
	}).Info("bookmark created")
	metrics.BookmarksCreatedTotal.Inc()

	s.invalidateTagCache(ctx, ownerID)

	return s.toView(created)
}

// FindAll returns one page ordered by creation time descending. The tag
// filter is applied in memory to the already-fetched page, after the window
// was cut, and total/totalPages count only the ownership+search predicate;
// a tag-filtered page may therefore hold fewer than limit rows even when
// more matches exist past the window.
func (s *BookmarkService) FindAll(ctx context.Context, ownerID string, query Query) (Page, error) {
	page := query.Page
	if page < 1 {
		page = constants.DefaultPage
	}
	limit := query.Limit
	if limit < 1 {
		limit = constants.DefaultPageLimit
	}
	offset := (page - 1) * limit

	rows, err := s.repo.FindPage(ctx, ownerID, query.Search, offset, limit)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": ownerID,
			"action":  "bookmark_list_failed",
		}).Errorf("bookmark list failed: %v", err)
		return Page{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	views := make([]domain.View, 0, len(rows))
	for _, row := range rows {
		view, err := s.toView(row)
		if err != nil {
			return Page{}, err
		}
		views = append(views, view)
	}

	filtered := "none"
	if len(query.Tags) > 0 {
		filtered = "tags"
		views = filterByTags(views, query.Tags)
	}
	metrics.BookmarkQueriesTotal.WithLabelValues(filtered).Inc()

	total, err := s.repo.CountByOwner(ctx, ownerID, query.Search)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": ownerID,
			"action":  "bookmark_count_failed",
		}).Errorf("bookmark count failed: %v", err)
		return Page{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	return Page{
		Bookmarks: views,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

// FindOne checks existence before ownership: an unknown id is NotFound, an
// existing record owned by someone else is AccessDenied.
func (s *BookmarkService) FindOne(ctx context.Context, id domain.ID, ownerID string) (domain.View, error) {
	bookmark, err := s.authorize(ctx, id, ownerID)
	if err != nil {
		return domain.View{}, err
	}
	return s.toView(bookmark)
}

func (s *BookmarkService) Update(ctx context.Context, id domain.ID, ownerID string, input UpdateInput) (domain.View, error) {
	if _, err := s.authorize(ctx, id, ownerID); err != nil {
		return domain.View{}, err
	}

	fields := bookmarkrepo.UpdateFields{
		Title:       input.Title,
		URL:         input.URL,
		Description: input.Description,
	}
	if input.Tags != nil {
		encoded, err := domain.EncodeTags(*input.Tags)
		if err != nil {
			return domain.View{}, commonerrors.ErrInternalError.WithCause(err)
		}
		fields.Tags = &encoded
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, bookmarkrepo.ErrBookmarkNotFound) {
			return domain.View{}, ErrBookmarkNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id":     ownerID,
			"bookmark_id": string(id),
			"action":      "bookmark_update_failed",
		}).Errorf("bookmark update failed: %v", err)
		return domain.View{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":     ownerID,
		"bookmark_id": string(id),
		"action":      "bookmark_updated",
	}).Info("bookmark updated")
	metrics.BookmarksUpdatedTotal.Inc()

	s.invalidateTagCache(ctx, ownerID)

	return s.toView(updated)
}

func (s *BookmarkService) Remove(ctx context.Context, id domain.ID, ownerID string) (domain.View, error) {
	bookmark, err := s.authorize(ctx, id, ownerID)
	if err != nil {
		return domain.View{}, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookmarkrepo.ErrBookmarkNotFound) {
			return domain.View{}, ErrBookmarkNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id":     ownerID,
			"bookmark_id": string(id),
			"action":      "bookmark_delete_failed",
		}).Errorf("bookmark delete failed: %v", err)
		return domain.View{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":     ownerID,
		"bookmark_id": string(id),
		"action":      "bookmark_deleted",
	}).Info("bookmark deleted")
	metrics.BookmarksDeletedTotal.Inc()

	s.invalidateTagCache(ctx, ownerID)

	return s.toView(bookmark)
}

// GetAllTags flattens every tag sequence of the owner, removes duplicates
// and sorts. Unbounded by design; per-user tag vocabularies are small.
func (s *BookmarkService) GetAllTags(ctx context.Context, ownerID string) ([]string, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, ownerID)
		if err != nil {
			s.log.Warnf("tag cache read failed: %v", err)
		} else if cached != nil {
			metrics.TagCacheHitsTotal.Inc()
			return cached, nil
		} else {
			metrics.TagCacheMissesTotal.Inc()
		}
	}

	payloads, err := s.repo.TagPayloadsByOwner(ctx, ownerID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": ownerID,
			"action":  "tags_fetch_failed",
		}).Errorf("tags fetch failed: %v", err)
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}

	seen := map[string]struct{}{}
	tags := []string{}
	for _, payload := range payloads {
		decoded, err := domain.DecodeTags(payload)
		if err != nil {
			return nil, commonerrors.ErrInternalError.WithCause(err)
		}
		for _, tag := range decoded {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)

	if s.cache != nil {
		if err := s.cache.Set(ctx, ownerID, tags); err != nil {
			s.log.Warnf("tag cache write failed: %v", err)
		}
	}

	return tags, nil
}

func (s *BookmarkService) authorize(ctx context.Context, id domain.ID, ownerID string) (domain.Bookmark, error) {
	bookmark, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookmarkrepo.ErrBookmarkNotFound) {
			return domain.Bookmark{}, ErrBookmarkNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id":     ownerID,
			"bookmark_id": string(id),
			"action":      "bookmark_fetch_failed",
		}).Errorf("bookmark fetch failed: %v", err)
		return domain.Bookmark{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if bookmark.OwnerID != ownerID {
		s.log.WithFields(ctx, logger.Fields{
			"user_id":     ownerID,
			"bookmark_id": string(id),
			"action":      "bookmark_access_denied",
		}).Warn("bookmark access denied: caller is not the owner")
		return domain.Bookmark{}, ErrBookmarkAccessDenied
	}

	return bookmark, nil
}

func (s *BookmarkService) toView(bookmark domain.Bookmark) (domain.View, error) {
	view, err := bookmark.View()
	if err != nil {
		s.log.Errorf("malformed tag payload on bookmark %s: %v", bookmark.ID, err)
		return domain.View{}, commonerrors.ErrInternalError.WithCause(err)
	}
	return view, nil
}

func (s *BookmarkService) invalidateTagCache(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		s.log.Warnf("tag cache invalidation failed: %v", err)
	}
}

// filterByTags keeps views whose tag sequence intersects the requested list.
func filterByTags(views []domain.View, tags []string) []domain.View {
	filtered := []domain.View{}
	for _, view := range views {
		if intersects(view.Tags, tags) {
			filtered = append(filtered, view)
		}
	}
	return filtered
}

func intersects(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
