package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/linkmark/backend/internal/bookmark/domain"
	commonerrors "github.com/linkmark/backend/internal/common/errors"
)

var ErrBookmarkNotFound = commonerrors.ErrBookmarkNotFound

// UpdateFields carries a partial update; nil means "leave unchanged".
// Tags is the already-serialized sequence.
type UpdateFields struct {
	Title       *string
	URL         *string
	Description *string
	Tags        *string
}

type Repository interface {
	Create(ctx context.Context, bookmark domain.Bookmark) (domain.Bookmark, error)
	FindByID(ctx context.Context, id domain.ID) (domain.Bookmark, error)
	// FindPage returns one page of the owner's bookmarks ordered by creation
	// time descending. The search filter is substring containment over
	// title, description and url; the tag predicate cannot be pushed down
	// because tags are serialized, so it is not part of this query.
	FindPage(ctx context.Context, ownerID, search string, offset, limit int) ([]domain.Bookmark, error)
	CountByOwner(ctx context.Context, ownerID, search string) (int, error)
	Update(ctx context.Context, id domain.ID, fields UpdateFields) (domain.Bookmark, error)
	Delete(ctx context.Context, id domain.ID) error
	// TagPayloadsByOwner returns the raw serialized tag column for every
	// bookmark of the owner.
	TagPayloadsByOwner(ctx context.Context, ownerID string) ([]string, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const bookmarkColumns = `id, title, url, COALESCE(description, ''), tags, user_id, created_at, updated_at`

func (r *PgRepository) Create(ctx context.Context, bookmark domain.Bookmark) (domain.Bookmark, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO bookmarks (id, title, url, description, tags, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+bookmarkColumns,
		string(bookmark.ID),
		bookmark.Title,
		bookmark.URL,
		bookmark.Description,
		bookmark.Tags,
		bookmark.OwnerID,
	)

	created, err := scanBookmark(row)
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to create bookmark: %w", err)
	}
	return created, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Bookmark, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = $1`,
		string(id),
	)

	bookmark, err := scanBookmark(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Bookmark{}, ErrBookmarkNotFound
		}
		return domain.Bookmark{}, fmt.Errorf("failed to fetch bookmark: %w", err)
	}
	return bookmark, nil
}

func (r *PgRepository) FindPage(ctx context.Context, ownerID, search string, offset, limit int) ([]domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE user_id = $1`
	args := []interface{}{ownerID}

	if search != "" {
		query += ` AND (title ILIKE $2 OR description ILIKE $2 OR url ILIKE $2)`
		args = append(args, containsPattern(search))
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []domain.Bookmark{}
	for rows.Next() {
		bookmark, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, bookmark)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}

	return bookmarks, nil
}

func (r *PgRepository) CountByOwner(ctx context.Context, ownerID, search string) (int, error) {
	query := `SELECT COUNT(*) FROM bookmarks WHERE user_id = $1`
	args := []interface{}{ownerID}

	if search != "" {
		query += ` AND (title ILIKE $2 OR description ILIKE $2 OR url ILIKE $2)`
		args = append(args, containsPattern(search))
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookmarks: %w", err)
	}
	return count, nil
}

func (r *PgRepository) Update(ctx context.Context, id domain.ID, fields UpdateFields) (domain.Bookmark, error) {
	sets := []string{"updated_at = now()"}
	args := []interface{}{}

	appendSet := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	appendSet("title", fields.Title)
	appendSet("url", fields.URL)
	appendSet("description", fields.Description)
	appendSet("tags", fields.Tags)

	args = append(args, string(id))
	query := fmt.Sprintf(
		`UPDATE bookmarks SET %s WHERE id = $%d RETURNING `+bookmarkColumns,
		strings.Join(sets, ", "),
		len(args),
	)

	bookmark, err := scanBookmark(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Bookmark{}, ErrBookmarkNotFound
		}
		return domain.Bookmark{}, fmt.Errorf("failed to update bookmark: %w", err)
	}
	return bookmark, nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookmarks WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}

func (r *PgRepository) TagPayloadsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT tags FROM bookmarks WHERE user_id = $1`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	payloads := []string{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan tags: %w", err)
		}
		payloads = append(payloads, payload)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	return payloads, nil
}

// containsPattern builds an ILIKE substring pattern, escaping the wildcard
// characters so the search string is matched literally.
func containsPattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(search)
	return "%" + escaped + "%"
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBookmark(row rowScanner) (domain.Bookmark, error) {
	var b domain.Bookmark
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.URL,
		&b.Description,
		&b.Tags,
		&b.OwnerID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return domain.Bookmark{}, err
	}
	return b, nil
}
