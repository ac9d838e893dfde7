package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"linkly-be/internal/entities"
)

// LinkRepository defines the interface for link database operations
type LinkRepository interface {
	Create(ctx context.Context, shortCode, originalURL, ownerID string) (*entities.Link, error)
	FindByID(ctx context.Context, id string) (*entities.Link, error)
	FindByShortCode(ctx context.Context, shortCode string) (*entities.Link, error)
	ExistsByShortCode(ctx context.Context, shortCode string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*LinkWithClickCount, error)
	Delete(ctx context.Context, id string) error
}

// LinkWithClickCount is a link row joined with the number of recorded clicks.
type LinkWithClickCount struct {
	entities.Link
	ClickCount int64
}

type linkRepository struct {
	db *sql.DB
	qb sq.StatementBuilderType
}

var linkColumns = []string{"id", "short_code", "original_url", "owner_id", "created_at"}

// NewLinkRepository creates a new link repository
func NewLinkRepository(db *sql.DB) LinkRepository {
	return &linkRepository{db: db, qb: psql}
}

// Create inserts a new link. The unique index on short_code is the final
// arbiter of uniqueness; a conflict is reported as ErrDuplicateShortCode.
func (r *linkRepository) Create(ctx context.Context, shortCode, originalURL, ownerID string) (*entities.Link, error) {
	query, args, err := r.qb.Insert("links").
		Columns("short_code", "original_url", "owner_id").
		Values(shortCode, originalURL, ownerID).
		Suffix("RETURNING " + strings.Join(linkColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build link insert: %w", err)
	}

	link, err := scanLink(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateShortCode
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}
	return link, nil
}

// FindByID finds a link by its UUID
func (r *linkRepository) FindByID(ctx context.Context, id string) (*entities.Link, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

// FindByShortCode finds a link by its short code
func (r *linkRepository) FindByShortCode(ctx context.Context, shortCode string) (*entities.Link, error) {
	return r.findOne(ctx, sq.Eq{"short_code": shortCode})
}

func (r *linkRepository) findOne(ctx context.Context, where sq.Eq) (*entities.Link, error) {
	query, args, err := r.qb.Select(linkColumns...).From("links").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build link query: %w", err)
	}

	link, err := scanLink(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}
	return link, nil
}

// ExistsByShortCode reports whether a short code is already taken
func (r *linkRepository) ExistsByShortCode(ctx context.Context, shortCode string) (bool, error) {
	query, args, err := r.qb.Select("1").
		Prefix("SELECT EXISTS (").
		From("links").
		Where(sq.Eq{"short_code": shortCode}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build short code check: %w", err)
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check short code: %w", err)
	}
	return exists, nil
}

// ListByOwner returns all links of a user, newest first, with click counts
func (r *linkRepository) ListByOwner(ctx context.Context, ownerID string) ([]*LinkWithClickCount, error) {
	query, args, err := r.qb.Select("l.id", "l.short_code", "l.original_url", "l.owner_id", "l.created_at", "COUNT(c.id)").
		From("links l").
		LeftJoin("clicks c ON c.link_id = l.id").
		Where(sq.Eq{"l.owner_id": ownerID}).
		GroupBy("l.id").
		OrderBy("l.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build link list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := make([]*LinkWithClickCount, 0)
	for rows.Next() {
		var l LinkWithClickCount
		if err := rows.Scan(
			&l.ID,
			&l.ShortCode,
			&l.OriginalURL,
			&l.OwnerID,
			&l.CreatedAt,
			&l.ClickCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// Delete removes a link; its clicks go with it via ON DELETE CASCADE
func (r *linkRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.qb.Delete("links").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build link delete: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanLink(row *sql.Row) (*entities.Link, error) {
	var link entities.Link
	if err := row.Scan(
		&link.ID,
		&link.ShortCode,
		&link.OriginalURL,
		&link.OwnerID,
		&link.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &link, nil
}
