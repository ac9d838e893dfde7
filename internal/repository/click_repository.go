package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"linkly-be/internal/entities"
)

// ClickRepository defines the interface for click log operations
type ClickRepository interface {
	Create(ctx context.Context, click *entities.Click) error
	// ListByLink returns clicks newest first; limit <= 0 returns all of them.
	ListByLink(ctx context.Context, linkID string, limit int) ([]entities.Click, error)
	CountByLink(ctx context.Context, linkID string) (int64, error)
}

type clickRepository struct {
	db *sql.DB
	qb sq.StatementBuilderType
}

var clickColumns = []string{"id", "link_id", "timestamp", "ip_address", "user_agent", "referer", "device", "browser"}

// NewClickRepository creates a new click repository
func NewClickRepository(db *sql.DB) ClickRepository {
	return &clickRepository{
		db: db,
		qb: psql,
	}
}

// Create appends a click and fills in its generated ID
func (r *clickRepository) Create(ctx context.Context, click *entities.Click) error {
	query, args, err := r.qb.Insert("clicks").
		Columns("link_id", "timestamp", "ip_address", "user_agent", "referer", "device", "browser").
		Values(click.LinkID, click.Timestamp.UTC(), click.IPAddress, click.UserAgent, click.Referer, click.Device, click.Browser).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build click insert: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&click.ID); err != nil {
		return fmt.Errorf("failed to insert click for link %s: %w", click.LinkID, err)
	}
	return nil
}

// ListByLink retrieves the click log of a link ordered by timestamp descending
func (r *clickRepository) ListByLink(ctx context.Context, linkID string, limit int) ([]entities.Click, error) {
	builder := r.qb.Select(clickColumns...).
		From("clicks").
		Where(sq.Eq{"link_id": linkID}).
		OrderBy("timestamp DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build click query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get clicks: %w", err)
	}
	defer rows.Close()

	clicks := make([]entities.Click, 0)
	for rows.Next() {
		var c entities.Click
		if err := rows.Scan(
			&c.ID,
			&c.LinkID,
			&c.Timestamp,
			&c.IPAddress,
			&c.UserAgent,
			&c.Referer,
			&c.Device,
			&c.Browser,
		); err != nil {
			return nil, fmt.Errorf("failed to scan click: %w", err)
		}
		clicks = append(clicks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clicks: %w", err)
	}

	return clicks, nil
}

// CountByLink returns the number of clicks recorded for a link
func (r *clickRepository) CountByLink(ctx context.Context, linkID string) (int64, error) {
	query, args, err := r.qb.Select("COUNT(*)").
		From("clicks").
		Where(sq.Eq{"link_id": linkID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build click count: %w", err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count clicks: %w", err)
	}
	return count, nil
}
