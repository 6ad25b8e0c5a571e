package leads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db pgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return newPostgresRepository(pool)
}

func newPostgresRepository(db pgxQuerier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert writes one row. id and created_at are assigned by the database.
func (r *PostgresRepository) Insert(ctx context.Context, rec *Record) (*Lead, error) {
	query := `
		INSERT INTO leads (name, email, phone, utm_source, utm_campaign, utm_medium, utm_term, utm_content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, created_at
	`
	var (
		id        string
		createdAt time.Time
	)
	if err := r.db.QueryRow(ctx, query,
		rec.Name,
		rec.Email,
		rec.Phone,
		rec.UTMSource,
		rec.UTMCampaign,
		rec.UTMMedium,
		rec.UTMTerm,
		rec.UTMContent,
	).Scan(&id, &createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}
	return leadFromRecord(id, createdAt, rec), nil
}

// List reads the whole collection, optionally narrowed by a name/email search.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`
		SELECT id::text, name, email, phone,
			COALESCE(utm_source, ''), utm_campaign, COALESCE(utm_medium, ''), utm_term,
			COALESCE(utm_content, ''), created_at
		FROM leads`)
	if q := filter.normalizedQuery(); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		query.WriteString(`
		WHERE name ILIKE $1 ESCAPE '\' OR email ILIKE $1 ESCAPE '\'`)
	}
	if filter.Order == SortOldestFirst {
		query.WriteString("\n\t\tORDER BY created_at ASC")
	} else {
		query.WriteString("\n\t\tORDER BY created_at DESC")
	}

	rows, err := r.db.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Email,
			&lead.Phone,
			&lead.UTMSource,
			&lead.UTMCampaign,
			&lead.UTMMedium,
			&lead.UTMTerm,
			&lead.UTMContent,
			&lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, &lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
