package repository

import (
	"context"
	"fmt"

	"inforia/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SearchRepository wraps the search_all and search_all_advanced database functions.
// Both take (search_term text, owner uuid) and rank patients, reports and appointments.
type SearchRepository interface {
	Search(ctx context.Context, userID, term string, advanced bool, limit int) ([]model.SearchResult, error)
}

type searchRepo struct {
	pool *pgxpool.Pool
}

func NewSearchRepo(pool *pgxpool.Pool) SearchRepository {
	return &searchRepo{pool: pool}
}

func (r *searchRepo) Search(ctx context.Context, userID, term string, advanced bool, limit int) ([]model.SearchResult, error) {
	fn := "search_all"
	highlights := "NULL::text"
	if advanced {
		fn = "search_all_advanced"
		highlights = "search_highlights"
	}
	query := fmt.Sprintf(`
		SELECT id, type, title, subtitle, url, created_at, relevance_score, %s AS search_highlights
		FROM %s($1, $2)
		ORDER BY relevance_score DESC
		LIMIT $3
	`, highlights, fn)

	rows, err := r.pool.Query(ctx, query, term, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", fn, err)
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.SearchResult])
	if err != nil {
		return nil, fmt.Errorf("scanning %s results: %w", fn, err)
	}
	if results == nil {
		return []model.SearchResult{}, nil
	}
	return results, nil
}
