package repository

import (
	"context"
	"fmt"
	"strings"

	"inforia/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HelpRepository reads the help center content. Only active rows are returned.
type HelpRepository interface {
	// ListFAQs filters by category when non-empty and by a case-insensitive match on question or answer when term is non-empty.
	ListFAQs(ctx context.Context, category, term string) ([]model.FAQ, error)
	ListTutorials(ctx context.Context, category string) ([]model.Tutorial, error)
}

type helpRepo struct {
	pool *pgxpool.Pool
}

func NewHelpRepo(pool *pgxpool.Pool) HelpRepository {
	return &helpRepo{pool: pool}
}

func (r *helpRepo) ListFAQs(ctx context.Context, category, term string) ([]model.FAQ, error) {
	query := `
		SELECT id, question, answer, category, order_index, created_at, updated_at
		FROM faqs
		WHERE is_active
		  AND ($1 = '' OR category = $1)
		  AND ($2 = '' OR question ILIKE $3 OR answer ILIKE $3)
		ORDER BY category ASC, order_index ASC
	`
	rows, err := r.pool.Query(ctx, query, category, term, containsPattern(term))
	if err != nil {
		return nil, fmt.Errorf("listing faqs: %w", err)
	}
	faqs, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.FAQ])
	if err != nil {
		return nil, fmt.Errorf("scanning faqs: %w", err)
	}
	return faqs, nil
}

func (r *helpRepo) ListTutorials(ctx context.Context, category string) ([]model.Tutorial, error) {
	query := `
		SELECT id, title, description, video_url, thumbnail_url, category, duration_minutes, order_index,
		       created_at, updated_at
		FROM tutorials
		WHERE is_active
		  AND ($1 = '' OR category = $1)
		ORDER BY category ASC, order_index ASC
	`
	rows, err := r.pool.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("listing tutorials: %w", err)
	}
	tutorials, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Tutorial])
	if err != nil {
		return nil, fmt.Errorf("scanning tutorials: %w", err)
	}
	return tutorials, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE substring pattern in which the term matches literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
