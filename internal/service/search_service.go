package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"inforia/internal/model"
	"inforia/internal/repository"

	"github.com/rs/zerolog"
)

const (
	minSearchTermLength = 2
	defaultSearchLimit  = 20
	maxSearchLimit      = 100
)

// SearchService runs the universal search over patients, reports and appointments.
type SearchService interface {
	Search(ctx context.Context, userID, term string, advanced bool, limit int) ([]model.SearchResult, error)
}

type searchService struct {
	repo   repository.SearchRepository
	logger zerolog.Logger
}

func NewSearchService(repo repository.SearchRepository, logger zerolog.Logger) SearchService {
	return &searchService{
		repo:   repo,
		logger: logger.With().Str("service", "SearchService").Logger(),
	}
}

func (s *searchService) Search(ctx context.Context, userID, term string, advanced bool, limit int) ([]model.SearchResult, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < minSearchTermLength {
		return []model.SearchResult{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results, err := s.repo.Search(ctx, userID, term, advanced, limit)
	if err != nil {
		s.logger.Error().Err(err).Bool("advanced", advanced).Msg("Search failed")
		return nil, err
	}
	return results, nil
}
