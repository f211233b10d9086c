package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inforia/internal/model"
	"inforia/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const mediaURLExpiry = 15 * time.Minute

type FAQCategory struct {
	Category string      `json:"category"`
	FAQs     []model.FAQ `json:"faqs"`
}

type TutorialCategory struct {
	Category  string           `json:"category"`
	Tutorials []model.Tutorial `json:"tutorials"`
}

// HelpService serves the help center. Tutorial media stored in Supabase Storage is
// handed out as short-lived presigned URLs.
type HelpService interface {
	ListFAQs(ctx context.Context, category, term string) ([]FAQCategory, error)
	ListTutorials(ctx context.Context, category string) ([]TutorialCategory, error)
}

type helpService struct {
	repo          repository.HelpRepository
	presignClient *s3.PresignClient
	bucket        string
	logger        zerolog.Logger
}

func NewHelpService(repo repository.HelpRepository, s3Client *s3.Client, bucket string, logger zerolog.Logger) HelpService {
	return &helpService{
		repo:          repo,
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        bucket,
		logger:        logger.With().Str("service", "HelpService").Logger(),
	}
}

func (s *helpService) ListFAQs(ctx context.Context, category, term string) ([]FAQCategory, error) {
	faqs, err := s.repo.ListFAQs(ctx, strings.TrimSpace(category), strings.TrimSpace(term))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list FAQs")
		return nil, err
	}

	out := []FAQCategory{}
	for _, f := range faqs {
		// Rows arrive ordered by category, so a category change starts a new group.
		if n := len(out); n == 0 || out[n-1].Category != f.Category {
			out = append(out, FAQCategory{Category: f.Category})
		}
		last := &out[len(out)-1]
		last.FAQs = append(last.FAQs, f)
	}
	return out, nil
}

func (s *helpService) ListTutorials(ctx context.Context, category string) ([]TutorialCategory, error) {
	tutorials, err := s.repo.ListTutorials(ctx, strings.TrimSpace(category))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list tutorials")
		return nil, err
	}

	out := []TutorialCategory{}
	for _, t := range tutorials {
		if t.VideoURL, err = s.mediaURL(ctx, t.VideoURL); err != nil {
			return nil, err
		}
		if t.ThumbnailURL != nil {
			u, err := s.mediaURL(ctx, *t.ThumbnailURL)
			if err != nil {
				return nil, err
			}
			t.ThumbnailURL = &u
		}
		if n := len(out); n == 0 || out[n-1].Category != t.Category {
			out = append(out, TutorialCategory{Category: t.Category})
		}
		last := &out[len(out)-1]
		last.Tutorials = append(last.Tutorials, t)
	}
	return out, nil
}

// mediaURL passes absolute URLs through and presigns storage paths.
func (s *helpService) mediaURL(ctx context.Context, ref string) (string, error) {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref, nil
	}
	resp, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimPrefix(ref, "/")),
	}, s3.WithPresignExpires(mediaURLExpiry))
	if err != nil {
		s.logger.Error().Err(err).Str("storage_path", ref).Msg("Failed to presign tutorial media")
		return "", fmt.Errorf("presign %s: %w", ref, err)
	}
	return resp.URL, nil
}
