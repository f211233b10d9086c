package service

import (
	"context"
	"errors"
	"net/http"

	"inforia/internal/config"
	"inforia/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const driveFileFields = "id,name,webViewLink,size"

// DocumentExporter writes a report into the professional's Google Drive as a Google Doc.
type DocumentExporter interface {
	Export(ctx context.Context, ts oauth2.TokenSource, title, content string) (*model.ExternalDocument, error)
}

type googleDocsExporter struct {
	docsEndpoint  string
	driveEndpoint string
	// base is the transport under the OAuth2 layer. nil means http.DefaultClient.
	base   *http.Client
	logger zerolog.Logger
}

// NewDocumentExporter creates an exporter for the Google Docs and Drive APIs.
// Empty endpoints fall back to the public Google endpoints.
func NewDocumentExporter(cfg *config.Config, logger zerolog.Logger) DocumentExporter {
	return newDocumentExporter(cfg.GoogleDocsEndpoint, cfg.GoogleDriveEndpoint, nil, logger)
}

func newDocumentExporter(docsEndpoint, driveEndpoint string, base *http.Client, logger zerolog.Logger) *googleDocsExporter {
	return &googleDocsExporter{
		docsEndpoint:  docsEndpoint,
		driveEndpoint: driveEndpoint,
		base:          base,
		logger:        logger.With().Str("service", "DocumentExporter").Logger(),
	}
}

func (e *googleDocsExporter) clientOptions(ctx context.Context, ts oauth2.TokenSource, endpoint string) []option.ClientOption {
	if e.base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, e.base)
	}
	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return opts
}

// Export creates the document, writes the content as a single paragraph and reads back
// the Drive metadata. Nothing is retried; a retry by the caller creates a second document.
func (e *googleDocsExporter) Export(ctx context.Context, ts oauth2.TokenSource, title, content string) (*model.ExternalDocument, error) {
	docsSvc, err := docs.NewService(ctx, e.clientOptions(ctx, ts, e.docsEndpoint)...)
	if err != nil {
		return nil, e.classify(err, "create docs client")
	}
	driveSvc, err := drive.NewService(ctx, e.clientOptions(ctx, ts, e.driveEndpoint)...)
	if err != nil {
		return nil, e.classify(err, "create drive client")
	}

	doc, err := docsSvc.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, e.classify(err, "create document")
	}

	// documents.create only honours the title, so the body goes in with a batch update.
	if content != "" {
		req := &docs.BatchUpdateDocumentRequest{
			Requests: []*docs.Request{{
				InsertText: &docs.InsertTextRequest{
					Text:                 content,
					EndOfSegmentLocation: &docs.EndOfSegmentLocation{},
				},
			}},
		}
		if _, err := docsSvc.Documents.BatchUpdate(doc.DocumentId, req).Context(ctx).Do(); err != nil {
			return nil, e.classify(err, "write document body")
		}
	}

	f, err := driveSvc.Files.Get(doc.DocumentId).Fields(driveFileFields).Context(ctx).Do()
	if err != nil {
		return nil, e.classify(err, "fetch drive metadata")
	}

	out := &model.ExternalDocument{
		ID:   f.Id,
		Name: f.Name,
		URL:  f.WebViewLink,
	}
	if f.Size > 0 {
		size := f.Size
		out.Size = &size
	}
	e.logger.Info().Str("document_id", out.ID).Msg("Google Doc created")
	return out, nil
}

// classify maps upstream failures to ErrTokenExpired when Google rejected the credentials
// and to ErrExportFailed otherwise.
func (e *googleDocsExporter) classify(err error, step string) error {
	kind := ErrExportFailed
	if isUnauthorized(err) {
		kind = ErrTokenExpired
	}
	e.logger.Error().Err(err).Str("step", step).Bool("token_rejected", kind == ErrTokenExpired).Msg("Google export failed")
	return &UpstreamError{Kind: kind, Err: err}
}

func isUnauthorized(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code == http.StatusUnauthorized {
		return true
	}
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		return true
	}
	return errors.Is(err, ErrTokenExpired)
}
