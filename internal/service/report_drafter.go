package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"inforia/internal/config"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const draftSystemPrompt = "Eres un asistente experto en la redacción de informes psicológicos para el software iNFORiA. " +
	"Tu tarea es generar un informe claro, estructurado y profesional en formato Markdown, " +
	"basándote en la transcripción y las notas proporcionadas."

// ReportDrafter turns a session transcript and notes into a Markdown report draft.
type ReportDrafter interface {
	Draft(ctx context.Context, transcription, sessionNotes string) (string, error)
}

type openRouterDrafter struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// attributionTransport adds the headers OpenRouter uses to attribute traffic to the app.
type attributionTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if t.referer != "" {
		r.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		r.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(r)
}

// NewReportDrafter creates a drafter that talks to an OpenAI-compatible chat completion API.
func NewReportDrafter(cfg *config.Config, logger zerolog.Logger) ReportDrafter {
	clientCfg := openai.DefaultConfig(cfg.OpenRouterAPIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.OpenRouterBaseURL, "/")
	clientCfg.HTTPClient = &http.Client{
		Transport: &attributionTransport{
			base:    http.DefaultTransport,
			referer: cfg.AppPublicURL,
			title:   cfg.AppTitle,
		},
	}
	return &openRouterDrafter{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.ReportModel,
		logger: logger.With().Str("service", "ReportDrafter").Logger(),
	}
}

func buildDraftPrompt(transcription, sessionNotes string) string {
	return fmt.Sprintf("Transcripción de la sesión:\n%s\n\n---\n\nNotas adicionales del terapeuta:\n%s",
		transcription, sessionNotes)
}

func (d *openRouterDrafter) Draft(ctx context.Context, transcription, sessionNotes string) (string, error) {
	if transcription == "" && sessionNotes == "" {
		return "", ErrNoInputProvided
	}

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: draftSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildDraftPrompt(transcription, sessionNotes)},
		},
	})
	if err != nil {
		d.logger.Error().Err(err).Str("model", d.model).Msg("Chat completion failed")
		return "", &UpstreamError{Kind: ErrDraftFailed, Message: upstreamMessage(err), Err: err}
	}
	if len(resp.Choices) == 0 {
		d.logger.Error().Str("model", d.model).Msg("Chat completion returned no choices")
		return "", &UpstreamError{Kind: ErrDraftFailed, Message: "the model returned no choices"}
	}

	return resp.Choices[0].Message.Content, nil
}

func upstreamMessage(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
