package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/docs/v1"
)

type googleStub struct {
	createStatus int
	updateStatus int
	driveStatus  int

	createdTitle string
	insertedText string
	driveFields  string
	authHeaders  []string
}

func (g *googleStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.authHeaders = append(g.authHeaders, r.Header.Get("Authorization"))
	w.Header().Set("Content-Type", "application/json")

	fail := func(code int) bool {
		if code == 0 || code == http.StatusOK {
			return false
		}
		w.WriteHeader(code)
		_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"stub failure"}}`, code)
		return true
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/documents":
		if fail(g.createStatus) {
			return
		}
		var doc docs.Document
		_ = json.NewDecoder(r.Body).Decode(&doc)
		g.createdTitle = doc.Title
		_, _ = w.Write([]byte(`{"documentId":"doc-123","title":"` + doc.Title + `"}`))
	case r.Method == http.MethodPost && r.URL.Path == "/v1/documents/doc-123:batchUpdate":
		if fail(g.updateStatus) {
			return
		}
		var req docs.BatchUpdateDocumentRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Requests) == 1 && req.Requests[0].InsertText != nil {
			g.insertedText = req.Requests[0].InsertText.Text
		}
		_, _ = w.Write([]byte(`{"documentId":"doc-123"}`))
	case r.Method == http.MethodGet && r.URL.Path == "/drive/v3/files/doc-123":
		if fail(g.driveStatus) {
			return
		}
		g.driveFields = r.URL.Query().Get("fields")
		_, _ = w.Write([]byte(`{
			"id": "doc-123",
			"name": "2024-03-05 - Ana López - Evaluación inicial",
			"webViewLink": "https://docs.google.com/document/d/doc-123/edit",
			"size": "2048"
		}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newStubExporter(t *testing.T, stub *googleStub) *googleDocsExporter {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return newDocumentExporter(srv.URL+"/", srv.URL+"/drive/v3/", srv.Client(), zerolog.Nop())
}

func staticToken(tok string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"})
}

func TestExportCreatesDocumentAndReadsMetadata(t *testing.T) {
	stub := &googleStub{}
	exp := newStubExporter(t, stub)

	doc, err := exp.Export(context.Background(), staticToken("ya29.abc"),
		"2024-03-05 - Ana López - Evaluación inicial", "# Informe\n\nTexto")
	require.NoError(t, err)

	assert.Equal(t, "doc-123", doc.ID)
	assert.Equal(t, "https://docs.google.com/document/d/doc-123/edit", doc.URL)
	require.NotNil(t, doc.Size)
	assert.Equal(t, int64(2048), *doc.Size)

	assert.Equal(t, "2024-03-05 - Ana López - Evaluación inicial", stub.createdTitle)
	assert.Equal(t, "# Informe\n\nTexto", stub.insertedText)
	assert.Equal(t, "id,name,webViewLink,size", stub.driveFields)
	require.Len(t, stub.authHeaders, 3)
	for _, h := range stub.authHeaders {
		assert.Equal(t, "Bearer ya29.abc", h)
	}
}

func TestExportClassifiesFailures(t *testing.T) {
	tests := []struct {
		name string
		stub *googleStub
		want error
	}{
		{"create unauthorized", &googleStub{createStatus: http.StatusUnauthorized}, ErrTokenExpired},
		{"create server error", &googleStub{createStatus: http.StatusInternalServerError}, ErrExportFailed},
		{"body write forbidden", &googleStub{updateStatus: http.StatusForbidden}, ErrExportFailed},
		{"drive unauthorized", &googleStub{driveStatus: http.StatusUnauthorized}, ErrTokenExpired},
		{"drive server error", &googleStub{driveStatus: http.StatusInternalServerError}, ErrExportFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := newStubExporter(t, tt.stub)

			doc, err := exp.Export(context.Background(), staticToken("ya29.abc"), "t", "c")
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
