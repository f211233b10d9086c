package handler

import (
	"encoding/json"
	"net/http"

	"inforia/internal/api/v1/dto"
	"inforia/internal/middleware"
	"inforia/internal/service"

	"github.com/go-playground/validator/v10"
)

// IntegrationHandler links and unlinks the server-side Google refresh token.
type IntegrationHandler struct {
	googleService service.GoogleIntegrationService
	validate      *validator.Validate
}

func NewIntegrationHandler(googleService service.GoogleIntegrationService, v *validator.Validate) *IntegrationHandler {
	return &IntegrationHandler{googleService: googleService, validate: v}
}

func (h *IntegrationHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/integrations/google", authMw(http.HandlerFunc(h.handleGoogle)))
}

func (h *IntegrationHandler) handleGoogle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.linkGoogle(w, r)
	case http.MethodDelete:
		h.unlinkGoogle(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "")
	}
}

// linkGoogle godoc
// @Summary Store a Google refresh token
// @Description Lets reports be saved without the client forwarding a fresh access token.
// @Tags integrations
// @Accept json
// @Param body body dto.LinkGoogleRequest true "Refresh token from the Google consent flow"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse "Secret storage not configured"
// @Router /integrations/google [put]
func (h *IntegrationHandler) linkGoogle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req dto.LinkGoogleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload", "")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationMessage(err, nil), "")
		return
	}
	if err := h.googleService.Link(r.Context(), userID, req.RefreshToken); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *IntegrationHandler) unlinkGoogle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	if err := h.googleService.Unlink(r.Context(), userID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
