package handler

import (
	"net/http"

	"inforia/internal/service"
)

// HelpHandler serves the public help center.
type HelpHandler struct {
	helpService service.HelpService
}

func NewHelpHandler(helpService service.HelpService) *HelpHandler {
	return &HelpHandler{helpService: helpService}
}

// RegisterRoutes mounts the help center. These routes are public, so authMw is unused.
func (h *HelpHandler) RegisterRoutes(mux *http.ServeMux, _ func(http.Handler) http.Handler) {
	mux.Handle("/help/faqs", allowMethod(http.MethodGet, http.HandlerFunc(h.listFAQs)))
	mux.Handle("/help/tutorials", allowMethod(http.MethodGet, http.HandlerFunc(h.listTutorials)))
}

// listFAQs godoc
// @Summary List FAQs grouped by category
// @Tags help
// @Produce json
// @Param category query string false "Only this category"
// @Param q query string false "Match question or answer"
// @Success 200 {array} service.FAQCategory
// @Router /help/faqs [get]
func (h *HelpHandler) listFAQs(w http.ResponseWriter, r *http.Request) {
	groups, err := h.helpService.ListFAQs(r.Context(), r.URL.Query().Get("category"), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// listTutorials godoc
// @Summary List video tutorials grouped by category
// @Tags help
// @Produce json
// @Param category query string false "Only this category"
// @Success 200 {array} service.TutorialCategory
// @Router /help/tutorials [get]
func (h *HelpHandler) listTutorials(w http.ResponseWriter, r *http.Request) {
	groups, err := h.helpService.ListTutorials(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}
