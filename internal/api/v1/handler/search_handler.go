package handler

import (
	"net/http"
	"strconv"

	"inforia/internal/middleware"
	"inforia/internal/service"
)

type SearchHandler struct {
	searchService service.SearchService
}

func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/search", allowMethod(http.MethodGet, authMw(http.HandlerFunc(h.search))))
}

// search godoc
// @Summary Universal search
// @Description Ranked matches across patients, reports and appointments. Terms shorter than two characters return an empty list.
// @Tags search
// @Produce json
// @Param q query string true "Search term"
// @Param limit query int false "Maximum results (default 20)"
// @Param advanced query bool false "Use the advanced ranking with highlights"
// @Success 200 {array} model.SearchResult
// @Failure 400 {object} dto.ErrorResponse
// @Router /search [get]
func (h *SearchHandler) search(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer", "")
			return
		}
		limit = n
	}
	advanced, _ := strconv.ParseBool(q.Get("advanced"))

	results, err := h.searchService.Search(r.Context(), userID, q.Get("q"), advanced, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
