package handlers

import (
	"net/http"
	"strconv"

	"github.com/markod/fitlink/internal/catalog"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	client *catalog.Client
	logger *zap.Logger
}

func NewCatalogHandler(client *catalog.Client, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{client: client, logger: logger}
}

func (h *CatalogHandler) ListExercises(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.client.ListExercises(r.Context(), catalog.ListParams{
		Page:     page,
		Limit:    limit,
		Category: q.Get("category"),
		Search:   q.Get("search"),
	})
	if err != nil {
		h.logger.Error("catalog list failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "CATALOG_UNAVAILABLE", "Exercise catalog is unavailable")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *CatalogHandler) GetExercise(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid exercise ID")
		return
	}

	ex, err := h.client.GetExercise(r.Context(), id)
	if err != nil {
		h.logger.Error("catalog get failed", zap.Int("id", id), zap.Error(err))
		writeError(w, http.StatusBadGateway, "CATALOG_UNAVAILABLE", "Exercise catalog is unavailable")
		return
	}

	writeJSON(w, http.StatusOK, ex)
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.client.Categories(r.Context())
	if err != nil {
		h.logger.Error("catalog categories failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "CATALOG_UNAVAILABLE", "Exercise catalog is unavailable")
		return
	}

	writeJSON(w, http.StatusOK, cats)
}
