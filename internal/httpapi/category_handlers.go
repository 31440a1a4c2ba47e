package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"paperless/internal/logger"
	"paperless/internal/models"
	"paperless/internal/storage"
)

type createCategoryRequest struct {
	ParentCategory string `json:"parentCategory"`
	Name           string `json:"name"`
	Type           string `json:"type"`
}

type renameCategoryRequest struct {
	Name string `json:"name"`
}

type deleteCategoryResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	EntriesDeleted int64  `json:"entriesDeleted"`
}

// CategoryHandler owns the /api/categories endpoints.
type CategoryHandler struct {
	categories storage.CategoryStore
}

// NewCategoryHandler constructs the handler.
func NewCategoryHandler(categories storage.CategoryStore) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Register attaches category routes to the mux behind the auth guard.
func (h *CategoryHandler) Register(mux *http.ServeMux, guard func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /api/categories", guard(h.handleList))
	mux.HandleFunc("POST /api/categories", guard(h.handleCreate))
	mux.HandleFunc("PUT /api/categories/{id}", guard(h.handleRename))
	mux.HandleFunc("DELETE /api/categories/{id}", guard(h.handleDelete))
}

func (h *CategoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided. Please log in.")
		return
	}

	filter := storage.CategoryFilter{}
	q := r.URL.Query()
	if parent := q.Get("parent"); parent != "" {
		filter.Parent = parent
	} else if q.Get("dashboard") == "true" {
		filter.ExcludeParents = models.MandatoryParents
	}

	categories, err := h.categories.List(r.Context(), user.ID, filter)
	if err != nil {
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(user.ID)).Msg("Failed to list categories")
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided. Please log in.")
		return
	}

	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	parent := strings.TrimSpace(req.ParentCategory)
	if name == "" || parent == "" {
		writeError(w, http.StatusBadRequest, "parentCategory and name are required")
		return
	}

	category, err := h.categories.Create(r.Context(), models.Category{
		UserID:         user.ID,
		ParentCategory: parent,
		Name:           name,
		Type:           req.Type,
	})
	if err != nil {
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(user.ID)).Msg("Failed to create category")
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) handleRename(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided. Please log in.")
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}

	var req renameCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	category, err := h.categories.Rename(r.Context(), user.ID, id, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found")
			return
		}
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(user.ID)).Msg("Failed to rename category")
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided. Please log in.")
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}

	removed, err := h.categories.Delete(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found")
			return
		}
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(user.ID)).Msg("Failed to delete category")
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeJSON(w, http.StatusOK, deleteCategoryResponse{
		Success:        true,
		Message:        "Category and entries deleted",
		EntriesDeleted: removed,
	})
}

// pathID reads the {id} path segment as an int64.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
