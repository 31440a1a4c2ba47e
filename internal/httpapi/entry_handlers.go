package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"paperless/internal/logger"
	"paperless/internal/models"
	"paperless/internal/storage"
)

// recentEntryLimit caps the per-category listing used by the entry
// history panel.
const recentEntryLimit = 10

type createEntryRequest struct {
	CategoryID    int64            `json:"categoryId"`
	Amount        *decimal.Decimal `json:"amount"`
	Date          string           `json:"date"`
	ItemName      string           `json:"itemName"`
	Notes         string           `json:"notes"`
	Quantity      *decimal.Decimal `json:"quantity"`
	PricePerLitre *decimal.Decimal `json:"pricePerLitre"`
	MorningLitres *decimal.Decimal `json:"morningLitres"`
	NightLitres   *decimal.Decimal `json:"nightLitres"`
	Metadata      map[string]any   `json:"metadata"`
	PaymentMode   string           `json:"paymentMode"`
}

type updateEntryRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	Date          *string          `json:"date"`
	ItemName      *string          `json:"itemName"`
	Notes         *string          `json:"notes"`
	Quantity      *decimal.Decimal `json:"quantity"`
	PricePerLitre *decimal.Decimal `json:"pricePerLitre"`
	MorningLitres *decimal.Decimal `json:"morningLitres"`
	NightLitres   *decimal.Decimal `json:"nightLitres"`
	Metadata      map[string]any   `json:"metadata"`
	PaymentMode   *string          `json:"paymentMode"`
}

// EntryHandler owns the /api/entries endpoints.
type EntryHandler struct {
	entries    storage.EntryStore
	categories storage.CategoryStore
}

// NewEntryHandler constructs the handler.
func NewEntryHandler(entries storage.EntryStore, categories storage.CategoryStore) *EntryHandler {
	return &EntryHandler{entries: entries, categories: categories}
}

// Register attaches entry routes to the mux behind the auth guard.
func (h *EntryHandler) Register(mux *http.ServeMux, guard func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /api/entries", guard(h.handleQuery))
	mux.HandleFunc("POST /api/entries", guard(h.handleCreate))
	mux.HandleFunc("PUT /api/entries/{id}", guard(h.handleUpdate))
	mux.HandleFunc("DELETE /api/entries/{id}", guard(h.handleDelete))
}

func (h *EntryHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided. Please log in.")
		return
	}

	var req createEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.CategoryID <= 0 || req.Amount == nil || req.Date == "" || strings.TrimSpace(req.ItemName) == "" {
		writeError(w, http.StatusBadRequest, "categoryId, amount, date and itemName are required")
		return
	}

	date, err := parseDateTime(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.entries.Create(r.Context(), models.Entry{
		UserID:        user.ID,
		CategoryID:    req.CategoryID,
		Amount:        *req.Amount,
		Date:          date,
		ItemName:      strings.TrimSpace(req.ItemName),
		Notes:         req.Notes,
		Quantity:      req.Quantity,
		PricePerLitre: req.PricePerLitre,
		MorningLitres: req.MorningLitres,
		NightLitres:   req.NightLitres,
		Metadata:      req.Metadata,
		PaymentMode:   req.PaymentMode,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The category does not exist or belongs to another user.
			writeError(w, http.StatusNotFound, "Category not found")
			return
		}
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(user.ID)).Msg("Failed to create entry")
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *EntryHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided. Please log in.")
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	var req updateEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	upd := storage.EntryUpdate{
		Amount:        req.Amount,
		ItemName:      req.ItemName,
		Notes:         req.Notes,
		Quantity:      req.Quantity,
		PricePerLitre: req.PricePerLitre,
		MorningLitres: req.MorningLitres,
		NightLitres:   req.NightLitres,
		Metadata:      req.Metadata,
		PaymentMode:   req.PaymentMode,
	}
	if req.Date != nil {
		date, err := parseDateTime(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		upd.Date = &date
	}

	entry, err := h.entries.Update(r.Context(), user.ID, id, upd)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Entry not found")
			return
		}
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(user.ID)).Msg("Failed to update entry")
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *EntryHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided. Please log in.")
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	if err := h.entries.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Entry not found")
			return
		}
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(user.ID)).Msg("Failed to delete entry")
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Entry deleted"})
}

func (h *EntryHandler) handleQuery(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided. Please log in.")
		return
	}

	q, err := parseEntryQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	switch q.kind {
	case queryByCategory:
		entries, err := h.entries.ListByCategory(r.Context(), user.ID, q.categoryID, recentEntryLimit)
		h.respondEntries(w, user.ID, entries, err)
	case queryMilk:
		h.respondMilk(w, r, user.ID, q.from, q.to)
	case queryByParent:
		entries, err := h.entries.ListByParent(r.Context(), user.ID, q.parent, q.from, q.to)
		h.respondEntries(w, user.ID, entries, err)
	case queryByMonth:
		entries, err := h.entries.ListByRange(r.Context(), user.ID, q.from, q.to)
		h.respondEntries(w, user.ID, entries, err)
	default:
		writeError(w, http.StatusBadRequest, "Invalid query parameters")
	}
}

func (h *EntryHandler) respondEntries(w http.ResponseWriter, userID int64, entries []models.Entry, err error) {
	if err != nil {
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(userID)).Msg("Failed to list entries")
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// respondMilk serves the milk ledger aggregate. A user without a milk
// category gets an empty aggregate rather than an error.
func (h *EntryHandler) respondMilk(w http.ResponseWriter, r *http.Request, userID int64, from, to *time.Time) {
	milk, err := h.categories.FindMilk(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusOK, models.SummarizeMilk([]models.Entry{}))
			return
		}
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(userID)).Msg("Failed to find milk category")
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	entries, err := h.entries.ListByCategoryRange(r.Context(), userID, milk.ID, from, to)
	if err != nil {
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(userID)).Msg("Failed to list milk entries")
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	summary := models.SummarizeMilk(entries)
	summary.CategoryID = milk.ID
	writeJSON(w, http.StatusOK, summary)
}
