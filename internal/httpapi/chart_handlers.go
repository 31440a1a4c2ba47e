package httpapi

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-analyze/charts"
	"github.com/shopspring/decimal"

	"paperless/internal/logger"
	"paperless/internal/models"
	"paperless/internal/storage"
)

// ChartHandler renders the monthly spend breakdown as a PNG pie chart.
type ChartHandler struct {
	entries    storage.EntryStore
	categories storage.CategoryStore
}

// NewChartHandler constructs the handler.
func NewChartHandler(entries storage.EntryStore, categories storage.CategoryStore) *ChartHandler {
	return &ChartHandler{entries: entries, categories: categories}
}

// Register attaches the chart route to the mux behind the auth guard.
func (h *ChartHandler) Register(mux *http.ServeMux, guard func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /api/entries/chart", guard(h.handleChart))
}

func (h *ChartHandler) handleChart(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided. Please log in.")
		return
	}

	month := r.URL.Query().Get("month")
	from, to, err := monthRange(month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	entries, err := h.entries.ListByRange(r.Context(), user.ID, &from, &to)
	if err != nil {
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(user.ID)).Msg("Failed to list entries for chart")
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	if len(entries) == 0 {
		writeError(w, http.StatusNotFound, "No entries found for "+month)
		return
	}

	categories, err := h.categories.List(r.Context(), user.ID, storage.CategoryFilter{})
	if err != nil {
		logger.Log.Error().Err(err).Str("user", logger.HashUserID(user.ID)).Msg("Failed to list categories for chart")
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	names, values := chartTotals(entries, categories)
	png, err := renderPieChart(names, values, from)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to render chart")
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to write chart response")
	}
}

// chartTotals groups entry amounts by category name, largest slice
// first with name as tiebreaker so renders are deterministic.
func chartTotals(entries []models.Entry, categories []models.Category) ([]string, []float64) {
	nameByID := make(map[int64]string, len(categories))
	for _, c := range categories {
		nameByID[c.ID] = c.Name
	}

	totals := make(map[string]decimal.Decimal)
	for _, e := range entries {
		name, ok := nameByID[e.CategoryID]
		if !ok {
			name = "Uncategorized"
		}
		totals[name] = totals[name].Add(e.Amount)
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := totals[names[i]], totals[names[j]]
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return names[i] < names[j]
	})

	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = totals[name].InexactFloat64()
	}
	return names, values
}

func renderPieChart(names []string, values []float64, monthStart time.Time) ([]byte, error) {
	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: fmt.Sprintf("Spend Breakdown - %s", monthStart.Format("January 2006")),
		}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}
