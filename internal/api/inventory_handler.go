package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/forest-inventory/internal/api/shared"
	"github.com/phrazzld/forest-inventory/internal/domain"
	"github.com/phrazzld/forest-inventory/internal/domain/analysis"
	"github.com/phrazzld/forest-inventory/internal/inventoryio"
	"github.com/phrazzld/forest-inventory/internal/platform/logger"
	"github.com/phrazzld/forest-inventory/internal/service"
)

// DefaultMaxUploadBytes bounds request bodies when no limit is configured.
const DefaultMaxUploadBytes int64 = 32 << 20

const defaultUploadName = "uploaded inventory"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// InventoryHandler handles inventory and analysis HTTP requests.
type InventoryHandler struct {
	inventoryService service.InventoryService
	maxUploadBytes   int64
	logger           *slog.Logger
}

// NewInventoryHandler creates a new InventoryHandler. A non-positive
// maxUploadBytes uses DefaultMaxUploadBytes.
func NewInventoryHandler(
	inventoryService service.InventoryService,
	maxUploadBytes int64,
	logger *slog.Logger,
) *InventoryHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InventoryHandler{
		inventoryService: inventoryService,
		maxUploadBytes:   maxUploadBytes,
		logger:           logger.With(slog.String("component", "inventory_handler")),
	}
}

// Routes registers the inventory endpoints on r.
func (h *InventoryHandler) Routes(r chi.Router) {
	r.Route("/inventories", func(r chi.Router) {
		r.Post("/", h.CreateInventory)
		r.Get("/", h.ListInventories)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetInventory)
			r.Delete("/", h.DeleteInventory)
			r.Get("/export", h.ExportInventory)
			r.Get("/metrics", h.GetStandMetrics)
			r.Get("/statistics", h.GetSamplingStatistics)
			r.Get("/distribution", h.GetDiameterDistribution)
			r.Post("/growth", h.ProjectGrowth)
			r.Get("/report", h.GetReport)
		})
	})
}

// CreateInventory handles POST /api/inventories requests. The body is a JSON
// inventory, or CSV tree rows when Content-Type is text/csv.
func (h *InventoryHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	inv, err := h.decodeInventory(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		log.Debug("failed to decode inventory", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	summary, err := h.inventoryService.Import(r.Context(), inv)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.Header().Set("Location", "/api/inventories/"+summary.ID.String())
	shared.RespondWithJSON(w, r, http.StatusCreated, summary)
}

func (h *InventoryHandler) decodeInventory(r *http.Request) (*domain.ForestInventory, error) {
	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, badRequest(fmt.Errorf("invalid Content-Type %q", ct))
		}
		mediaType = parsed
	}

	switch mediaType {
	case "text/csv":
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			name = defaultUploadName
		}
		return inventoryio.ReadCSV(r.Body, name)
	case "application/json":
		return inventoryio.ReadJSON(r.Body)
	default:
		return nil, fmt.Errorf("%w: content type %s", inventoryio.ErrUnsupportedFormat, mediaType)
	}
}

// ListInventories handles GET /api/inventories requests.
func (h *InventoryHandler) ListInventories(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.inventoryService.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, InventoryListResponse{Inventories: summaries})
}

// GetInventory handles GET /api/inventories/{id} requests.
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.loadDataset(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, datasetToResponse(ds))
}

// DeleteInventory handles DELETE /api/inventories/{id} requests.
func (h *InventoryHandler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := h.inventoryService.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportInventory handles GET /api/inventories/{id}/export requests.
// The format query parameter selects csv or json (the default).
func (h *InventoryHandler) ExportInventory(w http.ResponseWriter, r *http.Request) {
	format := inventoryio.FormatJSON
	if raw := r.URL.Query().Get("format"); raw != "" {
		parsed, err := inventoryio.ParseFormat(raw)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		format = parsed
	}

	ds, ok := h.loadDataset(w, r)
	if !ok {
		return
	}

	// Encode into a buffer so encoding failures can still produce an error response.
	var buf bytes.Buffer
	var contentType string
	var err error
	switch format {
	case inventoryio.FormatCSV:
		contentType = "text/csv"
		err = inventoryio.WriteCSV(&buf, &ds.Inventory)
	default:
		contentType = "application/json"
		err = inventoryio.WriteJSON(&buf, &ds.Inventory, true)
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export inventory")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportFilename(ds.Inventory.Name, format)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Error("failed to write export", slog.String("error", err.Error()))
	}
}

// GetStandMetrics handles GET /api/inventories/{id}/metrics requests.
func (h *InventoryHandler) GetStandMetrics(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	metrics, err := h.inventoryService.StandMetrics(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, metrics)
}

// GetSamplingStatistics handles GET /api/inventories/{id}/statistics requests.
// The optional confidence query parameter overrides the default level.
func (h *InventoryHandler) GetSamplingStatistics(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	confidence, err := shared.QueryFloat(r, "confidence")
	if err != nil {
		HandleAPIError(w, r, badRequest(err), "")
		return
	}
	stats, err := h.inventoryService.SamplingStatistics(r.Context(), id, confidence)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetDiameterDistribution handles GET /api/inventories/{id}/distribution requests.
// The optional class_width query parameter overrides the default width.
func (h *InventoryHandler) GetDiameterDistribution(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	width, err := shared.QueryFloat(r, "class_width")
	if err != nil {
		HandleAPIError(w, r, badRequest(err), "")
		return
	}
	dist, err := h.inventoryService.DiameterDistribution(r.Context(), id, width)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, dist)
}

// ProjectGrowth handles POST /api/inventories/{id}/growth requests.
func (h *InventoryHandler) ProjectGrowth(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req GrowthRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, badRequest(err), "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, badRequest(err), "Validation error: "+SanitizeValidationError(err))
		return
	}

	model := h.inventoryService.DefaultGrowthModel()
	if req.Model != nil {
		model, err = req.Model.Model()
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
	}

	projection, err := h.inventoryService.ProjectGrowth(r.Context(), id, model, req.Years)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GrowthResponse{
		Model:      analysis.DescribeModel(model),
		Projection: projection,
	})
}

// GetReport handles GET /api/inventories/{id}/report requests.
// The optional years query parameter sets the projection horizon.
func (h *InventoryHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	years, err := shared.QueryInt(r, "years")
	if err != nil {
		HandleAPIError(w, r, badRequest(err), "")
		return
	}
	if years < 0 || years > analysis.MaxProjectionYears {
		HandleAPIError(w, r,
			badRequest(fmt.Errorf("years must be between 0 and %d", analysis.MaxProjectionYears)), "")
		return
	}

	report, err := h.inventoryService.Report(r.Context(), id, years)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// loadDataset resolves the {id} path parameter to a stored dataset, writing
// an error response when it cannot.
func (h *InventoryHandler) loadDataset(w http.ResponseWriter, r *http.Request) (*domain.Dataset, bool) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	ds, err := h.inventoryService.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	return ds, true
}

func exportFilename(name string, format inventoryio.Format) string {
	base := strings.Trim(unsafeFilenameChars.ReplaceAllString(name, "_"), "_")
	if base == "" {
		base = "inventory"
	}
	return base + "." + string(format)
}
