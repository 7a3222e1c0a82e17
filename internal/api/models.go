package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/forest-inventory/internal/domain"
	"github.com/phrazzld/forest-inventory/internal/domain/analysis"
)

// InventoryListResponse is returned by GET /api/inventories.
type InventoryListResponse struct {
	Inventories []domain.DatasetSummary `json:"inventories"`
}

// InventoryResponse is a stored inventory with its dataset metadata.
type InventoryResponse struct {
	ID        uuid.UUID              `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	ExpiresAt *time.Time             `json:"expires_at,omitempty"`
	Inventory domain.ForestInventory `json:"inventory"`
}

// GrowthRequest defines the payload for the growth projection endpoint.
// A missing model uses the server's default growth model.
type GrowthRequest struct {
	Model *analysis.GrowthModelConfig `json:"model,omitempty" validate:"omitempty"`
	Years int                         `json:"years"           validate:"gte=0,lte=500"`
}

// GrowthResponse wraps a growth projection with the model that produced it.
type GrowthResponse struct {
	Model      analysis.GrowthModelConfig `json:"model"`
	Projection analysis.GrowthProjection  `json:"projection"`
}

func datasetToResponse(ds *domain.Dataset) InventoryResponse {
	return InventoryResponse{
		ID:        ds.ID,
		CreatedAt: ds.CreatedAt,
		ExpiresAt: ds.ExpiresAt,
		Inventory: ds.Inventory,
	}
}
