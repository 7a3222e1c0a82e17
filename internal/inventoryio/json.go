package inventoryio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

// ReadJSON decodes and validates an inventory document.
func ReadJSON(r io.Reader) (*domain.ForestInventory, error) {
	var inv domain.ForestInventory
	if err := json.NewDecoder(r).Decode(&inv); err != nil {
		return nil, fmt.Errorf("%w: decoding inventory JSON: %w", domain.ErrInvalidFormat, err)
	}
	if inv.Plots == nil {
		inv.Plots = []domain.Plot{}
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return &inv, nil
}

// WriteJSON encodes inv, indented when pretty is set.
func WriteJSON(w io.Writer, inv *domain.ForestInventory, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(inv); err != nil {
		return fmt.Errorf("encoding inventory JSON: %w", err)
	}
	return nil
}
