package inventoryio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

// Format identifies an inventory file encoding.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// ReadFile loads an inventory from a .csv or .json file. CSV inventories are
// named after the file without its extension.
func ReadFile(path string) (*domain.ForestInventory, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	switch format {
	case FormatCSV:
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return ReadCSV(f, name)
	default:
		return ReadJSON(f)
	}
}

// WriteFile saves inv in the format implied by the path extension. pretty
// only affects JSON output.
func WriteFile(path string, inv *domain.ForestInventory, pretty bool) (err error) {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	switch format {
	case FormatCSV:
		return WriteCSV(f, inv)
	default:
		return WriteJSON(f, inv, pretty)
	}
}
