package inventoryio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/phrazzld/forest-inventory/internal/domain"
)

// DefaultPlotSizeAcres applies when a row leaves plot_size_acres empty.
const DefaultPlotSizeAcres = 0.2

// CSV column names.
const (
	colPlotID          = "plot_id"
	colTreeID          = "tree_id"
	colSpeciesCode     = "species_code"
	colSpeciesName     = "species_name"
	colDBH             = "dbh"
	colHeight          = "height"
	colCrownRatio      = "crown_ratio"
	colStatus          = "status"
	colExpansionFactor = "expansion_factor"
	colAge             = "age"
	colDefect          = "defect"
	colPlotSizeAcres   = "plot_size_acres"
	colSlopePercent    = "slope_percent"
	colAspectDegrees   = "aspect_degrees"
	colElevationFt     = "elevation_ft"
)

// Columns is the header written by WriteCSV.
var Columns = []string{
	colPlotID, colTreeID, colSpeciesCode, colSpeciesName, colDBH, colHeight,
	colCrownRatio, colStatus, colExpansionFactor, colAge, colDefect,
	colPlotSizeAcres, colSlopePercent, colAspectDegrees, colElevationFt,
}

var requiredColumns = []string{
	colPlotID, colTreeID, colSpeciesCode, colDBH, colStatus, colExpansionFactor,
}

// ReadCSV parses a tree-list CSV into an inventory called name. Plots are
// ordered by id and trees keep file order within their plot. The result is
// validated before it is returned.
func ReadCSV(r io.Reader, name string) (*domain.ForestInventory, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty CSV input", domain.ErrInvalidFormat)
		}
		return nil, fmt.Errorf("%w: reading CSV header: %w", domain.ErrInvalidFormat, err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", domain.ErrInvalidFormat, col)
		}
	}

	plots := make(map[int]*domain.Plot)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", domain.ErrInvalidFormat, line, err)
		}

		row := csvRow{record: record, index: index, line: line}
		if row.blank() {
			continue
		}

		tree, plot, err := row.parse()
		if err != nil {
			return nil, err
		}

		existing, ok := plots[plot.PlotID]
		if !ok {
			existing = plot
			plots[plot.PlotID] = existing
		}
		existing.Trees = append(existing.Trees, tree)
	}

	inv := domain.NewForestInventory(name)
	ids := make([]int, 0, len(plots))
	for id := range plots {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		inv.Plots = append(inv.Plots, *plots[id])
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

// WriteCSV writes one row per tree with the Columns header.
func WriteCSV(w io.Writer, inv *domain.ForestInventory) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i := range inv.Plots {
		plot := &inv.Plots[i]
		for j := range plot.Trees {
			tree := &plot.Trees[j]
			record := []string{
				strconv.Itoa(tree.PlotID),
				strconv.Itoa(tree.TreeID),
				tree.Species.Code,
				tree.Species.CommonName,
				formatFloat(tree.DBH),
				formatOptionalFloat(tree.Height),
				formatOptionalFloat(tree.CrownRatio),
				string(tree.Status),
				formatFloat(tree.ExpansionFactor),
				formatOptionalInt(tree.Age),
				formatOptionalFloat(tree.Defect),
				formatFloat(plot.SizeAcres),
				formatOptionalFloat(plot.SlopePercent),
				formatOptionalFloat(plot.AspectDegrees),
				formatOptionalFloat(plot.ElevationFt),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("writing CSV row for plot %d tree %d: %w", tree.PlotID, tree.TreeID, err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// csvRow is one data record with header lookup.
type csvRow struct {
	record []string
	index  map[string]int
	line   int
}

func (r csvRow) cell(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r csvRow) blank() bool {
	for _, v := range r.record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (r csvRow) errorf(col string, err error) error {
	return fmt.Errorf("%w: line %d, column %s: %v", domain.ErrInvalidFormat, r.line, col, err)
}

func (r csvRow) requiredInt(col string) (int, error) {
	v := r.cell(col)
	if v == "" {
		return 0, r.errorf(col, errors.New("value is required"))
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, r.errorf(col, err)
	}
	return n, nil
}

func (r csvRow) requiredFloat(col string) (float64, error) {
	v := r.cell(col)
	if v == "" {
		return 0, r.errorf(col, errors.New("value is required"))
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, r.errorf(col, err)
	}
	return f, nil
}

func (r csvRow) optionalFloat(col string) (*float64, error) {
	v := r.cell(col)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, r.errorf(col, err)
	}
	return &f, nil
}

func (r csvRow) optionalInt(col string) (*int, error) {
	v := r.cell(col)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, r.errorf(col, err)
	}
	return &n, nil
}

// parse builds the tree on this row and the plot it describes.
func (r csvRow) parse() (domain.Tree, *domain.Plot, error) {
	var (
		tree domain.Tree
		err  error
	)

	if tree.PlotID, err = r.requiredInt(colPlotID); err != nil {
		return tree, nil, err
	}
	if tree.TreeID, err = r.requiredInt(colTreeID); err != nil {
		return tree, nil, err
	}
	tree.Species = domain.Species{
		Code:       r.cell(colSpeciesCode),
		CommonName: r.cell(colSpeciesName),
	}
	if tree.DBH, err = r.requiredFloat(colDBH); err != nil {
		return tree, nil, err
	}
	if tree.Height, err = r.optionalFloat(colHeight); err != nil {
		return tree, nil, err
	}
	if tree.CrownRatio, err = r.optionalFloat(colCrownRatio); err != nil {
		return tree, nil, err
	}
	if tree.Status, err = domain.ParseTreeStatus(r.cell(colStatus)); err != nil {
		return tree, nil, r.errorf(colStatus, err)
	}
	if tree.ExpansionFactor, err = r.requiredFloat(colExpansionFactor); err != nil {
		return tree, nil, err
	}
	if tree.Age, err = r.optionalInt(colAge); err != nil {
		return tree, nil, err
	}
	if tree.Defect, err = r.optionalFloat(colDefect); err != nil {
		return tree, nil, err
	}

	plot := &domain.Plot{PlotID: tree.PlotID, SizeAcres: DefaultPlotSizeAcres}
	size, err := r.optionalFloat(colPlotSizeAcres)
	if err != nil {
		return tree, nil, err
	}
	if size != nil {
		plot.SizeAcres = *size
	}
	if plot.SlopePercent, err = r.optionalFloat(colSlopePercent); err != nil {
		return tree, nil, err
	}
	if plot.AspectDegrees, err = r.optionalFloat(colAspectDegrees); err != nil {
		return tree, nil, err
	}
	if plot.ElevationFt, err = r.optionalFloat(colElevationFt); err != nil {
		return tree, nil, err
	}

	if err := tree.Validate(); err != nil {
		return tree, nil, fmt.Errorf("line %d: %w", r.line, err)
	}
	return tree, plot, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
