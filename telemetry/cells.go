package telemetry

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/cellsim/simulation"
)

// ErrExtinct is returned when an export needs at least one cell.
var ErrExtinct = errors.New("population extinct")

// averageLabel marks the summary row of a cells export.
const averageLabel = "AVERAGE"

// CellRecord is one row of the cells export. Position columns are strings
// so the summary row can leave them empty.
type CellRecord struct {
	Cell           string  `csv:"Cell #"`
	X              string  `csv:"x"`
	Y              string  `csv:"y"`
	Size           float64 `csv:"size"`
	FlagellumSize  float64 `csv:"flagellum size"`
	StomachSize    float64 `csv:"stomach size"`
	GestationSteps float64 `csv:"steps until child born"`
}

// CellRecords builds one record per cell followed by the AVERAGE row.
// Returns ErrExtinct if the snapshot has no cells.
func CellRecords(snap *simulation.Snapshot) ([]CellRecord, error) {
	records := make([]CellRecord, 0, len(snap.Cells)+1)
	for _, c := range snap.Cells {
		records = append(records, CellRecord{
			Cell:           strconv.Itoa(c.Index),
			X:              strconv.FormatUint(uint64(c.X), 10),
			Y:              strconv.FormatUint(uint64(c.Y), 10),
			Size:           c.Genes.Size,
			FlagellumSize:  c.Genes.FlagellumSize,
			StomachSize:    c.Genes.StomachSize,
			GestationSteps: c.Genes.GestationSteps,
		})
	}
	if len(records) == 0 {
		return records, ErrExtinct
	}

	avg := SummarizeTraits(snap.Genomes()).Mean
	records = append(records, CellRecord{
		Cell:           averageLabel,
		Size:           avg.Size,
		FlagellumSize:  avg.FlagellumSize,
		StomachSize:    avg.StomachSize,
		GestationSteps: avg.GestationSteps,
	})
	return records, nil
}

// WriteCellsCSV writes the "Step #N" line followed by the cells table.
// An empty population writes nothing and returns ErrExtinct.
func WriteCellsCSV(w io.Writer, snap *simulation.Snapshot) error {
	records, err := CellRecords(snap)
	if err != nil {
		return fmt.Errorf("exporting cells at tick %d: %w", snap.Tick, err)
	}

	if _, err := fmt.Fprintf(w, "Step #%d\n", snap.Tick); err != nil {
		return fmt.Errorf("writing cells preamble: %w", err)
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing cells: %w", err)
	}
	return nil
}

// CellsCSV returns the cells export as a string.
func CellsCSV(snap *simulation.Snapshot) (string, error) {
	var sb strings.Builder
	if err := WriteCellsCSV(&sb, snap); err != nil {
		return "", err
	}
	return sb.String(), nil
}
