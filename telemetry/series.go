package telemetry

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// SeriesRow is one sample of a batch run, averaged across instances.
type SeriesRow struct {
	Step              int     `csv:"Step #"`
	Population        float64 `csv:"Population Size"`
	FoodAvailablePct  float64 `csv:"% Food Available"`
	AvgSize           float64 `csv:"Avg. Size"`
	AvgFlagellumSize  float64 `csv:"Avg. Flagellum Size"`
	AvgStomachSize    float64 `csv:"Avg. Stomach Size"`
	AvgGestationSteps float64 `csv:"Avg. Gestation Steps"`
}

// WriteSeriesCSV writes the header and all rows.
func WriteSeriesCSV(w io.Writer, rows []SeriesRow) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing series: %w", err)
	}
	return nil
}
