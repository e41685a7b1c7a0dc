package telemetry

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pthm-cable/cellsim/genes"
	"github.com/pthm-cable/cellsim/simulation"
)

func TestWriteCellsCSV(t *testing.T) {
	snap := &simulation.Snapshot{
		Tick: 42,
		Cells: []simulation.CellView{
			{Index: 0, X: 400, Y: 120, Genes: genes.Genes{Size: 28, FlagellumSize: 4, StomachSize: 9, GestationSteps: 190}},
			{Index: 1, X: 60, Y: 700, Genes: genes.Genes{Size: 32, FlagellumSize: 6, StomachSize: 11, GestationSteps: 210}},
		},
	}

	var buf bytes.Buffer
	if err := WriteCellsCSV(&buf, snap); err != nil {
		t.Fatalf("WriteCellsCSV error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"Step #42",
		"Cell #,x,y,size,flagellum size,stomach size,steps until child born",
		"0,400,120,28,4,9,190",
		"1,60,700,32,6,11,210",
		"AVERAGE,,,30,5,10,200",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if strings.TrimRight(lines[i], "\r") != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWriteCellsCSV_Extinct(t *testing.T) {
	snap := &simulation.Snapshot{Tick: 9}

	var buf bytes.Buffer
	err := WriteCellsCSV(&buf, snap)
	if !errors.Is(err, ErrExtinct) {
		t.Fatalf("error = %v, want ErrExtinct", err)
	}
	if strings.Contains(buf.String(), averageLabel) {
		t.Error("AVERAGE row written for an empty population")
	}
}

func TestCellsCSV_FromSimulator(t *testing.T) {
	sim := newTestSimulator(t)
	sim.Step()
	snap := sim.Snapshot()

	out, err := CellsCSV(&snap)
	if err != nil {
		t.Fatalf("CellsCSV error: %v", err)
	}
	// preamble + header + one row per cell + AVERAGE
	if got, want := strings.Count(strings.TrimSpace(out), "\n")+1, len(snap.Cells)+3; got != want {
		t.Errorf("line count = %d, want %d", got, want)
	}
}

func TestWriteSeriesCSV(t *testing.T) {
	rows := []SeriesRow{
		{Step: 1000, Population: 12.5, FoodAvailablePct: 80, AvgSize: 30, AvgFlagellumSize: 5, AvgStomachSize: 10, AvgGestationSteps: 200},
	}

	var buf bytes.Buffer
	if err := WriteSeriesCSV(&buf, rows); err != nil {
		t.Fatalf("WriteSeriesCSV error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	header := "Step #,Population Size,% Food Available,Avg. Size,Avg. Flagellum Size,Avg. Stomach Size,Avg. Gestation Steps"
	if lines[0] != header {
		t.Errorf("header = %q, want %q", lines[0], header)
	}
	if lines[1] != "1000,12.5,80,30,5,10,200" {
		t.Errorf("row = %q", lines[1])
	}
}
