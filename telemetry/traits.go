package telemetry

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/cellsim/genes"
)

// TraitSummary holds per-trait mean and standard deviation over a population.
// Zero-valued when the population is empty.
type TraitSummary struct {
	Count int
	Mean  genes.Genes
	Std   genes.Genes
}

// SummarizeTraits computes the trait distribution of gs.
func SummarizeTraits(gs []genes.Genes) TraitSummary {
	n := len(gs)
	if n == 0 {
		return TraitSummary{}
	}

	cols := [4][]float64{
		make([]float64, n),
		make([]float64, n),
		make([]float64, n),
		make([]float64, n),
	}
	for i, g := range gs {
		cols[0][i] = g.Size
		cols[1][i] = g.FlagellumSize
		cols[2][i] = g.StomachSize
		cols[3][i] = g.GestationSteps
	}

	var mean, std [4]float64
	for i := range cols {
		if n == 1 {
			mean[i] = cols[i][0]
			continue
		}
		mean[i], std[i] = stat.MeanStdDev(cols[i], nil)
	}

	return TraitSummary{
		Count: n,
		Mean:  genes.Genes{Size: mean[0], FlagellumSize: mean[1], StomachSize: mean[2], GestationSteps: mean[3]},
		Std:   genes.Genes{Size: std[0], FlagellumSize: std[1], StomachSize: std[2], GestationSteps: std[3]},
	}
}
