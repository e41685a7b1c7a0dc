package renderer

// Tint selects how cell bodies are colored.
type Tint uint8

const (
	TintNone Tint = iota
	TintFullness
	TintGeneration
)

// Options selects the optional layers of a frame.
type Options struct {
	ShowFood       bool
	ShowLattice    bool
	ShowMatingGrid bool
	ShowHeadings   bool
	Tint           Tint
	MatingRadius   int
}
