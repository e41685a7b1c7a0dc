package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayFood        OverlayID = "food"
	OverlayHeadings    OverlayID = "headings"
	OverlayFullness    OverlayID = "fullness"
	OverlayGeneration  OverlayID = "generation"
	OverlayMatingGrid  OverlayID = "mating_grid"
	OverlayFoodLattice OverlayID = "food_lattice"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32 // 0 = no key
	KeyLabel    string
	Category    string
	Exclusive   []OverlayID // disabled when this one is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
// Food is shown from the start.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	reg.SetEnabled(OverlayFood, true)
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayFood,
		Name:        "Food",
		Description: "Draw food items",
		Key:         rl.KeyF,
		KeyLabel:    "F",
		Category:    "visual",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayHeadings,
		Name:        "Headings",
		Description: "Draw each cell's swimming direction",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "visual",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayFullness,
		Name:        "Fullness",
		Description: "Tint cells by stomach fullness",
		Key:         rl.KeyU,
		KeyLabel:    "U",
		Category:    "visual",
		Exclusive:   []OverlayID{OverlayGeneration},
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayGeneration,
		Name:        "Generation",
		Description: "Tint cells by generation",
		Key:         rl.KeyN,
		KeyLabel:    "N",
		Category:    "visual",
		Exclusive:   []OverlayID{OverlayFullness},
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayMatingGrid,
		Name:        "Mating buckets",
		Description: "Draw the mating hash buckets",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "debug",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayFoodLattice,
		Name:        "Food lattice",
		Description: "Draw every food slot, occupied or not",
		Key:         rl.KeyL,
		KeyLabel:    "L",
		Category:    "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	state := !r.enabled[id]
	r.SetEnabled(id, state)
	return state
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// EnabledOverlays returns the enabled overlay IDs in registration order.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, desc := range r.descriptors {
		if r.enabled[desc.ID] {
			result = append(result, desc.ID)
		}
	}
	return result
}
