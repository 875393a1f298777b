package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayFood       OverlayID = "food"
	OverlayHomeRange  OverlayID = "home_range"
	OverlayHuntZone   OverlayID = "hunt_zone"
	OverlayTrails     OverlayID = "trails"
	OverlayBestPath   OverlayID = "best_path"
	OverlayOccupancy  OverlayID = "occupancy"
	OverlayGridCursor OverlayID = "grid_cursor"
)

// Scenario names accepted by Mode filters.
const (
	ModeFox = "fox"
	ModeAnt = "ants"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "F", "T")
	Category    string      // Grouping (e.g., "environment", "agents")
	Mode        string      // Scenario the overlay applies to ("" = all)
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// AppliesTo reports whether the overlay is available in mode.
func (d OverlayDescriptor) AppliesTo(mode string) bool {
	return d.Mode == "" || d.Mode == mode
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
	order       []OverlayID // Maintains insertion order for display
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayFood,
		Name:        "Food Matrix",
		Description: "Shade cells by available forage",
		Key:         rl.KeyF,
		KeyLabel:    "F",
		Category:    "environment",
		Mode:        ModeFox,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayHomeRange,
		Name:        "Home Range",
		Description: "Show the selected fox's home range and den",
		Key:         rl.KeyR,
		KeyLabel:    "R",
		Category:    "agents",
		Mode:        ModeFox,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayHuntZone,
		Name:        "Hunting Zone",
		Description: "Show the hunter's scan area",
		Key:         rl.KeyZ,
		KeyLabel:    "Z",
		Category:    "agents",
		Mode:        ModeFox,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayTrails,
		Name:        "Pheromone",
		Description: "Draw trail strength on every edge",
		Key:         rl.KeyT,
		KeyLabel:    "T",
		Category:    "environment",
		Mode:        ModeAnt,
		Exclusive:   []OverlayID{OverlayOccupancy},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayOccupancy,
		Name:        "Occupancy",
		Description: "Shade nodes by used capacity",
		Key:         rl.KeyO,
		KeyLabel:    "O",
		Category:    "environment",
		Mode:        ModeAnt,
		Exclusive:   []OverlayID{OverlayTrails},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayBestPath,
		Name:        "Best Path",
		Description: "Draw the shortest route found so far",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "agents",
		Mode:        ModeAnt,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayGridCursor,
		Name:        "Cell Cursor",
		Description: "Outline the cell under the mouse",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	// If enabling, disable exclusive overlays
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

// Get returns an overlay descriptor by ID.
func (r *OverlayRegistry) Get(id OverlayID) (OverlayDescriptor, bool) {
	desc, ok := r.byID[id]
	return desc, ok
}

// ByCategory returns the overlays of a category available in mode.
func (r *OverlayRegistry) ByCategory(category, mode string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category && desc.AppliesTo(mode) {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns the categories with at least one overlay in mode, in
// registration order.
func (r *OverlayRegistry) Categories(mode string) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !desc.AppliesTo(mode) || seen[desc.Category] {
			continue
		}
		seen[desc.Category] = true
		cats = append(cats, desc.Category)
	}
	return cats
}

// HandleKeyPress checks if a key toggles an overlay available in mode.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32, mode string) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key && desc.AppliesTo(mode) {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// Keys returns every toggle key registered for mode.
func (r *OverlayRegistry) Keys(mode string) []int32 {
	var keys []int32
	for _, desc := range r.descriptors {
		if desc.Key != 0 && desc.AppliesTo(mode) {
			keys = append(keys, desc.Key)
		}
	}
	return keys
}

// EnabledOverlays returns a list of currently enabled overlay IDs.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, id := range r.order {
		if r.enabled[id] {
			result = append(result, id)
		}
	}
	return result
}
