package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pthm-cable/habitat/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the fox roster at one instant, for inspection and replay.
type Snapshot struct {
	Version int       `json:"version"`
	Seed    int64     `json:"seed"`
	Date    time.Time `json:"date"`
	Day     int       `json:"day"`

	Foxes []FoxState `json:"foxes"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// FoxState is one fox's serializable state. The home range is reduced to its
// size; it is regenerated from the den on replay.
type FoxState struct {
	ID        components.FoxID   `json:"id"`
	Group     components.GroupID `json:"group"`
	Sex       string             `json:"sex"`
	Age       int                `json:"age"`
	BirthDate time.Time          `json:"birth_date"`
	Den       components.Pos     `json:"den"`
	Position  components.Pos     `json:"position"`
	RangeSize int                `json:"range_size"`
	Hunger    float64            `json:"hunger"`
	Pregnant  bool               `json:"pregnant"`
	Dispersed bool               `json:"dispersed"`
	DeathAt   *time.Time         `json:"death_at,omitempty"`
}

// NewSnapshot captures foxes at now.
func NewSnapshot(seed int64, day int, now time.Time, foxes []components.Fox, b *Bookmark) *Snapshot {
	s := &Snapshot{
		Version:  SnapshotVersion,
		Seed:     seed,
		Date:     now,
		Day:      day,
		Foxes:    make([]FoxState, 0, len(foxes)),
		Bookmark: b,
	}
	for i := range foxes {
		f := &foxes[i]
		st := FoxState{
			ID:        f.ID,
			Group:     f.GroupID,
			Sex:       f.Sex.String(),
			Age:       f.Age,
			BirthDate: f.BirthDate,
			Den:       f.Den,
			Position:  f.Position,
			RangeSize: f.HomeRange.Len(),
			Hunger:    f.Hunger,
			Pregnant:  f.Pregnant,
			Dispersed: f.Dispersed,
		}
		if !f.DeathAt.IsZero() {
			d := f.DeathAt
			st.DeathAt = &d
		}
		s.Foxes = append(s.Foxes, st)
	}
	return s
}

// Save writes the snapshot as JSON into dir and returns the file path.
func (s *Snapshot) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	name := fmt.Sprintf("snapshot_day%05d", s.Day)
	if s.Bookmark != nil {
		name += "_" + strings.ReplaceAll(string(s.Bookmark.Type), " ", "_")
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot written by Save.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	return &s, nil
}
