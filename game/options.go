package game

import (
	"fmt"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/persistence"
	"github.com/pthm-cable/habitat/ui"
)

// Mode selects which model a game runs.
type Mode string

const (
	ModeFox  Mode = ui.ModeFox
	ModeAnts Mode = ui.ModeAnt
)

// ParseMode validates a -mode flag value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFox, ModeAnts:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (want %q or %q)", s, ModeFox, ModeAnts)
}

// Options configures a game at construction.
type Options struct {
	Mode           Mode
	Seed           int64
	OutputDir      string // CSV, chart and snapshot output; empty disables
	DBPath         string // SQLite run store; empty disables
	Headless       bool   // No raylib window, renderers or input
	StepsPerUpdate int    // Simulation ticks per Update/UpdateHeadless call
	LogStats       bool   // Log daily fox stats and ant generations at Info

	// Config overrides the global config; sweeps and calibration pass
	// per-run copies.
	Config *config.Config

	// Store is a run store shared between games. It takes precedence over
	// DBPath and is left open on Unload.
	Store *persistence.Store
}

// maxStepsPerUpdate caps the graphical speed slider.
const maxStepsPerUpdate = 24
