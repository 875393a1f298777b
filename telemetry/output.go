package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/habitat/config"
)

// csvFile is an append-only CSV log whose header is written with the first record.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

// OutputManager handles structured run output: CSV logs, the config
// snapshot, charts and state snapshots. A nil manager discards everything.
type OutputManager struct {
	dir       string
	foxes     *csvFile
	ants      *csvFile
	perf      *csvFile
	bookmarks *csvFile

	// Kept in memory for the charts written on Close
	foxDays []FoxStats
	antGens []AntStats

	chartW, chartH int
}

// NewOutputManager creates the output directory and opens the CSV logs.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string, tcfg config.TelemetryConfig) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, chartW: tcfg.ChartWidth, chartH: tcfg.ChartHeight}
	files := []struct {
		name string
		dst  **csvFile
	}{
		{"foxes.csv", &om.foxes},
		{"ants.csv", &om.ants},
		{"perf.csv", &om.perf},
		{"bookmarks.csv", &om.bookmarks},
	}
	for _, file := range files {
		f, err := os.Create(filepath.Join(dir, file.name))
		if err != nil {
			om.closeFiles()
			return nil, fmt.Errorf("creating %s: %w", file.name, err)
		}
		*file.dst = &csvFile{f: f}
	}
	return om, nil
}

// Dir returns the output directory.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteConfig saves the configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteFoxStats appends a day of fox stats to foxes.csv.
func (om *OutputManager) WriteFoxStats(s FoxStats) error {
	if om == nil {
		return nil
	}
	om.foxDays = append(om.foxDays, s)
	if err := om.foxes.write([]FoxStats{s}); err != nil {
		return fmt.Errorf("writing fox stats: %w", err)
	}
	return nil
}

// WriteAntStats appends a generation to ants.csv.
func (om *OutputManager) WriteAntStats(s AntStats) error {
	if om == nil {
		return nil
	}
	om.antGens = append(om.antGens, s)
	if err := om.ants.write([]AntStats{s}); err != nil {
		return fmt.Errorf("writing ant stats: %w", err)
	}
	return nil
}

// WritePerf appends a perf record to perf.csv.
func (om *OutputManager) WritePerf(s PerfStats, at int) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfRecord{s.Record(at)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteBookmark appends a bookmark to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := om.bookmarks.write([]Bookmark{b}); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// WriteSnapshot saves s under the snapshots subdirectory.
func (om *OutputManager) WriteSnapshot(s *Snapshot) (string, error) {
	if om == nil || s == nil {
		return "", nil
	}
	return s.Save(filepath.Join(om.dir, "snapshots"))
}

// writeCharts renders population.png and paths.png from what was logged.
// Runs too short for a chart are skipped.
func (om *OutputManager) writeCharts() error {
	var errs []error
	render := func(name string, draw func(*os.File) error) {
		f, err := os.Create(filepath.Join(om.dir, name))
		if err != nil {
			errs = append(errs, err)
			return
		}
		err = draw(f)
		f.Close()
		if errors.Is(err, ErrTooFewPoints) {
			os.Remove(f.Name())
			return
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(om.foxDays) > 0 {
		render("population.png", func(f *os.File) error {
			return PopulationChart(f, om.foxDays, om.chartW, om.chartH)
		})
	}
	if len(om.antGens) > 0 {
		render("paths.png", func(f *os.File) error {
			return PathChart(f, om.antGens, om.chartW, om.chartH)
		})
	}
	return errors.Join(errs...)
}

func (om *OutputManager) closeFiles() error {
	var errs []error
	for _, c := range []*csvFile{om.foxes, om.ants, om.perf, om.bookmarks} {
		if c != nil {
			errs = append(errs, c.f.Close())
		}
	}
	return errors.Join(errs...)
}

// Close writes the charts and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.writeCharts(), om.closeFiles())
}
