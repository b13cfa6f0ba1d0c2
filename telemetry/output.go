package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/aquapark/config"
)

// csvFile is an output file that writes its header with the first record.
type csvFile struct {
	name          string
	f             *os.File
	headerWritten bool
}

func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return fmt.Errorf("writing %s: %w", c.name, err)
		}
		c.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, c.f); err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	return nil
}

// OutputManager writes race results and telemetry as CSV files.
// A nil manager discards all output.
type OutputManager struct {
	dir string

	results    *csvFile
	racers     *csvFile
	trace      *csvFile
	highlights *csvFile
	perf       *csvFile
}

// NewOutputManager creates the output directory and its files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	targets := []struct {
		dst  **csvFile
		name string
	}{
		{&om.results, "results.csv"},
		{&om.racers, "racers.csv"},
		{&om.trace, "trace.csv"},
		{&om.highlights, "highlights.csv"},
		{&om.perf, "perf.csv"},
	}
	for _, t := range targets {
		f, err := os.Create(filepath.Join(dir, t.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", t.name, err)
		}
		*t.dst = &csvFile{name: t.name, f: f}
	}

	return om, nil
}

// WriteConfig saves the configuration used for the run as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteResult appends a race result to results.csv.
func (om *OutputManager) WriteResult(rec RaceRecord) error {
	if om == nil {
		return nil
	}
	return om.results.write([]RaceRecord{rec})
}

// WriteRacers appends per-racer rows to racers.csv.
func (om *OutputManager) WriteRacers(recs []RacerRecord) error {
	if om == nil || len(recs) == 0 {
		return nil
	}
	return om.racers.write(recs)
}

// WriteTrace appends racer samples to trace.csv.
func (om *OutputManager) WriteTrace(recs []TraceRecord) error {
	if om == nil || len(recs) == 0 {
		return nil
	}
	return om.trace.write(recs)
}

// WriteHighlight appends a highlight to highlights.csv.
func (om *OutputManager) WriteHighlight(h Highlight) error {
	if om == nil {
		return nil
	}
	return om.highlights.write([]Highlight{h})
}

// WritePerf appends a timing record to perf.csv.
func (om *OutputManager) WritePerf(rec PerfRecord) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfRecord{rec})
}

// WriteSummary writes batch statistics to summary.csv, replacing earlier contents.
func (om *OutputManager) WriteSummary(stats BatchStats) error {
	if om == nil {
		return nil
	}
	f, err := os.Create(filepath.Join(om.dir, "summary.csv"))
	if err != nil {
		return fmt.Errorf("creating summary.csv: %w", err)
	}
	defer f.Close()
	if err := gocsv.Marshal([]BatchStats{stats}, f); err != nil {
		return fmt.Errorf("writing summary.csv: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files and returns the first error.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{om.results, om.racers, om.trace, om.highlights, om.perf} {
		if c == nil || c.f == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.f = nil
	}
	return firstErr
}
