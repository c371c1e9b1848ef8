package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
)

// csvTable appends records of one type to a CSV file, writing the header once.
type csvTable[T any] struct {
	name          string
	file          *os.File
	headerWritten bool
}

func openTable[T any](dir, name string) (*csvTable[T], error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvTable[T]{name: name, file: f}, nil
}

func (t *csvTable[T]) write(record T) error {
	records := []T{record}

	if !t.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, t.file); err != nil {
			return fmt.Errorf("writing %s: %w", t.name, err)
		}
		t.headerWritten = true
		return nil
	}

	// Subsequent writes skip headers
	if err := gocsv.MarshalWithoutHeaders(records, t.file); err != nil {
		return fmt.Errorf("writing %s: %w", t.name, err)
	}
	return nil
}

func (t *csvTable[T]) close() error {
	if t == nil || t.file == nil {
		return nil
	}
	return t.file.Close()
}

// OutputManager handles structured run output: CSV logs, the config
// snapshot, the hall of fame and generation snapshots.
type OutputManager struct {
	dir         string
	generations *csvTable[GenerationStats]
	perf        *csvTable[PerfStatsCSV]
	bookmarks   *csvTable[Bookmark]
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled); all methods are no-ops on nil.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	// Create output directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	gens, err := openTable[GenerationStats](dir, "generations.csv")
	if err != nil {
		return nil, err
	}
	om.generations = gens

	perf, err := openTable[PerfStatsCSV](dir, "perf.csv")
	if err != nil {
		om.generations.close()
		return nil, err
	}
	om.perf = perf

	bookmarks, err := openTable[Bookmark](dir, "bookmarks.csv")
	if err != nil {
		om.generations.close()
		om.perf.close()
		return nil, err
	}
	om.bookmarks = bookmarks

	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteGeneration appends a stats record to generations.csv.
func (om *OutputManager) WriteGeneration(stats GenerationStats) error {
	if om == nil {
		return nil
	}
	return om.generations.write(stats)
}

// WritePerf appends a performance record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, generation int) error {
	if om == nil {
		return nil
	}
	return om.perf.write(stats.ToCSV(generation))
}

// WriteBookmark appends a bookmark to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.write(b)
}

// WriteHallOfFame saves the hall of fame as JSON.
func (om *OutputManager) WriteHallOfFame(hof *HallOfFame) error {
	if om == nil || hof == nil {
		return nil
	}

	data, err := hof.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling hall of fame: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, "hall_of_fame.json"), data, 0644); err != nil {
		return fmt.Errorf("writing hall_of_fame.json: %w", err)
	}
	return nil
}

// WriteBestGenome saves the most recent best genome as JSON.
func (om *OutputManager) WriteBestGenome(entry HallEntry) error {
	if om == nil {
		return nil
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling best genome: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, "best_genome.json"), data, 0644); err != nil {
		return fmt.Errorf("writing best_genome.json: %w", err)
	}
	return nil
}

// WriteSnapshot saves a generation snapshot under snapshots/.
func (om *OutputManager) WriteSnapshot(snapshot *Snapshot) (string, error) {
	if om == nil {
		return "", nil
	}
	return SaveSnapshot(snapshot, filepath.Join(om.dir, "snapshots"))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	if err := om.generations.close(); err != nil {
		firstErr = err
	}
	if err := om.perf.close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := om.bookmarks.close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
