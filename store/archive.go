// Package store archives runs, per-generation stats and best genomes in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/config"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/telemetry"
)

// Archive wraps a SQLite connection holding run history.
type Archive struct {
	conn *sqlx.DB
}

// Run describes one archived run.
type Run struct {
	ID           string `db:"id"`
	Seed         int64  `db:"seed"`
	Mode         string `db:"mode"`
	Width        int    `db:"width"`
	Height       int    `db:"height"`
	Population   int    `db:"population"`
	GenomeLength int    `db:"genome_length"`
	StartedUnix  int64  `db:"started_unix"`
	ConfigYAML   string `db:"config_yaml"`
}

// StartedAt returns the run start time.
func (r Run) StartedAt() time.Time {
	return time.Unix(r.StartedUnix, 0)
}

type generationRow struct {
	RunID string `db:"run_id"`
	telemetry.GenerationStats
}

type genomeRow struct {
	RunID       string  `db:"run_id"`
	Generation  int     `db:"generation"`
	Fitness     float64 `db:"fitness"`
	Connections int     `db:"connections"`
	GenomeJSON  string  `db:"genome_json"`
	WiringJSON  string  `db:"wiring_json"`
}

// Open opens or creates an archive at path.
func Open(path string) (*Archive, error) {
	if path == "" {
		return nil, errors.New("archive path is required")
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	a := &Archive{conn: conn}
	if err := a.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.conn.Close()
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		mode TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		population INTEGER NOT NULL,
		genome_length INTEGER NOT NULL,
		started_unix INTEGER NOT NULL,
		config_yaml TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS generations (
		run_id TEXT NOT NULL REFERENCES runs(id),
		generation INTEGER NOT NULL,
		population INTEGER NOT NULL,
		survivors INTEGER NOT NULL,
		alive INTEGER NOT NULL,
		placed INTEGER NOT NULL,
		survival_pct REAL NOT NULL,
		kills INTEGER NOT NULL,
		radiation_deaths INTEGER NOT NULL,
		diversity REAL NOT NULL,
		best_connections INTEGER NOT NULL,
		mean_connections REAL NOT NULL,
		mean_age REAL NOT NULL,
		mean_dose REAL NOT NULL,
		extinct INTEGER NOT NULL,
		elapsed_sec REAL NOT NULL,
		PRIMARY KEY (run_id, generation)
	);

	CREATE TABLE IF NOT EXISTS genomes (
		run_id TEXT NOT NULL REFERENCES runs(id),
		generation INTEGER NOT NULL,
		fitness REAL NOT NULL,
		connections INTEGER NOT NULL,
		genome_json TEXT NOT NULL,
		wiring_json TEXT NOT NULL,
		PRIMARY KEY (run_id, generation)
	);

	CREATE INDEX IF NOT EXISTS idx_genomes_fitness ON genomes(run_id, fitness);
	`
	_, err := a.conn.Exec(schema)
	return err
}

// StartRun records a new run and returns its id.
func (a *Archive) StartRun(ctx context.Context, cfg *config.Config, seed int64) (string, error) {
	cfgYAML, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}

	run := Run{
		ID:           uuid.NewString(),
		Seed:         seed,
		Mode:         cfg.Selection.Mode,
		Width:        cfg.World.Width,
		Height:       cfg.World.Height,
		Population:   cfg.Population.Size,
		GenomeLength: cfg.Genome.Length,
		StartedUnix:  time.Now().Unix(),
		ConfigYAML:   string(cfgYAML),
	}

	_, err = a.conn.NamedExecContext(ctx, `INSERT INTO runs
		(id, seed, mode, width, height, population, genome_length, started_unix, config_yaml)
		VALUES (:id, :seed, :mode, :width, :height, :population, :genome_length, :started_unix, :config_yaml)`, run)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return run.ID, nil
}

// SaveGeneration stores one generation's stats.
func (a *Archive) SaveGeneration(ctx context.Context, runID string, stats telemetry.GenerationStats) error {
	_, err := a.conn.NamedExecContext(ctx, `INSERT OR REPLACE INTO generations
		(run_id, generation, population, survivors, alive, placed, survival_pct, kills,
		 radiation_deaths, diversity, best_connections, mean_connections, mean_age,
		 mean_dose, extinct, elapsed_sec)
		VALUES (:run_id, :generation, :population, :survivors, :alive, :placed, :survival_pct, :kills,
		 :radiation_deaths, :diversity, :best_connections, :mean_connections, :mean_age,
		 :mean_dose, :extinct, :elapsed_sec)`,
		generationRow{RunID: runID, GenerationStats: stats})
	if err != nil {
		return fmt.Errorf("insert generation %d: %w", stats.Generation, err)
	}
	return nil
}

// SaveGenome stores a generation's best genome.
func (a *Archive) SaveGenome(ctx context.Context, runID string, entry telemetry.HallEntry) error {
	genomeJSON, err := json.Marshal(entry.Genome)
	if err != nil {
		return fmt.Errorf("encode genome: %w", err)
	}
	wiringJSON, err := json.Marshal(entry.Wiring)
	if err != nil {
		return fmt.Errorf("encode wiring: %w", err)
	}

	row := genomeRow{
		RunID:       runID,
		Generation:  entry.Generation,
		Fitness:     entry.Fitness,
		Connections: entry.Connections,
		GenomeJSON:  string(genomeJSON),
		WiringJSON:  string(wiringJSON),
	}
	_, err = a.conn.NamedExecContext(ctx, `INSERT OR REPLACE INTO genomes
		(run_id, generation, fitness, connections, genome_json, wiring_json)
		VALUES (:run_id, :generation, :fitness, :connections, :genome_json, :wiring_json)`, row)
	if err != nil {
		return fmt.Errorf("insert genome for generation %d: %w", entry.Generation, err)
	}
	return nil
}

// Runs lists archived runs, newest first.
func (a *Archive) Runs(ctx context.Context) ([]Run, error) {
	var runs []Run
	if err := a.conn.SelectContext(ctx, &runs, `SELECT * FROM runs ORDER BY started_unix DESC, id`); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run. ok is false if it does not exist.
func (a *Archive) GetRun(ctx context.Context, runID string) (run Run, ok bool, err error) {
	err = a.conn.GetContext(ctx, &run, `SELECT * FROM runs WHERE id = ?`, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("get run %s: %w", runID, err)
	}
	return run, true, nil
}

// Generations returns a run's stats in generation order.
func (a *Archive) Generations(ctx context.Context, runID string) ([]telemetry.GenerationStats, error) {
	var rows []generationRow
	if err := a.conn.SelectContext(ctx, &rows,
		`SELECT * FROM generations WHERE run_id = ? ORDER BY generation`, runID); err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}

	stats := make([]telemetry.GenerationStats, len(rows))
	for i, r := range rows {
		stats[i] = r.GenerationStats
	}
	return stats, nil
}

// BestGenomes returns up to limit of a run's archived genomes, fittest first.
// Ties go to more connections, then the earlier generation.
func (a *Archive) BestGenomes(ctx context.Context, runID string, limit int) ([]telemetry.HallEntry, error) {
	var rows []genomeRow
	if err := a.conn.SelectContext(ctx, &rows, `SELECT * FROM genomes WHERE run_id = ?
		ORDER BY fitness DESC, connections DESC, generation ASC LIMIT ?`, runID, limit); err != nil {
		return nil, fmt.Errorf("list genomes: %w", err)
	}

	entries := make([]telemetry.HallEntry, len(rows))
	for i, r := range rows {
		entries[i] = telemetry.HallEntry{
			Generation:  r.Generation,
			Fitness:     r.Fitness,
			Connections: r.Connections,
		}
		if err := json.Unmarshal([]byte(r.GenomeJSON), &entries[i].Genome); err != nil {
			return nil, fmt.Errorf("decode genome for generation %d: %w", r.Generation, err)
		}
		if err := json.Unmarshal([]byte(r.WiringJSON), &entries[i].Wiring); err != nil {
			return nil, fmt.Errorf("decode wiring for generation %d: %w", r.Generation, err)
		}
	}
	return entries, nil
}
