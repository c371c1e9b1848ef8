package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/store"
	"github.com/AnjanaKvd/EvoSim-Evolutionary-Neural-Network-Simulator/telemetry"
)

// LogObserver logs generation stats: the first five generations, then
// every N. Extinctions are always logged at Warn.
type LogObserver struct {
	Logger *slog.Logger
	Every  int
}

// OnGeneration logs r.
func (o *LogObserver) OnGeneration(_ context.Context, r *Report) error {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if r.Stats.Extinct {
		logger.Warn("extinction",
			"generation", r.Generation,
			"population", humanize.Comma(int64(r.Stats.Population)),
			"kills", r.Stats.Kills,
			"radiation_deaths", r.Stats.RadiationDeaths,
		)
		return nil
	}

	if r.Generation >= 5 && (o.Every <= 0 || r.Generation%o.Every != 0) {
		return nil
	}

	logger.Info("generation",
		"gen", humanize.Ordinal(r.Generation),
		"survivors", fmt.Sprintf("%s/%s", humanize.Comma(int64(r.Stats.Survivors)), humanize.Comma(int64(r.Stats.Population))),
		"survival_pct", humanize.FtoaWithDigits(r.Stats.SurvivalPct, 1),
		"diversity", humanize.FtoaWithDigits(r.Stats.Diversity, 3),
		"kills", r.Stats.Kills,
		"best_connections", r.Stats.BestConnections,
		"elapsed", r.Stats.Elapsed().Round(time.Millisecond).String(),
	)
	return nil
}

// OutputObserver writes run output: generations.csv, perf.csv,
// bookmarks.csv, the hall of fame, the latest best genome and periodic
// snapshots.
type OutputObserver struct {
	Output    *telemetry.OutputManager
	Hall      *telemetry.HallOfFame
	Bookmarks *telemetry.BookmarkDetector
	Perf      *telemetry.PerfCollector
	Logger    *slog.Logger

	SnapshotInterval int
	Seed             int64
	RunID            string
	Mode             string
}

// OnGeneration writes r.
func (o *OutputObserver) OnGeneration(_ context.Context, r *Report) error {
	if err := o.Output.WriteGeneration(r.Stats); err != nil {
		return err
	}
	if o.Perf != nil {
		if err := o.Output.WritePerf(o.Perf.Stats(), r.Generation); err != nil {
			return err
		}
	}

	if o.Bookmarks != nil {
		for _, bm := range o.Bookmarks.Check(r.Stats) {
			if o.Logger != nil {
				bm.LogBookmark(o.Logger)
			}
			if err := o.Output.WriteBookmark(bm); err != nil {
				return err
			}
		}
	}

	if entry, ok := r.BestEntry(); ok {
		if err := o.Output.WriteBestGenome(entry); err != nil {
			return err
		}
		if o.Hall != nil && o.Hall.Consider(entry) {
			if err := o.Output.WriteHallOfFame(o.Hall); err != nil {
				return err
			}
		}
	}

	if o.SnapshotInterval > 0 && r.Generation%o.SnapshotInterval == 0 {
		if _, err := o.Output.WriteSnapshot(o.snapshot(r)); err != nil {
			return err
		}
	}
	return nil
}

func (o *OutputObserver) snapshot(r *Report) *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		RNGSeed:     o.Seed,
		RunID:       o.RunID,
		WorldWidth:  r.Grid.Width(),
		WorldHeight: r.Grid.Height(),
		Mode:        o.Mode,
		Generation:  r.Generation,
		Stats:       r.Stats,
		Agents:      make([]telemetry.AgentState, len(r.Agents)),
	}
	for i := range r.Agents {
		s.Agents[i] = r.Agents[i].State()
	}
	return s
}

// ArchiveObserver stores each generation's stats and best genome in the
// SQLite archive.
type ArchiveObserver struct {
	Archive *store.Archive
	RunID   string
}

// OnGeneration archives r.
func (o *ArchiveObserver) OnGeneration(ctx context.Context, r *Report) error {
	if err := o.Archive.SaveGeneration(ctx, o.RunID, r.Stats); err != nil {
		return err
	}
	if entry, ok := r.BestEntry(); ok {
		return o.Archive.SaveGenome(ctx, o.RunID, entry)
	}
	return nil
}

// StreamObserver publishes a frame per generation to a live viewer.
type StreamObserver struct {
	Stream      *telemetry.Stream
	Mode        string
	Generations int

	history []float64
}

// OnGeneration publishes r. Never blocks.
func (o *StreamObserver) OnGeneration(_ context.Context, r *Report) error {
	o.history = append(o.history, r.Stats.SurvivalPct)

	frame := telemetry.Frame{
		Generation:  r.Generation,
		Generations: o.Generations,
		Mode:        o.Mode,
		Width:       r.Grid.Width(),
		Height:      r.Grid.Height(),
		Stats:       r.Stats,
		Dots:        r.Dots(),
		History:     append([]float64(nil), o.history...),
	}
	if entry, ok := r.BestEntry(); ok {
		frame.Best = &entry
	}

	o.Stream.Publish(frame)
	return nil
}
