// Package telemetry provides per-generation statistics, run output and live frame streaming.
package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats holds the aggregate outcome of one generation.
// Immutable once produced.
type GenerationStats struct {
	Generation int `csv:"generation" db:"generation"`

	// Head counts at generation end
	Population  int     `csv:"population" db:"population"`
	Survivors   int     `csv:"survivors" db:"survivors"`
	Alive       int     `csv:"alive" db:"alive"`
	Placed      int     `csv:"placed" db:"placed"` // Agents that fit on the grid
	SurvivalPct float64 `csv:"survival_pct" db:"survival_pct"`

	// Deaths during the generation
	Kills           int `csv:"kills" db:"kills"`
	RadiationDeaths int `csv:"radiation_deaths" db:"radiation_deaths"`

	// Population make-up
	Diversity       float64 `csv:"diversity" db:"diversity"`
	BestConnections int     `csv:"best_connections" db:"best_connections"` // Active connections of the best survivor
	MeanConnections float64 `csv:"mean_connections" db:"mean_connections"`
	MeanAge         float64 `csv:"mean_age" db:"mean_age"`   // Over live agents
	MeanDose        float64 `csv:"mean_dose" db:"mean_dose"` // Over live agents

	// Extinct is set when no agent survived selection.
	Extinct bool `csv:"extinct" db:"extinct"`

	ElapsedSec float64 `csv:"elapsed_sec" db:"elapsed_sec"`
}

// Elapsed returns the wall time the generation took.
func (s GenerationStats) Elapsed() time.Duration {
	return time.Duration(s.ElapsedSec * float64(time.Second))
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("population", s.Population),
		slog.Int("survivors", s.Survivors),
		slog.Int("alive", s.Alive),
		slog.Float64("survival_pct", s.SurvivalPct),
		slog.Int("kills", s.Kills),
		slog.Int("radiation_deaths", s.RadiationDeaths),
		slog.Float64("diversity", s.Diversity),
		slog.Int("best_connections", s.BestConnections),
		slog.Float64("mean_connections", s.MeanConnections),
		slog.Float64("mean_age", s.MeanAge),
		slog.Float64("mean_dose", s.MeanDose),
		slog.Bool("extinct", s.Extinct),
		slog.Float64("elapsed_sec", s.ElapsedSec),
	)
}

// RunSummary condenses a run's history.
type RunSummary struct {
	Generations    int
	MeanSurvival   float64
	StdSurvival    float64
	MaxSurvival    float64
	FinalSurvival  float64
	FinalDiversity float64
	Extinctions    int
	TotalKills     int
	Elapsed        time.Duration
}

// Summarize computes a RunSummary over history. Empty history yields a zero summary.
func Summarize(history []GenerationStats) RunSummary {
	if len(history) == 0 {
		return RunSummary{}
	}

	survival := make([]float64, len(history))
	var sum RunSummary
	var elapsed float64
	for i, s := range history {
		survival[i] = s.SurvivalPct
		sum.TotalKills += s.Kills
		if s.Extinct {
			sum.Extinctions++
		}
		elapsed += s.ElapsedSec
	}

	last := history[len(history)-1]
	sum.Generations = len(history)
	sum.MeanSurvival, sum.StdSurvival = stat.MeanStdDev(survival, nil)
	sum.MaxSurvival = floats.Max(survival)
	sum.FinalSurvival = last.SurvivalPct
	sum.FinalDiversity = last.Diversity
	sum.Elapsed = time.Duration(elapsed * float64(time.Second))
	return sum
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generations", s.Generations),
		slog.Float64("mean_survival_pct", s.MeanSurvival),
		slog.Float64("std_survival_pct", s.StdSurvival),
		slog.Float64("max_survival_pct", s.MaxSurvival),
		slog.Float64("final_survival_pct", s.FinalSurvival),
		slog.Float64("final_diversity", s.FinalDiversity),
		slog.Int("extinctions", s.Extinctions),
		slog.Int("total_kills", s.TotalKills),
		slog.Duration("elapsed", s.Elapsed),
	)
}
