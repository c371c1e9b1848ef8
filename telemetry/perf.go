package telemetry

import (
	"log/slog"
	"math"
	"time"
)

// Phase names for one generation.
const (
	PhasePopulate  = "populate"
	PhaseRadiation = "radiation"
	PhaseAgents    = "agents"
	PhaseSelection = "selection"
	PhaseStats     = "stats"
	PhaseObservers = "observers"
	PhaseReproduce = "reproduce"
)

// phaseOrder fixes the order phases are logged and exported in.
var phaseOrder = []string{
	PhasePopulate, PhaseRadiation, PhaseAgents,
	PhaseSelection, PhaseStats, PhaseObservers, PhaseReproduce,
}

// PerfSample holds timing data for a single generation.
type PerfSample struct {
	Duration time.Duration
	Phases   map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window of generations.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	genStart      time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of generations to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 10
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartGeneration begins timing a new generation.
func (p *PerfCollector) StartGeneration() {
	p.genStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndGeneration finishes timing the current generation and records the sample.
func (p *PerfCollector) EndGeneration() {
	now := time.Now()
	// End final phase
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		Duration: now.Sub(p.genStart),
		Phases:   p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Generation timing
	AvgGeneration time.Duration
	MinGeneration time.Duration
	MaxGeneration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total generation time
	PhasePct map[string]float64

	// Throughput
	GensPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total time.Duration
	var fastest, slowest time.Duration
	phaseSum := make(map[string]time.Duration)

	// Iterate over valid samples
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.Duration

		if i == 0 || s.Duration < fastest {
			fastest = s.Duration
		}
		if s.Duration > slowest {
			slowest = s.Duration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	// Calculate phase averages and percentages
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	// Calculate throughput
	var gensPerSec float64
	if avg > 0 {
		gensPerSec = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgGeneration: avg,
		MinGeneration: fastest,
		MaxGeneration: slowest,
		PhaseAvg:      phaseAvg,
		PhasePct:      phasePct,
		GensPerSecond: gensPerSec,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats(logger *slog.Logger) {
	attrs := []any{
		"avg_gen_ms", s.AvgGeneration.Milliseconds(),
		"min_gen_ms", s.MinGeneration.Milliseconds(),
		"max_gen_ms", s.MaxGeneration.Milliseconds(),
		"gens_per_sec", s.GensPerSecond,
	}

	// Add phase breakdowns
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", math.Round(pct*10)/10)
		}
	}

	logger.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_gen_ms", s.AvgGeneration.Milliseconds()),
		slog.Int64("min_gen_ms", s.MinGeneration.Milliseconds()),
		slog.Int64("max_gen_ms", s.MaxGeneration.Milliseconds()),
		slog.Float64("gens_per_sec", s.GensPerSecond),
	}

	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Generation   int     `csv:"generation"`
	AvgGenMS     float64 `csv:"avg_gen_ms"`
	MinGenMS     float64 `csv:"min_gen_ms"`
	MaxGenMS     float64 `csv:"max_gen_ms"`
	GensPerSec   float64 `csv:"gens_per_sec"`
	PopulatePct  float64 `csv:"populate_pct"`
	RadiationPct float64 `csv:"radiation_pct"`
	AgentsPct    float64 `csv:"agents_pct"`
	SelectionPct float64 `csv:"selection_pct"`
	StatsPct     float64 `csv:"stats_pct"`
	ObserversPct float64 `csv:"observers_pct"`
	ReproducePct float64 `csv:"reproduce_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(generation int) PerfStatsCSV {
	return PerfStatsCSV{
		Generation:   generation,
		AvgGenMS:     ms(s.AvgGeneration),
		MinGenMS:     ms(s.MinGeneration),
		MaxGenMS:     ms(s.MaxGeneration),
		GensPerSec:   s.GensPerSecond,
		PopulatePct:  s.PhasePct[PhasePopulate],
		RadiationPct: s.PhasePct[PhaseRadiation],
		AgentsPct:    s.PhasePct[PhaseAgents],
		SelectionPct: s.PhasePct[PhaseSelection],
		StatsPct:     s.PhasePct[PhaseStats],
		ObserversPct: s.PhasePct[PhaseObservers],
		ReproducePct: s.PhasePct[PhaseReproduce],
	}
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
