package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSurvivalRecord    BookmarkType = "survival_record"
	BookmarkExtinction        BookmarkType = "extinction"
	BookmarkDiversityCollapse BookmarkType = "diversity_collapse"
	BookmarkKillSpike         BookmarkType = "kill_spike"
	BookmarkPlateau           BookmarkType = "plateau"
)

// Bookmark marks a generation worth a closer look.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Generation  int          `csv:"generation"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	logger.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable generations from the stats stream.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []GenerationStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	bestSurvival  float64 // highest survival percentage so far
	plateauMarked bool    // plateau already reported for the current run of stable gens
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for plateau detection
	}
	return &BookmarkDetector{
		history:     make([]GenerationStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark

	if stats.Extinct {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkExtinction,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("No survivors out of %d", stats.Population),
		})
	}

	if len(bd.getHistory()) >= 3 {
		// Survival record: beats every earlier generation by 5 points
		if b := bd.checkSurvivalRecord(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Diversity collapse: below half the rolling average
		if b := bd.checkDiversityCollapse(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Kill spike: over 2x the rolling average
		if b := bd.checkKillSpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Plateau: survival flat over the whole window
	if b := bd.checkPlateau(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Update history
	bd.addToHistory(stats)
	if stats.SurvivalPct > bd.bestSurvival {
		bd.bestSurvival = stats.SurvivalPct
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats GenerationStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []GenerationStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) rolling(field func(GenerationStats) float64) []float64 {
	history := bd.getHistory()
	values := make([]float64, len(history))
	for i, h := range history {
		values[i] = field(h)
	}
	return values
}

func (bd *BookmarkDetector) checkSurvivalRecord(stats GenerationStats) *Bookmark {
	if stats.SurvivalPct < bd.bestSurvival+5 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkSurvivalRecord,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("Survival %.1f%% beats previous best %.1f%%", stats.SurvivalPct, bd.bestSurvival),
	}
}

func (bd *BookmarkDetector) checkDiversityCollapse(stats GenerationStats) *Bookmark {
	avg := stat.Mean(bd.rolling(func(s GenerationStats) float64 { return s.Diversity }), nil)
	if avg == 0 || stats.Extinct {
		return nil
	}

	if stats.Diversity < avg*0.5 {
		return &Bookmark{
			Type:        BookmarkDiversityCollapse,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("Diversity %.3f fell below half the average (%.3f)", stats.Diversity, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkKillSpike(stats GenerationStats) *Bookmark {
	avg := stat.Mean(bd.rolling(func(s GenerationStats) float64 { return float64(s.Kills) }), nil)
	if avg == 0 {
		return nil
	}

	if float64(stats.Kills) > avg*2 && stats.Kills >= 5 {
		return &Bookmark{
			Type:        BookmarkKillSpike,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("%d kills is %.1fx average (%.1f)", stats.Kills, float64(stats.Kills)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPlateau(stats GenerationStats) *Bookmark {
	if !bd.historyFull {
		return nil
	}

	values := append(bd.rolling(func(s GenerationStats) float64 { return s.SurvivalPct }), stats.SurvivalPct)
	mean, std := stat.MeanStdDev(values, nil)
	if mean < 10 || std > 1 {
		bd.plateauMarked = false
		return nil
	}
	if bd.plateauMarked {
		return nil
	}
	bd.plateauMarked = true

	return &Bookmark{
		Type:        BookmarkPlateau,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("Survival steady at %.1f%% (±%.2f) over %d generations", mean, std, len(values)),
	}
}
