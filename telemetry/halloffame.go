package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// HallEntry records a notable genome from a completed generation.
type HallEntry struct {
	Generation  int      `json:"generation"`
	Fitness     float64  `json:"fitness"`     // Survival percentage of its generation
	Connections int      `json:"connections"` // Active brain connections after pruning
	Genome      []uint32 `json:"genome"`
	Wiring      []string `json:"wiring,omitempty"` // Decoded connection labels
}

// HallOfFame keeps the best genomes of a run, ranked by fitness.
// Ties are broken by connection count, then by earlier generation.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall holding at most maxSize entries.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider offers an entry to the hall.
// Returns true if the entry was added.
func (hof *HallOfFame) Consider(entry HallEntry) bool {
	idx := hof.rank(entry)

	// If hall is full and entry would be last (lowest), skip it
	if len(hof.entries) >= hof.maxSize && idx >= hof.maxSize {
		return false
	}

	// Insert at position
	hof.entries = append(hof.entries, HallEntry{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = entry

	// Trim if over capacity
	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}

	return true
}

// rank returns the insertion point of entry (sorted best first).
func (hof *HallOfFame) rank(entry HallEntry) int {
	return sort.Search(len(hof.entries), func(i int) bool {
		return ranksBelow(hof.entries[i], entry)
	})
}

// ranksBelow reports whether a ranks strictly below b.
func ranksBelow(a, b HallEntry) bool {
	if a.Fitness != b.Fitness {
		return a.Fitness < b.Fitness
	}
	if a.Connections != b.Connections {
		return a.Connections < b.Connections
	}
	return a.Generation > b.Generation
}

// Entries returns the hall, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	return hof.entries
}

// Len returns the number of entries.
func (hof *HallOfFame) Len() int {
	return len(hof.entries)
}

// Best returns the top entry. ok is false if the hall is empty.
func (hof *HallOfFame) Best() (HallEntry, bool) {
	if len(hof.entries) == 0 {
		return HallEntry{}, false
	}
	return hof.entries[0], true
}

// MarshalJSON serializes the hall of fame to JSON.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}

// LoadHallOfFameFromFile reads a hall written by MarshalJSON.
func LoadHallOfFameFromFile(path string) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var entries []HallEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	hof := NewHallOfFame(len(entries))
	for _, e := range entries {
		hof.Consider(e)
	}
	return hof, nil
}
