package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the end state of one generation for offline inspection.
type Snapshot struct {
	Version int    `json:"version"`
	RNGSeed int64  `json:"rng_seed"`
	RunID   string `json:"run_id,omitempty"`

	WorldWidth  int    `json:"world_width"`
	WorldHeight int    `json:"world_height"`
	Mode        string `json:"mode"`

	Generation int             `json:"generation"`
	Stats      GenerationStats `json:"stats"`

	Agents []AgentState `json:"agents"`
}

// AgentState holds one agent's end-of-generation state.
type AgentState struct {
	ID       int      `json:"id"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Heading  uint8    `json:"heading"`
	Alive    bool     `json:"alive"`
	Placed   bool     `json:"placed"`
	Survived bool     `json:"survived"`
	Dose     float64  `json:"dose,omitempty"`
	Genome   []uint32 `json:"genome"`
}

// SaveSnapshot writes a snapshot to dir.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_gen%05d.json", snapshot.Generation)
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
