package recorder

import (
	"time"

	"ChartDesk/internal/model"
)

// Sources of recorded snapshots.
const (
	SourceAPI   = "api"
	SourceWatch = "watch"
	SourceCLI   = "cli"
)

// SnapshotRecord is one journaled snapshot.
type SnapshotRecord struct {
	ID         string                  `json:"id"`
	RecordedAt time.Time               `json:"recorded_at"`
	Source     string                  `json:"source"`
	Snapshot   model.IndicatorSnapshot `json:"snapshot"`
}

// Recorder keeps an append-only journal of served snapshots.
// Nothing reads it back to answer a snapshot request.
type Recorder interface {
	RecordSnapshot(source string, snap *model.IndicatorSnapshot) error
	// History returns the newest records first. An empty ticker matches all tickers.
	History(ticker string, limit int) ([]SnapshotRecord, error)
	Close() error
}
