package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"ChartDesk/internal/model"
)

// MaxHistory caps the number of rows History returns.
const MaxHistory = 500

// SQLiteRecorder persists snapshots to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets history queries run while the watch job writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id             TEXT PRIMARY KEY,
			recorded_at    INTEGER NOT NULL,
			source         TEXT NOT NULL,
			ticker         TEXT NOT NULL,
			timeframe      TEXT NOT NULL,
			periods        INTEGER,
			as_of          INTEGER,
			latest_close   REAL,
			previous_close REAL,
			percent_change REAL,
			ma20           REAL,
			ma50           REAL,
			latest_volume  REAL,
			rsi14          REAL,
			period_high    REAL,
			period_low     REAL,
			trend          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ticker ON snapshots(ticker, id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullable(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func (r *SQLiteRecorder) RecordSnapshot(source string, snap *model.IndicatorSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	id, err := newID(now)
	if err != nil {
		return fmt.Errorf("new id: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO snapshots
		(id, recorded_at, source, ticker, timeframe, periods, as_of,
		 latest_close, previous_close, percent_change, ma20, ma50,
		 latest_volume, rsi14, period_high, period_low, trend)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, now.UnixMilli(), source, snap.Ticker, string(snap.Timeframe), snap.Periods, snap.AsOf.Unix(),
		snap.LatestClose, nullable(snap.PreviousClose), nullable(snap.PercentChange),
		nullable(snap.MA20), nullable(snap.MA50),
		snap.LatestVolume, nullable(snap.RSI14), snap.PeriodHigh, snap.PeriodLow, string(snap.Trend),
	)
	return err
}

func (r *SQLiteRecorder) History(ticker string, limit int) ([]SnapshotRecord, error) {
	if limit <= 0 || limit > MaxHistory {
		limit = MaxHistory
	}

	query := `SELECT id, recorded_at, source, ticker, timeframe, periods, as_of,
		latest_close, previous_close, percent_change, ma20, ma50,
		latest_volume, rsi14, period_high, period_low, trend
		FROM snapshots`
	args := []interface{}{}
	if t := strings.ToUpper(strings.TrimSpace(ticker)); t != "" {
		query += ` WHERE ticker = ?`
		args = append(args, t)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []SnapshotRecord
	for rows.Next() {
		var (
			rec                          SnapshotRecord
			recordedAt, asOf             int64
			timeframe, trend             string
			prev, change, ma20, ma50, rs sql.NullFloat64
		)
		snap := &rec.Snapshot
		if err := rows.Scan(&rec.ID, &recordedAt, &rec.Source, &snap.Ticker, &timeframe, &snap.Periods, &asOf,
			&snap.LatestClose, &prev, &change, &ma20, &ma50,
			&snap.LatestVolume, &rs, &snap.PeriodHigh, &snap.PeriodLow, &trend); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.RecordedAt = time.UnixMilli(recordedAt)
		snap.Timeframe = model.Timeframe(timeframe)
		snap.AsOf = time.Unix(asOf, 0).UTC()
		snap.PreviousClose = fromNullable(prev)
		snap.PercentChange = fromNullable(change)
		snap.MA20 = fromNullable(ma20)
		snap.MA50 = fromNullable(ma50)
		snap.RSI14 = fromNullable(rs)
		snap.Trend = model.Trend(trend)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
