// Package snapshots stores analysis report history in SQLite so portfolio
// priority can be tracked across days.
package snapshots

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aristath/optionsentry/internal/modules/recommendations"
	"github.com/aristath/optionsentry/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Meta is the indexed part of a stored snapshot, without the report payload.
type Meta struct {
	UUID             string    `json:"uuid"`
	CreatedAt        time.Time `json:"created_at"`
	SourceDate       string    `json:"source_date"`
	OptionCount      int       `json:"option_count"`
	StockCount       int       `json:"stock_count"`
	TotalValue       float64   `json:"total_value"`
	MaxPriorityScore float64   `json:"max_priority_score"`
}

// Snapshot is a stored report with its metadata.
type Snapshot struct {
	Meta
	Report *recommendations.Report `json:"report"`
}

// Repository handles snapshot persistence. Report payloads are stored as
// msgpack blobs; the queryable fields are broken out into columns.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new snapshot repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "snapshots").Logger(),
	}
}

// InitSchema creates the snapshots table if it does not exist.
func (r *Repository) InitSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			uuid TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			source_date TEXT NOT NULL,
			option_count INTEGER NOT NULL,
			stock_count INTEGER NOT NULL,
			total_value REAL NOT NULL,
			max_priority_score REAL NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create snapshots schema: %w", err)
	}
	return nil
}

// Save stores a report and returns the new snapshot's UUID.
func (r *Repository) Save(report *recommendations.Report, createdAt time.Time) (string, error) {
	payload, err := msgpack.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	newUUID := uuid.New().String()
	_, err = r.db.Exec(`
		INSERT INTO snapshots
		(uuid, created_at, source_date, option_count, stock_count, total_value, max_priority_score, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		newUUID,
		createdAt.Unix(),
		report.SourceDate.Format("2006-01-02"),
		report.OptionCount,
		len(report.StockHoldings),
		report.Totals.TotalValue,
		report.Totals.MaxPriorityScore,
		payload,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert snapshot: %w", err)
	}

	r.log.Info().Str("uuid", newUUID).Int("options", report.OptionCount).Msg("Snapshot saved")
	return newUUID, nil
}

// List returns snapshot metadata, newest first.
func (r *Repository) List(limit int) ([]Meta, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT uuid, created_at, source_date, option_count, stock_count, total_value, max_priority_score
		FROM snapshots
		ORDER BY created_at DESC, uuid
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	metas := []Meta{}
	for rows.Next() {
		var m Meta
		var createdAt int64
		if err := rows.Scan(&m.UUID, &createdAt, &m.SourceDate, &m.OptionCount, &m.StockCount, &m.TotalValue, &m.MaxPriorityScore); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		m.CreatedAt = time.Unix(createdAt, 0).UTC()
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// Get loads one snapshot with its full report payload.
// Returns nil when no snapshot has that UUID.
func (r *Repository) Get(id string) (*Snapshot, error) {
	row := r.db.QueryRow(`
		SELECT uuid, created_at, source_date, option_count, stock_count, total_value, max_priority_score, payload
		FROM snapshots
		WHERE uuid = ?
	`, id)

	var s Snapshot
	var createdAt int64
	var payload []byte
	err := row.Scan(&s.UUID, &createdAt, &s.SourceDate, &s.OptionCount, &s.StockCount, &s.TotalValue, &s.MaxPriorityScore, &payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", id, err)
	}

	var report recommendations.Report
	if err := msgpack.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}

	s.CreatedAt = time.Unix(createdAt, 0).UTC()
	s.Report = &report
	return &s, nil
}

// Prune deletes all but the newest keep snapshots.
func (r *Repository) Prune(keep int) (int64, error) {
	if keep <= 0 {
		return 0, fmt.Errorf("keep must be positive")
	}

	measure := utils.MeasureDBQuery("prune_snapshots", r.log)
	result, err := r.db.Exec(`
		DELETE FROM snapshots
		WHERE uuid NOT IN (
			SELECT uuid FROM snapshots ORDER BY created_at DESC, uuid LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}

	deleted, _ := result.RowsAffected()
	measure(deleted)
	if deleted > 0 {
		r.log.Info().Int64("deleted", deleted).Int("keep", keep).Msg("Pruned old snapshots")
	}
	return deleted, nil
}
