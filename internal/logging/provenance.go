package logging

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS provenance_log (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	turn_id          TEXT NOT NULL,
	input_hash       TEXT,
	trigger_type     TEXT NOT NULL,
	decision         TEXT NOT NULL,
	reason           TEXT,
	diagnostics_json TEXT,
	created_at       TEXT NOT NULL
);
`

// EnsureSchema creates the provenance_log table if needed.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate provenance: %w", err)
	}
	return nil
}

// #endregion schema

// #region log-decision
// LogDecision writes a provenance entry to the provenance_log table.
func LogDecision(db *sql.DB, entry ProvenanceEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO provenance_log (turn_id, input_hash, trigger_type, decision, reason, diagnostics_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.TurnID,
		nullIfEmpty(entry.InputHash),
		string(entry.Trigger),
		string(entry.Decision),
		nullIfEmpty(entry.Reason),
		nullIfEmpty(entry.DiagnosticsJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// #endregion log-decision

// #region list-recent
// ListRecent returns up to limit entries, newest first.
func ListRecent(db *sql.DB, limit int) ([]ProvenanceEntry, error) {
	rows, err := db.Query(
		`SELECT turn_id, COALESCE(input_hash, ''), trigger_type, decision, COALESCE(reason, ''),
		        COALESCE(diagnostics_json, ''), created_at
		 FROM provenance_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list provenance: %w", err)
	}
	defer rows.Close()

	var out []ProvenanceEntry
	for rows.Next() {
		var (
			e                 ProvenanceEntry
			trigger, decision string
			created           string
		)
		if err := rows.Scan(&e.TurnID, &e.InputHash, &trigger, &decision, &e.Reason, &e.DiagnosticsJSON, &created); err != nil {
			return nil, fmt.Errorf("scan provenance: %w", err)
		}
		e.Trigger = Trigger(trigger)
		e.Decision = Decision(decision)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion list-recent

// #region helpers
// HashInput returns the hex SHA-256 of the raw input text.
func HashInput(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers

// #region ledger
// Ledger writes provenance rows to one database.
type Ledger struct {
	db *sql.DB
}

// NewLedger ensures the schema on db and returns a ledger bound to it.
func NewLedger(db *sql.DB) (*Ledger, error) {
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	return &Ledger{db: db}, nil
}

// LogDecision writes entry.
func (l *Ledger) LogDecision(entry ProvenanceEntry) error {
	return LogDecision(l.db, entry)
}

// Recent returns up to limit entries, newest first.
func (l *Ledger) Recent(limit int) ([]ProvenanceEntry, error) {
	return ListRecent(l.db, limit)
}

// #endregion ledger
