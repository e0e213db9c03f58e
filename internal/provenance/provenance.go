package provenance

import (
	"database/sql"
	"fmt"
	"time"
)

// #region schema

const provenanceSchema = `
CREATE TABLE IF NOT EXISTS engine_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    event_type  TEXT NOT NULL,
    subject_id  TEXT,
    fingerprint TEXT,
    decision    TEXT,
    reason      TEXT,
    detail_json TEXT,
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_engine_log_event_type
ON engine_log(event_type);
`

// Migrate creates the engine_log table if needed.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(provenanceSchema); err != nil {
		return fmt.Errorf("provenance schema: %w", err)
	}
	return nil
}

// #endregion schema

// #region entry

// EventType names what kind of engine event a log row records.
type EventType string

const (
	EventIdeaCompiled   EventType = "idea_compiled"
	EventDecisionLogged EventType = "decision_logged"
	EventOutcomeLogged  EventType = "outcome_logged"
	EventPlanActivated  EventType = "plan_activated"
	EventPlanArchived   EventType = "plan_archived"
	EventPrediction     EventType = "prediction"
)

// Entry is a single row in the engine_log table.
type Entry struct {
	ID          int64     `json:"id"`
	EventType   EventType `json:"event_type"`
	SubjectID   string    `json:"subject_id,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Decision    string    `json:"decision,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	DetailJSON  string    `json:"detail_json,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// #endregion entry

// #region log

// Log appends one provenance entry. The log is append-only; rows are
// never updated or deleted.
func Log(db *sql.DB, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO engine_log (event_type, subject_id, fingerprint, decision, reason, detail_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(entry.EventType),
		nullIfEmpty(entry.SubjectID),
		nullIfEmpty(entry.Fingerprint),
		nullIfEmpty(entry.Decision),
		nullIfEmpty(entry.Reason),
		nullIfEmpty(entry.DetailJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func Recent(db *sql.DB, limit int) ([]Entry, error) {
	rows, err := db.Query(
		`SELECT id, event_type, subject_id, fingerprint, decision, reason, detail_json, created_at
		 FROM engine_log
		 ORDER BY id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var eventType, createdAt string
		var subject, fingerprint, decision, reason, detail sql.NullString
		if err := rows.Scan(&e.ID, &eventType, &subject, &fingerprint,
			&decision, &reason, &detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.EventType = EventType(eventType)
		e.SubjectID = subject.String
		e.Fingerprint = fingerprint.String
		e.Decision = decision.String
		e.Reason = reason.String
		e.DetailJSON = detail.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan entries: %w", err)
	}
	return out, nil
}

// #endregion log

// #region helpers

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
