package memory

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// #region schema

const decisionSchema = `
CREATE TABLE IF NOT EXISTS decision_patterns (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    task_type           TEXT NOT NULL,
    context_fingerprint TEXT NOT NULL,
    decision            TEXT NOT NULL,
    confidence          REAL NOT NULL,
    timestamp           TEXT NOT NULL,
    modification_notes  TEXT,
    execution_success   INTEGER,
    raw_context         TEXT
);

CREATE TABLE IF NOT EXISTS owner_preferences (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    preference_key   TEXT UNIQUE NOT NULL,
    preference_value TEXT NOT NULL,
    learned_from     INTEGER NOT NULL,
    confidence       REAL NOT NULL,
    last_updated     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_task_type
ON decision_patterns(task_type);

CREATE INDEX IF NOT EXISTS idx_decisions_fingerprint
ON decision_patterns(context_fingerprint);
`

// #endregion schema

// #region store

// Store is the durable repository for decision history and preferences.
type Store struct {
	db *sql.DB
}

// NewStore runs migrations and returns a Store over the given database.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(decisionSchema); err != nil {
		return nil, fmt.Errorf("decision schema: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion store

// #region insert-decision

// InsertDecision appends one decision row and returns its id.
func (s *Store) InsertDecision(p DecisionPattern) (int64, error) {
	rawJSON, err := json.Marshal(p.RawContext)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidContext, err)
	}

	res, err := s.db.Exec(`
		INSERT INTO decision_patterns
		(task_type, context_fingerprint, decision, confidence, timestamp,
		 modification_notes, raw_context)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.TaskType,
		p.Fingerprint,
		string(p.Decision),
		p.Confidence,
		p.Timestamp.UTC().Format(time.RFC3339Nano),
		nullIfEmpty(p.ModificationNotes),
		string(rawJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("insert decision: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert decision id: %w", err)
	}
	return id, nil
}

// #endregion insert-decision

// #region set-outcome

// SetOutcome records the real-world result of an approved action. The
// unset→set transition is enforced in SQL so concurrent callers cannot
// overwrite each other.
func (s *Store) SetOutcome(decisionID int64, success bool) error {
	val := 0
	if success {
		val = 1
	}
	res, err := s.db.Exec(`
		UPDATE decision_patterns
		SET execution_success = ?
		WHERE id = ? AND execution_success IS NULL`,
		val, decisionID,
	)
	if err != nil {
		return fmt.Errorf("set outcome: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set outcome rows: %w", err)
	}
	if affected == 1 {
		return nil
	}

	var exists int
	err = s.db.QueryRow(`SELECT COUNT(*) FROM decision_patterns WHERE id = ?`, decisionID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("set outcome lookup: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("decision %d: %w", decisionID, ErrUnknownDecision)
	}
	return fmt.Errorf("decision %d: %w", decisionID, ErrOutcomeAlreadySet)
}

// #endregion set-outcome

// #region recent-by-task

// RecentByTaskType returns the newest decisions for a task type, most
// recent first, capped at limit.
func (s *Store) RecentByTaskType(taskType string, limit int) ([]DecisionPattern, error) {
	rows, err := s.db.Query(`
		SELECT id, task_type, context_fingerprint, decision, confidence,
		       timestamp, modification_notes, execution_success, raw_context
		FROM decision_patterns
		WHERE task_type = ?
		ORDER BY id DESC
		LIMIT ?`,
		taskType, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent decisions: %w", err)
	}
	defer rows.Close()
	return scanDecisions(rows)
}

func scanDecisions(rows *sql.Rows) ([]DecisionPattern, error) {
	var out []DecisionPattern
	for rows.Next() {
		var p DecisionPattern
		var decision, ts string
		var notes sql.NullString
		var success sql.NullInt64
		var rawJSON sql.NullString
		if err := rows.Scan(&p.ID, &p.TaskType, &p.Fingerprint, &decision,
			&p.Confidence, &ts, &notes, &success, &rawJSON); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		p.Decision = Decision(decision)
		p.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		if notes.Valid {
			p.ModificationNotes = notes.String
		}
		if success.Valid {
			v := success.Int64 == 1
			p.ExecutionSuccess = &v
		}
		if rawJSON.Valid && rawJSON.String != "" {
			var ctx map[string]any
			if err := json.Unmarshal([]byte(rawJSON.String), &ctx); err == nil {
				p.RawContext = ctx
			}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan decisions: %w", err)
	}
	return out, nil
}

// #endregion recent-by-task

// #region preferences

// UpsertPreference inserts or refreshes a preference row by key.
func (s *Store) UpsertPreference(p Preference) error {
	_, err := s.db.Exec(`
		INSERT INTO owner_preferences
		(preference_key, preference_value, learned_from, confidence, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(preference_key) DO UPDATE SET
			preference_value = excluded.preference_value,
			learned_from = excluded.learned_from,
			confidence = excluded.confidence,
			last_updated = excluded.last_updated`,
		p.Key, p.Value, p.LearnedFrom, p.Confidence,
		p.LastUpdated.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

// Preferences returns preferences above the confidence floor, strongest
// first.
func (s *Store) Preferences(minConfidence float64) ([]Preference, error) {
	rows, err := s.db.Query(`
		SELECT preference_key, preference_value, learned_from, confidence, last_updated
		FROM owner_preferences
		WHERE confidence > ?
		ORDER BY confidence DESC, preference_key`,
		minConfidence,
	)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	var out []Preference
	for rows.Next() {
		var p Preference
		var ts string
		if err := rows.Scan(&p.Key, &p.Value, &p.LearnedFrom, &p.Confidence, &ts); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		p.LastUpdated, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan preferences: %w", err)
	}
	return out, nil
}

// #endregion preferences

// #region stats

// AggregateStats computes the learning summary straight from SQL.
func (s *Store) AggregateStats() (Stats, error) {
	stats := Stats{DecisionBreakdown: make(map[Decision]int)}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM decision_patterns`).
		Scan(&stats.TotalDecisions); err != nil {
		return stats, fmt.Errorf("stats total: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT decision, COUNT(*) FROM decision_patterns GROUP BY decision`)
	if err != nil {
		return stats, fmt.Errorf("stats breakdown: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d string
		var n int
		if err := rows.Scan(&d, &n); err != nil {
			return stats, fmt.Errorf("stats breakdown scan: %w", err)
		}
		stats.DecisionBreakdown[Decision(d)] = n
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("stats breakdown rows: %w", err)
	}

	var avg sql.NullFloat64
	if err := s.db.QueryRow(`
		SELECT AVG(confidence) FROM decision_patterns WHERE decision = 'approve'`).
		Scan(&avg); err != nil {
		return stats, fmt.Errorf("stats avg confidence: %w", err)
	}
	if avg.Valid {
		stats.AvgApprovalConfidence = avg.Float64
	}

	var succeeded, resolved int
	if err := s.db.QueryRow(`
		SELECT COUNT(*) FROM decision_patterns WHERE execution_success = 1`).
		Scan(&succeeded); err != nil {
		return stats, fmt.Errorf("stats successes: %w", err)
	}
	if err := s.db.QueryRow(`
		SELECT COUNT(*) FROM decision_patterns WHERE execution_success IS NOT NULL`).
		Scan(&resolved); err != nil {
		return stats, fmt.Errorf("stats resolved: %w", err)
	}
	if resolved > 0 {
		stats.ExecutionSuccessRate = float64(succeeded) / float64(resolved)
	}

	prefs, err := s.Preferences(0.5)
	if err != nil {
		return stats, err
	}
	stats.LearnedPreferences = len(prefs)

	return stats, nil
}

// #endregion stats

// #region helpers

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
