package provenance

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestLogAndRecent(t *testing.T) {
	db := setupDB(t)

	entries := []Entry{
		{EventType: EventIdeaCompiled, SubjectID: "idea-1", Reason: "compiled"},
		{EventType: EventDecisionLogged, SubjectID: "42", Fingerprint: "abcd1234", Decision: "approve"},
		{EventType: EventPlanActivated, SubjectID: "fallback_x"},
	}
	for _, e := range entries {
		if err := Log(db, e); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	got, err := Recent(db, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	// Newest first.
	if got[0].EventType != EventPlanActivated {
		t.Errorf("first entry = %s, want plan_activated", got[0].EventType)
	}
	if got[1].Decision != "approve" || got[1].Fingerprint != "abcd1234" {
		t.Errorf("decision entry wrong: %+v", got[1])
	}
}

func TestLogZeroCreatedAt(t *testing.T) {
	db := setupDB(t)

	before := time.Now().UTC()
	if err := Log(db, Entry{EventType: EventPrediction}); err != nil {
		t.Fatal(err)
	}

	got, err := Recent(db, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].CreatedAt.Before(before.Truncate(time.Second)) {
		t.Errorf("created_at not auto-filled: %v", got[0].CreatedAt)
	}
}

func TestRecentLimit(t *testing.T) {
	db := setupDB(t)

	for i := 0; i < 5; i++ {
		if err := Log(db, Entry{EventType: EventOutcomeLogged}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Recent(db, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("limit ignored: got %d entries", len(got))
	}
}
