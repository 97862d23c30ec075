package eventlog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/signbridge/signbridge-lms/internal/attempt"
	"github.com/signbridge/signbridge-lms/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := db.EnsureSchema(context.Background(), d, db.DriverSQLite); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return d
}

func TestAttemptRecorded_AppendsRow(t *testing.T) {
	d := openTestDB(t)
	fixed := time.Unix(1700000500, 0)
	l := New(d, "site-a", nil, func() time.Time { return fixed })

	l.AttemptRecorded(context.Background(), attempt.Result{
		ID: "a1", UserID: "u1", QuizID: "quiz-1", AttemptNumber: 1, Score: 83,
	})

	var siteID, typ, key string
	var createdAt int64
	row := d.QueryRow(`SELECT site_id, typ, key, created_at FROM event_log WHERE key='a1'`)
	if err := row.Scan(&siteID, &typ, &key, &createdAt); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if siteID != "site-a" || typ != TypeAttemptRecorded || key != "a1" {
		t.Fatalf("unexpected row: %s %s %s", siteID, typ, key)
	}
	if createdAt != fixed.Unix() {
		t.Fatalf("row must carry the injected clock, got %d want %d", createdAt, fixed.Unix())
	}
}

func TestAttemptRecorded_FailureIsSwallowed(t *testing.T) {
	d := openTestDB(t)
	if _, err := d.Exec(`DROP TABLE event_log`); err != nil {
		t.Fatalf("drop: %v", err)
	}
	l := New(d, "", nil, nil)
	// must log and return, never panic or surface into the submit path
	l.AttemptRecorded(context.Background(), attempt.Result{ID: "a1"})
}
