// Package eventlog appends one row per recorded attempt to the append-only
// event_log table. Leaderboards and analytics rollups tail it downstream;
// the attempt engine only ever writes.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/signbridge/signbridge-lms/internal/attempt"
)

const TypeAttemptRecorded = "AttemptRecorded"

type Log struct {
	db     *sql.DB
	siteID string
	log    *zap.Logger
	now    func() time.Time
}

// New builds the sink. now is injectable for tests; nil means wall clock.
func New(db *sql.DB, siteID string, log *zap.Logger, now func() time.Time) *Log {
	if siteID == "" {
		siteID = "local"
	}
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Log{db: db, siteID: siteID, log: log, now: now}
}

// AttemptRecorded appends the recorded attempt. Best effort: the attempt
// row is already the authoritative record, so a log failure is reported
// but never bubbles back into the submit path.
func (l *Log) AttemptRecorded(ctx context.Context, r attempt.Result) {
	data, err := json.Marshal(r)
	if err != nil {
		l.log.Warn("event payload marshal failed", zap.Error(err))
		return
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		l.siteID, TypeAttemptRecorded, r.ID, string(data), l.now().Unix())
	if err != nil {
		l.log.Warn("event append failed", zap.String("attempt", r.ID), zap.Error(err))
	}
}
