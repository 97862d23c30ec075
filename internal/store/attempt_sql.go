package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/signbridge/signbridge-lms/internal/attempt"
)

// AttemptSQL is the append-only sink for completed attempts. Nothing here
// updates a recorded attempt; retakes insert a new row with the next
// attempt number.
type AttemptSQL struct {
	db *sql.DB
}

func NewAttemptSQL(db *sql.DB) *AttemptSQL { return &AttemptSQL{db: db} }

func (s *AttemptSQL) CountAttempts(ctx context.Context, userID, quizID string) (int, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quiz_attempts WHERE user_id=$1 AND quiz_id=$2`,
		userID, quizID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *AttemptSQL) RecordAttempt(ctx context.Context, r attempt.Result) error {
	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return err
	}
	var timeSpent sql.NullInt64
	if r.TimeSpentMin != nil {
		timeSpent = sql.NullInt64{Int64: int64(*r.TimeSpentMin), Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quiz_attempts
		  (id, user_id, quiz_id, attempt_number, score, earned_points,
		   total_points, passed, answers_json, time_spent_min, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		r.ID, r.UserID, r.QuizID, r.AttemptNumber, r.Score, r.EarnedPoints,
		r.TotalPoints, r.Passed, string(answers), timeSpent, r.CompletedAt)
	return err
}

func (s *AttemptSQL) LatestAttempt(ctx context.Context, userID, quizID string) (*attempt.Result, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, quiz_id, attempt_number, score, earned_points,
		       total_points, passed, answers_json, time_spent_min, completed_at
		FROM quiz_attempts
		WHERE user_id=$1 AND quiz_id=$2
		ORDER BY attempt_number DESC LIMIT 1`, userID, quizID)

	var r attempt.Result
	var answersJSON string
	var timeSpent sql.NullInt64
	if err := row.Scan(&r.ID, &r.UserID, &r.QuizID, &r.AttemptNumber, &r.Score,
		&r.EarnedPoints, &r.TotalPoints, &r.Passed, &answersJSON, &timeSpent,
		&r.CompletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(answersJSON), &r.Answers); err != nil {
		r.Answers = map[string]interface{}{}
	}
	if timeSpent.Valid {
		v := int(timeSpent.Int64)
		r.TimeSpentMin = &v
	}
	return &r, nil
}
