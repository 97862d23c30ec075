// Package store holds the SQL-backed Content Store and Attempt Store.
// Both speak the same dual-driver SQL (sqlite offline, postgres online).
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/signbridge/signbridge-lms/internal/attempt"
	"github.com/signbridge/signbridge-lms/internal/quiz"
)

// ContentSQL reads quiz, question and lesson-video definitions.
type ContentSQL struct {
	db *sql.DB
}

func NewContentSQL(db *sql.DB) *ContentSQL { return &ContentSQL{db: db} }

func (s *ContentSQL) FetchQuiz(ctx context.Context, quizID string) (quiz.Quiz, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, instructions, time_limit_min, passing_score,
		       max_attempts, randomize_questions, show_answers, lesson_id,
		       video_url, video_enabled, created_at
		FROM quizzes WHERE id=$1`, quizID)

	var q quiz.Quiz
	var timeLimit, maxAttempts sql.NullInt64
	var lessonID, videoURL sql.NullString
	if err := row.Scan(&q.ID, &q.Title, &q.Description, &q.Instructions, &timeLimit,
		&q.PassingScore, &maxAttempts, &q.RandomizeQuestions, &q.ShowAnswers,
		&lessonID, &videoURL, &q.VideoEnabled, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Quiz{}, attempt.ErrQuizNotFound
		}
		return quiz.Quiz{}, err
	}
	if timeLimit.Valid {
		v := int(timeLimit.Int64)
		q.TimeLimitMin = &v
	}
	if maxAttempts.Valid {
		v := int(maxAttempts.Int64)
		q.MaxAttempts = &v
	}
	if lessonID.Valid {
		q.LessonID = &lessonID.String
	}
	if videoURL.Valid && videoURL.String != "" {
		q.VideoURL = &videoURL.String
	}
	return q, nil
}

func (s *ContentSQL) FetchQuestions(ctx context.Context, quizID string) ([]quiz.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, quiz_id, prompt, qtype, options_json, correct_json,
		       explanation, points, position, video_url
		FROM questions WHERE quiz_id=$1 ORDER BY position ASC`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []quiz.Question
	for rows.Next() {
		var q quiz.Question
		var optionsJSON, correctJSON string
		var videoURL sql.NullString
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Prompt, &q.Type, &optionsJSON,
			&correctJSON, &q.Explanation, &q.Points, &q.Position, &videoURL); err != nil {
			return nil, err
		}
		if optionsJSON != "" {
			q.Options = json.RawMessage(optionsJSON)
		}
		if correctJSON != "" {
			if err := json.Unmarshal([]byte(correctJSON), &q.CorrectAnswer); err != nil {
				return nil, fmt.Errorf("question %s: bad correct answer: %w", q.ID, err)
			}
		}
		if videoURL.Valid && videoURL.String != "" {
			q.VideoURL = &videoURL.String
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *ContentSQL) FetchLessonVideo(ctx context.Context, lessonID string) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT video_url FROM lessons WHERE id=$1`, lessonID)
	var url sql.NullString
	if err := row.Scan(&url); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	if !url.Valid {
		return "", nil
	}
	return url.String, nil
}
