package mastery

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/studyloop/backend/internal/models"
)

// Store is the Postgres-backed SampleStore. The mastery_samples table is
// append-only; row-level inserts give the per-bucket serialization the
// store contract asks for, and the CHECK constraint on score mirrors the
// model invariant.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, sample models.MasterySample) error {
	// A zero timestamp means "time unknown" and is stored as NULL.
	var recordedAt sql.NullTime
	if !sample.Timestamp.IsZero() {
		recordedAt = sql.NullTime{Time: sample.Timestamp, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mastery_samples (id, user_id, topic_id, recorded_at, score, num_questions, difficulty)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))`,
		sample.ID, sample.UserID, sample.TopicID, recordedAt,
		sample.Score, sample.NumQuestions, string(sample.Difficulty),
	)
	if err != nil {
		return fmt.Errorf("append mastery sample: %w", err)
	}
	return nil
}

func (s *Store) Samples(ctx context.Context, userID, topicID string) ([]models.MasterySample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, topic_id, recorded_at, score, num_questions, COALESCE(difficulty, '')
		 FROM mastery_samples
		 WHERE user_id = $1 AND topic_id = $2
		 ORDER BY inserted_at`,
		userID, topicID,
	)
	if err != nil {
		return nil, fmt.Errorf("get samples: %w", err)
	}
	defer rows.Close()

	var samples []models.MasterySample
	for rows.Next() {
		var sample models.MasterySample
		var recordedAt sql.NullTime
		var difficulty string
		if err := rows.Scan(&sample.ID, &sample.UserID, &sample.TopicID,
			&recordedAt, &sample.Score, &sample.NumQuestions, &difficulty); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		if recordedAt.Valid {
			sample.Timestamp = recordedAt.Time
		}
		sample.Difficulty = models.Difficulty(difficulty)
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return samples, nil
}

func (s *Store) Topics(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT topic_id FROM mastery_samples WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get topics: %w", err)
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var topicID string
		if err := rows.Scan(&topicID); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, topicID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}
	return topics, nil
}
