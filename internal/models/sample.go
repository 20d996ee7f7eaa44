package models

import (
	"fmt"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// MasterySample is a single observation of a learner's mastery on a topic.
// It is the canonical record produced by the evaluator and persisted by the
// sample store; everything upstream (raw quiz results, QA grading) is
// normalized into this shape before it reaches the tracker.
//
// A zero Timestamp means the observation time is unknown. Samples are
// immutable once constructed; the store only ever hands out copies.
type MasterySample struct {
	ID           string     `json:"id,omitempty"`
	UserID       string     `json:"user_id"`
	TopicID      string     `json:"topic_id"`
	Timestamp    time.Time  `json:"timestamp"`
	Score        float64    `json:"score"`
	NumQuestions int        `json:"num_questions,omitempty"`
	Difficulty   Difficulty `json:"difficulty,omitempty"`
}

// NewMasterySample validates and constructs a MasterySample.
// A score outside [0,1] or an unrecognized difficulty indicates a bug in the
// calling evaluator, so construction fails rather than clamping.
func NewMasterySample(userID, topicID string, ts time.Time, score float64, numQuestions int, difficulty Difficulty) (MasterySample, error) {
	if userID == "" {
		return MasterySample{}, fmt.Errorf("mastery sample: user_id is empty")
	}
	if topicID == "" {
		return MasterySample{}, fmt.Errorf("mastery sample: topic_id is empty")
	}
	if score < 0.0 || score > 1.0 {
		return MasterySample{}, fmt.Errorf("mastery sample: score %v outside [0,1]", score)
	}
	if difficulty != "" && !ValidDifficulties[difficulty] {
		return MasterySample{}, fmt.Errorf("mastery sample: unrecognized difficulty %q", difficulty)
	}
	return MasterySample{
		UserID:       userID,
		TopicID:      topicID,
		Timestamp:    ts,
		Score:        score,
		NumQuestions: numQuestions,
		Difficulty:   difficulty,
	}, nil
}

// CurvePoint is one step of a learner's smoothed mastery trajectory.
type CurvePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Mastery   float64   `json:"mastery"`
}
