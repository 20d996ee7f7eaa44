package models

import "time"

// QuizResult is the normalized view of one raw quiz attempt. It is an
// intermediate shape between whatever the assessment generator produced and
// the evaluator; it is never persisted. Schema drift in the raw payload is
// absorbed entirely by the adapter that builds this.
type QuizResult struct {
	UserID     string
	TopicID    string
	Timestamp  time.Time
	Difficulty Difficulty
	// Questions holds the raw per-question records as-is. Each element is
	// expected, but not required, to carry an "is_correct" bool; the
	// evaluator counts anything else as incorrect.
	Questions []map[string]any
}

// QAResult is the normalized view of a graded open-response interaction.
// Score is already clamped to [0,1] by the adapter. A nil *QAResult means
// there is no usable QA signal for the attempt, which is legal everywhere.
type QAResult struct {
	UserID    string
	TopicID   string
	Timestamp time.Time
	Score     float64
}
