package mastery

import (
	"errors"
	"fmt"
	"time"

	"github.com/studyloop/backend/internal/models"
)

// Adapter errors for payloads missing required identity fields. There is no
// safe default identity, so these propagate to the caller.
var (
	ErrMissingUserID  = errors.New("missing user_id")
	ErrMissingTopicID = errors.New("missing topic_id")
)

// AdaptQuizResult normalizes a raw quiz payload into a QuizResult.
//
// This is the only place that knows the raw quiz schema. Upstream formats
// are loose, so extraction is defensive: user_id is taken from a direct
// field first, then from a nested user.id; difficulty falls back to medium;
// a missing or unparseable timestamp becomes the zero time, which downstream
// treats as "time unknown".
func AdaptQuizResult(raw map[string]any) (models.QuizResult, error) {
	userID := stringField(raw, "user_id")
	if userID == "" {
		if user, ok := raw["user"].(map[string]any); ok {
			userID = stringField(user, "id")
		}
	}
	if userID == "" {
		return models.QuizResult{}, fmt.Errorf("adapt quiz result: %w", ErrMissingUserID)
	}

	topicID := stringField(raw, "topic_id")
	if topicID == "" {
		return models.QuizResult{}, fmt.Errorf("adapt quiz result: %w", ErrMissingTopicID)
	}

	difficulty := models.Difficulty(stringField(raw, "difficulty"))
	if !models.ValidDifficulties[difficulty] {
		difficulty = models.DifficultyMedium
	}

	return models.QuizResult{
		UserID:     userID,
		TopicID:    topicID,
		Timestamp:  timeField(raw, "timestamp"),
		Difficulty: difficulty,
		Questions:  questionList(raw["questions"]),
	}, nil
}

// AdaptQAResult normalizes a raw open-response grading payload. If the
// payload is nil or lacks user_id, topic_id, or a numeric llm_score, there
// is no usable QA signal and the result is nil; the evaluator then scores
// the attempt on the quiz alone. Out-of-range scores are clamped rather
// than rejected, since upstream confidence values occasionally drift past
// the bounds.
func AdaptQAResult(raw map[string]any) *models.QAResult {
	if raw == nil {
		return nil
	}

	userID := stringField(raw, "user_id")
	topicID := stringField(raw, "topic_id")
	score, ok := numberField(raw, "llm_score")
	if userID == "" || topicID == "" || !ok {
		return nil
	}

	return &models.QAResult{
		UserID:    userID,
		TopicID:   topicID,
		Timestamp: timeField(raw, "timestamp"),
		Score:     clamp(score),
	}
}

// ── Field extraction helpers ────────────────────────────

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

func numberField(raw map[string]any, key string) (float64, bool) {
	switch v := raw[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// timeField accepts a time.Time or an RFC3339 / bare ISO-8601 string.
// Anything else yields the zero time.
func timeField(raw map[string]any, key string) time.Time {
	switch v := raw[key].(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// questionList copies the raw question records without interpreting them.
// JSON decoding hands us []any; non-map elements degrade to empty records,
// which the evaluator counts as incorrect.
func questionList(v any) []map[string]any {
	switch qs := v.(type) {
	case []map[string]any:
		out := make([]map[string]any, len(qs))
		copy(out, qs)
		return out
	case []any:
		out := make([]map[string]any, 0, len(qs))
		for _, q := range qs {
			if m, ok := q.(map[string]any); ok {
				out = append(out, m)
			} else {
				out = append(out, map[string]any{})
			}
		}
		return out
	default:
		return nil
	}
}

func clamp(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
