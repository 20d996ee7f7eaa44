package models

type Action string

const (
	ActionReview              Action = "review"
	ActionReviewQuiz          Action = "review_quiz"
	ActionQuizWithExplanation Action = "quiz_with_explanation"
	ActionSummaryTest         Action = "summary_test"
)

// FirstTopicID marks a learner with no recorded history. The syllabus layer
// owns the mapping from this sentinel to a real first unit.
const FirstTopicID = "FIRST_TOPIC"

// Recommendation is the adaptive engine's next-step proposal. It says what
// to do next, never how to render it.
type Recommendation struct {
	NextTopicID string     `json:"next_topic_id"`
	Difficulty  Difficulty `json:"difficulty"`
	Action      Action     `json:"action_type"`
}

// ── API Request/Response Types ────────────────────────────

// RecordAttemptRequest carries the raw payloads from the assessment and
// grading collaborators. Neither schema is contractually fixed; both are
// defensively normalized by the result adapters.
type RecordAttemptRequest struct {
	Quiz map[string]any `json:"quiz"`
	QA   map[string]any `json:"qa,omitempty"`
}

type TopicMasteryResponse struct {
	TopicID string  `json:"topic_id"`
	Mastery float64 `json:"mastery"`
}

type MasteryOverviewResponse struct {
	Overall float64                `json:"overall"`
	Topics  []TopicMasteryResponse `json:"topics"`
}

type LearningCurveResponse struct {
	TopicID string       `json:"topic_id"`
	Curve   []CurvePoint `json:"curve"`
}
