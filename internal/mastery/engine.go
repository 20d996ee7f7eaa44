package mastery

import (
	"context"
	"sort"

	"github.com/studyloop/backend/internal/models"
)

// Default mastery thresholds separating weak, developing, and strong topics.
const (
	DefaultLowThreshold = 0.4
	DefaultMidThreshold = 0.7
)

// AdaptiveEngine converts current mastery state into the next learning
// action. The policy is greedy weakest-link: always remediate the single
// lowest-mastery topic. It never balances coverage or spaced repetition,
// which is fine for a small syllabus where mastery only moves after a
// completed assessment on that exact topic.
type AdaptiveEngine struct {
	store   SampleStore
	tracker *ProgressTracker
	low     float64
	mid     float64
}

func NewAdaptiveEngine(store SampleStore, tracker *ProgressTracker, low, mid float64) *AdaptiveEngine {
	return &AdaptiveEngine{store: store, tracker: tracker, low: low, mid: mid}
}

// SuggestNextStep proposes the next topic, difficulty, and activity type.
// A learner with no history gets the FIRST_TOPIC sentinel, which the
// syllabus layer resolves to a real unit. Ties on minimum mastery go to the
// lexicographically smallest topic id so the choice is deterministic.
func (e *AdaptiveEngine) SuggestNextStep(ctx context.Context, userID string) (models.Recommendation, error) {
	topics, err := e.store.Topics(ctx, userID)
	if err != nil {
		return models.Recommendation{}, err
	}

	if len(topics) == 0 {
		return models.Recommendation{
			NextTopicID: models.FirstTopicID,
			Difficulty:  models.DifficultyEasy,
			Action:      models.ActionReview,
		}, nil
	}

	sort.Strings(topics)

	nextTopicID := ""
	lowest := 0.0
	for _, topicID := range topics {
		m, err := e.tracker.TopicMastery(ctx, userID, topicID)
		if err != nil {
			return models.Recommendation{}, err
		}
		if nextTopicID == "" || m < lowest {
			nextTopicID = topicID
			lowest = m
		}
	}

	rec := models.Recommendation{NextTopicID: nextTopicID}
	switch {
	case lowest < e.low:
		rec.Difficulty = models.DifficultyEasy
		rec.Action = models.ActionReviewQuiz
	case lowest < e.mid:
		rec.Difficulty = models.DifficultyMedium
		rec.Action = models.ActionQuizWithExplanation
	default:
		rec.Difficulty = models.DifficultyHard
		rec.Action = models.ActionSummaryTest
	}
	return rec, nil
}
