package mastery

import (
	"context"
	"log"
	"sort"

	"github.com/google/uuid"

	"github.com/studyloop/backend/internal/metrics"
	"github.com/studyloop/backend/internal/models"
)

// Service is the composition root for the mastery core: it wires the result
// adapters, evaluator, tracker, and adaptive engine behind the operations
// the rest of the system calls.
type Service struct {
	store     SampleStore
	evaluator *Evaluator
	tracker   *ProgressTracker
	engine    *AdaptiveEngine
}

func NewService(store SampleStore, evaluator *Evaluator, tracker *ProgressTracker, engine *AdaptiveEngine) *Service {
	return &Service{
		store:     store,
		evaluator: evaluator,
		tracker:   tracker,
		engine:    engine,
	}
}

// RecordAttempt runs the full pipeline for one completed assessment:
// normalize the raw payloads, fuse them into a canonical sample, and append
// it to the store. A malformed quiz payload fails the whole attempt; a
// missing or unusable QA payload just means the attempt is scored on the
// quiz alone.
func (s *Service) RecordAttempt(ctx context.Context, rawQuiz, rawQA map[string]any) (models.MasterySample, error) {
	quiz, err := AdaptQuizResult(rawQuiz)
	if err != nil {
		metrics.AttemptsRejected.Inc()
		return models.MasterySample{}, err
	}
	qa := AdaptQAResult(rawQA)

	sample, err := s.evaluator.BuildMasterySample(quiz, qa)
	if err != nil {
		// Evaluator output violating the sample invariant is a bug, not bad
		// input; surface it instead of papering over.
		return models.MasterySample{}, err
	}
	sample.ID = uuid.NewString()

	if err := s.tracker.RecordMasterySample(ctx, sample); err != nil {
		return models.MasterySample{}, err
	}

	metrics.AttemptsRecorded.WithLabelValues(string(sample.Difficulty)).Inc()
	log.Printf("[mastery] recorded attempt user=%s topic=%s score=%.3f questions=%d",
		sample.UserID, sample.TopicID, sample.Score, sample.NumQuestions)
	return sample, nil
}

// TopicMastery returns the current smoothed estimate for one topic.
func (s *Service) TopicMastery(ctx context.Context, userID, topicID string) (float64, error) {
	return s.tracker.TopicMastery(ctx, userID, topicID)
}

// OverallMastery returns the mean mastery across the learner's topics.
func (s *Service) OverallMastery(ctx context.Context, userID string) (float64, error) {
	return s.tracker.OverallMastery(ctx, userID)
}

// MasteryOverview returns overall mastery plus the per-topic breakdown,
// topics in lexicographic order.
func (s *Service) MasteryOverview(ctx context.Context, userID string) (models.MasteryOverviewResponse, error) {
	topics, err := s.store.Topics(ctx, userID)
	if err != nil {
		return models.MasteryOverviewResponse{}, err
	}

	resp := models.MasteryOverviewResponse{Topics: []models.TopicMasteryResponse{}}
	sum := 0.0
	for _, topicID := range sortedCopy(topics) {
		m, err := s.tracker.TopicMastery(ctx, userID, topicID)
		if err != nil {
			return models.MasteryOverviewResponse{}, err
		}
		resp.Topics = append(resp.Topics, models.TopicMasteryResponse{TopicID: topicID, Mastery: m})
		sum += m
	}
	if len(resp.Topics) > 0 {
		resp.Overall = sum / float64(len(resp.Topics))
	}
	return resp, nil
}

// LearningCurve returns the full mastery trajectory for one topic.
func (s *Service) LearningCurve(ctx context.Context, userID, topicID string) ([]models.CurvePoint, error) {
	return s.tracker.LearningCurve(ctx, userID, topicID)
}

// Recommendation returns the adaptive engine's next-step proposal.
func (s *Service) Recommendation(ctx context.Context, userID string) (models.Recommendation, error) {
	rec, err := s.engine.SuggestNextStep(ctx, userID)
	if err != nil {
		return models.Recommendation{}, err
	}
	metrics.RecommendationsServed.WithLabelValues(string(rec.Action)).Inc()
	return rec, nil
}

func sortedCopy(topics []string) []string {
	out := make([]string, len(topics))
	copy(out, topics)
	sort.Strings(out)
	return out
}
