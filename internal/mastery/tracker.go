package mastery

import (
	"context"
	"log"
	"sort"

	"github.com/studyloop/backend/internal/models"
)

// DefaultAlpha weights the newest observation at 60% of the updated
// estimate, so recent evidence dominates the smoothed signal.
const DefaultAlpha = 0.6

// MasteryCache is an optional read-through cache of the latest smoothed
// estimate per (user, topic). Entries are invalidated on every append for
// the pair, so a hit is never stale. Cache failures are not errors: the
// tracker falls back to recomputing from the store.
type MasteryCache interface {
	TopicMastery(ctx context.Context, userID, topicID string) (float64, bool, error)
	SetTopicMastery(ctx context.Context, userID, topicID string, mastery float64) error
	Invalidate(ctx context.Context, userID, topicID string) error
}

// ProgressTracker maintains the smoothed, time-ordered competence signal
// per learner and topic. It owns no state beyond the injected store, the
// smoothing coefficient, and an optional cache; every value it reports is
// deterministically replayable from the persisted sample sequence.
type ProgressTracker struct {
	store SampleStore
	alpha float64
	cache MasteryCache
}

func NewProgressTracker(store SampleStore, alpha float64) *ProgressTracker {
	return &ProgressTracker{store: store, alpha: alpha}
}

// SetCache enables the read-through mastery cache. Passing nil disables it.
func (t *ProgressTracker) SetCache(cache MasteryCache) {
	t.cache = cache
}

// RecordMasterySample appends one observation to the store. The cached
// estimate for the pair is dropped first so no reader can observe a value
// that predates the append.
func (t *ProgressTracker) RecordMasterySample(ctx context.Context, sample models.MasterySample) error {
	if t.cache != nil {
		if err := t.cache.Invalidate(ctx, sample.UserID, sample.TopicID); err != nil {
			log.Printf("[tracker] cache invalidate for %s/%s: %v", sample.UserID, sample.TopicID, err)
		}
	}
	return t.store.Append(ctx, sample)
}

// TopicMastery computes the current mastery estimate for one topic: an
// exponential moving average over the topic's samples in chronological
// order. A learner with zero history has zero demonstrated mastery.
func (t *ProgressTracker) TopicMastery(ctx context.Context, userID, topicID string) (float64, error) {
	if t.cache != nil {
		if m, ok, err := t.cache.TopicMastery(ctx, userID, topicID); err != nil {
			log.Printf("[tracker] cache read for %s/%s: %v", userID, topicID, err)
		} else if ok {
			return m, nil
		}
	}

	samples, err := t.store.Samples(ctx, userID, topicID)
	if err != nil {
		return 0, err
	}
	if len(samples) == 0 {
		return 0.0, nil
	}

	sortByTimestamp(samples)

	m := samples[0].Score
	for _, s := range samples[1:] {
		m = t.alpha*s.Score + (1.0-t.alpha)*m
	}

	if t.cache != nil {
		if err := t.cache.SetTopicMastery(ctx, userID, topicID, m); err != nil {
			log.Printf("[tracker] cache write for %s/%s: %v", userID, topicID, err)
		}
	}
	return m, nil
}

// OverallMastery is the arithmetic mean of topic mastery across every topic
// the learner has history for; 0.0 when there are none.
func (t *ProgressTracker) OverallMastery(ctx context.Context, userID string) (float64, error) {
	topics, err := t.store.Topics(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(topics) == 0 {
		return 0.0, nil
	}

	sum := 0.0
	for _, topicID := range topics {
		m, err := t.TopicMastery(ctx, userID, topicID)
		if err != nil {
			return 0, err
		}
		sum += m
	}
	return sum / float64(len(topics)), nil
}

// LearningCurve replays the same EMA recurrence as TopicMastery but keeps
// every intermediate estimate, paired with its sample's timestamp. The last
// point always equals the current TopicMastery value.
func (t *ProgressTracker) LearningCurve(ctx context.Context, userID, topicID string) ([]models.CurvePoint, error) {
	samples, err := t.store.Samples(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, nil
	}

	sortByTimestamp(samples)

	curve := make([]models.CurvePoint, 0, len(samples))
	m := samples[0].Score
	curve = append(curve, models.CurvePoint{Timestamp: samples[0].Timestamp, Mastery: m})

	for _, s := range samples[1:] {
		m = t.alpha*s.Score + (1.0-t.alpha)*m
		curve = append(curve, models.CurvePoint{Timestamp: s.Timestamp, Mastery: m})
	}
	return curve, nil
}

// sortByTimestamp orders samples chronologically. The sort is stable so
// samples with equal timestamps keep their storage order, and zero
// (unknown-time) timestamps sort first.
func sortByTimestamp(samples []models.MasterySample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})
}
