package mastery

import (
	"context"

	"github.com/studyloop/backend/internal/models"
)

// SampleStore is the append-only repository of mastery observations, keyed
// by learner and topic. Samples are appended exactly once and never updated
// or deleted; implementations own every sample once appended and must hand
// out copies so callers cannot mutate stored state.
//
// The store is injected into every component that needs it. Appends for
// different (user, topic) buckets must not block each other; appends to the
// same bucket are serialized, and reads observe a consistent snapshot of
// the bucket.
type SampleStore interface {
	// Append records one observation under (sample.UserID, sample.TopicID).
	Append(ctx context.Context, sample models.MasterySample) error

	// Samples returns every observation for the pair, in storage order.
	// Chronological order is not guaranteed; callers sort by timestamp.
	Samples(ctx context.Context, userID, topicID string) ([]models.MasterySample, error)

	// Topics returns every topic the learner has at least one sample for.
	Topics(ctx context.Context, userID string) ([]string, error)
}
