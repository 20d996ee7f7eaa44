package mastery

import (
	"context"
	"sync"

	"github.com/studyloop/backend/internal/models"
)

// MemStore is an in-memory SampleStore. It backs tests and database-less
// deployments. A single RWMutex serializes appends; contention is acceptable
// at this scale since appends only happen after a completed assessment.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]models.MasterySample
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]map[string][]models.MasterySample)}
}

func (s *MemStore) Append(_ context.Context, sample models.MasterySample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	topics, ok := s.data[sample.UserID]
	if !ok {
		topics = make(map[string][]models.MasterySample)
		s.data[sample.UserID] = topics
	}
	topics[sample.TopicID] = append(topics[sample.TopicID], sample)
	return nil
}

func (s *MemStore) Samples(_ context.Context, userID, topicID string) ([]models.MasterySample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket := s.data[userID][topicID]
	if len(bucket) == 0 {
		return nil, nil
	}
	out := make([]models.MasterySample, len(bucket))
	copy(out, bucket)
	return out, nil
}

func (s *MemStore) Topics(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	topics := s.data[userID]
	if len(topics) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(topics))
	for topicID := range topics {
		out = append(out, topicID)
	}
	return out, nil
}
