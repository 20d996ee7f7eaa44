package mastery

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/studyloop/backend/internal/models"
)

// newTestRouter registers the mastery routes behind a middleware that
// injects a fixed learner id, standing in for the JWT middleware.
func newTestRouter(svc *Service, userID string) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	if userID != "" {
		api.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := context.WithValue(r.Context(), "user_id", userID)
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		})
	}
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func postAttempt(t *testing.T, router *mux.Router, body models.RecordAttemptRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attempts", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_RecordAttempt(t *testing.T) {
	_, svc := newServiceFixture(DefaultAlpha)
	router := newTestRouter(svc, "learner-1")

	rec := postAttempt(t, router, models.RecordAttemptRequest{
		Quiz: rawQuizAt("topicA", 4, 5, "2026-01-01T00:00:00Z"),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var sample models.MasterySample
	if err := json.Unmarshal(rec.Body.Bytes(), &sample); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// The token identity overrides whatever the payload claimed.
	if sample.UserID != "learner-1" {
		t.Errorf("UserID = %q, want learner-1 from the auth context", sample.UserID)
	}
	if sample.Score != 0.8 {
		t.Errorf("Score = %v, want 0.8", sample.Score)
	}
}

func TestHandler_RecordAttempt_BadPayload(t *testing.T) {
	_, svc := newServiceFixture(DefaultAlpha)
	router := newTestRouter(svc, "learner-1")

	// Missing quiz payload entirely.
	rec := postAttempt(t, router, models.RecordAttemptRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	// Quiz payload without a topic.
	quiz := rawQuizAt("topicA", 1, 2, "2026-01-01T00:00:00Z")
	delete(quiz, "topic_id")
	rec = postAttempt(t, router, models.RecordAttemptRequest{Quiz: quiz})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing topic_id", rec.Code)
	}
}

func TestHandler_Unauthenticated(t *testing.T) {
	_, svc := newServiceFixture(DefaultAlpha)
	router := newTestRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendation", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without auth context", rec.Code)
	}
}

func TestHandler_MasteryAndRecommendation(t *testing.T) {
	_, svc := newServiceFixture(DefaultAlpha)
	router := newTestRouter(svc, "learner-1")

	postAttempt(t, router, models.RecordAttemptRequest{Quiz: rawQuizAt("topicA", 5, 5, "2026-01-01T00:00:00Z")})
	postAttempt(t, router, models.RecordAttemptRequest{Quiz: rawQuizAt("topicB", 1, 5, "2026-01-01T01:00:00Z")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mastery", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /mastery status = %d, want 200", rec.Code)
	}
	var overview models.MasteryOverviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &overview); err != nil {
		t.Fatalf("decode overview: %v", err)
	}
	if len(overview.Topics) != 2 {
		t.Errorf("len(Topics) = %d, want 2", len(overview.Topics))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/mastery/topicB", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /mastery/{topic} status = %d, want 200", rec.Code)
	}
	var topic models.TopicMasteryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &topic); err != nil {
		t.Fatalf("decode topic mastery: %v", err)
	}
	if topic.TopicID != "topicB" || topic.Mastery != 0.2 {
		t.Errorf("topic mastery = %+v, want topicB at 0.2", topic)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/recommendation", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /recommendation status = %d, want 200", rec.Code)
	}
	var recommendation models.Recommendation
	if err := json.Unmarshal(rec.Body.Bytes(), &recommendation); err != nil {
		t.Fatalf("decode recommendation: %v", err)
	}
	if recommendation.NextTopicID != "topicB" {
		t.Errorf("NextTopicID = %q, want topicB", recommendation.NextTopicID)
	}
}

func TestHandler_LearningCurve(t *testing.T) {
	_, svc := newServiceFixture(DefaultAlpha)
	router := newTestRouter(svc, "learner-1")

	// No history yet: empty curve, not an error.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/mastery/topicA/curve", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET curve status = %d, want 200", rec.Code)
	}
	var curve models.LearningCurveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &curve); err != nil {
		t.Fatalf("decode curve: %v", err)
	}
	if len(curve.Curve) != 0 {
		t.Errorf("curve = %v, want empty", curve.Curve)
	}

	postAttempt(t, router, models.RecordAttemptRequest{Quiz: rawQuizAt("topicA", 1, 5, "2026-01-01T00:00:00Z")})
	postAttempt(t, router, models.RecordAttemptRequest{Quiz: rawQuizAt("topicA", 5, 5, "2026-01-02T00:00:00Z")})

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/mastery/topicA/curve", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &curve); err != nil {
		t.Fatalf("decode curve: %v", err)
	}
	if len(curve.Curve) != 2 {
		t.Fatalf("len(curve) = %d, want 2", len(curve.Curve))
	}
	if curve.Curve[1].Mastery <= curve.Curve[0].Mastery {
		t.Errorf("curve not increasing: %v", curve.Curve)
	}
}
