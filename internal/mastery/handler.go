package mastery

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/studyloop/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the mastery endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/attempts", h.RecordAttempt).Methods("POST")
	protected.HandleFunc("/mastery", h.GetMasteryOverview).Methods("GET")
	protected.HandleFunc("/mastery/{topicID}", h.GetTopicMastery).Methods("GET")
	protected.HandleFunc("/mastery/{topicID}/curve", h.GetLearningCurve).Methods("GET")
	protected.HandleFunc("/recommendation", h.GetRecommendation).Methods("GET")
}

// getUserID extracts the authenticated learner ID from the request context.
func getUserID(r *http.Request) (string, bool) {
	uid, ok := r.Context().Value("user_id").(string)
	return uid, ok && uid != ""
}

func (h *Handler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.RecordAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Quiz == nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "quiz payload is required"})
		return
	}

	// The token, not the payload, is the source of identity.
	req.Quiz["user_id"] = userID
	if req.QA != nil {
		req.QA["user_id"] = userID
	}

	sample, err := h.service.RecordAttempt(r.Context(), req.Quiz, req.QA)
	if err != nil {
		if errors.Is(err, ErrMissingUserID) || errors.Is(err, ErrMissingTopicID) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Could not record this attempt: " + err.Error()})
			return
		}
		log.Printf("[handler] RecordAttempt error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record attempt"})
		return
	}

	writeJSON(w, http.StatusCreated, sample)
}

func (h *Handler) GetMasteryOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.MasteryOverview(r.Context(), userID)
	if err != nil {
		log.Printf("[handler] GetMasteryOverview error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get mastery"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetTopicMastery(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	topicID := mux.Vars(r)["topicID"]
	mastery, err := h.service.TopicMastery(r.Context(), userID, topicID)
	if err != nil {
		log.Printf("[handler] GetTopicMastery error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get topic mastery"})
		return
	}

	writeJSON(w, http.StatusOK, models.TopicMasteryResponse{TopicID: topicID, Mastery: mastery})
}

func (h *Handler) GetLearningCurve(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	topicID := mux.Vars(r)["topicID"]
	curve, err := h.service.LearningCurve(r.Context(), userID, topicID)
	if err != nil {
		log.Printf("[handler] GetLearningCurve error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get learning curve"})
		return
	}

	if curve == nil {
		curve = []models.CurvePoint{}
	}
	writeJSON(w, http.StatusOK, models.LearningCurveResponse{TopicID: topicID, Curve: curve})
}

func (h *Handler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	rec, err := h.service.Recommendation(r.Context(), userID)
	if err != nil {
		log.Printf("[handler] GetRecommendation error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get recommendation"})
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
