package mastery

import (
	"math"
	"testing"
	"time"

	"github.com/studyloop/backend/internal/models"
)

func quizResult(correct, total int, difficulty models.Difficulty) models.QuizResult {
	questions := make([]map[string]any, 0, total)
	for i := 0; i < total; i++ {
		questions = append(questions, map[string]any{"is_correct": i < correct})
	}
	return models.QuizResult{
		UserID:     "u1",
		TopicID:    "topicA",
		Timestamp:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Difficulty: difficulty,
		Questions:  questions,
	}
}

func TestEvaluateQuiz(t *testing.T) {
	e := NewEvaluator(DefaultQuizWeight, DefaultQAWeight)

	tests := []struct {
		name    string
		correct int
		total   int
		diff    models.Difficulty
		want    float64
	}{
		{"empty list scores zero", 0, 0, models.DifficultyMedium, 0.0},
		{"all wrong", 0, 5, models.DifficultyMedium, 0.0},
		{"all correct medium", 5, 5, models.DifficultyMedium, 1.0},
		{"all correct hard clamps", 5, 5, models.DifficultyHard, 1.0},
		{"all correct easy discounted", 5, 5, models.DifficultyEasy, 0.9},
		{"partial medium", 3, 5, models.DifficultyMedium, 0.6},
		{"partial hard boosted", 3, 5, models.DifficultyHard, 0.66},
	}

	for _, tt := range tests {
		got := e.EvaluateQuiz(quizResult(tt.correct, tt.total, tt.diff))
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: EvaluateQuiz = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEvaluateQuiz_MissingCorrectnessFlag(t *testing.T) {
	e := NewEvaluator(DefaultQuizWeight, DefaultQAWeight)

	// Two answered correctly, two records without any flag.
	quiz := quizResult(2, 2, models.DifficultyMedium)
	quiz.Questions = append(quiz.Questions, map[string]any{}, map[string]any{"response_time": 4.2})

	got := e.EvaluateQuiz(quiz)
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("EvaluateQuiz = %v, want 0.5 (missing flags count as incorrect)", got)
	}
}

func TestEvaluateQA(t *testing.T) {
	e := NewEvaluator(DefaultQuizWeight, DefaultQAWeight)

	if _, ok := e.EvaluateQA(nil); ok {
		t.Error("EvaluateQA(nil) should report no signal")
	}

	score, ok := e.EvaluateQA(&models.QAResult{UserID: "u1", TopicID: "topicA", Score: 0.8})
	if !ok || score != 0.8 {
		t.Errorf("EvaluateQA = (%v, %v), want (0.8, true)", score, ok)
	}
}

func TestBuildMasterySample_QuizOnly(t *testing.T) {
	e := NewEvaluator(DefaultQuizWeight, DefaultQAWeight)

	sample, err := e.BuildMasterySample(quizResult(3, 5, models.DifficultyMedium), nil)
	if err != nil {
		t.Fatalf("BuildMasterySample: %v", err)
	}
	if math.Abs(sample.Score-0.6) > 1e-9 {
		t.Errorf("Score = %v, want 0.6", sample.Score)
	}
	if sample.NumQuestions != 5 {
		t.Errorf("NumQuestions = %d, want 5", sample.NumQuestions)
	}
	if sample.Difficulty != models.DifficultyMedium {
		t.Errorf("Difficulty = %q, want medium", sample.Difficulty)
	}
	if sample.UserID != "u1" || sample.TopicID != "topicA" {
		t.Errorf("identity = (%q, %q), want (u1, topicA)", sample.UserID, sample.TopicID)
	}
}

func TestBuildMasterySample_Fusion(t *testing.T) {
	e := NewEvaluator(0.5, 0.5)

	quiz := quizResult(3, 5, models.DifficultyMedium) // quiz score 0.6
	qa := &models.QAResult{UserID: "u1", TopicID: "topicA", Score: 0.9}

	fused, err := e.BuildMasterySample(quiz, qa)
	if err != nil {
		t.Fatalf("BuildMasterySample: %v", err)
	}
	quizOnly, err := e.BuildMasterySample(quiz, nil)
	if err != nil {
		t.Fatalf("BuildMasterySample: %v", err)
	}

	if math.Abs(fused.Score-0.75) > 1e-9 {
		t.Errorf("fused Score = %v, want 0.75", fused.Score)
	}
	// A QA score above the quiz score never pulls the result below the
	// quiz-only evaluation.
	if fused.Score < quizOnly.Score {
		t.Errorf("fused %v < quiz-only %v with QA >= quiz", fused.Score, quizOnly.Score)
	}
}

func TestBuildMasterySample_FusedScoreClamped(t *testing.T) {
	// Pathological weights must still produce a valid sample.
	e := NewEvaluator(1.0, 1.0)

	quiz := quizResult(5, 5, models.DifficultyMedium)
	qa := &models.QAResult{UserID: "u1", TopicID: "topicA", Score: 1.0}

	sample, err := e.BuildMasterySample(quiz, qa)
	if err != nil {
		t.Fatalf("BuildMasterySample: %v", err)
	}
	if sample.Score != 1.0 {
		t.Errorf("Score = %v, want clamped 1.0", sample.Score)
	}
}
