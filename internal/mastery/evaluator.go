package mastery

import (
	"github.com/studyloop/backend/internal/models"
)

// Default fusion weights. The split favors the objective quiz signal over
// subjective grading; deployments override both via config.
const (
	DefaultQuizWeight = 0.7
	DefaultQAWeight   = 0.3
)

// difficultyFactor rewards performance on harder material and discounts
// performance on easy material as a second-order mastery signal.
var difficultyFactor = map[models.Difficulty]float64{
	models.DifficultyEasy:   0.9,
	models.DifficultyMedium: 1.0,
	models.DifficultyHard:   1.1,
}

// Evaluator turns normalized quiz and QA results into a MasterySample.
// It assumes its inputs have already been through the result adapters;
// malformed normalized input is an adapter bug, not something defended
// against here.
type Evaluator struct {
	quizWeight float64
	qaWeight   float64
}

func NewEvaluator(quizWeight, qaWeight float64) *Evaluator {
	return &Evaluator{quizWeight: quizWeight, qaWeight: qaWeight}
}

// EvaluateQuiz computes a [0,1] score for a single quiz attempt:
// accuracy scaled by the difficulty factor, clamped. An empty question list
// scores exactly 0.0 — no evidence of competence counts as zero, not as
// unknown.
func (e *Evaluator) EvaluateQuiz(quiz models.QuizResult) float64 {
	if len(quiz.Questions) == 0 {
		return 0.0
	}

	correct := 0
	for _, q := range quiz.Questions {
		if ok, _ := q["is_correct"].(bool); ok {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(quiz.Questions))

	factor, ok := difficultyFactor[quiz.Difficulty]
	if !ok {
		factor = 1.0
	}

	return clamp(accuracy * factor)
}

// EvaluateQA passes through the adapter-clamped open-response score.
// Returns (0, false) when there is no QA signal.
func (e *Evaluator) EvaluateQA(qa *models.QAResult) (float64, bool) {
	if qa == nil {
		return 0, false
	}
	return clamp(qa.Score), true
}

// BuildMasterySample fuses the quiz and optional QA signals into one
// canonical observation. Identity, timestamp, and provenance metadata come
// from the quiz input.
func (e *Evaluator) BuildMasterySample(quiz models.QuizResult, qa *models.QAResult) (models.MasterySample, error) {
	quizScore := e.EvaluateQuiz(quiz)

	raw := quizScore
	if qaScore, ok := e.EvaluateQA(qa); ok {
		raw = e.quizWeight*quizScore + e.qaWeight*qaScore
	}

	return models.NewMasterySample(
		quiz.UserID,
		quiz.TopicID,
		quiz.Timestamp,
		clamp(raw),
		len(quiz.Questions),
		quiz.Difficulty,
	)
}
