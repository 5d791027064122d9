package quiz

import (
	"time"

	"github.com/trezcool/darasa/core"
)

// OptionCount is the fixed number of options per question.
const OptionCount = 4

type (
	Question struct {
		Text         string   `json:"question_text"`
		Options      []string `json:"options"`
		CorrectIndex int      `json:"correct_answer_index"`
	}

	Quiz struct {
		ID        string     `json:"id"`
		Topic     string     `json:"topic"`
		ClassCode string     `json:"class_code"`
		Questions []Question `json:"questions"`
	}

	// Submission records a graded quiz attempt. Append-only: retakes are
	// not blocked at this layer.
	Submission struct {
		QuizID         string    `json:"quiz_id"`
		StudentName    string    `json:"student_name"`
		Score          int       `json:"score"`
		TotalQuestions int       `json:"total_questions"`
		SubmittedAt    time.Time `json:"submitted_at"` // UTC, server-assigned
		ClassCode      string    `json:"class_code"`
	}

	// Stats summarizes all submissions for one quiz.
	Stats struct {
		QuizID       string  `json:"quiz_id"`
		Submissions  int     `json:"submissions"`
		AverageScore float64 `json:"average_score"`
	}
)

// NewQuiz contains information needed to author a quiz directly.
type NewQuiz struct {
	Topic     string        `json:"topic" validate:"required"`
	Questions []NewQuestion `json:"questions" validate:"required,min=1,dive"`
}

type NewQuestion struct {
	Text         string   `json:"question_text" validate:"required"`
	Options      []string `json:"options" validate:"required,len=4,dive,required"`
	CorrectIndex int      `json:"correct_answer_index" validate:"min=0,max=3"`
}

func (nq *NewQuiz) Validate() error {
	nq.Topic = core.CleanString(nq.Topic)
	return core.Validate.Struct(nq)
}

// UpdateQuiz defines what may be modified on an existing quiz: the topic only.
type UpdateQuiz struct {
	Topic string `json:"topic" validate:"required"`
}

func (uq *UpdateQuiz) Validate() error {
	uq.Topic = core.CleanString(uq.Topic)
	return core.Validate.Struct(uq)
}

// GenerateRequest asks the AI service for a quiz.
type GenerateRequest struct {
	Topic        string `json:"topic" validate:"required"`
	NumQuestions int    `json:"num_questions" validate:"required,min=1,max=20"`
	Difficulty   string `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

func (gr *GenerateRequest) Validate() error {
	gr.Topic = core.CleanString(gr.Topic)
	gr.Difficulty = core.CleanString(gr.Difficulty, true /* lower */)
	return core.Validate.Struct(gr)
}

// GenerateFromContentRequest asks for a quiz grounded on arbitrary content text.
type GenerateFromContentRequest struct {
	Content      string `json:"content" validate:"required"`
	NumQuestions int    `json:"num_questions" validate:"required,min=1,max=20"`
	Difficulty   string `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

func (gr *GenerateFromContentRequest) Validate() error {
	gr.Content = core.CleanString(gr.Content)
	gr.Difficulty = core.CleanString(gr.Difficulty, true /* lower */)
	return core.Validate.Struct(gr)
}

// NewSubmission carries a student's selected option per question; nil means
// the question was left unanswered.
type NewSubmission struct {
	Answers []*int `json:"answers"`
}
