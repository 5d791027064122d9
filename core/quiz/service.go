package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var ErrNotFound = errors.New("quiz not found")

type (
	Repository interface {
		CreateQuiz(ctx context.Context, qz Quiz) (Quiz, error)
		GetQuizByID(ctx context.Context, id string) (Quiz, error)
		QueryQuizzesByClassCode(ctx context.Context, classCode string) ([]Quiz, error)
		UpdateQuiz(ctx context.Context, qz Quiz) (Quiz, error)
		DeleteQuizzesByID(ctx context.Context, ids ...string) error

		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		QuerySubmissionsByClassCode(ctx context.Context, classCode string) ([]Submission, error)
		QuerySubmissionsByQuizID(ctx context.Context, quizID string) ([]Submission, error)
	}

	Service struct {
		repo   Repository
		gen    core.TextGenerator
		logger core.Logger
	}
)

func NewService(repo Repository, gen core.TextGenerator, logger core.Logger) *Service {
	return &Service{repo: repo, gen: gen, logger: logger}
}

// Create authors a quiz directly from teacher input.
func (svc *Service) Create(ctx context.Context, classCode string, nq NewQuiz) (Quiz, error) {
	qz := Quiz{
		ID:        uuid.New().String(),
		Topic:     nq.Topic,
		ClassCode: classCode,
		Questions: make([]Question, 0, len(nq.Questions)),
	}
	for _, q := range nq.Questions {
		qz.Questions = append(qz.Questions, Question{
			Text:         q.Text,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
		})
	}
	return svc.repo.CreateQuiz(ctx, qz)
}

// GenerateFromTopic asks the AI service for a quiz about a topic.
func (svc *Service) GenerateFromTopic(ctx context.Context, classCode string, req GenerateRequest) (Quiz, error) {
	prompt := fmt.Sprintf(
		"Generate a quiz about %q with exactly %d multiple-choice questions. "+
			"The difficulty level should be %s. Each question must have exactly 4 options. "+
			"Ensure one option is clearly correct.",
		req.Topic, req.NumQuestions, req.Difficulty,
	)
	return svc.generate(ctx, classCode, prompt, req.Topic, req.NumQuestions)
}

// GenerateFromContent asks the AI service for a quiz grounded on content text,
// e.g. a lecture or an extracted document.
func (svc *Service) GenerateFromContent(ctx context.Context, classCode string, req GenerateFromContentRequest) (Quiz, error) {
	prompt := fmt.Sprintf(
		"Generate a quiz based on the following content. Create exactly %d multiple-choice "+
			"questions with a difficulty level of %s. Each question must have exactly 4 options. "+
			"Ensure one option is clearly correct.\n\nContent:\n---\n%s\n---",
		req.NumQuestions, req.Difficulty, req.Content,
	)
	return svc.generate(ctx, classCode, prompt, "Quiz from generated content", req.NumQuestions)
}

func (svc *Service) generate(ctx context.Context, classCode, prompt, fallbackTopic string, numQuestions int) (Quiz, error) {
	var data genQuiz
	if err := svc.gen.GenerateJSON(ctx, prompt, quizSchema, &data); err != nil {
		svc.logger.Error(fmt.Sprintf("generating quiz: %v", err), err)
		return Quiz{}, core.ErrGenerationFailed
	}

	qz := Quiz{
		ID:        uuid.New().String(),
		Topic:     data.Topic,
		ClassCode: classCode,
		Questions: coerceQuestions(data.Questions, numQuestions),
	}
	if qz.Topic == "" {
		qz.Topic = fallbackTopic
	}
	return svc.repo.CreateQuiz(ctx, qz)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Quiz, error) {
	return svc.repo.GetQuizByID(ctx, id)
}

func (svc *Service) QueryByClass(ctx context.Context, classCode string) ([]Quiz, error) {
	return svc.repo.QueryQuizzesByClassCode(ctx, classCode)
}

// UpdateTopic renames a quiz; questions are immutable once created.
func (svc *Service) UpdateTopic(ctx context.Context, id string, uq UpdateQuiz) (Quiz, error) {
	qz, err := svc.repo.GetQuizByID(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	qz.Topic = uq.Topic
	return svc.repo.UpdateQuiz(ctx, qz)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteQuizzesByID(ctx, ids...)
}

// Submit grades an answer set and persists the submission with a
// server-assigned timestamp. Grading itself has no side effect.
func (svc *Service) Submit(ctx context.Context, quizID, studentName string, answers []*int) (Submission, error) {
	qz, err := svc.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return Submission{}, err
	}

	res := Grade(qz, answers)
	sub := Submission{
		QuizID:         qz.ID,
		StudentName:    studentName,
		Score:          res.Score,
		TotalQuestions: res.Total,
		SubmittedAt:    time.Now().UTC(),
		ClassCode:      qz.ClassCode,
	}
	return svc.repo.CreateSubmission(ctx, sub)
}

func (svc *Service) QuerySubmissionsByClass(ctx context.Context, classCode string) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByClassCode(ctx, classCode)
}

// QuizStats summarizes submissions for one quiz: count and average score.
func (svc *Service) QuizStats(ctx context.Context, quizID string) (Stats, error) {
	subs, err := svc.repo.QuerySubmissionsByQuizID(ctx, quizID)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{QuizID: quizID, Submissions: len(subs)}
	if len(subs) == 0 {
		return stats, nil
	}
	var total int
	for _, sub := range subs {
		total += sub.Score
	}
	stats.AverageScore = float64(total) / float64(len(subs))
	return stats, nil
}

// AI response handling

type (
	genQuiz struct {
		Topic     string        `json:"topic"`
		Questions []genQuestion `json:"questions"`
	}

	genQuestion struct {
		QuestionText       string   `json:"questionText"`
		Options            []string `json:"options"`
		CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	}
)

var quizSchema = core.Schema{
	"type": "OBJECT",
	"properties": map[string]interface{}{
		"topic": map[string]interface{}{
			"type":        "STRING",
			"description": "The main topic of the quiz.",
		},
		"questions": map[string]interface{}{
			"type":        "ARRAY",
			"description": "A list of questions for the quiz.",
			"items": map[string]interface{}{
				"type": "OBJECT",
				"properties": map[string]interface{}{
					"questionText": map[string]interface{}{
						"type":        "STRING",
						"description": "The text of the multiple-choice question.",
					},
					"options": map[string]interface{}{
						"type":        "ARRAY",
						"description": "An array of 4 possible answers.",
						"items":       map[string]interface{}{"type": "STRING"},
					},
					"correctAnswerIndex": map[string]interface{}{
						"type":        "INTEGER",
						"description": "The 0-based index of the correct answer in the options array.",
					},
				},
				"required": []string{"questionText", "options", "correctAnswerIndex"},
			},
		},
	},
	"required": []string{"topic", "questions"},
}

// coerceQuestions sanitizes AI output: exactly 4 options per question, the
// correct index clamped into range and the question list truncated to the
// requested count.
func coerceQuestions(raw []genQuestion, max int) []Question {
	if len(raw) > max {
		raw = raw[:max]
	}
	questions := make([]Question, 0, len(raw))
	for i, q := range raw {
		question := Question{
			Text:         q.QuestionText,
			Options:      q.Options,
			CorrectIndex: q.CorrectAnswerIndex,
		}
		if question.Text == "" {
			question.Text = fmt.Sprintf("Question %d", i+1)
		}
		if len(question.Options) != OptionCount {
			question.Options = []string{"Option A", "Option B", "Option C", "Option D"}
		}
		if question.CorrectIndex < 0 || question.CorrectIndex >= OptionCount {
			question.CorrectIndex = 0
		}
		questions = append(questions, question)
	}
	return questions
}
