package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var ErrNotFound = errors.New("content not found")

type (
	Repository interface {
		CreateSharedContent(ctx context.Context, sc SharedContent) (SharedContent, error)
		GetSharedContentByID(ctx context.Context, id string) (SharedContent, error)
		QuerySharedContentByClassCode(ctx context.Context, classCode string) ([]SharedContent, error)
		UpdateSharedContent(ctx context.Context, sc SharedContent) (SharedContent, error)
		DeleteSharedContentByID(ctx context.Context, ids ...string) error

		CreateLecture(ctx context.Context, lec GeneratedLecture) (GeneratedLecture, error)
		QueryLecturesByClassCode(ctx context.Context, classCode string) ([]GeneratedLecture, error)

		CreateCaseStudy(ctx context.Context, cs CaseStudy) (CaseStudy, error)
		QueryCaseStudiesByClassCode(ctx context.Context, classCode string) ([]CaseStudy, error)
	}

	Service struct {
		repo      Repository
		gen       core.TextGenerator
		extractor core.DocumentExtractor
		logger    core.Logger
	}
)

func NewService(repo Repository, gen core.TextGenerator, extractor core.DocumentExtractor, logger core.Logger) *Service {
	return &Service{repo: repo, gen: gen, extractor: extractor, logger: logger}
}

// Shared content

func (svc *Service) AddContent(ctx context.Context, classCode string, nc NewSharedContent) (SharedContent, error) {
	sc := SharedContent{
		ID:          uuid.New().String(),
		Kind:        nc.Kind,
		Title:       nc.Title,
		Description: nc.Description,
		ClassCode:   classCode,
	}
	switch nc.Kind {
	case KindText:
		sc.Text = &TextPayload{Body: nc.Body}
	case KindFile, KindImage:
		sc.File = &FilePayload{Data: nc.Data, Name: nc.FileName, MimeType: nc.MimeType}
	}
	return svc.repo.CreateSharedContent(ctx, sc)
}

func (svc *Service) GetContentByID(ctx context.Context, id string) (SharedContent, error) {
	return svc.repo.GetSharedContentByID(ctx, id)
}

func (svc *Service) QueryContentByClass(ctx context.Context, classCode string) ([]SharedContent, error) {
	return svc.repo.QuerySharedContentByClassCode(ctx, classCode)
}

func (svc *Service) UpdateContent(ctx context.Context, id string, uc UpdateSharedContent) (SharedContent, error) {
	sc, err := svc.repo.GetSharedContentByID(ctx, id)
	if err != nil {
		return SharedContent{}, err
	}
	sc.Title = uc.Title
	sc.Description = uc.Description
	if sc.Kind == KindText && uc.Body != "" {
		sc.Text = &TextPayload{Body: uc.Body}
	}
	return svc.repo.UpdateSharedContent(ctx, sc)
}

func (svc *Service) DeleteContent(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSharedContentByID(ctx, ids...)
}

// ExtractFileText runs a file share through the document converter so it can
// ground AI calls. Text shares return their body directly.
func (svc *Service) ExtractFileText(ctx context.Context, sc SharedContent) (string, error) {
	switch {
	case sc.Kind == KindText && sc.Text != nil:
		return sc.Text.Body, nil
	case sc.File != nil:
		return svc.extractor.ExtractText(ctx, sc.File.Data, sc.File.MimeType)
	}
	// a stored blob edited by hand can desync Kind and its payload
	return "", core.NewValidationError(nil, core.FieldError{Field: "kind", Error: "content has no extractable payload"})
}

// Lectures

func (svc *Service) GenerateLecture(ctx context.Context, classCode string, req GenerateLectureRequest) (GeneratedLecture, error) {
	prompt := fmt.Sprintf(
		"Based on the following topic outline, generate a set of lecture slides. "+
			"Each slide should have a clear title and several concise bullet points.\n\n"+
			"Topic Outline:\n---\n%s\n---",
		req.Outline,
	)

	var data struct {
		Slides []Slide `json:"slides"`
	}
	if err := svc.gen.GenerateJSON(ctx, prompt, lectureSlidesSchema, &data); err != nil {
		svc.logger.Error(fmt.Sprintf("generating lecture slides: %v", err), err)
		return GeneratedLecture{}, core.ErrGenerationFailed
	}
	if len(data.Slides) == 0 {
		return GeneratedLecture{}, core.ErrGenerationFailed
	}

	lec := GeneratedLecture{
		ID:        uuid.New().String(),
		Topic:     req.Topic,
		ClassCode: classCode,
		Slides:    data.Slides,
	}
	return svc.repo.CreateLecture(ctx, lec)
}

func (svc *Service) QueryLecturesByClass(ctx context.Context, classCode string) ([]GeneratedLecture, error) {
	return svc.repo.QueryLecturesByClassCode(ctx, classCode)
}

// LectureText flattens a lecture into plain text, e.g. to generate a quiz from it.
func (svc *Service) LectureText(lec GeneratedLecture) string {
	var b strings.Builder
	b.WriteString(lec.Topic)
	for _, slide := range lec.Slides {
		b.WriteString("\n" + slide.Title + "\n")
		b.WriteString(strings.Join(slide.Points, "\n"))
	}
	return b.String()
}

// Case studies

func (svc *Service) GenerateCaseStudy(ctx context.Context, classCode string, req GenerateCaseStudyRequest) (CaseStudy, error) {
	prompt := fmt.Sprintf(
		"Based on the following topic outline, generate a detailed case study. It should "+
			"include a title, introduction, a central problem, a proposed solution, and a "+
			"conclusion with key takeaways.\n\nTopic Outline:\n---\n%s\n---",
		req.Outline,
	)

	var data CaseStudy
	if err := svc.gen.GenerateJSON(ctx, prompt, caseStudySchema, &data); err != nil {
		svc.logger.Error(fmt.Sprintf("generating case study: %v", err), err)
		return CaseStudy{}, core.ErrGenerationFailed
	}
	if data.Title == "" || data.Introduction == "" || data.Problem == "" || data.Solution == "" || data.Conclusion == "" {
		return CaseStudy{}, core.ErrGenerationFailed
	}

	data.ID = uuid.New().String()
	data.ClassCode = classCode
	return svc.repo.CreateCaseStudy(ctx, data)
}

func (svc *Service) QueryCaseStudiesByClass(ctx context.Context, classCode string) ([]CaseStudy, error) {
	return svc.repo.QueryCaseStudiesByClassCode(ctx, classCode)
}

// Plain text AI helpers

func (svc *Service) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Summarize the following content for a student in a few key points:\n\n---\n%s\n---", text)
	return svc.generateText(ctx, prompt, "summarizing text")
}

func (svc *Service) Translate(ctx context.Context, text, language string) (string, error) {
	prompt := fmt.Sprintf("Translate the following text to %s:\n\n---\n%s\n---", language, text)
	return svc.generateText(ctx, prompt, "translating text")
}

// Explain answers a free-form student question as a teaching assistant.
func (svc *Service) Explain(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a helpful and friendly teaching assistant. Explain the following concept "+
			"clearly, as if you were talking to a high school student. Use simple terms and "+
			"provide a short, clear example to illustrate your point.\n\nStudent's question: %q",
		question,
	)
	return svc.generateText(ctx, prompt, "getting explanation")
}

// DescribeImage extracts text from and describes an image share.
func (svc *Service) DescribeImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	prompt := "Describe this image and extract any text you see. Present the text first, then the description."
	reply, err := svc.gen.DescribeImage(ctx, prompt, data, mimeType)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("analyzing image: %v", err), err)
		return "", core.ErrGenerationFailed
	}
	return reply, nil
}

func (svc *Service) generateText(ctx context.Context, prompt, action string) (string, error) {
	reply, err := svc.gen.GenerateText(ctx, prompt)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("%s: %v", action, err), err)
		return "", core.ErrGenerationFailed
	}
	return reply, nil
}

// AI response schemas

var lectureSlidesSchema = core.Schema{
	"type": "OBJECT",
	"properties": map[string]interface{}{
		"slides": map[string]interface{}{
			"type":        "ARRAY",
			"description": "An array of lecture slides.",
			"items": map[string]interface{}{
				"type": "OBJECT",
				"properties": map[string]interface{}{
					"title": map[string]interface{}{
						"type":        "STRING",
						"description": "The title of the slide.",
					},
					"points": map[string]interface{}{
						"type":        "ARRAY",
						"description": "An array of bullet points for the slide content.",
						"items":       map[string]interface{}{"type": "STRING"},
					},
				},
				"required": []string{"title", "points"},
			},
		},
	},
	"required": []string{"slides"},
}

var caseStudySchema = core.Schema{
	"type": "OBJECT",
	"properties": map[string]interface{}{
		"title": map[string]interface{}{
			"type":        "STRING",
			"description": "The title of the case study.",
		},
		"introduction": map[string]interface{}{
			"type":        "STRING",
			"description": "An introduction or background for the case study.",
		},
		"problem": map[string]interface{}{
			"type":        "STRING",
			"description": "The core problem or challenge presented in the case study.",
		},
		"solution": map[string]interface{}{
			"type":        "STRING",
			"description": "The solution, actions taken, or process implemented.",
		},
		"conclusion": map[string]interface{}{
			"type":        "STRING",
			"description": "The results, outcome, and key takeaways of the case study.",
		},
	},
	"required": []string{"title", "introduction", "problem", "solution", "conclusion"},
}
