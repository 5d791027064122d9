package content

import (
	"github.com/trezcool/darasa/core"
)

// Shared content kinds.
const (
	KindText  = "text"
	KindFile  = "file"
	KindImage = "image"
)

type (
	// TextPayload is the body of a text share.
	TextPayload struct {
		Body string `json:"body"`
	}

	// FilePayload is the raw data of a file or image share.
	FilePayload struct {
		Data     []byte `json:"data"` // base64 in transit and at rest
		Name     string `json:"name"`
		MimeType string `json:"mime_type"`
	}

	// SharedContent is a tagged variant: Kind selects exactly one payload;
	// the other stays nil.
	SharedContent struct {
		ID          string       `json:"id"`
		Kind        string       `json:"kind"`
		Title       string       `json:"title"`
		Description string       `json:"description"`
		ClassCode   string       `json:"class_code"`
		Text        *TextPayload `json:"text,omitempty"`
		File        *FilePayload `json:"file,omitempty"`
	}

	Slide struct {
		Title  string   `json:"title"`
		Points []string `json:"points"`
	}

	// GeneratedLecture is append-only once generated.
	GeneratedLecture struct {
		ID        string  `json:"id"`
		Topic     string  `json:"topic"`
		ClassCode string  `json:"class_code"`
		Slides    []Slide `json:"slides"`
	}

	// CaseStudy is append-only once generated.
	CaseStudy struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		Introduction string `json:"introduction"`
		Problem      string `json:"problem"`
		Solution     string `json:"solution"`
		Conclusion   string `json:"conclusion"`
		ClassCode    string `json:"class_code"`
	}

	FAQ struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
)

// FileName returns the attached file name for file/image shares, "" otherwise.
func (sc SharedContent) FileName() string {
	if sc.File != nil {
		return sc.File.Name
	}
	return ""
}

// DefaultFAQs is static reference data, not persisted per class.
var DefaultFAQs = []FAQ{
	{
		Question: "How do I generate a quiz?",
		Answer:   "As a teacher, navigate to the 'Quiz Generation' tab. You can either enter a topic manually or select a previously generated lecture to create a quiz from.",
	},
	{
		Question: "Where can I see my quiz results?",
		Answer:   "As a student, after completing a quiz, your results will be shown immediately. You can view your full history and performance analytics on the 'Analysis' page.",
	},
	{
		Question: "How do I share a file with students?",
		Answer:   "In the Teacher Dashboard, go to the 'Shared Content' page. You can upload files, images, or share text-based content using the form provided.",
	},
	{
		Question: "How do I find my class code?",
		Answer:   "As a teacher, your unique class code is displayed prominently on your dashboard's Home page. Share this with your students so they can join.",
	},
}

// NewSharedContent carries a share of any kind; the payload fields valid for
// the kind are enforced in Validate.
type NewSharedContent struct {
	Kind        string `json:"kind" validate:"required,oneof=text file image"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Body        string `json:"body"`
	Data        []byte `json:"data"`
	FileName    string `json:"file_name"`
	MimeType    string `json:"mime_type"`
}

func (nc *NewSharedContent) Validate() error {
	nc.Kind = core.CleanString(nc.Kind, true /* lower */)
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}

	switch nc.Kind {
	case KindText:
		if nc.Body == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "body", Error: "this field is required"})
		}
		if len(nc.Data) > 0 || nc.FileName != "" || nc.MimeType != "" {
			return core.NewValidationError(nil, core.FieldError{Field: "kind", Error: "file fields are not valid for text content"})
		}
	case KindFile, KindImage:
		if len(nc.Data) == 0 || nc.FileName == "" || nc.MimeType == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "data", Error: "data, file_name and mime_type are required"})
		}
		if nc.Body != "" {
			return core.NewValidationError(nil, core.FieldError{Field: "body", Error: "body is only valid for text content"})
		}
	}
	return nil
}

// UpdateSharedContent edits a share in place; the kind cannot change.
type UpdateSharedContent struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Body        string `json:"body"`
}

func (uc *UpdateSharedContent) Validate() error {
	uc.Title = core.CleanString(uc.Title)
	uc.Description = core.CleanString(uc.Description)
	return core.Validate.Struct(uc)
}

// GenerateLectureRequest asks the AI service for lecture slides.
type GenerateLectureRequest struct {
	Topic   string `json:"topic" validate:"required"`
	Outline string `json:"outline" validate:"required"`
}

func (gr *GenerateLectureRequest) Validate() error {
	gr.Topic = core.CleanString(gr.Topic)
	gr.Outline = core.CleanString(gr.Outline)
	return core.Validate.Struct(gr)
}

// GenerateCaseStudyRequest asks the AI service for a case study.
type GenerateCaseStudyRequest struct {
	Outline string `json:"outline" validate:"required"`
}

func (gr *GenerateCaseStudyRequest) Validate() error {
	gr.Outline = core.CleanString(gr.Outline)
	return core.Validate.Struct(gr)
}

// TranslateRequest translates text to a target language.
type TranslateRequest struct {
	Text     string `json:"text" validate:"required"`
	Language string `json:"language" validate:"required"`
}

func (tr *TranslateRequest) Validate() error {
	tr.Text = core.CleanString(tr.Text)
	tr.Language = core.CleanString(tr.Language)
	return core.Validate.Struct(tr)
}

// SummarizeRequest summarizes text for a student.
type SummarizeRequest struct {
	Text string `json:"text" validate:"required"`
}

func (sr *SummarizeRequest) Validate() error {
	sr.Text = core.CleanString(sr.Text)
	return core.Validate.Struct(sr)
}

// ExplainRequest is a free-form Q&A question for the AI assistant.
type ExplainRequest struct {
	Question string `json:"question" validate:"required"`
}

func (er *ExplainRequest) Validate() error {
	er.Question = core.CleanString(er.Question)
	return core.Validate.Struct(er)
}
