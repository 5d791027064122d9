package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/quiz"
)

// Fixed assistant replies for the short-circuit cases.
const (
	emptyQueryAnswer = "Please enter a search query."
	noResultAnswer   = "I could not find any relevant information matching your search."
)

// ErrAssistantUnavailable is returned when the generation service fails;
// no partial answer is produced.
var ErrAssistantUnavailable = errors.New("the AI search assistant is currently unavailable")

type (
	// KnowledgeBase is the class-scoped material a search runs over.
	KnowledgeBase struct {
		Quizzes       []quiz.Quiz
		Lectures      []content.GeneratedLecture
		CaseStudies   []content.CaseStudy
		SharedContent []content.SharedContent
		FAQs          []content.FAQ
	}

	// Source labels a retrieved document in the answer's provenance list.
	Source struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}

	Result struct {
		Answer  string   `json:"answer"`
		Sources []Source `json:"sources"`
	}

	document struct {
		name    string
		docType string
		content string
	}

	Service struct {
		gen core.TextGenerator
	}
)

func NewService(gen core.TextGenerator) *Service {
	return &Service{gen: gen}
}

// Query is a search request.
type Query struct {
	Query string `json:"query"`
}

func (q *Query) Validate() error {
	q.Query = core.CleanString(q.Query)
	return nil // an empty query is answered, not rejected
}

// Search retrieves candidate documents by keyword overlap and asks the
// generation service for an answer grounded only on them. A document is a
// candidate when any lowercase whitespace-separated query keyword is a
// case-insensitive substring of its flattened text. Candidates keep scan
// order: quizzes, lectures, case studies, shared content, FAQs.
func (svc *Service) Search(ctx context.Context, query string, kb KnowledgeBase) (Result, error) {
	keywords := tokenize(query)
	if len(keywords) == 0 {
		return Result{Answer: emptyQueryAnswer, Sources: []Source{}}, nil
	}

	docs := retrieve(keywords, kb)
	if len(docs) == 0 {
		return Result{Answer: noResultAnswer, Sources: []Source{}}, nil
	}

	blocks := make([]string, 0, len(docs))
	sources := make([]Source, 0, len(docs))
	for _, doc := range docs {
		blocks = append(blocks, fmt.Sprintf("Source (%s): %s\nContent: %s", doc.docType, doc.name, doc.content))
		sources = append(sources, Source{Name: doc.name, Type: doc.docType})
	}

	prompt := fmt.Sprintf(
		"You are a helpful AI assistant for a classroom platform. Based ONLY on the following "+
			"context, provide a concise answer to the user's question. Do not use any outside "+
			"knowledge. If the answer is not found in the context, state that you could not find "+
			"a definitive answer in the provided materials.\n\nContext:\n---\n%s\n---\n\nUser Question: %q",
		strings.Join(blocks, "\n\n---\n\n"), query,
	)

	answer, err := svc.gen.GenerateText(ctx, prompt)
	if err != nil {
		return Result{}, ErrAssistantUnavailable
	}
	return Result{Answer: answer, Sources: sources}, nil
}

func tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

func retrieve(keywords []string, kb KnowledgeBase) []document {
	var docs []document

	for _, qz := range kb.Quizzes {
		docs = appendMatch(docs, keywords, qz.Topic, "Quiz", flattenQuiz(qz))
	}
	for _, lec := range kb.Lectures {
		docs = appendMatch(docs, keywords, lec.Topic, "Lecture", flattenLecture(lec))
	}
	for _, cs := range kb.CaseStudies {
		docs = appendMatch(docs, keywords, cs.Title, "Case Study", flattenCaseStudy(cs))
	}
	for _, sc := range kb.SharedContent {
		docs = appendMatch(docs, keywords, sc.Title, "Shared Content", flattenSharedContent(sc))
	}
	for _, faq := range kb.FAQs {
		docs = appendMatch(docs, keywords, faq.Question, "FAQ", flattenFAQ(faq))
	}
	return docs
}

func appendMatch(docs []document, keywords []string, name, docType, flat string) []document {
	if matches(keywords, flat) {
		docs = append(docs, document{name: name, docType: docType, content: flat})
	}
	return docs
}

// matches applies OR semantics: any keyword appearing as a substring is enough.
func matches(keywords []string, flat string) bool {
	flat = strings.ToLower(flat)
	for _, kw := range keywords {
		if strings.Contains(flat, kw) {
			return true
		}
	}
	return false
}

// Flattened text representations, one per content type.

func flattenQuiz(qz quiz.Quiz) string {
	texts := make([]string, 0, len(qz.Questions))
	for _, q := range qz.Questions {
		texts = append(texts, q.Text)
	}
	return fmt.Sprintf("Topic: %s. Questions: %s", qz.Topic, strings.Join(texts, " "))
}

func flattenLecture(lec content.GeneratedLecture) string {
	slides := make([]string, 0, len(lec.Slides))
	for _, s := range lec.Slides {
		slides = append(slides, fmt.Sprintf("%s: %s", s.Title, strings.Join(s.Points, " ")))
	}
	return fmt.Sprintf("Topic: %s. Slides: %s", lec.Topic, strings.Join(slides, ". "))
}

func flattenCaseStudy(cs content.CaseStudy) string {
	return fmt.Sprintf("Title: %s. Content: %s %s %s %s", cs.Title, cs.Introduction, cs.Problem, cs.Solution, cs.Conclusion)
}

func flattenSharedContent(sc content.SharedContent) string {
	if sc.Kind == content.KindText && sc.Text != nil {
		return fmt.Sprintf("Title: %s. Description: %s. Content: %s", sc.Title, sc.Description, sc.Text.Body)
	}
	return fmt.Sprintf("Title: %s. Description: %s. File: %s", sc.Title, sc.Description, sc.FileName())
}

func flattenFAQ(faq content.FAQ) string {
	return fmt.Sprintf("Question: %s. Answer: %s", faq.Question, faq.Answer)
}
