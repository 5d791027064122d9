package search

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/quiz"
	testutil "github.com/trezcool/darasa/tests"
)

func testKB() KnowledgeBase {
	return KnowledgeBase{
		Quizzes: []quiz.Quiz{
			{Topic: "Algebra", Questions: []quiz.Question{
				{Text: "Solve x + 2 = 5"},
			}},
		},
		Lectures: []content.GeneratedLecture{
			{Topic: "Photosynthesis", Slides: []content.Slide{
				{Title: "Light Reactions", Points: []string{"Chlorophyll absorbs light"}},
			}},
		},
		CaseStudies: []content.CaseStudy{
			{Title: "River Pollution", Introduction: "A factory upstream", Problem: "Fish are dying", Solution: "Filtration", Conclusion: "Regulation works"},
		},
		SharedContent: []content.SharedContent{
			{Kind: content.KindText, Title: "Syllabus", Description: "Term plan", Text: &content.TextPayload{Body: "Week 1 covers cells"}},
		},
		FAQs: content.DefaultFAQs,
	}
}

func TestService_Search_emptyQuery(t *testing.T) {
	gen := &testutil.Generator{Text: "should not be called"}
	svc := NewService(gen)

	res, err := svc.Search(context.Background(), "   ", testKB())
	require.NoError(t, err)
	assert.Equal(t, "Please enter a search query.", res.Answer)
	assert.Empty(t, res.Sources)
	assert.Empty(t, gen.Prompts)
}

func TestService_Search_noMatch(t *testing.T) {
	gen := &testutil.Generator{Text: "should not be called"}
	svc := NewService(gen)

	res, err := svc.Search(context.Background(), "xylophone", testKB())
	require.NoError(t, err)
	assert.Equal(t, "I could not find any relevant information matching your search.", res.Answer)
	assert.Empty(t, res.Sources)
	assert.Empty(t, gen.Prompts)
}

func TestService_Search(t *testing.T) {
	gen := &testutil.Generator{Text: "Plants use chlorophyll to absorb light."}
	svc := NewService(gen)

	res, err := svc.Search(context.Background(), "Photosynthesis", testKB())
	require.NoError(t, err)
	assert.Equal(t, gen.Text, res.Answer)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, Source{Name: "Photosynthesis", Type: "Lecture"}, res.Sources[0])

	// the prompt carries the retrieved context, nothing else
	require.Len(t, gen.Prompts, 1)
	assert.Contains(t, gen.Prompts[0], "Source (Lecture): Photosynthesis")
	assert.Contains(t, gen.Prompts[0], "Chlorophyll absorbs light")
	assert.NotContains(t, gen.Prompts[0], "River Pollution")
}

func TestService_Search_multipleSources(t *testing.T) {
	gen := &testutil.Generator{Text: "answer"}
	svc := NewService(gen)

	// OR semantics over keywords; scan order is quizzes, lectures,
	// case studies, shared content, FAQs
	res, err := svc.Search(context.Background(), "cells pollution", testKB())
	require.NoError(t, err)
	require.Len(t, res.Sources, 2)
	assert.Equal(t, Source{Name: "River Pollution", Type: "Case Study"}, res.Sources[0])
	assert.Equal(t, Source{Name: "Syllabus", Type: "Shared Content"}, res.Sources[1])
}

func TestService_Search_generatorDown(t *testing.T) {
	gen := &testutil.Generator{Err: errors.New("boom")}
	svc := NewService(gen)

	_, err := svc.Search(context.Background(), "Algebra", testKB())
	assert.Equal(t, ErrAssistantUnavailable, err)
}

func TestQuery_Validate(t *testing.T) {
	q := Query{Query: "  what is photosynthesis  "}
	require.NoError(t, q.Validate())
	assert.Equal(t, "what is photosynthesis", q.Query)
}
