package content_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/storage/kv"
	"github.com/trezcool/darasa/storage/kvrepos"
	testutil "github.com/trezcool/darasa/tests"
)

func setup(t *testing.T, gen core.TextGenerator, extractor core.DocumentExtractor) *content.Service {
	t.Helper()
	testutil.InitValidators()
	repo := kvrepos.NewContentRepository(kv.NewMemStore(), testutil.NewLogger())
	return content.NewService(repo, gen, extractor, testutil.NewLogger())
}

func TestNewSharedContent_Validate(t *testing.T) {
	testutil.InitValidators()

	tests := []struct {
		name    string
		nc      content.NewSharedContent
		wantErr bool
	}{
		{name: "text ok", nc: content.NewSharedContent{Kind: "text", Title: "Notes", Body: "hello"}},
		{
			name: "file ok",
			nc:   content.NewSharedContent{Kind: "file", Title: "Slides", Data: []byte("x"), FileName: "slides.pdf", MimeType: "application/pdf"},
		},
		{
			name: "image ok",
			nc:   content.NewSharedContent{Kind: "image", Title: "Diagram", Data: []byte("x"), FileName: "d.png", MimeType: "image/png"},
		},
		{name: "kind normalized", nc: content.NewSharedContent{Kind: " TEXT ", Title: "Notes", Body: "hello"}},
		{name: "unknown kind", nc: content.NewSharedContent{Kind: "video", Title: "Clip"}, wantErr: true},
		{name: "missing title", nc: content.NewSharedContent{Kind: "text", Body: "hello"}, wantErr: true},
		{name: "text without body", nc: content.NewSharedContent{Kind: "text", Title: "Notes"}, wantErr: true},
		{
			name:    "text with file fields",
			nc:      content.NewSharedContent{Kind: "text", Title: "Notes", Body: "hello", FileName: "x.pdf"},
			wantErr: true,
		},
		{name: "file without data", nc: content.NewSharedContent{Kind: "file", Title: "Slides"}, wantErr: true},
		{
			name:    "file with body",
			nc:      content.NewSharedContent{Kind: "file", Title: "Slides", Data: []byte("x"), FileName: "s.pdf", MimeType: "application/pdf", Body: "nope"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nc.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_AddContent(t *testing.T) {
	svc := setup(t, &testutil.Generator{}, &testutil.Extractor{})

	sc, err := svc.AddContent(context.Background(), "ABC123", content.NewSharedContent{
		Kind: content.KindText, Title: "Notes", Description: "Week 1", Body: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "ABC123", sc.ClassCode)
	require.NotNil(t, sc.Text)
	assert.Equal(t, "hello", sc.Text.Body)
	assert.Nil(t, sc.File)

	img, err := svc.AddContent(context.Background(), "ABC123", content.NewSharedContent{
		Kind: content.KindImage, Title: "Diagram", Data: []byte("png-bytes"), FileName: "d.png", MimeType: "image/png",
	})
	require.NoError(t, err)
	require.NotNil(t, img.File)
	assert.Equal(t, "d.png", img.File.Name)
	assert.Nil(t, img.Text)

	// newest first
	all, err := svc.QueryContentByClass(context.Background(), "ABC123")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, img.ID, all[0].ID)
}

func TestService_UpdateContent(t *testing.T) {
	svc := setup(t, &testutil.Generator{}, &testutil.Extractor{})

	sc, err := svc.AddContent(context.Background(), "ABC123", content.NewSharedContent{
		Kind: content.KindText, Title: "Notes", Body: "hello",
	})
	require.NoError(t, err)

	got, err := svc.UpdateContent(context.Background(), sc.ID, content.UpdateSharedContent{
		Title: "Notes v2", Description: "updated", Body: "bye",
	})
	require.NoError(t, err)
	assert.Equal(t, "Notes v2", got.Title)
	assert.Equal(t, content.KindText, got.Kind, "the kind cannot change")
	assert.Equal(t, "bye", got.Text.Body)

	_, err = svc.UpdateContent(context.Background(), "nope", content.UpdateSharedContent{Title: "x"})
	assert.Equal(t, content.ErrNotFound, err)
}

func TestService_DeleteContent(t *testing.T) {
	svc := setup(t, &testutil.Generator{}, &testutil.Extractor{})

	sc1, err := svc.AddContent(context.Background(), "ABC123", content.NewSharedContent{Kind: content.KindText, Title: "One", Body: "a"})
	require.NoError(t, err)
	sc2, err := svc.AddContent(context.Background(), "ABC123", content.NewSharedContent{Kind: content.KindText, Title: "Two", Body: "b"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteContent(context.Background(), sc1.ID))

	all, err := svc.QueryContentByClass(context.Background(), "ABC123")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, sc2.ID, all[0].ID)
}

func TestService_ExtractFileText(t *testing.T) {
	svc := setup(t, &testutil.Generator{}, &testutil.Extractor{Text: "extracted file text"})

	// text shares skip the converter
	text, err := svc.ExtractFileText(context.Background(), content.SharedContent{
		Kind: content.KindText, Text: &content.TextPayload{Body: "plain body"},
	})
	require.NoError(t, err)
	assert.Equal(t, "plain body", text)

	text, err = svc.ExtractFileText(context.Background(), content.SharedContent{
		Kind: content.KindFile, File: &content.FilePayload{Data: []byte("x"), MimeType: "application/pdf"},
	})
	require.NoError(t, err)
	assert.Equal(t, "extracted file text", text)

	// a text share whose payload went missing (eg. a hand-edited blob) must
	// error out, not panic
	_, err = svc.ExtractFileText(context.Background(), content.SharedContent{Kind: content.KindText})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestService_GenerateLecture(t *testing.T) {
	gen := &testutil.Generator{
		JSON: `{"slides": [
			{"title": "Intro", "points": ["What is it", "Why it matters"]},
			{"title": "Details", "points": ["How it works"]}
		]}`,
	}
	svc := setup(t, gen, &testutil.Extractor{})

	lec, err := svc.GenerateLecture(context.Background(), "ABC123", content.GenerateLectureRequest{
		Topic: "Photosynthesis", Outline: "light reactions, dark reactions",
	})
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis", lec.Topic)
	assert.Equal(t, "ABC123", lec.ClassCode)
	assert.Len(t, lec.Slides, 2)
	assert.Contains(t, gen.Prompts[0], "light reactions, dark reactions")

	lectures, err := svc.QueryLecturesByClass(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Len(t, lectures, 1)
}

func TestService_GenerateLecture_emptySlides(t *testing.T) {
	svc := setup(t, &testutil.Generator{JSON: `{"slides": []}`}, &testutil.Extractor{})

	_, err := svc.GenerateLecture(context.Background(), "ABC123", content.GenerateLectureRequest{
		Topic: "Anything", Outline: "anything",
	})
	assert.Equal(t, core.ErrGenerationFailed, err)
}

func TestService_LectureText(t *testing.T) {
	svc := setup(t, &testutil.Generator{}, &testutil.Extractor{})

	text := svc.LectureText(content.GeneratedLecture{
		Topic: "Photosynthesis",
		Slides: []content.Slide{
			{Title: "Intro", Points: []string{"a", "b"}},
			{Title: "Details", Points: []string{"c"}},
		},
	})
	assert.Equal(t, "Photosynthesis\nIntro\na\nb\nDetails\nc", text)
}

func TestService_GenerateCaseStudy(t *testing.T) {
	gen := &testutil.Generator{
		JSON: `{"title": "River Pollution", "introduction": "A factory", "problem": "Fish dying", "solution": "Filters", "conclusion": "Regulation"}`,
	}
	svc := setup(t, gen, &testutil.Extractor{})

	cs, err := svc.GenerateCaseStudy(context.Background(), "ABC123", content.GenerateCaseStudyRequest{Outline: "water pollution"})
	require.NoError(t, err)
	assert.Equal(t, "River Pollution", cs.Title)
	assert.Equal(t, "ABC123", cs.ClassCode)
	assert.NotEmpty(t, cs.ID)

	studies, err := svc.QueryCaseStudiesByClass(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Len(t, studies, 1)
}

func TestService_GenerateCaseStudy_missingField(t *testing.T) {
	gen := &testutil.Generator{
		JSON: `{"title": "River Pollution", "introduction": "A factory", "problem": "Fish dying", "solution": "Filters"}`,
	}
	svc := setup(t, gen, &testutil.Extractor{})

	_, err := svc.GenerateCaseStudy(context.Background(), "ABC123", content.GenerateCaseStudyRequest{Outline: "water pollution"})
	assert.Equal(t, core.ErrGenerationFailed, err)
}

func TestService_textHelpers(t *testing.T) {
	gen := &testutil.Generator{Text: "a canned reply"}
	svc := setup(t, gen, &testutil.Extractor{})

	reply, err := svc.Summarize(context.Background(), "long text")
	require.NoError(t, err)
	assert.Equal(t, "a canned reply", reply)

	reply, err = svc.Translate(context.Background(), "hello", "French")
	require.NoError(t, err)
	assert.Equal(t, "a canned reply", reply)
	assert.Contains(t, gen.Prompts[1], "French")

	reply, err = svc.Explain(context.Background(), "what is gravity?")
	require.NoError(t, err)
	assert.Equal(t, "a canned reply", reply)

	reply, err = svc.DescribeImage(context.Background(), []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "a canned reply", reply)
}

func TestService_textHelpers_failure(t *testing.T) {
	svc := setup(t, &testutil.Generator{Err: errors.New("boom")}, &testutil.Extractor{})

	_, err := svc.Summarize(context.Background(), "text")
	assert.Equal(t, core.ErrGenerationFailed, err)

	_, err = svc.DescribeImage(context.Background(), []byte("png"), "image/png")
	assert.Equal(t, core.ErrGenerationFailed, err)
}
