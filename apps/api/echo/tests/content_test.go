package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/user"
	testutil "github.com/trezcool/darasa/tests"
)

func Test_contentApi_sharedContent(t *testing.T) {
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "cteach1@test.cd", "", user.RoleTeacher, "CNT123")
	student := testutil.CreateUser(t, usrRepo, "Jerry", "cstud1@test.cd", "", user.RoleStudent, "CNT123")

	var sc content.SharedContent

	t.Run("students may not share", func(t *testing.T) {
		body := marchallObj(t, content.NewSharedContent{Kind: "text", Title: "Notes", Body: "hello"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/content", getToken(t, student), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("create", func(t *testing.T) {
		body := marchallObj(t, content.NewSharedContent{Kind: "text", Title: "Notes", Description: "Week 1", Body: "hello"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/content", getToken(t, teacher), body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusCreated)
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &sc); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if sc.ID == "" || sc.ClassCode != "CNT123" || sc.Text == nil || sc.Text.Body != "hello" {
			t.Errorf("failed! unexpected content %+v", sc)
		}
	})

	t.Run("invalid payload", func(t *testing.T) {
		body := marchallObj(t, content.NewSharedContent{Kind: "text", Title: "Notes"}) // no body
		req, rec := newAuthRequest(http.MethodPost, "/v1/content", getToken(t, teacher), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"body": "this field is required"}),
		}, rec)
	})

	t.Run("query", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/content", getToken(t, student))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, sc)}, rec)
	})

	t.Run("update", func(t *testing.T) {
		body := marchallObj(t, content.UpdateSharedContent{Title: "Notes v2", Body: "bye"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/content/"+sc.ID, getToken(t, teacher), body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var got content.SharedContent
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if got.Title != "Notes v2" || got.Text.Body != "bye" || got.Kind != content.KindText {
			t.Errorf("failed! unexpected content %+v", got)
		}
		sc = got
	})

	t.Run("extract text", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/content/"+sc.ID+"/text", getToken(t, teacher))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.TextResponse{Text: "bye"}),
		}, rec)
	})

	t.Run("analyze rejects non-images", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/content/"+sc.ID+"/analyze", getToken(t, student))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"kind": "only image content can be analyzed"}),
		}, rec)
	})

	t.Run("analyze image", func(t *testing.T) {
		gen.Err = nil
		gen.Text = "A diagram of a plant cell."

		body := marchallObj(t, content.NewSharedContent{
			Kind: "image", Title: "Diagram", Data: []byte("png-bytes"), FileName: "d.png", MimeType: "image/png",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/content", getToken(t, teacher), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusCreated)
		}
		var img content.SharedContent
		if err := json.Unmarshal(rec.Body.Bytes(), &img); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}

		req, rec = newAuthRequest(http.MethodPost, "/v1/content/"+img.ID+"/analyze", getToken(t, student))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.TextResponse{Text: gen.Text}),
		}, rec)
	})

	t.Run("destroy", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/content/"+sc.ID, getToken(t, teacher))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusNoContent)
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/content/"+sc.ID, getToken(t, teacher))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})
}

func Test_contentApi_extractText_converterDown(t *testing.T) {
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "cteach4@test.cd", "", user.RoleTeacher, "EXT123")

	body := marchallObj(t, content.NewSharedContent{
		Kind: "file", Title: "Handout", Data: []byte("%PDF-1.4"), FileName: "h.pdf", MimeType: "application/pdf",
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/content", getToken(t, teacher), body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusCreated)
	}
	var sc content.SharedContent
	if err := json.Unmarshal(rec.Body.Bytes(), &sc); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}

	extractor.Err = core.ErrExtractionFailed
	defer func() { extractor.Err = nil }()

	req, rec = newAuthRequest(http.MethodGet, "/v1/content/"+sc.ID+"/text", getToken(t, teacher))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadGateway,
		wantData: marchallObj(t, httpErr{Error: core.ErrExtractionFailed.Error()}),
	}, rec)
}

func Test_contentApi_lectures(t *testing.T) {
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "cteach2@test.cd", "", user.RoleTeacher, "LEC123")
	student := testutil.CreateUser(t, usrRepo, "Jerry", "cstud2@test.cd", "", user.RoleStudent, "LEC123")

	t.Run("generate", func(t *testing.T) {
		gen.Err = nil
		gen.JSON = `{"slides": [{"title": "Intro", "points": ["a", "b"]}]}`

		body := marchallObj(t, content.GenerateLectureRequest{Topic: "Photosynthesis", Outline: "light reactions"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/content/lectures/generate", getToken(t, teacher), body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusCreated)
		}
		var lec content.GeneratedLecture
		if err := json.Unmarshal(rec.Body.Bytes(), &lec); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if lec.Topic != "Photosynthesis" || len(lec.Slides) != 1 {
			t.Errorf("failed! unexpected lecture %+v", lec)
		}
	})

	t.Run("students may query", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/content/lectures", getToken(t, student))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var lectures []content.GeneratedLecture
		if err := json.Unmarshal(rec.Body.Bytes(), &lectures); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(lectures) != 1 {
			t.Errorf("failed! len(lectures) = %d; want 1", len(lectures))
		}
	})
}

func Test_contentApi_aiHelpers(t *testing.T) {
	student := testutil.CreateUser(t, usrRepo, "Jerry", "cstud3@test.cd", "", user.RoleStudent, "AIH123")
	token := getToken(t, student)

	gen.Err = nil
	gen.Text = "a canned reply"
	reply := marchallObj(t, echoapi.TextResponse{Text: gen.Text})

	tests := []httpTest{
		{name: "summarize", path: "/v1/content/ai/summarize", body: marchallObj(t, content.SummarizeRequest{Text: "long text"}), wantData: reply},
		{name: "translate", path: "/v1/content/ai/translate", body: marchallObj(t, content.TranslateRequest{Text: "hello", Language: "French"}), wantData: reply},
		{name: "explain", path: "/v1/content/ai/explain", body: marchallObj(t, content.ExplainRequest{Question: "what is gravity?"}), wantData: reply},
		{
			name: "explain requires a question", path: "/v1/content/ai/explain", body: []byte("{}"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"question": "this field is required"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.token = token
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
