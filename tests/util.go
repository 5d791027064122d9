package testutil

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/classroom"
	"github.com/trezcool/darasa/core/quiz"
	"github.com/trezcool/darasa/core/user"
)

var (
	validatorsOnce sync.Once
	validate       *validator.Validate
	translator     ut.Translator
)

// NewConfig returns a self-contained test configuration; nothing is read
// from the environment.
func NewConfig() *core.Config {
	conf := &core.Config{
		Debug:            true,
		TestMode:         true,
		Env:              "TEST",
		Build:            "test",
		AppName:          "Darasa",
		SecretKey:        "t3st-0nly-s3cr3t-k3y",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: "noreply@test.cd",
	}
	conf.Server.JWTExpirationDelta = time.Hour
	conf.Server.ShutdownTimeout = time.Second
	conf.Storage.Engine = "memory"
	conf.WorkDir = rootDir()
	return conf
}

// rootDir finds the project root (the dir holding go.mod) so email templates
// resolve regardless of which package's tests are running.
func rootDir() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	for dir := wd; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return wd
		}
		dir = parent
	}
}

// InitValidators registers the app validators once for all tests and
// returns them for injection.
func InitValidators() (*validator.Validate, ut.Translator) {
	validatorsOnce.Do(func() {
		validate = validator.New()
		_en := en.New()
		uni := ut.New(_en, _en)
		translator, _ = uni.GetTranslator("en")
		core.InitValidators(validate, translator)
	})
	return validate, translator
}

// Logger is a plain stdout core.Logger.
type Logger struct {
	std *log.Logger
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger {
	return &Logger{std: log.New(os.Stdout, "TEST : ", log.LstdFlags)}
}

func (l Logger) Enable(bool)                           {}
func (l Logger) Debug(msg string, args ...interface{}) { l.std.Println(msg) }
func (l Logger) Info(msg string, args ...interface{})  { l.std.Println(msg) }
func (l Logger) Warn(msg string, args ...interface{})  { l.std.Println(msg) }
func (l Logger) Error(msg string, args ...interface{}) { l.std.Println(msg) }
func (l Logger) Fatal(msg string, args ...interface{}) { l.std.Fatal(msg) }

// Generator is a canned core.TextGenerator. Text answers GenerateText and
// DescribeImage; JSON is unmarshalled by GenerateJSON. Prompts records every
// prompt received.
type Generator struct {
	Text    string
	JSON    string
	Err     error
	Prompts []string
}

var _ core.TextGenerator = (*Generator)(nil)

func (g *Generator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.Prompts = append(g.Prompts, prompt)
	return g.Text, g.Err
}

func (g *Generator) GenerateJSON(_ context.Context, prompt string, _ core.Schema, out interface{}) error {
	g.Prompts = append(g.Prompts, prompt)
	if g.Err != nil {
		return g.Err
	}
	return json.Unmarshal([]byte(g.JSON), out)
}

func (g *Generator) DescribeImage(_ context.Context, prompt string, _ []byte, _ string) (string, error) {
	g.Prompts = append(g.Prompts, prompt)
	return g.Text, g.Err
}

// Extractor is a canned core.DocumentExtractor.
type Extractor struct {
	Text string
	Err  error
}

var _ core.DocumentExtractor = (*Extractor)(nil)

func (e *Extractor) ExtractText(_ context.Context, _ []byte, _ string) (string, error) {
	return e.Text, e.Err
}

// Fixtures

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd, role, classCode string) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Role:      role,
		ClassCode: classCode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateClassroom(t *testing.T, repo classroom.Repository, code, teacherEmail string) classroom.Classroom {
	t.Helper()
	room, err := repo.CreateClassroom(context.Background(), classroom.Classroom{
		Code:         code,
		TeacherEmail: teacherEmail,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateClassroom() failed: %v", err)
	}
	return room
}

func CreateQuiz(t *testing.T, repo quiz.Repository, classCode, topic string, questions ...quiz.Question) quiz.Quiz {
	t.Helper()
	if len(questions) == 0 {
		questions = []quiz.Question{
			{Text: "What is 1+1?", Options: []string{"1", "2", "3", "4"}, CorrectIndex: 1},
			{Text: "What is 2+2?", Options: []string{"2", "3", "4", "5"}, CorrectIndex: 2},
		}
	}
	qz, err := repo.CreateQuiz(context.Background(), quiz.Quiz{
		ID:        uuid.New().String(),
		Topic:     topic,
		ClassCode: classCode,
		Questions: questions,
	})
	if err != nil {
		t.Fatalf("CreateQuiz() failed: %v", err)
	}
	return qz
}
