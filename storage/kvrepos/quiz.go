package kvrepos

import (
	"context"
	"sync"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/quiz"
	"github.com/trezcool/darasa/storage/kv"
)

type quizRepository struct {
	mu      sync.RWMutex
	store   kv.Store
	quizzes []quiz.Quiz
	subs    []quiz.Submission
}

var _ quiz.Repository = (*quizRepository)(nil)

func NewQuizRepository(store kv.Store, logger core.Logger) *quizRepository {
	repo := &quizRepository{store: store}
	var quizzes []quiz.Quiz
	if load(store, keyQuizzes, logger, &quizzes) {
		repo.quizzes = quizzes
	}
	var subs []quiz.Submission
	if load(store, keySubmissions, logger, &subs) {
		repo.subs = subs
	}
	return repo
}

func (repo *quizRepository) CreateQuiz(_ context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	quizzes := append(append([]quiz.Quiz(nil), repo.quizzes...), qz)
	if err := save(repo.store, keyQuizzes, quizzes); err != nil {
		return quiz.Quiz{}, err
	}
	repo.quizzes = quizzes
	return qz, nil
}

func (repo *quizRepository) GetQuizByID(_ context.Context, id string) (quiz.Quiz, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, qz := range repo.quizzes {
		if qz.ID == id {
			return qz, nil
		}
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) QueryQuizzesByClassCode(_ context.Context, classCode string) ([]quiz.Quiz, error) {
	quizzes := make([]quiz.Quiz, 0)
	if classCode == "" {
		return quizzes, nil
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()
	for _, qz := range repo.quizzes {
		if qz.ClassCode == classCode {
			quizzes = append(quizzes, qz)
		}
	}
	return quizzes, nil
}

func (repo *quizRepository) UpdateQuiz(_ context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	quizzes := append([]quiz.Quiz(nil), repo.quizzes...)
	for i := range quizzes {
		if quizzes[i].ID == qz.ID {
			quizzes[i] = qz
			if err := save(repo.store, keyQuizzes, quizzes); err != nil {
				return quiz.Quiz{}, err
			}
			repo.quizzes = quizzes
			return qz, nil
		}
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) DeleteQuizzesByID(_ context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	quizzes := make([]quiz.Quiz, 0, len(repo.quizzes))
	for _, qz := range repo.quizzes {
		if !drop[qz.ID] {
			quizzes = append(quizzes, qz)
		}
	}
	if err := save(repo.store, keyQuizzes, quizzes); err != nil {
		return err
	}
	repo.quizzes = quizzes
	return nil
}

func (repo *quizRepository) CreateSubmission(_ context.Context, sub quiz.Submission) (quiz.Submission, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	subs := append(append([]quiz.Submission(nil), repo.subs...), sub)
	if err := save(repo.store, keySubmissions, subs); err != nil {
		return quiz.Submission{}, err
	}
	repo.subs = subs
	return sub, nil
}

func (repo *quizRepository) QuerySubmissionsByClassCode(_ context.Context, classCode string) ([]quiz.Submission, error) {
	subs := make([]quiz.Submission, 0)
	if classCode == "" {
		return subs, nil
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()
	for _, sub := range repo.subs {
		if sub.ClassCode == classCode {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func (repo *quizRepository) QuerySubmissionsByQuizID(_ context.Context, quizID string) ([]quiz.Submission, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	subs := make([]quiz.Submission, 0)
	for _, sub := range repo.subs {
		if sub.QuizID == quizID {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}
