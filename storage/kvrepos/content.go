package kvrepos

import (
	"context"
	"sync"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/storage/kv"
)

type contentRepository struct {
	mu       sync.RWMutex
	store    kv.Store
	shared   []content.SharedContent
	lectures []content.GeneratedLecture
	studies  []content.CaseStudy
}

var _ content.Repository = (*contentRepository)(nil)

func NewContentRepository(store kv.Store, logger core.Logger) *contentRepository {
	repo := &contentRepository{store: store}
	var shared []content.SharedContent
	if load(store, keySharedContent, logger, &shared) {
		repo.shared = shared
	}
	var lectures []content.GeneratedLecture
	if load(store, keyLectures, logger, &lectures) {
		repo.lectures = lectures
	}
	var studies []content.CaseStudy
	if load(store, keyCaseStudies, logger, &studies) {
		repo.studies = studies
	}
	return repo
}

func (repo *contentRepository) CreateSharedContent(_ context.Context, sc content.SharedContent) (content.SharedContent, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	// newest first, matching how shares are presented
	shared := append([]content.SharedContent{sc}, repo.shared...)
	if err := save(repo.store, keySharedContent, shared); err != nil {
		return content.SharedContent{}, err
	}
	repo.shared = shared
	return sc, nil
}

func (repo *contentRepository) GetSharedContentByID(_ context.Context, id string) (content.SharedContent, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, sc := range repo.shared {
		if sc.ID == id {
			return sc, nil
		}
	}
	return content.SharedContent{}, content.ErrNotFound
}

func (repo *contentRepository) QuerySharedContentByClassCode(_ context.Context, classCode string) ([]content.SharedContent, error) {
	shared := make([]content.SharedContent, 0)
	if classCode == "" {
		return shared, nil
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()
	for _, sc := range repo.shared {
		if sc.ClassCode == classCode {
			shared = append(shared, sc)
		}
	}
	return shared, nil
}

func (repo *contentRepository) UpdateSharedContent(_ context.Context, sc content.SharedContent) (content.SharedContent, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	shared := append([]content.SharedContent(nil), repo.shared...)
	for i := range shared {
		if shared[i].ID == sc.ID {
			shared[i] = sc
			if err := save(repo.store, keySharedContent, shared); err != nil {
				return content.SharedContent{}, err
			}
			repo.shared = shared
			return sc, nil
		}
	}
	return content.SharedContent{}, content.ErrNotFound
}

func (repo *contentRepository) DeleteSharedContentByID(_ context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	shared := make([]content.SharedContent, 0, len(repo.shared))
	for _, sc := range repo.shared {
		if !drop[sc.ID] {
			shared = append(shared, sc)
		}
	}
	if err := save(repo.store, keySharedContent, shared); err != nil {
		return err
	}
	repo.shared = shared
	return nil
}

func (repo *contentRepository) CreateLecture(_ context.Context, lec content.GeneratedLecture) (content.GeneratedLecture, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	lectures := append(append([]content.GeneratedLecture(nil), repo.lectures...), lec)
	if err := save(repo.store, keyLectures, lectures); err != nil {
		return content.GeneratedLecture{}, err
	}
	repo.lectures = lectures
	return lec, nil
}

func (repo *contentRepository) QueryLecturesByClassCode(_ context.Context, classCode string) ([]content.GeneratedLecture, error) {
	lectures := make([]content.GeneratedLecture, 0)
	if classCode == "" {
		return lectures, nil
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()
	for _, lec := range repo.lectures {
		if lec.ClassCode == classCode {
			lectures = append(lectures, lec)
		}
	}
	return lectures, nil
}

func (repo *contentRepository) CreateCaseStudy(_ context.Context, cs content.CaseStudy) (content.CaseStudy, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	studies := append(append([]content.CaseStudy(nil), repo.studies...), cs)
	if err := save(repo.store, keyCaseStudies, studies); err != nil {
		return content.CaseStudy{}, err
	}
	repo.studies = studies
	return cs, nil
}

func (repo *contentRepository) QueryCaseStudiesByClassCode(_ context.Context, classCode string) ([]content.CaseStudy, error) {
	studies := make([]content.CaseStudy, 0)
	if classCode == "" {
		return studies, nil
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()
	for _, cs := range repo.studies {
		if cs.ClassCode == classCode {
			studies = append(studies, cs)
		}
	}
	return studies, nil
}
