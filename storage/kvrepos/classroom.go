package kvrepos

import (
	"context"
	"sync"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/classroom"
	"github.com/trezcool/darasa/storage/kv"
)

type classroomRepository struct {
	mu    sync.RWMutex
	store kv.Store
	rooms []classroom.Classroom
}

var _ classroom.Repository = (*classroomRepository)(nil)

func NewClassroomRepository(store kv.Store, logger core.Logger) *classroomRepository {
	repo := &classroomRepository{store: store}
	var rooms []classroom.Classroom
	if load(store, keyClassrooms, logger, &rooms) {
		repo.rooms = rooms
	}
	return repo
}

func (repo *classroomRepository) CreateClassroom(_ context.Context, room classroom.Classroom) (classroom.Classroom, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, r := range repo.rooms {
		if r.Code == room.Code {
			return classroom.Classroom{}, classroom.ErrCodeExists
		}
	}

	rooms := append(append([]classroom.Classroom(nil), repo.rooms...), room)
	if err := save(repo.store, keyClassrooms, rooms); err != nil {
		return classroom.Classroom{}, err
	}
	repo.rooms = rooms
	return room, nil
}

func (repo *classroomRepository) GetClassroomByCode(_ context.Context, code string) (classroom.Classroom, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, room := range repo.rooms {
		if room.Code == code {
			return room, nil
		}
	}
	return classroom.Classroom{}, classroom.ErrNotFound
}

func (repo *classroomRepository) QueryAllClassrooms(_ context.Context) ([]classroom.Classroom, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return append([]classroom.Classroom(nil), repo.rooms...), nil
}
