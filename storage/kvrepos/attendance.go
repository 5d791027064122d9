package kvrepos

import (
	"context"
	"sync"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/storage/kv"
)

type attendanceRepository struct {
	mu       sync.RWMutex
	store    kv.Store
	sessions []attendance.Session
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(store kv.Store, logger core.Logger) *attendanceRepository {
	repo := &attendanceRepository{store: store}
	var sessions []attendance.Session
	if load(store, keyAttendance, logger, &sessions) {
		repo.sessions = sessions
	}
	return repo
}

func (repo *attendanceRepository) CreateSession(_ context.Context, sess attendance.Session) (attendance.Session, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	sessions := append(append([]attendance.Session(nil), repo.sessions...), sess)
	if err := save(repo.store, keyAttendance, sessions); err != nil {
		return attendance.Session{}, err
	}
	repo.sessions = sessions
	return sess, nil
}

func (repo *attendanceRepository) UpdateSession(_ context.Context, sess attendance.Session) (attendance.Session, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	sessions := append([]attendance.Session(nil), repo.sessions...)
	for i := range sessions {
		if sessions[i].ID == sess.ID {
			sessions[i] = sess
			if err := save(repo.store, keyAttendance, sessions); err != nil {
				return attendance.Session{}, err
			}
			repo.sessions = sessions
			return sess, nil
		}
	}
	return attendance.Session{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) QuerySessionsByClassCode(_ context.Context, classCode string) ([]attendance.Session, error) {
	sessions := make([]attendance.Session, 0)
	if classCode == "" {
		return sessions, nil
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()
	for _, sess := range repo.sessions {
		if sess.ClassCode == classCode {
			sessions = append(sessions, sess)
		}
	}
	return sessions, nil
}

func (repo *attendanceRepository) QueryAllSessions(_ context.Context) ([]attendance.Session, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return append([]attendance.Session(nil), repo.sessions...), nil
}
