package attendance

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("attendance session not found")

type (
	Repository interface {
		CreateSession(ctx context.Context, sess Session) (Session, error)
		UpdateSession(ctx context.Context, sess Session) (Session, error)
		QuerySessionsByClassCode(ctx context.Context, classCode string) ([]Session, error)
		QueryAllSessions(ctx context.Context) ([]Session, error)
	}

	// Service is the per-classroom session state machine: a classroom is
	// either in NoActiveSession or ActiveSession(day); all transitions go
	// through Start/Stop/CheckIn.
	Service struct {
		repo Repository
		now  func() time.Time
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Start opens attendance-taking for a classroom. Any other active session
// for the class is deactivated first; if a session already exists for
// today's date it is reactivated with its records preserved, otherwise a
// new empty session is created for today.
func (svc *Service) Start(ctx context.Context, classCode string) (Session, error) {
	today := svc.now().Format(DateLayout)

	sessions, err := svc.repo.QuerySessionsByClassCode(ctx, classCode)
	if err != nil {
		return Session{}, err
	}

	var todays *Session
	for i := range sessions {
		if sessions[i].IsActive && sessions[i].Date != today {
			sessions[i].IsActive = false
			if _, err := svc.repo.UpdateSession(ctx, sessions[i]); err != nil {
				return Session{}, err
			}
		}
		if sessions[i].Date == today {
			todays = &sessions[i]
		}
	}

	if todays != nil {
		todays.IsActive = true
		return svc.repo.UpdateSession(ctx, *todays)
	}

	sess := Session{
		ID:        uuid.New().String(),
		Date:      today,
		IsActive:  true,
		ClassCode: classCode,
		Records:   []Record{},
	}
	return svc.repo.CreateSession(ctx, sess)
}

// Stop deactivates the classroom's active session, if any. Stopping an
// already-stopped classroom is a no-op.
func (svc *Service) Stop(ctx context.Context, classCode string) error {
	sess, ok, err := svc.Active(ctx, classCode)
	if err != nil || !ok {
		return err
	}
	sess.IsActive = false
	_, err = svc.repo.UpdateSession(ctx, sess)
	return err
}

// CheckIn records a student's presence in the classroom's active session.
// A second check-in by the same student is a no-op, and a check-in with no
// active session is silently rejected: neither changes any state.
func (svc *Service) CheckIn(ctx context.Context, classCode, studentName string) error {
	sess, ok, err := svc.Active(ctx, classCode)
	if err != nil || !ok {
		return err
	}
	if sess.HasRecord(studentName) {
		return nil
	}
	sess.Records = append(sess.Records, Record{
		StudentName: studentName,
		Timestamp:   svc.now().UTC(),
	})
	_, err = svc.repo.UpdateSession(ctx, sess)
	return err
}

// Active returns the classroom's single active session, if any.
func (svc *Service) Active(ctx context.Context, classCode string) (Session, bool, error) {
	sessions, err := svc.repo.QuerySessionsByClassCode(ctx, classCode)
	if err != nil {
		return Session{}, false, err
	}
	for _, sess := range sessions {
		if sess.IsActive {
			return sess, true, nil
		}
	}
	return Session{}, false, nil
}

// History returns the classroom's non-active sessions, most recent date first.
func (svc *Service) History(ctx context.Context, classCode string) ([]Session, error) {
	sessions, err := svc.repo.QuerySessionsByClassCode(ctx, classCode)
	if err != nil {
		return nil, err
	}
	history := make([]Session, 0, len(sessions))
	for _, sess := range sessions {
		if !sess.IsActive {
			history = append(history, sess)
		}
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Date > history[j].Date })
	return history, nil
}

// StudentHistory returns every session, across all classes and time,
// holding a record for the student, most recent date first.
func (svc *Service) StudentHistory(ctx context.Context, studentName string) ([]Session, error) {
	sessions, err := svc.repo.QueryAllSessions(ctx)
	if err != nil {
		return nil, err
	}
	history := make([]Session, 0)
	for _, sess := range sessions {
		if sess.HasRecord(studentName) {
			history = append(history, sess)
		}
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Date > history[j].Date })
	return history, nil
}
