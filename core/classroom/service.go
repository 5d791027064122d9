package classroom

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotFound   = errors.New("classroom not found")
	ErrCodeExists = errors.New("a classroom with this code already exists")
)

type (
	Repository interface {
		CreateClassroom(ctx context.Context, room Classroom) (Classroom, error)
		GetClassroomByCode(ctx context.Context, code string) (Classroom, error)
		QueryAllClassrooms(ctx context.Context) ([]Classroom, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create makes a new classroom for a teacher, regenerating the code until
// it does not collide with an existing one.
func (svc *Service) Create(ctx context.Context, teacherEmail string) (Classroom, error) {
	for {
		code := GenerateCode()
		if _, err := svc.repo.GetClassroomByCode(ctx, code); err == nil {
			continue // collision; try again
		} else if err != ErrNotFound {
			return Classroom{}, err
		}

		room := Classroom{
			Code:         code,
			TeacherEmail: teacherEmail,
			CreatedAt:    time.Now().UTC(),
		}
		room, err := svc.repo.CreateClassroom(ctx, room)
		if err == ErrCodeExists {
			continue
		}
		return room, err
	}
}

func (svc *Service) GetByCode(ctx context.Context, code string) (Classroom, error) {
	return svc.repo.GetClassroomByCode(ctx, code)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Classroom, error) {
	return svc.repo.QueryAllClassrooms(ctx)
}
