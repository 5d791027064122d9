package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/classroom"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrEmailExists  = errors.New("a user with this email already exists")
	ErrRoleMismatch = errors.New("this email is registered with a different role")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		QueryUsersByClassCode(ctx context.Context, code string) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo    Repository
		roomSvc *classroom.Service
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, roomSvc *classroom.Service, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		roomSvc: roomSvc,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *Service) checkEmailUniqueness(email string) error {
	if _, err := svc.repo.GetUserByEmail(context.Background(), email); err == nil {
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if err != ErrNotFound {
		return err
	}
	return nil
}

// Register signs up a new user. Teachers get a freshly created classroom and
// its code; students start unassigned and must join a classroom afterwards.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:        uuid.New().String(),
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}

	if usr.IsTeacher() {
		room, err := svc.roomSvc.Create(ctx, usr.Email)
		if err != nil {
			return User{}, errors.Wrap(err, "creating classroom")
		}
		usr.ClassCode = room.Code
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}

	svc.sendWelcomeEmail(usr)
	return usr, nil
}

// Authenticate verifies credentials. Logging in with a role other than the
// one the email registered with is rejected: roles are immutable.
func (svc *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		return User{}, err
	}
	if usr.Role != creds.Role {
		return User{}, core.NewValidationError(
			ErrRoleMismatch,
			core.FieldError{Field: "role", Error: fmt.Sprintf("you have already registered as a %s", usr.Role)},
		)
	}
	if err = usr.CheckPassword(creds.Password); err != nil {
		return User{}, ErrNotFound
	}
	return svc.SetLastLogin(ctx, usr)
}

// JoinClass binds a student to an existing classroom.
func (svc *Service) JoinClass(ctx context.Context, usr User, code string) (User, error) {
	if _, err := svc.roomSvc.GetByCode(ctx, code); err != nil {
		if err == classroom.ErrNotFound {
			return User{}, core.NewValidationError(err, core.FieldError{Field: "code", Error: "invalid class code"})
		}
		return User{}, err
	}
	usr.ClassCode = code
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

// QueryClassmates returns all users bound to the given classroom.
func (svc *Service) QueryClassmates(ctx context.Context, classCode string) ([]User, error) {
	return svc.repo.QueryUsersByClassCode(ctx, classCode)
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Welcome to " + svc.conf.AppName,
		TemplateName: "welcome",
		TemplateData: struct {
			Name      string
			Role      string
			ClassCode string
		}{usr.Name, usr.Role, usr.ClassCode},
	})
}
