package user

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
)

// Roles
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

var AllRoles = []string{RoleTeacher, RoleStudent}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	ClassCode    string    `json:"class_code,omitempty"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// HasClassroom reports whether the user is bound to a classroom yet.
// Teachers always are; students only after joining one.
func (u *User) HasClassroom() bool { return u.ClassCode != "" }

// NewUser contains information needed to sign up a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Role            string `json:"role" validate:"required,oneof=teacher student"`
	Password        string `json:"password" validate:"required,strongpwd"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	if err := checkPasswordSimilarity(nu.Password, nu.Name, nu.Email); err != nil {
		return err
	}
	return svc.checkEmailUniqueness(nu.Email)
}

// Credentials is a login request. Role must match the role the email
// registered with; a user's role is immutable after signup.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=teacher student"`
}

func (c *Credentials) Validate() error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return core.Validate.Struct(c)
}

// JoinClass binds an unassigned student to a classroom.
type JoinClass struct {
	Code string `json:"code" validate:"required,classcode"`
}

func (jc *JoinClass) Validate() error {
	jc.Code = strings.ToUpper(core.CleanString(jc.Code))
	return core.Validate.Struct(jc)
}
