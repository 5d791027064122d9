package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/classroom"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	"github.com/trezcool/darasa/storage/kv"
	"github.com/trezcool/darasa/storage/kvrepos"
	testutil "github.com/trezcool/darasa/tests"
)

func setup(t *testing.T) (*user.Service, user.Repository, classroom.Repository) {
	t.Helper()
	testutil.InitValidators()
	conf := testutil.NewConfig()

	store := kv.NewMemStore()
	usrRepo := kvrepos.NewUserRepository(store, testutil.NewLogger())
	roomRepo := kvrepos.NewClassroomRepository(store, testutil.NewLogger())
	roomSvc := classroom.NewService(roomRepo)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	return user.NewService(usrRepo, roomSvc, mailSvc, conf), usrRepo, roomRepo
}

func TestNewUser_Validate(t *testing.T) {
	svc, usrRepo, _ := setup(t)
	testutil.CreateUser(t, usrRepo, "Taken", "taken@test.cd", "", user.RoleStudent, "")

	valid := user.NewUser{
		Name:            "Jane Doe",
		Email:           "jane@test.cd",
		Role:            user.RoleStudent,
		Password:        "Sup3r$trong",
		PasswordConfirm: "Sup3r$trong",
	}

	tests := []struct {
		name      string
		mutate    func(nu *user.NewUser)
		wantField string
	}{
		{name: "ok"},
		{name: "missing name", mutate: func(nu *user.NewUser) { nu.Name = " " }, wantField: "Name"},
		{name: "invalid email", mutate: func(nu *user.NewUser) { nu.Email = "lol" }, wantField: "Email"},
		{name: "unknown role", mutate: func(nu *user.NewUser) { nu.Role = "admin" }, wantField: "Role"},
		{name: "weak password", mutate: func(nu *user.NewUser) { nu.Password = "password"; nu.PasswordConfirm = "password" }, wantField: "Password"},
		{name: "password mismatch", mutate: func(nu *user.NewUser) { nu.PasswordConfirm = "0ther$trong1" }, wantField: "PasswordConfirm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := valid
			if tt.mutate != nil {
				tt.mutate(&nu)
			}
			err := nu.Validate(svc)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var vErrs validator.ValidationErrors
			require.ErrorAs(t, err, &vErrs)
			assert.Equal(t, tt.wantField, vErrs[0].StructField())
		})
	}

	t.Run("password too similar to email", func(t *testing.T) {
		nu := valid
		nu.Email = "similar@test.cd"
		nu.Password = "Simil4r@test.cd" // strong, but a near copy of the email
		nu.PasswordConfirm = nu.Password
		err := nu.Validate(svc)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "password", vErr.Fields[0].Field)
	})

	t.Run("duplicate email", func(t *testing.T) {
		nu := valid
		nu.Email = "Taken@Test.CD" // case-insensitive
		err := nu.Validate(svc)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, user.ErrEmailExists, vErr.Err)
	})
}

func TestService_Register_teacher(t *testing.T) {
	svc, _, roomRepo := setup(t)
	emailsvc.SentMessages = nil // reset

	usr, err := svc.Register(context.Background(), user.NewUser{
		Name:     "Jane Doe",
		Email:    "jane@test.cd",
		Role:     user.RoleTeacher,
		Password: "Sup3r$trong",
	})
	require.NoError(t, err)

	assert.True(t, usr.IsTeacher())
	assert.Len(t, usr.ClassCode, classroom.CodeLength)
	assert.NoError(t, usr.CheckPassword("Sup3r$trong"))

	// a classroom is created and bound to the teacher
	room, err := roomRepo.GetClassroomByCode(context.Background(), usr.ClassCode)
	require.NoError(t, err)
	assert.Equal(t, usr.Email, room.TeacherEmail)

	// welcome email carries the class code
	require.Len(t, emailsvc.SentMessages, 1)
	msg := emailsvc.SentMessages[0]
	assert.Equal(t, usr.Email, msg.To[0].Address)
	assert.Contains(t, msg.TextContent, usr.Name)
	assert.Contains(t, msg.TextContent, usr.ClassCode)
	assert.Contains(t, msg.HTMLContent, usr.ClassCode)
}

func TestService_Register_student(t *testing.T) {
	svc, _, _ := setup(t)
	emailsvc.SentMessages = nil // reset

	usr, err := svc.Register(context.Background(), user.NewUser{
		Name:     "John Doe",
		Email:    "john@test.cd",
		Role:     user.RoleStudent,
		Password: "Sup3r$trong",
	})
	require.NoError(t, err)

	assert.True(t, usr.IsStudent())
	assert.False(t, usr.HasClassroom(), "students start unassigned")

	require.Len(t, emailsvc.SentMessages, 1)
	assert.NotContains(t, strings.ToLower(emailsvc.SentMessages[0].TextContent), "classroom code is")
}

func TestService_Authenticate(t *testing.T) {
	svc, usrRepo, _ := setup(t)
	testutil.CreateUser(t, usrRepo, "Jane", "jane@test.cd", "Sup3r$trong", user.RoleStudent, "")

	t.Run("ok", func(t *testing.T) {
		usr, err := svc.Authenticate(context.Background(), user.Credentials{
			Email: "jane@test.cd", Password: "Sup3r$trong", Role: user.RoleStudent,
		})
		require.NoError(t, err)
		assert.Equal(t, "jane@test.cd", usr.Email)
		assert.False(t, usr.LastLogin.IsZero())
	})

	t.Run("role mismatch", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), user.Credentials{
			Email: "jane@test.cd", Password: "Sup3r$trong", Role: user.RoleTeacher,
		})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, user.ErrRoleMismatch, vErr.Err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), user.Credentials{
			Email: "jane@test.cd", Password: "nope", Role: user.RoleStudent,
		})
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), user.Credentials{
			Email: "nobody@test.cd", Password: "Sup3r$trong", Role: user.RoleStudent,
		})
		assert.Equal(t, user.ErrNotFound, err)
	})
}

func TestService_JoinClass(t *testing.T) {
	svc, usrRepo, roomRepo := setup(t)
	testutil.CreateClassroom(t, roomRepo, "ABC123", "teacher@test.cd")
	usr := testutil.CreateUser(t, usrRepo, "John", "john@test.cd", "", user.RoleStudent, "")

	t.Run("invalid code", func(t *testing.T) {
		_, err := svc.JoinClass(context.Background(), usr, "ZZZ999")
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "code", vErr.Fields[0].Field)
	})

	t.Run("ok", func(t *testing.T) {
		joined, err := svc.JoinClass(context.Background(), usr, "ABC123")
		require.NoError(t, err)
		assert.Equal(t, "ABC123", joined.ClassCode)

		got, err := svc.GetByEmail(context.Background(), usr.Email)
		require.NoError(t, err)
		assert.Equal(t, "ABC123", got.ClassCode)
	})
}

func TestService_QueryClassmates(t *testing.T) {
	svc, usrRepo, _ := setup(t)
	testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "", user.RoleTeacher, "ABC123")
	testutil.CreateUser(t, usrRepo, "Jane", "jane@test.cd", "", user.RoleStudent, "ABC123")
	testutil.CreateUser(t, usrRepo, "Out", "out@test.cd", "", user.RoleStudent, "XYZ789")

	mates, err := svc.QueryClassmates(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Len(t, mates, 2)
}
