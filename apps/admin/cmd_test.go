package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core/classroom"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	"github.com/trezcool/darasa/storage/kv"
	"github.com/trezcool/darasa/storage/kvrepos"
	testutil "github.com/trezcool/darasa/tests"
)

var (
	usrRepo  user.Repository
	roomRepo classroom.Repository
)

func setup(t *testing.T) *commandLine {
	testutil.InitValidators()
	conf := testutil.NewConfig()
	store := kv.NewMemStore()
	logger := testutil.NewLogger()

	usrRepo = kvrepos.NewUserRepository(store, logger)
	roomRepo = kvrepos.NewClassroomRepository(store, logger)
	roomSvc := classroom.NewService(roomRepo)

	return &commandLine{
		conf:    conf,
		usrRepo: usrRepo,
		usrSvc:  user.NewService(usrRepo, roomSvc, emailsvc.NewConsoleServiceMock(conf), conf),
		roomSvc: roomSvc,
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
	extra   interface{}
}

func Test_commandLine_addTeacher(t *testing.T) {
	cli := setup(t)

	readPasswordFunc = func(fd int) ([]byte, error) {
		return []byte("Sup3r$trong"), nil
	}

	args := []string{"admin", "addteacher", "-name", "Jane Poe", "-email", "jane@test.cd"}
	require.NoError(t, cli.run(args))

	usr, err := usrRepo.GetUserByEmail(context.Background(), "jane@test.cd")
	require.NoError(t, err)
	require.Equal(t, user.RoleTeacher, usr.Role)
	require.Len(t, usr.ClassCode, classroom.CodeLength)

	room, err := cli.roomSvc.GetByCode(context.Background(), usr.ClassCode)
	require.NoError(t, err)
	require.Equal(t, usr.Email, room.TeacherEmail)
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "mdr", user.RoleStudent, "")

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.cd"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUserByEmail(context.Background(), usr.Email)
				if err != nil {
					t.Fatalf("GetUserByEmail() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_showClass(t *testing.T) {
	cli := setup(t)

	room := testutil.CreateClassroom(t, roomRepo, "ABC123", "t@test.cd")
	testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "mdr", user.RoleStudent, room.Code)

	tests := []cliTest{
		{name: "no args", args: []string{"showclass"}, wantErr: errHelp},
		{name: "unknown code", args: []string{"showclass", "-code", "ZZZ999"}, wantErr: classroom.ErrNotFound},
		{name: "show", args: []string{"showclass", "-code", room.Code}},
		{name: "show lowercase code", args: []string{"showclass", "-code", "abc123"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
