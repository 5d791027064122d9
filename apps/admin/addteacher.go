package main

import (
	"context"

	"github.com/fatih/color"

	"github.com/trezcool/darasa/core/user"
)

// addTeacher creates a teacher account with a freshly generated classroom.
func (cli *commandLine) addTeacher(name, email, pwd string) error {
	data := user.NewUser{
		Name:            name,
		Email:           email,
		Role:            user.RoleTeacher,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err := data.Validate(cli.usrSvc); err != nil {
		return err
	}

	usr, err := cli.usrSvc.Register(context.Background(), data)
	if err != nil {
		return err
	}

	color.Green("teacher %q created", usr.Email)
	color.Cyan("classroom code: %s", usr.ClassCode)
	return nil
}
