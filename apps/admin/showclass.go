package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/trezcool/darasa/core"
)

func (cli *commandLine) showClass(code string) error {
	ctx := context.Background()
	code = strings.ToUpper(core.CleanString(code))

	room, err := cli.roomSvc.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	color.Cyan("classroom %s", room.Code)
	fmt.Printf("teacher: %s\n", room.TeacherEmail)
	fmt.Printf("created: %s\n", room.CreatedAt.Format("2006-01-02"))

	users, err := cli.usrRepo.QueryUsersByClassCode(ctx, room.Code)
	if err != nil {
		return err
	}

	var students int
	for _, usr := range users {
		if usr.IsStudent() {
			students++
			fmt.Printf("  %s <%s>\n", usr.Name, usr.Email)
		}
	}
	color.Green("%d student(s)", students)
	return nil
}
