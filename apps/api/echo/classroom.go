package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/classroom"
	"github.com/trezcool/darasa/core/user"
)

type classroomApi struct {
	svc    *classroom.Service
	usrSvc *user.Service
}

func registerClassroomAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := classroomApi{svc: deps.RoomSvc, usrSvc: deps.UserSvc}

	cg := g.Group("/classrooms", jwt, teacherMiddleware())
	cg.GET("/mine", api.mine)
	cg.GET("/mine/students", api.students)
}

// Handlers

func (api *classroomApi) mine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	room, err := api.svc.GetByCode(ctx.Request().Context(), claims.ClassCode)
	if err != nil {
		return errors.Wrap(err, "finding classroom by code")
	}
	return ctx.JSON(http.StatusOK, room)
}

func (api *classroomApi) students(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	users, err := api.usrSvc.QueryClassmates(ctx.Request().Context(), claims.ClassCode)
	if err != nil {
		return errors.Wrap(err, "querying class students")
	}

	students := make([]user.User, 0, len(users))
	for _, usr := range users {
		if usr.IsStudent() {
			students = append(students, usr)
		}
	}
	return ctx.JSON(http.StatusOK, students)
}
