package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := attendanceApi{svc: deps.AttendanceSvc}

	ag := g.Group("/attendance", jwt, classMemberMiddleware())

	ag.POST("/start", api.start, teacherMiddleware())
	ag.POST("/stop", api.stop, teacherMiddleware())
	ag.POST("/check-in", api.checkIn, studentMiddleware())
	ag.GET("/active", api.active)
	ag.GET("/history", api.history, teacherMiddleware())
	ag.GET("/history/me", api.studentHistory, studentMiddleware())
}

// Handlers

func (api *attendanceApi) start(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sess, err := api.svc.Start(ctx.Request().Context(), claims.ClassCode)
	if err != nil {
		return errors.Wrap(err, "starting attendance session")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *attendanceApi) stop(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.Stop(ctx.Request().Context(), claims.ClassCode); err != nil {
		return errors.Wrap(err, "stopping attendance session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *attendanceApi) checkIn(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.CheckIn(ctx.Request().Context(), claims.ClassCode, claims.Name); err != nil {
		return errors.Wrap(err, "checking in")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *attendanceApi) active(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sess, ok, err := api.svc.Active(ctx.Request().Context(), claims.ClassCode)
	if err != nil {
		return errors.Wrap(err, "finding active session")
	}

	res := ActiveSessionResponse{Active: ok}
	if ok {
		res.Session = &sess
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *attendanceApi) history(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sessions, err := api.svc.History(ctx.Request().Context(), claims.ClassCode)
	if err != nil {
		return errors.Wrap(err, "querying attendance history")
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *attendanceApi) studentHistory(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sessions, err := api.svc.StudentHistory(ctx.Request().Context(), claims.Name)
	if err != nil {
		return errors.Wrap(err, "querying student attendance history")
	}
	return ctx.JSON(http.StatusOK, sessions)
}

type ActiveSessionResponse struct {
	Active  bool                `json:"active"`
	Session *attendance.Session `json:"session,omitempty"`
}
