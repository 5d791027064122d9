package echoapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/quiz"
)

var errQuizNotFoundInCtx = errors.New("quiz object not found in echo.Context")

type quizApi struct {
	svc *quiz.Service
}

func registerQuizAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := quizApi{svc: deps.QuizSvc}

	qg := g.Group("/quizzes", jwt, classMemberMiddleware())

	qg.POST("", api.create, teacherMiddleware())
	qg.POST("/generate", api.generate, teacherMiddleware())
	qg.POST("/generate-from-content", api.generateFromContent, teacherMiddleware())
	qg.GET("", api.query)
	qg.DELETE("", api.destroyMultiple, teacherMiddleware())
	qg.GET("/submissions", api.querySubmissions)

	// detail endpoints, scoped to the caller's classroom
	dg := qg.Group("/:id", ctxQuizMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, teacherMiddleware())
	dg.DELETE("", api.destroy, teacherMiddleware())
	dg.GET("/stats", api.stats, teacherMiddleware())
	dg.POST("/submissions", api.submit, studentMiddleware())
}

// Handlers

func (api *quizApi) create(ctx echo.Context) error {
	var data quiz.NewQuiz
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuiz")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	qz, err := api.svc.Create(ctx.Request().Context(), claims.ClassCode, data)
	if err != nil {
		return errors.Wrap(err, "creating quiz")
	}
	return ctx.JSON(http.StatusCreated, qz)
}

func (api *quizApi) generate(ctx echo.Context) error {
	var data quiz.GenerateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	qz, err := api.svc.GenerateFromTopic(ctx.Request().Context(), claims.ClassCode, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, qz)
}

func (api *quizApi) generateFromContent(ctx echo.Context) error {
	var data quiz.GenerateFromContentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateFromContentRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	qz, err := api.svc.GenerateFromContent(ctx.Request().Context(), claims.ClassCode, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, qz)
}

func (api *quizApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	quizzes, err := api.svc.QueryByClass(ctx.Request().Context(), claims.ClassCode)
	if err != nil {
		return errors.Wrap(err, "querying quizzes")
	}
	return ctx.JSON(http.StatusOK, quizzes)
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	qz, ok := ctx.Get("object").(quiz.Quiz)
	if !ok {
		return errors.Wrap(errQuizNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, qz)
}

func (api *quizApi) update(ctx echo.Context) error {
	qz, ok := ctx.Get("object").(quiz.Quiz)
	if !ok {
		return errors.Wrap(errQuizNotFoundInCtx, "retrieving object from context")
	}

	var data quiz.UpdateQuiz
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateQuiz")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	qz, err := api.svc.UpdateTopic(ctx.Request().Context(), qz.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating quiz")
	}
	return ctx.JSON(http.StatusOK, qz)
}

func (api *quizApi) destroy(ctx echo.Context) error {
	qz, ok := ctx.Get("object").(quiz.Quiz)
	if !ok {
		return errors.Wrap(errQuizNotFoundInCtx, "retrieving object from context")
	}

	if err := api.svc.Delete(ctx.Request().Context(), qz.ID); err != nil {
		return errors.Wrap(err, "deleting quiz")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *quizApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	// only delete what belongs to the caller's classroom
	quizzes, err := api.svc.QueryByClass(ctx.Request().Context(), claims.ClassCode)
	if err != nil {
		return errors.Wrap(err, "querying quizzes")
	}
	sort.Strings(query.IDs)
	ids := make([]string, 0, len(query.IDs))
	for _, qz := range quizzes {
		if i := sort.SearchStrings(query.IDs, qz.ID); i < len(query.IDs) && query.IDs[i] == qz.ID {
			ids = append(ids, qz.ID)
		}
	}

	if err := api.svc.Delete(ctx.Request().Context(), ids...); err != nil {
		return errors.Wrap(err, "deleting quizzes")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *quizApi) submit(ctx echo.Context) error {
	qz, ok := ctx.Get("object").(quiz.Quiz)
	if !ok {
		return errors.Wrap(errQuizNotFoundInCtx, "retrieving object from context")
	}

	var data quiz.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sub, err := api.svc.Submit(ctx.Request().Context(), qz.ID, claims.Name, data.Answers)
	if err != nil {
		return errors.Wrap(err, "submitting quiz")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *quizApi) querySubmissions(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	subs, err := api.svc.QuerySubmissionsByClass(ctx.Request().Context(), claims.ClassCode)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}

	// students only see their own attempts
	if claims.IsStudent {
		own := make([]quiz.Submission, 0, len(subs))
		for _, sub := range subs {
			if sub.StudentName == claims.Name {
				own = append(own, sub)
			}
		}
		subs = own
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *quizApi) stats(ctx echo.Context) error {
	qz, ok := ctx.Get("object").(quiz.Quiz)
	if !ok {
		return errors.Wrap(errQuizNotFoundInCtx, "retrieving object from context")
	}

	stats, err := api.svc.QuizStats(ctx.Request().Context(), qz.ID)
	if err != nil {
		return errors.Wrap(err, "computing quiz stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func ctxQuizMiddleware(svc *quiz.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}

			if qz, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err == nil {
				if qz.ClassCode == claims.ClassCode {
					ctx.Set("object", qz)
					return next(ctx)
				}
			} else if errors.Cause(err) != quiz.ErrNotFound {
				return errors.Wrap(err, "finding quiz by ID")
			}
			return errHttpNotFound
		}
	}
}

type DestroyMultipleRequest struct {
	IDs []string `query:"id"`
}
