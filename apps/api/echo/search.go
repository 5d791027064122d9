package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/quiz"
	"github.com/trezcool/darasa/core/search"
)

type searchApi struct {
	svc        *search.Service
	quizSvc    *quiz.Service
	contentSvc *content.Service
}

func registerSearchAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := searchApi{svc: deps.SearchSvc, quizSvc: deps.QuizSvc, contentSvc: deps.ContentSvc}

	g.POST("/search", api.search, jwt, classMemberMiddleware())
}

// search runs the AI assistant over the caller's class materials.
func (api *searchApi) search(ctx echo.Context) error {
	var data search.Query
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Query")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	kb, err := api.knowledgeBase(ctx, claims.ClassCode)
	if err != nil {
		return err
	}

	res, err := api.svc.Search(ctx.Request().Context(), data.Query, kb)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *searchApi) knowledgeBase(ctx echo.Context, classCode string) (search.KnowledgeBase, error) {
	reqCtx := ctx.Request().Context()
	var kb search.KnowledgeBase
	var err error

	if kb.Quizzes, err = api.quizSvc.QueryByClass(reqCtx, classCode); err != nil {
		return kb, errors.Wrap(err, "querying quizzes")
	}
	if kb.Lectures, err = api.contentSvc.QueryLecturesByClass(reqCtx, classCode); err != nil {
		return kb, errors.Wrap(err, "querying lectures")
	}
	if kb.CaseStudies, err = api.contentSvc.QueryCaseStudiesByClass(reqCtx, classCode); err != nil {
		return kb, errors.Wrap(err, "querying case studies")
	}
	if kb.SharedContent, err = api.contentSvc.QueryContentByClass(reqCtx, classCode); err != nil {
		return kb, errors.Wrap(err, "querying shared content")
	}
	kb.FAQs = content.DefaultFAQs
	return kb, nil
}
