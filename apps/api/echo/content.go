package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/content"
)

var errContentNotFoundInCtx = errors.New("content object not found in echo.Context")

type contentApi struct {
	svc *content.Service
}

func registerContentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := contentApi{svc: deps.ContentSvc}

	cg := g.Group("/content", jwt, classMemberMiddleware())

	cg.POST("", api.create, teacherMiddleware())
	cg.GET("", api.query)

	// generated lectures & case studies
	cg.POST("/lectures/generate", api.generateLecture, teacherMiddleware())
	cg.GET("/lectures", api.queryLectures)
	cg.POST("/case-studies/generate", api.generateCaseStudy, teacherMiddleware())
	cg.GET("/case-studies", api.queryCaseStudies)

	// plain text AI helpers
	cg.POST("/ai/summarize", api.summarize)
	cg.POST("/ai/translate", api.translate)
	cg.POST("/ai/explain", api.explain)

	// detail endpoints, scoped to the caller's classroom
	dg := cg.Group("/:id", ctxContentMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, teacherMiddleware())
	dg.DELETE("", api.destroy, teacherMiddleware())
	dg.GET("/text", api.extractText, teacherMiddleware())
	dg.POST("/analyze", api.analyzeImage)
}

// Shared content handlers

func (api *contentApi) create(ctx echo.Context) error {
	var data content.NewSharedContent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSharedContent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sc, err := api.svc.AddContent(ctx.Request().Context(), claims.ClassCode, data)
	if err != nil {
		return errors.Wrap(err, "adding shared content")
	}
	return ctx.JSON(http.StatusCreated, sc)
}

func (api *contentApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	shares, err := api.svc.QueryContentByClass(ctx.Request().Context(), claims.ClassCode)
	if err != nil {
		return errors.Wrap(err, "querying shared content")
	}
	return ctx.JSON(http.StatusOK, shares)
}

func (api *contentApi) retrieve(ctx echo.Context) error {
	sc, ok := ctx.Get("object").(content.SharedContent)
	if !ok {
		return errors.Wrap(errContentNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, sc)
}

func (api *contentApi) update(ctx echo.Context) error {
	sc, ok := ctx.Get("object").(content.SharedContent)
	if !ok {
		return errors.Wrap(errContentNotFoundInCtx, "retrieving object from context")
	}

	var data content.UpdateSharedContent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSharedContent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sc, err := api.svc.UpdateContent(ctx.Request().Context(), sc.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating shared content")
	}
	return ctx.JSON(http.StatusOK, sc)
}

func (api *contentApi) destroy(ctx echo.Context) error {
	sc, ok := ctx.Get("object").(content.SharedContent)
	if !ok {
		return errors.Wrap(errContentNotFoundInCtx, "retrieving object from context")
	}

	if err := api.svc.DeleteContent(ctx.Request().Context(), sc.ID); err != nil {
		return errors.Wrap(err, "deleting shared content")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// extractText flattens a share to plain text, e.g. to ground a quiz on it.
func (api *contentApi) extractText(ctx echo.Context) error {
	sc, ok := ctx.Get("object").(content.SharedContent)
	if !ok {
		return errors.Wrap(errContentNotFoundInCtx, "retrieving object from context")
	}

	text, err := api.svc.ExtractFileText(ctx.Request().Context(), sc)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TextResponse{Text: text})
}

func (api *contentApi) analyzeImage(ctx echo.Context) error {
	sc, ok := ctx.Get("object").(content.SharedContent)
	if !ok {
		return errors.Wrap(errContentNotFoundInCtx, "retrieving object from context")
	}
	if sc.Kind != content.KindImage {
		return core.NewValidationError(nil, core.FieldError{Field: "kind", Error: "only image content can be analyzed"})
	}

	reply, err := api.svc.DescribeImage(ctx.Request().Context(), sc.File.Data, sc.File.MimeType)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TextResponse{Text: reply})
}

// Lecture & case study handlers

func (api *contentApi) generateLecture(ctx echo.Context) error {
	var data content.GenerateLectureRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateLectureRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	lec, err := api.svc.GenerateLecture(ctx.Request().Context(), claims.ClassCode, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, lec)
}

func (api *contentApi) queryLectures(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	lectures, err := api.svc.QueryLecturesByClass(ctx.Request().Context(), claims.ClassCode)
	if err != nil {
		return errors.Wrap(err, "querying lectures")
	}
	return ctx.JSON(http.StatusOK, lectures)
}

func (api *contentApi) generateCaseStudy(ctx echo.Context) error {
	var data content.GenerateCaseStudyRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateCaseStudyRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	cs, err := api.svc.GenerateCaseStudy(ctx.Request().Context(), claims.ClassCode, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, cs)
}

func (api *contentApi) queryCaseStudies(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	studies, err := api.svc.QueryCaseStudiesByClass(ctx.Request().Context(), claims.ClassCode)
	if err != nil {
		return errors.Wrap(err, "querying case studies")
	}
	return ctx.JSON(http.StatusOK, studies)
}

// AI helper handlers

func (api *contentApi) summarize(ctx echo.Context) error {
	var data content.SummarizeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SummarizeRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reply, err := api.svc.Summarize(ctx.Request().Context(), data.Text)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TextResponse{Text: reply})
}

func (api *contentApi) translate(ctx echo.Context) error {
	var data content.TranslateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TranslateRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reply, err := api.svc.Translate(ctx.Request().Context(), data.Text, data.Language)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TextResponse{Text: reply})
}

func (api *contentApi) explain(ctx echo.Context) error {
	var data content.ExplainRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ExplainRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reply, err := api.svc.Explain(ctx.Request().Context(), data.Question)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TextResponse{Text: reply})
}

func ctxContentMiddleware(svc *content.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}

			if sc, err := svc.GetContentByID(ctx.Request().Context(), ctx.Param("id")); err == nil {
				if sc.ClassCode == claims.ClassCode {
					ctx.Set("object", sc)
					return next(ctx)
				}
			} else if errors.Cause(err) != content.ErrNotFound {
				return errors.Wrap(err, "finding content by ID")
			}
			return errHttpNotFound
		}
	}
}

type TextResponse struct {
	Text string `json:"text"`
}
