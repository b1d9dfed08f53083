package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kazadi/ratiba/core/board"
)

type boardApi struct {
	svc      *board.Service
	validate *validator.Validate
}

func registerBoardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *board.Service, validate *validator.Validate) {
	api := boardApi{
		svc:      svc,
		validate: validate,
	}

	bg := g.Group("/boards", jwt)
	bg.POST("", api.createBoard)
	bg.GET("", api.queryBoards)
	bg.GET("/:id", api.retrieveBoard)
	bg.PUT("/:id", api.updateBoard)
	bg.DELETE("/:id", api.destroyBoard)
	bg.POST("/:id/classes", api.createClass)
	bg.GET("/:id/classes", api.queryClasses)

	cg := g.Group("/classes", jwt)
	cg.GET("/:id", api.retrieveClass)
	cg.PUT("/:id", api.updateClass)
	cg.DELETE("/:id", api.destroyClass)
	cg.POST("/:id/assignments", api.createAssignment)
	cg.GET("/:id/assignments", api.queryAssignments)
	cg.POST("/:id/office-hours", api.createOfficeHours)
	cg.GET("/:id/office-hours", api.queryOfficeHours)

	ag := g.Group("/assignments", jwt)
	ag.GET("/:id", api.retrieveAssignment)
	ag.PUT("/:id", api.updateAssignment)
	ag.DELETE("/:id", api.destroyAssignment)

	og := g.Group("/office-hours", jwt)
	og.GET("/:id", api.retrieveOfficeHours)
	og.PUT("/:id", api.updateOfficeHours)
	og.DELETE("/:id", api.destroyOfficeHours)
}

// Boards

func (api *boardApi) createBoard(ctx echo.Context) error {
	var data board.NewBoard
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBoard")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	b, err := api.svc.CreateBoard(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating board")
	}
	return ctx.JSON(http.StatusCreated, b)
}

func (api *boardApi) queryBoards(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	boards, err := api.svc.QueryBoards(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying boards")
	}
	if boards == nil {
		boards = []board.Board{}
	}
	return ctx.JSON(http.StatusOK, boards)
}

func (api *boardApi) retrieveBoard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	b, err := api.svc.GetBoard(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, b)
}

func (api *boardApi) updateBoard(ctx echo.Context) error {
	var data board.UpdateBoard
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBoard")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	b, err := api.svc.UpdateBoard(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, b)
}

func (api *boardApi) destroyBoard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.DeleteBoard(ctx.Request().Context(), claims.Subject, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Classes

func (api *boardApi) createClass(ctx echo.Context) error {
	var data board.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	c, err := api.svc.CreateClass(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *boardApi) queryClasses(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	classes, err := api.svc.QueryClasses(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return err
	}
	if classes == nil {
		classes = []board.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *boardApi) retrieveClass(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	c, err := api.svc.GetClass(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *boardApi) updateClass(ctx echo.Context) error {
	var data board.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	c, err := api.svc.UpdateClass(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *boardApi) destroyClass(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.DeleteClass(ctx.Request().Context(), claims.Subject, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Assignments

func (api *boardApi) createAssignment(ctx echo.Context) error {
	var data board.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	a, err := api.svc.CreateAssignment(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *boardApi) queryAssignments(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	assignments, err := api.svc.QueryAssignments(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return err
	}
	if assignments == nil {
		assignments = []board.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *boardApi) retrieveAssignment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	a, err := api.svc.GetAssignment(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *boardApi) updateAssignment(ctx echo.Context) error {
	var data board.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	a, err := api.svc.UpdateAssignment(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *boardApi) destroyAssignment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.DeleteAssignment(ctx.Request().Context(), claims.Subject, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Office hours

func (api *boardApi) createOfficeHours(ctx echo.Context) error {
	var data board.NewOfficeHours
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOfficeHours")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	oh, err := api.svc.CreateOfficeHours(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, oh)
}

func (api *boardApi) queryOfficeHours(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	officeHours, err := api.svc.QueryOfficeHours(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return err
	}
	if officeHours == nil {
		officeHours = []board.OfficeHours{}
	}
	return ctx.JSON(http.StatusOK, officeHours)
}

func (api *boardApi) retrieveOfficeHours(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	oh, err := api.svc.GetOfficeHours(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, oh)
}

func (api *boardApi) updateOfficeHours(ctx echo.Context) error {
	var data board.UpdateOfficeHours
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateOfficeHours")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	oh, err := api.svc.UpdateOfficeHours(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, oh)
}

func (api *boardApi) destroyOfficeHours(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.DeleteOfficeHours(ctx.Request().Context(), claims.Subject, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
