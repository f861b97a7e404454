package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"todo-api/internal/application/validation"
	"todo-api/internal/domain/model"
	"todo-api/internal/domain/usecase/todo"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/util/numberutils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type TodoController struct {
	api     *echo.Group
	useCase todo.UseCase
}

func NewTodoController(api *echo.Group, useCase todo.UseCase) *TodoController {
	return &TodoController{api: api, useCase: useCase}
}

// InitTodoRoutes initializes todo routes
func (controller *TodoController) InitTodoRoutes() {
	controller.api.GET("/todos", controller.FindAll)
	controller.api.GET("/todos/status/:completed", controller.FindByStatus)
	controller.api.GET("/todos/:id", controller.FindByID)
	controller.api.POST("/todos", controller.Create)
	controller.api.PUT("/todos/:id", controller.Update)
	controller.api.PATCH("/todos/:id/toggle", controller.Toggle)
	controller.api.DELETE("/todos/:id", controller.Delete)
}

// FindAll godoc
// @Summary List todos
// @Description Retrieve every todo, newest first
// @Tags todos
// @Produce json
// @Success 200 {array} entity.Todo "Todos ordered by creation date, newest first"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /todos [get]
func (controller *TodoController) FindAll(c echo.Context) error {
	todos, err := controller.useCase.FindAll(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, todos)
}

// FindByID godoc
// @Summary Get a todo
// @Tags todos
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} entity.Todo
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 404 "Todo not found"
// @Router /todos/{id} [get]
func (controller *TodoController) FindByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, err)
	}

	found, err := controller.useCase.FindByID(c.Request().Context(), id)
	if err != nil {
		return useCaseError(c, err)
	}
	return c.JSON(http.StatusOK, found)
}

// Create godoc
// @Summary Create a todo
// @Description The server assigns id, createdAt and updatedAt; completed defaults to false
// @Tags todos
// @Accept json
// @Produce json
// @Param todo body model.TodoDTO true "Todo to create"
// @Success 201 {object} entity.Todo
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /todos [post]
func (controller *TodoController) Create(c echo.Context) error {
	dto, err := bindTodo(c)
	if err != nil {
		return badRequest(c, err)
	}

	created, err := controller.useCase.Create(c.Request().Context(), dto)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary Update a todo
// @Description Replaces title, description and completed; id and createdAt are kept
// @Tags todos
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Param todo body model.TodoDTO true "New todo values"
// @Success 200 {object} entity.Todo
// @Failure 400 {object} map[string]string "Invalid id or validation error"
// @Failure 404 "Todo not found"
// @Router /todos/{id} [put]
func (controller *TodoController) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, err)
	}
	dto, err := bindTodo(c)
	if err != nil {
		return badRequest(c, err)
	}

	updated, err := controller.useCase.Update(c.Request().Context(), id, dto)
	if err != nil {
		return useCaseError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Toggle godoc
// @Summary Toggle a todo
// @Description Flips the completed flag
// @Tags todos
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} entity.Todo
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 404 "Todo not found"
// @Router /todos/{id}/toggle [patch]
func (controller *TodoController) Toggle(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, err)
	}

	toggled, err := controller.useCase.Toggle(c.Request().Context(), id)
	if err != nil {
		return useCaseError(c, err)
	}
	return c.JSON(http.StatusOK, toggled)
}

// Delete godoc
// @Summary Delete a todo
// @Tags todos
// @Param id path int true "Todo ID"
// @Success 204 "Todo deleted"
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 404 "Todo not found"
// @Router /todos/{id} [delete]
func (controller *TodoController) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, err)
	}

	if err := controller.useCase.Delete(c.Request().Context(), id); err != nil {
		return useCaseError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// FindByStatus godoc
// @Summary List todos by status
// @Description Retrieve todos with the given completed flag, newest first
// @Tags todos
// @Produce json
// @Param completed path bool true "Completed flag"
// @Success 200 {array} entity.Todo
// @Failure 400 {object} map[string]string "Invalid completed flag"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /todos/status/{completed} [get]
func (controller *TodoController) FindByStatus(c echo.Context) error {
	raw := c.Param("completed")
	completed, err := strconv.ParseBool(raw)
	if err != nil {
		return badRequest(c, errors.New(msg.GetMessage("todo.error.invalid-status", raw)))
	}

	todos, err := controller.useCase.FindByStatus(c.Request().Context(), completed)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, todos)
}

// pathID parses the :id parameter as a positive 64-bit integer
func pathID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := numberutils.ToPositiveInt64(raw)
	if err != nil {
		return 0, errors.New(msg.GetMessage("todo.error.invalid-id", raw))
	}
	return id, nil
}

// bindTodo reads the request body and validates it against the todo schema
func bindTodo(c echo.Context) (model.TodoDTO, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return model.TodoDTO{}, errors.New(msg.GetMessage("todo.error.invalid-body"))
	}
	return validation.DecodeTodo(body)
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func useCaseError(c echo.Context, err error) error {
	if errors.Is(err, todo.ErrTodoNotFound) {
		return c.NoContent(http.StatusNotFound)
	}
	return internalError(c, err)
}

func internalError(c echo.Context, err error) error {
	log.Error(msg.GetMessage("todo.error.internal"),
		zap.String("method", c.Request().Method),
		zap.String("uri", c.Request().RequestURI),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": msg.GetMessage("todo.error.internal")})
}
