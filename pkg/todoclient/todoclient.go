// Package todoclient is an HTTP client for the todo-api REST endpoints.
package todoclient

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"strconv"
	"time"

	"todo-api/pkg/http"
)

// ErrNotFound is returned when the server answers 404 for a todo id.
var ErrNotFound = errors.New("todo not found")

// Todo mirrors the JSON representation served by the API.
type Todo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TodoRequest is the body accepted by create and update.
type TodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
}

// APIError is the {"error": "..."} body of 400 and 500 responses.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("todo api error (status %d): %s", e.StatusCode, e.Message)
}

type Client struct {
	http *http.Client
}

// New creates a client for an API mounted at baseURL, e.g. http://localhost:8080/api
func New(baseURL string, opts http.ClientOptions) *Client {
	return &Client{http: http.NewHttpClient(baseURL, opts)}
}

func (c *Client) GetAllTodos(ctx context.Context) ([]Todo, error) {
	todos := []Todo{}
	if err := c.do(ctx, http.GET, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) GetTodoByID(ctx context.Context, id int64) (*Todo, error) {
	var todo Todo
	if err := c.do(ctx, http.GET, todoPath(id), nil, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) CreateTodo(ctx context.Context, req TodoRequest) (*Todo, error) {
	var todo Todo
	if err := c.do(ctx, http.POST, "/todos", req, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) UpdateTodo(ctx context.Context, id int64, req TodoRequest) (*Todo, error) {
	var todo Todo
	if err := c.do(ctx, http.PUT, todoPath(id), req, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) ToggleTodoStatus(ctx context.Context, id int64) (*Todo, error) {
	var todo Todo
	if err := c.do(ctx, http.PATCH, todoPath(id)+"/toggle", nil, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	return c.do(ctx, http.DELETE, todoPath(id), nil, nil)
}

func (c *Client) GetTodosByStatus(ctx context.Context, completed bool) ([]Todo, error) {
	todos := []Todo{}
	if err := c.do(ctx, http.GET, "/todos/status/"+strconv.FormatBool(completed), nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) do(ctx context.Context, method http.RequestMethod, path string, body any, out any) error {
	var apiErr APIError
	request := c.http.Request().
		WithContext(ctx).
		WithMethod(method).
		WithPath(path).
		WithErrorResp(&apiErr)
	if body != nil {
		request = request.WithBody(body)
	}
	if out != nil {
		request = request.WithSuccessResp(out)
	}

	_, errResp, status, err := request.Execute()
	switch {
	case err == nil:
		return nil
	case status == nethttp.StatusNotFound:
		return ErrNotFound
	case errResp != nil:
		apiErr.StatusCode = status
		return &apiErr
	default:
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
}

func todoPath(id int64) string {
	return "/todos/" + strconv.FormatInt(id, 10)
}
