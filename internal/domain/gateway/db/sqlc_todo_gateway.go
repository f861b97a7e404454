package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo-api/internal/domain/entity"
)

const todoColumns = "id, title, description, completed, created_at, updated_at"

type SQLCTodoGateway struct {
	DB *sql.DB
}

var _ TodoGateway = (*SQLCTodoGateway)(nil)

func NewSQLCTodoGateway(db *sql.DB) *SQLCTodoGateway {
	return &SQLCTodoGateway{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*entity.Todo, error) {
	var todo entity.Todo
	var description sql.NullString
	if err := row.Scan(&todo.ID, &todo.Title, &description, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
		return nil, err
	}
	todo.Description = description.String
	return &todo, nil
}

func (gateway *SQLCTodoGateway) queryTodos(ctx context.Context, query string, args ...any) (todos []entity.Todo, err error) {
	rows, err := gateway.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	todos = make([]entity.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	return todos, rows.Err()
}

// Save inserts the todo when it has no ID yet, otherwise updates it in place
func (gateway *SQLCTodoGateway) Save(ctx context.Context, todo *entity.Todo) (*entity.Todo, error) {
	if todo.ID == 0 {
		row := gateway.DB.QueryRowContext(ctx, `
			INSERT INTO todos (title, description, completed, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			RETURNING `+todoColumns,
			todo.Title, todo.Description, todo.Completed)
		return scanTodo(row)
	}

	row := gateway.DB.QueryRowContext(ctx, `
		UPDATE todos
		SET title = $1, description = $2, completed = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+todoColumns,
		todo.Title, todo.Description, todo.Completed, todo.ID)
	saved, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo %d vanished during update", todo.ID)
	}
	return saved, err
}

func (gateway *SQLCTodoGateway) FindByID(ctx context.Context, id int64) (*entity.Todo, error) {
	row := gateway.DB.QueryRowContext(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE id = $1`, id)

	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return todo, nil
}

func (gateway *SQLCTodoGateway) FindAll(ctx context.Context) ([]entity.Todo, error) {
	return gateway.queryTodos(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		ORDER BY id ASC`)
}

func (gateway *SQLCTodoGateway) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := gateway.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM todos WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (gateway *SQLCTodoGateway) DeleteByID(ctx context.Context, id int64) error {
	_, err := gateway.DB.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	return err
}

func (gateway *SQLCTodoGateway) FindAllOrderByCreatedAtDesc(ctx context.Context) ([]entity.Todo, error) {
	return gateway.queryTodos(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		ORDER BY created_at DESC, id DESC`)
}

func (gateway *SQLCTodoGateway) FindByCompletedOrderByCreatedAtDesc(ctx context.Context, completed bool) ([]entity.Todo, error) {
	return gateway.queryTodos(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE completed = $1
		ORDER BY created_at DESC, id DESC`, completed)
}

func (gateway *SQLCTodoGateway) DeleteCompletedBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := gateway.DB.ExecContext(ctx, `
		DELETE FROM todos
		WHERE completed = TRUE AND updated_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
