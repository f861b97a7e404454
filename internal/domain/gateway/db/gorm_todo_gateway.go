package db

import (
	"context"
	"errors"
	"time"

	"todo-api/internal/domain/entity"

	"gorm.io/gorm"
)

const newestFirst = "created_at DESC, id DESC"

type GormTodoGateway struct {
	DB *gorm.DB
}

var _ TodoGateway = (*GormTodoGateway)(nil)

func NewGormTodoGateway(db *gorm.DB) *GormTodoGateway {
	return &GormTodoGateway{DB: db}
}

// Save inserts the todo when it has no ID yet, otherwise updates every column
func (gateway *GormTodoGateway) Save(ctx context.Context, todo *entity.Todo) (*entity.Todo, error) {
	db := gateway.DB.WithContext(ctx)

	var result *gorm.DB
	if todo.ID == 0 {
		result = db.Create(todo)
	} else {
		result = db.Save(todo)
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return todo, nil
}

func (gateway *GormTodoGateway) FindByID(ctx context.Context, id int64) (*entity.Todo, error) {
	var todo entity.Todo
	err := gateway.DB.WithContext(ctx).First(&todo, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (gateway *GormTodoGateway) FindAll(ctx context.Context) ([]entity.Todo, error) {
	todos := make([]entity.Todo, 0)
	if err := gateway.DB.WithContext(ctx).Order("id ASC").Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

func (gateway *GormTodoGateway) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := gateway.DB.WithContext(ctx).Model(&entity.Todo{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (gateway *GormTodoGateway) DeleteByID(ctx context.Context, id int64) error {
	return gateway.DB.WithContext(ctx).Delete(&entity.Todo{}, id).Error
}

func (gateway *GormTodoGateway) FindAllOrderByCreatedAtDesc(ctx context.Context) ([]entity.Todo, error) {
	todos := make([]entity.Todo, 0)
	if err := gateway.DB.WithContext(ctx).Order(newestFirst).Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

func (gateway *GormTodoGateway) FindByCompletedOrderByCreatedAtDesc(ctx context.Context, completed bool) ([]entity.Todo, error) {
	todos := make([]entity.Todo, 0)
	err := gateway.DB.WithContext(ctx).
		Where("completed = ?", completed).
		Order(newestFirst).
		Find(&todos).Error
	if err != nil {
		return nil, err
	}
	return todos, nil
}

func (gateway *GormTodoGateway) DeleteCompletedBefore(ctx context.Context, before time.Time) (int64, error) {
	result := gateway.DB.WithContext(ctx).
		Where("completed = ? AND updated_at < ?", true, before).
		Delete(&entity.Todo{})
	return result.RowsAffected, result.Error
}
