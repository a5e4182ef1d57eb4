package posgrest

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// repository is a generic GORM-based repository implementation.
// It provides the persistence operations the services need for any entity type T.
type repository[T interface{}] struct {
	db *gorm.DB
}

// New creates a new generic repository instance for type T.
// The repository uses the provided GORM database connection for all operations.
func New[T interface{}](db *gorm.DB) *repository[T] {
	return &repository[T]{
		db,
	}
}

// Create inserts a new entity into the database.
func (r *repository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// GetByID retrieves a single entity by its ID.
func (r *repository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetBy retrieves entities matching a specific field value.
// The key parameter is the field name, and value is the value to match.
func (r *repository[T]) GetBy(ctx context.Context, key string, value interface{}) (*[]T, error) {
	var entities []T
	if err := r.db.WithContext(ctx).Where(fmt.Sprintf("%s = ?", key), value).Find(&entities).Error; err != nil {
		return nil, err
	}
	return &entities, nil
}

// UpdateWhereNot applies fields to the entity identified by ID unless column
// already holds excluded. The check and the write are one statement, so
// concurrent callers cannot both succeed. It reports whether a row changed.
func (r *repository[T]) UpdateWhereNot(ctx context.Context, id string, column string, excluded interface{}, fields map[string]interface{}) (bool, error) {
	var entity T
	res := r.db.WithContext(ctx).
		Model(&entity).
		Where(fmt.Sprintf("id = ? AND %s <> ?", column), id, excluded).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
