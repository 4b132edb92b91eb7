package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "github.com/ameyabis/projet-7-api-rest/internal/errors"
	"github.com/ameyabis/projet-7-api-rest/internal/model"
)

// UserRepository defines user persistence operations. Every read is scoped
// by customer id: a user belonging to another customer behaves exactly like
// a missing record.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByIDForCustomer(ctx context.Context, id, customerID uint) (*model.User, error)
	// ListForCustomer returns one page of the customer's users ordered by id
	// ascending so page contents are stable across calls. page and limit are
	// 1-based; values below 1 are rejected.
	ListForCustomer(ctx context.Context, customerID uint, page, limit int) ([]model.User, error)
	Delete(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDForCustomer(ctx context.Context, id, customerID uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("id = ? AND customer_id = ?", id, customerID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListForCustomer(ctx context.Context, customerID uint, page, limit int) ([]model.User, error) {
	if page < 1 || limit < 1 {
		return nil, apperrors.ErrInvalidPagination
	}
	var users []model.User
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Delete(user).Error
}
