package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ameyabis/projet-7-api-rest/internal/cache"
	apperrors "github.com/ameyabis/projet-7-api-rest/internal/errors"
	"github.com/ameyabis/projet-7-api-rest/internal/hateoas"
	"github.com/ameyabis/projet-7-api-rest/internal/model"
	"github.com/ameyabis/projet-7-api-rest/internal/repository"
)

const bcryptCost = 10

// UserGroup is the serialization group applied to every user document that
// leaves the API: it exposes id, names, email and the customer summary and
// hides username, password hash and roles.
const UserGroup = "getUsers"

// CreateUserInput carries the fields accepted when creating a user. The
// password arrives in clear and is hashed before persistence.
type CreateUserInput struct {
	Username  string
	Password  string
	Firstname string
	Lastname  string
	Email     string
}

// UserService exposes tenant-scoped user operations. Reads return serialized
// JSON documents; the paginated listing is cached under the usersCache tag,
// which create and delete invalidate.
type UserService interface {
	ListUsers(ctx context.Context, customerID uint, page, limit int) ([]byte, error)
	GetUser(ctx context.Context, customerID, id uint) ([]byte, error)
	CreateUser(ctx context.Context, customerID uint, input CreateUserInput) (body []byte, id uint, err error)
	DeleteUser(ctx context.Context, customerID, id uint) error
}

type userService struct {
	repo            repository.UserRepository
	customers       repository.CustomerRepository
	cache           *cache.Tagged
	serializer      *hateoas.Serializer
	writeInvalidate bool
}

// NewUserService builds a UserService. writeInvalidate controls whether
// mutations drop the usersCache tag; disabling it reproduces the historical
// stale-read behavior.
func NewUserService(repo repository.UserRepository, customers repository.CustomerRepository, cache *cache.Tagged, serializer *hateoas.Serializer, writeInvalidate bool) UserService {
	return &userService{
		repo:            repo,
		customers:       customers,
		cache:           cache,
		serializer:      serializer,
		writeInvalidate: writeInvalidate,
	}
}

func (s *userService) ListUsers(ctx context.Context, customerID uint, page, limit int) ([]byte, error) {
	key := cache.UserListKey(customerID, page, limit)
	return s.cache.GetOrCompute(ctx, key, []string{cache.TagUsers}, func(ctx context.Context) ([]byte, error) {
		users, err := s.repo.ListForCustomer(ctx, customerID, page, limit)
		if err != nil {
			return nil, err
		}
		return s.serializer.Serialize(users, UserGroup)
	})
}

func (s *userService) GetUser(ctx context.Context, customerID, id uint) ([]byte, error) {
	user, err := s.repo.FindByIDForCustomer(ctx, id, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return s.serializer.Serialize(user, UserGroup)
}

func (s *userService) CreateUser(ctx context.Context, customerID uint, input CreateUserInput) ([]byte, uint, error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.ErrCustomerNotFound
		}
		return nil, 0, fmt.Errorf("find customer: %w", err)
	}

	existing, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, 0, apperrors.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, 0, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:   input.Username,
		Password:   string(hash),
		Firstname:  input.Firstname,
		Lastname:   input.Lastname,
		Email:      input.Email,
		CustomerID: customerID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// The uniqueness pre-check races with concurrent creates; the unique
		// index is the authority, so the loser still surfaces as a conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, 0, apperrors.ErrUsernameTaken
		}
		return nil, 0, err
	}

	if s.writeInvalidate {
		if err := s.cache.InvalidateTag(ctx, cache.TagUsers); err != nil {
			return nil, 0, fmt.Errorf("invalidate user cache: %w", err)
		}
	}

	// Re-read so the response document carries the customer summary.
	created, err := s.repo.FindByIDForCustomer(ctx, user.ID, customerID)
	if err != nil {
		return nil, 0, err
	}
	body, err := s.serializer.Serialize(created, UserGroup)
	if err != nil {
		return nil, 0, err
	}
	return body, user.ID, nil
}

func (s *userService) DeleteUser(ctx context.Context, customerID, id uint) error {
	user, err := s.repo.FindByIDForCustomer(ctx, id, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, user); err != nil {
		return err
	}
	if s.writeInvalidate {
		if err := s.cache.InvalidateTag(ctx, cache.TagUsers); err != nil {
			return fmt.Errorf("invalidate user cache: %w", err)
		}
	}
	return nil
}
