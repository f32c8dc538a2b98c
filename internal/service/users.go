package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/danolu/userhub/internal/domain/user"
	"github.com/danolu/userhub/internal/security"
)

// UserStore is the persistence surface the service needs. The postgres repo
// implements it; tests swap in a fake.
type UserStore interface {
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	Insert(ctx context.Context, name, email, passwordHash string) error
	Update(ctx context.Context, id int64, name, email string) error
	Delete(ctx context.Context, id int64) error
	SearchByName(ctx context.Context, name string) ([]user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserService holds no per-request state; every call validates, runs one
// store operation and maps the outcome to a typed error.
type UserService struct {
	store UserStore
	log   *slog.Logger
}

func NewUserService(store UserStore, log *slog.Logger) *UserService {
	return &UserService{
		store: store,
		log:   log,
	}
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]user.User, error) {
	users, err := s.store.List(ctx)

	if err != nil {
		return nil, s.internal(ctx, "list_users", "Failed to fetch users", err)
	}

	return users, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (user.User, error) {
	u, err := s.store.GetByID(ctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}

		return user.User{}, s.internal(ctx, "get_user", "Failed to fetch user", err)
	}

	return u, nil
}

func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (string, error) {
	if vErr := validateUserData(req.Name, req.Email); vErr != nil {
		return "", vErr
	}

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)

	if utf8.RuneCountInString(req.Password) < 6 {
		return "", &ValidationError{Reason: "Password must be at least 6 characters"}
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		return "", s.internal(ctx, "create_user", "Failed to create user", err)
	}

	err = s.store.Insert(ctx, name, email, hash)

	if err != nil {
		return "", s.internal(ctx, "create_user", "Failed to create user", err)
	}

	return "User created successfully", nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (string, error) {
	if vErr := validateUserData(req.Name, req.Email); vErr != nil {
		return "", vErr
	}

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)

	err := s.store.Update(ctx, id, name, email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrNotFound
		}

		return "", s.internal(ctx, "update_user", "Failed to update user", err)
	}

	return "User updated successfully", nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) (string, error) {
	err := s.store.Delete(ctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrNotFound
		}

		return "", s.internal(ctx, "delete_user", "Failed to delete user", err)
	}

	return "User deleted successfully", nil
}

func (s *UserService) SearchUsers(ctx context.Context, name string) ([]user.User, error) {
	if name == "" {
		return nil, &ValidationError{Reason: "Please provide a name to search"}
	}

	users, err := s.store.SearchByName(ctx, name)

	if err != nil {
		return nil, s.internal(ctx, "search_users", "Search failed", err)
	}

	return users, nil
}

// AuthenticateUser returns the user id on success. Unknown email and wrong
// password fail with the same error so account existence never leaks.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (int64, error) {
	if email == "" || password == "" {
		return 0, &ValidationError{Reason: "Email and password required"}
	}

	u, err := s.store.GetByEmail(ctx, normalizeEmail(email))

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return 0, ErrInvalidCredentials
		}

		return 0, s.internal(ctx, "authenticate_user", "Login failed", err)
	}

	err = security.CheckPassword(u.PasswordHash, password)

	if err != nil {
		return 0, ErrInvalidCredentials
	}

	return u.ID, nil
}

// internal logs the store-level cause and returns a laundered error; raw
// store text must never reach the boundary.
func (s *UserService) internal(ctx context.Context, op, message string, err error) error {
	s.log.ErrorContext(ctx, "store operation failed", "op", op, "err", err)

	return &InternalError{Message: message, cause: err}
}
