package auth

import (
	"context"
	"errors"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type User struct {
	ID    string
	Email string
	Name  string
	Hash  []byte
	Role  string
}

type UserStore interface {
	Create(ctx context.Context, u User, password string) error
	FindByEmail(ctx context.Context, email string) (User, bool, error)
	Verify(ctx context.Context, email, password string) (User, error)
	SetRole(ctx context.Context, id, role string) error
	Ping(ctx context.Context) error
}
