package users

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// a registered account
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// fields needed to create an account; the password is hashed before it
// reaches the store
type CreateUserRequest struct {
	Email        string
	Username     string
	PasswordHash string
}

// credential store contract consumed by the auth handlers
type Store interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, req *CreateUserRequest) (*User, error)
}

// Postgres-backed credential store
type Repository struct {
	db *pgxpool.Pool
}
