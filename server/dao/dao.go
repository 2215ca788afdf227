// Package dao provides data access objects for use in the grammar server.
package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds all the repositories needed to run the server.
type Store interface {
	Users() UserRepository
	Grammars() GrammarRepository
	Close() error
}

// Role is the permission level of a User. Only Admin may create, update, or
// delete a stored Grammar; Normal may only read.
type Role int

const (
	Normal Role = iota
	Admin  Role = 100
)

func (r Role) String() string {
	switch r {
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Normal, fmt.Errorf("must be one of 'normal' or 'admin'")
	}
}

// User is an account that can authenticate to perform grammar-management
// operations.
type User struct {
	ID             uuid.UUID // PK, NOT NULL
	Username       string    // UNIQUE, NOT NULL
	Password       string    // NOT NULL, bcrypt hash
	Role           Role      // NOT NULL
	Created        time.Time // NOT NULL
	LastLogoutTime time.Time // NOT NULL DEFAULT NOW()
}

type UserRepository interface {
	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

// Grammar is a stored, named grammar description: the raw JSON source text
// that package grammar's Load compiles.
type Grammar struct {
	ID          uuid.UUID // PK, NOT NULL
	Name        string    // UNIQUE, NOT NULL
	Description string
	Source      string    // NOT NULL, JSON text passed to grammar.Load
	Created     time.Time // NOT NULL
	Modified    time.Time // NOT NULL
}

type GrammarRepository interface {
	Create(ctx context.Context, g Grammar) (Grammar, error)
	GetByID(ctx context.Context, id uuid.UUID) (Grammar, error)
	GetByName(ctx context.Context, name string) (Grammar, error)
	GetAll(ctx context.Context) ([]Grammar, error)
	Update(ctx context.Context, id uuid.UUID, g Grammar) (Grammar, error)
	Delete(ctx context.Context, id uuid.UUID) (Grammar, error)
	Close() error
}
