package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Operator is a back-office user allowed to manage inventory and trigger
// evaluation runs.
type Operator struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Service defines the interface for operator authentication.
type Service interface {
	Register(ctx context.Context, email, password, displayName string) (*Operator, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// Repository defines data access for operators.
type Repository interface {
	CreateOperator(ctx context.Context, op *Operator) error
	GetOperatorByEmail(ctx context.Context, email string) (*Operator, error)
}
