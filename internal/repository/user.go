package repository

import (
	"context"

	"catalogapi/internal/model"
)

// UserRepository reads accounts and their roles.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// Create adds an account with the role named by u.Role.Name. An unknown role yields sql.ErrNoRows.
	Create(ctx context.Context, u *model.User) (*model.User, error)
}
