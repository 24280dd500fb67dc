// Package users persists store employees and their PIN credentials.
package users

import (
	"context"

	"github.com/dmitrijs2005/tillpoint/internal/server/models"
)

// Repository is the storage contract for users.
type Repository interface {
	// Create inserts a new user and fills in the generated id.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUserName returns a user by login name, or common.ErrNotFound.
	GetByUserName(ctx context.Context, userName string) (*models.User, error)

	// GetByID returns a user by id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
