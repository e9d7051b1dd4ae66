package repository

import (
	"context"

	"github.com/feedwire/feedwire/internal/domain/entity"
)

// UserRepository defines user document operations. Writes are
// last-write-wins per document; there is no optimistic locking.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateStatus(ctx context.Context, id, status string) error
	AddPost(ctx context.Context, userID, postID string) error
	RemovePost(ctx context.Context, userID, postID string) error
}
