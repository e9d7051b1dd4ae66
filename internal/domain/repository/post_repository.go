package repository

import (
	"context"

	"github.com/feedwire/feedwire/internal/domain/entity"
)

// PostRepository defines post document operations. Find orders by creation
// time descending; ties on equal timestamps are not broken further.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Find(ctx context.Context, page, pageSize int) ([]*entity.Post, int64, error)
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error
}
