package contract

import (
	"context"

	"stickynotes-be/internal/entity"
	"stickynotes-be/internal/repository/specification"
)

type NoteRepository interface {
	// Create persists a new note and materializes server-assigned fields
	// (id, timestamps, defaults) back onto the given entity.
	Create(ctx context.Context, note *entity.Note) error
	// Update overwrites all mutable fields and refreshes updated_at.
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id uint) error
	// FindOne returns (nil, nil) when no row matches.
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
