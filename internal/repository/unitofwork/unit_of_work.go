package unitofwork

import (
	"context"

	"stickynotes-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to a single request. Acquired at
// request entry, it guarantees every data-access call in that request
// shares one session, with optional explicit transaction control.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NoteRepository() contract.NoteRepository
}
