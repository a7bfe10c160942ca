package memory

import (
	"context"

	"stickynotes-be/internal/repository/contract"
	"stickynotes-be/internal/repository/unitofwork"
)

// UnitOfWork adapts the in-memory repository to the unit-of-work contract.
// Transactions are no-ops; every operation commits immediately.
type UnitOfWork struct {
	notes *NoteRepository
}

func (u *UnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *UnitOfWork) Commit() error                   { return nil }
func (u *UnitOfWork) Rollback() error                 { return nil }

func (u *UnitOfWork) NoteRepository() contract.NoteRepository {
	return u.notes
}

type RepositoryFactory struct {
	notes *NoteRepository
}

func NewRepositoryFactory(notes *NoteRepository) *RepositoryFactory {
	return &RepositoryFactory{notes: notes}
}

func (f *RepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &UnitOfWork{notes: f.notes}
}
