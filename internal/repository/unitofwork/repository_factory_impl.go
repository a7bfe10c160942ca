package unitofwork

import (
	"context"

	"gorm.io/gorm"
)

type RepositoryFactoryImpl struct {
	db *gorm.DB
}

// NewRepositoryFactory wraps the process-wide DB handle. db may be nil when
// no connection string was configured; the unit of work then surfaces
// database.ErrNotConfigured on first access instead of failing startup.
func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &RepositoryFactoryImpl{
		db: db,
	}
}

func (f *RepositoryFactoryImpl) NewUnitOfWork(ctx context.Context) UnitOfWork {
	// UoW is short lived, one per request.
	return NewUnitOfWork(f.db)
}
