package postgres

import (
	"context"

	"github.com/yeluhq/terminal-server/internal/repository"
	"gorm.io/gorm"
)

// txManager wraps gorm transactions so services can run multi-repository
// read-compute-write sequences atomically.
type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) repository.TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
