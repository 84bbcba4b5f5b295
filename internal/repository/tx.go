package repository

import (
	"context"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/logger"
)

// Tx is the commit/rollback half of every transactional repository
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SafeRollback is meant to be deferred right after BeginTx. After a
// successful Commit the rollback reports a closed transaction, which is not logged.
func SafeRollback(ctx context.Context, tx Tx) {
	err := tx.Rollback(ctx)
	if err == nil || err.Error() == domain.ErrMsgTxClosed {
		return
	}
	logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
}
