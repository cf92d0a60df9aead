package mocks

import (
	"context"

	"storyverse-server/shared/interfaces"
)

// TxManager выполняет fn без реальной транзакции: querier = nil.
// Committed/RolledBack позволяют проверить исход в тестах сервисов.
type TxManager struct {
	Committed  int
	RolledBack int
}

// WithTransaction implements interfaces.TxManager.
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx interfaces.DBTX) error) error {
	if err := fn(ctx, nil); err != nil {
		m.RolledBack++
		return err
	}
	m.Committed++
	return nil
}

var _ interfaces.TxManager = (*TxManager)(nil)
