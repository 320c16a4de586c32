package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_bridge/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository to db.
func NewRepositoryProvider(db DBTX) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		BatchRunRepo: NewBatchRunRepository(db),
	}
}
