package services

import (
	portsgw "github.com/SscSPs/ledger_bridge/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/ledger_bridge/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/platform/metrics"
)

// ContainerConfig carries the tunables the services need.
type ContainerConfig struct {
	SearchLimit      int
	JournalListLimit int
	BankImportMethod string
}

// NewContainer creates the service container with properly initialized dependencies.
func NewContainer(gateway portsgw.LedgerGateway, repos *portsrepo.RepositoryProvider, collector metrics.Collector, cfg ContainerConfig) *portssvc.ServiceContainer {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}

	journalOpts := []JournalServiceOption{
		WithJournalMetrics(collector),
		WithJournalListLimit(cfg.JournalListLimit),
	}
	if repos != nil && repos.BatchRunRepo != nil {
		journalOpts = append(journalOpts, WithBatchRunRepository(repos.BatchRunRepo))
	}

	return &portssvc.ServiceContainer{
		Journal: NewJournalService(gateway, journalOpts...),
		BankTransaction: NewBankTransactionService(gateway,
			WithSearchLimit(cfg.SearchLimit),
			WithImportMethod(cfg.BankImportMethod),
			WithBankTransactionMetrics(collector),
		),
		Account: NewAccountService(gateway),
	}
}
