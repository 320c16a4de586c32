package gateways

import (
	"context"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
)

// Filter operators understood by the remote ledger's query language.
const (
	OpEquals       = "="
	OpGreaterEqual = ">="
	OpLessEqual    = "<="
	OpBetween      = "between"
	OpIn           = "in"
	OpLike         = "like"
)

// Filter is a single [field, operator, value] predicate evaluated by the remote ledger.
type Filter struct {
	Field    string
	Operator string
	Value    any
}

// ListOptions controls projection and paging of a List call.
type ListOptions struct {
	Fields  []string // nil selects the remote default projection
	Limit   int      // 0 lets the remote apply its default page size
	Offset  int
	OrderBy string
}

// DocumentReader lists documents of a type.
type DocumentReader interface {
	List(ctx context.Context, docType string, filters []Filter, opts ListOptions) ([]domain.RemoteRecord, error)
}

// DocumentWriter creates, updates and submits documents.
type DocumentWriter interface {
	// Create fails with an *apperrors.GatewayError when the remote rejects the payload.
	Create(ctx context.Context, docType string, payload map[string]any) (domain.RemoteRecord, error)
	Update(ctx context.Context, docType string, id string, payload map[string]any) (domain.RemoteRecord, error)
	// Submit moves a draft document to the terminal Submitted state.
	Submit(ctx context.Context, docType string, id string) (domain.RemoteRecord, error)
}

// MethodInvoker calls named remote procedures such as balance lookups.
type MethodInvoker interface {
	Invoke(ctx context.Context, method string, params map[string]any) (any, error)
}

// LedgerGateway is everything the core needs from the remote ledger.
// Network, authentication and resilience concerns belong to implementations;
// callers never retry a failed call.
type LedgerGateway interface {
	DocumentReader
	DocumentWriter
	MethodInvoker
}
