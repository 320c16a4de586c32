package frappe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portsgw "github.com/SscSPs/ledger_bridge/internal/core/ports/gateways"
)

var _ portsgw.LedgerGateway = (*Client)(nil)

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

type messageEnvelope struct {
	Message any `json:"message"`
}

func resourcePath(docType string, id ...string) string {
	path := "/api/resource/" + url.PathEscape(docType)
	if len(id) > 0 {
		path += "/" + url.PathEscape(id[0])
	}
	return path
}

// List fetches documents matching every filter.
func (c *Client) List(ctx context.Context, docType string, filters []portsgw.Filter, opts portsgw.ListOptions) ([]domain.RemoteRecord, error) {
	query, err := listQuery(filters, opts)
	if err != nil {
		return nil, err
	}

	var out dataEnvelope[[]domain.RemoteRecord]
	if err := c.do(ctx, call{
		operation: "list",
		docType:   docType,
		method:    http.MethodGet,
		path:      resourcePath(docType),
		query:     query,
	}, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []domain.RemoteRecord{}, nil
	}
	return out.Data, nil
}

// Create inserts a new document and returns it as stored by the ledger.
func (c *Client) Create(ctx context.Context, docType string, payload map[string]any) (domain.RemoteRecord, error) {
	var out dataEnvelope[domain.RemoteRecord]
	if err := c.do(ctx, call{
		operation: "create",
		docType:   docType,
		method:    http.MethodPost,
		path:      resourcePath(docType),
		body:      payload,
	}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Update overwrites the given fields of a document.
func (c *Client) Update(ctx context.Context, docType string, id string, payload map[string]any) (domain.RemoteRecord, error) {
	var out dataEnvelope[domain.RemoteRecord]
	if err := c.do(ctx, call{
		operation: "update",
		docType:   docType,
		method:    http.MethodPut,
		path:      resourcePath(docType, id),
		body:      payload,
	}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Submit sets docstatus to Submitted. The ledger runs its own posting checks and may refuse.
func (c *Client) Submit(ctx context.Context, docType string, id string) (domain.RemoteRecord, error) {
	var out dataEnvelope[domain.RemoteRecord]
	if err := c.do(ctx, call{
		operation: "submit",
		docType:   docType,
		method:    http.MethodPut,
		path:      resourcePath(docType, id),
		body:      map[string]any{"docstatus": int(domain.DocStatusSubmitted)},
	}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Invoke calls a whitelisted server method and returns its "message" unchanged.
func (c *Client) Invoke(ctx context.Context, method string, params map[string]any) (any, error) {
	if params == nil {
		params = map[string]any{}
	}
	var out messageEnvelope
	if err := c.do(ctx, call{
		operation: "invoke",
		docType:   method,
		method:    http.MethodPost,
		path:      "/api/method/" + method,
		body:      params,
	}, &out); err != nil {
		return nil, err
	}
	return out.Message, nil
}

// listQuery encodes filters as [[field, operator, value], ...] and the options as query parameters.
func listQuery(filters []portsgw.Filter, opts portsgw.ListOptions) (url.Values, error) {
	query := url.Values{}
	if len(filters) > 0 {
		triples := make([][]any, len(filters))
		for i, f := range filters {
			triples[i] = []any{f.Field, f.Operator, f.Value}
		}
		encoded, err := json.Marshal(triples)
		if err != nil {
			return nil, fmt.Errorf("failed to encode filters: %w", err)
		}
		query.Set("filters", string(encoded))
	}
	if len(opts.Fields) > 0 {
		encoded, err := json.Marshal(opts.Fields)
		if err != nil {
			return nil, fmt.Errorf("failed to encode fields: %w", err)
		}
		query.Set("fields", string(encoded))
	}
	if opts.Limit > 0 {
		query.Set("limit_page_length", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("limit_start", strconv.Itoa(opts.Offset))
	}
	if opts.OrderBy != "" {
		query.Set("order_by", opts.OrderBy)
	}
	return query, nil
}
