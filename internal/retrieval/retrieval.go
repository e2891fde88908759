// Package retrieval supplies background context for queries from an
// embedded vector store, and ingests documents into it.
package retrieval

import (
	"context"
	"errors"
)

// ErrRetrieval wraps every failure to fetch context.
var ErrRetrieval = errors.New("retrieval failed")

// Provider returns background text relevant to a query.
type Provider interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

// Nop is a Provider with no documents.
type Nop struct{}

// Retrieve always returns "".
func (Nop) Retrieve(context.Context, string) (string, error) { return "", nil }
