// Package mintstore persists the audit trail of mint attempts.
package mintstore

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/chainsafe/nft-minter/pkg/mint"
)

// ErrNotFound is returned when an attempt lookup finds no matching record.
var ErrNotFound = errors.New("mint attempt not found")

// DefaultListLimit caps ListAttempts when no limit is given.
const DefaultListLimit = 50

// Store defines the interface for mint attempt persistence
type Store interface {
	CreateAttempt(ctx context.Context, attempt *mint.Attempt) error
	UpdateAttempt(ctx context.Context, attempt *mint.Attempt) error
	GetAttempt(ctx context.Context, id uuid.UUID) (*mint.Attempt, error)
	ListAttempts(ctx context.Context, opts ...QueryOption) ([]*mint.Attempt, error)
}

// QueryOptions defines options for listing attempts
type QueryOptions struct {
	Operator *common.Address
	State    *mint.State
	Limit    int
}

// QueryOption is a functional option for listing attempts
type QueryOption func(*QueryOptions)

// WithOperator sets the operator filter
func WithOperator(operator common.Address) QueryOption {
	return func(o *QueryOptions) {
		o.Operator = &operator
	}
}

// WithState sets the state filter
func WithState(state mint.State) QueryOption {
	return func(o *QueryOptions) {
		o.State = &state
	}
}

// WithLimit sets the maximum number of attempts returned
func WithLimit(limit int) QueryOption {
	return func(o *QueryOptions) {
		o.Limit = limit
	}
}

func applyQueryOptions(opts []QueryOption) *QueryOptions {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.Limit <= 0 {
		options.Limit = DefaultListLimit
	}
	return options
}
