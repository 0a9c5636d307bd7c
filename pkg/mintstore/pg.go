package mintstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/chainsafe/nft-minter/pkg/mint"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the attempt store
func NewStore(db *bun.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) CreateAttempt(ctx context.Context, attempt *mint.Attempt) error {
	_, err := s.db.NewInsert().
		Model(toAttemptDao(attempt)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create mint attempt: %w", err)
	}
	return nil
}

func (s *pgStore) UpdateAttempt(ctx context.Context, attempt *mint.Attempt) error {
	dao := toAttemptDao(attempt)
	res, err := s.db.NewUpdate().
		Model(dao).
		Column("state", "locator", "gateway_url", "failure_kind", "failure_message", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update mint attempt: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) GetAttempt(ctx context.Context, id uuid.UUID) (*mint.Attempt, error) {
	dao := new(AttemptDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mint attempt: %w", err)
	}
	return toAttempt(dao), nil
}

func (s *pgStore) ListAttempts(ctx context.Context, opts ...QueryOption) ([]*mint.Attempt, error) {
	options := applyQueryOptions(opts)

	var daos []AttemptDao
	query := s.db.NewSelect().Model(&daos)
	if options.Operator != nil {
		query = query.Where("operator = ?", options.Operator.Hex())
	}
	if options.State != nil {
		query = query.Where("state = ?", string(*options.State))
	}
	err := query.
		Order("created_at DESC").
		Limit(options.Limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list mint attempts: %w", err)
	}

	attempts := make([]*mint.Attempt, len(daos))
	for i := range daos {
		attempts[i] = toAttempt(&daos[i])
	}
	return attempts, nil
}
