package mintstore

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/chainsafe/nft-minter/pkg/mint"
)

// AttemptDao is a data access object that maps directly to the 'mint_attempts' table in PostgreSQL.
type AttemptDao struct {
	bun.BaseModel  `bun:"table:mint_attempts,alias:ma"`
	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	Operator       string    `bun:"operator,notnull,type:varchar(42)"`
	TokenID        string    `bun:"token_id,notnull,type:numeric(78,0)"`
	Name           string    `bun:"name,notnull,type:text"`
	Description    string    `bun:"description,notnull,type:text"`
	Symbol         string    `bun:"symbol,notnull,type:varchar(64)"`
	State          string    `bun:"state,notnull,type:varchar(32)"`
	Locator        *string   `bun:"locator,type:text"`
	GatewayURL     *string   `bun:"gateway_url,type:text"`
	FailureKind    *string   `bun:"failure_kind,type:varchar(32)"`
	FailureMessage *string   `bun:"failure_message,type:text"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// toAttemptDao converts a mint.Attempt to AttemptDao.
func toAttemptDao(a *mint.Attempt) *AttemptDao {
	tokenID := "0"
	if a.Draft.TokenID != nil {
		tokenID = a.Draft.TokenID.String()
	}
	return &AttemptDao{
		ID:             a.ID,
		Operator:       a.Operator.Hex(),
		TokenID:        tokenID,
		Name:           a.Draft.Name,
		Description:    a.Draft.Description,
		Symbol:         a.Draft.Symbol,
		State:          string(a.State),
		Locator:        optional(a.Locator.String()),
		GatewayURL:     optional(a.GatewayURL),
		FailureKind:    optional(a.FailureKind),
		FailureMessage: optional(a.FailureMessage),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// toAttempt converts an AttemptDao to mint.Attempt.
func toAttempt(dao *AttemptDao) *mint.Attempt {
	tokenID, ok := new(big.Int).SetString(dao.TokenID, 10)
	if !ok {
		tokenID = new(big.Int)
	}
	return &mint.Attempt{
		ID:       dao.ID,
		Operator: common.HexToAddress(dao.Operator),
		Draft: mint.TokenDraft{
			Name:        dao.Name,
			Description: dao.Description,
			Symbol:      dao.Symbol,
			TokenID:     tokenID,
		},
		State:          mint.State(dao.State),
		Locator:        mint.ContentLocator(deref(dao.Locator)),
		GatewayURL:     deref(dao.GatewayURL),
		FailureKind:    deref(dao.FailureKind),
		FailureMessage: deref(dao.FailureMessage),
		CreatedAt:      dao.CreatedAt,
		UpdatedAt:      dao.UpdatedAt,
	}
}
