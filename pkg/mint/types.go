// Package mint holds the domain model of the mint submission workflow:
// drafts, attempts and their state machine, and the failure taxonomy shared
// by the uploader, submitter and confirmation tracker.
package mint

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// DefaultSymbol is the symbol proposed on a fresh draft.
const DefaultSymbol = "WINE"

// TokenDraft is the operator supplied record before submission.
// TokenID is assigned from the on-chain token count and is read-only to the operator.
type TokenDraft struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Symbol      string   `json:"symbol"`
	TokenID     *big.Int `json:"token_id"`
}

// Asset is the binary blob attached to a draft.
type Asset struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the asset size in bytes.
func (a *Asset) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}

// ContentLocator is the URI of an uploaded asset, e.g. ipfs://<cid>.
type ContentLocator string

func (l ContentLocator) String() string { return string(l) }

// Upload is the result of a successful asset upload.
type Upload struct {
	Locator    ContentLocator `json:"locator"`
	GatewayURL string         `json:"gateway_url"`
	CID        string         `json:"cid"`
	Size       int64          `json:"size"`
}

// OperationHandle identifies a broadcast transaction until it reaches a terminal state.
// It is never persisted.
type OperationHandle struct {
	TxHash      common.Hash `json:"tx_hash"`
	Nonce       uint64      `json:"nonce"`
	SubmittedAt time.Time   `json:"submitted_at"`
}

// Snapshot is a read-only view of the collection's on-chain storage.
// It is replaced as a whole on refresh, never mutated.
type Snapshot struct {
	Administrators []common.Address
	TokenCount     *big.Int
	LoadedAt       time.Time
}

// Authorize builds the authorization context of caller against the snapshot.
func (s *Snapshot) Authorize(caller common.Address) AuthorizationContext {
	ac := AuthorizationContext{Caller: caller}
	if s != nil {
		ac.Administrators = s.Administrators
	}
	return ac
}

// NextTokenID returns the id the next minted token receives.
func (s *Snapshot) NextTokenID() *big.Int {
	if s == nil || s.TokenCount == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.TokenCount)
}

// AuthorizationContext pairs the caller with the administrator set it is checked against.
type AuthorizationContext struct {
	Caller         common.Address
	Administrators []common.Address
}

// IsAdministrator reports whether the caller is in the administrator set.
func (a AuthorizationContext) IsAdministrator() bool {
	if a.Caller == (common.Address{}) {
		return false
	}
	for _, admin := range a.Administrators {
		if admin == a.Caller {
			return true
		}
	}
	return false
}

// Request is one mint submission.
type Request struct {
	Operator    common.Address
	Name        string
	Description string
	Symbol      string
	Asset       *Asset
}

// Draft returns the text part of the request as a draft carrying tokenID.
func (r *Request) Draft(tokenID *big.Int) TokenDraft {
	return TokenDraft{
		Name:        r.Name,
		Description: r.Description,
		Symbol:      r.Symbol,
		TokenID:     tokenID,
	}
}

// DraftView is a fresh draft as offered to an operator.
type DraftView struct {
	Draft           TokenDraft `json:"draft"`
	IsAdministrator bool       `json:"is_administrator"`
}

// OutcomeStatus is the tag of an Outcome.
type OutcomeStatus int

const (
	OutcomePending OutcomeStatus = iota
	OutcomeConfirmed
	OutcomeFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomePending:
		return "pending"
	case OutcomeConfirmed:
		return "confirmed"
	default:
		return "failed"
	}
}

// MarshalText renders the status as its name.
func (s OutcomeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome is the result of a broadcast: pending, confirmed, or failed with a reason.
type Outcome struct {
	Status OutcomeStatus   `json:"status"`
	Handle OperationHandle `json:"handle"`
	Err    error           `json:"-"`
}

// Result is returned by a mint run.
type Result struct {
	Attempt *Attempt `json:"attempt"`
	Upload  *Upload  `json:"upload,omitempty"`
	Outcome *Outcome `json:"outcome,omitempty"`
}

// Event is emitted to an Observer while an attempt progresses.
type Event struct {
	AttemptID    uuid.UUID
	State        State
	Outcome      *Outcome
	Notification *Notification
}

// Observer receives attempt events. It must not block.
type Observer func(Event)
