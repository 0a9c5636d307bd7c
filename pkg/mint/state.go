package mint

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// State is a step of the mint state machine.
type State string

const (
	StateIdle                 State = "idle"
	StateAuthorizing          State = "authorizing"
	StateUploading            State = "uploading"
	StateEncoding             State = "encoding"
	StateSubmitting           State = "submitting"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateConfirmed            State = "confirmed"
	StateFailed               State = "failed"
)

var transitions = map[State][]State{
	StateIdle:                 {StateAuthorizing, StateFailed},
	StateAuthorizing:          {StateUploading, StateFailed},
	StateUploading:            {StateEncoding, StateFailed},
	StateEncoding:             {StateSubmitting, StateFailed},
	StateSubmitting:           {StateAwaitingConfirmation, StateFailed},
	StateAwaitingConfirmation: {StateConfirmed, StateFailed},
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateConfirmed || s == StateFailed
}

// CanTransition reports whether s -> to is an edge of the state machine.
func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Attempt is the audit record of one mint run.
// The operation handle is deliberately absent: it lives only for the duration of the run.
type Attempt struct {
	ID             uuid.UUID      `json:"id"`
	Operator       common.Address `json:"operator"`
	Draft          TokenDraft     `json:"draft"`
	State          State          `json:"state"`
	Locator        ContentLocator `json:"locator,omitempty"`
	GatewayURL     string         `json:"gateway_url,omitempty"`
	FailureKind    string         `json:"failure_kind,omitempty"`
	FailureMessage string         `json:"failure_message,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewAttempt creates an idle attempt for operator.
func NewAttempt(operator common.Address, draft TokenDraft, now time.Time) *Attempt {
	return &Attempt{
		ID:        uuid.New(),
		Operator:  operator,
		Draft:     draft,
		State:     StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the attempt to the next state.
func (a *Attempt) Transition(to State, now time.Time) error {
	if !a.State.CanTransition(to) {
		return fmt.Errorf("illegal mint state transition %s -> %s", a.State, to)
	}
	a.State = to
	a.UpdatedAt = now
	return nil
}

// Fail moves the attempt to StateFailed and records the normalized failure.
func (a *Attempt) Fail(n *Notification, now time.Time) error {
	if err := a.Transition(StateFailed, now); err != nil {
		return err
	}
	if n != nil {
		a.FailureKind = n.Kind.String()
		a.FailureMessage = n.Message
	}
	return nil
}

// Clone returns a copy safe to hand to other goroutines.
func (a *Attempt) Clone() *Attempt {
	if a == nil {
		return nil
	}
	c := *a
	if a.Draft.TokenID != nil {
		c.Draft.TokenID = new(big.Int).Set(a.Draft.TokenID)
	}
	return &c
}
