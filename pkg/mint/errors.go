package mint

import (
	"errors"
)

// Kind is the tag of the mint failure taxonomy.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthorization
	KindUpload
	KindSubmission
	KindConfirmation
	// KindNone tags lifecycle notifications that report no failure.
	KindNone
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindAuthorization:
		return "AuthorizationError"
	case KindUpload:
		return "UploadError"
	case KindSubmission:
		return "SubmissionError"
	case KindConfirmation:
		return "ConfirmationError"
	case KindNone:
		return ""
	default:
		return "UnknownError"
	}
}

// MarshalText renders the kind as its name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Reason refines a Kind.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonEmptyField     Reason = "empty_field"
	ReasonMissingAsset   Reason = "missing_asset"
	ReasonInFlight       Reason = "in_flight"
	ReasonWalletRejected Reason = "wallet_rejected"
	ReasonNetwork        Reason = "network"
	ReasonReverted       Reason = "reverted"
	ReasonTimeout        Reason = "timeout"
	ReasonTokenMismatch  Reason = "token_mismatch"
)

var (
	// ErrMissingAsset is returned when a request carries no asset.
	ErrMissingAsset = errors.New("asset is required")
	// ErrNotAdministrator is returned when the caller is not in the administrator set.
	ErrNotAdministrator = errors.New("caller is not an administrator")
	// ErrAttemptInFlight is returned when the operator already has a running attempt.
	ErrAttemptInFlight = errors.New("mint attempt already in flight")
	// ErrWalletRejected marks a signer refusing to sign the transaction.
	ErrWalletRejected = errors.New("wallet rejected transaction")
	// ErrReverted marks a transaction included with a failed status.
	ErrReverted = errors.New("transaction reverted")
	// ErrConfirmationTimeout marks a confirmation wait exceeding its bound.
	ErrConfirmationTimeout = errors.New("confirmation timeout")
	// ErrTokenMismatch marks a confirmed transaction that minted a different token than drafted.
	ErrTokenMismatch = errors.New("minted token does not match draft")
)

// Error is a classified mint failure.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Reason != ReasonNone {
		msg += "(" + string(e.Reason) + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError classifies a failure detected before any I/O.
func ValidationError(reason Reason, message string, err error) error {
	return &Error{Kind: KindValidation, Reason: reason, Message: message, Err: err}
}

// AuthorizationError classifies a caller outside the administrator set.
func AuthorizationError(err error) error {
	if err == nil {
		err = ErrNotAdministrator
	}
	return &Error{Kind: KindAuthorization, Err: err}
}

// UploadError classifies a pinning failure.
func UploadError(err error) error {
	return &Error{Kind: KindUpload, Reason: ReasonNetwork, Err: err}
}

// SubmissionError classifies a broadcast failure as wallet or network rejection.
func SubmissionError(err error) error {
	reason := ReasonNetwork
	if errors.Is(err, ErrWalletRejected) {
		reason = ReasonWalletRejected
	}
	return &Error{Kind: KindSubmission, Reason: reason, Err: err}
}

// ConfirmationError classifies a failure while awaiting inclusion.
func ConfirmationError(err error) error {
	reason := ReasonNetwork
	switch {
	case errors.Is(err, ErrReverted):
		reason = ReasonReverted
	case errors.Is(err, ErrConfirmationTimeout):
		reason = ReasonTimeout
	case errors.Is(err, ErrTokenMismatch):
		reason = ReasonTokenMismatch
	}
	return &Error{Kind: KindConfirmation, Reason: reason, Err: err}
}

// KindOf returns the kind of err, KindUnknown when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ReasonOf returns the reason of err.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ReasonNone
}

// InFlightError is returned when the operator already runs an attempt.
func InFlightError() error {
	return ValidationError(ReasonInFlight, "", ErrAttemptInFlight)
}
