package mint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/chainsafe/nft-minter/pkg/app/errors"
)

// Severity is the variant of a transient notification.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// ErrorAutoHide is how long error notifications stay visible.
const ErrorAutoHide = 10 * time.Second

// DefaultCollectionLabel names the collection in operator messages.
const DefaultCollectionLabel = "Wine collection"

const unknownMessage = "Something went wrong while minting, please try again"

// Notification is the single user-facing shape of every mint event and failure.
// Detail and Cause keep the original diagnostic payload for logging.
type Notification struct {
	Kind     Kind
	Reason   Reason
	Severity Severity
	Message  string
	AutoHide time.Duration
	Detail   string
	Cause    error
}

type notificationJSON struct {
	Kind     string   `json:"kind,omitempty"`
	Reason   Reason   `json:"reason,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	// AutoHide is in milliseconds.
	AutoHide int64 `json:"auto_hide,omitempty"`
}

// MarshalJSON renders the client view. Lifecycle notifications carry no kind.
func (n Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(notificationJSON{
		Kind:     n.Kind.String(),
		Reason:   n.Reason,
		Severity: n.Severity,
		Message:  n.Message,
		AutoHide: n.AutoHide.Milliseconds(),
	})
}

// Fields returns zap fields describing the notification.
func (n *Notification) Fields() []zap.Field {
	fields := []zap.Field{
		zap.String("severity", string(n.Severity)),
		zap.String("message", n.Message),
	}
	if n.Kind != KindNone {
		fields = append(fields, zap.String("kind", n.Kind.String()))
	}
	if n.Reason != ReasonNone {
		fields = append(fields, zap.String("reason", string(n.Reason)))
	}
	if n.Cause != nil {
		fields = append(fields, zap.Error(n.Cause))
	}
	return fields
}

// statusCoder is implemented by failures carrying an upstream HTTP status.
type statusCoder interface {
	StatusCode() int
}

// Normalize maps any failure into a Notification. It returns nil for a nil error.
func Normalize(err error) *Notification {
	if err == nil {
		return nil
	}

	n := &Notification{
		Kind:     KindUnknown,
		Severity: SeverityError,
		AutoHide: ErrorAutoHide,
		Detail:   err.Error(),
		Cause:    err,
	}

	var mintErr *Error
	if !errors.As(err, &mintErr) {
		switch {
		case errors.Is(err, context.Canceled):
			n.Severity = SeverityWarning
			n.Message = "The mint request was cancelled"
		case errors.Is(err, context.DeadlineExceeded):
			n.Message = "The mint request timed out, please try again"
		default:
			n.Message = unknownMessage
		}
		return n
	}

	n.Kind = mintErr.Kind
	n.Reason = mintErr.Reason
	n.Message = displayMessage(mintErr)
	if n.Reason == ReasonInFlight {
		n.Severity = SeverityWarning
	}
	if n.Message == "" {
		n.Message = unknownMessage
	}
	return n
}

func displayMessage(e *Error) string {
	switch e.Kind {
	case KindValidation:
		switch e.Reason {
		case ReasonMissingAsset:
			return "Please attach an image before minting"
		case ReasonInFlight:
			return "A mint is already in progress, wait for the confirmation message before minting another collection"
		}
		if e.Message != "" {
			return e.Message
		}
		return "Please fill in all required fields"
	case KindAuthorization:
		return "Only administrators can mint a collection"
	case KindUpload:
		var sc statusCoder
		if errors.As(e.Err, &sc) && sc.StatusCode() != 0 {
			return fmt.Sprintf("Asset upload to IPFS failed (status %d)", sc.StatusCode())
		}
		return "Asset upload to IPFS failed"
	case KindSubmission:
		if e.Reason == ReasonWalletRejected {
			return "The transaction was rejected by the wallet"
		}
		return "The network rejected the mint transaction"
	case KindConfirmation:
		switch e.Reason {
		case ReasonReverted:
			return "The mint transaction failed on-chain"
		case ReasonTimeout:
			return "The mint transaction was not confirmed in time"
		case ReasonTokenMismatch:
			return "The collection minted a different token than expected"
		}
		return "Could not confirm the mint transaction"
	}
	return unknownMessage
}

// PendingNotification is shown once the transaction is broadcast.
func PendingNotification(label string) *Notification {
	return &Notification{
		Kind:     KindNone,
		Severity: SeverityInfo,
		Message: fmt.Sprintf(
			"%s is minting ... it will be ready on next block, wait for the confirmation message before minting another collection",
			collectionLabel(label),
		),
	}
}

// ConfirmedNotification is shown once the transaction is confirmed.
func ConfirmedNotification(label string) *Notification {
	return &Notification{
		Kind:     KindNone,
		Severity: SeveritySuccess,
		Message:  collectionLabel(label) + " minted",
	}
}

func collectionLabel(label string) string {
	if label == "" {
		return DefaultCollectionLabel
	}
	return label
}

// ToServiceError converts the notification into the HTTP error shape.
func (n *Notification) ToServiceError() error {
	cat := apperrors.CategoryGeneralError
	switch n.Kind {
	case KindValidation:
		cat = apperrors.CategoryDataError
		if n.Reason == ReasonInFlight {
			cat = apperrors.CategoryLocked
		}
	case KindAuthorization:
		cat = apperrors.CategoryForbidden
	case KindUpload, KindSubmission:
		cat = apperrors.CategoryDependencyFailure
	case KindConfirmation:
		cat = apperrors.CategoryDependencyFailure
		if n.Reason == ReasonTimeout {
			cat = apperrors.CategoryConnectionTimeout
		}
	}
	return apperrors.WithDetails(cat, n.Cause, n.Message, n)
}
