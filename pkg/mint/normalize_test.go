package mint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/chainsafe/nft-minter/pkg/app/errors"
)

type httpFailure struct{ status int }

func (h *httpFailure) Error() string   { return fmt.Sprintf("http %d", h.status) }
func (h *httpFailure) StatusCode() int { return h.status }

func TestNormalize_Nil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}

func TestNormalize_Taxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		reason   Reason
		severity Severity
		message  string
		category apperrors.Category
	}{
		{
			name:     "empty field",
			err:      ValidationError(ReasonEmptyField, "name is required", nil),
			kind:     KindValidation,
			reason:   ReasonEmptyField,
			severity: SeverityError,
			message:  "name is required",
			category: apperrors.CategoryDataError,
		},
		{
			name:     "missing asset",
			err:      ValidationError(ReasonMissingAsset, "", ErrMissingAsset),
			kind:     KindValidation,
			reason:   ReasonMissingAsset,
			severity: SeverityError,
			message:  "Please attach an image before minting",
			category: apperrors.CategoryDataError,
		},
		{
			name:     "in flight",
			err:      InFlightError(),
			kind:     KindValidation,
			reason:   ReasonInFlight,
			severity: SeverityWarning,
			category: apperrors.CategoryLocked,
		},
		{
			name:     "not admin",
			err:      AuthorizationError(nil),
			kind:     KindAuthorization,
			severity: SeverityError,
			message:  "Only administrators can mint a collection",
			category: apperrors.CategoryForbidden,
		},
		{
			name:     "upload with status",
			err:      UploadError(&httpFailure{status: 500}),
			kind:     KindUpload,
			reason:   ReasonNetwork,
			severity: SeverityError,
			message:  "Asset upload to IPFS failed (status 500)",
			category: apperrors.CategoryDependencyFailure,
		},
		{
			name:     "wallet rejected",
			err:      SubmissionError(fmt.Errorf("sign: %w", ErrWalletRejected)),
			kind:     KindSubmission,
			reason:   ReasonWalletRejected,
			severity: SeverityError,
			message:  "The transaction was rejected by the wallet",
			category: apperrors.CategoryDependencyFailure,
		},
		{
			name:     "network rejected",
			err:      SubmissionError(errors.New("insufficient funds for gas")),
			kind:     KindSubmission,
			reason:   ReasonNetwork,
			severity: SeverityError,
			message:  "The network rejected the mint transaction",
			category: apperrors.CategoryDependencyFailure,
		},
		{
			name:     "reverted",
			err:      ConfirmationError(fmt.Errorf("tx 0x01: %w", ErrReverted)),
			kind:     KindConfirmation,
			reason:   ReasonReverted,
			severity: SeverityError,
			message:  "The mint transaction failed on-chain",
			category: apperrors.CategoryDependencyFailure,
		},
		{
			name:     "timeout",
			err:      ConfirmationError(ErrConfirmationTimeout),
			kind:     KindConfirmation,
			reason:   ReasonTimeout,
			severity: SeverityError,
			message:  "The mint transaction was not confirmed in time",
			category: apperrors.CategoryConnectionTimeout,
		},
		{
			name:     "token mismatch",
			err:      ConfirmationError(fmt.Errorf("%w: minted 3, drafted 2", ErrTokenMismatch)),
			kind:     KindConfirmation,
			reason:   ReasonTokenMismatch,
			severity: SeverityError,
			message:  "The collection minted a different token than expected",
			category: apperrors.CategoryDependencyFailure,
		},
		{
			name:     "unstructured",
			err:      errors.New("boom"),
			kind:     KindUnknown,
			severity: SeverityError,
			message:  unknownMessage,
			category: apperrors.CategoryGeneralError,
		},
		{
			name:     "cancelled",
			err:      fmt.Errorf("upload: %w", context.Canceled),
			kind:     KindUnknown,
			severity: SeverityWarning,
			category: apperrors.CategoryGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalize(tt.err)
			require.NotNil(t, n)
			assert.Equal(t, tt.kind, n.Kind)
			assert.Equal(t, tt.reason, n.Reason)
			assert.Equal(t, tt.severity, n.Severity)
			assert.NotEmpty(t, n.Message)
			if tt.message != "" {
				assert.Equal(t, tt.message, n.Message)
			}
			assert.Equal(t, tt.err.Error(), n.Detail)
			assert.Same(t, tt.err, n.Cause)
			if n.Severity == SeverityError {
				assert.Equal(t, ErrorAutoHide, n.AutoHide)
			}

			svcErr := n.ToServiceError()
			assert.True(t, apperrors.Is(svcErr, tt.category), "category %s", tt.category)
		})
	}
}

func TestNormalize_NeverEmptyMessage(t *testing.T) {
	for kind := KindUnknown; kind <= KindConfirmation; kind++ {
		for _, reason := range []Reason{ReasonNone, ReasonNetwork, ReasonTimeout, ReasonReverted} {
			n := Normalize(&Error{Kind: kind, Reason: reason})
			if n.Message == "" {
				t.Errorf("empty message for %s/%s", kind, reason)
			}
		}
	}
}

func TestLifecycleNotifications(t *testing.T) {
	pending := PendingNotification("")
	assert.Equal(t, SeverityInfo, pending.Severity)
	assert.Equal(t,
		"Wine collection is minting ... it will be ready on next block, wait for the confirmation message before minting another collection",
		pending.Message)

	confirmed := ConfirmedNotification("Art collection")
	assert.Equal(t, SeveritySuccess, confirmed.Severity)
	assert.Equal(t, "Art collection minted", confirmed.Message)
}

func TestNotification_JSON(t *testing.T) {
	raw, err := json.Marshal(Normalize(UploadError(&httpFailure{status: 502})))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"kind": "UploadError",
		"reason": "network",
		"severity": "error",
		"message": "Asset upload to IPFS failed (status 502)",
		"auto_hide": 10000
	}`, string(raw))

	raw, err = json.Marshal(PendingNotification(""))
	require.NoError(t, err)
	var pending map[string]any
	require.NoError(t, json.Unmarshal(raw, &pending))
	assert.NotContains(t, pending, "kind", "lifecycle messages are not failures")
	assert.NotContains(t, pending, "auto_hide")
	assert.Equal(t, "info", pending["severity"])
}
