package service

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/nft-minter/pkg/auth"
	"github.com/chainsafe/nft-minter/pkg/mint"
	"github.com/chainsafe/nft-minter/pkg/pinning"
)

const operatorHeader = "X-Test-Operator"

// headerAuth trusts the operator named in a test header.
func headerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(operatorHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := auth.WithOperator(r.Context(), common.HexToAddress(raw), auth.MethodSignature)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newTestServer(svc Service) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, svc, HTTPConfig{
		BaseContext:   context.Background(),
		Authenticate:  headerAuth,
		MaxAssetBytes: 1 << 10,
	}, zap.NewNop())
	return r
}

func multipartBody(t *testing.T, fields map[string]string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		part, err := mw.CreateFormFile("file", "label.png")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func postMint(t *testing.T, handler http.Handler, operator common.Address, fields map[string]string, file []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, file)
	req := httptest.NewRequest(http.MethodPost, "/mints", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(operatorHeader, operator.Hex())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

var validFields = map[string]string{
	"name":        "Château Test",
	"description": "Vintage",
	"symbol":      "WINE",
}

// notificationBody mirrors the wire form of mint.Notification.
type notificationBody struct {
	Kind     string      `json:"kind"`
	Reason   mint.Reason `json:"reason"`
	Severity string      `json:"severity"`
	Message  string      `json:"message"`
	AutoHide int64       `json:"auto_hide"`
}

type errorBody struct {
	Error   string           `json:"error"`
	Code    int              `json:"code"`
	Details notificationBody `json:"details"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var got errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func TestDraftHTTP(t *testing.T) {
	h := newHarness(admin)
	handler := newTestServer(h.svc)

	req := httptest.NewRequest(http.MethodGet, "/mints/draft", nil)
	req.Header.Set(operatorHeader, stranger.Hex())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Draft struct {
			Symbol  string `json:"symbol"`
			TokenID int64  `json:"token_id"`
		} `json:"draft"`
		IsAdministrator bool   `json:"is_administrator"`
		Hint            string `json:"hint"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "WINE", got.Draft.Symbol)
	assert.Equal(t, int64(0), got.Draft.TokenID)
	assert.False(t, got.IsAdministrator)
	assert.Equal(t, notAdminHint, got.Hint)
}

func TestMintHTTP_Unauthenticated(t *testing.T) {
	handler := newTestServer(newHarness(admin).svc)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mints/draft", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMintHTTP_AcceptedOncePending(t *testing.T) {
	h := newHarness(admin)
	h.ledger.release = make(chan struct{})
	h.uploader.On("Upload", mock.Anything, mock.Anything).Return(pinned(), nil).Once()
	h.submitter.On("Mint", mock.Anything, mock.Anything).Return(mint.OperationHandle{TxHash: txHash}, nil).Once()
	handler := newTestServer(h.svc)

	rec := postMint(t, handler, admin, validFields, []byte("png-bytes"))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var got struct {
		AttemptID    uuid.UUID         `json:"attempt_id"`
		State        mint.State        `json:"state"`
		Status       string            `json:"status"`
		TxHash       string            `json:"tx_hash"`
		Notification *notificationBody `json:"notification"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, mint.StateAwaitingConfirmation, got.State)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, txHash.Hex(), got.TxHash)
	require.NotNil(t, got.Notification)
	assert.Contains(t, got.Notification.Message, "is minting")
	assert.Equal(t, string(mint.SeverityInfo), got.Notification.Severity)
	assert.Empty(t, got.Notification.Kind, "an info message reports no failure kind")

	// Confirmation continues after the response.
	close(h.ledger.release)
	assert.Eventually(t, func() bool {
		attempt, err := h.svc.GetAttempt(context.Background(), got.AttemptID)
		return err == nil && attempt.State == mint.StateConfirmed
	}, 5*time.Second, 10*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/mints/"+got.AttemptID.String(), nil)
	req.Header.Set(operatorHeader, admin.Hex())
	status := httptest.NewRecorder()
	handler.ServeHTTP(status, req)
	require.Equal(t, http.StatusOK, status.Code)
	var attempt mint.Attempt
	require.NoError(t, json.Unmarshal(status.Body.Bytes(), &attempt))
	assert.Equal(t, mint.StateConfirmed, attempt.State)

	// Another operator cannot see it.
	req = httptest.NewRequest(http.MethodGet, "/mints/"+got.AttemptID.String(), nil)
	req.Header.Set(operatorHeader, stranger.Hex())
	hidden := httptest.NewRecorder()
	handler.ServeHTTP(hidden, req)
	assert.Equal(t, http.StatusNotFound, hidden.Code)

	req = httptest.NewRequest(http.MethodGet, "/mints?limit=5", nil)
	req.Header.Set(operatorHeader, admin.Hex())
	list := httptest.NewRecorder()
	handler.ServeHTTP(list, req)
	require.Equal(t, http.StatusOK, list.Code)
	var listed struct {
		Attempts []mint.Attempt `json:"attempts"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listed))
	assert.Len(t, listed.Attempts, 1)
}

func TestMintHTTP_Failures(t *testing.T) {
	tests := []struct {
		name     string
		operator common.Address
		fields   map[string]string
		file     []byte
		setup    func(h *harness)
		status   int
		kind     mint.Kind
		reason   mint.Reason
	}{
		{
			name:     "empty name",
			operator: admin,
			fields:   map[string]string{"description": "Vintage", "symbol": "WINE"},
			file:     []byte("png"),
			status:   http.StatusBadRequest,
			kind:     mint.KindValidation,
			reason:   mint.ReasonEmptyField,
		},
		{
			name:     "missing file",
			operator: admin,
			fields:   validFields,
			status:   http.StatusBadRequest,
			kind:     mint.KindValidation,
			reason:   mint.ReasonMissingAsset,
		},
		{
			name:     "not an administrator",
			operator: stranger,
			fields:   validFields,
			file:     []byte("png"),
			status:   http.StatusForbidden,
			kind:     mint.KindAuthorization,
		},
		{
			name:     "pinning service down",
			operator: admin,
			fields:   validFields,
			file:     []byte("png"),
			setup: func(h *harness) {
				h.uploader.On("Upload", mock.Anything, mock.Anything).
					Return(nil, &pinning.UploadError{Status: 500}).Once()
			},
			status: http.StatusBadGateway,
			kind:   mint.KindUpload,
			reason: mint.ReasonNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(admin)
			if tt.setup != nil {
				tt.setup(h)
			}

			rec := postMint(t, newTestServer(h.svc), tt.operator, tt.fields, tt.file)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			got := decodeError(t, rec)
			assert.Equal(t, tt.status, got.Code)
			assert.NotEmpty(t, got.Error)
			assert.Equal(t, tt.kind.String(), got.Details.Kind)
			assert.Equal(t, mint.ErrorAutoHide.Milliseconds(), got.Details.AutoHide)
			assert.Equal(t, tt.reason, got.Details.Reason)
			assert.Equal(t, got.Error, got.Details.Message)
			h.submitter.AssertNotCalled(t, "Mint", mock.Anything, mock.Anything)
		})
	}
}

func TestMintHTTP_FileTooLarge(t *testing.T) {
	h := newHarness(admin)
	rec := postMint(t, newTestServer(h.svc), admin, validFields, bytes.Repeat([]byte{1}, 2<<10))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	h.uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestGetAttemptHTTP_InvalidID(t *testing.T) {
	handler := newTestServer(newHarness(admin).svc)
	req := httptest.NewRequest(http.MethodGet, "/mints/not-a-uuid", nil)
	req.Header.Set(operatorHeader, admin.Hex())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// limitRecorder records the limit the handler passes to ListAttempts.
type limitRecorder struct {
	Service
	limit int
}

func (l *limitRecorder) ListAttempts(_ context.Context, _ common.Address, limit int) ([]*mint.Attempt, error) {
	l.limit = limit
	return nil, nil
}

func TestListHTTP_Limit(t *testing.T) {
	tests := []struct {
		query  string
		status int
		limit  int
	}{
		{"", http.StatusOK, 0},
		{"?limit=5", http.StatusOK, 5},
		{"?limit=1000000", http.StatusOK, maxListLimit},
		{"?limit=-1", http.StatusBadRequest, 0},
		{"?limit=ten", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			svc := &limitRecorder{Service: newHarness(admin).svc}
			handler := newTestServer(svc)

			req := httptest.NewRequest(http.MethodGet, "/mints"+tt.query, nil)
			req.Header.Set(operatorHeader, admin.Hex())
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.limit, svc.limit)
		})
	}
}
