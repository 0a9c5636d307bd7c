package minter

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/nft-minter/pkg/auth"
	"github.com/chainsafe/nft-minter/pkg/chainstate"
	"github.com/chainsafe/nft-minter/pkg/config"
	mintservice "github.com/chainsafe/nft-minter/pkg/mint/service"
	"github.com/chainsafe/nft-minter/pkg/mintstore"
)

type staticReader struct {
	admins []common.Address
	count  int64
}

func (r *staticReader) Administrators(context.Context) ([]common.Address, error) {
	return r.admins, nil
}

func (r *staticReader) TokenCount(context.Context) (*big.Int, error) {
	return big.NewInt(r.count), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Auth: config.AuthConfig{
			MessagePrefix:   "nft-minter",
			SignatureMaxAge: time.Minute,
		},
		ChainState: config.ChainStateConfig{LoadTimeout: time.Second},
	}
}

func newTestRouter(t *testing.T, reader chainstate.ChainReader) (http.Handler, *chainstate.Provider) {
	t.Helper()
	s := NewServer(testConfig())
	logger := zap.NewNop()
	state := chainstate.NewProvider(reader, &s.cfg.ChainState, logger)
	svc := mintservice.NewService(nil, nil, nil, state, mintstore.NewMemoryStore(), mintservice.Config{}, logger)
	return s.setupRouter(context.Background(), svc, state, logger), state
}

func TestRouter_HealthAndReadiness(t *testing.T) {
	router, state := newTestRouter(t, &staticReader{count: 3})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	_, err := state.Refresh(context.Background())
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY", rec.Body.String())
}

func TestRouter_DraftRequiresSignedOperator(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	operator := crypto.PubkeyToAddress(key.PublicKey)

	router, _ := newTestRouter(t, &staticReader{admins: []common.Address{operator}, count: 7})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mints/draft", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	message := auth.OperatorMessage("nft-minter", time.Now())
	sig, err := crypto.Sign(auth.PersonalMessageHash(message), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27

	req := httptest.NewRequest(http.MethodGet, "/mints/draft", nil)
	req.Header.Set(auth.HeaderMessage, message)
	req.Header.Set(auth.HeaderSignature, hexutil.Encode(sig))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Draft struct {
			TokenID *big.Int `json:"token_id"`
		} `json:"draft"`
		IsAdministrator bool   `json:"is_administrator"`
		Hint            string `json:"hint"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.IsAdministrator)
	assert.Empty(t, body.Hint)
	assert.Equal(t, int64(7), body.Draft.TokenID.Int64())
}

type drainRecorder struct {
	mintservice.Service
	deadline time.Time
	calls    int
}

func (d *drainRecorder) Shutdown(ctx context.Context) error {
	d.calls++
	d.deadline, _ = ctx.Deadline()
	return nil
}

func TestDrain_UsesShutdownTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Server.ShutdownTimeout = time.Minute
	rec := &drainRecorder{}

	before := time.Now()
	NewServer(cfg).drain(rec)
	assert.Equal(t, 1, rec.calls)
	assert.WithinDuration(t, before.Add(time.Minute), rec.deadline, 5*time.Second)

	cfg.Server.ShutdownTimeout = 0
	before = time.Now()
	NewServer(cfg).drain(rec)
	assert.Equal(t, 2, rec.calls)
	assert.WithinDuration(t, before.Add(defaultDrainTimeout), rec.deadline, 5*time.Second)
}
