package mintstore

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/nft-minter/pkg/mint"
)

var (
	operatorA = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	operatorB = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

func newAttempt(operator common.Address, tokenID int64, createdAt time.Time) *mint.Attempt {
	return mint.NewAttempt(operator, mint.TokenDraft{
		Name:        "Château Test",
		Description: "Vintage",
		Symbol:      mint.DefaultSymbol,
		TokenID:     big.NewInt(tokenID),
	}, createdAt)
}

// runStoreSuite exercises the Store contract against any implementation.
func runStoreSuite(t *testing.T, ctx context.Context, store Store) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("create and get", func(t *testing.T) {
		a := newAttempt(operatorA, 0, base)
		require.NoError(t, store.CreateAttempt(ctx, a))

		got, err := store.GetAttempt(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
		assert.Equal(t, operatorA, got.Operator)
		assert.Equal(t, "Château Test", got.Draft.Name)
		assert.Equal(t, "WINE", got.Draft.Symbol)
		assert.Equal(t, int64(0), got.Draft.TokenID.Int64())
		assert.Equal(t, mint.StateIdle, got.State)
		assert.Empty(t, got.Locator)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := store.GetAttempt(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update records progress and failure", func(t *testing.T) {
		a := newAttempt(operatorA, 1, base.Add(time.Minute))
		require.NoError(t, store.CreateAttempt(ctx, a))

		now := base.Add(2 * time.Minute)
		require.NoError(t, a.Transition(mint.StateAuthorizing, now))
		require.NoError(t, a.Transition(mint.StateUploading, now))
		a.Locator = "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
		a.GatewayURL = "https://gateway.pinata.cloud/ipfs/QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
		require.NoError(t, a.Fail(mint.Normalize(mint.SubmissionError(mint.ErrWalletRejected)), now))
		require.NoError(t, store.UpdateAttempt(ctx, a))

		got, err := store.GetAttempt(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, mint.StateFailed, got.State)
		assert.Equal(t, a.Locator, got.Locator)
		assert.Equal(t, a.GatewayURL, got.GatewayURL)
		assert.Equal(t, "SubmissionError", got.FailureKind)
		assert.NotEmpty(t, got.FailureMessage)
	})

	t.Run("update missing", func(t *testing.T) {
		err := store.UpdateAttempt(ctx, newAttempt(operatorA, 9, base))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list filters and orders newest first", func(t *testing.T) {
		b := newAttempt(operatorB, 2, base.Add(time.Hour))
		require.NoError(t, store.CreateAttempt(ctx, b))

		all, err := store.ListAttempts(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, b.ID, all[0].ID)

		mine, err := store.ListAttempts(ctx, WithOperator(operatorA))
		require.NoError(t, err)
		assert.Len(t, mine, 2)

		failed, err := store.ListAttempts(ctx, WithState(mint.StateFailed))
		require.NoError(t, err)
		assert.Len(t, failed, 1)

		limited, err := store.ListAttempts(ctx, WithLimit(1))
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, context.Background(), NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := newAttempt(operatorA, 5, time.Now())
	require.NoError(t, store.CreateAttempt(ctx, a))

	a.Draft.TokenID.SetInt64(99)
	got, err := store.GetAttempt(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Draft.TokenID.Int64())

	got.State = mint.StateConfirmed
	again, err := store.GetAttempt(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, mint.StateIdle, again.State)

	assert.Error(t, store.CreateAttempt(ctx, a))
}
