package service

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/chainsafe/nft-minter/pkg/chainstate"
	"github.com/chainsafe/nft-minter/pkg/config"
	"github.com/chainsafe/nft-minter/pkg/metadata"
	"github.com/chainsafe/nft-minter/pkg/mint"
	"github.com/chainsafe/nft-minter/pkg/mintstore"
)

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, asset *mint.Asset) (*mint.Upload, error) {
	args := m.Called(ctx, asset)
	up, _ := args.Get(0).(*mint.Upload)
	return up, args.Error(1)
}

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Mint(ctx context.Context, a *metadata.Args) (mint.OperationHandle, error) {
	args := m.Called(ctx, a)
	h, _ := args.Get(0).(mint.OperationHandle)
	return h, args.Error(1)
}

// MintedTokenID reads the token id the fake ledger puts in the receipt's first topic.
func (m *mockSubmitter) MintedTokenID(receipt *types.Receipt) (*big.Int, error) {
	for _, log := range receipt.Logs {
		if len(log.Topics) > 1 {
			return log.Topics[1].Big(), nil
		}
	}
	return nil, errors.New("no Minted event")
}

// fakeLedger stands in for the collection contract: it serves the administrator
// set and token count, and counts a token once its transaction is confirmed.
type fakeLedger struct {
	mu         sync.Mutex
	admins     []common.Address
	count      int64
	reads      int
	confirmErr error
	// release, when set, holds Await until it is closed.
	release chan struct{}
	// mintedShift is added to the token id reported in the receipt.
	mintedShift int64
	// countFailures makes that many TokenCount reads fail after the next confirmation.
	countFailures int
	failing       int
}

func (l *fakeLedger) Administrators(context.Context) ([]common.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads++
	return append([]common.Address(nil), l.admins...), nil
}

func (l *fakeLedger) TokenCount(context.Context) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failing > 0 {
		l.failing--
		return nil, errors.New("rpc unavailable")
	}
	return big.NewInt(l.count), nil
}

func (l *fakeLedger) Await(ctx context.Context, _ mint.OperationHandle) (*types.Receipt, error) {
	if l.release != nil {
		select {
		case <-l.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.confirmErr != nil {
		return nil, l.confirmErr
	}
	minted := common.BigToHash(big.NewInt(l.count + l.mintedShift))
	l.count++
	l.failing = l.countFailures
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(100 + l.count),
		Logs:        []*types.Log{{Topics: []common.Hash{{}, minted}}},
	}, nil
}

func (l *fakeLedger) readCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reads
}

func (l *fakeLedger) tokenCount() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// eventLog records observer events.
type eventLog struct {
	mu     sync.Mutex
	events []mint.Event
}

func (e *eventLog) observe(ev mint.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

func (e *eventLog) states() []mint.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]mint.State, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.State
	}
	return out
}

// waitFor blocks until an event in state is observed.
func (e *eventLog) waitFor(state mint.State, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, s := range e.states() {
			if s == state {
				return true
			}
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func (e *eventLog) last() mint.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events[len(e.events)-1]
}

type harness struct {
	uploader  *mockUploader
	submitter *mockSubmitter
	ledger    *fakeLedger
	store     mintstore.Store
	svc       Service
}

func newHarness(admins ...common.Address) *harness {
	h := &harness{
		uploader:  &mockUploader{},
		submitter: &mockSubmitter{},
		ledger:    &fakeLedger{admins: admins},
		store:     mintstore.NewMemoryStore(),
	}
	provider := chainstate.NewProvider(h.ledger, &config.ChainStateConfig{}, zap.NewNop())
	h.svc = NewService(h.uploader, h.submitter, h.ledger, provider, h.store, Config{}, zap.NewNop())
	return h
}
