// Package chainstate keeps a read-only snapshot of the collection's on-chain
// storage: the administrator list and the number of recorded tokens.
package chainstate

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/chainsafe/nft-minter/internal/metrics"
	"github.com/chainsafe/nft-minter/pkg/config"
	"github.com/chainsafe/nft-minter/pkg/mint"
)

// ChainReader reads the collection storage.
type ChainReader interface {
	Administrators(ctx context.Context) ([]common.Address, error)
	TokenCount(ctx context.Context) (*big.Int, error)
}

// Provider serves the latest snapshot. Refresh swaps in a new snapshot;
// a snapshot already handed out is never modified.
type Provider struct {
	reader      ChainReader
	loadTimeout time.Duration
	logger      *zap.Logger

	current atomic.Pointer[mint.Snapshot]
	loadMu  sync.Mutex

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewProvider creates a provider. Nothing is loaded until first use.
func NewProvider(reader ChainReader, cfg *config.ChainStateConfig, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	loadTimeout := cfg.LoadTimeout
	if loadTimeout <= 0 {
		loadTimeout = 15 * time.Second
	}
	return &Provider{
		reader:      reader,
		loadTimeout: loadTimeout,
		logger:      logger,
		stopCh:      make(chan struct{}),
	}
}

// Snapshot returns the current snapshot, loading it on first use.
func (p *Provider) Snapshot(ctx context.Context) (*mint.Snapshot, error) {
	if s := p.current.Load(); s != nil {
		return s, nil
	}
	return p.Refresh(ctx)
}

// Refresh reads the chain and replaces the current snapshot.
// On failure the previous snapshot stays in place.
func (p *Provider) Refresh(ctx context.Context) (*mint.Snapshot, error) {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.loadTimeout)
	defer cancel()

	admins, err := p.reader.Administrators(ctx)
	if err != nil {
		metrics.SnapshotRefreshes.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to load administrators: %w", err)
	}
	count, err := p.reader.TokenCount(ctx)
	if err != nil {
		metrics.SnapshotRefreshes.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to load token count: %w", err)
	}
	if count == nil {
		count = new(big.Int)
	}

	snap := &mint.Snapshot{
		Administrators: append([]common.Address(nil), admins...),
		TokenCount:     new(big.Int).Set(count),
		LoadedAt:       time.Now(),
	}
	p.current.Store(snap)

	metrics.SnapshotRefreshes.WithLabelValues("ok").Inc()
	if count.IsInt64() {
		metrics.TokenCount.Set(float64(count.Int64()))
	}
	p.logger.Debug("Chain state refreshed",
		zap.Int("administrators", len(admins)),
		zap.String("token_count", count.String()))

	return snap, nil
}

// Invalidate drops the current snapshot so the next Snapshot reads the chain
// again. It waits for a load in progress, which may predate the change.
func (p *Provider) Invalidate() {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()
	p.current.Store(nil)
	p.logger.Debug("Chain state invalidated")
}

// Ready reports whether a snapshot is loaded.
func (p *Provider) Ready() bool {
	return p.current.Load() != nil
}

// StartPeriodicRefresh refreshes the snapshot every interval until Stop is called.
func (p *Provider) StartPeriodicRefresh(interval time.Duration) {
	if interval <= 0 {
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		p.logger.Info("Started periodic chain state refresh", zap.Duration("interval", interval))

		for {
			select {
			case <-ticker.C:
				if _, err := p.Refresh(context.Background()); err != nil {
					p.logger.Warn("Periodic chain state refresh failed", zap.Error(err))
				}
			case <-p.stopCh:
				p.logger.Info("Stopping periodic chain state refresh")
				return
			}
		}
	}()
}

// Stop stops the periodic refresh
func (p *Provider) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()
}
