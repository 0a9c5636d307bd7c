// Package confirmation waits for broadcast transactions to reach a required
// inclusion depth.
package confirmation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chainsafe/nft-minter/internal/metrics"
	"github.com/chainsafe/nft-minter/pkg/config"
	"github.com/chainsafe/nft-minter/pkg/mint"
)

// DefaultRequired is the confirmation depth used when none is configured.
const DefaultRequired = 2

var (
	// ErrReverted is returned when the transaction is included with a failed status.
	ErrReverted = mint.ErrReverted
	// ErrTimeout is returned when the configured bound elapses first.
	ErrTimeout = mint.ErrConfirmationTimeout
)

// ReceiptSource reads receipts and the chain head.
type ReceiptSource interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Tracker polls a ReceiptSource until a transaction is buried deep enough.
// A single Tracker may serve many concurrent waits; they share one rate limiter.
type Tracker struct {
	source       ReceiptSource
	required     uint64
	pollInterval time.Duration
	timeout      time.Duration
	limiter      *rate.Limiter
	logger       *zap.Logger
}

// NewTracker creates a tracker from configuration
func NewTracker(source ReceiptSource, cfg *config.ConfirmationConfig, logger *zap.Logger) *Tracker {
	required := cfg.Required
	if required == 0 {
		required = DefaultRequired
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 4 * time.Second
	}
	limit := rate.Inf
	burst := 1
	if cfg.MaxRequestsPerSecond > 0 {
		limit = rate.Limit(cfg.MaxRequestsPerSecond)
		burst = int(math.Max(1, math.Ceil(cfg.MaxRequestsPerSecond)))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		source:       source,
		required:     required,
		pollInterval: pollInterval,
		timeout:      cfg.Timeout,
		limiter:      rate.NewLimiter(limit, burst),
		logger:       logger,
	}
}

// Required returns the confirmation depth the tracker waits for.
func (t *Tracker) Required() uint64 {
	return t.required
}

// Await blocks until h is included at least Required blocks deep.
// Without a configured timeout it only returns early when ctx is done.
func (t *Tracker) Await(ctx context.Context, h mint.OperationHandle) (*types.Receipt, error) {
	waitCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() { metrics.ConfirmationWait.Observe(time.Since(start).Seconds()) }()

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		receipt, depth, err := t.poll(waitCtx, h.TxHash)
		if err != nil {
			return nil, err
		}
		if receipt != nil && depth >= t.required {
			t.logger.Info("Transaction confirmed",
				zap.String("tx_hash", h.TxHash.Hex()),
				zap.Uint64("block", receipt.BlockNumber.Uint64()),
				zap.Uint64("depth", depth),
				zap.Duration("waited", time.Since(start)))
			return receipt, nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() == nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s not confirmed after %s", ErrTimeout, h.TxHash.Hex(), t.timeout)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// poll returns the receipt and its depth. A nil receipt means still pending.
// Lookup failures are logged and treated as pending.
func (t *Tracker) poll(ctx context.Context, hash common.Hash) (*types.Receipt, uint64, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, 0, nil
	}

	receipt, err := t.source.TransactionReceipt(ctx, hash)
	switch {
	case errors.Is(err, ethereum.NotFound):
		metrics.ConfirmationPolls.WithLabelValues("pending").Inc()
		return nil, 0, nil
	case err != nil:
		metrics.ConfirmationPolls.WithLabelValues("error").Inc()
		if ctx.Err() == nil {
			t.logger.Warn("Failed to get transaction receipt", zap.String("tx_hash", hash.Hex()), zap.Error(err))
		}
		return nil, 0, nil
	case receipt == nil || receipt.BlockNumber == nil:
		metrics.ConfirmationPolls.WithLabelValues("pending").Inc()
		return nil, 0, nil
	}

	if receipt.Status == types.ReceiptStatusFailed {
		metrics.ConfirmationPolls.WithLabelValues("reverted").Inc()
		return nil, 0, fmt.Errorf("%w: %s in block %d", ErrReverted, hash.Hex(), receipt.BlockNumber.Uint64())
	}

	head, err := t.source.BlockNumber(ctx)
	if err != nil {
		metrics.ConfirmationPolls.WithLabelValues("error").Inc()
		if ctx.Err() == nil {
			t.logger.Warn("Failed to get latest block", zap.Error(err))
		}
		return nil, 0, nil
	}

	depth := Depth(head, receipt.BlockNumber.Uint64())
	metrics.ConfirmationPolls.WithLabelValues("included").Inc()
	t.logger.Debug("Awaiting confirmations",
		zap.String("tx_hash", hash.Hex()),
		zap.Uint64("depth", depth),
		zap.Uint64("required", t.required))
	return receipt, depth, nil
}

// Depth returns how many blocks, the inclusion block included, sit on top of the
// transaction. A head behind the inclusion block (e.g. a lagging node) yields 0.
func Depth(head, included uint64) uint64 {
	if head < included {
		return 0
	}
	return head - included + 1
}
