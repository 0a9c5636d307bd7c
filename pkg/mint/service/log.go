package service

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/nft-minter/pkg/mint"
)

const serviceName = "MintService"

const logTextMaxLen = 50

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the mint Service.
// It logs method entry/exit, duration, errors, and truncated request data.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

// NextDraft wraps the service method with logging
func (ls *logService) NextDraft(ctx context.Context, operator common.Address) (view *mint.DraftView, err error) {
	start := time.Now()
	defer func() {
		duration := time.Since(start)
		if err != nil {
			ls.logger.Error("NextDraft failed",
				zap.String("service", serviceName),
				zap.String("method", "NextDraft"),
				zap.String("operator", operator.Hex()),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
			return
		}
		ls.logger.Debug("NextDraft completed",
			zap.String("service", serviceName),
			zap.String("method", "NextDraft"),
			zap.String("operator", operator.Hex()),
			zap.String("token_id", view.Draft.TokenID.String()),
			zap.Bool("is_administrator", view.IsAdministrator),
			zap.Duration("duration", duration),
		)
	}()

	return ls.svc.NextDraft(ctx, operator)
}

// Mint wraps the service method with logging
func (ls *logService) Mint(ctx context.Context, req *mint.Request, observer mint.Observer) (res *mint.Result, err error) {
	start := time.Now()

	fields := []zap.Field{
		zap.String("service", serviceName),
		zap.String("method", "Mint"),
	}
	if req != nil {
		fields = append(fields,
			zap.String("operator", req.Operator.Hex()),
			zap.String("name", truncateString(req.Name, logTextMaxLen)),
			zap.String("symbol", truncateString(req.Symbol, logTextMaxLen)),
			zap.Int("asset_size", req.Asset.Size()),
		)
	}
	ls.logger.Info("Mint started", fields...)

	defer func() {
		fields := []zap.Field{
			zap.String("service", serviceName),
			zap.String("method", "Mint"),
			zap.Duration("duration", time.Since(start)),
		}
		if res != nil && res.Attempt != nil {
			fields = append(fields,
				zap.String("attempt_id", res.Attempt.ID.String()),
				zap.String("state", string(res.Attempt.State)))
		}
		if err != nil {
			ls.logger.Error("Mint failed", append(fields, zap.Error(err))...)
			return
		}
		if res != nil && res.Outcome != nil && res.Outcome.Handle.TxHash != (common.Hash{}) {
			fields = append(fields, zap.String("tx_hash", res.Outcome.Handle.TxHash.Hex()))
		}
		ls.logger.Info("Mint completed", fields...)
	}()

	return ls.svc.Mint(ctx, req, observer)
}

// GetAttempt wraps the service method with logging
func (ls *logService) GetAttempt(ctx context.Context, id uuid.UUID) (attempt *mint.Attempt, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			ls.logger.Warn("GetAttempt failed",
				zap.String("service", serviceName),
				zap.String("method", "GetAttempt"),
				zap.String("attempt_id", id.String()),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
		}
	}()

	return ls.svc.GetAttempt(ctx, id)
}

// ListAttempts wraps the service method with logging
func (ls *logService) ListAttempts(ctx context.Context, operator common.Address, limit int) (attempts []*mint.Attempt, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			ls.logger.Error("ListAttempts failed",
				zap.String("service", serviceName),
				zap.String("method", "ListAttempts"),
				zap.String("operator", operator.Hex()),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
			return
		}
		ls.logger.Debug("ListAttempts completed",
			zap.String("service", serviceName),
			zap.String("method", "ListAttempts"),
			zap.String("operator", operator.Hex()),
			zap.Int("count", len(attempts)),
			zap.Duration("duration", time.Since(start)),
		)
	}()

	return ls.svc.ListAttempts(ctx, operator, limit)
}

// Shutdown wraps the service method with logging
func (ls *logService) Shutdown(ctx context.Context) (err error) {
	start := time.Now()
	ls.logger.Info("Draining mint attempts",
		zap.String("service", serviceName),
		zap.String("method", "Shutdown"))
	defer func() {
		fields := []zap.Field{
			zap.String("service", serviceName),
			zap.String("method", "Shutdown"),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			ls.logger.Warn("Shutdown incomplete", append(fields, zap.Error(err))...)
			return
		}
		ls.logger.Info("Mint attempts drained", fields...)
	}()

	return ls.svc.Shutdown(ctx)
}

// truncateString truncates a string to maxLen runes for logging
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
