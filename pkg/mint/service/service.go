// Package service runs the mint submission workflow: authorize, upload,
// encode, submit, and await confirmation, one attempt per operator at a time.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/nft-minter/internal/metrics"
	apperrors "github.com/chainsafe/nft-minter/pkg/app/errors"
	"github.com/chainsafe/nft-minter/pkg/metadata"
	"github.com/chainsafe/nft-minter/pkg/mint"
	"github.com/chainsafe/nft-minter/pkg/mintstore"
)

// Uploader pins an asset and returns its content locator.
type Uploader interface {
	Upload(ctx context.Context, asset *mint.Asset) (*mint.Upload, error)
}

// Submitter broadcasts the mint call and reads back what it minted.
type Submitter interface {
	Mint(ctx context.Context, args *metadata.Args) (mint.OperationHandle, error)
	MintedTokenID(receipt *types.Receipt) (*big.Int, error)
}

// Confirmer waits until a broadcast transaction reaches the required depth.
type Confirmer interface {
	Await(ctx context.Context, h mint.OperationHandle) (*types.Receipt, error)
}

// StateProvider serves the read-only on-chain snapshot.
type StateProvider interface {
	Snapshot(ctx context.Context) (*mint.Snapshot, error)
	Refresh(ctx context.Context) (*mint.Snapshot, error)
	Invalidate()
}

// Store is the narrow data-access interface for mint attempts.
type Store interface {
	CreateAttempt(ctx context.Context, attempt *mint.Attempt) error
	UpdateAttempt(ctx context.Context, attempt *mint.Attempt) error
	GetAttempt(ctx context.Context, id uuid.UUID) (*mint.Attempt, error)
	ListAttempts(ctx context.Context, opts ...mintstore.QueryOption) ([]*mint.Attempt, error)
}

// Service defines the interface for the mint workflow
type Service interface {
	// NextDraft returns a fresh draft for operator with the next token id.
	NextDraft(ctx context.Context, operator common.Address) (*mint.DraftView, error)
	// Mint runs one attempt to completion. observer, if set, sees every state change.
	// Once the transaction is broadcast, cancelling ctx no longer stops the wait for confirmation.
	Mint(ctx context.Context, req *mint.Request, observer mint.Observer) (*mint.Result, error)
	GetAttempt(ctx context.Context, id uuid.UUID) (*mint.Attempt, error)
	ListAttempts(ctx context.Context, operator common.Address, limit int) ([]*mint.Attempt, error)
	// Shutdown stops accepting attempts and waits for running ones. When ctx ends
	// first, confirmation waits are abandoned and recorded as failed before it returns.
	Shutdown(ctx context.Context) error
}

var (
	// ErrShuttingDown is returned for attempts started after Shutdown.
	ErrShuttingDown = errors.New("mint service is shutting down")

	errAbandoned = fmt.Errorf("%w: service stopped before the transaction was confirmed", mint.ErrConfirmationTimeout)
)

// Config holds the workflow settings
type Config struct {
	CollectionLabel string
	DefaultSymbol   string
}

type mintService struct {
	uploader  Uploader
	submitter Submitter
	confirmer Confirmer
	state     StateProvider
	store     Store
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time

	sessions sync.Map // common.Address -> *sync.Mutex

	closeMu  sync.Mutex
	closing  bool
	runs     sync.WaitGroup
	stopCtx  context.Context
	stopRuns context.CancelFunc
}

// NewService creates a new mint service
func NewService(
	uploader Uploader,
	submitter Submitter,
	confirmer Confirmer,
	state StateProvider,
	store Store,
	cfg Config,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CollectionLabel == "" {
		cfg.CollectionLabel = mint.DefaultCollectionLabel
	}
	if cfg.DefaultSymbol == "" {
		cfg.DefaultSymbol = mint.DefaultSymbol
	}
	stopCtx, stopRuns := context.WithCancel(context.Background())
	return &mintService{
		stopCtx:   stopCtx,
		stopRuns:  stopRuns,
		uploader:  uploader,
		submitter: submitter,
		confirmer: confirmer,
		state:     state,
		store:     store,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *mintService) NextDraft(ctx context.Context, operator common.Address) (*mint.DraftView, error) {
	snap, err := s.state.Snapshot(ctx)
	if err != nil {
		return nil, apperrors.DependencyError(err, "failed to read collection state")
	}
	return &mint.DraftView{
		Draft: mint.TokenDraft{
			Symbol:  s.cfg.DefaultSymbol,
			TokenID: snap.NextTokenID(),
		},
		IsAdministrator: snap.Authorize(operator).IsAdministrator(),
	}, nil
}

func (s *mintService) GetAttempt(ctx context.Context, id uuid.UUID) (*mint.Attempt, error) {
	attempt, err := s.store.GetAttempt(ctx, id)
	if err != nil {
		if errors.Is(err, mintstore.ErrNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "mint attempt not found")
		}
		return nil, apperrors.GeneralError(err)
	}
	return attempt, nil
}

func (s *mintService) ListAttempts(ctx context.Context, operator common.Address, limit int) ([]*mint.Attempt, error) {
	attempts, err := s.store.ListAttempts(ctx, mintstore.WithOperator(operator), mintstore.WithLimit(limit))
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}
	return attempts, nil
}

func (s *mintService) Shutdown(ctx context.Context) error {
	s.closeMu.Lock()
	s.closing = true
	s.closeMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.runs.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
	}

	s.logger.Warn("Abandoning running mint attempts", zap.Error(ctx.Err()))
	s.stopRuns()
	<-done
	return fmt.Errorf("mint attempts abandoned: %w", ctx.Err())
}

// track registers a run unless the service is shutting down.
func (s *mintService) track() bool {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closing {
		return false
	}
	s.runs.Add(1)
	return true
}

// session returns the mutex guarding operator's in-flight attempt.
func (s *mintService) session(operator common.Address) *sync.Mutex {
	mu, _ := s.sessions.LoadOrStore(operator, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// run carries one attempt through the state machine.
type run struct {
	s        *mintService
	attempt  *mint.Attempt
	observer mint.Observer
	logger   *zap.Logger
	result   *mint.Result
}

func (s *mintService) Mint(ctx context.Context, req *mint.Request, observer mint.Observer) (*mint.Result, error) {
	if req == nil {
		return nil, s.reject(observer, mint.ValidationError(mint.ReasonEmptyField, "", errors.New("nil request")))
	}

	// Text fields are checked before anything touches the network.
	if err := metadata.ValidateDraft(req.Draft(new(big.Int))); err != nil {
		return nil, s.reject(observer, mint.ValidationError(mint.ReasonEmptyField, "", err))
	}

	if !s.track() {
		return nil, s.reject(observer, ErrShuttingDown)
	}
	defer s.runs.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.stopCtx, cancel)
	defer stop()

	// Only administrators get a session.
	snap, err := s.state.Snapshot(ctx)
	if err != nil {
		return nil, s.reject(observer, fmt.Errorf("failed to read collection state: %w", err))
	}
	if !snap.Authorize(req.Operator).IsAdministrator() {
		return nil, s.reject(observer, mint.AuthorizationError(nil))
	}

	mu := s.session(req.Operator)
	if !mu.TryLock() {
		return nil, s.reject(observer, mint.InFlightError())
	}
	defer mu.Unlock()

	metrics.InFlightAttempts.Inc()
	defer metrics.InFlightAttempts.Dec()

	// The token id comes from the snapshot current once the session is held.
	if snap, err = s.state.Snapshot(ctx); err != nil {
		return nil, s.reject(observer, fmt.Errorf("failed to read collection state: %w", err))
	}

	r := &run{
		s:        s,
		attempt:  mint.NewAttempt(req.Operator, req.Draft(snap.NextTokenID()), s.now()),
		observer: observer,
	}
	r.logger = s.logger.With(
		zap.String("attempt_id", r.attempt.ID.String()),
		zap.String("operator", req.Operator.Hex()),
		zap.String("token_id", r.attempt.Draft.TokenID.String()),
	)
	r.result = &mint.Result{Attempt: r.attempt}

	return r.execute(ctx, req.Asset)
}

func (r *run) execute(ctx context.Context, asset *mint.Asset) (*mint.Result, error) {
	if err := r.advance(ctx, mint.StateAuthorizing); err != nil {
		return r.fail(ctx, err)
	}
	if err := r.s.store.CreateAttempt(ctx, r.attempt.Clone()); err != nil {
		r.logger.Error("Failed to record mint attempt", zap.Error(err))
	}

	if asset.Size() == 0 {
		return r.fail(ctx, mint.ValidationError(mint.ReasonMissingAsset, "", mint.ErrMissingAsset))
	}

	// Uploading
	if err := r.advance(ctx, mint.StateUploading); err != nil {
		return r.fail(ctx, err)
	}
	upload, err := timed("upload", func() (*mint.Upload, error) { return r.s.uploader.Upload(ctx, asset) })
	if err != nil {
		return r.fail(ctx, mint.UploadError(err))
	}
	r.attempt.Locator = upload.Locator
	r.attempt.GatewayURL = upload.GatewayURL
	r.result.Upload = upload
	r.logger.Info("Asset uploaded",
		zap.String("locator", upload.Locator.String()),
		zap.String("gateway_url", upload.GatewayURL),
		zap.Int64("size", upload.Size))

	// Encoding
	if err := r.advance(ctx, mint.StateEncoding); err != nil {
		return r.fail(ctx, err)
	}
	args, err := metadata.Encode(r.attempt.Draft, upload.Locator)
	if err != nil {
		return r.fail(ctx, mint.ValidationError(mint.ReasonEmptyField, "", err))
	}
	r.logger.Info("Mint arguments encoded", args.Fields()...)

	// Submitting
	if err := r.advance(ctx, mint.StateSubmitting); err != nil {
		return r.fail(ctx, err)
	}
	handle, err := timed("submit", func() (mint.OperationHandle, error) { return r.s.submitter.Mint(ctx, args) })
	if err != nil {
		return r.fail(ctx, mint.SubmissionError(err))
	}
	r.logger.Info("Mint transaction broadcast",
		zap.String("tx_hash", handle.TxHash.Hex()),
		zap.Uint64("nonce", handle.Nonce))

	// A broadcast transaction cannot be unsent, so the rest of the run
	// ignores caller cancellation.
	ctx = context.WithoutCancel(ctx)

	if err := r.advance(ctx, mint.StateAwaitingConfirmation); err != nil {
		return r.fail(ctx, err)
	}
	r.result.Outcome = &mint.Outcome{Status: mint.OutcomePending, Handle: handle}
	r.emit(r.result.Outcome, mint.PendingNotification(r.s.cfg.CollectionLabel))

	receipt, err := r.await(ctx, handle)
	if err != nil {
		// The transaction may still be mined, so the cached token count is suspect.
		r.s.state.Invalidate()
		return r.fail(ctx, mint.ConfirmationError(err))
	}
	if err := r.verifyMinted(receipt); err != nil {
		r.s.state.Invalidate()
		return r.fail(ctx, mint.ConfirmationError(err))
	}

	if err := r.advance(ctx, mint.StateConfirmed); err != nil {
		return r.fail(ctx, err)
	}
	if _, err := r.s.state.Refresh(ctx); err != nil {
		r.s.state.Invalidate()
		r.logger.Warn("Failed to refresh collection state after mint, dropped cached state", zap.Error(err))
	}

	r.result.Outcome = &mint.Outcome{Status: mint.OutcomeConfirmed, Handle: handle}
	metrics.AttemptsTotal.WithLabelValues(mint.OutcomeConfirmed.String()).Inc()
	fields := []zap.Field{zap.String("tx_hash", handle.TxHash.Hex())}
	if receipt != nil && receipt.BlockNumber != nil {
		fields = append(fields, zap.Uint64("block", receipt.BlockNumber.Uint64()))
	}
	r.logger.Info("Mint confirmed", fields...)
	r.emit(r.result.Outcome, mint.ConfirmedNotification(r.s.cfg.CollectionLabel))

	return r.result, nil
}

// await waits for confirmation until the service shuts down.
func (r *run) await(ctx context.Context, handle mint.OperationHandle) (*types.Receipt, error) {
	waitCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	stop := context.AfterFunc(r.s.stopCtx, func() { cancel(errAbandoned) })
	defer stop()

	receipt, err := timed("confirm", func() (*types.Receipt, error) { return r.s.confirmer.Await(waitCtx, handle) })
	if err != nil && errors.Is(context.Cause(waitCtx), errAbandoned) {
		return nil, errAbandoned
	}
	return receipt, err
}

// verifyMinted checks the receipt minted the drafted token.
func (r *run) verifyMinted(receipt *types.Receipt) error {
	minted, err := r.s.submitter.MintedTokenID(receipt)
	if err != nil {
		return fmt.Errorf("%w: %w", mint.ErrTokenMismatch, err)
	}
	if minted.Cmp(r.attempt.Draft.TokenID) != 0 {
		return fmt.Errorf("%w: minted %s, drafted %s", mint.ErrTokenMismatch, minted, r.attempt.Draft.TokenID)
	}
	return nil
}

// advance moves the attempt to state and records it.
func (r *run) advance(ctx context.Context, state mint.State) error {
	if err := r.attempt.Transition(state, r.s.now()); err != nil {
		return err
	}
	if state != mint.StateAuthorizing {
		r.persist(ctx)
	}
	if state != mint.StateAwaitingConfirmation && state != mint.StateConfirmed {
		r.emit(nil, nil)
	}
	r.logger.Debug("Mint attempt advanced", zap.String("state", string(state)))
	return nil
}

// fail records err as the terminal outcome of the attempt.
func (r *run) fail(ctx context.Context, err error) (*mint.Result, error) {
	n := mint.Normalize(err)
	if ferr := r.attempt.Fail(n, r.s.now()); ferr != nil {
		r.logger.Error("Failed to mark mint attempt failed", zap.Error(ferr))
	}
	r.persist(ctx)

	outcome := &mint.Outcome{Status: mint.OutcomeFailed, Err: err}
	if r.result.Outcome != nil {
		outcome.Handle = r.result.Outcome.Handle
	}
	r.result.Outcome = outcome

	metrics.AttemptsTotal.WithLabelValues(mint.OutcomeFailed.String()).Inc()
	metrics.FailuresTotal.WithLabelValues(n.Kind.String(), string(n.Reason)).Inc()
	r.logger.Warn("Mint attempt failed", n.Fields()...)
	r.emit(outcome, n)

	return r.result, err
}

func (r *run) persist(ctx context.Context) {
	if err := r.s.store.UpdateAttempt(context.WithoutCancel(ctx), r.attempt.Clone()); err != nil {
		r.logger.Error("Failed to record mint attempt state",
			zap.String("state", string(r.attempt.State)),
			zap.Error(err))
	}
}

func (r *run) emit(outcome *mint.Outcome, n *mint.Notification) {
	if r.observer == nil {
		return
	}
	r.observer(mint.Event{
		AttemptID:    r.attempt.ID,
		State:        r.attempt.State,
		Outcome:      outcome,
		Notification: n,
	})
}

// reject reports a failure that happened before an attempt was created.
// No attempt is recorded and the state stays idle.
func (s *mintService) reject(observer mint.Observer, err error) error {
	n := mint.Normalize(err)
	metrics.AttemptsTotal.WithLabelValues("rejected").Inc()
	metrics.FailuresTotal.WithLabelValues(n.Kind.String(), string(n.Reason)).Inc()
	s.logger.Info("Mint request rejected", n.Fields()...)
	if observer != nil {
		observer(mint.Event{
			State:        mint.StateIdle,
			Outcome:      &mint.Outcome{Status: mint.OutcomeFailed, Err: err},
			Notification: n,
		})
	}
	return err
}

func timed[T any](step string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	metrics.StepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
	return v, err
}
