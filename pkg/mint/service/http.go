package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/nft-minter/pkg/app/errors"
	apphttp "github.com/chainsafe/nft-minter/pkg/app/http"
	"github.com/chainsafe/nft-minter/pkg/auth"
	"github.com/chainsafe/nft-minter/pkg/mint"
)

const (
	// multipart overhead allowed on top of the asset itself
	formOverhead      = 1 << 20
	defaultAssetLimit = 100 << 20
	notAdminHint      = "(You are not admin)"
	maxListLimit      = 200
)

// HTTPConfig configures the mint endpoints
type HTTPConfig struct {
	// BaseContext outlives requests; attempts keep running on it after the response is sent.
	BaseContext context.Context
	// Authenticate identifies the operator and stores it in the request context.
	Authenticate  func(http.Handler) http.Handler
	MaxAssetBytes int64
}

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service  Service
	cfg      HTTPConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// mintForm is the text part of a POST /mints request.
// Emptiness is checked by the service so it is reported like any other validation failure.
type mintForm struct {
	Name        string `validate:"max=200"`
	Description string `validate:"max=2000"`
	Symbol      string `validate:"max=32"`
}

type draftResponse struct {
	*mint.DraftView
	Hint string `json:"hint,omitempty"`
}

type submitResponse struct {
	AttemptID    uuid.UUID          `json:"attempt_id"`
	State        mint.State         `json:"state"`
	Status       mint.OutcomeStatus `json:"status"`
	TxHash       string             `json:"tx_hash,omitempty"`
	Notification *mint.Notification `json:"notification,omitempty"`
}

// RegisterRoutes registers HTTP endpoints for the mint service on the given chi router
func RegisterRoutes(r chi.Router, service Service, cfg HTTPConfig, logger *zap.Logger) {
	if cfg.BaseContext == nil {
		cfg.BaseContext = context.Background()
	}
	if cfg.MaxAssetBytes <= 0 {
		cfg.MaxAssetBytes = defaultAssetLimit
	}
	h := &HTTP{
		service:  service,
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger,
	}

	r.Route("/mints", func(r chi.Router) {
		if cfg.Authenticate != nil {
			r.Use(cfg.Authenticate)
		}
		r.Get("/draft", apphttp.HandleError(h.draft))
		r.Post("/", apphttp.HandleError(h.submit))
		r.Get("/", apphttp.HandleError(h.list))
		r.Get("/{id}", apphttp.HandleError(h.get))
	})
}

func operatorFrom(r *http.Request) (common.Address, error) {
	operator, ok := auth.OperatorFromContext(r.Context())
	if !ok {
		return common.Address{}, apperrors.UnAuthorizedError(nil, "operator authentication required")
	}
	return operator, nil
}

// draft returns a fresh draft for the operator
func (h *HTTP) draft(w http.ResponseWriter, r *http.Request) error {
	operator, err := operatorFrom(r)
	if err != nil {
		return err
	}

	view, err := h.service.NextDraft(r.Context(), operator)
	if err != nil {
		return err
	}

	resp := draftResponse{DraftView: view}
	if !view.IsAdministrator {
		resp.Hint = notAdminHint
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

// submit starts a mint attempt and answers once it is pending or has failed
func (h *HTTP) submit(w http.ResponseWriter, r *http.Request) error {
	operator, err := operatorFrom(r)
	if err != nil {
		return err
	}

	req, err := h.parseRequest(w, r)
	if err != nil {
		return err
	}
	req.Operator = operator

	decisive := make(chan mint.Event, 1)
	observer := func(ev mint.Event) {
		if ev.Outcome == nil {
			return
		}
		select {
		case decisive <- ev:
		default:
		}
	}

	type runResult struct {
		res *mint.Result
		err error
	}
	done := make(chan runResult, 1)

	ctx, cancel := context.WithCancel(h.cfg.BaseContext)
	go func() {
		defer cancel()
		res, err := h.service.Mint(ctx, req, observer)
		done <- runResult{res: res, err: err}
	}()

	select {
	case ev := <-decisive:
		if ev.Outcome.Status == mint.OutcomeFailed {
			return ev.Notification.ToServiceError()
		}
		h.writeJSON(w, http.StatusAccepted, submitResponse{
			AttemptID:    ev.AttemptID,
			State:        ev.State,
			Status:       ev.Outcome.Status,
			TxHash:       ev.Outcome.Handle.TxHash.Hex(),
			Notification: ev.Notification,
		})
		return nil
	case out := <-done:
		// The run ended without a decisive event.
		if out.err != nil {
			return mint.Normalize(out.err).ToServiceError()
		}
		if out.res == nil || out.res.Attempt == nil {
			return apperrors.GeneralError(errors.New("mint run returned no attempt"))
		}
		h.writeJSON(w, http.StatusOK, submitResponse{
			AttemptID: out.res.Attempt.ID,
			State:     out.res.Attempt.State,
			Status:    mint.OutcomeConfirmed,
		})
		return nil
	case <-r.Context().Done():
		// Only the pre-broadcast phase stops here; a broadcast attempt keeps waiting.
		cancel()
		return r.Context().Err()
	}
}

func (h *HTTP) parseRequest(w http.ResponseWriter, r *http.Request) (*mint.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxAssetBytes+formOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.BadRequestError(err, fmt.Sprintf("request exceeds %d bytes", tooLarge.Limit))
		}
		return nil, apperrors.BadRequestError(err, "invalid multipart form")
	}

	form := mintForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Symbol:      r.FormValue("symbol"),
	}
	if err := h.validate.Struct(form); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid mint fields: "+err.Error())
	}

	req := &mint.Request{
		Name:        form.Name,
		Description: form.Description,
		Symbol:      form.Symbol,
	}

	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return req, nil
	case err != nil:
		return nil, apperrors.BadRequestError(err, "invalid file part")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxAssetBytes+1))
	if err != nil {
		return nil, apperrors.BadRequestError(err, "failed to read file")
	}
	if int64(len(data)) > h.cfg.MaxAssetBytes {
		return nil, apperrors.BadRequestError(nil, fmt.Sprintf("file exceeds %d bytes", h.cfg.MaxAssetBytes))
	}
	if len(data) > 0 {
		req.Asset = &mint.Asset{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}
	return req, nil
}

// get returns one of the operator's attempts
func (h *HTTP) get(w http.ResponseWriter, r *http.Request) error {
	operator, err := operatorFrom(r)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return apperrors.BadRequestError(err, "invalid attempt id")
	}

	attempt, err := h.service.GetAttempt(r.Context(), id)
	if err != nil {
		return err
	}
	if attempt.Operator != operator {
		return apperrors.ResourceNotFoundError(nil, "mint attempt not found")
	}

	h.writeJSON(w, http.StatusOK, attempt)
	return nil
}

// list returns the operator's most recent attempts
func (h *HTTP) list(w http.ResponseWriter, r *http.Request) error {
	operator, err := operatorFrom(r)
	if err != nil {
		return err
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return apperrors.BadRequestError(err, "invalid limit")
		}
	}
	limit = min(limit, maxListLimit)

	attempts, err := h.service.ListAttempts(r.Context(), operator, limit)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"attempts": attempts})
	return nil
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	if err := apphttp.WriteJSON(w, status, data); err != nil {
		h.logger.Debug("Failed to write response", zap.Error(err))
	}
}
