package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/nft-minter/pkg/app/errors"
	apphttp "github.com/chainsafe/nft-minter/pkg/app/http"
	"github.com/chainsafe/nft-minter/pkg/config"
)

const (
	HeaderSignature     = "X-Signature"
	HeaderMessage       = "X-Message"
	HeaderAuthorization = "Authorization"
)

// ErrNoCredentials is returned when a request carries neither a signature nor a bearer token.
var ErrNoCredentials = errors.New("no valid authentication provided")

// Authenticator identifies the operator behind a request.
type Authenticator struct {
	prefix string
	maxAge time.Duration
	jwt    *JWTValidator
	now    func() time.Time
	logger *zap.Logger
}

// NewAuthenticator creates an authenticator. Bearer tokens are only accepted when a JWKS URL is configured.
func NewAuthenticator(cfg *config.AuthConfig, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Authenticator{
		prefix: cfg.MessagePrefix,
		maxAge: cfg.SignatureMaxAge,
		now:    time.Now,
		logger: logger,
	}
	if cfg.JWKS.URL != "" {
		a.jwt = NewJWTValidator(cfg.JWKS.URL, cfg.JWKS.Issuer, nil)
	}
	return a
}

// Authenticate returns the operator address for r.
// Signature headers take precedence over a bearer token.
func (a *Authenticator) Authenticate(r *http.Request) (common.Address, Method, error) {
	signature := r.Header.Get(HeaderSignature)
	message := r.Header.Get(HeaderMessage)
	if signature != "" && message != "" {
		addr, err := VerifyOperatorMessage(message, signature, a.prefix, a.maxAge, a.now())
		if err != nil {
			return common.Address{}, "", err
		}
		return addr, MethodSignature, nil
	}

	if a.jwt.IsConfigured() {
		if token, ok := strings.CutPrefix(r.Header.Get(HeaderAuthorization), "Bearer "); ok {
			claims, err := a.jwt.ValidateToken(r.Context(), token)
			if err != nil {
				return common.Address{}, "", err
			}
			addr, err := OperatorFromClaims(claims)
			if err != nil {
				return common.Address{}, "", err
			}
			return addr, MethodBearer, nil
		}
	}

	return common.Address{}, "", ErrNoCredentials
}

// Middleware rejects unauthenticated requests with 401 and stores the operator in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator, method, err := a.Authenticate(r)
		if err != nil {
			a.logger.Debug("Operator authentication failed",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(err, err.Error()))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithOperator(r.Context(), operator, method)))
	})
}
