package auth

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

type contextKey string

const (
	// ContextKeyOperator is the context key for the authenticated operator address
	ContextKeyOperator contextKey = "operator"
	// ContextKeyMethod is the context key for how the operator authenticated
	ContextKeyMethod contextKey = "auth_method"
)

// Method names how a request was authenticated.
type Method string

const (
	MethodSignature Method = "signature"
	MethodBearer    Method = "bearer"
)

// WithOperator adds the operator address and auth method to the context
func WithOperator(ctx context.Context, operator common.Address, method Method) context.Context {
	ctx = context.WithValue(ctx, ContextKeyOperator, operator)
	return context.WithValue(ctx, ContextKeyMethod, method)
}

// OperatorFromContext retrieves the operator address from the context
func OperatorFromContext(ctx context.Context) (common.Address, bool) {
	addr, ok := ctx.Value(ContextKeyOperator).(common.Address)
	return addr, ok
}

// MethodFromContext retrieves the auth method from the context
func MethodFromContext(ctx context.Context) (Method, bool) {
	m, ok := ctx.Value(ContextKeyMethod).(Method)
	return m, ok
}
