package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		cat  Category
		want int
	}{
		{CategoryDataError, http.StatusBadRequest},
		{CategoryUnauthorized, http.StatusUnauthorized},
		{CategoryForbidden, http.StatusForbidden},
		{CategoryResourceNotFound, http.StatusNotFound},
		{CategoryLocked, http.StatusLocked},
		{CategoryDependencyFailure, http.StatusBadGateway},
		{CategoryConnectionTimeout, http.StatusGatewayTimeout},
		{CategoryGeneralError, http.StatusInternalServerError},
		{CategoryNoError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.cat.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.cat, nil, "msg").StatusCode())
		})
	}
}

func TestIs_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", ResourceNotFoundError(nil, "mint attempt not found"))
	assert.True(t, Is(err, CategoryResourceNotFound))
	assert.False(t, Is(err, CategoryDataError))
	assert.False(t, Is(errors.New("plain"), CategoryGeneralError))
}

func TestServiceError_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := DependencyError(cause, "failed to read collection state")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "connection refused", err.Error())

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "failed to read collection state", svcErr.Message)
}

func TestGeneralError_HidesCause(t *testing.T) {
	var svcErr *ServiceError
	require.True(t, errors.As(GeneralError(errors.New("pq: relation missing")), &svcErr))
	assert.Equal(t, "Internal Server Error", svcErr.Message)
	assert.NotNil(t, svcErr.Err)
}

func TestWithDetails(t *testing.T) {
	details := map[string]string{"reason": "in_flight"}
	err := WithDetails(CategoryLocked, nil, "A mint is already in progress", details)

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, details, svcErr.Details)
	assert.Equal(t, http.StatusLocked, svcErr.StatusCode())
	assert.Equal(t, "A mint is already in progress", err.Error())
}
