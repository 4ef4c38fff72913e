package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.NewValidationFailedError("ids", "must not be empty"), http.StatusBadRequest},
		{"not found", apperrors.NewNotFoundError("ledger entry"), http.StatusNotFound},
		{"conflict", apperrors.NewConflictError("already posted"), http.StatusConflict},
		{"wrapped not found", fmt.Errorf("loading: %w", apperrors.NewNotFoundError("batch")), http.StatusNotFound},
		{"storage", apperrors.NewStorageError("failed to commit", errors.New("conn reset")), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"unavailable", fmt.Errorf("drive: %w", apperrors.ErrUnavailable), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperrors.StatusCode(tc.err))
		})
	}
}

func TestNewAppError_TagsServerFaultsAsStorage(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", cause)

	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", apperrors.PublicMessage(err))
}

func TestPublicMessage_KeepsClientErrors(t *testing.T) {
	err := apperrors.NewValidationFailedError("status", "must be one of PENDING, POSTED")
	assert.Equal(t, "status: must be one of PENDING, POSTED", apperrors.PublicMessage(err))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
