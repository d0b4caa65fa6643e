package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"lolitems/internal/apperror"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", apperror.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("item sword: %w", apperror.ErrNotFound), http.StatusNotFound},
		{"conflict", apperror.ErrConflict, http.StatusConflict},
		{"validation", apperror.NewValidationError(map[string]string{"price": "bad"}), http.StatusBadRequest},
		{"unauthorized", apperror.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", apperror.ErrForbidden, http.StatusForbidden},
		{"storage", apperror.ErrStorage, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperror.HTTPStatus(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := apperror.NewValidationError(map[string]string{
		"sell_price": "must be less than price",
		"name":       "is required",
	})

	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "validation failed: name: is required; sell_price: must be less than price", err.Error())
	assert.True(t, apperror.IsDomain(err))
	assert.False(t, apperror.IsDomain(errors.New("disk full")))
}
