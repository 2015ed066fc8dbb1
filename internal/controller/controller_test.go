package controller

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lshigami/behavio/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: attempt x", service.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: expired", service.ErrInvalidState), http.StatusBadRequest},
		{service.ErrInvalidInput, http.StatusBadRequest},
		{service.ErrUnavailable, http.StatusServiceUnavailable},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}
