package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation("bad %s", "input"), http.StatusBadRequest},
		{"not found", NewNotFound("Order #%s not found.", "100"), http.StatusNotFound},
		{"remote rejected", NewRemoteRejected("Can't create order.", nil), http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("load: %w", NewNotFound("x")), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestTranslatedErrorUnwraps(t *testing.T) {
	cause := NewRemoteRejected("Can't create order.", map[string]string{"ch_1": "timeout"})
	err := NewTranslated("Can't create order.", cause)

	var rejected *RemoteRejectedError
	assert.True(t, errors.As(err, &rejected))
	assert.Equal(t, "timeout", rejected.Failures["ch_1"])
	assert.Equal(t, "Can't create order.", UserMessage(err, "fallback"))
	assert.Equal(t, "fallback", UserMessage(errors.New("x"), "fallback"))
}
