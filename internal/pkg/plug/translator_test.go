package plug

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManuelReschke/PlugSync/internal/pkg/apperr"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
)

func TestMessageTranslator(t *testing.T) {
	tr := NewMessageTranslator(i18n.New("en"))

	assert.Equal(t, "Can't create order.",
		tr.Translate(apperr.NewRemoteRejected("Can't create order.", nil), "100"))
	assert.Equal(t, "bad sum",
		tr.Translate(fmt.Errorf("wrap: %w", apperr.NewValidation("bad sum")), "100"))
	assert.Equal(t, i18n.New("en").T(i18n.MsgInvalidPaymentData),
		tr.Translate(&APIError{StatusCode: 422}, "100"))
	assert.Equal(t, i18n.New("en").T(i18n.MsgPlugTimeout),
		tr.Translate(fmt.Errorf("post: %w", context.DeadlineExceeded), "100"))
	assert.Equal(t, i18n.New("en").T(i18n.MsgOrderCreationError),
		tr.Translate(errors.New("boom"), "100"))
}
