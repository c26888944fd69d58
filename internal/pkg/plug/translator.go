package plug

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PlugSync/internal/pkg/apperr"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
)

// ErrorTranslator turns any order creation failure into a message that can
// be shown to the buyer.
type ErrorTranslator interface {
	Translate(err error, orderCode string) string
}

// MessageTranslator keeps messages that are already user-facing and maps
// Plug API failures onto generic localized texts.
type MessageTranslator struct {
	i18n *i18n.Localizer
}

func NewMessageTranslator(loc *i18n.Localizer) *MessageTranslator {
	return &MessageTranslator{i18n: loc}
}

func (t *MessageTranslator) Translate(err error, orderCode string) string {
	var validation *apperr.ValidationError
	var rejected *apperr.RemoteRejectedError
	var apiErr *APIError

	switch {
	case errors.As(err, &validation):
		return validation.Message()
	case errors.As(err, &rejected):
		return rejected.Message()
	case errors.Is(err, context.DeadlineExceeded):
		return t.i18n.T(i18n.MsgPlugTimeout)
	case errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError:
		log.Warnf("[PlugClient] Order %s rejected by Plug: %v", orderCode, apiErr)
		return t.i18n.T(i18n.MsgInvalidPaymentData)
	default:
		return t.i18n.T(i18n.MsgOrderCreationError)
	}
}
