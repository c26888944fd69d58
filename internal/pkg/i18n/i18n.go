// Package i18n renders history comments, email bodies and user-facing
// errors in the store locale.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	MsgWebhookReceived       = "Webhook received: %s %s.%s"
	MsgWebhookNotImplemented = "Webhook %s.%s not implemented"
	MsgOrderNotFound         = "Order #%s not found."
	MsgNewOrderStatus        = "New order status: %s"
	MsgOrderCanceledAtPlug   = "Order '%s' canceled at Plug"
	MsgChargesNotCanceled    = "Some charges couldn't be canceled at Plug. Reasons:"
	MsgCantCreateOrder       = "Can't create order."
	MsgPaymentSumMismatch    = "The sum of payments is different than the order amount!"
	MsgOrderCreationError    = "An error occurred while creating your order. Please try again."
	MsgInvalidPaymentData    = "Your payment data was rejected. Please review it and try again."
	MsgPlugTimeout           = "The payment service did not respond in time. Please try again."
	MsgOrderPaid             = "Order paid at Plug. Amount: %s"
	MsgOrderPaymentFailed    = "Order payment failed at Plug."
	MsgOrderClosed           = "Order closed at Plug."
	MsgOrderCreated          = "Order created at Plug. Id: %s"
	MsgOrderAlready          = "Order already %s."
	MsgChargePaid            = "Charge %s %s. Paid amount: %s"
	MsgChargeCanceled        = "Charge %s canceled. Canceled amount: %s"
	MsgChargeRefunded        = "Charge %s refunded. Refunded amount: %s"
	MsgChargeChargedback     = "Charge %s charged back. Amount: %s"
	MsgChargePaymentFailed   = "Charge %s payment failed."
	MsgChargeStatus          = "Charge %s status: %s"
	MsgChargeAlready         = "Charge %s already %s."
	MsgSubscriptionCreated   = "Subscription %s created at Plug."
	MsgSubscriptionCanceled  = "Subscription %s canceled at Plug."
	MsgSubscriptionAlready   = "Subscription %s already %s."
	MsgCreditCardApproved    = "Credit card payment approved. Transaction: %s"
	MsgCreditCardPending     = "Waiting for credit card payment confirmation."
	MsgCreditCardDeclined    = "Credit card payment declined: %s"
	MsgBoletoIssued          = "Boleto issued. Due in %s day(s). Link: %s"
	MsgPixIssued             = "Pix QR code issued, valid for %s second(s). Link: %s"
	MsgWaitingPayment        = "Waiting for payment confirmation from Plug."
)

var ptBR = map[string]string{
	MsgWebhookReceived:       "Webhook recebido: %s %s.%s",
	MsgWebhookNotImplemented: "Webhook %s.%s não implementado",
	MsgOrderNotFound:         "Pedido #%s não encontrado.",
	MsgNewOrderStatus:        "Novo status do pedido: %s",
	MsgOrderCanceledAtPlug:   "Pedido '%s' cancelado na Plug",
	MsgChargesNotCanceled:    "Algumas cobranças não puderam ser canceladas na Plug. Motivos:",
	MsgCantCreateOrder:       "Não foi possível criar o pedido.",
	MsgPaymentSumMismatch:    "A soma dos pagamentos é diferente do valor do pedido!",
	MsgOrderCreationError:    "Ocorreu um erro ao criar seu pedido. Tente novamente.",
	MsgInvalidPaymentData:    "Seus dados de pagamento foram recusados. Revise e tente novamente.",
	MsgPlugTimeout:           "O serviço de pagamento não respondeu a tempo. Tente novamente.",
	MsgOrderPaid:             "Pedido pago na Plug. Valor: %s",
	MsgOrderPaymentFailed:    "Pagamento do pedido falhou na Plug.",
	MsgOrderClosed:           "Pedido encerrado na Plug.",
	MsgOrderCreated:          "Pedido criado na Plug. Id: %s",
	MsgOrderAlready:          "Pedido já está %s.",
	MsgChargePaid:            "Cobrança %s %s. Valor pago: %s",
	MsgChargeCanceled:        "Cobrança %s cancelada. Valor cancelado: %s",
	MsgChargeRefunded:        "Cobrança %s estornada. Valor estornado: %s",
	MsgChargeChargedback:     "Cobrança %s com chargeback. Valor: %s",
	MsgChargePaymentFailed:   "Pagamento da cobrança %s falhou.",
	MsgChargeStatus:          "Status da cobrança %s: %s",
	MsgChargeAlready:         "Cobrança %s já está %s.",
	MsgSubscriptionCreated:   "Assinatura %s criada na Plug.",
	MsgSubscriptionCanceled:  "Assinatura %s cancelada na Plug.",
	MsgSubscriptionAlready:   "Assinatura %s já está %s.",
	MsgCreditCardApproved:    "Pagamento com cartão aprovado. Transação: %s",
	MsgCreditCardPending:     "Aguardando confirmação do pagamento com cartão.",
	MsgCreditCardDeclined:    "Pagamento com cartão recusado: %s",
	MsgBoletoIssued:          "Boleto emitido. Vence em %s dia(s). Link: %s",
	MsgPixIssued:             "QR code Pix emitido, válido por %s segundo(s). Link: %s",
	MsgWaitingPayment:        "Aguardando confirmação de pagamento da Plug.",
}

var statusLabels = map[string]map[string]string{
	"en": {
		"pending":    "Pending",
		"processing": "Processing",
		"paid":       "Paid",
		"failed":     "Failed",
		"canceled":   "Canceled",
		"closed":     "Closed",
	},
	"pt_BR": {
		"pending":    "Pendente",
		"processing": "Processando",
		"paid":       "Pago",
		"failed":     "Falhou",
		"canceled":   "Cancelado",
		"closed":     "Encerrado",
	},
}

var builder = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range ptBR {
		_ = b.SetString(language.BrazilianPortuguese, key, msg)
	}
	return b
}

// Localizer formats messages for one locale.
type Localizer struct {
	locale  string
	printer *message.Printer
}

// New returns a Localizer for "en" or "pt_BR"; unknown locales fall back to
// English.
func New(locale string) *Localizer {
	tag := language.English
	if locale == "pt_BR" {
		tag = language.BrazilianPortuguese
	} else {
		locale = "en"
	}
	return &Localizer{locale: locale, printer: message.NewPrinter(tag, message.Catalog(builder))}
}

// T translates key and formats it with args.
func (l *Localizer) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// StatusLabel returns the human label of an order status.
func (l *Localizer) StatusLabel(status string) string {
	if label, ok := statusLabels[l.locale][status]; ok {
		return label
	}
	return status
}

// Locale returns the normalized locale name.
func (l *Localizer) Locale() string {
	return l.locale
}
