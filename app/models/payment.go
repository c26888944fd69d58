package models

// PaymentMethod is the transaction type of a payment line.
type PaymentMethod string

const (
	PaymentMethodCredit     PaymentMethod = "credit"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodBoleto     PaymentMethod = "boleto"
	PaymentMethodPix        PaymentMethod = "pix"
)

// Customer identifies the buyer of a platform order.
type Customer struct {
	PlugID   string `json:"id,omitempty"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Document string `json:"document,omitempty"`
	Type     string `json:"type,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Payment is one line of a payment order. Amount is in cents.
type Payment struct {
	Method       PaymentMethod `json:"payment_method" validate:"required,oneof=credit credit_card boleto pix"`
	Amount       int64         `json:"amount" validate:"gt=0"`
	Installments int           `json:"installments,omitempty"`
	CardToken    string        `json:"card_token,omitempty"`
	CardID       string        `json:"card_id,omitempty"`
	Owner        string        `json:"owner,omitempty"`
}

// IsSavedCard reports whether the payment charges a stored card.
func (p Payment) IsSavedCard() bool {
	return p.CardID != ""
}
