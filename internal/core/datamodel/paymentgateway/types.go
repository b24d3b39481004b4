package paymentgateway

import (
	"errors"
)

type ResultCode string

const (
	ResultOK    ResultCode = "OK"
	ResultError ResultCode = "ERROR"
)

// MerchantAuthentication identifies the merchant account on every
// transaction request. Never logged and never echoed back to callers.
type MerchantAuthentication struct {
	Name           string `json:"name"`
	TransactionKey string `json:"transactionKey"`
}

// TransactionRequest asks the gateway for a one-time hosted-checkout token.
type TransactionRequest struct {
	Merchant    MerchantAuthentication `json:"merchantAuthentication"`
	Amount      float64                `json:"amount"`
	Invoice     string                 `json:"invoice"`
	Description string                 `json:"description"`
	ReturnURL   string                 `json:"returnUrl"`
	CancelURL   string                 `json:"cancelUrl"`
}

func (r *TransactionRequest) Validate() error {
	if r.Merchant.Name == "" || r.Merchant.TransactionKey == "" {
		return errors.New("merchant credentials are required")
	}
	if r.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}
	if r.Invoice == "" {
		return errors.New("invoice is required")
	}
	if r.ReturnURL == "" || r.CancelURL == "" {
		return errors.New("return and cancel URLs are required")
	}
	return nil
}

type Message struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// TransactionResponse is the gateway's reply: a token when the session was
// accepted, messages describing the rejection otherwise.
type TransactionResponse struct {
	ResultCode ResultCode `json:"resultCode"`
	Token      string     `json:"token,omitempty"`
	Messages   []Message  `json:"messages,omitempty"`
}

func (r *TransactionResponse) OK() bool {
	return r.ResultCode == ResultOK
}

// FirstError returns the gateway's first error message, or a generic text
// when the gateway rejected the request without explaining itself.
func (r *TransactionResponse) FirstError() string {
	if len(r.Messages) > 0 && r.Messages[0].Text != "" {
		return r.Messages[0].Text
	}
	return "payment gateway rejected the transaction"
}
