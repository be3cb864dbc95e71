package swish

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/samandr77/microservices/swish/internal/entity"
)

type PaymentRequestBody struct {
	PayeePaymentReference string `json:"payeePaymentReference,omitempty"`
	CallbackURL           string `json:"callbackUrl"`
	PayerAlias            string `json:"payerAlias,omitempty"`
	PayeeAlias            string `json:"payeeAlias"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	Message               string `json:"message,omitempty"`
	PayerSSN              string `json:"payerSSN,omitempty"`
	AgeLimit              int    `json:"ageLimit,omitempty"`
}

func NewPaymentRequestBody(in entity.PaymentRequestInput) PaymentRequestBody {
	return PaymentRequestBody{
		PayeePaymentReference: in.PayeePaymentReference,
		CallbackURL:           in.CallbackURL,
		PayerAlias:            in.PayerAlias,
		PayeeAlias:            in.PayeeAlias,
		Amount:                in.Amount.StringFixed(2),
		Currency:              in.Currency,
		Message:               in.Message,
		PayerSSN:              in.PayerSSN,
		AgeLimit:              in.AgeLimit,
	}
}

type PaymentRequestResponse struct {
	ID                    string          `json:"id"`
	PayeePaymentReference string          `json:"payeePaymentReference"`
	PaymentReference      string          `json:"paymentReference"`
	CallbackURL           string          `json:"callbackUrl"`
	PayerAlias            string          `json:"payerAlias"`
	PayeeAlias            string          `json:"payeeAlias"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	Message               string          `json:"message"`
	Status                string          `json:"status"`
	DateCreated           *time.Time      `json:"dateCreated"`
	DatePaid              *time.Time      `json:"datePaid"`
	ErrorCode             string          `json:"errorCode"`
	ErrorMessage          string          `json:"errorMessage"`
}

type ErrorResponse struct {
	ErrorCode             string `json:"errorCode"`
	ErrorMessage          string `json:"errorMessage"`
	AdditionalInformation string `json:"additionalInformation"`
}

const maxBodySnippet = 256

func parseState(body []byte) (entity.PaymentRequestState, error) {
	var resp PaymentRequestResponse

	err := json.Unmarshal(body, &resp)
	if err != nil {
		return entity.PaymentRequestState{}, fmt.Errorf("%w: decode payment request: %w", entity.ErrProtocol, err)
	}

	if resp.ID == "" || resp.Status == "" {
		return entity.PaymentRequestState{}, fmt.Errorf("%w: payment request without id or status: %s",
			entity.ErrProtocol, snippet(body))
	}

	return entity.PaymentRequestState{
		ID:                    resp.ID,
		PayeePaymentReference: resp.PayeePaymentReference,
		PaymentReference:      resp.PaymentReference,
		CallbackURL:           resp.CallbackURL,
		PayerAlias:            resp.PayerAlias,
		PayeeAlias:            resp.PayeeAlias,
		Amount:                resp.Amount,
		Currency:              resp.Currency,
		Message:               resp.Message,
		Status:                entity.Status(resp.Status),
		DateCreated:           resp.DateCreated,
		DatePaid:              resp.DatePaid,
		ErrorCode:             resp.ErrorCode,
		ErrorMessage:          resp.ErrorMessage,
	}, nil
}

// parseErrors returns the first error reported in a non-2xx body.
func parseErrors(statusCode int, body []byte) (ErrorResponse, error) {
	var errs []ErrorResponse

	err := json.Unmarshal(body, &errs)
	if err != nil || len(errs) == 0 || errs[0].ErrorCode == "" {
		return ErrorResponse{}, fmt.Errorf("%w: http %d: %s", entity.ErrProtocol, statusCode, snippet(body))
	}

	return errs[0], nil
}

func snippet(body []byte) string {
	if len(body) > maxBodySnippet {
		return string(body[:maxBodySnippet]) + "..."
	}

	return string(body)
}
