package entity

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type Status string

const (
	// StatusPending is never reported by Swish. It marks a request that was accepted
	// but whose state could not be fetched yet.
	StatusPending   Status = "PENDING"
	StatusCreated   Status = "CREATED"
	StatusPaid      Status = "PAID"
	StatusDeclined  Status = "DECLINED"
	StatusError     Status = "ERROR"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition can happen.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusDeclined, StatusError, StatusCancelled:
		return true
	}

	return false
}

const CurrencySEK = "SEK"

var (
	MaxAmount = decimal.RequireFromString("999999999999.99")

	payeeRefRe = regexp.MustCompile(`^[a-zA-Z0-9\-]{1,35}$`)
	messageRe  = regexp.MustCompile(`^[a-zA-ZåäöÅÄÖéÉüÜ0-9 :;.,?!()"'\-]*$`)
	aliasRe    = regexp.MustCompile(`^[0-9]{8,15}$`)
	ssnRe      = regexp.MustCompile(`^[0-9]{12}$`)
)

const (
	maxMessageLen = 50
	maxAgeLimit   = 99
)

// PaymentRequestInput is what the merchant asks Swish to create.
// Optional string fields are omitted when empty, AgeLimit when zero.
type PaymentRequestInput struct {
	PayeeAlias            string
	Amount                decimal.Decimal
	Currency              string
	CallbackURL           string
	PayerAlias            string
	PayeePaymentReference string
	PayerSSN              string
	AgeLimit              int
	Message               string
}

// Validate checks the documented Swish constraints. The result is advisory: Swish stays authoritative.
func (in PaymentRequestInput) Validate() error {
	var errs []error

	if in.PayeeAlias == "" {
		errs = append(errs, errors.New("payee alias is required"))
	}

	if !in.Amount.IsPositive() || in.Amount.GreaterThan(MaxAmount) {
		errs = append(errs, fmt.Errorf("amount %s is out of range (0, %s]", in.Amount, MaxAmount))
	} else if !in.Amount.Equal(in.Amount.Truncate(2)) {
		errs = append(errs, fmt.Errorf("amount %s has more than two decimals", in.Amount))
	}

	if in.Currency != CurrencySEK {
		errs = append(errs, fmt.Errorf("currency %q is not supported", in.Currency))
	}

	u, err := url.Parse(in.CallbackURL)
	if in.CallbackURL == "" || err != nil || u.Scheme != "https" || u.Host == "" {
		errs = append(errs, fmt.Errorf("callback url %q must be an absolute https url", in.CallbackURL))
	}

	if in.PayerAlias != "" && !aliasRe.MatchString(in.PayerAlias) {
		errs = append(errs, fmt.Errorf("payer alias %q must be 8-15 digits", in.PayerAlias))
	}

	if in.PayeePaymentReference != "" && !payeeRefRe.MatchString(in.PayeePaymentReference) {
		errs = append(errs, fmt.Errorf("payee payment reference %q is invalid", in.PayeePaymentReference))
	}

	if in.PayerSSN != "" && !ssnRe.MatchString(in.PayerSSN) {
		errs = append(errs, errors.New("payer ssn must be 12 digits"))
	}

	if in.AgeLimit < 0 || in.AgeLimit > maxAgeLimit {
		errs = append(errs, fmt.Errorf("age limit %d is out of range 1-%d", in.AgeLimit, maxAgeLimit))
	}

	if utf8.RuneCountInString(in.Message) > maxMessageLen || !messageRe.MatchString(in.Message) {
		errs = append(errs, fmt.Errorf("message %q is invalid", in.Message))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, errors.Join(errs...))
	}

	return nil
}

// PaymentRequestState is one snapshot of a payment request as reported by Swish.
// Snapshots are values: refreshing a request yields a new one.
type PaymentRequestState struct {
	ID                    string
	Location              string
	StatusCode            int
	PayeePaymentReference string
	PaymentReference      string
	CallbackURL           string
	PayerAlias            string
	PayeeAlias            string
	Amount                decimal.Decimal
	Currency              string
	Message               string
	Status                Status
	DateCreated           *time.Time
	DatePaid              *time.Time
	ErrorCode             string
	ErrorMessage          string
}

func (s PaymentRequestState) IsTerminal() bool {
	return s.Status.IsTerminal()
}

// Err returns the Swish rejection carried by the snapshot, or nil.
func (s PaymentRequestState) Err() error {
	if s.Status != StatusError {
		return nil
	}

	return &APIError{
		StatusCode: s.StatusCode,
		Code:       s.ErrorCode,
		Message:    s.ErrorMessage,
	}
}

// PaymentRequest is the gateway's stored copy of the latest snapshot.
type PaymentRequest struct {
	PaymentRequestState
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreatePaymentRequest is what an API caller submits. The payee, currency and callback
// come from the merchant agreement.
type CreatePaymentRequest struct {
	PayerAlias            string
	Amount                decimal.Decimal
	PayeePaymentReference string
	PayerSSN              string
	AgeLimit              int
	Message               string
}
