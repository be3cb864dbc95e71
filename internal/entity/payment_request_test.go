package entity_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/swish/internal/entity"
)

func validInput() entity.PaymentRequestInput {
	return entity.PaymentRequestInput{
		PayeeAlias:            "1231181189",
		Amount:                decimal.RequireFromString("100.00"),
		Currency:              entity.CurrencySEK,
		CallbackURL:           "https://merchant.example.com/swish/callback",
		PayerAlias:            "46712345678",
		PayeePaymentReference: "0123456789",
		Message:               "Kingston USB Flash Drive 8 GB",
	}
}

func TestPaymentRequestInput_Validate(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name    string
		modify  func(in *entity.PaymentRequestInput)
		wantErr bool
	}{
		{
			name:   "valid",
			modify: func(*entity.PaymentRequestInput) {},
		},
		{
			name: "only required fields",
			modify: func(in *entity.PaymentRequestInput) {
				in.PayerAlias = ""
				in.PayeePaymentReference = ""
				in.Message = ""
			},
		},
		{
			name:   "max amount",
			modify: func(in *entity.PaymentRequestInput) { in.Amount = entity.MaxAmount },
		},
		{
			name:    "missing payee alias",
			modify:  func(in *entity.PaymentRequestInput) { in.PayeeAlias = "" },
			wantErr: true,
		},
		{
			name:    "zero amount",
			modify:  func(in *entity.PaymentRequestInput) { in.Amount = decimal.Zero },
			wantErr: true,
		},
		{
			name:    "amount too big",
			modify:  func(in *entity.PaymentRequestInput) { in.Amount = decimal.RequireFromString("1000000000000") },
			wantErr: true,
		},
		{
			name:    "three decimals",
			modify:  func(in *entity.PaymentRequestInput) { in.Amount = decimal.RequireFromString("1.005") },
			wantErr: true,
		},
		{
			name:    "currency",
			modify:  func(in *entity.PaymentRequestInput) { in.Currency = "EUR" },
			wantErr: true,
		},
		{
			name:    "plain http callback",
			modify:  func(in *entity.PaymentRequestInput) { in.CallbackURL = "http://merchant.example.com/cb" },
			wantErr: true,
		},
		{
			name:    "payee reference too long",
			modify:  func(in *entity.PaymentRequestInput) { in.PayeePaymentReference = strings.Repeat("a", 36) },
			wantErr: true,
		},
		{
			name:    "payee reference alphabet",
			modify:  func(in *entity.PaymentRequestInput) { in.PayeePaymentReference = "order_42/a.b" },
			wantErr: true,
		},
		{
			name:    "payee reference with dash",
			modify:  func(in *entity.PaymentRequestInput) { in.PayeePaymentReference = "order-42-A" },
		},
		{
			name:    "message too long",
			modify:  func(in *entity.PaymentRequestInput) { in.Message = strings.Repeat("a", 51) },
			wantErr: true,
		},
		{
			name:    "message alphabet",
			modify:  func(in *entity.PaymentRequestInput) { in.Message = "<script>" },
			wantErr: true,
		},
		{
			name:    "age limit",
			modify:  func(in *entity.PaymentRequestInput) { in.AgeLimit = 100 },
			wantErr: true,
		},
		{
			name:    "payer ssn",
			modify:  func(in *entity.PaymentRequestInput) { in.PayerSSN = "19800101" },
			wantErr: true,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := validInput()
			tt.modify(&in)

			err := in.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, entity.ErrInvalidArgument)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	t.Parallel()

	for status, want := range map[entity.Status]bool{
		entity.StatusPending:   false,
		entity.StatusCreated:   false,
		entity.StatusPaid:      true,
		entity.StatusDeclined:  true,
		entity.StatusError:     true,
		entity.StatusCancelled: true,
		"SOMETHING_NEW":        false,
	} {
		require.Equal(t, want, status.IsTerminal(), status)
	}
}

func TestPaymentRequestState_Err(t *testing.T) {
	t.Parallel()

	require.NoError(t, entity.PaymentRequestState{Status: entity.StatusPaid}.Err())

	err := entity.PaymentRequestState{
		Status:       entity.StatusError,
		StatusCode:   http.StatusUnprocessableEntity,
		ErrorCode:    "RF03",
		ErrorMessage: "Missing PayeePaymentReference",
	}.Err()
	require.ErrorIs(t, err, entity.ErrApplication)
	require.NotErrorIs(t, err, entity.ErrConnectivity)

	var apiErr *entity.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "RF03", apiErr.Code)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}
