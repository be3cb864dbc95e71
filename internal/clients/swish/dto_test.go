package swish

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/swish/internal/entity"
)

func TestPaymentRequestBody_EchoedFields(t *testing.T) {
	t.Parallel()

	in := entity.PaymentRequestInput{
		PayeeAlias:            "1231181189",
		Amount:                decimal.RequireFromString("1.5"),
		Currency:              entity.CurrencySEK,
		CallbackURL:           "https://merchant.example.com/swish/callback",
		PayerAlias:            "46712345678",
		PayeePaymentReference: "ORDER-42",
		Message:               "Tack!",
	}

	b, err := json.Marshal(NewPaymentRequestBody(in))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"payeePaymentReference": "ORDER-42",
		"callbackUrl": "https://merchant.example.com/swish/callback",
		"payerAlias": "46712345678",
		"payeeAlias": "1231181189",
		"amount": "1.50",
		"currency": "SEK",
		"message": "Tack!"
	}`, string(b))

	// Swish echoes the request fields back, adding id and status.
	var echoed map[string]any
	require.NoError(t, json.Unmarshal(b, &echoed))

	echoed["id"] = "0123456789ABCDEF0123456789ABCDEF"
	echoed["status"] = "CREATED"

	b, err = json.Marshal(echoed)
	require.NoError(t, err)

	state, err := parseState(b)
	require.NoError(t, err)

	require.Equal(t, in.PayeeAlias, state.PayeeAlias)
	require.Equal(t, in.PayerAlias, state.PayerAlias)
	require.Equal(t, in.PayeePaymentReference, state.PayeePaymentReference)
	require.Equal(t, in.CallbackURL, state.CallbackURL)
	require.Equal(t, in.Currency, state.Currency)
	require.Equal(t, in.Message, state.Message)
	require.True(t, in.Amount.Equal(state.Amount))
}

func TestPaymentRequestBody_OmitsEmptyOptionals(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(NewPaymentRequestBody(entity.PaymentRequestInput{
		PayeeAlias:  "1231181189",
		Amount:      decimal.RequireFromString("999999999999.99"),
		Currency:    entity.CurrencySEK,
		CallbackURL: "https://merchant.example.com/cb",
	}))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"callbackUrl": "https://merchant.example.com/cb",
		"payeeAlias": "1231181189",
		"amount": "999999999999.99",
		"currency": "SEK"
	}`, string(b))
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	e, err := parseErrors(422, []byte(`[{"errorCode":"AM02","errorMessage":"Amount value is too large"},{"errorCode":"RF07"}]`))
	require.NoError(t, err)
	require.Equal(t, "AM02", e.ErrorCode)

	_, err = parseErrors(500, []byte(`{"errorCode":"AM02"}`))
	require.ErrorIs(t, err, entity.ErrProtocol)
	require.ErrorContains(t, err, "http 500")
}
