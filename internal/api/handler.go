package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/samandr77/microservices/swish/internal/entity"
)

// @title Swish Payment Request API
// @version 1.0
// @description Creates Swish payment requests on behalf of the merchant and reports their status
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

//go:generate go run go.uber.org/mock/mockgen@latest -source=handler.go -destination=../mocks/handler.go -package=mocks

type Service interface {
	CreatePaymentRequest(ctx context.Context, req entity.CreatePaymentRequest) (entity.PaymentRequest, error)
	PaymentRequest(ctx context.Context, id string) (entity.PaymentRequest, error)
	Refresh(ctx context.Context, id string) (entity.PaymentRequest, error)
}

type Handler struct {
	s Service
}

func NewHandler(s Service) *Handler {
	return &Handler{
		s: s,
	}
}

type CreatePaymentRequestRequest struct {
	Amount                decimal.Decimal `json:"amount" swaggertype:"string" example:"100.00"`
	PayerAlias            string          `json:"payerAlias,omitempty" example:"46712345678"`
	PayeePaymentReference string          `json:"payeePaymentReference,omitempty" example:"ORDER-42"`
	PayerSSN              string          `json:"payerSSN,omitempty"`
	AgeLimit              int             `json:"ageLimit,omitempty"`
	Message               string          `json:"message,omitempty" example:"Order 42"`
}

type PaymentRequestResponse struct {
	ID                    string     `json:"id"`
	Status                string     `json:"status" example:"CREATED"`
	StatusCode            int        `json:"statusCode"`
	PayeePaymentReference string     `json:"payeePaymentReference,omitempty"`
	PaymentReference      string     `json:"paymentReference,omitempty"`
	PayerAlias            string     `json:"payerAlias,omitempty"`
	PayeeAlias            string     `json:"payeeAlias,omitempty"`
	Amount                string     `json:"amount" example:"100.00"`
	Currency              string     `json:"currency" example:"SEK"`
	Message               string     `json:"message,omitempty"`
	DateCreated           *time.Time `json:"dateCreated,omitempty"`
	DatePaid              *time.Time `json:"datePaid,omitempty"`
	ErrorCode             string     `json:"errorCode,omitempty"`
	ErrorMessage          string     `json:"errorMessage,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

func newPaymentRequestResponse(pr entity.PaymentRequest) PaymentRequestResponse {
	return PaymentRequestResponse{
		ID:                    pr.ID,
		Status:                pr.Status.String(),
		StatusCode:            pr.StatusCode,
		PayeePaymentReference: pr.PayeePaymentReference,
		PaymentReference:      pr.PaymentReference,
		PayerAlias:            pr.PayerAlias,
		PayeeAlias:            pr.PayeeAlias,
		Amount:                pr.Amount.StringFixed(2),
		Currency:              pr.Currency,
		Message:               pr.Message,
		DateCreated:           pr.DateCreated,
		DatePaid:              pr.DatePaid,
		ErrorCode:             pr.ErrorCode,
		ErrorMessage:          pr.ErrorMessage,
		CreatedAt:             pr.CreatedAt,
		UpdatedAt:             pr.UpdatedAt,
	}
}

// CreatePaymentRequest creates a Swish payment request
// @Summary Create payment request
// @Description Sends a payment request to the payer's Swish app. Payee, currency and callback are taken from the merchant agreement.
// @Tags paymentrequests
// @Accept json
// @Produce json
// @Param CreatePaymentRequestRequest body CreatePaymentRequestRequest true "Payment request"
// @Success 201 {object} PaymentRequestResponse
// @Failure 400 {object} ErrorResponse "Invalid JSON"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 422 {object} PaymentRequestResponse "Rejected by validation or by Swish"
// @Failure 502 {object} ErrorResponse "Unexpected Swish response"
// @Failure 503 {object} ErrorResponse "Swish unreachable"
// @Router /paymentrequests [post]
// @Security BearerAuth
func (h *Handler) CreatePaymentRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePaymentRequestRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid JSON")
		return
	}

	pr, err := h.s.CreatePaymentRequest(ctx, entity.CreatePaymentRequest{
		PayerAlias:            req.PayerAlias,
		Amount:                req.Amount,
		PayeePaymentReference: req.PayeePaymentReference,
		PayerSSN:              req.PayerSSN,
		AgeLimit:              req.AgeLimit,
		Message:               req.Message,
	})
	if err != nil {
		if errors.Is(err, entity.ErrApplication) && pr.ID != "" {
			slog.WarnContext(ctx, "payment request rejected by swish", "error", err)
			SendJSON(ctx, w, http.StatusUnprocessableEntity, newPaymentRequestResponse(pr))

			return
		}

		sendServiceErr(ctx, w, err, "Failed to create payment request")

		return
	}

	SendJSON(ctx, w, http.StatusCreated, newPaymentRequestResponse(pr))
}

// PaymentRequest returns the stored state of a payment request
// @Summary Get payment request
// @Description Returns the last known state. With refresh=true Swish is asked for the current state first.
// @Tags paymentrequests
// @Produce json
// @Param id path string true "Payment request id"
// @Param refresh query bool false "Fetch the current state from Swish"
// @Success 200 {object} PaymentRequestResponse
// @Failure 400 {object} ErrorResponse "Invalid refresh flag"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 404 {object} ErrorResponse "Payment request not found"
// @Failure 502 {object} ErrorResponse "Unexpected Swish response"
// @Failure 503 {object} ErrorResponse "Swish unreachable"
// @Router /paymentrequests/{id} [get]
// @Security BearerAuth
func (h *Handler) PaymentRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	refresh := false

	if v := r.URL.Query().Get("refresh"); v != "" {
		var err error

		refresh, err = strconv.ParseBool(v)
		if err != nil {
			SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid refresh flag")
			return
		}
	}

	get := h.s.PaymentRequest
	if refresh {
		get = h.s.Refresh
	}

	pr, err := get(ctx, id)
	if err != nil {
		sendServiceErr(ctx, w, err, "Failed to get payment request")
		return
	}

	SendJSON(ctx, w, http.StatusOK, newPaymentRequestResponse(pr))
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// HealthHandler godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	SendJSON(r.Context(), w, http.StatusOK, HealthResponse{Status: "ok"})
}
