package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samandr77/microservices/swish/internal/entity"
	"github.com/samandr77/microservices/swish/pkg/config"
	"github.com/samandr77/microservices/swish/pkg/logger"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=../mocks/service.go -package=mocks

type SwishClient interface {
	CreatePaymentRequest(ctx context.Context, in entity.PaymentRequestInput) (entity.PaymentRequestState, error)
	PaymentRequest(ctx context.Context, location string) (entity.PaymentRequestState, error)
}

type Repository interface {
	SavePaymentRequest(ctx context.Context, pr entity.PaymentRequest) error
	PaymentRequest(ctx context.Context, id string) (entity.PaymentRequest, error)
	PendingPaymentRequests(ctx context.Context, createdAfter time.Time) ([]entity.PaymentRequest, error)
}

type Producer interface {
	SendStatusChanged(ctx context.Context, state entity.PaymentRequestState)
}

type Service struct {
	repo     Repository
	swish    SwishClient
	producer Producer
	merchant config.Swish
	poller   config.Poller
	now      func() time.Time
}

func New(repo Repository, swish SwishClient, producer Producer, merchant config.Swish, poller config.Poller) *Service {
	return &Service{
		repo:     repo,
		swish:    swish,
		producer: producer,
		merchant: merchant,
		poller:   poller,
		now:      time.Now,
	}
}

// CreatePaymentRequest validates the request, submits it to Swish and stores the first snapshot.
// A request rejected by Swish is stored too and returned with an error wrapping ErrApplication.
func (s *Service) CreatePaymentRequest(
	ctx context.Context,
	req entity.CreatePaymentRequest,
) (entity.PaymentRequest, error) {
	subject, err := entity.SubjectFromCtx(ctx)
	if err != nil {
		return entity.PaymentRequest{}, err
	}

	in := entity.PaymentRequestInput{
		PayeeAlias:            s.merchant.PayeeAlias,
		Amount:                req.Amount,
		Currency:              entity.CurrencySEK,
		CallbackURL:           s.merchant.CallbackURL,
		PayerAlias:            req.PayerAlias,
		PayeePaymentReference: req.PayeePaymentReference,
		PayerSSN:              req.PayerSSN,
		AgeLimit:              req.AgeLimit,
		Message:               req.Message,
	}

	err = in.Validate()
	if err != nil {
		return entity.PaymentRequest{}, err
	}

	swishCtx, cancel := s.withRequestTimeout(ctx)
	defer cancel()

	state, err := s.swish.CreatePaymentRequest(swishCtx, in)
	if err != nil && state.ID == "" {
		return entity.PaymentRequest{}, fmt.Errorf("create swish payment request: %w", err)
	}

	ctx = logger.WithPaymentRequestID(ctx, state.ID)

	if err != nil {
		slog.WarnContext(ctx, "payment request created but not fetched", "error", err)
	}

	now := s.now()

	pr := entity.PaymentRequest{
		PaymentRequestState: state,
		CreatedBy:           subject,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	// Rejected or not yet fetched requests carry no echoed fields.
	if pr.Amount.IsZero() {
		pr.PayeeAlias = in.PayeeAlias
		pr.Amount = in.Amount
		pr.Currency = in.Currency
		pr.CallbackURL = in.CallbackURL
		pr.PayerAlias = in.PayerAlias
		pr.PayeePaymentReference = in.PayeePaymentReference
		pr.Message = in.Message
	}

	saveErr := s.repo.SavePaymentRequest(ctx, pr)
	if saveErr != nil {
		return entity.PaymentRequest{}, fmt.Errorf("save payment request %s: %w", pr.ID, saveErr)
	}

	s.producer.SendStatusChanged(ctx, pr.PaymentRequestState)

	slog.InfoContext(ctx, "payment request created", "status", pr.Status, "amount", pr.Amount.StringFixed(2))

	if stateErr := pr.Err(); stateErr != nil {
		return pr, stateErr
	}

	return pr, nil
}

// PaymentRequest returns a stored request. Requests created by another subject are reported as not found.
func (s *Service) PaymentRequest(ctx context.Context, id string) (entity.PaymentRequest, error) {
	subject, err := entity.SubjectFromCtx(ctx)
	if err != nil {
		return entity.PaymentRequest{}, err
	}

	pr, err := s.repo.PaymentRequest(ctx, id)
	if err != nil {
		return entity.PaymentRequest{}, fmt.Errorf("get payment request %s: %w", id, err)
	}

	if pr.CreatedBy != subject {
		return entity.PaymentRequest{}, fmt.Errorf("get payment request %s: %w", id, entity.ErrNotFound)
	}

	return pr, nil
}

// Refresh fetches the current state of a stored payment request from Swish once.
// Terminal requests are returned as stored.
func (s *Service) Refresh(ctx context.Context, id string) (entity.PaymentRequest, error) {
	pr, err := s.PaymentRequest(ctx, id)
	if err != nil {
		return entity.PaymentRequest{}, err
	}

	if pr.IsTerminal() || pr.Location == "" {
		return pr, nil
	}

	return s.refresh(logger.WithPaymentRequestID(ctx, id), pr)
}

func (s *Service) refresh(ctx context.Context, pr entity.PaymentRequest) (entity.PaymentRequest, error) {
	swishCtx, cancel := s.withRequestTimeout(ctx)
	defer cancel()

	state, err := s.swish.PaymentRequest(swishCtx, pr.Location)
	if err != nil {
		return entity.PaymentRequest{}, fmt.Errorf("get swish payment request %s: %w", pr.ID, err)
	}

	if state.Status == pr.Status {
		return pr, nil
	}

	prev := pr.Status
	pr.PaymentRequestState = merge(pr.PaymentRequestState, state)
	pr.UpdatedAt = s.now()

	err = s.repo.SavePaymentRequest(ctx, pr)
	if err != nil {
		return entity.PaymentRequest{}, fmt.Errorf("save payment request %s: %w", pr.ID, err)
	}

	s.producer.SendStatusChanged(ctx, pr.PaymentRequestState)

	slog.InfoContext(ctx, "payment request status changed", "from", prev, "to", pr.Status)

	return pr, nil
}

// merge applies a fetched snapshot to the stored one. An error array from Swish only carries
// the error, so the stored echoed fields are kept in that case.
func merge(stored, fetched entity.PaymentRequestState) entity.PaymentRequestState {
	if fetched.Status != entity.StatusError || !fetched.Amount.IsZero() {
		return fetched
	}

	stored.Status = fetched.Status
	stored.StatusCode = fetched.StatusCode
	stored.ErrorCode = fetched.ErrorCode
	stored.ErrorMessage = fetched.ErrorMessage

	return stored
}

// UpdatePendingPaymentRequests polls every stored request that is not terminal yet and
// younger than the configured max age. Older requests are left alone.
func (s *Service) UpdatePendingPaymentRequests(ctx context.Context) error {
	prs, err := s.repo.PendingPaymentRequests(ctx, s.now().Add(-s.poller.MaxAge))
	if err != nil {
		return fmt.Errorf("get pending payment requests: %w", err)
	}

	var g errgroup.Group

	g.SetLimit(max(s.poller.Concurrency, 1))

	var (
		errs   = make([]error, len(prs))
		failed int
	)

	for i, pr := range prs {
		if pr.Location == "" {
			continue
		}

		g.Go(func() error {
			_, errs[i] = s.refresh(logger.WithPaymentRequestID(ctx, pr.ID), pr)
			return nil
		})
	}

	_ = g.Wait()

	for _, e := range errs {
		if e != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("update %d of %d payment requests: %w", failed, len(prs), errors.Join(errs...))
	}

	return nil
}

func (s *Service) withRequestTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.merchant.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.merchant.RequestTimeout)
}
