package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype/zeronull"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samandr77/microservices/swish/internal/entity"
)

var terminalStatuses = []string{
	string(entity.StatusPaid),
	string(entity.StatusDeclined),
	string(entity.StatusError),
	string(entity.StatusCancelled),
}

type Repository struct {
	db *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{
		db: pool,
	}
}

// SavePaymentRequest inserts the snapshot or replaces the stored one with the same id.
func (r *Repository) SavePaymentRequest(ctx context.Context, pr entity.PaymentRequest) error {
	q, args, err := sq.Insert("payment_requests").
		Columns(columns...).
		Values(
			pr.ID,
			zeronull.Text(pr.Location),
			pr.StatusCode,
			zeronull.Text(pr.PayeePaymentReference),
			zeronull.Text(pr.PaymentReference),
			zeronull.Text(pr.CallbackURL),
			zeronull.Text(pr.PayerAlias),
			zeronull.Text(pr.PayeeAlias),
			pr.Amount,
			pr.Currency,
			zeronull.Text(pr.Message),
			string(pr.Status),
			pr.DateCreated,
			pr.DatePaid,
			zeronull.Text(pr.ErrorCode),
			zeronull.Text(pr.ErrorMessage),
			pr.CreatedBy,
			pr.CreatedAt,
			pr.UpdatedAt,
		).
		Suffix(upsertSuffix).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	_, err = r.db.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	return nil
}

func (r *Repository) PaymentRequest(ctx context.Context, id string) (entity.PaymentRequest, error) {
	q, args, err := sq.Select(columns...).
		From("payment_requests").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return entity.PaymentRequest{}, fmt.Errorf("build query: %w", err)
	}

	return scanPaymentRequest(r.db.QueryRow(ctx, q, args...))
}

// PendingPaymentRequests returns requests that are not terminal and were created after createdAfter,
// oldest first.
func (r *Repository) PendingPaymentRequests(ctx context.Context, createdAfter time.Time) ([]entity.PaymentRequest, error) {
	q, args, err := sq.Select(columns...).
		From("payment_requests").
		Where(sq.NotEq{"status": terminalStatuses}).
		Where(sq.Gt{"created_at": createdAfter}).
		OrderBy("created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	defer rows.Close()

	var prs []entity.PaymentRequest

	for rows.Next() {
		pr, err := scanPaymentRequest(rows)
		if err != nil {
			return nil, err
		}

		prs = append(prs, pr)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return prs, nil
}

func scanPaymentRequest(row pgx.Row) (pr entity.PaymentRequest, err error) {
	var status string

	err = row.Scan(
		&pr.ID,
		(*zeronull.Text)(&pr.Location),
		&pr.StatusCode,
		(*zeronull.Text)(&pr.PayeePaymentReference),
		(*zeronull.Text)(&pr.PaymentReference),
		(*zeronull.Text)(&pr.CallbackURL),
		(*zeronull.Text)(&pr.PayerAlias),
		(*zeronull.Text)(&pr.PayeeAlias),
		&pr.Amount,
		&pr.Currency,
		(*zeronull.Text)(&pr.Message),
		&status,
		&pr.DateCreated,
		&pr.DatePaid,
		(*zeronull.Text)(&pr.ErrorCode),
		(*zeronull.Text)(&pr.ErrorMessage),
		&pr.CreatedBy,
		&pr.CreatedAt,
		&pr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.PaymentRequest{}, entity.ErrNotFound
		}

		return entity.PaymentRequest{}, fmt.Errorf("scan: %w", err)
	}

	pr.Status = entity.Status(status)

	return pr, nil
}
