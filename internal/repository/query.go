package repository

var columns = []string{
	"id",
	"location",
	"status_code",
	"payee_payment_reference",
	"payment_reference",
	"callback_url",
	"payer_alias",
	"payee_alias",
	"amount",
	"currency",
	"message",
	"status",
	"date_created",
	"date_paid",
	"error_code",
	"error_message",
	"created_by",
	"created_at",
	"updated_at",
}

// Columns refreshed on every snapshot. created_by and created_at keep their first value.
const upsertSuffix = `ON CONFLICT (id) DO UPDATE SET
	location = EXCLUDED.location,
	status_code = EXCLUDED.status_code,
	payee_payment_reference = EXCLUDED.payee_payment_reference,
	payment_reference = EXCLUDED.payment_reference,
	callback_url = EXCLUDED.callback_url,
	payer_alias = EXCLUDED.payer_alias,
	payee_alias = EXCLUDED.payee_alias,
	amount = EXCLUDED.amount,
	currency = EXCLUDED.currency,
	message = EXCLUDED.message,
	status = EXCLUDED.status,
	date_created = EXCLUDED.date_created,
	date_paid = EXCLUDED.date_paid,
	error_code = EXCLUDED.error_code,
	error_message = EXCLUDED.error_message,
	updated_at = EXCLUDED.updated_at`
