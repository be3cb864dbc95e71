// Package cli implements swishctl, an operator tool for the Swish payment request API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/samandr77/microservices/swish/internal/clients/swish"
	"github.com/samandr77/microservices/swish/internal/entity"
	"github.com/samandr77/microservices/swish/pkg/config"
	"github.com/samandr77/microservices/swish/pkg/logger"
	"github.com/samandr77/microservices/swish/pkg/security"
)

// ClientFactory builds the Swish client once the configuration is loaded.
type ClientFactory func(cfg config.Swish) (*swish.Client, error)

type app struct {
	newClient ClientFactory

	envPath  string
	logLevel string
	timeout  time.Duration

	cfg    config.Swish
	client *swish.Client
}

// NewRootCmd returns the swishctl command tree. A nil factory uses the configured mutual TLS credentials.
func NewRootCmd(newClient ClientFactory) *cobra.Command {
	if newClient == nil {
		newClient = NewClient
	}

	a := &app{newClient: newClient}

	root := &cobra.Command{
		Use:   "swishctl",
		Short: "Create and follow Swish payment requests",
		Long: `swishctl talks to the Swish payment request API with the merchant certificate.

The merchant agreement is read from the environment or an .env file:
SWISH_BASE_URL, SWISH_PAYEE_ALIAS, SWISH_CALLBACK_URL and either
SWISH_PKCS12_PATH or SWISH_CERT_PATH with SWISH_KEY_PATH.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.envPath, "env", ".env", "path to an .env file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", time.Minute, "overall deadline of the command")

	root.AddCommand(a.createCmd(), a.statusCmd(), a.waitCmd())

	return root
}

// NewClient loads the credentials named in cfg.
func NewClient(cfg config.Swish) (*swish.Client, error) {
	creds, err := security.LoadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	tlsCfg, err := creds.TLSConfig()
	if err != nil {
		return nil, err
	}

	return swish.NewClient(cfg.BaseURL, tlsCfg), nil
}

func (a *app) init() error {
	_, err := logger.New(a.logLevel, "text")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	a.cfg, err = config.NewSwish(a.envPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a.client, err = a.newClient(a.cfg)
	if err != nil {
		return fmt.Errorf("create swish client: %w", err)
	}

	return nil
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

type stateView struct {
	ID                    string     `json:"id"`
	Location              string     `json:"location,omitempty"`
	Status                string     `json:"status"`
	StatusCode            int        `json:"statusCode"`
	PayeePaymentReference string     `json:"payeePaymentReference,omitempty"`
	PaymentReference      string     `json:"paymentReference,omitempty"`
	PayerAlias            string     `json:"payerAlias,omitempty"`
	Amount                string     `json:"amount,omitempty"`
	Currency              string     `json:"currency,omitempty"`
	Message               string     `json:"message,omitempty"`
	DateCreated           *time.Time `json:"dateCreated,omitempty"`
	DatePaid              *time.Time `json:"datePaid,omitempty"`
	ErrorCode             string     `json:"errorCode,omitempty"`
	ErrorMessage          string     `json:"errorMessage,omitempty"`
}

func printState(w io.Writer, s entity.PaymentRequestState) error {
	v := stateView{
		ID:                    s.ID,
		Location:              s.Location,
		Status:                s.Status.String(),
		StatusCode:            s.StatusCode,
		PayeePaymentReference: s.PayeePaymentReference,
		PaymentReference:      s.PaymentReference,
		PayerAlias:            s.PayerAlias,
		Currency:              s.Currency,
		Message:               s.Message,
		DateCreated:           s.DateCreated,
		DatePaid:              s.DatePaid,
		ErrorCode:             s.ErrorCode,
		ErrorMessage:          s.ErrorMessage,
	}

	if !s.Amount.IsZero() {
		v.Amount = s.Amount.StringFixed(2)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	return nil
}
