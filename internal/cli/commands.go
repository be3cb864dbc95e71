package cli

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/samandr77/microservices/swish/internal/entity"
	"github.com/samandr77/microservices/swish/internal/service"
)

type pollFlags struct {
	interval    time.Duration
	maxInterval time.Duration
}

func (p *pollFlags) register(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&p.interval, "interval", 2*time.Second, "first delay between polls")
	cmd.Flags().DurationVar(&p.maxInterval, "max-interval", 10*time.Second, "longest delay between polls")
}

func (a *app) createCmd() *cobra.Command {
	var (
		amount string
		in     entity.PaymentRequestInput
		wait   bool
		poll   pollFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a payment request",
		Long: `Create a payment request for the configured payee and print its first state.

With --wait the command keeps polling until the request is paid, declined,
cancelled or failed, or until --timeout expires.`,
		Example: `  swishctl create --amount 100.00 --payer 46712345678 --message "Order 42" --wait`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error

			in.Amount, err = decimal.NewFromString(amount)
			if err != nil {
				return err
			}

			in.PayeeAlias = a.cfg.PayeeAlias
			in.CallbackURL = a.cfg.CallbackURL
			in.Currency = entity.CurrencySEK

			if err := in.Validate(); err != nil {
				cmd.PrintErrln("warning:", err)
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			state, err := a.client.CreatePaymentRequest(ctx, in)
			if err != nil && state.Location == "" {
				return err
			}

			if !wait || state.IsTerminal() {
				if printErr := printState(cmd.OutOrStdout(), state); printErr != nil {
					return printErr
				}

				if err != nil {
					return err
				}

				return state.Err()
			}

			state, err = service.WaitForTerminal(ctx, a.client, state.Location, service.NewBackoff(poll.interval, poll.maxInterval))
			if printErr := printState(cmd.OutOrStdout(), state); printErr != nil {
				return printErr
			}

			if err != nil {
				return err
			}

			return state.Err()
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount in SEK, for example 100.00")
	cmd.Flags().StringVar(&in.PayerAlias, "payer", "", "payer phone number, for example 46712345678")
	cmd.Flags().StringVar(&in.Message, "message", "", "message shown to the payer")
	cmd.Flags().StringVar(&in.PayeePaymentReference, "reference", "", "merchant payment reference")
	cmd.Flags().IntVar(&in.AgeLimit, "age-limit", 0, "minimum payer age")
	cmd.Flags().BoolVar(&wait, "wait", false, "poll until the request is terminal")
	poll.register(cmd)

	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <location>",
		Short: "Print the current state of a payment request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			state, err := a.client.PaymentRequest(ctx, args[0])
			if err != nil {
				return err
			}

			return printState(cmd.OutOrStdout(), state)
		},
	}
}

func (a *app) waitCmd() *cobra.Command {
	var poll pollFlags

	cmd := &cobra.Command{
		Use:   "wait <location>",
		Short: "Poll a payment request until it is terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			state, err := service.WaitForTerminal(ctx, a.client, args[0], service.NewBackoff(poll.interval, poll.maxInterval))
			if state.ID != "" {
				if printErr := printState(cmd.OutOrStdout(), state); printErr != nil {
					return printErr
				}
			}

			return err
		},
	}

	poll.register(cmd)

	return cmd
}
