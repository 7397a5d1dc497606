package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/amirasaad/ledger/pkg/client"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	server  string
	timeout time.Duration
	output  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "ledgerctl",
		Short:        "ledgerctl talks to a ledger server",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.server, "server", "s", "http://localhost:8080", "Ledger server base URL")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "pretty", "Output format: pretty|json")

	cmd.AddCommand(
		createCmd(opts),
		getCmd(opts),
		transferCmd(opts),
		resetCmd(opts),
	)
	return cmd
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.server, o.timeout)
}

func createCmd(opts *rootOptions) *cobra.Command {
	var balance string
	c := &cobra.Command{
		Use:   "create <account-id>",
		Short: "Open an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", balance, err)
			}
			acc, err := opts.client().CreateAccount(args[0], amount)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), acc, func(w io.Writer) {
				color.New(color.FgGreen).Fprintf(w, "Account %s created", acc.AccountID)
				fmt.Fprintf(w, " with balance %s\n", acc.Balance.String())
			})
		},
	}
	c.Flags().StringVarP(&balance, "balance", "b", "0", "Opening balance")
	return c
}

func getCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <account-id>",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := opts.client().GetAccount(args[0])
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), acc, func(w io.Writer) {
				color.New(color.Bold).Fprintf(w, "%s", acc.AccountID)
				fmt.Fprintf(w, "\t%s\n", acc.Balance.String())
			})
		},
	}
}

func transferCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <from> <to> <amount>",
		Short: "Move money between two accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}
			out, err := opts.client().Transfer(args[0], args[1], amount)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), out, func(w io.Writer) {
				color.New(color.FgGreen).Fprintln(w, out.Message)
			})
		},
	}
}

func resetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove every account (non-production servers only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.client().Reset(); err != nil {
				return err
			}
			color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "All accounts removed")
			return nil
		},
	}
}

func (o *rootOptions) print(w io.Writer, v any, pretty func(io.Writer)) error {
	switch o.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "pretty", "":
		pretty(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
}
