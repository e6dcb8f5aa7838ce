package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/reclass/internal/accrual"
	"github.com/cleared-dev/reclass/internal/auditlog"
	"github.com/cleared-dev/reclass/internal/format"
)

const dateFormat = "2006-01-02"

func newAccrueCommand() *cobra.Command {
	var principal, rate, start, end string
	var client, repoDir string

	cmd := &cobra.Command{
		Use:   "accrue",
		Short: "Compute simple interest accrued on invoice advances",
		Long: `Compute simple interest on a 365-day year.

With --principal, --rate, --start and --end a single amount is computed.
With --client every advance stored in advances/advances.csv for that client
is listed, accruing to its repayment date or, while open, its deadline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if client != "" {
				return runAccrueClient(cmd, repoDir, client)
			}
			if principal == "" || rate == "" || start == "" || end == "" {
				return fmt.Errorf("either --client or all of --principal, --rate, --start and --end are required")
			}
			return runAccrueOnce(cmd, principal, rate, start, end)
		},
	}

	cmd.Flags().StringVar(&principal, "principal", "", "principal amount, e.g. 10000.00")
	cmd.Flags().StringVar(&rate, "rate", "", "annual rate in percent, e.g. 4.5")
	cmd.Flags().StringVar(&start, "start", "", "start date, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&end, "end", "", "end date, YYYY-MM-DD (exclusive)")
	cmd.Flags().StringVar(&client, "client", "", "list stored advances for this client")
	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.MarkFlagsMutuallyExclusive("client", "principal")

	return cmd
}

func runAccrueOnce(cmd *cobra.Command, principalStr, rateStr, startStr, endStr string) error {
	principal, err := decimal.NewFromString(principalStr)
	if err != nil {
		return fmt.Errorf("--principal: %w", err)
	}
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return fmt.Errorf("--rate: %w", err)
	}
	start, err := time.Parse(dateFormat, startStr)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	end, err := time.Parse(dateFormat, endStr)
	if err != nil {
		return fmt.Errorf("--end: %w", err)
	}

	interest, err := accrual.Accrue(principal, rate, start, end)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Interest over %d days: %s\n", accrual.Days(start, end), format.Currency(interest))
	return nil
}

func runAccrueClient(cmd *cobra.Command, repoDir, client string) error {
	p, err := openProject(cmd, repoDir)
	if err != nil {
		return err
	}
	advances, err := p.store.Advances(cmd.Context(), client)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(advances) == 0 {
		fmt.Fprintf(out, "No advances for %s.\n", client)
		return nil
	}

	tw := newTable(out)
	if err := writeHeader(tw, "Invoice", "Bank", "Principal", "Rate", "Start", "End", "Days", "Interest"); err != nil {
		return err
	}
	total := decimal.Zero
	for _, a := range advances {
		interest, err := accrual.ForAdvance(a)
		if err != nil {
			return fmt.Errorf("advance %s: %w", a.Invoice, err)
		}
		total = total.Add(interest)
		if err := writeRow(tw,
			a.Invoice,
			a.Bank,
			p.fmt.Currency(a.Principal),
			p.fmt.Number(a.Rate)+"%",
			a.Start.Format(dateFormat),
			a.End().Format(dateFormat),
			fmt.Sprint(accrual.Days(a.Start, a.End())),
			p.fmt.Currency(interest),
		); err != nil {
			return err
		}
	}
	if err := writeRow(tw, "Total", "", "", "", "", "", "", p.fmt.Currency(total)); err != nil {
		return err
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p.log.Info("accrued advances", "client", client, "count", len(advances), "total", total.StringFixed(2))
	p.audit(client, auditlog.ActionAccrue, "", fmt.Sprintf("advances=%d total=%s", len(advances), total.StringFixed(2)))
	return nil
}
