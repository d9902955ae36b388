package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"gitlab.com/yelinaung/fxrates/internal/models"
	"gitlab.com/yelinaung/fxrates/internal/service"
)

func newRatesCommand(info BuildInfo, factory appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Print the current rate table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, info, factory, func(ctx context.Context, a *app, out io.Writer) error {
				rates, err := a.svc.Rates(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Rates for 1 %s\n", a.svc.Base())
				for _, r := range rates {
					fmt.Fprintf(out, "%s %s\n", r.Currency, models.FormatRate(r.Rate))
				}
				return nil
			})
		},
	}
}

func newCurrenciesCommand(info BuildInfo, factory appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List known currency codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, info, factory, func(ctx context.Context, a *app, out io.Writer) error {
				codes, err := a.svc.Currencies(ctx)
				if err != nil {
					return err
				}
				for _, code := range codes {
					fmt.Fprintln(out, code)
				}
				return nil
			})
		},
	}
}

func newConvertCommand(info BuildInfo, factory appFactory) *cobra.Command {
	return &cobra.Command{
		Use:     "convert AMOUNT FROM TO",
		Short:   "Convert an amount between two currencies",
		Example: "  fxrates convert 100 USD EUR",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := models.ParseAmount(args[0])
			if err != nil {
				return err
			}
			from, to := service.NormalizeCode(args[1]), service.NormalizeCode(args[2])

			return withApp(cmd, info, factory, func(ctx context.Context, a *app, out io.Writer) error {
				value := amount.InexactFloat64()
				result, err := a.svc.Convert(ctx, from, to, value)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s = %s %s\n", models.FormatAmount(value), from, models.FormatAmount(result), to)
				return nil
			})
		},
	}
}

func newConvertAllCommand(info BuildInfo, factory appFactory) *cobra.Command {
	return &cobra.Command{
		Use:     "convert-all AMOUNT FROM",
		Short:   "Convert an amount into every known currency",
		Example: "  fxrates convert-all 100 USD",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := models.ParseAmount(args[0])
			if err != nil {
				return err
			}
			from := service.NormalizeCode(args[1])

			return withApp(cmd, info, factory, func(ctx context.Context, a *app, out io.Writer) error {
				value := amount.InexactFloat64()
				conversions, err := a.svc.ConvertToAll(ctx, from, value)
				if err != nil {
					return err
				}
				if len(conversions) == 0 {
					return fmt.Errorf("no rates found for %s", from)
				}
				fmt.Fprintf(out, "%s %s =\n", models.FormatAmount(value), from)
				for _, c := range conversions {
					if c.Currency == from {
						continue
					}
					fmt.Fprintf(out, "  %s %s\n", models.FormatAmount(c.Amount), c.Currency)
				}
				return nil
			})
		},
	}
}
