package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kjannette/newsimpact-backend/internal/app"
	"github.com/kjannette/newsimpact-backend/internal/models"
	"github.com/kjannette/newsimpact-backend/internal/pricing"
	"github.com/kjannette/newsimpact-backend/internal/ticker"
)

var priceCmd = &cobra.Command{
	Use:   "price <ticker> <date>",
	Short: "Resolve the close on or before a date",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sym, ok := ticker.Normalize(args[0])
		if !ok {
			return errors.New(models.UnsupportedTickerReason)
		}
		date, err := pricing.ParseArticleDate(args[1])
		if err != nil {
			return err
		}
		if cfg.AlphaVantageAPIKey == "" {
			return errors.New("ALPHAVANTAGE_API_KEY is required")
		}

		res, err := app.NewPriceService(cfg).Lookup(cmd.Context(), sym, date)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd, res)
		}
		if res.OK() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: close %.2f on %s\n", sym, date, res.Close, res.Date)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s (%s)\n", sym, date, res.Error.Reason(), res.Error)
		}
		return nil
	},
}

var reliabilityCmd = &cobra.Command{
	Use:   "reliability <ticker> [horizon]",
	Short: "Show the reliability label for a ticker and horizon",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		horizon := cfg.DefaultHorizon
		if len(args) == 2 {
			horizon = args[1]
		}
		table, err := app.LoadReliability(cfg)
		if err != nil {
			return err
		}

		sym, ok := ticker.Normalize(args[0])
		if !ok {
			return errors.New(models.UnsupportedTickerReason)
		}
		label := table.Score(sym, horizon)
		if flagJSON {
			return printJSON(cmd, label)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s (%s)\n", sym, horizon, label.Level, label.Text)
		return nil
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <ticker>...",
	Short: "Show how tickers are normalized for price lookups",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, raw := range args {
			if sym, ok := ticker.Normalize(raw); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", raw, sym)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tunsupported\n", raw)
			}
		}
	},
}
