package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kjannette/newsimpact-backend/internal/analysis"
	"github.com/kjannette/newsimpact-backend/internal/app"
	"github.com/kjannette/newsimpact-backend/internal/models"
	"github.com/kjannette/newsimpact-backend/internal/predict"
)

var (
	flagDate    string
	flagTicker  string
	flagHorizon string
	flagReplay  string
	flagHTML    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [article-file]",
	Short: "Analyze an article from a file or stdin",
	Long: "Analyze reads an article (plain text, or HTML when the file ends in .html or --html is set),\n" +
		"asks the configured predictor for affected tickers and annotates each prediction with\n" +
		"the close on or before the article date and a reliability label.",
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&flagDate, "date", "", "article date (defaults to the page's date, then today)")
	analyzeCmd.Flags().StringVar(&flagTicker, "ticker", "", "focus on one ticker instead of discovering affected tickers")
	analyzeCmd.Flags().StringVar(&flagHorizon, "horizon", "", "prediction horizon (defaults to DEFAULT_HORIZON)")
	analyzeCmd.Flags().StringVar(&flagReplay, "replay", "", "use a saved predictor response instead of calling a provider")
	analyzeCmd.Flags().BoolVar(&flagHTML, "html", false, "treat the input as HTML")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	raw, isHTML, err := readArticle(cmd, args)
	if err != nil {
		return err
	}
	if cfg.AlphaVantageAPIKey == "" {
		return errors.New("ALPHAVANTAGE_API_KEY is required")
	}

	var predictor predict.Predictor
	if flagReplay != "" {
		if predictor, err = predict.NewReplayPredictorFromFile(flagReplay); err != nil {
			return err
		}
	}

	core, err := app.NewCore(cmd.Context(), cfg, predictor)
	if err != nil {
		return err
	}

	req := analysis.Request{ArticleDate: flagDate, Ticker: flagTicker, Horizon: flagHorizon}
	if isHTML {
		req.ArticleHTML = raw
	} else {
		req.ArticleText = raw
	}

	a, err := core.Pipeline(cfg, nil, nil).Analyze(cmd.Context(), req)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(cmd, a)
	}
	printAnalysis(cmd.OutOrStdout(), a)
	return nil
}

func readArticle(cmd *cobra.Command, args []string) (string, bool, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", false, fmt.Errorf("read stdin: %w", err)
		}
		return string(b), flagHTML, nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", false, fmt.Errorf("read article: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(args[0]))
	return string(b), flagHTML || ext == ".html" || ext == ".htm", nil
}

func printAnalysis(w io.Writer, a *models.Analysis) {
	fmt.Fprintf(w, "%s analysis %s (article %s, horizon %s, %s)\n", a.Mode, a.ID, a.ArticleDate, a.Horizon, a.Predictor)
	if len(a.Predictions) == 0 {
		fmt.Fprintln(w, "  no affected tickers")
		return
	}
	for _, p := range a.Predictions {
		fmt.Fprintf(w, "\n  %-8s %-9s %-8s %+.2f%%\n", p.Ticker, p.Direction, p.Strength, p.ExpectedMovePercent)
		if p.Price != nil {
			fmt.Fprintf(w, "    close    %.2f on %s\n", p.Price.Close, p.Price.TradingDay)
		} else {
			fmt.Fprintf(w, "    close    %s\n", p.PriceReason)
		}
		if p.Reliability != nil {
			fmt.Fprintf(w, "    trust    %s (%s)\n", p.Reliability.Level, p.Reliability.Text)
		}
		if p.StrengthConsistent != nil && !*p.StrengthConsistent {
			fmt.Fprintf(w, "    warning  strength does not match expected move (%s)\n",
				models.BandStrength(p.Direction, p.ExpectedMovePercent))
		}
		fmt.Fprintf(w, "    %s\n", p.Explanation)
	}
}
