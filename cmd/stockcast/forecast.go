package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/newthinker/stockcast/internal/app"
	"github.com/newthinker/stockcast/internal/core"
	"github.com/newthinker/stockcast/internal/logger"
	"github.com/newthinker/stockcast/internal/pipeline"
)

var (
	forecastTicker   string
	forecastStart    string
	forecastEnd      string
	forecastHorizon  int
	forecastProvider string
	forecastTail     int
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast a ticker and print the report",
	Long: `Fetch daily prices for a ticker, run the ADF stationarity test, fit an
AR(5) model and print the verdict, the forecast and the historical data.`,
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().StringVarP(&forecastTicker, "ticker", "t", "", "stock ticker (default from config)")
	forecastCmd.Flags().StringVar(&forecastStart, "start", "", "first day YYYY-MM-DD (default from config)")
	forecastCmd.Flags().StringVar(&forecastEnd, "end", "", "last day YYYY-MM-DD (default today)")
	forecastCmd.Flags().IntVarP(&forecastHorizon, "horizon", "n", 0, "business days to forecast, 5-60 (default from config)")
	forecastCmd.Flags().StringVarP(&forecastProvider, "provider", "p", "", "data provider: yahoo, polygon, eastmoney or csv")
	forecastCmd.Flags().IntVar(&forecastTail, "tail", 20, "historical rows to print, 0 for all")

	rootCmd.AddCommand(forecastCmd)
}

var stageLabels = map[string]string{
	pipeline.StageFetch:      "Fetching data",
	pipeline.StageCheck:      "Testing stationarity",
	pipeline.StageForecast:   "Training ARIMA model",
	pipeline.StageCommentary: "Writing commentary",
}

func runForecast(cmd *cobra.Command, args []string) error {
	level := "error"
	if debug {
		level = "debug"
	}
	log, err := logger.Build(logger.Options{Level: level, Encoding: "console"})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if forecastProvider != "" {
		cfg.Collector.Provider = forecastProvider
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	q, err := buildQuery(cfg.Forecast.DefaultTicker, cfg.Forecast.DefaultStart, cfg.Forecast.DefaultHorizon)
	if err != nil {
		return err
	}

	spin := startSpinner(os.Stderr, stageLabels[pipeline.StageFetch])
	a, err := app.New(cfg, log, app.WithRunnerOptions(pipeline.WithStageHook(func(stage string) {
		if label, ok := stageLabels[stage]; ok {
			spin.Describe(label)
		}
	})))
	if err != nil {
		spin.Stop()
		return err
	}

	res, err := a.Run(cmd.Context(), q)
	spin.Stop()

	out := cmd.OutOrStdout()
	switch {
	case errors.Is(err, core.ErrEmptyData):
		writeNoData(out)
		return err
	case err != nil:
		writeError(out, err)
		return err
	}
	return writeReport(out, res, forecastTail)
}

// buildQuery applies the flags over the configured defaults.
func buildQuery(defTicker, defStart string, defHorizon int) (core.Query, error) {
	ticker := forecastTicker
	if ticker == "" {
		ticker = defTicker
	}
	startText := forecastStart
	if startText == "" {
		startText = defStart
	}
	horizon := forecastHorizon
	if horizon == 0 {
		horizon = defHorizon
	}

	start, err := time.Parse(core.DateLayout, startText)
	if err != nil {
		return core.Query{}, core.Errorf(core.ErrInvalidQuery, "start must be YYYY-MM-DD, got %q", startText)
	}
	var end time.Time
	if forecastEnd != "" {
		end, err = time.Parse(core.DateLayout, forecastEnd)
		if err != nil {
			return core.Query{}, core.Errorf(core.ErrInvalidQuery, "end must be YYYY-MM-DD, got %q", forecastEnd)
		}
	}
	return core.NewQuery(ticker, start, end, horizon)
}

// spinner animates an indeterminate progressbar until stopped.
type spinner struct {
	bar  *progressbar.ProgressBar
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func startSpinner(w io.Writer, description string) *spinner {
	s := &spinner{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		),
		done: make(chan struct{}),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				_ = s.bar.Add(1)
			}
		}
	}()
	return s
}

func (s *spinner) Describe(description string) {
	s.bar.Describe(description)
}

func (s *spinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
		_ = s.bar.Finish()
	})
}
