// Package main provides the apostas CLI: dashboard summaries,
// bookmaker leaderboards, slip analysis and the long-running dashboard
// service.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/geovana49/apostaspro-v2-sub001/internal/analysis"
	"github.com/geovana49/apostaspro-v2-sub001/internal/config"
	"github.com/geovana49/apostaspro-v2-sub001/internal/database"
	"github.com/geovana49/apostaspro-v2-sub001/internal/extract"
	"github.com/geovana49/apostaspro-v2-sub001/internal/health"
	"github.com/geovana49/apostaspro-v2-sub001/internal/logger"
	"github.com/geovana49/apostaspro-v2-sub001/internal/models"
	"github.com/geovana49/apostaspro-v2-sub001/internal/repository"
	"github.com/geovana49/apostaspro-v2-sub001/internal/scheduler"
	"github.com/geovana49/apostaspro-v2-sub001/internal/stats"
)

var (
	configFile string
	fromDate   string
	toDate     string

	appLogger *logrus.Logger
	cfg       *config.Config
	db        *database.DB
	stores    repository.Stores
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	summaryCmd.Flags().StringVar(&fromDate, "from", "", "Window start (YYYY-MM-DD), defaults to first day of the current month")
	summaryCmd.Flags().StringVar(&toDate, "to", "", "Window end (YYYY-MM-DD), defaults to last day of the current month")

	rootCmd.AddCommand(summaryCmd, leaderboardCmd, analyzeCmd, serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "apostas",
	Short: "Personal sports-bet bookkeeping",
	Long:  `Tracks bets and their hedge legs, settles them, and rolls them into period summaries and bookmaker leaderboards.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
	if db != nil {
		db.Close()
	}
}

func setup(ctx context.Context) error {
	loaded, err := config.LoadAndValidate(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg = loaded
	appLogger = logger.New(cfg.App.LogLevel)

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.ApplySecrets(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to apply secrets: %w", err)
		}
	}

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	stores = repository.Stores{
		Bets:  repository.NewPostgresBetStore(db),
		Gains: repository.NewPostgresGainStore(db),
	}
	return nil
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the period summary for a date window",
	RunE: func(cmd *cobra.Command, args []string) error {
		window, err := resolveWindow()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		bets, err := stores.Bets.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to load bets: %w", err)
		}
		gains, err := stores.Gains.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to load gains: %w", err)
		}

		summary := stats.Summarize(bets, gains, window)
		fmt.Printf("Window:       %s to %s\n", window.From.Format("2006-01-02"), window.To.Format("2006-01-02"))
		fmt.Printf("Operations:   %d\n", summary.Operations)
		fmt.Printf("Staked:       %.2f (at risk: %.2f)\n", summary.TotalStaked, summary.StakeAtRisk)
		fmt.Printf("Returned:     %.2f\n", summary.TotalReturn)
		fmt.Printf("Profit:       %.2f (extra gains: %.2f, net: %.2f)\n", summary.Profit, summary.ExtraGains, summary.NetProfit())
		fmt.Printf("ROI:          %.2f%%\n", summary.ROI)
		return nil
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show top bookmakers and best months",
	RunE: func(cmd *cobra.Command, args []string) error {
		bets, err := stores.Bets.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load bets: %w", err)
		}

		fmt.Println("Top bookmakers:")
		for i, attr := range stats.RankBookmakers(bets) {
			fmt.Printf("  %d. %-20s %+.2f\n", i+1, attr.BookmakerID, attr.Profit)
			for _, promo := range attr.Promotions {
				fmt.Printf("       %-18s %+.2f\n", promo.Label, promo.Profit)
			}
		}

		fmt.Println("Best months:")
		for i, month := range stats.RankMonths(bets) {
			fmt.Printf("  %d. %s  %+.2f\n", i+1, month.Month, month.Profit)
		}
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>...",
	Short: "Extract a prefillable bet draft from slip images",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		images := make([][]byte, 0, len(args))
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read image %s: %w", path, err)
			}
			images = append(images, data)
		}

		orchestrator := buildOrchestrator()
		hints, err := buildHints(cmd.Context())
		if err != nil {
			appLogger.WithError(err).Warn("Could not build fallback hints")
		}

		draft := orchestrator.AnalyzeBatch(cmd.Context(), images, hints)
		fmt.Printf("Confidence:   %.2f\n", draft.Confidence)
		fmt.Printf("Event:        %s\n", draft.Event)
		fmt.Printf("Date:         %s\n", draft.Date)
		fmt.Printf("Bookmaker:    %s\n", draft.MainBookmakerID)
		for i, leg := range draft.Legs {
			fmt.Printf("Leg %d:        %s %s stake=%s odds=%s status=%s\n",
				i+1, leg.BookmakerID, leg.Market, formatOptional(leg.Stake), formatOptional(leg.Odds), leg.Status)
		}
		for _, suggestion := range draft.Suggestions {
			fmt.Printf("Note:         %s\n", suggestion)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard refresh service",
	RunE: func(cmd *cobra.Command, args []string) error {
		sched := scheduler.New(stores, appLogger)
		if err := sched.Schedule(cfg.Dashboard.RefreshCron); err != nil {
			return err
		}
		if err := sched.Start(cmd.Context()); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		healthServer := health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Port:        cfg.Dashboard.HealthPort,
			Logger:      appLogger,
			DB:          db,
		})
		healthServer.Start()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		appLogger.Info("Shutting down")
		sched.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return healthServer.Shutdown(shutdownCtx)
	},
}

func buildOrchestrator() *analysis.Orchestrator {
	recognizer := analysis.NewHTTPRecognizer(
		cfg.Recognition.URL,
		time.Duration(cfg.Recognition.TimeoutSeconds)*time.Second,
		appLogger,
	)
	fallback := analysis.NewHTTPFallbackClient(analysis.FallbackConfig{
		BaseURL:   cfg.Fallback.URL,
		APIKey:    cfg.Fallback.APIKey,
		Timeout:   time.Duration(cfg.Fallback.TimeoutSeconds) * time.Second,
		RateLimit: cfg.Fallback.RateLimitPerSec,
	}, appLogger)

	return analysis.NewOrchestrator(
		recognizer,
		extract.New(),
		fallback,
		analysis.NewResultCache(time.Duration(cfg.Fallback.CacheTTLSeconds)*time.Second),
		analysis.Config{
			RetryBackoff: time.Duration(cfg.Fallback.RetryBackoffMS) * time.Millisecond,
			ImageDelay:   time.Duration(cfg.Fallback.ImageDelayMS) * time.Millisecond,
		},
		appLogger,
	)
}

// buildHints gives the fallback service the bookmakers and events the
// user already tracks, which sharpens its guesses considerably.
func buildHints(ctx context.Context) (analysis.Hints, error) {
	bets, err := stores.Bets.List(ctx)
	if err != nil {
		return analysis.Hints{}, err
	}

	hints := analysis.Hints{}
	seen := map[string]bool{}
	for _, bet := range bets {
		if !seen[bet.MainBookmakerID] {
			seen[bet.MainBookmakerID] = true
			hints.Bookmakers = append(hints.Bookmakers, bet.MainBookmakerID)
		}
		if len(hints.RecentEvents) < 10 && bet.Event != "" {
			hints.RecentEvents = append(hints.RecentEvents, bet.Event)
		}
	}
	return hints, nil
}

func resolveWindow() (stats.Window, error) {
	now := time.Now()
	window := stats.MonthWindow(now.Year(), now.Month())

	if fromDate != "" {
		from, err := models.ParseDate(fromDate)
		if err != nil {
			return stats.Window{}, fmt.Errorf("invalid --from date: %w", err)
		}
		window.From = from
	}
	if toDate != "" {
		to, err := models.ParseDate(toDate)
		if err != nil {
			return stats.Window{}, fmt.Errorf("invalid --to date: %w", err)
		}
		window.To = to
	}
	return window, nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%.2f", *v)
}
