package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/bloomcheck/internal/core/config"
	"github.com/vietddude/bloomcheck/internal/core/domain"
	"github.com/vietddude/bloomcheck/internal/infra/storage/postgres"
)

var (
	historyLimit      int
	historyViolations bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent verification audit records",
	Run:   runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum records to show")
	historyCmd.Flags().BoolVar(&historyViolations, "violations", false, "show only soundness violations")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	if cfg.Database.URL == "" {
		fmt.Println("No database configured; history requires the audit store.")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	repo := postgres.NewCheckRepo(db)
	var records []domain.CheckRecord
	if historyViolations {
		records, err = repo.ListViolations(ctx, historyLimit)
	} else {
		records, err = repo.ListRecent(ctx, historyLimit)
	}
	if err != nil {
		slog.Error("Failed to query audit records", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "WHEN\tCHAIN\tBLOCK\tADDRESS\tTOPIC\tLOGS\tOUTCOME")

	for _, rec := range records {
		when := time.Unix(rec.CreatedAt, 0).UTC().Format(time.RFC3339)
		logs := "-"
		if rec.LogCount.Valid {
			logs = fmt.Sprintf("%d", rec.LogCount.Int64)
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			when, rec.ChainID, rec.BlockNumber,
			shorten(rec.Address.String), shorten(rec.Topic.String),
			logs, rec.Outcome)
	}
	_ = w.Flush()
}

// shorten truncates long hex strings for tabular output.
func shorten(s string) string {
	if s == "" {
		return "-"
	}
	if len(s) > 14 {
		return s[:10] + "..."
	}
	return s
}
