package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	scanFrom    uint64
	scanTo      uint64
	scanAddress string
	scanTopic   string
	scanVerify  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Prune a block range by bloom membership",
	Long: `Scan checks every block in [--from, --to] and reports which blocks may
contain logs for the given address/topic. Blocks reported "no" are safe
to skip in a full log query; "maybe" blocks still need one.`,
	Run: runScan,
}

func init() {
	scanCmd.Flags().Uint64Var(&scanFrom, "from", 0, "first block of the range")
	scanCmd.Flags().Uint64Var(&scanTo, "to", 0, "last block of the range (inclusive)")
	scanCmd.Flags().StringVar(&scanAddress, "address", "", "contract/event address to test (0x...)")
	scanCmd.Flags().StringVar(&scanTopic, "topic0", "", "event topic0 to test (0x...)")
	scanCmd.Flags().BoolVar(&scanVerify, "verify", false, "verify every block against exact log counts")
	_ = scanCmd.MarkFlagRequired("from")
	_ = scanCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	app, err := setup(ctx)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	results, err := app.svc.CheckRange(ctx, scanFrom, scanTo, scanAddress, scanTopic, scanVerify)
	if err != nil {
		slog.Error("Scan failed", "from", scanFrom, "to", scanTo, "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	if scanVerify {
		_, _ = fmt.Fprintln(w, "BLOCK\tBLOOM\tLOGS\tOUTCOME")
	} else {
		_, _ = fmt.Fprintln(w, "BLOCK\tBLOOM")
	}

	candidates := 0
	violations := 0
	for _, res := range results {
		membership := "no"
		if res.MayContain() {
			membership = "maybe"
			candidates++
		}
		if scanVerify {
			if res.Outcome.IsViolation() {
				violations++
			}
			_, _ = fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", res.Block, membership, res.LogCount, res.Outcome)
		} else {
			_, _ = fmt.Fprintf(w, "%d\t%s\n", res.Block, membership)
		}
	}
	_ = w.Flush()

	fmt.Printf("\n%d of %d blocks may contain matching logs\n", candidates, len(results))
	if violations > 0 {
		fmt.Printf("%d SOUNDNESS VIOLATIONS observed\n", violations)
		os.Exit(2)
	}
}
