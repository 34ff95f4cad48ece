package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/bloomcheck/internal/checker"
	"github.com/vietddude/bloomcheck/internal/core/verify"
)

var (
	checkAddress string
	checkTopic   string
	checkVerify  bool
)

var checkCmd = &cobra.Command{
	Use:   "check [block]",
	Short: "Test address/topic presence in a block's log bloom",
	Args:  cobra.ExactArgs(1),
	Run:   runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkAddress, "address", "", "contract/event address to test (0x...)")
	checkCmd.Flags().StringVar(&checkTopic, "topic0", "", "event topic0 to test (0x...)")
	checkCmd.Flags().BoolVar(&checkVerify, "verify", false, "also fetch logs for strict verification")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	block, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Invalid block number: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	app, err := setup(ctx)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	result, err := app.svc.Check(ctx, checker.Request{
		Block:   block,
		Address: checkAddress,
		Topic:   checkTopic,
		Verify:  checkVerify,
	})
	if err != nil {
		slog.Error("Check failed", "block", block, "error", err)
		os.Exit(1)
	}

	printResult(result)

	if result.Verified && result.Outcome.IsViolation() {
		os.Exit(2)
	}
}

func printResult(result *checker.Result) {
	fmt.Printf("\nBlock: %d", result.Block)
	if result.BlockHash != "" {
		fmt.Printf(" (%s)", result.BlockHash)
	}
	fmt.Println()

	if result.AddrPresent != nil {
		fmt.Printf("Address %s -> bloom says: %s\n", result.Address, presence(*result.AddrPresent))
	}
	if result.TopicPresent != nil {
		fmt.Printf("Topic0  %s -> bloom says: %s\n", result.Topic, presence(*result.TopicPresent))
	}

	if result.Verified {
		fmt.Printf("Exact on-chain logs at block %d: %d\n", result.Block, result.LogCount)
		switch result.Outcome {
		case verify.OutcomeSoundnessViolation:
			fmt.Println("SOUNDNESS VIOLATION: bloom reported absent but logs matched; re-check inputs/provider.")
		case verify.OutcomeFalsePositive:
			fmt.Println("Benign false positive: bloom can over-report (expected by design).")
		default:
			fmt.Println("Consistent: bloom agrees with the exact count.")
		}
	}

	fmt.Printf("\nElapsed: %s\n", result.Elapsed.Round(time.Millisecond))
}

func presence(present bool) string {
	if present {
		return "maybe present"
	}
	return "not present"
}
