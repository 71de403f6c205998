package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/lumipallolabs/reporter/internal/cache"
	"github.com/lumipallolabs/reporter/internal/hasher"
	"github.com/lumipallolabs/reporter/internal/scanner"
	"github.com/lumipallolabs/reporter/internal/snapshot"
	"github.com/spf13/cobra"
)

var (
	scanList        bool
	scanConcurrency int
	scanExclude     []string
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Snapshot a single directory",
	Long: `Index a directory and print a summary of its snapshot without reading
or writing any saved state.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVarP(&scanList, "list", "l", false, "List every file with its digest")
	scanCmd.Flags().IntVarP(&scanConcurrency, "concurrency", "c", 0, "Maximum concurrent digests (0 for default)")
	scanCmd.Flags().StringSliceVar(&scanExclude, "exclude", nil, "Glob patterns to exclude")
}

func runScan(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	filter, err := scanner.NewFilter(nil, scanExclude)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	builder := snapshot.NewBuilder(
		scanner.NewWalker(0, filter),
		hasher.New(),
		snapshot.Options{Concurrency: scanConcurrency},
	)
	res, err := builder.Build(ctx, root, cache.New())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	snap := res.Snapshot
	if scanList {
		for _, item := range snap.Items() {
			fmt.Fprintf(out, "%s  %10s  %s\n", item.Digest, humanize.Bytes(uint64(item.Size)), item.Path)
		}
	}
	fmt.Fprintf(out, "%s: %s, %s\n", root, snap, humanize.Bytes(uint64(snap.TotalSize())))
	return nil
}
