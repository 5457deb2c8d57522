package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"card-mirror/core/storage"
	mirrorFeature "card-mirror/feature/mirror"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	prunePublished bool
	checkPublished bool
	yesConfirm     bool
)

// publishCmd uploads the cache directory to the storage bucket.
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the local cache to the storage bucket",
	Long: `Uploads every cache file whose object is missing or differs in size.

Examples:
  # Upload changed files
  publish

  # Also delete objects with no local file (asks for confirmation)
  publish --prune

  # Only report registry elements missing from the bucket
  publish --check`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := bootstrap()
		if err != nil {
			return err
		}
		defer m.Close()

		client, err := storage.NewClient(m.cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		svc := mirrorFeature.NewService(m.store, m.tracker, m.repo, client, m.cfg.Storage, m.cfg.Mirror, m.logger)

		if checkPublished {
			report, err := svc.CheckBucket(cmd.Context())
			if err != nil {
				return err
			}
			if len(report.Missing) == 0 {
				fmt.Printf("Bucket %s has every registry element.\n", report.Bucket)
				return nil
			}
			rows := make([][]string, 0, len(report.Missing))
			for _, key := range report.Missing {
				rows = append(rows, []string{key})
			}
			fmt.Println(renderTable([]string{"Missing in " + report.Bucket}, rows))
			return nil
		}

		if prunePublished && !confirmDestructiveAction() {
			m.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		report, err := svc.Publish(cmd.Context(), prunePublished)
		if err != nil {
			return err
		}
		fmt.Println(renderTable([]string{"Publish", "Count"}, [][]string{
			{"Uploaded", humanize.Comma(int64(report.Uploaded))},
			{"Skipped", humanize.Comma(int64(report.Skipped))},
			{"Removed", humanize.Comma(int64(report.Removed))},
			{"Failed", humanize.Comma(int64(report.Failed))},
			{"Bytes", humanize.Bytes(uint64(report.Bytes))},
		}, 1))
		return nil
	},
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("Type 'yes' to delete objects with no local file: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

func init() {
	publishCmd.Flags().BoolVar(&prunePublished, "prune", false, "Delete objects that have no local file")
	publishCmd.Flags().BoolVar(&checkPublished, "check", false, "Only report registry elements missing from the bucket")
	publishCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	RootCmd.AddCommand(publishCmd)
}
