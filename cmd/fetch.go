package cmd

import (
	"fmt"
	"os"

	"card-mirror/core/filestore"
	mirrorFeature "card-mirror/feature/mirror"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// fetchAllCmd materializes every known artifact.
var fetchAllCmd = &cobra.Command{
	Use:   "fetch-all",
	Short: "Fetch every missing or stale artifact",
	Long: `Resolves card identities first, then walks every literal element of the registry
plus one image per passcode and one table per print set, fetching whatever is
missing or invalidated. Failures are counted, not fatal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := bootstrap()
		if err != nil {
			return err
		}
		defer m.Close()

		svc := mirrorFeature.NewService(m.store, m.tracker, m.repo, nil, m.cfg.Storage, m.cfg.Mirror, m.logger)
		report, err := svc.Sweep(cmd.Context())
		if err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}
		fmt.Println(sweepTable(report))
		return nil
	},
}

// getCmd materializes one element and prints its local path.
var getCmd = &cobra.Command{
	Use:   "get <element>",
	Short: "Fetch one element and print its local path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := bootstrap()
		if err != nil {
			return err
		}
		defer m.Close()

		dest, _ := cmd.Flags().GetString("copy")
		if dest != "" {
			if err := m.store.CopyArtifact(cmd.Context(), args[0], dest); err != nil {
				return err
			}
			fmt.Println(dest)
			return nil
		}

		path, err := m.store.Path(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if info, err := os.Stat(path); err == nil {
			fmt.Printf("%s (%s)\n", path, humanize.Bytes(uint64(info.Size())))
			return nil
		}
		fmt.Println(path)
		return nil
	},
}

func sweepTable(r filestore.SweepReport) string {
	return renderTable([]string{"Sweep", "Count"}, [][]string{
		{"Total", humanize.Comma(int64(r.Total))},
		{"Fetched", humanize.Comma(int64(r.Fetched))},
		{"Cached", humanize.Comma(int64(r.Cached))},
		{"Failed", humanize.Comma(int64(r.Failed))},
		{"Duration", r.Duration.Round(1e6).String()},
	}, 1)
}

func init() {
	getCmd.Flags().String("copy", "", "Copy the artifact to this path instead of printing its location")
	RootCmd.AddCommand(fetchAllCmd)
	RootCmd.AddCommand(getCmd)
}
