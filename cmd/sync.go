package cmd

import (
	"fmt"
	"strconv"
	"strings"

	mirrorFeature "card-mirror/feature/mirror"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sweepAfterSync bool

// syncCmd replays pending upstream revisions into the local cache.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replay pending upstream revisions",
	Long: `Compares the local revision with the upstream one and invalidates every element
touched by the manifests in between. With --sweep, stale and missing artifacts are
fetched afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := bootstrap()
		if err != nil {
			return err
		}
		defer m.Close()

		svc := mirrorFeature.NewService(m.store, m.tracker, m.repo, nil, m.cfg.Storage, m.cfg.Mirror, m.logger)
		report, err := svc.Sync(cmd.Context())
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		m.logger.Info("Sync completed",
			zap.Int("from", report.From),
			zap.Int("to", report.To),
			zap.Int("invalidated", m.invalid.Len()))

		if !sweepAfterSync {
			return nil
		}
		sweep, err := svc.Sweep(cmd.Context())
		if err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}
		fmt.Println(sweepTable(sweep))
		return nil
	},
}

// statusCmd reports the state of the local mirror.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show local and remote revisions and missing elements",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := bootstrap()
		if err != nil {
			return err
		}
		defer m.Close()

		svc := mirrorFeature.NewService(m.store, m.tracker, m.repo, nil, m.cfg.Storage, m.cfg.Mirror, m.logger)
		status, err := svc.Status(cmd.Context())
		if err != nil {
			return err
		}

		remote := strconv.Itoa(status.RemoteRevision)
		if status.RemoteError != "" {
			remote = "unavailable: " + status.RemoteError
		}
		fmt.Println(renderTable([]string{"Mirror", "Value"}, [][]string{
			{"Local revision", strconv.Itoa(status.LocalRevision)},
			{"Remote revision", remote},
			{"Invalidated", strconv.Itoa(status.Invalidated)},
			{"Missing", strings.Join(status.Missing, ", ")},
		}))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(statusCmd)
	syncCmd.Flags().BoolVar(&sweepAfterSync, "sweep", false, "Fetch every stale or missing artifact after the sync")
	RootCmd.AddCommand(syncCmd)
}
