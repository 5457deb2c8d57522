package cmd

import (
	"fmt"
	"strings"

	"card-mirror/core/database"
	"card-mirror/feature/catalog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportCheckOnly bool

// exportCmd writes the identity index to the configured database.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the identity index to the database",
	Long: `Writes cards, localized names and print codes into the cards, card_names and
card_prints tables. With --check, only reports columns missing from existing tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := bootstrap()
		if err != nil {
			return err
		}
		defer m.Close()

		db, err := database.Connect(m.cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}
		svc := catalog.NewService(m.repo, m.logger, db)

		if exportCheckOnly {
			report, err := svc.CheckSchema(cmd.Context())
			if err != nil {
				return err
			}
			if report.Matched {
				fmt.Println("Schema matches.")
				return nil
			}
			rows := make([][]string, 0, len(report.Missing))
			for table, cols := range report.Missing {
				rows = append(rows, []string{table, strings.Join(cols, ", ")})
			}
			fmt.Println(renderTable([]string{"Table", "Missing columns"}, rows))
			return nil
		}

		report, err := svc.Export(cmd.Context())
		if err != nil {
			return err
		}
		m.logger.Info("Export completed",
			zap.String("driver", m.cfg.Database.Driver),
			zap.String("cards", humanize.Comma(int64(report.Cards))),
			zap.String("names", humanize.Comma(int64(report.Names))),
			zap.String("prints", humanize.Comma(int64(report.Prints))),
			zap.Duration("duration", report.Duration))
		return nil
	},
}

func init() {
	exportCmd.Flags().BoolVar(&exportCheckOnly, "check", false, "Only compare the existing schema with the exported columns")
	RootCmd.AddCommand(exportCmd)
}
