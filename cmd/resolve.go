package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"card-mirror/core/identity"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// resolveCmd builds the identity index and prints a summary.
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Build the identity index and summarize it",
	Long: `Loads the catalog, name feeds, supplemental records and print tables, then prints
how many passcodes, identifiers and print codes were cross-referenced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := bootstrap()
		if err != nil {
			return err
		}
		defer m.Close()

		idx, err := m.repo.Index(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(indexTable(idx))

		if len(idx.Unresolved) > 0 {
			ids := make([]string, 0, len(idx.Unresolved))
			for _, id := range idx.Unresolved {
				ids = append(ids, strconv.Itoa(id))
			}
			fmt.Printf("Unresolved identifiers: %s\n", strings.Join(ids, ", "))
		}
		return nil
	},
}

func indexTable(idx *identity.Index) string {
	rows := [][]string{
		{"Passcodes", humanize.Comma(int64(len(idx.Passcodes)))},
		{"Identifiers", humanize.Comma(int64(len(idx.IDGroups)))},
		{"Print codes", humanize.Comma(int64(len(idx.PrintCodes)))},
		{"Print sets", humanize.Comma(int64(len(idx.PrintSets)))},
		{"Archetypes", humanize.Comma(int64(len(idx.Archetypes)))},
		{"Unresolved", humanize.Comma(int64(len(idx.Unresolved)))},
	}
	for _, lang := range idx.Languages() {
		rows = append(rows, []string{"Names (" + lang + ")", humanize.Comma(int64(len(idx.Names[lang])))})
	}
	return renderTable([]string{"Index", "Count"}, rows, 1)
}

func init() {
	RootCmd.AddCommand(resolveCmd)
}
