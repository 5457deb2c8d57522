package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"card-mirror/feature/catalog"

	"github.com/spf13/cobra"
)

var (
	searchLanguage string
	searchLimit    int
)

// searchCmd finds cards by localized name.
var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search cards by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := bootstrap()
		if err != nil {
			return err
		}
		defer m.Close()

		lang := searchLanguage
		if lang == "" {
			lang = m.cfg.Server.Language
		}

		svc := catalog.NewService(m.repo, m.logger, nil)
		results, err := svc.Search(cmd.Context(), strings.Join(args, " "), lang, searchLimit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No match.")
			return nil
		}

		rows := make([][]string, 0, len(results))
		for _, r := range results {
			passcode := ""
			if r.Passcode != 0 {
				passcode = strconv.Itoa(r.Passcode)
			}
			rows = append(rows, []string{r.Name, strconv.Itoa(r.KonamiID), passcode})
		}
		fmt.Println(renderTable([]string{"Name", "Konami ID", "Passcode"}, rows, 1, 2))
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchLanguage, "lang", "", "Name language (defaults to server.language)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", catalog.DefaultSearchLimit, "Maximum number of results")
	RootCmd.AddCommand(searchCmd)
}
