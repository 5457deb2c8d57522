package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"card-mirror/core/identity"
	"card-mirror/feature/catalog"

	"github.com/spf13/cobra"
)

var lookupKonami bool

// lookupCmd resolves one card by passcode, internal identifier or print code.
var lookupCmd = &cobra.Command{
	Use:   "lookup <passcode|print-code>",
	Short: "Resolve a card across identifier spaces",
	Long: `Looks up a card by passcode (numeric), by print code (e.g. LOB-EN001), or by
internal identifier with --konami.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := bootstrap()
		if err != nil {
			return err
		}
		defer m.Close()

		svc := catalog.NewService(m.repo, m.logger, nil)
		ctx := cmd.Context()
		query := strings.TrimSpace(args[0])

		var rec identity.CardRecord
		n, numErr := strconv.Atoi(query)
		switch {
		case numErr == nil && lookupKonami:
			rec, err = svc.LookupKonamiID(ctx, n)
		case numErr == nil:
			rec, err = svc.LookupPasscode(ctx, n)
		default:
			rec, err = svc.LookupPrintCode(ctx, query)
		}
		if err != nil {
			return err
		}
		fmt.Println(recordTable(rec))
		return nil
	},
}

func recordTable(rec identity.CardRecord) string {
	rows := [][]string{
		{"Konami ID", strconv.Itoa(rec.KonamiID)},
	}
	if rec.Passcode != 0 {
		rows = append(rows, []string{"Passcode", strconv.Itoa(rec.Passcode)})
	}
	if len(rec.AlternateIDs) > 0 {
		rows = append(rows, []string{"Alternate IDs", joinInts(rec.AlternateIDs)})
	}
	if len(rec.PrintVariants) > 1 {
		rows = append(rows, []string{"Artworks", joinInts(rec.PrintVariants)})
	}
	if rec.Archetype != "" {
		rows = append(rows, []string{"Archetype", rec.Archetype})
	}
	if rec.Card != nil && rec.Card.Type != "" {
		rows = append(rows, []string{"Type", rec.Card.Type})
	}

	langs := make([]string, 0, len(rec.Names))
	for lang := range rec.Names {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		rows = append(rows, []string{"Name (" + lang + ")", rec.Names[lang]})
	}
	return renderTable([]string{"Field", "Value"}, rows)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupKonami, "konami", false, "Treat the argument as an internal identifier")
	RootCmd.AddCommand(lookupCmd)
}
