package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"card-mirror/core/database"
	"card-mirror/core/identity"
	"card-mirror/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoDatabase is returned by database operations when none is configured.
var ErrNoDatabase = errors.New("no export database configured")

const exportBatchSize = 500

// ExportReport summarizes an export run.
type ExportReport struct {
	Cards    int           `json:"cards"`
	Names    int           `json:"names"`
	Prints   int           `json:"prints"`
	Duration time.Duration `json:"duration"`
}

// SchemaReport lists missing columns per exported table.
type SchemaReport struct {
	Matched bool                `json:"matched"`
	Missing map[string][]string `json:"missing,omitempty"`
}

// Export writes the cross-reference into the database, creating the tables
// when needed. Existing rows are overwritten.
func (s *Service) Export(ctx context.Context) (*ExportReport, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	idx, err := s.resolver.Index(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&models.Card{}, &models.CardName{}, &models.CardPrint{}); err != nil {
		return nil, fmt.Errorf("failed to migrate export tables: %w", err)
	}

	cards := cardRows(idx)
	names := nameRows(idx)
	prints := printRows(idx)

	err = db.Transaction(func(tx *gorm.DB) error {
		upsert := clause.OnConflict{UpdateAll: true}
		if len(cards) > 0 {
			if err := tx.Clauses(upsert).CreateInBatches(&cards, exportBatchSize).Error; err != nil {
				return fmt.Errorf("failed to export cards: %w", err)
			}
		}
		if len(names) > 0 {
			if err := tx.Clauses(upsert).CreateInBatches(&names, exportBatchSize).Error; err != nil {
				return fmt.Errorf("failed to export names: %w", err)
			}
		}
		if len(prints) > 0 {
			if err := tx.Clauses(upsert).CreateInBatches(&prints, exportBatchSize).Error; err != nil {
				return fmt.Errorf("failed to export print codes: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report := &ExportReport{
		Cards:    len(cards),
		Names:    len(names),
		Prints:   len(prints),
		Duration: time.Since(start),
	}
	s.logger.Info("Catalog exported",
		zap.Int("cards", report.Cards),
		zap.Int("names", report.Names),
		zap.Int("prints", report.Prints),
		zap.Duration("duration", report.Duration))
	return report, nil
}

// CheckSchema compares the live tables against the exported models.
func (s *Service) CheckSchema(ctx context.Context) (*SchemaReport, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	db := s.db.WithContext(ctx)

	tables := make([]string, 0, len(models.Columns))
	for t := range models.Columns {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	report := &SchemaReport{Matched: true, Missing: make(map[string][]string)}
	for _, table := range tables {
		missing, err := database.MissingColumns(db, table, models.Columns[table])
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			report.Matched = false
			report.Missing[table] = missing
		}
	}
	return report, nil
}

func cardRows(idx *identity.Index) []models.Card {
	rows := make([]models.Card, 0, len(idx.Passcodes))
	for _, p := range idx.Passcodes {
		row := models.Card{Passcode: p, KonamiID: idx.PasscodeToID[p], VariantOf: p}
		if g := idx.PasscodeGroups[p]; g != nil && len(g.Members) > 0 {
			row.VariantOf = g.Members[0]
		}
		if c := idx.Cards[p]; c != nil {
			row.Name = c.Name
			row.Type = c.Type
			row.Archetype = c.Archetype
			row.Attribute = c.Attribute
			row.Atk = c.Atk
			row.Def = c.Def
			row.Level = c.Level
		}
		if row.Archetype == "" {
			row.Archetype = idx.IDToArchetype[row.KonamiID]
		}
		rows = append(rows, row)
	}
	return rows
}

func nameRows(idx *identity.Index) []models.CardName {
	var rows []models.CardName
	for _, lang := range idx.Languages() {
		table := idx.Names[lang]
		ids := make([]int, 0, len(table))
		for id := range table {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			rows = append(rows, models.CardName{KonamiID: id, Language: lang, Name: table[id]})
		}
	}
	return rows
}

func printRows(idx *identity.Index) []models.CardPrint {
	codes := make([]string, 0, len(idx.PrintCodes))
	for code := range idx.PrintCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rows := make([]models.CardPrint, 0, len(codes))
	for _, code := range codes {
		row := models.CardPrint{Code: code, KonamiID: idx.PrintCodes[code]}
		if pc, ok := identity.ParsePrintCode(code); ok {
			row.SetCode = pc.SetCode
		}
		rows = append(rows, row)
	}
	return rows
}
