// Package database opens the optional export database.
//
// Connect wraps GORM and selects the dialect from the configuration: MySQL for
// shared deployments, SQLite for a local file or an in-memory database in tests.
//
// The inspector helpers (TableColumns, MissingColumns) read a table's live
// schema so the catalog export can verify an existing database before writing.
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Database unavailable", zap.Error(err))
//	}
package database
