// Package database provides SQLite persistence for the rename tool.
//
// The database holds two things: the local mirror of configuration
// documents (automations, scenes, scripts, groups) that the scanner
// and rewriter operate on, and the history of rename runs. It is not a
// cache of registry state; the registry is re-read at the start of
// every run.
//
// # Usage
//
//	db, err := database.Open(database.Config{
//	    Path:        cfg.Database.Path,
//	    WALMode:     cfg.Database.WALMode,
//	    BusyTimeout: cfg.Database.BusyTimeout,
//	})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are embedded into the binary via the migrations package
// (see migrations/embed.go) and applied in filename order, each in its
// own transaction.
package database
