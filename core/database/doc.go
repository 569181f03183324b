// Package database handles database connections and schema migration.
//
// It wraps GORM to configure the MySQL production connection (pooling,
// timeouts, ping-on-connect) and the sqlite connections used by tests and the
// dump export. Migrate applies the schema for every domain model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//	if err := database.Migrate(db); err != nil {
//	    log.Fatal("Migration failed", err)
//	}
package database
