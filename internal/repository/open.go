package repository

import (
	"fmt"

	"expense_tracker/internal/config"
	"expense_tracker/internal/repository/db"
)

// Open connects to the configured store, brings its schema up to date and
// returns the repositories together with a func releasing the connection.
func Open(cfg config.DBConfig) (*Repository, func() error, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		gdb, err := db.OpenPostgres(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("postgres handle: %w", err)
		}
		if err := MigrateGorm(gdb); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		return NewGormRepository(gdb), sqlDB.Close, nil

	case config.DriverSQLite, "":
		sqlDB, err := db.InitDB(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return NewRepository(sqlDB), sqlDB.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}
}
