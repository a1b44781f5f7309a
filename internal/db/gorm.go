//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pgEdge/pgedge-shopinsights/internal/logging"
)

// OpenGorm opens a gorm session for the SQLite and MySQL backends.
func OpenGorm(t Target) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch t.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(t.DSN)
	case DriverMySQL:
		dialector = mysql.Open(t.DSN)
	default:
		return nil, fmt.Errorf("driver %s is not served by gorm", t.Driver)
	}

	logging.Debug().
		Str("driver", string(t.Driver)).
		Str("store", t.Display).
		Msg("Connecting to database")

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", t.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if t.Driver == DriverSQLite {
		// One writer; also keeps PRAGMA settings on a single connection.
		sqlDB.SetMaxOpenConns(1)
		if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else {
		sqlDB.SetMaxOpenConns(4)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.Info().
		Str("driver", string(t.Driver)).
		Str("store", t.Display).
		Msg("Connected to database")

	return gdb, nil
}
