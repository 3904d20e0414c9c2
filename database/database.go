package database

import (
	"fmt"
	"mensa-go-worker/structs"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
)

// DSN builds the driver connection string from the database section.
func DSN(c structs.EnviromentModel) string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Db)
	if c.Database.Params != "" {
		dsn += "?" + c.Database.Params
	}
	return dsn
}

// InitDatabasePool opens the shared pool. Every ingest pipeline borrows its
// connections from here, so max_open_conn is raised to at least the ingest
// concurrency.
func InitDatabasePool(c structs.EnviromentModel) (*gorm.DB, error) {
	db, err := gorm.Open(c.Database.Client, DSN(c))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Database.Client, err)
	}
	Configure(db, c)
	return db, nil
}

// Configure applies pool limits and logging to an open handle.
func Configure(db *gorm.DB, c structs.EnviromentModel) {
	maxOpen := int(c.Database.MaxOpenConn)
	if maxOpen < c.Ingest.Concurrency {
		maxOpen = c.Ingest.Concurrency
	}
	db.DB().SetMaxOpenConns(maxOpen)
	db.DB().SetMaxIdleConns(int(c.Database.MaxIdle))
	if lifetime, err := time.ParseDuration(c.Database.MaxLifeTime); err == nil {
		db.DB().SetConnMaxLifetime(lifetime)
	}
	db.LogMode(c.Database.LogEnable == 1)
}
