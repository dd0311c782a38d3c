package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// kvEntry is the single table backing the Postgres store.
type kvEntry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (kvEntry) TableName() string { return "kv_entries" }

// Postgres persists keys in a key/value table through GORM.
type Postgres struct {
	db *gorm.DB
}

var _ Store = (*Postgres)(nil)

// OpenPostgres connects to the database, creating it if missing, and
// migrates the kv table.
func OpenPostgres(dsn string) (*Postgres, error) {
	if err := ensureDatabase(dsn); err != nil {
		return nil, fmt.Errorf("storage: ensure database: %w", err)
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: connect to postgres: %w", err)
	}

	if err := conn.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("storage: migrate kv table: %w", err)
	}

	return &Postgres{db: conn}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	err := p.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: get %q: %w", key, err)
	}
	return entry.Value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value}
	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("storage: set %q: %w", key, err)
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	if err := p.db.WithContext(ctx).Delete(&kvEntry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("storage: remove %q: %w", key, err)
	}
	return nil
}

// Ping reports whether the database connection is healthy.
func (p *Postgres) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func ensureDatabase(dsn string) error {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return err
	}

	dbName := strings.TrimPrefix(parsed.Path, "/")
	if dbName == "" {
		return nil
	}

	parsed.Path = "/postgres"
	masterDSN := parsed.String()

	sqlDB, err := sql.Open("postgres", masterDSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	var exists bool
	if err := sqlDB.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists); err != nil {
		return err
	}

	if exists {
		return nil
	}

	_, err = sqlDB.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName))
	return err
}
