package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/marcv42/blog-backend/config"
	"github.com/marcv42/blog-backend/errs"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	blogEntryRepo BlogEntryStore
	tagRepo       TagStore
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		blogEntryRepo: NewBlogEntryRepo(db),
		tagRepo:       NewTagRepo(db),
	}
}

// NewFromStores assembles a Database from arbitrary store implementations.
func NewFromStores(blogEntries BlogEntryStore, tags TagStore) Database {
	return Database{
		blogEntryRepo: blogEntries,
		tagRepo:       tags,
	}
}

// Accessor methods for each repository

func (d Database) BlogEntryRepo() BlogEntryStore {
	return d.blogEntryRepo
}

func (d Database) TagRepo() TagStore {
	return d.tagRepo
}

// DSN builds the primary connection string. DATABASE_URL wins over the DB_* parts.
func DSN(c map[string]string) (string, error) {
	if url := config.GetString(c, "DATABASE_URL", ""); url != "" {
		return url, nil
	}

	host := config.GetString(c, "DB_HOST", "")
	if host == "" {
		return "", errs.NewEnvironmentVariableError("DATABASE_URL or DB_HOST")
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host,
		config.GetString(c, "DB_USER", "postgres"),
		config.GetString(c, "DB_PASSWORD", ""),
		config.GetString(c, "DB_NAME", "blog"),
		config.GetString(c, "DB_PORT", "5432"),
		config.GetString(c, "DB_SSLMODE", "disable"),
	), nil
}

// Connect opens the postgres connection. When DB_REPLICA_URL is set, reads are routed
// to the replica through dbresolver and writes stay on the primary.
func Connect(c map[string]string) (*gorm.DB, error) {
	dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Duration(config.GetInt(c, "DB_SLOW_THRESHOLD_MS", 2000)) * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, errs.NewDatabaseError("open", "database connection", err)
	}

	if replica := config.GetString(c, "DB_REPLICA_URL", ""); replica != "" {
		dialector := postgres.New(postgres.Config{DSN: replica, PreferSimpleProtocol: true})
		if err := useReplica(db, dialector); err != nil {
			return nil, errs.NewConfigError("DB_REPLICA_URL", err)
		}
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, errs.NewDatabaseError("ping", "database connection", err)
	}

	return db, nil
}

// useReplica sends plain reads to replica. Writes, and reads carrying the
// dbresolver.Write clause, stay on the primary.
func useReplica(db *gorm.DB, replica gorm.Dialector) error {
	return db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{replica},
		Policy:   dbresolver.RandomPolicy{},
	}))
}
