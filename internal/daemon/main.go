// Package daemon opens the database, prepares its schema and runs the web service.
package daemon

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/db/dsn"
	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/logger"
	gormlog "github.com/applytrack/applytrack/internal/logger/adapter/gorm"
	"github.com/applytrack/applytrack/internal/web"
)

// DefaultSlowQueryThreshold applies when log.SlowQueryThreshold is not configured.
const DefaultSlowQueryThreshold = 200 * time.Millisecond

// ErrUnknownEngine is returned for a gorm engine without a driver.
var ErrUnknownEngine = errors.New("unknown gorm engine")

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
}

// Start runs the web service and blocks until it is shut down by a signal.
func (d *Daemon) Start() error {
	var g errgroup.Group

	g.Go(func() error {
		return d.webService.Start(d.webService.Addr())
	})

	g.Go(func() error {
		d.webService.WaitShutdown()
		return nil
	})

	return g.Wait()
}

// Dialector returns the gorm driver for the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL, "":
		return mysql.Open(dsn.Create(cfg)), nil
	case config.EnginePostgres:
		return postgres.Open(dsn.Create(cfg)), nil
	case config.EngineSQLite:
		return sqlite.Open(dsn.Create(cfg)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.DB.GormEngine)
	}
}

// SlowQueryThreshold converts the configured milliseconds into the gorm slow query threshold.
func SlowQueryThreshold(cfg logger.Log) time.Duration {
	if cfg.SlowQueryThreshold <= 0 {
		return DefaultSlowQueryThreshold
	}

	return time.Duration(cfg.SlowQueryThreshold) * time.Millisecond
}

// OpenDB connects to the database, migrates the schema and seeds the reference data.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlog.New(SlowQueryThreshold(cfg.Log))})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = models.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err = seed(cfg, db); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	return db, nil
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := OpenDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("engine", cfg.DB.GormEngine).Msg("database setup failed")
		return nil
	}

	return &Daemon{
		webService: web.New(cfg, db),
	}
}
