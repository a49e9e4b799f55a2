// Package database owns the connection pool and normalizes driver errors
// into the apperr taxonomy.
package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"quizlearn/backend/apperr"
	"quizlearn/backend/config"
	"quizlearn/backend/utils"
)

// Client is created once at process start and closed once at shutdown.
type Client struct {
	db      *gorm.DB
	timeout time.Duration
	log     *utils.Logger
}

// InitDB opens the configured driver and returns a ready client.
func InitDB(cfg *config.Config, logger *utils.Logger) (*Client, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DBPath)
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	logger.Info("Connecting to database", "driver", cfg.DBDriver)
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	if cfg.DBDriver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	client := New(db, cfg.DBTimeout, logger)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBTimeout)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func New(db *gorm.DB, timeout time.Duration, logger *utils.Logger) *Client {
	return &Client{db: db, timeout: timeout, log: logger.With("component", "database")}
}

func (c *Client) DB() *gorm.DB { return c.db }

// Execute runs fn against tx when it is non-nil, or against the pool with
// the client's timeout applied.
func (c *Client) Execute(ctx context.Context, tx *gorm.DB, fn func(db *gorm.DB) error) error {
	if tx != nil {
		return Normalize(fn(tx))
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.normalize(ctx, fn(c.db.WithContext(ctx)))
}

// Batch runs fn in a single transaction. Any error rolls everything back.
func (c *Client) Batch(ctx context.Context, fn func(tx *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.normalize(ctx, c.db.WithContext(ctx).Transaction(fn))
}

func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return apperr.Internal(err)
	}
	return c.normalize(ctx, sqlDB.PingContext(ctx))
}

func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *Client) normalize(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		c.log.Warn("Database call timed out", "error", err)
		return apperr.Unavailable(err)
	}
	n := Normalize(err)
	if apperr.Is(n, apperr.KindUnavailable) {
		c.log.Warn("Database unavailable", "error", err)
	}
	return n
}

// Normalize maps driver and ORM errors onto apperr kinds. Errors that are
// already classified pass through untouched.
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.KindNotFound, err, "Not found", "record not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.KindConflict, err, "Conflict", "record already exists")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperr.Unavailable(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return apperr.Wrap(apperr.KindConflict, err, "Conflict", "record already exists")
		case pgErr.Code == "57014", len(pgErr.Code) == 5 && pgErr.Code[:2] == "08":
			return apperr.Unavailable(err)
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return apperr.Unavailable(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperr.Unavailable(err)
	}

	return apperr.Internal(err)
}
