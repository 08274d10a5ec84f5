package util

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
	"github.com/pgschema/schemadump/internal/logger"
)

// Supported drivers
const (
	DriverPgx = "pgx"
	DriverPq  = "pq"
)

// ConnectionConfig holds database connection parameters
type ConnectionConfig struct {
	URL             string
	User            string
	Password        string
	Driver          string
	ApplicationName string
	MaxConns        int
}

// Connect opens a catalog connection using the provided configuration and verifies it.
// The caller owns the returned handle and must Close it.
func Connect(ctx context.Context, config *ConnectionConfig) (*sql.DB, error) {
	log := logger.Get()

	log.Debug("Attempting database connection",
		"url", redactURL(config.URL),
		"user", config.User,
		"driver", config.Driver,
		"application_name", config.ApplicationName,
	)

	conn, err := open(config)
	if err != nil {
		log.Debug("Database connection failed", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if config.MaxConns > 0 {
		conn.SetMaxOpenConns(config.MaxConns)
	}

	// Test the connection
	if err := conn.PingContext(ctx); err != nil {
		log.Debug("Database ping failed", "error", err)
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Debug("Database connection established successfully")
	return conn, nil
}

func open(config *ConnectionConfig) (*sql.DB, error) {
	rawURL := NormalizeURL(config.URL)

	switch config.Driver {
	case "", DriverPgx:
		connConfig, err := pgx.ParseConfig(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid connection url: %w", err)
		}
		connConfig.User = config.User
		connConfig.Password = config.Password
		if config.ApplicationName != "" {
			connConfig.RuntimeParams["application_name"] = config.ApplicationName
		}
		return stdlib.OpenDB(*connConfig), nil
	case DriverPq:
		dsn, err := buildPqDSN(rawURL, config)
		if err != nil {
			return nil, err
		}
		connector, err := pq.NewConnector(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid connection url: %w", err)
		}
		return sql.OpenDB(connector), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q (use %s or %s)", config.Driver, DriverPgx, DriverPq)
	}
}

// NormalizeURL accepts postgres://, postgresql:// and JDBC-style jdbc:postgresql:// URLs
func NormalizeURL(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "jdbc:")
}

// buildPqDSN puts the credentials and application name into the URL for lib/pq
func buildPqDSN(rawURL string, config *ConnectionConfig) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		return "", fmt.Errorf("invalid connection url %q: expected postgres:// or postgresql://", redactURL(rawURL))
	}

	u.User = url.UserPassword(config.User, config.Password)
	if config.ApplicationName != "" {
		q := u.Query()
		q.Set("application_name", config.ApplicationName)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// redactURL drops any password embedded in a URL before it is logged
func redactURL(raw string) string {
	u, err := url.Parse(NormalizeURL(raw))
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
