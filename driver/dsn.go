package driver

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"             // registers the "sqlite" database/sql driver
)

// Dialect identifies the SQL flavour of a target database.
type Dialect int

const (
	// DialectSQLite is SQLite through modernc.org/sqlite
	DialectSQLite Dialect = iota
	// DialectPostgres is PostgreSQL through pgx
	DialectPostgres
	// DialectMySQL is MySQL or MariaDB through go-sql-driver/mysql
	DialectMySQL
)

// DSN prefixes
const (
	prefixPostgres   = "postgres://"
	prefixPostgreSQL = "postgresql://"
	prefixMySQL      = "mysql://"
	prefixSQLite     = "sqlite://"
)

// String returns the dialect name
func (d Dialect) String() string {
	switch d {
	case DialectPostgres:
		return "postgres"
	case DialectMySQL:
		return "mysql"
	default:
		return "sqlite"
	}
}

// DriverName returns the database/sql driver name registered for the dialect.
func (d Dialect) DriverName() string {
	switch d {
	case DialectPostgres:
		return "pgx"
	case DialectMySQL:
		return "mysql"
	default:
		return "sqlite"
	}
}

// Placeholder returns the bind marker for the n-th (1-based) parameter.
func (d Dialect) Placeholder(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// MaxParams returns how many bind parameters one statement may carry.
func (d Dialect) MaxParams() int {
	switch d {
	case DialectPostgres, DialectMySQL:
		return 65535
	default:
		return 32766 // SQLITE_MAX_VARIABLE_NUMBER since SQLite 3.32
	}
}

// DSN is a data source name resolved to its dialect and the string the
// underlying driver expects.
type DSN struct {
	Dialect Dialect
	Source  string
}

// ParseDSN resolves raw into a DSN. Anything without a recognised scheme is
// treated as a SQLite database path.
func ParseDSN(raw string) (DSN, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DSN{}, ErrEmptyDSN
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, prefixPostgres), strings.HasPrefix(lower, prefixPostgreSQL):
		if _, err := pgx.ParseConfig(raw); err != nil {
			return DSN{}, fmt.Errorf("%w: %w", ErrInvalidDSN, err)
		}
		return DSN{Dialect: DialectPostgres, Source: raw}, nil

	case strings.HasPrefix(lower, prefixMySQL):
		source := raw[len(prefixMySQL):]
		cfg, err := mysql.ParseDSN(source)
		if err != nil {
			return DSN{}, fmt.Errorf("%w: %w", ErrInvalidDSN, err)
		}
		return DSN{Dialect: DialectMySQL, Source: cfg.FormatDSN()}, nil

	case strings.HasPrefix(lower, prefixSQLite):
		source := raw[len(prefixSQLite):]
		if source == "" {
			return DSN{}, fmt.Errorf("%w: missing sqlite path", ErrInvalidDSN)
		}
		return DSN{Dialect: DialectSQLite, Source: source}, nil

	default:
		return DSN{Dialect: DialectSQLite, Source: raw}, nil
	}
}

// Redacted returns the source with any password masked, for logging.
func (d DSN) Redacted() string {
	switch d.Dialect {
	case DialectPostgres:
		u, err := url.Parse(d.Source)
		if err != nil {
			return "[REDACTED]"
		}
		return u.Redacted()
	case DialectMySQL:
		cfg, err := mysql.ParseDSN(d.Source)
		if err != nil {
			return "[REDACTED]"
		}
		if cfg.Passwd != "" {
			cfg.Passwd = "xxxxx"
		}
		return cfg.FormatDSN()
	default:
		return d.Source
	}
}

// Open opens and pings the database behind dsn. The pool is limited to a
// single connection; callers own the returned *sql.DB and must close it.
func Open(ctx context.Context, dsn DSN) (*sql.DB, error) {
	db, err := sql.Open(dsn.Dialect.DriverName(), dsn.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dsn.Dialect, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", dsn.Dialect, err)
	}
	return db, nil
}
