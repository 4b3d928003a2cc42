package migrate

import (
	"database/sql"
	"embed"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// migrationsFS holds the embedded schema migrations in migrate/sql.
//
//go:embed sql/*.sql
var migrationsFS embed.FS

// Options defines how to run schema migrations.
type Options struct {
	Driver  string // postgres or sqlite
	DSN     string
	Command string // up, down, status, version, up-to, down-to
	Target  int64  // used with up-to/down-to
	Logger  *log.Logger
}

// Run executes schema migrations. Empty Driver or DSN is a no-op so the
// server can boot against an externally managed database.
func Run(opts Options) error {
	if strings.TrimSpace(opts.Driver) == "" || strings.TrimSpace(opts.DSN) == "" {
		return nil
	}

	if opts.Logger != nil {
		goose.SetLogger(opts.Logger)
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetTableName("schema_migrations")

	db, err := sql.Open(opts.Driver, opts.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	dir := "sql"
	switch strings.ToLower(strings.TrimSpace(opts.Command)) {
	case "", "up":
		return goose.Up(db, dir)
	case "down":
		return goose.Down(db, dir)
	case "status":
		return goose.Status(db, dir)
	case "version":
		return goose.Version(db, dir)
	case "up-to":
		return goose.UpTo(db, dir, opts.Target)
	case "down-to":
		return goose.DownTo(db, dir, opts.Target)
	default:
		return fmt.Errorf("unknown migration command: %s", opts.Command)
	}
}

// RunFromEnv runs migrations when FASTADMIN_MIGRATE_ON_START is truthy.
//
// Env vars:
// - FASTADMIN_MIGRATE_ON_START: if true/1, run migrations at startup
// - FASTADMIN_MIGRATE_DRIVER: postgres (default) or sqlite
// - FASTADMIN_MIGRATE_DSN: db connection string
// - FASTADMIN_MIGRATE_CMD: up, down, status, version, up-to, down-to (default: up)
// - FASTADMIN_MIGRATE_TARGET: integer version for up-to/down-to
func RunFromEnv() error {
	if !isTruthy(os.Getenv("FASTADMIN_MIGRATE_ON_START")) {
		return nil
	}

	driver := strings.TrimSpace(os.Getenv("FASTADMIN_MIGRATE_DRIVER"))
	if driver == "" {
		driver = "postgres"
	}

	cmd := strings.TrimSpace(os.Getenv("FASTADMIN_MIGRATE_CMD"))
	if cmd == "" {
		cmd = "up"
	}

	var target int64
	if v := strings.TrimSpace(os.Getenv("FASTADMIN_MIGRATE_TARGET")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			target = n
		}
	}

	return Run(Options{
		Driver:  driver,
		DSN:     strings.TrimSpace(os.Getenv("FASTADMIN_MIGRATE_DSN")),
		Command: cmd,
		Target:  target,
		Logger:  log.New(os.Stdout, "[migrate] ", log.LstdFlags),
	})
}

func isTruthy(v string) bool {
	s := strings.TrimSpace(strings.ToLower(v))
	return s == "1" || s == "true" || s == "yes" || s == "y"
}
