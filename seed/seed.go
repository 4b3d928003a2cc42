package seed

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/fast-admin/fastadmin/auth"
	"github.com/fast-admin/fastadmin/models"
)

// seedFS holds the embedded reference data in seed/sql: the default menu
// tree, buttons and the three built-in roles with their grants.
//
//go:embed sql/*.sql
var seedFS embed.FS

// Options defines how to run the SQL seed.
type Options struct {
	Driver  string // postgres or sqlite
	DSN     string
	Command string // up, down, status, version
	Logger  *log.Logger
}

// Run applies the seed data. Seed versions are tracked in seed_migrations,
// separate from schema_migrations, so schema and data can move independently.
// Empty Driver or DSN is a no-op.
func Run(opts Options) error {
	if strings.TrimSpace(opts.Driver) == "" || strings.TrimSpace(opts.DSN) == "" {
		return nil
	}

	if opts.Logger != nil {
		goose.SetLogger(opts.Logger)
	}
	goose.SetBaseFS(seedFS)
	goose.SetTableName("seed_migrations")

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
	default:
		return fmt.Errorf("unknown seed command: %s", opts.Command)
	}
}

// RunFromEnv applies the seed when FASTADMIN_SEED_ON_START is truthy.
// Driver and DSN fall back to the FASTADMIN_MIGRATE_* values so a single
// pair of vars covers both steps.
func RunFromEnv() error {
	if !isTruthy(os.Getenv("FASTADMIN_SEED_ON_START")) {
		return nil
	}

	driver := strings.TrimSpace(os.Getenv("FASTADMIN_SEED_DRIVER"))
	if driver == "" {
		driver = strings.TrimSpace(os.Getenv("FASTADMIN_MIGRATE_DRIVER"))
	}
	if driver == "" {
		driver = "postgres"
	}
	dsn := strings.TrimSpace(os.Getenv("FASTADMIN_SEED_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("FASTADMIN_MIGRATE_DSN"))
	}

	cmd := strings.TrimSpace(os.Getenv("FASTADMIN_SEED_CMD"))
	if cmd == "" {
		cmd = "up"
	}

	return Run(Options{
		Driver:  driver,
		DSN:     dsn,
		Command: cmd,
		Logger:  log.New(os.Stdout, "[seed] ", log.LstdFlags),
	})
}

// defaultUser pairs a built-in account with the role it gets on first boot.
type defaultUser struct {
	userName  string
	userEmail string
	roleCode  string
}

var defaultUsers = []defaultUser{
	{userName: "Soybean", userEmail: "admin@admin.com", roleCode: models.RoleCodeSuper},
	{userName: "Super", userEmail: "admin1@admin.com", roleCode: models.RoleCodeSuper},
	{userName: "Admin", userEmail: "admin2@admin.com", roleCode: models.RoleCodeAdmin},
	{userName: "User", userEmail: "user@user.com", roleCode: models.RoleCodeUser},
}

// EnsureDefaultUsers creates the built-in accounts with the given password
// if the users table is empty. Passwords are hashed here rather than stored
// in the SQL seed so the hash cost tracks the application's bcrypt settings.
func EnsureDefaultUsers(ctx context.Context, db *gorm.DB, password string) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, du := range defaultUsers {
			var role models.Role
			if err := tx.Where("role_code = ?", du.roleCode).First(&role).Error; err != nil {
				return fmt.Errorf("seed role %s: %w", du.roleCode, err)
			}
			user := models.User{
				UserName:   du.userName,
				Password:   hash,
				UserEmail:  du.userEmail,
				UserGender: models.GenderUnknown,
				Status:     models.StatusEnable,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", du.userName, err)
			}
			link := models.UserRole{UserID: user.ID, RoleID: role.ID}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("seed user role %s: %w", du.userName, err)
			}
		}
		return nil
	})
}

func isTruthy(v string) bool {
	s := strings.TrimSpace(strings.ToLower(v))
	return s == "1" || s == "true" || s == "yes" || s == "y"
}
