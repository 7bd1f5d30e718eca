package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	billingdomain "github.com/dinebilllabs/dinebill/internal/billing/domain"
	productdomain "github.com/dinebilllabs/dinebill/internal/product/domain"
	taxgroupdomain "github.com/dinebilllabs/dinebill/internal/taxgroup/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

// RunPostgresMigrations applies the embedded SQL migrations. The schema,
// including the append-only triggers on bills and bill_items, is created on
// startup so a fresh database is usable without manual steps.
func RunPostgresMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate covers the sqlite and mysql dialects used for local
// development. The versioned SQL path is postgres-only.
func AutoMigrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&taxgroupdomain.TaxGroup{},
		&productdomain.Product{},
		&billingdomain.Bill{},
		&billingdomain.BillItem{},
		&billingdomain.BillCounter{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if conn.Dialector.Name() == "sqlite" {
		return createSQLiteGuards(conn)
	}
	return nil
}

// createSQLiteGuards mirrors the postgres append-only triggers so local
// databases enforce bill immutability the same way production does.
func createSQLiteGuards(conn *gorm.DB) error {
	for _, stmt := range []string{
		`CREATE TRIGGER IF NOT EXISTS bills_no_update BEFORE UPDATE ON bills
		 BEGIN SELECT RAISE(ABORT, 'bills are append-only'); END`,
		`CREATE TRIGGER IF NOT EXISTS bills_no_delete BEFORE DELETE ON bills
		 BEGIN SELECT RAISE(ABORT, 'bills are append-only'); END`,
		`CREATE TRIGGER IF NOT EXISTS bill_items_no_update BEFORE UPDATE ON bill_items
		 BEGIN SELECT RAISE(ABORT, 'bill items are append-only'); END`,
		`CREATE TRIGGER IF NOT EXISTS bill_items_no_delete BEFORE DELETE ON bill_items
		 BEGIN SELECT RAISE(ABORT, 'bill items are append-only'); END`,
	} {
		if err := conn.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create sqlite guard: %w", err)
		}
	}
	return nil
}
