package infra

import (
	"fmt"

	"garagemitre/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (sequences, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus schema patches. Also used by
// integration tests against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Customer{},
		&model.Vehicle{},
		&model.Receipt{},
		&model.ReceiptPayment{},
		&model.MonthDebt{},
		&model.TicketRegistration{},
		&model.TicketRegistrationForDay{},
		&model.OtherPayment{},
		&model.BoxList{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS semantics so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Correlative receipt numbering is assigned from a dedicated sequence so
		// numbers survive rollbacks without reuse across concurrent creates.
		`CREATE SEQUENCE IF NOT EXISTS receipts_receipt_number_seq START 1`,
		// Partial index for the accrual pass, which only ever scans pending receipts.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_receipts_pending') THEN
		    CREATE INDEX idx_receipts_pending
		        ON receipts (customer_id, period)
		        WHERE status = 'PENDING';
		  END IF;
		END $$`,
		// Box lists are rebuilt per calendar day; the date lookup must be cheap.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_month_debts_customer') THEN
		    CREATE INDEX idx_month_debts_customer
		        ON month_debts (customer_id, month);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
