package store

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert hits a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
	// ErrForeignKey is returned when a write references a row that does not exist.
	ErrForeignKey = errors.New("foreign key violation")
)

const (
	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow = 1452
	pgUniqueViolation    = "23505"
	pgForeignKeyViolated = "23503"
)

// classify maps driver and gorm errors onto the package sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if IsDuplicate(err) {
		return ErrDuplicate
	}
	if IsForeignKeyViolation(err) {
		return ErrForeignKey
	}
	return err
}

// IsDuplicate reports whether err is a unique-constraint violation on either supported driver.
func IsDuplicate(err error) bool {
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// IsForeignKeyViolation reports whether err is a missing-parent foreign key failure.
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, ErrForeignKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoReferencedRow
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolated
	}
	return false
}
