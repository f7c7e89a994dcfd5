// internal/store/ensure_test.go
//
// Unit-tests for the idempotent ensure-upserts using sqlmock.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

var keyCols = []string{"id", "language", "slug", "site_id", "is_active", "is_primary", "created_at", "updated_at"}

func TestEnsureSiteKey_FreshInsert(t *testing.T) {
	s, mock := newStore(t)
	now := time.Now()

	mock.ExpectExec(`INSERT INTO site_key`).
		WithArgs("en", "etyek-buda", uint64(7), true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT .+ FROM\s+site_key`).
		WithArgs("en", "etyek-buda").
		WillReturnRows(sqlmock.NewRows(keyCols).AddRow(1, "en", "etyek-buda", 7, true, true, now, now))

	rec, err := s.EnsureSiteKey(context.Background(), "en", "etyek-buda", 7, true)
	if err != nil {
		t.Fatalf("EnsureSiteKey error: %v", err)
	}
	if rec.ID != 1 || rec.SiteID != 7 {
		t.Fatalf("unexpected row: %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

// A concurrent duplicate insert (MySQL 1062) is success: the helper must
// swallow the violation and re-read the winning row.
func TestEnsureSiteKey_DuplicateRaceIsSuccess(t *testing.T) {
	s, mock := newStore(t)
	now := time.Now()

	mock.ExpectExec(`INSERT INTO site_key`).
		WithArgs("en", "etyek-buda", uint64(7), false).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectQuery(`SELECT .+ FROM\s+site_key`).
		WithArgs("en", "etyek-buda").
		WillReturnRows(sqlmock.NewRows(keyCols).AddRow(9, "en", "etyek-buda", 7, true, false, now, now))

	rec, err := s.EnsureSiteKey(context.Background(), "en", "etyek-buda", 7, false)
	if err != nil {
		t.Fatalf("duplicate race surfaced as error: %v", err)
	}
	if rec.ID != 9 {
		t.Fatalf("re-read returned wrong row: %+v", rec)
	}
}

func TestEnsureSiteInstance_DuplicateRaceIsSuccess(t *testing.T) {
	s, mock := newStore(t)
	now := time.Now()

	mock.ExpectExec(`INSERT INTO site_instance`).
		WithArgs(uint64(7), "hu", true).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	cols := []string{"id", "site_id", "language", "is_default", "map_config", "features", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT .+ FROM\s+site_instance`).
		WithArgs(uint64(7), "hu").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(4, 7, "hu", true, nil, `{"events":true}`, now, now))

	inst, err := s.EnsureSiteInstance(context.Background(), 7, "hu", true)
	if err != nil {
		t.Fatalf("EnsureSiteInstance error: %v", err)
	}
	if inst.ID != 4 || inst.Features["events"] != true {
		t.Fatalf("unexpected instance: %+v", inst)
	}
}

// EnsureDefaultInstance must not flip an existing non-default row: the
// insert collides, and the re-read returns the row with its flags intact.
func TestEnsureDefaultInstance_ExistingRowKeepsFlags(t *testing.T) {
	s, mock := newStore(t)
	now := time.Now()

	mock.ExpectExec(`INSERT INTO site_instance`).
		WithArgs(uint64(7), "hu", true).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	cols := []string{"id", "site_id", "language", "is_default", "map_config", "features", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT .+ FROM\s+site_instance`).
		WithArgs(uint64(7), "hu").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(4, 7, "hu", false, nil, nil, now, now))

	inst, err := s.EnsureDefaultInstance(context.Background(), 7, "hu")
	if err != nil {
		t.Fatalf("EnsureDefaultInstance error: %v", err)
	}
	if inst.IsDefault {
		t.Fatalf("existing row was reported default: %+v", inst)
	}
}
