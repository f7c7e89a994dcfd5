// internal/resolver/entity_test.go
//
// Unit-tests for content-slug resolution using sqlmock.

package resolver

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/videkhq/videk/internal/errs"
	"github.com/videkhq/videk/internal/store"
)

var slugCols = []string{"id", "tenant_id", "language", "slug", "domain", "entity_type", "entity_id", "is_active", "is_primary", "created_at"}

func TestResolveEntity_BySlug(t *testing.T) {
	st, mock := newFixture(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM\s+content_slug`).
		WithArgs(uint64(7), "hu", "etyeki-pince").
		WillReturnRows(sqlmock.NewRows(slugCols).
			AddRow(1, 7, "hu", "etyeki-pince", nil, "place", 42, true, true, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT is_active FROM place WHERE id = ? LIMIT 1`)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"is_active"}).AddRow(true))

	r := NewEntityResolver(st)
	et, id, err := r.ResolveEntity(context.Background(), 7, "hu", "etyeki-pince", "")
	if err != nil {
		t.Fatalf("ResolveEntity error: %v", err)
	}
	if et != store.EntityPlace || id != 42 {
		t.Fatalf("got (%s, %d), want (place, 42)", et, id)
	}
}

// A resolved slug pointing at an inactive entity is NotFound: resolution
// and activity gating are separate checks, and both must pass.
func TestResolveEntity_InactiveEntityIsNotFound(t *testing.T) {
	st, mock := newFixture(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM\s+content_slug`).
		WithArgs(uint64(7), "hu", "zart-pince").
		WillReturnRows(sqlmock.NewRows(slugCols).
			AddRow(2, 7, "hu", "zart-pince", nil, "place", 43, true, true, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT is_active FROM place WHERE id = ? LIMIT 1`)).
		WithArgs(uint64(43)).
		WillReturnRows(sqlmock.NewRows([]string{"is_active"}).AddRow(false))

	r := NewEntityResolver(st)
	_, _, err := r.ResolveEntity(context.Background(), 7, "hu", "zart-pince", "")
	if !errs.IsNotFound(err) {
		t.Fatalf("want NotFound for inactive entity, got %v", err)
	}
}

// Domain is the stronger, globally-unique signal and wins over the
// tenant-scoped slug when both are supplied.
func TestResolveEntity_DomainTakesPrecedence(t *testing.T) {
	st, mock := newFixture(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM\s+content_slug`).
		WithArgs("borut.example.com").
		WillReturnRows(sqlmock.NewRows(slugCols).
			AddRow(3, 9, "en", "wine-route", "borut.example.com", "town", 5, true, true, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT is_active FROM town WHERE id = ? LIMIT 1`)).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"is_active"}).AddRow(true))

	r := NewEntityResolver(st)
	et, id, err := r.ResolveEntity(context.Background(), 7, "hu", "etyeki-pince", "borut.example.com")
	if err != nil {
		t.Fatalf("ResolveEntity error: %v", err)
	}
	if et != store.EntityTown || id != 5 {
		t.Fatalf("got (%s, %d), want domain match (town, 5)", et, id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestResolveEntity_DomainMissFallsBackToSlug(t *testing.T) {
	st, mock := newFixture(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM\s+content_slug`).
		WithArgs("gone.example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT .+ FROM\s+content_slug`).
		WithArgs(uint64(7), "hu", "etyeki-pince").
		WillReturnRows(sqlmock.NewRows(slugCols).
			AddRow(1, 7, "hu", "etyeki-pince", nil, "place", 42, true, true, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT is_active FROM place WHERE id = ? LIMIT 1`)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"is_active"}).AddRow(true))

	r := NewEntityResolver(st)
	et, id, err := r.ResolveEntity(context.Background(), 7, "hu", "etyeki-pince", "gone.example.com")
	if err != nil {
		t.Fatalf("ResolveEntity error: %v", err)
	}
	if et != store.EntityPlace || id != 42 {
		t.Fatalf("got (%s, %d), want slug fallback (place, 42)", et, id)
	}
}

func TestResolveEntity_NoMatchEitherMode(t *testing.T) {
	st, mock := newFixture(t)

	mock.ExpectQuery(`SELECT .+ FROM\s+content_slug`).
		WithArgs(uint64(7), "hu", "nincs-ilyen").
		WillReturnError(sql.ErrNoRows)

	r := NewEntityResolver(st)
	_, _, err := r.ResolveEntity(context.Background(), 7, "hu", "nincs-ilyen", "")
	if !errs.IsNotFound(err) {
		t.Fatalf("want NotFound, got %v", err)
	}
}
