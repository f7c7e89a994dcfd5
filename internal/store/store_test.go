// internal/store/store_test.go
//
// Unit-tests for the keyed lookup helpers using sqlmock.
//
// Run: go test ./internal/store -v

package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/videkhq/videk/internal/errs"
)

func newStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "sqlmock")), mock
}

var siteCols = []string{"id", "canonical_id", "brand_id", "is_active", "created_at", "updated_at"}

func TestSiteByCanonicalID(t *testing.T) {
	s, mock := newStore(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM\s+site`).
		WithArgs("etyek-buda").
		WillReturnRows(sqlmock.NewRows(siteCols).AddRow(7, "etyek-buda", 3, true, now, now))

	got, err := s.SiteByCanonicalID(context.Background(), "etyek-buda")
	if err != nil {
		t.Fatalf("SiteByCanonicalID error: %v", err)
	}
	if got.ID != 7 || got.BrandID != 3 {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestSiteByCanonicalID_NoRowsIsNotFound(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(`SELECT .+ FROM\s+site`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := s.SiteByCanonicalID(context.Background(), "ghost")
	if !errs.IsNotFound(err) {
		t.Fatalf("want NotFound, got %v", err)
	}
}

func TestSiteByCanonicalID_OutageIsTransient(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(`SELECT .+ FROM\s+site`).
		WithArgs("etyek-buda").
		WillReturnError(errors.New("connection refused"))

	_, err := s.SiteByCanonicalID(context.Background(), "etyek-buda")
	if !errs.IsTransient(err) {
		t.Fatalf("want Transient, got %v", err)
	}
	if errs.IsNotFound(err) {
		t.Fatal("outage must never be masked as NotFound")
	}
}

func TestActiveSiteKeys_ReturnsAllMatches(t *testing.T) {
	s, mock := newStore(t)
	now := time.Now()

	cols := []string{"id", "language", "slug", "site_id", "is_active", "is_primary", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT .+ FROM\s+site_key`).
		WithArgs("en", "etyek-buda").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "en", "etyek-buda", 7, true, false, now.Add(-time.Hour), now).
			AddRow(2, "en", "etyek-buda", 9, true, true, now, now))

	rows, err := s.ActiveSiteKeys(context.Background(), "en", "etyek-buda")
	if err != nil {
		t.Fatalf("ActiveSiteKeys error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2 (duplicates must surface to the resolver)", len(rows))
	}
}

func TestEntityActive_MissingRowIsInactive(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT is_active FROM place WHERE id = ? LIMIT 1`)).
		WithArgs(uint64(42)).
		WillReturnError(sql.ErrNoRows)

	active, err := s.EntityActive(context.Background(), EntityPlace, 42)
	if err != nil {
		t.Fatalf("EntityActive error: %v", err)
	}
	if active {
		t.Fatal("missing entity reported active")
	}
}

func TestEntityActive_RejectsUnknownType(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.EntityActive(context.Background(), EntityType("widget"), 1)
	if !errs.IsInvalid(err) {
		t.Fatalf("want Invalid, got %v", err)
	}
}

func TestSiteBundle_MissingInstanceIsNotAnError(t *testing.T) {
	s, mock := newStore(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM\s+site\s`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(siteCols).AddRow(7, "etyek-buda", 3, true, now, now))

	brandCols := []string{"id", "name", "logo_url", "favicon_url", "theme", "placeholders", "map_defaults", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT .+ FROM\s+brand`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(brandCols).
			AddRow(3, "Etyek Wine Routes", "https://cdn/logo.svg", "", nil, `{"placeCard":"https://cdn/p.jpg"}`, `{"zoom":10}`, now, now))

	trCols := []string{"id", "site_id", "language", "name", "short_description", "description", "seo_title", "seo_description", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT .+ FROM\s+site_translation`).
		WithArgs(uint64(7), "hu", "en").
		WillReturnRows(sqlmock.NewRows(trCols).
			AddRow(11, 7, "en", "Etyek-Buda", "short", "long", "title", "desc", now, now))

	mock.ExpectQuery(`SELECT .+ FROM\s+site_instance`).
		WithArgs(uint64(7), "hu").
		WillReturnRows(sqlmock.NewRows([]string{"id", "site_id", "language", "is_default", "map_config", "features", "created_at", "updated_at"}))

	b, err := s.SiteBundle(context.Background(), 7, "hu", "en")
	if err != nil {
		t.Fatalf("SiteBundle error: %v", err)
	}
	if b.Instance != nil {
		t.Fatal("missing instance must be nil, not an error")
	}
	if b.Translations["hu"] != nil || b.Translations["en"] == nil {
		t.Fatalf("translations: %+v", b.Translations)
	}
	if b.Brand.MapDefaults["zoom"] != float64(10) {
		t.Fatalf("brand map defaults not decoded: %#v", b.Brand.MapDefaults)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestPayload_ScanPreservesExplicitNull(t *testing.T) {
	var p Payload
	if err := p.Scan([]byte(`{"center": null, "zoom": 9}`)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	v, present := p["center"]
	if !present || v != nil {
		t.Fatalf("explicit null lost: %#v", p)
	}
}

func TestPayload_ScanNullColumn(t *testing.T) {
	p := Payload{"stale": true}
	if err := p.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if p != nil {
		t.Fatalf("NULL column must scan to nil map, got %#v", p)
	}
}
