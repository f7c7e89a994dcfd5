// internal/sitecache/cache_test.go
//
// Unit-tests for the caller-level resolution cache.

package sitecache

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/videkhq/videk/internal/resolver"
	"github.com/videkhq/videk/internal/store"
)

var keyCols = []string{"id", "language", "slug", "site_id", "is_active", "is_primary", "created_at", "updated_at"}

func newCache(t *testing.T) (*Cache, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	st := store.New(sqlx.NewDb(db, "sqlmock"))
	c := New(resolver.NewSiteResolver(st, "default"), IdleTTL, MaxEntries)
	t.Cleanup(func() {
		c.Close()
		db.Close()
	})
	return c, mock
}

func expectKeyLookup(mock sqlmock.Sqlmock, siteID uint64) {
	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM\s+site_key`).
		WithArgs("en", "etyek-buda").
		WillReturnRows(sqlmock.NewRows(keyCols).
			AddRow(1, "en", "etyek-buda", siteID, true, true, now, now))
}

// The second hit must be served from memory: exactly one SQL expectation
// is registered, and unmet/extra queries fail the test.
func TestResolve_SecondHitSkipsStore(t *testing.T) {
	c, mock := newCache(t)
	expectKeyLookup(mock, 7)

	for i := 0; i < 3; i++ {
		id, err := c.Resolve(context.Background(), "en", "etyek-buda")
		if err != nil {
			t.Fatalf("Resolve #%d: %v", i, err)
		}
		if id != 7 {
			t.Fatalf("Resolve #%d = %d, want 7", i, id)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestInvalidate_ForcesReResolution(t *testing.T) {
	c, mock := newCache(t)
	expectKeyLookup(mock, 7)
	expectKeyLookup(mock, 9) // after invalidation the key points elsewhere

	if id, err := c.Resolve(context.Background(), "en", "etyek-buda"); err != nil || id != 7 {
		t.Fatalf("first resolve: id=%d err=%v", id, err)
	}

	c.Invalidate("en", "etyek-buda")

	id, err := c.Resolve(context.Background(), "en", "etyek-buda")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if id != 9 {
		t.Fatalf("id = %d, want re-resolved 9", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

// Failed resolutions are never cached, so a miss heals once the row shows
// up.
func TestResolve_ErrorsAreNotCached(t *testing.T) {
	c, mock := newCache(t)

	mock.ExpectQuery(`SELECT .+ FROM\s+site_key`).
		WithArgs("en", "new-site").
		WillReturnRows(sqlmock.NewRows(keyCols))
	mock.ExpectQuery(`SELECT .+ FROM\s+site\s`).
		WithArgs("new-site").
		WillReturnRows(sqlmock.NewRows([]string{"id", "canonical_id", "brand_id", "is_active", "created_at", "updated_at"}))

	if _, err := c.Resolve(context.Background(), "en", "new-site"); err == nil {
		t.Fatal("expected resolution failure")
	}

	expectKeyLookup(mock, 12)
	id, err := c.Resolve(context.Background(), "en", "etyek-buda")
	if err != nil || id != 12 {
		t.Fatalf("post-failure resolve: id=%d err=%v", id, err)
	}
}
