// internal/store/ensure.go
//
// Idempotent create-if-missing writes.
//
// Context
// -------
// Provisioning flows create SiteKey and SiteInstance rows on demand, and
// they may race: two requests can attempt the same insert concurrently.
// Each ensure helper treats a duplicate-key violation on the compound
// unique index as success, then re-reads the now-existing row, so retries
// and concurrent duplicates converge on the same outcome.
//
// Notes
// -----
//   - Duplicate detection keys on MySQL error 1062 (ER_DUP_ENTRY).
//   - These are the only write paths in the resolution core.
package store

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/videkhq/videk/internal/errs"
)

//
// SiteKey
//

// EnsureSiteKey inserts an active SiteKey for (language, slug) → siteID if
// none exists, and returns the row either way.  A concurrent duplicate
// insert is treated as success.
func (s *Store) EnsureSiteKey(ctx context.Context, language, slug string, siteID uint64, primary bool) (*SiteKey, error) {
	const ins = `
	    INSERT INTO site_key (language, slug, site_id, is_active, is_primary)
	    VALUES (?, ?, ?, TRUE, ?)`
	_, err := s.db.ExecContext(ctx, ins, language, slug, siteID, primary)
	if err != nil && !isDupEntry(err) {
		return nil, errs.Transient(err)
	}

	const sel = `
	    SELECT id, language, slug, site_id, is_active, is_primary,
	           created_at, updated_at
	    FROM   site_key
	    WHERE  language = ?
	      AND  slug     = ?
	    LIMIT  1`
	var rec SiteKey
	if err := s.db.GetContext(ctx, &rec, sel, language, slug); err != nil {
		return nil, mapGetErr(err, "site key (%s, %q)", language, slug)
	}
	return &rec, nil
}

//
// SiteInstance
//

// EnsureSiteInstance inserts an empty override row for (siteID, language)
// if none exists, and returns the row either way.  New rows carry no map
// or feature overrides; isDefault marks the intended per-language default.
func (s *Store) EnsureSiteInstance(ctx context.Context, siteID uint64, language string, isDefault bool) (*SiteInstance, error) {
	const ins = `
	    INSERT INTO site_instance (site_id, language, is_default)
	    VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, ins, siteID, language, isDefault)
	if err != nil && !isDupEntry(err) {
		return nil, errs.Transient(err)
	}

	const sel = `
	    SELECT id, site_id, language, is_default, map_config, features,
	           created_at, updated_at
	    FROM   site_instance
	    WHERE  site_id  = ?
	      AND  language = ?`
	var rows []SiteInstance
	if err := s.db.SelectContext(ctx, &rows, sel, siteID, language); err != nil {
		return nil, errs.Transient(err)
	}
	inst := pickInstance(rows)
	if inst == nil {
		return nil, errs.NotFoundf("site instance (%d, %s)", siteID, language)
	}
	return inst, nil
}

// EnsureDefaultInstance guarantees that (siteID, language) has an override
// row marked as the per-language default.  An existing row is returned with
// its flags intact; this never flips an existing non-default row.
func (s *Store) EnsureDefaultInstance(ctx context.Context, siteID uint64, language string) (*SiteInstance, error) {
	return s.EnsureSiteInstance(ctx, siteID, language, true)
}

// isDupEntry reports whether err is a MySQL duplicate-key violation.
func isDupEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
