// internal/store/payload.go
//
// JSON payload column type.
//
// Context
// -------
// Brand and SiteInstance rows carry free-form JSON columns (theme,
// placeholders, map defaults, map config, features).  Payload scans those
// columns into the open map shape the merge engine consumes, preserving
// explicit JSON nulls as present keys so "override with null" survives the
// round trip.  A NULL column scans to a nil map, which the aggregator
// treats as an all-absent layer.
package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/videkhq/videk/internal/merge"
)

// Payload is an open JSON document stored in a single column.
type Payload map[string]any

// Merge returns the payload as a merge.Value.  Nil payloads stay nil.
func (p Payload) Merge() merge.Value { return merge.Value(p) }

// Scan implements sql.Scanner for JSON and NULL columns.
func (p *Payload) Scan(src any) error {
	switch t := src.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		return p.unmarshal(t)
	case string:
		return p.unmarshal([]byte(t))
	default:
		return fmt.Errorf("payload: cannot scan %T", src)
	}
}

func (p *Payload) unmarshal(b []byte) error {
	if len(b) == 0 {
		*p = nil
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("payload: %w", err)
	}
	*p = m
	return nil
}

// Value implements driver.Valuer.  Nil payloads persist as SQL NULL.
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(map[string]any(p))
}
