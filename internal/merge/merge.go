// internal/merge/merge.go
//
// Deep-merge primitive for layered configuration payloads.
//
// Context
// -------
// Brand and SiteInstance rows carry free-form JSON payloads (theme,
// placeholders, map defaults, feature flags).  The settings aggregator
// layers those payloads over hard-coded platform defaults with a strict
// later-layer-wins rule.  The merge works on open maps, not fixed structs,
// so new payload keys flow through without code changes.
//
// Semantics
// ---------
//  1. Keys present only in the base are inherited unchanged.
//  2. Keys present in the overlay override the base outright, including an
//     explicit null (a JSON `"key": null` decodes to a present key with a
//     nil value, which IS an override; a missing key is NOT).
//  3. When both sides hold structured maps the merge recurses.
//  4. Arrays are atomic scalars; a later array replaces an earlier one
//     wholesale, never element-wise.
//
// Merge never fails; absent inputs are treated as empty maps.
package merge

//
// Value
//

// Value is an open, recursively-mergeable payload: string keys over
// variant scalars, nested maps, and atomic arrays.  It is the decode
// target for every free-form JSON column in the store.
type Value = map[string]any

//
// Merge
//

// Merge returns a new Value layering overlay on top of base.  Neither
// input is mutated.  Nil inputs are treated as empty.
func Merge(base, overlay Value) Value {
	out := Clone(base)
	if out == nil {
		out = Value{}
	}
	for k, ov := range overlay {
		om, overlayIsMap := asMap(ov)
		bm, baseIsMap := asMap(out[k])
		if overlayIsMap && baseIsMap {
			out[k] = Merge(bm, om)
			continue
		}
		// Scalar, array, explicit null, or type change: overlay wins.
		out[k] = cloneAny(ov)
	}
	return out
}

// Layer folds overlays onto base weakest-first, so Layer(p, b, i) equals
// Merge(Merge(p, b), i).
func Layer(base Value, overlays ...Value) Value {
	out := Clone(base)
	for _, o := range overlays {
		out = Merge(out, o)
	}
	return out
}

//
// Cloning
//

// Clone deep-copies a Value.  Nil in, nil out.
func Clone(v Value) Value {
	if v == nil {
		return nil
	}
	out := make(Value, len(v))
	for k, val := range v {
		out[k] = cloneAny(val)
	}
	return out
}

func cloneAny(v any) any {
	switch t := v.(type) {
	case Value:
		return Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneAny(e)
		}
		return out
	default:
		return v
	}
}

// asMap normalizes the two map shapes that reach the merge: Value built in
// code, and map[string]any produced by encoding/json.  Value is an alias,
// so a single assertion covers both; the helper keeps the call sites
// honest about non-map values.
func asMap(v any) (Value, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}
