// Package catalog defines the declarative inputs the decision engine consumes:
// rate limits, experiments, and feature flags.
//
// # Overview
//
// A catalog is authored as a YAML file, validated on load, and swapped into
// the running engine atomically. The package supports:
//
//   - Parsing and structural validation with per-finding lint output
//   - Lock-free reads of the active catalog via atomic pointer swaps
//   - Hot reload on file change with debouncing; a broken edit never
//     replaces the last good catalog
//
// # Usage
//
//	c, err := catalog.Load("arbiter.catalog.yaml")
//	if err != nil {
//	    return err
//	}
//	store := catalog.NewStore(c)
//	active := store.Active()
//
// # Thread Safety
//
// Store is safe for concurrent use. Catalog values must be treated as
// immutable once stored; reload replaces the whole catalog rather than
// mutating it in place.
package catalog
