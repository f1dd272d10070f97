// Package catalog defines the ordered product catalog every session scores
// against.
//
// The catalog package handles:
//   - The built-in product list, in its canonical display order
//   - Loading alternative catalogs from YAML files
//   - Validation (non-empty, no duplicates)
//   - Zero-initialized score tables for new sessions
//
// Catalog Format:
//
// A catalog file is a YAML document with a single products list:
//
//	products:
//	  - ДК
//	  - КК
//	  - ЦП
//
// Order matters: clients render products in catalog order, and the server
// preserves it everywhere a product list appears.
//
// Usage:
//
//	cat := catalog.Default()
//
//	// Or load from a file
//	cat, err := catalog.Load("catalogs/retail.yaml")
//	if err != nil {
//		log.Fatal().Err(err).Msg("catalog load failed")
//	}
//
//	scores := cat.ZeroScores()
package catalog
