// internal/settings/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/settings/loader.go` calls `validateStruct` immediately
// after it decodes the resolved tree into a `Settings` instance.  The
// resolver has already enforced the schema's rules, so a failure here
// means schema.go and model.go have drifted apart, a bug worth failing
// loudly over, not an operator mistake.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package settings

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(s *Settings) error {
	return v.Struct(s)
}
