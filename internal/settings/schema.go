// internal/settings/schema.go
//
// The fapilog settings schema declaration.
//
// Context
// -------
// One statically declared tree, built once at process start and shared
// read-only.  This file is the single source of truth for field names,
// types, defaults, and validation rules; model.go mirrors the shape for
// typed access.  Adding a settings group is an edit here plus a struct
// in model.go, no runtime introspection anywhere.
package settings

import (
	"fmt"

	"github.com/fapilog/fapilog/internal/coerce"
	"github.com/fapilog/fapilog/internal/schema"
)

const (
	// Prefix and Delimiter define the environment naming convention:
	// FAPILOG_QUEUE__MAXSIZE → queue.maxsize.
	Prefix    = "FAPILOG_"
	Delimiter = "__"
)

// Schema returns the fapilog settings schema under the given
// unknown-field policy.  The declaration is constant; the policy is
// the only configurable part.
func Schema(unknown schema.Policy) *schema.Schema {
	return schema.MustNew(Prefix, Delimiter, unknown, schema.Group{
		Groups: []schema.Group{
			{
				Name: "core",
				Fields: []schema.FieldSpec{
					{Name: "app_name", Type: coerce.StringType(), Default: "fapilog", Rule: "min=1"},
					{Name: "level", Type: coerce.EnumType("debug", "info", "warn", "error"), Default: "info"},
				},
			},
			{
				Name: "queue",
				Fields: []schema.FieldSpec{
					{Name: "maxsize", Type: coerce.IntType(), Default: 1000, Rule: "gt=0"},
					{Name: "batch_size", Type: coerce.IntType(), Default: 64, Rule: "gt=0"},
					{Name: "overflow", Type: coerce.EnumType("drop", "block"), Default: "block"},
				},
				Checks: []schema.CrossCheck{batchFitsQueue},
			},
			{
				Name: "security",
				Fields: []schema.FieldSpec{
					{Name: "enable_auto_redact_pii", Type: coerce.BoolType(), Default: false},
					{Name: "redact_fields", Type: coerce.ListType(coerce.StringType()),
						Default: []string{"password", "secret", "token"}},
					{Name: "api_key", Type: coerce.StringType(), Default: "", Secret: true},
				},
				Checks: []schema.CrossCheck{redactionNeedsFields},
			},
			{
				Name: "sinks",
				Fields: []schema.FieldSpec{
					{Name: "sinks", Type: coerce.ListType(coerce.StringType()),
						Default: []string{"stdout"}, Rule: "min=1"},
					{Name: "buffer_size", Type: coerce.IntType(), Default: 8192, Rule: "gte=0"},
				},
			},
			{
				Name: "metrics",
				Fields: []schema.FieldSpec{
					{Name: "enabled", Type: coerce.BoolType(), Default: false},
					{Name: "namespace", Type: coerce.StringType(), Default: "fapilog"},
				},
				Checks: []schema.CrossCheck{metricsNeedNamespace},
			},
			{
				Name: "validation",
				Fields: []schema.FieldSpec{
					{Name: "mode", Type: coerce.EnumType("strict", "lenient"), Default: "strict"},
				},
			},
		},
	})
}

//
// cross-field rules
//

func batchFitsQueue(v map[string]any) error {
	if v["batch_size"].(int64) > v["maxsize"].(int64) {
		return fmt.Errorf("queue.batch_size must not exceed queue.maxsize")
	}
	return nil
}

func redactionNeedsFields(v map[string]any) error {
	if v["enable_auto_redact_pii"].(bool) && len(v["redact_fields"].([]string)) == 0 {
		return fmt.Errorf("security.redact_fields must be non-empty when auto PII redaction is enabled")
	}
	return nil
}

func metricsNeedNamespace(v map[string]any) error {
	if v["enabled"].(bool) && v["namespace"].(string) == "" {
		return fmt.Errorf("metrics.namespace must be set when metrics are enabled")
	}
	return nil
}
