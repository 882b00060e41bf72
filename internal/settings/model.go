// internal/settings/model.go
//
// Typed settings model for the fapilog pipeline.
//
// Context
// -------
// These structs define the shape of the settings tree that
// `internal/settings/loader.go` resolves from four overlay layers:
//
//   • schema defaults                            – declared in schema.go,
//   • optional `fapilog.yaml`                    – static file layer,
//   • `FAPILOG_`-prefixed environment variables  – `__` nests groups,
//   • explicit overrides                         – highest precedence.
//
// Validation happens twice: the resolver enforces the schema's
// per-field and cross-field rules, then the decoded struct is checked
// against the `validate` tags below, so a drift between schema.go and
// this file fails loudly instead of producing a half-typed value.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`; the resolved tree is decoded
//     through koanf's confmap provider.
//   • Field names here must stay in sync with schema.go; the resolver
//     is the source of truth for defaults.
//   • Oxford commas, two spaces after periods.

package settings

//
// Core section
//

// Core holds identity and log-level basics.
type Core struct {
	AppName string `koanf:"app_name" validate:"required"`
	Level   string `koanf:"level"    validate:"oneof=debug info warn error"`
}

//
// Queue section
//

// Queue tunes the in-process event queue that feeds the sinks.
type Queue struct {
	Maxsize   int    `koanf:"maxsize"    validate:"gt=0"`
	BatchSize int    `koanf:"batch_size" validate:"gt=0"`
	Overflow  string `koanf:"overflow"   validate:"oneof=drop block"`
}

//
// Security section
//

// Security controls redaction.  APIKey is the one secret-flagged
// field; it is masked in every dump and never logged.
type Security struct {
	EnableAutoRedactPII bool     `koanf:"enable_auto_redact_pii"`
	RedactFields        []string `koanf:"redact_fields"`
	APIKey              string   `koanf:"api_key"`
}

//
// Sinks section
//

// Sinks names the output destinations, e.g. "stdout" or
// "file:///logs/app.log".  Destination wiring itself lives outside
// this subsystem; here they are just validated strings.
type Sinks struct {
	Sinks      []string `koanf:"sinks"       validate:"min=1"`
	BufferSize int      `koanf:"buffer_size" validate:"gte=0"`
}

//
// Metrics section
//

// Metrics toggles pipeline self-instrumentation.
type Metrics struct {
	Enabled   bool   `koanf:"enabled"`
	Namespace string `koanf:"namespace"`
}

//
// Validation section
//

// Validation picks how strictly downstream event payloads are checked.
type Validation struct {
	Mode string `koanf:"mode" validate:"oneof=strict lenient"`
}

//
// Root aggregate
//

// Settings is the immutable aggregate returned by Load() and cached in
// an atomic.Pointer for lock-free reads throughout the app lifetime.
type Settings struct {
	Core       Core       `koanf:"core"`
	Queue      Queue      `koanf:"queue"`
	Security   Security   `koanf:"security"`
	Sinks      Sinks      `koanf:"sinks"`
	Metrics    Metrics    `koanf:"metrics"`
	Validation Validation `koanf:"validation"`
}
