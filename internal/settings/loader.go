// internal/settings/loader.go
//
// Settings loader and reloader.
//
/*
Context
--------
`Load()` builds one immutable `Settings` struct from four layers
(highest precedence first):

  1. Explicit overrides passed by the caller (already typed).
  2. Environment variables prefixed `FAPILOG_`, where `__` nests
     groups (e.g., `FAPILOG_QUEUE__MAXSIZE → queue.maxsize`).
  3. Optional `fapilog.yaml` file.
  4. Schema defaults.

An optional `.env` file is folded into the environment first via
godotenv, which never overwrites variables already set, so real env
vars keep their precedence.  The environment is snapshotted once per
call; resolution itself performs no I/O.

After resolution the typed tree is decoded through koanf's confmap
provider into `Settings`, cross-checked against the struct's validate
tags, and cached in an `atomic.Pointer` for lock-free reads.
`Reload()` re-runs `Load()`; concurrent reloads coalesce through a
singleflight group so the environment is only re-read once.

Instrumentation
---------------
  • Prometheus counters: attempts, failures, and per-kind issue
    counts (internal/metrics).
  • Zap spans: DEBUG for layer assembly, ERROR with the full issue
    report on failure, INFO with key highlights on success.  The
    global *sugared* logger (`zap.S()`) is used so early boot issues
    surface on the bootstrap console.

Notes
-----
  • A Dir-discovered `fapilog.yaml` or `.env` may be absent; a file
    named explicitly in Options that cannot be read is an error.
  • Oxford commas, two spaces after periods.
*/
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fapilog/fapilog/internal/envsource"
	"github.com/fapilog/fapilog/internal/metrics"
	"github.com/fapilog/fapilog/internal/resolve"
	"github.com/fapilog/fapilog/internal/schema"
)

var (
	current     atomic.Pointer[Settings]
	reloadGroup singleflight.Group
)

// Options steers one Load call.  The zero value resolves purely from
// the process environment against the strict schema.
type Options struct {
	// Dir is searched for fapilog.yaml and .env when set.
	Dir string
	// File names the YAML layer explicitly, bypassing Dir discovery.
	File string
	// EnvFile names the dotenv file explicitly.
	EnvFile string
	// Overrides holds explicit values keyed by dotted path, e.g.
	// {"queue.maxsize": 500}.  Highest precedence, bypasses coercion.
	Overrides map[string]any
	// Snapshot substitutes the process environment, for tests and for
	// hosts that manage their own snapshotting.  Nil means take one
	// from os.Environ (after the dotenv fold-in).
	Snapshot envsource.Snapshot
	// AllowUnknown switches the schema to the permissive unknown-field
	// policy.  Default is strict (unknown keys are errors).
	AllowUnknown bool
}

func (o Options) policy() schema.Policy {
	if o.AllowUnknown {
		return schema.Allow
	}
	return schema.Forbid
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// loadResult carries everything one successful load produces.  The
// reload endpoint needs the raw tree alongside the typed struct so
// both views come from the same environment snapshot.
type loadResult struct {
	settings *Settings
	resolved *resolve.Resolved
	schema   *schema.Schema
}

func load(opts Options) (*loadResult, error) {
	res, sch, err := Resolve(opts)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(res.Tree(), "."), nil); err != nil {
		return nil, fmt.Errorf("settings: decode resolved tree: %w", err)
	}
	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("settings: decode resolved tree: %w", err)
	}

	if err := validateStruct(&s); err != nil {
		zap.S().Errorw("settings struct validation failed", "err", err)
		return nil, fmt.Errorf("settings: schema/model drift: %w", err)
	}

	current.Store(&s)
	zap.S().Infow("settings loaded",
		"level", s.Core.Level,
		"queue_maxsize", s.Queue.Maxsize,
		"sinks", len(s.Sinks.Sinks),
	)
	return &loadResult{settings: &s, resolved: res, schema: sch}, nil
}

// Load resolves, decodes, validates, and caches Settings.  On failure
// the returned error is a *resolve.Report whenever resolution itself
// rejected the inputs.
func Load(opts Options) (*Settings, error) {
	r, err := load(opts)
	if err != nil {
		return nil, err
	}
	return r.settings, nil
}

// Resolve runs the layered resolution without the typed decode.  The
// configcheck CLI uses it directly so it can redact and dump the raw
// tree; Load builds on it.
func Resolve(opts Options) (*resolve.Resolved, *schema.Schema, error) {
	metrics.ResolveTotal.Inc()

	snap := opts.Snapshot
	if snap == nil {
		if err := loadDotenv(opts); err != nil {
			return nil, nil, err
		}
		snap = envsource.FromOS()
	}

	fileLayer, err := loadFileLayer(opts)
	if err != nil {
		return nil, nil, err
	}

	sch := Schema(opts.policy())
	res, err := resolve.Resolve(sch, resolve.Input{
		Explicit: opts.Overrides,
		File:     fileLayer,
		Env:      snap,
	})
	if err != nil {
		metrics.ResolveErrorsTotal.Inc()
		if rep, ok := err.(*resolve.Report); ok {
			for _, issue := range rep.Issues {
				metrics.ResolveIssuesTotal.WithLabelValues(issue.Kind.String()).Inc()
			}
		}
		zap.S().Errorw("settings resolution failed", "err", err)
		return nil, nil, err
	}
	return res, sch, nil
}

// loadDotenv folds an optional dotenv file into the environment.
// godotenv never overwrites existing variables, so real env vars keep
// precedence over file entries.  A Dir-discovered .env is best effort;
// a file named explicitly in Options must be readable.
func loadDotenv(opts Options) error {
	path := opts.EnvFile
	discovered := false
	if path == "" && opts.Dir != "" {
		path = filepath.Join(opts.Dir, ".env")
		discovered = true
	}
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if discovered {
			return nil
		}
		zap.S().Errorw("dotenv load failed", "file", path, "err", err)
		return fmt.Errorf("settings: read %s: %w", path, err)
	}
	zap.S().Debugw("dotenv folded into environment", "file", path)
	return nil
}

// loadFileLayer reads the optional YAML layer and flattens it to
// dotted paths for the resolver.
func loadFileLayer(opts Options) (map[string]any, error) {
	path := opts.File
	discovered := false
	if path == "" && opts.Dir != "" {
		path = filepath.Join(opts.Dir, "fapilog.yaml")
		discovered = true
	}
	if path == "" {
		return nil, nil
	}
	if discovered {
		if _, err := os.Stat(path); err != nil {
			return nil, nil // discovery is best effort
		}
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		zap.S().Errorw("settings yaml load failed", "file", path, "err", err)
		return nil, fmt.Errorf("settings: read %s: %w", path, err)
	}
	zap.S().Debugw("settings yaml loaded", "file", path)
	return k.All(), nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the last successfully loaded Settings, or nil before the
// first Load.
func Get() *Settings { return current.Load() }

func reload(opts Options) (*loadResult, error) {
	v, err, _ := reloadGroup.Do("reload", func() (any, error) {
		metrics.ReloadTotal.Inc()
		return load(opts)
	})
	if err != nil {
		return nil, err
	}
	return v.(*loadResult), nil
}

// Reload re-runs Load with the same options; concurrent callers share
// one resolution.
func Reload(opts Options) (*Settings, error) {
	r, err := reload(opts)
	if err != nil {
		return nil, err
	}
	return r.settings, nil
}

// ReloadResolved is Reload plus the raw resolved tree and its schema,
// all from the single resolution, for callers that serve both the
// typed and the dumped view.
func ReloadResolved(opts Options) (*Settings, *resolve.Resolved, *schema.Schema, error) {
	r, err := reload(opts)
	if err != nil {
		return nil, nil, nil, err
	}
	return r.settings, r.resolved, r.schema, nil
}
