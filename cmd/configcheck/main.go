// cmd/configcheck/main.go
//
// fapilog configcheck – settings resolution entry point.
//
// Life-cycle
// ----------
//
//  1. Parse flags (kingpin).
//
//  2. Start rotating logger (tees to console when running in a TTY).
//
//  3. Resolve the fapilog schema against the current environment plus
//     the optional dotenv and YAML layers.
//
//  4. On failure, print every issue from the structured report and
//     exit non-zero, so one run surfaces all problems at once.
//
//  5. Default mode: print the redacted resolved tree as indented JSON.
//
//  6. `--serve` mode: keep running and expose
//
//     • GET  /config   – redacted resolved tree
//     • POST /reload   – re-resolve and swap the served tree
//     • GET  /metrics  – Prometheus counters
//
// Large comment blocks are framed by blank “//” lines; inline comments
// use a single “//”.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fapilog/fapilog/internal/logger"
	"github.com/fapilog/fapilog/internal/redact"
	"github.com/fapilog/fapilog/internal/resolve"
	"github.com/fapilog/fapilog/internal/settings"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	app := kingpin.New("configcheck", "Resolve and inspect fapilog settings")
	dir := app.Flag("dir", "Directory searched for fapilog.yaml and .env").String()
	yamlFile := app.Flag("file", "Explicit path to the YAML settings file").String()
	envFile := app.Flag("env-file", "Explicit path to a dotenv file").String()
	allowUnknown := app.Flag("allow-unknown", "Ignore unrecognised FAPILOG_ variables instead of failing").Bool()
	serveAddr := app.Flag("serve", "Keep running and serve /config and /metrics on this address").String()
	logDir := app.Flag("log-dir", "Directory for the rotating JSON log").Default("logs").String()
	verbose := app.Flag("verbose", "Log at debug level").Short('v').Bool()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logOut, err := logger.New(*logDir, runningInTTY(), *verbose)
	if err != nil {
		app.Fatalf("start logger: %v", err)
	}

	opts := settings.Options{
		Dir:          *dir,
		File:         *yamlFile,
		EnvFile:      *envFile,
		AllowUnknown: *allowUnknown,
	}

	//
	// ── 1.  Resolve once up front ───────────────────────────────────────
	//
	res, sch, err := settings.Resolve(opts)
	if err != nil {
		if rep, ok := err.(*resolve.Report); ok {
			for _, issue := range rep.Issues {
				app.Errorf("%s", issue.Error())
			}
			app.FatalUsage("settings resolution failed with %d issue(s)", len(rep.Issues))
		}
		app.Fatalf("%v", err)
	}
	safe := redact.Tree(sch, res)

	//
	// ── 2.  One-shot mode: dump and exit ───────────────────────────────
	//
	if *serveAddr == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(safe)
		return
	}

	//
	// ── 3.  Serve mode: /config, /reload, /metrics ─────────────────────
	//
	// Also run the full typed load so the atomic Settings cache and its
	// counters behave exactly as they do inside a host application.
	if _, err := settings.Load(opts); err != nil {
		logOut.Fatalf("settings load: %v", err)
	}

	var served atomic.Pointer[map[string]any]
	served.Store(&safe)

	r := chi.NewRouter()
	r.Get("/config", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(*served.Load())
	})
	r.Post("/reload", func(w http.ResponseWriter, req *http.Request) {
		// One resolution feeds both the typed cache and the served
		// dump, so the two views cannot diverge.
		_, res, sch, err := settings.ReloadResolved(opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		fresh := redact.Tree(sch, res)
		served.Store(&fresh)
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", promhttp.Handler())

	logOut.Infow("configcheck serving", "addr", *serveAddr)
	if err := http.ListenAndServe(*serveAddr, r); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
}
