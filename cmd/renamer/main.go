// Gray Logic Renamer - canonical entity naming for the Gray Logic
// platform.
//
// The renamer migrates registry entities from legacy identifiers
// ("light.office_desk") to the canonical area-first scheme
// ("office.light.desk"), rewriting every automation, scene, script and
// group that references them in lock-step. Runs are dry-run by
// default; nothing is mutated until -mode apply is given.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/gray-logic-rename/migrations"

	"github.com/nerrad567/gray-logic-rename/internal/document"
	"github.com/nerrad567/gray-logic-rename/internal/engine"
	"github.com/nerrad567/gray-logic-rename/internal/executor"
	"github.com/nerrad567/gray-logic-rename/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-rename/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-rename/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-rename/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-rename/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-rename/internal/naming"
	"github.com/nerrad567/gray-logic-rename/internal/registry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

type flags struct {
	configPath      string
	mode            string
	area            string
	domain          string
	includeDisabled bool
	showVersion     bool
}

func main() {
	// Cancel the run context on interrupt signals (Ctrl+C, SIGTERM):
	// in-flight rename operations finish, the remainder is marked
	// cancelled and the partial report is still produced.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, parseFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", envOr("GLRENAME_CONFIG", defaultConfigPath),
		"path to configuration file")
	flag.StringVar(&f.mode, "mode", string(executor.ModeDryRun),
		"run mode: dry-run or apply")
	flag.StringVar(&f.area, "area", "", "restrict the run to one area (id or name)")
	flag.StringVar(&f.domain, "domain", "", "restrict the run to one domain (e.g. light)")
	flag.BoolVar(&f.includeDisabled, "include-disabled", false,
		"include registry-disabled entities in the plan")
	flag.BoolVar(&f.showVersion, "version", false, "print version and exit")
	flag.Parse()
	return f
}

// run is the actual application logic, separated from main so every
// failure path returns an error and exit codes stay consistent.
func run(ctx context.Context, f flags) error {
	if f.showVersion {
		fmt.Printf("gray-logic-renamer %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	mode := executor.Mode(f.mode)
	if !mode.Valid() {
		return fmt.Errorf("invalid -mode %q: must be dry-run or apply", f.mode)
	}

	log := logging.Default()
	log.Info("starting Gray Logic Renamer",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", f.configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	overrides, err := config.LoadOverrides(cfg.Overrides.Path)
	if err != nil {
		return fmt.Errorf("loading naming overrides: %w", err)
	}
	log.Info("naming overrides loaded",
		"path", cfg.Overrides.Path,
		"areas", len(overrides.Areas),
		"devices", len(overrides.Devices),
		"entities", len(overrides.Entities),
	)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	client := registry.NewHTTPClient(cfg.Registry.BaseURL, cfg.Registry.Token, cfg.GetCallTimeout())

	eng := engine.New(client, document.NewSQLiteStore(db.DB), engine.Config{
		Rules: naming.Rules{
			MaxIdentifierLength: cfg.Naming.MaxIdentifierLength,
			FallbackLocation:    cfg.Naming.FallbackLocation,
		},
		Overrides: naming.Overrides{
			Areas:    overrides.Areas,
			Devices:  overrides.Devices,
			Entities: overrides.Entities,
		},
		Executor: executor.Config{
			MaxAttempts:    cfg.Executor.MaxAttempts,
			BackoffInitial: cfg.GetBackoffInitial(),
			BackoffMax:     cfg.GetBackoffMax(),
		},
		ScanWorkers: cfg.Executor.ScanWorkers,
	})
	eng.SetLogger(log)
	eng.SetRunRepository(engine.NewRunRepository(db.DB))

	// MQTT and InfluxDB are optional collaborators; a disabled section
	// just means no events or metrics for this run.
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	switch {
	case errors.Is(err, mqtt.ErrDisabled):
		log.Info("MQTT disabled")
	case err != nil:
		return fmt.Errorf("connecting to MQTT: %w", err)
	default:
		defer func() {
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		eng.SetPublisher(mqttClient)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	}

	influxClient, err := influxdb.Connect(cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
		defer func() {
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		eng.SetMetrics(influxClient)
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	}

	report, err := eng.Run(ctx, engine.Options{
		Mode:            mode,
		Area:            f.area,
		Domain:          f.domain,
		IncludeDisabled: f.includeDisabled,
	})
	if err != nil {
		return err
	}

	if err := printReport(report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if report.Count(executor.OutcomeFailed) > 0 {
		return fmt.Errorf("run %s finished with %d failed operation(s)",
			report.RunID, report.Count(executor.OutcomeFailed))
	}
	return nil
}

// printReport writes the full run report to stdout as JSON. Logs go to
// stderr, so stdout stays machine-readable for piping into jq or CI.
func printReport(report *executor.Report) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
