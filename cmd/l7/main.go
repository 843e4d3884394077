package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matthewwall/weewx-l7/internal/config"
	"github.com/matthewwall/weewx-l7/internal/driver"
	"github.com/matthewwall/weewx-l7/internal/logger"
	"github.com/matthewwall/weewx-l7/internal/pid"
	"github.com/matthewwall/weewx-l7/internal/station"
	"github.com/matthewwall/weewx-l7/internal/telemetry"
)

const (
	driverName    = "L7"
	driverVersion = "0.1"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	if level, ok := parseLevel(cfg.LogLevel); ok {
		logger.SetLogLevel(level)
	}
}

func main() {
	if cfg.ShowVersion {
		fmt.Printf("%s driver version %s\n", driverName, driverVersion)
		return
	}

	logger.Info().Str("version", driverVersion).Msgf("%s driver starting", driverName)
	logger.Info().Str("addr", cfg.Addr).Msg("station address")

	collector, err := station.NewCollector(station.CollectorConfig{
		Addr:      cfg.Addr,
		MaxTries:  cfg.MaxTries,
		RetryWait: time.Duration(cfg.RetryWait) * time.Second,
		Timeout:   time.Duration(cfg.Timeout) * time.Second,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize collector")
	}

	if cfg.Once {
		if err := runOnce(collector); err != nil {
			logger.Fatal().Err(err).Msg("diagnostic fetch failed")
		}
		return
	}

	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write pid file")
	}
	defer pid.Remove()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx, collector); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	logger.Info().Msg("Exiting...")
}

func run(ctx context.Context, collector *station.Collector) error {
	archive, err := telemetry.NewService(telemetry.Config{
		Enabled: cfg.Telemetry,
		DBPath:  cfg.Database,
	})
	if err != nil {
		return err
	}
	defer archive.Close()

	drv := driver.New(driver.Config{
		Interval:  time.Duration(cfg.Interval) * time.Second,
		Units:     config.UnitSystem(cfg.Units),
		SensorMap: cfg.SensorMap,
	}, collector)

	for rec := range drv.Records(ctx) {
		logger.Info().
			Time("date_time", rec.DateTime).
			Int("fields", len(rec.Values)).
			Msg("record")
		if err := archive.Record(ctx, &rec); err != nil {
			logger.Error().Err(err).Msg("failed to archive record")
		}
	}

	return nil
}

// runOnce fetches a single status document and prints both the raw data
// and the derived record to stdout for diagnostics.
func runOnce(collector *station.Collector) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	doc, err := collector.Fetch(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("no data")
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("data: %s\n", raw)

	rec := station.Translate(doc, nil, time.Now(), config.UnitSystem(cfg.Units))
	packet, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	fmt.Printf("record: %s\n", packet)

	return nil
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func parseLevel(s string) (logger.LogLevel, bool) {
	switch config.LogLevel(s) {
	case config.LogLevelDebug:
		return logger.DebugLevel, true
	case config.LogLevelInfo:
		return logger.InfoLevel, true
	case config.LogLevelWarning:
		return logger.WarnLevel, true
	case config.LogLevelError:
		return logger.ErrorLevel, true
	default:
		return 0, false
	}
}
