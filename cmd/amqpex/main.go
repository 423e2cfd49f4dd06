package main

import (
	"encoding/base64"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vortexmq/amqpex/config"
	"github.com/vortexmq/amqpex/extension"
	"github.com/vortexmq/amqpex/fixture"
	"github.com/vortexmq/amqpex/functions"
	"github.com/vortexmq/amqpex/metrics"
)

const version = "0.1.0"

const usage = `amqpex - AMQP extension record codec

Usage:
  amqpex [flags] build <scenario.yaml>   encode the records described in the scenario
  amqpex [flags] decode <hex>            decode one DataEx record from hex bytes

Flags:
`

func main() {
	var (
		configFile  = flag.String("config", "", "Configuration file path (YAML)")
		showVersion = flag.Bool("version", false, "Show version and exit")
		snapshot    = flag.String("snapshot", "", "Write a CBOR snapshot of each decoded record to this file")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("amqpex version %s\n", version)
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.BuildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	registry := functions.NewRegistry(functions.WithLogger(logger))
	if cfg.Telemetry.Enabled {
		collector := metrics.NewCollector("amqpex", nil)
		registry = functions.NewRegistry(
			functions.WithLogger(logger),
			functions.WithMetrics(collector),
		)
		server := metrics.NewServer(cfg.Telemetry.Port)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error("telemetry server stopped", zap.Error(err))
			}
		}()
		logger.Info("telemetry endpoint enabled", zap.Int("port", server.Port()))
	}

	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "build":
		if err := runBuild(cfg, logger, registry, args[1]); err != nil {
			logger.Error("build failed", zap.Error(err))
			os.Exit(1)
		}
	case "decode":
		if err := runDecode(logger, registry, args[1], *snapshot); err != nil {
			logger.Error("decode failed", zap.Error(err))
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runBuild(cfg *config.Config, logger *zap.Logger, registry *functions.Registry, scenarioPath string) error {
	scenario, err := LoadScenario(scenarioPath)
	if err != nil {
		return err
	}
	for i, spec := range scenario.Records {
		built, err := registry.FinishBuild(spec.Kind, spec.Build)
		if err != nil {
			return fmt.Errorf("record %d (%s): %w", i, spec.Kind, err)
		}
		logger.Debug("record built",
			zap.Int("index", i),
			zap.String("kind", spec.Kind),
			zap.Int("size", len(built)))
		out, err := renderBytes(cfg.Output.Format, spec.Kind, built)
		if err != nil {
			return err
		}
		fmt.Println(out)
	}
	return nil
}

func renderBytes(format, kind string, built []byte) (string, error) {
	switch format {
	case "hex":
		return hex.EncodeToString(built), nil
	case "base64":
		return base64.StdEncoding.EncodeToString(built), nil
	case "cbor":
		record, err := decodeByKind(kind, built)
		if err != nil {
			return "", err
		}
		data, err := fixture.Snapshot(record)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(data), nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

func decodeByKind(kind string, built []byte) (interface{}, error) {
	switch kind {
	case "routeEx":
		record, _, err := extension.DecodeRouteEx(built)
		return record, err
	case "beginEx":
		record, _, err := extension.DecodeBeginEx(built)
		return record, err
	case "dataEx":
		record, _, err := extension.DecodeDataEx(built)
		return record, err
	case "abortEx":
		record, _, err := extension.DecodeAbortEx(built)
		return record, err
	}
	return nil, fmt.Errorf("unknown record kind %q", kind)
}

func runDecode(logger *zap.Logger, registry *functions.Registry, hexBytes, snapshotPath string) error {
	buf, err := hex.DecodeString(hexBytes)
	if err != nil {
		return fmt.Errorf("decoding hex input: %w", err)
	}
	record, size, err := registry.DecodeDataEx(buf)
	if err != nil {
		return err
	}
	logger.Debug("record decoded", zap.Int("size", size), zap.Int("input", len(buf)))
	fmt.Println(record.String())
	if snapshotPath != "" {
		if err := fixture.WriteFile(snapshotPath, record); err != nil {
			return err
		}
		logger.Info("snapshot written", zap.String("path", snapshotPath))
	}
	return nil
}
