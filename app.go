package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/elC0mpa/etl-cost-monitor/model"
	"github.com/elC0mpa/etl-cost-monitor/service/exporter"
	flagservice "github.com/elC0mpa/etl-cost-monitor/service/flag"
	"github.com/elC0mpa/etl-cost-monitor/service/logging"
	"github.com/elC0mpa/etl-cost-monitor/service/orchestrator"
	"github.com/elC0mpa/etl-cost-monitor/service/settings"
	"github.com/elC0mpa/etl-cost-monitor/service/wiring"
	"github.com/elC0mpa/etl-cost-monitor/utils"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "etl-cost-monitor: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags, err := flagservice.NewService(args, stderr).GetParsedFlags()
	if err != nil {
		return err
	}

	cfg, err := settings.NewService().GetSettings(flags)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, stderr, flags.JSON)
	wiring.WarnUnmatchedFunctions(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := wiring.NewAWSServices(ctx, cfg, flags.Profile, logger)
	if err != nil {
		return err
	}

	renderer := newRenderer(flags, stdout, stderr)

	var publisher orchestrator.Publisher
	if cfg.Monitoring.ListenAddr != "" && !flags.Once {
		promExporter := exporter.NewPrometheusExporter()
		server := exporter.NewServer(cfg.Monitoring.ListenAddr, promExporter.Router(), logger)
		go func() {
			if err := server.Run(ctx); err != nil {
				logger.Error("HTTP server stopped", slog.String("error", err.Error()))
			}
		}()
		publisher = promExporter
	}

	monitor := orchestrator.NewService(services.Aggregator, services.Identity, renderer, publisher, cfg.Monitoring, logger)

	if flags.Once {
		return monitor.RunOnce(ctx)
	}

	if !flags.JSON {
		utils.DrawBanner(stdout)
		utils.DrawStartupNotice(stdout, cfg.Monitoring.RefreshInterval, cfg.Monitoring.LookbackHours)
	}

	if err := monitor.Run(ctx); err != nil {
		return err
	}

	if !flags.JSON {
		fmt.Fprintln(stdout, "\n\nMonitor stopped by user.")
	}
	return nil
}

func newRenderer(flags model.Flags, stdout, stderr io.Writer) orchestrator.Renderer {
	if flags.JSON {
		return utils.NewJSONRenderer(stdout)
	}
	return utils.NewTerminalRenderer(stdout, utils.NewSpinner(stderr), !flags.Once)
}
