package main

import (
	"context"
	"fmt"
	"os"

	"github.com/elC0mpa/etl-cost-monitor/cmd/mcp/tools"
	"github.com/elC0mpa/etl-cost-monitor/model"
	"github.com/elC0mpa/etl-cost-monitor/service/logging"
	"github.com/elC0mpa/etl-cost-monitor/service/settings"
	"github.com/elC0mpa/etl-cost-monitor/service/wiring"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	cfg := LoadConfig()

	monitorSettings, err := settings.NewService().GetSettings(model.Flags{ConfigPath: cfg.ConfigPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the stdio transport, so logs go to stderr
	logger := logging.New(monitorSettings.LogLevel, os.Stderr, true)
	wiring.WarnUnmatchedFunctions(monitorSettings, logger)

	services, err := wiring.NewAWSServices(context.Background(), monitorSettings, cfg.AWSProfile, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AWS setup error: %v\n", err)
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"etl-cost-monitor-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	tools.RegisterDatafeedTools(s, services.Aggregator, services.Identity, monitorSettings)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
