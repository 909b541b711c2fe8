package flag

import (
	"flag"
	"io"

	"github.com/elC0mpa/etl-cost-monitor/model"
)

func NewService(args []string, output io.Writer) *service {
	return &service{args: args, output: output}
}

func (s *service) GetParsedFlags() (model.Flags, error) {
	fs := flag.NewFlagSet("etl-cost-monitor", flag.ContinueOnError)
	if s.output != nil {
		fs.SetOutput(s.output)
	}

	configPath := fs.String("config", "", "Path to the YAML configuration file (default config.yaml)")
	region := fs.String("region", "", "AWS region, overrides the configuration file")
	profile := fs.String("profile", "", "AWS profile configuration")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn or error")
	lookbackHours := fs.Int("lookback-hours", 0, "Trailing window in hours used for every cost figure")
	refreshSeconds := fs.Int("refresh-seconds", 0, "Seconds between dashboard refreshes")
	listenAddr := fs.String("listen-addr", "", "Address for the /metrics, /costs and /health endpoints")
	once := fs.Bool("once", false, "Run a single refresh cycle and exit")
	jsonOutput := fs.Bool("json", false, "Print the cycle result as JSON instead of tables")

	if err := fs.Parse(s.args); err != nil {
		return model.Flags{}, err
	}

	return model.Flags{
		ConfigPath:     *configPath,
		Region:         *region,
		Profile:        *profile,
		LogLevel:       *logLevel,
		LookbackHours:  *lookbackHours,
		RefreshSeconds: *refreshSeconds,
		ListenAddr:     *listenAddr,
		Once:           *once,
		JSON:           *jsonOutput,
	}, nil
}
