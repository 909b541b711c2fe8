package settings

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/elC0mpa/etl-cost-monitor/model"
	"gopkg.in/yaml.v3"
)

func NewService() *service {
	return &service{getenv: os.Getenv}
}

// GetSettings builds the monitor settings from defaults, the YAML file,
// ETLCOST_* environment variables and finally command line flags, then
// validates the result.
func (s *service) GetSettings(flags model.Flags) (model.Settings, error) {
	cfg := defaultConfig()

	path := flags.ConfigPath
	if path == "" {
		path = s.getenv(envPrefix + "CONFIG")
	}
	if path == "" {
		path = "config.yaml"
	}

	if err := loadFromFile(path, &cfg); err != nil {
		return model.Settings{}, fmt.Errorf("%w: %w", model.ErrInvalidSettings, err)
	}
	if err := s.applyEnvOverrides(&cfg); err != nil {
		return model.Settings{}, fmt.Errorf("%w: %w", model.ErrInvalidSettings, err)
	}
	applyFlagOverrides(&cfg, flags)

	settings, err := cfg.toSettings()
	if err != nil {
		return model.Settings{}, fmt.Errorf("%w: %w", model.ErrInvalidSettings, err)
	}
	return settings, nil
}

func defaultConfig() fileConfig {
	return fileConfig{
		LogLevel: defaultLogLevel,
		Monitoring: monitoringConfig{
			RefreshIntervalSeconds: defaultRefreshIntervalSeconds,
			LookbackHours:          defaultLookbackHours,
			CallTimeoutSeconds:     defaultCallTimeoutSeconds,
			Workers:                defaultWorkers,
		},
	}
}

func loadFromFile(path string, cfg *fileConfig) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path provided by the operator
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (s *service) applyEnvOverrides(cfg *fileConfig) error {
	if v := s.getenv(envPrefix + "REGION"); v != "" {
		cfg.Region = v
	}
	if v := s.getenv(envPrefix + "BUCKET"); v != "" {
		cfg.S3.Bucket = v
	}
	if v := s.getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := s.getenv(envPrefix + "LISTEN_ADDR"); v != "" {
		cfg.Monitoring.ListenAddr = v
	}

	ints := []struct {
		name   string
		target *int
	}{
		{name: "REFRESH_INTERVAL", target: &cfg.Monitoring.RefreshIntervalSeconds},
		{name: "LOOKBACK_HOURS", target: &cfg.Monitoring.LookbackHours},
		{name: "CALL_TIMEOUT", target: &cfg.Monitoring.CallTimeoutSeconds},
		{name: "WORKERS", target: &cfg.Monitoring.Workers},
	}
	for _, override := range ints {
		v := s.getenv(envPrefix + override.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, override.name, err)
		}
		*override.target = parsed
	}
	return nil
}

func applyFlagOverrides(cfg *fileConfig, flags model.Flags) {
	if flags.Region != "" {
		cfg.Region = flags.Region
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
	if flags.LookbackHours != 0 {
		cfg.Monitoring.LookbackHours = flags.LookbackHours
	}
	if flags.RefreshSeconds != 0 {
		cfg.Monitoring.RefreshIntervalSeconds = flags.RefreshSeconds
	}
	if flags.ListenAddr != "" {
		cfg.Monitoring.ListenAddr = flags.ListenAddr
	}
}

func (c fileConfig) toSettings() (model.Settings, error) {
	var errs []error

	if c.Region == "" {
		errs = append(errs, errors.New("region is required"))
	}
	if c.S3.Bucket == "" {
		errs = append(errs, errors.New("s3.bucket is required"))
	}
	if len(c.S3.Datafeeds) == 0 {
		errs = append(errs, errors.New("s3.datafeeds must list at least one datafeed"))
	}

	seen := make(map[string]bool, len(c.S3.Datafeeds))
	datafeeds := make([]model.Datafeed, 0, len(c.S3.Datafeeds))
	for i, feed := range c.S3.Datafeeds {
		if feed.Name == "" {
			errs = append(errs, fmt.Errorf("s3.datafeeds[%d].name is required", i))
			continue
		}
		if seen[feed.Name] {
			errs = append(errs, fmt.Errorf("s3.datafeeds[%d]: duplicate datafeed %q", i, feed.Name))
			continue
		}
		seen[feed.Name] = true
		datafeeds = append(datafeeds, model.Datafeed{Name: feed.Name, Prefix: feed.Prefix})
	}

	functions := make([]model.ComputeFunction, 0, len(c.Lambda.Functions))
	for i, fn := range c.Lambda.Functions {
		if fn.Name == "" || fn.Datafeed == "" {
			errs = append(errs, fmt.Errorf("lambda.functions[%d] needs name and datafeed", i))
			continue
		}
		functions = append(functions, model.ComputeFunction{Name: fn.Name, Datafeed: fn.Datafeed})
	}

	pricing := model.PricingTable{
		StoragePerGBMonth:    rate(&errs, "pricing.s3.storage_per_gb_month", c.Pricing.S3.StoragePerGBMonth),
		PutPer1000:           rate(&errs, "pricing.s3.put_request_per_1000", c.Pricing.S3.PutRequestPer1000),
		GetPer1000:           rate(&errs, "pricing.s3.get_request_per_1000", c.Pricing.S3.GetRequestPer1000),
		InvocationPerMillion: rate(&errs, "pricing.lambda.request_per_million", c.Pricing.Lambda.RequestPerMillion),
		DurationPerGBSecond:  rate(&errs, "pricing.lambda.duration_per_gb_second", c.Pricing.Lambda.DurationPerGBSecond),
	}

	if c.Monitoring.RefreshIntervalSeconds <= 0 {
		errs = append(errs, errors.New("monitoring.refresh_interval_seconds must be positive"))
	}
	if c.Monitoring.LookbackHours <= 0 {
		errs = append(errs, errors.New("monitoring.lookback_hours must be positive"))
	} else if c.Monitoring.LookbackHours > model.MaxLookbackHours {
		errs = append(errs, fmt.Errorf("monitoring.lookback_hours must be at most %d", model.MaxLookbackHours))
	}
	if c.Monitoring.CallTimeoutSeconds < 0 {
		errs = append(errs, errors.New("monitoring.call_timeout_seconds must not be negative"))
	}
	if c.Monitoring.Workers <= 0 {
		errs = append(errs, errors.New("monitoring.workers must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return model.Settings{}, err
	}

	return model.Settings{
		Region:    c.Region,
		Bucket:    c.S3.Bucket,
		LogLevel:  c.LogLevel,
		Datafeeds: datafeeds,
		Functions: functions,
		Pricing:   pricing,
		Monitoring: model.MonitoringSettings{
			RefreshInterval: time.Duration(c.Monitoring.RefreshIntervalSeconds) * time.Second,
			LookbackHours:   c.Monitoring.LookbackHours,
			CallTimeout:     time.Duration(c.Monitoring.CallTimeoutSeconds) * time.Second,
			Workers:         c.Monitoring.Workers,
			ListenAddr:      c.Monitoring.ListenAddr,
		},
	}, nil
}

func rate(errs *[]error, field string, value *float64) float64 {
	if value == nil {
		*errs = append(*errs, fmt.Errorf("%s is required", field))
		return 0
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		*errs = append(*errs, fmt.Errorf("%s must be a finite number", field))
		return 0
	}
	if *value < 0 {
		*errs = append(*errs, fmt.Errorf("%s must be non-negative", field))
		return 0
	}
	return *value
}
